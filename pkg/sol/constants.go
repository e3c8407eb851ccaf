package sol

import "github.com/gagliardetto/solana-go"

// WSOL is the canonical wrapped-SOL mint address.
var WSOL = solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112")
