// Package decode turns raw account and transaction bytes into the typed
// records pkg/core defines. Decoders never touch the cache; they are pure
// functions of (owner, data, size) so they can be fuzzed and unit-tested in
// isolation, matching how the teacher kept pool.Decode free of any RPC call.
package decode

import "github.com/gagliardetto/solana-go"

// Program ids for the four supported venue families plus the token program
// used to validate vault layouts. These are the real mainnet program
// addresses for each venue.
var (
	ProgramCPMM_A = solana.MustPublicKeyFromBase58("CPMMoo8L3F4NbTegBCKVNunggL7H1ZpdTHKxQB5qKP1C")
	ProgramCPMM_B = solana.MustPublicKeyFromBase58("675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8")
	ProgramCLMM   = solana.MustPublicKeyFromBase58("CAMMCzo5YL8w4VFF8KVHrK22GGUsp5VTaW7grrKgrWqK")
	ProgramDLMM   = solana.MustPublicKeyFromBase58("LBUZKhRxPF3XUpBCjp4YzTKgLccjZhTSDM9YuVaPwxo")

	TokenProgram     = solana.MustPublicKeyFromBase58("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")
	Token2022Program = solana.MustPublicKeyFromBase58("TokenzQdBNbLqP5VEhdkAS6EPFLC1PHnBqCXEpPxuEb")
)
