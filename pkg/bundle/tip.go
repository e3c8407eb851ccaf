package bundle

import (
	"crypto/rand"
	"math/big"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"

	"github.com/solroute/arbengine/pkg/core"
)

// TipAccountSet is the fixed rotation of tip recipients a bundle's tip
// transaction pays into, chosen uniformly at random per submission rather
// than a single hardcoded address (matching the teacher's
// GetRandomTipAccount, generalized from "ask the block builder for one" to
// "pick one of a fixed configured set" since this package never makes RPC
// calls of its own).
type TipAccountSet []core.Pubkey

// Pick selects one recipient uniformly at random.
func (s TipAccountSet) Pick() (core.Pubkey, error) {
	if len(s) == 0 {
		return core.Pubkey{}, core.New(core.ErrUnknown, "bundle: empty tip account set")
	}
	if len(s) == 1 {
		return s[0], nil
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(s))))
	if err != nil {
		return core.Pubkey{}, core.Wrap(core.ErrUnknown, "bundle: select random tip account", err)
	}
	return s[n.Int64()], nil
}

// buildTipInstruction mirrors the teacher's createTipTransaction: a single
// system transfer from the payer to the chosen tip account. It returns the
// instruction only; blockhash and signing are the composer's job so every
// transaction in the bundle can share one blockhash fetch.
func buildTipInstruction(payer, tipAccount core.Pubkey, lamports uint64) solana.Instruction {
	return system.NewTransferInstruction(lamports, payer, tipAccount).Build()
}
