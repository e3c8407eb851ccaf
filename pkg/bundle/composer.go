package bundle

import (
	"context"
	"time"

	"github.com/gagliardetto/solana-go"
	computebudget "github.com/gagliardetto/solana-go/programs/compute-budget"

	"github.com/solroute/arbengine/pkg/core"
)

// TxSigner is the signing boundary this package depends on but never
// implements: producing a wire-ready signed transaction from an ordered
// instruction list and a shared blockhash. Key material and signing
// mechanics are explicitly out of scope here; the engine wires a concrete
// implementation backed by pkg/sol.
type TxSigner interface {
	Sign(ctx context.Context, blockhash [32]byte, instrs []solana.Instruction) ([]byte, error)
}

// LegPlan is one resolved swap leg ready to become an instruction: the
// wire-format data from encodeSwapData plus the account list from
// BuildLegAccounts.
type LegPlan struct {
	Leg      core.SwapLeg
	Accounts LegAccounts
}

// ComposeParams is everything Compose needs beyond the opportunity's two
// legs: compute-budget sizing, the tip, and the signing/blockhash
// boundaries.
type ComposeParams struct {
	Opportunity core.Opportunity
	Legs        []LegPlan
	VictimTx    []byte // raw signed wire bytes, passed through verbatim if non-nil

	Payer       core.Pubkey
	CUPriceMicrolamports uint64
	CULimit              uint32
	TipLamports          uint64
	TipAccounts          TipAccountSet

	Signer     TxSigner
	Blockhash  *BlockhashProvider
}

// Compose assembles the full bundle: an optional victim transaction first,
// then the arb transaction (compute-budget hints followed by every leg's
// swap instruction), then the tip transaction last — all sharing one
// blockhash fetch.
func Compose(ctx context.Context, p ComposeParams) (core.Bundle, error) {
	if len(p.Legs) == 0 {
		return core.Bundle{}, core.New(core.ErrUnknown, "bundle: no legs to compose")
	}

	blockhash, err := p.Blockhash.Get(ctx, false)
	if err != nil {
		return core.Bundle{}, err
	}

	arbInstrs := make([]solana.Instruction, 0, len(p.Legs)+2)
	if p.CULimit > 0 {
		arbInstrs = append(arbInstrs, computebudget.NewSetComputeUnitLimitInstruction(p.CULimit).Build())
	}
	if p.CUPriceMicrolamports > 0 {
		arbInstrs = append(arbInstrs, computebudget.NewSetComputeUnitPriceInstruction(p.CUPriceMicrolamports).Build())
	}
	for _, lp := range p.Legs {
		data := encodeSwapData(lp.Leg)
		arbInstrs = append(arbInstrs, solana.NewInstruction(lp.Accounts.Program, lp.Accounts.Accounts, data))
	}

	arbTx, err := p.Signer.Sign(ctx, blockhash, arbInstrs)
	if err != nil {
		return core.Bundle{}, core.Wrap(core.ErrUnknown, "bundle: sign arb transaction", err)
	}

	tipAccount, err := p.TipAccounts.Pick()
	if err != nil {
		return core.Bundle{}, err
	}
	tipTx, err := p.Signer.Sign(ctx, blockhash, []solana.Instruction{buildTipInstruction(p.Payer, tipAccount, p.TipLamports)})
	if err != nil {
		return core.Bundle{}, core.Wrap(core.ErrUnknown, "bundle: sign tip transaction", err)
	}

	txs := make([][]byte, 0, 2)
	if p.VictimTx != nil {
		txs = append(txs, p.VictimTx)
	}
	txs = append(txs, arbTx)

	return core.Bundle{
		Blockhash:      blockhash,
		Transactions:   txs,
		TipTransaction: tipTx,
		Opportunity:    p.Opportunity,
		BuiltAt:        time.Now(),
	}, nil
}
