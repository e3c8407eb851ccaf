package decode

import (
	"github.com/solroute/arbengine/pkg/core"
)

// Instruction is the minimal shape a decoded transaction message exposes:
// which program owns it, the raw instruction data, and the account list in
// message order. The pending-tx stream adapter is responsible for producing
// these from whatever wire format it demuxes; pkg/decode never touches the
// transaction envelope itself.
type Instruction struct {
	ProgramID core.Pubkey
	Data      []byte
	Accounts  []core.Pubkey
}

// legParsers dispatches by owning program id, mirroring the multi-DEX
// dispatch table pattern (programID -> parser) used for log-based swap
// extraction elsewhere in the retrieval pack.
var legParsers = map[core.Pubkey]func(Instruction) (*core.SwapLeg, error){
	ProgramCPMM_A: parseCPMMALeg,
	ProgramCPMM_B: parseCPMMBLeg,
	ProgramCLMM:   parseCLMMLeg,
	ProgramDLMM:   parseDLMMLeg,
}

// ParseSwapLegs walks a transaction's top-level instructions and returns an
// ordered list of swap legs for every one this engine recognizes. An
// instruction belonging to an unrecognized program, or one whose data
// doesn't match a known swap discriminator, is silently skipped rather than
// failing the whole transaction — most instructions in a real transaction
// aren't swaps (compute-budget requests, ATA creation, memos).
func ParseSwapLegs(instructions []Instruction) ([]core.SwapLeg, error) {
	var legs []core.SwapLeg
	for _, ix := range instructions {
		parse, ok := legParsers[ix.ProgramID]
		if !ok {
			continue
		}
		leg, err := parse(ix)
		if err != nil {
			continue // not a swap instruction on this program, e.g. init/deposit
		}
		if leg != nil {
			legs = append(legs, *leg)
		}
	}
	return legs, nil
}

// requireAccounts guards the minimal account-index contract every venue's
// swap instruction shares in this engine: the pool and the input/output
// vaults sit at fixed positions in the instruction's account list, the same
// positions pkg/bundle's per-venue account builders write them to.
func requireAccounts(ix Instruction, n int) bool { return len(ix.Accounts) >= n }

func parseCPMMALeg(ix Instruction) (*core.SwapLeg, error) {
	if !matchesDisc(ix.Data, discCPMMASwapIn) || len(ix.Data) < 24 || !requireAccounts(ix, 8) {
		return nil, core.New(core.ErrDecode, "cpmm_a: not a swap instruction")
	}
	amountIn := u64le(ix.Data[8:])
	minOut := u64le(ix.Data[16:])
	return &core.SwapLeg{
		Venue:        core.VenueCPMMA,
		Pool:         ix.Accounts[3],
		InputVault:   ix.Accounts[6],
		OutputVault:  ix.Accounts[7],
		Exact:        core.ExactIn,
		AmountIn:     amountIn,
		MinAmountOut: minOut,
	}, nil
}

func parseCPMMBLeg(ix Instruction) (*core.SwapLeg, error) {
	if len(ix.Data) < 1+16 || ix.Data[0] != cpmmBSwapOpcode || !requireAccounts(ix, 8) {
		return nil, core.New(core.ErrDecode, "cpmm_b: not a swap instruction")
	}
	amountIn := u64le(ix.Data[1:])
	minOut := u64le(ix.Data[9:])
	return &core.SwapLeg{
		Venue:        core.VenueCPMMB,
		Pool:         ix.Accounts[1],
		InputVault:   ix.Accounts[5],
		OutputVault:  ix.Accounts[6],
		Exact:        core.ExactIn,
		AmountIn:     amountIn,
		MinAmountOut: minOut,
	}, nil
}

func parseCLMMLeg(ix Instruction) (*core.SwapLeg, error) {
	if !matchesDisc(ix.Data, discCLMMSwap) || len(ix.Data) < 8+8+8+16+1 || !requireAccounts(ix, 13) {
		return nil, core.New(core.ErrDecode, "clmm: not a swap instruction")
	}
	amount := u64le(ix.Data[8:])
	otherThreshold := u64le(ix.Data[16:])
	sqrtPriceLimitLo := u64le(ix.Data[24:])
	isBaseInput := ix.Data[24+16] != 0

	leg := &core.SwapLeg{
		Venue:          core.VenueCLMM,
		Pool:           ix.Accounts[2],
		InputVault:     ix.Accounts[5],
		OutputVault:    ix.Accounts[6],
		SqrtPriceLimit: &sqrtPriceLimitLo,
	}
	if isBaseInput {
		leg.Exact = core.ExactIn
		leg.AmountIn = amount
		leg.MinAmountOut = otherThreshold
	} else {
		leg.Exact = core.ExactOut
		leg.AmountOut = amount
		leg.MaxAmountIn = otherThreshold
	}
	return leg, nil
}

func parseDLMMLeg(ix Instruction) (*core.SwapLeg, error) {
	if !matchesDisc(ix.Data, discDLMMSwap) || len(ix.Data) < 24 || !requireAccounts(ix, 16) {
		return nil, core.New(core.ErrDecode, "dlmm: not a swap instruction")
	}
	amountIn := u64le(ix.Data[8:])
	minOut := u64le(ix.Data[16:])
	return &core.SwapLeg{
		Venue:        core.VenueDLMM,
		Pool:         ix.Accounts[0],
		InputVault:   ix.Accounts[2],
		OutputVault:  ix.Accounts[3],
		Exact:        core.ExactIn,
		AmountIn:     amountIn,
		MinAmountOut: minOut,
	}, nil
}
