// Package sim implements the four venues' swap math as pure functions of a
// snapshot. Nothing here performs I/O; every simulator is
// (snapshot, direction, exact side, amount) -> SimResult. Detection and
// bundle building only ever chain ExactIn legs (§4.4.4's leg-chaining rule);
// ExactOut is accepted for API symmetry but not implemented for any venue.
package sim

import (
	"github.com/solroute/arbengine/pkg/core"
	"github.com/solroute/arbengine/pkg/snapshot"
)

func reservesFor(snap *snapshot.SimulationSnapshot, dir core.Direction) (uint64, uint64) {
	if dir == core.Dir0to1 {
		return snap.Vault0.Amount, snap.Vault1.Amount
	}
	return snap.Vault1.Amount, snap.Vault0.Amount
}

func cpmmFeeBps(rec *core.PoolRecord, snap *snapshot.SimulationSnapshot) uint32 {
	if rec.CPMM.TotalFeeBps != 0 {
		return rec.CPMM.TotalFeeBps
	}
	if snap.Config != nil && snap.Config.FeeRateBps != 0 {
		return snap.Config.FeeRateBps
	}
	return 25
}

// SimulateCPMM dispatches between the two constant-product fee rules.
// exact must be core.ExactIn; ExactOut returns core.ErrUnknown.
func SimulateCPMM(snap *snapshot.SimulationSnapshot, dir core.Direction, exact core.ExactSide, amountIn uint64) (core.SimResult, error) {
	if exact != core.ExactIn {
		return core.SimResult{}, core.New(core.ErrUnknown, "cpmm: exact-output not supported")
	}
	rec := snap.Pool
	if rec.CPMM == nil {
		return core.SimResult{}, core.New(core.ErrDecode, "cpmm: missing state")
	}
	reserveIn, reserveOut := reservesFor(snap, dir)
	if reserveIn == 0 || reserveOut == 0 {
		return core.SimResult{}, core.New(core.ErrInsufficientLiquidity, "cpmm: empty reserve")
	}
	if amountIn == 0 {
		return core.SimResult{}, core.New(core.ErrInsufficientLiquidity, "cpmm: zero input")
	}

	if rec.Venue == core.VenueCPMMB {
		return simulateCPMMBVariant(rec, reserveIn, reserveOut, amountIn)
	}

	// Variant A: selling base (0->1) uses fee-on-output; buying base (1->0)
	// uses fee-on-input with the mandatory ceiling correction.
	feeBps := uint64(cpmmFeeBps(rec, snap))
	if dir == core.Dir0to1 {
		return simulateCPMMAFeeOnOutput(reserveIn, reserveOut, amountIn, feeBps)
	}
	return simulateCPMMAFeeOnInput(reserveIn, reserveOut, amountIn, feeBps)
}

// simulateCPMMAFeeOnOutput: grossOut = quote*amountIn/(base+amountIn);
// outputAmount = grossOut - grossOut*totalFeeBps/10000.
func simulateCPMMAFeeOnOutput(reserveIn, reserveOut, amountIn, feeBps uint64) (core.SimResult, error) {
	grossOut := mulDiv(reserveOut, amountIn, reserveIn+amountIn)
	fee := mulDiv(grossOut, feeBps, 10000)
	if fee > grossOut {
		return core.SimResult{}, core.New(core.ErrMathOverflow, "cpmm_a: fee exceeds gross output")
	}
	out := grossOut - fee
	if out == 0 {
		return core.SimResult{}, core.New(core.ErrInsufficientLiquidity, "cpmm_a: zero output")
	}
	return core.SimResult{AmountIn: amountIn, AmountOut: out, FeeAmount: fee}, nil
}

// simulateCPMMAFeeOnInput inverts the fee on the net input before applying
// the constant-product step, with the mandatory ceiling correction:
// net = amountIn*10000/(10000+totalFeeBps); bump net by 1 if
// net + ceil(net*totalFeeBps/10000) < amountIn.
func simulateCPMMAFeeOnInput(reserveIn, reserveOut, amountIn, feeBps uint64) (core.SimResult, error) {
	net := mulDiv(amountIn, 10000, 10000+feeBps)
	feeOnNet := ceilDiv(net*feeBps, 10000)
	if net+feeOnNet < amountIn {
		net++
	}
	out := mulDiv(reserveOut, net, reserveIn+net)
	if out == 0 {
		return core.SimResult{}, core.New(core.ErrInsufficientLiquidity, "cpmm_a: zero output")
	}
	fee := amountIn - net
	return core.SimResult{AmountIn: amountIn, AmountOut: out, FeeAmount: fee}, nil
}

// simulateCPMMBVariant: amountAfterFee = amountIn - floor(amountIn*num/den)
// applied before the constant-product step.
func simulateCPMMBVariant(rec *core.PoolRecord, reserveIn, reserveOut, amountIn uint64) (core.SimResult, error) {
	num, den := rec.CPMM.FeeNumerator, rec.CPMM.FeeDenominator
	if den == 0 {
		den = 10000
	}
	fee := mulDiv(amountIn, num, den)
	amountAfterFee := amountIn - fee
	out := mulDiv(reserveOut, amountAfterFee, reserveIn+amountAfterFee)
	if out == 0 {
		return core.SimResult{}, core.New(core.ErrInsufficientLiquidity, "cpmm_b: zero output")
	}
	return core.SimResult{AmountIn: amountIn, AmountOut: out, FeeAmount: fee}, nil
}

func mulDiv(a, b, denom uint64) uint64 {
	if denom == 0 {
		return 0
	}
	// amounts here stay well under 2^63 for any realistic pool; a 128-bit
	// intermediate is used anyway to avoid overflow on the multiply.
	hi, lo := bitsMul64(a, b)
	q, _ := bitsDiv128(hi, lo, denom)
	return q
}

func ceilDiv(a, denom uint64) uint64 {
	if denom == 0 {
		return 0
	}
	if a%denom == 0 {
		return a / denom
	}
	return a/denom + 1
}
