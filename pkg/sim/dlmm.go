package sim

import (
	"math"
	"math/big"

	"github.com/solroute/arbengine/pkg/core"
	"github.com/solroute/arbengine/pkg/snapshot"
)

const (
	binIDOffset  = 1 << 23
	basisPointMax = 10000
	feePrecision  = 1_000_000_000_000 // 1e12, matches the teacher's FeePrecision scale
	maxFeeRateBps = 1000              // 10% hard ceiling on total fee
)

// binPrice returns the price of token Y in terms of token X at bin id,
// per §4.4.3: (1 + binStep/10000)^(id - offset).
func binPrice(binID int32, binStep uint16) float64 {
	base := 1 + float64(binStep)/basisPointMax
	return math.Pow(base, float64(int64(binID)-binIDOffset))
}

// baseFeeBps and variableFeeBps mirror GetBaseFee/ComputeVariableFee: base
// fee is a flat function of baseFactor*binStep, variable fee grows with
// the square of the volatility*binStep product and is scaled down by 1e11.
func baseFeeBps(st *core.DLMMState) *big.Int {
	r := new(big.Int).SetUint64(uint64(st.BaseFactor))
	r.Mul(r, big.NewInt(int64(st.BinStep)))
	r.Mul(r, big.NewInt(10))
	return r
}

func variableFeeBps(st *core.DLMMState, volatilityAccumulator uint32) *big.Int {
	if st.VariableFeeControl == 0 {
		return big.NewInt(0)
	}
	vab := new(big.Int).SetUint64(uint64(volatilityAccumulator) * uint64(st.BinStep))
	square := new(big.Int).Mul(vab, vab)
	fee := new(big.Int).Mul(big.NewInt(int64(st.VariableFeeControl)), square)
	fee.Add(fee, big.NewInt(99_999_999_999))
	fee.Quo(fee, big.NewInt(100_000_000_000))
	return fee
}

// FeeBpsDLMM exposes totalFeeBpsDLMM, the dynamic baseFee+variableFee
// rate, for callers outside this package. The detector does not call it;
// it backs fee rates out of its probe quotes instead.
func FeeBpsDLMM(st *core.DLMMState) uint32 {
	return totalFeeBpsDLMM(st)
}

func totalFeeBpsDLMM(st *core.DLMMState) uint32 {
	total := new(big.Int).Add(baseFeeBps(st), variableFeeBps(st, st.VolatilityAccumulator))
	max := big.NewInt(maxFeeRateBps)
	if total.Cmp(max) > 0 {
		total = max
	}
	return uint32(total.Uint64())
}

func computeFeeFromAmount(amountWithFees uint64, feeBps uint32) uint64 {
	amt := new(big.Int).SetUint64(amountWithFees)
	fee := new(big.Int).Mul(amt, big.NewInt(int64(feeBps)))
	fee.Add(fee, big.NewInt(basisPointMax-1))
	fee.Quo(fee, big.NewInt(basisPointMax))
	return fee.Uint64()
}

// SimulateDLMM executes the per-bin swap loop: at the active bin, consume
// as much input as the bin's output-side reserve allows (after fee),
// advance the active bin by +-1 when a bin is exhausted, and continue
// until input runs out or the frozen bin-array window is exhausted. Empty
// bins are crossed at zero cost but still advance the active bin, which is
// what lets the detector notice large price displacement through thin
// liquidity.
func SimulateDLMM(snap *snapshot.SimulationSnapshot, dir core.Direction, exact core.ExactSide, amountIn uint64) (core.SimResult, error) {
	if exact != core.ExactIn {
		return core.SimResult{}, core.New(core.ErrUnknown, "dlmm: exact-output not supported")
	}
	st := snap.Pool.DLMM
	if st == nil {
		return core.SimResult{}, core.New(core.ErrDecode, "dlmm: missing state")
	}
	swapForY := dir == core.Dir0to1 // selling X (mint0) for Y (mint1)

	feeBps := totalFeeBpsDLMM(st)
	activeBin := st.ActiveBinID
	remaining := amountIn
	var totalOut uint64
	var totalFee uint64
	binsCrossed := 0

	const maxBinSteps = 10000
	for step := 0; remaining > 0; step++ {
		if step >= maxBinSteps {
			return core.SimResult{}, core.New(core.ErrMathOverflow, "dlmm: exceeded maximum bin-crossing iterations")
		}
		bin, ok := lookupBin(snap, activeBin)
		if !ok {
			break // ran off the edge of the frozen bin-array window
		}

		price := binPrice(activeBin, st.BinStep)
		var reserveOut uint64
		if swapForY {
			reserveOut = bin.AmountY
		} else {
			reserveOut = bin.AmountX
		}

		if reserveOut > 0 {
			maxAmountOut := reserveOut
			var maxAmountIn uint64
			if swapForY {
				maxAmountIn = uint64(float64(maxAmountOut) / price)
			} else {
				maxAmountIn = uint64(float64(maxAmountOut) * price)
			}
			maxFee := computeFeeFromAmount(maxAmountIn, feeBps)
			maxAmountInGross := maxAmountIn + maxFee

			var amountOut, feeTaken, consumed uint64
			if remaining >= maxAmountInGross {
				amountOut = maxAmountOut
				feeTaken = maxFee
				consumed = maxAmountInGross
			} else {
				feeTaken = computeFeeFromAmount(remaining, feeBps)
				netIn := remaining - feeTaken
				var rawOut float64
				if swapForY {
					rawOut = float64(netIn) * price
				} else {
					rawOut = float64(netIn) / price
				}
				amountOut = uint64(rawOut)
				if amountOut > maxAmountOut {
					amountOut = maxAmountOut
				}
				consumed = remaining
			}

			totalOut += amountOut
			totalFee += feeTaken
			remaining -= consumed
			if remaining == 0 {
				break
			}
		}

		binsCrossed++
		if swapForY {
			activeBin--
		} else {
			activeBin++
		}
	}

	if totalOut == 0 {
		return core.SimResult{}, core.New(core.ErrInsufficientLiquidity, "dlmm: zero output")
	}

	end := activeBin
	return core.SimResult{
		AmountIn:     amountIn - remaining,
		AmountOut:    totalOut,
		FeeAmount:    totalFee,
		EndActiveBin: &end,
		BinsCrossed:  binsCrossed,
	}, nil
}

func lookupBin(snap *snapshot.SimulationSnapshot, binID int32) (core.BinRecord, bool) {
	arrayIdx := int64(binID) / int64(core.BinsPerArray)
	if binID < 0 && int64(binID)%int64(core.BinsPerArray) != 0 {
		arrayIdx--
	}
	arr, ok := snap.BinArrays[arrayIdx]
	if !ok {
		return core.BinRecord{}, false
	}
	offset := int(int64(binID) - arrayIdx*int64(core.BinsPerArray))
	if offset < 0 || offset >= core.BinsPerArray {
		return core.BinRecord{}, false
	}
	return arr.Bins[offset], true
}

// VolatilityAfterDecay projects the volatility accumulator forward per
// §4.5's fee-decay derived signal: once elapsed time exceeds filterPeriod,
// the reference resets to the current bin and the accumulator decays
// toward zero by reductionFactor over decayPeriod.
func VolatilityAfterDecay(st *core.DLMMState, elapsedSeconds int64) uint32 {
	if elapsedSeconds < int64(st.FilterPeriod) {
		return st.VolatilityAccumulator
	}
	if elapsedSeconds >= int64(st.DecayPeriod) {
		return 0
	}
	reduced := uint64(st.VolatilityAccumulator) * uint64(st.ReductionFactor) / basisPointMax
	return uint32(reduced)
}
