package sim

import (
	"math/big"

	"lukechampine.com/uint128"

	"github.com/solroute/arbengine/pkg/core"
	"github.com/solroute/arbengine/pkg/snapshot"
)

var q64 = new(big.Int).Lsh(big.NewInt(1), 64)

func u128ToBig(v uint128.Uint128) *big.Int { return v.Big() }

func bigToU128(v *big.Int) uint128.Uint128 {
	return uint128.FromBig(v)
}

// amount0Delta computes the base-token amount spanning [sqrtLo, sqrtHi] at
// the given liquidity: L * (sqrtHi - sqrtLo) * 2^64 / (sqrtLo * sqrtHi).
func amount0Delta(sqrtLo, sqrtHi, liquidity *big.Int) *big.Int {
	num := new(big.Int).Mul(liquidity, new(big.Int).Sub(sqrtHi, sqrtLo))
	num.Mul(num, q64)
	den := new(big.Int).Mul(sqrtLo, sqrtHi)
	if den.Sign() == 0 {
		return big.NewInt(0)
	}
	return num.Quo(num, den)
}

// amount1Delta computes the quote-token amount: L * (sqrtHi - sqrtLo) / 2^64.
func amount1Delta(sqrtLo, sqrtHi, liquidity *big.Int) *big.Int {
	num := new(big.Int).Mul(liquidity, new(big.Int).Sub(sqrtHi, sqrtLo))
	return num.Quo(num, q64)
}

// nextSqrtPriceFromAmount0 solves sqrtNext given amount0 consumed, keeping
// liquidity fixed: sqrtNext = L*sqrtP*2^64 / (L*2^64 +/- amount0*sqrtP).
func nextSqrtPriceFromAmount0(sqrtP, liquidity, amount0 *big.Int, add bool) *big.Int {
	product := new(big.Int).Mul(amount0, sqrtP)
	lShifted := new(big.Int).Mul(liquidity, q64)
	var denom *big.Int
	if add {
		denom = new(big.Int).Add(lShifted, product)
	} else {
		denom = new(big.Int).Sub(lShifted, product)
		if denom.Sign() <= 0 {
			return big.NewInt(0)
		}
	}
	num := new(big.Int).Mul(liquidity, sqrtP)
	num.Mul(num, q64)
	return num.Quo(num, denom)
}

// nextSqrtPriceFromAmount1 solves sqrtNext given amount1 consumed:
// sqrtNext = sqrtP +/- amount1*2^64/L.
func nextSqrtPriceFromAmount1(sqrtP, liquidity, amount1 *big.Int, add bool) *big.Int {
	delta := new(big.Int).Mul(amount1, q64)
	delta.Quo(delta, liquidity)
	if add {
		return new(big.Int).Add(sqrtP, delta)
	}
	out := new(big.Int).Sub(sqrtP, delta)
	if out.Sign() < 0 {
		return big.NewInt(0)
	}
	return out
}

const clmmMaxIterations = 100

// SimulateCLMM executes the tick-crossing swap loop: for each step it moves
// sqrtPrice toward the next initialized tick (or the caller's price limit,
// whichever is closer), consumes liquidity across that range, deducts fees,
// and crosses the tick by applying its signed liquidityNet. It loops until
// input is exhausted, the price limit is hit, or no further initialized
// tick exists within the frozen tick-array window.
func SimulateCLMM(snap *snapshot.SimulationSnapshot, dir core.Direction, exact core.ExactSide, amountIn uint64, sqrtPriceLimit *uint64) (core.SimResult, error) {
	if exact != core.ExactIn {
		return core.SimResult{}, core.New(core.ErrUnknown, "clmm: exact-output not supported")
	}
	st := snap.Pool.CLMM
	if st == nil {
		return core.SimResult{}, core.New(core.ErrDecode, "clmm: missing state")
	}
	zeroForOne := dir == core.Dir0to1

	feeBps := st.FeeRateBps
	if feeBps == 0 && snap.Config != nil {
		feeBps = snap.Config.FeeRateBps
	}
	if feeBps == 0 {
		feeBps = 25
	}

	sqrtPrice := u128ToBig(st.SqrtPriceX64)
	liquidity := u128ToBig(st.Liquidity)
	tick := st.TickCurrent

	limit := new(big.Int)
	if sqrtPriceLimit != nil {
		limit.SetUint64(*sqrtPriceLimit)
	} else if zeroForOne {
		limit, _ = sqrtPriceX64FromTick(MinTick + 1)
	} else {
		limit, _ = sqrtPriceX64FromTick(MaxTick - 1)
	}

	remaining := new(big.Int).SetUint64(amountIn)
	totalOut := new(big.Int)
	totalFee := new(big.Int)
	ticksCrossed := 0

	for iter := 0; ; iter++ {
		if iter >= clmmMaxIterations {
			return core.SimResult{}, core.New(core.ErrMathOverflow, "clmm: exceeded maximum swap-step iterations")
		}
		if remaining.Sign() == 0 {
			break
		}
		if sqrtPrice.Cmp(limit) == 0 {
			break
		}

		nextTick, found := nextInitializedTick(snap, tick, st.TickSpacing, zeroForOne)
		if !found {
			break
		}
		sqrtPriceNext, err := sqrtPriceX64FromTick(clampTick(nextTick))
		if err != nil {
			return core.SimResult{}, err
		}

		target := sqrtPriceNext
		if (zeroForOne && sqrtPriceNext.Cmp(limit) < 0) || (!zeroForOne && sqrtPriceNext.Cmp(limit) > 0) {
			target = limit
		}

		stepSqrtLo, stepSqrtHi := sqrtPrice, target
		if zeroForOne {
			stepSqrtLo, stepSqrtHi = target, sqrtPrice
		}

		maxIn := amount0Delta(stepSqrtLo, stepSqrtHi, liquidity)
		if !zeroForOne {
			maxIn = amount1Delta(stepSqrtLo, stepSqrtHi, liquidity)
		}

		remainingAfterFee := applyFeeInverse(remaining, feeBps)
		var stepIn, stepOut, stepFee, newSqrtPrice *big.Int
		if remainingAfterFee.Cmp(maxIn) >= 0 {
			stepIn = maxIn
			stepFee = applyFeeForward(stepIn, feeBps)
			newSqrtPrice = target
			if zeroForOne {
				stepOut = amount1Delta(stepSqrtLo, stepSqrtHi, liquidity)
			} else {
				stepOut = amount0Delta(stepSqrtLo, stepSqrtHi, liquidity)
			}
		} else {
			stepIn = remainingAfterFee
			if zeroForOne {
				newSqrtPrice = nextSqrtPriceFromAmount0(sqrtPrice, liquidity, stepIn, true)
				stepOut = amount1Delta(newSqrtPrice, sqrtPrice, liquidity)
			} else {
				newSqrtPrice = nextSqrtPriceFromAmount1(sqrtPrice, liquidity, stepIn, true)
				stepOut = amount0Delta(sqrtPrice, newSqrtPrice, liquidity)
			}
			// the step ends inside the range: whatever input is not swapped is fee
			stepFee = new(big.Int).Sub(remaining, stepIn)
		}

		consumed := new(big.Int).Add(stepIn, stepFee)
		if consumed.Cmp(remaining) > 0 {
			consumed = remaining
		}
		remaining.Sub(remaining, consumed)
		totalOut.Add(totalOut, stepOut)
		totalFee.Add(totalFee, stepFee)
		sqrtPrice = newSqrtPrice

		if sqrtPrice.Cmp(target) == 0 && target.Cmp(sqrtPriceNext) == 0 {
			ticksCrossed++
			netLiquidity := tickNetLiquidity(snap, nextTick)
			if zeroForOne {
				netLiquidity = -netLiquidity
			}
			liquidity = new(big.Int).Add(liquidity, big.NewInt(netLiquidity))
			if liquidity.Sign() < 0 {
				return core.SimResult{}, core.New(core.ErrMathOverflow, "clmm: liquidity underflow crossing tick")
			}
			if zeroForOne {
				tick = nextTick - 1
			} else {
				tick = nextTick
			}
		} else {
			tick = tickFromSqrtPrice(sqrtPrice, tick, st.TickSpacing)
		}
	}

	if totalOut.Sign() == 0 {
		return core.SimResult{}, core.New(core.ErrInsufficientLiquidity, "clmm: zero output")
	}

	endSqrt := sqrtPrice.Uint64()
	return core.SimResult{
		AmountIn:     amountIn,
		AmountOut:    totalOut.Uint64(),
		FeeAmount:    totalFee.Uint64(),
		EndSqrtPrice: &endSqrt,
		TicksCrossed: ticksCrossed,
	}, nil
}

func clampTick(t int32) int32 {
	if int(t) < MinTick {
		return MinTick
	}
	if int(t) > MaxTick {
		return MaxTick
	}
	return t
}

// applyFeeForward returns the fee portion of an input amount already net of
// fee (i.e. the fee actually charged on top of stepIn).
func applyFeeForward(amount *big.Int, feeBps uint32) *big.Int {
	num := new(big.Int).Mul(amount, big.NewInt(int64(feeBps)))
	den := big.NewInt(10000 - int64(feeBps))
	if den.Sign() <= 0 {
		return big.NewInt(0)
	}
	f := new(big.Int).Quo(num, den)
	return f
}

// applyFeeInverse returns the max pre-fee-equivalent amount consumable from
// a gross remaining balance: remaining*(10000-feeBps)/10000.
func applyFeeInverse(remaining *big.Int, feeBps uint32) *big.Int {
	num := new(big.Int).Mul(remaining, big.NewInt(10000-int64(feeBps)))
	return num.Quo(num, big.NewInt(10000))
}

// nextInitializedTick scans the frozen tick-array window for the nearest
// initialized tick strictly in the direction of travel. Ties (equidistant
// in two arrays) favor the array in the current direction of travel, which
// falls out naturally here because arrays are scanned outward from tick.
func nextInitializedTick(snap *snapshot.SimulationSnapshot, tick int32, spacing uint16, zeroForOne bool) (int32, bool) {
	best := int32(0)
	found := false
	for _, arr := range snap.TickArrays {
		for _, ts := range arr.Ticks {
			if !ts.Initialized() {
				continue
			}
			if zeroForOne {
				if ts.Tick < tick && (!found || ts.Tick > best) {
					best, found = ts.Tick, true
				}
			} else {
				if ts.Tick > tick && (!found || ts.Tick < best) {
					best, found = ts.Tick, true
				}
			}
		}
	}
	return best, found
}

func tickNetLiquidity(snap *snapshot.SimulationSnapshot, tick int32) int64 {
	for _, arr := range snap.TickArrays {
		for _, ts := range arr.Ticks {
			if ts.Tick == tick {
				return ts.LiquidityNet
			}
		}
	}
	return 0
}

// tickFromSqrtPrice is only used to keep the loop's tick cursor roughly in
// sync when a step stops short of an initialized tick (i.e. the price
// limit was hit); exact tick recovery isn't needed since the loop is about
// to terminate in that case.
func tickFromSqrtPrice(sqrtPrice *big.Int, fallback int32, _ uint16) int32 {
	return fallback
}
