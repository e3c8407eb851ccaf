package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"lukechampine.com/uint128"

	"github.com/solroute/arbengine/pkg/core"
	"github.com/solroute/arbengine/pkg/snapshot"
)

func flatTickArray(startTick int32, spacing uint16) *core.TickArrayRecord {
	arr := &core.TickArrayRecord{StartTick: startTick}
	// Initialize the boundary ticks of the array with offsetting liquidity
	// so the pool has a well-defined liquidity range to swap within.
	arr.Ticks[0] = core.TickState{Tick: startTick, LiquidityNet: 1_000_000_000, LiquidityGross: uint128.From64(1_000_000_000)}
	last := int(core.TicksPerArray) - 1
	arr.Ticks[last] = core.TickState{Tick: startTick + int32(last)*int32(spacing), LiquidityNet: -1_000_000_000, LiquidityGross: uint128.From64(1_000_000_000)}
	return arr
}

func clmmSnap(tickCurrent int32, spacing uint16, liquidity uint64) *snapshot.SimulationSnapshot {
	sqrtPrice, _ := sqrtPriceX64FromTick(tickCurrent)
	return &snapshot.SimulationSnapshot{
		Pool: &core.PoolRecord{
			Venue: core.VenueCLMM,
			CLMM: &core.CLMMState{
				SqrtPriceX64: uint128.FromBig(sqrtPrice),
				TickCurrent:  tickCurrent,
				TickSpacing:  spacing,
				Liquidity:    uint128.From64(liquidity),
				FeeRateBps:   25,
			},
		},
		TickArrays: map[int32]*core.TickArrayRecord{
			0: flatTickArray(0, spacing),
		},
	}
}

func TestSqrtPriceX64FromTickZeroIsUnity(t *testing.T) {
	v, err := sqrtPriceX64FromTick(0)
	require.NoError(t, err)
	assert.Equal(t, evenTickRatio, v)
}

func TestSqrtPriceX64FromTickMonotonic(t *testing.T) {
	lo, err := sqrtPriceX64FromTick(-100)
	require.NoError(t, err)
	hi, err := sqrtPriceX64FromTick(100)
	require.NoError(t, err)
	assert.Equal(t, -1, lo.Cmp(hi))
}

func TestSqrtPriceX64FromTickRejectsOutOfRange(t *testing.T) {
	_, err := sqrtPriceX64FromTick(MaxTick + 1)
	require.Error(t, err)
}

func TestSimulateCLMMWithinSingleTickRange(t *testing.T) {
	snap := clmmSnap(10, 10, 1_000_000_000)
	res, err := SimulateCLMM(snap, core.Dir0to1, core.ExactIn, 1_000, nil)
	require.NoError(t, err)
	assert.Greater(t, res.AmountOut, uint64(0))
	assert.NotNil(t, res.EndSqrtPrice)
}

func TestSimulateCLMMRejectsExactOut(t *testing.T) {
	snap := clmmSnap(10, 10, 1_000_000_000)
	_, err := SimulateCLMM(snap, core.Dir0to1, core.ExactOut, 1_000, nil)
	require.Error(t, err)
}
