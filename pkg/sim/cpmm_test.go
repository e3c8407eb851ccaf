package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solroute/arbengine/pkg/core"
	"github.com/solroute/arbengine/pkg/snapshot"
)

func cpmmSnap(venue core.Venue, reserve0, reserve1 uint64, totalFeeBps uint32, num, den uint64) *snapshot.SimulationSnapshot {
	return &snapshot.SimulationSnapshot{
		Pool: &core.PoolRecord{
			Venue: venue,
			CPMM: &core.CPMMState{
				TotalFeeBps:    totalFeeBps,
				FeeNumerator:   num,
				FeeDenominator: den,
			},
		},
		Vault0: &core.VaultRecord{Amount: reserve0},
		Vault1: &core.VaultRecord{Amount: reserve1},
	}
}

func TestSimulateCPMMAFeeOnOutputSellingBase(t *testing.T) {
	snap := cpmmSnap(core.VenueCPMMA, 1_000_000, 2_000_000, 25, 0, 0)
	res, err := SimulateCPMM(snap, core.Dir0to1, core.ExactIn, 10_000)
	require.NoError(t, err)
	assert.Greater(t, res.AmountOut, uint64(0))
	assert.Less(t, res.AmountOut, uint64(20_000)) // well under the naive 2x reserve ratio
	assert.Greater(t, res.FeeAmount, uint64(0))
}

func TestSimulateCPMMAFeeOnInputBuyingBase(t *testing.T) {
	snap := cpmmSnap(core.VenueCPMMA, 1_000_000, 2_000_000, 25, 0, 0)
	res, err := SimulateCPMM(snap, core.Dir1to0, core.ExactIn, 10_000)
	require.NoError(t, err)
	assert.Greater(t, res.AmountOut, uint64(0))
	assert.Equal(t, uint64(10_000), res.AmountIn)
}

func TestSimulateCPMMBFeeRatio(t *testing.T) {
	snap := cpmmSnap(core.VenueCPMMB, 5_000_000, 5_000_000, 0, 25, 10_000)
	res, err := SimulateCPMM(snap, core.Dir0to1, core.ExactIn, 100_000)
	require.NoError(t, err)
	assert.Greater(t, res.AmountOut, uint64(0))
	assert.Greater(t, res.FeeAmount, uint64(0))
}

func TestSimulateCPMMRejectsExactOut(t *testing.T) {
	snap := cpmmSnap(core.VenueCPMMA, 1_000_000, 1_000_000, 25, 0, 0)
	_, err := SimulateCPMM(snap, core.Dir0to1, core.ExactOut, 1_000)
	require.Error(t, err)
	var cerr *core.Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, core.ErrUnknown, cerr.Kind)
}

func TestSimulateCPMMRejectsEmptyReserve(t *testing.T) {
	snap := cpmmSnap(core.VenueCPMMA, 0, 1_000_000, 25, 0, 0)
	_, err := SimulateCPMM(snap, core.Dir0to1, core.ExactIn, 1_000)
	require.Error(t, err)
	var cerr *core.Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, core.ErrInsufficientLiquidity, cerr.Kind)
}

func TestMulDivRoundsDown(t *testing.T) {
	assert.Equal(t, uint64(3), mulDiv(10, 1, 3))
	assert.Equal(t, uint64(0), mulDiv(1, 1, 1_000_000))
}

func TestCeilDivRoundsUp(t *testing.T) {
	assert.Equal(t, uint64(4), ceilDiv(10, 3))
	assert.Equal(t, uint64(3), ceilDiv(9, 3))
}
