package bundle

import (
	"testing"

	cosmath "cosmossdk.io/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solroute/arbengine/pkg/core"
)

func TestGuardCheckRejectsBelowMinProfit(t *testing.T) {
	g := GuardConfig{MinProfitLamports: cosmath.NewInt(1_000)}
	err := g.Check(Candidate{NetProfitLamports: cosmath.NewInt(500)}, GuardState{})
	require.Error(t, err)
	assert.Equal(t, core.ErrGuardTripped, err.(*core.Error).Kind)
}

func TestGuardCheckRejectsAboveMaxAbsolute(t *testing.T) {
	g := GuardConfig{MaxAbsoluteNetLamports: cosmath.NewInt(10_000)}
	err := g.Check(Candidate{NetProfitLamports: cosmath.NewInt(20_000)}, GuardState{})
	require.Error(t, err)
}

func TestGuardCheckRejectsAboveMaxNetToInputRatio(t *testing.T) {
	g := GuardConfig{MaxNetToInputBps: 500}
	err := g.Check(Candidate{InputLamports: cosmath.NewInt(1_000_000), NetProfitLamports: cosmath.NewInt(100_000)}, GuardState{})
	require.Error(t, err)
}

func TestGuardCheckRejectsAboveCanaryInputCeiling(t *testing.T) {
	g := GuardConfig{CanaryMaxInputLamports: cosmath.NewInt(1_000)}
	err := g.Check(Candidate{InputLamports: cosmath.NewInt(2_000)}, GuardState{})
	require.Error(t, err)
}

func TestGuardCheckRejectsAtHourlySubmissionCap(t *testing.T) {
	g := GuardConfig{CanaryMaxSubmissionsPerHour: 3}
	err := g.Check(Candidate{}, GuardState{SubmissionsThisHour: 3})
	require.Error(t, err)
}

func TestGuardCheckPassesWithinAllLimits(t *testing.T) {
	g := GuardConfig{
		MinProfitLamports:           cosmath.NewInt(100),
		MaxAbsoluteNetLamports:      cosmath.NewInt(100_000),
		MaxNetToInputBps:            5_000,
		CanaryMaxInputLamports:      cosmath.NewInt(10_000_000),
		CanaryMaxSubmissionsPerHour: 10,
		MaxWalletDrawdownLamports:   cosmath.NewInt(1_000_000),
	}
	err := g.Check(Candidate{InputLamports: cosmath.NewInt(1_000_000), NetProfitLamports: cosmath.NewInt(5_000)}, GuardState{SubmissionsThisHour: 1})
	assert.NoError(t, err)
}

func TestGuardCheckPassesWithZeroValueLimitsAndCandidate(t *testing.T) {
	err := GuardConfig{}.Check(Candidate{}, GuardState{})
	assert.NoError(t, err)
}

func TestIsFatalOnlyForDrawdown(t *testing.T) {
	g := GuardConfig{MaxWalletDrawdownLamports: cosmath.NewInt(1_000)}
	assert.True(t, IsFatal(g, GuardState{WalletDrawdown: cosmath.NewInt(1_500)}))
	assert.False(t, IsFatal(g, GuardState{WalletDrawdown: cosmath.NewInt(500)}))
}
