package bundle

import (
	cosmath "cosmossdk.io/math"

	"github.com/solroute/arbengine/pkg/core"
)

// GuardConfig holds the six size guards §4.6 requires every candidate
// bundle to clear before submission. Each is a hard floor/ceiling; a
// single violation aborts the bundle with a reason code, never a partial
// downsize. Lamport amounts are cosmath.Int, matching the teacher's
// arbitrary-precision convention for on-chain token quantities. A field
// left as the zero Int{} (IsNil) is treated as "no limit", same as the
// teacher's config records where an absent override falls back to a
// venue default.
type GuardConfig struct {
	MinProfitLamports           cosmath.Int
	MaxNetToInputBps            int64
	MaxAbsoluteNetLamports      cosmath.Int
	CanaryMaxSubmissionsPerHour int
	CanaryMaxInputLamports      cosmath.Int
	MaxWalletDrawdownLamports   cosmath.Int
}

// GuardState is the small amount of rolling counters the guards need
// across calls: submissions in the current canary hour and cumulative
// realized drawdown.
type GuardState struct {
	SubmissionsThisHour int
	WalletDrawdown      cosmath.Int
}

// Candidate is the minimal shape GuardConfig checks against: the sized
// opportunity plus its expected net profit in lamports.
type Candidate struct {
	Opportunity       core.Opportunity
	InputLamports     cosmath.Int
	NetProfitLamports cosmath.Int
}

// Check runs every guard in a fixed order and returns the first violation,
// or nil if the candidate clears all six.
func (g GuardConfig) Check(c Candidate, state GuardState) error {
	c.NetProfitLamports = orZero(c.NetProfitLamports)
	c.InputLamports = orZero(c.InputLamports)

	if !g.MinProfitLamports.IsNil() && c.NetProfitLamports.LT(g.MinProfitLamports) {
		return core.New(core.ErrGuardTripped, "net profit below minProfitLamports")
	}
	if !g.MaxAbsoluteNetLamports.IsNil() && c.NetProfitLamports.GT(g.MaxAbsoluteNetLamports) {
		return core.New(core.ErrGuardTripped, "net profit exceeds maxAbsoluteNetLamports: implausible, treat as a pricing bug")
	}
	if g.MaxNetToInputBps > 0 && c.InputLamports.IsPositive() {
		netBps := c.NetProfitLamports.MulRaw(10000).Quo(c.InputLamports)
		if netBps.GT(cosmath.NewInt(g.MaxNetToInputBps)) {
			return core.New(core.ErrGuardTripped, "net-to-input ratio exceeds maxNetToInputBps")
		}
	}
	if !g.CanaryMaxInputLamports.IsNil() && c.InputLamports.GT(g.CanaryMaxInputLamports) {
		return core.New(core.ErrGuardTripped, "input exceeds canaryMaxInputLamports")
	}
	if g.CanaryMaxSubmissionsPerHour > 0 && state.SubmissionsThisHour >= g.CanaryMaxSubmissionsPerHour {
		return core.New(core.ErrGuardTripped, "canaryMaxSubmissionsPerHour reached")
	}
	if IsFatal(g, state) {
		return core.New(core.ErrGuardTripped, "maxWalletDrawdownLamports reached: fatal, triggers shutdown")
	}
	return nil
}

// IsFatal reports whether a guard trip should halt the engine (drawdown)
// rather than merely skip one candidate. Every other guard just drops the
// opportunity and keeps running.
func IsFatal(g GuardConfig, state GuardState) bool {
	return !g.MaxWalletDrawdownLamports.IsNil() &&
		orZero(state.WalletDrawdown).GTE(g.MaxWalletDrawdownLamports)
}

// orZero substitutes a zero Int for a nil (zero-value, never-assigned) one,
// since cosmath.Int's comparison methods panic on a nil internal big.Int.
func orZero(v cosmath.Int) cosmath.Int {
	if v.IsNil() {
		return cosmath.ZeroInt()
	}
	return v
}
