package sim

import (
	"time"

	"github.com/solroute/arbengine/pkg/core"
	"github.com/solroute/arbengine/pkg/snapshot"
)

// Hop is one leg of a multi-hop simulation: a snapshot to swap against plus
// the direction to swap in. Venue is read off snapshot.Pool.Venue.
type Hop struct {
	Snap *snapshot.SimulationSnapshot
	Dir  core.Direction
}

// HopResult pairs a hop's SimResult with the venue it ran against, for
// leg-by-leg inspection after a chain completes.
type HopResult struct {
	Venue  core.Venue
	Pool   core.Pubkey
	Result core.SimResult
}

// ChainResult is the outcome of simulating a full leg chain: input on the
// first hop, output of the last, and per-hop detail. Per-hop intermediate
// pool state is never retained past the chain (§4.4.4): only AmountIn,
// AmountOut and Legs survive.
type ChainResult struct {
	AmountIn  uint64
	AmountOut uint64
	Legs      []HopResult
	Elapsed   time.Duration
}

// SimulateChain chains hops so leg k's output becomes leg k+1's input,
// aborting the whole chain the moment any leg errors (§4.4.4: a failed leg
// invalidates the entire prospective bundle, not just its own result).
// elapsed is supplied by the caller since time.Now is unavailable here.
func SimulateChain(hops []Hop, amountIn uint64, elapsed time.Duration) (ChainResult, error) {
	if len(hops) == 0 {
		return ChainResult{}, core.New(core.ErrUnknown, "multihop: empty chain")
	}
	legs := make([]HopResult, 0, len(hops))
	amount := amountIn
	for _, hop := range hops {
		res, err := simulateHop(hop, amount)
		if err != nil {
			return ChainResult{}, err
		}
		legs = append(legs, HopResult{
			Venue:  hop.Snap.Pool.Venue,
			Pool:   hop.Snap.Pool.Pool,
			Result: res,
		})
		amount = res.AmountOut
	}
	return ChainResult{
		AmountIn:  amountIn,
		AmountOut: amount,
		Legs:      legs,
		Elapsed:   elapsed,
	}, nil
}

func simulateHop(hop Hop, amountIn uint64) (core.SimResult, error) {
	switch hop.Snap.Pool.Venue {
	case core.VenueCPMMA, core.VenueCPMMB:
		return SimulateCPMM(hop.Snap, hop.Dir, core.ExactIn, amountIn)
	case core.VenueCLMM:
		return SimulateCLMM(hop.Snap, hop.Dir, core.ExactIn, amountIn, nil)
	case core.VenueDLMM:
		return SimulateDLMM(hop.Snap, hop.Dir, core.ExactIn, amountIn)
	default:
		return core.SimResult{}, core.New(core.ErrUnknown, "multihop: unknown venue")
	}
}
