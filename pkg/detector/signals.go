package detector

import (
	"time"

	"github.com/solroute/arbengine/pkg/core"
	"github.com/solroute/arbengine/pkg/snapshot"
)

// derivedSignals walks every cached DLMM pool looking for the two
// DLMM-only signals described in §4.5: a volatility spike predicting a fee
// decay window, and an active-bin jump through enough empty bins to expect
// partial price reversion.
func (d *Detector) derivedSignals(slot uint64, now time.Time) []core.Opportunity {
	var out []core.Opportunity
	for _, poolHex := range d.store.Pools.Keys() {
		entry, ok := d.store.Pools.GetByHex(poolHex)
		if !ok || entry.Payload.Venue != core.VenueDLMM || entry.Payload.DLMM == nil {
			continue
		}
		rec := entry.Payload
		st := rec.DLMM

		if opp, ok := d.feeDecaySignal(poolHex, rec, st, slot, now); ok {
			out = append(out, opp)
		}
		if opp, ok := d.emptyBinSignal(poolHex, rec, slot, now); ok {
			out = append(out, opp)
		}
	}
	return out
}

// feeDecaySignal fires when volatilityAccumulator jumps by at least
// VolatilitySpikeRatio over its last-observed value: the pool's fee is
// currently elevated and will mechanically decay back toward baseFee over
// the filter/decay period, which is itself the opportunity (buy now at the
// high-fee-suppressed price, expect it to normalize).
func (d *Detector) feeDecaySignal(poolHex string, rec *core.PoolRecord, st *core.DLMMState, slot uint64, now time.Time) (core.Opportunity, bool) {
	d.mu.Lock()
	prev, hadPrev := d.lastVolatility[poolHex]
	d.lastVolatility[poolHex] = st.VolatilityAccumulator
	d.mu.Unlock()

	if !hadPrev || prev == 0 {
		return core.Opportunity{}, false
	}
	if float64(st.VolatilityAccumulator) < float64(prev)*d.cfg.VolatilitySpikeRatio {
		return core.Opportunity{}, false
	}

	return core.Opportunity{
		MintA:      rec.Mint0,
		MintB:      rec.Mint1,
		BuyVenue:   rec.Venue,
		BuyPool:    rec.Pool,
		SellVenue:  rec.Venue,
		SellPool:   rec.Pool,
		Slot:       slot,
		DetectedAt: now,
		Signal:     core.SignalFeeDecay,
	}, true
}

// emptyBinSignal fires when the active bin has moved by at least
// MinBinsMoved since the last scan and the bins crossed in between are
// mostly empty (the backrun signature: displacement with little real
// liquidity behind it, so a partial reversion is likely once the
// displacing trade's effect fades).
func (d *Detector) emptyBinSignal(poolHex string, rec *core.PoolRecord, slot uint64, now time.Time) (core.Opportunity, bool) {
	st := rec.DLMM

	d.mu.Lock()
	prevBin, hadPrev := d.lastActiveBin[poolHex]
	d.lastActiveBin[poolHex] = st.ActiveBinID
	d.mu.Unlock()

	if !hadPrev {
		return core.Opportunity{}, false
	}
	moved := st.ActiveBinID - prevBin
	if moved < 0 {
		moved = -moved
	}
	if moved < d.cfg.MinBinsMoved {
		return core.Opportunity{}, false
	}

	snap, err := d.builder.Build(rec.Pool)
	if err != nil {
		return core.Opportunity{}, false
	}
	ratio := emptyBinRatio(snap, prevBin, st.ActiveBinID)
	if ratio < d.cfg.EmptyBinRatioFloor {
		return core.Opportunity{}, false
	}

	return core.Opportunity{
		MintA:      rec.Mint0,
		MintB:      rec.Mint1,
		BuyVenue:   rec.Venue,
		BuyPool:    rec.Pool,
		SellVenue:  rec.Venue,
		SellPool:   rec.Pool,
		Slot:       slot,
		DetectedAt: now,
		Signal:     core.SignalEmptyBin,
	}, true
}

func emptyBinRatio(snap *snapshot.SimulationSnapshot, from, to int32) float64 {
	lo, hi := from, to
	if lo > hi {
		lo, hi = hi, lo
	}
	total := 0
	empty := 0
	for id := lo; id <= hi; id++ {
		arrIdx := int64(id) / int64(core.BinsPerArray)
		if id < 0 && int64(id)%int64(core.BinsPerArray) != 0 {
			arrIdx--
		}
		arr, ok := snap.BinArrays[arrIdx]
		if !ok {
			continue
		}
		offset := int(int64(id) - arrIdx*int64(core.BinsPerArray))
		if offset < 0 || offset >= core.BinsPerArray {
			continue
		}
		total++
		bin := arr.Bins[offset]
		if bin.AmountX == 0 && bin.AmountY == 0 {
			empty++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(empty) / float64(total)
}
