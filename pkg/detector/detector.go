// Package detector implements the cross-venue opportunity detector (C5):
// for every mint quoted on two or more venues, probe each venue's price,
// compute a fee-aware net spread, and emit opportunities above threshold,
// de-duplicated within a sliding window.
package detector

import (
	"sync"
	"time"

	"github.com/solroute/arbengine/pkg/cache"
	"github.com/solroute/arbengine/pkg/core"
	"github.com/solroute/arbengine/pkg/pairindex"
	"github.com/solroute/arbengine/pkg/sim"
	"github.com/solroute/arbengine/pkg/snapshot"
)

// Config bundles every tunable threshold the detection loop reads. Zero
// values are replaced by spec-default constants in New.
type Config struct {
	ProbeAmount         uint64        // native units, default 100_000_000 (0.1 at 9 decimals)
	MinSpreadBps        int64         // default 55
	DedupWindow         time.Duration // default 100ms
	MaxGrossSpreadBps   int64         // default 100000, a 100x spread is a decoding bug not an opportunity
	VolatilitySpikeRatio float64      // default 1.5, fee-decay signal trigger
	MinBinsMoved        int32         // default 3, empty-bin backrun trigger
	EmptyBinRatioFloor  float64       // default 0.5
}

func (c Config) withDefaults() Config {
	if c.ProbeAmount == 0 {
		c.ProbeAmount = 100_000_000
	}
	if c.MinSpreadBps == 0 {
		c.MinSpreadBps = 55
	}
	if c.DedupWindow == 0 {
		c.DedupWindow = 100 * time.Millisecond
	}
	if c.MaxGrossSpreadBps == 0 {
		c.MaxGrossSpreadBps = 100_000
	}
	if c.VolatilitySpikeRatio == 0 {
		c.VolatilitySpikeRatio = 1.5
	}
	if c.MinBinsMoved == 0 {
		c.MinBinsMoved = 3
	}
	if c.EmptyBinRatioFloor == 0 {
		c.EmptyBinRatioFloor = 0.5
	}
	return c
}

// Detector owns the per-mint scan loop plus the small amount of state the
// derived DLMM signals need to remember between scans (last-seen
// volatility accumulator, last-seen active bin).
type Detector struct {
	store   *cache.Store
	builder *snapshot.Builder
	index   *pairindex.Index
	cfg     Config

	mu           sync.Mutex
	lastEmitted  map[string]time.Time // pairKey -> last opportunity time
	lastVolatility map[string]uint32  // poolHex -> volatility accumulator
	lastActiveBin  map[string]int32   // poolHex -> active bin id
}

func New(store *cache.Store, builder *snapshot.Builder, index *pairindex.Index, cfg Config) *Detector {
	return &Detector{
		store:          store,
		builder:        builder,
		index:          index,
		cfg:            cfg.withDefaults(),
		lastEmitted:    make(map[string]time.Time),
		lastVolatility: make(map[string]uint32),
		lastActiveBin:  make(map[string]int32),
	}
}

type quote struct {
	entry  core.PairEntry
	price  float64 // mintB received per unit of mintA sold
	feeBps int64
}

// Scan runs one full pass over every multi-venue mint pair and returns
// every opportunity surviving the spread and sanity gates, including any
// DLMM-derived fee-decay/empty-bin signals triggered this pass.
func (d *Detector) Scan(slot uint64) []core.Opportunity {
	var out []core.Opportunity
	now := time.Now()

	for _, entries := range d.index.MultiVenuePairs() {
		quotes := d.quoteAll(entries)
		out = append(out, d.pairwiseSpread(quotes, slot, now)...)
	}

	out = append(out, d.derivedSignals(slot, now)...)
	return out
}

func (d *Detector) quoteAll(entries []core.PairEntry) []quote {
	quotes := make([]quote, 0, len(entries))
	for _, e := range entries {
		q, ok := d.quoteEntry(e)
		if ok {
			quotes = append(quotes, q)
		}
	}
	return quotes
}

// quoteEntry derives an effective price (mintB per mintA) and an effective
// fee rate (in bps, backed out of the probe quote's actual fee/amount
// ratio rather than re-deriving fee lookup per venue) for a single pool.
func (d *Detector) quoteEntry(e core.PairEntry) (quote, bool) {
	poolEntry, ok := d.store.Pools.Get(e.Pool)
	if !ok {
		return quote{}, false
	}
	rec := poolEntry.Payload

	snap, err := d.builder.Build(e.Pool)
	if err != nil {
		return quote{}, false
	}

	dir := core.Dir0to1
	if !rec.Mint0.Equals(e.MintA) {
		dir = core.Dir1to0
	}

	res, err := simulate(rec.Venue, snap, dir, d.cfg.ProbeAmount)
	if err != nil || res.AmountOut == 0 || res.AmountIn == 0 {
		return quote{}, false
	}

	price := float64(res.AmountOut) / float64(res.AmountIn)
	if price <= 0 || isNonFinite(price) {
		return quote{}, false
	}
	feeBps := effectiveFeeBps(rec.Venue, dir, res)

	return quote{entry: e, price: price, feeBps: feeBps}, true
}

// effectiveFeeBps backs the fee rate out of a probe quote's actual
// fee/amount ratio rather than re-deriving a per-venue lookup. Every venue
// but CPMM_A's sell-base direction takes its fee from the input side, so
// FeeAmount/AmountIn already approximates feeBps; CPMM_A's fee-on-output
// rule instead takes the fee from the gross output, so the ratio has to be
// taken against AmountOut+FeeAmount (the pre-fee gross amount) instead.
func effectiveFeeBps(venue core.Venue, dir core.Direction, res core.SimResult) int64 {
	if venue == core.VenueCPMMA && dir == core.Dir0to1 {
		gross := res.AmountOut + res.FeeAmount
		if gross == 0 {
			return 0
		}
		return int64(res.FeeAmount) * 10000 / int64(gross)
	}
	if res.AmountIn == 0 {
		return 0
	}
	return int64(res.FeeAmount) * 10000 / int64(res.AmountIn)
}

func simulate(venue core.Venue, snap *snapshot.SimulationSnapshot, dir core.Direction, amount uint64) (core.SimResult, error) {
	switch venue {
	case core.VenueCPMMA, core.VenueCPMMB:
		return sim.SimulateCPMM(snap, dir, core.ExactIn, amount)
	case core.VenueCLMM:
		return sim.SimulateCLMM(snap, dir, core.ExactIn, amount, nil)
	case core.VenueDLMM:
		return sim.SimulateDLMM(snap, dir, core.ExactIn, amount)
	default:
		return core.SimResult{}, core.New(core.ErrUnknown, "detector: unknown venue")
	}
}

func isNonFinite(f float64) bool {
	return f != f || f > 1e18 || f < -1e18
}

// pairwiseSpread sorts quotes by price and evaluates every distinct venue
// pair for a net spread above threshold, applying the sanity gates and the
// de-dup window per mint pair.
func (d *Detector) pairwiseSpread(quotes []quote, slot uint64, now time.Time) []core.Opportunity {
	if len(quotes) < 2 {
		return nil
	}
	sortQuotesByPrice(quotes)

	var out []core.Opportunity
	for i := 0; i < len(quotes); i++ {
		for j := i + 1; j < len(quotes); j++ {
			lo, hi := quotes[i], quotes[j]
			if lo.entry.Venue == hi.entry.Venue {
				continue
			}
			if lo.price <= 0 {
				continue
			}
			grossBps := int64((hi.price - lo.price) / lo.price * 10000)
			if grossBps <= 0 {
				continue
			}
			if grossBps > d.cfg.MaxGrossSpreadBps {
				continue // sanity gate: treat as a decoding bug, not a signal
			}
			netBps := grossBps - lo.feeBps - hi.feeBps
			if netBps < d.cfg.MinSpreadBps {
				continue
			}

			pairKey := core.PairKey(lo.entry.MintA, lo.entry.MintB)
			if !d.shouldEmit(pairKey, now) {
				continue
			}

			out = append(out, core.Opportunity{
				MintA:          lo.entry.MintA,
				MintB:          lo.entry.MintB,
				BuyVenue:       lo.entry.Venue,
				BuyPool:        lo.entry.Pool,
				SellVenue:      hi.entry.Venue,
				SellPool:       hi.entry.Pool,
				InputAmount:    d.cfg.ProbeAmount,
				ExpectedOutput: uint64(float64(d.cfg.ProbeAmount) * hi.price),
				GrossSpreadBps: grossBps,
				NetSpreadBps:   netBps,
				Slot:           slot,
				DetectedAt:     now,
				Signal:         core.SignalSpread,
			})
		}
	}
	return out
}

func sortQuotesByPrice(qs []quote) {
	for i := 1; i < len(qs); i++ {
		for j := i; j > 0 && qs[j].price < qs[j-1].price; j-- {
			qs[j], qs[j-1] = qs[j-1], qs[j]
		}
	}
}

// shouldEmit applies the sliding de-dup window: an opportunity on the same
// mint pair within DedupWindow of the last emission is suppressed.
func (d *Detector) shouldEmit(pairKey string, now time.Time) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if last, ok := d.lastEmitted[pairKey]; ok && now.Sub(last) < d.cfg.DedupWindow {
		return false
	}
	d.lastEmitted[pairKey] = now
	return true
}
