package engine

import "sync"

// Stats accumulates the strictly-additive counters §4.7 requires: nothing
// here is ever decremented, only reset by process restart. Snapshot copies
// the current values for the periodic stats tick.
type Stats struct {
	mu sync.Mutex

	AccountUpdates   uint64
	DecodeFailures   uint64
	StaleRejected    uint64
	LayoutRejected   uint64
	Opportunities    uint64
	SpreadSignals    uint64
	FeeDecaySignals  uint64
	EmptyBinSignals  uint64
	BundlesBuilt     uint64
	BundlesSubmitted uint64
	BundlesAccepted  uint64
	BundlesRejected  uint64
	BundlesLanded    uint64
	BundlesDropped   uint64
	GuardTrips       uint64
	PendingTxDropped uint64

	SkipReasons map[string]uint64
}

// NewStats builds an empty counter set with its skip-reason map ready.
func NewStats() *Stats {
	return &Stats{SkipReasons: make(map[string]uint64)}
}

func (s *Stats) incr(counter *uint64) {
	s.mu.Lock()
	*counter++
	s.mu.Unlock()
}

func (s *Stats) IncAccountUpdate()    { s.incr(&s.AccountUpdates) }
func (s *Stats) IncDecodeFailure()    { s.incr(&s.DecodeFailures) }
func (s *Stats) IncStaleRejected()    { s.incr(&s.StaleRejected) }
func (s *Stats) IncLayoutRejected()   { s.incr(&s.LayoutRejected) }
func (s *Stats) IncBundlesBuilt()     { s.incr(&s.BundlesBuilt) }
func (s *Stats) IncBundlesSubmitted() { s.incr(&s.BundlesSubmitted) }
func (s *Stats) IncBundlesAccepted()  { s.incr(&s.BundlesAccepted) }
func (s *Stats) IncBundlesRejected()  { s.incr(&s.BundlesRejected) }
func (s *Stats) IncBundlesLanded()    { s.incr(&s.BundlesLanded) }
func (s *Stats) IncBundlesDropped()   { s.incr(&s.BundlesDropped) }
func (s *Stats) IncGuardTrip()        { s.incr(&s.GuardTrips) }
func (s *Stats) IncPendingTxDropped() { s.incr(&s.PendingTxDropped) }

// IncOpportunity bumps the aggregate opportunity counter plus its
// signal-specific sibling.
func (s *Stats) IncOpportunity(kindSpread, kindFeeDecay, kindEmptyBin bool) {
	s.mu.Lock()
	s.Opportunities++
	if kindSpread {
		s.SpreadSignals++
	}
	if kindFeeDecay {
		s.FeeDecaySignals++
	}
	if kindEmptyBin {
		s.EmptyBinSignals++
	}
	s.mu.Unlock()
}

// IncSkipReason bumps a free-form skip-reason counter (e.g. a missing
// snapshot dependency, a stale watermark).
func (s *Stats) IncSkipReason(reason string) {
	s.mu.Lock()
	s.SkipReasons[reason]++
	s.mu.Unlock()
}

// Snapshot is a point-in-time copy safe to serialize for the stats tick.
type Snapshot struct {
	AccountUpdates   uint64
	DecodeFailures   uint64
	StaleRejected    uint64
	LayoutRejected   uint64
	Opportunities    uint64
	SpreadSignals    uint64
	FeeDecaySignals  uint64
	EmptyBinSignals  uint64
	BundlesBuilt     uint64
	BundlesSubmitted uint64
	BundlesAccepted  uint64
	BundlesRejected  uint64
	BundlesLanded    uint64
	BundlesDropped   uint64
	GuardTrips       uint64
	PendingTxDropped uint64
	SkipReasons      map[string]uint64
}

func (s *Stats) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	reasons := make(map[string]uint64, len(s.SkipReasons))
	for k, v := range s.SkipReasons {
		reasons[k] = v
	}
	return Snapshot{
		AccountUpdates:   s.AccountUpdates,
		DecodeFailures:   s.DecodeFailures,
		StaleRejected:    s.StaleRejected,
		LayoutRejected:   s.LayoutRejected,
		Opportunities:    s.Opportunities,
		SpreadSignals:    s.SpreadSignals,
		FeeDecaySignals:  s.FeeDecaySignals,
		EmptyBinSignals:  s.EmptyBinSignals,
		BundlesBuilt:     s.BundlesBuilt,
		BundlesSubmitted: s.BundlesSubmitted,
		BundlesAccepted:  s.BundlesAccepted,
		BundlesRejected:  s.BundlesRejected,
		BundlesLanded:    s.BundlesLanded,
		BundlesDropped:   s.BundlesDropped,
		GuardTrips:       s.GuardTrips,
		PendingTxDropped: s.PendingTxDropped,
		SkipReasons:      reasons,
	}
}
