package engine

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatsIncrementsAreIndependent(t *testing.T) {
	s := NewStats()
	s.IncAccountUpdate()
	s.IncDecodeFailure()
	s.IncDecodeFailure()

	snap := s.Snapshot()
	assert.EqualValues(t, 1, snap.AccountUpdates)
	assert.EqualValues(t, 2, snap.DecodeFailures)
	assert.EqualValues(t, 0, snap.Opportunities)
}

func TestStatsIncOpportunityBumpsAggregateAndSignal(t *testing.T) {
	s := NewStats()
	s.IncOpportunity(true, false, false)
	s.IncOpportunity(false, true, false)
	s.IncOpportunity(false, false, true)

	snap := s.Snapshot()
	assert.EqualValues(t, 3, snap.Opportunities)
	assert.EqualValues(t, 1, snap.SpreadSignals)
	assert.EqualValues(t, 1, snap.FeeDecaySignals)
	assert.EqualValues(t, 1, snap.EmptyBinSignals)
}

func TestStatsSkipReasonsAccumulatePerKey(t *testing.T) {
	s := NewStats()
	s.IncSkipReason("missing_dependency")
	s.IncSkipReason("missing_dependency")
	s.IncSkipReason("stale")

	snap := s.Snapshot()
	assert.EqualValues(t, 2, snap.SkipReasons["missing_dependency"])
	assert.EqualValues(t, 1, snap.SkipReasons["stale"])
}

func TestStatsSnapshotIsACopy(t *testing.T) {
	s := NewStats()
	s.IncSkipReason("x")
	snap := s.Snapshot()
	s.IncSkipReason("x")

	assert.EqualValues(t, 1, snap.SkipReasons["x"])
	assert.EqualValues(t, 2, s.Snapshot().SkipReasons["x"])
}

func TestStatsConcurrentIncrementsDontRace(t *testing.T) {
	s := NewStats()
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.IncAccountUpdate()
		}()
	}
	wg.Wait()
	assert.EqualValues(t, 100, s.Snapshot().AccountUpdates)
}
