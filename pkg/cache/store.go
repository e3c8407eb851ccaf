package cache

import "github.com/solroute/arbengine/pkg/core"

// tickArraySize/binArraySize are the raw account byte spans of dependency
// records, used by the pool cache's layout guard to reject mis-routed
// updates (an update whose length matches a dependency record can never be
// a legitimate pool account).
const (
	tickArraySize = 8 + 32 + 4 + core.TicksPerArray*37
	binArraySize  = 8 + 8 + 32 + core.BinsPerArray*16
)

// Store bundles every typed cache the engine needs plus the lifecycle
// tracker that spans CLMM/DLMM pools. One Store per running engine.
type Store struct {
	Pools      *Cache[*core.PoolRecord]
	Vaults     *Cache[*core.VaultRecord]
	TickArrays *DependencyCache[*core.TickArrayRecord]
	BinArrays  *DependencyCache[*core.BinArrayRecord]
	Configs    *Cache[*core.ConfigRecord]
	Lifecycle  *LifecycleTracker
}

// NewStore wires a fresh set of caches. trace is shared across every cache
// so the engine installs one zap-backed handler for all of them.
func NewStore(trace TraceHandler, notify Notifier) *Store {
	pools := New[*core.PoolRecord]("pools")
	pools.SetLayoutGuard(func(rawLen int) bool {
		return rawLen == tickArraySize || rawLen == binArraySize
	})

	vaults := New[*core.VaultRecord]("vaults")
	ticks := NewDependencyCache[*core.TickArrayRecord]("tick_arrays", func() *core.TickArrayRecord {
		return &core.TickArrayRecord{}
	})
	bins := NewDependencyCache[*core.BinArrayRecord]("bin_arrays", func() *core.BinArrayRecord {
		return &core.BinArrayRecord{}
	})
	configs := New[*core.ConfigRecord]("configs")

	for _, c := range []interface{ SetTraceHandler(TraceHandler) }{pools, vaults, ticks, bins, configs} {
		c.SetTraceHandler(trace)
	}

	return &Store{
		Pools:      pools,
		Vaults:     vaults,
		TickArrays: ticks,
		BinArrays:  bins,
		Configs:    configs,
		Lifecycle:  NewLifecycleTracker(notify),
	}
}
