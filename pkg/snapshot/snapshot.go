package snapshot

import (
	"github.com/solroute/arbengine/pkg/cache"
	"github.com/solroute/arbengine/pkg/core"
)

// SimulationSnapshot is the read-only bundle a venue simulator consumes. It
// is built fresh per call; nothing in it aliases cache-owned mutable state
// except through value copies already taken by Cache.Get.
type SimulationSnapshot struct {
	Pool         *core.PoolRecord
	Vault0       *core.VaultRecord
	Vault1       *core.VaultRecord
	Config       *core.ConfigRecord // nil if this venue keeps fees inline
	TickArrays   map[int32]*core.TickArrayRecord
	BinArrays    map[int64]*core.BinArrayRecord
	WatermarkSlot uint64
}

// Builder assembles snapshots from a cache.Store. Radius controls how many
// neighboring tick/bin arrays on each side of the active position are
// pulled in alongside the current one.
type Builder struct {
	store      *cache.Store
	programCLMM core.Pubkey
	programDLMM core.Pubkey
	radius     int
	strict     bool
}

func NewBuilder(store *cache.Store, programCLMM, programDLMM core.Pubkey, radius int, strict bool) *Builder {
	return &Builder{store: store, programCLMM: programCLMM, programDLMM: programDLMM, radius: radius, strict: strict}
}

// Build returns a SimulationSnapshot for pool, or a core.Error identifying
// the missing or slot-inconsistent dependency.
func (b *Builder) Build(pool core.Pubkey) (*SimulationSnapshot, error) {
	poolEntry, ok := b.store.Pools.Get(pool)
	if !ok {
		return nil, core.New(core.ErrMissingDependency, "pool record not cached")
	}
	rec := poolEntry.Payload

	switch rec.Venue {
	case core.VenueCPMMA, core.VenueCPMMB:
		return b.buildCPMM(rec, poolEntry.Slot)
	case core.VenueCLMM:
		return b.buildCLMM(rec, poolEntry.Slot)
	case core.VenueDLMM:
		return b.buildDLMM(rec, poolEntry.Slot)
	default:
		return nil, core.New(core.ErrDecode, "unknown venue tag")
	}
}

func (b *Builder) vaults(rec *core.PoolRecord, poolSlot uint64) (*core.VaultRecord, *core.VaultRecord, uint64, error) {
	v0, ok := b.store.Vaults.Get(rec.Vault0)
	if !ok {
		return nil, nil, 0, core.New(core.ErrMissingDependency, "vault0 not cached")
	}
	v1, ok := b.store.Vaults.Get(rec.Vault1)
	if !ok {
		return nil, nil, 0, core.New(core.ErrMissingDependency, "vault1 not cached")
	}
	if b.strict && (v0.Slot < poolSlot || v1.Slot < poolSlot) {
		return nil, nil, 0, core.New(core.ErrSlotInconsistent, "vault slot precedes pool slot")
	}
	watermark := poolSlot
	if v0.Slot < watermark {
		watermark = v0.Slot
	}
	if v1.Slot < watermark {
		watermark = v1.Slot
	}
	return v0.Payload, v1.Payload, watermark, nil
}

func (b *Builder) buildCPMM(rec *core.PoolRecord, poolSlot uint64) (*SimulationSnapshot, error) {
	v0, v1, watermark, err := b.vaults(rec, poolSlot)
	if err != nil {
		return nil, err
	}
	snap := &SimulationSnapshot{Pool: rec, Vault0: v0, Vault1: v1, WatermarkSlot: watermark}
	if rec.CPMM != nil && !rec.CPMM.AmmConfig.IsZero() {
		if cfgEntry, ok := b.store.Configs.Get(rec.CPMM.AmmConfig); ok {
			snap.Config = cfgEntry.Payload
			if cfgEntry.Slot < snap.WatermarkSlot {
				snap.WatermarkSlot = cfgEntry.Slot
			}
		}
	}
	return snap, nil
}

func (b *Builder) buildCLMM(rec *core.PoolRecord, poolSlot uint64) (*SimulationSnapshot, error) {
	v0, v1, watermark, err := b.vaults(rec, poolSlot)
	if err != nil {
		return nil, err
	}
	st := rec.CLMM
	cfgEntry, ok := b.store.Configs.Get(st.AmmConfig)
	if !ok {
		return nil, core.New(core.ErrMissingDependency, "clmm config not cached")
	}
	if cfgEntry.Slot < watermark {
		watermark = cfgEntry.Slot
	}

	startIdx := TickArrayStartIndex(st.TickCurrent, st.TickSpacing)
	span := int32(core.TicksPerArray) * int32(st.TickSpacing)

	arrays := make(map[int32]*core.TickArrayRecord)
	var minDepSlot uint64 = ^uint64(0)
	haveCurrent := false
	for i := -b.radius; i <= b.radius; i++ {
		idx := startIdx + int32(i)*span
		pda, err := TickArrayPDA(b.programCLMM, rec.Pool, idx)
		if err != nil {
			continue
		}
		payload, found, virtual := b.store.TickArrays.GetOrVirtual(pda)
		if !found {
			if i == 0 {
				return nil, core.New(core.ErrMissingDependency, "current tick array not cached")
			}
			continue
		}
		arrays[idx] = payload
		if i == 0 {
			haveCurrent = true
		}
		if !virtual {
			if entry, ok := b.store.TickArrays.Cache.Get(pda); ok && entry.Slot < minDepSlot {
				minDepSlot = entry.Slot
			}
		}
	}
	if !haveCurrent {
		return nil, core.New(core.ErrMissingDependency, "current tick array not cached")
	}
	if minDepSlot != ^uint64(0) {
		if b.strict && minDepSlot < poolSlot {
			return nil, core.New(core.ErrSlotInconsistent, "tick array slot precedes pool slot")
		}
		if minDepSlot < watermark {
			watermark = minDepSlot
		}
	}

	return &SimulationSnapshot{
		Pool: rec, Vault0: v0, Vault1: v1,
		Config:       cfgEntry.Payload,
		TickArrays:   arrays,
		WatermarkSlot: watermark,
	}, nil
}

func (b *Builder) buildDLMM(rec *core.PoolRecord, poolSlot uint64) (*SimulationSnapshot, error) {
	v0, v1, watermark, err := b.vaults(rec, poolSlot)
	if err != nil {
		return nil, err
	}
	st := rec.DLMM
	activeArrayIdx := BinArrayIndex(st.ActiveBinID)

	arrays := make(map[int64]*core.BinArrayRecord)
	var minDepSlot uint64 = ^uint64(0)
	haveCurrent := false
	for i := -int64(b.radius); i <= int64(b.radius); i++ {
		idx := activeArrayIdx + i
		pda, err := BinArrayPDA(b.programDLMM, rec.Pool, idx)
		if err != nil {
			continue
		}
		payload, found, virtual := b.store.BinArrays.GetOrVirtual(pda)
		if !found {
			if i == 0 {
				return nil, core.New(core.ErrMissingDependency, "current bin array not cached")
			}
			continue
		}
		arrays[idx] = payload
		if i == 0 {
			haveCurrent = true
		}
		if !virtual {
			if entry, ok := b.store.BinArrays.Cache.Get(pda); ok && entry.Slot < minDepSlot {
				minDepSlot = entry.Slot
			}
		}
	}
	if !haveCurrent {
		return nil, core.New(core.ErrMissingDependency, "current bin array not cached")
	}
	if minDepSlot != ^uint64(0) {
		if b.strict && minDepSlot < poolSlot {
			return nil, core.New(core.ErrSlotInconsistent, "bin array slot precedes pool slot")
		}
		if minDepSlot < watermark {
			watermark = minDepSlot
		}
	}

	return &SimulationSnapshot{
		Pool: rec, Vault0: v0, Vault1: v1,
		BinArrays:    arrays,
		WatermarkSlot: watermark,
	}, nil
}
