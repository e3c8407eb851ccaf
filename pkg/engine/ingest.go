package engine

import (
	"github.com/solroute/arbengine/pkg/cache"
	"github.com/solroute/arbengine/pkg/core"
	"github.com/solroute/arbengine/pkg/decode"
)

// AccountUpdate is the ingest-side shape of one streamed account change,
// per §6.1: raw bytes plus the slot/writeVersion ordering pair the caches
// use to reject stale writes. owner is the account's program owner, used
// to pick a decoder without the engine itself knowing venue layouts.
type AccountUpdate struct {
	Pubkey       core.Pubkey
	Owner        core.Pubkey
	Data         []byte
	Slot         uint64
	WriteVersion uint64
}

// Ingester applies decoded account updates to a cache.Store and drives the
// CLMM/DLMM lifecycle FSM off of them. CPMM pools need no dependency
// materialization, so they go straight to ACTIVE on first sight; CLMM/DLMM
// pools stay BOOTSTRAPPING until a Bootstrapper (see bootstrap.go) confirms
// their tick/bin-array dependencies and fires EventBootstrapOK.
type Ingester struct {
	store  *cache.Store
	stats  *Stats
	notify func(pool core.Pubkey)
}

// NewIngester wires an Ingester against a store. onNeedsBootstrap, if
// non-nil, is called once per pool the first time a CLMM/DLMM pool account
// is observed — the engine loop uses it to enqueue a bootstrap fetch.
func NewIngester(store *cache.Store, stats *Stats, onNeedsBootstrap func(pool core.Pubkey)) *Ingester {
	return &Ingester{store: store, stats: stats, notify: onNeedsBootstrap}
}

// Apply decodes and routes one account update. A decode failure is
// recorded in stats and returned as an error; a rejected (stale or
// layout-invalid) pool write is counted in stats and dropped with a nil
// error. Neither path panics: a single malformed account must never take
// down the ingest loop.
func (ing *Ingester) Apply(u AccountUpdate) error {
	ing.stats.IncAccountUpdate()

	result, err := decode.DecodeAccount(u.Pubkey, u.Owner, u.Data)
	if err != nil {
		ing.stats.IncDecodeFailure()
		return err
	}

	switch result.Kind {
	case decode.KindPool:
		return ing.applyPool(u, result.Pool)
	case decode.KindTickArray:
		ing.store.TickArrays.Set(u.Pubkey, result.Ticks, u.Slot, u.WriteVersion, core.SourceStream, len(u.Data))
		return nil
	case decode.KindBinArray:
		ing.store.BinArrays.Set(u.Pubkey, result.Bins, u.Slot, u.WriteVersion, core.SourceStream, len(u.Data))
		return nil
	case decode.KindConfig:
		ing.store.Configs.Set(u.Pubkey, result.Config, u.Slot, u.WriteVersion, core.SourceStream, len(u.Data))
		return nil
	default:
		ing.stats.IncDecodeFailure()
		return core.New(core.ErrDecode, "ingest: unrecognized account kind")
	}
}

func (ing *Ingester) applyPool(u AccountUpdate, rec *core.PoolRecord) error {
	accepted := ing.store.Pools.Set(u.Pubkey, rec, u.Slot, u.WriteVersion, core.SourceStream, len(u.Data))
	if !accepted {
		ing.stats.IncStaleRejected()
		return nil
	}

	if !rec.Venue.IsConcentrated() {
		ing.store.Lifecycle.Fire(rec.Pool, rec.Mint0, rec.Mint1, rec.Venue, core.EventBootstrapStart, nil)
		ing.store.Lifecycle.Fire(rec.Pool, rec.Mint0, rec.Mint1, rec.Venue, core.EventBootstrapOK, trivialTopology)
		return nil
	}

	state := ing.store.Lifecycle.State(rec.Pool)
	if state == core.StateDiscovered {
		if _, ok := ing.store.Lifecycle.Fire(rec.Pool, rec.Mint0, rec.Mint1, rec.Venue, core.EventBootstrapStart, nil); ok && ing.notify != nil {
			ing.notify(rec.Pool)
		}
	}
	return nil
}

// trivialTopology is the onActivate callback for CPMM pools: they have no
// tick/bin dependency set, so the frozen topology is empty.
func trivialTopology() core.FrozenTopology {
	return core.NewFrozenTopology(0, nil)
}

// ApplyVault decodes and routes a token-account update into the vault
// cache. Vault accounts never pass through DecodeAccount since they're
// owned by the SPL token program, not a venue program, so the engine's
// account router (see Route) dispatches them here directly.
func (ing *Ingester) ApplyVault(u AccountUpdate) error {
	ing.stats.IncAccountUpdate()
	rec, err := decode.DecodeVault(u.Data)
	if err != nil {
		ing.stats.IncDecodeFailure()
		return err
	}
	if !ing.store.Vaults.Set(u.Pubkey, rec, u.Slot, u.WriteVersion, core.SourceStream, rec.DataLen) {
		ing.stats.IncStaleRejected()
	}
	return nil
}

// Route dispatches u to ApplyVault or Apply based on its owner program.
// isTokenOwner distinguishes SPL Token / Token-2022 accounts (vaults) from
// venue-program accounts (pools, configs, tick/bin arrays), giving the
// ingest loop one entry point regardless of account kind.
func (ing *Ingester) Route(u AccountUpdate, isTokenOwner func(core.Pubkey) bool) error {
	if isTokenOwner(u.Owner) {
		return ing.ApplyVault(u)
	}
	return ing.Apply(u)
}
