package engine

import (
	"context"

	"github.com/solroute/arbengine/pkg/cache"
	"github.com/solroute/arbengine/pkg/core"
	"github.com/solroute/arbengine/pkg/decode"
	"github.com/solroute/arbengine/pkg/snapshot"
)

// maxAccountsPerFetch is the RPC getMultipleAccounts batch ceiling per
// §6.4; a bootstrap request naming more accounts than this is chunked into
// multiple calls rather than rejected.
const maxAccountsPerFetch = 2000

// FetchedAccount is one RPC-returned account, or a nil-data confirmation
// that nothing exists at Pubkey (null-encodes-nonexistence, per §6.4).
type FetchedAccount struct {
	Pubkey core.Pubkey
	Owner  core.Pubkey
	Data   []byte // nil means confirmed absent
	Exists bool
}

// BootstrapFetcher is the RPC-shaped dependency the engine needs to
// materialize a pool's tick/bin-array dependency set. Concrete
// implementations (pkg/sol) own the transport; this package splits large
// key lists into batches itself (fetchChunked) and issues no retries.
type BootstrapFetcher interface {
	// FetchAccounts returns one FetchedAccount per key, in order, along
	// with the slot the RPC node observed at call time.
	FetchAccounts(ctx context.Context, keys []core.Pubkey, minContextSlot uint64) (slot uint64, accounts []FetchedAccount, err error)
}

// Bootstrapper drives the BOOTSTRAPPING -> ACTIVE transition for a single
// CLMM/DLMM pool: derive the dependency PDA set, fetch it (chunked if
// needed), reject on stale context slot, and materialize virtual-empty
// entries for confirmed-absent dependencies.
type Bootstrapper struct {
	store   *cache.Store
	fetcher BootstrapFetcher
	radius  int
}

func NewBootstrapper(store *cache.Store, fetcher BootstrapFetcher, radius int) *Bootstrapper {
	return &Bootstrapper{store: store, fetcher: fetcher, radius: radius}
}

// Bootstrap fetches and materializes every dependency of pool, then fires
// the FSM transition appropriate to the outcome. targetSlot is the
// caller's minContextSlot: a bootstrap whose RPC node reports a context
// slot below it is treated as stale and retried later rather than frozen.
func (b *Bootstrapper) Bootstrap(ctx context.Context, pool core.Pubkey, targetSlot uint64) error {
	entry, ok := b.store.Pools.Get(pool)
	if !ok {
		return core.New(core.ErrMissingDependency, "bootstrap: pool not cached")
	}
	rec := entry.Payload

	keys, err := dependencyKeys(rec, b.radius)
	if err != nil {
		return err
	}

	slot, accounts, err := b.fetchChunked(ctx, keys, targetSlot)
	if err != nil {
		b.store.Lifecycle.Fire(rec.Pool, rec.Mint0, rec.Mint1, rec.Venue, core.EventBootstrapRPCError, nil)
		return err
	}
	if slot < targetSlot {
		b.store.Lifecycle.Fire(rec.Pool, rec.Mint0, rec.Mint1, rec.Venue, core.EventBootstrapStaleContext, nil)
		return core.New(core.ErrRPCStaleContext, "bootstrap: rpc context slot below minContextSlot")
	}

	indices := materialize(b.store, rec, accounts, slot)

	b.store.Lifecycle.Fire(rec.Pool, rec.Mint0, rec.Mint1, rec.Venue, core.EventBootstrapOK, func() core.FrozenTopology {
		return core.NewFrozenTopology(slot, indices)
	})
	return nil
}

// fetchChunked splits keys into maxAccountsPerFetch-sized batches, per
// §6.4's automatic-chunking requirement, and returns the minimum observed
// context slot across all batches (the conservative choice: a bootstrap is
// only as fresh as its staleast constituent fetch).
func (b *Bootstrapper) fetchChunked(ctx context.Context, keys []core.Pubkey, targetSlot uint64) (uint64, []FetchedAccount, error) {
	var all []FetchedAccount
	minSlot := uint64(0)
	first := true

	for start := 0; start < len(keys); start += maxAccountsPerFetch {
		end := start + maxAccountsPerFetch
		if end > len(keys) {
			end = len(keys)
		}
		slot, accounts, err := b.fetcher.FetchAccounts(ctx, keys[start:end], targetSlot)
		if err != nil {
			return 0, nil, core.Wrap(core.ErrRPCTimeout, "bootstrap: fetch accounts", err)
		}
		if first || slot < minSlot {
			minSlot = slot
			first = false
		}
		all = append(all, accounts...)
	}
	return minSlot, all, nil
}

// dependencyKeys derives the PDA set a pool's lifecycle freeze must
// materialize: its two vaults plus the tick/bin arrays within radius of
// its current position.
func dependencyKeys(rec *core.PoolRecord, radius int) ([]core.Pubkey, error) {
	keys := []core.Pubkey{rec.Vault0, rec.Vault1}

	switch rec.Venue {
	case core.VenueCLMM:
		start := snapshot.TickArrayStartIndex(rec.CLMM.TickCurrent, rec.CLMM.TickSpacing)
		span := int32(core.TicksPerArray) * int32(rec.CLMM.TickSpacing)
		for i := -radius; i <= radius; i++ {
			pda, err := snapshot.TickArrayPDA(decode.ProgramCLMM, rec.Pool, start+int32(i)*span)
			if err != nil {
				return nil, core.Wrap(core.ErrDecode, "bootstrap: derive tick array pda", err)
			}
			keys = append(keys, pda)
		}
	case core.VenueDLMM:
		idx := snapshot.BinArrayIndex(rec.DLMM.ActiveBinID)
		for i := -radius; i <= radius; i++ {
			pda, err := snapshot.BinArrayPDA(decode.ProgramDLMM, rec.Pool, idx+int64(i))
			if err != nil {
				return nil, core.Wrap(core.ErrDecode, "bootstrap: derive bin array pda", err)
			}
			keys = append(keys, pda)
		}
	}
	return keys, nil
}

// materialize writes every fetched account into its owning cache (or marks
// it virtual-empty when confirmed absent) and returns the set of
// tick/bin-array indices that belong in the frozen topology.
func materialize(store *cache.Store, rec *core.PoolRecord, accounts []FetchedAccount, slot uint64) []int64 {
	var indices []int64
	for _, acc := range accounts {
		if acc.Pubkey.Equals(rec.Vault0) || acc.Pubkey.Equals(rec.Vault1) {
			if !acc.Exists {
				continue
			}
			v, err := decode.DecodeVault(acc.Data)
			if err == nil {
				store.Vaults.Set(acc.Pubkey, v, slot, 0, core.SourceBootstrap, len(acc.Data))
			}
			continue
		}

		switch rec.Venue {
		case core.VenueCLMM:
			if !acc.Exists {
				store.TickArrays.MarkVirtual(acc.Pubkey)
				continue
			}
			t, err := decode.DecodeCLMMTickArray(acc.Data)
			if err != nil {
				continue
			}
			store.TickArrays.Set(acc.Pubkey, t, slot, 0, core.SourceBootstrap, len(acc.Data))
			indices = append(indices, int64(t.StartTick))
		case core.VenueDLMM:
			if !acc.Exists {
				store.BinArrays.MarkVirtual(acc.Pubkey)
				continue
			}
			bArr, err := decode.DecodeDLMMBinArray(acc.Data)
			if err != nil {
				continue
			}
			store.BinArrays.Set(acc.Pubkey, bArr, slot, 0, core.SourceBootstrap, len(acc.Data))
			indices = append(indices, bArr.ArrayIndex)
		}
	}
	return indices
}
