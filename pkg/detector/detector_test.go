package detector

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solroute/arbengine/pkg/cache"
	"github.com/solroute/arbengine/pkg/core"
	"github.com/solroute/arbengine/pkg/pairindex"
	"github.com/solroute/arbengine/pkg/snapshot"
)

func pk(b byte) core.Pubkey {
	var raw [32]byte
	raw[0] = b
	return solana.PublicKeyFromBytes(raw[:])
}

func seedPool(t *testing.T, store *cache.Store, pool, vault0, vault1, mint0, mint1 core.Pubkey, rec *core.PoolRecord, reserve0, reserve1 uint64) {
	t.Helper()
	rec.Pool, rec.Vault0, rec.Vault1, rec.Mint0, rec.Mint1 = pool, vault0, vault1, mint0, mint1
	require.True(t, store.Pools.Set(pool, rec, 100, 0, core.SourceStream, 0))
	require.True(t, store.Vaults.Set(vault0, &core.VaultRecord{Amount: reserve0, Mint: mint0}, 100, 0, core.SourceStream, 0))
	require.True(t, store.Vaults.Set(vault1, &core.VaultRecord{Amount: reserve1, Mint: mint1}, 100, 0, core.SourceStream, 0))
}

func TestScanEmitsOpportunityForFragmentedPair(t *testing.T) {
	store := cache.NewStore(nil, nil)
	idx := pairindex.New()
	builder := snapshot.NewBuilder(store, pk(90), pk(91), 2, false)

	mint0, mint1 := pk(1), pk(2)

	poolA := pk(10)
	seedPool(t, store, poolA, pk(11), pk(12), mint0, mint1,
		&core.PoolRecord{Venue: core.VenueCPMMA, CPMM: &core.CPMMState{TotalFeeBps: 30}},
		1_000_000_000, 1_000_000)

	poolB := pk(20)
	seedPool(t, store, poolB, pk(21), pk(22), mint0, mint1,
		&core.PoolRecord{Venue: core.VenueCPMMB, CPMM: &core.CPMMState{FeeNumerator: 25, FeeDenominator: 10_000}},
		1_000_000_000, 1_050_000) // ~5% richer in mint1 => meaningful gross spread

	idx.Add(mint0, mint1, core.VenueCPMMA, poolA)
	idx.Add(mint0, mint1, core.VenueCPMMB, poolB)

	det := New(store, builder, idx, Config{ProbeAmount: 10_000_000, MinSpreadBps: 55})
	opps := det.Scan(100)

	require.Len(t, opps, 1)
	assert.Equal(t, core.VenueCPMMA, opps[0].BuyVenue)
	assert.Equal(t, core.VenueCPMMB, opps[0].SellVenue)
	assert.GreaterOrEqual(t, opps[0].NetSpreadBps, int64(55))
	assert.Equal(t, core.SignalSpread, opps[0].Signal)
}

func TestScanDedupWithinWindow(t *testing.T) {
	store := cache.NewStore(nil, nil)
	idx := pairindex.New()
	builder := snapshot.NewBuilder(store, pk(90), pk(91), 2, false)

	mint0, mint1 := pk(1), pk(2)
	poolA := pk(10)
	seedPool(t, store, poolA, pk(11), pk(12), mint0, mint1,
		&core.PoolRecord{Venue: core.VenueCPMMA, CPMM: &core.CPMMState{TotalFeeBps: 30}},
		1_000_000_000, 1_000_000)
	poolB := pk(20)
	seedPool(t, store, poolB, pk(21), pk(22), mint0, mint1,
		&core.PoolRecord{Venue: core.VenueCPMMB, CPMM: &core.CPMMState{FeeNumerator: 25, FeeDenominator: 10_000}},
		1_000_000_000, 1_050_000)
	idx.Add(mint0, mint1, core.VenueCPMMA, poolA)
	idx.Add(mint0, mint1, core.VenueCPMMB, poolB)

	det := New(store, builder, idx, Config{ProbeAmount: 10_000_000, MinSpreadBps: 55})
	first := det.Scan(100)
	second := det.Scan(100)

	assert.Len(t, first, 1)
	assert.Empty(t, second, "second scan within the dedup window should be suppressed")
}

func TestScanSkipsPairWithOnlyOneVenue(t *testing.T) {
	store := cache.NewStore(nil, nil)
	idx := pairindex.New()
	builder := snapshot.NewBuilder(store, pk(90), pk(91), 2, false)

	mint0, mint1 := pk(1), pk(2)
	poolA := pk(10)
	seedPool(t, store, poolA, pk(11), pk(12), mint0, mint1,
		&core.PoolRecord{Venue: core.VenueCPMMA, CPMM: &core.CPMMState{TotalFeeBps: 30}},
		1_000_000_000, 1_000_000)
	idx.Add(mint0, mint1, core.VenueCPMMA, poolA)

	det := New(store, builder, idx, Config{})
	assert.Empty(t, det.Scan(100))
}
