package engine

import (
	"encoding/binary"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solroute/arbengine/pkg/anchor"
	"github.com/solroute/arbengine/pkg/cache"
	"github.com/solroute/arbengine/pkg/core"
	"github.com/solroute/arbengine/pkg/decode"
)

func pk(b byte) core.Pubkey {
	var raw [32]byte
	raw[0] = b
	return solana.PublicKeyFromBytes(raw[:])
}

func newTestStore() *cache.Store {
	return cache.NewStore(nil, nil)
}

// buildCPMMAAccount lays out a minimal Raydium CPMM pool account byte-for-
// byte against cpmmAWire's field order, enough for DecodeCPMM_A to parse.
func buildCPMMAAccount(vault0, vault1, mint0, mint1 core.Pubkey) []byte {
	buf := make([]byte, 0, 384)
	buf = append(buf, anchor.GetDiscriminator("account", "PoolState")...)

	zero := pk(0)
	pubkeys := []core.Pubkey{zero /*AmmConfig*/, zero /*PoolCreator*/, vault0, vault1, zero /*LpMint*/, mint0, mint1, zero, zero, zero}
	for _, k := range pubkeys {
		buf = append(buf, k.Bytes()...)
	}
	buf = append(buf, 0, 0, 0, 0, 0, 0, 0, 0) // bump/status/decimals x3 + padding[3]

	var amt [8]byte
	for i := 0; i < 6; i++ {
		binary.LittleEndian.PutUint64(amt[:], 0)
		buf = append(buf, amt[:]...)
	}
	return buf
}

// buildTokenAccount lays out a 165-byte SPL token account.
func buildTokenAccount(mint, owner core.Pubkey, amount uint64) []byte {
	buf := make([]byte, 165)
	copy(buf[0:32], mint.Bytes())
	copy(buf[32:64], owner.Bytes())
	binary.LittleEndian.PutUint64(buf[64:72], amount)
	return buf
}

func TestIngesterApplyRoutesCPMMPoolToActiveLifecycle(t *testing.T) {
	store := newTestStore()
	stats := NewStats()
	ing := NewIngester(store, stats, nil)

	vault0, vault1, mint0, mint1 := pk(1), pk(2), pk(3), pk(4)
	pool := pk(5)
	data := buildCPMMAAccount(vault0, vault1, mint0, mint1)

	err := ing.Apply(AccountUpdate{Pubkey: pool, Owner: decode.ProgramCPMM_A, Data: data, Slot: 100, WriteVersion: 1})
	require.NoError(t, err)

	entry, ok := store.Pools.Get(pool)
	require.True(t, ok)
	assert.Equal(t, core.VenueCPMMA, entry.Payload.Venue)
	assert.Equal(t, core.StateActive, store.Lifecycle.State(pool))
}

func TestIngesterApplyUnrecognizedOwnerIsDecodeFailure(t *testing.T) {
	store := newTestStore()
	stats := NewStats()
	ing := NewIngester(store, stats, nil)

	err := ing.Apply(AccountUpdate{Pubkey: pk(1), Owner: pk(99), Data: []byte{1, 2, 3}, Slot: 1})
	require.Error(t, err)
	assert.EqualValues(t, 1, stats.Snapshot().DecodeFailures)
}

func TestApplyPoolCLMMNotifiesBootstrapOnceOnFirstSighting(t *testing.T) {
	store := newTestStore()
	stats := NewStats()
	var notified []core.Pubkey
	ing := NewIngester(store, stats, func(pool core.Pubkey) { notified = append(notified, pool) })

	rec := &core.PoolRecord{
		Venue:  core.VenueCLMM,
		Pool:   pk(1),
		Vault0: pk(2),
		Vault1: pk(3),
		Mint0:  pk(4),
		Mint1:  pk(5),
		CLMM:   &core.CLMMState{},
	}

	require.NoError(t, ing.applyPool(AccountUpdate{Pubkey: rec.Pool, Slot: 1, WriteVersion: 1}, rec))
	assert.Equal(t, core.StateBootstrapping, store.Lifecycle.State(rec.Pool))
	assert.Len(t, notified, 1)

	// A second update for the same still-bootstrapping pool must not
	// re-notify: the bootstrap request was already enqueued.
	rec2 := *rec
	require.NoError(t, ing.applyPool(AccountUpdate{Pubkey: rec.Pool, Slot: 2, WriteVersion: 1}, &rec2))
	assert.Len(t, notified, 1)
}

func TestApplyVaultDecodesAndStores(t *testing.T) {
	store := newTestStore()
	stats := NewStats()
	ing := NewIngester(store, stats, nil)

	mint, owner := pk(1), pk(2)
	vaultKey := pk(3)
	data := buildTokenAccount(mint, owner, 55_000)

	err := ing.ApplyVault(AccountUpdate{Pubkey: vaultKey, Owner: decode.TokenProgram, Data: data, Slot: 10, WriteVersion: 1})
	require.NoError(t, err)

	entry, ok := store.Vaults.Get(vaultKey)
	require.True(t, ok)
	assert.Equal(t, uint64(55_000), entry.Payload.Amount)
	assert.True(t, entry.Payload.Mint.Equals(mint))
}

func TestRouteDispatchesOnTokenOwnership(t *testing.T) {
	store := newTestStore()
	stats := NewStats()
	ing := NewIngester(store, stats, nil)

	vaultKey := pk(9)
	data := buildTokenAccount(pk(1), pk(2), 10)
	isToken := func(o core.Pubkey) bool { return o.Equals(decode.TokenProgram) }

	err := ing.Route(AccountUpdate{Pubkey: vaultKey, Owner: decode.TokenProgram, Data: data, Slot: 1}, isToken)
	require.NoError(t, err)
	_, ok := store.Vaults.Get(vaultKey)
	assert.True(t, ok)
}
