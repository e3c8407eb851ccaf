package bundle

import (
	"context"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solroute/arbengine/pkg/core"
)

type fakeBlockhashSource struct{ hash [32]byte }

func (f fakeBlockhashSource) LatestBlockhash(ctx context.Context) ([32]byte, error) {
	return f.hash, nil
}

type fakeSigner struct{ calls int }

func (f *fakeSigner) Sign(ctx context.Context, blockhash [32]byte, instrs []solana.Instruction) ([]byte, error) {
	f.calls++
	return []byte{byte(f.calls)}, nil
}

func TestComposeOrdersVictimArbThenTip(t *testing.T) {
	provider := NewBlockhashProvider(fakeBlockhashSource{hash: [32]byte{1}}, time.Minute)
	signer := &fakeSigner{}

	rec := &core.PoolRecord{
		Venue: core.VenueCPMMA, Pool: pubkey(60), Vault0: pubkey(61), Vault1: pubkey(62),
		Mint0: pubkey(63), Mint1: pubkey(64),
		CPMM: &core.CPMMState{AmmConfig: pubkey(65)},
	}
	la, err := BuildLegAccounts(core.SwapLeg{Venue: core.VenueCPMMA, Direction: core.Dir0to1, AmountIn: 100, MinAmountOut: 90}, rec, wallet())
	require.NoError(t, err)

	params := ComposeParams{
		Opportunity: core.Opportunity{Signal: core.SignalSpread},
		Legs:        []LegPlan{{Leg: core.SwapLeg{Venue: core.VenueCPMMA, AmountIn: 100, MinAmountOut: 90}, Accounts: la}},
		VictimTx:    []byte("victim"),
		Payer:       wallet().Payer,
		CULimit:     200_000,
		TipLamports: 10_000,
		TipAccounts: TipAccountSet{pubkey(99)},
		Signer:      signer,
		Blockhash:   provider,
	}

	b, err := Compose(context.Background(), params)
	require.NoError(t, err)
	require.Len(t, b.Transactions, 2)
	assert.Equal(t, []byte("victim"), b.Transactions[0])
	assert.NotEmpty(t, b.TipTransaction)
	assert.Equal(t, 2, signer.calls) // arb + tip, each signed once
}

func TestComposeWithoutVictimOmitsFirstSlot(t *testing.T) {
	provider := NewBlockhashProvider(fakeBlockhashSource{hash: [32]byte{2}}, time.Minute)
	signer := &fakeSigner{}

	rec := &core.PoolRecord{
		Venue: core.VenueDLMM, Pool: pubkey(70), Vault0: pubkey(71), Vault1: pubkey(72),
		Mint0: pubkey(73), Mint1: pubkey(74),
		DLMM: &core.DLMMState{ActiveBinID: 1, BinStep: 10},
	}
	la, err := BuildLegAccounts(core.SwapLeg{Venue: core.VenueDLMM, Direction: core.Dir0to1}, rec, wallet())
	require.NoError(t, err)

	params := ComposeParams{
		Legs:        []LegPlan{{Leg: core.SwapLeg{Venue: core.VenueDLMM, AmountIn: 50, MinAmountOut: 40}, Accounts: la}},
		Payer:       wallet().Payer,
		TipLamports: 5_000,
		TipAccounts: TipAccountSet{pubkey(98)},
		Signer:      signer,
		Blockhash:   provider,
	}

	b, err := Compose(context.Background(), params)
	require.NoError(t, err)
	require.Len(t, b.Transactions, 1)
}

func TestComposeRejectsEmptyLegs(t *testing.T) {
	provider := NewBlockhashProvider(fakeBlockhashSource{hash: [32]byte{3}}, time.Minute)
	_, err := Compose(context.Background(), ComposeParams{Signer: &fakeSigner{}, Blockhash: provider, TipAccounts: TipAccountSet{pubkey(1)}})
	require.Error(t, err)
}
