package bundle

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"lukechampine.com/uint128"

	"github.com/solroute/arbengine/pkg/core"
)

func pubkey(b byte) core.Pubkey {
	var raw [32]byte
	raw[0] = b
	return solana.PublicKeyFromBytes(raw[:])
}

func wallet() WalletContext {
	return WalletContext{
		Payer:              pubkey(1),
		InputTokenAccount:  pubkey(2),
		OutputTokenAccount: pubkey(3),
	}
}

func TestBuildLegAccountsCPMMAHasThirteenAccounts(t *testing.T) {
	rec := &core.PoolRecord{
		Venue: core.VenueCPMMA, Pool: pubkey(10), Vault0: pubkey(11), Vault1: pubkey(12),
		Mint0: pubkey(13), Mint1: pubkey(14),
		CPMM: &core.CPMMState{AmmConfig: pubkey(15), TotalFeeBps: 30},
	}
	leg := core.SwapLeg{Venue: core.VenueCPMMA, Pool: rec.Pool, Direction: core.Dir0to1}

	la, err := BuildLegAccounts(leg, rec, wallet())
	require.NoError(t, err)
	assert.Len(t, la.Accounts, 13)
	assert.True(t, la.Accounts[0].PublicKey.Equals(wallet().Payer))
	assert.True(t, la.Accounts[0].IsSigner)
}

func TestBuildLegAccountsCPMMBHasEighteenAccounts(t *testing.T) {
	rec := &core.PoolRecord{
		Venue: core.VenueCPMMB, Pool: pubkey(20), Vault0: pubkey(21), Vault1: pubkey(22),
		Mint0: pubkey(23), Mint1: pubkey(24),
		CPMM: &core.CPMMState{FeeNumerator: 25, FeeDenominator: 10_000},
	}
	leg := core.SwapLeg{Venue: core.VenueCPMMB, Pool: rec.Pool, Direction: core.Dir0to1}

	la, err := BuildLegAccounts(leg, rec, wallet())
	require.NoError(t, err)
	assert.Len(t, la.Accounts, 18)
}

func TestBuildLegAccountsCLMMIncludesTickArrays(t *testing.T) {
	rec := &core.PoolRecord{
		Venue: core.VenueCLMM, Pool: pubkey(30), Vault0: pubkey(31), Vault1: pubkey(32),
		Mint0: pubkey(33), Mint1: pubkey(34),
		CLMM: &core.CLMMState{
			SqrtPriceX64: uint128.From64(1 << 32),
			TickCurrent:  100, TickSpacing: 10,
			AmmConfig: pubkey(35),
		},
	}
	leg := core.SwapLeg{Venue: core.VenueCLMM, Pool: rec.Pool, Direction: core.Dir0to1}

	la, err := BuildLegAccounts(leg, rec, wallet())
	require.NoError(t, err)
	assert.Len(t, la.Accounts, 16)
	// last two accounts are the straddling tick arrays, distinct pdas
	last := la.Accounts[15].PublicKey
	secondLast := la.Accounts[14].PublicKey
	assert.False(t, last.Equals(secondLast))
}

func TestBuildLegAccountsDLMMIncludesBinArrays(t *testing.T) {
	rec := &core.PoolRecord{
		Venue: core.VenueDLMM, Pool: pubkey(40), Vault0: pubkey(41), Vault1: pubkey(42),
		Mint0: pubkey(43), Mint1: pubkey(44),
		DLMM: &core.DLMMState{ActiveBinID: 5, BinStep: 10},
	}
	leg := core.SwapLeg{Venue: core.VenueDLMM, Pool: rec.Pool, Direction: core.Dir0to1}

	la, err := BuildLegAccounts(leg, rec, wallet())
	require.NoError(t, err)
	assert.Len(t, la.Accounts, 18) // 16 base + 2 bin arrays
}

func TestBuildLegAccountsDirectionSwapsVaultOrder(t *testing.T) {
	rec := &core.PoolRecord{
		Venue: core.VenueCPMMA, Pool: pubkey(50), Vault0: pubkey(51), Vault1: pubkey(52),
		Mint0: pubkey(53), Mint1: pubkey(54),
		CPMM: &core.CPMMState{AmmConfig: pubkey(55)},
	}
	fwd, err := BuildLegAccounts(core.SwapLeg{Venue: core.VenueCPMMA, Direction: core.Dir0to1}, rec, wallet())
	require.NoError(t, err)
	rev, err := BuildLegAccounts(core.SwapLeg{Venue: core.VenueCPMMA, Direction: core.Dir1to0}, rec, wallet())
	require.NoError(t, err)

	assert.True(t, fwd.Accounts[6].PublicKey.Equals(rec.Vault0))
	assert.True(t, rev.Accounts[6].PublicKey.Equals(rec.Vault1))
}
