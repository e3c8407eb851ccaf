package engine

import (
	"context"
	"time"

	cosmath "cosmossdk.io/math"

	"github.com/solroute/arbengine/pkg/bundle"
	"github.com/solroute/arbengine/pkg/cache"
	"github.com/solroute/arbengine/pkg/core"
	"github.com/solroute/arbengine/pkg/decode"
	"github.com/solroute/arbengine/pkg/detector"
	"github.com/solroute/arbengine/pkg/pairindex"
	"github.com/solroute/arbengine/pkg/snapshot"
)

// PendingTxEvent is one observed not-yet-landed transaction from the
// pending-tx stream, pre-parsed into whatever swap legs pkg/decode could
// recognize. An event naming no legs is still delivered — the engine just
// has nothing to react to.
type PendingTxEvent struct {
	RawTx []byte
	Legs  []core.SwapLeg
}

// Config bundles every tunable the engine loop itself reads; per-venue
// simulation and detection tuning live in detector.Config and the guard
// tuning lives in bundle.GuardConfig, both supplied separately.
type Config struct {
	StatsInterval            time.Duration
	BlockhashRefreshInterval time.Duration // 0 disables the periodic refresh timer
	PendingTxQueueSize       int           // backpressure budget for the pending-tx channel
	BootstrapRadius          int
	Payer                    core.Pubkey
	CUPriceMicrolamports     uint64
	CULimit                  uint32
	TipLamports              uint64
	TipAccounts              bundle.TipAccountSet
}

func (c Config) withDefaults() Config {
	if c.StatsInterval == 0 {
		c.StatsInterval = 5 * time.Second
	}
	if c.PendingTxQueueSize == 0 {
		c.PendingTxQueueSize = 256
	}
	if c.BootstrapRadius == 0 {
		c.BootstrapRadius = 1
	}
	return c
}

// Engine wires every component (C1-C6) into the single cooperative loop
// §4.7/§5 describe: one ingest path, one opportunity pipeline, a stats
// tick, and an optional blockhash refresh — all running off one goroutine
// so no two components ever race over the same pool's cache entry.
type Engine struct {
	cfg Config

	Store     *cache.Store
	Builder   *snapshot.Builder
	Index     *pairindex.Index
	Detector  *detector.Detector
	Ingester  *Ingester
	Stats     *Stats
	Bootstrap *Bootstrapper

	GuardConfig bundle.GuardConfig
	guardState  bundle.GuardState

	Signer      bundle.TxSigner
	Submitter   bundle.Submitter
	Blockhash   *bundle.BlockhashProvider
	WalletCtx   bundle.WalletContext

	accountUpdates chan AccountUpdate
	pendingTx      chan PendingTxEvent
	bootstrapReq   chan core.Pubkey

	onStats func(Snapshot)
	onFatal func(reason string)
}

// New assembles an Engine. onStats and onFatal are both optional observer
// hooks: onStats fires every StatsInterval, onFatal fires once when a
// guard trip halts submission (§4.6's maxWalletDrawdownLamports case).
func New(store *cache.Store, builder *snapshot.Builder, index *pairindex.Index, det *detector.Detector,
	fetcher BootstrapFetcher, guardCfg bundle.GuardConfig, cfg Config,
	signer bundle.TxSigner, submitter bundle.Submitter, blockhashSrc bundle.BlockhashSource,
	walletCtx bundle.WalletContext, onStats func(Snapshot), onFatal func(reason string)) *Engine {
	cfg = cfg.withDefaults()
	stats := NewStats()

	e := &Engine{
		cfg:          cfg,
		Store:        store,
		Builder:      builder,
		Index:        index,
		Detector:     det,
		Stats:        stats,
		GuardConfig:  guardCfg,
		Signer:       signer,
		Submitter:    submitter,
		WalletCtx:    walletCtx,
		onStats:      onStats,
		onFatal:      onFatal,
		accountUpdates: make(chan AccountUpdate, 1024),
		pendingTx:      make(chan PendingTxEvent, cfg.PendingTxQueueSize),
		bootstrapReq:   make(chan core.Pubkey, 256),
	}
	e.Bootstrap = NewBootstrapper(store, fetcher, cfg.BootstrapRadius)
	e.Ingester = NewIngester(store, stats, func(pool core.Pubkey) {
		select {
		case e.bootstrapReq <- pool:
		default:
			stats.IncSkipReason("bootstrap_queue_full")
		}
	})
	if blockhashSrc != nil {
		e.Blockhash = bundle.NewBlockhashProvider(blockhashSrc, cfg.BlockhashRefreshInterval)
	}
	return e
}

// PushAccountUpdate enqueues a streamed account update for the ingest
// task. Unlike the pending-tx channel, this one is never dropped: a lost
// account update is a correctness bug (a stale cache entry persists
// indefinitely), whereas a lost pending-tx event just misses one backrun.
func (e *Engine) PushAccountUpdate(ctx context.Context, u AccountUpdate) error {
	select {
	case e.accountUpdates <- u:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PushPendingTx enqueues a pending-tx event, dropping the newest event and
// incrementing a counter if the queue is full rather than blocking the
// caller — per §5's backpressure rule, the ingest task must never stall
// behind a slow detector.
func (e *Engine) PushPendingTx(ev PendingTxEvent) {
	select {
	case e.pendingTx <- ev:
	default:
		e.Stats.IncPendingTxDropped()
	}
}

// Run is the cooperative single-threaded loop: one select consuming every
// input stream plus two timers. Nothing here spawns a goroutine of its own
// — concurrency is confined to the callers feeding the three channels.
func (e *Engine) Run(ctx context.Context) error {
	statsTicker := time.NewTicker(e.cfg.StatsInterval)
	defer statsTicker.Stop()

	var blockhashTicker *time.Ticker
	var blockhashC <-chan time.Time
	if e.cfg.BlockhashRefreshInterval > 0 && e.Blockhash != nil {
		blockhashTicker = time.NewTicker(e.cfg.BlockhashRefreshInterval)
		defer blockhashTicker.Stop()
		blockhashC = blockhashTicker.C
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case u := <-e.accountUpdates:
			if err := e.Ingester.Route(u, isTokenOwner); err != nil {
				e.Stats.IncDecodeFailure()
			}

		case pool := <-e.bootstrapReq:
			if err := e.Bootstrap.Bootstrap(ctx, pool, 0); err != nil {
				e.Stats.IncSkipReason("bootstrap_failed")
			}

		case ev := <-e.pendingTx:
			e.handlePendingTx(ctx, ev)

		case <-blockhashC:
			if _, err := e.Blockhash.Get(ctx, true); err != nil {
				e.Stats.IncSkipReason("blockhash_refresh_failed")
			}

		case <-statsTicker.C:
			e.runDetectorScan(ctx)
			if e.onStats != nil {
				e.onStats(e.Stats.Snapshot())
			}
		}

		if bundle.IsFatal(e.GuardConfig, e.guardState) {
			if e.onFatal != nil {
				e.onFatal("maxWalletDrawdownLamports reached")
			}
			return nil
		}
	}
}

func isTokenOwner(owner core.Pubkey) bool {
	return owner.Equals(decode.TokenProgram) || owner.Equals(decode.Token2022Program)
}

// runDetectorScan runs one detector pass and feeds every surviving
// opportunity through the size-guard -> compose -> submit pipeline.
func (e *Engine) runDetectorScan(ctx context.Context) {
	for _, opp := range e.Detector.Scan(e.Store.Pools.LastSeenSlot()) {
		e.considerOpportunity(ctx, opp, nil)
	}
}

// handlePendingTx reacts to a decoded pending transaction by treating it
// as a potential victim: if its legs touch a pool this engine tracks, a
// detector scan runs immediately (rather than waiting for the next stats
// tick) and any resulting opportunity is composed with the pending
// transaction as the bundle's victim leg.
func (e *Engine) handlePendingTx(ctx context.Context, ev PendingTxEvent) {
	if len(ev.Legs) == 0 {
		return
	}
	touches := false
	for _, leg := range ev.Legs {
		if _, ok := e.Store.Pools.Get(leg.Pool); ok {
			touches = true
			break
		}
	}
	if !touches {
		return
	}
	for _, opp := range e.Detector.Scan(e.Store.Pools.LastSeenSlot()) {
		e.considerOpportunity(ctx, opp, ev.RawTx)
	}
}

// considerOpportunity runs the size guards against opp and, if it clears
// them, composes and submits a bundle. victimTx is nil for a periodic-scan
// opportunity and non-nil for a pending-tx-triggered backrun.
func (e *Engine) considerOpportunity(ctx context.Context, opp core.Opportunity, victimTx []byte) {
	e.Stats.IncOpportunity(opp.Signal == core.SignalSpread, opp.Signal == core.SignalFeeDecay, opp.Signal == core.SignalEmptyBin)

	candidate := bundle.Candidate{
		Opportunity:       opp,
		InputLamports:     cosmath.NewIntFromUint64(opp.InputAmount),
		NetProfitLamports: netProfit(opp),
	}
	if err := e.GuardConfig.Check(candidate, e.guardState); err != nil {
		e.Stats.IncGuardTrip()
		e.Stats.IncSkipReason("guard_tripped")
		return
	}

	legs, err := e.planLegs(opp)
	if err != nil {
		e.Stats.IncSkipReason("leg_planning_failed")
		return
	}

	compose := func(ctx context.Context, force bool) (core.Bundle, error) {
		return bundle.Compose(ctx, bundle.ComposeParams{
			Opportunity:          opp,
			Legs:                 legs,
			VictimTx:             victimTx,
			Payer:                e.WalletCtx.Payer,
			CUPriceMicrolamports: e.cfg.CUPriceMicrolamports,
			CULimit:              e.cfg.CULimit,
			TipLamports:          e.cfg.TipLamports,
			TipAccounts:          e.cfg.TipAccounts,
			Signer:               e.Signer,
			Blockhash:            e.Blockhash,
		})
	}

	b, err := compose(ctx, false)
	if err != nil {
		e.Stats.IncSkipReason("compose_failed")
		return
	}
	e.Stats.IncBundlesBuilt()

	if _, err := bundle.Submit(ctx, e.Submitter, compose, b); err != nil {
		e.Stats.IncBundlesRejected()
		return
	}
	e.Stats.IncBundlesSubmitted()
	e.guardState.SubmissionsThisHour++
}

// planLegs resolves the two-leg buy/sell plan for opp into the account
// lists bundle.Compose needs. It is a thin adapter over pkg/bundle's
// account builder, keeping venue account-layout knowledge out of the
// engine package.
func (e *Engine) planLegs(opp core.Opportunity) ([]bundle.LegPlan, error) {
	buyRec, ok := e.Store.Pools.Get(opp.BuyPool)
	if !ok {
		return nil, core.New(core.ErrMissingDependency, "engine: buy pool not cached")
	}
	sellRec, ok := e.Store.Pools.Get(opp.SellPool)
	if !ok {
		return nil, core.New(core.ErrMissingDependency, "engine: sell pool not cached")
	}

	buyDir := legDirection(buyRec.Payload, opp.MintA)
	buyInVault, buyOutVault := buyRec.Payload.Vault0, buyRec.Payload.Vault1
	if buyDir == core.Dir1to0 {
		buyInVault, buyOutVault = buyRec.Payload.Vault1, buyRec.Payload.Vault0
	}
	buyLeg := core.SwapLeg{
		Venue:       opp.BuyVenue,
		Pool:        opp.BuyPool,
		Direction:   buyDir,
		InputMint:   opp.MintA,
		OutputMint:  opp.MintB,
		InputVault:  buyInVault,
		OutputVault: buyOutVault,
		Exact:       core.ExactIn,
		AmountIn:    opp.InputAmount,
	}

	sellDir := legDirection(sellRec.Payload, opp.MintB)
	sellInVault, sellOutVault := sellRec.Payload.Vault0, sellRec.Payload.Vault1
	if sellDir == core.Dir1to0 {
		sellInVault, sellOutVault = sellRec.Payload.Vault1, sellRec.Payload.Vault0
	}
	sellLeg := core.SwapLeg{
		Venue:       opp.SellVenue,
		Pool:        opp.SellPool,
		Direction:   sellDir,
		InputMint:   opp.MintB,
		OutputMint:  opp.MintA,
		InputVault:  sellInVault,
		OutputVault: sellOutVault,
		Exact:       core.ExactIn,
		AmountIn:    opp.ExpectedOutput,
	}

	buyAccounts, err := bundle.BuildLegAccounts(buyLeg, buyRec.Payload, e.WalletCtx)
	if err != nil {
		return nil, err
	}
	sellAccounts, err := bundle.BuildLegAccounts(sellLeg, sellRec.Payload, e.WalletCtx)
	if err != nil {
		return nil, err
	}

	return []bundle.LegPlan{
		{Leg: buyLeg, Accounts: buyAccounts},
		{Leg: sellLeg, Accounts: sellAccounts},
	}, nil
}

// legDirection reports which way a leg sells relative to the pool record's
// own Mint0/Mint1 ordering, since the detector's MintA/MintB pairing is
// arbitrary while every venue's swap instruction is direction-sensitive.
func legDirection(rec *core.PoolRecord, inputMint core.Pubkey) core.Direction {
	if rec.Mint0.Equals(inputMint) {
		return core.Dir0to1
	}
	return core.Dir1to0
}

func netProfit(opp core.Opportunity) cosmath.Int {
	if opp.ExpectedOutput <= opp.InputAmount {
		return cosmath.ZeroInt()
	}
	return cosmath.NewIntFromUint64(opp.ExpectedOutput - opp.InputAmount)
}
