package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/solroute/arbengine/config"
	"github.com/solroute/arbengine/pkg/bundle"
	"github.com/solroute/arbengine/pkg/cache"
	"github.com/solroute/arbengine/pkg/core"
	"github.com/solroute/arbengine/pkg/decode"
	"github.com/solroute/arbengine/pkg/detector"
	"github.com/solroute/arbengine/pkg/engine"
	"github.com/solroute/arbengine/pkg/pairindex"
	"github.com/solroute/arbengine/pkg/snapshot"
	"github.com/solroute/arbengine/pkg/sol"
)

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(log); err != nil {
		log.Error("fatal startup failure", zap.Error(err))
		os.Exit(1)
	}
}

func run(log *zap.Logger) error {
	cfg, err := config.Load("arbengine")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		return err
	}
	if err := persistRunConfig(cfg); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	signerKey, err := solana.PrivateKeyFromSolanaKeygenFile(cfg.Keys.SignerPath)
	if err != nil {
		return err
	}
	log.Info("loaded signer", zap.String("pubkey", signerKey.PublicKey().String()))

	client, err := sol.NewClient(ctx, cfg.Endpoints.RPCURL, cfg.Endpoints.SubmissionURL, 20, log)
	if err != nil {
		return err
	}

	inputMint := solana.MustPublicKeyFromBase58(cfg.Strategy.InputMint)
	outputMint := solana.MustPublicKeyFromBase58(cfg.Strategy.OutputMint)

	inputTokenAccount, err := client.SelectOrCreateSPLTokenAccount(ctx, signerKey, inputMint)
	if err != nil {
		return err
	}
	outputTokenAccount, err := client.SelectOrCreateSPLTokenAccount(ctx, signerKey, outputMint)
	if err != nil {
		return err
	}

	index := pairindex.New()
	store := cache.NewStore(traceHandler(log), combinedNotifier(log, index))

	builder := snapshot.NewBuilder(store, decode.ProgramCLMM, decode.ProgramDLMM, cfg.Topology.TickArrayRadius, !cfg.Topology.IncludeTopologyFrozenPools)
	det := detector.New(store, builder, index, detector.Config{
		MinSpreadBps: cfg.Risk.SlippageBps,
	})

	signer, err := sol.NewSigner([]solana.PrivateKey{signerKey})
	if err != nil {
		return err
	}

	bundleResultsPath := filepath.Join(cfg.Output.Dir, cfg.Output.BundleResultsLogFile)
	onOutcome := bundleOutcomeLogger(log, bundleResultsPath)

	var submitter bundle.Submitter
	var tipAccounts bundle.TipAccountSet
	if cfg.Endpoints.SubmissionURL != "" {
		jitoClient, err := sol.NewJitoClient(ctx, cfg.Endpoints.SubmissionURL)
		if err != nil {
			return err
		}
		submitter = sol.NewJitoSubmitter(jitoClient, log, onOutcome)
		tipAccounts = bundle.TipAccountSet{jitoClient.TipAccount()}
	} else {
		submitter = sol.NewRPCSubmitter(client)
		tipAccounts = bundle.TipAccountSet{signerKey.PublicKey()}
	}

	guardCfg := bundle.GuardConfig{
		MinProfitLamports:           cfg.Risk.MinProfit(),
		MaxNetToInputBps:            cfg.Risk.MaxNetToInputBps,
		MaxAbsoluteNetLamports:      cfg.Risk.MaxAbsoluteNet(),
		CanaryMaxSubmissionsPerHour: cfg.Risk.CanaryMaxSubmissionsPerHour,
		CanaryMaxInputLamports:      cfg.Risk.CanaryMaxInput(),
		MaxWalletDrawdownLamports:   cfg.Risk.MaxWalletDrawdown(),
	}

	statsPath := filepath.Join(cfg.Output.Dir, cfg.Output.StatsLogFile)
	statsLatestPath := filepath.Join(cfg.Output.Dir, cfg.Output.StatsLatestFile)
	onStats := statsWriter(log, statsPath, statsLatestPath)

	var fatalReason string
	onFatal := func(reason string) {
		fatalReason = reason
		log.Error("guard triggered shutdown", zap.String("reason", reason))
	}

	e := engine.New(store, builder, index, det, client, guardCfg, engine.Config{
		StatsInterval:            time.Second,
		BlockhashRefreshInterval: time.Duration(cfg.Blockhash.RefreshIntervalMs) * time.Millisecond,
		BootstrapRadius:          cfg.Topology.TickArrayRadius,
		Payer:                    signerKey.PublicKey(),
		CUPriceMicrolamports:     cfg.Risk.CUPriceMicrolamports,
		CULimit:                  cfg.Risk.CULimit,
		TipLamports:              cfg.Risk.TipLamports,
		TipAccounts:              tipAccounts,
	}, signer, submitter, client, bundle.WalletContext{
		Payer:              signerKey.PublicKey(),
		InputTokenAccount:  inputTokenAccount,
		OutputTokenAccount: outputTokenAccount,
	}, onStats, onFatal)

	log.Info("engine starting", zap.String("mode", cfg.Strategy.Mode), zap.Bool("dry_run", cfg.Strategy.DryRun))
	if err := e.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	if fatalReason != "" {
		os.Exit(2)
	}
	return nil
}

func traceHandler(log *zap.Logger) cache.TraceHandler {
	return func(t cache.Trace) {
		log.Debug("cache trace",
			zap.String("kind", t.Kind.String()),
			zap.String("cache", t.CacheName),
			zap.String("pubkey", t.Pubkey.String()),
			zap.Uint64("slot", t.Slot),
			zap.String("reason", t.Reason),
		)
	}
}

// combinedNotifier fans a single cache.Notifier callback out to both the
// pair index (which maintains venue/pool membership off transitions) and
// the structured log.
func combinedNotifier(log *zap.Logger, index *pairindex.Index) cache.Notifier {
	return func(pool, mint0, mint1 core.Pubkey, venue core.Venue, from, to core.LifecycleState) {
		index.OnLifecycleChange(pool, mint0, mint1, venue, from, to)
		log.Info("lifecycle transition",
			zap.String("pool", pool.String()),
			zap.String("from", from.String()),
			zap.String("to", to.String()),
		)
	}
}

func bundleOutcomeLogger(log *zap.Logger, path string) func(core.BundleOutcome) {
	return func(o core.BundleOutcome) {
		log.Info("bundle outcome", zap.Bool("landed", o.Landed), zap.Error(o.Err))
		appendJSONLine(path, o)
	}
}

func statsWriter(log *zap.Logger, jsonlPath, latestPath string) func(engine.Snapshot) {
	return func(snap engine.Snapshot) {
		log.Info("stats",
			zap.Uint64("opportunities", snap.Opportunities),
			zap.Uint64("bundles_submitted", snap.BundlesSubmitted),
			zap.Uint64("guard_trips", snap.GuardTrips),
		)
		appendJSONLine(jsonlPath, snap)
		writeJSONFile(latestPath, snap)
	}
}

func persistRunConfig(cfg *config.Config) error {
	return writeJSONFile(filepath.Join(cfg.Output.Dir, cfg.Output.RunConfigFile), cfg)
}

func appendJSONLine(path string, v any) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	_ = enc.Encode(v)
}

func writeJSONFile(path string, v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return
	}
	_ = os.WriteFile(path, data, 0o644)
}
