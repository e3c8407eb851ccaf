// Package config carries every operator-facing option named in §6.5:
// endpoints, keys, strategy/risk knobs, topology radii, blockhash timing,
// and output paths. Values are environment-driven; there is no config
// file format or CLI flag parser here (§1 non-goals exclude config
// loading/CLI beyond what main needs to boot).
package config

import (
	"fmt"

	cosmath "cosmossdk.io/math"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Endpoints Endpoints
	Keys      Keys
	Strategy  Strategy
	Risk      Risk
	Topology  Topology
	Blockhash Blockhash
	Output    Output
}

type Endpoints struct {
	StreamURL      string `envconfig:"STREAM_URL" required:"true"`
	PendingTxURL   string `envconfig:"PENDING_TX_URL"`
	RPCURL         string `envconfig:"RPC_URL" required:"true"`
	BlockhashRPCURL string `envconfig:"BLOCKHASH_RPC_URL"`
	SubmissionURL  string `envconfig:"SUBMISSION_URL"`
}

type Keys struct {
	SignerPath string `envconfig:"SIGNER_PATH" required:"true"`
	AuthPath   string `envconfig:"AUTH_PATH"`
}

type Strategy struct {
	Mode       string `envconfig:"STRATEGY_MODE" default:"cross_venue_pair"`
	InputMint  string `envconfig:"INPUT_MINT" required:"true"`
	OutputMint string `envconfig:"OUTPUT_MINT" required:"true"`
	DryRun     bool   `envconfig:"DRY_RUN" default:"true"`
}

// Risk holds every §4.6 guard knob plus the fee/slippage parameters the
// detector and bundle composer need. Lamport fields are parsed as plain
// int64 env vars and converted to cosmath.Int once at load time, rather
// than tagging cosmath.Int directly with envconfig (it has no
// UnmarshalText hook).
type Risk struct {
	MinProfitLamports           int64 `envconfig:"MIN_PROFIT_LAMPORTS" default:"1000000"`
	TipLamports                 uint64 `envconfig:"TIP_LAMPORTS" default:"10000"`
	CULimit                     uint32 `envconfig:"CU_LIMIT" default:"600000"`
	CUPriceMicrolamports        uint64 `envconfig:"CU_PRICE_MICROLAMPORTS" default:"5000"`
	SlippageBps                 int64  `envconfig:"SLIPPAGE_BPS" default:"100"`
	ExecutionSlippageBps        int64  `envconfig:"EXECUTION_SLIPPAGE_BPS" default:"50"`
	ConservativeHaircutBps      int64  `envconfig:"CONSERVATIVE_HAIRCUT_BPS" default:"10"`
	MaxStateLagSlots            uint64 `envconfig:"MAX_STATE_LAG_SLOTS" default:"3"`
	MaxNetToInputBps            int64  `envconfig:"MAX_NET_TO_INPUT_BPS" default:"2000"`
	MaxAbsoluteNetLamports      int64  `envconfig:"MAX_ABS_NET" default:"0"` // 0 => no limit
	CanaryMaxInputLamports      int64  `envconfig:"CANARY_MAX_INPUT" default:"0"`
	CanaryMaxSubmissionsPerHour int    `envconfig:"CANARY_MAX_SUBMISSIONS_PER_HOUR" default:"0"`
	MaxWalletDrawdownLamports   int64  `envconfig:"MAX_WALLET_DRAWDOWN" default:"0"`
}

type Topology struct {
	TickArrayRadius            int  `envconfig:"TICK_ARRAY_RADIUS" default:"1"`
	BinArrayRadius             int  `envconfig:"BIN_ARRAY_RADIUS" default:"1"`
	IncludeTopologyFrozenPools bool `envconfig:"INCLUDE_TOPOLOGY_FROZEN_POOLS" default:"false"`
}

type Blockhash struct {
	RefreshIntervalMs    int `envconfig:"BLOCKHASH_REFRESH_INTERVAL_MS" default:"2000"`
	MinRefreshIntervalMs int `envconfig:"BLOCKHASH_MIN_REFRESH_INTERVAL_MS" default:"400"`
}

// Output paths the engine writes to; see §6.5.
type Output struct {
	Dir                  string `envconfig:"OUTPUT_DIR" default:"./run"`
	RunConfigFile        string `envconfig:"RUN_CONFIG_FILE" default:"run-config.json"`
	StatsLogFile         string `envconfig:"STATS_LOG_FILE" default:"stats.jsonl"`
	StatsLatestFile      string `envconfig:"STATS_LATEST_FILE" default:"stats-latest.json"`
	BundleResultsLogFile string `envconfig:"BUNDLE_RESULTS_LOG_FILE" default:"bundle-results.jsonl"`
}

// Load populates a Config from the process environment. app is the
// envconfig prefix; callers pass "arbengine" so only ARBENGINE_-prefixed
// vars outside the explicit envconfig tags above are ever considered.
func Load(app string) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(app, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// MinProfit converts the risk config's plain int64 into the cosmath.Int
// bundle.GuardConfig expects; 0 maps to the nil cosmath.Int{}, which the
// guards read through IsNil as "no limit".
func (r Risk) MinProfit() cosmath.Int { return orZero(r.MinProfitLamports) }

func (r Risk) MaxAbsoluteNet() cosmath.Int { return orZero(r.MaxAbsoluteNetLamports) }

func (r Risk) CanaryMaxInput() cosmath.Int { return orZero(r.CanaryMaxInputLamports) }

func (r Risk) MaxWalletDrawdown() cosmath.Int { return orZero(r.MaxWalletDrawdownLamports) }

func orZero(v int64) cosmath.Int {
	if v == 0 {
		return cosmath.Int{}
	}
	return cosmath.NewInt(v)
}
