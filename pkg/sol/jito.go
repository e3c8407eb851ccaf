package sol

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/gagliardetto/solana-go"
	jitorpc "github.com/jito-labs/jito-go-rpc"
	"go.uber.org/zap"

	"github.com/solroute/arbengine/pkg/core"
)

type JitoClient struct {
	rpcClient  *jitorpc.JitoJsonRpcClient
	tipAccount solana.PublicKey
}

// Jito endpoint refer to: https://docs.jito.wtf/lowlatencytxnsend/
func NewJitoClient(ctx context.Context, endpoint string) (*JitoClient, error) {
	rpcClient := jitorpc.NewJitoJsonRpcClient(endpoint, "")
	tipAccount, err := rpcClient.GetRandomTipAccount()
	if err != nil {
		return nil, core.Wrap(core.ErrRPCTimeout, "sol: get random tip account", err)
	}
	tipAccountPublicKey, err := solana.PublicKeyFromBase58(tipAccount.Address)
	if err != nil {
		return nil, core.Wrap(core.ErrDecode, "sol: parse tip account", err)
	}
	return &JitoClient{
		rpcClient:  rpcClient,
		tipAccount: tipAccountPublicKey,
	}, nil
}

// TipAccount returns the tip recipient resolved at client construction.
func (c *JitoClient) TipAccount() solana.PublicKey { return c.tipAccount }

func encodeTransaction(raw []byte) string {
	return base64.StdEncoding.EncodeToString(raw)
}

// JitoSubmitter implements bundle.Submitter against a Jito block-builder
// endpoint. Bundle outcomes are pushed to onOutcome rather than printed,
// so the engine's stats/guard state can react to landed vs dropped
// bundles (§7).
type JitoSubmitter struct {
	client    *JitoClient
	log       *zap.Logger
	onOutcome func(core.BundleOutcome)
}

func NewJitoSubmitter(client *JitoClient, log *zap.Logger, onOutcome func(core.BundleOutcome)) *JitoSubmitter {
	if log == nil {
		log = zap.NewNop()
	}
	return &JitoSubmitter{client: client, log: log, onOutcome: onOutcome}
}

// Submit sends the bundle's transactions (victim-first if present, then
// the arb transaction, then the tip transaction last) and kicks off a
// background poll for the bundle's final status.
func (s *JitoSubmitter) Submit(ctx context.Context, b core.Bundle) (string, error) {
	raw := make([]string, 0, len(b.Transactions)+1)
	for _, tx := range b.Transactions {
		raw = append(raw, encodeTransaction(tx))
	}
	raw = append(raw, encodeTransaction(b.TipTransaction))

	bundleIDRaw, err := s.client.rpcClient.SendBundle([][]string{raw})
	if err != nil {
		return "", core.Wrap(core.ErrRPCTimeout, "sol: send bundle", err)
	}
	var bundleID string
	if err := json.Unmarshal(bundleIDRaw, &bundleID); err != nil {
		return "", core.Wrap(core.ErrDecode, "sol: unmarshal bundle id", err)
	}

	s.log.Info("bundle submitted", zap.String("bundle_id", bundleID))
	if s.onOutcome != nil {
		go s.pollOutcome(bundleID, b)
	}
	return bundleID, nil
}

// pollOutcome polls getBundleStatuses until a terminal status is reached
// or maxAttempts is exhausted, then reports the outcome. Grounded on the
// teacher's CheckBundleStatus polling shape, generalized to report through
// onOutcome instead of log lines.
func (s *JitoSubmitter) pollOutcome(bundleID string, b core.Bundle) {
	const maxAttempts = 5
	const pollInterval = 5 * time.Second

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		time.Sleep(pollInterval)

		statusResponse, err := s.client.rpcClient.GetBundleStatuses([]string{bundleID})
		if err != nil {
			s.log.Warn("bundle status check failed", zap.Int("attempt", attempt), zap.Error(err))
			continue
		}
		if len(statusResponse.Value) == 0 {
			continue
		}

		status := statusResponse.Value[0]
		switch status.ConfirmationStatus {
		case "processed", "confirmed":
			continue
		case "finalized":
			landed := status.Err.Ok == nil
			s.onOutcome(core.BundleOutcome{Bundle: b, Landed: landed, ObservedAt: time.Now()})
			return
		default:
			s.onOutcome(core.BundleOutcome{Bundle: b, Landed: false, ObservedAt: time.Now()})
			return
		}
	}

	s.onOutcome(core.BundleOutcome{Bundle: b, Landed: false, Err: core.New(core.ErrRPCTimeout, "sol: bundle status unknown after max polling attempts"), ObservedAt: time.Now()})
}
