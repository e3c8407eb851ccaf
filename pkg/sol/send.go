package sol

import (
	"context"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/solroute/arbengine/pkg/core"
)

// RPCSubmitter implements bundle.Submitter by sending each of a bundle's
// transactions individually via plain sendTransaction, for operators
// running without a block-builder endpoint (no atomicity guarantee across
// legs, unlike JitoSubmitter — an explicit degraded fallback, not the
// engine's default path).
type RPCSubmitter struct {
	client *Client
}

func NewRPCSubmitter(client *Client) *RPCSubmitter {
	return &RPCSubmitter{client: client}
}

func (s *RPCSubmitter) Submit(ctx context.Context, b core.Bundle) (string, error) {
	var lastSig solana.Signature
	for _, raw := range append(append([][]byte{}, b.Transactions...), b.TipTransaction) {
		tx, err := solana.TransactionFromDecoder(bin.NewBinDecoder(raw))
		if err != nil {
			return "", core.Wrap(core.ErrDecode, "sol: decode transaction for send", err)
		}
		sig, err := s.client.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
			SkipPreflight:       true,
			PreflightCommitment: rpc.CommitmentProcessed,
		})
		if err != nil {
			return "", core.Wrap(core.ErrUnknown, "sol: send transaction", err)
		}
		lastSig = sig
	}
	return lastSig.String(), nil
}
