package sol

import (
	"context"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/solroute/arbengine/pkg/core"
)

// Signer implements bundle.TxSigner against an in-memory keypair. Key
// loading/storage is the caller's concern (§1 non-goals); Signer only
// holds what it is handed at construction time.
type Signer struct {
	signers []solana.PrivateKey
}

func NewSigner(signers []solana.PrivateKey) (*Signer, error) {
	if len(signers) == 0 {
		return nil, core.New(core.ErrUnknown, "sol: at least one signer is required")
	}
	return &Signer{signers: signers}, nil
}

// Sign builds a transaction from instrs against the given blockhash and
// signs it with every configured key, returning the wire-ready bytes
// bundle.Compose expects.
func (s *Signer) Sign(ctx context.Context, blockhash [32]byte, instrs []solana.Instruction) ([]byte, error) {
	tx, err := solana.NewTransaction(
		instrs,
		solana.Hash(blockhash),
		solana.TransactionPayer(s.signers[0].PublicKey()),
	)
	if err != nil {
		return nil, core.Wrap(core.ErrUnknown, "sol: build transaction", err)
	}

	_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		for _, signer := range s.signers {
			if signer.PublicKey().Equals(key) {
				return &signer
			}
		}
		return nil
	})
	if err != nil {
		return nil, core.Wrap(core.ErrUnknown, "sol: sign transaction", err)
	}

	return tx.MarshalBinary()
}

// signAndSend is the one-off provisioning path shared by
// SelectOrCreateSPLTokenAccount/CoverWsol/CloseWsol: build, sign, and send
// a small instruction list against a single private key, outside of the
// engine's bundle-composition path.
func (t *Client) signAndSend(ctx context.Context, privateKey solana.PrivateKey, instrs []solana.Instruction) (solana.Signature, error) {
	signer, err := NewSigner([]solana.PrivateKey{privateKey})
	if err != nil {
		return solana.Signature{}, err
	}
	res, err := t.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return solana.Signature{}, core.Wrap(core.ErrRPCTimeout, "sol: get latest blockhash", err)
	}
	raw, err := signer.Sign(ctx, [32]byte(res.Value.Blockhash), instrs)
	if err != nil {
		return solana.Signature{}, err
	}
	tx, err := solana.TransactionFromDecoder(bin.NewBinDecoder(raw))
	if err != nil {
		return solana.Signature{}, core.Wrap(core.ErrDecode, "sol: decode signed transaction", err)
	}
	sig, err := t.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{SkipPreflight: true, PreflightCommitment: rpc.CommitmentProcessed})
	if err != nil {
		return solana.Signature{}, core.Wrap(core.ErrUnknown, "sol: send transaction", err)
	}
	return sig, nil
}
