package sol

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/solroute/arbengine/pkg/core"
	"github.com/solroute/arbengine/pkg/engine"
)

// RPC wrapper methods with rate limiting

// GetAccountInfoWithOpts wraps the RPC call with rate limiting
func (c *Client) GetAccountInfoWithOpts(ctx context.Context, account solana.PublicKey) (*rpc.GetAccountInfoResult, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}
	opts := &rpc.GetAccountInfoOpts{
		Commitment: rpc.CommitmentProcessed,
	}
	return c.rpcClient.GetAccountInfoWithOpts(ctx, account, opts)
}

// GetMultipleAccountsWithOpts wraps the RPC call with rate limiting
func (c *Client) GetMultipleAccountsWithOpts(ctx context.Context, accounts []solana.PublicKey, minContextSlot uint64) (*rpc.GetMultipleAccountsResult, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}
	opts := &rpc.GetMultipleAccountsOpts{
		Commitment:     rpc.CommitmentProcessed,
		MinContextSlot: &minContextSlot,
	}
	return c.rpcClient.GetMultipleAccountsWithOpts(ctx, accounts, opts)
}

// GetProgramAccountsWithOpts wraps the RPC call with rate limiting
func (c *Client) GetProgramAccountsWithOpts(ctx context.Context, programID solana.PublicKey, opts *rpc.GetProgramAccountsOpts) (rpc.GetProgramAccountsResult, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}
	return c.rpcClient.GetProgramAccountsWithOpts(ctx, programID, opts)
}

// GetTokenAccountsByOwner wraps the RPC call with rate limiting
func (c *Client) GetTokenAccountsByOwner(ctx context.Context, owner solana.PublicKey, config *rpc.GetTokenAccountsConfig, opts *rpc.GetTokenAccountsOpts) (*rpc.GetTokenAccountsResult, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}
	return c.rpcClient.GetTokenAccountsByOwner(ctx, owner, config, opts)
}

// GetTokenAccountBalance wraps the RPC call with rate limiting
func (c *Client) GetTokenAccountBalance(ctx context.Context, account solana.PublicKey, commitment rpc.CommitmentType) (*rpc.GetTokenAccountBalanceResult, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}
	return c.rpcClient.GetTokenAccountBalance(ctx, account, commitment)
}

// GetBalance wraps the RPC call with rate limiting
func (c *Client) GetBalance(ctx context.Context, account solana.PublicKey, commitment rpc.CommitmentType) (*rpc.GetBalanceResult, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}
	return c.rpcClient.GetBalance(ctx, account, commitment)
}

// GetLatestBlockhash wraps the RPC call with rate limiting
func (c *Client) GetLatestBlockhash(ctx context.Context, commitment rpc.CommitmentType) (*rpc.GetLatestBlockhashResult, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}
	return c.rpcClient.GetLatestBlockhash(ctx, commitment)
}

// SimulateTransaction wraps the RPC call with rate limiting
func (c *Client) SimulateTransaction(ctx context.Context, tx *solana.Transaction) (*rpc.SimulateTransactionResponse, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}
	return c.rpcClient.SimulateTransaction(ctx, tx)
}

// SendTransactionWithOpts wraps the RPC call with rate limiting
func (c *Client) SendTransactionWithOpts(ctx context.Context, tx *solana.Transaction, opts rpc.TransactionOpts) (solana.Signature, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return solana.Signature{}, err
	}
	return c.rpcClient.SendTransactionWithOpts(ctx, tx, opts)
}

// FetchAccounts implements engine.BootstrapFetcher. The caller (engine's
// Bootstrapper) is responsible for chunking at the 2,000-account ceiling
// (§6.4); this method issues exactly one getMultipleAccounts call per
// invocation and translates rpc's null-encodes-nonexistence convention
// into FetchedAccount.Exists.
func (c *Client) FetchAccounts(ctx context.Context, keys []core.Pubkey, minContextSlot uint64) (uint64, []engine.FetchedAccount, error) {
	res, err := c.GetMultipleAccountsWithOpts(ctx, keys, minContextSlot)
	if err != nil {
		return 0, nil, core.Wrap(core.ErrRPCTimeout, "sol: fetch accounts", err)
	}

	out := make([]engine.FetchedAccount, len(keys))
	for i, key := range keys {
		acc := res.Value[i]
		if acc == nil {
			out[i] = engine.FetchedAccount{Pubkey: key, Exists: false}
			continue
		}
		out[i] = engine.FetchedAccount{
			Pubkey: key,
			Owner:  acc.Owner,
			Data:   acc.Data.GetBinary(),
			Exists: true,
		}
	}
	return uint64(res.Context.Slot), out, nil
}

// LatestBlockhash implements bundle.BlockhashSource.
func (c *Client) LatestBlockhash(ctx context.Context) ([32]byte, error) {
	res, err := c.GetLatestBlockhash(ctx, rpc.CommitmentProcessed)
	if err != nil {
		return [32]byte{}, core.Wrap(core.ErrRPCTimeout, "sol: fetch latest blockhash", err)
	}
	return [32]byte(res.Value.Blockhash), nil
}
