package sol

import (
	"context"

	"github.com/gagliardetto/solana-go"
	associatedtokenaccount "github.com/gagliardetto/solana-go/programs/associated-token-account"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/solroute/arbengine/pkg/core"
)

// SelectOrCreateSPLTokenAccount resolves the wallet's associated token
// account for tokenMint, creating it on-chain if absent. Used once at
// startup to populate bundle.WalletContext's InputTokenAccount/
// OutputTokenAccount — never called from the engine's hot path.
func (t *Client) SelectOrCreateSPLTokenAccount(ctx context.Context, privateKey solana.PrivateKey, tokenMint solana.PublicKey) (solana.PublicKey, error) {
	user := privateKey.PublicKey()
	acc, err := t.GetTokenAccountsByOwner(ctx, user,
		&rpc.GetTokenAccountsConfig{Mint: tokenMint.ToPointer()},
		&rpc.GetTokenAccountsOpts{
			Encoding: "jsonParsed",
		},
	)
	if err != nil {
		return solana.PublicKey{}, core.Wrap(core.ErrRPCTimeout, "sol: get token accounts by owner", err)
	}
	if len(acc.Value) > 0 {
		return acc.Value[0].Pubkey, nil
	}

	ataAddress, _, err := solana.FindAssociatedTokenAddress(user, tokenMint)
	if err != nil {
		return solana.PublicKey{}, core.Wrap(core.ErrDecode, "sol: derive associated token address", err)
	}

	createAtaInst, err := associatedtokenaccount.NewCreateInstruction(user, user, tokenMint).ValidateAndBuild()
	if err != nil {
		return solana.PublicKey{}, core.Wrap(core.ErrUnknown, "sol: build create-ata instruction", err)
	}

	if _, err := t.signAndSend(ctx, privateKey, []solana.Instruction{createAtaInst}); err != nil {
		return solana.PublicKey{}, err
	}
	return ataAddress, nil
}
