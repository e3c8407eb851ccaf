package sol

import (
	"context"

	"github.com/gagliardetto/solana-go"
	associatedtokenaccount "github.com/gagliardetto/solana-go/programs/associated-token-account"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/solroute/arbengine/pkg/core"
)

// CoverWsol tops up the wallet's wrapped-SOL account by amount lamports,
// creating the account first if it doesn't exist yet. Used at startup to
// fund the input leg of SOL-quoted arbitrage pairs.
func (t *Client) CoverWsol(ctx context.Context, privateKey solana.PrivateKey, amount int64) error {
	user := privateKey.PublicKey()
	allInstrs := make([]solana.Instruction, 0, 3)

	acc, err := t.GetTokenAccountsByOwner(ctx, user,
		&rpc.GetTokenAccountsConfig{Mint: WSOL.ToPointer()},
		&rpc.GetTokenAccountsOpts{Encoding: "jsonParsed"},
	)
	if err != nil {
		return core.Wrap(core.ErrRPCTimeout, "sol: get wsol token accounts", err)
	}
	if len(acc.Value) == 0 {
		createAtaInst, err := associatedtokenaccount.NewCreateInstruction(user, user, WSOL).ValidateAndBuild()
		if err != nil {
			return core.Wrap(core.ErrUnknown, "sol: build create-wsol-ata instruction", err)
		}
		allInstrs = append(allInstrs, createAtaInst)
	}

	wsolAccount, _, err := solana.FindAssociatedTokenAddress(user, WSOL)
	if err != nil {
		return core.Wrap(core.ErrDecode, "sol: derive wsol associated token address", err)
	}

	transferInst, err := system.NewTransferInstruction(uint64(amount), user, wsolAccount).ValidateAndBuild()
	if err != nil {
		return core.Wrap(core.ErrUnknown, "sol: build wsol transfer instruction", err)
	}
	allInstrs = append(allInstrs, transferInst)

	syncNativeInst, err := token.NewSyncNativeInstruction(wsolAccount).ValidateAndBuild()
	if err != nil {
		return core.Wrap(core.ErrUnknown, "sol: build sync-native instruction", err)
	}
	allInstrs = append(allInstrs, syncNativeInst)

	_, err = t.signAndSend(ctx, privateKey, allInstrs)
	return err
}

// CloseWsol closes the wallet's wrapped-SOL account, recovering rent and
// unwrapping any remaining balance back to native SOL.
func (t *Client) CloseWsol(ctx context.Context, privateKey solana.PrivateKey) error {
	user := privateKey.PublicKey()

	wsolAccount, _, err := solana.FindAssociatedTokenAddress(user, WSOL)
	if err != nil {
		return core.Wrap(core.ErrDecode, "sol: derive wsol associated token address", err)
	}
	closeInst, err := token.NewCloseAccountInstruction(wsolAccount, user, user, []solana.PublicKey{}).ValidateAndBuild()
	if err != nil {
		return core.Wrap(core.ErrUnknown, "sol: build close-account instruction", err)
	}

	_, err = t.signAndSend(ctx, privateKey, []solana.Instruction{closeInst})
	return err
}
