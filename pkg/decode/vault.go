package decode

import (
	bin "github.com/gagliardetto/binary"

	"github.com/solroute/arbengine/pkg/core"
)

// tokenAccountWire mirrors the SPL Token Account layout: unlike the venue
// pool accounts above, this is a fixed C-style layout (no discriminator,
// no borsh tagging), so the same gagliardetto/binary decoder reads it
// directly off the raw 165-byte account body.
type tokenAccountWire struct {
	Mint            core.Pubkey
	Owner           core.Pubkey
	Amount          uint64
	DelegateOption  uint32
	Delegate        core.Pubkey
	State           uint8
	IsNativeOption  uint32
	IsNative        uint64
	DelegatedAmount uint64
	CloseAuthOption uint32
	CloseAuthority  core.Pubkey
}

const tokenAccountSize = 165

// DecodeVault decodes an SPL Token account into a VaultRecord. Vault
// accounts are owned by the token program, not a venue program, so the
// engine's account router dispatches here directly rather than through
// DecodeAccount's owner-program switch.
func DecodeVault(data []byte) (*core.VaultRecord, error) {
	if len(data) < tokenAccountSize {
		return nil, core.New(core.ErrDecode, "vault: account shorter than SPL token account layout")
	}
	var w tokenAccountWire
	if err := bin.NewBinDecoder(data[:tokenAccountSize]).Decode(&w); err != nil {
		return nil, core.Wrap(core.ErrDecode, "vault: decode", err)
	}
	return &core.VaultRecord{
		Amount:  w.Amount,
		Mint:    w.Mint,
		Owner:   w.Owner,
		DataLen: len(data),
	}, nil
}
