package decode

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildTokenAccount packs a 165-byte SPL Token account body in on-wire
// field order, matching tokenAccountWire.
func buildTokenAccount(t *testing.T, mint, owner solana.PublicKey, amount uint64) []byte {
	t.Helper()
	var buf bytes.Buffer
	buf.Write(mint[:])
	buf.Write(owner[:])
	binary.Write(&buf, binary.LittleEndian, amount)
	binary.Write(&buf, binary.LittleEndian, uint32(0)) // DelegateOption: none
	buf.Write(make([]byte, 32))                         // Delegate
	buf.WriteByte(1)                                    // State: initialized
	binary.Write(&buf, binary.LittleEndian, uint32(0))  // IsNativeOption
	binary.Write(&buf, binary.LittleEndian, uint64(0))  // IsNative
	binary.Write(&buf, binary.LittleEndian, uint64(0))  // DelegatedAmount
	binary.Write(&buf, binary.LittleEndian, uint32(0))  // CloseAuthOption
	buf.Write(make([]byte, 32))                         // CloseAuthority
	require.Equal(t, tokenAccountSize, buf.Len())
	return buf.Bytes()
}

func TestDecodeVaultReadsMintOwnerAndAmount(t *testing.T) {
	mint := solana.NewWallet().PublicKey()
	owner := solana.NewWallet().PublicKey()
	raw := buildTokenAccount(t, mint, owner, 123_456_789)

	v, err := DecodeVault(raw)
	require.NoError(t, err)
	assert.Equal(t, mint, v.Mint)
	assert.Equal(t, owner, v.Owner)
	assert.Equal(t, uint64(123_456_789), v.Amount)
	assert.Equal(t, tokenAccountSize, v.DataLen)
}

func TestDecodeVaultRejectsShortAccount(t *testing.T) {
	_, err := DecodeVault(make([]byte, 10))
	assert.Error(t, err)
}

func TestDecodeVaultAcceptsToken2022AccountWithExtensionTail(t *testing.T) {
	mint := solana.NewWallet().PublicKey()
	owner := solana.NewWallet().PublicKey()
	raw := buildTokenAccount(t, mint, owner, 42)
	raw = append(raw, make([]byte, 50)...) // trailing Token-2022 extension bytes

	v, err := DecodeVault(raw)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), v.Amount)
	assert.Equal(t, len(raw), v.DataLen)
}
