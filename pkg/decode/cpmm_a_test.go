package decode

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solroute/arbengine/pkg/core"
)

func buildCPMMAAccount(t *testing.T, vault0, vault1, mint0, mint1, lpMint, ammConfig solana.PublicKey, lpSupply uint64) []byte {
	t.Helper()
	var buf bytes.Buffer
	buf.Write(discCPMMAPool)
	buf.Write(ammConfig[:])           // AmmConfig
	buf.Write(make([]byte, 32))       // PoolCreator
	buf.Write(vault0[:])              // Token0Vault
	buf.Write(vault1[:])              // Token1Vault
	buf.Write(lpMint[:])              // LpMint
	buf.Write(mint0[:])               // Token0Mint
	buf.Write(mint1[:])               // Token1Mint
	buf.Write(make([]byte, 32))       // Token0Program
	buf.Write(make([]byte, 32))       // Token1Program
	buf.Write(make([]byte, 32))       // ObservationKey
	buf.WriteByte(1)                  // AuthBump
	buf.WriteByte(0)                  // Status
	buf.WriteByte(9)                  // LpMintDecimals
	buf.WriteByte(9)                  // Mint0Decimals
	buf.WriteByte(6)                  // Mint1Decimals
	buf.Write(make([]byte, 3))        // Padding1
	binary.Write(&buf, binary.LittleEndian, lpSupply)
	binary.Write(&buf, binary.LittleEndian, uint64(0)) // ProtocolFeesToken0
	binary.Write(&buf, binary.LittleEndian, uint64(0)) // ProtocolFeesToken1
	binary.Write(&buf, binary.LittleEndian, uint64(0)) // FundFeesToken0
	binary.Write(&buf, binary.LittleEndian, uint64(0)) // FundFeesToken1
	binary.Write(&buf, binary.LittleEndian, uint64(0)) // OpenTime
	return buf.Bytes()
}

func TestDecodeCPMMAReadsVaultsMintsAndConfig(t *testing.T) {
	vault0, vault1 := solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey()
	mint0, mint1 := solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey()
	lpMint, ammConfig := solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey()
	pool := solana.NewWallet().PublicKey()

	raw := buildCPMMAAccount(t, vault0, vault1, mint0, mint1, lpMint, ammConfig, 555)

	rec, err := DecodeCPMM_A(pool, raw)
	require.NoError(t, err)
	assert.Equal(t, core.VenueCPMMA, rec.Venue)
	assert.Equal(t, pool, rec.Pool)
	assert.Equal(t, vault0, rec.Vault0)
	assert.Equal(t, vault1, rec.Vault1)
	assert.Equal(t, mint0, rec.Mint0)
	assert.Equal(t, mint1, rec.Mint1)
	require.NotNil(t, rec.CPMM)
	assert.Equal(t, uint64(555), rec.CPMM.LPSupply)
	assert.Equal(t, lpMint, rec.CPMM.LPMint)
	assert.Equal(t, ammConfig, rec.CPMM.AmmConfig)
}

func TestDecodeCPMMARejectsWrongDiscriminator(t *testing.T) {
	raw := make([]byte, 400)
	copy(raw, []byte{1, 2, 3, 4, 5, 6, 7, 8})
	_, err := DecodeCPMM_A(solana.NewWallet().PublicKey(), raw)
	assert.Error(t, err)
}
