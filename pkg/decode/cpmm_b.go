package decode

import (
	"encoding/binary"

	"github.com/solroute/arbengine/pkg/core"
)

// cpmmBSpan is the fixed account size of a Raydium AMM v4 pool, enough to
// discriminate it from everything else sharing the program id (open-orders
// accounts, etc. are not account-data of this size).
const cpmmBSpan = 752

// Byte offsets into the AMM v4 layout for the fields the simulator needs.
// Derived from the teacher's AMMPool struct field order (all little-endian
// u64s up front, pubkeys afterward).
const (
	offCPMMBFeeNumerator   = 19 * 8
	offCPMMBFeeDenominator = 20 * 8
	offCPMMBBaseVault      = 27*8 + 16*3 // past swap-amount u128 fields
)

// DecodeCPMM_B decodes a Raydium AMM v4 pool by size + owner only; this
// venue carries no Anchor discriminator.
func DecodeCPMM_B(pool core.Pubkey, owner core.Pubkey, data []byte) (*core.PoolRecord, error) {
	if owner != ProgramCPMM_B {
		return nil, core.New(core.ErrDecode, "cpmm_b: owner mismatch")
	}
	if len(data) != cpmmBSpan {
		return nil, core.New(core.ErrDecode, "cpmm_b: unexpected span")
	}
	feeNum := binary.LittleEndian.Uint64(data[offCPMMBFeeNumerator:])
	feeDen := binary.LittleEndian.Uint64(data[offCPMMBFeeDenominator:])

	var baseVault, quoteVault, baseMint, quoteMint core.Pubkey
	copy(baseVault[:], data[offCPMMBBaseVault:offCPMMBBaseVault+32])
	copy(quoteVault[:], data[offCPMMBBaseVault+32:offCPMMBBaseVault+64])
	copy(baseMint[:], data[offCPMMBBaseVault+64:offCPMMBBaseVault+96])
	copy(quoteMint[:], data[offCPMMBBaseVault+96:offCPMMBBaseVault+128])

	return &core.PoolRecord{
		Venue:  core.VenueCPMMB,
		Pool:   pool,
		Vault0: baseVault,
		Vault1: quoteVault,
		Mint0:  baseMint,
		Mint1:  quoteMint,
		CPMM: &core.CPMMState{
			FeeNumerator:   feeNum,
			FeeDenominator: feeDen,
		},
	}, nil
}
