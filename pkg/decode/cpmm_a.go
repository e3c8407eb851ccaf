package decode

import (
	bin "github.com/gagliardetto/binary"

	"github.com/solroute/arbengine/pkg/core"
)

// cpmmAWire mirrors the teacher's CPMMPool struct field-for-field so the
// gagliardetto/binary decoder can consume it directly after the 8-byte
// discriminator is stripped.
type cpmmAWire struct {
	AmmConfig          core.Pubkey
	PoolCreator        core.Pubkey
	Token0Vault        core.Pubkey
	Token1Vault        core.Pubkey
	LpMint             core.Pubkey
	Token0Mint         core.Pubkey
	Token1Mint         core.Pubkey
	Token0Program      core.Pubkey
	Token1Program      core.Pubkey
	ObservationKey     core.Pubkey
	AuthBump           uint8
	Status             uint8
	LpMintDecimals     uint8
	Mint0Decimals      uint8
	Mint1Decimals      uint8
	Padding1           [3]uint8
	LpSupply           uint64
	ProtocolFeesToken0 uint64
	ProtocolFeesToken1 uint64
	FundFeesToken0     uint64
	FundFeesToken1     uint64
	OpenTime           uint64
}

// DecodeCPMM_A decodes a Raydium-CPMM pool account. Fee parameters for this
// venue live in the pool-external AmmConfig record, so CPMMState.TotalFeeBps
// is left zero; the simulator consults the config cache.
func DecodeCPMM_A(pool core.Pubkey, data []byte) (*core.PoolRecord, error) {
	if !matchesDisc(data, discCPMMAPool) {
		return nil, core.New(core.ErrDecode, "cpmm_a: discriminator mismatch")
	}
	body := data[8:]
	var w cpmmAWire
	if err := bin.NewBinDecoder(body).Decode(&w); err != nil {
		return nil, core.Wrap(core.ErrDecode, "cpmm_a: borsh decode", err)
	}
	return &core.PoolRecord{
		Venue:  core.VenueCPMMA,
		Pool:   pool,
		Vault0: w.Token0Vault,
		Vault1: w.Token1Vault,
		Mint0:  w.Token0Mint,
		Mint1:  w.Token1Mint,
		CPMM: &core.CPMMState{
			LPSupply:  w.LpSupply,
			LPMint:    w.LpMint,
			AmmConfig: w.AmmConfig,
		},
	}, nil
}
