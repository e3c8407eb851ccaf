package decode

import (
	"github.com/solroute/arbengine/pkg/core"
)

func u16le(b []byte) uint16 { return uint16(b[0]) | uint16(b[1])<<8 }
func u32le(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}
func u64le(b []byte) uint64 {
	return uint64(b[0]) | uint64(b[1])<<8 | uint64(b[2])<<16 | uint64(b[3])<<24 |
		uint64(b[4])<<32 | uint64(b[5])<<40 | uint64(b[6])<<48 | uint64(b[7])<<56
}

// DecodeDLMM parses a Meteora DLMM LbPair account. The field walk follows
// the teacher's dlmm.go Decode exactly, including its hardcoded jump to
// offset 552 ahead of the oracle pubkey and bin-array bitmap (the region
// between reward infos and the oracle carries padding this decoder has no
// use for).
func DecodeDLMM(pool core.Pubkey, data []byte) (*core.PoolRecord, error) {
	if !matchesDisc(data, discDLMMPool) {
		return nil, core.New(core.ErrDecode, "dlmm: discriminator mismatch")
	}
	if len(data) < 552+32+16*8 {
		return nil, core.New(core.ErrDecode, "dlmm: short account")
	}

	off := 8
	baseFactor := u16le(data[off:])
	off += 2
	filterPeriod := u16le(data[off:])
	off += 2
	decayPeriod := u16le(data[off:])
	off += 2
	reductionFactor := u16le(data[off:])
	off += 2
	variableFeeControl := u32le(data[off:])
	off += 4
	maxVolatilityAccumulator := u32le(data[off:])
	off += 4
	off += 4 // minBinId
	off += 4 // maxBinId
	protocolShare := u16le(data[off:])
	off += 2
	off += 1 // baseFeePowerFactor
	off += 5 // padding

	volatilityAccumulator := u32le(data[off:])
	off += 4
	volatilityReference := u32le(data[off:])
	off += 4
	indexReference := int32(u32le(data[off:]))
	off += 4
	off += 4 // padding
	lastUpdateTimestamp := int64(u64le(data[off:]))
	off += 8
	off += 8 // padding

	off += 1 // bumpSeed
	off += 2 // binStepSeed
	off += 1 // pairType

	activeId := int32(u32le(data[off:]))
	off += 4
	binStep := u16le(data[off:])
	off += 2
	off += 1 // status
	off += 1 // requireBaseFactorSeed
	off += 2 // baseFactorSeed
	off += 1 // activationType
	off += 1 // creatorPoolOnOffControl

	var mintX, mintY, reserveX, reserveY core.Pubkey
	copy(mintX[:], data[off:off+32])
	off += 32
	copy(mintY[:], data[off:off+32])
	off += 32
	copy(reserveX[:], data[off:off+32])
	off += 32
	copy(reserveY[:], data[off:off+32])
	off += 32

	off = 552 + 32 // skip oracle, matching the teacher's hardcoded jump

	var bitmap [16]uint64
	for i := 0; i < 16; i++ {
		bitmap[i] = u64le(data[off:])
		off += 8
	}

	return &core.PoolRecord{
		Venue:  core.VenueDLMM,
		Pool:   pool,
		Vault0: reserveX,
		Vault1: reserveY,
		Mint0:  mintX,
		Mint1:  mintY,
		DLMM: &core.DLMMState{
			ActiveBinID:              activeId,
			BinStep:                  binStep,
			BaseFactor:               baseFactor,
			FilterPeriod:             filterPeriod,
			DecayPeriod:              decayPeriod,
			ReductionFactor:          reductionFactor,
			VariableFeeControl:       variableFeeControl,
			MaxVolatilityAccumulator: maxVolatilityAccumulator,
			ProtocolShareBps:         protocolShare,
			VolatilityAccumulator:    volatilityAccumulator,
			VolatilityReference:      volatilityReference,
			IndexReference:           indexReference,
			LastUpdateTimestamp:      lastUpdateTimestamp,
			BinArrayBitmap:           bitmap,
		},
	}, nil
}

// DecodeDLMMConfig parses a PresetParameter record for its base fee factor.
// DLMM's per-pool base fee is baseFactor (read from the pool itself); this
// config record only matters when a pool's baseFactor is seeded from a
// shared preset rather than stored inline.
func DecodeDLMMConfig(pubkey core.Pubkey, data []byte) (*core.ConfigRecord, error) {
	if !matchesDisc(data, discDLMMConfig) {
		return nil, core.New(core.ErrDecode, "dlmm_config: discriminator mismatch")
	}
	data = data[8:]
	if len(data) < 2 {
		return nil, core.New(core.ErrDecode, "dlmm_config: short account")
	}
	baseFactor := u16le(data)
	return &core.ConfigRecord{Pubkey: pubkey, FeeRateBps: uint32(baseFactor) / 100}, nil
}

// DecodeDLMMBinArray parses a bin-array dependency account.
func DecodeDLMMBinArray(data []byte) (*core.BinArrayRecord, error) {
	if !matchesDisc(data, discDLMMBinArray) {
		return nil, core.New(core.ErrDecode, "dlmm_bin_array: discriminator mismatch")
	}
	data = data[8:]
	const minBody = 8 + 32 + core.BinsPerArray*16
	if len(data) < minBody {
		return nil, core.New(core.ErrDecode, "dlmm_bin_array: short account")
	}
	off := 0
	arrayIndex := int64(u64le(data[off:]))
	off += 8
	var pool core.Pubkey
	copy(pool[:], data[off:off+32])
	off += 32

	var bins [core.BinsPerArray]core.BinRecord
	for i := 0; i < core.BinsPerArray; i++ {
		amountX := u64le(data[off:])
		off += 8
		amountY := u64le(data[off:])
		off += 8
		bins[i] = core.BinRecord{AmountX: amountX, AmountY: amountY}
	}
	return &core.BinArrayRecord{Pool: pool, ArrayIndex: arrayIndex, Bins: bins}, nil
}
