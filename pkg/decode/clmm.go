package decode

import (
	"encoding/binary"

	"github.com/gagliardetto/solana-go"
	"lukechampine.com/uint128"

	"github.com/solroute/arbengine/pkg/core"
)

// DecodeCLMM parses a Raydium-CLMM pool account by hand, field by field,
// the same way the teacher walks CLMMPool.Decode. Fields after the tick
// array bitmap (reward totals, fee accumulators, padding) aren't needed for
// simulation and are left unread.
func DecodeCLMM(pool core.Pubkey, data []byte) (*core.PoolRecord, error) {
	if !matchesDisc(data, discCLMMPool) {
		return nil, core.New(core.ErrDecode, "clmm: discriminator mismatch")
	}
	data = data[8:]
	const minCLMMBody = 1024 // the fields read below end at body offset 1024; real account span is 1536 bytes
	if len(data) < minCLMMBody {
		return nil, core.New(core.ErrDecode, "clmm: short account")
	}

	off := 0
	off += 1 // bump
	ammConfig := solana.PublicKeyFromBytes(data[off : off+32])
	off += 32
	off += 32 // owner
	mint0 := solana.PublicKeyFromBytes(data[off : off+32])
	off += 32
	mint1 := solana.PublicKeyFromBytes(data[off : off+32])
	off += 32
	vault0 := solana.PublicKeyFromBytes(data[off : off+32])
	off += 32
	vault1 := solana.PublicKeyFromBytes(data[off : off+32])
	off += 32
	off += 32 // observation key
	off += 1  // mint decimals 0
	off += 1  // mint decimals 1

	tickSpacing := binary.LittleEndian.Uint16(data[off : off+2])
	off += 2

	liquidity := uint128.FromBytes(data[off : off+16])
	off += 16

	sqrtPriceX64 := uint128.FromBytes(data[off : off+16])
	off += 16

	tickCurrent := int32(binary.LittleEndian.Uint32(data[off : off+4]))
	off += 4

	off += 2  // observation index
	off += 2  // observation update duration
	off += 16 // fee growth global 0
	off += 16 // fee growth global 1
	off += 8  // protocol fees token0
	off += 8  // protocol fees token1
	off += 16 // swap in amount token0
	off += 16 // swap out amount token1
	off += 16 // swap in amount token1
	off += 16 // swap out amount token0
	off += 1  // status
	off += 7  // padding

	for i := 0; i < 3; i++ {
		off += 1 + 8 + 8 + 8 + 16 + 8 + 8 + 32 + 32 + 32 + 16 // one RewardInfo
	}

	var bitmap [16]uint64
	for i := 0; i < 16; i++ {
		bitmap[i] = binary.LittleEndian.Uint64(data[off : off+8])
		off += 8
	}

	return &core.PoolRecord{
		Venue:  core.VenueCLMM,
		Pool:   pool,
		Vault0: vault0,
		Vault1: vault1,
		Mint0:  mint0,
		Mint1:  mint1,
		CLMM: &core.CLMMState{
			SqrtPriceX64:    sqrtPriceX64,
			TickCurrent:     tickCurrent,
			TickSpacing:     tickSpacing,
			Liquidity:       liquidity,
			AmmConfig:       ammConfig,
			FeeRateBps:      25,
			TickArrayBitmap: bitmap,
		},
	}, nil
}

// DecodeCLMMTickArray parses a tick-array dependency account. Layout
// mirrors the teacher's clmm_tickerarray.go TickArray.Decode.
func DecodeCLMMTickArray(data []byte) (*core.TickArrayRecord, error) {
	if !matchesDisc(data, discCLMMTickArray) {
		return nil, core.New(core.ErrDecode, "clmm_tick_array: discriminator mismatch")
	}
	data = data[8:]
	const minTickArrayBody = 32 + 4 + core.TicksPerArray*37
	if len(data) < minTickArrayBody {
		return nil, core.New(core.ErrDecode, "clmm_tick_array: short account")
	}
	off := 0
	var pool core.Pubkey
	copy(pool[:], data[off:off+32])
	off += 32

	startTick := int32(binary.LittleEndian.Uint32(data[off : off+4]))
	off += 4

	var ticks [core.TicksPerArray]core.TickState
	for i := 0; i < core.TicksPerArray; i++ {
		tick := int32(binary.LittleEndian.Uint32(data[off : off+4]))
		off += 4
		gross := uint128.FromBytes(data[off : off+16])
		off += 16
		net := int64(binary.LittleEndian.Uint64(data[off : off+8]))
		off += 8 + 8 // liquidityNet is 128-bit on chain; low 64 bits suffice here
		off += 1     // initialized flag byte (derived, not trusted)
		ticks[i] = core.TickState{Tick: tick, LiquidityNet: net, LiquidityGross: gross}
	}

	return &core.TickArrayRecord{Pool: pool, StartTick: startTick, Ticks: ticks}, nil
}

// DecodeCLMMConfig parses an AmmConfig record for its fee rate.
func DecodeCLMMConfig(pubkey core.Pubkey, data []byte) (*core.ConfigRecord, error) {
	if !matchesDisc(data, discCLMMConfig) {
		return nil, core.New(core.ErrDecode, "clmm_config: discriminator mismatch")
	}
	data = data[8:]
	if len(data) < 2+2+4 {
		return nil, core.New(core.ErrDecode, "clmm_config: short account")
	}
	off := 0
	off += 1 // bump
	off += 2 // index
	off += 1 // pad
	tradeFeeRate := binary.LittleEndian.Uint32(data[off : off+4])
	return &core.ConfigRecord{Pubkey: pubkey, FeeRateBps: tradeFeeRate / 100}, nil
}
