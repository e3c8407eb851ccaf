package core

import "lukechampine.com/uint128"

// PoolRecord is the tagged union of the four venue variants. Exactly one of
// CPMM/CLMM/DLMM is populated, selected by Venue. This is a tagged union by
// convention (a pointer-per-variant struct), not a class hierarchy: decode
// and simulate dispatch on Venue, never on Go's type system.
type PoolRecord struct {
	Venue   Venue
	Pool    Pubkey
	Vault0  Pubkey
	Vault1  Pubkey
	Mint0   Pubkey
	Mint1   Pubkey

	CPMM *CPMMState
	CLMM *CLMMState
	DLMM *DLMMState
}

// CPMMState holds constant-product pool fields for both CPMM_A and CPMM_B.
// Some venues keep fee rate fields on the pool; others keep them in a
// pool-external config record (ConfigRecord), in which case
// TotalFeeBps/FeeNumerator are zero and the simulator must consult the config cache.
type CPMMState struct {
	LPSupply     uint64
	LPMint       Pubkey
	AmmConfig    Pubkey // zero if this venue has no external config
	TotalFeeBps  uint32 // variant A: basis points, 0 if fee lives in config
	FeeNumerator uint64 // variant B: ratio numerator, 0 if unused
	FeeDenominator uint64
}

// CLMMState holds concentrated-liquidity (tick-indexed) pool fields.
type CLMMState struct {
	SqrtPriceX64   uint128.Uint128 // Q64.64
	TickCurrent    int32
	TickSpacing    uint16
	Liquidity      uint128.Uint128
	AmmConfig      Pubkey
	FeeRateBps     uint32 // default 25 if the config record doesn't override
	// TickArrayBitmap is the 1024-bit initialization bitmap (16 uint64 words).
	TickArrayBitmap [16]uint64
	// BitmapExtension, if non-nil, points at the extension account holding
	// bitmap words for arrays outside +/-512.
	BitmapExtension *Pubkey
}

// DLMMState holds bin-indexed (discrete liquidity) pool fields.
type DLMMState struct {
	ActiveBinID              int32
	BinStep                  uint16 // basis-point scalar
	BaseFactor               uint16
	FilterPeriod             uint16
	DecayPeriod              uint16
	ReductionFactor          uint16
	VariableFeeControl       uint32
	MaxVolatilityAccumulator uint32
	ProtocolShareBps         uint16
	VolatilityAccumulator    uint32
	VolatilityReference      uint32
	IndexReference           int32
	LastUpdateTimestamp      int64
	BinArrayBitmap           [16]uint64
	BitmapExtension          *Pubkey
}

// VaultRecord is a token-account snapshot.
type VaultRecord struct {
	Amount      uint64
	Mint        Pubkey
	Owner       Pubkey
	DataLen     int
}

// TickState is a single tick's liquidity fields within a TickArrayRecord.
type TickState struct {
	Tick           int32
	LiquidityNet   int64 // signed 128-bit in principle; int64 suffices for realistic pools
	LiquidityGross uint128.Uint128
}

// Initialized reports whether this tick carries any gross liquidity.
func (t TickState) Initialized() bool {
	return !t.LiquidityGross.IsZero()
}

const TicksPerArray = 60

// TickArrayRecord is the CLMM dependency: 60 ticks starting at StartTick.
type TickArrayRecord struct {
	Pool      Pubkey
	StartTick int32
	Ticks     [TicksPerArray]TickState
}

// BinRecord is a single bin's two token amounts within a BinArrayRecord.
type BinRecord struct {
	AmountX uint64
	AmountY uint64
}

const BinsPerArray = 70

// BinArrayRecord is the DLMM dependency: 70 bins starting at an array index.
type BinArrayRecord struct {
	Pool       Pubkey
	ArrayIndex int64
	Bins       [BinsPerArray]BinRecord
}

// ConfigRecord is venue-wide or per-family fee configuration, kept in a
// separate cache so config updates never thrash pool entries.
type ConfigRecord struct {
	Pubkey         Pubkey
	TickSpacing    uint16 // CLMM amm-config
	FeeRateBps     uint32
	ProtocolFeeBps uint32
}
