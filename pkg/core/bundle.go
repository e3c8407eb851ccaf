package core

import "time"

// Opportunity is the detector's output: a candidate cross-venue spread with
// enough information for the bundle builder to size and compose legs
// without re-deriving anything from the snapshot.
type Opportunity struct {
	MintA, MintB   Pubkey
	BuyVenue       Venue
	BuyPool        Pubkey
	SellVenue      Venue
	SellPool       Pubkey
	InputAmount    uint64
	ExpectedOutput uint64
	GrossSpreadBps int64
	NetSpreadBps   int64
	Slot           uint64
	DetectedAt     time.Time
	Signal         SignalKind
}

// SignalKind distinguishes the detector's primary spread signal from the
// derived DLMM-only signals that ride alongside it.
type SignalKind uint8

const (
	SignalSpread SignalKind = iota
	SignalFeeDecay
	SignalEmptyBin
)

func (s SignalKind) String() string {
	switch s {
	case SignalFeeDecay:
		return "fee_decay"
	case SignalEmptyBin:
		return "empty_bin"
	default:
		return "spread"
	}
}

// Bundle is an ordered list of transactions sharing one blockhash, submitted
// atomically to a block builder. The tip transaction is always last.
type Bundle struct {
	Blockhash      [32]byte
	Transactions   [][]byte // opaque signed wire transactions, victim-first if present
	TipTransaction []byte
	Opportunity    Opportunity
	BuiltAt        time.Time
}

// BundleOutcome is reported back by the submitter once a bundle's fate is
// known (landed, dropped, or the blockhash expired before inclusion).
type BundleOutcome struct {
	Bundle    Bundle
	Landed    bool
	Err       error
	ObservedAt time.Time
}
