package core

// PairEntry is one (mint-pair, venue, pool) membership recorded in the pair
// index. The index is keyed by the unordered mint pair so the detector can
// pull every venue quoting a given pair without a table scan.
type PairEntry struct {
	MintA Pubkey
	MintB Pubkey
	Venue Venue
	Pool  Pubkey
}

// PairKey returns a canonical, order-independent key for a mint pair so
// (mintA, mintB) and (mintB, mintA) land in the same bucket.
func PairKey(a, b Pubkey) string {
	ha, hb := HexKey(a), HexKey(b)
	if ha < hb {
		return ha + ":" + hb
	}
	return hb + ":" + ha
}
