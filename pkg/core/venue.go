package core

// Venue tags one of the four pool families the engine understands. Dispatch
// on this tag (rather than a type hierarchy) keeps the hot path static, per
// the venue-agnostic "capability set" design in the engine's notes.
type Venue uint8

const (
	VenueCPMMA Venue = iota // Raydium CPMM (fee-on-output / fee-on-input variants)
	VenueCPMMB               // Raydium AMM v4 (fee ratio numerator/denominator)
	VenueCLMM                // Raydium CLMM (tick-indexed concentrated liquidity)
	VenueDLMM                // Meteora DLMM (bin-indexed concentrated liquidity)
)

func (v Venue) String() string {
	switch v {
	case VenueCPMMA:
		return "CPMM_A"
	case VenueCPMMB:
		return "CPMM_B"
	case VenueCLMM:
		return "CLMM"
	case VenueDLMM:
		return "DLMM"
	default:
		return "UNKNOWN"
	}
}

// IsConcentrated reports whether a venue carries tick/bin-array dependencies
// and a lifecycle FSM (CLMM, DLMM). CPMM venues skip the FSM entirely.
func (v Venue) IsConcentrated() bool {
	return v == VenueCLMM || v == VenueDLMM
}
