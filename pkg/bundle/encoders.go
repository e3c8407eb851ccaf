// Package bundle composes and submits atomic multi-leg trade bundles (C6):
// an optional victim transaction, the two-leg arbitrage transaction, and a
// tip transaction, all sharing one recent blockhash.
package bundle

import (
	"bytes"
	"encoding/binary"

	"lukechampine.com/uint128"

	"github.com/solroute/arbengine/pkg/anchor"
	"github.com/solroute/arbengine/pkg/core"
)

var (
	discCPMMASwap = anchor.GetDiscriminator("global", "swap_base_input")
	discCLMMSwap  = []byte{43, 4, 237, 11, 26, 201, 30, 98} // anchorDataBuf.swap
	discDLMMSwap  = anchor.GetDiscriminator("global", "swap2")
)

const cpmmBSwapOpcode = 9

// encodeCPMMASwapData builds variant A's fixed wire layout:
// [8-byte disc, u64 amountIn, u64 minimumAmountOut].
func encodeCPMMASwapData(amountIn, minOut uint64) []byte {
	data := make([]byte, 8+8+8)
	copy(data[0:8], discCPMMASwap)
	binary.LittleEndian.PutUint64(data[8:16], amountIn)
	binary.LittleEndian.PutUint64(data[16:24], minOut)
	return data
}

// encodeCPMMBSwapData builds variant B's layout: a single opcode byte
// (swap is instruction 9) followed by the same two little-endian u64s.
func encodeCPMMBSwapData(amountIn, minOut uint64) []byte {
	data := make([]byte, 1+8+8)
	data[0] = cpmmBSwapOpcode
	binary.LittleEndian.PutUint64(data[1:9], amountIn)
	binary.LittleEndian.PutUint64(data[9:17], minOut)
	return data
}

// encodeCLMMSwapData builds: [8-byte disc, u64 amount, u64
// otherAmountThreshold, u128 sqrtPriceLimitX64 (lo then hi, per the
// teacher's Uint128 little-endian field order), u8 isBaseInput].
func encodeCLMMSwapData(amount, otherThreshold uint64, sqrtPriceLimit uint128.Uint128, isBaseInput bool) []byte {
	buf := new(bytes.Buffer)
	buf.Write(discCLMMSwap)
	_ = binary.Write(buf, binary.LittleEndian, amount)
	_ = binary.Write(buf, binary.LittleEndian, otherThreshold)
	_ = binary.Write(buf, binary.LittleEndian, sqrtPriceLimit.Lo)
	_ = binary.Write(buf, binary.LittleEndian, sqrtPriceLimit.Hi)
	if isBaseInput {
		buf.WriteByte(1)
	} else {
		buf.WriteByte(0)
	}
	return buf.Bytes()
}

// encodeDLMMSwapData builds: [8-byte disc ("swap2"), u64 amountIn, u64
// minAmountOut, remaining_accounts_info]. The remaining-accounts-info tail
// is an empty slice list — this engine never routes through a
// transfer-hook mint, so no slices are needed.
func encodeDLMMSwapData(amountIn, minAmountOut uint64) []byte {
	buf := new(bytes.Buffer)
	buf.Write(discDLMMSwap)
	_ = binary.Write(buf, binary.LittleEndian, amountIn)
	_ = binary.Write(buf, binary.LittleEndian, minAmountOut)
	_ = binary.Write(buf, binary.LittleEndian, uint32(0)) // empty Vec<RemainingAccountsSlice>
	return buf.Bytes()
}

// encodeSwapData dispatches to the venue-specific wire layout for one leg.
func encodeSwapData(leg core.SwapLeg) []byte {
	switch leg.Venue {
	case core.VenueCPMMA:
		return encodeCPMMASwapData(leg.AmountIn, leg.MinAmountOut)
	case core.VenueCPMMB:
		return encodeCPMMBSwapData(leg.AmountIn, leg.MinAmountOut)
	case core.VenueCLMM:
		limit := uint128.Zero
		if leg.SqrtPriceLimit != nil {
			limit = uint128.From64(*leg.SqrtPriceLimit)
		}
		return encodeCLMMSwapData(leg.AmountIn, leg.MinAmountOut, limit, leg.Direction == core.Dir0to1)
	case core.VenueDLMM:
		return encodeDLMMSwapData(leg.AmountIn, leg.MinAmountOut)
	default:
		return nil
	}
}
