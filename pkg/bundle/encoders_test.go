package bundle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"lukechampine.com/uint128"

	"github.com/solroute/arbengine/pkg/anchor"
	"github.com/solroute/arbengine/pkg/core"
)

func TestEncodeCPMMASwapDataLayout(t *testing.T) {
	data := encodeCPMMASwapData(1_000, 990)
	require.Len(t, data, 24)
	assert.Equal(t, anchor.GetDiscriminator("global", "swap_base_input"), data[0:8])
	assert.Equal(t, uint64(1_000), leU64(data[8:16]))
	assert.Equal(t, uint64(990), leU64(data[16:24]))
}

func TestEncodeCPMMBSwapDataLayout(t *testing.T) {
	data := encodeCPMMBSwapData(500, 480)
	require.Len(t, data, 17)
	assert.Equal(t, byte(9), data[0])
	assert.Equal(t, uint64(500), leU64(data[1:9]))
	assert.Equal(t, uint64(480), leU64(data[9:17]))
}

func TestEncodeCLMMSwapDataLayout(t *testing.T) {
	limit := uint128.From64(12345)
	data := encodeCLMMSwapData(1_000, 900, limit, true)
	require.Len(t, data, 8+8+8+16+1)
	assert.Equal(t, []byte{43, 4, 237, 11, 26, 201, 30, 98}, data[0:8])
	assert.Equal(t, uint64(1_000), leU64(data[8:16]))
	assert.Equal(t, uint64(900), leU64(data[16:24]))
	assert.Equal(t, byte(1), data[len(data)-1])
}

func TestEncodeDLMMSwapDataLayout(t *testing.T) {
	data := encodeDLMMSwapData(100, 90)
	require.Len(t, data, 8+8+8+4)
	assert.Equal(t, anchor.GetDiscriminator("global", "swap2"), data[0:8])
	assert.Equal(t, uint64(100), leU64(data[8:16]))
	assert.Equal(t, uint64(90), leU64(data[16:24]))
	assert.Equal(t, uint32(0), leU32(data[24:28]))
}

func TestEncodeSwapDataDispatchesPerVenue(t *testing.T) {
	leg := core.SwapLeg{Venue: core.VenueDLMM, AmountIn: 7, MinAmountOut: 6}
	data := encodeSwapData(leg)
	assert.Equal(t, anchor.GetDiscriminator("global", "swap2"), data[0:8])
}

func leU64(b []byte) uint64 {
	var v uint64
	for i := 7; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v
}

func leU32(b []byte) uint32 {
	var v uint32
	for i := 3; i >= 0; i-- {
		v = v<<8 | uint32(b[i])
	}
	return v
}
