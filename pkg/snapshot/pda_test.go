package snapshot

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solroute/arbengine/pkg/core"
)

func TestTickArrayPDAIsDeterministicAndVaryingWithStartIndex(t *testing.T) {
	programID := solana.NewWallet().PublicKey()
	pool := solana.NewWallet().PublicKey()

	a, err := TickArrayPDA(programID, pool, 0)
	require.NoError(t, err)
	b, err := TickArrayPDA(programID, pool, 0)
	require.NoError(t, err)
	assert.Equal(t, a, b, "same inputs must derive the same PDA")

	c, err := TickArrayPDA(programID, pool, 60)
	require.NoError(t, err)
	assert.NotEqual(t, a, c, "different start indices must derive different PDAs")
}

func TestTickArrayPDAHandlesNegativeStartIndex(t *testing.T) {
	programID := solana.NewWallet().PublicKey()
	pool := solana.NewWallet().PublicKey()

	_, err := TickArrayPDA(programID, pool, -60)
	assert.NoError(t, err)
}

func TestBinArrayPDAIsDeterministicAndVaryingWithIndex(t *testing.T) {
	programID := solana.NewWallet().PublicKey()
	pool := solana.NewWallet().PublicKey()

	a, err := BinArrayPDA(programID, pool, 0)
	require.NoError(t, err)
	b, err := BinArrayPDA(programID, pool, 1)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	neg, err := BinArrayPDA(programID, pool, -1)
	require.NoError(t, err)
	assert.NotEqual(t, a, neg)
}

func TestTickArrayStartIndexFloorsTowardNegativeInfinity(t *testing.T) {
	const spacing = 10
	span := int32(core.TicksPerArray) * spacing

	assert.Equal(t, int32(0), TickArrayStartIndex(0, spacing))
	assert.Equal(t, int32(0), TickArrayStartIndex(span-1, spacing))
	assert.Equal(t, span, TickArrayStartIndex(span, spacing))
	assert.Equal(t, -span, TickArrayStartIndex(-1, spacing))
	assert.Equal(t, -span, TickArrayStartIndex(-span, spacing))
	assert.Equal(t, -2*span, TickArrayStartIndex(-span-1, spacing))
}

func TestBinArrayIndexFloorsTowardNegativeInfinity(t *testing.T) {
	n := int32(core.BinsPerArray)

	assert.Equal(t, int64(0), BinArrayIndex(0))
	assert.Equal(t, int64(0), BinArrayIndex(n-1))
	assert.Equal(t, int64(1), BinArrayIndex(n))
	assert.Equal(t, int64(-1), BinArrayIndex(-1))
	assert.Equal(t, int64(-1), BinArrayIndex(-n))
	assert.Equal(t, int64(-2), BinArrayIndex(-n-1))
}
