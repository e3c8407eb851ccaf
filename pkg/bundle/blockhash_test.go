package bundle

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSource struct {
	calls  int
	hashes [][32]byte
}

func (c *countingSource) LatestBlockhash(ctx context.Context) ([32]byte, error) {
	h := c.hashes[c.calls]
	c.calls++
	return h, nil
}

func TestBlockhashProviderCachesWithinInterval(t *testing.T) {
	src := &countingSource{hashes: [][32]byte{{1}, {2}}}
	p := NewBlockhashProvider(src, time.Hour)

	h1, err := p.Get(context.Background(), false)
	require.NoError(t, err)
	h2, err := p.Get(context.Background(), false)
	require.NoError(t, err)

	assert.Equal(t, h1, h2)
	assert.Equal(t, 1, src.calls)
}

func TestBlockhashProviderForceBypassesCache(t *testing.T) {
	src := &countingSource{hashes: [][32]byte{{1}, {2}}}
	p := NewBlockhashProvider(src, time.Hour)

	h1, _ := p.Get(context.Background(), false)
	h2, err := p.Get(context.Background(), true)
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
	assert.Equal(t, 2, src.calls)
}
