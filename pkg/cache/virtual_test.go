package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solroute/arbengine/pkg/core"
)

func TestDependencyCacheGetOrVirtualDistinguishesHardMissFromConfirmedEmpty(t *testing.T) {
	zeroCalls := 0
	d := NewDependencyCache[*core.TickArrayRecord]("tick_arrays", func() *core.TickArrayRecord {
		zeroCalls++
		return &core.TickArrayRecord{}
	})

	_, ok, _ := d.GetOrVirtual(pk(1))
	assert.False(t, ok, "a never-fetched key is a hard miss")

	d.MarkVirtual(pk(1))
	payload, ok, isVirtual := d.GetOrVirtual(pk(1))
	require.True(t, ok)
	assert.True(t, isVirtual)
	assert.NotNil(t, payload)
	assert.Equal(t, 1, zeroCalls)
}

func TestDependencyCacheRealEntryTakesPrecedenceOverVirtual(t *testing.T) {
	d := NewDependencyCache[*core.TickArrayRecord]("tick_arrays", func() *core.TickArrayRecord {
		return &core.TickArrayRecord{}
	})
	d.MarkVirtual(pk(1))

	real := &core.TickArrayRecord{}
	d.Set(pk(1), real, 10, 0, core.SourceBootstrap, 0)

	payload, ok, isVirtual := d.GetOrVirtual(pk(1))
	require.True(t, ok)
	assert.False(t, isVirtual)
	assert.Same(t, real, payload)
}
