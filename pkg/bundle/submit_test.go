package bundle

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solroute/arbengine/pkg/core"
)

type stubSubmitter struct {
	attempts int
	failFirstWith error
}

func (s *stubSubmitter) Submit(ctx context.Context, b core.Bundle) (string, error) {
	s.attempts++
	if s.attempts == 1 && s.failFirstWith != nil {
		return "", s.failFirstWith
	}
	return "bundle-id", nil
}

func TestSubmitRetriesOnceOnExpiredBlockhash(t *testing.T) {
	sub := &stubSubmitter{failFirstWith: core.New(core.ErrExpiredBlockhash, "expired")}
	recomposeCalls := 0
	recompose := func(ctx context.Context, force bool) (core.Bundle, error) {
		recomposeCalls++
		assert.True(t, force)
		return core.Bundle{}, nil
	}

	id, err := Submit(context.Background(), sub, recompose, core.Bundle{})
	require.NoError(t, err)
	assert.Equal(t, "bundle-id", id)
	assert.Equal(t, 2, sub.attempts)
	assert.Equal(t, 1, recomposeCalls)
}

func TestSubmitPropagatesNonExpiredRejection(t *testing.T) {
	sub := &stubSubmitter{failFirstWith: core.New(core.ErrRateLimited, "rate limited")}
	recompose := func(ctx context.Context, force bool) (core.Bundle, error) {
		t.Fatal("recompose should not be called for a non-expired rejection")
		return core.Bundle{}, nil
	}

	_, err := Submit(context.Background(), sub, recompose, core.Bundle{})
	require.Error(t, err)
	assert.Equal(t, core.ErrRateLimited, err.(*core.Error).Kind)
}

func TestSubmitSucceedsOnFirstTry(t *testing.T) {
	sub := &stubSubmitter{}
	recompose := func(ctx context.Context, force bool) (core.Bundle, error) {
		t.Fatal("recompose should not be called on success")
		return core.Bundle{}, nil
	}
	id, err := Submit(context.Background(), sub, recompose, core.Bundle{})
	require.NoError(t, err)
	assert.Equal(t, "bundle-id", id)
}
