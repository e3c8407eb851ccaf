package bundle

import (
	"context"

	"github.com/solroute/arbengine/pkg/core"
)

// Submitter is the block-builder submission boundary (e.g. Jito's bundle
// RPC, wired from pkg/sol). pkg/bundle never constructs a submission
// client itself.
type Submitter interface {
	Submit(ctx context.Context, b core.Bundle) (id string, err error)
}

// Submit applies §7's one-retry rule: an expired_blockhash rejection gets
// exactly one retry with a freshly fetched blockhash via recompose; every
// other rejection, including a second expired_blockhash, propagates
// unchanged.
func Submit(ctx context.Context, submitter Submitter, recompose func(ctx context.Context, force bool) (core.Bundle, error), b core.Bundle) (string, error) {
	id, err := submitter.Submit(ctx, b)
	if err == nil {
		return id, nil
	}
	if !isExpiredBlockhash(err) {
		return "", err
	}

	fresh, composeErr := recompose(ctx, true)
	if composeErr != nil {
		return "", composeErr
	}
	return submitter.Submit(ctx, fresh)
}

func isExpiredBlockhash(err error) bool {
	ce, ok := err.(*core.Error)
	return ok && ce.Kind == core.ErrExpiredBlockhash
}
