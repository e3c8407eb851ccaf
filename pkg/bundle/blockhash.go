package bundle

import (
	"context"
	"sync"
	"time"

	"github.com/solroute/arbengine/pkg/core"
)

// BlockhashSource is the one RPC call this package depends on: fetching a
// recent blockhash. The concrete client (pkg/sol) is wired in by the
// engine; pkg/bundle never constructs an RPC client itself.
type BlockhashSource interface {
	LatestBlockhash(ctx context.Context) ([32]byte, error)
}

// BlockhashProvider caches the most recent blockhash and only refreshes it
// once minRefreshInterval has elapsed, or immediately on a forced refresh
// (the retry path after an expired_blockhash rejection).
type BlockhashProvider struct {
	source              BlockhashSource
	minRefreshInterval  time.Duration

	mu        sync.Mutex
	blockhash [32]byte
	fetchedAt time.Time
}

func NewBlockhashProvider(source BlockhashSource, minRefreshInterval time.Duration) *BlockhashProvider {
	return &BlockhashProvider{source: source, minRefreshInterval: minRefreshInterval}
}

// Get returns the cached blockhash if it is younger than
// minRefreshInterval, otherwise fetches a fresh one. force bypasses the
// cache unconditionally.
func (p *BlockhashProvider) Get(ctx context.Context, force bool) ([32]byte, error) {
	p.mu.Lock()
	fresh := !force && !p.fetchedAt.IsZero() && time.Since(p.fetchedAt) < p.minRefreshInterval
	cached := p.blockhash
	p.mu.Unlock()
	if fresh {
		return cached, nil
	}

	hash, err := p.source.LatestBlockhash(ctx)
	if err != nil {
		return [32]byte{}, core.Wrap(core.ErrRPCTimeout, "bundle: fetch latest blockhash", err)
	}

	p.mu.Lock()
	p.blockhash = hash
	p.fetchedAt = time.Now()
	p.mu.Unlock()
	return hash, nil
}
