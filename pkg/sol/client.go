package sol

import (
	"context"

	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"
)

// Client represents a Solana client: a rate-limited RPC connection plus an
// optional Jito client. It holds no WebSocket connection.
type Client struct {
	rpcClient   *rpc.Client
	jitoClient  *JitoClient
	rateLimiter *RateLimiter
	log         *zap.Logger
}

// NewClient creates a new Solana client with custom rate limiting
func NewClient(ctx context.Context, endpoint, jitoEndpoint string, reqLimitPerSecond int, log *zap.Logger) (*Client, error) {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Client{
		rpcClient:   rpc.New(endpoint),
		rateLimiter: NewRateLimiter(reqLimitPerSecond),
		log:         log,
	}

	if jitoEndpoint != "" {
		jitoClient, err := NewJitoClient(ctx, jitoEndpoint)
		if err == nil {
			c.jitoClient = jitoClient
		} else {
			log.Warn("jito client unavailable, falling back to plain RPC submission", zap.Error(err))
		}
	}
	return c, nil
}
