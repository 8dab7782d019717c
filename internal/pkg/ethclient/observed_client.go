// Package ethclient wraps the go-ethereum client with metrics and rate limiting.
package ethclient

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/ratelimit"
)

type (
	RPCMetrics interface {
		Observe(operation string, err error, started time.Time)
	}

	Client interface {
		ChainID(ctx context.Context) (*big.Int, error)
		BlockNumber(ctx context.Context) (uint64, error)
		BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
		BlockByNumber(ctx context.Context, number *big.Int) (*types.Block, error)
		BlockReceipts(ctx context.Context, blockNrOrHash rpc.BlockNumberOrHash) ([]*types.Receipt, error)
	}
)

type ObservedClient struct {
	client     Client
	rpcMetrics RPCMetrics
	limiter    ratelimit.Limiter
}

// NewObservedClient wraps client; rps <= 0 disables rate limiting.
func NewObservedClient(client Client, rpcMetrics RPCMetrics, rps int) *ObservedClient {
	limiter := ratelimit.NewUnlimited()
	if rps > 0 {
		limiter = ratelimit.New(rps)
	}
	return &ObservedClient{
		client:     client,
		rpcMetrics: rpcMetrics,
		limiter:    limiter,
	}
}

func (r *ObservedClient) ChainID(ctx context.Context) (id *big.Int, err error) {
	r.limiter.Take()
	started := time.Now()
	defer func() {
		r.rpcMetrics.Observe("chain_id", err, started)
	}()
	return r.client.ChainID(ctx)
}

func (r *ObservedClient) BlockNumber(ctx context.Context) (number uint64, err error) {
	r.limiter.Take()
	started := time.Now()
	defer func() {
		r.rpcMetrics.Observe("block_number", err, started)
	}()
	return r.client.BlockNumber(ctx)
}

func (r *ObservedClient) BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (balance *big.Int, err error) {
	r.limiter.Take()
	started := time.Now()
	defer func() {
		r.rpcMetrics.Observe("balance_at", err, started)
	}()
	return r.client.BalanceAt(ctx, account, blockNumber)
}

func (r *ObservedClient) BlockByNumber(ctx context.Context, number *big.Int) (block *types.Block, err error) {
	r.limiter.Take()
	started := time.Now()
	defer func() {
		r.rpcMetrics.Observe("block_by_number", err, started)
	}()
	return r.client.BlockByNumber(ctx, number)
}

func (r *ObservedClient) BlockReceipts(ctx context.Context, blockNrOrHash rpc.BlockNumberOrHash) (receipts []*types.Receipt, err error) {
	r.limiter.Take()
	started := time.Now()
	defer func() {
		r.rpcMetrics.Observe("block_receipts", err, started)
	}()
	return r.client.BlockReceipts(ctx, blockNrOrHash)
}
