// Package chain defines the node-facing contracts used by account monitoring.
package chain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/goodnatureofminers/acctmon/internal/acct/model"
)

// NodeSource provides balances and blocks from a node.
type NodeSource interface {
	LatestHeight(ctx context.Context) (uint64, error)
	Balance(ctx context.Context, addr common.Address, block uint64) (*big.Int, error)
	FetchBlock(ctx context.Context, number uint64) (*model.Block, error)
}

// BlockSource is the subset of NodeSource needed to build bloom files.
type BlockSource interface {
	LatestHeight(ctx context.Context) (uint64, error)
	FetchBlock(ctx context.Context, number uint64) (*model.Block, error)
}
