package ethereum

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/goodnatureofminers/acctmon/internal/acct/chain"
	"github.com/goodnatureofminers/acctmon/internal/acct/model"
	"github.com/goodnatureofminers/acctmon/pkg/safe"
)

var _ chain.NodeSource = (*Source)(nil)

// Source implements chain.NodeSource for EVM nodes.
type Source struct {
	rpc RPCClient

	mu     sync.Mutex
	signer types.Signer
}

// NewSource creates a Source over rpc.
func NewSource(rpc RPCClient) *Source {
	return &Source{rpc: rpc}
}

// LatestHeight returns the latest block number from the node.
func (s *Source) LatestHeight(ctx context.Context) (uint64, error) {
	height, err := s.rpc.BlockNumber(ctx)
	if err != nil {
		return 0, fmt.Errorf("get block number: %w", err)
	}
	return height, nil
}

// Balance returns the balance of addr at the end of block.
func (s *Source) Balance(ctx context.Context, addr common.Address, block uint64) (*big.Int, error) {
	if _, err := safe.Int64(block); err != nil {
		return nil, fmt.Errorf("block %d exceeds rpc limit: %w", block, err)
	}
	balance, err := s.rpc.BalanceAt(ctx, addr, new(big.Int).SetUint64(block))
	if err != nil {
		return nil, fmt.Errorf("get balance of %s at %d: %w", addr.Hex(), block, err)
	}
	return balance, nil
}

// FetchBlock retrieves block number with transactions joined to their receipts.
func (s *Source) FetchBlock(ctx context.Context, number uint64) (*model.Block, error) {
	n, err := safe.Int64(number)
	if err != nil {
		return nil, fmt.Errorf("block %d exceeds rpc limit: %w", number, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	signer, err := s.getSigner(ctx)
	if err != nil {
		return nil, err
	}

	src, err := s.rpc.BlockByNumber(ctx, big.NewInt(n))
	if err != nil {
		return nil, fmt.Errorf("get block %d: %w", number, err)
	}
	var receipts []*types.Receipt
	if len(src.Transactions()) > 0 {
		receipts, err = s.rpc.BlockReceipts(ctx, rpc.BlockNumberOrHashWithNumber(rpc.BlockNumber(n)))
		if err != nil {
			return nil, fmt.Errorf("get receipts of block %d: %w", number, err)
		}
	}

	return ConvertBlock(src, receipts, signer)
}

func (s *Source) getSigner(ctx context.Context) (types.Signer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.signer != nil {
		return s.signer, nil
	}
	chainID, err := s.rpc.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("get chain id: %w", err)
	}
	s.signer = types.LatestSignerForChainID(chainID)
	return s.signer, nil
}
