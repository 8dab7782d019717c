package freshener

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/big"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/golang/mock/gomock"
	"github.com/goodnatureofminers/acctmon/internal/acct/bloom"
	"github.com/goodnatureofminers/acctmon/internal/acct/cache"
	"github.com/goodnatureofminers/acctmon/internal/acct/model"
	"github.com/goodnatureofminers/acctmon/pkg/cleanup"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	alice    = common.HexToAddress("0x00000000000000000000000000000000000a11ce")
	carol    = common.HexToAddress("0x00000000000000000000000000000000000ca201")
	coinbase = common.HexToAddress("0x00000000000000000000000000000000000d1ce5")
)

const gasPrice = 1

// testChain is an in-memory chain with step-function balances.
type testChain struct {
	height      uint64
	blocks      map[uint64]*model.Block
	balances    map[common.Address]map[uint64]*big.Int
	failFetch   map[uint64]error
	failBalance map[common.Address]map[uint64]error
	fetches     int
}

func newTestChain(height uint64) *testChain {
	c := &testChain{
		height:   height,
		blocks:   make(map[uint64]*model.Block),
		balances: make(map[common.Address]map[uint64]*big.Int),
	}
	for n := uint64(0); n <= 200; n++ {
		c.blocks[n] = &model.Block{
			Number:    n,
			Miner:     coinbase,
			Timestamp: time.Unix(int64(1_700_000_000+n*12), 0).UTC(),
		}
	}
	return c
}

func (c *testChain) setBalance(addr common.Address, block uint64, wei int64) {
	if c.balances[addr] == nil {
		c.balances[addr] = make(map[uint64]*big.Int)
	}
	c.balances[addr][block] = big.NewInt(wei)
}

func (c *testChain) transfer(block uint64, from, to common.Address, value int64) {
	b := c.blocks[block]
	b.Transactions = append(b.Transactions, model.Transaction{
		Hash:        common.BigToHash(big.NewInt(int64(block*100 + uint64(len(b.Transactions))))),
		BlockNumber: block,
		Index:       uint32(len(b.Transactions)),
		From:        from,
		To:          &to,
		Value:       big.NewInt(value),
		GasUsed:     21000,
		GasPrice:    big.NewInt(gasPrice),
	})
}

func (c *testChain) balance(_ context.Context, addr common.Address, block uint64) (*big.Int, error) {
	if err := c.failBalance[addr][block]; err != nil {
		return nil, err
	}
	if block > c.height {
		return nil, fmt.Errorf("block %d beyond head %d", block, c.height)
	}
	best, found := uint64(0), false
	for n := range c.balances[addr] {
		if n <= block && (!found || n > best) {
			best, found = n, true
		}
	}
	if !found {
		return new(big.Int), nil
	}
	return new(big.Int).Set(c.balances[addr][best]), nil
}

func (c *testChain) fetch(_ context.Context, number uint64) (*model.Block, error) {
	c.fetches++
	if err := c.failFetch[number]; err != nil {
		return nil, err
	}
	if number > c.height {
		return nil, fmt.Errorf("block %d not found", number)
	}
	return c.blocks[number], nil
}

func (c *testChain) latest(context.Context) (uint64, error) {
	return c.height, nil
}

// writeBlooms writes one bloom file per [first, last] pair.
func (c *testChain) writeBlooms(t *testing.T, idx *bloom.Index, ranges ...[2]uint64) {
	t.Helper()
	for _, r := range ranges {
		blooms := make([]types.Bloom, 0, r[1]-r[0]+1)
		for n := r[0]; n <= r[1]; n++ {
			blooms = append(blooms, bloom.BuildBloom(c.blocks[n]))
		}
		f, err := bloom.NewFile(r[0], blooms)
		require.NoError(t, err)
		require.NoError(t, idx.Write(f, nil))
	}
}

// aliceChain: alice holds 1_000_000 wei, receives 10 at block 101 and sends 3 at block 104.
func aliceChain() *testChain {
	c := newTestChain(105)
	c.setBalance(alice, 0, 1_000_000)
	c.transfer(101, carol, alice, 10)
	c.setBalance(alice, 101, 1_000_010)
	c.transfer(104, alice, carol, 3)
	c.setBalance(alice, 104, 1_000_010-3-21000*gasPrice)
	c.transfer(102, carol, coinbase, 1)
	return c
}

type fixture struct {
	dir       string
	cachePath string
	index     *bloom.Index
	cleanup   *cleanup.Registry
	node      *MockNodeSource
	metrics   *MockMetrics
}

func newFixture(t *testing.T, ctrl *gomock.Controller, chain *testChain) *fixture {
	t.Helper()
	dir := t.TempDir()
	f := &fixture{
		dir:       dir,
		cachePath: cache.Path(filepath.Join(dir, "cache"), alice),
		index:     bloom.NewIndex(filepath.Join(dir, "blooms"), 10),
		cleanup:   cleanup.New(nil),
		node:      NewMockNodeSource(ctrl),
		metrics:   NewMockMetrics(ctrl),
	}
	f.node.EXPECT().LatestHeight(gomock.Any()).DoAndReturn(chain.latest).AnyTimes()
	f.node.EXPECT().FetchBlock(gomock.Any(), gomock.Any()).DoAndReturn(chain.fetch).AnyTimes()
	f.node.EXPECT().Balance(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(chain.balance).AnyTimes()
	return f
}

// allowMetrics accepts every per-block observation.
func (f *fixture) allowMetrics() {
	f.metrics.EXPECT().ObserveBloom(gomock.Any()).AnyTimes()
	f.metrics.EXPECT().ObserveBlock(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	f.metrics.EXPECT().ObserveReconcile(gomock.Any()).AnyTimes()
	f.metrics.EXPECT().ObserveSinkError(gomock.Any()).AnyTimes()
}

func (f *fixture) service(t *testing.T, index BloomIndex) *Service {
	t.Helper()
	if index == nil {
		index = f.index
	}
	s, err := NewService(zap.NewNop(), f.node, index, cache.NewLock(f.cachePath, 5*time.Millisecond), f.cleanup, f.metrics, f.cachePath)
	require.NoError(t, err)
	return s
}

// recordedBlocks lists the record blocks of every address in file order.
func (f *fixture) recordedBlocks(t *testing.T) map[common.Address][]uint64 {
	t.Helper()
	r, err := cache.OpenReader(f.cachePath)
	require.NoError(t, err)
	defer r.Close()

	out := make(map[common.Address][]uint64)
	for {
		entry, err := r.Next()
		if errors.Is(err, io.EOF) {
			return out
		}
		require.NoError(t, err)
		if entry.Kind == cache.KindRecord {
			out[entry.Record.Address] = append(out[entry.Record.Address], entry.Record.BlockNumber)
		}
	}
}

// carolChain extends aliceChain with balances for carol.
func carolChain() *testChain {
	c := aliceChain()
	c.setBalance(carol, 0, 500_000)
	c.setBalance(carol, 101, 500_000-10-21000*gasPrice)
	c.setBalance(carol, 102, 500_000-10-1-2*21000*gasPrice)
	c.setBalance(carol, 104, 500_000-10-1-2*21000*gasPrice+3)
	return c
}

func (f *fixture) replay(t *testing.T) *cache.State {
	t.Helper()
	state, err := cache.Replay(f.cachePath)
	require.NoError(t, err)
	return state
}
