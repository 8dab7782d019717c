package freshener

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/goodnatureofminers/acctmon/internal/acct/bloom"
	"github.com/goodnatureofminers/acctmon/internal/acct/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	NodeSource interface {
		LatestHeight(ctx context.Context) (uint64, error)
		Balance(ctx context.Context, addr common.Address, block uint64) (*big.Int, error)
		FetchBlock(ctx context.Context, number uint64) (*model.Block, error)
	}
	BloomIndex interface {
		LatestBlock() (uint64, bool, error)
		ForEveryBloomFile(ctx context.Context, firstBlock, nBlocks uint64, visit bloom.VisitFunc) error
	}
	CacheLock interface {
		Lock(ctx context.Context) error
		Unlock() error
	}
	Cleanup interface {
		Add(name string, fn func() error) func() error
	}
	Metrics interface {
		ObserveFreshen(err error, records uint64, started time.Time)
		ObserveBlock(err error, block uint64, started time.Time)
		ObserveBloom(hit bool)
		ObserveReconcile(accounted bool)
		ObserveSinkError(sink string)
	}
	// SnapshotSink receives every record appended to the cache.
	SnapshotSink interface {
		Name() string
		WriteSnapshot(ctx context.Context, rec model.Record) error
	}
	SnapshotRepository interface {
		InsertSnapshots(ctx context.Context, recs []model.Record) error
	}
)
