package bloombuilder

import (
	"context"
	"time"

	"github.com/goodnatureofminers/acctmon/internal/acct/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	BlockSource interface {
		LatestHeight(ctx context.Context) (uint64, error)
		FetchBlock(ctx context.Context, number uint64) (*model.Block, error)
	}
	Metrics interface {
		ObserveBuildFile(err error, blocks int, last uint64, started time.Time)
		ObserveFetchBlock(err error, block uint64, started time.Time)
	}
)
