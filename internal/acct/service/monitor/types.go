package monitor

import (
	"context"

	"github.com/goodnatureofminers/acctmon/internal/acct/cache"
	"github.com/goodnatureofminers/acctmon/internal/acct/model"
	"github.com/goodnatureofminers/acctmon/internal/acct/service/cachereader"
	"github.com/goodnatureofminers/acctmon/internal/acct/service/freshener"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	LockInspector interface {
		Inspect(ctx context.Context) (*cache.LockedError, error)
	}
	CacheReader interface {
		DisplayFromCache(ctx context.Context, path string, startBlock uint64, watches model.Watches) (cachereader.Result, error)
	}
	Freshener interface {
		Freshen(ctx context.Context, watches model.Watches, override *uint64) (freshener.Result, error)
		OnProgress(fn freshener.ProgressFunc)
	}
)
