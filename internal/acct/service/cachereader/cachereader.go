// Package cachereader replays the account cache to display history without
// touching the network.
package cachereader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/goodnatureofminers/acctmon/internal/acct/cache"
	"github.com/goodnatureofminers/acctmon/internal/acct/model"
	"go.uber.org/zap"
)

// Result describes a display pass.
type Result struct {
	// Displayed is set when at least one record was printed.
	Displayed bool
	Trans     model.TransStats
	// LastBlock is the highest record block replayed; valid when Records > 0.
	LastBlock uint64
	Records   int
}

// Service displays cached records.
type Service struct {
	logger  *zap.Logger
	printer Printer
}

// NewService builds a Service printing through printer.
func NewService(logger *zap.Logger, printer Printer) (*Service, error) {
	if printer == nil {
		return nil, errors.New("printer is required")
	}
	return &Service{
		logger:  logger,
		printer: printer,
	}, nil
}

// DisplayFromCache replays path in file order. Every record updates the
// balance of its watch; records at or after startBlock are printed. A missing
// cache is not an error. A torn tail is reported after the readable prefix
// was displayed.
func (s *Service) DisplayFromCache(ctx context.Context, path string, startBlock uint64, watches model.Watches) (Result, error) {
	var res Result
	r, err := cache.OpenReader(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug("no cache to display", zap.String("cache", path))
			return res, nil
		}
		return res, err
	}
	defer r.Close()

	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		entry, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return res, fmt.Errorf("read cache %s: %w", path, err)
		}
		if entry.Kind != cache.KindRecord {
			continue
		}

		rec := entry.Record
		res.Records++
		res.LastBlock = max(res.LastBlock, rec.BlockNumber)
		w := watches.Find(rec.Address)
		if w == nil {
			continue
		}
		if rec.BlockNumber < startBlock {
			w.SetBalance(rec.EndBalance)
			continue
		}
		if err := s.printer.PrintRecord(w, rec); err != nil {
			return res, err
		}
		w.Account(rec)
		res.Trans.NDisplayed++
		res.Displayed = true
	}

	s.logger.Debug("cache displayed",
		zap.String("cache", path),
		zap.Int("records", res.Records),
		zap.Uint64("displayed", res.Trans.NDisplayed),
	)
	return res, nil
}
