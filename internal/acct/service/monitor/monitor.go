// Package monitor runs the acctmon pipeline: lock check, cache display,
// freshen and summary.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/goodnatureofminers/acctmon/internal/acct/cache"
	"github.com/goodnatureofminers/acctmon/internal/acct/model"
	"go.uber.org/zap"
)

const timeLayout = "2006-01-02 15:04:05"

// Options selects what a run does.
type Options struct {
	// Program prefixes the summary line.
	Program string
	// Name prefixes progress lines.
	Name      string
	CachePath string
	ShowCache bool
	Freshen   bool
	// Single restricts the display to the first watch.
	Single bool
	// Override restarts display and freshen at this block.
	Override *uint64
}

// Summary describes a finished run.
type Summary struct {
	Trans model.TransStats
	Stats model.BlockStats
	// Locked is set when the run stopped at the lock check.
	Locked bool
}

// Service runs the pipeline and reports to out.
type Service struct {
	logger    *zap.Logger
	out       io.Writer
	lock      LockInspector
	reader    CacheReader
	freshener Freshener
	now       func() time.Time
}

// NewService builds a Service.
func NewService(logger *zap.Logger, out io.Writer, lock LockInspector, reader CacheReader, freshener Freshener) (*Service, error) {
	if out == nil {
		return nil, errors.New("output writer is required")
	}
	if lock == nil {
		return nil, errors.New("lock inspector is required")
	}
	if reader == nil {
		return nil, errors.New("cache reader is required")
	}
	if freshener == nil {
		return nil, errors.New("freshener is required")
	}
	return &Service{
		logger:    logger,
		out:       out,
		lock:      lock,
		reader:    reader,
		freshener: freshener,
		now:       time.Now,
	}, nil
}

// Run executes one pass. A present lock file is reported on out and ends the
// run without error and without touching the cache.
func (s *Service) Run(ctx context.Context, watches model.Watches, opts Options) (Summary, error) {
	var summary Summary
	if len(watches) == 0 {
		return summary, errors.New("no watches")
	}

	locked, err := s.lock.Inspect(ctx)
	if err != nil {
		return summary, fmt.Errorf("inspect cache lock: %w", err)
	}
	if locked != nil {
		s.reportLocked(locked)
		summary.Locked = true
		return summary, nil
	}

	startBlock := watches.MinBlock()
	if opts.Override != nil {
		startBlock = *opts.Override
	}

	if opts.ShowCache {
		shown := watches
		if opts.Single {
			shown = watches[:1]
		}
		res, err := s.reader.DisplayFromCache(ctx, opts.CachePath, startBlock, shown)
		summary.Trans.Add(res.Trans)
		switch {
		case errors.Is(err, cache.ErrTruncated):
			s.logger.Warn("cache has a torn tail; freshen will repair it", zap.Error(err))
		case err != nil:
			return summary, fmt.Errorf("display cache: %w", err)
		}
		if res.Records == 0 {
			s.logger.Info("nothing cached yet", zap.String("cache", opts.CachePath))
		}
	}

	if opts.Freshen {
		s.freshener.OnProgress(func(stats model.BlockStats) {
			s.reportProgress(opts.Name, stats)
		})
		res, err := s.freshener.Freshen(ctx, watches, opts.Override)
		summary.Trans.Add(res.Trans)
		summary.Stats = res.Stats
		if err != nil {
			return summary, fmt.Errorf("freshen cache: %w", err)
		}
		if !res.Empty {
			s.reportProgress(opts.Name, res.Stats)
		}
	}

	fmt.Fprintf(s.out, "%s: %s: { %d displayed from cache; %d written to cache; %d accounted for }\n",
		opts.Program,
		s.now().Format(timeLayout),
		summary.Trans.NDisplayed,
		summary.Trans.NFreshened,
		summary.Trans.NAccountedFor,
	)
	return summary, nil
}

func (s *Service) reportLocked(locked *cache.LockedError) {
	fmt.Fprintf(s.out, "The cache lock file is present. The program is either already running or it did not "+
		"end cleanly the last time it ran. Quit the already running program or, if it is not running, "+
		"remove the lock file: %s. Quitting...\n", locked.Path)
	if h := locked.Holder; h != nil {
		state := "running"
		if locked.Stale {
			state = "not running"
		}
		fmt.Fprintf(s.out, "Lock holder: pid %d on %s since %s (%s)\n", h.PID, h.Host, h.Since.Format(timeLayout), state)
	}
	s.logger.Warn("cache is locked", zap.String("lock", locked.Path), zap.Bool("stale", locked.Stale))
}

func (s *Service) reportProgress(name string, stats model.BlockStats) {
	ts := "-"
	if !stats.PrevTimestamp.IsZero() {
		ts = stats.PrevTimestamp.UTC().Format(timeLayout)
	}
	fmt.Fprintf(s.out, "%s|%s (%d)\n", name, ts, stats.PrevBlock)
}
