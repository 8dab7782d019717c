// Package bloombuilder extends the bloom index with files built from node blocks.
package bloombuilder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/goodnatureofminers/acctmon/internal/acct/bloom"
	"github.com/goodnatureofminers/acctmon/internal/clock"
	"github.com/goodnatureofminers/acctmon/pkg/workerpool"
	"go.uber.org/zap"
)

// Options tunes a Service.
type Options struct {
	// StartBlock is the first block indexed when the index is empty.
	StartBlock uint64
	// Confirmations keeps the index this many blocks behind the chain head.
	Confirmations uint64
	Workers       int
}

// Result describes a build pass.
type Result struct {
	First  uint64
	Last   uint64
	Files  int
	Blocks int
	// UpToDate is set when nothing needed building.
	UpToDate bool
}

// Service writes bloom files for blocks the index does not cover yet.
type Service struct {
	logger  *zap.Logger
	source  BlockSource
	index   *bloom.Index
	cleanup bloom.Cleanup
	metrics Metrics
	opts    Options
}

func NewService(
	logger *zap.Logger,
	source BlockSource,
	index *bloom.Index,
	cleanup bloom.Cleanup,
	metrics Metrics,
	opts Options,
) (*Service, error) {
	if source == nil {
		return nil, errors.New("block source is required")
	}
	if index == nil {
		return nil, errors.New("bloom index is required")
	}
	if metrics == nil {
		return nil, errors.New("bloom builder metrics is required")
	}
	opts.Workers = max(opts.Workers, 1)
	return &Service{
		logger:  logger.With(zap.String("bloom_dir", index.Dir())),
		source:  source,
		index:   index,
		cleanup: cleanup,
		metrics: metrics,
		opts:    opts,
	}, nil
}

// Build indexes every block between the end of the index and the confirmed
// chain head. Files are aligned to the index span; a trailing partial file
// is extended in place.
func (s *Service) Build(ctx context.Context) (Result, error) {
	var res Result

	height, err := s.source.LatestHeight(ctx)
	if err != nil {
		return res, fmt.Errorf("latest height: %w", err)
	}
	if height < s.opts.Confirmations {
		res.UpToDate = true
		return res, nil
	}
	target := height - s.opts.Confirmations

	next, partial, err := s.resumePoint()
	if err != nil {
		return res, err
	}
	if next > target {
		res.UpToDate = true
		return res, nil
	}
	res.First = next

	for next <= target {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		f, err := s.buildFile(ctx, next, target, partial)
		if err != nil {
			return res, err
		}
		res.Files++
		res.Blocks += int(f.Last - next + 1)
		res.Last = f.Last
		next = f.Last + 1
		partial = nil

		s.logger.Info("bloom file written",
			zap.Uint64("first", f.First),
			zap.Uint64("last", f.Last),
			zap.Uint64("target", target),
		)
	}
	return res, nil
}

// Follow runs Build every interval until ctx is canceled.
func (s *Service) Follow(ctx context.Context, interval time.Duration) error {
	return clock.PollWithContext(ctx, interval, func(ctx context.Context) (bool, error) {
		res, err := s.Build(ctx)
		if err != nil {
			return false, err
		}
		if !res.UpToDate {
			s.logger.Info("bloom index extended",
				zap.Uint64("first", res.First),
				zap.Uint64("last", res.Last),
				zap.Int("files", res.Files))
		}
		return false, nil
	})
}

// resumePoint returns the next block to index and the trailing file when it
// ends before its span boundary.
func (s *Service) resumePoint() (uint64, *bloom.File, error) {
	latest, ok, err := s.index.LatestBlock()
	if err != nil {
		return 0, nil, err
	}
	if !ok {
		return s.opts.StartBlock, nil, nil
	}
	if latest == s.spanEnd(latest) {
		return latest + 1, nil, nil
	}
	f, err := s.index.Open(latest)
	if err != nil {
		return 0, nil, err
	}
	if f.Last != latest {
		return 0, nil, fmt.Errorf("%w: file %d-%d does not end at %d", bloom.ErrInvalidFile, f.First, f.Last, latest)
	}
	return latest + 1, f, nil
}

func (s *Service) spanEnd(block uint64) uint64 {
	span := s.index.Span()
	return block - block%span + span - 1
}

func (s *Service) buildFile(ctx context.Context, next, target uint64, partial *bloom.File) (f *bloom.File, err error) {
	started := time.Now()
	last := min(s.spanEnd(next), target)
	defer func() {
		var blocks int
		if f != nil {
			blocks = len(f.Blooms)
		}
		s.metrics.ObserveBuildFile(err, blocks, last, started)
	}()

	numbers := make([]uint64, 0, last-next+1)
	for n := next; n <= last; n++ {
		numbers = append(numbers, n)
	}
	blooms, err := workerpool.Map(ctx, s.opts.Workers, numbers, s.fetchBloom)
	if err != nil {
		return nil, fmt.Errorf("build blooms %d-%d: %w", next, last, err)
	}

	first := next
	if partial != nil {
		first = partial.First
		blooms = append(append(make([]types.Bloom, 0, len(partial.Blooms)+len(blooms)), partial.Blooms...), blooms...)
	}
	f, err = bloom.NewFile(first, blooms)
	if err != nil {
		return nil, err
	}
	if err := s.index.Write(f, s.cleanup); err != nil {
		return nil, fmt.Errorf("write bloom file %d-%d: %w", f.First, f.Last, err)
	}
	return f, nil
}

func (s *Service) fetchBloom(ctx context.Context, number uint64) (out types.Bloom, err error) {
	started := time.Now()
	defer func() {
		s.metrics.ObserveFetchBlock(err, number, started)
	}()

	b, err := s.source.FetchBlock(ctx, number)
	if err != nil {
		return out, fmt.Errorf("fetch block %d: %w", number, err)
	}
	return bloom.BuildBloom(b), nil
}
