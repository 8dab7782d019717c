// Package freshener scans new blocks for watched addresses and appends their
// balance changes to the account cache.
package freshener

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"path/filepath"
	"time"

	"github.com/goodnatureofminers/acctmon/internal/acct/bloom"
	"github.com/goodnatureofminers/acctmon/internal/acct/cache"
	"github.com/goodnatureofminers/acctmon/internal/acct/model"
	"go.uber.org/zap"
)

// Result describes a finished freshen cycle.
type Result struct {
	Stats model.BlockStats
	Trans model.TransStats
	// Empty is set when the cache was already up to date.
	Empty bool
}

// ProgressFunc is called after each block that produced a bloom hit.
type ProgressFunc func(stats model.BlockStats)

// Service runs freshen cycles against one cache file.
type Service struct {
	logger    *zap.Logger
	metrics   Metrics
	source    NodeSource
	index     BloomIndex
	lock      CacheLock
	cleanup   Cleanup
	cachePath string
	cacheDir  string
	sinks     []SnapshotSink
	progress  ProgressFunc
}

// NewService builds a Service writing to cachePath.
func NewService(
	logger *zap.Logger,
	source NodeSource,
	index BloomIndex,
	lock CacheLock,
	cleanup Cleanup,
	metrics Metrics,
	cachePath string,
) (*Service, error) {
	if source == nil {
		return nil, errors.New("node source is required")
	}
	if index == nil {
		return nil, errors.New("bloom index is required")
	}
	if lock == nil {
		return nil, errors.New("cache lock is required")
	}
	if cleanup == nil {
		return nil, errors.New("cleanup registry is required")
	}
	if metrics == nil {
		return nil, errors.New("freshener metrics is required")
	}
	if cachePath == "" {
		return nil, errors.New("cache path is required")
	}
	return &Service{
		logger:    logger.With(zap.String("cache", cachePath)),
		metrics:   metrics,
		source:    source,
		index:     index,
		lock:      lock,
		cleanup:   cleanup,
		cachePath: cachePath,
		cacheDir:  filepath.Dir(cachePath),
	}, nil
}

// AddSink forwards appended records to sink.
func (s *Service) AddSink(sink SnapshotSink) {
	s.sinks = append(s.sinks, sink)
}

// OnProgress sets the progress callback.
func (s *Service) OnProgress(fn ProgressFunc) {
	s.progress = fn
}

// Freshen scans the blocks the cache does not account for yet and appends a
// record for every watch whose balance a block changed. override, when set,
// restarts the scan at that block after reloading balances from the node.
func (s *Service) Freshen(ctx context.Context, watches model.Watches, override *uint64) (res Result, err error) {
	started := time.Now()
	defer func() {
		s.metrics.ObserveFreshen(err, res.Trans.NFreshened, started)
	}()

	state, err := s.replay()
	if err != nil {
		return res, err
	}
	chainHeight, err := s.chainHeight(ctx)
	if err != nil {
		return res, err
	}
	plan := s.plan(state, watches, override, chainHeight)
	res.Stats = plan.Stats
	if plan.Empty {
		s.logger.Info("cache is up to date", zap.Uint64("chain_height", chainHeight))
		res.Empty = true
		return res, nil
	}

	if err := s.lock.Lock(ctx); err != nil {
		return res, fmt.Errorf("lock cache: %w", err)
	}
	release := s.cleanup.Add("unlock cache "+s.cachePath, s.lock.Unlock)
	defer func() {
		if unlockErr := release(); unlockErr != nil {
			s.logger.Error("release cache lock failed", zap.Error(unlockErr))
			err = errors.Join(err, unlockErr)
		}
	}()

	changed, err := state.Changed(s.cachePath)
	if err != nil {
		return res, err
	}
	if changed {
		s.logger.Info("cache changed while waiting for the lock; replaying")
		if state, err = s.replay(); err != nil {
			return res, err
		}
		plan = s.plan(state, watches, override, chainHeight)
		res.Stats = plan.Stats
		if plan.Empty {
			res.Empty = true
			return res, nil
		}
	}

	state.ApplyTo(watches)
	if err := s.resync(ctx, state, watches, plan); err != nil {
		return res, err
	}

	writer, err := cache.OpenWriter(s.cachePath, state)
	if err != nil {
		return res, err
	}

	var (
		processed    uint64
		hasProcessed bool
	)
	defer func() {
		if finishErr := s.finish(writer, processed, hasProcessed); finishErr != nil {
			s.logger.Error("finish cache write failed", zap.Error(finishErr))
			err = errors.Join(err, finishErr)
		}
	}()

	s.logger.Info("freshening cache",
		zap.Uint64("first_block", plan.Stats.FirstBlock),
		zap.Uint64("last_block", plan.Stats.LastBlock),
		zap.Uint64("n_blocks", plan.Stats.NBlocks),
		zap.Int("watches", len(watches)),
	)

	visit := func(ctx context.Context, f *bloom.File, from, to uint64) error {
		for block := from; ; block++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := s.processBlock(ctx, f, block, watches, writer, &res); err != nil {
				return err
			}
			processed, hasProcessed = block, true
			res.Stats.PrevBlock = block
			if block == to {
				return nil
			}
		}
	}
	if err := s.index.ForEveryBloomFile(ctx, plan.Stats.FirstBlock, plan.Stats.NBlocks+1, visit); err != nil {
		return res, fmt.Errorf("scan blocks %d-%d: %w", plan.Stats.FirstBlock, plan.Stats.LastBlock, err)
	}

	s.logger.Info("cache freshened",
		zap.Uint64("last_block", processed),
		zap.Uint64("written", res.Trans.NFreshened),
		zap.Uint64("accounted_for", res.Trans.NAccountedFor),
	)
	return res, nil
}

func (s *Service) replay() (*cache.State, error) {
	state, err := cache.Replay(s.cachePath)
	if errors.Is(err, cache.ErrTruncated) {
		s.logger.Warn("cache ends in a partial entry; it will be cut off",
			zap.Int64("valid_bytes", state.Size),
			zap.Int64("file_bytes", state.FileSize),
		)
		return state, nil
	}
	if err != nil {
		return nil, fmt.Errorf("replay cache: %w", err)
	}
	return state, nil
}

// chainHeight is the lower of the bloom index height and the node height.
func (s *Service) chainHeight(ctx context.Context) (uint64, error) {
	bloomHeight, ok, err := s.index.LatestBlock()
	if err != nil {
		return 0, fmt.Errorf("bloom index height: %w", err)
	}
	if !ok {
		return 0, fmt.Errorf("%w: bloom index is empty", bloom.ErrMissingBloomFile)
	}
	nodeHeight, err := s.source.LatestHeight(ctx)
	if err != nil {
		return 0, fmt.Errorf("node height: %w", err)
	}
	return min(bloomHeight, nodeHeight), nil
}

func (s *Service) plan(state *cache.State, watches model.Watches, override *uint64, chainHeight uint64) ScanPlan {
	last, ok := state.LastRecorded()
	// The hint is written after the marker is synced, so it only stands in for
	// a marker lost with a torn tail.
	if state.Exists && !ok {
		hint, hintOK, err := cache.ReadLastBlock(s.cacheDir)
		if err != nil {
			s.logger.Warn("ignoring last block hint", zap.Error(err))
		} else if hintOK {
			last, ok = hint, true
		}
	}
	return Plan(PlanInput{
		Watches:      watches,
		LastRecorded: last,
		HasRecorded:  ok,
		Override:     override,
		ChainHeight:  chainHeight,
	})
}

// resync loads balances from the node for watches the cache cannot seed, or
// for every watch when the plan asks for it.
func (s *Service) resync(ctx context.Context, state *cache.State, watches model.Watches, plan ScanPlan) error {
	for _, w := range watches {
		if w.FirstBlock > plan.Stats.LastBlock || w.EndBlock() < plan.Stats.FirstBlock {
			continue
		}
		if _, known := state.Balance(w.Address); known && !plan.Resync {
			continue
		}
		start := max(plan.Stats.FirstBlock, w.FirstBlock)
		if start == 0 {
			w.SetBalance(new(big.Int))
			continue
		}
		balance, err := s.source.Balance(ctx, w.Address, start-1)
		if err != nil {
			return fmt.Errorf("resync balance of %s at %d: %w", w.Address.Hex(), start-1, err)
		}
		s.logger.Debug("balance resynced",
			zap.String("address", w.Address.Hex()),
			zap.Uint64("block", start-1),
			zap.Stringer("balance", balance),
		)
		w.SetBalance(balance)
	}
	return nil
}

func (s *Service) processBlock(
	ctx context.Context,
	f *bloom.File,
	number uint64,
	watches model.Watches,
	writer *cache.Writer,
	res *Result,
) (err error) {
	var candidates model.Watches
	for _, w := range watches.ActiveAt(number) {
		if f.MayContain(number, w.Address) {
			candidates = append(candidates, w)
		}
	}
	s.metrics.ObserveBloom(len(candidates) > 0)
	if len(candidates) == 0 {
		return nil
	}

	started := time.Now()
	defer func() {
		s.metrics.ObserveBlock(err, number, started)
	}()

	block, err := s.source.FetchBlock(ctx, number)
	if err != nil {
		return fmt.Errorf("fetch block %d: %w", number, err)
	}
	res.Stats.PrevTimestamp = block.Timestamp

	// Build every record of the block before appending any, so a failure
	// leaves the block either fully recorded or not at all.
	type pending struct {
		w   *model.Watch
		rec model.Record
	}
	recs := make([]pending, 0, len(candidates))
	for _, w := range candidates {
		txs := block.TouchingTransactions(w.Address)
		if len(txs) == 0 && block.Miner != w.Address {
			s.logger.Debug("bloom false positive", zap.Uint64("block", number), zap.String("address", w.Address.Hex()))
			continue
		}
		rec, err := s.account(ctx, w, block, txs)
		if err != nil {
			return err
		}
		recs = append(recs, pending{w: w, rec: rec})
	}

	for _, p := range recs {
		if last, ok := writer.LastRecorded(p.w.Address); ok && number <= last {
			p.w.SetBalance(p.rec.EndBalance)
			continue
		}
		if err := writer.Append(p.rec); err != nil {
			return err
		}
		p.w.Account(p.rec)
		res.Trans.NFreshened++
		if p.rec.Reconciled {
			res.Trans.NAccountedFor++
		}
		s.publish(ctx, p.rec)
	}

	if s.progress != nil {
		stats := res.Stats
		stats.PrevBlock = number
		s.progress(stats)
	}
	return nil
}

// account builds the record of w at block and reconciles it with the node balance.
func (s *Service) account(ctx context.Context, w *model.Watch, block *model.Block, txs []model.Transaction) (model.Record, error) {
	rec := model.Record{
		BlockNumber:  block.Number,
		Timestamp:    block.Timestamp,
		Address:      w.Address,
		BeginBalance: w.CurrentBalance(),
		In:           new(big.Int),
		Out:          new(big.Int),
		Txs:          make([]model.RecordTx, 0, len(txs)),
	}
	for _, tx := range txs {
		in, out := tx.Delta(w.Address)
		rec.In.Add(rec.In, in)
		rec.Out.Add(rec.Out, out)
		rec.Txs = append(rec.Txs, model.NewRecordTx(tx))
	}

	balance, err := s.source.Balance(ctx, w.Address, block.Number)
	if err != nil {
		return model.Record{}, fmt.Errorf("balance of %s at %d: %w", w.Address.Hex(), block.Number, err)
	}
	rec.EndBalance = balance

	// Block rewards are not part of the block body; book the surplus of a mined block as income.
	if block.Miner == w.Address {
		if reward := new(big.Int).Sub(balance, rec.Expected()); reward.Sign() > 0 {
			rec.In.Add(rec.In, reward)
		}
	}

	expected := rec.Expected()
	rec.Reconciled = expected.Cmp(balance) == 0
	s.metrics.ObserveReconcile(rec.Reconciled)
	if !rec.Reconciled {
		s.logger.Warn("balance not reconciled",
			zap.String("address", w.Address.Hex()),
			zap.Uint64("block", block.Number),
			zap.Stringer("expected", expected),
			zap.Stringer("node", balance),
		)
	}
	return rec, nil
}

func (s *Service) publish(ctx context.Context, rec model.Record) {
	for _, sink := range s.sinks {
		if err := sink.WriteSnapshot(ctx, rec); err != nil {
			s.logger.Warn("snapshot sink failed",
				zap.String("sink", sink.Name()),
				zap.Uint64("block", rec.BlockNumber),
				zap.Error(err),
			)
			s.metrics.ObserveSinkError(sink.Name())
		}
	}
}

// finish records progress and closes the writer.
func (s *Service) finish(writer *cache.Writer, processed uint64, ok bool) error {
	var errs []error
	if ok {
		errs = append(errs, writer.Mark(processed))
	}
	errs = append(errs, writer.Close())
	if ok {
		errs = append(errs, cache.WriteLastBlock(s.cacheDir, processed))
	}
	return errors.Join(errs...)
}
