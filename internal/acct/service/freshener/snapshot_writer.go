package freshener

import (
	"context"
	"time"

	"github.com/goodnatureofminers/acctmon/internal/acct/model"
	"github.com/goodnatureofminers/acctmon/pkg/batcher"
	"go.uber.org/zap"
)

const (
	snapshotBatchSize     = 500
	snapshotFlushInterval = 5 * time.Second
	snapshotFlushRPS      = 10
)

// SnapshotWriter mirrors records into a repository in batches.
type SnapshotWriter struct {
	logger  *zap.Logger
	metrics Metrics
	batcher *batcher.Batcher[model.Record]
}

// NewSnapshotWriter builds a SnapshotWriter; call Start before use and Stop to flush.
func NewSnapshotWriter(logger *zap.Logger, repo SnapshotRepository, metrics Metrics) *SnapshotWriter {
	w := &SnapshotWriter{
		logger:  logger,
		metrics: metrics,
	}
	w.batcher = batcher.New[model.Record](
		logger.Named("snapshotBatcher"),
		func(ctx context.Context, recs []model.Record) error {
			if err := repo.InsertSnapshots(ctx, recs); err != nil {
				if w.metrics != nil {
					w.metrics.ObserveSinkError(w.Name())
				}
				return err
			}
			return nil
		},
		snapshotBatchSize,
		snapshotFlushInterval,
		snapshotFlushRPS,
	)
	return w
}

func (w *SnapshotWriter) Name() string {
	return "clickhouse"
}

func (w *SnapshotWriter) Start(ctx context.Context) {
	w.batcher.Start(ctx)
}

// Stop flushes queued records.
func (w *SnapshotWriter) Stop() {
	w.batcher.Stop()
}

func (w *SnapshotWriter) WriteSnapshot(ctx context.Context, rec model.Record) error {
	return w.batcher.Add(ctx, rec)
}
