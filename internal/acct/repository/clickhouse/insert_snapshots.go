package clickhouse

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/goodnatureofminers/acctmon/internal/acct/model"
)

const insertSnapshotsQuery = `
INSERT INTO account_snapshots (
	address,
	block_number,
	timestamp,
	begin_balance,
	end_balance,
	value_in,
	value_out,
	reconciled,
	tx_hashes
) VALUES`

// InsertSnapshots stores account snapshots in ClickHouse.
func (r *Repository) InsertSnapshots(ctx context.Context, recs []model.Record) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("insert_snapshots", err, start)
	}()

	if len(recs) == 0 {
		return nil
	}

	batch, err := r.conn.PrepareBatch(ctx, insertSnapshotsQuery)
	if err != nil {
		return fmt.Errorf("prepare snapshots batch: %w", err)
	}

	for _, rec := range recs {
		if err = batch.Append(snapshotRow(rec)...); err != nil {
			_ = batch.Abort()
			return fmt.Errorf("append snapshot %s@%d: %w", rec.Address.Hex(), rec.BlockNumber, err)
		}
	}

	if err = batch.Send(); err != nil {
		return fmt.Errorf("insert snapshots: %w", err)
	}
	return nil
}

func snapshotRow(rec model.Record) []any {
	hashes := make([]string, 0, len(rec.Txs))
	for _, tx := range rec.Txs {
		hashes = append(hashes, tx.Hash.Hex())
	}
	return []any{
		strings.ToLower(rec.Address.Hex()),
		rec.BlockNumber,
		rec.Timestamp.UTC(),
		orZero(rec.BeginBalance),
		orZero(rec.EndBalance),
		orZero(rec.In),
		orZero(rec.Out),
		rec.Reconciled,
		hashes,
	}
}

func orZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}
