// Package cache implements the append-only per-address balance cache and its lock file.
package cache

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"path/filepath"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/goodnatureofminers/acctmon/internal/acct/model"
)

const (
	fileMagic     = "acctbin"
	formatVersion = 1

	// FileSuffix is appended to the watched address to form the cache file name.
	FileSuffix = ".acct.bin"
)

// EntryKind tags the entries of a cache file.
type EntryKind uint

const (
	// KindRecord is a per-address balance snapshot.
	KindRecord EntryKind = 1
	// KindMarker records the last block fully processed.
	KindMarker EntryKind = 2
)

var (
	// ErrCorrupt is returned when the cache cannot be decoded.
	ErrCorrupt = errors.New("cache file corrupt")
	// ErrTruncated is returned when the cache ends in a partial entry.
	ErrTruncated = fmt.Errorf("%w: truncated entry", ErrCorrupt)
	// ErrNonMonotonic is returned when appending a record at or below the address's last block.
	ErrNonMonotonic = errors.New("record block not after last recorded block")
)

type fileHeader struct {
	Magic   string
	Version uint
}

type envelope struct {
	Kind EntryKind
	Body rlp.RawValue
}

type markerBody struct {
	Block uint64
}

type recordBody struct {
	BlockNumber  uint64
	Timestamp    uint64
	Address      common.Address
	BeginBalance *big.Int
	EndBalance   *big.Int
	In           *big.Int
	Out          *big.Int
	Reconciled   bool
	Txs          []model.RecordTx
}

// Entry is one decoded cache entry.
type Entry struct {
	Kind   EntryKind
	Record model.Record
	Marker uint64
}

// Path returns the cache file path for addr inside dir.
func Path(dir string, addr common.Address) string {
	return filepath.Join(dir, strings.ToLower(addr.Hex())+FileSuffix)
}

func encodeRecord(rec model.Record) (envelope, error) {
	if rec.Timestamp.Unix() < 0 {
		return envelope{}, fmt.Errorf("record %d: negative timestamp", rec.BlockNumber)
	}
	body, err := rlp.EncodeToBytes(recordBody{
		BlockNumber:  rec.BlockNumber,
		Timestamp:    uint64(rec.Timestamp.Unix()),
		Address:      rec.Address,
		BeginBalance: nonNil(rec.BeginBalance),
		EndBalance:   nonNil(rec.EndBalance),
		In:           nonNil(rec.In),
		Out:          nonNil(rec.Out),
		Reconciled:   rec.Reconciled,
		Txs:          rec.Txs,
	})
	if err != nil {
		return envelope{}, fmt.Errorf("encode record %d: %w", rec.BlockNumber, err)
	}
	return envelope{Kind: KindRecord, Body: body}, nil
}

func decodeRecord(raw []byte) (model.Record, error) {
	var body recordBody
	if err := rlp.DecodeBytes(raw, &body); err != nil {
		return model.Record{}, err
	}
	if body.Timestamp > math.MaxInt64 {
		return model.Record{}, fmt.Errorf("record %d: timestamp out of range", body.BlockNumber)
	}
	return model.Record{
		BlockNumber:  body.BlockNumber,
		Timestamp:    time.Unix(int64(body.Timestamp), 0).UTC(),
		Address:      body.Address,
		BeginBalance: body.BeginBalance,
		EndBalance:   body.EndBalance,
		In:           body.In,
		Out:          body.Out,
		Reconciled:   body.Reconciled,
		Txs:          body.Txs,
	}, nil
}

func nonNil(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}
