package cache

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/goodnatureofminers/acctmon/internal/acct/model"
)

// Writer appends entries to a cache file. Callers hold the cache lock.
type Writer struct {
	path string
	f    *os.File
	buf  *bufio.Writer
	last map[common.Address]uint64
}

// OpenWriter opens path for appending after the valid prefix described by
// state. A torn tail past state.Size is cut off before the first append.
func OpenWriter(path string, state *State) (*Writer, error) {
	if state == nil {
		state = NewState()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open cache %s for writing: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat cache %s: %w", path, err)
	}
	if info.Size() < state.Size {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %s shrank to %d bytes, expected %d", ErrCorrupt, path, info.Size(), state.Size)
	}
	if info.Size() > state.Size {
		if err := f.Truncate(state.Size); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("truncate cache tail: %w", err)
		}
	}
	if _, err := f.Seek(state.Size, io.SeekStart); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("seek cache: %w", err)
	}

	w := &Writer{
		path: path,
		f:    f,
		buf:  bufio.NewWriter(f),
		last: make(map[common.Address]uint64, len(state.LastRecord)),
	}
	for addr, block := range state.LastRecord {
		w.last[addr] = block
	}
	if state.Size == 0 {
		if err := rlp.Encode(w.buf, fileHeader{Magic: fileMagic, Version: formatVersion}); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("write cache header: %w", err)
		}
	}
	return w, nil
}

// LastRecorded returns the block of the last record appended for addr.
func (w *Writer) LastRecorded(addr common.Address) (uint64, bool) {
	block, ok := w.last[addr]
	return block, ok
}

// Append writes rec. Records for an address must have strictly increasing block numbers.
func (w *Writer) Append(rec model.Record) error {
	if last, ok := w.last[rec.Address]; ok && rec.BlockNumber <= last {
		return fmt.Errorf("%w: %s block %d, last %d", ErrNonMonotonic, rec.Address.Hex(), rec.BlockNumber, last)
	}
	env, err := encodeRecord(rec)
	if err != nil {
		return err
	}
	if err := rlp.Encode(w.buf, env); err != nil {
		return fmt.Errorf("append record %d: %w", rec.BlockNumber, err)
	}
	w.last[rec.Address] = rec.BlockNumber
	return nil
}

// Mark writes the last-block-processed marker.
func (w *Writer) Mark(block uint64) error {
	body, err := rlp.EncodeToBytes(markerBody{Block: block})
	if err != nil {
		return fmt.Errorf("encode marker: %w", err)
	}
	if err := rlp.Encode(w.buf, envelope{Kind: KindMarker, Body: body}); err != nil {
		return fmt.Errorf("append marker %d: %w", block, err)
	}
	return nil
}

// Sync flushes buffered entries and fsyncs the file.
func (w *Writer) Sync() error {
	if err := w.buf.Flush(); err != nil {
		return fmt.Errorf("flush cache: %w", err)
	}
	if err := w.f.Sync(); err != nil {
		return fmt.Errorf("sync cache: %w", err)
	}
	return nil
}

// Close syncs and closes the file.
func (w *Writer) Close() error {
	syncErr := w.Sync()
	if err := w.f.Close(); err != nil && syncErr == nil {
		return fmt.Errorf("close cache: %w", err)
	}
	return syncErr
}
