package cache

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ethereum/go-ethereum/rlp"
)

// Reader decodes cache entries sequentially without locking.
type Reader struct {
	f      *os.File
	stream *rlp.Stream
	// offset is the byte offset just past the last entry decoded successfully.
	offset int64
	size   int64
}

// OpenReader opens path and validates its header. A missing file yields an
// error satisfying errors.Is(err, fs.ErrNotExist).
func OpenReader(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open cache %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat cache %s: %w", path, err)
	}

	r := &Reader{
		f:      f,
		stream: rlp.NewStream(bufio.NewReader(f), uint64(info.Size())),
		size:   info.Size(),
	}
	if info.Size() == 0 {
		return r, nil
	}

	raw, err := r.nextRaw()
	if err != nil {
		_ = f.Close()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %s has no header", ErrTruncated, path)
		}
		return nil, err
	}
	var h fileHeader
	if err := rlp.DecodeBytes(raw, &h); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %s header: %v", ErrCorrupt, path, err)
	}
	if h.Magic != fileMagic {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %s is not a cache file", ErrCorrupt, path)
	}
	if h.Version != formatVersion {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %s has unsupported version %d", ErrCorrupt, path, h.Version)
	}
	r.offset = int64(len(raw))
	return r, nil
}

// Next returns the next entry, io.EOF at a clean end of file, or an error
// wrapping ErrTruncated or ErrCorrupt.
func (r *Reader) Next() (Entry, error) {
	raw, err := r.nextRaw()
	if err != nil {
		return Entry{}, err
	}

	var env envelope
	if err := rlp.DecodeBytes(raw, &env); err != nil {
		return Entry{}, fmt.Errorf("%w at offset %d: %v", ErrCorrupt, r.offset, err)
	}

	var entry Entry
	switch env.Kind {
	case KindRecord:
		rec, err := decodeRecord(env.Body)
		if err != nil {
			return Entry{}, fmt.Errorf("%w at offset %d: %v", ErrCorrupt, r.offset, err)
		}
		entry = Entry{Kind: KindRecord, Record: rec}
	case KindMarker:
		var m markerBody
		if err := rlp.DecodeBytes(env.Body, &m); err != nil {
			return Entry{}, fmt.Errorf("%w at offset %d: %v", ErrCorrupt, r.offset, err)
		}
		entry = Entry{Kind: KindMarker, Marker: m.Block}
	default:
		return Entry{}, fmt.Errorf("%w at offset %d: unknown entry kind %d", ErrCorrupt, r.offset, env.Kind)
	}

	r.offset += int64(len(raw))
	return entry, nil
}

// Offset returns the size of the valid prefix read so far.
func (r *Reader) Offset() int64 {
	return r.offset
}

// Size returns the file size observed when the reader was opened.
func (r *Reader) Size() int64 {
	return r.size
}

// Close releases the file handle.
func (r *Reader) Close() error {
	return r.f.Close()
}

func (r *Reader) nextRaw() ([]byte, error) {
	raw, err := r.stream.Raw()
	if err == nil {
		return raw, nil
	}
	switch {
	case errors.Is(err, io.EOF):
		return nil, io.EOF
	case errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, rlp.ErrValueTooLarge):
		return nil, fmt.Errorf("%w at offset %d", ErrTruncated, r.offset)
	default:
		return nil, fmt.Errorf("%w at offset %d: %v", ErrCorrupt, r.offset, err)
	}
}
