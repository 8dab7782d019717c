package cache

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/goodnatureofminers/acctmon/internal/acct/model"
)

// State is the result of replaying a cache file.
type State struct {
	Exists bool
	// Size is the length of the valid prefix; FileSize what was on disk.
	Size     int64
	FileSize int64
	Records  int

	Balances   map[common.Address]*big.Int
	LastRecord map[common.Address]uint64
	Marker     uint64
	HasMarker  bool
}

// NewState returns the state of an absent cache.
func NewState() *State {
	return &State{
		Balances:   make(map[common.Address]*big.Int),
		LastRecord: make(map[common.Address]uint64),
	}
}

// Replay reads path and folds every entry into a State. A missing file yields
// an empty state. On ErrTruncated the returned state describes the valid prefix.
func Replay(path string) (*State, error) {
	state := NewState()
	r, err := OpenReader(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return state, nil
		}
		if errors.Is(err, ErrTruncated) {
			state.Exists = true
			if info, statErr := os.Stat(path); statErr == nil {
				state.FileSize = info.Size()
			}
			return state, err
		}
		return nil, err
	}
	defer r.Close()

	state.Exists = true
	state.FileSize = r.Size()
	for {
		entry, err := r.Next()
		if err != nil {
			state.Size = r.Offset()
			if errors.Is(err, io.EOF) {
				return state, nil
			}
			if errors.Is(err, ErrTruncated) {
				return state, err
			}
			return nil, err
		}
		state.apply(entry)
	}
}

// LastRecorded returns the last fully processed block. Only the marker counts:
// records past it may belong to a block that was cut short.
func (s *State) LastRecorded() (uint64, bool) {
	return s.Marker, s.HasMarker
}

// Balance returns the last recorded balance of addr.
func (s *State) Balance(addr common.Address) (*big.Int, bool) {
	b, ok := s.Balances[addr]
	if !ok {
		return nil, false
	}
	return new(big.Int).Set(b), true
}

// Changed reports whether the file at path differs in size from the replayed one.
func (s *State) Changed(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s.Exists, nil
		}
		return false, fmt.Errorf("stat cache %s: %w", path, err)
	}
	return !s.Exists || info.Size() != s.FileSize, nil
}

func (s *State) apply(entry Entry) {
	switch entry.Kind {
	case KindRecord:
		rec := entry.Record
		s.Records++
		if rec.EndBalance != nil {
			s.Balances[rec.Address] = new(big.Int).Set(rec.EndBalance)
		}
		if last, ok := s.LastRecord[rec.Address]; !ok || rec.BlockNumber > last {
			s.LastRecord[rec.Address] = rec.BlockNumber
		}
	case KindMarker:
		if !s.HasMarker || entry.Marker > s.Marker {
			s.Marker = entry.Marker
			s.HasMarker = true
		}
	}
}

// ApplyTo seeds watch balances from the replayed state.
func (s *State) ApplyTo(watches model.Watches) {
	for _, w := range watches {
		if b, ok := s.Balance(w.Address); ok {
			w.SetBalance(b)
		}
	}
}
