// Package bloom reads and writes per-block address bloom filters grouped into range files.
package bloom

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/goodnatureofminers/acctmon/internal/acct/model"
)

// DefaultSpan is the number of blocks per bloom file.
const DefaultSpan uint64 = 1000

var (
	// ErrMissingBloomFile is returned when no bloom file covers a requested block.
	ErrMissingBloomFile = errors.New("missing bloom file")
	// ErrInvalidFile is returned for unreadable or inconsistent bloom files.
	ErrInvalidFile = errors.New("invalid bloom file")
)

// File holds one bloom per block for the inclusive range [First, Last].
type File struct {
	First  uint64
	Last   uint64
	Blooms []types.Bloom
}

// NewFile creates a File starting at first from blooms.
func NewFile(first uint64, blooms []types.Bloom) (*File, error) {
	if len(blooms) == 0 {
		return nil, fmt.Errorf("%w: no blooms for block %d", ErrInvalidFile, first)
	}
	return &File{
		First:  first,
		Last:   first + uint64(len(blooms)) - 1,
		Blooms: blooms,
	}, nil
}

// Covers reports whether block is inside the file range.
func (f *File) Covers(block uint64) bool {
	return block >= f.First && block <= f.Last
}

// MayContain reports whether addr may have been touched in block.
// False positives are possible, false negatives are not.
func (f *File) MayContain(block uint64, addr common.Address) bool {
	if !f.Covers(block) {
		return false
	}
	return types.BloomLookup(f.Blooms[block-f.First], addr)
}

// MayContainAny reports whether any of addrs may have been touched in block.
func (f *File) MayContainAny(block uint64, addrs []common.Address) bool {
	for _, addr := range addrs {
		if f.MayContain(block, addr) {
			return true
		}
	}
	return false
}

// BuildBloom returns the bloom of every address whose balance b can change.
func BuildBloom(b *model.Block) types.Bloom {
	var bloom types.Bloom
	bloom.Add(b.Miner.Bytes())
	for _, tx := range b.Transactions {
		bloom.Add(tx.From.Bytes())
		if tx.To != nil {
			bloom.Add(tx.To.Bytes())
		} else if tx.ContractAddress != (common.Address{}) {
			bloom.Add(tx.ContractAddress.Bytes())
		}
	}
	return bloom
}
