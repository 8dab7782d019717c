// Package model defines domain models for account monitoring.
package model

import (
	"math"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Watch is a monitored address together with its block window and running balance.
type Watch struct {
	Address    common.Address
	Name       string
	Color      string
	FirstBlock uint64
	// LastBlock is the last block of interest; zero means open ended.
	LastBlock uint64
	// Balance is the running end balance; nil until known.
	Balance *big.Int
	Stats   WatchStats
}

// WatchStats accumulates per-watch activity across a run.
type WatchStats struct {
	NRecords uint64
	NTxs     uint64
	NIn      uint64
	NOut     uint64
	TotalIn  *big.Int
	TotalOut *big.Int
}

// Active reports whether block falls into the watch window.
func (w *Watch) Active(block uint64) bool {
	if block < w.FirstBlock {
		return false
	}
	return w.LastBlock == 0 || block <= w.LastBlock
}

// EndBlock returns the last block of the window, or math.MaxUint64 when open ended.
func (w *Watch) EndBlock() uint64 {
	if w.LastBlock == 0 {
		return math.MaxUint64
	}
	return w.LastBlock
}

// SetBalance stores a copy of balance.
func (w *Watch) SetBalance(balance *big.Int) {
	if balance == nil {
		w.Balance = nil
		return
	}
	w.Balance = new(big.Int).Set(balance)
}

// CurrentBalance returns the running balance or zero when unknown.
func (w *Watch) CurrentBalance() *big.Int {
	if w.Balance == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(w.Balance)
}

// Account folds a record into the watch stats.
func (w *Watch) Account(rec Record) {
	w.Stats.NRecords++
	w.Stats.NTxs += uint64(len(rec.Txs))
	if w.Stats.TotalIn == nil {
		w.Stats.TotalIn = new(big.Int)
	}
	if w.Stats.TotalOut == nil {
		w.Stats.TotalOut = new(big.Int)
	}
	for _, tx := range rec.Txs {
		if tx.To != nil && *tx.To == w.Address || tx.ContractAddress == w.Address {
			w.Stats.NIn++
		}
		if tx.From == w.Address {
			w.Stats.NOut++
		}
	}
	if rec.In != nil {
		w.Stats.TotalIn.Add(w.Stats.TotalIn, rec.In)
	}
	if rec.Out != nil {
		w.Stats.TotalOut.Add(w.Stats.TotalOut, rec.Out)
	}
	w.SetBalance(rec.EndBalance)
}

// Watches is the ordered watch list from configuration.
type Watches []*Watch

// Find returns the watch for addr or nil.
func (ws Watches) Find(addr common.Address) *Watch {
	for _, w := range ws {
		if w.Address == addr {
			return w
		}
	}
	return nil
}

// MinBlock returns the earliest FirstBlock across watches.
func (ws Watches) MinBlock() uint64 {
	if len(ws) == 0 {
		return 0
	}
	lowest := ws[0].FirstBlock
	for _, w := range ws[1:] {
		if w.FirstBlock < lowest {
			lowest = w.FirstBlock
		}
	}
	return lowest
}

// MaxBlock returns the latest EndBlock across watches.
func (ws Watches) MaxBlock() uint64 {
	var highest uint64
	for _, w := range ws {
		if end := w.EndBlock(); end > highest {
			highest = end
		}
	}
	return highest
}

// ActiveAt returns the watches whose window contains block.
func (ws Watches) ActiveAt(block uint64) Watches {
	var active Watches
	for _, w := range ws {
		if w.Active(block) {
			active = append(active, w)
		}
	}
	return active
}
