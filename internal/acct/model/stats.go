package model

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// BlockStats describes the block range of a freshen cycle.
type BlockStats struct {
	MinWatchBlock uint64
	MaxWatchBlock uint64
	FirstBlock    uint64
	LastBlock     uint64
	NBlocks       uint64
	PrevBlock     uint64
	PrevTimestamp time.Time
}

// TransStats counts per-run display and freshen activity.
type TransStats struct {
	NDisplayed    uint64
	NFreshened    uint64
	NAccountedFor uint64
}

// Add accumulates other into s.
func (s *TransStats) Add(other TransStats) {
	s.NDisplayed += other.NDisplayed
	s.NFreshened += other.NFreshened
	s.NAccountedFor += other.NAccountedFor
}

// Record is the persisted snapshot of one watch at one block.
type Record struct {
	BlockNumber  uint64
	Timestamp    time.Time
	Address      common.Address
	BeginBalance *big.Int
	EndBalance   *big.Int
	In           *big.Int
	Out          *big.Int
	// Reconciled is set when the replayed balance matched the node balance.
	Reconciled bool
	Txs        []RecordTx
}

// Expected returns BeginBalance + In - Out.
func (r Record) Expected() *big.Int {
	expected := new(big.Int)
	if r.BeginBalance != nil {
		expected.Set(r.BeginBalance)
	}
	if r.In != nil {
		expected.Add(expected, r.In)
	}
	if r.Out != nil {
		expected.Sub(expected, r.Out)
	}
	return expected
}

// RecordTx is a transaction that touched the record's address.
type RecordTx struct {
	Hash            common.Hash
	Index           uint32
	From            common.Address
	To              *common.Address `rlp:"nil"`
	ContractAddress common.Address
	Value           *big.Int
	Fee             *big.Int
	Failed          bool
}

// NewRecordTx projects a transaction into its stored form.
func NewRecordTx(tx Transaction) RecordTx {
	value := tx.Value
	if value == nil {
		value = new(big.Int)
	}
	return RecordTx{
		Hash:            tx.Hash,
		Index:           tx.Index,
		From:            tx.From,
		To:              tx.To,
		ContractAddress: tx.ContractAddress,
		Value:           new(big.Int).Set(value),
		Fee:             tx.Fee(),
		Failed:          tx.Failed,
	}
}
