package model

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Block represents a fetched block with its transactions.
type Block struct {
	Number       uint64
	Hash         common.Hash
	ParentHash   common.Hash
	Miner        common.Address
	GasLimit     uint64
	GasUsed      uint64
	Difficulty   *big.Int
	Price        *big.Int
	Timestamp    time.Time
	Transactions []Transaction
}

// Transaction represents a transaction joined with its receipt outcome.
type Transaction struct {
	Hash        common.Hash
	BlockNumber uint64
	Index       uint32
	From        common.Address
	// To is nil for contract creation.
	To              *common.Address
	ContractAddress common.Address
	Value           *big.Int
	GasUsed         uint64
	GasPrice        *big.Int
	Failed          bool
}

// Fee returns the gas cost paid by the sender.
func (t Transaction) Fee() *big.Int {
	if t.GasPrice == nil {
		return new(big.Int)
	}
	return new(big.Int).Mul(new(big.Int).SetUint64(t.GasUsed), t.GasPrice)
}

// Touches reports whether the transaction can change the balance of addr.
func (t Transaction) Touches(addr common.Address) bool {
	if t.From == addr {
		return true
	}
	if t.To != nil && *t.To == addr {
		return true
	}
	return t.To == nil && t.ContractAddress == addr
}

// Delta returns the amounts addr receives and pays in this transaction.
// A failed transaction moves no value but still charges the fee.
func (t Transaction) Delta(addr common.Address) (in, out *big.Int) {
	in, out = new(big.Int), new(big.Int)
	value := t.Value
	if value == nil {
		value = new(big.Int)
	}
	received := t.To != nil && *t.To == addr || t.To == nil && t.ContractAddress == addr
	if received && !t.Failed {
		in.Add(in, value)
	}
	if t.From == addr {
		out.Add(out, t.Fee())
		if !t.Failed {
			out.Add(out, value)
		}
	}
	return in, out
}

// TouchingTransactions returns the transactions of b that touch addr, in block order.
func (b *Block) TouchingTransactions(addr common.Address) []Transaction {
	var txs []Transaction
	for _, tx := range b.Transactions {
		if tx.Touches(addr) {
			txs = append(txs, tx)
		}
	}
	return txs
}

// Touches reports whether addr mined b or appears in any of its transactions.
func (b *Block) Touches(addr common.Address) bool {
	if b.Miner == addr {
		return true
	}
	for _, tx := range b.Transactions {
		if tx.Touches(addr) {
			return true
		}
	}
	return false
}
