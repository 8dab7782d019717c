// Package ethereum implements EVM node access for account monitoring.
package ethereum

import (
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/goodnatureofminers/acctmon/internal/acct/model"
	"github.com/goodnatureofminers/acctmon/pkg/safe"
)

// ConvertBlock joins a block with its receipts into a model.Block.
func ConvertBlock(src *types.Block, receipts []*types.Receipt, signer types.Signer) (*model.Block, error) {
	txs := src.Transactions()
	if len(receipts) != len(txs) {
		return nil, fmt.Errorf("block %d: %d receipts for %d transactions", src.NumberU64(), len(receipts), len(txs))
	}
	ts, err := safe.Int64(src.Time())
	if err != nil {
		return nil, fmt.Errorf("block %d timestamp overflow: %w", src.NumberU64(), err)
	}

	block := &model.Block{
		Number:       src.NumberU64(),
		Hash:         src.Hash(),
		ParentHash:   src.ParentHash(),
		Miner:        src.Coinbase(),
		GasLimit:     src.GasLimit(),
		GasUsed:      src.GasUsed(),
		Difficulty:   copyBig(src.Difficulty()),
		Price:        copyBig(src.BaseFee()),
		Timestamp:    time.Unix(ts, 0).UTC(),
		Transactions: make([]model.Transaction, 0, len(txs)),
	}

	for i, tx := range txs {
		receipt := receipts[i]
		if receipt == nil {
			return nil, fmt.Errorf("block %d: missing receipt for tx %d", block.Number, i)
		}
		if receipt.TxHash != tx.Hash() {
			return nil, fmt.Errorf("block %d: receipt %s does not match tx %s", block.Number, receipt.TxHash, tx.Hash())
		}
		from, err := types.Sender(signer, tx)
		if err != nil {
			return nil, fmt.Errorf("tx %s sender: %w", tx.Hash(), err)
		}
		index, err := safe.Uint32(i)
		if err != nil {
			return nil, fmt.Errorf("tx index overflow: %w", err)
		}

		price := receipt.EffectiveGasPrice
		if price == nil {
			price = tx.GasPrice()
		}

		block.Transactions = append(block.Transactions, model.Transaction{
			Hash:            tx.Hash(),
			BlockNumber:     block.Number,
			Index:           index,
			From:            from,
			To:              tx.To(),
			ContractAddress: receipt.ContractAddress,
			Value:           copyBig(tx.Value()),
			GasUsed:         receipt.GasUsed,
			GasPrice:        copyBig(price),
			Failed:          receipt.Status == types.ReceiptStatusFailed,
		})
	}

	return block, nil
}

func copyBig(v *big.Int) *big.Int {
	if v == nil {
		return nil
	}
	return new(big.Int).Set(v)
}
