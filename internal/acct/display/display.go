// Package display renders cached account records for the terminal.
package display

import (
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/goodnatureofminers/acctmon/internal/acct/model"
	"github.com/shopspring/decimal"
)

// DefaultFormat is the per-transaction line used when no screen format is configured.
const DefaultFormat = `{ "date": "[{DATE}]", "from": "[{FROM}]", "to": "[{TO}]", "value": "[{VALUE}]" }`

const (
	etherDecimals = 18
	dateLayout    = "2006-01-02 15:04:05 UTC"
	colorOff      = "\x1b[0m"
)

var colors = map[string]string{
	"black":   "\x1b[30m",
	"red":     "\x1b[31m",
	"green":   "\x1b[32m",
	"yellow":  "\x1b[33m",
	"blue":    "\x1b[34m",
	"magenta": "\x1b[35m",
	"cyan":    "\x1b[36m",
	"white":   "\x1b[37m",
}

// Printer writes one line per transaction of a record using a token format.
type Printer struct {
	out        io.Writer
	format     string
	accounting bool
	colored    bool
}

// NewPrinter returns a Printer. format falls back to DefaultFormat when empty;
// accounting adds a balance line after every record.
func NewPrinter(out io.Writer, format string, accounting bool) *Printer {
	if strings.TrimSpace(format) == "" {
		format = DefaultFormat
	}
	return &Printer{
		out:        out,
		format:     CleanFormat(format),
		accounting: accounting,
	}
}

// WithColor enables ANSI colors for watch names.
func (p *Printer) WithColor(on bool) *Printer {
	p.colored = on
	return p
}

// CleanFormat turns escaped \n, \t and \r sequences into the characters and
// makes sure the format ends with a newline.
func CleanFormat(format string) string {
	format = strings.NewReplacer(`\n`, "\n", `\t`, "\t", `\r`, "\r").Replace(format)
	if !strings.HasSuffix(format, "\n") {
		format += "\n"
	}
	return format
}

// PrintRecord renders rec for w. A record without transactions (a mined
// block) renders once with empty transaction fields.
func (p *Printer) PrintRecord(w *model.Watch, rec model.Record) error {
	txs := rec.Txs
	if len(txs) == 0 {
		txs = []model.RecordTx{{}}
	}
	for _, tx := range txs {
		if _, err := io.WriteString(p.out, p.render(w, rec, tx)); err != nil {
			return fmt.Errorf("print record %d: %w", rec.BlockNumber, err)
		}
	}
	if p.accounting {
		if _, err := io.WriteString(p.out, p.accountingLine(w, rec)); err != nil {
			return fmt.Errorf("print accounting %d: %w", rec.BlockNumber, err)
		}
	}
	return nil
}

func (p *Printer) render(w *model.Watch, rec model.Record, tx model.RecordTx) string {
	var to, hash, index, value, fee, failed, from string
	if tx.Hash != (common.Hash{}) {
		hash = tx.Hash.Hex()
		index = strconv.FormatUint(uint64(tx.Index), 10)
		from = tx.From.Hex()
		switch {
		case tx.To != nil:
			to = tx.To.Hex()
		default:
			to = tx.ContractAddress.Hex()
		}
		value = Ether(tx.Value)
		fee = Ether(tx.Fee)
		failed = strconv.FormatBool(tx.Failed)
	}

	fields := map[string]string{
		"DATE":             formatDate(rec.Timestamp),
		"FROM":             from,
		"TO":               to,
		"VALUE":            value,
		"HASH":             hash,
		"BLOCKNUMBER":      strconv.FormatUint(rec.BlockNumber, 10),
		"TRANSACTIONINDEX": index,
		"GASCOST":          fee,
		"ISERROR":          failed,
		"NAME":             p.name(w),
		"BALANCE":          Ether(rec.EndBalance),
	}
	pairs := make([]string, 0, len(fields)*4)
	for token, v := range fields {
		pairs = append(pairs, "[{"+token+"}]", v, "{"+token+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(p.format)
}

func (p *Printer) accountingLine(w *model.Watch, rec model.Record) string {
	status := "ok"
	if !rec.Reconciled {
		status = "mismatch"
	}
	return fmt.Sprintf("\t%s %d: begin %s + in %s - out %s = %s (node %s) %s\n",
		p.name(w),
		rec.BlockNumber,
		Ether(rec.BeginBalance),
		Ether(rec.In),
		Ether(rec.Out),
		Ether(rec.Expected()),
		Ether(rec.EndBalance),
		status,
	)
}

func (p *Printer) name(w *model.Watch) string {
	if w == nil {
		return ""
	}
	name := w.Name
	if name == "" {
		name = w.Address.Hex()
	}
	if code, ok := colors[strings.ToLower(w.Color)]; ok && p.colored {
		return code + name + colorOff
	}
	return name
}

// Ether formats a wei amount in ether without trailing zeros.
func Ether(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	return decimal.NewFromBigInt(wei, -etherDecimals).String()
}

func formatDate(ts time.Time) string {
	if ts.IsZero() {
		return ""
	}
	return ts.UTC().Format(dateLayout)
}
