// Package publisher forwards account snapshots to Kafka.
package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/goodnatureofminers/acctmon/internal/acct/model"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const messageType = "account_snapshot"

// MessageWriter is the subset of *kafka.Writer the publisher uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaConfig configures the topic writer.
type KafkaConfig struct {
	Brokers      []string
	Topic        string
	BatchSize    int
	BatchTimeout time.Duration
}

// KafkaPublisher publishes one JSON message per snapshot, keyed by address so
// snapshots of one account stay ordered within a partition.
type KafkaPublisher struct {
	logger *zap.Logger
	topic  string
	writer MessageWriter
	now    func() time.Time
}

// NewKafkaWriter builds a synchronous hash-balanced writer for cfg.
func NewKafkaWriter(cfg KafkaConfig) (*kafka.Writer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka brokers are required")
	}
	if cfg.Topic == "" {
		return nil, errors.New("kafka topic is required")
	}
	batchTimeout := cfg.BatchTimeout
	if batchTimeout <= 0 {
		batchTimeout = 10 * time.Millisecond
	}
	return &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		RequiredAcks:           kafka.RequireAll,
		BatchSize:              cfg.BatchSize,
		BatchTimeout:           batchTimeout,
	}, nil
}

// NewKafkaPublisher wraps writer.
func NewKafkaPublisher(logger *zap.Logger, topic string, writer MessageWriter) (*KafkaPublisher, error) {
	if writer == nil {
		return nil, errors.New("kafka writer is required")
	}
	return &KafkaPublisher{
		logger: logger.With(zap.String("topic", topic)),
		topic:  topic,
		writer: writer,
		now:    time.Now,
	}, nil
}

func (p *KafkaPublisher) Name() string {
	return "kafka"
}

// WriteSnapshot publishes rec.
func (p *KafkaPublisher) WriteSnapshot(ctx context.Context, rec model.Record) error {
	payload, err := json.Marshal(envelope{
		Type: messageType,
		Data: newSnapshotMessage(rec),
		Time: p.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal snapshot %d: %w", rec.BlockNumber, err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strings.ToLower(rec.Address.Hex())),
		Value: payload,
	})
	if err != nil {
		return fmt.Errorf("publish snapshot %d to %s: %w", rec.BlockNumber, p.topic, err)
	}

	p.logger.Debug("published snapshot",
		zap.String("address", rec.Address.Hex()),
		zap.Uint64("block", rec.BlockNumber))
	return nil
}

// Close flushes and closes the writer.
func (p *KafkaPublisher) Close() error {
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("close kafka writer: %w", err)
	}
	return nil
}

type envelope struct {
	Type string          `json:"type"`
	Data snapshotMessage `json:"data"`
	Time time.Time       `json:"time"`
}

// Amounts are decimal wei strings.
type snapshotMessage struct {
	Address      string      `json:"address"`
	BlockNumber  uint64      `json:"block_number"`
	Timestamp    time.Time   `json:"timestamp"`
	BeginBalance string      `json:"begin_balance"`
	EndBalance   string      `json:"end_balance"`
	In           string      `json:"in"`
	Out          string      `json:"out"`
	Reconciled   bool        `json:"reconciled"`
	Txs          []txMessage `json:"txs"`
}

type txMessage struct {
	Hash   string `json:"hash"`
	Index  uint32 `json:"index"`
	From   string `json:"from"`
	To     string `json:"to,omitempty"`
	Value  string `json:"value"`
	Fee    string `json:"fee"`
	Failed bool   `json:"failed"`
}

func newSnapshotMessage(rec model.Record) snapshotMessage {
	msg := snapshotMessage{
		Address:      strings.ToLower(rec.Address.Hex()),
		BlockNumber:  rec.BlockNumber,
		Timestamp:    rec.Timestamp.UTC(),
		BeginBalance: weiString(rec.BeginBalance),
		EndBalance:   weiString(rec.EndBalance),
		In:           weiString(rec.In),
		Out:          weiString(rec.Out),
		Reconciled:   rec.Reconciled,
		Txs:          make([]txMessage, 0, len(rec.Txs)),
	}
	for _, tx := range rec.Txs {
		m := txMessage{
			Hash:   tx.Hash.Hex(),
			Index:  tx.Index,
			From:   strings.ToLower(tx.From.Hex()),
			Value:  weiString(tx.Value),
			Fee:    weiString(tx.Fee),
			Failed: tx.Failed,
		}
		switch {
		case tx.To != nil:
			m.To = strings.ToLower(tx.To.Hex())
		default:
			m.To = strings.ToLower(tx.ContractAddress.Hex())
		}
		msg.Txs = append(msg.Txs, m)
	}
	return msg
}

func weiString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}
