package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"

	"github.com/twmb/franz-go/pkg/kgo"

	"nsdc/internal/crawler/models"
)

// Producer is the subset of *kgo.Client the publisher needs.
type Producer interface {
	Produce(ctx context.Context, r *kgo.Record, promise func(*kgo.Record, error))
	Flush(ctx context.Context) error
}

// EntityMessage is the value of every record the publisher writes.
type EntityMessage struct {
	Dataset string         `json:"dataset"`
	Target  bool           `json:"target"`
	Unique  bool           `json:"unique"`
	Entity  *models.Entity `json:"entity"`
}

// KafkaPublisher streams emitted entities to a topic, keyed by entity ID so
// every version of an entity lands on the same partition.
type KafkaPublisher struct {
	producer Producer
	topic    string
	dataset  string

	mu  sync.Mutex
	err error
}

func NewKafkaPublisher(producer Producer, topic, dataset string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic, dataset: dataset}
}

// Emit produces asynchronously; delivery failures surface on the next Emit
// or on Flush. Cancelling ctx after Emit returns does not fail the record.
func (p *KafkaPublisher) Emit(ctx context.Context, entity *models.Entity, opts models.EmitOptions) error {
	if err := checkEmittable(entity); err != nil {
		return err
	}
	if err := p.firstErr(); err != nil {
		return err
	}
	value, err := json.Marshal(EntityMessage{
		Dataset: p.dataset,
		Target:  opts.Target,
		Unique:  opts.Unique,
		Entity:  entity,
	})
	if err != nil {
		return fmt.Errorf("encode entity %s: %w", entity.ID, err)
	}
	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(entity.ID),
		Value: value,
		Headers: []kgo.RecordHeader{
			{Key: "dataset", Value: []byte(p.dataset)},
			{Key: "schema", Value: []byte(entity.Schema)},
			{Key: "target", Value: []byte(strconv.FormatBool(opts.Target))},
		},
	}
	// A buffered record fails when its context ends; delivery is bounded by
	// Flush instead.
	p.producer.Produce(context.WithoutCancel(ctx), record, func(r *kgo.Record, err error) {
		if err != nil {
			p.setErr(fmt.Errorf("produce %s: %w", r.Key, err))
		}
	})
	return nil
}

// Flush waits for every produced record to be acknowledged.
func (p *KafkaPublisher) Flush(ctx context.Context) error {
	if err := p.producer.Flush(ctx); err != nil {
		return fmt.Errorf("flush producer: %w", err)
	}
	return p.firstErr()
}

func (p *KafkaPublisher) setErr(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err == nil {
		p.err = err
	}
}

func (p *KafkaPublisher) firstErr() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}
