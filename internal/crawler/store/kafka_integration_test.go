//go:build integration

package store_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"nsdc/internal/crawler/models"
	"nsdc/internal/crawler/store"
	"nsdc/internal/platform/config"
	"nsdc/internal/platform/kafka"
	"nsdc/pkg/testutil/containers"
)

func TestKafkaPublisher_Redpanda(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	rp := containers.NewRedpandaContainer(t)
	cfg := config.KafkaConfig{Brokers: []string{rp.Broker}, Topic: "nsdc.entities.test"}

	producer, err := kafka.New(ctx, cfg)
	require.NoError(t, err)
	defer producer.Close()

	pub := store.NewKafkaPublisher(producer, cfg.Topic, dataset)
	require.NoError(t, pub.Emit(ctx, organization("ua-nsdc-1-1", "A"), models.EmitOptions{Target: true, Unique: true}))
	require.NoError(t, pub.Flush(ctx))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(rp.Broker),
		kgo.ConsumeTopics(cfg.Topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer consumer.Close()

	fetches := consumer.PollRecords(ctx, 1)
	require.Empty(t, fetches.Errors())
	records := fetches.Records()
	require.Len(t, records, 1)
	require.Equal(t, []byte("ua-nsdc-1-1"), records[0].Key)

	var msg store.EntityMessage
	require.NoError(t, json.Unmarshal(records[0].Value, &msg))
	require.True(t, msg.Unique)
	require.Equal(t, []string{"A"}, msg.Entity.Get(models.PropName))
}

func TestMulti_MemoryAndRedpanda(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	rp := containers.NewRedpandaContainer(t)
	cfg := config.KafkaConfig{Brokers: []string{rp.Broker}, Topic: "nsdc.entities.multi"}

	producer, err := kafka.New(ctx, cfg)
	require.NoError(t, err)
	defer producer.Close()

	m := store.NewMulti(store.NewMemoryStore(), store.NewKafkaPublisher(producer, cfg.Topic, dataset))
	require.NoError(t, m.Emit(ctx, organization("ua-nsdc-1-1", "A"), models.EmitOptions{Target: true}))
	time.Sleep(2 * time.Second)
	require.NoError(t, m.Emit(ctx, organization("ua-nsdc-1-2", "B"), models.EmitOptions{Target: true}))
	require.NoError(t, m.Flush(ctx))

	entities, targets, err := m.CountEntities(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, entities)
	require.Equal(t, 2, targets)
}
