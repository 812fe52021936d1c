package kafka

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nsdc/internal/platform/config"
)

func TestNew_NotConfigured(t *testing.T) {
	client, err := New(context.Background(), config.KafkaConfig{Topic: "nsdc.entities"})
	require.NoError(t, err)
	assert.Nil(t, client)
}
