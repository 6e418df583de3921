package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/Payphone-Digital/eventhub/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryPublisher_RecordsEnvelope(t *testing.T) {
	pub := &MemoryPublisher{}

	err := pub.PublishEvent(context.Background(), "registration.created", "evt-1", map[string]string{"userId": "u-1"})
	require.NoError(t, err)

	got := pub.Events()
	require.Len(t, got, 1)
	assert.Equal(t, "registration.created", got[0].Type)
	assert.Equal(t, "evt-1", got[0].Key)
	assert.False(t, got[0].OccurredAt.IsZero())

	var data map[string]string
	require.NoError(t, json.Unmarshal(got[0].Data, &data))
	assert.Equal(t, "u-1", data["userId"])
	assert.Equal(t, []string{"registration.created"}, pub.Types())
}

func TestMemoryPublisher_RejectsUnencodablePayload(t *testing.T) {
	pub := &MemoryPublisher{}
	err := pub.PublishEvent(context.Background(), "x", "k", make(chan int))
	assert.Error(t, err)
	assert.Empty(t, pub.Events())
}

func TestNew_SelectsImplementation(t *testing.T) {
	assert.IsType(t, NopPublisher{}, New(config.KafkaConfig{Enabled: false}))

	pub := New(config.KafkaConfig{Enabled: true, Brokers: []string{"localhost:9092"}, Topic: "t"})
	require.IsType(t, &KafkaPublisher{}, pub)
	assert.NoError(t, pub.Close())
}
