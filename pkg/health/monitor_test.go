package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonitor_CheckAll(t *testing.T) {
	m := NewMonitor(0)
	m.Register(NewPingChecker("database", true, func(context.Context) error { return nil }))
	m.Register(NewPingChecker("redis", false, func(context.Context) error { return errors.New("dial tcp: refused") }))

	results := m.CheckAll(context.Background())
	require.Len(t, results, 2)

	assert.Equal(t, "database", results[0].Name)
	assert.Equal(t, "HEALTHY", results[0].Status)
	assert.Equal(t, "DEGRADED", results[1].Status)
	assert.Equal(t, "dial tcp: refused", results[1].Error)
	assert.True(t, Ready(results), "a degraded optional dependency keeps the service ready")

	m.CheckAll(context.Background())
	redis, ok := m.Result("redis")
	require.True(t, ok)
	assert.Equal(t, 2, redis.CheckCount)
	assert.Equal(t, 2, redis.FailureCount)
}

func TestMonitor_CriticalFailureNotReady(t *testing.T) {
	m := NewMonitor(0)
	m.Register(NewPingChecker("database", true, func(context.Context) error { return errors.New("connection reset") }))

	results := m.CheckAll(context.Background())
	assert.Equal(t, "UNHEALTHY", results[0].Status)
	assert.False(t, Ready(results))
}

func TestStatsChecker(t *testing.T) {
	state := "OPEN"
	c := NewStatsChecker("payment-provider",
		func() map[string]interface{} { return map[string]interface{}{"state": state} },
		func(s map[string]interface{}) bool { return s["state"] == "OPEN" })

	r := c.Check(context.Background())
	assert.Equal(t, "DEGRADED", r.Status)
	assert.Equal(t, "OPEN", r.Details["state"])

	state = "CLOSED"
	assert.True(t, c.Check(context.Background()).Healthy())
}

func TestMonitor_StartStop(t *testing.T) {
	calls := make(chan struct{}, 10)
	m := NewMonitor(10 * time.Millisecond)
	m.Register(NewPingChecker("database", true, func(context.Context) error {
		select {
		case calls <- struct{}{}:
		default:
		}
		return nil
	}))

	m.Start(context.Background())
	select {
	case <-calls:
	case <-time.After(time.Second):
		t.Fatal("monitor never ran a check")
	}
	m.Stop()
	m.Stop()
}
