// Package health tracks the readiness of the service's dependencies
// (database, Redis, circuit-guarded providers).
package health

import (
	"context"
	"sync"
	"time"

	"github.com/Payphone-Digital/eventhub/pkg/logger"
)

// Status represents health check status
type Status int

const (
	StatusUnknown Status = iota
	StatusHealthy
	StatusUnhealthy
	StatusDegraded
)

func (s Status) String() string {
	switch s {
	case StatusHealthy:
		return "HEALTHY"
	case StatusUnhealthy:
		return "UNHEALTHY"
	case StatusDegraded:
		return "DEGRADED"
	default:
		return "UNKNOWN"
	}
}

// CheckResult represents the result of a health check
type CheckResult struct {
	Name         string                 `json:"name"`
	Status       string                 `json:"status"`
	Critical     bool                   `json:"critical"`
	Latency      time.Duration          `json:"latency"`
	LastCheck    time.Time              `json:"lastCheck"`
	Error        string                 `json:"error,omitempty"`
	Details      map[string]interface{} `json:"details,omitempty"`
	CheckCount   int                    `json:"checkCount"`
	FailureCount int                    `json:"failureCount"`

	status Status
}

// Healthy reports whether the last check passed.
func (r CheckResult) Healthy() bool { return r.status == StatusHealthy }

// Checker probes one dependency.
type Checker interface {
	Name() string
	Critical() bool
	Check(ctx context.Context) CheckResult
}

// PingChecker adapts a ping function. A non-critical failure reports the
// dependency as degraded instead of unhealthy.
type PingChecker struct {
	name     string
	critical bool
	ping     func(ctx context.Context) error
}

func NewPingChecker(name string, critical bool, ping func(ctx context.Context) error) *PingChecker {
	return &PingChecker{name: name, critical: critical, ping: ping}
}

func (c *PingChecker) Name() string   { return c.name }
func (c *PingChecker) Critical() bool { return c.critical }

func (c *PingChecker) Check(ctx context.Context) CheckResult {
	start := time.Now()
	result := CheckResult{Name: c.name, Critical: c.critical, LastCheck: start}

	err := c.ping(ctx)
	result.Latency = time.Since(start)
	switch {
	case err == nil:
		result.status = StatusHealthy
	case c.critical:
		result.status = StatusUnhealthy
		result.Error = err.Error()
	default:
		result.status = StatusDegraded
		result.Error = err.Error()
	}
	result.Status = result.status.String()
	return result
}

// StatsChecker reports a component that is never probed over the network,
// such as a circuit breaker, by exposing its stats. It is healthy unless
// unhealthy returns true.
type StatsChecker struct {
	name      string
	stats     func() map[string]interface{}
	unhealthy func(map[string]interface{}) bool
}

func NewStatsChecker(name string, stats func() map[string]interface{}, unhealthy func(map[string]interface{}) bool) *StatsChecker {
	return &StatsChecker{name: name, stats: stats, unhealthy: unhealthy}
}

func (c *StatsChecker) Name() string   { return c.name }
func (c *StatsChecker) Critical() bool { return false }

func (c *StatsChecker) Check(ctx context.Context) CheckResult {
	details := c.stats()
	result := CheckResult{Name: c.name, LastCheck: time.Now(), Details: details, status: StatusHealthy}
	if c.unhealthy != nil && c.unhealthy(details) {
		result.status = StatusDegraded
	}
	result.Status = result.status.String()
	return result
}

// Monitor runs registered checkers periodically and on demand.
type Monitor struct {
	mu       sync.RWMutex
	checkers []Checker
	results  map[string]*CheckResult
	interval time.Duration
	timeout  time.Duration
	cancel   context.CancelFunc
	done     chan struct{}
	running  bool
}

func NewMonitor(interval time.Duration) *Monitor {
	return &Monitor{
		results:  make(map[string]*CheckResult),
		interval: interval,
		timeout:  5 * time.Second,
	}
}

func (m *Monitor) Register(c Checker) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checkers = append(m.checkers, c)

	logger.Info("Registered health checker").
		String("name", c.Name()).
		Bool("critical", c.Critical()).
		Log()
}

// Start runs checks every interval until ctx is canceled or Stop is called.
func (m *Monitor) Start(ctx context.Context) {
	m.mu.Lock()
	if m.running || m.interval <= 0 {
		m.mu.Unlock()
		return
	}
	ctx, m.cancel = context.WithCancel(ctx)
	m.done = make(chan struct{})
	m.running = true
	m.mu.Unlock()

	go m.runChecks(ctx)
}

// Stop stops the background loop and waits for it to exit.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	m.cancel()
	done := m.done
	m.mu.Unlock()

	<-done
}

func (m *Monitor) runChecks(ctx context.Context) {
	defer close(m.done)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.CheckAll(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.CheckAll(ctx)
		}
	}
}

// CheckAll runs every checker now and returns the fresh results in
// registration order.
func (m *Monitor) CheckAll(ctx context.Context) []CheckResult {
	m.mu.RLock()
	checkers := make([]Checker, len(m.checkers))
	copy(checkers, m.checkers)
	m.mu.RUnlock()

	out := make([]CheckResult, 0, len(checkers))
	for _, checker := range checkers {
		cctx, cancel := context.WithTimeout(ctx, m.timeout)
		result := checker.Check(cctx)
		cancel()

		m.mu.Lock()
		if existing, ok := m.results[result.Name]; ok {
			result.CheckCount = existing.CheckCount + 1
			result.FailureCount = existing.FailureCount
		} else {
			result.CheckCount = 1
		}
		if !result.Healthy() {
			result.FailureCount++
		}
		stored := result
		m.results[result.Name] = &stored
		m.mu.Unlock()

		if !result.Healthy() {
			logger.Warn("Health check failed").
				String("name", result.Name).
				String("status", result.Status).
				Duration(result.Latency).
				String("error", result.Error).
				Log()
		}
		out = append(out, result)
	}
	return out
}

// Ready reports whether every critical check in results passed.
func Ready(results []CheckResult) bool {
	for _, r := range results {
		if r.Critical && !r.Healthy() {
			return false
		}
	}
	return true
}

// Result returns the last stored result for name.
func (m *Monitor) Result(name string) (CheckResult, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result, ok := m.results[name]
	if !ok {
		return CheckResult{}, false
	}
	return *result, true
}
