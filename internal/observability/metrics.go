package observability

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Metrics provides basic in-memory counters.
type Metrics struct {
	mu              sync.Mutex
	requestCount    map[string]int64
	errorCount      map[string]int64
	transitionCount map[string]int64
	durationSum     time.Duration
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount:    make(map[string]int64),
		errorCount:      make(map[string]int64),
		transitionCount: make(map[string]int64),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := pathKey(path, method, status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
	m.durationSum += duration
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// RecordTransition counts applied candidate lifecycle transitions by action.
func (m *Metrics) RecordTransition(action string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transitionCount[action]++
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	Requests    map[string]int64
	Errors      map[string]int64
	Transitions map[string]int64
	DurationSum time.Duration
}

// Snapshot copies the current counters.
func (m *Metrics) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{
		Requests:    copyCounts(m.requestCount),
		Errors:      copyCounts(m.errorCount),
		Transitions: copyCounts(m.transitionCount),
		DurationSum: m.durationSum,
	}
}

// Handler renders the counters in Prometheus text exposition format.
func (m *Metrics) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		snap := m.Snapshot()
		var b strings.Builder

		b.WriteString("# HELP recruitment_http_requests_total Total number of HTTP requests.\n")
		b.WriteString("# TYPE recruitment_http_requests_total counter\n")
		for _, key := range sortedKeys(snap.Requests) {
			parts := strings.SplitN(key, "|", 3)
			fmt.Fprintf(&b, "recruitment_http_requests_total{path=%q,method=%q,status=%q} %d\n", parts[0], parts[1], parts[2], snap.Requests[key])
		}
		b.WriteString("# HELP recruitment_http_errors_total Total number of failed HTTP requests by error code.\n")
		b.WriteString("# TYPE recruitment_http_errors_total counter\n")
		for _, key := range sortedKeys(snap.Errors) {
			parts := strings.SplitN(key, "|", 3)
			fmt.Fprintf(&b, "recruitment_http_errors_total{path=%q,method=%q,code=%q} %d\n", parts[0], parts[1], parts[2], snap.Errors[key])
		}
		b.WriteString("# HELP recruitment_candidate_transitions_total Applied candidate lifecycle transitions.\n")
		b.WriteString("# TYPE recruitment_candidate_transitions_total counter\n")
		for _, key := range sortedKeys(snap.Transitions) {
			fmt.Fprintf(&b, "recruitment_candidate_transitions_total{action=%q} %d\n", key, snap.Transitions[key])
		}
		b.WriteString("# HELP recruitment_http_request_duration_seconds_sum Total time spent serving requests.\n")
		b.WriteString("# TYPE recruitment_http_request_duration_seconds_sum counter\n")
		fmt.Fprintf(&b, "recruitment_http_request_duration_seconds_sum %f\n", snap.DurationSum.Seconds())

		c.Set(fiber.HeaderContentType, "text/plain; version=0.0.4")
		return c.SendString(b.String())
	}
}

func pathKey(path, method string, status int) string {
	return path + "|" + method + "|" + strconv.Itoa(status)
}

func copyCounts(src map[string]int64) map[string]int64 {
	dst := make(map[string]int64, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func sortedKeys(m map[string]int64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
