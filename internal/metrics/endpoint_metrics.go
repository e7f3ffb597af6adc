// Package metrics provides structures and functions for collecting and managing endpoint health and performance metrics.
// file: internal/metrics/endpoint_metrics.go.
package metrics

import (
	"runtime"
	"sync"
	"time"
)

// EndpointMetrics holds various metrics about the endpoint's health and performance.
type EndpointMetrics struct {
	// Endpoint uptime and basic info.
	StartTime     time.Time     `json:"startTime"`
	Uptime        time.Duration `json:"uptime"`
	GoVersion     string        `json:"goVersion"`
	NumGoroutines int           `json:"numGoroutines"`

	// Memory stats.
	MemoryAllocated   uint64 `json:"memoryAllocated"`   // Currently allocated memory in bytes.
	MemoryTotalAlloc  uint64 `json:"memoryTotalAlloc"`  // Total allocated memory since start.
	MemorySystemTotal uint64 `json:"memorySystemTotal"` // Total memory obtained from system.
	MemoryGCCount     uint32 `json:"memoryGCCount"`     // Number of completed GC cycles.

	// Message stats (spec.md §4.C/§4.F activity).
	MessagesSent       int `json:"messagesSent"`
	MessagesReceived   int `json:"messagesReceived"`
	RequestsDispatched int `json:"requestsDispatched"`
	PendingRequests    int `json:"pendingRequests"` // Current size of the pending-request table.

	// Method stats.
	MethodCounts    map[string]int `json:"methodCounts"`
	MethodLatencies map[string]int `json:"methodLatencies"` // Method to average ms.

	// Last errors.
	LastErrors []ErrorInfo `json:"lastErrors,omitempty"`
}

// ErrorInfo contains details about an error that occurred.
type ErrorInfo struct {
	Timestamp time.Time `json:"timestamp"`
	Component string    `json:"component"`
	Message   string    `json:"message"`
	Stack     string    `json:"stack,omitempty"`
}

// Collector manages endpoint metrics collection and reporting, and
// implements rpc.Metrics so an Endpoint can record activity directly
// (SPEC_FULL.md Domain Stack: metrics).
type Collector struct {
	metrics     EndpointMetrics
	startTime   time.Time
	errorBuffer []ErrorInfo
	bufferSize  int
	mu          sync.RWMutex
}

// NewMetricsCollector creates a new metrics collector instance.
func NewMetricsCollector(errorBufferSize int) *Collector {
	startTime := time.Now()

	return &Collector{
		metrics: EndpointMetrics{
			StartTime:       startTime,
			GoVersion:       runtime.Version(),
			MethodCounts:    make(map[string]int),
			MethodLatencies: make(map[string]int),
		},
		startTime:   startTime,
		errorBuffer: make([]ErrorInfo, 0, errorBufferSize),
		bufferSize:  errorBufferSize,
	}
}

// GetCurrentMetrics returns a copy of the current endpoint metrics.
func (c *Collector) GetCurrentMetrics() EndpointMetrics {
	c.mu.RLock()
	defer c.mu.RUnlock()

	c.metrics.Uptime = time.Since(c.startTime)
	c.metrics.NumGoroutines = runtime.NumGoroutine()

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	c.metrics.MemoryAllocated = memStats.Alloc
	c.metrics.MemoryTotalAlloc = memStats.TotalAlloc
	c.metrics.MemorySystemTotal = memStats.Sys
	c.metrics.MemoryGCCount = memStats.NumGC

	metricsCopy := c.metrics

	if len(c.errorBuffer) > 0 {
		metricsCopy.LastErrors = make([]ErrorInfo, len(c.errorBuffer))
		copy(metricsCopy.LastErrors, c.errorBuffer)
	}

	return metricsCopy
}

// RecordSent implements rpc.Metrics: counts an outgoing request or
// notification.
func (c *Collector) RecordSent(method string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.metrics.MessagesSent++
	c.metrics.MethodCounts[method]++
}

// RecordReceived implements rpc.Metrics: counts an incoming frame that
// parsed as a Request.
func (c *Collector) RecordReceived(method string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.metrics.MessagesReceived++
}

// RecordDispatched implements rpc.Metrics: counts a request handed off to
// a RequestHandler goroutine.
func (c *Collector) RecordDispatched(method string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.metrics.RequestsDispatched++
	c.metrics.MethodCounts[method]++
}

// SetPending implements rpc.Metrics: reports the current size of the
// pending-request table.
func (c *Collector) SetPending(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.metrics.PendingRequests = n
}

// RecordMethodLatency records a moving average latency for method, in the
// style of the request-latency tracking this type is grounded on.
func (c *Collector) RecordMethodLatency(method string, latencyMs int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.metrics.MethodLatencies[method]; ok {
		c.metrics.MethodLatencies[method] = (existing + latencyMs) / 2
	} else {
		c.metrics.MethodLatencies[method] = latencyMs
	}
}

// RecordError adds an error to the error buffer.
func (c *Collector) RecordError(component, message, stack string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	errorInfo := ErrorInfo{
		Timestamp: time.Now(),
		Component: component,
		Message:   message,
		Stack:     stack,
	}

	if len(c.errorBuffer) >= c.bufferSize {
		c.errorBuffer = c.errorBuffer[1:]
	}

	c.errorBuffer = append(c.errorBuffer, errorInfo)
}
