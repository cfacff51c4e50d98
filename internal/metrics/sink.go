package metrics

import (
	"log"
	"sync"
)

// InvocationRecord is the structured record emitted once per invocation
// attempt, successful or not. Append-only.
type InvocationRecord struct {
	Function        string  `json:"function"`
	Node            string  `json:"node"`
	CPUUsage        float64 `json:"cpu_usage"`
	RAMUsage        float64 `json:"ram_usage"`
	LoadKnown       bool    `json:"load_known"`
	ExecutionMode   string  `json:"execution_mode"`
	DurationSeconds float64 `json:"duration_seconds"`
	Success         bool    `json:"success"`
}

// Sink receives one record per invocation attempt.
type Sink interface {
	Record(r InvocationRecord)
}

// InvocationLog keeps records in memory and mirrors them to the Prometheus
// instruments. It backs the /invocations endpoint.
type InvocationLog struct {
	mu      sync.Mutex
	records []InvocationRecord
}

func NewInvocationLog() *InvocationLog {
	return &InvocationLog{}
}

func (l *InvocationLog) Record(r InvocationRecord) {
	l.mu.Lock()
	l.records = append(l.records, r)
	l.mu.Unlock()

	observeInvocation(r)
	log.Printf("Invocation of '%s' on '%s': mode=%s duration=%.4fs success=%v",
		r.Function, r.Node, r.ExecutionMode, r.DurationSeconds, r.Success)
}

// All returns a copy of the accumulated records.
func (l *InvocationLog) All() []InvocationRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	records := make([]InvocationRecord, len(l.records))
	copy(records, l.records)
	return records
}

// Reset discards the accumulated records.
func (l *InvocationLog) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = nil
}

func (l *InvocationLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}
