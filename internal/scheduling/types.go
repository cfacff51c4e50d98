package scheduling

import (
	"encoding/json"
	"errors"

	"github.com/TommasoMolesti/faas-scheduler-testbed/internal/metrics"
)

var NoEligibleNodeErr = errors.New("no eligible node available")

// ExecutionMode describes how an invocation ran: in a fresh container, on a
// node with the image already pulled, or inside a standing container.
type ExecutionMode int

const (
	ColdMode ExecutionMode = iota
	PreWarmedMode
	WarmedMode
)

func (m ExecutionMode) String() string {
	switch m {
	case PreWarmedMode:
		return "Pre-warmed"
	case WarmedMode:
		return "Warmed"
	default:
		return "Cold"
	}
}

func (m ExecutionMode) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// Resolution is the uniform result of a scheduling stage: the chosen node,
// the execution mode, and the load snapshot taken for the decision (nil when
// no live probe was involved).
type Resolution struct {
	Node     string
	Mode     ExecutionMode
	Snapshot *metrics.LoadSnapshot
}

// InvocationOutcome is returned to the API layer for a completed invocation.
type InvocationOutcome struct {
	Node            string        `json:"node"`
	Mode            ExecutionMode `json:"execution_mode"`
	DurationSeconds float64       `json:"duration_seconds"`
	Output          string        `json:"output"`
}
