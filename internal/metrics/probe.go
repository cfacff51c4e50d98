package metrics

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/TommasoMolesti/faas-scheduler-testbed/internal/executor"
	"github.com/TommasoMolesti/faas-scheduler-testbed/internal/node"
)

// LoadSnapshot is the load observed on a node at selection time. Unknown is
// set when the probe failed or the node reported an incomplete payload; an
// unknown snapshot is treated as maximally loaded, so the node is never
// preferred and never passes a RAM threshold check.
type LoadSnapshot struct {
	CPUUsage float64 `json:"cpu_usage"`
	RAMUsage float64 `json:"ram_usage"`
	Unknown  bool    `json:"unknown,omitempty"`
}

// Score is the load score used to rank nodes: the mean of CPU and RAM usage.
func (s LoadSnapshot) Score() float64 {
	return (s.CPUUsage + s.RAMUsage) / 2
}

// OverThreshold reports whether the node must be excluded for the given RAM
// threshold. Unknown snapshots always exceed it.
func (s LoadSnapshot) OverThreshold(threshold float64) bool {
	return s.Unknown || s.RAMUsage >= threshold
}

// UnknownSnapshot is the placeholder recorded when no live probe was taken.
func UnknownSnapshot() LoadSnapshot {
	return LoadSnapshot{Unknown: true}
}

func parseLoadSnapshot(payload string) LoadSnapshot {
	var raw struct {
		CPUUsage *float64 `json:"cpu_usage"`
		RAMUsage *float64 `json:"ram_usage"`
	}
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return UnknownSnapshot()
	}
	if raw.CPUUsage == nil || raw.RAMUsage == nil {
		return UnknownSnapshot()
	}
	return LoadSnapshot{CPUUsage: *raw.CPUUsage, RAMUsage: *raw.RAMUsage}
}

// Probe collects load metrics from worker nodes by running the configured
// metrics command through the remote executor.
type Probe struct {
	exec    executor.Executor
	command string
}

func NewProbe(exec executor.Executor, command string) *Probe {
	return &Probe{exec: exec, command: command}
}

// Node probes a single node. A reachable node with an incomplete payload
// yields an unknown snapshot rather than an error.
func (p *Probe) Node(ctx context.Context, n *node.Node) (LoadSnapshot, error) {
	out, err := p.exec.RunCommand(ctx, n, p.command)
	if err != nil {
		return UnknownSnapshot(), err
	}
	return parseLoadSnapshot(out), nil
}

// All probes every given node in parallel and returns the snapshots of the
// reachable ones. Unreachable nodes are logged and left out; a partial result
// is not an error.
func (p *Probe) All(ctx context.Context, nodes map[string]*node.Node) map[string]LoadSnapshot {
	var mu sync.Mutex
	var wg sync.WaitGroup
	snapshots := make(map[string]LoadSnapshot)

	for name, n := range nodes {
		wg.Add(1)
		go func(name string, n *node.Node) {
			defer wg.Done()
			snap, err := p.Node(ctx, n)
			if err != nil {
				log.Printf("Unable to retrieve metrics for '%s': %v. Ignored.", name, err)
				return
			}
			mu.Lock()
			snapshots[name] = snap
			mu.Unlock()
		}(name, n)
	}
	wg.Wait()

	return snapshots
}
