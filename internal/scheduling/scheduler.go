package scheduling

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/TommasoMolesti/faas-scheduler-testbed/internal/container"
	"github.com/TommasoMolesti/faas-scheduler-testbed/internal/executor"
	"github.com/TommasoMolesti/faas-scheduler-testbed/internal/function"
	"github.com/TommasoMolesti/faas-scheduler-testbed/internal/metrics"
	"github.com/TommasoMolesti/faas-scheduler-testbed/internal/node"
)

// Scheduler drives the whole invocation workflow: admission, node/mode
// resolution, remote execution, warm-state consumption and metrics emission.
type Scheduler struct {
	functions *function.Registry
	nodes     *node.Registry
	states    *node.WarmStateStore
	chain     *Chain
	gate      *AdmissionGate
	exec      executor.Executor
	probe     *metrics.Probe
	sink      metrics.Sink
	prefix    string
}

func NewScheduler(functions *function.Registry, nodes *node.Registry, states *node.WarmStateStore,
	chain *Chain, gate *AdmissionGate, exec executor.Executor, probe *metrics.Probe,
	sink metrics.Sink, prefix string) *Scheduler {
	return &Scheduler{
		functions: functions,
		nodes:     nodes,
		states:    states,
		chain:     chain,
		gate:      gate,
		exec:      exec,
		probe:     probe,
		sink:      sink,
		prefix:    prefix,
	}
}

// Invoke runs one at-most-one-attempt invocation of a function. The duration
// in the outcome and in the emitted record is measured from entry, so time
// spent waiting at the admission gate is attributed to the invocation.
func (s *Scheduler) Invoke(ctx context.Context, functionName string) (*InvocationOutcome, error) {
	fun, ok := s.functions.Get(functionName)
	if !ok {
		return nil, function.FunctionNotFoundErr
	}

	start := time.Now()

	if err := s.gate.Enter(ctx); err != nil {
		return nil, err
	}
	defer s.gate.Leave()

	res, ok := s.chain.Resolve(ctx, functionName)
	if !ok {
		return nil, NoEligibleNodeErr
	}
	n, ok := s.nodes.Get(res.Node)
	if !ok {
		// warm state referenced a node that is no longer registered
		return nil, NoEligibleNodeErr
	}
	log.Printf("Scheduled '%s' on node '%s' (%s)", functionName, res.Node, res.Mode)

	var command string
	if res.Mode == WarmedMode {
		standing := container.StandingName(s.prefix, fun.Name, n.Name)
		command = container.ExecCommand(standing, fun.Command)
	} else {
		name := container.ColdRunName(s.prefix, fun.Name)
		command = container.RunCommand(name, fun.Image, fun.Command)
	}

	output, execErr := s.exec.RunCommand(ctx, n, command)
	duration := time.Since(start).Seconds()

	// one-shot consumption: a pre-warmed entry does not survive the
	// invocation that used it
	if res.Mode == PreWarmedMode && execErr == nil {
		s.states.ConsumePreWarmed(fun.Name, n.Name)
	}

	s.emitRecord(ctx, fun.Name, n, res, duration, execErr == nil)

	if execErr != nil {
		return nil, fmt.Errorf("invocation of '%s' on '%s' failed: %w", fun.Name, n.Name, execErr)
	}
	return &InvocationOutcome{
		Node:            n.Name,
		Mode:            res.Mode,
		DurationSeconds: duration,
		Output:          output,
	}, nil
}

// emitRecord assembles and emits the invocation record. The scheduling
// snapshot is reused when a live probe produced it; otherwise a best-effort
// probe of the chosen node fills the load fields. The record is emitted in
// any case.
func (s *Scheduler) emitRecord(ctx context.Context, functionName string, n *node.Node, res Resolution, duration float64, success bool) {
	snap := res.Snapshot
	if snap == nil || snap.Unknown {
		if probed, err := s.probe.Node(ctx, n); err == nil {
			snap = &probed
		} else {
			log.Printf("Post-invocation probe of '%s' failed: %v", n.Name, err)
			placeholder := metrics.UnknownSnapshot()
			snap = &placeholder
		}
	}

	s.sink.Record(metrics.InvocationRecord{
		Function:        functionName,
		Node:            n.Name,
		CPUUsage:        snap.CPUUsage,
		RAMUsage:        snap.RAMUsage,
		LoadKnown:       !snap.Unknown,
		ExecutionMode:   res.Mode.String(),
		DurationSeconds: duration,
		Success:         success,
	})
}
