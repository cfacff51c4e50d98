package scheduling

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/TommasoMolesti/faas-scheduler-testbed/internal/container"
	"github.com/TommasoMolesti/faas-scheduler-testbed/internal/executor"
	"github.com/TommasoMolesti/faas-scheduler-testbed/internal/function"
	"github.com/TommasoMolesti/faas-scheduler-testbed/internal/metrics"
	"github.com/TommasoMolesti/faas-scheduler-testbed/internal/node"
	"github.com/TommasoMolesti/faas-scheduler-testbed/utils"
)

const testMetricsCommand = "get-metrics"

type captureSink struct {
	mu      sync.Mutex
	records []metrics.InvocationRecord
}

func (s *captureSink) Record(r metrics.InvocationRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, r)
}

func (s *captureSink) last(t *testing.T) metrics.InvocationRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.records) == 0 {
		t.Fatalf("no invocation record emitted")
	}
	return s.records[len(s.records)-1]
}

// testbed wires a scheduler against a scripted executor. The executor answers
// the metrics command with fixed load figures and records every docker
// command it receives, per node.
type testbed struct {
	functions *function.Registry
	nodes     *node.Registry
	states    *node.WarmStateStore
	scheduler *Scheduler
	sink      *captureSink

	mu       sync.Mutex
	commands []string
	runNodes []string
	fail     bool
}

func newTestbed(t *testing.T) *testbed {
	tb := &testbed{
		functions: function.NewRegistry(),
		nodes:     node.NewRegistry(),
		states:    node.NewWarmStateStore(),
		sink:      &captureSink{},
	}

	exec := executor.Func(func(ctx context.Context, n *node.Node, command string) (string, error) {
		if command == testMetricsCommand {
			return `{"cpu_usage": 10, "ram_usage": 20}`, nil
		}
		tb.mu.Lock()
		tb.commands = append(tb.commands, command)
		tb.runNodes = append(tb.runNodes, n.Name)
		fail := tb.fail
		tb.mu.Unlock()
		if fail {
			return "", errors.New("exit status 1")
		}
		return "done", nil
	})

	probe := metrics.NewProbe(exec, testMetricsCommand)
	policy := NewRoundRobinPolicy(nil, 90)
	chain := NewChain(tb.states, tb.nodes, policy)
	gate := NewAdmissionGate(5)
	tb.scheduler = NewScheduler(tb.functions, tb.nodes, tb.states, chain, gate, exec, probe,
		tb.sink, container.DefaultPrefix)

	utils.AssertNil(t, tb.nodes.Add(&node.Node{Name: "n1"}))
	utils.AssertNil(t, tb.nodes.Add(&node.Node{Name: "n2"}))
	utils.AssertNil(t, tb.functions.Add(&function.Function{Name: "f", Image: "img", Command: "cmd"}))
	return tb
}

func (tb *testbed) lastCommand(t *testing.T) string {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	if len(tb.commands) == 0 {
		t.Fatalf("no remote command executed")
	}
	return tb.commands[len(tb.commands)-1]
}

func TestInvokeUnknownFunction(t *testing.T) {
	tb := newTestbed(t)

	_, err := tb.scheduler.Invoke(context.Background(), "missing")
	utils.AssertTrue(t, errors.Is(err, function.FunctionNotFoundErr))
}

func TestColdInvocationsRoundRobinOverNodes(t *testing.T) {
	tb := newTestbed(t)

	var visited []string
	for i := 0; i < 3; i++ {
		outcome, err := tb.scheduler.Invoke(context.Background(), "f")
		utils.AssertNil(t, err)
		utils.AssertEquals(t, ColdMode, outcome.Mode)
		utils.AssertEquals(t, "done", outcome.Output)
		visited = append(visited, outcome.Node)
	}
	utils.AssertSliceEquals(t, []string{"n1", "n2", "n1"}, visited)

	// cold runs use fresh, auto-removed, uniquely named containers
	utils.AssertTrue(t, strings.HasPrefix(tb.lastCommand(t), "docker run --rm --name faas-scheduler--f--"))
	utils.AssertTrue(t, strings.HasSuffix(tb.lastCommand(t), "img cmd"))

	record := tb.sink.last(t)
	utils.AssertEquals(t, "Cold", record.ExecutionMode)
	utils.AssertTrue(t, record.Success)
	// the post-invocation probe filled in the load figures
	utils.AssertTrue(t, record.LoadKnown)
	utils.AssertEquals(t, 20.0, record.RAMUsage)
}

func TestPreWarmedInvocationConsumesState(t *testing.T) {
	tb := newTestbed(t)
	tb.states.Set("f", "n2", node.StatePreWarmed)

	outcome, err := tb.scheduler.Invoke(context.Background(), "f")
	utils.AssertNil(t, err)
	utils.AssertEquals(t, "n2", outcome.Node)
	utils.AssertEquals(t, PreWarmedMode, outcome.Mode)
	utils.AssertTrue(t, strings.HasPrefix(tb.lastCommand(t), "docker run --rm --name "))

	// one-shot consumption: the second invocation runs cold
	utils.AssertEquals(t, node.StateCold, tb.states.Get("f", "n2"))
	outcome, err = tb.scheduler.Invoke(context.Background(), "f")
	utils.AssertNil(t, err)
	utils.AssertEquals(t, ColdMode, outcome.Mode)
}

func TestWarmedInvocationExecsIntoStandingContainer(t *testing.T) {
	tb := newTestbed(t)
	tb.states.Set("f", "n1", node.StateWarmed)

	outcome, err := tb.scheduler.Invoke(context.Background(), "f")
	utils.AssertNil(t, err)
	utils.AssertEquals(t, "n1", outcome.Node)
	utils.AssertEquals(t, WarmedMode, outcome.Mode)
	utils.AssertEquals(t, "docker exec faas-scheduler--f--n1 cmd", tb.lastCommand(t))

	// warmed executions never revert the state
	utils.AssertEquals(t, node.StateWarmed, tb.states.Get("f", "n1"))
	utils.AssertEquals(t, "Warmed", tb.sink.last(t).ExecutionMode)
}

func TestWarmedBeatsPreWarmedAcrossNodes(t *testing.T) {
	tb := newTestbed(t)
	tb.states.Set("f", "n1", node.StateWarmed)
	tb.states.Set("f", "n2", node.StatePreWarmed)

	outcome, err := tb.scheduler.Invoke(context.Background(), "f")
	utils.AssertNil(t, err)
	utils.AssertEquals(t, "n1", outcome.Node)
	utils.AssertEquals(t, WarmedMode, outcome.Mode)
	utils.AssertEquals(t, node.StatePreWarmed, tb.states.Get("f", "n2"))
}

func TestInvokeWithoutNodes(t *testing.T) {
	functions := function.NewRegistry()
	utils.AssertNil(t, functions.Add(&function.Function{Name: "f", Image: "img", Command: "cmd"}))
	nodes := node.NewRegistry()
	states := node.NewWarmStateStore()

	exec := executor.Func(func(ctx context.Context, n *node.Node, command string) (string, error) {
		return "", errors.New("unreachable")
	})
	chain := NewChain(states, nodes, NewRoundRobinPolicy(nil, 90))
	scheduler := NewScheduler(functions, nodes, states, chain, NewAdmissionGate(5), exec,
		metrics.NewProbe(exec, testMetricsCommand), &captureSink{}, container.DefaultPrefix)

	_, err := scheduler.Invoke(context.Background(), "f")
	utils.AssertTrue(t, errors.Is(err, NoEligibleNodeErr))
}

func TestFailedInvocationSurfacesErrorAndEmitsRecord(t *testing.T) {
	tb := newTestbed(t)
	tb.states.Set("f", "n1", node.StatePreWarmed)
	tb.fail = true

	_, err := tb.scheduler.Invoke(context.Background(), "f")
	utils.AssertNonNil(t, err)

	record := tb.sink.last(t)
	utils.AssertFalse(t, record.Success)
	utils.AssertEquals(t, "Pre-warmed", record.ExecutionMode)
	utils.AssertTrue(t, record.DurationSeconds >= 0)

	// a failed pre-warmed execution is not consumed
	utils.AssertEquals(t, node.StatePreWarmed, tb.states.Get("f", "n1"))
}
