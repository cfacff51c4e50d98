package scheduling

import (
	"context"
	"fmt"
	"testing"

	"github.com/TommasoMolesti/faas-scheduler-testbed/internal/executor"
	"github.com/TommasoMolesti/faas-scheduler-testbed/internal/metrics"
	"github.com/TommasoMolesti/faas-scheduler-testbed/internal/node"
	"github.com/TommasoMolesti/faas-scheduler-testbed/utils"
)

func nodeSet(names ...string) map[string]*node.Node {
	nodes := make(map[string]*node.Node)
	for _, name := range names {
		nodes[name] = &node.Node{Name: name}
	}
	return nodes
}

// metricsByNode builds a probe whose executor answers with fixed per-node
// metrics payloads; nodes absent from the map are unreachable.
func metricsByNode(byNode map[string]string) *metrics.Probe {
	exec := executor.Func(func(ctx context.Context, n *node.Node, command string) (string, error) {
		payload, ok := byNode[n.Name]
		if !ok {
			return "", fmt.Errorf("node %s unreachable", n.Name)
		}
		return payload, nil
	})
	return metrics.NewProbe(exec, "get-metrics")
}

func TestRoundRobinVisitsEachNodeOnceInSortedOrder(t *testing.T) {
	policy := NewRoundRobinPolicy(nil, 90)
	nodes := nodeSet("n2", "n3", "n1")

	var visited []string
	for i := 0; i < 3; i++ {
		name, snap, ok := policy.SelectNode(context.Background(), nodes, "f")
		utils.AssertTrue(t, ok)
		utils.AssertNonNil(t, snap)
		utils.AssertTrue(t, snap.Unknown)
		visited = append(visited, name)
	}
	utils.AssertSliceEquals(t, []string{"n1", "n2", "n3"}, visited)

	// the cycle wraps around
	name, _, ok := policy.SelectNode(context.Background(), nodes, "f")
	utils.AssertTrue(t, ok)
	utils.AssertEquals(t, "n1", name)
}

func TestRoundRobinResetsCursorOnMembershipChange(t *testing.T) {
	policy := NewRoundRobinPolicy(nil, 90)
	nodes := nodeSet("n1", "n2")

	name, _, _ := policy.SelectNode(context.Background(), nodes, "f")
	utils.AssertEquals(t, "n1", name)
	name, _, _ = policy.SelectNode(context.Background(), nodes, "f")
	utils.AssertEquals(t, "n2", name)

	// adding a node forfeits round-robin continuity
	nodes["n0"] = &node.Node{Name: "n0"}
	name, _, _ = policy.SelectNode(context.Background(), nodes, "f")
	utils.AssertEquals(t, "n0", name)

	// removing one does too
	delete(nodes, "n0")
	name, _, _ = policy.SelectNode(context.Background(), nodes, "f")
	utils.AssertEquals(t, "n1", name)
}

func TestRoundRobinSkipsNodesOverRamThreshold(t *testing.T) {
	probe := metricsByNode(map[string]string{
		"n1": `{"cpu_usage": 10, "ram_usage": 95}`,
		"n2": `{"cpu_usage": 10, "ram_usage": 50}`,
	})
	policy := NewRoundRobinPolicy(probe, 90)

	name, snap, ok := policy.SelectNode(context.Background(), nodeSet("n1", "n2"), "f")
	utils.AssertTrue(t, ok)
	utils.AssertEquals(t, "n2", name)
	utils.AssertFalse(t, snap.Unknown)
	utils.AssertEquals(t, 50.0, snap.RAMUsage)
}

func TestRoundRobinNeverPicksOverloadedOnlyNode(t *testing.T) {
	probe := metricsByNode(map[string]string{
		"n1": `{"cpu_usage": 10, "ram_usage": 95}`,
	})
	policy := NewRoundRobinPolicy(probe, 90)

	_, _, ok := policy.SelectNode(context.Background(), nodeSet("n1"), "f")
	utils.AssertFalse(t, ok)
}

func TestRoundRobinSkipsUnreachableNodes(t *testing.T) {
	probe := metricsByNode(map[string]string{
		"n2": `{"cpu_usage": 10, "ram_usage": 50}`,
	})
	policy := NewRoundRobinPolicy(probe, 90)

	name, _, ok := policy.SelectNode(context.Background(), nodeSet("n1", "n2"), "f")
	utils.AssertTrue(t, ok)
	utils.AssertEquals(t, "n2", name)
}

func TestRoundRobinEmptyRegistry(t *testing.T) {
	policy := NewRoundRobinPolicy(nil, 90)
	_, _, ok := policy.SelectNode(context.Background(), nodeSet(), "f")
	utils.AssertFalse(t, ok)
}
