package scheduling

import (
	"context"
	"testing"

	"github.com/TommasoMolesti/faas-scheduler-testbed/internal/node"
	"github.com/TommasoMolesti/faas-scheduler-testbed/utils"
)

func newTestRegistry(names ...string) *node.Registry {
	registry := node.NewRegistry()
	for _, name := range names {
		registry.Add(&node.Node{Name: name})
	}
	return registry
}

func TestChainPrefersWarmedOverPreWarmed(t *testing.T) {
	states := node.NewWarmStateStore()
	states.Set("f", "n1", node.StateWarmed)
	states.Set("f", "n2", node.StatePreWarmed)

	chain := NewChain(states, newTestRegistry("n1", "n2"), NewRoundRobinPolicy(nil, 90))

	res, ok := chain.Resolve(context.Background(), "f")
	utils.AssertTrue(t, ok)
	utils.AssertEquals(t, "n1", res.Node)
	utils.AssertEquals(t, WarmedMode, res.Mode)
}

func TestChainPrefersPreWarmedOverCold(t *testing.T) {
	states := node.NewWarmStateStore()
	states.Set("f", "n2", node.StatePreWarmed)

	chain := NewChain(states, newTestRegistry("n1", "n2"), NewRoundRobinPolicy(nil, 90))

	res, ok := chain.Resolve(context.Background(), "f")
	utils.AssertTrue(t, ok)
	utils.AssertEquals(t, "n2", res.Node)
	utils.AssertEquals(t, PreWarmedMode, res.Mode)
}

func TestChainFallsBackToColdPolicy(t *testing.T) {
	states := node.NewWarmStateStore()
	chain := NewChain(states, newTestRegistry("n1", "n2"), NewRoundRobinPolicy(nil, 90))

	res, ok := chain.Resolve(context.Background(), "f")
	utils.AssertTrue(t, ok)
	utils.AssertEquals(t, "n1", res.Node)
	utils.AssertEquals(t, ColdMode, res.Mode)
}

func TestChainWarmStateOfOtherFunctionsIsIgnored(t *testing.T) {
	states := node.NewWarmStateStore()
	states.Set("g", "n2", node.StateWarmed)

	chain := NewChain(states, newTestRegistry("n1", "n2"), NewRoundRobinPolicy(nil, 90))

	res, ok := chain.Resolve(context.Background(), "f")
	utils.AssertTrue(t, ok)
	utils.AssertEquals(t, ColdMode, res.Mode)
}

func TestChainReportsNoEligibleNode(t *testing.T) {
	states := node.NewWarmStateStore()
	chain := NewChain(states, newTestRegistry(), NewRoundRobinPolicy(nil, 90))

	_, ok := chain.Resolve(context.Background(), "f")
	utils.AssertFalse(t, ok)
}
