package scheduling

import (
	"context"

	"github.com/TommasoMolesti/faas-scheduler-testbed/internal/node"
)

// A stage resolves an invocation to a node and an execution mode, or passes.
type stage interface {
	resolve(ctx context.Context, functionName string) (Resolution, bool)
}

// Chain is the fixed priority resolution for invocations: a warmed node
// first, then a pre-warmed one, then the configured cold policy. Stages are
// evaluated in order; the first hit wins.
//
// A warmed hit means the invocation will exec into a standing container that
// other invocations may be using concurrently; functions registered for
// warming must tolerate that.
type Chain struct {
	stages []stage
}

func NewChain(states *node.WarmStateStore, nodes *node.Registry, policy Policy) *Chain {
	return &Chain{stages: []stage{
		&warmedFirst{states: states},
		&preWarmedFirst{states: states},
		&defaultCold{nodes: nodes, policy: policy},
	}}
}

// Resolve walks the chain. It returns false when no stage produced a node,
// which callers report as a service-unavailable condition.
func (c *Chain) Resolve(ctx context.Context, functionName string) (Resolution, bool) {
	for _, s := range c.stages {
		if res, ok := s.resolve(ctx, functionName); ok {
			return res, true
		}
	}
	return Resolution{}, false
}

type warmedFirst struct {
	states *node.WarmStateStore
}

func (s *warmedFirst) resolve(ctx context.Context, functionName string) (Resolution, bool) {
	if nodeName, ok := s.states.FirstWithState(functionName, node.StateWarmed); ok {
		return Resolution{Node: nodeName, Mode: WarmedMode}, true
	}
	return Resolution{}, false
}

type preWarmedFirst struct {
	states *node.WarmStateStore
}

func (s *preWarmedFirst) resolve(ctx context.Context, functionName string) (Resolution, bool) {
	if nodeName, ok := s.states.FirstWithState(functionName, node.StatePreWarmed); ok {
		return Resolution{Node: nodeName, Mode: PreWarmedMode}, true
	}
	return Resolution{}, false
}

type defaultCold struct {
	nodes  *node.Registry
	policy Policy
}

func (s *defaultCold) resolve(ctx context.Context, functionName string) (Resolution, bool) {
	nodeName, snap, ok := s.policy.SelectNode(ctx, s.nodes.All(), functionName)
	if !ok {
		return Resolution{}, false
	}
	return Resolution{Node: nodeName, Mode: ColdMode, Snapshot: snap}, true
}
