// Package warming performs the side-effecting warm-state transitions: image
// pulls (pre-warm) and standing container startup (warm-up).
package warming

import (
	"context"
	"fmt"
	"log"

	"github.com/TommasoMolesti/faas-scheduler-testbed/internal/container"
	"github.com/TommasoMolesti/faas-scheduler-testbed/internal/executor"
	"github.com/TommasoMolesti/faas-scheduler-testbed/internal/function"
	"github.com/TommasoMolesti/faas-scheduler-testbed/internal/node"
)

// Orchestrator runs warming operations on worker nodes and updates the warm
// state store on success. A failed operation leaves the previous state
// untouched and is reported to the caller; there is no automatic retry.
type Orchestrator struct {
	exec      executor.Executor
	functions *function.Registry
	nodes     *node.Registry
	states    *node.WarmStateStore
	prefix    string
}

func NewOrchestrator(exec executor.Executor, functions *function.Registry, nodes *node.Registry,
	states *node.WarmStateStore, prefix string) *Orchestrator {
	return &Orchestrator{
		exec:      exec,
		functions: functions,
		nodes:     nodes,
		states:    states,
		prefix:    prefix,
	}
}

// Prewarm pulls the function image on the node and marks the pair
// pre-warmed.
func (o *Orchestrator) Prewarm(ctx context.Context, functionName, nodeName string) error {
	fun, n, err := o.lookup(functionName, nodeName)
	if err != nil {
		return err
	}

	if _, err := o.exec.RunCommand(ctx, n, container.PullCommand(fun.Image)); err != nil {
		return fmt.Errorf("pre-warm of '%s' on '%s' failed: %w", functionName, nodeName, err)
	}

	o.states.Set(functionName, nodeName, node.StatePreWarmed)
	log.Printf("Function '%s' pre-warmed on node '%s'", functionName, nodeName)
	return nil
}

// Warmup starts a standing container for the function on the node and marks
// the pair warmed. Any stale container with the same name is removed first,
// so the operation can be repeated safely.
func (o *Orchestrator) Warmup(ctx context.Context, functionName, nodeName string) error {
	fun, n, err := o.lookup(functionName, nodeName)
	if err != nil {
		return err
	}

	standing := container.StandingName(o.prefix, functionName, nodeName)

	// "no such container" is the common case here
	if _, err := o.exec.RunCommand(ctx, n, container.RemoveCommand(standing)); err != nil {
		log.Printf("Cleanup of '%s' on '%s' reported: %v", standing, nodeName, err)
	}

	if _, err := o.exec.RunCommand(ctx, n, container.StartDetachedCommand(standing, fun.Image)); err != nil {
		return fmt.Errorf("warm-up of '%s' on '%s' failed: %w", functionName, nodeName, err)
	}

	o.states.Set(functionName, nodeName, node.StateWarmed)
	log.Printf("Function '%s' warmed on node '%s' (container %s)", functionName, nodeName, standing)
	return nil
}

func (o *Orchestrator) lookup(functionName, nodeName string) (*function.Function, *node.Node, error) {
	fun, ok := o.functions.Get(functionName)
	if !ok {
		return nil, nil, function.FunctionNotFoundErr
	}
	n, ok := o.nodes.Get(nodeName)
	if !ok {
		return nil, nil, node.NodeNotFoundErr
	}
	return fun, n, nil
}
