package executor

import (
	"context"

	"github.com/TommasoMolesti/faas-scheduler-testbed/internal/node"
)

// Executor runs a shell command on a worker node and returns its captured
// standard output. Implementations decide the transport; callers must treat
// any error as a failed attempt (the gateway never retries on its own).
type Executor interface {
	RunCommand(ctx context.Context, n *node.Node, command string) (string, error)
}

// Func adapts a plain function to the Executor interface. Mostly useful for
// tests.
type Func func(ctx context.Context, n *node.Node, command string) (string, error)

func (f Func) RunCommand(ctx context.Context, n *node.Node, command string) (string, error) {
	return f(ctx, n, command)
}
