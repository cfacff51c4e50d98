package scheduling

import (
	"context"
	"log"

	"github.com/TommasoMolesti/faas-scheduler-testbed/internal/config"
	"github.com/TommasoMolesti/faas-scheduler-testbed/internal/metrics"
	"github.com/TommasoMolesti/faas-scheduler-testbed/internal/node"
)

// Policy selects a node for a cold execution of a function. It returns the
// chosen node name, the load snapshot taken for the decision (if a live probe
// was involved), and false when no eligible node exists. Running out of
// eligible nodes is a reportable condition, never a panic.
type Policy interface {
	SelectNode(ctx context.Context, nodes map[string]*node.Node, functionName string) (string, *metrics.LoadSnapshot, bool)
}

// CreatePolicy builds the node selection policy configured for this gateway.
// The policy is chosen once at startup, not per request.
func CreatePolicy(probe *metrics.Probe) Policy {
	threshold := config.GetFloat(config.SCHEDULING_RAM_THRESHOLD, 90.0)
	policyConf := config.GetString(config.SCHEDULING_POLICY, "roundrobin")
	log.Printf("Configured policy: %s\n", policyConf)
	if policyConf == "leastused" {
		return NewLeastUsedPolicy(probe, threshold)
	} else if policyConf == "mostused" {
		return NewMostUsedPolicy(probe, threshold)
	} else { // default: roundrobin
		if !config.GetBool(config.SCHEDULING_ROUNDROBIN_PROBE, true) {
			probe = nil
		}
		return NewRoundRobinPolicy(probe, threshold)
	}
}
