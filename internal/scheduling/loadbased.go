package scheduling

import (
	"context"
	"log"
	"sort"

	"github.com/TommasoMolesti/faas-scheduler-testbed/internal/metrics"
	"github.com/TommasoMolesti/faas-scheduler-testbed/internal/node"
)

// LeastUsedPolicy probes every node in parallel and selects the reachable,
// eligible node with the lowest load score.
type LeastUsedPolicy struct {
	probe     *metrics.Probe
	threshold float64
}

func NewLeastUsedPolicy(probe *metrics.Probe, threshold float64) *LeastUsedPolicy {
	return &LeastUsedPolicy{probe: probe, threshold: threshold}
}

func (p *LeastUsedPolicy) SelectNode(ctx context.Context, nodes map[string]*node.Node, functionName string) (string, *metrics.LoadSnapshot, bool) {
	return selectByLoad(ctx, p.probe, nodes, p.threshold, false)
}

// MostUsedPolicy is the dual of LeastUsedPolicy: it packs work onto the
// busiest eligible node.
type MostUsedPolicy struct {
	probe     *metrics.Probe
	threshold float64
}

func NewMostUsedPolicy(probe *metrics.Probe, threshold float64) *MostUsedPolicy {
	return &MostUsedPolicy{probe: probe, threshold: threshold}
}

func (p *MostUsedPolicy) SelectNode(ctx context.Context, nodes map[string]*node.Node, functionName string) (string, *metrics.LoadSnapshot, bool) {
	return selectByLoad(ctx, p.probe, nodes, p.threshold, true)
}

// selectByLoad ranks eligible nodes by load score. Candidates are visited in
// sorted name order, so ties break deterministically: the first encountered
// extreme wins.
func selectByLoad(ctx context.Context, probe *metrics.Probe, nodes map[string]*node.Node, threshold float64, most bool) (string, *metrics.LoadSnapshot, bool) {
	if len(nodes) == 0 {
		return "", nil, false
	}

	snapshots := probe.All(ctx, nodes)
	if len(snapshots) == 0 {
		log.Printf("Load-based selection: could not retrieve metrics from any node.")
		return "", nil, false
	}

	names := make([]string, 0, len(snapshots))
	for name := range snapshots {
		names = append(names, name)
	}
	sort.Strings(names)

	selected := ""
	var best metrics.LoadSnapshot
	for _, name := range names {
		snap := snapshots[name]
		if snap.OverThreshold(threshold) {
			log.Printf("Load-based selection: node '%s' discarded for RAM >= %.0f%%.", name, threshold)
			continue
		}
		if selected == "" ||
			(most && snap.Score() > best.Score()) ||
			(!most && snap.Score() < best.Score()) {
			selected = name
			best = snap
		}
	}

	if selected == "" {
		log.Printf("Load-based selection: no node available with sufficient RAM.")
		return "", nil, false
	}
	return selected, &best, true
}
