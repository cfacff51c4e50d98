package scheduling

import (
	"context"
	"log"
	"sort"
	"sync"

	"golang.org/x/exp/slices"

	"github.com/TommasoMolesti/faas-scheduler-testbed/internal/metrics"
	"github.com/TommasoMolesti/faas-scheduler-testbed/internal/node"
)

// RoundRobinPolicy cycles over the sorted node names. Any change in the node
// set resets the cursor to the start of the new order: membership churn
// forfeits round-robin continuity instead of trying to preserve position.
//
// When a probe is configured, candidates whose RAM usage is at or above the
// threshold are skipped; up to len(nodes) candidates are tried before giving
// up. Without a probe the next node is returned as-is, with a placeholder
// snapshot.
type RoundRobinPolicy struct {
	mu        sync.Mutex
	cache     []string // sorted node names the cursor is valid for
	next      int
	probe     *metrics.Probe
	threshold float64
}

func NewRoundRobinPolicy(probe *metrics.Probe, threshold float64) *RoundRobinPolicy {
	return &RoundRobinPolicy{probe: probe, threshold: threshold}
}

func (p *RoundRobinPolicy) SelectNode(ctx context.Context, nodes map[string]*node.Node, functionName string) (string, *metrics.LoadSnapshot, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(nodes) == 0 {
		return "", nil, false
	}

	names := make([]string, 0, len(nodes))
	for name := range nodes {
		names = append(names, name)
	}
	sort.Strings(names)

	if !slices.Equal(names, p.cache) {
		p.cache = names
		p.next = 0
	}

	for tries := 0; tries < len(p.cache); tries++ {
		candidate := p.cache[p.next]
		p.next = (p.next + 1) % len(p.cache)

		if p.probe == nil {
			snap := metrics.UnknownSnapshot()
			return candidate, &snap, true
		}

		snap, err := p.probe.Node(ctx, nodes[candidate])
		if err != nil {
			log.Printf("Round Robin: node '%s' unreachable, skipped: %v", candidate, err)
			continue
		}
		if snap.OverThreshold(p.threshold) {
			log.Printf("Round Robin: node '%s' discarded for RAM >= %.0f%%.", candidate, p.threshold)
			continue
		}
		return candidate, &snap, true
	}

	log.Printf("Round Robin: no node available with sufficient RAM.")
	return "", nil, false
}
