package scheduling

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// AdmissionGate bounds the number of invocations concurrently inside the
// select-execute-record workflow. An invocation past the limit blocks until a
// slot frees or its context is canceled.
type AdmissionGate struct {
	sem *semaphore.Weighted
}

func NewAdmissionGate(limit int64) *AdmissionGate {
	return &AdmissionGate{sem: semaphore.NewWeighted(limit)}
}

func (g *AdmissionGate) Enter(ctx context.Context) error {
	return g.sem.Acquire(ctx, 1)
}

func (g *AdmissionGate) Leave() {
	g.sem.Release(1)
}
