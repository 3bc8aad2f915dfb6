// internal/render/pool.go
package render

import (
	"context"

	"certificate-service/internal/common/metrics"
)

// Pool bounds the number of Chrome instances alive at once. Each render
// acquires a slot before launching the browser and releases it when done.
type Pool struct {
	slots chan struct{}
}

// NewPool creates a pool with max concurrent slots. A non-positive max
// falls back to 1.
func NewPool(max int) *Pool {
	if max < 1 {
		max = 1
	}
	return &Pool{slots: make(chan struct{}, max)}
}

// Acquire blocks until a slot is free or the context is cancelled.
func (p *Pool) Acquire(ctx context.Context) error {
	select {
	case p.slots <- struct{}{}:
		metrics.RendersActive.Inc()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release frees a slot taken by Acquire.
func (p *Pool) Release() {
	<-p.slots
	metrics.RendersActive.Dec()
}
