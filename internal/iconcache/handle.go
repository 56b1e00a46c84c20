package iconcache

import (
	"context"
)

// Handle tracks a reconciliation running in the background.
type Handle struct {
	cancel context.CancelFunc
	done   chan struct{}
	stats  Stats
}

// Start launches Reconcile on its own goroutine and returns immediately.
func (r *Reconciler) Start(ctx context.Context) *Handle {
	runCtx, cancel := context.WithCancel(ctx)
	h := &Handle{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(h.done)
		defer cancel()
		h.stats = r.Reconcile(runCtx)
	}()
	return h
}

// Stop asks the run to stop dispatching and waits for it to return. It is
// safe to call more than once.
func (h *Handle) Stop() Stats {
	h.cancel()
	return h.Wait()
}

// Wait blocks until the run returns without asking it to stop.
func (h *Handle) Wait() Stats {
	<-h.done
	return h.stats
}

// Done is closed once the run has returned.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}
