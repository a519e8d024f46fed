package runtime

import (
	"context"
	"os/signal"
	"syscall"
)

// SignalContext derives a context from parent that is canceled on SIGINT or
// SIGTERM, the two signals Docker and Kubernetes send on shutdown. Callers
// defer the cancel and use <-ctx.Done() as their stop condition.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}
