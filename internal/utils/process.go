package utils

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// ContextWithProcessInterruptOrKill returns a context that is cancelled when
// the process receives an interrupt (Ctrl+C) or termination signal (SIGTERM).
func ContextWithProcessInterruptOrKill(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
