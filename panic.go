package main

import (
	"context"
	"fmt"
	"runtime/debug"
)

// CatchPanicToContext recovers a panic in the calling goroutine and cancels
// the context with it, stack trace attached. It must be deferred directly.
func CatchPanicToContext(cancel context.CancelCauseFunc) {
	v := recover()
	if v == nil {
		return
	}

	err, ok := v.(error)
	if !ok {
		err = fmt.Errorf("panic: %v", v)
	}
	if cancel != nil {
		cancel(fmt.Errorf("%w\n%s", err, debug.Stack()))
	}
}
