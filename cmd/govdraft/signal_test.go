package main

import (
	"context"
	"testing"
)

func TestNotifyContext(t *testing.T) {
	t.Parallel()

	t.Run("stop cancels", func(t *testing.T) {
		t.Parallel()

		ctx, stop := notifyContext(context.Background())
		select {
		case <-ctx.Done():
			t.Fatal("context cancelled before stop()")
		default:
		}

		stop()
		<-ctx.Done()
	})

	t.Run("parent cancellation propagates", func(t *testing.T) {
		t.Parallel()

		parent, cancel := context.WithCancel(context.Background())
		ctx, stop := notifyContext(parent)
		defer stop()

		cancel()
		<-ctx.Done()
		if ctx.Err() == nil {
			t.Error("expected context error after parent cancel")
		}
	})
}

// Not parallel: adjusts the process-wide GOMAXPROCS.
func TestSetMaxProcs(t *testing.T) {
	for _, verbose := range []bool{false, true} {
		undo := setMaxProcs(verbose)
		if undo == nil {
			t.Fatalf("setMaxProcs(%v) returned nil undo", verbose)
		}
		undo()
	}
}
