package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestSpinDrawsMessage(t *testing.T) {
	var buf bytes.Buffer
	stop := spin(context.Background(), &buf, "Rendering sales.json")
	time.Sleep(3 * spinInterval)
	stop()

	out := buf.String()
	if !strings.Contains(out, "Rendering sales.json") {
		t.Errorf("output %q does not contain the message", out)
	}
	if !strings.HasSuffix(out, "\r") {
		t.Errorf("line not cleared on stop: %q", out)
	}
}

func TestSpinStopIsIdempotent(t *testing.T) {
	stop := spin(context.Background(), &bytes.Buffer{}, "x")
	stop()
	stop()
}

func TestSpinStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var buf bytes.Buffer
	stop := spin(ctx, &buf, "x")
	cancel()

	finished := make(chan struct{})
	go func() {
		stop()
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("stop blocked after context cancellation")
	}
}
