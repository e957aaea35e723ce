package santa

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestProcessDriverRunCapturesStdout(t *testing.T) {
	d := NewProcessDriver(zerolog.Nop())
	result, err := d.Run(context.Background(), time.Second, "echo", "hello")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Stdout != "hello" {
		t.Errorf("Stdout = %q, want %q", result.Stdout, "hello")
	}
	if result.Code != 0 {
		t.Errorf("Code = %d, want 0", result.Code)
	}
}

func TestProcessDriverRunFailsOnNonZeroExit(t *testing.T) {
	d := NewProcessDriver(zerolog.Nop())
	_, err := d.Run(context.Background(), time.Second, "sh", "-c", "exit 3")
	if err == nil {
		t.Fatal("expected an error for a non-zero exit")
	}
	if Category(err) != KindCommandFailed {
		t.Errorf("Category(err) = %v, want %v", Category(err), KindCommandFailed)
	}
}

func TestProcessDriverRunTimesOut(t *testing.T) {
	d := NewProcessDriver(zerolog.Nop())
	_, err := d.Run(context.Background(), 10*time.Millisecond, "sh", "-c", "sleep 5")
	if err == nil {
		t.Fatal("expected a timeout error")
	}
	if Category(err) != KindTimeout {
		t.Errorf("Category(err) = %v, want %v", Category(err), KindTimeout)
	}
}

func TestProcessDriverRunRespectsCancellation(t *testing.T) {
	d := NewProcessDriver(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := d.Run(ctx, time.Second, "sh", "-c", "sleep 5")
	if err == nil {
		t.Fatal("expected an error for a cancelled context")
	}
}
