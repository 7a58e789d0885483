package shutdown

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestWait_RunsHooksInReverseOrder(t *testing.T) {
	h := NewHandler(time.Second)

	var order []int
	for i := 0; i < 3; i++ {
		i := i
		h.OnShutdown(func(context.Context) error {
			order = append(order, i)
			return nil
		})
	}

	errCh := make(chan error, 1)
	go func() { errCh <- h.Wait() }()

	h.Trigger()

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("Wait: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Wait did not return")
	}

	if len(order) != 3 || order[0] != 2 || order[1] != 1 || order[2] != 0 {
		t.Errorf("hook order = %v, want [2 1 0]", order)
	}

	select {
	case <-h.Done():
	default:
		t.Error("Done channel should be closed after Wait")
	}
}

func TestWait_ReturnsFirstHookError(t *testing.T) {
	h := NewHandler(time.Second)

	boom := errors.New("boom")
	var ranLast bool
	h.OnShutdown(func(context.Context) error { ranLast = true; return nil })
	h.OnShutdown(func(context.Context) error { return boom })

	errCh := make(chan error, 1)
	go func() { errCh <- h.Wait() }()
	h.Trigger()

	if err := <-errCh; !errors.Is(err, boom) {
		t.Errorf("Wait error = %v, want boom", err)
	}
	if !ranLast {
		t.Error("remaining hooks should still run after an error")
	}
}

func TestTrigger_Idempotent(t *testing.T) {
	h := NewHandler(time.Second)
	errCh := make(chan error, 1)
	go func() { errCh <- h.Wait() }()

	h.Trigger()
	h.Trigger()

	select {
	case <-errCh:
	case <-time.After(2 * time.Second):
		t.Fatal("Wait did not return")
	}
}
