package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/yndnr/gridmap-go/internal/core/domain"
	"github.com/yndnr/gridmap-go/internal/telemetry/metric"
	"github.com/yndnr/gridmap-go/pkg/chainmap"
)

func newService(t *testing.T, capacity int) *KVService {
	t.Helper()
	m, err := chainmap.New(capacity)
	if err != nil {
		t.Fatalf("chainmap.New: %v", err)
	}
	return NewKVService(m, nil, metric.NewRegistry())
}

func TestKVService_SetGetDel(t *testing.T) {
	svc := newService(t, 8)
	ctx := context.Background()

	prev, existed, err := svc.Set(ctx, 1, 100)
	if err != nil {
		t.Fatalf("Set: %v", err)
	}
	if existed || prev != chainmap.NotFound {
		t.Errorf("Set new key = (%d, %v), want (NotFound, false)", prev, existed)
	}

	v, err := svc.Get(ctx, 1)
	if err != nil || v != 100 {
		t.Errorf("Get = (%d, %v), want (100, nil)", v, err)
	}

	prev, existed, err = svc.Set(ctx, 1, 200)
	if err != nil || !existed || prev != 100 {
		t.Errorf("Set existing = (%d, %v, %v), want (100, true, nil)", prev, existed, err)
	}

	v, err = svc.Del(ctx, 1)
	if err != nil || v != 200 {
		t.Errorf("Del = (%d, %v), want (200, nil)", v, err)
	}

	if _, err := svc.Get(ctx, 1); !errors.Is(err, domain.ErrKeyNotFound) {
		t.Errorf("Get after Del error = %v, want ErrKeyNotFound", err)
	}
	if _, err := svc.Del(ctx, 1); !errors.Is(err, domain.ErrKeyNotFound) {
		t.Errorf("Del absent error = %v, want ErrKeyNotFound", err)
	}
}

func TestKVService_ReservedValue(t *testing.T) {
	svc := newService(t, 4)
	if _, _, err := svc.Set(context.Background(), 1, chainmap.NotFound); !errors.Is(err, domain.ErrReservedValue) {
		t.Errorf("Set reserved value error = %v, want ErrReservedValue", err)
	}
}

func TestKVService_Closed(t *testing.T) {
	svc := newService(t, 4)
	svc.Close()
	if _, _, err := svc.Set(context.Background(), 1, 1); !errors.Is(err, domain.ErrStoreClosed) {
		t.Errorf("Set after Close error = %v, want ErrStoreClosed", err)
	}
}

func TestKVService_Counters(t *testing.T) {
	svc := newService(t, 4)
	ctx := context.Background()

	_, _, _ = svc.Set(ctx, 1, 10)
	_, _, _ = svc.Set(ctx, 5, 50)
	_, _ = svc.Get(ctx, 1)
	_, _ = svc.Get(ctx, 99) // miss
	_, _ = svc.Del(ctx, 5)

	if svc.Size() != 1 {
		t.Errorf("Size = %d, want 1", svc.Size())
	}
	if svc.Capacity() != 4 {
		t.Errorf("Capacity = %d, want 4", svc.Capacity())
	}
	if svc.OpCount() != 5 {
		t.Errorf("OpCount = %d, want 5", svc.OpCount())
	}
	if !svc.Exists(ctx, 1) || svc.Exists(ctx, 5) {
		t.Error("Exists results wrong after del")
	}
}

func TestKVService_Dump(t *testing.T) {
	svc := newService(t, 4)
	_, _, _ = svc.Set(context.Background(), 1, 10)

	var buf bytes.Buffer
	if err := svc.Dump(&buf); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	if !strings.Contains(buf.String(), "(1,10)") {
		t.Errorf("Dump output missing entry: %s", buf.String())
	}
}
