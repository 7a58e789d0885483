package command

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/yndnr/gridmap-go/internal/core/service"
	"github.com/yndnr/gridmap-go/internal/server/config"
	"github.com/yndnr/gridmap-go/internal/server/respserver"
	"github.com/yndnr/gridmap-go/pkg/chainmap"
)

// startServer spins up a real RESP server on a loopback port.
func startServer(t *testing.T) string {
	t.Helper()
	table, err := chainmap.New(64)
	if err != nil {
		t.Fatalf("chainmap.New: %v", err)
	}
	t.Cleanup(table.Close)

	srv := respserver.New(
		config.RespConfig{Addr: "127.0.0.1:0"},
		service.NewKVService(table, nil, nil),
		nil, nil,
	)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	if err := srv.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() {
		shutCtx, shutCancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer shutCancel()
		_ = srv.Shutdown(shutCtx)
	})

	return srv.Addr().String()
}

func runCLI(t *testing.T, addr string, args ...string) string {
	t.Helper()
	app := NewApp()
	var out bytes.Buffer
	app.Writer = &out
	app.ErrWriter = &out

	argv := append([]string{"gridmap-cli", "--server", addr}, args...)
	if err := app.Run(argv); err != nil {
		t.Fatalf("Run(%v): %v\noutput: %s", args, err, out.String())
	}
	return out.String()
}

func TestCLI_SetGetDel(t *testing.T) {
	addr := startServer(t)

	if got := runCLI(t, addr, "set", "7", "42"); strings.TrimSpace(got) != "OK" {
		t.Errorf("set = %q", got)
	}
	if got := runCLI(t, addr, "get", "7"); strings.TrimSpace(got) != "42" {
		t.Errorf("get = %q", got)
	}
	if got := runCLI(t, addr, "set", "7", "43"); strings.TrimSpace(got) != "OK (was 42)" {
		t.Errorf("set update = %q", got)
	}
	if got := runCLI(t, addr, "del", "7"); strings.TrimSpace(got) != "1" {
		t.Errorf("del = %q", got)
	}
	if got := runCLI(t, addr, "get", "7"); strings.TrimSpace(got) != "(nil)" {
		t.Errorf("get after del = %q", got)
	}
}

func TestCLI_ExistsSizeOps(t *testing.T) {
	addr := startServer(t)
	runCLI(t, addr, "set", "1", "10")

	if got := runCLI(t, addr, "exists", "1"); strings.TrimSpace(got) != "true" {
		t.Errorf("exists = %q", got)
	}
	if got := runCLI(t, addr, "exists", "2"); strings.TrimSpace(got) != "false" {
		t.Errorf("exists missing = %q", got)
	}
	if got := runCLI(t, addr, "size"); strings.TrimSpace(got) != "1" {
		t.Errorf("size = %q", got)
	}
	if got := runCLI(t, addr, "ops"); strings.TrimSpace(got) == "0" {
		t.Errorf("ops = %q, want nonzero", got)
	}
}

func TestCLI_StatsAndDump(t *testing.T) {
	addr := startServer(t)
	runCLI(t, addr, "set", "3", "30")

	stats := runCLI(t, addr, "stats")
	if !strings.Contains(stats, "capacity:64") || !strings.Contains(stats, "size:1") {
		t.Errorf("stats = %q", stats)
	}

	dump := runCLI(t, addr, "dump")
	if !strings.Contains(dump, "(3,30)") {
		t.Errorf("dump = %q", dump)
	}
}

func TestCLI_Ping(t *testing.T) {
	addr := startServer(t)
	if got := runCLI(t, addr, "ping"); strings.TrimSpace(got) != "PONG" {
		t.Errorf("ping = %q", got)
	}
}

func TestCLI_Auth(t *testing.T) {
	table, err := chainmap.New(16)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(table.Close)

	srv := respserver.New(
		config.RespConfig{Addr: "127.0.0.1:0", AuthPassword: "sekrit"},
		service.NewKVService(table, nil, nil),
		nil, nil,
	)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	if err := srv.Start(ctx); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		shutCtx, shutCancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer shutCancel()
		_ = srv.Shutdown(shutCtx)
	})
	addr := srv.Addr().String()

	app := NewApp()
	var out bytes.Buffer
	app.Writer = &out
	app.ErrWriter = &out
	argv := []string{"gridmap-cli", "--server", addr, "--password", "sekrit", "set", "1", "10"}
	if err := app.Run(argv); err != nil {
		t.Fatalf("Run: %v\noutput: %s", err, out.String())
	}
	if strings.TrimSpace(out.String()) != "OK" {
		t.Errorf("set = %q", out.String())
	}
}

func TestCLI_Bench(t *testing.T) {
	app := NewApp()
	var out bytes.Buffer
	app.Writer = &out

	argv := []string{"gridmap-cli", "bench", "--workers", "2", "--keys", "500", "--capacity", "64"}
	if err := app.Run(argv); err != nil {
		t.Fatalf("bench: %v\noutput: %s", err, out.String())
	}
	got := out.String()
	if !strings.Contains(got, "operations: 3000") {
		t.Errorf("bench output = %q, want 3000 operations", got)
	}
	if !strings.Contains(got, "throughput:") {
		t.Errorf("bench output = %q", got)
	}
}
