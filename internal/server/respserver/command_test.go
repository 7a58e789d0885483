package respserver

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/yndnr/gridmap-go/internal/core/service"
	"github.com/yndnr/gridmap-go/pkg/chainmap"
)

func newTestHandler(t *testing.T, password string) *Handler {
	t.Helper()
	table, err := chainmap.New(16)
	if err != nil {
		t.Fatalf("chainmap.New: %v", err)
	}
	t.Cleanup(table.Close)
	svc := service.NewKVService(table, nil, nil)
	return NewHandler(svc, nil, password)
}

func run(t *testing.T, h *Handler, sess *session, args ...string) (string, bool) {
	t.Helper()
	raw := make([][]byte, len(args))
	for i, a := range args {
		raw[i] = []byte(a)
	}
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	closeConn, err := h.Handle(context.Background(), w, sess, raw)
	if err != nil {
		t.Fatalf("Handle(%v): %v", args, err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	return buf.String(), closeConn
}

func TestPing(t *testing.T) {
	h := newTestHandler(t, "")
	sess := &session{}

	if got, _ := run(t, h, sess, "PING"); got != "+PONG\r\n" {
		t.Errorf("PING = %q", got)
	}
	if got, _ := run(t, h, sess, "ping", "hello"); got != "$5\r\nhello\r\n" {
		t.Errorf("PING hello = %q", got)
	}
}

func TestSetGetDel(t *testing.T) {
	h := newTestHandler(t, "")
	sess := &session{}

	if got, _ := run(t, h, sess, "SET", "7", "42"); got != "+OK\r\n" {
		t.Errorf("SET = %q", got)
	}
	if got, _ := run(t, h, sess, "GET", "7"); got != "$2\r\n42\r\n" {
		t.Errorf("GET = %q", got)
	}
	if got, _ := run(t, h, sess, "GETSET", "7", "43"); got != "$2\r\n42\r\n" {
		t.Errorf("GETSET = %q", got)
	}
	if got, _ := run(t, h, sess, "GETDEL", "7"); got != "$2\r\n43\r\n" {
		t.Errorf("GETDEL = %q", got)
	}
	if got, _ := run(t, h, sess, "GET", "7"); got != "$-1\r\n" {
		t.Errorf("GET after del = %q", got)
	}
}

func TestGetMissingKey(t *testing.T) {
	h := newTestHandler(t, "")
	if got, _ := run(t, h, &session{}, "GET", "999"); got != "$-1\r\n" {
		t.Errorf("GET missing = %q", got)
	}
}

func TestGetSetInsert(t *testing.T) {
	h := newTestHandler(t, "")
	if got, _ := run(t, h, &session{}, "GETSET", "5", "50"); got != "$-1\r\n" {
		t.Errorf("GETSET on new key = %q", got)
	}
}

func TestDelMulti(t *testing.T) {
	h := newTestHandler(t, "")
	sess := &session{}
	run(t, h, sess, "SET", "1", "10")
	run(t, h, sess, "SET", "2", "20")

	if got, _ := run(t, h, sess, "DEL", "1", "2", "3"); got != ":2\r\n" {
		t.Errorf("DEL = %q", got)
	}
}

func TestExistsAndDBSize(t *testing.T) {
	h := newTestHandler(t, "")
	sess := &session{}
	run(t, h, sess, "SET", "1", "10")

	if got, _ := run(t, h, sess, "EXISTS", "1", "2"); got != ":1\r\n" {
		t.Errorf("EXISTS = %q", got)
	}
	if got, _ := run(t, h, sess, "DBSIZE"); got != ":1\r\n" {
		t.Errorf("DBSIZE = %q", got)
	}
}

func TestOpsCounter(t *testing.T) {
	h := newTestHandler(t, "")
	sess := &session{}
	run(t, h, sess, "SET", "1", "10")
	run(t, h, sess, "GET", "1")
	run(t, h, sess, "DEL", "1")

	if got, _ := run(t, h, sess, "GM.OPS"); got != ":3\r\n" {
		t.Errorf("GM.OPS = %q", got)
	}
}

func TestStats(t *testing.T) {
	h := newTestHandler(t, "")
	sess := &session{}
	run(t, h, sess, "SET", "1", "10")
	run(t, h, sess, "SET", "17", "170") // same bucket as 1 with capacity 16

	got, _ := run(t, h, sess, "GM.STATS")
	for _, want := range []string{"capacity:16", "size:2", "max_depth:2", "bucket_1:2"} {
		if !strings.Contains(got, want) {
			t.Errorf("GM.STATS = %q, missing %q", got, want)
		}
	}
	if strings.Contains(got, "bucket_0:") {
		t.Errorf("GM.STATS = %q, lists an empty bucket", got)
	}
}

func TestDump(t *testing.T) {
	h := newTestHandler(t, "")
	sess := &session{}
	run(t, h, sess, "SET", "1", "10")

	got, _ := run(t, h, sess, "GM.DUMP")
	if !strings.Contains(got, "(1,10)") {
		t.Errorf("GM.DUMP = %q", got)
	}
}

func TestNonIntegerArgs(t *testing.T) {
	h := newTestHandler(t, "")
	sess := &session{}

	for _, args := range [][]string{
		{"GET", "abc"},
		{"SET", "1", "xyz"},
		{"SET", "foo", "1"},
		{"DEL", "1.5"},
	} {
		got, _ := run(t, h, sess, args...)
		if !strings.Contains(got, "GM-KV-4003") {
			t.Errorf("%v = %q, want GM-KV-4003 error", args, got)
		}
	}
}

func TestReservedValueRejected(t *testing.T) {
	h := newTestHandler(t, "")
	got, _ := run(t, h, &session{}, "SET", "1", "9223372036854775807")
	if !strings.Contains(got, "GM-KV-4001") {
		t.Errorf("SET sentinel = %q, want GM-KV-4001 error", got)
	}
}

func TestWrongArity(t *testing.T) {
	h := newTestHandler(t, "")
	got, _ := run(t, h, &session{}, "SET", "1")
	if !strings.Contains(got, "wrong number of arguments") {
		t.Errorf("SET with 1 arg = %q", got)
	}
}

func TestUnknownCommand(t *testing.T) {
	h := newTestHandler(t, "")
	got, _ := run(t, h, &session{}, "FLUSHALL")
	if !strings.Contains(got, "unknown command") {
		t.Errorf("FLUSHALL = %q", got)
	}
}

func TestQuit(t *testing.T) {
	h := newTestHandler(t, "")
	got, closeConn := run(t, h, &session{}, "QUIT")
	if got != "+OK\r\n" || !closeConn {
		t.Errorf("QUIT = %q, closeConn = %v", got, closeConn)
	}
}

func TestAuth(t *testing.T) {
	h := newTestHandler(t, "sekrit")
	sess := &session{}

	// Data commands are blocked before AUTH.
	if got, _ := run(t, h, sess, "GET", "1"); !strings.HasPrefix(got, "-NOAUTH") {
		t.Errorf("GET before auth = %q", got)
	}
	// PING is allowed pre-auth.
	if got, _ := run(t, h, sess, "PING"); got != "+PONG\r\n" {
		t.Errorf("PING before auth = %q", got)
	}
	if got, _ := run(t, h, sess, "AUTH", "wrong"); !strings.HasPrefix(got, "-WRONGPASS") {
		t.Errorf("AUTH wrong = %q", got)
	}
	if got, _ := run(t, h, sess, "AUTH", "sekrit"); got != "+OK\r\n" {
		t.Errorf("AUTH = %q", got)
	}
	if got, _ := run(t, h, sess, "SET", "1", "10"); got != "+OK\r\n" {
		t.Errorf("SET after auth = %q", got)
	}
}

func TestAuthWithoutPassword(t *testing.T) {
	h := newTestHandler(t, "")
	got, _ := run(t, h, &session{}, "AUTH", "anything")
	if !strings.Contains(got, "no password is set") {
		t.Errorf("AUTH = %q", got)
	}
}
