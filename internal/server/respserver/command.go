package respserver

import (
	"bufio"
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/yndnr/gridmap-go/internal/core/domain"
	"github.com/yndnr/gridmap-go/internal/core/service"
	"github.com/yndnr/gridmap-go/internal/telemetry/logger"
)

// session tracks per-connection protocol state.
type session struct {
	authenticated bool
}

// Handler dispatches parsed RESP commands to the KV service.
//
// @req FR-0401
type Handler struct {
	svc *service.KVService
	log logger.Logger

	requireAuth  bool
	passwordHash [sha256.Size]byte
}

// NewHandler creates a command handler. password may be empty, in which
// case AUTH is not required and is rejected if sent.
func NewHandler(svc *service.KVService, log logger.Logger, password string) *Handler {
	if log == nil {
		log = logger.Default()
	}
	h := &Handler{
		svc: svc,
		log: log,
	}
	if password != "" {
		h.requireAuth = true
		h.passwordHash = sha256.Sum256([]byte(password))
	}
	return h
}

// Handle executes one command and writes the reply to w. It returns true
// when the connection should be closed (QUIT or a protocol-fatal state).
func (h *Handler) Handle(ctx context.Context, w *bufio.Writer, sess *session, args [][]byte) (bool, error) {
	if len(args) == 0 {
		return false, nil
	}

	cmd := strings.ToUpper(string(args[0]))

	switch cmd {
	case "QUIT":
		return true, WriteSimpleString(w, "OK")
	case "PING":
		return false, h.handlePing(w, args)
	case "AUTH":
		return false, h.handleAuth(w, sess, args)
	}

	if h.requireAuth && !sess.authenticated {
		return false, WriteError(w, "NOAUTH Authentication required.")
	}

	switch cmd {
	case "GET":
		return false, h.handleGet(ctx, w, args)
	case "SET":
		return false, h.handleSet(ctx, w, args, false)
	case "GETSET":
		return false, h.handleSet(ctx, w, args, true)
	case "GETDEL":
		return false, h.handleGetDel(ctx, w, args)
	case "DEL":
		return false, h.handleDel(ctx, w, args)
	case "EXISTS":
		return false, h.handleExists(ctx, w, args)
	case "DBSIZE":
		return false, WriteInteger(w, int64(h.svc.Size()))
	case "GM.OPS":
		return false, WriteInteger(w, int64(h.svc.OpCount()))
	case "GM.STATS":
		return false, h.handleStats(w)
	case "GM.DUMP":
		return false, h.handleDump(w)
	default:
		return false, WriteError(w, fmt.Sprintf("ERR unknown command '%s'", sanitize(string(args[0]))))
	}
}

func (h *Handler) handlePing(w *bufio.Writer, args [][]byte) error {
	if len(args) > 2 {
		return wrongArity(w, "ping")
	}
	if len(args) == 2 {
		return WriteBulk(w, args[1])
	}
	return WriteSimpleString(w, "PONG")
}

func (h *Handler) handleAuth(w *bufio.Writer, sess *session, args [][]byte) error {
	if len(args) != 2 {
		return wrongArity(w, "auth")
	}
	if !h.requireAuth {
		return WriteError(w, "ERR Client sent AUTH, but no password is set")
	}

	sum := sha256.Sum256(args[1])
	if subtle.ConstantTimeCompare(sum[:], h.passwordHash[:]) != 1 {
		h.log.Warn("auth failed", "code", domain.ErrInvalidCredentials.Code)
		return WriteError(w, "WRONGPASS invalid password")
	}
	sess.authenticated = true
	return WriteSimpleString(w, "OK")
}

func (h *Handler) handleGet(ctx context.Context, w *bufio.Writer, args [][]byte) error {
	if len(args) != 2 {
		return wrongArity(w, "get")
	}
	key, err := parseInt(args[1])
	if err != nil {
		return writeDomainError(w, err)
	}

	v, err := h.svc.Get(ctx, key)
	if errors.Is(err, domain.ErrKeyNotFound) {
		return WriteNullBulk(w)
	}
	if err != nil {
		return writeDomainError(w, err)
	}
	return WriteBulkString(w, strconv.FormatInt(v, 10))
}

// handleSet stores a value. In getset mode the reply is the previous
// value (or null); otherwise it is +OK.
func (h *Handler) handleSet(ctx context.Context, w *bufio.Writer, args [][]byte, getset bool) error {
	name := "set"
	if getset {
		name = "getset"
	}
	if len(args) != 3 {
		return wrongArity(w, name)
	}
	key, err := parseInt(args[1])
	if err != nil {
		return writeDomainError(w, err)
	}
	value, err := parseInt(args[2])
	if err != nil {
		return writeDomainError(w, err)
	}

	prev, existed, err := h.svc.Set(ctx, key, value)
	if err != nil {
		return writeDomainError(w, err)
	}
	if !getset {
		return WriteSimpleString(w, "OK")
	}
	if !existed {
		return WriteNullBulk(w)
	}
	return WriteBulkString(w, strconv.FormatInt(prev, 10))
}

func (h *Handler) handleGetDel(ctx context.Context, w *bufio.Writer, args [][]byte) error {
	if len(args) != 2 {
		return wrongArity(w, "getdel")
	}
	key, err := parseInt(args[1])
	if err != nil {
		return writeDomainError(w, err)
	}

	v, err := h.svc.Del(ctx, key)
	if errors.Is(err, domain.ErrKeyNotFound) {
		return WriteNullBulk(w)
	}
	if err != nil {
		return writeDomainError(w, err)
	}
	return WriteBulkString(w, strconv.FormatInt(v, 10))
}

func (h *Handler) handleDel(ctx context.Context, w *bufio.Writer, args [][]byte) error {
	if len(args) < 2 {
		return wrongArity(w, "del")
	}
	var removed int64
	for _, raw := range args[1:] {
		key, err := parseInt(raw)
		if err != nil {
			return writeDomainError(w, err)
		}
		if _, err := h.svc.Del(ctx, key); err == nil {
			removed++
		}
	}
	return WriteInteger(w, removed)
}

func (h *Handler) handleExists(ctx context.Context, w *bufio.Writer, args [][]byte) error {
	if len(args) < 2 {
		return wrongArity(w, "exists")
	}
	var present int64
	for _, raw := range args[1:] {
		key, err := parseInt(raw)
		if err != nil {
			return writeDomainError(w, err)
		}
		if h.svc.Exists(ctx, key) {
			present++
		}
	}
	return WriteInteger(w, present)
}

func (h *Handler) handleStats(w *bufio.Writer) error {
	buckets := h.svc.Stats()
	maxDepth := 0
	for _, b := range buckets {
		if b.Depth > maxDepth {
			maxDepth = b.Depth
		}
	}

	lines := []string{
		fmt.Sprintf("capacity:%d", h.svc.Capacity()),
		fmt.Sprintf("size:%d", h.svc.Size()),
		fmt.Sprintf("ops:%d", h.svc.OpCount()),
		fmt.Sprintf("max_depth:%d", maxDepth),
	}
	// Occupied buckets only, so the reply stays small for sparse tables.
	for _, b := range buckets {
		if b.Depth > 0 {
			lines = append(lines, fmt.Sprintf("bucket_%d:%d", b.Index, b.Depth))
		}
	}
	if err := WriteArrayHeader(w, len(lines)); err != nil {
		return err
	}
	for _, line := range lines {
		if err := WriteBulkString(w, line); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handler) handleDump(w *bufio.Writer) error {
	var sb strings.Builder
	if err := h.svc.Dump(&sb); err != nil {
		return writeDomainError(w, err)
	}
	return WriteBulkString(w, sb.String())
}

// parseInt parses a RESP argument as a decimal int64 key or value.
func parseInt(b []byte) (int64, error) {
	n, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return 0, domain.ErrNotInteger.WithDetails(sanitize(string(b)))
	}
	return n, nil
}

func writeDomainError(w *bufio.Writer, err error) error {
	if code := domain.GetErrorCode(err); code != "" {
		var de *domain.DomainError
		if errors.As(err, &de) {
			return WriteError(w, fmt.Sprintf("ERR %s %s", code, de.Message))
		}
	}
	return WriteError(w, "ERR "+sanitize(err.Error()))
}

func wrongArity(w *bufio.Writer, cmd string) error {
	return WriteError(w, fmt.Sprintf("ERR wrong number of arguments for '%s' command", cmd))
}

// sanitize strips CR/LF so client-supplied bytes cannot break protocol framing.
func sanitize(s string) string {
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.ReplaceAll(s, "\n", "")
	if len(s) > 64 {
		s = s[:64]
	}
	return s
}
