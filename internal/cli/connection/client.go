package connection

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"
)

// ErrServer wraps error replies ("-ERR ...") from the server.
var ErrServer = errors.New("server error")

// Reply is one parsed RESP reply.
type Reply struct {
	// Null is true for the null bulk reply ("$-1").
	Null bool

	// Str holds simple-string and bulk payloads.
	Str string

	// Int holds integer replies.
	Int int64

	// IsInt distinguishes a ":0" reply from an empty simple string.
	IsInt bool

	// Elems holds array replies.
	Elems []Reply
}

// Client is a single-connection RESP client.
type Client struct {
	conn    net.Conn
	r       *bufio.Reader
	w       *bufio.Writer
	timeout time.Duration
}

// Dial connects to a gridmap-server. timeout bounds the dial and every
// subsequent command round-trip; zero means no deadline.
func Dial(addr string, timeout time.Duration) (*Client, error) {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	return &Client{
		conn:    conn,
		r:       bufio.NewReader(conn),
		w:       bufio.NewWriter(conn),
		timeout: timeout,
	}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Do sends one command and reads its reply. An error reply from the
// server is returned as an error wrapping ErrServer.
func (c *Client) Do(args ...string) (Reply, error) {
	if len(args) == 0 {
		return Reply{}, errors.New("empty command")
	}
	if c.timeout > 0 {
		_ = c.conn.SetDeadline(time.Now().Add(c.timeout))
	}

	if err := c.writeCommand(args); err != nil {
		return Reply{}, err
	}
	return readReply(c.r)
}

// Auth authenticates the connection.
func (c *Client) Auth(password string) error {
	_, err := c.Do("AUTH", password)
	return err
}

func (c *Client) writeCommand(args []string) error {
	if _, err := fmt.Fprintf(c.w, "*%d\r\n", len(args)); err != nil {
		return err
	}
	for _, a := range args {
		if _, err := fmt.Fprintf(c.w, "$%d\r\n%s\r\n", len(a), a); err != nil {
			return err
		}
	}
	return c.w.Flush()
}

func readReply(r *bufio.Reader) (Reply, error) {
	line, err := readLine(r)
	if err != nil {
		return Reply{}, err
	}
	if line == "" {
		return Reply{}, errors.New("empty reply")
	}

	payload := line[1:]
	switch line[0] {
	case '+':
		return Reply{Str: payload}, nil
	case '-':
		return Reply{}, fmt.Errorf("%w: %s", ErrServer, payload)
	case ':':
		n, err := strconv.ParseInt(payload, 10, 64)
		if err != nil {
			return Reply{}, fmt.Errorf("invalid integer reply %q", payload)
		}
		return Reply{Int: n, IsInt: true}, nil
	case '$':
		n, err := strconv.Atoi(payload)
		if err != nil {
			return Reply{}, fmt.Errorf("invalid bulk length %q", payload)
		}
		if n == -1 {
			return Reply{Null: true}, nil
		}
		buf := make([]byte, n+2)
		if _, err := io.ReadFull(r, buf); err != nil {
			return Reply{}, err
		}
		if !strings.HasSuffix(string(buf), "\r\n") {
			return Reply{}, errors.New("invalid bulk terminator")
		}
		return Reply{Str: string(buf[:n])}, nil
	case '*':
		n, err := strconv.Atoi(payload)
		if err != nil {
			return Reply{}, fmt.Errorf("invalid array length %q", payload)
		}
		if n == -1 {
			return Reply{Null: true}, nil
		}
		elems := make([]Reply, 0, n)
		for i := 0; i < n; i++ {
			e, err := readReply(r)
			if err != nil {
				return Reply{}, err
			}
			elems = append(elems, e)
		}
		return Reply{Elems: elems}, nil
	default:
		return Reply{}, fmt.Errorf("unknown reply type %q", line[0])
	}
}

func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		return "", err
	}
	if !strings.HasSuffix(line, "\r\n") {
		return "", errors.New("missing CRLF")
	}
	return strings.TrimSuffix(line, "\r\n"), nil
}
