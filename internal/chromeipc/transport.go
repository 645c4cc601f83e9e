package chromeipc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"unicode/utf8"

	"github.com/google/uuid"
)

// ErrNotConnected reports a send or read-loop start before a peer attached.
var ErrNotConnected = errors.New("chromeipc: not connected")

// ErrNotListening reports accept before Listen.
var ErrNotListening = errors.New("chromeipc: not listening")

// Transport is one listen/accept/read/send cycle over a platform duplex
// channel. Lifecycle: Unbound → Listening → Connected → Closed; the connected
// flag is the single state shared by the reader loop, Send, and accept. There
// is no reconnect: a failed connection requires a fresh Transport.
type Transport struct {
	logger   *slog.Logger
	maxFrame uint32

	ep        endpoint
	addr      string
	connected atomic.Bool

	writeMu sync.Mutex
	connMu  sync.Mutex
	conn    io.ReadWriteCloser
}

// Option adjusts transport construction.
type Option func(*Transport)

// WithMaxFrame overrides the declared-length cap.
func WithMaxFrame(n uint32) Option {
	return func(t *Transport) {
		if n > 0 {
			t.maxFrame = n
		}
	}
}

// New returns an unbound transport.
func New(logger *slog.Logger, opts ...Option) *Transport {
	t := &Transport{
		logger:   logger,
		maxFrame: DefaultMaxFrame,
		ep:       newEndpoint(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Listen allocates the duplex endpoint named from sessionID and returns its
// externally addressable name. An empty sessionID gets a fresh uuid.
func (t *Transport) Listen(sessionID string) (string, error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	addr, err := t.ep.listen(sessionID)
	if err != nil {
		return "", fmt.Errorf("listen session %s: %w", sessionID, err)
	}
	t.addr = addr
	t.logger.Info("ipc listening", "addr", addr)
	return addr, nil
}

// Addr returns the endpoint name from Listen, empty while unbound.
func (t *Transport) Addr() string {
	return t.addr
}

// Connected reports whether a peer is currently attached.
func (t *Transport) Connected() bool {
	return t.connected.Load()
}

// WaitForConnection blocks until a peer attaches or ctx ends. It must run off
// the shell thread; the accept can block indefinitely.
func (t *Transport) WaitForConnection(ctx context.Context) error {
	if t.addr == "" {
		return ErrNotListening
	}

	conn, err := t.ep.accept(ctx)
	if err != nil {
		return fmt.Errorf("accept connection: %w", err)
	}

	t.connMu.Lock()
	t.conn = conn
	t.connMu.Unlock()
	t.connected.Store(true)
	t.logger.Info("ipc peer connected", "addr", t.addr)
	return nil
}

// StartReadLoop launches the background reader, invoking fn once per complete
// frame. Any framing or decode failure ends the loop and clears the connected
// flag; clearing the flag externally also ends it.
func (t *Transport) StartReadLoop(fn func(msg string)) error {
	if !t.connected.Load() {
		return ErrNotConnected
	}
	go t.readLoop(fn)
	return nil
}

func (t *Transport) readLoop(fn func(msg string)) {
	t.connMu.Lock()
	conn := t.conn
	t.connMu.Unlock()

	for t.connected.Load() {
		body, err := ReadFrame(conn, t.maxFrame)
		if err != nil {
			if t.connected.Load() {
				t.logger.Warn("ipc read loop ended", "error", err.Error())
			}
			break
		}
		if !utf8.Valid(body) {
			t.logger.Warn("ipc frame is not valid utf-8, dropping connection")
			break
		}
		fn(string(body))
	}
	t.connected.Store(false)
}

// Send writes payload as one frame. It fails only when no peer is connected;
// write failures degrade the connection and are otherwise swallowed, matching
// the fire-and-forget contract.
func (t *Transport) Send(payload string) error {
	if !t.connected.Load() {
		return ErrNotConnected
	}

	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	t.connMu.Lock()
	conn := t.conn
	t.connMu.Unlock()
	if conn == nil {
		return ErrNotConnected
	}

	if err := WriteFrame(conn, []byte(payload)); err != nil {
		t.logger.Warn("ipc send failed", "error", err.Error())
		t.connected.Store(false)
	}
	return nil
}

// Close tears the connection down and releases the endpoint.
func (t *Transport) Close() error {
	t.connected.Store(false)

	t.connMu.Lock()
	conn := t.conn
	t.conn = nil
	t.connMu.Unlock()

	var errs []error
	if conn != nil {
		if err := conn.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := t.ep.close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
