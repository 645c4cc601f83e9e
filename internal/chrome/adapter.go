// Package chrome drives an out-of-process browser shell over the framed
// transport, presenting it to the dispatch loop as a rendering surface.
package chrome

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pytrondev/pytron/internal/bridge"
	"github.com/pytrondev/pytron/internal/chromeipc"
	"github.com/pytrondev/pytron/internal/shell"
)

// Options are the window parameters delivered with the init action.
type Options struct {
	Debug       bool   `json:"debug"`
	Root        string `json:"root"`
	Title       string `json:"title"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Resizable   bool   `json:"resizable"`
	Frameless   bool   `json:"frameless"`
	StartHidden bool   `json:"start_hidden"`
	Center      bool   `json:"center"`
}

// action is one outbound control message for the shell process.
type action map[string]any

// Adapter owns the shell process lifecycle and translates surface operations
// into action messages. Outbound actions queue until the shell reports
// app_ready, then flush in submission order.
type Adapter struct {
	logger    *slog.Logger
	transport *chromeipc.Transport
	pending   *bridge.Pending
	router    *bridge.Router
	opts      Options

	events chan shell.Event
	ready  atomic.Bool

	queueMu sync.Mutex
	queued  []action

	proc *exec.Cmd
}

// messageBoxWait bounds the modal round-trip to the shell process.
const messageBoxWait = 5 * time.Minute

// New builds an adapter over an unbound transport.
func New(logger *slog.Logger, transport *chromeipc.Transport, pending *bridge.Pending, opts Options) *Adapter {
	return &Adapter{
		logger:    logger,
		transport: transport,
		pending:   pending,
		opts:      opts,
		events:    make(chan shell.Event, 4),
	}
}

// AttachRouter wires the envelope router. Must happen before Start.
func (a *Adapter) AttachRouter(r *bridge.Router) {
	a.router = r
}

// Start listens, spawns the shell binary, and begins the accept/read cycle in
// the background. Initialization failure is fatal and reported synchronously.
func (a *Adapter) Start(ctx context.Context, binary string) error {
	addr, err := a.transport.Listen("")
	if err != nil {
		return fmt.Errorf("start chrome engine: %w", err)
	}

	// init must be the first flushed action.
	a.enqueue(action{"action": "init", "options": a.opts})

	cmd := exec.CommandContext(ctx, binary,
		fmt.Sprintf("--pytron-pipe=%s", addr),
		fmt.Sprintf("--pytron-root=%s", a.opts.Root),
	)
	if a.opts.Debug {
		cmd.Args = append(cmd.Args, "--inspect")
	}
	cmd.Dir = a.opts.Root

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("start chrome engine: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("start chrome engine: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("spawn shell process %s: %w", binary, err)
	}
	a.proc = cmd
	a.logger.Info("shell process spawned", "binary", binary, "pipe", addr)

	go a.proxyLogs(stdout, "stdout")
	go a.proxyLogs(stderr, "stderr")

	// The accept can block indefinitely; it never runs on the shell thread.
	go func() {
		if err := a.transport.WaitForConnection(ctx); err != nil {
			a.logger.Error("shell process never connected", "error", err.Error())
			return
		}
		if err := a.transport.StartReadLoop(a.onMessage); err != nil {
			a.logger.Error("start read loop", "error", err.Error())
		}
	}()
	return nil
}

// Close tears the engine down: close action, transport, process.
func (a *Adapter) Close() {
	a.write(action{"action": "close"})
	_ = a.transport.Close()
	if a.proc != nil && a.proc.Process != nil {
		_ = a.proc.Process.Kill()
	}
}

// onMessage routes one inbound frame: lifecycle control, correlated result,
// or a bridge envelope from the page.
func (a *Adapter) onMessage(msg string) {
	var probe struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
		ID      string          `json:"id"`
		Status  int             `json:"status"`
		Method  string          `json:"method"`
	}
	if err := json.Unmarshal([]byte(msg), &probe); err != nil {
		a.logger.Debug("drop undecodable ipc message", "error", err.Error())
		return
	}

	switch probe.Type {
	case "lifecycle":
		var payload string
		_ = json.Unmarshal(probe.Payload, &payload)
		a.onLifecycle(payload)

	case "result":
		a.pending.Settle(probe.ID, probe.Status, string(probe.Payload))

	default:
		if probe.Method != "" && a.router != nil {
			a.router.Route([]byte(msg))
			return
		}
		a.logger.Debug("unknown ipc message", "type", probe.Type)
	}
}

func (a *Adapter) onLifecycle(payload string) {
	switch payload {
	case "app_ready":
		a.logger.Info("shell handshake received, flushing queue")
		a.ready.Store(true)
		a.flush()
	case "close_requested":
		select {
		case a.events <- shell.EventCloseRequested:
		default:
		}
	default:
		a.logger.Debug("lifecycle", "payload", payload)
	}
}

func (a *Adapter) enqueue(msg action) {
	a.queueMu.Lock()
	a.queued = append(a.queued, msg)
	a.queueMu.Unlock()
}

// flush drains the pre-ready queue in order.
func (a *Adapter) flush() {
	a.queueMu.Lock()
	queued := a.queued
	a.queued = nil
	a.queueMu.Unlock()

	a.logger.Info("flushing queued actions", "count", len(queued))
	for _, msg := range queued {
		a.write(msg)
	}
}

// send delivers one action, queueing until the handshake completes. The ready
// check happens under the queue lock: flush drains under the same lock after
// ready flips, so an enqueue either lands before the drain or sees ready set.
func (a *Adapter) send(msg action) {
	a.queueMu.Lock()
	if !a.ready.Load() {
		a.queued = append(a.queued, msg)
		a.queueMu.Unlock()
		return
	}
	a.queueMu.Unlock()
	a.write(msg)
}

func (a *Adapter) write(msg action) {
	data, err := json.Marshal(msg)
	if err != nil {
		a.logger.Debug("encode action", "error", err.Error())
		return
	}
	if err := a.transport.Send(string(data)); err != nil {
		a.logger.Debug("drop action, shell not connected", "action", msg["action"])
	}
}

func (a *Adapter) proxyLogs(r io.Reader, stream string) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.Contains(line, "DevTools listening on") {
			continue
		}
		if stream == "stdout" {
			a.logger.Debug("shell process", "line", line)
		} else {
			a.logger.Warn("shell process", "line", line)
		}
	}
}
