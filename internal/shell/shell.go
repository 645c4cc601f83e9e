// Package shell runs the command bus: one goroutine owning all window, view,
// and tray state, fed by an asynchronous fire-and-forget queue.
package shell

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/pytrondev/pytron/internal/bridge"
	"github.com/pytrondev/pytron/internal/command"
	"github.com/pytrondev/pytron/internal/fsm"
	"github.com/pytrondev/pytron/internal/registry"
)

// queueCapacity bounds the submission queue. Submissions beyond it are dropped
// with a warning, the bounded rendering of the original's best-effort channel.
const queueCapacity = 256

// overlay tracks window flags independent of the lifecycle state.
type overlay struct {
	minimized   bool
	maximized   bool
	fullscreen  bool
	alwaysOnTop bool
}

// Shell serializes every shell-state mutation onto the goroutine running Run.
// Producers on any thread call Submit; nothing else touches the surface.
type Shell struct {
	logger   *slog.Logger
	surface  Surface
	registry *registry.Registry

	queue    chan command.Command
	done     chan struct{}
	stopOnce sync.Once

	mu    sync.RWMutex
	state fsm.State

	// Owned by the dispatch loop after Run starts.
	flags        overlay
	preventClose bool
	trayActive   bool
}

// New constructs a shell around a surface and a callback registry. A nil
// surface gets a noop fallback.
func New(logger *slog.Logger, surface Surface, reg *registry.Registry) *Shell {
	if surface == nil {
		surface = noopSurface{}
	}
	if reg == nil {
		reg = registry.New()
	}
	return &Shell{
		logger:   logger,
		surface:  surface,
		registry: reg,
		queue:    make(chan command.Command, queueCapacity),
		done:     make(chan struct{}),
		state:    fsm.StateCreated,
	}
}

// Registry returns the shared callback registry.
func (s *Shell) Registry() *registry.Registry {
	return s.registry
}

// State returns the current lifecycle snapshot.
func (s *Shell) State() fsm.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Done closes when the dispatch loop has terminated.
func (s *Shell) Done() <-chan struct{} {
	return s.done
}

// Submit enqueues one command, non-blocking and fire-and-forget. After the
// loop terminates, or when the queue is full, the command is silently dropped.
func (s *Shell) Submit(cmd command.Command) {
	select {
	case <-s.done:
		return
	default:
	}

	select {
	case s.queue <- cmd:
	case <-s.done:
	default:
		s.logger.Warn("command queue full, dropping", "command", fmt.Sprintf("%T", cmd))
	}
}

// Bind registers a host callable, immediately visible to lookups, and
// asynchronously installs the rendering-side forwarding stub.
func (s *Shell) Bind(name string, fn registry.Callback) {
	s.registry.Bind(name, fn)
	s.Submit(command.Bind{Name: name})
}

// Return settles a pending rendering-side continuation from any goroutine.
func (s *Shell) Return(seq string, status int, result string) {
	s.Submit(command.Return{Seq: seq, Status: status, Result: result})
}

// Quit asks the dispatch loop to stop.
func (s *Shell) Quit() {
	s.Submit(command.Quit{})
}

// Run executes the dispatch loop until Quit, an unintercepted close request,
// or context cancellation. It blocks; the calling goroutine becomes the shell
// thread and the sole owner of surface state.
func (s *Shell) Run(ctx context.Context) {
	defer s.stop()

	for {
		select {
		case <-ctx.Done():
			s.transition(fsm.EventTerminate)
			return
		case ev := <-s.surface.Events():
			if s.handleWindowEvent(ev) {
				return
			}
		case cmd := <-s.queue:
			if s.apply(cmd) {
				return
			}
		}
	}
}

func (s *Shell) stop() {
	s.stopOnce.Do(func() { close(s.done) })
}

// transition applies one lifecycle event; invalid transitions are ignored,
// consistent with swallowed per-command failures.
func (s *Shell) transition(event fsm.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := fsm.Transition(s.state, event)
	if err != nil {
		s.logger.Debug("lifecycle transition ignored", "error", err.Error())
		return
	}
	s.state = next
}

// handleWindowEvent reacts to a surface notification; true means terminate.
func (s *Shell) handleWindowEvent(ev Event) bool {
	switch ev {
	case EventCloseRequested:
		if s.preventClose {
			// Resolved at dispatch time so late rebinding is honored.
			if fn, ok := s.registry.Lookup(registry.OnCloseMethod); ok {
				fn("", "[]")
			}
			return false
		}
		s.transition(fsm.EventTerminate)
		return true
	}
	return false
}

// apply executes exactly one command; true means terminate. Every variant of
// the command set is handled here, with no default arm that could swallow a
// new variant.
func (s *Shell) apply(cmd command.Command) bool {
	switch c := cmd.(type) {
	case command.Quit:
		s.transition(fsm.EventTerminate)
		return true

	case command.Eval:
		s.surface.Eval(c.Script)

	case command.Bind:
		s.surface.Eval(bridge.BindStub(c.Name))

	case command.Call:
		s.logger.Debug("bridge dispatch", "method", c.Method, "seq", c.Seq)
		// Synchronous by contract; a blocking callable stalls the shell.
		c.Fn(c.Seq, c.Args)

	case command.Return:
		s.surface.Eval(bridge.ReturnScript(c.Seq, c.Status, c.Result))

	case command.SetTitle:
		s.surface.SetTitle(c.Title)

	case command.SetSize:
		s.surface.SetSize(c.Width, c.Height)

	case command.Navigate:
		s.logger.Debug("navigate", "url", c.URL)
		s.surface.Navigate(c.URL)

	case command.SetVisible:
		if c.Visible {
			s.transition(fsm.EventShow)
			s.flags.minimized = false
		} else {
			s.transition(fsm.EventHide)
		}
		s.surface.SetVisible(c.Visible)

	case command.Minimize:
		s.flags.minimized = true
		s.surface.Minimize()

	case command.SetMaximized:
		s.flags.maximized = c.Maximized
		s.surface.SetMaximized(c.Maximized)

	case command.Drag:
		s.surface.Drag()

	case command.SetAlwaysOnTop:
		s.flags.alwaysOnTop = c.OnTop
		s.surface.SetAlwaysOnTop(c.OnTop)

	case command.SetResizable:
		s.surface.SetResizable(c.Resizable)

	case command.SetFullscreen:
		s.flags.fullscreen = c.Fullscreen
		s.surface.SetFullscreen(c.Fullscreen)

	case command.Center:
		s.surface.Center()

	case command.SetDecorations:
		s.surface.SetDecorations(c.Decorated)

	case command.SetPreventClose:
		s.preventClose = c.Prevent

	case command.Notification:
		s.surface.Notify(c.Title, c.Message)

	case command.TaskbarProgress:
		s.surface.SetProgress(c.State, c.Value, c.Max)

	case command.CreateTray:
		s.surface.CreateTray(c.IconPath, c.Tooltip)
		s.trayActive = true

	case command.TrayClick:
		// Resolved at dispatch time so late rebinding is honored.
		if fn, ok := s.registry.Lookup(registry.TrayClickMethod); ok {
			fn(c.ID, "[]")
		}

	case command.MessageBox:
		accepted := s.surface.MessageBox(c.Title, c.Message, c.Level)
		if c.Seq != "" {
			result := "false"
			if accepted {
				result = "true"
			}
			s.surface.Eval(bridge.ReturnScript(c.Seq, 0, result))
		}

	case command.OpenExternal:
		s.logger.Debug("open external", "url", c.URL)
		s.surface.OpenExternal(c.URL)
	}
	return false
}
