package shell

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pytrondev/pytron/internal/bridge"
	"github.com/pytrondev/pytron/internal/command"
	"github.com/pytrondev/pytron/internal/fsm"
	"github.com/pytrondev/pytron/internal/registry"
)

// recordingSurface captures every surface operation in arrival order.
type recordingSurface struct {
	mu     sync.Mutex
	ops    []string
	events chan Event

	messageBoxResult bool
}

func newRecordingSurface() *recordingSurface {
	return &recordingSurface{events: make(chan Event, 4), messageBoxResult: true}
}

func (r *recordingSurface) record(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, fmt.Sprintf(format, args...))
}

func (r *recordingSurface) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.ops...)
}

func (r *recordingSurface) contains(substr string) bool {
	for _, op := range r.snapshot() {
		if op == substr {
			return true
		}
	}
	return false
}

func (r *recordingSurface) Eval(script string)           { r.record("eval:%s", script) }
func (r *recordingSurface) Navigate(url string)          { r.record("navigate:%s", url) }
func (r *recordingSurface) SetTitle(title string)        { r.record("title:%s", title) }
func (r *recordingSurface) SetSize(w, h int)             { r.record("size:%dx%d", w, h) }
func (r *recordingSurface) SetVisible(v bool)            { r.record("visible:%t", v) }
func (r *recordingSurface) Minimize()                    { r.record("minimize") }
func (r *recordingSurface) SetMaximized(v bool)          { r.record("maximized:%t", v) }
func (r *recordingSurface) SetFullscreen(v bool)         { r.record("fullscreen:%t", v) }
func (r *recordingSurface) SetAlwaysOnTop(v bool)        { r.record("ontop:%t", v) }
func (r *recordingSurface) SetResizable(v bool)          { r.record("resizable:%t", v) }
func (r *recordingSurface) SetDecorations(v bool)        { r.record("decorations:%t", v) }
func (r *recordingSurface) Center()                      { r.record("center") }
func (r *recordingSurface) Drag()                        { r.record("drag") }
func (r *recordingSurface) Notify(title, msg string)     { r.record("notify:%s/%s", title, msg) }
func (r *recordingSurface) SetProgress(s, v, m int)      { r.record("progress:%d/%d/%d", s, v, m) }
func (r *recordingSurface) CreateTray(icon, tip string)  { r.record("tray:%s/%s", icon, tip) }
func (r *recordingSurface) OpenExternal(url string)      { r.record("open:%s", url) }
func (r *recordingSurface) Events() <-chan Event         { return r.events }
func (r *recordingSurface) MessageBox(t, m, l string) bool {
	r.record("messagebox:%s/%s/%s", t, m, l)
	return r.messageBoxResult
}

func startShell(t *testing.T) (*Shell, *recordingSurface) {
	t.Helper()

	surface := newRecordingSurface()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sh := New(logger, surface, registry.New())

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go sh.Run(ctx)

	t.Cleanup(func() {
		sh.Quit()
		select {
		case <-sh.Done():
		case <-time.After(2 * time.Second):
			t.Fatal("shell did not stop")
		}
	})
	return sh, surface
}

func waitFor(t *testing.T, surface *recordingSurface, op string) {
	t.Helper()
	require.Eventually(t, func() bool {
		return surface.contains(op)
	}, 2*time.Second, 5*time.Millisecond, "missing op %q in %v", op, surface.snapshot())
}

func TestQuitTerminatesLoop(t *testing.T) {
	surface := newRecordingSurface()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sh := New(logger, surface, nil)

	go sh.Run(context.Background())
	sh.Quit()

	select {
	case <-sh.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("shell did not stop")
	}
	require.Equal(t, fsm.StateTerminated, sh.State())
}

func TestSubmitAfterStopIsNoop(t *testing.T) {
	sh := New(slog.New(slog.NewTextHandler(io.Discard, nil)), nil, nil)
	go sh.Run(context.Background())
	sh.Quit()
	<-sh.Done()

	// Must neither block nor panic.
	for i := 0; i < queueCapacity*2; i++ {
		sh.Submit(command.SetTitle{Title: "late"})
	}
}

func TestContextCancelStopsLoop(t *testing.T) {
	sh := New(slog.New(slog.NewTextHandler(io.Discard, nil)), nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	go sh.Run(ctx)
	cancel()

	select {
	case <-sh.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("shell did not stop")
	}
	require.Equal(t, fsm.StateTerminated, sh.State())
}

func TestWindowCommandsReachSurface(t *testing.T) {
	sh, surface := startShell(t)

	sh.Submit(command.SetTitle{Title: "Hello"})
	sh.Submit(command.SetSize{Width: 640, Height: 480})
	sh.Submit(command.Navigate{URL: "http://127.0.0.1/index.html"})
	sh.Submit(command.Minimize{})
	sh.Submit(command.SetMaximized{Maximized: true})
	sh.Submit(command.SetFullscreen{Fullscreen: true})
	sh.Submit(command.SetAlwaysOnTop{OnTop: true})
	sh.Submit(command.SetResizable{Resizable: false})
	sh.Submit(command.SetDecorations{Decorated: false})
	sh.Submit(command.Center{})
	sh.Submit(command.Drag{})
	sh.Submit(command.Notification{Title: "T", Message: "M"})
	sh.Submit(command.TaskbarProgress{State: 1, Value: 5, Max: 10})
	sh.Submit(command.OpenExternal{URL: "https://example.com"})

	waitFor(t, surface, "title:Hello")
	waitFor(t, surface, "size:640x480")
	waitFor(t, surface, "navigate:http://127.0.0.1/index.html")
	waitFor(t, surface, "minimize")
	waitFor(t, surface, "maximized:true")
	waitFor(t, surface, "fullscreen:true")
	waitFor(t, surface, "ontop:true")
	waitFor(t, surface, "resizable:false")
	waitFor(t, surface, "decorations:false")
	waitFor(t, surface, "center")
	waitFor(t, surface, "drag")
	waitFor(t, surface, "notify:T/M")
	waitFor(t, surface, "progress:1/5/10")
	waitFor(t, surface, "open:https://example.com")
}

func TestVisibilityDrivesLifecycle(t *testing.T) {
	sh, surface := startShell(t)
	require.Equal(t, fsm.StateCreated, sh.State())

	sh.Submit(command.SetVisible{Visible: true})
	waitFor(t, surface, "visible:true")
	require.Equal(t, fsm.StateVisible, sh.State())

	sh.Submit(command.SetVisible{Visible: false})
	waitFor(t, surface, "visible:false")
	require.Equal(t, fsm.StateHidden, sh.State())
}

func TestBindInstallsStubAndCallRoundTrip(t *testing.T) {
	sh, surface := startShell(t)

	done := make(chan struct{})
	sh.Bind("add", func(seq, args string) {
		require.Equal(t, "abc123", seq)
		require.Equal(t, "[2,3]", args)
		sh.Return(seq, 0, "5")
		close(done)
	})

	waitFor(t, surface, "eval:"+bridge.BindStub("add"))

	fn, ok := sh.Registry().Lookup("add")
	require.True(t, ok)
	sh.Submit(command.Call{Fn: fn, Seq: "abc123", Method: "add", Args: "[2,3]"})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("callable never ran")
	}
	waitFor(t, surface, "eval:"+bridge.ReturnScript("abc123", 0, "5"))
}

func TestPreventCloseInterceptsWindowClose(t *testing.T) {
	sh, surface := startShell(t)

	intercepted := make(chan struct{}, 1)
	sh.Registry().Bind(registry.OnCloseMethod, func(seq, args string) {
		require.Empty(t, seq)
		require.Equal(t, "[]", args)
		intercepted <- struct{}{}
	})

	sh.Submit(command.SetPreventClose{Prevent: true})
	// Flush so the flag is applied before the event lands.
	sh.Submit(command.SetTitle{Title: "flush"})
	waitFor(t, surface, "title:flush")

	surface.events <- EventCloseRequested

	select {
	case <-intercepted:
	case <-time.After(2 * time.Second):
		t.Fatal("close was not intercepted")
	}

	select {
	case <-sh.Done():
		t.Fatal("shell stopped despite prevent-close")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestUninterceptedCloseTerminates(t *testing.T) {
	surface := newRecordingSurface()
	sh := New(slog.New(slog.NewTextHandler(io.Discard, nil)), surface, nil)
	go sh.Run(context.Background())

	surface.events <- EventCloseRequested

	select {
	case <-sh.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("shell did not stop on close request")
	}
	require.Equal(t, fsm.StateTerminated, sh.State())
}

func TestTrayClickResolvesAtDispatchTime(t *testing.T) {
	sh, surface := startShell(t)

	sh.Submit(command.CreateTray{IconPath: "icon.png", Tooltip: "tip"})
	waitFor(t, surface, "tray:icon.png/tip")

	// No binding yet: the click is dropped without error.
	sh.Submit(command.TrayClick{ID: "1000"})
	sh.Submit(command.SetTitle{Title: "flush1"})
	waitFor(t, surface, "title:flush1")

	clicks := make(chan string, 1)
	sh.Registry().Bind(registry.TrayClickMethod, func(seq, args string) {
		require.Equal(t, "[]", args)
		clicks <- seq
	})

	sh.Submit(command.TrayClick{ID: "1001"})
	select {
	case id := <-clicks:
		require.Equal(t, "1001", id)
	case <-time.After(2 * time.Second):
		t.Fatal("tray click never dispatched")
	}
}

func TestMessageBoxDeliversCorrelatedResult(t *testing.T) {
	sh, surface := startShell(t)
	surface.messageBoxResult = true

	sh.Submit(command.MessageBox{Title: "T", Message: "M", Level: "info", Seq: "seq42"})
	waitFor(t, surface, "messagebox:T/M/info")
	waitFor(t, surface, "eval:"+bridge.ReturnScript("seq42", 0, "true"))
}

func TestMessageBoxWithoutSeqSkipsResult(t *testing.T) {
	sh, surface := startShell(t)

	sh.Submit(command.MessageBox{Title: "T", Message: "M", Level: "info"})
	waitFor(t, surface, "messagebox:T/M/info")

	sh.Submit(command.SetTitle{Title: "flush"})
	waitFor(t, surface, "title:flush")

	for _, op := range surface.snapshot() {
		require.NotContains(t, op, "_rpc")
	}
}
