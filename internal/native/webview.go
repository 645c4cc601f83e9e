//go:build native

package native

import (
	"log/slog"
	"os"
	"sync"

	"github.com/energye/systray"
	"github.com/sqweek/dialog"
	webview "github.com/webview/webview_go"

	"github.com/pytrondev/pytron/internal/command"
	"github.com/pytrondev/pytron/internal/shell"
)

// Tray menu item ids, matching the default menu of the out-of-process shell.
const (
	trayItemShow = "1000"
	trayItemQuit = "1001"
)

// engine implements Engine over webview_go. Surface calls arrive on the shell
// thread and marshal onto the webview loop via Dispatch; operations the
// toolkit cannot perform are no-ops.
type engine struct {
	logger *slog.Logger
	view   webview.WebView
	events chan shell.Event

	submitMu sync.Mutex
	submit   func(command.Command)
	route    func(raw []byte)

	trayOnce sync.Once
	runOnce  sync.Once
}

var _ Engine = (*engine)(nil)

// New creates the window hidden behind the webview loop. Initialization
// failure is fatal to the caller.
func New(logger *slog.Logger, opts Options) (Engine, error) {
	view := webview.New(opts.Debug)
	if view == nil {
		return nil, ErrUnavailable
	}

	view.SetTitle(opts.Title)
	hint := webview.HintNone
	if !opts.Resizable {
		hint = webview.HintFixed
	}
	view.SetSize(opts.Width, opts.Height, hint)

	e := &engine{
		logger: logger,
		view:   view,
		events: make(chan shell.Event, 4),
	}

	// The bootstrap posts envelopes through window.ipc; route them inward.
	view.Init("window.ipc = { postMessage: (m) => __pytron_ipc_post(m) };")
	if err := view.Bind("__pytron_ipc_post", func(raw string) {
		e.submitMu.Lock()
		route := e.route
		e.submitMu.Unlock()
		if route != nil {
			route([]byte(raw))
		}
	}); err != nil {
		view.Destroy()
		return nil, err
	}

	if opts.URL != "" {
		view.Navigate(opts.URL)
	}
	return e, nil
}

func (e *engine) AttachSubmitter(submit func(command.Command)) {
	e.submitMu.Lock()
	e.submit = submit
	e.submitMu.Unlock()
}

func (e *engine) AttachBridge(route func(raw []byte)) {
	e.submitMu.Lock()
	e.route = route
	e.submitMu.Unlock()
}

func (e *engine) dispatchCommand(cmd command.Command) {
	e.submitMu.Lock()
	submit := e.submit
	e.submitMu.Unlock()
	if submit != nil {
		submit(cmd)
	}
}

// Run blocks in the webview loop. When the loop ends the window is gone, so a
// close request is reported for the dispatch loop to wind down.
func (e *engine) Run() {
	e.runOnce.Do(func() {
		defer e.view.Destroy()
		e.view.Run()
		select {
		case e.events <- shell.EventCloseRequested:
		default:
		}
	})
}

func (e *engine) Terminate() {
	e.view.Dispatch(func() { e.view.Terminate() })
}

func (e *engine) Eval(script string) {
	e.view.Dispatch(func() { e.view.Eval(script) })
}

func (e *engine) Navigate(url string) {
	e.view.Dispatch(func() { e.view.Navigate(url) })
}

func (e *engine) SetTitle(title string) {
	e.view.Dispatch(func() { e.view.SetTitle(title) })
}

func (e *engine) SetSize(width, height int) {
	e.view.Dispatch(func() { e.view.SetSize(width, height, webview.HintNone) })
}

// webview_go exposes no visibility, placement, or decoration control; these
// are platform no-ops here and fully supported by the chrome engine.
func (e *engine) SetVisible(bool)     {}
func (e *engine) Minimize()           {}
func (e *engine) SetMaximized(bool)   {}
func (e *engine) SetFullscreen(bool)  {}
func (e *engine) SetAlwaysOnTop(bool) {}
func (e *engine) SetDecorations(bool) {}
func (e *engine) Center()             {}
func (e *engine) Drag()               {}

func (e *engine) SetResizable(resizable bool) {
	hint := webview.HintNone
	if !resizable {
		hint = webview.HintFixed
	}
	e.view.Dispatch(func() { e.view.SetSize(0, 0, hint) })
}

func (e *engine) Notify(title, message string) {
	if err := desktopNotify(title, message); err != nil {
		e.logger.Debug("notification failed", "error", err.Error())
	}
}

func (e *engine) SetProgress(state, value, max int) {
	// No portable taskbar progress; the chrome engine covers this.
	e.logger.Debug("taskbar progress unsupported", "state", state, "value", value, "max", max)
}

func (e *engine) MessageBox(title, message, level string) bool {
	switch level {
	case "error":
		dialog.Message("%s", message).Title(title).Error()
	default:
		dialog.Message("%s", message).Title(title).Info()
	}
	return true
}

// CreateTray installs the tray icon with the default Show/Quit menu. Clicks
// are submitted as TrayClick commands; the registry callback resolves on the
// shell thread.
func (e *engine) CreateTray(iconPath, tooltip string) {
	e.trayOnce.Do(func() {
		go systray.Run(func() {
			if data, err := os.ReadFile(iconPath); err == nil {
				systray.SetIcon(data)
			}
			systray.SetTooltip(tooltip)

			show := systray.AddMenuItem("Show App", "")
			show.Click(func() { e.dispatchCommand(command.TrayClick{ID: trayItemShow}) })
			systray.AddSeparator()
			quit := systray.AddMenuItem("Quit", "")
			quit.Click(func() { e.dispatchCommand(command.TrayClick{ID: trayItemQuit}) })
		}, nil)
	})
}

func (e *engine) OpenExternal(url string) {
	if err := openExternal(url); err != nil {
		e.logger.Debug("open external failed", "url", url, "error", err.Error())
	}
}

func (e *engine) Events() <-chan shell.Event {
	return e.events
}
