// Package native hosts the in-process rendering surface: a webview window plus
// platform tray, dialog, and notification services. The webview stack needs
// cgo and platform GUI toolkits, so the real implementation sits behind the
// `native` build tag with a stub constructor otherwise.
package native

import (
	"errors"

	"github.com/pytrondev/pytron/internal/command"
	"github.com/pytrondev/pytron/internal/shell"
)

// ErrUnavailable reports a build without the native engine compiled in.
var ErrUnavailable = errors.New("native engine not built (rebuild with -tags native)")

// Options are the window parameters for the in-process engine.
type Options struct {
	Debug     bool
	Title     string
	Width     int
	Height    int
	Resizable bool
	URL       string
}

// Engine is the in-process surface plus its run-loop obligations. Run must be
// called from the main goroutine; GUI toolkits require the initial OS thread.
type Engine interface {
	shell.Surface

	// AttachSubmitter wires tray click delivery to the command bus.
	AttachSubmitter(submit func(command.Command))

	// AttachBridge wires page-side envelope delivery to the router.
	AttachBridge(route func(raw []byte))

	// Run blocks in the webview loop until the window is destroyed.
	Run()

	// Terminate asks the webview loop to exit.
	Terminate()
}
