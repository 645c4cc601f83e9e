// Package command defines the closed set of instructions executed on the shell thread.
package command

import "github.com/pytrondev/pytron/internal/registry"

// Command is one fire-and-forget mutation request. Every variant is a struct in
// this package; the marker method seals the set so the dispatch loop can switch
// over it exhaustively.
type Command interface {
	isCommand()
}

// Eval runs a script in the rendering surface.
type Eval struct {
	Script string
}

// Bind installs the rendering-side forwarding stub for an already registered
// method. The registry entry itself is written synchronously at bind time.
type Bind struct {
	Name string
}

// Call hands a host callable to the shell thread for synchronous invocation.
// The host replies later with a Return from its own goroutine.
type Call struct {
	Fn     registry.Callback
	Seq    string
	Method string
	Args   string
}

// Return settles the pending continuation addressed by Seq. Status zero
// resolves, anything else rejects. Result is raw JSON text.
type Return struct {
	Seq    string
	Status int
	Result string
}

// SetTitle updates the window title.
type SetTitle struct {
	Title string
}

// SetSize resizes the window to a logical width and height.
type SetSize struct {
	Width  int
	Height int
}

// Navigate loads a new URL in the rendering surface.
type Navigate struct {
	URL string
}

// Quit stops the dispatch loop.
type Quit struct{}

// Minimize minimizes the window.
type Minimize struct{}

// SetMaximized toggles the maximized overlay flag.
type SetMaximized struct {
	Maximized bool
}

// SetVisible shows or hides the window. Showing also focuses and unminimizes.
type SetVisible struct {
	Visible bool
}

// Drag begins an interactive window drag.
type Drag struct{}

// SetAlwaysOnTop toggles the always-on-top overlay flag.
type SetAlwaysOnTop struct {
	OnTop bool
}

// Notification posts a system notification.
type Notification struct {
	Title   string
	Message string
}

// TaskbarProgress updates the taskbar progress indicator.
type TaskbarProgress struct {
	State int
	Value int
	Max   int
}

// SetResizable toggles window resizability.
type SetResizable struct {
	Resizable bool
}

// SetFullscreen toggles borderless fullscreen.
type SetFullscreen struct {
	Fullscreen bool
}

// Center centers the window on its current monitor.
type Center struct{}

// SetPreventClose arms or disarms close interception.
type SetPreventClose struct {
	Prevent bool
}

// CreateTray installs the tray icon with its default menu.
type CreateTray struct {
	IconPath string
	Tooltip  string
}

// TrayClick reports a tray menu item activation by id.
type TrayClick struct {
	ID string
}

// SetDecorations toggles window decorations.
type SetDecorations struct {
	Decorated bool
}

// MessageBox shows a modal message dialog. When Seq is non-empty the dialog
// outcome resolves that pending continuation with true or false.
type MessageBox struct {
	Title   string
	Message string
	Level   string
	Seq     string
}

// OpenExternal opens a URL in the system browser.
type OpenExternal struct {
	URL string
}

func (Eval) isCommand()            {}
func (Bind) isCommand()            {}
func (Call) isCommand()            {}
func (Return) isCommand()          {}
func (SetTitle) isCommand()        {}
func (SetSize) isCommand()         {}
func (Navigate) isCommand()        {}
func (Quit) isCommand()            {}
func (Minimize) isCommand()        {}
func (SetMaximized) isCommand()    {}
func (SetVisible) isCommand()      {}
func (Drag) isCommand()            {}
func (SetAlwaysOnTop) isCommand()  {}
func (Notification) isCommand()    {}
func (TaskbarProgress) isCommand() {}
func (SetResizable) isCommand()    {}
func (SetFullscreen) isCommand()   {}
func (Center) isCommand()          {}
func (SetPreventClose) isCommand() {}
func (CreateTray) isCommand()      {}
func (TrayClick) isCommand()       {}
func (SetDecorations) isCommand()  {}
func (MessageBox) isCommand()      {}
func (OpenExternal) isCommand()    {}
