package shell

// Event is a window notification delivered to the dispatch loop by the
// rendering surface.
type Event int

const (
	// EventCloseRequested reports the user asking to close the window.
	EventCloseRequested Event = iota
)

// Surface is the rendering side as seen by the dispatch loop: a window, an
// HTML-capable view, and the platform services hanging off them. Operations a
// platform cannot perform are no-ops, never errors. All methods are called
// from the shell thread only.
type Surface interface {
	Eval(script string)
	Navigate(url string)

	SetTitle(title string)
	SetSize(width, height int)
	SetVisible(visible bool)
	Minimize()
	SetMaximized(maximized bool)
	SetFullscreen(fullscreen bool)
	SetAlwaysOnTop(onTop bool)
	SetResizable(resizable bool)
	SetDecorations(decorated bool)
	Center()
	Drag()

	Notify(title, message string)
	SetProgress(state, value, max int)
	MessageBox(title, message, level string) bool
	CreateTray(iconPath, tooltip string)
	OpenExternal(url string)

	// Events delivers window notifications; a nil channel is valid and simply
	// never fires.
	Events() <-chan Event
}

// noopSurface keeps the dispatch loop functional when no surface is wired.
type noopSurface struct{}

func (noopSurface) Eval(string)                      {}
func (noopSurface) Navigate(string)                  {}
func (noopSurface) SetTitle(string)                  {}
func (noopSurface) SetSize(int, int)                 {}
func (noopSurface) SetVisible(bool)                  {}
func (noopSurface) Minimize()                        {}
func (noopSurface) SetMaximized(bool)                {}
func (noopSurface) SetFullscreen(bool)               {}
func (noopSurface) SetAlwaysOnTop(bool)              {}
func (noopSurface) SetResizable(bool)                {}
func (noopSurface) SetDecorations(bool)              {}
func (noopSurface) Center()                          {}
func (noopSurface) Drag()                            {}
func (noopSurface) Notify(string, string)            {}
func (noopSurface) SetProgress(int, int, int)        {}
func (noopSurface) MessageBox(string, string, string) bool {
	return false
}
func (noopSurface) CreateTray(string, string) {}
func (noopSurface) OpenExternal(string)       {}
func (noopSurface) Events() <-chan Event      { return nil }
