package chrome

import (
	"context"

	"github.com/pytrondev/pytron/internal/bridge"
	"github.com/pytrondev/pytron/internal/shell"
)

// Adapter implements shell.Surface by forwarding each operation as an action
// message. Everything is fire-and-forget except MessageBox, which correlates
// a reply through the pending table.

var _ shell.Surface = (*Adapter)(nil)

func (a *Adapter) Eval(script string) {
	a.send(action{"action": "eval", "code": script})
}

func (a *Adapter) Navigate(url string) {
	a.send(action{"action": "navigate", "url": url})
}

func (a *Adapter) SetTitle(title string) {
	a.send(action{"action": "set_title", "title": title})
}

func (a *Adapter) SetSize(width, height int) {
	a.send(action{"action": "set_size", "width": width, "height": height})
}

func (a *Adapter) SetVisible(visible bool) {
	if visible {
		a.send(action{"action": "show"})
	} else {
		a.send(action{"action": "hide"})
	}
}

func (a *Adapter) Minimize() {
	a.send(action{"action": "minimize"})
}

func (a *Adapter) SetMaximized(maximized bool) {
	a.send(action{"action": "set_maximized", "value": maximized})
}

func (a *Adapter) SetFullscreen(fullscreen bool) {
	a.send(action{"action": "set_fullscreen", "value": fullscreen})
}

func (a *Adapter) SetAlwaysOnTop(onTop bool) {
	a.send(action{"action": "set_always_on_top", "value": onTop})
}

func (a *Adapter) SetResizable(resizable bool) {
	a.send(action{"action": "set_resizable", "value": resizable})
}

func (a *Adapter) SetDecorations(decorated bool) {
	a.send(action{"action": "set_decorations", "value": decorated})
}

func (a *Adapter) Center() {
	a.send(action{"action": "center"})
}

func (a *Adapter) Drag() {
	a.send(action{"action": "drag"})
}

func (a *Adapter) Notify(title, message string) {
	a.send(action{"action": "notification", "title": title, "message": message})
}

func (a *Adapter) SetProgress(state, value, max int) {
	a.send(action{"action": "taskbar_progress", "state": state, "value": value, "max": max})
}

// MessageBox shows a modal dialog in the shell process and blocks on the
// correlated result. The dispatch loop stalls for the dialog's duration, the
// same modality the in-process engine has.
func (a *Adapter) MessageBox(title, message, level string) bool {
	seq := bridge.NewSeq()
	a.send(action{"action": "message_box", "id": seq, "title": title, "message": message, "level": level})

	ctx, cancel := context.WithTimeout(context.Background(), messageBoxWait)
	defer cancel()

	result, err := a.pending.Await(ctx, seq)
	if err != nil {
		return false
	}
	return result == "true"
}

func (a *Adapter) CreateTray(iconPath, tooltip string) {
	a.send(action{"action": "create_tray", "icon": iconPath, "tooltip": tooltip})
}

func (a *Adapter) OpenExternal(url string) {
	a.send(action{"action": "open_external", "url": url})
}

func (a *Adapter) Events() <-chan shell.Event {
	return a.events
}
