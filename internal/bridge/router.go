package bridge

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/pytrondev/pytron/internal/command"
	"github.com/pytrondev/pytron/internal/registry"
)

// Submitter pushes a command toward the dispatch loop.
type Submitter func(command.Command)

// Router translates rendering-side envelopes into commands. Reserved methods
// map directly to built-in commands and bypass the registry; everything else
// resolves through it.
type Router struct {
	Logger   *slog.Logger
	Registry *registry.Registry
	Submit   Submitter
}

// NotFoundMessage is the exact rejection text for an unregistered method.
func NotFoundMessage(method string) string {
	return fmt.Sprintf("Method '%s' not found.", method)
}

// Route handles one raw envelope. Malformed input is dropped; a reserved
// method with malformed arguments falls through to the generic path.
func (r *Router) Route(raw []byte) {
	env, err := ParseEnvelope(raw)
	if err != nil {
		r.Logger.Debug("drop malformed bridge message", "error", err.Error())
		return
	}
	r.RouteEnvelope(env)
}

// RouteEnvelope dispatches an already decoded envelope.
func (r *Router) RouteEnvelope(env Envelope) {
	if cmd, ok := r.reserved(env); ok {
		r.Submit(cmd)
		return
	}

	fn, ok := r.Registry.Lookup(env.Method)
	if !ok {
		result, _ := json.Marshal(NotFoundMessage(env.Method))
		r.Submit(command.Return{Seq: env.ID, Status: 1, Result: string(result)})
		return
	}

	r.Logger.Debug("bridge call", "method", env.Method, "seq", env.ID)
	r.Submit(command.Call{Fn: fn, Seq: env.ID, Method: env.Method, Args: env.ParamsText()})
}

// reserved maps reserved method names to built-in commands.
func (r *Router) reserved(env Envelope) (command.Command, bool) {
	switch env.Method {
	case "drag", "pytron_drag":
		return command.Drag{}, true

	case "close", "pytron_close", "app_quit":
		return command.Quit{}, true

	case "system_notification", "pytron_system_notification":
		var args []string
		if json.Unmarshal(env.Params, &args) == nil && len(args) >= 2 {
			return command.Notification{Title: args[0], Message: args[1]}, true
		}

	case "set_taskbar_progress", "pytron_set_taskbar_progress":
		var args []int
		if json.Unmarshal(env.Params, &args) == nil && len(args) >= 3 {
			return command.TaskbarProgress{State: args[0], Value: args[1], Max: args[2]}, true
		}

	case "message_box", "pytron_message_box":
		var args []string
		if json.Unmarshal(env.Params, &args) == nil && len(args) >= 3 {
			return command.MessageBox{Title: args[0], Message: args[1], Level: args[2], Seq: env.ID}, true
		}
	}
	return nil, false
}
