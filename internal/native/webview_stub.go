//go:build !native

package native

import "log/slog"

// New reports the engine unavailable in builds without the native tag.
func New(_ *slog.Logger, _ Options) (Engine, error) {
	return nil, ErrUnavailable
}
