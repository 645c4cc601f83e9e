//go:build !windows

package chromeipc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
)

// unixEndpoint addresses the session through a filesystem domain socket.
type unixEndpoint struct {
	path     string
	listener net.Listener
}

func newEndpoint() endpoint {
	return &unixEndpoint{}
}

func (e *unixEndpoint) listen(sessionID string) (string, error) {
	path := filepath.Join(os.TempDir(), fmt.Sprintf("pytron-%s.sock", sessionID))

	// A stale path from a crashed session blocks the bind.
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("remove stale socket %s: %w", path, err)
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		return "", fmt.Errorf("listen unix %s: %w", path, err)
	}
	_ = os.Chmod(path, 0o600)

	e.path = path
	e.listener = listener
	return path, nil
}

func (e *unixEndpoint) accept(ctx context.Context) (io.ReadWriteCloser, error) {
	if e.listener == nil {
		return nil, ErrNotListening
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = e.listener.Close()
		case <-done:
		}
	}()

	conn, err := e.listener.Accept()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	return conn, nil
}

func (e *unixEndpoint) close() error {
	var errs []error
	if e.listener != nil {
		if err := e.listener.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			errs = append(errs, err)
		}
	}
	if e.path != "" {
		if err := os.Remove(e.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
