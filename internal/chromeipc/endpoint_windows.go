//go:build windows

package chromeipc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/Microsoft/go-winio"
)

// pipeEndpoint addresses the session through a named pipe.
type pipeEndpoint struct {
	path     string
	listener net.Listener
}

func newEndpoint() endpoint {
	return &pipeEndpoint{}
}

func (e *pipeEndpoint) listen(sessionID string) (string, error) {
	path := fmt.Sprintf(`\\.\pipe\pytron-%s`, sessionID)

	listener, err := winio.ListenPipe(path, nil)
	if err != nil {
		return "", fmt.Errorf("listen pipe %s: %w", path, err)
	}

	e.path = path
	e.listener = listener
	return path, nil
}

func (e *pipeEndpoint) accept(ctx context.Context) (io.ReadWriteCloser, error) {
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

func (e *pipeEndpoint) close() error {
	if e.listener == nil {
		return nil
	}
	if err := e.listener.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}
	return nil
}
