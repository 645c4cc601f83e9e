package chromeipc

import (
	"context"
	"io"
)

// endpoint is the platform duplex channel: a named pipe on windows, a
// filesystem domain socket elsewhere. Tests target the Transport, never an
// implementation directly.
type endpoint interface {
	listen(sessionID string) (addr string, err error)
	accept(ctx context.Context) (io.ReadWriteCloser, error)
	close() error
}
