//go:build !native

package native

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewUnavailableWithoutBuildTag(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	eng, err := New(logger, Options{Title: "x", Width: 1, Height: 1})
	require.ErrorIs(t, err, ErrUnavailable)
	require.Nil(t, eng)
}
