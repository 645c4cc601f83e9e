// Package chromeipc implements the framed duplex transport used to drive an
// out-of-process browser shell: 4-byte little-endian length, then that many
// UTF-8 bytes, in both directions.
package chromeipc

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// DefaultMaxFrame caps the declared body length so a corrupt or hostile header
// cannot exhaust memory.
const DefaultMaxFrame uint32 = 16 << 20

// ErrFrameTooLarge reports a header declaring a body above the configured cap.
var ErrFrameTooLarge = errors.New("chromeipc: declared frame length exceeds cap")

// WriteFrame encodes payload as one frame and writes it with a single Write
// call, so concurrent senders sharing a write lock never interleave bytes.
func WriteFrame(w io.Writer, payload []byte) error {
	frame := make([]byte, 4+len(payload))
	binary.LittleEndian.PutUint32(frame[:4], uint32(len(payload)))
	copy(frame[4:], payload)

	if _, err := w.Write(frame); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// ReadFrame reads exactly one frame body. Short reads surface as errors.
func ReadFrame(r io.Reader, maxFrame uint32) ([]byte, error) {
	var header [4]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("read frame header: %w", err)
	}

	length := binary.LittleEndian.Uint32(header[:])
	if length > maxFrame {
		return nil, fmt.Errorf("%w: %d > %d", ErrFrameTooLarge, length, maxFrame)
	}

	body := make([]byte, length)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, fmt.Errorf("read frame body: %w", err)
	}
	return body, nil
}
