package bridge

import (
	"crypto/rand"
	"fmt"
)

const seqAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// seqLength gives ~51 bits of entropy, collision-free for a session.
const seqLength = 10

// NewSeq generates a fresh sequence id: random base-36 text, ten characters.
func NewSeq() string {
	buf := make([]byte, seqLength)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand is documented never to fail on supported platforms.
		panic(fmt.Sprintf("bridge: read random bytes: %v", err))
	}
	for i, b := range buf {
		buf[i] = seqAlphabet[int(b)%len(seqAlphabet)]
	}
	return string(buf)
}
