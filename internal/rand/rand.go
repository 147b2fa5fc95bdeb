package rand

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"sync"
)

const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

var (
	mut sync.Mutex
	rng = newRNG()
)

func newRNG() *rand.Rand {
	var seed [8]byte
	if _, err := cryptorand.Read(seed[:]); err != nil {
		panic("unreachable")
	}
	//nolint:gosec // request ids are not security-sensitive
	return rand.New(rand.NewSource(int64(binary.LittleEndian.Uint64(seed[:]))))
}

// NewRequestID returns a random base62 string used to correlate an
// envelope request with its response.
func NewRequestID(length int) string {
	buf := make([]byte, length)

	mut.Lock()
	for i := range buf {
		buf[i] = charset[rng.Intn(len(charset))]
	}
	mut.Unlock()

	return string(buf)
}
