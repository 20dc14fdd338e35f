package common

import (
	"encoding/binary"
	"hash"
	"hash/fnv"
	"math"
)

// HashString64 returns the 64-bit identifier hash for a name (FNV-1a).
// The empty string hashes to a fixed non-zero value; use it as the "no id" sentinel.
//
// Parameters:
//   - s: the name to hash
//
// Returns:
//   - uint64: the hash
func HashString64(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}

// Hasher32 incrementally hashes fixed-size values into a 32-bit digest.
type Hasher32 struct {
	h   hash.Hash32
	buf [8]byte
}

// NewHasher32 creates a Hasher32 backed by FNV-1a.
//
// Returns:
//   - *Hasher32: the hasher
func NewHasher32() *Hasher32 {
	return &Hasher32{h: fnv.New32a()}
}

// Uint64 feeds v into the digest in little-endian byte order.
func (h *Hasher32) Uint64(v uint64) {
	binary.LittleEndian.PutUint64(h.buf[:], v)
	h.h.Write(h.buf[:8])
}

// Uint32 feeds v into the digest in little-endian byte order.
func (h *Hasher32) Uint32(v uint32) {
	binary.LittleEndian.PutUint32(h.buf[:4], v)
	h.h.Write(h.buf[:4])
}

// Float32 feeds the IEEE-754 bits of v into the digest.
func (h *Hasher32) Float32(v float32) {
	h.Uint32(math.Float32bits(v))
}

// Sum32 returns the digest.
func (h *Hasher32) Sum32() uint32 {
	return h.h.Sum32()
}
