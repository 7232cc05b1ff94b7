package hashsafe

import (
	"crypto/rand"
	"encoding/binary"
	"io"
	"sync"

	"github.com/zeebo/blake3"
)

// seed is the key for BLAKE3 keyed hashing. One seed is drawn per resistant
// policy instance and reused by every strategy derived from that policy, so
// distinct values hash consistently across one whole deserialization. Seeds
// are not stable across process restarts or across policy instances.
type seed [32]byte

// newSeed draws a seed from process entropy. The seed must never be derived
// from input data; an attacker who can influence it can predict collisions.
func newSeed() seed {
	var s seed
	if _, err := io.ReadFull(rand.Reader, s[:]); err != nil {
		panic("hashsafe: reading hash seed entropy: " + err.Error())
	}
	return s
}

// seededHash produces 64-bit digests of byte sequences using BLAKE3 keyed
// mode. Same seed and same bytes always yield the same digest; without the
// seed an attacker cannot predict which inputs collide.
//
// Hashers are pooled and Reset between uses. Reset preserves the key, so a
// pooled hasher returns to its initial keyed state.
type seededHash struct {
	pool sync.Pool
}

func newSeededHash(s seed) *seededHash {
	return &seededHash{
		pool: sync.Pool{
			New: func() any {
				hasher, err := blake3.NewKeyed(s[:])
				if err != nil {
					// NewKeyed only fails on wrong key length, which the
					// seed type rules out.
					panic("hashsafe: BLAKE3 keyed hash initialization failed: " + err.Error())
				}
				return hasher
			},
		},
	}
}

// digest hashes data to a 64-bit value.
func (h *seededHash) digest(data []byte) uint64 {
	hasher := h.pool.Get().(*blake3.Hasher)
	hasher.Reset()
	hasher.Write(data)
	var sum [32]byte
	out := hasher.Sum(sum[:0])
	h.pool.Put(hasher)
	return binary.LittleEndian.Uint64(out[:8])
}

// digestString hashes a string without copying it to a byte slice.
func (h *seededHash) digestString(s string) uint64 {
	hasher := h.pool.Get().(*blake3.Hasher)
	hasher.Reset()
	hasher.WriteString(s)
	var sum [32]byte
	out := hasher.Sum(sum[:0])
	h.pool.Put(hasher)
	return binary.LittleEndian.Uint64(out[:8])
}
