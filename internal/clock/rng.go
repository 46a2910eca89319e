// Package clock provides the engine's seeded RNG (spec.md §4.1). GVT
// itself is owned by internal/scheduler, since it only ever advances
// as a side effect of running scheduled tasks.
package clock

import (
	"crypto/rand"
	"encoding/binary"
	"math/big"
	mrand "math/rand"
	"sync"
)

// RNG is a single seeded pseudo-random source protected by a mutex so
// it can be safely reseeded from another goroutine (spec.md §5); in
// normal operation it is only drawn from the engine tick goroutine.
type RNG struct {
	mu  sync.Mutex
	src *mrand.Rand
}

// NewRNG seeds from the given material, or from OS entropy if seed == 0.
func NewRNG(seed int64) *RNG {
	if seed == 0 {
		seed = osEntropySeed()
	}
	return &RNG{src: mrand.New(mrand.NewSource(seed))}
}

// NewRNGFromBytes seeds deterministically from caller-supplied bytes,
// for deterministic replay (spec.md §4.1).
func NewRNGFromBytes(b []byte) *RNG {
	var seed int64
	for i := 0; i < 8 && i < len(b); i++ {
		seed = seed<<8 | int64(b[i])
	}
	if seed == 0 {
		seed = 1
	}
	return &RNG{src: mrand.New(mrand.NewSource(seed))}
}

func osEntropySeed() int64 {
	n, err := rand.Int(rand.Reader, big.NewInt(1<<62))
	if err != nil {
		return 1
	}
	return n.Int64()
}

// Reseed replaces the underlying source. Safe for cross-thread use.
func (r *RNG) Reseed(seed int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.src = mrand.New(mrand.NewSource(seed))
}

// U01 returns a uniform float in [0, 1).
func (r *RNG) U01() float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.src.Float32()
}

// Bool returns true with probability p.
func (r *RNG) Bool(p float32) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.src.Float32() < p
}

// Int returns a uniform int in [a, b), matching g_rng.getInt's
// original_source semantics exactly (e.g. teleport.cpp picks a random
// facing via getInt(0, 4), and a random interior x via getInt(1, w-1) —
// both half-open at the top).
func (r *RNG) Int(a, b int) int {
	if b <= a {
		return a
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return a + r.src.Intn(b-a)
}

// Float returns a uniform float64 in [a, b).
func (r *RNG) Float(a, b float64) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return a + r.src.Float64()*(b-a)
}

// Shuffle permutes n elements in place using the standard Fisher-Yates
// swap callback, matching original_source's random_shuffle usage in
// RoomMap.doneAddingRooms.
func (r *RNG) Shuffle(n int, swap func(i, j int)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.src.Shuffle(n, swap)
}

// Uint32 returns a raw uniform 32-bit value, useful for seeding
// per-feature deterministic sub-sequences (e.g. the vampire-bat
// wing-flap table, spec.md §4.10).
func (r *RNG) Uint32() uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], r.src.Uint32())
	return binary.LittleEndian.Uint32(b[:])
}
