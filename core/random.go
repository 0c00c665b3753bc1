package core

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"sync"
)

// Randomizer is a goroutine-safe source for uniform draws.
type Randomizer interface {
	Intn(n int) int
	// Sample returns k distinct indexes out of [0, n), k capped at n.
	Sample(n, k int) []int
}

type lockedRand struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRandomizer seeds a math/rand source from crypto/rand.
func NewRandomizer() Randomizer {
	var b [8]byte
	seed := int64(0)
	if _, err := crand.Read(b[:]); err == nil {
		seed = int64(binary.LittleEndian.Uint64(b[:]))
	}
	return NewSeededRandomizer(seed)
}

// NewSeededRandomizer is deterministic; meant for tests.
func NewSeededRandomizer(seed int64) Randomizer {
	return &lockedRand{rnd: rand.New(rand.NewSource(seed))}
}

func (r *lockedRand) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rnd.Intn(n)
}

func (r *lockedRand) Sample(n, k int) []int {
	if k > n {
		k = n
	}
	if k <= 0 {
		return []int{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rnd.Perm(n)[:k]
}
