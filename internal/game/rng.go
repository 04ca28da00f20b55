package game

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
	"sync"
)

// RandomSource yields uniform floats in [0, 1).
type RandomSource interface {
	Float64() float64
}

type cryptoRNG struct{}

func (cryptoRNG) Float64() float64 {
	var buf [8]byte
	if _, err := cryptoRand.Read(buf[:]); err != nil {
		return rand.Float64()
	}
	u := binary.BigEndian.Uint64(buf[:]) >> 11 // 53 bits
	return float64(u) / (1 << 53)
}

// DefaultRNG returns the crypto backed source used in production.
func DefaultRNG() RandomSource { return cryptoRNG{} }

// seededRNG is replicable; used by tests and simulations.
type seededRNG struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewSeededRNG returns a deterministic source for the given seed.
func NewSeededRNG(seed uint64) RandomSource {
	return &seededRNG{r: rand.New(rand.NewPCG(seed, 0))}
}

func (s *seededRNG) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Float64()
}

// intn returns a uniform int in [0, n). n must be positive.
func intn(rng RandomSource, n int) int {
	i := int(rng.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}
