package prompt

import (
	"math/rand/v2"
	"time"
)

// Sampler draws filler words for lexical density cloaking. It is the only
// source of nondeterminism in the pipeline.
type Sampler interface {
	// Sample returns n distinct elements of pool (n <= len(pool)).
	Sample(pool []string, n int) []string
}

// RandSampler samples without replacement from a PCG generator.
type RandSampler struct {
	rng *rand.Rand
}

// NewSeededSampler returns a reproducible sampler.
func NewSeededSampler(seed uint64) *RandSampler {
	return &RandSampler{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// NewRandomSampler returns a sampler seeded from the wall clock.
func NewRandomSampler() *RandSampler {
	return NewSeededSampler(uint64(time.Now().UnixNano()))
}

// Sample implements Sampler.
func (s *RandSampler) Sample(pool []string, n int) []string {
	if n > len(pool) {
		n = len(pool)
	}
	if n <= 0 {
		return []string{}
	}
	out := make([]string, 0, n)
	for _, i := range s.rng.Perm(len(pool))[:n] {
		out = append(out, pool[i])
	}
	return out
}

// PrefixSampler deterministically takes the first n pool entries.
type PrefixSampler struct{}

// Sample implements Sampler.
func (PrefixSampler) Sample(pool []string, n int) []string {
	if n > len(pool) {
		n = len(pool)
	}
	if n <= 0 {
		return []string{}
	}
	return append([]string(nil), pool[:n]...)
}
