package study

import (
	"math"
	"math/rand"
	"sync"
)

// Sampler draws concrete values for the trial suggestion capability.
type Sampler interface {
	Int(low, high int64, logScale bool) int64
	Float(low, high float64, logScale bool) float64
	Categorical(choices []string) string
}

// RandomSampler draws uniformly (or log-uniformly) at random. Safe for
// concurrent trials; the generator is guarded because parallel workers share
// one sampler.
type RandomSampler struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewRandomSampler(seed int64) *RandomSampler {
	return &RandomSampler{rng: rand.New(rand.NewSource(seed))}
}

func (s *RandomSampler) Float(low, high float64, logScale bool) float64 {
	s.mu.Lock()
	r := s.rng.Float64()
	s.mu.Unlock()
	if logScale {
		return math.Exp(math.Log(low) + r*(math.Log(high)-math.Log(low)))
	}
	return low + r*(high-low)
}

func (s *RandomSampler) Int(low, high int64, logScale bool) int64 {
	if logScale {
		v := int64(math.Round(s.Float(float64(low), float64(high), true)))
		if v < low {
			v = low
		}
		if v > high {
			v = high
		}
		return v
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return low + s.rng.Int63n(high-low+1)
}

func (s *RandomSampler) Categorical(choices []string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return choices[s.rng.Intn(len(choices))]
}
