package study

import (
	"strconv"
	"sync"
)

// trial is the handle passed to the objective for one evaluation. It records
// every suggestion so the sweep can persist the parameters alongside the
// trial's value.
type trial struct {
	id      string
	sampler Sampler

	mu     sync.Mutex
	params map[string]string
}

func newTrial(number int, sampler Sampler) *trial {
	return &trial{
		id:      strconv.Itoa(number),
		sampler: sampler,
		params:  make(map[string]string),
	}
}

func (t *trial) ID() string { return t.id }

func (t *trial) record(name, rendered string) {
	t.mu.Lock()
	t.params[name] = rendered
	t.mu.Unlock()
}

func (t *trial) Params() map[string]string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[string]string, len(t.params))
	for k, v := range t.params {
		out[k] = v
	}
	return out
}

func (t *trial) SuggestInt(name string, low, high int64, logScale bool) int64 {
	v := t.sampler.Int(low, high, logScale)
	t.record(name, strconv.FormatInt(v, 10))
	return v
}

func (t *trial) SuggestFloat(name string, low, high float64, logScale bool) float64 {
	v := t.sampler.Float(low, high, logScale)
	t.record(name, strconv.FormatFloat(v, 'g', -1, 64))
	return v
}

func (t *trial) SuggestCategorical(name string, choices []string) string {
	v := t.sampler.Categorical(choices)
	t.record(name, v)
	return v
}
