package result

// TrialMeta records one finished (or failed) trial of a sweep.
type TrialMeta struct {
	Study     string            `json:"study"`
	Trial     string            `json:"trial"`
	State     string            `json:"state"` // completed, failed, timeout
	Value     float64           `json:"value"`
	Params    map[string]string `json:"params"`
	DurationS int               `json:"duration_s"`
	Error     string            `json:"error,omitempty"`
}
