// Package optimization provides shared data structures for optimization results.
package optimization

// Summary captures the result of a single affordability search.
type Summary struct {
	Scenario string  `json:"scenario"`
	Field    string  `json:"field"`
	Original float64 `json:"original"`
	Value    float64 `json:"value"`
	Floor    float64 `json:"floor"`
	// MinimumBalance is the lowest account balance reached with Value.
	MinimumBalance float64  `json:"minimumBalance"`
	Headroom       float64  `json:"headroom"`
	Iterations     int      `json:"iterations"`
	Converged      bool     `json:"converged"`
	Notes          []string `json:"notes,omitempty"`
}
