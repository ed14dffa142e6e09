package harness

import "github.com/roach88/msgstore/internal/msgstore"

// StepTrace records what one step did.
type StepTrace struct {
	Op string `json:"op"`

	// Result holds the operation's return values when it succeeded.
	Result map[string]any `json:"result,omitempty"`

	// Error is the store error code when the operation failed.
	Error string `json:"error,omitempty"`

	// Events are the notifications the step emitted, in seq order.
	Events []msgstore.Notification `json:"events"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true if every expect clause, assertion and the replay check held.
	Pass bool `json:"pass"`

	// Steps contains one trace per scenario step.
	Steps []StepTrace `json:"steps"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Final is the store state after the last step.
	Final msgstore.Snapshot `json:"-"`

	// Stats are the statistics of the final state.
	Stats msgstore.Stats `json:"stats"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Steps:  []StepTrace{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Events returns every notification of the run in seq order.
func (r *Result) Events() []msgstore.Notification {
	var all []msgstore.Notification
	for _, step := range r.Steps {
		all = append(all, step.Events...)
	}
	return all
}
