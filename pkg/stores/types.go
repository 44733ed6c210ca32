package stores

import "time"

// Hierarchy names the mass ordering a fit run assumed.
type Hierarchy string

const (
	HierarchyNormal   Hierarchy = "normal"
	HierarchyInverted Hierarchy = "inverted"
)

// FitRun represents one minimization over a loaded parameter set.
type FitRun struct {
	ID             string     `json:"id"`
	SettingsSource string     `json:"settings_source"`
	Hierarchy      Hierarchy  `json:"hierarchy"`
	FreeParams     string     `json:"free_params"` // JSON array of parameter names
	StartedAt      time.Time  `json:"started_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	BestLLH        *float64   `json:"best_llh,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// FitStep is one recorded minimizer iteration: the likelihood and the
// physical parameter values the template was evaluated with.
type FitStep struct {
	ID          int64     `json:"id"`
	RunID       string    `json:"run_id"`
	Iteration   int       `json:"iteration"`
	LLH         float64   `json:"llh"`
	ParamValues string    `json:"param_values"` // JSON object name -> value
	CreatedAt   time.Time `json:"created_at"`
}
