package sim

import "fmt"

// SimError records a fault at a specific step of a headless run. Runs
// collect these rather than aborting.
type SimError struct {
	Time    float64
	Step    int
	Message string
}

func (e *SimError) Error() string {
	return fmt.Sprintf("sim: step %d (t=%.3f): %s", e.Step, e.Time, e.Message)
}
