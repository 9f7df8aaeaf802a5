package health

// Status represents overall cache health.
type Status string

const (
	StatusOK       Status = "OK"
	StatusDegraded Status = "DEGRADED"
	StatusCritical Status = "CRITICAL"
)

// Report is the health summary served by the admin endpoint.
type Report struct {
	OverallStatus   Status   `json:"overall_status"`
	Summary         string   `json:"summary"`
	Signals         []string `json:"signals"`
	Recommendations []string `json:"recommendations"`
}

// escalate returns the more severe of two statuses.
func escalate(current, next Status) Status {
	switch {
	case current == StatusCritical || next == StatusCritical:
		return StatusCritical
	case current == StatusDegraded || next == StatusDegraded:
		return StatusDegraded
	default:
		return StatusOK
	}
}
