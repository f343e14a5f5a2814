package domain

// HealthStatus is the outcome of one diagnostic check.
type HealthStatus string

const (
	HealthOK    HealthStatus = "ok"
	HealthWarn  HealthStatus = "warn"
	HealthError HealthStatus = "error"
)

// HealthCheck is one line of a doctor report.
type HealthCheck struct {
	Name    string
	Status  HealthStatus
	Details string
}

// HealthReport aggregates checks in the order they ran.
type HealthReport struct {
	Checks []HealthCheck
}

// Healthy reports whether no check errored. Warnings do not count.
func (r HealthReport) Healthy() bool {
	for _, c := range r.Checks {
		if c.Status == HealthError {
			return false
		}
	}
	return true
}
