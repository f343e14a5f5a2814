package domain

import "time"

// RunRecord captures one pipeline run. Command output and the credential are
// never recorded.
type RunRecord struct {
	ID            string    `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	Message       string    `json:"message"`
	Branch        string    `json:"branch"`
	RawCommand    string    `json:"raw_command"`
	Reason        string    `json:"reason"`
	Challenge     string    `json:"challenge,omitempty"`
	Confirmed     bool      `json:"confirmed"`
	Executed      bool      `json:"executed"`
	Succeeded     bool      `json:"succeeded"`
	FailedCommand string    `json:"failed_command,omitempty"`
	CommandsRun   int       `json:"commands_run"`
}

// ApplyOutcomes summarizes an execution into the record.
func (r *RunRecord) ApplyOutcomes(outcomes []ExecutionOutcome) {
	r.CommandsRun = len(outcomes)
	r.Executed = len(outcomes) > 0
	r.Succeeded = r.Executed
	for _, o := range outcomes {
		if !o.Continues() {
			r.Succeeded = false
			r.FailedCommand = o.Command
			break
		}
	}
}
