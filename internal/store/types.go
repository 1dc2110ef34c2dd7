package store

import "time"

// RunRecord captures the result of one upload check.
type RunRecord struct {
	Timestamp  time.Time    `json:"timestamp"`
	Outcome    string       `json:"outcome"`
	Reason     string       `json:"reason,omitempty"`
	Duration   string       `json:"duration"`
	Boards     []string     `json:"boards"`
	Steps      []StepRecord `json:"steps,omitempty"`
	FailedStep string       `json:"failed_step,omitempty"`
	LogFile    string       `json:"log_file,omitempty"`
}

// StepRecord captures one CLI invocation within a run.
type StepRecord struct {
	Step     string   `json:"step"`
	Board    string   `json:"board,omitempty"`
	Args     []string `json:"args"`
	ExitCode int      `json:"exit_code"`
	Success  bool     `json:"success"`
	Duration string   `json:"duration"`
}
