package report

import (
	"time"

	"github.com/entrhq/uiverify/pkg/browser"
)

// Run and step statuses
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// ExecutionSummary contains a complete summary of one verification run
type ExecutionSummary struct {
	RunID      string              `json:"run_id"`
	Scenario   string              `json:"scenario"`
	Status     string              `json:"status"`
	Error      string              `json:"error,omitempty"`
	StartTime  time.Time           `json:"start_time"`
	EndTime    time.Time           `json:"end_time"`
	Duration   time.Duration       `json:"duration"`
	Steps      []StepResult        `json:"steps"`
	FinalURL   string              `json:"final_url,omitempty"`
	Screenshot *Screenshot         `json:"screenshot,omitempty"`
	Page       *browser.PageDigest `json:"page,omitempty"`
}

// StepResult records the outcome of a single step
type StepResult struct {
	Index       int           `json:"index"`
	Action      string        `json:"action"`
	Description string        `json:"description"`
	Status      string        `json:"status"`
	Duration    time.Duration `json:"duration"`
	Error       string        `json:"error,omitempty"`
}

// Screenshot describes the captured image
type Screenshot struct {
	Path     string `json:"path"`
	Bytes    int    `json:"bytes"`
	FullPage bool   `json:"full_page"`
}

// NewExecutionSummary starts a summary for a run
func NewExecutionSummary(runID, scenario string, start time.Time) *ExecutionSummary {
	return &ExecutionSummary{
		RunID:     runID,
		Scenario:  scenario,
		StartTime: start,
		Steps:     []StepResult{},
	}
}

// AddStep appends a step result
func (s *ExecutionSummary) AddStep(result StepResult) {
	s.Steps = append(s.Steps, result)
}

// Finish sets the final status from err
func (s *ExecutionSummary) Finish(end time.Time, err error) {
	s.EndTime = end
	s.Duration = end.Sub(s.StartTime)
	if err != nil {
		s.Status = StatusFailed
		s.Error = err.Error()
		return
	}
	s.Status = StatusSuccess
}

// FailedStep returns the failing step, if any
func (s *ExecutionSummary) FailedStep() *StepResult {
	for i := range s.Steps {
		if s.Steps[i].Status == StatusFailed {
			return &s.Steps[i]
		}
	}
	return nil
}
