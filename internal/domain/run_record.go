package domain

import (
	"time"
)

// RunStatus represents the overall outcome of one confirmation-gated phase.
type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusDeclined  RunStatus = "declined"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// StepStatus represents the outcome of an individual pipeline step.
type StepStatus string

const (
	StepStatusPending   StepStatus = "pending"
	StepStatusCompleted StepStatus = "completed"
	StepStatusFailed    StepStatus = "failed"
	StepStatusSkipped   StepStatus = "skipped"
)

// Decision is the operator's answer at the confirmation gate.
type Decision string

const (
	DecisionApproved Decision = "approved"
	DecisionDeclined Decision = "declined"
	DecisionInvalid  Decision = "invalid"
)

// RunRecord is the journal entry for one pipeline run. It is written after
// every state change so an interrupted run still leaves a usable trace of
// which steps were applied. The journal is observational only; it never
// feeds back into pipeline construction.
type RunRecord struct {
	SessionID      string       `json:"session_id"`
	StartedAt      time.Time    `json:"started_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
	Phase          string       `json:"phase"`
	Tag            string       `json:"tag"`
	Branch         string       `json:"branch"`
	Remote         string       `json:"remote"`
	OriginalBranch string       `json:"original_branch,omitempty"`
	Rendered       string       `json:"rendered"`
	Decision       Decision     `json:"decision,omitempty"`
	Steps          []StepRecord `json:"steps"`
	Status         RunStatus    `json:"status"`
	Error          string       `json:"error,omitempty"`
}

// StepRecord records the outcome of a single step within a run.
type StepRecord struct {
	Command     string     `json:"command"`
	Status      StepStatus `json:"status"`
	StartedAt   time.Time  `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Error       string     `json:"error,omitempty"`
}

// NewRunRecord creates a pending run record for a phase.
func NewRunRecord(sessionID, phase string, params ReleaseParams, rendered string) *RunRecord {
	now := time.Now()
	return &RunRecord{
		SessionID: sessionID,
		StartedAt: now,
		UpdatedAt: now,
		Phase:     phase,
		Tag:       params.Tag,
		Branch:    params.Branch,
		Remote:    params.Remote,
		Rendered:  rendered,
		Steps:     []StepRecord{},
		Status:    RunStatusPending,
	}
}

// AddStep appends a pending step record.
func (r *RunRecord) AddStep(command string) {
	r.Steps = append(r.Steps, StepRecord{
		Command: command,
		Status:  StepStatusPending,
	})
	r.UpdatedAt = time.Now()
}

// MarkStepStarted stamps the start time of the step at index i.
func (r *RunRecord) MarkStepStarted(i int) {
	if i < 0 || i >= len(r.Steps) {
		return
	}
	r.Steps[i].StartedAt = time.Now()
	r.UpdatedAt = r.Steps[i].StartedAt
}

// MarkStepCompleted marks the step at index i as successfully run.
func (r *RunRecord) MarkStepCompleted(i int) {
	if i < 0 || i >= len(r.Steps) {
		return
	}
	now := time.Now()
	r.Steps[i].Status = StepStatusCompleted
	r.Steps[i].CompletedAt = &now
	r.UpdatedAt = now
}

// MarkStepFailed marks the step at index i as failed and every later step as
// skipped, mirroring the short-circuit execution semantics.
func (r *RunRecord) MarkStepFailed(i int, err error) {
	if i < 0 || i >= len(r.Steps) {
		return
	}
	now := time.Now()
	r.Steps[i].Status = StepStatusFailed
	r.Steps[i].CompletedAt = &now
	r.Steps[i].Error = err.Error()
	for j := i + 1; j < len(r.Steps); j++ {
		r.Steps[j].Status = StepStatusSkipped
	}
	r.Status = RunStatusFailed
	r.Error = err.Error()
	r.UpdatedAt = now
}
