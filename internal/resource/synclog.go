package resource

import "time"

// Sync log statuses.
const (
	SyncStatusPending = "pending"
	SyncStatusSuccess = "success"
	SyncStatusFailed  = "failed"
)

// SyncLog is one outbound sync attempt against a downstream system.
type SyncLog struct {
	ID          string     `json:"id" validate:"required"`
	Resource    string     `json:"resource" validate:"required"`
	Operation   string     `json:"operation" validate:"required,oneof=create update delete"`
	Status      string     `json:"status" validate:"required,oneof=pending success failed"`
	Attempts    int        `json:"attempts" validate:"min=0"`
	LastError   string     `json:"last_error"`
	QueuedAt    time.Time  `json:"queued_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

func (l SyncLog) EntityID() string { return l.ID }

// SyncSchedule drives periodic outbound sync runs.
type SyncSchedule struct {
	ID         string     `json:"id" validate:"required"`
	Name       string     `json:"name" validate:"required"`
	Resource   string     `json:"resource" validate:"required"`
	Cron       string     `json:"cron"`
	Active     bool       `json:"active"`
	LastStatus string     `json:"last_status" validate:"omitempty,oneof=pending success failed"`
	LastRunAt  *time.Time `json:"last_run_at"`
	NextRunAt  *time.Time `json:"next_run_at"`
}

func (s SyncSchedule) EntityID() string { return s.ID }

// SchedulePayload is the client-supplied body for creating or updating a
// schedule. Validation here is the local pre-submit check; invalid payloads
// never reach the remote API.
type SchedulePayload struct {
	Name     string `json:"name" validate:"required"`
	Resource string `json:"resource" validate:"required"`
	Cron     string `json:"cron" validate:"required"`
	Active   bool   `json:"active"`
}
