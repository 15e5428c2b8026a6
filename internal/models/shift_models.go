package models

import "time"

// Shift is a scheduled work period owned by one employee.
type Shift struct {
	ID         int64     `json:"id" db:"id"`
	EmployeeID string    `json:"employee_id" db:"employee_id"`
	StartTime  time.Time `json:"start_time" db:"start_time"`
	EndTime    time.Time `json:"end_time" db:"end_time"`
	Notes      *string   `json:"notes,omitempty" db:"notes"`
	Version    int64     `json:"version" db:"version"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`

	ShiftDetails []ShiftDetail `json:"shift_details,omitempty"` // Populated on detail views only
}

// ShiftDetail is a task-level record nested under a Shift.
type ShiftDetail struct {
	ID              int64     `json:"id" db:"id"`
	ShiftID         int64     `json:"shift_id" db:"shift_id"`
	TaskDescription string    `json:"task_description" db:"task_description"`
	TaskStartTime   time.Time `json:"task_start_time" db:"task_start_time"`
	TaskEndTime     time.Time `json:"task_end_time" db:"task_end_time"`
	TaskType        string    `json:"task_type" db:"task_type"` // e.g. "Setup", "Service", "Cleanup"
	Notes           *string   `json:"notes,omitempty" db:"notes"`
	IsCompleted     bool      `json:"is_completed" db:"is_completed"`
	Version         int64     `json:"version" db:"version"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`

	Shift *Shift `json:"shift,omitempty"` // Parent shift, attached by the repository
}
