package models

import "time"

// HoursReport compares scheduled and worked hours per employee over a period.
type HoursReport struct {
	PeriodStart time.Time       `json:"period_start"`
	PeriodEnd   time.Time       `json:"period_end"`
	Employees   []EmployeeHours `json:"employees"`
	// Totals across all employees.
	ScheduledHours float64 `json:"scheduled_hours"`
	WorkedHours    float64 `json:"worked_hours"`
}

type EmployeeHours struct {
	EmployeeID     string  `json:"employee_id"`
	Username       string  `json:"username"`
	ShiftCount     int     `json:"shift_count"`
	ScheduledHours float64 `json:"scheduled_hours"`
	WorkedHours    float64 `json:"worked_hours"`
	// OpenPunch is true while the employee is punched in.
	OpenPunch bool `json:"open_punch"`
}

// TimeSpan is a start/end pair read for aggregation.
type TimeSpan struct {
	EmployeeID string
	Start      time.Time
	End        *time.Time
}
