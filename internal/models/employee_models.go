package models

import "time"

// Availability is a weekly window an employee can work in.
type Availability struct {
	ID         int64     `json:"id" db:"id"`
	EmployeeID string    `json:"employee_id" db:"employee_id"`
	DayOfWeek  int       `json:"day_of_week" db:"day_of_week"` // 0 = Sunday
	StartTime  string    `json:"start_time" db:"start_time"`   // HH:MM
	EndTime    string    `json:"end_time" db:"end_time"`       // HH:MM
	Notes      *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// Punch is a clock-in/clock-out pair. PunchOut is nil while the punch is open.
type Punch struct {
	ID         int64      `json:"id" db:"id"`
	EmployeeID string     `json:"employee_id" db:"employee_id"`
	PunchIn    time.Time  `json:"punch_in" db:"punch_in"`
	PunchOut   *time.Time `json:"punch_out,omitempty" db:"punch_out"`
	Notes      *string    `json:"notes,omitempty" db:"notes"`
}

// Duration returns the worked time of a closed punch, zero while open.
func (p Punch) Duration() time.Duration {
	if p.PunchOut == nil || p.PunchOut.Before(p.PunchIn) {
		return 0
	}
	return p.PunchOut.Sub(p.PunchIn)
}

// PayStub is a pay statement issued to an employee for a period.
type PayStub struct {
	ID          int64     `json:"id" db:"id"`
	EmployeeID  string    `json:"employee_id" db:"employee_id"`
	PeriodStart time.Time `json:"period_start" db:"period_start"`
	PeriodEnd   time.Time `json:"period_end" db:"period_end"`
	HoursWorked float64   `json:"hours_worked" db:"hours_worked"`
	HourlyRate  float64   `json:"hourly_rate" db:"hourly_rate"`
	GrossPay    float64   `json:"gross_pay" db:"gross_pay"`
	Deductions  float64   `json:"deductions" db:"deductions"`
	NetPay      float64   `json:"net_pay" db:"net_pay"`
	IssuedAt    time.Time `json:"issued_at" db:"issued_at"`
}

// EmployeeSummary is a directory entry: the account plus its shift count.
type EmployeeSummary struct {
	User
	ShiftCount int `json:"shift_count"`
}
