package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"shift_scheduler_backend/internal/models"
	"shift_scheduler_backend/internal/repositories"
)

// MaxReportPeriod bounds the hours report window.
const MaxReportPeriod = 366 * 24 * time.Hour

// ReportService builds manager reports.
type ReportService interface {
	// GetHoursReport covers [startDate, endDate). Both dates are optional and
	// default to the current Monday-based week.
	GetHoursReport(ctx context.Context, startDate, endDate string) (*models.HoursReport, error)
}

type reportService struct {
	reportRepo repositories.ReportRepository
	now        func() time.Time
}

func NewReportService(rr repositories.ReportRepository) ReportService {
	return &reportService{reportRepo: rr, now: time.Now}
}

// weekBounds returns the Monday 00:00 UTC that starts t's week and the
// following Monday.
func weekBounds(t time.Time) (time.Time, time.Time) {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7
	start := day.AddDate(0, 0, -offset)
	return start, start.AddDate(0, 0, 7)
}

func (s *reportService) period(startDate, endDate string) (time.Time, time.Time, error) {
	start, end := weekBounds(s.now())
	verr := &ValidationError{}
	if startDate != "" {
		t, ok := parseDate(startDate)
		if !ok {
			verr.add("start_date", "The start_date parameter must be a date.")
		}
		start = t
		if endDate == "" {
			end = start.AddDate(0, 0, 7)
		}
	}
	if endDate != "" {
		t, ok := parseDate(endDate)
		if !ok {
			verr.add("end_date", "The end_date parameter must be a date.")
		}
		end = t
	}
	if len(verr.Fields) == 0 {
		if !end.After(start) {
			verr.add("end_date", "The end date must be after the start date.")
		} else if end.Sub(start) > MaxReportPeriod {
			verr.add("end_date", "The report period cannot exceed one year.")
		}
	}
	return start, end, verr.orNil()
}

func (s *reportService) GetHoursReport(ctx context.Context, startDate, endDate string) (*models.HoursReport, error) {
	start, end, err := s.period(startDate, endDate)
	if err != nil {
		return nil, err
	}

	shifts, err := s.reportRepo.GetShiftSpans(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load shifts for report: %w", err)
	}
	punches, err := s.reportRepo.GetPunchSpans(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load punches for report: %w", err)
	}
	names, err := s.reportRepo.GetUsernames(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load usernames for report: %w", err)
	}

	scheduled := make(map[string]time.Duration)
	worked := make(map[string]time.Duration)
	byEmployee := make(map[string]*models.EmployeeHours)
	row := func(id string) *models.EmployeeHours {
		if r, ok := byEmployee[id]; ok {
			return r
		}
		r := &models.EmployeeHours{EmployeeID: id, Username: names[id]}
		byEmployee[id] = r
		return r
	}

	for _, span := range shifts {
		r := row(span.EmployeeID)
		r.ShiftCount++
		if span.End != nil {
			scheduled[span.EmployeeID] += span.End.Sub(span.Start)
		}
	}
	for _, span := range punches {
		r := row(span.EmployeeID)
		if span.End == nil {
			r.OpenPunch = true
			continue
		}
		worked[span.EmployeeID] += span.End.Sub(span.Start)
	}

	report := &models.HoursReport{PeriodStart: start, PeriodEnd: end, Employees: []models.EmployeeHours{}}
	for id, r := range byEmployee {
		r.ScheduledHours = roundCents(scheduled[id].Hours())
		r.WorkedHours = roundCents(worked[id].Hours())
		report.ScheduledHours += r.ScheduledHours
		report.WorkedHours += r.WorkedHours
		report.Employees = append(report.Employees, *r)
	}
	report.ScheduledHours = roundCents(report.ScheduledHours)
	report.WorkedHours = roundCents(report.WorkedHours)
	sort.Slice(report.Employees, func(i, j int) bool {
		return report.Employees[i].Username < report.Employees[j].Username
	})
	return report, nil
}
