package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"shift_scheduler_backend/internal/models"
	"shift_scheduler_backend/internal/repositories"
	"shift_scheduler_backend/pkg/utils"
)

var ErrAvailabilityNotFound = errors.New("availability not found")

type AvailabilityRequest struct {
	DayOfWeek *int   `form:"DayOfWeek" json:"day_of_week" binding:"required,min=0,max=6"`
	StartTime string `form:"StartTime" json:"start_time" binding:"required"`
	EndTime   string `form:"EndTime" json:"end_time" binding:"required"`
	Notes     string `form:"Notes" json:"notes"`
}

type AvailabilityService interface {
	GetAvailabilities(ctx context.Context, employeeID string) ([]models.Availability, error)
	CreateAvailability(ctx context.Context, employeeID string, req AvailabilityRequest) (*models.Availability, error)
	// DeleteAvailability is a no-op when the row is already gone.
	DeleteAvailability(ctx context.Context, employeeID string, id int64) error
}

type availabilityService struct {
	repo repositories.AvailabilityRepository
	db   *sql.DB
}

func NewAvailabilityService(repo repositories.AvailabilityRepository, db *sql.DB) AvailabilityService {
	return &availabilityService{repo: repo, db: db}
}

const clockLayout = "15:04"

func (req AvailabilityRequest) toModel(employeeID string) (*models.Availability, error) {
	verr := &ValidationError{}
	if req.DayOfWeek == nil || *req.DayOfWeek < 0 || *req.DayOfWeek > 6 {
		verr.add("day_of_week", "The DayOfWeek field must be between 0 (Sunday) and 6 (Saturday).")
	}
	start, startErr := time.Parse(clockLayout, strings.TrimSpace(req.StartTime))
	if startErr != nil {
		verr.add("start_time", "The StartTime field must be a time of day (HH:MM).")
	}
	end, endErr := time.Parse(clockLayout, strings.TrimSpace(req.EndTime))
	if endErr != nil {
		verr.add("end_time", "The EndTime field must be a time of day (HH:MM).")
	}
	if startErr == nil && endErr == nil && !end.After(start) {
		verr.add("end_time", "Availability must end after it starts.")
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}
	return &models.Availability{
		EmployeeID: employeeID,
		DayOfWeek:  *req.DayOfWeek,
		StartTime:  start.Format(clockLayout),
		EndTime:    end.Format(clockLayout),
		Notes:      utils.NewNullString(req.Notes),
	}, nil
}

func (s *availabilityService) GetAvailabilities(ctx context.Context, employeeID string) ([]models.Availability, error) {
	list, err := s.repo.GetAvailabilitiesByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get availabilities: %w", err)
	}
	return list, nil
}

func (s *availabilityService) CreateAvailability(ctx context.Context, employeeID string, req AvailabilityRequest) (*models.Availability, error) {
	availability, err := req.toModel(employeeID)
	if err != nil {
		return nil, err
	}
	created, err := s.repo.CreateAvailability(ctx, s.db, availability)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %s", ErrAccountGone, employeeID)
		}
		return nil, fmt.Errorf("failed to create availability: %w", err)
	}
	return created, nil
}

func (s *availabilityService) DeleteAvailability(ctx context.Context, employeeID string, id int64) error {
	availability, err := s.repo.GetAvailabilityByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to get availability for deletion: %w", err)
	}
	if employeeID == "" || availability.EmployeeID != employeeID {
		return fmt.Errorf("%w: availability %d", ErrForbidden, id)
	}
	if err := s.repo.DeleteAvailability(ctx, s.db, id); err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("failed to delete availability: %w", err)
	}
	return nil
}
