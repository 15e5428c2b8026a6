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

// MaxShiftLength bounds a single shift.
const MaxShiftLength = 24 * time.Hour

var ErrEmployeeNotFound = errors.New("employee not found")

// ShiftRequest is the payload for creating or editing a shift. EmployeeID is
// honoured for managers only; everyone else always acts on their own shifts.
type ShiftRequest struct {
	ID         int64  `form:"Id" json:"id"`
	EmployeeID string `form:"EmployeeId" json:"employee_id"`
	StartTime  string `form:"StartTime" json:"start_time"`
	EndTime    string `form:"EndTime" json:"end_time"`
	Notes      string `form:"Notes" json:"notes"`
	Version    int64  `form:"Version" json:"version"`
}

type ShiftService interface {
	GetShifts(ctx context.Context, employeeID *string) ([]models.Shift, error)
	// GetShiftByID returns the shift with its shift details attached.
	GetShiftByID(ctx context.Context, id int64) (*models.Shift, error)
	CreateShift(ctx context.Context, p Principal, req ShiftRequest) (*models.Shift, error)
	UpdateShift(ctx context.Context, p Principal, id int64, req ShiftRequest) (*models.Shift, error)
	// DeleteShift removes the shift and, through the cascade, its details.
	// A shift that is already gone is not an error.
	DeleteShift(ctx context.Context, p Principal, id int64) error
}

type shiftService struct {
	shiftRepo  repositories.ShiftRepository
	detailRepo repositories.ShiftDetailRepository
	db         *sql.DB
}

func NewShiftService(sr repositories.ShiftRepository, dr repositories.ShiftDetailRepository, db *sql.DB) ShiftService {
	return &shiftService{
		shiftRepo:  sr,
		detailRepo: dr,
		db:         db,
	}
}

func (req ShiftRequest) toModel() (*models.Shift, error) {
	verr := &ValidationError{}
	start, startOK := parseDateTime(req.StartTime)
	if !startOK {
		verr.add("start_time", "The StartTime field must be a date and time.")
	}
	end, endOK := parseDateTime(req.EndTime)
	if !endOK {
		verr.add("end_time", "The EndTime field must be a date and time.")
	}
	if startOK && endOK {
		if !end.After(start) {
			verr.add("end_time", "Shift end time must be after its start time.")
		} else if end.Sub(start) > MaxShiftLength {
			verr.add("end_time", "A shift cannot be longer than 24 hours.")
		}
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}
	return &models.Shift{
		ID:         req.ID,
		EmployeeID: strings.TrimSpace(req.EmployeeID),
		StartTime:  start,
		EndTime:    end,
		Notes:      utils.NewNullString(req.Notes),
		Version:    req.Version,
	}, nil
}

func (s *shiftService) GetShifts(ctx context.Context, employeeID *string) ([]models.Shift, error) {
	shifts, err := s.shiftRepo.GetShifts(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get shifts: %w", err)
	}
	return shifts, nil
}

func (s *shiftService) GetShiftByID(ctx context.Context, id int64) (*models.Shift, error) {
	shift, err := s.shiftRepo.GetShiftByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrShiftNotFound
		}
		return nil, fmt.Errorf("failed to get shift by ID: %w", err)
	}
	details, err := s.detailRepo.GetShiftDetailsByShift(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get details for shift %d: %w", id, err)
	}
	for i := range details {
		details[i].Shift = nil
	}
	shift.ShiftDetails = details
	return shift, nil
}

// ownerFor picks the employee a shift is written for.
func ownerFor(p Principal, requested string) string {
	if p.IsManager() && requested != "" {
		return requested
	}
	return p.UserID
}

func (s *shiftService) CreateShift(ctx context.Context, p Principal, req ShiftRequest) (*models.Shift, error) {
	if p.IsAnonymous() {
		return nil, ErrForbidden
	}
	shift, err := req.toModel()
	if err != nil {
		return nil, err
	}
	shift.ID = 0
	shift.EmployeeID = ownerFor(p, shift.EmployeeID)

	created, err := s.shiftRepo.CreateShift(ctx, s.db, shift)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			if shift.EmployeeID == p.UserID {
				return nil, fmt.Errorf("%w: user %s", ErrAccountGone, p.UserID)
			}
			return nil, &ValidationError{Fields: map[string]string{"employee_id": "Invalid employee selected."}}
		}
		return nil, fmt.Errorf("failed to create shift in repository: %w", err)
	}
	return created, nil
}

func (s *shiftService) UpdateShift(ctx context.Context, p Principal, id int64, req ShiftRequest) (*models.Shift, error) {
	if id != req.ID {
		return nil, fmt.Errorf("%w: path ID %d does not match payload ID %d", ErrShiftNotFound, id, req.ID)
	}
	existing, err := s.shiftRepo.GetShiftByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrShiftNotFound
		}
		return nil, fmt.Errorf("failed to get shift for update: %w", err)
	}
	if !CanManageShift(p, existing) {
		return nil, fmt.Errorf("%w: shift %d", ErrForbidden, id)
	}

	shift, err := req.toModel()
	if err != nil {
		return nil, err
	}
	if shift.Version <= 0 {
		return nil, &ValidationError{Fields: map[string]string{"version": "The Version field is required."}}
	}
	if shift.EmployeeID == "" || !p.IsManager() {
		shift.EmployeeID = existing.EmployeeID
	}

	updated, err := s.shiftRepo.UpdateShift(ctx, s.db, shift)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrVersionMismatch):
			return nil, fmt.Errorf("%w: shift %d", ErrConcurrentUpdate, id)
		case errors.Is(err, repositories.ErrNotFound):
			if _, getErr := s.shiftRepo.GetShiftByID(ctx, id); errors.Is(getErr, repositories.ErrNotFound) {
				return nil, ErrShiftNotFound
			}
			return nil, &ValidationError{Fields: map[string]string{"employee_id": "Invalid employee selected."}}
		}
		return nil, fmt.Errorf("failed to update shift in repository: %w", err)
	}
	updated.CreatedAt = existing.CreatedAt
	return updated, nil
}

func (s *shiftService) DeleteShift(ctx context.Context, p Principal, id int64) error {
	shift, err := s.shiftRepo.GetShiftByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to get shift for deletion: %w", err)
	}
	if !CanManageShift(p, shift) {
		return fmt.Errorf("%w: shift %d", ErrForbidden, id)
	}
	if err := s.shiftRepo.DeleteShift(ctx, s.db, id); err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("failed to delete shift: %w", err)
	}
	return nil
}
