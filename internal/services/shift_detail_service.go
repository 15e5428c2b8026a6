package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"shift_scheduler_backend/internal/models"
	"shift_scheduler_backend/internal/repositories"
	"shift_scheduler_backend/pkg/utils"
)

// --- Custom Service Errors for ShiftDetails ---
var (
	ErrShiftDetailNotFound = errors.New("shift detail not found")
	ErrShiftNotFound       = errors.New("shift not found")
)

// ShiftDetailRequest is the allow-listed set of fields a client may submit
// for a shift detail. Times are parsed by the service.
type ShiftDetailRequest struct {
	ID              int64  `form:"Id" json:"id"`
	ShiftID         int64  `form:"ShiftId" json:"shift_id"`
	TaskDescription string `form:"TaskDescription" json:"task_description"`
	TaskStartTime   string `form:"TaskStartTime" json:"task_start_time"`
	TaskEndTime     string `form:"TaskEndTime" json:"task_end_time"`
	TaskType        string `form:"TaskType" json:"task_type"`
	Notes           string `form:"Notes" json:"notes"`
	IsCompleted     bool   `form:"IsCompleted" json:"is_completed"`
	Version         int64  `form:"Version" json:"version"`
}

// ShiftDetailService holds the ShiftDetail CRUD rules.
type ShiftDetailService interface {
	GetShiftDetails(ctx context.Context) ([]models.ShiftDetail, error)
	GetShiftDetailByID(ctx context.Context, id int64) (*models.ShiftDetail, error)
	// SelectableShiftIDs lists the shifts principalID may attach details to.
	SelectableShiftIDs(ctx context.Context, principalID string) ([]int64, error)
	CreateShiftDetail(ctx context.Context, principalID string, req ShiftDetailRequest) (*models.ShiftDetail, error)
	// GetOwnedShiftDetail loads a detail for an edit or delete form, enforcing ownership.
	GetOwnedShiftDetail(ctx context.Context, principalID string, id int64) (*models.ShiftDetail, error)
	UpdateShiftDetail(ctx context.Context, principalID string, id int64, req ShiftDetailRequest) (*models.ShiftDetail, error)
	// DeleteShiftDetail removes the detail. A detail that is already gone is not an error.
	DeleteShiftDetail(ctx context.Context, principalID string, id int64) error
}

type shiftDetailService struct {
	detailRepo repositories.ShiftDetailRepository
	shiftRepo  repositories.ShiftRepository
	db         *sql.DB
}

// NewShiftDetailService creates a new instance of ShiftDetailService.
func NewShiftDetailService(dr repositories.ShiftDetailRepository, sr repositories.ShiftRepository, db *sql.DB) ShiftDetailService {
	return &shiftDetailService{
		detailRepo: dr,
		shiftRepo:  sr,
		db:         db,
	}
}

// toModel validates req and converts it. Field keys match the json tags.
func (req ShiftDetailRequest) toModel() (*models.ShiftDetail, error) {
	verr := &ValidationError{}

	description := strings.TrimSpace(req.TaskDescription)
	if description == "" {
		verr.add("task_description", "The TaskDescription field is required.")
	}
	taskType := strings.TrimSpace(req.TaskType)
	if taskType == "" {
		verr.add("task_type", "The TaskType field is required.")
	}

	start, startOK := parseDateTime(req.TaskStartTime)
	switch {
	case utils.IsEmpty(req.TaskStartTime):
		verr.add("task_start_time", "The TaskStartTime field is required.")
	case !startOK:
		verr.add("task_start_time", "The TaskStartTime field must be a date and time.")
	}
	end, endOK := parseDateTime(req.TaskEndTime)
	switch {
	case utils.IsEmpty(req.TaskEndTime):
		verr.add("task_end_time", "The TaskEndTime field is required.")
	case !endOK:
		verr.add("task_end_time", "The TaskEndTime field must be a date and time.")
	}
	if startOK && endOK && end.Before(start) {
		verr.add("task_end_time", "Task end time cannot be before its start time.")
	}

	if err := verr.orNil(); err != nil {
		return nil, err
	}
	return &models.ShiftDetail{
		ID:              req.ID,
		ShiftID:         req.ShiftID,
		TaskDescription: description,
		TaskStartTime:   start,
		TaskEndTime:     end,
		TaskType:        taskType,
		Notes:           utils.NewNullString(req.Notes),
		IsCompleted:     req.IsCompleted,
		Version:         req.Version,
	}, nil
}

func (s *shiftDetailService) GetShiftDetails(ctx context.Context) ([]models.ShiftDetail, error) {
	details, err := s.detailRepo.GetShiftDetails(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get shift details: %w", err)
	}
	return details, nil
}

func (s *shiftDetailService) GetShiftDetailByID(ctx context.Context, id int64) (*models.ShiftDetail, error) {
	detail, err := s.detailRepo.GetShiftDetailByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrShiftDetailNotFound
		}
		return nil, fmt.Errorf("failed to get shift detail by ID: %w", err)
	}
	return detail, nil
}

func (s *shiftDetailService) SelectableShiftIDs(ctx context.Context, principalID string) ([]int64, error) {
	ids := []int64{}
	if principalID == "" {
		return ids, nil
	}
	shifts, err := s.shiftRepo.GetShifts(ctx, &principalID)
	if err != nil {
		return nil, fmt.Errorf("failed to list selectable shifts: %w", err)
	}
	for _, shift := range shifts {
		ids = append(ids, shift.ID)
	}
	return ids, nil
}

// loadShift resolves a shift, mapping a missing row to ErrShiftNotFound.
func (s *shiftDetailService) loadShift(ctx context.Context, shiftID int64) (*models.Shift, error) {
	shift, err := s.shiftRepo.GetShiftByID(ctx, shiftID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: ID %d", ErrShiftNotFound, shiftID)
		}
		return nil, fmt.Errorf("failed to get shift: %w", err)
	}
	return shift, nil
}

func (s *shiftDetailService) CreateShiftDetail(ctx context.Context, principalID string, req ShiftDetailRequest) (*models.ShiftDetail, error) {
	detail, err := req.toModel()
	if err != nil {
		return nil, err
	}

	shift, err := s.loadShift(ctx, detail.ShiftID)
	if err != nil {
		if errors.Is(err, ErrShiftNotFound) {
			return nil, &ValidationError{Fields: map[string]string{"shift_id": "Invalid shift selected."}}
		}
		return nil, err
	}
	if !CanMutateShift(principalID, shift) {
		return nil, fmt.Errorf("%w: shift %d", ErrForbidden, shift.ID)
	}

	detail.ID = 0
	created, err := s.detailRepo.CreateShiftDetail(ctx, s.db, detail)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			// The shift was deleted after it was resolved above.
			return nil, &ValidationError{Fields: map[string]string{"shift_id": "Invalid shift selected."}}
		}
		return nil, fmt.Errorf("failed to create shift detail in repository: %w", err)
	}
	created.Shift = shift
	return created, nil
}

func (s *shiftDetailService) GetOwnedShiftDetail(ctx context.Context, principalID string, id int64) (*models.ShiftDetail, error) {
	detail, err := s.GetShiftDetailByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanMutateShift(principalID, detail.Shift) {
		return nil, fmt.Errorf("%w: shift detail %d", ErrForbidden, id)
	}
	return detail, nil
}

func (s *shiftDetailService) UpdateShiftDetail(ctx context.Context, principalID string, id int64, req ShiftDetailRequest) (*models.ShiftDetail, error) {
	if id != req.ID {
		return nil, fmt.Errorf("%w: path ID %d does not match payload ID %d", ErrShiftDetailNotFound, id, req.ID)
	}

	existing, err := s.GetShiftDetailByID(ctx, id)
	if err != nil {
		return nil, err
	}

	target, err := s.loadShift(ctx, req.ShiftID)
	if err != nil {
		return nil, err
	}
	if !CanMutateShift(principalID, target) {
		return nil, fmt.Errorf("%w: shift %d", ErrForbidden, target.ID)
	}
	// Moving a detail between shifts needs ownership of the shift it leaves too.
	if !CanMutateShift(principalID, existing.Shift) {
		return nil, fmt.Errorf("%w: shift %d", ErrForbidden, existing.ShiftID)
	}

	detail, err := req.toModel()
	if err != nil {
		return nil, err
	}
	if detail.Version <= 0 {
		return nil, &ValidationError{Fields: map[string]string{"version": "The Version field is required."}}
	}

	updated, err := s.detailRepo.UpdateShiftDetail(ctx, s.db, detail)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrVersionMismatch):
			return nil, fmt.Errorf("%w: shift detail %d", ErrConcurrentUpdate, id)
		case errors.Is(err, repositories.ErrNotFound):
			if _, getErr := s.detailRepo.GetShiftDetailByID(ctx, id); errors.Is(getErr, repositories.ErrNotFound) {
				return nil, ErrShiftDetailNotFound
			}
			return nil, fmt.Errorf("%w: ID %d", ErrShiftNotFound, req.ShiftID)
		}
		return nil, fmt.Errorf("failed to update shift detail in repository: %w", err)
	}
	updated.Shift = target
	updated.CreatedAt = existing.CreatedAt
	return updated, nil
}

func (s *shiftDetailService) DeleteShiftDetail(ctx context.Context, principalID string, id int64) error {
	detail, err := s.detailRepo.GetShiftDetailByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to get shift detail for deletion: %w", err)
	}
	if !CanMutateShift(principalID, detail.Shift) {
		return fmt.Errorf("%w: shift detail %d", ErrForbidden, id)
	}

	if err := s.detailRepo.DeleteShiftDetail(ctx, s.db, id); err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("failed to delete shift detail: %w", err)
	}
	return nil
}
