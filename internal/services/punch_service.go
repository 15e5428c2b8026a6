package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shift_scheduler_backend/internal/models"
	"shift_scheduler_backend/internal/repositories"
	"shift_scheduler_backend/pkg/utils"
)

var (
	ErrPunchAlreadyOpen = errors.New("employee is already punched in")
	ErrNoOpenPunch      = errors.New("employee is not punched in")
)

type PunchRequest struct {
	Notes string `form:"Notes" json:"notes"`
}

type PunchService interface {
	GetPunches(ctx context.Context, employeeID string) ([]models.Punch, error)
	PunchIn(ctx context.Context, employeeID string, req PunchRequest) (*models.Punch, error)
	PunchOut(ctx context.Context, employeeID string) (*models.Punch, error)
}

type punchService struct {
	repo repositories.PunchRepository
	db   *sql.DB
	now  func() time.Time
}

func NewPunchService(repo repositories.PunchRepository, db *sql.DB) PunchService {
	return &punchService{repo: repo, db: db, now: time.Now}
}

func (s *punchService) GetPunches(ctx context.Context, employeeID string) ([]models.Punch, error) {
	punches, err := s.repo.GetPunchesByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get punches: %w", err)
	}
	return punches, nil
}

func (s *punchService) PunchIn(ctx context.Context, employeeID string, req PunchRequest) (*models.Punch, error) {
	if _, err := s.repo.GetOpenPunch(ctx, employeeID); err == nil {
		return nil, ErrPunchAlreadyOpen
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to check open punch: %w", err)
	}

	punch, err := s.repo.CreatePunch(ctx, s.db, &models.Punch{
		EmployeeID: employeeID,
		PunchIn:    s.now().UTC(),
		Notes:      utils.NewNullString(req.Notes),
	})
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrDuplicateKey):
			// Lost a race with a concurrent punch-in.
			return nil, ErrPunchAlreadyOpen
		case errors.Is(err, repositories.ErrNotFound):
			return nil, fmt.Errorf("%w: user %s", ErrAccountGone, employeeID)
		}
		return nil, fmt.Errorf("failed to punch in: %w", err)
	}
	return punch, nil
}

func (s *punchService) PunchOut(ctx context.Context, employeeID string) (*models.Punch, error) {
	punch, err := s.repo.GetOpenPunch(ctx, employeeID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNoOpenPunch
		}
		return nil, fmt.Errorf("failed to get open punch: %w", err)
	}

	out := s.now().UTC()
	if err := s.repo.ClosePunch(ctx, s.db, punch.ID, out); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNoOpenPunch
		}
		return nil, fmt.Errorf("failed to punch out: %w", err)
	}
	punch.PunchOut = &out
	return punch, nil
}
