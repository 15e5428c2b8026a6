package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"shift_scheduler_backend/internal/models"
	"shift_scheduler_backend/internal/notify"
	"shift_scheduler_backend/internal/repositories"
	"shift_scheduler_backend/pkg/utils"
)

var ErrPayStubNotFound = errors.New("pay stub not found")

// PayStubRequest asks for a stub covering [PeriodStart, PeriodEnd).
type PayStubRequest struct {
	EmployeeID  string  `form:"EmployeeId" json:"employee_id" binding:"required"`
	PeriodStart string  `form:"PeriodStart" json:"period_start" binding:"required"`
	PeriodEnd   string  `form:"PeriodEnd" json:"period_end" binding:"required"`
	HourlyRate  float64 `form:"HourlyRate" json:"hourly_rate" binding:"required,gt=0"`
	Deductions  float64 `form:"Deductions" json:"deductions" binding:"min=0"`
}

// MessageDispatcher queues a notification without waiting for delivery.
type MessageDispatcher interface {
	Dispatch(msg notify.Message)
}

type PayStubService interface {
	GetPayStubs(ctx context.Context, employeeID string) ([]models.PayStub, error)
	// GetPayStub returns a stub to its employee or to a manager.
	GetPayStub(ctx context.Context, p Principal, id int64) (*models.PayStub, error)
	// CreatePayStub computes and stores a stub from the employee's closed
	// punches. Managers only.
	CreatePayStub(ctx context.Context, p Principal, req PayStubRequest) (*models.PayStub, error)
}

type payStubService struct {
	stubRepo   repositories.PayStubRepository
	punchRepo  repositories.PunchRepository
	authRepo   repositories.AuthRepository
	dispatcher MessageDispatcher
	db         *sql.DB
}

func NewPayStubService(
	stubRepo repositories.PayStubRepository,
	punchRepo repositories.PunchRepository,
	authRepo repositories.AuthRepository,
	dispatcher MessageDispatcher,
	db *sql.DB,
) PayStubService {
	return &payStubService{
		stubRepo:   stubRepo,
		punchRepo:  punchRepo,
		authRepo:   authRepo,
		dispatcher: dispatcher,
		db:         db,
	}
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// hoursWorked sums closed punches that start inside [start, end).
func hoursWorked(punches []models.Punch, start, end time.Time) float64 {
	var total time.Duration
	for _, p := range punches {
		if p.PunchOut == nil || p.PunchIn.Before(start) || !p.PunchIn.Before(end) {
			continue
		}
		total += p.Duration()
	}
	return roundCents(total.Hours())
}

func (s *payStubService) GetPayStubs(ctx context.Context, employeeID string) ([]models.PayStub, error) {
	stubs, err := s.stubRepo.GetPayStubsByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get pay stubs: %w", err)
	}
	return stubs, nil
}

func (s *payStubService) GetPayStub(ctx context.Context, p Principal, id int64) (*models.PayStub, error) {
	stub, err := s.stubRepo.GetPayStubByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPayStubNotFound
		}
		return nil, fmt.Errorf("failed to get pay stub: %w", err)
	}
	if !p.IsManager() && (p.IsAnonymous() || stub.EmployeeID != p.UserID) {
		return nil, fmt.Errorf("%w: pay stub %d", ErrForbidden, id)
	}
	return stub, nil
}

func (s *payStubService) CreatePayStub(ctx context.Context, p Principal, req PayStubRequest) (*models.PayStub, error) {
	if !p.IsManager() {
		return nil, fmt.Errorf("%w: only managers issue pay stubs", ErrForbidden)
	}

	verr := &ValidationError{}
	start, startOK := parseDate(req.PeriodStart)
	if !startOK {
		verr.add("period_start", "The PeriodStart field must be a date.")
	}
	end, endOK := parseDate(req.PeriodEnd)
	if !endOK {
		verr.add("period_end", "The PeriodEnd field must be a date.")
	}
	if startOK && endOK && !end.After(start) {
		verr.add("period_end", "The pay period must end after it starts.")
	}
	if req.HourlyRate <= 0 {
		verr.add("hourly_rate", "The HourlyRate field must be positive.")
	}
	if req.Deductions < 0 {
		verr.add("deductions", "The Deductions field cannot be negative.")
	}
	employeeID := strings.TrimSpace(req.EmployeeID)
	if employeeID == "" {
		verr.add("employee_id", "The EmployeeId field is required.")
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	employee, err := s.authRepo.FindUserByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrEmployeeNotFound, employeeID)
		}
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}

	punches, err := s.punchRepo.GetPunchesByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get punches for pay stub: %w", err)
	}

	hours := hoursWorked(punches, start, end)
	gross := roundCents(hours * req.HourlyRate)
	net := roundCents(math.Max(0, gross-req.Deductions))

	stub, err := s.stubRepo.CreatePayStub(ctx, s.db, &models.PayStub{
		EmployeeID:  employeeID,
		PeriodStart: start,
		PeriodEnd:   end,
		HoursWorked: hours,
		HourlyRate:  req.HourlyRate,
		GrossPay:    gross,
		Deductions:  req.Deductions,
		NetPay:      net,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create pay stub: %w", err)
	}

	utils.LogInfo("Pay stub issued", map[string]interface{}{"pay_stub_id": stub.ID, "employee_id": employeeID, "issued_by": p.UserID})
	if s.dispatcher != nil {
		msg := notify.Message{
			UserID: employee.ID,
			Text: fmt.Sprintf("Your pay stub for %s to %s is ready: %.2f hours, net pay %.2f.",
				start.Format("2006-01-02"), end.Format("2006-01-02"), hours, net),
		}
		if employee.TelegramChatID != nil {
			msg.ChatID = *employee.TelegramChatID
		}
		s.dispatcher.Dispatch(msg)
	}
	return stub, nil
}
