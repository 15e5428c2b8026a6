package services

import (
	"context"
	"fmt"
	"strings"

	"shift_scheduler_backend/internal/models"
	"shift_scheduler_backend/internal/repositories"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// EmployeePage is one page of the employee directory.
type EmployeePage struct {
	Data     []models.EmployeeSummary `json:"data"`
	Total    int                      `json:"total"`
	Page     int                      `json:"page"`
	PageSize int                      `json:"page_size"`
}

// EmployeeService lists accounts for managers.
type EmployeeService interface {
	GetEmployees(ctx context.Context, page, pageSize int, search string) (*EmployeePage, error)
}

type employeeService struct {
	employeeRepo repositories.EmployeeRepository
}

func NewEmployeeService(er repositories.EmployeeRepository) EmployeeService {
	return &employeeService{employeeRepo: er}
}

func (s *employeeService) GetEmployees(ctx context.Context, page, pageSize int, search string) (*EmployeePage, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	var term *string
	if search = strings.TrimSpace(search); search != "" {
		term = &search
	}

	employees, total, err := s.employeeRepo.GetEmployees(ctx, page, pageSize, term)
	if err != nil {
		return nil, fmt.Errorf("failed to get employees: %w", err)
	}
	return &EmployeePage{Data: employees, Total: total, Page: page, PageSize: pageSize}, nil
}
