package service

import (
	"context"
	"errors"
	"strings"

	"github.com/ReyMursuli/assets-api/internal/assets/domain"
	"github.com/ReyMursuli/assets-api/internal/assets/store"
)

var (
	ErrDepartmentNotFound = errors.New("department_not_found")
	ErrCodeTaken          = errors.New("department_code_already_registered")
)

type DepartmentService struct {
	Store store.Store
}

func (s *DepartmentService) GetByID(ctx context.Context, id int64) (domain.Department, error) {
	d, err := s.Store.Departments().GetDepartmentByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Department{}, ErrDepartmentNotFound
		}
		return domain.Department{}, err
	}
	return d, nil
}

func (s *DepartmentService) List(ctx context.Context) ([]domain.Department, error) {
	return s.Store.Departments().ListDepartments(ctx)
}

// Create inserts a new department. When a responsible user is given it must
// exist; the reference is validated up front so the caller gets a distinct
// error instead of a raw constraint failure.
func (s *DepartmentService) Create(ctx context.Context, name, code string, responsibleID *int64) (domain.Department, error) {
	name = strings.TrimSpace(name)
	code = strings.TrimSpace(code)
	if name == "" || code == "" {
		return domain.Department{}, ErrMissingField
	}

	if responsibleID != nil {
		if _, err := s.Store.Users().GetUserByID(ctx, *responsibleID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return domain.Department{}, ErrUserNotFound
			}
			return domain.Department{}, err
		}
	}

	id, err := s.Store.Departments().CreateDepartment(ctx, domain.Department{
		Name:          name,
		Code:          code,
		ResponsibleID: responsibleID,
	})
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Department{}, ErrCodeTaken
		}
		return domain.Department{}, err
	}

	return s.GetByID(ctx, id)
}

func (s *DepartmentService) Update(ctx context.Context, id int64, name, code string, responsibleID *int64) (domain.Department, error) {
	name = strings.TrimSpace(name)
	code = strings.TrimSpace(code)
	if name == "" || code == "" {
		return domain.Department{}, ErrMissingField
	}

	if responsibleID != nil {
		if _, err := s.Store.Users().GetUserByID(ctx, *responsibleID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return domain.Department{}, ErrUserNotFound
			}
			return domain.Department{}, err
		}
	}

	if err := s.Store.Departments().UpdateDepartment(ctx, id, name, code, responsibleID); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return domain.Department{}, ErrDepartmentNotFound
		case errors.Is(err, store.ErrAlreadyExists):
			return domain.Department{}, ErrCodeTaken
		}
		return domain.Department{}, err
	}

	return s.GetByID(ctx, id)
}

// Delete removes a department along with its assets.
func (s *DepartmentService) Delete(ctx context.Context, id int64) error {
	if err := s.Store.Departments().DeleteDepartment(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrDepartmentNotFound
		}
		return err
	}
	return nil
}
