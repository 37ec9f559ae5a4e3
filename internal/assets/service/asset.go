package service

import (
	"context"
	"errors"
	"strings"

	"github.com/ReyMursuli/assets-api/internal/assets/domain"
	"github.com/ReyMursuli/assets-api/internal/assets/store"
)

var ErrAssetNotFound = errors.New("asset_not_found")

type AssetService struct {
	Store store.Store
}

func (s *AssetService) GetByID(ctx context.Context, id int64) (domain.Asset, error) {
	a, err := s.Store.Assets().GetAssetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Asset{}, ErrAssetNotFound
		}
		return domain.Asset{}, err
	}
	return a, nil
}

func (s *AssetService) List(ctx context.Context) ([]domain.Asset, error) {
	return s.Store.Assets().ListAssets(ctx)
}

// Create inserts a new asset. A department reference, when given, must point
// at an existing department.
func (s *AssetService) Create(ctx context.Context, a domain.Asset) (domain.Asset, error) {
	a.Name = strings.TrimSpace(a.Name)
	a.Code = strings.TrimSpace(a.Code)
	if a.Name == "" || a.Code == "" {
		return domain.Asset{}, ErrMissingField
	}

	if a.DepartmentID != nil {
		if _, err := s.Store.Departments().GetDepartmentByID(ctx, *a.DepartmentID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return domain.Asset{}, ErrDepartmentNotFound
			}
			return domain.Asset{}, err
		}
	}

	id, err := s.Store.Assets().CreateAsset(ctx, a)
	if err != nil {
		return domain.Asset{}, err
	}

	return s.GetByID(ctx, id)
}

func (s *AssetService) Update(ctx context.Context, a domain.Asset) (domain.Asset, error) {
	a.Name = strings.TrimSpace(a.Name)
	a.Code = strings.TrimSpace(a.Code)
	if a.Name == "" || a.Code == "" {
		return domain.Asset{}, ErrMissingField
	}

	if a.DepartmentID != nil {
		if _, err := s.Store.Departments().GetDepartmentByID(ctx, *a.DepartmentID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return domain.Asset{}, ErrDepartmentNotFound
			}
			return domain.Asset{}, err
		}
	}

	if err := s.Store.Assets().UpdateAsset(ctx, a); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Asset{}, ErrAssetNotFound
		}
		return domain.Asset{}, err
	}

	return s.GetByID(ctx, a.ID)
}

func (s *AssetService) Delete(ctx context.Context, id int64) error {
	if err := s.Store.Assets().DeleteAsset(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrAssetNotFound
		}
		return err
	}
	return nil
}
