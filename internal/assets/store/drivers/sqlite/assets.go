package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/ReyMursuli/assets-api/internal/assets/domain"
)

type assetsRepo struct {
	db dbtx
}

const assetColumns = `id, name, code, label, initial_value, residual_value,
	accumulated_depreciation, department_id, created_at, updated_at`

func scanAsset(row interface{ Scan(...any) error }) (domain.Asset, error) {
	var (
		a    domain.Asset
		dept sql.NullInt64
	)
	err := row.Scan(&a.ID, &a.Name, &a.Code, &a.Label, &a.InitialValue,
		&a.ResidualValue, &a.AccumulatedDepreciation, &dept, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return domain.Asset{}, err
	}
	a.DepartmentID = mapNullInt64(dept)
	return a, nil
}

func (r *assetsRepo) GetAssetByID(ctx context.Context, id int64) (domain.Asset, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+assetColumns+` FROM assets WHERE id = ?`, id)
	a, err := scanAsset(row)
	if err != nil {
		return domain.Asset{}, mapNotFound(err)
	}
	return a, nil
}

func (r *assetsRepo) ListAssets(ctx context.Context) ([]domain.Asset, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+assetColumns+` FROM assets ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assets []domain.Asset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		assets = append(assets, a)
	}
	return assets, rows.Err()
}

func (r *assetsRepo) CreateAsset(ctx context.Context, a domain.Asset) (int64, error) {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO assets (name, code, label, initial_value, residual_value,
			accumulated_depreciation, department_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.Name, a.Code, a.Label, a.InitialValue, a.ResidualValue,
		a.AccumulatedDepreciation, mapOptionalInt64(a.DepartmentID), now, now,
	)
	if err != nil {
		return 0, mapConstraint(err)
	}
	return res.LastInsertId()
}

func (r *assetsRepo) UpdateAsset(ctx context.Context, a domain.Asset) error {
	return affecting(r.db.ExecContext(ctx, `
		UPDATE assets SET name = ?, code = ?, label = ?, initial_value = ?,
			residual_value = ?, accumulated_depreciation = ?, department_id = ?,
			updated_at = ?
		WHERE id = ?`,
		a.Name, a.Code, a.Label, a.InitialValue, a.ResidualValue,
		a.AccumulatedDepreciation, mapOptionalInt64(a.DepartmentID),
		time.Now().UTC(), a.ID))
}

func (r *assetsRepo) DeleteAsset(ctx context.Context, id int64) error {
	return affecting(r.db.ExecContext(ctx, `DELETE FROM assets WHERE id = ?`, id))
}
