package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/ReyMursuli/assets-api/internal/assets/domain"
)

type departmentsRepo struct {
	db dbtx
}

const departmentColumns = `id, name, code, responsible_id, created_at, updated_at`

func scanDepartment(row interface{ Scan(...any) error }) (domain.Department, error) {
	var (
		d           domain.Department
		responsible sql.NullInt64
	)
	err := row.Scan(&d.ID, &d.Name, &d.Code, &responsible, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return domain.Department{}, err
	}
	d.ResponsibleID = mapNullInt64(responsible)
	return d, nil
}

func (r *departmentsRepo) GetDepartmentByID(ctx context.Context, id int64) (domain.Department, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+departmentColumns+` FROM departments WHERE id = ?`, id)
	d, err := scanDepartment(row)
	if err != nil {
		return domain.Department{}, mapNotFound(err)
	}
	return d, nil
}

func (r *departmentsRepo) GetDepartmentByResponsible(ctx context.Context, userID int64) (domain.Department, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+departmentColumns+` FROM departments WHERE responsible_id = ?`, userID)
	d, err := scanDepartment(row)
	if err != nil {
		return domain.Department{}, mapNotFound(err)
	}
	return d, nil
}

func (r *departmentsRepo) ListDepartments(ctx context.Context) ([]domain.Department, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+departmentColumns+` FROM departments ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var departments []domain.Department
	for rows.Next() {
		d, err := scanDepartment(rows)
		if err != nil {
			return nil, err
		}
		departments = append(departments, d)
	}
	return departments, rows.Err()
}

func (r *departmentsRepo) CreateDepartment(ctx context.Context, d domain.Department) (int64, error) {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO departments (name, code, responsible_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		d.Name, d.Code, mapOptionalInt64(d.ResponsibleID), now, now,
	)
	if err != nil {
		return 0, mapConstraint(err)
	}
	return res.LastInsertId()
}

func (r *departmentsRepo) UpdateDepartment(ctx context.Context, id int64, name, code string, responsibleID *int64) error {
	return affecting(r.db.ExecContext(ctx, `
		UPDATE departments SET name = ?, code = ?, responsible_id = ?, updated_at = ?
		WHERE id = ?`,
		name, code, mapOptionalInt64(responsibleID), time.Now().UTC(), id))
}

func (r *departmentsRepo) DeleteDepartment(ctx context.Context, id int64) error {
	return affecting(r.db.ExecContext(ctx, `DELETE FROM departments WHERE id = ?`, id))
}
