package domain

import "time"

// Asset is a tracked inventory item. DepartmentID is the key the
// authorization layer scopes mutations on for responsible users.
type Asset struct {
	ID    int64
	Name  string
	Code  string
	Label string

	InitialValue            float64
	ResidualValue           float64
	AccumulatedDepreciation float64

	DepartmentID *int64

	CreatedAt time.Time
	UpdatedAt time.Time
}
