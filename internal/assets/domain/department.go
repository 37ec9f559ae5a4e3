package domain

import "time"

// Department is the scoping unit for row-level asset access. A responsible
// user's department id is the department whose ResponsibleID points at them.
type Department struct {
	ID            int64
	Name          string
	Code          string // unique
	ResponsibleID *int64 // user responsible for this department, nullable

	CreatedAt time.Time
	UpdatedAt time.Time
}
