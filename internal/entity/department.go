package entity

import "time"

type Department struct {
	ID        uint64  `json:"id" db:"id"`
	Name      string  `json:"name" db:"name"`
	Status    string  `json:"status" db:"status"`
	ManagerID *uint64 `json:"manager_id" db:"manager_id"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	Employees []Employee `json:"employees" db:"-"`
}

type DepartmentFields struct {
	Name      string  `json:"name" validate:"required"`
	Status    string  `json:"status" validate:"omitempty,oneof=Active Inactive"`
	ManagerID *uint64 `json:"manager_id"`
}

type DepartmentUpdate struct {
	Name      *string `json:"name" validate:"omitempty,min=1"`
	Status    *string `json:"status" validate:"omitempty,oneof=Active Inactive"`
	ManagerID *uint64 `json:"manager_id"`
}
