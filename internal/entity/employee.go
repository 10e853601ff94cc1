package entity

import "time"

const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
)

type Employee struct {
	ID        uint64  `json:"id" db:"id"`
	FirstName string  `json:"first_name" db:"first_name"`
	LastName  string  `json:"last_name" db:"last_name"`
	Telephone string  `json:"telephone" db:"telephone"`
	Email     string  `json:"email" db:"email"`
	Username  string  `json:"username" db:"username"`
	Status    string  `json:"status" db:"status"`
	ManagerID *uint64 `json:"manager_id" db:"manager_id"`
	UserID    *uint64 `json:"user_id" db:"user_id"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// Loaded from the employee_departments join table, not a column.
	Departments []Department `json:"departments" db:"-"`
}

// DepartmentNames feeds the list-view relationship filter.
func (e Employee) DepartmentNames() []string {
	names := make([]string, 0, len(e.Departments))
	for _, d := range e.Departments {
		names = append(names, d.Name)
	}
	return names
}

// Manager is the slim shape the managers dropdown needs.
type Manager struct {
	ID        uint64 `json:"id" db:"id"`
	FirstName string `json:"first_name" db:"first_name"`
	LastName  string `json:"last_name" db:"last_name"`
}

// EmployeeFields is the create-form field set.
type EmployeeFields struct {
	FirstName     string   `json:"first_name" validate:"required"`
	LastName      string   `json:"last_name" validate:"required"`
	Telephone     string   `json:"telephone" validate:"required,min=10"`
	Email         string   `json:"email" validate:"required,email"`
	Username      string   `json:"username" validate:"required"`
	Status        string   `json:"status" validate:"required,oneof=Active Inactive"`
	ManagerID     *uint64  `json:"manager_id"`
	DepartmentIDs []uint64 `json:"department_ids" validate:"omitempty,dive,gt=0"`
}

// EmployeeUpdate carries only the fields the edit form changed; nil fields
// are left untouched in the store.
type EmployeeUpdate struct {
	FirstName     *string   `json:"first_name" validate:"omitempty,min=1"`
	LastName      *string   `json:"last_name" validate:"omitempty,min=1"`
	Telephone     *string   `json:"telephone" validate:"omitempty,min=10"`
	Email         *string   `json:"email" validate:"omitempty,email"`
	Status        *string   `json:"status" validate:"omitempty,oneof=Active Inactive"`
	ManagerID     *uint64   `json:"manager_id"`
	DepartmentIDs *[]uint64 `json:"department_ids" validate:"omitempty,dive,gt=0"`
}
