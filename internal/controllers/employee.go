package controllers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/staffdesk/hr_service/internal/entity"
)

const employeeColumns = "id, first_name, last_name, telephone, email, username, status, manager_id, user_id, created_at, updated_at"

type EmployeeController struct {
	deps *Dependens
}

func NewEmployeeController(deps *Dependens) *EmployeeController {
	return &EmployeeController{
		deps: deps,
	}
}

// GetEmployees returns the full collection with department memberships
// loaded, in store order. Filtering and pagination happen in the list
// pipeline, not here.
func (c *EmployeeController) GetEmployees() ([]entity.Employee, error) {
	query := "SELECT " + employeeColumns + " FROM employees ORDER BY id"

	rows, err := c.deps.DB.Query(context.Background(), query)
	if err != nil {
		c.deps.Logger.Error("Error querying employees", slog.String("error", err.Error()))
		return nil, err
	}
	defer rows.Close()

	employees, err := pgx.CollectRows(rows, pgx.RowToStructByName[entity.Employee])
	if err != nil {
		c.deps.Logger.Error("Error collecting rows", slog.String("error", err.Error()))
		return nil, err
	}

	if err := c.loadDepartments(employees); err != nil {
		return nil, err
	}

	return employees, nil
}

func (c *EmployeeController) GetEmployeeByID(id uint64) (*entity.Employee, error) {
	query := "SELECT " + employeeColumns + " FROM employees WHERE id = $1"

	rows, err := c.deps.DB.Query(context.Background(), query, id)
	if err != nil {
		c.deps.Logger.Error("Error querying employee", slog.String("error", err.Error()))
		return nil, err
	}
	defer rows.Close()

	employee, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[entity.Employee])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.deps.Logger.Warn("Employee not found", slog.Any("id", id))
			return nil, ErrEmployeeNotFound
		}

		c.deps.Logger.Error("Error collecting row", slog.String("error", err.Error()))
		return nil, err
	}

	emps := []entity.Employee{employee}
	if err := c.loadDepartments(emps); err != nil {
		return nil, err
	}

	return &emps[0], nil
}

// GetManagers returns the employees that have direct reports. This derived
// query is the single source of "is a manager" truth.
func (c *EmployeeController) GetManagers() ([]entity.Manager, error) {
	query := `SELECT DISTINCT m.id, m.first_name, m.last_name
              FROM employees m
              JOIN employees e ON e.manager_id = m.id
              ORDER BY m.id`

	rows, err := c.deps.DB.Query(context.Background(), query)
	if err != nil {
		c.deps.Logger.Error("Error querying managers", slog.String("error", err.Error()))
		return nil, err
	}
	defer rows.Close()

	managers, err := pgx.CollectRows(rows, pgx.RowToStructByName[entity.Manager])
	if err != nil {
		c.deps.Logger.Error("Error collecting rows", slog.String("error", err.Error()))
		return nil, err
	}

	return managers, nil
}

func (c *EmployeeController) CreateEmployee(fields entity.EmployeeFields) (*entity.Employee, error) {
	query := `SELECT COUNT(*) FROM employees WHERE email = $1 OR username = $2`

	var exists int
	if err := c.deps.DB.QueryRow(context.Background(), query, fields.Email, fields.Username).Scan(&exists); err != nil {
		c.deps.Logger.Error("Error checking uniqueness", slog.String("error", err.Error()))
		return nil, err
	}

	if exists > 0 {
		c.deps.Logger.Warn("Employee already exists", slog.String("email", fields.Email))
		return nil, ErrAlreadyExists
	}

	now := time.Now()
	query = `INSERT INTO employees (first_name, last_name, telephone, email, username, status, manager_id, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
              RETURNING id`

	var id uint64
	if err := c.deps.DB.QueryRow(context.Background(), query,
		fields.FirstName, fields.LastName, fields.Telephone, fields.Email,
		fields.Username, fields.Status, fields.ManagerID, now, now,
	).Scan(&id); err != nil {
		c.deps.Logger.Error("Error inserting employee", slog.String("error", err.Error()))
		return nil, err
	}

	if err := c.replaceDepartments(id, fields.DepartmentIDs); err != nil {
		return nil, err
	}

	return c.GetEmployeeByID(id)
}

// UpdateEmployee applies a partial update: only non-nil fields reach the SET
// clause, everything else stays as stored.
func (c *EmployeeController) UpdateEmployee(id uint64, upd entity.EmployeeUpdate) (*entity.Employee, error) {
	if upd.Email != nil {
		query := `SELECT COUNT(*) FROM employees WHERE email = $1 AND id != $2`

		var exists int
		if err := c.deps.DB.QueryRow(context.Background(), query, *upd.Email, id).Scan(&exists); err != nil {
			c.deps.Logger.Error("Error checking uniqueness", slog.String("error", err.Error()))
			return nil, err
		}

		if exists > 0 {
			c.deps.Logger.Warn("Email already exists", slog.String("email", *upd.Email))
			return nil, ErrAlreadyExists
		}
	}

	set := []string{}
	args := []any{}
	argIdx := 1

	appendSet := func(column string, value any) {
		set = append(set, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}

	if upd.FirstName != nil {
		appendSet("first_name", *upd.FirstName)
	}
	if upd.LastName != nil {
		appendSet("last_name", *upd.LastName)
	}
	if upd.Telephone != nil {
		appendSet("telephone", *upd.Telephone)
	}
	if upd.Email != nil {
		appendSet("email", *upd.Email)
	}
	if upd.Status != nil {
		appendSet("status", *upd.Status)
	}
	if upd.ManagerID != nil {
		appendSet("manager_id", *upd.ManagerID)
	}
	appendSet("updated_at", time.Now())

	query := fmt.Sprintf("UPDATE employees SET %s WHERE id = $%d RETURNING %s",
		strings.Join(set, ", "), argIdx, employeeColumns)
	args = append(args, id)

	rows, err := c.deps.DB.Query(context.Background(), query, args...)
	if err != nil {
		c.deps.Logger.Error("Error updating employee", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to update employee: %w", err)
	}
	defer rows.Close()

	updated, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[entity.Employee])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.deps.Logger.Warn("Employee not found", slog.Any("id", id))
			return nil, ErrEmployeeNotFound
		}

		c.deps.Logger.Error("Error collecting row", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to scan row: %w", err)
	}

	if upd.DepartmentIDs != nil {
		if err := c.replaceDepartments(id, *upd.DepartmentIDs); err != nil {
			return nil, err
		}
	}

	emps := []entity.Employee{updated}
	if err := c.loadDepartments(emps); err != nil {
		return nil, err
	}

	return &emps[0], nil
}

// ToggleEmployeeStatus flips Active/Inactive, touching nothing else.
func (c *EmployeeController) ToggleEmployeeStatus(id uint64) (*entity.Employee, error) {
	query := `UPDATE employees
              SET status = CASE WHEN status = 'Active' THEN 'Inactive' ELSE 'Active' END,
                  updated_at = $1
              WHERE id = $2
              RETURNING ` + employeeColumns

	rows, err := c.deps.DB.Query(context.Background(), query, time.Now(), id)
	if err != nil {
		c.deps.Logger.Error("Error toggling employee status", slog.String("error", err.Error()))
		return nil, err
	}
	defer rows.Close()

	updated, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[entity.Employee])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.deps.Logger.Warn("Employee not found", slog.Any("id", id))
			return nil, ErrEmployeeNotFound
		}

		c.deps.Logger.Error("Error collecting row", slog.String("error", err.Error()))
		return nil, err
	}

	emps := []entity.Employee{updated}
	if err := c.loadDepartments(emps); err != nil {
		return nil, err
	}

	return &emps[0], nil
}

func (c *EmployeeController) loadDepartments(employees []entity.Employee) error {
	if len(employees) == 0 {
		return nil
	}

	ids := make([]uint64, 0, len(employees))
	for _, e := range employees {
		ids = append(ids, e.ID)
	}

	query := `SELECT ed.employee_id, d.id, d.name, d.status, d.manager_id, d.created_at, d.updated_at
              FROM employee_departments ed
              JOIN departments d ON d.id = ed.department_id
              WHERE ed.employee_id = ANY($1)
              ORDER BY d.id`

	rows, err := c.deps.DB.Query(context.Background(), query, ids)
	if err != nil {
		c.deps.Logger.Error("Error querying employee departments", slog.String("error", err.Error()))
		return err
	}
	defer rows.Close()

	byEmployee := make(map[uint64][]entity.Department)
	for rows.Next() {
		var empID uint64
		var d entity.Department
		if err := rows.Scan(&empID, &d.ID, &d.Name, &d.Status, &d.ManagerID, &d.CreatedAt, &d.UpdatedAt); err != nil {
			c.deps.Logger.Error("Error scanning employee department", slog.String("error", err.Error()))
			return err
		}
		byEmployee[empID] = append(byEmployee[empID], d)
	}

	if err := rows.Err(); err != nil {
		c.deps.Logger.Error("Error iterating employee departments", slog.String("error", err.Error()))
		return err
	}

	for i := range employees {
		employees[i].Departments = byEmployee[employees[i].ID]
	}

	return nil
}

func (c *EmployeeController) replaceDepartments(employeeID uint64, departmentIDs []uint64) error {
	ctx := context.Background()

	if _, err := c.deps.DB.Exec(ctx, "DELETE FROM employee_departments WHERE employee_id = $1", employeeID); err != nil {
		c.deps.Logger.Error("Error clearing employee departments", slog.String("error", err.Error()))
		return err
	}

	for _, deptID := range departmentIDs {
		if _, err := c.deps.DB.Exec(ctx,
			"INSERT INTO employee_departments (employee_id, department_id) VALUES ($1, $2)",
			employeeID, deptID,
		); err != nil {
			c.deps.Logger.Error("Error assigning department", slog.Any("department_id", deptID), slog.String("error", err.Error()))
			return err
		}
	}

	return nil
}
