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

const departmentColumns = "id, name, status, manager_id, created_at, updated_at"

type DepartmentController struct {
	deps *Dependens
}

func NewDepartmentController(deps *Dependens) *DepartmentController {
	return &DepartmentController{
		deps: deps,
	}
}

func (c *DepartmentController) GetDepartments() ([]entity.Department, error) {
	query := "SELECT " + departmentColumns + " FROM departments ORDER BY id"

	rows, err := c.deps.DB.Query(context.Background(), query)
	if err != nil {
		c.deps.Logger.Error("Error querying departments", slog.String("error", err.Error()))
		return nil, err
	}
	defer rows.Close()

	departments, err := pgx.CollectRows(rows, pgx.RowToStructByName[entity.Department])
	if err != nil {
		c.deps.Logger.Error("Error collecting rows", slog.String("error", err.Error()))
		return nil, err
	}

	if err := c.loadEmployees(departments); err != nil {
		return nil, err
	}

	return departments, nil
}

func (c *DepartmentController) GetDepartmentByID(id uint64) (*entity.Department, error) {
	query := "SELECT " + departmentColumns + " FROM departments WHERE id = $1"

	rows, err := c.deps.DB.Query(context.Background(), query, id)
	if err != nil {
		c.deps.Logger.Error("Error querying department", slog.String("error", err.Error()))
		return nil, err
	}
	defer rows.Close()

	department, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[entity.Department])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.deps.Logger.Warn("Department not found", slog.Any("id", id))
			return nil, ErrDepartmentNotFound
		}

		c.deps.Logger.Error("Error collecting row", slog.String("error", err.Error()))
		return nil, err
	}

	depts := []entity.Department{department}
	if err := c.loadEmployees(depts); err != nil {
		return nil, err
	}

	return &depts[0], nil
}

func (c *DepartmentController) CreateDepartment(fields entity.DepartmentFields) (*entity.Department, error) {
	status := fields.Status
	if status == "" {
		status = entity.StatusActive
	}

	now := time.Now()
	query := `INSERT INTO departments (name, status, manager_id, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5)
              RETURNING id`

	var id uint64
	if err := c.deps.DB.QueryRow(context.Background(), query,
		fields.Name, status, fields.ManagerID, now, now,
	).Scan(&id); err != nil {
		c.deps.Logger.Error("Error inserting department", slog.String("error", err.Error()))
		return nil, err
	}

	return c.GetDepartmentByID(id)
}

// UpdateDepartment applies a partial update; nil fields stay as stored.
func (c *DepartmentController) UpdateDepartment(id uint64, upd entity.DepartmentUpdate) (*entity.Department, error) {
	set := []string{}
	args := []any{}
	argIdx := 1

	appendSet := func(column string, value any) {
		set = append(set, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}

	if upd.Name != nil {
		appendSet("name", *upd.Name)
	}
	if upd.Status != nil {
		appendSet("status", *upd.Status)
	}
	if upd.ManagerID != nil {
		appendSet("manager_id", *upd.ManagerID)
	}
	appendSet("updated_at", time.Now())

	query := fmt.Sprintf("UPDATE departments SET %s WHERE id = $%d RETURNING %s",
		strings.Join(set, ", "), argIdx, departmentColumns)
	args = append(args, id)

	rows, err := c.deps.DB.Query(context.Background(), query, args...)
	if err != nil {
		c.deps.Logger.Error("Error updating department", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to update department: %w", err)
	}
	defer rows.Close()

	updated, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[entity.Department])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.deps.Logger.Warn("Department not found", slog.Any("id", id))
			return nil, ErrDepartmentNotFound
		}

		c.deps.Logger.Error("Error collecting row", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to scan row: %w", err)
	}

	depts := []entity.Department{updated}
	if err := c.loadEmployees(depts); err != nil {
		return nil, err
	}

	return &depts[0], nil
}

// ToggleDepartmentStatus flips Active/Inactive.
func (c *DepartmentController) ToggleDepartmentStatus(id uint64) (*entity.Department, error) {
	query := `UPDATE departments
              SET status = CASE WHEN status = 'Active' THEN 'Inactive' ELSE 'Active' END,
                  updated_at = $1
              WHERE id = $2
              RETURNING ` + departmentColumns

	rows, err := c.deps.DB.Query(context.Background(), query, time.Now(), id)
	if err != nil {
		c.deps.Logger.Error("Error toggling department status", slog.String("error", err.Error()))
		return nil, err
	}
	defer rows.Close()

	updated, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[entity.Department])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.deps.Logger.Warn("Department not found", slog.Any("id", id))
			return nil, ErrDepartmentNotFound
		}

		c.deps.Logger.Error("Error collecting row", slog.String("error", err.Error()))
		return nil, err
	}

	depts := []entity.Department{updated}
	if err := c.loadEmployees(depts); err != nil {
		return nil, err
	}

	return &depts[0], nil
}

func (c *DepartmentController) loadEmployees(departments []entity.Department) error {
	if len(departments) == 0 {
		return nil
	}

	ids := make([]uint64, 0, len(departments))
	for _, d := range departments {
		ids = append(ids, d.ID)
	}

	query := `SELECT ed.department_id, e.id, e.first_name, e.last_name, e.telephone, e.email, e.username, e.status, e.manager_id, e.user_id, e.created_at, e.updated_at
              FROM employee_departments ed
              JOIN employees e ON e.id = ed.employee_id
              WHERE ed.department_id = ANY($1)
              ORDER BY e.id`

	rows, err := c.deps.DB.Query(context.Background(), query, ids)
	if err != nil {
		c.deps.Logger.Error("Error querying department members", slog.String("error", err.Error()))
		return err
	}
	defer rows.Close()

	byDepartment := make(map[uint64][]entity.Employee)
	for rows.Next() {
		var deptID uint64
		var e entity.Employee
		if err := rows.Scan(&deptID, &e.ID, &e.FirstName, &e.LastName, &e.Telephone, &e.Email,
			&e.Username, &e.Status, &e.ManagerID, &e.UserID, &e.CreatedAt, &e.UpdatedAt); err != nil {
			c.deps.Logger.Error("Error scanning department member", slog.String("error", err.Error()))
			return err
		}
		byDepartment[deptID] = append(byDepartment[deptID], e)
	}

	if err := rows.Err(); err != nil {
		c.deps.Logger.Error("Error iterating department members", slog.String("error", err.Error()))
		return err
	}

	for i := range departments {
		departments[i].Employees = byDepartment[departments[i].ID]
	}

	return nil
}
