package controllers

import (
	"errors"
	"testing"
	"time"

	"github.com/staffdesk/hr_service/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// departmentMemberJoinRow matches the loadEmployees column order.
func departmentMemberJoinRow(departmentID, employeeID uint64, firstName string) []interface{} {
	now := time.Now()
	return []interface{}{
		departmentID, employeeID, firstName, "Smith", "5551234567",
		firstName + "@example.com", firstName, entity.StatusActive,
		(*uint64)(nil), (*uint64)(nil), now, now,
	}
}

func TestDepartmentController_GetDepartments(t *testing.T) {
	t.Run("returns departments with members loaded", func(t *testing.T) {
		mockDB := &MockDB{}
		controller := NewDepartmentController(CreateTestDependencies(mockDB, &MockRedis{}))

		deptRows := NewMockRows([][]interface{}{
			departmentRow(1, "Engineering", entity.StatusActive),
			departmentRow(2, "Sales", entity.StatusInactive),
		}, nil, DepartmentFieldDescriptions)
		mockDB.On("Query", mock.Anything, mock.AnythingOfType("string")).Return(deptRows, nil)

		joinRows := NewMockRows([][]interface{}{
			departmentMemberJoinRow(1, 1, "Alice"),
		}, nil, nil)
		mockDB.On("Query", mock.Anything, mock.AnythingOfType("string"), mock.AnythingOfType("[]uint64")).Return(joinRows, nil)

		departments, err := controller.GetDepartments()

		assert.NoError(t, err)
		assert.Len(t, departments, 2)
		assert.Equal(t, "Engineering", departments[0].Name)
		assert.Len(t, departments[0].Employees, 1)
		assert.Equal(t, "Alice", departments[0].Employees[0].FirstName)
		assert.Empty(t, departments[1].Employees)
		mockDB.AssertExpectations(t)
	})

	t.Run("query error", func(t *testing.T) {
		mockDB := &MockDB{}
		controller := NewDepartmentController(CreateTestDependencies(mockDB, &MockRedis{}))

		mockDB.On("Query", mock.Anything, mock.AnythingOfType("string")).
			Return(EmptyRows(DepartmentFieldDescriptions), errors.New("database connection error"))

		departments, err := controller.GetDepartments()

		assert.Error(t, err)
		assert.Nil(t, departments)
	})
}

func TestDepartmentController_GetDepartmentByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		mockDB := &MockDB{}
		controller := NewDepartmentController(CreateTestDependencies(mockDB, &MockRedis{}))

		deptRows := NewMockRows([][]interface{}{
			departmentRow(1, "Engineering", entity.StatusActive),
		}, nil, DepartmentFieldDescriptions)
		mockDB.On("Query", mock.Anything, mock.AnythingOfType("string"), uint64(1)).Return(deptRows, nil)

		joinRows := NewMockRows(nil, nil, nil)
		mockDB.On("Query", mock.Anything, mock.AnythingOfType("string"), mock.AnythingOfType("[]uint64")).Return(joinRows, nil)

		department, err := controller.GetDepartmentByID(1)

		assert.NoError(t, err)
		assert.NotNil(t, department)
		assert.Equal(t, "Engineering", department.Name)
	})

	t.Run("not found", func(t *testing.T) {
		mockDB := &MockDB{}
		controller := NewDepartmentController(CreateTestDependencies(mockDB, &MockRedis{}))

		mockDB.On("Query", mock.Anything, mock.AnythingOfType("string"), uint64(5)).
			Return(EmptyRows(DepartmentFieldDescriptions), nil)

		department, err := controller.GetDepartmentByID(5)

		assert.ErrorIs(t, err, ErrDepartmentNotFound)
		assert.Nil(t, department)
	})
}

func TestDepartmentController_CreateDepartment(t *testing.T) {
	t.Run("empty status defaults to active", func(t *testing.T) {
		mockDB := &MockDB{}
		controller := NewDepartmentController(CreateTestDependencies(mockDB, &MockRedis{}))

		mockDB.On("QueryRow", mock.Anything, mock.AnythingOfType("string"),
			"Engineering", entity.StatusActive, (*uint64)(nil),
			mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).
			Return(NewMockRow([]interface{}{uint64(1)}, nil))

		deptRows := NewMockRows([][]interface{}{
			departmentRow(1, "Engineering", entity.StatusActive),
		}, nil, DepartmentFieldDescriptions)
		mockDB.On("Query", mock.Anything, mock.AnythingOfType("string"), uint64(1)).Return(deptRows, nil)

		joinRows := NewMockRows(nil, nil, nil)
		mockDB.On("Query", mock.Anything, mock.AnythingOfType("string"), mock.AnythingOfType("[]uint64")).Return(joinRows, nil)

		department, err := controller.CreateDepartment(entity.DepartmentFields{Name: "Engineering"})

		assert.NoError(t, err)
		assert.Equal(t, entity.StatusActive, department.Status)
		mockDB.AssertExpectations(t)
	})

	t.Run("insert error", func(t *testing.T) {
		mockDB := &MockDB{}
		controller := NewDepartmentController(CreateTestDependencies(mockDB, &MockRedis{}))

		mockDB.On("QueryRow", mock.Anything, mock.AnythingOfType("string"),
			"Engineering", entity.StatusActive, (*uint64)(nil),
			mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).
			Return(NewMockRow(nil, errors.New("insert failed")))

		department, err := controller.CreateDepartment(entity.DepartmentFields{Name: "Engineering"})

		assert.Error(t, err)
		assert.Nil(t, department)
	})
}

func TestDepartmentController_UpdateDepartment(t *testing.T) {
	t.Run("renames the department", func(t *testing.T) {
		mockDB := &MockDB{}
		controller := NewDepartmentController(CreateTestDependencies(mockDB, &MockRedis{}))

		updatedRows := NewMockRows([][]interface{}{
			departmentRow(1, "Platform", entity.StatusActive),
		}, nil, DepartmentFieldDescriptions)
		mockDB.On("Query", mock.Anything, mock.AnythingOfType("string"),
			"Platform", mock.AnythingOfType("time.Time"), uint64(1)).Return(updatedRows, nil)

		joinRows := NewMockRows(nil, nil, nil)
		mockDB.On("Query", mock.Anything, mock.AnythingOfType("string"), mock.AnythingOfType("[]uint64")).Return(joinRows, nil)

		department, err := controller.UpdateDepartment(1, entity.DepartmentUpdate{Name: StringPtr("Platform")})

		assert.NoError(t, err)
		assert.Equal(t, "Platform", department.Name)
	})

	t.Run("not found", func(t *testing.T) {
		mockDB := &MockDB{}
		controller := NewDepartmentController(CreateTestDependencies(mockDB, &MockRedis{}))

		mockDB.On("Query", mock.Anything, mock.AnythingOfType("string"),
			mock.AnythingOfType("time.Time"), uint64(9)).
			Return(EmptyRows(DepartmentFieldDescriptions), nil)

		department, err := controller.UpdateDepartment(9, entity.DepartmentUpdate{})

		assert.ErrorIs(t, err, ErrDepartmentNotFound)
		assert.Nil(t, department)
	})
}

func TestDepartmentController_ToggleDepartmentStatus(t *testing.T) {
	t.Run("flips inactive to active", func(t *testing.T) {
		mockDB := &MockDB{}
		controller := NewDepartmentController(CreateTestDependencies(mockDB, &MockRedis{}))

		toggledRows := NewMockRows([][]interface{}{
			departmentRow(2, "Sales", entity.StatusActive),
		}, nil, DepartmentFieldDescriptions)
		mockDB.On("Query", mock.Anything, mock.AnythingOfType("string"),
			mock.AnythingOfType("time.Time"), uint64(2)).Return(toggledRows, nil)

		joinRows := NewMockRows(nil, nil, nil)
		mockDB.On("Query", mock.Anything, mock.AnythingOfType("string"), mock.AnythingOfType("[]uint64")).Return(joinRows, nil)

		department, err := controller.ToggleDepartmentStatus(2)

		assert.NoError(t, err)
		assert.Equal(t, entity.StatusActive, department.Status)
	})

	t.Run("not found", func(t *testing.T) {
		mockDB := &MockDB{}
		controller := NewDepartmentController(CreateTestDependencies(mockDB, &MockRedis{}))

		mockDB.On("Query", mock.Anything, mock.AnythingOfType("string"),
			mock.AnythingOfType("time.Time"), uint64(9)).
			Return(EmptyRows(DepartmentFieldDescriptions), nil)

		department, err := controller.ToggleDepartmentStatus(9)

		assert.ErrorIs(t, err, ErrDepartmentNotFound)
		assert.Nil(t, department)
	})
}
