package controllers

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/staffdesk/hr_service/internal/config"
	"github.com/stretchr/testify/mock"
)

// DBInterface defines the interface for database operations.
type DBInterface interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// RedisInterface defines the interface for Redis operations.
type RedisInterface interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Column sets matching what the controllers select.
var (
	UserFieldDescriptions = []pgconn.FieldDescription{
		{Name: "id", DataTypeOID: 20},
		{Name: "email", DataTypeOID: 25},
		{Name: "hashed_password", DataTypeOID: 25},
		{Name: "role", DataTypeOID: 25},
		{Name: "created_at", DataTypeOID: 1114},
		{Name: "updated_at", DataTypeOID: 1114},
	}

	EmployeeFieldDescriptions = []pgconn.FieldDescription{
		{Name: "id", DataTypeOID: 20},
		{Name: "first_name", DataTypeOID: 25},
		{Name: "last_name", DataTypeOID: 25},
		{Name: "telephone", DataTypeOID: 25},
		{Name: "email", DataTypeOID: 25},
		{Name: "username", DataTypeOID: 25},
		{Name: "status", DataTypeOID: 25},
		{Name: "manager_id", DataTypeOID: 20},
		{Name: "user_id", DataTypeOID: 20},
		{Name: "created_at", DataTypeOID: 1114},
		{Name: "updated_at", DataTypeOID: 1114},
	}

	DepartmentFieldDescriptions = []pgconn.FieldDescription{
		{Name: "id", DataTypeOID: 20},
		{Name: "name", DataTypeOID: 25},
		{Name: "status", DataTypeOID: 25},
		{Name: "manager_id", DataTypeOID: 20},
		{Name: "created_at", DataTypeOID: 1114},
		{Name: "updated_at", DataTypeOID: 1114},
	}

	ManagerFieldDescriptions = []pgconn.FieldDescription{
		{Name: "id", DataTypeOID: 20},
		{Name: "first_name", DataTypeOID: 25},
		{Name: "last_name", DataTypeOID: 25},
	}
)

// MockDB represents a mock database connection.
type MockDB struct {
	mock.Mock
}

func (m *MockDB) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	mockArgs := append([]interface{}{ctx, sql}, args...)
	callArgs := m.Called(mockArgs...)
	return callArgs.Get(0).(pgx.Rows), callArgs.Error(1)
}

func (m *MockDB) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	mockArgs := append([]interface{}{ctx, sql}, args...)
	callArgs := m.Called(mockArgs...)
	return callArgs.Get(0).(pgx.Row)
}

func (m *MockDB) Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	mockArgs := append([]interface{}{ctx, sql}, args...)
	callArgs := m.Called(mockArgs...)
	return callArgs.Get(0).(pgconn.CommandTag), callArgs.Error(1)
}

// MockRow represents a mock database row.
type MockRow struct {
	data []interface{}
	err  error
}

func NewMockRow(data []interface{}, err error) *MockRow {
	return &MockRow{data: data, err: err}
}

// Scan scans the row data into the provided destinations.
func (m *MockRow) Scan(dest ...interface{}) error {
	if m.err != nil {
		return m.err
	}

	for i, val := range m.data {
		if i >= len(dest) {
			break
		}
		assign(dest[i], val)
	}
	return nil
}

// MockRows represents mock database rows.
type MockRows struct {
	rows       [][]interface{}
	pos        int
	err        error
	fieldDescs []pgconn.FieldDescription
}

func NewMockRows(rows [][]interface{}, err error, fieldDescs []pgconn.FieldDescription) *MockRows {
	return &MockRows{
		rows:       rows,
		pos:        -1,
		err:        err,
		fieldDescs: fieldDescs,
	}
}

func (m *MockRows) FieldDescriptions() []pgconn.FieldDescription {
	return m.fieldDescs
}

func (m *MockRows) Next() bool {
	m.pos++
	return m.pos < len(m.rows)
}

func (m *MockRows) Close() {}

func (m *MockRows) Scan(dest ...interface{}) error {
	if m.err != nil {
		return m.err
	}
	if m.pos >= len(m.rows) {
		return nil
	}

	row := m.rows[m.pos]
	for i, val := range row {
		if i >= len(dest) {
			break
		}
		assign(dest[i], val)
	}
	return nil
}

func (m *MockRows) Err() error {
	return m.err
}

func (m *MockRows) CommandTag() pgconn.CommandTag {
	return pgconn.NewCommandTag("")
}

func (m *MockRows) Values() ([]interface{}, error) {
	if m.pos >= len(m.rows) {
		return nil, nil
	}
	return m.rows[m.pos], nil
}

func (m *MockRows) RawValues() [][]byte {
	return nil
}

func (m *MockRows) Conn() *pgx.Conn {
	return nil
}

// assign copies one mock value into one scan destination, covering the
// destination shapes the entity structs produce.
func assign(dest, val interface{}) {
	switch d := dest.(type) {
	case *int:
		if v, ok := val.(int); ok {
			*d = v
		}
	case *uint64:
		switch v := val.(type) {
		case uint64:
			*d = v
		case *uint64:
			if v != nil {
				*d = *v
			}
		}
	case *string:
		switch v := val.(type) {
		case string:
			*d = v
		case *string:
			if v != nil {
				*d = *v
			}
		}
	case *time.Time:
		if v, ok := val.(time.Time); ok {
			*d = v
		}
	case **uint64:
		switch v := val.(type) {
		case *uint64:
			*d = v
		case uint64:
			tmp := v
			*d = &tmp
		case nil:
			*d = nil
		}
	case **string:
		switch v := val.(type) {
		case *string:
			*d = v
		case nil:
			*d = nil
		}
	case **time.Time:
		switch v := val.(type) {
		case *time.Time:
			*d = v
		case nil:
			*d = nil
		}
	case *interface{}:
		*d = val
	}
}

// MockRedis represents a mock Redis client.
type MockRedis struct {
	mock.Mock
}

func (m *MockRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	args := m.Called(ctx, key, value, expiration)

	if statusCmd, ok := args.Get(0).(*redis.StatusCmd); ok {
		return statusCmd
	}

	cmd := redis.NewStatusCmd(ctx)
	if err, ok := args.Get(0).(error); ok && err != nil {
		cmd.SetErr(err)
	} else {
		cmd.SetVal("OK")
	}
	return cmd
}

func (m *MockRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	args := m.Called(ctx, key)

	if stringCmd, ok := args.Get(0).(*redis.StringCmd); ok {
		return stringCmd
	}

	cmd := redis.NewStringCmd(ctx)
	if err, ok := args.Get(0).(error); ok && err != nil {
		cmd.SetErr(err)
	}
	return cmd
}

func (m *MockRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	args := m.Called(ctx, keys)

	if intCmd, ok := args.Get(0).(*redis.IntCmd); ok {
		return intCmd
	}

	cmd := redis.NewIntCmd(ctx)
	if err, ok := args.Get(0).(error); ok && err != nil {
		cmd.SetErr(err)
	} else {
		cmd.SetVal(1)
	}
	return cmd
}

// Test helper functions.
func CreateTestDependencies(mockDB DBInterface, mockRedis RedisInterface) *Dependens {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	cfg := &config.Config{}
	cfg.Server.JWTSecret = "test-secret-key"
	cfg.Redis.AccessTokenTTL = time.Hour
	cfg.Redis.RefreshTokenTTL = time.Hour * 24

	return &Dependens{
		DB:     mockDB,
		Redis:  mockRedis,
		Logger: logger,
		Config: cfg,
	}
}

// Row builders matching the controllers' column order.
func employeeRow(id uint64, firstName, lastName, status string, managerID *uint64) []interface{} {
	now := time.Now()
	return []interface{}{
		id, firstName, lastName, "5551234567",
		firstName + "@example.com", firstName, status,
		managerID, (*uint64)(nil), now, now,
	}
}

func departmentRow(id uint64, name, status string) []interface{} {
	now := time.Now()
	return []interface{}{id, name, status, (*uint64)(nil), now, now}
}

func userRow(id uint64, email, hashedPassword, role string) []interface{} {
	now := time.Now()
	return []interface{}{id, email, hashedPassword, role, now, now}
}

// EmptyRows builds a result set with no rows for a column set.
func EmptyRows(fieldDescs []pgconn.FieldDescription) *MockRows {
	return NewMockRows(nil, nil, fieldDescs)
}

func Uint64Ptr(u uint64) *uint64 {
	return &u
}

func StringPtr(s string) *string {
	return &s
}
