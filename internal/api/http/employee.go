package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/staffdesk/hr_service/internal/controllers"
	"github.com/staffdesk/hr_service/internal/entity"
	"github.com/staffdesk/hr_service/internal/forms"
	"github.com/staffdesk/hr_service/internal/listview"
)

// GetEmployees runs the list pipeline over the cached employee snapshot.
func (s *Server) GetEmployees(w http.ResponseWriter, r *http.Request) {
	params, err := bindListQuery(r)
	if err != nil {
		s.deps.Logger.Warn("Invalid list query", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusBadRequest, err.Error(), "error")
		return
	}

	employees, err := s.employeesSnapshot(r.Context())
	if err != nil {
		s.httpResponse(w, http.StatusInternalServerError, "Failed to get employees", "error")
		return
	}

	filters := listview.FilterSet[entity.Employee]{
		listview.SearchAny(params.Search, func(e entity.Employee) []string {
			return []string{e.FirstName, e.LastName}
		}),
		listview.FieldEquals(params.Status, func(e entity.Employee) string { return e.Status }),
		listview.MemberNamed(params.Department, entity.Employee.DepartmentNames),
		listview.RefEquals(params.Manager, func(e entity.Employee) *uint64 { return e.ManagerID }),
	}

	result := listview.Apply(employees, filters, listview.PageRequest{Page: params.Page, Size: params.PageSize})

	s.httpResponse(w, http.StatusOK, result, "success")
}

// GetManagers feeds the manager filter dropdown.
func (s *Server) GetManagers(w http.ResponseWriter, r *http.Request) {
	var managers []entity.Manager
	if !s.cache.Get(r.Context(), listview.KeyManagers, &managers) {
		var err error
		managers, err = s.Controllers.EmployeeController.GetManagers()
		if err != nil {
			s.httpResponse(w, http.StatusInternalServerError, "Failed to get managers", "error")
			return
		}
		s.cache.Set(r.Context(), listview.KeyManagers, managers)
	}

	s.httpResponse(w, http.StatusOK, managers, "success")
}

func (s *Server) GetEmployeeByID(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		s.httpResponse(w, http.StatusBadRequest, "Invalid employee id", "error")
		return
	}

	employee, err := s.Controllers.EmployeeController.GetEmployeeByID(id)
	if err != nil {
		if errors.Is(err, controllers.ErrEmployeeNotFound) {
			s.httpResponse(w, http.StatusNotFound, "Employee not found", "error")
			return
		}

		s.httpResponse(w, http.StatusInternalServerError, "Failed to get employee", "error")
		return
	}

	s.httpResponse(w, http.StatusOK, employee, "success")
}

// CreateEmployee validates the create form and parks it for confirmation.
// Nothing reaches the store until the confirm step.
func (s *Server) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	if err := s.requireMutator(r); err != nil {
		s.httpResponse(w, http.StatusForbidden, "Insufficient permissions", "error")
		return
	}

	var fields entity.EmployeeFields
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		s.deps.Logger.Error("Error decoding request body", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusBadRequest, "Invalid request body", "error")
		return
	}

	fieldErrs, err := s.validator.Check(fields)
	if err != nil {
		s.deps.Logger.Error("Error validating employee", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusInternalServerError, "Failed to validate", "error")
		return
	}

	if fieldErrs != nil {
		s.httpResponse(w, http.StatusUnprocessableEntity, map[string]any{
			"state":  forms.StateEditing,
			"errors": fieldErrs,
		}, "error")
		return
	}

	draft, err := s.drafts.Put(r.Context(), forms.KindEmployeeCreate, nil, fields)
	if err != nil {
		s.httpResponse(w, http.StatusInternalServerError, "Failed to stage employee", "error")
		return
	}

	s.httpResponse(w, http.StatusOK, map[string]any{
		"state":         forms.StateConfirming,
		"confirm_token": draft.Token,
	}, "success")
}

// UpdateEmployee validates a partial edit and parks it for confirmation.
func (s *Server) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	if err := s.requireMutator(r); err != nil {
		s.httpResponse(w, http.StatusForbidden, "Insufficient permissions", "error")
		return
	}

	id, err := urlID(r)
	if err != nil {
		s.httpResponse(w, http.StatusBadRequest, "Invalid employee id", "error")
		return
	}

	var upd entity.EmployeeUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		s.deps.Logger.Error("Error decoding request body", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusBadRequest, "Invalid request body", "error")
		return
	}

	fieldErrs, err := s.validator.Check(upd)
	if err != nil {
		s.deps.Logger.Error("Error validating employee", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusInternalServerError, "Failed to validate", "error")
		return
	}

	if fieldErrs != nil {
		s.httpResponse(w, http.StatusUnprocessableEntity, map[string]any{
			"state":  forms.StateEditing,
			"errors": fieldErrs,
		}, "error")
		return
	}

	draft, err := s.drafts.Put(r.Context(), forms.KindEmployeeUpdate, &id, upd)
	if err != nil {
		s.httpResponse(w, http.StatusInternalServerError, "Failed to stage employee", "error")
		return
	}

	s.httpResponse(w, http.StatusOK, map[string]any{
		"state":         forms.StateConfirming,
		"confirm_token": draft.Token,
	}, "success")
}

// ConfirmEmployee commits a parked create or update. The draft is consumed
// either way; a store failure sends the operator back to editing with the
// error, their input intact on the client.
func (s *Server) ConfirmEmployee(w http.ResponseWriter, r *http.Request) {
	if err := s.requireMutator(r); err != nil {
		s.httpResponse(w, http.StatusForbidden, "Insufficient permissions", "error")
		return
	}

	draft, err := s.drafts.Take(r.Context(), urlToken(r))
	if err != nil {
		if errors.Is(err, forms.ErrDraftNotFound) {
			s.httpResponse(w, http.StatusNotFound, forms.ErrDraftNotFound.Error(), "error")
			return
		}

		s.httpResponse(w, http.StatusInternalServerError, "Failed to confirm", "error")
		return
	}

	switch draft.Kind {
	case forms.KindEmployeeCreate:
		var fields entity.EmployeeFields
		if err := draft.DecodeFields(&fields); err != nil {
			s.deps.Logger.Error("Error decoding draft", slog.String("error", err.Error()))
			s.httpResponse(w, http.StatusInternalServerError, "Failed to confirm", "error")
			return
		}

		employee, err := s.Controllers.EmployeeController.CreateEmployee(fields)
		if err != nil {
			s.respondEmployeeMutationError(w, err, "Failed to create employee")
			return
		}

		s.invalidateLists(r.Context())
		s.respondSaved(w, http.StatusCreated, employee)

	case forms.KindEmployeeUpdate:
		var upd entity.EmployeeUpdate
		if err := draft.DecodeFields(&upd); err != nil {
			s.deps.Logger.Error("Error decoding draft", slog.String("error", err.Error()))
			s.httpResponse(w, http.StatusInternalServerError, "Failed to confirm", "error")
			return
		}

		if draft.EntityID == nil {
			s.httpResponse(w, http.StatusInternalServerError, "Failed to confirm", "error")
			return
		}

		employee, err := s.Controllers.EmployeeController.UpdateEmployee(*draft.EntityID, upd)
		if err != nil {
			s.respondEmployeeMutationError(w, err, "Failed to update employee")
			return
		}

		s.invalidateLists(r.Context())
		s.respondSaved(w, http.StatusOK, employee)

	default:
		s.httpResponse(w, http.StatusBadRequest, "Not an employee confirmation", "error")
	}
}

// ToggleEmployeeStatus is the row-level activate/deactivate action. Only the
// status field changes; on success the snapshots are invalidated so the next
// list load refetches, on failure nothing moves.
func (s *Server) ToggleEmployeeStatus(w http.ResponseWriter, r *http.Request) {
	if err := s.requireMutator(r); err != nil {
		s.httpResponse(w, http.StatusForbidden, "Insufficient permissions", "error")
		return
	}

	id, err := urlID(r)
	if err != nil {
		s.httpResponse(w, http.StatusBadRequest, "Invalid employee id", "error")
		return
	}

	employee, err := s.Controllers.EmployeeController.ToggleEmployeeStatus(id)
	if err != nil {
		s.respondEmployeeMutationError(w, err, "Failed to update employee status")
		return
	}

	s.invalidateLists(r.Context())
	s.httpResponse(w, http.StatusOK, employee, "success")
}

func (s *Server) respondEmployeeMutationError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, controllers.ErrEmployeeNotFound):
		s.httpResponse(w, http.StatusNotFound, "Employee not found", "error")
	case errors.Is(err, controllers.ErrAlreadyExists):
		s.httpResponse(w, http.StatusBadRequest, "Email or username already exists", "error")
	default:
		s.httpResponse(w, http.StatusInternalServerError, fallback, "error")
	}
}

// respondSaved answers a committed form with the stored entity and the
// success-notice duration the client shows.
func (s *Server) respondSaved(w http.ResponseWriter, status int, saved any) {
	s.httpResponse(w, status, map[string]any{
		"state":            forms.StateEditing,
		"saved":            saved,
		"notice_duration":  forms.SuccessNoticeDuration.Milliseconds(),
		"notice_time_unit": "ms",
	}, "success")
}
