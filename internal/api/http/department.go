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

// GetDepartments runs the list pipeline over the cached department snapshot.
func (s *Server) GetDepartments(w http.ResponseWriter, r *http.Request) {
	params, err := bindListQuery(r)
	if err != nil {
		s.deps.Logger.Warn("Invalid list query", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusBadRequest, err.Error(), "error")
		return
	}

	departments, err := s.departmentsSnapshot(r.Context())
	if err != nil {
		s.httpResponse(w, http.StatusInternalServerError, "Failed to get departments", "error")
		return
	}

	filters := listview.FilterSet[entity.Department]{
		listview.SearchAny(params.Search, func(d entity.Department) []string {
			return []string{d.Name}
		}),
		listview.FieldEquals(params.Status, func(d entity.Department) string { return d.Status }),
	}

	result := listview.Apply(departments, filters, listview.PageRequest{Page: params.Page, Size: params.PageSize})

	s.httpResponse(w, http.StatusOK, result, "success")
}

func (s *Server) GetDepartmentByID(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		s.httpResponse(w, http.StatusBadRequest, "Invalid department id", "error")
		return
	}

	department, err := s.Controllers.DepartmentController.GetDepartmentByID(id)
	if err != nil {
		if errors.Is(err, controllers.ErrDepartmentNotFound) {
			s.httpResponse(w, http.StatusNotFound, "Department not found", "error")
			return
		}

		s.httpResponse(w, http.StatusInternalServerError, "Failed to get department", "error")
		return
	}

	s.httpResponse(w, http.StatusOK, department, "success")
}

// CreateDepartment validates the create form and parks it for confirmation.
func (s *Server) CreateDepartment(w http.ResponseWriter, r *http.Request) {
	if err := s.requireMutator(r); err != nil {
		s.httpResponse(w, http.StatusForbidden, "Insufficient permissions", "error")
		return
	}

	var fields entity.DepartmentFields
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		s.deps.Logger.Error("Error decoding request body", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusBadRequest, "Invalid request body", "error")
		return
	}

	fieldErrs, err := s.validator.Check(fields)
	if err != nil {
		s.deps.Logger.Error("Error validating department", slog.String("error", err.Error()))
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

	draft, err := s.drafts.Put(r.Context(), forms.KindDepartmentCreate, nil, fields)
	if err != nil {
		s.httpResponse(w, http.StatusInternalServerError, "Failed to stage department", "error")
		return
	}

	s.httpResponse(w, http.StatusOK, map[string]any{
		"state":         forms.StateConfirming,
		"confirm_token": draft.Token,
	}, "success")
}

// UpdateDepartment validates a partial edit and parks it for confirmation.
func (s *Server) UpdateDepartment(w http.ResponseWriter, r *http.Request) {
	if err := s.requireMutator(r); err != nil {
		s.httpResponse(w, http.StatusForbidden, "Insufficient permissions", "error")
		return
	}

	id, err := urlID(r)
	if err != nil {
		s.httpResponse(w, http.StatusBadRequest, "Invalid department id", "error")
		return
	}

	var upd entity.DepartmentUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		s.deps.Logger.Error("Error decoding request body", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusBadRequest, "Invalid request body", "error")
		return
	}

	fieldErrs, err := s.validator.Check(upd)
	if err != nil {
		s.deps.Logger.Error("Error validating department", slog.String("error", err.Error()))
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

	draft, err := s.drafts.Put(r.Context(), forms.KindDepartmentUpdate, &id, upd)
	if err != nil {
		s.httpResponse(w, http.StatusInternalServerError, "Failed to stage department", "error")
		return
	}

	s.httpResponse(w, http.StatusOK, map[string]any{
		"state":         forms.StateConfirming,
		"confirm_token": draft.Token,
	}, "success")
}

// ConfirmDepartment commits a parked create or update.
func (s *Server) ConfirmDepartment(w http.ResponseWriter, r *http.Request) {
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
	case forms.KindDepartmentCreate:
		var fields entity.DepartmentFields
		if err := draft.DecodeFields(&fields); err != nil {
			s.deps.Logger.Error("Error decoding draft", slog.String("error", err.Error()))
			s.httpResponse(w, http.StatusInternalServerError, "Failed to confirm", "error")
			return
		}

		department, err := s.Controllers.DepartmentController.CreateDepartment(fields)
		if err != nil {
			s.respondDepartmentMutationError(w, err, "Failed to create department")
			return
		}

		s.invalidateLists(r.Context())
		s.respondSaved(w, http.StatusCreated, department)

	case forms.KindDepartmentUpdate:
		var upd entity.DepartmentUpdate
		if err := draft.DecodeFields(&upd); err != nil {
			s.deps.Logger.Error("Error decoding draft", slog.String("error", err.Error()))
			s.httpResponse(w, http.StatusInternalServerError, "Failed to confirm", "error")
			return
		}

		if draft.EntityID == nil {
			s.httpResponse(w, http.StatusInternalServerError, "Failed to confirm", "error")
			return
		}

		department, err := s.Controllers.DepartmentController.UpdateDepartment(*draft.EntityID, upd)
		if err != nil {
			s.respondDepartmentMutationError(w, err, "Failed to update department")
			return
		}

		s.invalidateLists(r.Context())
		s.respondSaved(w, http.StatusOK, department)

	default:
		s.httpResponse(w, http.StatusBadRequest, "Not a department confirmation", "error")
	}
}

// ToggleDepartmentStatus flips a department between Active and Inactive.
func (s *Server) ToggleDepartmentStatus(w http.ResponseWriter, r *http.Request) {
	if err := s.requireMutator(r); err != nil {
		s.httpResponse(w, http.StatusForbidden, "Insufficient permissions", "error")
		return
	}

	id, err := urlID(r)
	if err != nil {
		s.httpResponse(w, http.StatusBadRequest, "Invalid department id", "error")
		return
	}

	department, err := s.Controllers.DepartmentController.ToggleDepartmentStatus(id)
	if err != nil {
		s.respondDepartmentMutationError(w, err, "Failed to update department status")
		return
	}

	s.invalidateLists(r.Context())
	s.httpResponse(w, http.StatusOK, department, "success")
}

func (s *Server) respondDepartmentMutationError(w http.ResponseWriter, err error, fallback string) {
	if errors.Is(err, controllers.ErrDepartmentNotFound) {
		s.httpResponse(w, http.StatusNotFound, "Department not found", "error")
		return
	}

	s.httpResponse(w, http.StatusInternalServerError, fallback, "error")
}
