package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/staffdesk/hr_service/internal/controllers"
	"github.com/staffdesk/hr_service/internal/entity"
	"github.com/staffdesk/hr_service/internal/forms"
	"github.com/staffdesk/hr_service/internal/listview"
)

type ctxKey int

const claimsKey ctxKey = 0

type Server struct {
	deps        *controllers.Dependens
	Controllers *controllers.Controllers

	cache     *listview.Cache
	drafts    *forms.DraftStore
	validator *forms.Validator
}

func NewServer(deps *controllers.Dependens) *Server {
	return &Server{
		deps: deps,
		Controllers: &controllers.Controllers{
			AuthController:       controllers.NewAuthController(deps),
			DepartmentController: controllers.NewDepartmentController(deps),
			EmployeeController:   controllers.NewEmployeeController(deps),
		},
		cache:     listview.NewCache(deps.Redis, deps.Config.Redis.ListCacheTTL, deps.Logger),
		drafts:    forms.NewDraftStore(deps.Redis, deps.Config.Redis.DraftTTL, deps.Logger),
		validator: forms.NewValidator(),
	}
}

// AuthGuard protects the employee, department and landing routes; requests
// without a valid session answer 401, never a partial view.
func (s *Server) AuthGuard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			s.deps.Logger.Warn("Authorization header missing", slog.String("path", r.URL.Path))
			s.httpResponse(w, http.StatusUnauthorized, "Unauthorized", "error")
			return
		}

		claims, err := s.Controllers.AuthController.CheckUserToken(authHeader)
		if err != nil {
			s.deps.Logger.Warn("Unauthorized request", slog.String("error", err.Error()))
			s.httpResponse(w, http.StatusUnauthorized, "Unauthorized", "error")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
	})
}

func claimsFrom(ctx context.Context) *entity.Claims {
	claims, _ := ctx.Value(claimsKey).(*entity.Claims)
	return claims
}

// requireMutator gates create/update/toggle operations to admin and manager
// roles; plain employees keep read access only.
func (s *Server) requireMutator(r *http.Request) error {
	claims := claimsFrom(r.Context())
	if claims == nil || !claims.CanMutate() {
		return errors.New("insufficient permissions")
	}
	return nil
}

// AuthLogin authenticates a credential pair and returns a JWT token pair.
func (s *Server) AuthLogin(w http.ResponseWriter, r *http.Request) {
	var req entity.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.deps.Logger.Error("Error decoding request body", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusBadRequest, "Invalid request body", "error")
		return
	}

	if req.Username == "" || req.Password == "" {
		s.httpResponse(w, http.StatusBadRequest, "Username and password required", "error")
		return
	}

	accessToken, refreshToken, err := s.Controllers.AuthController.AuthLogin(&req)
	if err != nil {
		if errors.Is(err, controllers.ErrInvalidCredentials) {
			s.httpResponse(w, http.StatusUnauthorized, "Invalid username or password", "error")
			return
		}

		s.deps.Logger.Error("Error logging in", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusInternalServerError, "Failed to authenticate", "error")
		return
	}

	s.httpResponse(w, http.StatusOK, entity.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, "success")
}

// AuthLogout revokes the presented tokens.
func (s *Server) AuthLogout(w http.ResponseWriter, r *http.Request) {
	var req entity.LogoutRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	if err := s.Controllers.AuthController.AuthLogout(r.Header.Get("Authorization"), req.RefreshToken); err != nil {
		s.httpResponse(w, http.StatusInternalServerError, "Failed to logout", "error")
		return
	}

	s.httpResponse(w, http.StatusOK, map[string]string{"message": "Logged out successfully"}, "success")
}

// Home is the landing summary behind the guard.
func (s *Server) Home(w http.ResponseWriter, r *http.Request) {
	employees, err := s.employeesSnapshot(r.Context())
	if err != nil {
		s.httpResponse(w, http.StatusInternalServerError, "Failed to get employees", "error")
		return
	}

	departments, err := s.departmentsSnapshot(r.Context())
	if err != nil {
		s.httpResponse(w, http.StatusInternalServerError, "Failed to get departments", "error")
		return
	}

	activeEmployees := 0
	for _, e := range employees {
		if e.Status == entity.StatusActive {
			activeEmployees++
		}
	}

	activeDepartments := 0
	for _, d := range departments {
		if d.Status == entity.StatusActive {
			activeDepartments++
		}
	}

	s.httpResponse(w, http.StatusOK, map[string]int{
		"employees":          len(employees),
		"active_employees":   activeEmployees,
		"departments":        len(departments),
		"active_departments": activeDepartments,
	}, "success")
}

// DeclineDraft abandons a pending confirmation and returns to editing.
func (s *Server) DeclineDraft(w http.ResponseWriter, r *http.Request) {
	token := urlToken(r)

	if err := s.drafts.Decline(r.Context(), token); err != nil {
		if errors.Is(err, forms.ErrDraftNotFound) {
			s.httpResponse(w, http.StatusNotFound, forms.ErrDraftNotFound.Error(), "error")
			return
		}

		s.httpResponse(w, http.StatusInternalServerError, "Failed to decline", "error")
		return
	}

	s.httpResponse(w, http.StatusOK, map[string]string{"state": forms.StateEditing}, "success")
}

// employeesSnapshot reads the raw employee collection through the snapshot
// cache, falling back to the store on any cache miss or failure.
func (s *Server) employeesSnapshot(ctx context.Context) ([]entity.Employee, error) {
	var employees []entity.Employee
	if s.cache.Get(ctx, listview.KeyEmployees, &employees) {
		return employees, nil
	}

	employees, err := s.Controllers.EmployeeController.GetEmployees()
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, listview.KeyEmployees, employees)
	return employees, nil
}

func (s *Server) departmentsSnapshot(ctx context.Context) ([]entity.Department, error) {
	var departments []entity.Department
	if s.cache.Get(ctx, listview.KeyDepartments, &departments) {
		return departments, nil
	}

	departments, err := s.Controllers.DepartmentController.GetDepartments()
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, listview.KeyDepartments, departments)
	return departments, nil
}

// invalidateLists drops every snapshot a mutation could have made stale.
func (s *Server) invalidateLists(ctx context.Context) {
	s.cache.Invalidate(ctx, listview.KeyEmployees, listview.KeyDepartments, listview.KeyManagers)
}

func (s *Server) httpResponse(w http.ResponseWriter, status int, data any, respType string) {
	resp := map[string]any{
		"status": status,
		"type":   respType,
		"data":   data,
	}

	respData, marshalErr := json.Marshal(resp)
	if marshalErr != nil {
		s.deps.Logger.Error("Error marshaling response", slog.String("error", marshalErr.Error()))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if _, err := w.Write(respData); err != nil {
		s.deps.Logger.Error("Error writing response", slog.String("error", err.Error()))
	}
}
