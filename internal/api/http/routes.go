package api

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts the API. Login stays reachable without a session;
// everything behind the guard requires one.
func (s *Server) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", s.AuthLogin)
		r.Post("/auth/logout", s.AuthLogout)

		r.Group(func(r chi.Router) {
			r.Use(s.AuthGuard)

			r.Get("/home", s.Home)

			r.Route("/employees", func(r chi.Router) {
				r.Get("/", s.GetEmployees)
				r.Get("/managers", s.GetManagers)
				r.Get("/{id}", s.GetEmployeeByID)
				r.Post("/", s.CreateEmployee)
				r.Put("/{id}", s.UpdateEmployee)
				r.Post("/confirm/{token}", s.ConfirmEmployee)
				r.Patch("/{id}/status", s.ToggleEmployeeStatus)
			})

			r.Route("/departments", func(r chi.Router) {
				r.Get("/", s.GetDepartments)
				r.Get("/{id}", s.GetDepartmentByID)
				r.Post("/", s.CreateDepartment)
				r.Put("/{id}", s.UpdateDepartment)
				r.Post("/confirm/{token}", s.ConfirmDepartment)
				r.Patch("/{id}/status", s.ToggleDepartmentStatus)
			})

			r.Delete("/drafts/{token}", s.DeclineDraft)
		})
	})
}
