package bootstrap

import (
	"net/http"

	"courseware/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func InitRoutes(h *HandlersBundle, keys middleware.KeyChecker) chi.Router {
	r := chi.NewRouter()

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Post("/students", h.StudentHandler.CreateStudent)
	r.Post("/admin/modules", h.AdminHandler.SaveModule)

	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthRequired(keys))
		r.Route("/courses/{org}/{course}/modules/{category}/{name}", func(r chi.Router) {
			r.Get("/", h.ModuleHandler.StudentView)
			r.Post("/ajax/{dispatch}", h.ModuleHandler.Ajax)
		})
	})

	return r
}
