package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// Handler returns the HTTP API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.RequestID)
	r.Use(s.requestLogger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/board", s.getBoard)
		r.Get("/board/ws", s.boardSocket)
		r.Get("/document", s.getDocument)
		r.Put("/center", s.putCenter)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.addSession)
			r.Route("/{id}", func(r chi.Router) {
				r.Patch("/", s.renameSession)
				r.Delete("/", s.deleteSession)
				r.Post("/select", s.selectSession)

				r.Post("/exams", s.addExam)
				r.Route("/exams/{examID}", func(r chi.Router) {
					r.Patch("/", s.updateExam)
					r.Delete("/", s.removeExam)
					r.Post("/toggle-hidden", s.toggleHidden)
					r.Post("/duplicate", s.duplicateExam)
				})
			})
		})

		r.Route("/import", func(r chi.Router) {
			r.Post("/bulk", s.importBulk)
			r.Post("/sheet/fetch", s.fetchSheet)
			r.Get("/sheet", s.getSheet)
			r.Post("/sheet/sessions/{name}", s.importSheetSession)
			r.Post("/sheet/all", s.importSheetAll)
			r.Post("/workbook", s.uploadWorkbook)
		})
	})
	return r
}
