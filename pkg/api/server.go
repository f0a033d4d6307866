// Package api exposes the fill-trigger and absence-intake boundaries over
// HTTP for the rest of the dispatch tooling to call.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/tmccall/deskcover/pkg/core/services"
)

// Store is the storage surface the HTTP boundary needs; *postgres.DB
// satisfies it.
type Store interface {
	services.FillVacancyStore
	services.ReportAbsenceStore
	services.FillLogStore
	services.VacancyListStore
}

// Server handles the HTTP boundary
type Server struct {
	store         Store
	ebBaseline    int
	openEndedDays int
	logger        *zap.Logger
}

// NewServer creates a Server. ebBaseline feeds the fill engine's pay-type
// decision; openEndedDays bounds open-ended absence expansion.
func NewServer(store Store, ebBaseline, openEndedDays int, logger *zap.Logger) *Server {
	return &Server{
		store:         store,
		ebBaseline:    ebBaseline,
		openEndedDays: openEndedDays,
		logger:        logger.Named("api"),
	}
}

// Router builds the chi route table
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Post("/absences", s.handleReportAbsence)
	r.Get("/vacancies", s.handleListVacancies)
	r.Post("/vacancies/{id}/fill", s.handleFillVacancy)
	r.Get("/vacancies/{id}/fill", s.handleViewFill)

	return r
}
