package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tmccall/deskcover/pkg/core/model"
	"github.com/tmccall/deskcover/pkg/core/services"
)

const dateLayout = "2006-01-02"

type absenceRequest struct {
	DispatcherID string `json:"dispatcher_id"`
	AbsenceType  string `json:"absence_type"`
	VacancyType  string `json:"vacancy_type"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

type vacancyResponse struct {
	ID        string `json:"id"`
	DeskID    string `json:"desk_id"`
	Shift     string `json:"shift"`
	Date      string `json:"date"`
	Type      string `json:"vacancy_type"`
	IsPlanned bool   `json:"is_planned"`
	Status    string `json:"status"`
}

func toVacancyResponse(v model.Vacancy) vacancyResponse {
	return vacancyResponse{
		ID:        v.ID.String(),
		DeskID:    v.DeskID.String(),
		Shift:     string(v.Shift),
		Date:      v.Date.Format(dateLayout),
		Type:      string(v.Type),
		IsPlanned: v.IsPlanned,
		Status:    string(v.Status),
	}
}

// handleReportAbsence handles POST /absences
func (s *Server) handleReportAbsence(w http.ResponseWriter, r *http.Request) {
	var req absenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	dispatcherID, err := uuid.Parse(req.DispatcherID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid dispatcher_id")
		return
	}
	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid start_date")
		return
	}

	report := services.AbsenceReport{
		DispatcherID: dispatcherID,
		AbsenceType:  model.AbsenceType(req.AbsenceType),
		VacancyType:  model.VacancyType(req.VacancyType),
		StartDate:    start,
		Notes:        req.Notes,
	}
	if req.EndDate != "" {
		end, err := time.Parse(dateLayout, req.EndDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid end_date")
			return
		}
		report.EndDate = &end
	}

	vacancies, err := services.ReportAbsence(r.Context(), s.store, s.logger, report, s.openEndedDays)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	resp := make([]vacancyResponse, 0, len(vacancies))
	for _, v := range vacancies {
		resp = append(resp, toVacancyResponse(v))
	}
	writeJSON(w, http.StatusCreated, map[string]any{"vacancies": resp})
}

// handleFillVacancy handles POST /vacancies/{id}/fill, the externally
// callable fill trigger
func (s *Server) handleFillVacancy(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid vacancy id")
		return
	}

	result, err := services.FillVacancy(r.Context(), s.store, s.ebBaseline, s.logger, id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	resp := map[string]any{
		"filled":                  result.Filled,
		"created_cascade_vacancy": result.CreatedCascade,
		"decision_log":            result.DecisionLog,
	}
	if result.Filled {
		resp["dispatcher_id"] = result.DispatcherID.String()
		resp["dispatcher_name"] = result.DispatcherName
		resp["fill_method"] = string(result.Method)
		resp["pay_type"] = string(result.Pay)
	}
	if result.CascadeVacancyID != nil {
		resp["cascade_vacancy_id"] = result.CascadeVacancyID.String()
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleListVacancies handles GET /vacancies?from=YYYY-MM-DD&to=YYYY-MM-DD
func (s *Server) handleListVacancies(w http.ResponseWriter, r *http.Request) {
	from, err := time.Parse(dateLayout, r.URL.Query().Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid from date")
		return
	}
	to, err := time.Parse(dateLayout, r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid to date")
		return
	}

	vacancies, err := services.ListPendingVacancies(r.Context(), s.store, from, to)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	resp := make([]vacancyResponse, 0, len(vacancies))
	for _, v := range vacancies {
		resp = append(resp, toVacancyResponse(v))
	}
	writeJSON(w, http.StatusOK, map[string]any{"vacancies": resp})
}

// handleViewFill handles GET /vacancies/{id}/fill
func (s *Server) handleViewFill(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid vacancy id")
		return
	}

	fill, err := services.ViewFillLog(r.Context(), s.store, id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	resp := map[string]any{
		"vacancy_id":              fill.VacancyID.String(),
		"dispatcher_id":           fill.FilledByID.String(),
		"fill_method":             string(fill.Method),
		"pay_type":                string(fill.Pay),
		"created_cascade_vacancy": fill.CreatedCascade,
		"decision_log":            fill.DecisionLog,
	}
	if fill.CascadeVacancyID != nil {
		resp["cascade_vacancy_id"] = fill.CascadeVacancyID.String()
	}
	writeJSON(w, http.StatusOK, resp)
}

// writeServiceError maps the service error taxonomy onto HTTP statuses
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrVacancyNotFound),
		errors.Is(err, services.ErrDispatcherNotFound),
		errors.Is(err, services.ErrVacancyNotFilled):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrVacancyNotPending),
		errors.Is(err, services.ErrNoActiveAssignment):
		writeError(w, http.StatusConflict, err.Error())
	default:
		s.logger.Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
