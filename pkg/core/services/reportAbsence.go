package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"github.com/tmccall/deskcover/pkg/core/model"
)

// DefaultOpenEndedDays caps how far an open-ended absence is materialized
// ahead; further days are reported again once the return date is known.
const DefaultOpenEndedDays = 14

// ReportAbsenceStore is the storage surface absence intake needs
type ReportAbsenceStore interface {
	Dispatcher(ctx context.Context, id uuid.UUID) (*model.Dispatcher, error)
	ActiveRegularAssignment(ctx context.Context, dispatcherID uuid.UUID) (*model.JobAssignment, error)
	InsertVacancies(ctx context.Context, vacancies []model.Vacancy) error
}

// AbsenceReport is the intake payload from the absence-reporting boundary
type AbsenceReport struct {
	DispatcherID uuid.UUID
	AbsenceType  model.AbsenceType
	VacancyType  model.VacancyType
	StartDate    time.Time
	EndDate      *time.Time // required for date_range, ignored otherwise
	Notes        string
}

// ReportAbsence expands a reported absence into one pending vacancy per
// affected calendar day against the dispatcher's current regular assignment.
// is_planned is derived from the vacancy type. openEndedDays bounds the
// expansion of an open-ended absence; zero falls back to the default.
func ReportAbsence(
	ctx context.Context,
	store ReportAbsenceStore,
	logger *zap.Logger,
	report AbsenceReport,
	openEndedDays int,
) ([]model.Vacancy, error) {
	if openEndedDays <= 0 {
		openEndedDays = DefaultOpenEndedDays
	}
	dispatcher, err := store.Dispatcher(ctx, report.DispatcherID)
	if err != nil {
		return nil, err
	}
	if dispatcher == nil {
		return nil, fmt.Errorf("%w: %s", ErrDispatcherNotFound, report.DispatcherID)
	}

	assignment, err := store.ActiveRegularAssignment(ctx, report.DispatcherID)
	if err != nil {
		return nil, err
	}
	if assignment == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoActiveAssignment, dispatcher.Name)
	}

	dates, err := expandAbsenceDates(report, openEndedDays)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	vacancies := make([]model.Vacancy, 0, len(dates))
	for _, date := range dates {
		vacancies = append(vacancies, model.Vacancy{
			ID:          uuid.New(),
			DeskID:      assignment.DeskID,
			Shift:       assignment.Shift,
			Date:        date,
			Type:        report.VacancyType,
			AbsenceType: report.AbsenceType,
			IncumbentID: report.DispatcherID,
			IsPlanned:   report.VacancyType.Planned(),
			Status:      model.VacancyPending,
			Notes:       report.Notes,
			CreatedAt:   now,
		})
	}

	if err := store.InsertVacancies(ctx, vacancies); err != nil {
		return nil, fmt.Errorf("persist vacancies: %w", err)
	}

	logger.Info("absence reported",
		zap.String("dispatcher", dispatcher.Name),
		zap.String("type", string(report.VacancyType)),
		zap.String("absence_type", string(report.AbsenceType)),
		zap.Int("vacancy_days", len(vacancies)))
	return vacancies, nil
}

// expandAbsenceDates materializes the affected calendar days as a daily
// recurrence between the report's bounds.
func expandAbsenceDates(report AbsenceReport, openEndedDays int) ([]time.Time, error) {
	start := truncateDay(report.StartDate)

	var until time.Time
	switch report.AbsenceType {
	case model.AbsenceSingleDay:
		return []time.Time{start}, nil
	case model.AbsenceDateRange:
		if report.EndDate == nil {
			return nil, fmt.Errorf("date_range absence requires an end date")
		}
		until = truncateDay(*report.EndDate)
		if until.Before(start) {
			return nil, fmt.Errorf("absence end date %s precedes start date %s",
				until.Format("2006-01-02"), start.Format("2006-01-02"))
		}
	case model.AbsenceOpenEnded:
		until = start.AddDate(0, 0, openEndedDays-1)
	default:
		return nil, fmt.Errorf("unknown absence type %q", report.AbsenceType)
	}

	r, err := rrule.NewRRule(rrule.ROption{
		Freq:    rrule.DAILY,
		Dtstart: start,
		Until:   until,
	})
	if err != nil {
		return nil, fmt.Errorf("build absence recurrence: %w", err)
	}
	return r.All(), nil
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
