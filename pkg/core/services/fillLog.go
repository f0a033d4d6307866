package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tmccall/deskcover/pkg/core/model"
)

// FillLogStore is the storage surface the audit views need
type FillLogStore interface {
	VacancyByID(ctx context.Context, id uuid.UUID) (*model.Vacancy, error)
	FillForVacancy(ctx context.Context, vacancyID uuid.UUID) (*model.VacancyFill, error)
}

// ViewFillLog returns the stored fill record, decision log included, for a
// filled vacancy.
func ViewFillLog(ctx context.Context, store FillLogStore, vacancyID uuid.UUID) (*model.VacancyFill, error) {
	vac, err := store.VacancyByID(ctx, vacancyID)
	if err != nil {
		return nil, err
	}
	if vac == nil {
		return nil, fmt.Errorf("%w: %s", ErrVacancyNotFound, vacancyID)
	}

	fill, err := store.FillForVacancy(ctx, vacancyID)
	if err != nil {
		return nil, err
	}
	if fill == nil {
		return nil, fmt.Errorf("%w: %s", ErrVacancyNotFilled, vacancyID)
	}
	return fill, nil
}

// VacancyListStore is the storage surface the pending-vacancy report needs
type VacancyListStore interface {
	PendingVacancies(ctx context.Context, from, to time.Time) ([]model.Vacancy, error)
}

// ListPendingVacancies reports unfilled vacancies for a date range, the
// operator surface for exhaustion outcomes.
func ListPendingVacancies(ctx context.Context, store VacancyListStore, from, to time.Time) ([]model.Vacancy, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("range end %s precedes start %s",
			to.Format("2006-01-02"), from.Format("2006-01-02"))
	}
	return store.PendingVacancies(ctx, from, to)
}
