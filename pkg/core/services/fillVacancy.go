package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tmccall/deskcover/pkg/core/engine"
	"github.com/tmccall/deskcover/pkg/core/model"
	"github.com/tmccall/deskcover/pkg/db"
)

// FillVacancyStore is the storage surface FillVacancy needs. The fill itself
// runs inside FillTransaction, which serializes concurrent fills for the
// same calendar date before handing over a transactional store.
type FillVacancyStore interface {
	VacancyByID(ctx context.Context, id uuid.UUID) (*model.Vacancy, error)
	FillTransaction(ctx context.Context, date time.Time, fn func(tx db.FillTx) error) error
}

// FillResult is what the fill trigger boundary returns to the caller
type FillResult struct {
	Filled           bool
	DispatcherID     uuid.UUID
	DispatcherName   string
	Method           model.FillMethod
	Pay              model.PayType
	CreatedCascade   bool
	CascadeVacancyID *uuid.UUID
	DecisionLog      []model.DecisionEntry
}

// FillVacancy runs the order of call for a pending vacancy and records the
// outcome atomically: the fill row, the vacancy status change and at most
// one cascade vacancy either all persist or none do. Exhaustion returns a
// result with Filled=false and the vacancy left pending; the cascade vacancy
// is never re-filled automatically, the operator re-triggers it.
func FillVacancy(
	ctx context.Context,
	store FillVacancyStore,
	baseline int,
	logger *zap.Logger,
	vacancyID uuid.UUID,
) (*FillResult, error) {
	// read outside the transaction to learn the date the fill must be
	// serialized on; pending status is re-checked under the lock
	vac, err := store.VacancyByID(ctx, vacancyID)
	if err != nil {
		return nil, err
	}
	if vac == nil {
		return nil, fmt.Errorf("%w: %s", ErrVacancyNotFound, vacancyID)
	}
	if vac.Status != model.VacancyPending {
		return nil, fmt.Errorf("%w: %s is %s", ErrVacancyNotPending, vacancyID, vac.Status)
	}

	var result *FillResult
	err = store.FillTransaction(ctx, vac.Date, func(tx db.FillTx) error {
		vac, err := tx.VacancyByID(ctx, vacancyID)
		if err != nil {
			return err
		}
		if vac == nil {
			return fmt.Errorf("%w: %s", ErrVacancyNotFound, vacancyID)
		}
		if vac.Status != model.VacancyPending {
			return fmt.Errorf("%w: %s is %s", ErrVacancyNotPending, vacancyID, vac.Status)
		}

		eng := engine.New(tx, baseline, logger)
		outcome, err := eng.Decide(ctx, vac)
		if err != nil {
			return err
		}

		if outcome.Decision == nil {
			result = &FillResult{Filled: false, DecisionLog: outcome.Log}
			return nil
		}

		result, err = record(ctx, tx, vac, outcome)
		return err
	})
	if err != nil {
		return nil, err
	}

	if result.Filled {
		logger.Info("vacancy filled",
			zap.String("vacancy_id", vacancyID.String()),
			zap.String("dispatcher", result.DispatcherName),
			zap.String("method", string(result.Method)),
			zap.Bool("cascade", result.CreatedCascade))
	} else {
		logger.Warn("vacancy left pending, order of call exhausted",
			zap.String("vacancy_id", vacancyID.String()))
	}
	return result, nil
}

// record persists the fill decision and spawns the cascade vacancy when the
// selected dispatcher was diverted from another position.
func record(ctx context.Context, tx db.FillTx, vac *model.Vacancy, outcome *engine.Outcome) (*FillResult, error) {
	decision := outcome.Decision
	now := time.Now().UTC()

	fill := &model.VacancyFill{
		ID:          uuid.New(),
		VacancyID:   vac.ID,
		FilledByID:  decision.Dispatcher.ID,
		Method:      decision.Method,
		Pay:         decision.Pay,
		DecisionLog: outcome.Log,
		CreatedAt:   now,
	}
	if err := tx.InsertVacancyFill(ctx, fill); err != nil {
		return nil, fmt.Errorf("persist fill: %w", err)
	}
	if err := tx.MarkVacancyFilled(ctx, vac.ID); err != nil {
		return nil, fmt.Errorf("mark vacancy filled: %w", err)
	}

	start, end := vac.Shift.Window(vac.Date)
	period := &model.WorkPeriod{
		ID:           uuid.New(),
		DispatcherID: decision.Dispatcher.ID,
		Start:        start,
		End:          end,
	}
	if err := tx.InsertWorkPeriod(ctx, period); err != nil {
		return nil, fmt.Errorf("record work period: %w", err)
	}

	result := &FillResult{
		Filled:         true,
		DispatcherID:   decision.Dispatcher.ID,
		DispatcherName: decision.Dispatcher.Name,
		Method:         decision.Method,
		Pay:            decision.Pay,
		DecisionLog:    outcome.Log,
	}

	if decision.Cascade != nil {
		cascade := &model.Vacancy{
			ID:          uuid.New(),
			DeskID:      decision.Cascade.DeskID,
			Shift:       decision.Cascade.Shift,
			Date:        vac.Date,
			Type:        vac.Type,
			AbsenceType: model.AbsenceSingleDay,
			IncumbentID: decision.Dispatcher.ID,
			IsPlanned:   vac.IsPlanned,
			Status:      model.VacancyPending,
			Notes:       fmt.Sprintf("cascade from vacancy %s", vac.ID),
			CreatedAt:   now,
		}
		if err := tx.InsertVacancy(ctx, cascade); err != nil {
			return nil, fmt.Errorf("create cascade vacancy: %w", err)
		}
		if err := tx.SetCascadeVacancy(ctx, fill.ID, cascade.ID); err != nil {
			return nil, fmt.Errorf("link cascade vacancy: %w", err)
		}
		result.CreatedCascade = true
		result.CascadeVacancyID = &cascade.ID
	}

	return result, nil
}
