package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tmccall/deskcover/pkg/core/model"
)

// RosterStore is the storage surface roster management needs
type RosterStore interface {
	Dispatcher(ctx context.Context, id uuid.UUID) (*model.Dispatcher, error)
	ActiveDispatchers(ctx context.Context) ([]model.Dispatcher, error)
	InsertDispatcher(ctx context.Context, d *model.Dispatcher) error
	UpdateDispatcher(ctx context.Context, d *model.Dispatcher) error
	SetSeniorityRanks(ctx context.Context, ranks map[uuid.UUID]int) error
}

// CreateDispatcher adds a dispatcher to the roster and recomputes seniority
// ranks so the dense ordering invariant holds.
func CreateDispatcher(
	ctx context.Context,
	store RosterStore,
	logger *zap.Logger,
	employeeNumber, name string,
	seniorityDate time.Time,
	classification model.Classification,
) (*model.Dispatcher, error) {
	if !classification.IsValid() {
		return nil, fmt.Errorf("invalid classification %q", classification)
	}

	d := &model.Dispatcher{
		ID:             uuid.New(),
		EmployeeNumber: employeeNumber,
		Name:           name,
		SeniorityDate:  seniorityDate,
		Classification: classification,
		Active:         true,
	}
	if err := store.InsertDispatcher(ctx, d); err != nil {
		return nil, fmt.Errorf("insert dispatcher: %w", err)
	}

	if err := RecomputeSeniority(ctx, store, logger); err != nil {
		return nil, err
	}

	logger.Info("dispatcher created",
		zap.String("name", name),
		zap.String("employee_number", employeeNumber),
		zap.String("classification", string(classification)))
	return d, nil
}

// DeactivateDispatcher soft-deletes a dispatcher. Rows are never removed;
// historical fills and assignments keep their references.
func DeactivateDispatcher(ctx context.Context, store RosterStore, logger *zap.Logger, id uuid.UUID) error {
	d, err := store.Dispatcher(ctx, id)
	if err != nil {
		return err
	}
	if d == nil {
		return fmt.Errorf("%w: %s", ErrDispatcherNotFound, id)
	}

	d.Active = false
	if err := store.UpdateDispatcher(ctx, d); err != nil {
		return fmt.Errorf("deactivate dispatcher: %w", err)
	}

	if err := RecomputeSeniority(ctx, store, logger); err != nil {
		return err
	}

	logger.Info("dispatcher deactivated", zap.String("name", d.Name))
	return nil
}

// RecomputeSeniority rebuilds the dense seniority ranking over all active
// dispatchers. Ordering is seniority date ascending with employee number as
// the deterministic tie-break, rank 1 most senior.
func RecomputeSeniority(ctx context.Context, store RosterStore, logger *zap.Logger) error {
	dispatchers, err := store.ActiveDispatchers(ctx)
	if err != nil {
		return fmt.Errorf("load active dispatchers: %w", err)
	}

	sort.SliceStable(dispatchers, func(i, j int) bool {
		if !dispatchers[i].SeniorityDate.Equal(dispatchers[j].SeniorityDate) {
			return dispatchers[i].SeniorityDate.Before(dispatchers[j].SeniorityDate)
		}
		return dispatchers[i].EmployeeNumber < dispatchers[j].EmployeeNumber
	})

	ranks := make(map[uuid.UUID]int, len(dispatchers))
	for i, d := range dispatchers {
		ranks[d.ID] = i + 1
	}

	if err := store.SetSeniorityRanks(ctx, ranks); err != nil {
		return fmt.Errorf("persist seniority ranks: %w", err)
	}

	logger.Debug("seniority ranks recomputed", zap.Int("dispatchers", len(ranks)))
	return nil
}
