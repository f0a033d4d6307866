package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tmccall/deskcover/pkg/core/model"
)

// ExtraBoardStore is the storage surface board management needs
type ExtraBoardStore interface {
	Dispatcher(ctx context.Context, id uuid.UUID) (*model.Dispatcher, error)
	ExtraBoardAssignment(ctx context.Context, dispatcherID uuid.UUID) (*model.ExtraBoardAssignment, error)
	EndExtraBoardAssignment(ctx context.Context, id uuid.UUID, endDate time.Time) error
	InsertExtraBoardAssignment(ctx context.Context, a *model.ExtraBoardAssignment) error
}

// AssignToBoard places a dispatcher in a rest-day rotation class. At most
// one board assignment is active per dispatcher; a prior one is end-dated.
func AssignToBoard(
	ctx context.Context,
	store ExtraBoardStore,
	logger *zap.Logger,
	dispatcherID uuid.UUID,
	class model.BoardClass,
	cycleStart, startDate time.Time,
) (*model.ExtraBoardAssignment, error) {
	if !class.IsValid() {
		return nil, fmt.Errorf("invalid board class %d", class)
	}

	d, err := store.Dispatcher(ctx, dispatcherID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, fmt.Errorf("%w: %s", ErrDispatcherNotFound, dispatcherID)
	}

	current, err := store.ExtraBoardAssignment(ctx, dispatcherID)
	if err != nil {
		return nil, err
	}
	if current != nil {
		if err := store.EndExtraBoardAssignment(ctx, current.ID, startDate.AddDate(0, 0, -1)); err != nil {
			return nil, fmt.Errorf("end prior board assignment: %w", err)
		}
	}

	a := &model.ExtraBoardAssignment{
		ID:             uuid.New(),
		DispatcherID:   dispatcherID,
		Class:          class,
		CycleStartDate: cycleStart,
		StartDate:      startDate,
	}
	if err := store.InsertExtraBoardAssignment(ctx, a); err != nil {
		return nil, fmt.Errorf("insert board assignment: %w", err)
	}

	logger.Info("dispatcher assigned to extra board",
		zap.String("dispatcher", d.Name),
		zap.Int("class", int(class)))
	return a, nil
}
