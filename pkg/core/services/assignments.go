package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tmccall/deskcover/pkg/core/model"
)

// AssignmentStore is the storage surface job-assignment management needs
type AssignmentStore interface {
	Dispatcher(ctx context.Context, id uuid.UUID) (*model.Dispatcher, error)
	UpdateDispatcher(ctx context.Context, d *model.Dispatcher) error
	ActiveRegularAssignment(ctx context.Context, dispatcherID uuid.UUID) (*model.JobAssignment, error)
	ActiveAssignmentForPosition(ctx context.Context, deskID uuid.UUID, shift model.Shift) (*model.JobAssignment, error)
	EndAssignment(ctx context.Context, id uuid.UUID, endDate time.Time) error
	InsertAssignment(ctx context.Context, a *model.JobAssignment) error
	ExtraBoardAssignment(ctx context.Context, dispatcherID uuid.UUID) (*model.ExtraBoardAssignment, error)
	EndExtraBoardAssignment(ctx context.Context, id uuid.UUID, endDate time.Time) error
}

// AwardRegularAssignment binds a dispatcher to a desk+shift as its regular
// incumbent. Any existing regular assignment for the position or held by the
// dispatcher is end-dated, never deleted, and the dispatcher's
// classification moves to job holder (acd for the twelve-hour shifts). A
// regular holder no longer rotates with the extra board, so an active board
// row is end-dated too.
func AwardRegularAssignment(
	ctx context.Context,
	store AssignmentStore,
	logger *zap.Logger,
	dispatcherID, deskID uuid.UUID,
	shift model.Shift,
	startDate time.Time,
) (*model.JobAssignment, error) {
	if !shift.IsValid() {
		return nil, fmt.Errorf("invalid shift %q", shift)
	}

	d, err := store.Dispatcher(ctx, dispatcherID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, fmt.Errorf("%w: %s", ErrDispatcherNotFound, dispatcherID)
	}

	endDate := startDate.AddDate(0, 0, -1)

	// one active regular per position
	current, err := store.ActiveAssignmentForPosition(ctx, deskID, shift)
	if err != nil {
		return nil, err
	}
	if current != nil {
		if err := store.EndAssignment(ctx, current.ID, endDate); err != nil {
			return nil, fmt.Errorf("end incumbent assignment: %w", err)
		}
	}

	// one active regular per dispatcher
	held, err := store.ActiveRegularAssignment(ctx, dispatcherID)
	if err != nil {
		return nil, err
	}
	if held != nil {
		if err := store.EndAssignment(ctx, held.ID, endDate); err != nil {
			return nil, fmt.Errorf("end prior assignment: %w", err)
		}
	}

	board, err := store.ExtraBoardAssignment(ctx, dispatcherID)
	if err != nil {
		return nil, err
	}
	if board != nil {
		if err := store.EndExtraBoardAssignment(ctx, board.ID, endDate); err != nil {
			return nil, fmt.Errorf("end board assignment: %w", err)
		}
	}

	a := &model.JobAssignment{
		ID:           uuid.New(),
		DispatcherID: dispatcherID,
		DeskID:       deskID,
		Shift:        shift,
		Type:         model.AssignmentRegular,
		StartDate:    startDate,
	}
	if err := store.InsertAssignment(ctx, a); err != nil {
		return nil, fmt.Errorf("insert assignment: %w", err)
	}

	class := model.ClassJobHolder
	if shift == model.ShiftACDDay || shift == model.ShiftACDNight {
		class = model.ClassACD
	}
	if d.Classification != class {
		d.Classification = class
		if err := store.UpdateDispatcher(ctx, d); err != nil {
			return nil, fmt.Errorf("update classification: %w", err)
		}
	}

	logger.Info("regular assignment awarded",
		zap.String("dispatcher", d.Name),
		zap.String("desk_id", deskID.String()),
		zap.String("shift", string(shift)))
	return a, nil
}
