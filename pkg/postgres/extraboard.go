package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tmccall/deskcover/pkg/core/model"
)

// ExtraBoardAssignment returns the dispatcher's active board assignment, nil
// when they are not on the extra board
func (s *queries) ExtraBoardAssignment(ctx context.Context, dispatcherID uuid.UUID) (*model.ExtraBoardAssignment, error) {
	var a model.ExtraBoardAssignment
	var class int
	err := s.q.QueryRow(ctx, `
		SELECT id, dispatcher_id, board_class, cycle_start_date, start_date, end_date
		FROM extra_board_assignment
		WHERE dispatcher_id = $1 AND end_date IS NULL
	`, dispatcherID).Scan(&a.ID, &a.DispatcherID, &class, &a.CycleStartDate, &a.StartDate, &a.EndDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query board assignment: %w", err)
	}
	a.Class = model.BoardClass(class)
	return &a, nil
}

// InsertExtraBoardAssignment inserts a new board membership row
func (s *queries) InsertExtraBoardAssignment(ctx context.Context, a *model.ExtraBoardAssignment) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO extra_board_assignment (id, dispatcher_id, board_class, cycle_start_date, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, a.ID, a.DispatcherID, int(a.Class), a.CycleStartDate, a.StartDate, a.EndDate)
	if err != nil {
		return fmt.Errorf("failed to insert board assignment: %w", err)
	}
	return nil
}

// EndExtraBoardAssignment closes a board membership row
func (s *queries) EndExtraBoardAssignment(ctx context.Context, id uuid.UUID, endDate time.Time) error {
	_, err := s.q.Exec(ctx, `
		UPDATE extra_board_assignment SET end_date = $2 WHERE id = $1 AND end_date IS NULL
	`, id, endDate)
	if err != nil {
		return fmt.Errorf("failed to end board assignment: %w", err)
	}
	return nil
}

// ActiveExtraBoardCount is the current extra-board pool headcount
func (s *queries) ActiveExtraBoardCount(ctx context.Context) (int, error) {
	var count int
	err := s.q.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM extra_board_assignment a
		JOIN dispatcher d ON d.id = a.dispatcher_id
		WHERE a.end_date IS NULL AND d.active
	`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count extra board: %w", err)
	}
	return count, nil
}
