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

const assignmentColumns = `id, dispatcher_id, desk_id, shift, assignment_type, start_date, end_date`

func scanAssignment(row pgx.Row) (*model.JobAssignment, error) {
	var a model.JobAssignment
	var shift, atype string
	if err := row.Scan(&a.ID, &a.DispatcherID, &a.DeskID, &shift, &atype,
		&a.StartDate, &a.EndDate); err != nil {
		return nil, err
	}
	a.Shift = model.Shift(shift)
	a.Type = model.AssignmentType(atype)
	return &a, nil
}

// ActiveRegularAssignment returns the dispatcher's live regular assignment,
// nil when they hold none
func (s *queries) ActiveRegularAssignment(ctx context.Context, dispatcherID uuid.UUID) (*model.JobAssignment, error) {
	row := s.q.QueryRow(ctx, `
		SELECT `+assignmentColumns+`
		FROM job_assignment
		WHERE dispatcher_id = $1 AND assignment_type = 'regular' AND end_date IS NULL
	`, dispatcherID)
	a, err := scanAssignment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query regular assignment: %w", err)
	}
	return a, nil
}

// ActiveAssignmentForPosition returns the live regular assignment on a
// desk+shift, nil when the position is unheld
func (s *queries) ActiveAssignmentForPosition(ctx context.Context, deskID uuid.UUID, shift model.Shift) (*model.JobAssignment, error) {
	row := s.q.QueryRow(ctx, `
		SELECT `+assignmentColumns+`
		FROM job_assignment
		WHERE desk_id = $1 AND shift = $2 AND assignment_type = 'regular' AND end_date IS NULL
	`, deskID, string(shift))
	a, err := scanAssignment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query position assignment: %w", err)
	}
	return a, nil
}

// Incumbent returns the dispatcher holding the regular assignment for the
// desk+shift, nil when the position is unheld
func (s *queries) Incumbent(ctx context.Context, deskID uuid.UUID, shift model.Shift) (*model.Dispatcher, error) {
	row := s.q.QueryRow(ctx, `
		SELECT d.id, d.employee_number, d.name, d.seniority_date, d.seniority_rank, d.classification, d.active
		FROM dispatcher d
		JOIN job_assignment a ON a.dispatcher_id = d.id
		WHERE a.desk_id = $1 AND a.shift = $2 AND a.assignment_type = 'regular' AND a.end_date IS NULL
		  AND d.active
	`, deskID, string(shift))
	d, err := scanDispatcher(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query incumbent: %w", err)
	}
	return d, nil
}

// InsertAssignment inserts a new job assignment row
func (s *queries) InsertAssignment(ctx context.Context, a *model.JobAssignment) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO job_assignment (id, dispatcher_id, desk_id, shift, assignment_type, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, a.ID, a.DispatcherID, a.DeskID, string(a.Shift), string(a.Type), a.StartDate, a.EndDate)
	if err != nil {
		return fmt.Errorf("failed to insert assignment: %w", err)
	}
	return nil
}

// EndAssignment closes an assignment by setting its end date; rows are
// never deleted
func (s *queries) EndAssignment(ctx context.Context, id uuid.UUID, endDate time.Time) error {
	_, err := s.q.Exec(ctx, `
		UPDATE job_assignment SET end_date = $2 WHERE id = $1 AND end_date IS NULL
	`, id, endDate)
	if err != nil {
		return fmt.Errorf("failed to end assignment: %w", err)
	}
	return nil
}

// SetReliefDay upserts one weekday's relief/ATW coverage row for a desk+shift
func (s *queries) SetReliefDay(ctx context.Context, r *model.ReliefDay) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO relief_day (id, desk_id, day_of_week, shift, dispatcher_id, schedule_type)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (desk_id, day_of_week, shift) DO UPDATE
		SET dispatcher_id = $5, schedule_type = $6
	`, r.ID, r.DeskID, int(r.DayOfWeek), string(r.Shift), r.DispatcherID, string(r.Type))
	if err != nil {
		return fmt.Errorf("failed to set relief day: %w", err)
	}
	return nil
}
