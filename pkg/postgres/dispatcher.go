package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tmccall/deskcover/pkg/core/model"
)

const dispatcherColumns = `id, employee_number, name, seniority_date, seniority_rank, classification, active`

func scanDispatcher(row pgx.Row) (*model.Dispatcher, error) {
	var d model.Dispatcher
	var classification string
	if err := row.Scan(&d.ID, &d.EmployeeNumber, &d.Name, &d.SeniorityDate,
		&d.SeniorityRank, &classification, &d.Active); err != nil {
		return nil, err
	}
	d.Classification = model.Classification(classification)
	return &d, nil
}

// Dispatcher retrieves one dispatcher by id, nil when absent
func (s *queries) Dispatcher(ctx context.Context, id uuid.UUID) (*model.Dispatcher, error) {
	row := s.q.QueryRow(ctx, `
		SELECT `+dispatcherColumns+`
		FROM dispatcher WHERE id = $1
	`, id)
	d, err := scanDispatcher(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query dispatcher: %w", err)
	}
	return d, nil
}

// ActiveDispatchers retrieves the active roster ordered by seniority rank
// with dispatcher id as the stable secondary key
func (s *queries) ActiveDispatchers(ctx context.Context) ([]model.Dispatcher, error) {
	rows, err := s.q.Query(ctx, `
		SELECT `+dispatcherColumns+`
		FROM dispatcher
		WHERE active
		ORDER BY seniority_rank, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query dispatchers: %w", err)
	}
	defer rows.Close()
	return collectDispatchers(rows)
}

func collectDispatchers(rows pgx.Rows) ([]model.Dispatcher, error) {
	var dispatchers []model.Dispatcher
	for rows.Next() {
		d, err := scanDispatcher(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan dispatcher: %w", err)
		}
		dispatchers = append(dispatchers, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating dispatchers: %w", err)
	}
	return dispatchers, nil
}

// InsertDispatcher inserts a new roster row
func (s *queries) InsertDispatcher(ctx context.Context, d *model.Dispatcher) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO dispatcher (id, employee_number, name, seniority_date, seniority_rank, classification, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, d.ID, d.EmployeeNumber, d.Name, d.SeniorityDate, d.SeniorityRank, string(d.Classification), d.Active)
	if err != nil {
		return fmt.Errorf("failed to insert dispatcher: %w", err)
	}
	return nil
}

// UpdateDispatcher updates the mutable roster fields
func (s *queries) UpdateDispatcher(ctx context.Context, d *model.Dispatcher) error {
	_, err := s.q.Exec(ctx, `
		UPDATE dispatcher
		SET name = $2, seniority_date = $3, classification = $4, active = $5
		WHERE id = $1
	`, d.ID, d.Name, d.SeniorityDate, string(d.Classification), d.Active)
	if err != nil {
		return fmt.Errorf("failed to update dispatcher: %w", err)
	}
	return nil
}

// SetSeniorityRanks writes a freshly recomputed dense ranking
func (s *queries) SetSeniorityRanks(ctx context.Context, ranks map[uuid.UUID]int) error {
	for id, rank := range ranks {
		_, err := s.q.Exec(ctx, `
			UPDATE dispatcher SET seniority_rank = $2 WHERE id = $1
		`, id, rank)
		if err != nil {
			return fmt.Errorf("failed to set seniority rank for %s: %w", id, err)
		}
	}
	return nil
}

// QualifiedForDesk returns active dispatchers qualified for the desk, most
// senior first. excludeQualifying drops the qualifying classification.
func (s *queries) QualifiedForDesk(ctx context.Context, deskID uuid.UUID, excludeQualifying bool) ([]model.Dispatcher, error) {
	rows, err := s.q.Query(ctx, `
		SELECT d.id, d.employee_number, d.name, d.seniority_date, d.seniority_rank, d.classification, d.active
		FROM dispatcher d
		JOIN desk_qualification q ON q.dispatcher_id = d.id
		WHERE q.desk_id = $1
		  AND q.qualified
		  AND d.active
		  AND (NOT $2 OR d.classification <> 'qualifying')
		ORDER BY d.seniority_rank, d.id
	`, deskID, excludeQualifying)
	if err != nil {
		return nil, fmt.Errorf("failed to query qualified dispatchers: %w", err)
	}
	defer rows.Close()
	return collectDispatchers(rows)
}

// IsQualified reports whether the dispatcher holds a qualification on the desk
func (s *queries) IsQualified(ctx context.Context, dispatcherID, deskID uuid.UUID) (bool, error) {
	var qualified bool
	err := s.q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM desk_qualification
			WHERE dispatcher_id = $1 AND desk_id = $2 AND qualified
		)
	`, dispatcherID, deskID).Scan(&qualified)
	if err != nil {
		return false, fmt.Errorf("failed to check qualification: %w", err)
	}
	return qualified, nil
}

// SetQualification upserts a dispatcher's qualification state on a desk
func (s *queries) SetQualification(ctx context.Context, q *model.DeskQualification) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO desk_qualification (id, dispatcher_id, desk_id, qualified, qualifying_started, qualified_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (dispatcher_id, desk_id) DO UPDATE
		SET qualified = $4, qualifying_started = $5, qualified_date = $6
	`, q.ID, q.DispatcherID, q.DeskID, q.Qualified, q.QualifyingStarted, q.QualifiedDate)
	if err != nil {
		return fmt.Errorf("failed to set qualification: %w", err)
	}
	return nil
}
