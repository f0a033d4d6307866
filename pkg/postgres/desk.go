package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tmccall/deskcover/pkg/core/model"
)

// Desk retrieves one desk by id, nil when absent
func (s *queries) Desk(ctx context.Context, id uuid.UUID) (*model.Desk, error) {
	var d model.Desk
	err := s.q.QueryRow(ctx, `
		SELECT id, division, code, active FROM desk WHERE id = $1
	`, id).Scan(&d.ID, &d.Division, &d.Code, &d.Active)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query desk: %w", err)
	}
	return &d, nil
}

// ActiveDesks lists the desks requiring coverage, grouped by division
func (s *queries) ActiveDesks(ctx context.Context) ([]model.Desk, error) {
	rows, err := s.q.Query(ctx, `
		SELECT id, division, code, active FROM desk
		WHERE active
		ORDER BY division, code
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query desks: %w", err)
	}
	defer rows.Close()

	var desks []model.Desk
	for rows.Next() {
		var d model.Desk
		if err := rows.Scan(&d.ID, &d.Division, &d.Code, &d.Active); err != nil {
			return nil, fmt.Errorf("failed to scan desk: %w", err)
		}
		desks = append(desks, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating desks: %w", err)
	}
	return desks, nil
}

// InsertDesk inserts a new desk
func (s *queries) InsertDesk(ctx context.Context, d *model.Desk) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO desk (id, division, code, active)
		VALUES ($1, $2, $3, $4)
	`, d.ID, d.Division, d.Code, d.Active)
	if err != nil {
		return fmt.Errorf("failed to insert desk: %w", err)
	}
	return nil
}
