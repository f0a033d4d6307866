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

// IsScheduled reports whether the dispatcher is committed to work the date:
// a prior fill, a relief/ATW day, or a regular workday not handed to relief.
// A reported absence for the date also removes the dispatcher from
// consideration and counts as scheduled here.
func (s *queries) IsScheduled(ctx context.Context, dispatcherID uuid.UUID, date time.Time) (bool, error) {
	dow := int(date.Weekday())
	var scheduled bool
	err := s.q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM vacancy_fill f
			JOIN vacancy v ON v.id = f.vacancy_id
			WHERE f.filled_by_dispatcher_id = $1 AND v.vacancy_date = $2
		) OR EXISTS (
			SELECT 1 FROM relief_day r
			WHERE r.dispatcher_id = $1 AND r.day_of_week = $3
		) OR EXISTS (
			SELECT 1 FROM job_assignment a
			WHERE a.dispatcher_id = $1 AND a.assignment_type = 'regular'
			  AND a.start_date <= $2 AND (a.end_date IS NULL OR a.end_date >= $2)
			  AND NOT EXISTS (
				SELECT 1 FROM relief_day r
				WHERE r.desk_id = a.desk_id AND r.shift = a.shift AND r.day_of_week = $3
			  )
		) OR EXISTS (
			SELECT 1 FROM vacancy v
			WHERE v.incumbent_dispatcher_id = $1 AND v.vacancy_date = $2
		)
	`, dispatcherID, date, dow).Scan(&scheduled)
	if err != nil {
		return false, fmt.Errorf("failed to check schedule: %w", err)
	}
	return scheduled, nil
}

const postingsQuery = `
	SELECT d.id, d.employee_number, d.name, d.seniority_date, d.seniority_rank,
		d.classification, d.active, x.desk_id, x.shift
	FROM (
		SELECT a.dispatcher_id, a.desk_id, a.shift
		FROM job_assignment a
		WHERE a.assignment_type = 'regular'
		  AND a.start_date <= $1 AND (a.end_date IS NULL OR a.end_date >= $1)
		  AND NOT EXISTS (
			SELECT 1 FROM relief_day r
			WHERE r.desk_id = a.desk_id AND r.shift = a.shift AND r.day_of_week = $3
		  )
		UNION
		SELECT r.dispatcher_id, r.desk_id, r.shift
		FROM relief_day r
		WHERE r.day_of_week = $3
		UNION
		SELECT f.filled_by_dispatcher_id, v.desk_id, v.shift
		FROM vacancy_fill f
		JOIN vacancy v ON v.id = f.vacancy_id
		WHERE v.vacancy_date = $1
	) x
	JOIN dispatcher d ON d.id = x.dispatcher_id
	WHERE d.active AND (($4 AND x.shift = $2) OR (NOT $4 AND x.shift <> $2))
	ORDER BY d.seniority_rank, d.id
`

// OnShiftPostings returns everyone working the given shift on the date with
// the desk they are posted to
func (s *queries) OnShiftPostings(ctx context.Context, date time.Time, shift model.Shift) ([]model.Posting, error) {
	return s.postings(ctx, date, shift, true)
}

// OffShiftPostings returns everyone working a different shift on the date
func (s *queries) OffShiftPostings(ctx context.Context, date time.Time, shift model.Shift) ([]model.Posting, error) {
	return s.postings(ctx, date, shift, false)
}

func (s *queries) postings(ctx context.Context, date time.Time, shift model.Shift, sameShift bool) ([]model.Posting, error) {
	rows, err := s.q.Query(ctx, postingsQuery, date, string(shift), int(date.Weekday()), sameShift)
	if err != nil {
		return nil, fmt.Errorf("failed to query postings: %w", err)
	}
	defer rows.Close()

	var postings []model.Posting
	for rows.Next() {
		var p model.Posting
		var classification, postedShift string
		if err := rows.Scan(&p.Dispatcher.ID, &p.Dispatcher.EmployeeNumber, &p.Dispatcher.Name,
			&p.Dispatcher.SeniorityDate, &p.Dispatcher.SeniorityRank, &classification,
			&p.Dispatcher.Active, &p.DeskID, &postedShift); err != nil {
			return nil, fmt.Errorf("failed to scan posting: %w", err)
		}
		p.Dispatcher.Classification = model.Classification(classification)
		p.Shift = model.Shift(postedShift)
		postings = append(postings, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating postings: %w", err)
	}
	return postings, nil
}

// LastWorkedPeriod returns the dispatcher's most recent recorded duty
// period, nil with no history
func (s *queries) LastWorkedPeriod(ctx context.Context, dispatcherID uuid.UUID) (*model.WorkPeriod, error) {
	var p model.WorkPeriod
	err := s.q.QueryRow(ctx, `
		SELECT id, dispatcher_id, start_time, end_time
		FROM work_period
		WHERE dispatcher_id = $1
		ORDER BY end_time DESC
		LIMIT 1
	`, dispatcherID).Scan(&p.ID, &p.DispatcherID, &p.Start, &p.End)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query work history: %w", err)
	}
	return &p, nil
}

// NextScheduledStart returns the start of the dispatcher's next committed
// duty period strictly after the given instant. Only the following two
// calendar days matter for the fifteen-hour rest window; nil means nothing
// is scheduled near enough to constrain the proposed shift.
func (s *queries) NextScheduledStart(ctx context.Context, dispatcherID uuid.UUID, after time.Time) (*time.Time, error) {
	var next *time.Time

	var recorded *time.Time
	err := s.q.QueryRow(ctx, `
		SELECT MIN(start_time) FROM work_period
		WHERE dispatcher_id = $1 AND start_time > $2
	`, dispatcherID, after).Scan(&recorded)
	if err != nil {
		return nil, fmt.Errorf("failed to query future work periods: %w", err)
	}
	next = recorded

	// also derive the next regular/relief workday start
	for offset := 0; offset <= 2; offset++ {
		day := time.Date(after.Year(), after.Month(), after.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
		start, err := s.scheduledShiftStart(ctx, dispatcherID, day)
		if err != nil {
			return nil, err
		}
		if start == nil || !start.After(after) {
			continue
		}
		if next == nil || start.Before(*next) {
			next = start
		}
		break
	}

	return next, nil
}

// scheduledShiftStart returns when the dispatcher's assigned shift begins on
// the given day, nil when the day is not one of their workdays
func (s *queries) scheduledShiftStart(ctx context.Context, dispatcherID uuid.UUID, day time.Time) (*time.Time, error) {
	dow := int(day.Weekday())
	var shift string
	err := s.q.QueryRow(ctx, `
		SELECT shift FROM (
			SELECT a.shift
			FROM job_assignment a
			WHERE a.dispatcher_id = $1 AND a.assignment_type = 'regular'
			  AND a.start_date <= $2 AND (a.end_date IS NULL OR a.end_date >= $2)
			  AND NOT EXISTS (
				SELECT 1 FROM relief_day r
				WHERE r.desk_id = a.desk_id AND r.shift = a.shift AND r.day_of_week = $3
			  )
			UNION
			SELECT r.shift FROM relief_day r
			WHERE r.dispatcher_id = $1 AND r.day_of_week = $3
		) x
		LIMIT 1
	`, dispatcherID, day, dow).Scan(&shift)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query scheduled shift: %w", err)
	}
	start, _ := model.Shift(shift).Window(day)
	return &start, nil
}

// InsertWorkPeriod records a committed duty period
func (s *queries) InsertWorkPeriod(ctx context.Context, p *model.WorkPeriod) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO work_period (id, dispatcher_id, start_time, end_time)
		VALUES ($1, $2, $3, $4)
	`, p.ID, p.DispatcherID, p.Start, p.End)
	if err != nil {
		return fmt.Errorf("failed to insert work period: %w", err)
	}
	return nil
}
