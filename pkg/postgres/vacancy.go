package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tmccall/deskcover/pkg/core/model"
)

const vacancyColumns = `id, desk_id, shift, vacancy_date, vacancy_type, absence_type,
	incumbent_dispatcher_id, is_planned, status, notes, created_at`

func scanVacancy(row pgx.Row) (*model.Vacancy, error) {
	var v model.Vacancy
	var shift, vtype, atype, status string
	if err := row.Scan(&v.ID, &v.DeskID, &shift, &v.Date, &vtype, &atype,
		&v.IncumbentID, &v.IsPlanned, &status, &v.Notes, &v.CreatedAt); err != nil {
		return nil, err
	}
	v.Shift = model.Shift(shift)
	v.Type = model.VacancyType(vtype)
	v.AbsenceType = model.AbsenceType(atype)
	v.Status = model.VacancyStatus(status)
	return &v, nil
}

// VacancyByID retrieves one vacancy, nil when absent
func (s *queries) VacancyByID(ctx context.Context, id uuid.UUID) (*model.Vacancy, error) {
	row := s.q.QueryRow(ctx, `
		SELECT `+vacancyColumns+`
		FROM vacancy WHERE id = $1
	`, id)
	v, err := scanVacancy(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query vacancy: %w", err)
	}
	return v, nil
}

// HasReportedAbsence reports whether a vacancy is open against the
// dispatcher for the date
func (s *queries) HasReportedAbsence(ctx context.Context, dispatcherID uuid.UUID, date time.Time) (bool, error) {
	var absent bool
	err := s.q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM vacancy v
			WHERE v.incumbent_dispatcher_id = $1 AND v.vacancy_date = $2
		)
	`, dispatcherID, date).Scan(&absent)
	if err != nil {
		return false, fmt.Errorf("failed to check reported absence: %w", err)
	}
	return absent, nil
}

// PendingVacancies lists unfilled vacancies within the date range inclusive
func (s *queries) PendingVacancies(ctx context.Context, from, to time.Time) ([]model.Vacancy, error) {
	rows, err := s.q.Query(ctx, `
		SELECT `+vacancyColumns+`
		FROM vacancy
		WHERE status = 'pending' AND vacancy_date BETWEEN $1 AND $2
		ORDER BY vacancy_date, desk_id, shift
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending vacancies: %w", err)
	}
	defer rows.Close()

	var vacancies []model.Vacancy
	for rows.Next() {
		v, err := scanVacancy(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vacancy: %w", err)
		}
		vacancies = append(vacancies, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating vacancies: %w", err)
	}
	return vacancies, nil
}

// InsertVacancy inserts a single vacancy row
func (s *queries) InsertVacancy(ctx context.Context, v *model.Vacancy) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO vacancy (id, desk_id, shift, vacancy_date, vacancy_type, absence_type,
			incumbent_dispatcher_id, is_planned, status, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, v.ID, v.DeskID, string(v.Shift), v.Date, string(v.Type), string(v.AbsenceType),
		v.IncumbentID, v.IsPlanned, string(v.Status), v.Notes, v.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert vacancy: %w", err)
	}
	return nil
}

// InsertVacancies inserts the expansion of one reported absence
func (s *queries) InsertVacancies(ctx context.Context, vacancies []model.Vacancy) error {
	for i := range vacancies {
		if err := s.InsertVacancy(ctx, &vacancies[i]); err != nil {
			return err
		}
	}
	return nil
}

// MarkVacancyFilled flips a pending vacancy to filled
func (s *queries) MarkVacancyFilled(ctx context.Context, id uuid.UUID) error {
	tag, err := s.q.Exec(ctx, `
		UPDATE vacancy SET status = 'filled' WHERE id = $1 AND status = 'pending'
	`, id)
	if err != nil {
		return fmt.Errorf("failed to mark vacancy filled: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("vacancy %s was not pending", id)
	}
	return nil
}

// InsertVacancyFill persists an immutable fill record with its decision log
func (s *queries) InsertVacancyFill(ctx context.Context, f *model.VacancyFill) error {
	logJSON, err := json.Marshal(f.DecisionLog)
	if err != nil {
		return fmt.Errorf("failed to encode decision log: %w", err)
	}
	_, err = s.q.Exec(ctx, `
		INSERT INTO vacancy_fill (id, vacancy_id, filled_by_dispatcher_id, fill_method,
			pay_type, created_cascade, cascade_vacancy_id, decision_log, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, f.ID, f.VacancyID, f.FilledByID, string(f.Method), string(f.Pay),
		f.CreatedCascade, f.CascadeVacancyID, logJSON, f.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert vacancy fill: %w", err)
	}
	return nil
}

// SetCascadeVacancy attaches the cascade link, the one permitted mutation of
// a fill record
func (s *queries) SetCascadeVacancy(ctx context.Context, fillID, vacancyID uuid.UUID) error {
	_, err := s.q.Exec(ctx, `
		UPDATE vacancy_fill SET created_cascade = TRUE, cascade_vacancy_id = $2 WHERE id = $1
	`, fillID, vacancyID)
	if err != nil {
		return fmt.Errorf("failed to set cascade vacancy: %w", err)
	}
	return nil
}

// FillForVacancy retrieves the fill record for a vacancy, nil when unfilled
func (s *queries) FillForVacancy(ctx context.Context, vacancyID uuid.UUID) (*model.VacancyFill, error) {
	var f model.VacancyFill
	var method, pay string
	var logJSON []byte
	err := s.q.QueryRow(ctx, `
		SELECT id, vacancy_id, filled_by_dispatcher_id, fill_method, pay_type,
			created_cascade, cascade_vacancy_id, decision_log, created_at
		FROM vacancy_fill WHERE vacancy_id = $1
	`, vacancyID).Scan(&f.ID, &f.VacancyID, &f.FilledByID, &method, &pay,
		&f.CreatedCascade, &f.CascadeVacancyID, &logJSON, &f.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query vacancy fill: %w", err)
	}
	f.Method = model.FillMethod(method)
	f.Pay = model.PayType(pay)
	if err := json.Unmarshal(logJSON, &f.DecisionLog); err != nil {
		return nil, fmt.Errorf("failed to decode decision log: %w", err)
	}
	return &f, nil
}
