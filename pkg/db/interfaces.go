// Package db defines the storage interfaces consumed by the core services
// and the fill engine. pkg/postgres provides the production implementation;
// tests substitute in-memory fakes.
package db

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tmccall/deskcover/pkg/core/model"
)

// EngineStore is the read surface the order-of-call engine walks during a
// fill decision. Implementations must return dispatcher lists ordered by
// seniority rank ascending with dispatcher id as the stable secondary key.
type EngineStore interface {
	// QualifiedForDesk returns active dispatchers qualified for the desk,
	// most senior first. excludeQualifying drops the qualifying class.
	QualifiedForDesk(ctx context.Context, deskID uuid.UUID, excludeQualifying bool) ([]model.Dispatcher, error)

	// IsQualified reports whether the dispatcher holds a qualification on the desk
	IsQualified(ctx context.Context, dispatcherID, deskID uuid.UUID) (bool, error)

	// Incumbent returns the holder of the active regular assignment for the
	// desk+shift, or nil when the position is unheld.
	Incumbent(ctx context.Context, deskID uuid.UUID, shift model.Shift) (*model.Dispatcher, error)

	// IsScheduled reports whether the dispatcher is already committed to work
	// the calendar date (regular workday, relief/ATW day, or a prior fill).
	IsScheduled(ctx context.Context, dispatcherID uuid.UUID, date time.Time) (bool, error)

	// HasReportedAbsence reports whether a vacancy is open against the
	// dispatcher for the date. An absent dispatcher still shows up in the
	// postings for their assigned desk and must not be diverted elsewhere.
	HasReportedAbsence(ctx context.Context, dispatcherID uuid.UUID, date time.Time) (bool, error)

	// OnShiftPostings returns everyone working the given shift on the date,
	// with the desk they are posted to.
	OnShiftPostings(ctx context.Context, date time.Time, shift model.Shift) ([]model.Posting, error)

	// OffShiftPostings returns everyone working a different shift on the date
	OffShiftPostings(ctx context.Context, date time.Time, shift model.Shift) ([]model.Posting, error)

	// LastWorkedPeriod returns the dispatcher's most recent recorded duty
	// period, or nil with no history.
	LastWorkedPeriod(ctx context.Context, dispatcherID uuid.UUID) (*model.WorkPeriod, error)

	// NextScheduledStart returns the start of the dispatcher's next committed
	// shift strictly after the given instant, or nil when none is near enough
	// to matter for rest checks.
	NextScheduledStart(ctx context.Context, dispatcherID uuid.UUID, after time.Time) (*time.Time, error)

	// ExtraBoardAssignment returns the dispatcher's active board assignment,
	// or nil when they are not on the extra board.
	ExtraBoardAssignment(ctx context.Context, dispatcherID uuid.UUID) (*model.ExtraBoardAssignment, error)

	// ActiveExtraBoardCount is the current extra-board pool headcount
	ActiveExtraBoardCount(ctx context.Context) (int, error)
}

// FillTx is the transactional store a fill decision is recorded through. All
// writes within one FillVacancy call share a single transaction.
type FillTx interface {
	EngineStore

	VacancyByID(ctx context.Context, id uuid.UUID) (*model.Vacancy, error)
	MarkVacancyFilled(ctx context.Context, id uuid.UUID) error
	InsertVacancy(ctx context.Context, v *model.Vacancy) error
	InsertVacancyFill(ctx context.Context, f *model.VacancyFill) error
	SetCascadeVacancy(ctx context.Context, fillID, vacancyID uuid.UUID) error

	// InsertWorkPeriod records the duty period the fill commits the selected
	// dispatcher to, keeping the hours-of-service history current.
	InsertWorkPeriod(ctx context.Context, p *model.WorkPeriod) error
}
