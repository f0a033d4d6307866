package model

import (
	"time"

	"github.com/google/uuid"
)

// Dispatcher represents a train dispatcher on the seniority roster
type Dispatcher struct {
	ID             uuid.UUID
	EmployeeNumber string
	Name           string
	SeniorityDate  time.Time
	SeniorityRank  int // dense, 1 = most senior
	Classification Classification
	Active         bool
}

// Desk is a workstation requiring continuous shift coverage
type Desk struct {
	ID       uuid.UUID
	Division string
	Code     string
	Active   bool
}

// JobAssignment binds a dispatcher to a desk+shift. Assignments are ended by
// setting EndDate, never deleted.
type JobAssignment struct {
	ID           uuid.UUID
	DispatcherID uuid.UUID
	DeskID       uuid.UUID
	Shift        Shift
	Type         AssignmentType
	StartDate    time.Time
	EndDate      *time.Time // nil = currently active
}

// ReliefDay maps one weekday of a desk+shift to the dispatcher covering the
// incumbent's rest day. Read-only input to the fill engine's schedule checks.
type ReliefDay struct {
	ID           uuid.UUID
	DeskID       uuid.UUID
	DayOfWeek    time.Weekday
	Shift        Shift
	DispatcherID uuid.UUID
	Type         AssignmentType // relief or atw
}

// DeskQualification records a dispatcher's qualification history on a desk
type DeskQualification struct {
	ID                uuid.UUID
	DispatcherID      uuid.UUID
	DeskID            uuid.UUID
	Qualified         bool
	QualifyingStarted *time.Time
	QualifiedDate     *time.Time
}

// Vacancy is one calendar day of uncovered desk+shift coverage. A multi-day
// absence materializes as independent rows sharing incumbent and type.
type Vacancy struct {
	ID           uuid.UUID
	DeskID       uuid.UUID
	Shift        Shift
	Date         time.Time // calendar day, midnight UTC
	Type         VacancyType
	AbsenceType  AbsenceType
	IncumbentID  uuid.UUID // the absent dispatcher
	IsPlanned    bool
	Status       VacancyStatus
	Notes        string
	CreatedAt    time.Time
}

// DecisionEntry is one timestamped line of the fill engine's audit trail
type DecisionEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
}

// VacancyFill is the immutable record of a fill decision. The only permitted
// mutation after insert is attaching the cascade vacancy link.
type VacancyFill struct {
	ID               uuid.UUID
	VacancyID        uuid.UUID
	FilledByID       uuid.UUID
	Method           FillMethod
	Pay              PayType
	CreatedCascade   bool
	CascadeVacancyID *uuid.UUID
	DecisionLog      []DecisionEntry
	CreatedAt        time.Time
}

// ExtraBoardAssignment places a dispatcher in one of the rotating rest-day
// classes. At most one active row per dispatcher.
type ExtraBoardAssignment struct {
	ID             uuid.UUID
	DispatcherID   uuid.UUID
	Class          BoardClass
	CycleStartDate time.Time
	StartDate      time.Time
	EndDate        *time.Time
}

// WorkPeriod is one recorded duty period, input to the hours-of-service check
type WorkPeriod struct {
	ID           uuid.UUID
	DispatcherID uuid.UUID
	Start        time.Time
	End          time.Time
}

// Posting is a dispatcher working a concrete desk+shift on a given date,
// used by the engine's diversion steps to find divertable workers.
type Posting struct {
	Dispatcher Dispatcher
	DeskID     uuid.UUID
	Shift      Shift
}
