package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tmccall/deskcover/pkg/core/model"
)

// mockReportAbsenceStore implements ReportAbsenceStore for testing
type mockReportAbsenceStore struct {
	dispatcher *model.Dispatcher
	assignment *model.JobAssignment
	inserted   []model.Vacancy
}

func (m *mockReportAbsenceStore) Dispatcher(_ context.Context, id uuid.UUID) (*model.Dispatcher, error) {
	if m.dispatcher == nil || m.dispatcher.ID != id {
		return nil, nil
	}
	return m.dispatcher, nil
}

func (m *mockReportAbsenceStore) ActiveRegularAssignment(_ context.Context, _ uuid.UUID) (*model.JobAssignment, error) {
	return m.assignment, nil
}

func (m *mockReportAbsenceStore) InsertVacancies(_ context.Context, vacancies []model.Vacancy) error {
	m.inserted = append(m.inserted, vacancies...)
	return nil
}

func absenceFixture() (*mockReportAbsenceStore, AbsenceReport) {
	dispatcher := &model.Dispatcher{
		ID: uuid.New(), Name: "Morgan", EmployeeNumber: "1042",
		Classification: model.ClassJobHolder, Active: true,
	}
	assignment := &model.JobAssignment{
		ID:           uuid.New(),
		DispatcherID: dispatcher.ID,
		DeskID:       uuid.New(),
		Shift:        model.ShiftThird,
		Type:         model.AssignmentRegular,
	}
	report := AbsenceReport{
		DispatcherID: dispatcher.ID,
		AbsenceType:  model.AbsenceSingleDay,
		VacancyType:  model.VacancySick,
		StartDate:    time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
	}
	return &mockReportAbsenceStore{dispatcher: dispatcher, assignment: assignment}, report
}

func TestReportAbsenceSingleDay(t *testing.T) {
	store, report := absenceFixture()

	vacancies, err := ReportAbsence(context.Background(), store, zap.NewNop(), report, 0)

	require.NoError(t, err)
	require.Len(t, vacancies, 1)
	v := vacancies[0]
	assert.Equal(t, store.assignment.DeskID, v.DeskID)
	assert.Equal(t, model.ShiftThird, v.Shift)
	assert.Equal(t, report.StartDate, v.Date)
	assert.Equal(t, report.DispatcherID, v.IncumbentID)
	assert.Equal(t, model.VacancyPending, v.Status)
	assert.False(t, v.IsPlanned)
	assert.Equal(t, vacancies, store.inserted)
}

func TestReportAbsenceDateRange(t *testing.T) {
	store, report := absenceFixture()
	report.AbsenceType = model.AbsenceDateRange
	report.VacancyType = model.VacancyVacation
	end := report.StartDate.AddDate(0, 0, 2)
	report.EndDate = &end

	vacancies, err := ReportAbsence(context.Background(), store, zap.NewNop(), report, 0)

	require.NoError(t, err)
	require.Len(t, vacancies, 3)
	for i, v := range vacancies {
		assert.Equal(t, report.StartDate.AddDate(0, 0, i), v.Date)
		assert.True(t, v.IsPlanned)
	}
}

func TestReportAbsenceOpenEndedCapped(t *testing.T) {
	store, report := absenceFixture()
	report.AbsenceType = model.AbsenceOpenEnded

	vacancies, err := ReportAbsence(context.Background(), store, zap.NewNop(), report, 5)

	require.NoError(t, err)
	require.Len(t, vacancies, 5)
	assert.Equal(t, report.StartDate.AddDate(0, 0, 4), vacancies[4].Date)
}

func TestReportAbsenceOpenEndedDefaultHorizon(t *testing.T) {
	store, report := absenceFixture()
	report.AbsenceType = model.AbsenceOpenEnded

	vacancies, err := ReportAbsence(context.Background(), store, zap.NewNop(), report, 0)

	require.NoError(t, err)
	assert.Len(t, vacancies, DefaultOpenEndedDays)
}

func TestReportAbsenceRangeRequiresEndDate(t *testing.T) {
	store, report := absenceFixture()
	report.AbsenceType = model.AbsenceDateRange

	_, err := ReportAbsence(context.Background(), store, zap.NewNop(), report, 0)

	assert.ErrorContains(t, err, "requires an end date")
	assert.Empty(t, store.inserted)
}

func TestReportAbsenceRejectsInvertedRange(t *testing.T) {
	store, report := absenceFixture()
	report.AbsenceType = model.AbsenceDateRange
	end := report.StartDate.AddDate(0, 0, -1)
	report.EndDate = &end

	_, err := ReportAbsence(context.Background(), store, zap.NewNop(), report, 0)

	assert.ErrorContains(t, err, "precedes start date")
}

func TestReportAbsenceUnknownDispatcher(t *testing.T) {
	store, report := absenceFixture()
	report.DispatcherID = uuid.New()

	_, err := ReportAbsence(context.Background(), store, zap.NewNop(), report, 0)

	assert.ErrorIs(t, err, ErrDispatcherNotFound)
}

func TestReportAbsenceWithoutAssignment(t *testing.T) {
	store, report := absenceFixture()
	store.assignment = nil

	_, err := ReportAbsence(context.Background(), store, zap.NewNop(), report, 0)

	assert.ErrorIs(t, err, ErrNoActiveAssignment)
}
