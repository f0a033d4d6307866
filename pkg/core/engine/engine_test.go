package engine

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tmccall/deskcover/pkg/core/model"
)

// mockEngineStore implements db.EngineStore over in-memory fixtures
type mockEngineStore struct {
	qualifiedByDesk map[uuid.UUID][]model.Dispatcher // senior first, qualifying included
	incumbents      map[string]*model.Dispatcher     // deskID|shift
	scheduled       map[uuid.UUID]bool
	absent          map[uuid.UUID]bool
	onShift         []model.Posting
	offShift        []model.Posting
	lastWorked      map[uuid.UUID]*model.WorkPeriod
	nextStarts      map[uuid.UUID]*time.Time
	boards          map[uuid.UUID]*model.ExtraBoardAssignment
	boardCount      int
}

func newMockEngineStore() *mockEngineStore {
	return &mockEngineStore{
		qualifiedByDesk: map[uuid.UUID][]model.Dispatcher{},
		incumbents:      map[string]*model.Dispatcher{},
		scheduled:       map[uuid.UUID]bool{},
		absent:          map[uuid.UUID]bool{},
		lastWorked:      map[uuid.UUID]*model.WorkPeriod{},
		nextStarts:      map[uuid.UUID]*time.Time{},
		boards:          map[uuid.UUID]*model.ExtraBoardAssignment{},
	}
}

func positionKey(deskID uuid.UUID, shift model.Shift) string {
	return deskID.String() + "|" + string(shift)
}

func (m *mockEngineStore) QualifiedForDesk(_ context.Context, deskID uuid.UUID, excludeQualifying bool) ([]model.Dispatcher, error) {
	var out []model.Dispatcher
	for _, d := range m.qualifiedByDesk[deskID] {
		if excludeQualifying && d.Classification == model.ClassQualifying {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func (m *mockEngineStore) IsQualified(_ context.Context, dispatcherID, deskID uuid.UUID) (bool, error) {
	for _, d := range m.qualifiedByDesk[deskID] {
		if d.ID == dispatcherID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockEngineStore) Incumbent(_ context.Context, deskID uuid.UUID, shift model.Shift) (*model.Dispatcher, error) {
	return m.incumbents[positionKey(deskID, shift)], nil
}

func (m *mockEngineStore) IsScheduled(_ context.Context, dispatcherID uuid.UUID, _ time.Time) (bool, error) {
	return m.scheduled[dispatcherID], nil
}

func (m *mockEngineStore) HasReportedAbsence(_ context.Context, dispatcherID uuid.UUID, _ time.Time) (bool, error) {
	return m.absent[dispatcherID], nil
}

func (m *mockEngineStore) OnShiftPostings(_ context.Context, _ time.Time, _ model.Shift) ([]model.Posting, error) {
	return append([]model.Posting(nil), m.onShift...), nil
}

func (m *mockEngineStore) OffShiftPostings(_ context.Context, _ time.Time, _ model.Shift) ([]model.Posting, error) {
	return append([]model.Posting(nil), m.offShift...), nil
}

func (m *mockEngineStore) LastWorkedPeriod(_ context.Context, dispatcherID uuid.UUID) (*model.WorkPeriod, error) {
	return m.lastWorked[dispatcherID], nil
}

func (m *mockEngineStore) NextScheduledStart(_ context.Context, dispatcherID uuid.UUID, _ time.Time) (*time.Time, error) {
	return m.nextStarts[dispatcherID], nil
}

func (m *mockEngineStore) ExtraBoardAssignment(_ context.Context, dispatcherID uuid.UUID) (*model.ExtraBoardAssignment, error) {
	return m.boards[dispatcherID], nil
}

func (m *mockEngineStore) ActiveExtraBoardCount(_ context.Context) (int, error) {
	return m.boardCount, nil
}

func testDispatcher(rank int, name string, class model.Classification) model.Dispatcher {
	return model.Dispatcher{
		ID:             uuid.New(),
		EmployeeNumber: name,
		Name:           name,
		SeniorityRank:  rank,
		Classification: class,
		Active:         true,
	}
}

// Tuesday
var testDate = time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

func testVacancy(deskID, incumbentID uuid.UUID) *model.Vacancy {
	return &model.Vacancy{
		ID:          uuid.New(),
		DeskID:      deskID,
		Shift:       model.ShiftFirst,
		Date:        testDate,
		Type:        model.VacancySick,
		AbsenceType: model.AbsenceSingleDay,
		IncumbentID: incumbentID,
		Status:      model.VacancyPending,
	}
}

func logContains(entries []model.DecisionEntry, fragment string) bool {
	for _, e := range entries {
		if strings.Contains(e.Message, fragment) {
			return true
		}
	}
	return false
}

func TestDecideExtraBoardStraightTime(t *testing.T) {
	store := newMockEngineStore()
	deskID := uuid.New()
	absent := testDispatcher(4, "Absent", model.ClassJobHolder)
	pool := testDispatcher(8, "Pool", model.ClassExtraBoard)
	store.qualifiedByDesk[deskID] = []model.Dispatcher{pool}

	eng := New(store, 5, zap.NewNop())
	outcome, err := eng.Decide(context.Background(), testVacancy(deskID, absent.ID))

	require.NoError(t, err)
	require.NotNil(t, outcome.Decision)
	assert.Equal(t, pool.ID, outcome.Decision.Dispatcher.ID)
	assert.Equal(t, model.FillExtraBoard, outcome.Decision.Method)
	assert.Equal(t, model.PayStraight, outcome.Decision.Pay)
	assert.Nil(t, outcome.Decision.Cascade)
	assert.True(t, logContains(outcome.Log, "order of call started"))
}

func TestDecidePoolPrefersSeniority(t *testing.T) {
	store := newMockEngineStore()
	deskID := uuid.New()
	senior := testDispatcher(3, "Senior", model.ClassExtraBoard)
	junior := testDispatcher(7, "Junior", model.ClassGAD)
	store.qualifiedByDesk[deskID] = []model.Dispatcher{senior, junior}

	eng := New(store, 5, zap.NewNop())
	outcome, err := eng.Decide(context.Background(), testVacancy(deskID, uuid.New()))

	require.NoError(t, err)
	require.NotNil(t, outcome.Decision)
	assert.Equal(t, senior.ID, outcome.Decision.Dispatcher.ID)
}

func TestDecideIncumbentOvertimeWhenPoolEmpty(t *testing.T) {
	store := newMockEngineStore()
	deskID := uuid.New()
	absent := testDispatcher(4, "Absent", model.ClassJobHolder)
	incumbent := testDispatcher(2, "Incumbent", model.ClassJobHolder)
	store.incumbents[positionKey(deskID, model.ShiftFirst)] = &incumbent

	eng := New(store, 5, zap.NewNop())
	outcome, err := eng.Decide(context.Background(), testVacancy(deskID, absent.ID))

	require.NoError(t, err)
	require.NotNil(t, outcome.Decision)
	assert.Equal(t, incumbent.ID, outcome.Decision.Dispatcher.ID)
	assert.Equal(t, model.FillIncumbentOvertime, outcome.Decision.Method)
	assert.Equal(t, model.PayOvertime, outcome.Decision.Pay)
}

func TestDecideSkipsAbsentIncumbent(t *testing.T) {
	store := newMockEngineStore()
	deskID := uuid.New()
	absent := testDispatcher(4, "Absent", model.ClassJobHolder)
	store.incumbents[positionKey(deskID, model.ShiftFirst)] = &absent
	restDay := testDispatcher(1, "RestDay", model.ClassJobHolder)
	store.qualifiedByDesk[deskID] = []model.Dispatcher{restDay, absent}

	eng := New(store, 5, zap.NewNop())
	outcome, err := eng.Decide(context.Background(), testVacancy(deskID, absent.ID))

	require.NoError(t, err)
	require.NotNil(t, outcome.Decision)
	assert.Equal(t, restDay.ID, outcome.Decision.Dispatcher.ID)
	assert.Equal(t, model.FillSeniorRestDay, outcome.Decision.Method)
	assert.Equal(t, model.PayOvertime, outcome.Decision.Pay)
	assert.True(t, logContains(outcome.Log, "is the absent dispatcher"))
}

// diversionFixture sets up a vacancy on desk A whose only viable coverage is
// the junior dispatcher working desk B on the same shift.
func diversionFixture(store *mockEngineStore) (vac *model.Vacancy, junior model.Dispatcher, donorDesk uuid.UUID) {
	deskA := uuid.New()
	deskB := uuid.New()
	absent := testDispatcher(4, "Absent", model.ClassJobHolder)
	senior := testDispatcher(1, "Senior", model.ClassJobHolder)
	junior = testDispatcher(9, "Junior", model.ClassJobHolder)
	store.scheduled[senior.ID] = true
	store.scheduled[junior.ID] = true
	store.qualifiedByDesk[deskA] = []model.Dispatcher{senior, junior}
	store.incumbents[positionKey(deskA, model.ShiftFirst)] = &absent
	store.onShift = []model.Posting{
		{Dispatcher: senior, DeskID: deskA, Shift: model.ShiftFirst},
		{Dispatcher: junior, DeskID: deskB, Shift: model.ShiftFirst},
	}
	return testVacancy(deskA, absent.ID), junior, deskB
}

func TestDecideJuniorDiversionWithBackfill(t *testing.T) {
	store := newMockEngineStore()
	vac, junior, donorDesk := diversionFixture(store)
	backfill := testDispatcher(12, "Backfill", model.ClassExtraBoard)
	store.qualifiedByDesk[donorDesk] = []model.Dispatcher{backfill}
	store.boardCount = 3

	eng := New(store, 5, zap.NewNop())
	outcome, err := eng.Decide(context.Background(), vac)

	require.NoError(t, err)
	require.NotNil(t, outcome.Decision)
	assert.Equal(t, junior.ID, outcome.Decision.Dispatcher.ID)
	assert.Equal(t, model.FillJuniorDiversion, outcome.Decision.Method)
	assert.Equal(t, model.PayOvertime, outcome.Decision.Pay)
	require.NotNil(t, outcome.Decision.Cascade)
	assert.Equal(t, donorDesk, outcome.Decision.Cascade.DeskID)
	assert.Equal(t, model.ShiftFirst, outcome.Decision.Cascade.Shift)
	assert.True(t, logContains(outcome.Log, "below baseline"))
}

func TestDecideJuniorDiversionStraightAtBaseline(t *testing.T) {
	store := newMockEngineStore()
	vac, junior, donorDesk := diversionFixture(store)
	backfill := testDispatcher(12, "Backfill", model.ClassExtraBoard)
	store.qualifiedByDesk[donorDesk] = []model.Dispatcher{backfill}
	store.boardCount = 5

	eng := New(store, 5, zap.NewNop())
	outcome, err := eng.Decide(context.Background(), vac)

	require.NoError(t, err)
	require.NotNil(t, outcome.Decision)
	assert.Equal(t, junior.ID, outcome.Decision.Dispatcher.ID)
	assert.Equal(t, model.PayStraight, outcome.Decision.Pay)
}

func TestDecideCascadingDiversionWithoutBackfill(t *testing.T) {
	store := newMockEngineStore()
	vac, junior, donorDesk := diversionFixture(store)

	eng := New(store, 5, zap.NewNop())
	outcome, err := eng.Decide(context.Background(), vac)

	require.NoError(t, err)
	require.NotNil(t, outcome.Decision)
	assert.Equal(t, junior.ID, outcome.Decision.Dispatcher.ID)
	assert.Equal(t, model.FillCascadingDiversion, outcome.Decision.Method)
	assert.Equal(t, model.PayStraight, outcome.Decision.Pay)
	require.NotNil(t, outcome.Decision.Cascade)
	assert.Equal(t, donorDesk, outcome.Decision.Cascade.DeskID)
	assert.True(t, logContains(outcome.Log, "deferring diversion"))
}

func TestDecideDivertsMostJunior(t *testing.T) {
	store := newMockEngineStore()
	vac, _, _ := diversionFixture(store)
	deskC := uuid.New()
	mid := testDispatcher(6, "Mid", model.ClassJobHolder)
	store.scheduled[mid.ID] = true
	store.qualifiedByDesk[vac.DeskID] = append(store.qualifiedByDesk[vac.DeskID], mid)
	store.onShift = append(store.onShift, model.Posting{Dispatcher: mid, DeskID: deskC, Shift: model.ShiftFirst})

	eng := New(store, 5, zap.NewNop())
	outcome, err := eng.Decide(context.Background(), vac)

	require.NoError(t, err)
	require.NotNil(t, outcome.Decision)
	assert.Equal(t, 9, outcome.Decision.Dispatcher.SeniorityRank)
}

func TestDecideNeverDivertsAbsentDispatcher(t *testing.T) {
	store := newMockEngineStore()
	vac, junior, _ := diversionFixture(store)
	store.absent[junior.ID] = true
	deskC := uuid.New()
	mid := testDispatcher(6, "Mid", model.ClassJobHolder)
	store.scheduled[mid.ID] = true
	store.qualifiedByDesk[vac.DeskID] = append(store.qualifiedByDesk[vac.DeskID], mid)
	store.onShift = append(store.onShift, model.Posting{Dispatcher: mid, DeskID: deskC, Shift: model.ShiftFirst})

	eng := New(store, 5, zap.NewNop())
	outcome, err := eng.Decide(context.Background(), vac)

	require.NoError(t, err)
	require.NotNil(t, outcome.Decision)
	assert.Equal(t, mid.ID, outcome.Decision.Dispatcher.ID)
	assert.True(t, logContains(outcome.Log, "Junior has a reported absence that date"))
}

func TestDecideExhaustsWhenOnlyDivertibleIsAbsent(t *testing.T) {
	store := newMockEngineStore()
	vac, junior, donorDesk := diversionFixture(store)
	backfill := testDispatcher(12, "Backfill", model.ClassExtraBoard)
	store.qualifiedByDesk[donorDesk] = []model.Dispatcher{backfill}
	store.boardCount = 3
	store.absent[junior.ID] = true

	eng := New(store, 5, zap.NewNop())
	outcome, err := eng.Decide(context.Background(), vac)

	require.NoError(t, err)
	assert.Nil(t, outcome.Decision)
	assert.True(t, logContains(outcome.Log, "Junior has a reported absence that date"))
	assert.True(t, logContains(outcome.Log, "CRITICAL: unable to fill"))
}

func TestDecideDutyCeilingBlocksTwelveHourShift(t *testing.T) {
	store := newMockEngineStore()
	deskID := uuid.New()
	pool := testDispatcher(3, "Pool", model.ClassExtraBoard)
	acd := testDispatcher(7, "Acd", model.ClassACD)
	store.qualifiedByDesk[deskID] = []model.Dispatcher{pool, acd}

	vac := testVacancy(deskID, uuid.New())
	vac.Shift = model.ShiftACDDay

	eng := New(store, 5, zap.NewNop())
	outcome, err := eng.Decide(context.Background(), vac)

	require.NoError(t, err)
	require.NotNil(t, outcome.Decision)
	assert.Equal(t, acd.ID, outcome.Decision.Dispatcher.ID)
	assert.Equal(t, model.FillSeniorRestDay, outcome.Decision.Method)
	assert.True(t, logContains(outcome.Log, "Pool fails hours-of-service"))
}

func TestDecideOffShiftNeverSelects(t *testing.T) {
	store := newMockEngineStore()
	deskID := uuid.New()
	offWorker := testDispatcher(1, "Nights", model.ClassJobHolder)
	store.scheduled[offWorker.ID] = true
	store.offShift = []model.Posting{{Dispatcher: offWorker, DeskID: uuid.New(), Shift: model.ShiftThird}}

	eng := New(store, 5, zap.NewNop())
	outcome, err := eng.Decide(context.Background(), testVacancy(deskID, uuid.New()))

	require.NoError(t, err)
	assert.Nil(t, outcome.Decision)
	assert.True(t, logContains(outcome.Log, "off-shift diversion of Nights blocked by rest rules"))
	assert.True(t, logContains(outcome.Log, "CRITICAL: unable to fill"))
}

func TestDecideQualifyingOnlyViaFinalSweep(t *testing.T) {
	store := newMockEngineStore()
	deskID := uuid.New()
	qualifying := testDispatcher(11, "Trainee", model.ClassQualifying)
	store.qualifiedByDesk[deskID] = []model.Dispatcher{qualifying}

	eng := New(store, 5, zap.NewNop())
	outcome, err := eng.Decide(context.Background(), testVacancy(deskID, uuid.New()))

	require.NoError(t, err)
	require.NotNil(t, outcome.Decision)
	assert.Equal(t, qualifying.ID, outcome.Decision.Dispatcher.ID)
	assert.Equal(t, model.FillLeastCost, outcome.Decision.Method)
	assert.Equal(t, model.PayOvertime, outcome.Decision.Pay)
	assert.True(t, logContains(outcome.Log, "requires manual override"))
}

func TestDecideExhaustionLeavesNoDecision(t *testing.T) {
	store := newMockEngineStore()

	eng := New(store, 5, zap.NewNop())
	outcome, err := eng.Decide(context.Background(), testVacancy(uuid.New(), uuid.New()))

	require.NoError(t, err)
	assert.Nil(t, outcome.Decision)
	require.NotEmpty(t, outcome.Log)
	assert.Equal(t, "CRITICAL: unable to fill vacancy, all steps exhausted",
		outcome.Log[len(outcome.Log)-1].Message)
}

func TestDecideRotatingRestDayDefersPoolToOvertime(t *testing.T) {
	store := newMockEngineStore()
	deskID := uuid.New()
	pool := testDispatcher(5, "Pool", model.ClassExtraBoard)
	store.qualifiedByDesk[deskID] = []model.Dispatcher{pool}
	// cycle anchored two weeks back puts the class on the Mon/Tue pair, so
	// the Tuesday vacancy date is a rest day
	store.boards[pool.ID] = &model.ExtraBoardAssignment{
		ID:             uuid.New(),
		DispatcherID:   pool.ID,
		Class:          model.BoardClass1,
		CycleStartDate: testDate.AddDate(0, 0, -14),
		StartDate:      testDate.AddDate(0, 0, -14),
	}

	eng := New(store, 5, zap.NewNop())
	outcome, err := eng.Decide(context.Background(), testVacancy(deskID, uuid.New()))

	require.NoError(t, err)
	require.NotNil(t, outcome.Decision)
	assert.Equal(t, pool.ID, outcome.Decision.Dispatcher.ID)
	assert.Equal(t, model.FillSeniorRestDay, outcome.Decision.Method)
	assert.Equal(t, model.PayOvertime, outcome.Decision.Pay)
	assert.True(t, logContains(outcome.Log, "is on a rotating rest day"))
}

func TestDecideHoursOfServiceSkipsShortRest(t *testing.T) {
	store := newMockEngineStore()
	deskID := uuid.New()
	tired := testDispatcher(2, "Tired", model.ClassExtraBoard)
	rested := testDispatcher(8, "Rested", model.ClassExtraBoard)
	store.qualifiedByDesk[deskID] = []model.Dispatcher{tired, rested}
	// first shift starts 07:00; a period ending 17:30 the night before
	// leaves only 13.5 hours of rest
	store.lastWorked[tired.ID] = &model.WorkPeriod{
		ID:           uuid.New(),
		DispatcherID: tired.ID,
		Start:        testDate.AddDate(0, 0, -1).Add(9*time.Hour + 30*time.Minute),
		End:          testDate.AddDate(0, 0, -1).Add(17*time.Hour + 30*time.Minute),
	}

	eng := New(store, 5, zap.NewNop())
	outcome, err := eng.Decide(context.Background(), testVacancy(deskID, uuid.New()))

	require.NoError(t, err)
	require.NotNil(t, outcome.Decision)
	assert.Equal(t, rested.ID, outcome.Decision.Dispatcher.ID)
	assert.True(t, logContains(outcome.Log, "Tired fails hours-of-service"))
}

func TestDecideHoursOfServiceLooksAhead(t *testing.T) {
	store := newMockEngineStore()
	deskID := uuid.New()
	pool := testDispatcher(5, "Pool", model.ClassExtraBoard)
	store.qualifiedByDesk[deskID] = []model.Dispatcher{pool}
	// next committed shift starts 14 hours after the proposed 15:00 end
	next := testDate.Add(15*time.Hour + 14*time.Hour)
	store.nextStarts[pool.ID] = &next

	eng := New(store, 5, zap.NewNop())
	outcome, err := eng.Decide(context.Background(), testVacancy(deskID, uuid.New()))

	require.NoError(t, err)
	assert.Nil(t, outcome.Decision)
	assert.True(t, logContains(outcome.Log, "fails hours-of-service"))
}

func TestDecideIsDeterministic(t *testing.T) {
	store := newMockEngineStore()
	vac, _, donorDesk := diversionFixture(store)
	backfill := testDispatcher(12, "Backfill", model.ClassExtraBoard)
	store.qualifiedByDesk[donorDesk] = []model.Dispatcher{backfill}
	store.boardCount = 3

	fixed := time.Date(2025, 6, 9, 12, 0, 0, 0, time.UTC)
	eng := New(store, 5, zap.NewNop())
	eng.now = func() time.Time { return fixed }

	first, err := eng.Decide(context.Background(), vac)
	require.NoError(t, err)
	second, err := eng.Decide(context.Background(), vac)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
