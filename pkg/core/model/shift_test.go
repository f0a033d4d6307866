package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShiftWindow(t *testing.T) {
	day := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	start, end := ShiftFirst.Window(day)
	assert.Equal(t, day.Add(7*time.Hour), start)
	assert.Equal(t, day.Add(15*time.Hour), end)

	// third shift runs past midnight into the next calendar day
	start, end = ShiftThird.Window(day)
	assert.Equal(t, day.Add(23*time.Hour), start)
	assert.Equal(t, day.AddDate(0, 0, 1).Add(7*time.Hour), end)
}

func TestShiftDuration(t *testing.T) {
	assert.Equal(t, 8*time.Hour, ShiftSecond.Duration())
	assert.Equal(t, 12*time.Hour, ShiftACDNight.Duration())
}

func TestMaxDutyHours(t *testing.T) {
	assert.Equal(t, 12, ClassACD.MaxDutyHours())
	assert.Equal(t, 9, ClassJobHolder.MaxDutyHours())
	assert.Equal(t, 9, ClassExtraBoard.MaxDutyHours())
}

func TestVacancyTypePlanned(t *testing.T) {
	assert.False(t, VacancySick.Planned())
	assert.False(t, VacancyOther.Planned())
	assert.True(t, VacancyVacation.Planned())
	assert.True(t, VacancyTraining.Planned())
}
