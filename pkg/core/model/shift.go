package model

import "time"

// shift windows as hours from midnight; end > 24 means the shift runs past
// midnight into the next day
var shiftWindows = map[Shift][2]int{
	ShiftFirst:    {7, 15},
	ShiftSecond:   {15, 23},
	ShiftThird:    {23, 31},
	ShiftACDDay:   {7, 19},
	ShiftACDNight: {19, 31},
}

// Window returns the start and end instants of the shift on the given
// calendar day. Shifts that cross midnight end on the following day.
func (s Shift) Window(date time.Time) (time.Time, time.Time) {
	w, ok := shiftWindows[s]
	if !ok {
		w = shiftWindows[ShiftFirst]
	}
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return day.Add(time.Duration(w[0]) * time.Hour), day.Add(time.Duration(w[1]) * time.Hour)
}

// Duration is the length of the shift's duty period
func (s Shift) Duration() time.Duration {
	start, end := s.Window(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC))
	return end.Sub(start)
}

// MaxDutyHours is the legal duty-period ceiling for a dispatcher of this
// classification: twelve hours for ACD shift holders, nine otherwise.
func (c Classification) MaxDutyHours() int {
	if c == ClassACD {
		return 12
	}
	return 9
}
