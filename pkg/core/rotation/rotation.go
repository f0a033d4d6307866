// Package rotation computes extra-board rest days. Each board class walks a
// six-week cycle of consecutive rest-day pairs; the class offsets keep the
// three classes on different pairs in any given week.
package rotation

import (
	"time"

	"github.com/tmccall/deskcover/pkg/core/model"
)

// restPairs is the six-week cycle of rest-day pairs, index 0-5
var restPairs = [6][2]time.Weekday{
	{time.Saturday, time.Sunday},
	{time.Sunday, time.Monday},
	{time.Monday, time.Tuesday},
	{time.Tuesday, time.Wednesday},
	{time.Wednesday, time.Thursday},
	{time.Thursday, time.Friday},
}

// PairIndex returns which rest pair the class is on for the week containing
// date, given the anchoring cycle start.
func PairIndex(class model.BoardClass, cycleStart, date time.Time) int {
	days := int(truncateDay(date).Sub(truncateDay(cycleStart)).Hours() / 24)
	weeks := days / 7
	if days < 0 {
		// cycle anchors can postdate the query; keep the modulus positive
		weeks = -((-days + 6) / 7)
	}
	idx := (weeks + class.Offset()) % 6
	if idx < 0 {
		idx += 6
	}
	return idx
}

// RestPair returns the two weekdays the class rests on for the week
// containing date.
func RestPair(class model.BoardClass, cycleStart, date time.Time) (time.Weekday, time.Weekday) {
	pair := restPairs[PairIndex(class, cycleStart, date)]
	return pair[0], pair[1]
}

// IsRestDay reports whether date falls on the class's rest pair for its week.
// Pure function of (class, cycleStart, date).
func IsRestDay(class model.BoardClass, cycleStart, date time.Time) bool {
	a, b := RestPair(class, cycleStart, date)
	dow := date.Weekday()
	return dow == a || dow == b
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
