// Package hours implements the FRA hours-of-service rest checks. All checks
// are pure predicates over recorded work periods; they never touch storage.
package hours

import (
	"time"

	"github.com/tmccall/deskcover/pkg/core/model"
)

// MinimumRest is the required gap between any two worked periods
const MinimumRest = 15 * time.Hour

// Normalize corrects a duty window that crosses midnight by rolling the end
// time forward a day when it precedes the start.
func Normalize(start, end time.Time) (time.Time, time.Time) {
	if end.Before(start) {
		end = end.Add(24 * time.Hour)
	}
	return start, end
}

// Available reports whether a dispatcher may legally work the proposed
// window. last is the most recent recorded work period (nil when there is no
// history, which always passes); nextStart is the start of the next already
// scheduled shift, if known. The proposed shift must leave the minimum rest
// on both sides.
func Available(last *model.WorkPeriod, nextStart *time.Time, proposedStart, proposedEnd time.Time) bool {
	proposedStart, proposedEnd = Normalize(proposedStart, proposedEnd)

	if last != nil {
		_, lastEnd := Normalize(last.Start, last.End)
		if proposedStart.Sub(lastEnd) < MinimumRest {
			return false
		}
	}

	if nextStart != nil && nextStart.Sub(proposedEnd) < MinimumRest {
		return false
	}

	return true
}

// NextAvailableTime returns the earliest instant the dispatcher may start a
// new duty period. With no history the dispatcher is available immediately.
func NextAvailableTime(last *model.WorkPeriod) time.Time {
	if last == nil {
		return time.Time{}
	}
	_, lastEnd := Normalize(last.Start, last.End)
	return lastEnd.Add(MinimumRest)
}
