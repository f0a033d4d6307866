package engine

import (
	"fmt"
	"time"

	"github.com/tmccall/deskcover/pkg/core/model"
)

// decisionLog accumulates the operator-facing audit trail for one fill
// decision. It is serialized verbatim into the vacancy fill record.
type decisionLog struct {
	entries []model.DecisionEntry
	now     func() time.Time
}

func newDecisionLog(now func() time.Time) *decisionLog {
	return &decisionLog{now: now}
}

func (l *decisionLog) add(message string) {
	l.entries = append(l.entries, model.DecisionEntry{
		Timestamp: l.now(),
		Message:   message,
	})
}

func (l *decisionLog) addf(format string, args ...any) {
	l.add(fmt.Sprintf(format, args...))
}
