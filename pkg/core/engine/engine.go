// Package engine implements the order of call: the seven-step precedence
// ladder that decides who covers an open vacancy. Steps run strictly in
// order, first success wins, and seniority rank is the sole tie-break within
// a step. The engine reads through db.EngineStore and holds no state of its
// own beyond the per-invocation decision log.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tmccall/deskcover/pkg/core/hours"
	"github.com/tmccall/deskcover/pkg/core/model"
	"github.com/tmccall/deskcover/pkg/core/rotation"
	"github.com/tmccall/deskcover/pkg/db"
)

// CascadePosition identifies the donor desk+shift a diversion vacates
type CascadePosition struct {
	DeskID uuid.UUID
	Shift  model.Shift
}

// Decision is a successful verdict for one vacancy
type Decision struct {
	Dispatcher model.Dispatcher
	Method     model.FillMethod
	Pay        model.PayType
	Cascade    *CascadePosition
}

// Outcome is the result of walking the order of call. Decision is nil when
// every step was exhausted; that is a normal business outcome and the
// vacancy stays pending. Log always carries the full audit trail.
type Outcome struct {
	Decision *Decision
	Log      []model.DecisionEntry
}

// Engine walks the order of call against a store snapshot
type Engine struct {
	store    db.EngineStore
	baseline int // configured extra-board headcount baseline
	logger   *zap.Logger
	now      func() time.Time
}

// New creates an engine. baseline is the extra-board headcount baseline that
// drives the step-four pay-type decision.
func New(store db.EngineStore, baseline int, logger *zap.Logger) *Engine {
	return &Engine{
		store:    store,
		baseline: baseline,
		logger:   logger,
		now:      time.Now,
	}
}

type step func(ctx context.Context, vac *model.Vacancy, log *decisionLog) (*Decision, error)

// Decide walks the seven steps for a pending vacancy and returns the first
// acceptable fill. Decide performs no writes; recording is the caller's job.
// A query failure at any step aborts the whole walk.
func (e *Engine) Decide(ctx context.Context, vac *model.Vacancy) (*Outcome, error) {
	log := newDecisionLog(e.now)
	log.addf("order of call started for desk %s shift %s on %s",
		vac.DeskID, vac.Shift, vac.Date.Format("2006-01-02"))

	steps := []struct {
		name string
		run  step
	}{
		{"step 1: extra board straight time", e.stepExtraBoard},
		{"step 2: regular incumbent overtime", e.stepIncumbent},
		{"step 3: senior rest-day overtime", e.stepSeniorRestDay},
		{"step 4: junior same-shift diversion with backfill", e.stepJuniorDiversion},
		{"step 5: junior same-shift diversion cascading", e.stepCascadingDiversion},
		{"step 6: senior off-shift diversion", e.stepOffShiftDiversion},
		{"step 7: least-cost fallback", e.stepLeastCost},
	}

	for _, s := range steps {
		log.add(s.name)
		decision, err := s.run(ctx, vac, log)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.name, err)
		}
		if decision != nil {
			log.addf("selected %s (rank %d) via %s at %s pay",
				decision.Dispatcher.Name, decision.Dispatcher.SeniorityRank,
				decision.Method, decision.Pay)
			e.logger.Info("vacancy fill decided",
				zap.String("vacancy_id", vac.ID.String()),
				zap.String("dispatcher", decision.Dispatcher.Name),
				zap.String("method", string(decision.Method)),
				zap.String("pay", string(decision.Pay)))
			return &Outcome{Decision: decision, Log: log.entries}, nil
		}
	}

	log.add("CRITICAL: unable to fill vacancy, all steps exhausted")
	e.logger.Warn("vacancy unfillable",
		zap.String("vacancy_id", vac.ID.String()),
		zap.String("date", vac.Date.Format("2006-01-02")))
	return &Outcome{Log: log.entries}, nil
}

// hoursOK runs the FRA availability check for the dispatcher against the
// vacancy's shift window: the duty ceiling of their classification first,
// then the rest rules around the proposed period.
func (e *Engine) hoursOK(ctx context.Context, d model.Dispatcher, vac *model.Vacancy) (bool, error) {
	if vac.Shift.Duration() > time.Duration(d.Classification.MaxDutyHours())*time.Hour {
		return false, nil
	}
	start, end := vac.Shift.Window(vac.Date)
	last, err := e.store.LastWorkedPeriod(ctx, d.ID)
	if err != nil {
		return false, fmt.Errorf("work history lookup for %s: %w", d.ID, err)
	}
	next, err := e.store.NextScheduledStart(ctx, d.ID, end)
	if err != nil {
		return false, fmt.Errorf("next shift lookup for %s: %w", d.ID, err)
	}
	return hours.Available(last, next, start, end), nil
}

// onRotatingRestDay reports whether the dispatcher's extra-board class rests
// on the vacancy date. Dispatchers with no board assignment are never
// rest-gated here.
func (e *Engine) onRotatingRestDay(ctx context.Context, d model.Dispatcher, date time.Time) (bool, error) {
	eb, err := e.store.ExtraBoardAssignment(ctx, d.ID)
	if err != nil {
		return false, fmt.Errorf("board assignment lookup for %s: %w", d.ID, err)
	}
	if eb == nil {
		return false, nil
	}
	return rotation.IsRestDay(eb.Class, eb.CycleStartDate, date), nil
}
