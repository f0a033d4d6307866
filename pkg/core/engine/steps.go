package engine

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/tmccall/deskcover/pkg/core/model"
)

// stepExtraBoard draws from the unassigned relief pool (GAD/extra board) at
// straight time, most senior first. A qualifying-class dispatcher is never
// auto-selected here; their availability is logged for manual override only.
func (e *Engine) stepExtraBoard(ctx context.Context, vac *model.Vacancy, log *decisionLog) (*Decision, error) {
	candidate, err := e.poolCandidate(ctx, vac.DeskID, vac, log)
	if err != nil {
		return nil, err
	}
	if candidate != nil {
		return &Decision{
			Dispatcher: *candidate,
			Method:     model.FillExtraBoard,
			Pay:        model.PayStraight,
		}, nil
	}

	// visibility check against the qualifying pool; selection requires a
	// manual override so the walk always continues past this
	withQualifying, err := e.store.QualifiedForDesk(ctx, vac.DeskID, false)
	if err != nil {
		return nil, fmt.Errorf("qualifying pool lookup: %w", err)
	}
	for _, d := range withQualifying {
		if d.Classification != model.ClassQualifying {
			continue
		}
		log.addf("qualifying dispatcher %s (rank %d) is available but requires manual override", d.Name, d.SeniorityRank)
	}

	log.add("no extra-board dispatcher available at straight time")
	return nil, nil
}

// poolCandidate finds the first pool-class dispatcher able to cover the
// given desk for the vacancy's shift and date. Shared between step one and
// the backfill-availability check of step four.
func (e *Engine) poolCandidate(ctx context.Context, deskID uuid.UUID, vac *model.Vacancy, log *decisionLog) (*model.Dispatcher, error) {
	pool, err := e.store.QualifiedForDesk(ctx, deskID, true)
	if err != nil {
		return nil, fmt.Errorf("qualified pool lookup for desk %s: %w", deskID, err)
	}

	for _, d := range pool {
		if !d.Classification.IsPool() {
			continue
		}
		if d.ID == vac.IncumbentID {
			continue
		}

		resting, err := e.onRotatingRestDay(ctx, d, vac.Date)
		if err != nil {
			return nil, err
		}
		if resting {
			log.addf("pool: %s is on a rotating rest day", d.Name)
			continue
		}

		scheduled, err := e.store.IsScheduled(ctx, d.ID, vac.Date)
		if err != nil {
			return nil, fmt.Errorf("schedule check for %s: %w", d.ID, err)
		}
		if scheduled {
			log.addf("pool: %s is already working that date", d.Name)
			continue
		}

		ok, err := e.hoursOK(ctx, d, vac)
		if err != nil {
			return nil, err
		}
		if !ok {
			log.addf("pool: %s fails hours-of-service for the shift", d.Name)
			continue
		}

		return &d, nil
	}
	return nil, nil
}

// stepIncumbent calls in the regular holder of the vacant desk+shift on
// overtime, provided the date is genuinely their rest day.
func (e *Engine) stepIncumbent(ctx context.Context, vac *model.Vacancy, log *decisionLog) (*Decision, error) {
	inc, err := e.store.Incumbent(ctx, vac.DeskID, vac.Shift)
	if err != nil {
		return nil, fmt.Errorf("incumbent lookup: %w", err)
	}
	if inc == nil {
		log.add("position has no regular incumbent")
		return nil, nil
	}
	if inc.ID == vac.IncumbentID {
		log.addf("regular incumbent %s is the absent dispatcher", inc.Name)
		return nil, nil
	}

	scheduled, err := e.store.IsScheduled(ctx, inc.ID, vac.Date)
	if err != nil {
		return nil, fmt.Errorf("schedule check for incumbent: %w", err)
	}
	if scheduled {
		log.addf("regular incumbent %s is already working that date", inc.Name)
		return nil, nil
	}

	ok, err := e.hoursOK(ctx, *inc, vac)
	if err != nil {
		return nil, err
	}
	if !ok {
		log.addf("regular incumbent %s fails hours-of-service", inc.Name)
		return nil, nil
	}

	return &Decision{
		Dispatcher: *inc,
		Method:     model.FillIncumbentOvertime,
		Pay:        model.PayOvertime,
	}, nil
}

// stepSeniorRestDay sweeps every qualified, active, non-qualifying
// dispatcher most senior first and calls the first one free that date in on
// overtime.
func (e *Engine) stepSeniorRestDay(ctx context.Context, vac *model.Vacancy, log *decisionLog) (*Decision, error) {
	d, err := e.senioritySweep(ctx, vac, true, log)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, nil
	}
	return &Decision{
		Dispatcher: *d,
		Method:     model.FillSeniorRestDay,
		Pay:        model.PayOvertime,
	}, nil
}

// stepJuniorDiversion pulls the most junior dispatcher working the same
// shift on another desk, but only when the pool can backfill the desk they
// are pulled from. Pay is overtime while the board is under its baseline
// headcount, straight otherwise. Creates a cascade vacancy at the donor desk.
func (e *Engine) stepJuniorDiversion(ctx context.Context, vac *model.Vacancy, log *decisionLog) (*Decision, error) {
	candidate, donor, err := e.juniorSameShiftCandidate(ctx, vac, log)
	if err != nil {
		return nil, err
	}
	if candidate == nil {
		return nil, nil
	}

	backfill, err := e.poolCandidate(ctx, donor.DeskID, vac, log)
	if err != nil {
		return nil, err
	}
	if backfill == nil {
		log.addf("no pool backfill available for %s's desk, deferring diversion", candidate.Name)
		return nil, nil
	}
	log.addf("pool dispatcher %s can backfill %s's desk", backfill.Name, candidate.Name)

	count, err := e.store.ActiveExtraBoardCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("extra board headcount: %w", err)
	}
	pay := model.PayStraight
	if count < e.baseline {
		pay = model.PayOvertime
		log.addf("extra board headcount %d is below baseline %d, diversion pays overtime", count, e.baseline)
	}

	return &Decision{
		Dispatcher: *candidate,
		Method:     model.FillJuniorDiversion,
		Pay:        pay,
		Cascade:    &CascadePosition{DeskID: donor.DeskID, Shift: donor.Shift},
	}, nil
}

// stepCascadingDiversion repeats the step-four search but accepts the junior
// unconditionally, leaving the donor desk to a cascade vacancy.
func (e *Engine) stepCascadingDiversion(ctx context.Context, vac *model.Vacancy, log *decisionLog) (*Decision, error) {
	candidate, donor, err := e.juniorSameShiftCandidate(ctx, vac, log)
	if err != nil {
		return nil, err
	}
	if candidate == nil {
		return nil, nil
	}

	return &Decision{
		Dispatcher: *candidate,
		Method:     model.FillCascadingDiversion,
		Pay:        model.PayStraight,
		Cascade:    &CascadePosition{DeskID: donor.DeskID, Shift: donor.Shift},
	}, nil
}

// juniorSameShiftCandidate finds the most junior dispatcher working the
// vacancy's shift on a different desk who is qualified for the vacant desk.
func (e *Engine) juniorSameShiftCandidate(ctx context.Context, vac *model.Vacancy, log *decisionLog) (*model.Dispatcher, *model.Posting, error) {
	postings, err := e.store.OnShiftPostings(ctx, vac.Date, vac.Shift)
	if err != nil {
		return nil, nil, fmt.Errorf("same-shift postings lookup: %w", err)
	}

	// most junior first
	sort.SliceStable(postings, func(i, j int) bool {
		return postings[i].Dispatcher.SeniorityRank > postings[j].Dispatcher.SeniorityRank
	})

	for i := range postings {
		p := postings[i]
		if p.DeskID == vac.DeskID {
			continue
		}
		if p.Dispatcher.ID == vac.IncumbentID {
			continue
		}
		absent, err := e.store.HasReportedAbsence(ctx, p.Dispatcher.ID, vac.Date)
		if err != nil {
			return nil, nil, fmt.Errorf("absence check for %s: %w", p.Dispatcher.ID, err)
		}
		if absent {
			log.addf("%s has a reported absence that date, not divertible", p.Dispatcher.Name)
			continue
		}
		qualified, err := e.store.IsQualified(ctx, p.Dispatcher.ID, vac.DeskID)
		if err != nil {
			return nil, nil, fmt.Errorf("qualification check for %s: %w", p.Dispatcher.ID, err)
		}
		if !qualified {
			continue
		}
		log.addf("junior same-shift candidate: %s (rank %d) working desk %s",
			p.Dispatcher.Name, p.Dispatcher.SeniorityRank, p.DeskID)
		return &p.Dispatcher, &p, nil
	}

	log.add("no divertible same-shift dispatcher qualified for the desk")
	return nil, nil, nil
}

// stepOffShiftDiversion is intentionally inert. Diverting from a different
// shift would give the dispatcher two duty periods in the same day, which
// the rest rules do not permit; the step logs what it saw and never selects.
func (e *Engine) stepOffShiftDiversion(ctx context.Context, vac *model.Vacancy, log *decisionLog) (*Decision, error) {
	postings, err := e.store.OffShiftPostings(ctx, vac.Date, vac.Shift)
	if err != nil {
		return nil, fmt.Errorf("off-shift postings lookup: %w", err)
	}

	sort.SliceStable(postings, func(i, j int) bool {
		return postings[i].Dispatcher.SeniorityRank < postings[j].Dispatcher.SeniorityRank
	})

	for _, p := range postings {
		// off-shift diversion stays disabled until the rest-rule question is
		// settled; a second same-day duty period fails hours-of-service
		log.addf("off-shift diversion of %s blocked by rest rules", p.Dispatcher.Name)
		continue
	}

	log.add("off-shift diversion produced no candidate")
	return nil, nil
}

// stepLeastCost is the terminal sweep: every qualified active dispatcher,
// most senior first, overtime. Unlike step three the qualifying class is in
// scope here; an otherwise unfillable desk goes to whoever holds the card.
func (e *Engine) stepLeastCost(ctx context.Context, vac *model.Vacancy, log *decisionLog) (*Decision, error) {
	d, err := e.senioritySweep(ctx, vac, false, log)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, nil
	}
	return &Decision{
		Dispatcher: *d,
		Method:     model.FillLeastCost,
		Pay:        model.PayOvertime,
	}, nil
}

// senioritySweep walks qualified active dispatchers most senior first and
// returns the first one free that date who passes hours-of-service.
func (e *Engine) senioritySweep(ctx context.Context, vac *model.Vacancy, excludeQualifying bool, log *decisionLog) (*model.Dispatcher, error) {
	candidates, err := e.store.QualifiedForDesk(ctx, vac.DeskID, excludeQualifying)
	if err != nil {
		return nil, fmt.Errorf("qualified dispatcher lookup: %w", err)
	}

	for _, d := range candidates {
		if d.ID == vac.IncumbentID {
			continue
		}
		scheduled, err := e.store.IsScheduled(ctx, d.ID, vac.Date)
		if err != nil {
			return nil, fmt.Errorf("schedule check for %s: %w", d.ID, err)
		}
		if scheduled {
			log.addf("%s is already working that date", d.Name)
			continue
		}
		ok, err := e.hoursOK(ctx, d, vac)
		if err != nil {
			return nil, err
		}
		if !ok {
			log.addf("%s fails hours-of-service", d.Name)
			continue
		}
		return &d, nil
	}

	log.add("no rest-day dispatcher available")
	return nil, nil
}
