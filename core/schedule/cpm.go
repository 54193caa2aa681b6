package schedule

import (
	"time"
)

// Computed holds the critical-path-method outputs for one item, in working-day
// offsets from the project start. EarlyFinish/LateFinish are exclusive:
// a 3-day item starting at offset 0 finishes at offset 3.
type Computed struct {
	EarlyStart  int
	EarlyFinish int
	LateStart   int
	LateFinish  int
	Float       int // total float: LateStart - EarlyStart; <= 0 on the critical path
	Critical    bool
}

// Result is the outcome of a full CPM pass over one project's schedule.
type Result struct {
	Start        time.Time // project start, normalized to a workday
	FinishOffset int       // project finish (max early finish)
	Finish       time.Time
	Items        map[string]Computed
	CriticalPath []string // critical item IDs in topological order
}

// StartDate maps an item's early start offset back to a calendar date.
func (r *Result) StartDate(c Computed) time.Time {
	return AddWorkdays(r.Start, c.EarlyStart)
}

// Compute runs the critical-path method over a project's items and dependency
// edges: topological ordering, a forward pass for early dates, a backward pass
// for late dates, then float and critical flags.
//
// Constraints: must-start-on (and recorded actual starts) pin the early start;
// start-no-earlier-than sets a lower bound. A pin earlier than what the
// predecessors allow yields negative float, which is reported as-is: the plan
// is infeasible and the item is flagged critical.
func Compute(projectStart time.Time, items []Item, deps []Dependency) (*Result, error) {
	g, err := buildGraph(items, deps)
	if err != nil {
		return nil, err
	}
	order, err := g.topoOrder()
	if err != nil {
		return nil, err
	}

	start := NextWorkday(projectStart)
	computed := make(map[string]Computed, len(items))

	offsetOf := func(d time.Time) int { return WorkdaysBetween(start, d) }

	// forward pass: earliest start honoring predecessors and constraints
	for _, id := range order {
		n := g.nodes[id]
		itm := n.item
		dur := itm.DurationDays

		es := 0
		for _, e := range n.preds {
			p := computed[e.other]
			lag := e.dep.LagDays
			var bound int
			switch e.dep.Type {
			case DepStartToStart:
				bound = p.EarlyStart + lag
			case DepFinishToFinish:
				bound = p.EarlyFinish + lag - dur
			case DepStartToFinish:
				bound = p.EarlyStart + lag - dur
			default: // FS
				bound = p.EarlyFinish + lag
			}
			if bound > es {
				es = bound
			}
		}

		if itm.Pinned() {
			es = offsetOf(itm.PinDate())
		} else {
			if itm.Constraint == ConstraintStartNoEarlier && !itm.ConstraintDate.IsZero() {
				if min := offsetOf(itm.ConstraintDate); min > es {
					es = min
				}
			}
			if es < 0 {
				es = 0
			}
		}

		computed[id] = Computed{EarlyStart: es, EarlyFinish: es + dur}
	}

	// project finish: the latest early finish
	finish := 0
	for _, c := range computed {
		if c.EarlyFinish > finish {
			finish = c.EarlyFinish
		}
	}

	// backward pass: latest finish honoring successors
	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		n := g.nodes[id]
		dur := n.item.DurationDays

		lf := finish
		for _, e := range n.succs {
			s := computed[e.other]
			lag := e.dep.LagDays
			var bound int
			switch e.dep.Type {
			case DepStartToStart:
				bound = s.LateStart - lag + dur
			case DepFinishToFinish:
				bound = s.LateFinish - lag
			case DepStartToFinish:
				bound = s.LateFinish - lag + dur
			default: // FS
				bound = s.LateStart - lag
			}
			if bound < lf {
				lf = bound
			}
		}

		c := computed[id]
		c.LateFinish = lf
		c.LateStart = lf - dur
		c.Float = c.LateStart - c.EarlyStart
		c.Critical = c.Float <= 0
		computed[id] = c
	}

	res := &Result{
		Start:        start,
		FinishOffset: finish,
		Finish:       finishDate(start, 0, finish),
		Items:        computed,
	}
	for _, id := range order {
		if computed[id].Critical {
			res.CriticalPath = append(res.CriticalPath, id)
		}
	}
	return res, nil
}

// finishDate maps an exclusive finish offset to the (inclusive) last workday.
// Zero-duration items finish the day they start.
func finishDate(start time.Time, es, ef int) time.Time {
	if ef <= es {
		return AddWorkdays(start, es)
	}
	return AddWorkdays(start, ef-1)
}

// apply writes the engine outputs back onto the items as calendar dates.
func (r *Result) apply(items []Item) []Item {
	for i := range items {
		c, ok := r.Items[items[i].ID]
		if !ok {
			continue
		}
		items[i].EarlyStart = r.StartDate(c)
		items[i].EarlyFinish = finishDate(r.Start, c.EarlyStart, c.EarlyFinish)
		items[i].LateStart = AddWorkdays(r.Start, c.LateStart)
		items[i].LateFinish = finishDate(r.Start, c.LateStart, c.LateFinish)
		items[i].FloatDays = c.Float
		items[i].IsCritical = c.Critical
	}
	return items
}
