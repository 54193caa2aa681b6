package schedule

import (
	"testing"
	"time"
)

var testStart = time.Date(2021, time.March, 1, 0, 0, 0, 0, time.UTC) // a Monday

func day(n int) time.Time { return AddWorkdays(testStart, n) }

func item(id string, dur int) Item {
	return Item{ID: id, Name: id, Kind: KindTask, Status: StatusPlanned, DurationDays: dur, Constraint: ConstraintASAP}
}

func fs(pred, succ string, lag int) Dependency {
	return Dependency{ID: pred + "->" + succ, PredecessorID: pred, SuccessorID: succ, Type: DepFinishToStart, LagDays: lag}
}

func dep(pred, succ, typ string, lag int) Dependency {
	d := fs(pred, succ, lag)
	d.Type = typ
	return d
}

type wantComputed struct {
	es, ef, ls, lf, flt int
	critical            bool
}

func checkComputed(t *testing.T, res *Result, want map[string]wantComputed) {
	t.Helper()
	for id, w := range want {
		c, ok := res.Items[id]
		if !ok {
			t.Errorf("item %q missing from result", id)
			continue
		}
		if c.EarlyStart != w.es || c.EarlyFinish != w.ef {
			t.Errorf("item %q early = (%d, %d); want (%d, %d)", id, c.EarlyStart, c.EarlyFinish, w.es, w.ef)
		}
		if c.LateStart != w.ls || c.LateFinish != w.lf {
			t.Errorf("item %q late = (%d, %d); want (%d, %d)", id, c.LateStart, c.LateFinish, w.ls, w.lf)
		}
		if c.Float != w.flt {
			t.Errorf("item %q float = %d; want %d", id, c.Float, w.flt)
		}
		if c.Critical != w.critical {
			t.Errorf("item %q critical = %v; want %v", id, c.Critical, w.critical)
		}
	}
}

func TestComputeChain(t *testing.T) {
	items := []Item{item("a", 3), item("b", 2), item("c", 1)}
	deps := []Dependency{fs("a", "b", 0), fs("b", "c", 0)}

	res, err := Compute(testStart, items, deps)
	if err != nil {
		t.Fatalf("Compute() failed: %v", err)
	}

	checkComputed(t, res, map[string]wantComputed{
		"a": {es: 0, ef: 3, ls: 0, lf: 3, flt: 0, critical: true},
		"b": {es: 3, ef: 5, ls: 3, lf: 5, flt: 0, critical: true},
		"c": {es: 5, ef: 6, ls: 5, lf: 6, flt: 0, critical: true},
	})
	if res.FinishOffset != 6 {
		t.Errorf("finish = %d; want 6", res.FinishOffset)
	}
	if len(res.CriticalPath) != 3 {
		t.Errorf("critical path = %v; want all 3 items", res.CriticalPath)
	}

	// date mapping skips the weekend: offset 5 is the following Monday
	items = res.apply(items)
	c := items[2]
	if wantStart := time.Date(2021, time.March, 8, 0, 0, 0, 0, time.UTC); !c.EarlyStart.Equal(wantStart) {
		t.Errorf("item c early start = %v; want %v", c.EarlyStart, wantStart)
	}
}

func TestComputeFloat(t *testing.T) {
	// a (2d) and b (5d) both feed c; only b-c is critical
	items := []Item{item("a", 2), item("b", 5), item("c", 1)}
	deps := []Dependency{fs("a", "c", 0), fs("b", "c", 0)}

	res, err := Compute(testStart, items, deps)
	if err != nil {
		t.Fatalf("Compute() failed: %v", err)
	}

	checkComputed(t, res, map[string]wantComputed{
		"a": {es: 0, ef: 2, ls: 3, lf: 5, flt: 3, critical: false},
		"b": {es: 0, ef: 5, ls: 0, lf: 5, flt: 0, critical: true},
		"c": {es: 5, ef: 6, ls: 5, lf: 6, flt: 0, critical: true},
	})
	if want := []string{"b", "c"}; len(res.CriticalPath) != 2 || res.CriticalPath[0] != want[0] || res.CriticalPath[1] != want[1] {
		t.Errorf("critical path = %v; want %v", res.CriticalPath, want)
	}
}

func TestComputeDependencyTypes(t *testing.T) {
	tests := []struct {
		name  string
		items []Item
		deps  []Dependency
		want  map[string]wantComputed
	}{
		{
			name:  "start-to-start with lag",
			items: []Item{item("a", 4), item("b", 3)},
			deps:  []Dependency{dep("a", "b", DepStartToStart, 1)},
			want: map[string]wantComputed{
				"a": {es: 0, ef: 4, ls: 0, lf: 4, flt: 0, critical: true},
				"b": {es: 1, ef: 4, ls: 1, lf: 4, flt: 0, critical: true},
			},
		},
		{
			name:  "finish-to-finish with lag",
			items: []Item{item("a", 3), item("b", 1)},
			deps:  []Dependency{dep("a", "b", DepFinishToFinish, 2)},
			want: map[string]wantComputed{
				"a": {es: 0, ef: 3, ls: 0, lf: 3, flt: 0, critical: true},
				"b": {es: 4, ef: 5, ls: 4, lf: 5, flt: 0, critical: true},
			},
		},
		{
			// b may not finish until 3 days after a starts; only a is critical
			name:  "start-to-finish with lag",
			items: []Item{item("a", 4), item("b", 2)},
			deps:  []Dependency{dep("a", "b", DepStartToFinish, 3)},
			want: map[string]wantComputed{
				"a": {es: 0, ef: 4, ls: 0, lf: 4, flt: 0, critical: true},
				"b": {es: 1, ef: 3, ls: 2, lf: 4, flt: 1, critical: false},
			},
		},
		{
			name:  "negative lag overlaps the successor",
			items: []Item{item("a", 5), item("b", 2)},
			deps:  []Dependency{fs("a", "b", -2)},
			want: map[string]wantComputed{
				"a": {es: 0, ef: 5, ls: 0, lf: 5, flt: 0, critical: true},
				"b": {es: 3, ef: 5, ls: 3, lf: 5, flt: 0, critical: true},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Compute(testStart, tt.items, tt.deps)
			if err != nil {
				t.Fatalf("Compute() failed: %v", err)
			}
			checkComputed(t, res, tt.want)
		})
	}
}

func TestComputeConstraints(t *testing.T) {
	t.Run("must-start-on delays the item and frees predecessor float", func(t *testing.T) {
		a := item("a", 2)
		b := item("b", 2)
		b.Constraint = ConstraintMustStartOn
		b.ConstraintDate = day(5)

		res, err := Compute(testStart, []Item{a, b}, []Dependency{fs("a", "b", 0)})
		if err != nil {
			t.Fatalf("Compute() failed: %v", err)
		}
		checkComputed(t, res, map[string]wantComputed{
			"a": {es: 0, ef: 2, ls: 3, lf: 5, flt: 3, critical: false},
			"b": {es: 5, ef: 7, ls: 5, lf: 7, flt: 0, critical: true},
		})
	})

	t.Run("infeasible pin yields negative float upstream", func(t *testing.T) {
		a := item("a", 3)
		b := item("b", 1)
		b.Constraint = ConstraintMustStartOn
		b.ConstraintDate = day(1)

		res, err := Compute(testStart, []Item{a, b}, []Dependency{fs("a", "b", 0)})
		if err != nil {
			t.Fatalf("Compute() failed: %v", err)
		}
		checkComputed(t, res, map[string]wantComputed{
			"a": {es: 0, ef: 3, ls: -2, lf: 1, flt: -2, critical: true},
			"b": {es: 1, ef: 2, ls: 2, lf: 3, flt: 1, critical: false},
		})
	})

	t.Run("start-no-earlier-than bounds the early start", func(t *testing.T) {
		a := item("a", 2)
		a.Constraint = ConstraintStartNoEarlier
		a.ConstraintDate = day(4)

		res, err := Compute(testStart, []Item{a}, nil)
		if err != nil {
			t.Fatalf("Compute() failed: %v", err)
		}
		checkComputed(t, res, map[string]wantComputed{
			"a": {es: 4, ef: 6, ls: 4, lf: 6, flt: 0, critical: true},
		})
	})

	t.Run("in-progress item is pinned at its actual start", func(t *testing.T) {
		a := item("a", 3)
		a.Status = StatusInProgress
		a.ActualStart = day(2)

		res, err := Compute(testStart, []Item{a}, nil)
		if err != nil {
			t.Fatalf("Compute() failed: %v", err)
		}
		checkComputed(t, res, map[string]wantComputed{
			"a": {es: 2, ef: 5, ls: 2, lf: 5, flt: 0, critical: true},
		})
	})
}

func TestComputeMilestone(t *testing.T) {
	a := item("a", 3)
	m := item("m", 0)
	m.Kind = KindMilestone

	res, err := Compute(testStart, []Item{a, m}, []Dependency{fs("a", "m", 0)})
	if err != nil {
		t.Fatalf("Compute() failed: %v", err)
	}
	checkComputed(t, res, map[string]wantComputed{
		"m": {es: 3, ef: 3, ls: 3, lf: 3, flt: 0, critical: true},
	})

	// a milestone finishes the day it starts
	items := res.apply([]Item{a, m})
	if !items[1].EarlyStart.Equal(items[1].EarlyFinish) {
		t.Errorf("milestone start %v != finish %v", items[1].EarlyStart, items[1].EarlyFinish)
	}
}

func TestComputeCycle(t *testing.T) {
	items := []Item{item("a", 1), item("b", 1), item("c", 1)}
	deps := []Dependency{fs("a", "b", 0), fs("b", "c", 0), fs("c", "a", 0)}

	_, err := Compute(testStart, items, deps)
	cycErr, ok := err.(*CycleError)
	if !ok {
		t.Fatalf("Compute() error = %v; want *CycleError", err)
	}
	want := []string{"a", "b", "c", "a"}
	if len(cycErr.Path) != len(want) {
		t.Fatalf("cycle path = %v; want %v", cycErr.Path, want)
	}
	for i := range want {
		if cycErr.Path[i] != want[i] {
			t.Fatalf("cycle path = %v; want %v", cycErr.Path, want)
		}
	}
}

func TestComputeUnknownEndpoint(t *testing.T) {
	items := []Item{item("a", 1)}
	deps := []Dependency{fs("a", "ghost", 0)}

	if _, err := Compute(testStart, items, deps); err == nil {
		t.Error("Compute() expected an error for an unknown successor")
	}
}

func TestComputeEmpty(t *testing.T) {
	res, err := Compute(testStart, nil, nil)
	if err != nil {
		t.Fatalf("Compute() failed: %v", err)
	}
	if res.FinishOffset != 0 {
		t.Errorf("finish = %d; want 0", res.FinishOffset)
	}
}
