package schedule_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/fundi/core"
	"github.com/trezcool/fundi/core/project"
	"github.com/trezcool/fundi/core/schedule"
	dummydb "github.com/trezcool/fundi/storage/database/dummy"
)

var projectStart = time.Date(2021, time.March, 1, 0, 0, 0, 0, time.UTC) // a Monday

func setUpServices(t *testing.T) (project.Service, schedule.Service, project.Project) {
	t.Helper()

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("could not open DB: %v", err)
	}
	projSvc := project.NewService(dummydb.NewProjectRepository(db))
	schedSvc := schedule.NewService(db, dummydb.NewScheduleRepository(db), projSvc)

	prj, err := projSvc.Create(context.Background(), project.NewProject{
		Name:      "Maple St Remodel",
		Status:    project.StatusActive,
		StartDate: projectStart,
	})
	if err != nil {
		t.Fatalf("could not create project: %v", err)
	}
	return projSvc, schedSvc, prj
}

func mustCreateItem(t *testing.T, svc schedule.Service, projectID, name string, dur int) schedule.Item {
	t.Helper()
	itm, err := svc.CreateItem(context.Background(), projectID, schedule.NewItem{
		Name:         name,
		Kind:         schedule.KindTask,
		DurationDays: dur,
	})
	if err != nil {
		t.Fatalf("could not create item %q: %v", name, err)
	}
	return itm
}

func TestServiceCreateItemComputesDates(t *testing.T) {
	ctx := context.Background()
	_, svc, prj := setUpServices(t)

	itm := mustCreateItem(t, svc, prj.ID, "Excavation", 3)

	assert.Equal(t, projectStart, itm.EarlyStart)
	// 3 working days starting Monday finish on Wednesday
	assert.Equal(t, projectStart.AddDate(0, 0, 2), itm.EarlyFinish)
	assert.Equal(t, 0, itm.FloatDays)
	assert.True(t, itm.IsCritical)

	// a recompute is persisted, not just returned
	got, err := svc.GetItem(ctx, prj.ID, itm.ID)
	assert.NoError(t, err)
	assert.Equal(t, itm.EarlyStart, got.EarlyStart)
	assert.True(t, got.IsCritical)
}

func TestServiceDependencyChain(t *testing.T) {
	ctx := context.Background()
	_, svc, prj := setUpServices(t)

	a := mustCreateItem(t, svc, prj.ID, "Foundation", 5)
	b := mustCreateItem(t, svc, prj.ID, "Framing", 3)

	_, err := svc.AddDependency(ctx, prj.ID, schedule.NewDependency{
		PredecessorID: a.ID,
		SuccessorID:   b.ID,
		Type:          schedule.DepFinishToStart,
	})
	assert.NoError(t, err)

	// AddDependency recomputes; successor now starts the Monday after
	// its predecessor's Friday finish
	got, err := svc.GetItem(ctx, prj.ID, b.ID)
	assert.NoError(t, err)
	assert.Equal(t, projectStart.AddDate(0, 0, 7), got.EarlyStart)
	assert.True(t, got.IsCritical)
}

func TestServiceAddDependencyRejectsDuplicateAndCycle(t *testing.T) {
	ctx := context.Background()
	_, svc, prj := setUpServices(t)

	a := mustCreateItem(t, svc, prj.ID, "Rough-in", 2)
	b := mustCreateItem(t, svc, prj.ID, "Inspection", 1)

	_, err := svc.AddDependency(ctx, prj.ID, schedule.NewDependency{PredecessorID: a.ID, SuccessorID: b.ID})
	assert.NoError(t, err)

	_, err = svc.AddDependency(ctx, prj.ID, schedule.NewDependency{PredecessorID: a.ID, SuccessorID: b.ID})
	assert.IsType(t, &core.ValidationError{}, err)

	// closing the loop must be rejected before anything is written
	_, err = svc.AddDependency(ctx, prj.ID, schedule.NewDependency{PredecessorID: b.ID, SuccessorID: a.ID})
	assert.IsType(t, &core.ValidationError{}, err)

	deps, err := svc.Dependencies(ctx, prj.ID)
	assert.NoError(t, err)
	assert.Len(t, deps, 1)
}

func TestServiceMoveItemPins(t *testing.T) {
	ctx := context.Background()
	_, svc, prj := setUpServices(t)

	itm := mustCreateItem(t, svc, prj.ID, "Drywall", 2)

	target := projectStart.AddDate(0, 0, 9) // Wednesday of week 2
	moved, err := svc.MoveItem(ctx, prj.ID, itm.ID, schedule.MoveItem{StartDate: target})
	assert.NoError(t, err)
	assert.Equal(t, schedule.ConstraintStartNoEarlier, moved.Constraint)
	assert.Equal(t, target, moved.EarlyStart)

	// moving onto a weekend snaps forward to Monday
	saturday := projectStart.AddDate(0, 0, 5)
	moved, err = svc.MoveItem(ctx, prj.ID, itm.ID, schedule.MoveItem{StartDate: saturday})
	assert.NoError(t, err)
	assert.Equal(t, projectStart.AddDate(0, 0, 7), moved.EarlyStart)
}

func TestServiceResizeItem(t *testing.T) {
	ctx := context.Background()
	_, svc, prj := setUpServices(t)

	itm := mustCreateItem(t, svc, prj.ID, "Painting", 2)

	resized, err := svc.ResizeItem(ctx, prj.ID, itm.ID, schedule.ResizeItem{DurationDays: 4})
	assert.NoError(t, err)
	assert.Equal(t, 4, resized.DurationDays)
	assert.Equal(t, projectStart.AddDate(0, 0, 3), resized.EarlyFinish)
}

func TestServiceBulkUpdate(t *testing.T) {
	ctx := context.Background()
	_, svc, prj := setUpServices(t)

	a := mustCreateItem(t, svc, prj.ID, "Demo", 2)
	b := mustCreateItem(t, svc, prj.ID, "Cleanup", 1)

	dur := 3
	status := schedule.StatusInProgress
	items, err := svc.BulkUpdate(ctx, prj.ID, schedule.BulkUpdate{
		Items: []schedule.BulkItemUpdate{
			{ID: a.ID, DurationDays: &dur},
			{ID: b.ID, Status: status},
		},
	})
	assert.NoError(t, err)
	assert.Len(t, items, 2)

	gotA, err := svc.GetItem(ctx, prj.ID, a.ID)
	assert.NoError(t, err)
	assert.Equal(t, 3, gotA.DurationDays)

	gotB, err := svc.GetItem(ctx, prj.ID, b.ID)
	assert.NoError(t, err)
	assert.Equal(t, schedule.StatusInProgress, gotB.Status)
	assert.False(t, gotB.ActualStart.IsZero())
}

func TestServiceCriticalPath(t *testing.T) {
	ctx := context.Background()
	_, svc, prj := setUpServices(t)

	a := mustCreateItem(t, svc, prj.ID, "Foundation", 5)
	b := mustCreateItem(t, svc, prj.ID, "Framing", 3)
	c := mustCreateItem(t, svc, prj.ID, "Landscaping", 1) // parallel, slack

	_, err := svc.AddDependency(ctx, prj.ID, schedule.NewDependency{PredecessorID: a.ID, SuccessorID: b.ID})
	assert.NoError(t, err)

	critical, err := svc.CriticalPath(ctx, prj.ID)
	assert.NoError(t, err)

	ids := make([]string, 0, len(critical))
	for _, itm := range critical {
		ids = append(ids, itm.ID)
	}
	assert.Contains(t, ids, a.ID)
	assert.Contains(t, ids, b.ID)
	assert.NotContains(t, ids, c.ID)
}

func TestServiceDeleteItemsDropsDependencies(t *testing.T) {
	ctx := context.Background()
	_, svc, prj := setUpServices(t)

	a := mustCreateItem(t, svc, prj.ID, "Roofing", 2)
	b := mustCreateItem(t, svc, prj.ID, "Gutters", 1)
	_, err := svc.AddDependency(ctx, prj.ID, schedule.NewDependency{PredecessorID: a.ID, SuccessorID: b.ID})
	assert.NoError(t, err)

	cnt, err := svc.DeleteItems(ctx, prj.ID, a.ID)
	assert.NoError(t, err)
	assert.Equal(t, 1, cnt)

	deps, err := svc.Dependencies(ctx, prj.ID)
	assert.NoError(t, err)
	assert.Empty(t, deps)

	// the survivor is recomputed back to the project start
	got, err := svc.GetItem(ctx, prj.ID, b.ID)
	assert.NoError(t, err)
	assert.Equal(t, projectStart, got.EarlyStart)
}
