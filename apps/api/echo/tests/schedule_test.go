package tests

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/trezcool/fundi/core/schedule"
	"github.com/trezcool/fundi/core/user"
)

// projectStart is a Monday; keeps the working-day math easy to follow.
var projectStart = time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC)

func postItem(t *testing.T, projectID, token string, ni schedule.NewItem) schedule.Item {
	t.Helper()
	path := fmt.Sprintf("/v1/projects/%s/schedule/items", projectID)
	req, rec := newAuthRequest(http.MethodPost, path, token, marchallObj(t, ni))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("postItem() code = %v; body %s", rec.Code, rec.Body.String())
	}
	var itm schedule.Item
	if err := json.Unmarshal(rec.Body.Bytes(), &itm); err != nil {
		t.Fatalf("postItem() json.Unmarshal(): %v", err)
	}
	return itm
}

func getItem(t *testing.T, projectID, id, token string) schedule.Item {
	t.Helper()
	path := fmt.Sprintf("/v1/projects/%s/schedule/items/%s", projectID, id)
	req, rec := newAuthRequest(http.MethodGet, path, token)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("getItem() code = %v; body %s", rec.Code, rec.Body.String())
	}
	var itm schedule.Item
	if err := json.Unmarshal(rec.Body.Bytes(), &itm); err != nil {
		t.Fatalf("getItem() json.Unmarshal(): %v", err)
	}
	return itm
}

func Test_scheduleApi_createItemComputesDates(t *testing.T) {
	resetDB(t)

	pm := createUser(t, "Patricia M", "patpm", "pat@test.cd", "", []string{user.RoleOffice}, true)
	foreman := createUser(t, "Bob Mafuta", "bobmafuta", "bob@test.cd", "", []string{user.RoleField}, true)
	prj := createProject(t, "Maison Kintambo", 25_000_000, projectStart)

	path := fmt.Sprintf("/v1/projects/%s/schedule/items", prj.ID)
	ni := schedule.NewItem{Name: "Foundations", Kind: schedule.KindTask, DurationDays: 3}

	// field crews get read-only access
	req, rec := newAuthRequest(http.MethodPost, path, getToken(t, foreman), marchallObj(t, ni))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("field write code = %v; want %v", rec.Code, http.StatusForbidden)
	}

	itm := postItem(t, prj.ID, getToken(t, pm), ni)
	if !itm.EarlyStart.Equal(projectStart) {
		t.Errorf("EarlyStart = %v; want %v", itm.EarlyStart, projectStart)
	}
	// 3 working days starting Monday finish Wednesday
	wantFinish := projectStart.AddDate(0, 0, 2)
	if !itm.EarlyFinish.Equal(wantFinish) {
		t.Errorf("EarlyFinish = %v; want %v", itm.EarlyFinish, wantFinish)
	}
	if !itm.IsCritical {
		t.Error("expected the only item to be critical")
	}
}

func Test_scheduleApi_timeline(t *testing.T) {
	resetDB(t)

	pm := createUser(t, "Patricia M", "patpm", "pat@test.cd", "", []string{user.RoleOffice}, true)
	prj := createProject(t, "Maison Kintambo", 25_000_000, projectStart)
	token := getToken(t, pm)

	framing := postItem(t, prj.ID, token, schedule.NewItem{Name: "Framing", Kind: schedule.KindTask, Trade: "Carpentry", DurationDays: 5})
	roofing := postItem(t, prj.ID, token, schedule.NewItem{Name: "Roofing", Kind: schedule.KindTask, Trade: "Roofing", DurationDays: 3})
	// creating roofing triggered a recompute; re-read framing for fresh derived fields
	framing = getItem(t, prj.ID, framing.ID, token)

	basePath := fmt.Sprintf("/v1/projects/%s/schedule", prj.ID)
	empty := marchallList(t, []interface{}{}...)

	tests := []httpTest{
		{name: "Auth required", path: basePath, wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Unknown project", path: "/v1/projects/b2f7c9e1-0000-4000-8000-000000000000/schedule", token: token,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
		{name: "Get all", path: basePath, token: token, wantData: marchallList(t, framing, roofing)},
		{name: "search (unknown)", path: basePath + "?search=plumbing", token: token, wantData: empty},
		{name: "search=roof", path: basePath + "?search=roof", token: token, wantData: marchallList(t, roofing)},
		{name: "trade=carpentry", path: basePath + "?trade=Carpentry", token: token, wantData: marchallList(t, framing)},
	}
	for _, tt := range tests {
		tt.method = http.MethodGet
		if tt.wantCode == 0 {
			tt.wantCode = http.StatusOK
		}

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_scheduleApi_dependenciesAndCriticalPath(t *testing.T) {
	resetDB(t)

	pm := createUser(t, "Patricia M", "patpm", "pat@test.cd", "", []string{user.RoleOffice}, true)
	prj := createProject(t, "Maison Kintambo", 25_000_000, projectStart)
	token := getToken(t, pm)

	framing := postItem(t, prj.ID, token, schedule.NewItem{Name: "Framing", Kind: schedule.KindTask, DurationDays: 5})
	roofing := postItem(t, prj.ID, token, schedule.NewItem{Name: "Roofing", Kind: schedule.KindTask, DurationDays: 3})

	depsPath := fmt.Sprintf("/v1/projects/%s/schedule/dependencies", prj.ID)

	// link roofing after framing
	nd := schedule.NewDependency{PredecessorID: framing.ID, SuccessorID: roofing.ID}
	req, rec := newAuthRequest(http.MethodPost, depsPath, token, marchallObj(t, nd))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("adding dependency code = %v; body %s", rec.Code, rec.Body.String())
	}
	var dep schedule.Dependency
	if err := json.Unmarshal(rec.Body.Bytes(), &dep); err != nil {
		t.Fatalf("json.Unmarshal(): %v", err)
	}
	if dep.Type != schedule.DepFinishToStart {
		t.Errorf("Type = %q; want %q", dep.Type, schedule.DepFinishToStart)
	}

	// duplicate edge rejected
	req, rec = newAuthRequest(http.MethodPost, depsPath, token, marchallObj(t, nd))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("duplicate dependency code = %v; want %v", rec.Code, http.StatusBadRequest)
	}

	// reverse edge would close a cycle
	rev := schedule.NewDependency{PredecessorID: roofing.ID, SuccessorID: framing.ID}
	req, rec = newAuthRequest(http.MethodPost, depsPath, token, marchallObj(t, rev))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("cycle dependency code = %v; want %v", rec.Code, http.StatusBadRequest)
	}

	// framing runs Mon-Fri; roofing starts the following Monday
	roofing = getItem(t, prj.ID, roofing.ID, token)
	wantStart := projectStart.AddDate(0, 0, 7)
	if !roofing.EarlyStart.Equal(wantStart) {
		t.Errorf("EarlyStart = %v; want %v", roofing.EarlyStart, wantStart)
	}

	// both items sit on the only chain: all critical
	cpPath := fmt.Sprintf("/v1/projects/%s/schedule/critical-path", prj.ID)
	req, rec = newAuthRequest(http.MethodGet, cpPath, token)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("critical path code = %v; body %s", rec.Code, rec.Body.String())
	}
	var cp []schedule.Item
	if err := json.Unmarshal(rec.Body.Bytes(), &cp); err != nil {
		t.Fatalf("json.Unmarshal(): %v", err)
	}
	if len(cp) != 2 {
		t.Errorf("len(critical path) = %d; want 2", len(cp))
	}
}

func Test_scheduleApi_lookahead(t *testing.T) {
	resetDB(t)

	pm := createUser(t, "Patricia M", "patpm", "pat@test.cd", "", []string{user.RoleOffice}, true)
	prj := createProject(t, "Maison Kintambo", 25_000_000, projectStart)
	token := getToken(t, pm)

	basePath := fmt.Sprintf("/v1/projects/%s/schedule/lookahead", prj.ID)
	getWeeks := func(path string) int {
		t.Helper()
		req, rec := newAuthRequest(http.MethodGet, path, token)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("lookahead code = %v; body %s", rec.Code, rec.Body.String())
		}
		var la schedule.Lookahead
		if err := json.Unmarshal(rec.Body.Bytes(), &la); err != nil {
			t.Fatalf("json.Unmarshal(): %v", err)
		}
		return len(la.Weeks)
	}

	if got := getWeeks(basePath); got != 3 {
		t.Errorf("default weeks = %d; want 3", got)
	}
	if got := getWeeks(basePath + "?weeks=lol"); got != 3 {
		t.Errorf("bad weeks param = %d; want 3", got)
	}
	if got := getWeeks(basePath + "?weeks=1"); got != 1 {
		t.Errorf("weeks=1 = %d; want 1", got)
	}
}

func Test_scheduleApi_moveAndResize(t *testing.T) {
	resetDB(t)

	pm := createUser(t, "Patricia M", "patpm", "pat@test.cd", "", []string{user.RoleOffice}, true)
	prj := createProject(t, "Maison Kintambo", 25_000_000, projectStart)
	token := getToken(t, pm)

	itm := postItem(t, prj.ID, token, schedule.NewItem{Name: "Framing", Kind: schedule.KindTask, DurationDays: 3})

	// drag to the next Wednesday
	target := projectStart.AddDate(0, 0, 9)
	movePath := fmt.Sprintf("/v1/projects/%s/schedule/items/%s/move", prj.ID, itm.ID)
	req, rec := newAuthRequest(http.MethodPost, movePath, token, marchallObj(t, schedule.MoveItem{StartDate: target}))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("move code = %v; body %s", rec.Code, rec.Body.String())
	}
	var moved schedule.Item
	if err := json.Unmarshal(rec.Body.Bytes(), &moved); err != nil {
		t.Fatalf("json.Unmarshal(): %v", err)
	}
	if !moved.EarlyStart.Equal(target) {
		t.Errorf("EarlyStart = %v; want %v", moved.EarlyStart, target)
	}
	if moved.Constraint != schedule.ConstraintStartNoEarlier {
		t.Errorf("Constraint = %q; want %q", moved.Constraint, schedule.ConstraintStartNoEarlier)
	}

	// stretch to 5 working days: Wed..Tue
	resizePath := fmt.Sprintf("/v1/projects/%s/schedule/items/%s/resize", prj.ID, itm.ID)
	req, rec = newAuthRequest(http.MethodPost, resizePath, token, marchallObj(t, schedule.ResizeItem{DurationDays: 5}))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("resize code = %v; body %s", rec.Code, rec.Body.String())
	}
	var resized schedule.Item
	if err := json.Unmarshal(rec.Body.Bytes(), &resized); err != nil {
		t.Fatalf("json.Unmarshal(): %v", err)
	}
	wantFinish := target.AddDate(0, 0, 6)
	if !resized.EarlyFinish.Equal(wantFinish) {
		t.Errorf("EarlyFinish = %v; want %v", resized.EarlyFinish, wantFinish)
	}
}
