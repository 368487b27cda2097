package servertimetable

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Pjt727/cample/timetable"
	"github.com/Pjt727/cample/timetable/timetabletest"
)

var kst = time.FixedZone("KST", 9*60*60)

type serverFixture struct {
	memory *timetabletest.Memory
	hub    *Hub
	router http.Handler
}

func newServerFixture(t *testing.T, limiter *StudentLimiter) serverFixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	memory := timetabletest.NewMemory()
	three, two := 3, 2
	memory.AddCourse(
		timetable.Course{ID: 1, SemesterCode: "2025-2", Code: "MTH101", Name: "Algebra", Professor: "Kim", Section: "01", Credit: &three},
		timetable.WeeklySlot{Day: time.Monday, Start: timetable.NewTimeOfDay(13, 0), End: timetable.NewTimeOfDay(15, 0), Room: "B-101"},
	)
	memory.AddCourse(
		timetable.Course{ID: 2, SemesterCode: "2025-2", Code: "PHY101", Name: "Physics", Credit: &two},
		timetable.WeeklySlot{Day: time.Monday, Start: timetable.NewTimeOfDay(14, 0), End: timetable.NewTimeOfDay(16, 0)},
	)
	memory.AddCourse(
		timetable.Course{ID: 3, SemesterCode: "2025-1", Code: "CHM101", Name: "Chemistry"},
		timetable.WeeklySlot{Day: time.Friday, Start: timetable.NewTimeOfDay(9, 0), End: timetable.NewTimeOfDay(10, 0)},
	)

	semester := timetable.Semester{
		Code:     "2025-2",
		Start:    time.Date(2025, time.September, 1, 0, 0, 0, 0, kst),
		End:      time.Date(2025, time.December, 19, 0, 0, 0, 0, kst),
		Location: kst,
	}
	hub := NewHub([]string{"*"}, logger)
	t.Cleanup(hub.Close)
	service := timetable.NewService(memory, semester, timetable.WithNotifier(hub), timetable.WithLogger(logger))
	if limiter == nil {
		limiter = NewStudentLimiter(1000, 1000)
	}

	r := chi.NewRouter()
	r.Route("/timetable", func(r chi.Router) {
		PopulateTimetableRoutes(&r, service, hub, limiter, logger)
	})
	return serverFixture{memory: memory, hub: hub, router: r}
}

func (f serverFixture) do(t *testing.T, method, path string, student int64, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if student != 0 {
		req.Header.Set(StudentHeader, strconv.FormatInt(student, 10))
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("could not decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestRequiresStudent(t *testing.T) {
	f := newServerFixture(t, nil)
	for _, header := range []string{"", "abc", "-4", "0"} {
		req := httptest.NewRequest(http.MethodGet, "/timetable/", nil)
		if header != "" {
			req.Header.Set(StudentHeader, header)
		}
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("header %q gave %d", header, rec.Code)
		}
	}
}

func TestTryAddAndConflict(t *testing.T) {
	f := newServerFixture(t, nil)

	rec := f.do(t, http.MethodPost, "/timetable/items/try-add", 5, `{"courseId": 1}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	added := decodeBody[tryAddResponse](t, rec)
	if added.Conflict || added.ItemID == nil || added.CreatedEventCount != 16 {
		t.Fatalf("unexpected response %+v", added)
	}

	rec = f.do(t, http.MethodPost, "/timetable/items/try-add", 5, `{"courseId": 2}`)
	conflict := decodeBody[tryAddResponse](t, rec)
	if !conflict.Conflict || conflict.ItemID != nil || len(conflict.Conflicts) != 1 {
		t.Fatalf("expected a conflict got %+v", conflict)
	}
	want := conflictResponse{
		ExistingItemID:     *added.ItemID,
		ExistingCourseID:   1,
		ExistingCourseName: "Algebra",
		Day:                "MON",
		Existing:           "13:00-15:00",
		Requested:          "14:00-16:00",
	}
	if conflict.Conflicts[0] != want {
		t.Errorf("conflict %+v, want %+v", conflict.Conflicts[0], want)
	}
	if len(f.memory.Enrollments()) != 1 {
		t.Errorf("a conflict must not add anything")
	}
}

func TestTryAddErrors(t *testing.T) {
	f := newServerFixture(t, nil)
	if rec := f.do(t, http.MethodPost, "/timetable/items/try-add", 5, `{"courseId": 1}`); rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}

	tests := []struct {
		name string
		body string
		want int
	}{
		{"duplicate", `{"courseId": 1}`, http.StatusConflict},
		{"unknown course", `{"courseId": 99}`, http.StatusNotFound},
		{"other semester", `{"courseId": 3}`, http.StatusNotFound},
		{"missing course", `{}`, http.StatusBadRequest},
		{"unknown field", `{"courseId": 2, "extra": true}`, http.StatusBadRequest},
		{"not json", `courseId=2`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := f.do(t, http.MethodPost, "/timetable/items/try-add", 5, tt.body); rec.Code != tt.want {
				t.Errorf("status %d, want %d: %s", rec.Code, tt.want, rec.Body.String())
			}
		})
	}

	req := httptest.NewRequest(http.MethodPost, "/timetable/items/try-add", strings.NewReader(`{"courseId": 2}`))
	req.Header.Set(StudentHeader, "5")
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnsupportedMediaType {
		t.Errorf("content type was not enforced: %d", rec.Code)
	}
}

func TestResolve(t *testing.T) {
	f := newServerFixture(t, nil)
	first := decodeBody[tryAddResponse](t, f.do(t, http.MethodPost, "/timetable/items/try-add", 5, `{"courseId": 1}`))

	rec := f.do(t, http.MethodPost, "/timetable/items/resolve", 5, `{"courseId": 2, "resolution": "keep"}`)
	kept := decodeBody[resolveResponse](t, rec)
	if kept.Applied || kept.ItemID != nil || kept.RemovedItemIDs == nil || len(kept.RemovedItemIDs) != 0 {
		t.Fatalf("keep should change nothing %+v (%s)", kept, rec.Body.String())
	}

	rec = f.do(t, http.MethodPost, "/timetable/items/resolve", 5, `{"courseId": 2, "resolution": "REPLACE"}`)
	replaced := decodeBody[resolveResponse](t, rec)
	if !replaced.Applied || replaced.ItemID == nil {
		t.Fatalf("replace was not applied %+v", replaced)
	}
	if len(replaced.RemovedItemIDs) != 1 || replaced.RemovedItemIDs[0] != *first.ItemID {
		t.Errorf("removed %v", replaced.RemovedItemIDs)
	}
	if replaced.CreatedEventCount != 16 || replaced.DeletedEventCount != 16 {
		t.Errorf("event counts %+v", replaced)
	}

	if rec := f.do(t, http.MethodPost, "/timetable/items/resolve", 5, `{"courseId": 1, "resolution": "MAYBE"}`); rec.Code != http.StatusBadRequest {
		t.Errorf("unknown resolution gave %d", rec.Code)
	}
}

func TestRemove(t *testing.T) {
	f := newServerFixture(t, nil)
	added := decodeBody[tryAddResponse](t, f.do(t, http.MethodPost, "/timetable/items/try-add", 5, `{"courseId": 1}`))
	path := "/timetable/items/" + added.ItemID.String()

	if rec := f.do(t, http.MethodDelete, path, 6, ""); rec.Code != http.StatusForbidden {
		t.Errorf("another student got %d", rec.Code)
	}
	if rec := f.do(t, http.MethodDelete, "/timetable/items/not-a-uuid", 5, ""); rec.Code != http.StatusBadRequest {
		t.Errorf("bad id got %d", rec.Code)
	}
	if rec := f.do(t, http.MethodDelete, "/timetable/items/"+uuid.NewString(), 5, ""); rec.Code != http.StatusNotFound {
		t.Errorf("unknown id got %d", rec.Code)
	}

	rec := f.do(t, http.MethodDelete, path, 5, "")
	removed := decodeBody[removeResponse](t, rec)
	if !removed.Ok || removed.DeletedEventCount != 16 {
		t.Errorf("unexpected response %+v", removed)
	}
	if len(f.memory.Events()) != 0 {
		t.Errorf("%d events left behind", len(f.memory.Events()))
	}
}

func TestSinkFailureIsUnavailable(t *testing.T) {
	f := newServerFixture(t, nil)
	f.memory.FailCreateAfter(2)
	if rec := f.do(t, http.MethodPost, "/timetable/items/try-add", 5, `{"courseId": 1}`); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status %d", rec.Code)
	}
	if len(f.memory.Enrollments()) != 0 || len(f.memory.Events()) != 0 {
		t.Error("failed add left state behind")
	}
}

func TestGetTimetableCreditsAndExport(t *testing.T) {
	f := newServerFixture(t, nil)
	f.do(t, http.MethodPost, "/timetable/items/try-add", 5, `{"courseId": 1}`)

	tt := decodeBody[timetableResponse](t, f.do(t, http.MethodGet, "/timetable/", 5, ""))
	if tt.Semester != "2025-2" || len(tt.Courses) != 1 {
		t.Fatalf("timetable %+v", tt)
	}
	course := tt.Courses[0]
	if course.Name != "Algebra" || course.CourseCode != "MTH101" || len(course.Times) != 1 {
		t.Errorf("course %+v", course)
	}
	if got := course.Times[0]; got.Day != "MON" || got.Start != "13:00" || got.End != "15:00" || got.Room != "B-101" {
		t.Errorf("times %+v", got)
	}

	credits := decodeBody[creditsResponse](t, f.do(t, http.MethodGet, "/timetable/credits", 5, ""))
	if credits.TotalCredits != 3 || credits.Semester != "2025-2" {
		t.Errorf("credits %+v", credits)
	}
	empty := decodeBody[creditsResponse](t, f.do(t, http.MethodGet, "/timetable/credits", 6, ""))
	if empty.TotalCredits != 0 {
		t.Errorf("a student without courses has %d credits", empty.TotalCredits)
	}

	rec := f.do(t, http.MethodGet, "/timetable/export.ics", 5, "")
	if rec.Code != http.StatusOK || !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/calendar") {
		t.Fatalf("status %d content type %q", rec.Code, rec.Header().Get("Content-Type"))
	}
	body := rec.Body.String()
	if !strings.Contains(body, "BEGIN:VCALENDAR") || strings.Count(body, "BEGIN:VEVENT") != 1 {
		t.Errorf("unexpected calendar %s", body)
	}
}

func TestRateLimit(t *testing.T) {
	f := newServerFixture(t, NewStudentLimiter(0.001, 1))
	if rec := f.do(t, http.MethodDelete, "/timetable/items/not-a-uuid", 5, ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("first request got %d", rec.Code)
	}
	rec := f.do(t, http.MethodDelete, "/timetable/items/not-a-uuid", 5, "")
	if rec.Code != http.StatusTooManyRequests || rec.Header().Get("Retry-After") == "" {
		t.Errorf("second request got %d", rec.Code)
	}
	if rec := f.do(t, http.MethodDelete, "/timetable/items/not-a-uuid", 6, ""); rec.Code != http.StatusBadRequest {
		t.Errorf("students should not share a bucket, got %d", rec.Code)
	}
	if rec := f.do(t, http.MethodGet, "/timetable/credits", 5, ""); rec.Code != http.StatusOK {
		t.Errorf("reads are not limited, got %d", rec.Code)
	}
}

func TestWatchReceivesChanges(t *testing.T) {
	f := newServerFixture(t, nil)
	srv := httptest.NewServer(f.router)
	defer srv.Close()

	header := http.Header{}
	header.Set(StudentHeader, "5")
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/timetable/watch", header)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for f.hub.Watchers(5) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("watcher was never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	// another student's change must not show up
	f.do(t, http.MethodPost, "/timetable/items/try-add", 6, `{"courseId": 2}`)
	f.do(t, http.MethodPost, "/timetable/items/try-add", 5, `{"courseId": 1}`)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var change timetable.Change
	if err := conn.ReadJSON(&change); err != nil {
		t.Fatal(err)
	}
	if change.Kind != timetable.ChangeAdded || change.StudentID != 5 || change.CourseID != 1 || change.EventCount != 16 {
		t.Errorf("unexpected change %+v", change)
	}
}
