package handler

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dukerupert/habitgrid/internal/habit"
	"github.com/dukerupert/habitgrid/internal/store"
)

func newCalendarHandler(t *testing.T) (*CalendarHandler, *sql.DB, int64) {
	t.Helper()
	db := setupHandlerDB(t)
	userID := createUser(t, db, "cal@example.com")
	h := NewCalendarHandler(newEngine(db), habit.NewViewCache(16, time.Hour), discardLogger)
	return h, db, userID
}

func seedEvent(t *testing.T, db *sql.DB, userID int64, day string) {
	t.Helper()
	habits := store.NewHabitStore(db)
	list, _ := habits.List(userID)
	var habitID int64
	if len(list) == 0 {
		created, err := habits.Create(userID, "Walk", "")
		if err != nil {
			t.Fatalf("create habit: %v", err)
		}
		habitID = created.ID
	} else {
		habitID = list[0].ID
	}
	if _, err := store.NewHabitEventStore(db).Create(userID, habitID, day, 1); err != nil {
		t.Fatalf("create event: %v", err)
	}
}

func cellTotal(s habit.Snapshot, date string) int {
	for _, c := range s.Cells {
		if c.Date == date {
			return c.Total
		}
	}
	return -1
}

func TestCalendarShowMonth(t *testing.T) {
	h, db, userID := newCalendarHandler(t)
	seedEvent(t, db, userID, "2024-03-05")
	seedEvent(t, db, userID, "2024-03-05")

	rec := httptest.NewRecorder()
	h.Show(rec, asUser(httptest.NewRequest("GET", "/api/calendar?year=2024&month=3&day=2024-03-05", nil), userID, 7))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}

	var snap habit.Snapshot
	decodeBody(t, rec, &snap)
	if snap.Year != 2024 || snap.Month != 3 || snap.Selected != "2024-03-05" {
		t.Errorf("snapshot = %d-%d sel %s", snap.Year, snap.Month, snap.Selected)
	}
	if got := cellTotal(snap, "2024-03-05"); got != 2 {
		t.Errorf("total on 5th = %d, want 2", got)
	}
	if len(snap.Detail) != 1 || snap.Detail[0].Count != 2 {
		t.Errorf("detail = %+v", snap.Detail)
	}
	if snap.Stale {
		t.Error("snapshot should not be stale")
	}
}

func TestCalendarNavigationPersists(t *testing.T) {
	h, _, userID := newCalendarHandler(t)

	h.Show(httptest.NewRecorder(), asUser(httptest.NewRequest("GET", "/api/calendar?year=2024&month=1", nil), userID, 7))

	rec := httptest.NewRecorder()
	h.Prev(rec, asUser(httptest.NewRequest("POST", "/api/calendar/prev", nil), userID, 7))
	var snap habit.Snapshot
	decodeBody(t, rec, &snap)
	if snap.Year != 2023 || snap.Month != 12 {
		t.Errorf("after prev = %d-%d, want 2023-12", snap.Year, snap.Month)
	}

	rec = httptest.NewRecorder()
	h.Next(rec, asUser(httptest.NewRequest("POST", "/api/calendar/next", nil), userID, 7))
	decodeBody(t, rec, &snap)
	if snap.Year != 2024 || snap.Month != 1 {
		t.Errorf("after next = %d-%d, want 2024-1", snap.Year, snap.Month)
	}

	// another session starts on the current month
	rec = httptest.NewRecorder()
	h.Show(rec, asUser(httptest.NewRequest("GET", "/api/calendar", nil), userID, 8))
	decodeBody(t, rec, &snap)
	now := time.Now().UTC()
	if snap.Year != now.Year() || snap.Month != int(now.Month()) {
		t.Errorf("new session = %d-%d, want current month", snap.Year, snap.Month)
	}
}

func TestCalendarSelectAndToday(t *testing.T) {
	h, _, userID := newCalendarHandler(t)

	rec := httptest.NewRecorder()
	h.Select(rec, asUser(httptest.NewRequest("POST", "/api/calendar/select?day=2024-02-29", nil), userID, 7))
	var snap habit.Snapshot
	decodeBody(t, rec, &snap)
	if snap.Selected != "2024-02-29" || snap.Month != 2 {
		t.Errorf("select = %+v", snap)
	}

	rec = httptest.NewRecorder()
	h.Today(rec, asUser(httptest.NewRequest("POST", "/api/calendar/today", nil), userID, 7))
	decodeBody(t, rec, &snap)
	if snap.Selected != time.Now().UTC().Format(habit.DateLayout) {
		t.Errorf("today selected = %s", snap.Selected)
	}
}

func TestCalendarBadInput(t *testing.T) {
	h, _, userID := newCalendarHandler(t)

	tests := []struct {
		name string
		req  *http.Request
		call func(http.ResponseWriter, *http.Request)
	}{
		{"month out of range", httptest.NewRequest("GET", "/api/calendar?year=2024&month=13", nil), h.Show},
		{"month without year", httptest.NewRequest("GET", "/api/calendar?month=3", nil), h.Show},
		{"bad day", httptest.NewRequest("GET", "/api/calendar?day=2024-02-30", nil), h.Show},
		{"select missing day", httptest.NewRequest("POST", "/api/calendar/select", nil), h.Select},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.call(rec, asUser(tt.req, userID, 7))
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestCalendarStaleKeepsTotals(t *testing.T) {
	h, db, userID := newCalendarHandler(t)
	seedEvent(t, db, userID, "2024-03-05")

	rec := httptest.NewRecorder()
	h.Show(rec, asUser(httptest.NewRequest("GET", "/api/calendar?year=2024&month=3&day=2024-03-05", nil), userID, 7))
	var snap habit.Snapshot
	decodeBody(t, rec, &snap)
	if cellTotal(snap, "2024-03-05") != 1 {
		t.Fatalf("initial total = %d", cellTotal(snap, "2024-03-05"))
	}

	db.Close()

	rec = httptest.NewRecorder()
	h.Show(rec, asUser(httptest.NewRequest("GET", "/api/calendar", nil), userID, 7))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 with stale data", rec.Code)
	}
	decodeBody(t, rec, &snap)
	if !snap.Stale {
		t.Error("expected stale snapshot after store failure")
	}
	if got := cellTotal(snap, "2024-03-05"); got != 1 {
		t.Errorf("total = %d, want last good value 1", got)
	}
	if len(snap.Detail) != 0 {
		t.Errorf("detail = %+v, want empty on failure", snap.Detail)
	}
}
