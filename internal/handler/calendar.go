package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/dukerupert/habitgrid/internal/auth"
	"github.com/dukerupert/habitgrid/internal/habit"
	"github.com/dukerupert/habitgrid/internal/metrics"
)

// CalendarHandler serves the month grid. Each login session has its own
// View, so navigation is remembered between requests and a failed read
// falls back to the last totals that session saw.
type CalendarHandler struct {
	engine *habit.Engine
	views  *habit.ViewCache
	logger *slog.Logger
}

func NewCalendarHandler(engine *habit.Engine, views *habit.ViewCache, logger *slog.Logger) *CalendarHandler {
	return &CalendarHandler{engine: engine, views: views, logger: logger}
}

func (h *CalendarHandler) view(r *http.Request) *habit.View {
	ac, _ := auth.FromContext(r.Context())
	return h.views.Get(ac.SessionID, ac.UserID, h.engine.Now())
}

// Show renders the session's view. Optional ?year=&month= moves the
// displayed month and ?day= moves the selection.
func (h *CalendarHandler) Show(w http.ResponseWriter, r *http.Request) {
	v := h.view(r)
	q := r.URL.Query()

	if q.Get("year") != "" || q.Get("month") != "" {
		year, month, ok := parseYearMonth(q.Get("year"), q.Get("month"))
		if !ok {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "year and month (1-12) are required together"})
			return
		}
		v.ShowMonth(year, month)
	}
	if day := q.Get("day"); day != "" {
		if err := v.Select(day); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
	}

	h.render(w, v)
}

func (h *CalendarHandler) Prev(w http.ResponseWriter, r *http.Request) {
	v := h.view(r)
	v.PrevMonth()
	h.render(w, v)
}

func (h *CalendarHandler) Next(w http.ResponseWriter, r *http.Request) {
	v := h.view(r)
	v.NextMonth()
	h.render(w, v)
}

func (h *CalendarHandler) Today(w http.ResponseWriter, r *http.Request) {
	v := h.view(r)
	v.JumpToToday(h.engine.Now())
	h.render(w, v)
}

func (h *CalendarHandler) Select(w http.ResponseWriter, r *http.Request) {
	v := h.view(r)
	if err := v.Select(r.URL.Query().Get("day")); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	h.render(w, v)
}

// render refreshes and writes the snapshot. A failed refresh still returns
// 200 with the previous totals and stale set.
func (h *CalendarHandler) render(w http.ResponseWriter, v *habit.View) {
	if err := v.Refresh(h.engine); err != nil {
		kind := habit.ErrorKind(err)
		metrics.RecordStoreError(kind)
		h.logger.Warn("calendar refresh", "user_id", v.UserID(), "kind", kind, "error", err)
	}
	writeJSON(w, http.StatusOK, v.Snapshot())
}

func parseYearMonth(rawYear, rawMonth string) (int, time.Month, bool) {
	year, err := strconv.Atoi(rawYear)
	if err != nil || year < 1 || year > 9999 {
		return 0, 0, false
	}
	month, err := strconv.Atoi(rawMonth)
	if err != nil || month < 1 || month > 12 {
		return 0, 0, false
	}
	return year, time.Month(month), true
}
