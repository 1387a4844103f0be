package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/dukerupert/habitgrid/internal/auth"
	"github.com/dukerupert/habitgrid/internal/habit"
	"github.com/dukerupert/habitgrid/internal/metrics"
	"github.com/dukerupert/habitgrid/internal/model"
	"github.com/dukerupert/habitgrid/internal/store"
	"github.com/dukerupert/habitgrid/internal/websocket"
)

type HabitHandler struct {
	habitStore *store.HabitStore
	engine     *habit.Engine
	hub        *websocket.Hub
	logger     *slog.Logger
}

func NewHabitHandler(hs *store.HabitStore, engine *habit.Engine, hub *websocket.Hub, logger *slog.Logger) *HabitHandler {
	return &HabitHandler{habitStore: hs, engine: engine, hub: hub, logger: logger}
}

func (h *HabitHandler) broadcast(userID int64, msg websocket.Message) {
	if h.hub != nil {
		h.hub.BroadcastTo(userID, msg)
	}
}

type habitRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *HabitHandler) List(w http.ResponseWriter, r *http.Request) {
	habits, err := h.habitStore.List(auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("list habits", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list habits"})
		return
	}
	if habits == nil {
		habits = []model.Habit{}
	}
	writeJSON(w, http.StatusOK, habits)
}

func (h *HabitHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	var req habitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	created, err := h.habitStore.Create(userID, req.Name, strings.TrimSpace(req.Description))
	if err != nil {
		h.logger.Error("create habit", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create habit"})
		return
	}

	h.broadcast(userID, websocket.NewMessage("habit", "created", created.ID, nil))

	writeJSON(w, http.StatusCreated, created)
}

func (h *HabitHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	var req habitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	updated, err := h.habitStore.Update(userID, id, req.Name, strings.TrimSpace(req.Description))
	if err != nil {
		h.logger.Error("update habit", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update habit"})
		return
	}
	if updated == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "habit not found"})
		return
	}

	h.broadcast(userID, websocket.NewMessage("habit", "updated", id, nil))

	writeJSON(w, http.StatusOK, updated)
}

// Delete removes the habit. Its events stay behind and keep counting
// toward calendar totals.
func (h *HabitHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	existing, err := h.habitStore.GetByID(userID, id)
	if err != nil {
		h.logger.Error("get habit", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get habit"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "habit not found"})
		return
	}

	if err := h.habitStore.Delete(userID, id); err != nil {
		h.logger.Error("delete habit", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete habit"})
		return
	}

	h.broadcast(userID, websocket.NewMessage("habit", "deleted", id, nil))

	w.WriteHeader(http.StatusNoContent)
}

// Increment appends a completion for the habit on ?day= (default today).
// ?count= records several completions as one event.
func (h *HabitHandler) Increment(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	target, ok := h.lookupHabit(w, r, userID)
	if !ok {
		return
	}

	count := 1
	if raw := r.URL.Query().Get("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "count must be an integer"})
			return
		}
		count = n
	}

	day := h.dayParam(r)
	ev, err := h.engine.RecordCount(userID, target.ID, day, count)
	if err != nil {
		h.writeEngineError(w, "record increment", err)
		return
	}
	metrics.RecordEvent("increment")

	h.broadcast(userID, websocket.NewMessage("habit_event", "created", ev.ID, map[string]any{
		"habit_id": target.ID,
		"date":     day,
	}))

	writeJSON(w, http.StatusCreated, ev)
}

// Decrement removes the most recent completion for the habit on ?day=.
// With nothing recorded it succeeds with deleted=false.
func (h *HabitHandler) Decrement(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	day := h.dayParam(r)
	ev, err := h.engine.RecordDecrement(userID, id, day)
	if err != nil {
		h.writeEngineError(w, "record decrement", err)
		return
	}
	if ev == nil {
		writeJSON(w, http.StatusOK, map[string]any{"deleted": false})
		return
	}
	metrics.RecordEvent("decrement")

	h.broadcast(userID, websocket.NewMessage("habit_event", "deleted", ev.ID, map[string]any{
		"habit_id": id,
		"date":     day,
	}))

	writeJSON(w, http.StatusOK, map[string]any{"deleted": true, "event": ev})
}

// Today lists every habit with its count on ?day= (default today).
func (h *HabitHandler) Today(w http.ResponseWriter, r *http.Request) {
	day := h.dayParam(r)
	rows, err := h.engine.HabitsForDay(auth.UserID(r.Context()), day)
	if err != nil {
		h.writeEngineError(w, "habits for day", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"date": day, "habits": rows})
}

// Day returns the per-habit breakdown of one day.
func (h *HabitHandler) Day(w http.ResponseWriter, r *http.Request) {
	day := r.PathValue("date")
	rows, err := h.engine.DayDetail(auth.UserID(r.Context()), day)
	if err != nil {
		h.writeEngineError(w, "day detail", err)
		return
	}

	total := 0
	for _, row := range rows {
		total += row.Count
	}
	writeJSON(w, http.StatusOK, map[string]any{"date": day, "total": total, "habits": rows})
}

func (h *HabitHandler) lookupHabit(w http.ResponseWriter, r *http.Request, userID int64) (*model.Habit, bool) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return nil, false
	}
	found, err := h.habitStore.GetByID(userID, id)
	if err != nil {
		h.logger.Error("get habit", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get habit"})
		return nil, false
	}
	if found == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "habit not found"})
		return nil, false
	}
	return found, true
}

func (h *HabitHandler) dayParam(r *http.Request) string {
	if day := r.URL.Query().Get("day"); day != "" {
		return day
	}
	return h.engine.Today()
}

func (h *HabitHandler) writeEngineError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, habit.ErrInvalidDate), errors.Is(err, habit.ErrInvalidCount):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		kind := habit.ErrorKind(err)
		metrics.RecordStoreError(kind)
		h.logger.Error(op, "kind", kind, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to " + op})
	}
}
