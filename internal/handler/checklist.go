package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/habitgrid/internal/auth"
	"github.com/dukerupert/habitgrid/internal/model"
	"github.com/dukerupert/habitgrid/internal/store"
	"github.com/dukerupert/habitgrid/internal/websocket"
)

type ChecklistHandler struct {
	store  *store.ChecklistStore
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewChecklistHandler(s *store.ChecklistStore, hub *websocket.Hub, logger *slog.Logger) *ChecklistHandler {
	return &ChecklistHandler{store: s, hub: hub, logger: logger}
}

func (h *ChecklistHandler) broadcast(userID int64, msg websocket.Message) {
	if h.hub != nil {
		h.hub.BroadcastTo(userID, msg)
	}
}

func (h *ChecklistHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.List(auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("list checklist", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list checklist"})
		return
	}
	if items == nil {
		items = []model.ChecklistItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *ChecklistHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "text is required"})
		return
	}

	item, err := h.store.Create(userID, req.Text)
	if err != nil {
		h.logger.Error("create checklist item", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create item"})
		return
	}

	h.broadcast(userID, websocket.NewMessage("checklist_item", "created", item.ID, nil))

	writeJSON(w, http.StatusCreated, item)
}

func (h *ChecklistHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	item, err := h.store.ToggleChecked(userID, id)
	if err != nil {
		h.logger.Error("toggle checklist item", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to toggle item"})
		return
	}
	if item == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "item not found"})
		return
	}

	h.broadcast(userID, websocket.NewMessage("checklist_item", "updated", id, map[string]any{"checked": item.Checked}))

	writeJSON(w, http.StatusOK, item)
}

func (h *ChecklistHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	existing, err := h.store.GetByID(userID, id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get item"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "item not found"})
		return
	}

	if err := h.store.Delete(userID, id); err != nil {
		h.logger.Error("delete checklist item", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete item"})
		return
	}

	h.broadcast(userID, websocket.NewMessage("checklist_item", "deleted", id, nil))

	w.WriteHeader(http.StatusNoContent)
}
