package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/CrowderSoup/kanban-app/database"
	"github.com/CrowderSoup/kanban-app/services"
	"github.com/gorilla/mux"
)

// CardHandler handles card creation, movement, archival, and the workflow
// endpoints.
type CardHandler struct {
	boards    *database.BoardService
	positions *database.PositionService
	workflow  *database.WorkflowService
	hub       *services.Hub
}

func NewCardHandler(boards *database.BoardService, positions *database.PositionService, workflow *database.WorkflowService, hub *services.Hub) *CardHandler {
	return &CardHandler{
		boards:    boards,
		positions: positions,
		workflow:  workflow,
		hub:       hub,
	}
}

// CreateCard handles POST /api/lists/{id}/cards. New cards append at the
// end of the list's active sequence.
func (h *CardHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	listID := mux.Vars(r)["id"]

	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	card, err := h.positions.CreateCard(listID, req.Title, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}

	h.hub.Invalidate(card.BoardID)
	respondData(w, http.StatusCreated, card)
}

// MoveCard handles POST /api/cards/move. The destination index is clamped
// into the valid range, never rejected; the reindex of both affected lists
// commits atomically.
func (h *CardHandler) MoveCard(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CardID     string `json:"cardId"`
		FromListID string `json:"fromListId"`
		ToListID   string `json:"toListId"`
		ToIndex    int    `json:"toIndex"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}
	if req.CardID == "" || req.FromListID == "" || req.ToListID == "" {
		http.Error(w, "cardId, fromListId, and toListId are required", http.StatusBadRequest)
		return
	}

	if err := h.positions.MoveCard(req.CardID, req.FromListID, req.ToListID, req.ToIndex); err != nil {
		writeError(w, err)
		return
	}
	log.Printf("Card %s moved to %s[%d] by %s", req.CardID, req.ToListID, req.ToIndex, requestSubject(r))

	if card, err := h.boards.GetCard(req.CardID); err == nil {
		h.hub.Invalidate(card.BoardID)
	}
	respondJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// SetArchived handles POST /api/cards/{id}/archive
func (h *CardHandler) SetArchived(w http.ResponseWriter, r *http.Request) {
	cardID := mux.Vars(r)["id"]

	var req struct {
		Archived bool `json:"archived"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	if err := h.positions.SetArchived(cardID, req.Archived); err != nil {
		writeError(w, err)
		return
	}
	log.Printf("Card %s archived=%t by %s", cardID, req.Archived, requestSubject(r))

	if card, err := h.boards.GetCard(cardID); err == nil {
		h.hub.Invalidate(card.BoardID)
	}
	respondJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// DefineWorkflow handles POST /api/cards/{id}/workflow, replacing the
// card's stage sequence wholesale and returning the rebuilt checklist.
func (h *CardHandler) DefineWorkflow(w http.ResponseWriter, r *http.Request) {
	cardID := mux.Vars(r)["id"]

	var req struct {
		ListIDs []string `json:"listIds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	checklist, err := h.workflow.DefineWorkflow(cardID, req.ListIDs)
	if err != nil {
		writeError(w, err)
		return
	}
	log.Printf("Workflow for card %s defined by %s", cardID, requestSubject(r))

	if card, err := h.boards.GetCard(cardID); err == nil {
		h.hub.Invalidate(card.BoardID)
	}
	respondData(w, http.StatusOK, checklist)
}

// GetWorkflow handles GET /api/cards/{id}/workflow
func (h *CardHandler) GetWorkflow(w http.ResponseWriter, r *http.Request) {
	cardID := mux.Vars(r)["id"]

	checklist, err := h.workflow.GetWorkflow(cardID)
	if err != nil {
		writeError(w, err)
		return
	}
	respondData(w, http.StatusOK, checklist)
}
