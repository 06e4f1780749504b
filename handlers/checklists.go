package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/CrowderSoup/kanban-app/database"
	"github.com/CrowderSoup/kanban-app/services"
	"github.com/gorilla/mux"
)

// ChecklistHandler handles checklist and checklist-item endpoints.
type ChecklistHandler struct {
	boards   *database.BoardService
	workflow *database.WorkflowService
	hub      *services.Hub
}

func NewChecklistHandler(boards *database.BoardService, workflow *database.WorkflowService, hub *services.Hub) *ChecklistHandler {
	return &ChecklistHandler{
		boards:   boards,
		workflow: workflow,
		hub:      hub,
	}
}

// CreateChecklist handles POST /api/cards/{id}/checklists (ordinary
// checklists only; the workflow checklist is managed through the workflow
// endpoint).
func (h *ChecklistHandler) CreateChecklist(w http.ResponseWriter, r *http.Request) {
	cardID := mux.Vars(r)["id"]

	var req struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	checklist, err := h.boards.CreateChecklist(cardID, req.Title)
	if err != nil {
		writeError(w, err)
		return
	}
	respondData(w, http.StatusCreated, checklist)
}

// AddItem handles POST /api/checklists/{id}/items
func (h *ChecklistHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	checklistID := mux.Vars(r)["id"]

	var req struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	item, err := h.boards.AddChecklistItem(checklistID, req.Title)
	if err != nil {
		writeError(w, err)
		return
	}
	respondData(w, http.StatusCreated, item)
}

// UpdateItem handles PATCH /api/checklist-items/{id}. Completing a workflow
// stage item triggers the card's stage transition inside the same
// transaction as the item update.
func (h *ChecklistHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	itemID := mux.Vars(r)["id"]

	var req struct {
		Title     *string `json:"title"`
		Completed *bool   `json:"completed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}
	if req.Title == nil && req.Completed == nil {
		http.Error(w, "nothing to update", http.StatusBadRequest)
		return
	}

	item, err := h.workflow.UpdateItem(itemID, database.ItemPatch{
		Title:     req.Title,
		Completed: req.Completed,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	// A completed workflow stage may have moved or archived the card; tell
	// the page cache either way.
	if card, err := h.cardForItem(item); err == nil {
		h.hub.Invalidate(card.BoardID)
	}
	respondData(w, http.StatusOK, item)
}

func (h *ChecklistHandler) cardForItem(item *database.ChecklistItem) (*database.Card, error) {
	checklist, err := h.boards.GetChecklist(item.ChecklistID)
	if err != nil {
		return nil, err
	}
	return h.boards.GetCard(checklist.CardID)
}
