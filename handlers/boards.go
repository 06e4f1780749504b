package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/CrowderSoup/kanban-app/database"
	"github.com/CrowderSoup/kanban-app/services"
	"github.com/gorilla/mux"
)

// BoardHandler handles board and list endpoints
type BoardHandler struct {
	boards    *database.BoardService
	positions *database.PositionService
	hub       *services.Hub
}

func NewBoardHandler(boards *database.BoardService, positions *database.PositionService, hub *services.Hub) *BoardHandler {
	return &BoardHandler{
		boards:    boards,
		positions: positions,
		hub:       hub,
	}
}

// CreateBoard handles POST /api/boards
func (h *BoardHandler) CreateBoard(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	board, err := h.boards.CreateBoard(req.Title)
	if err != nil {
		writeError(w, err)
		return
	}
	respondData(w, http.StatusCreated, board)
}

// GetBoard handles GET /api/boards/{id}: the board with its lists and each
// list's active cards in position order.
func (h *BoardHandler) GetBoard(w http.ResponseWriter, r *http.Request) {
	boardID := mux.Vars(r)["id"]

	view, err := h.boards.GetBoard(boardID)
	if err != nil {
		writeError(w, err)
		return
	}
	respondData(w, http.StatusOK, view)
}

// CreateList handles POST /api/boards/{id}/lists
func (h *BoardHandler) CreateList(w http.ResponseWriter, r *http.Request) {
	boardID := mux.Vars(r)["id"]

	var req struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	list, err := h.boards.CreateList(boardID, req.Title)
	if err != nil {
		writeError(w, err)
		return
	}

	h.hub.Invalidate(boardID)
	respondData(w, http.StatusCreated, list)
}

// ReorderLists handles POST /api/boards/{id}/lists/reorder. The ids must be
// a permutation of the board's current lists.
func (h *BoardHandler) ReorderLists(w http.ResponseWriter, r *http.Request) {
	boardID := mux.Vars(r)["id"]

	var req struct {
		IDs []string `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}
	if len(req.IDs) == 0 {
		http.Error(w, "ids must not be empty", http.StatusBadRequest)
		return
	}

	if err := h.positions.ReorderLists(boardID, req.IDs); err != nil {
		writeError(w, err)
		return
	}
	log.Printf("Board %s lists reordered by %s", boardID, requestSubject(r))

	h.hub.Invalidate(boardID)
	respondJSON(w, http.StatusOK, map[string]any{"ok": true})
}
