package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterRoutes sets up all API routes on the given (sub)router.
func RegisterRoutes(api *mux.Router, boards *BoardHandler, cards *CardHandler, checklists *ChecklistHandler, ws *WebSocketHandler) {
	// Board routes
	api.HandleFunc("/boards", boards.CreateBoard).Methods(http.MethodPost)
	api.HandleFunc("/boards/{id}", boards.GetBoard).Methods(http.MethodGet)
	api.HandleFunc("/boards/{id}/lists", boards.CreateList).Methods(http.MethodPost)
	api.HandleFunc("/boards/{id}/lists/reorder", boards.ReorderLists).Methods(http.MethodPost)

	// Card routes
	api.HandleFunc("/lists/{id}/cards", cards.CreateCard).Methods(http.MethodPost)
	api.HandleFunc("/cards/move", cards.MoveCard).Methods(http.MethodPost)
	api.HandleFunc("/cards/{id}/archive", cards.SetArchived).Methods(http.MethodPost)
	api.HandleFunc("/cards/{id}/workflow", cards.DefineWorkflow).Methods(http.MethodPost)
	api.HandleFunc("/cards/{id}/workflow", cards.GetWorkflow).Methods(http.MethodGet)

	// Checklist routes
	api.HandleFunc("/cards/{id}/checklists", checklists.CreateChecklist).Methods(http.MethodPost)
	api.HandleFunc("/checklists/{id}/items", checklists.AddItem).Methods(http.MethodPost)
	api.HandleFunc("/checklist-items/{id}", checklists.UpdateItem).Methods(http.MethodPatch)

	// WebSocket route for invalidation events
	api.HandleFunc("/ws", ws.Subscribe)
}
