package database

import "time"

// Checklist kinds. Exactly one workflow checklist may exist per card; it is
// what drives automatic card movement when its items are completed.
const (
	KindOrdinary = "ordinary"
	KindWorkflow = "workflow"
)

// WorkflowChecklistTitle is the default display title given to a card's
// workflow checklist. It is presentation only; the Kind field is what marks
// a checklist as the workflow one.
const WorkflowChecklistTitle = "Workflow Checklist"

type Board struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
}

type List struct {
	ID        string    `json:"id"`
	BoardID   string    `json:"boardId"`
	Title     string    `json:"title"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"createdAt"`
}

type Card struct {
	ID          string    `json:"id"`
	ListID      string    `json:"listId"`
	BoardID     string    `json:"boardId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Position    int       `json:"position"`
	Archived    bool      `json:"archived"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Checklist struct {
	ID     string          `json:"id"`
	CardID string          `json:"cardId"`
	Title  string          `json:"title"`
	Kind   string          `json:"kind"`
	Items  []ChecklistItem `json:"items"`
}

// ChecklistItem is one row of a checklist. For workflow checklists the item
// doubles as a stage descriptor: StageListID points at the list that
// represents the stage, and Position defines the pipeline order.
type ChecklistItem struct {
	ID          string  `json:"id"`
	ChecklistID string  `json:"checklistId"`
	Title       string  `json:"title"`
	Position    int     `json:"position"`
	Completed   bool    `json:"completed"`
	StageListID *string `json:"stageListId,omitempty"`
}

// ListView is a list with its active cards in position order, as served to
// the board page.
type ListView struct {
	List
	Cards []Card `json:"cards"`
}

// BoardView is the full board snapshot the page cache collaborator caches.
type BoardView struct {
	Board
	Lists []ListView `json:"lists"`
}
