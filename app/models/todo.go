package models

// DeletedMessage is returned by every delete, whether or not an item matched.
const DeletedMessage = "To-Do item deleted"

// TodoItem represents a single to-do entry on a calendar day.
// Date is kept as YYYY-MM-DD text and never parsed.
type TodoItem struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
	Date        string `json:"date"`
}

// DateTodos groups the items stored for one date.
type DateTodos struct {
	Date  string     `json:"date"`
	Todos []TodoItem `json:"todos"`
}

// DeleteResult is the confirmation payload of a delete.
type DeleteResult struct {
	Message string `json:"message"`
}
