package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"

	"todo-calendar/app/schema"
	"todo-calendar/app/services"
)

const maxBodySize = 1 << 20

// TodoController handles HTTP requests for todos.
type TodoController struct {
	Service   *services.TodoService
	Validator *schema.Validator
	Logger    *log.Logger
}

// NewTodoController creates a new TodoController.
func NewTodoController(service *services.TodoService, validator *schema.Validator, logger *log.Logger) *TodoController {
	return &TodoController{Service: service, Validator: validator, Logger: logger}
}

// GetTodos handles GET /todos.
func (c *TodoController) GetTodos(w http.ResponseWriter, r *http.Request) {
	todos, err := c.Service.ListAll(r.Context())
	if err != nil {
		c.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, todos)
}

// GetTodosByDate handles GET /todos/{date}.
func (c *TodoController) GetTodosByDate(w http.ResponseWriter, r *http.Request) {
	date := mux.Vars(r)["date"]
	result, err := c.Service.ListByDate(r.Context(), date)
	if err != nil {
		c.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// CreateTodo handles POST /todos.
func (c *TodoController) CreateTodo(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		c.bodyError(w, err)
		return
	}
	todo, err := c.Validator.Decode(body)
	if err != nil {
		c.validationError(w, r, err)
		return
	}

	created, err := c.Service.Create(r.Context(), todo)
	if err != nil {
		c.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, created)
}

// UpdateTodo handles PUT /todos/{todo_id}.
func (c *TodoController) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["todo_id"])
	if err != nil {
		c.validationError(w, r, schema.PathIntError("todo_id"))
		return
	}
	body, err := readBody(w, r)
	if err != nil {
		c.bodyError(w, err)
		return
	}
	todo, err := c.Validator.Decode(body)
	if err != nil {
		c.validationError(w, r, err)
		return
	}

	updated, err := c.Service.Update(r.Context(), id, todo)
	if errors.Is(err, services.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": err.Error()})
		return
	}
	if err != nil {
		c.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteTodo handles DELETE /todos/{todo_id}.
func (c *TodoController) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["todo_id"])
	if err != nil {
		c.validationError(w, r, schema.PathIntError("todo_id"))
		return
	}

	result, err := c.Service.Delete(r.Context(), id)
	if err != nil {
		c.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// readBody reads at most maxBodySize bytes of the request body.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	return io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
}

func (c *TodoController) bodyError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"detail": "Request body too large"})
		return
	}
	http.Error(w, "Invalid request payload", http.StatusBadRequest)
}

func (c *TodoController) validationError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *schema.ValidationError
	if !errors.As(err, &ve) {
		c.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": ve.Details})
}

func (c *TodoController) serverError(w http.ResponseWriter, r *http.Request, err error) {
	c.Logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
