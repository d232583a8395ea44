package services

import (
	"context"
	"errors"

	"todo-calendar/app/models"
	"todo-calendar/app/storage"
)

// ErrNotFound is returned by Update when no item has the requested id.
var ErrNotFound = errors.New("To-Do item not found")

// TodoService handles todo-related operations.
// Each call loads the whole collection from the repository; writes save it back
// in full. Calls are not serialised against each other.
type TodoService struct {
	repo storage.Repository
}

// NewTodoService creates a new instance of TodoService.
func NewTodoService(repo storage.Repository) *TodoService {
	return &TodoService{repo: repo}
}

// ListAll returns every stored item in storage order.
func (s *TodoService) ListAll(ctx context.Context) ([]models.TodoItem, error) {
	return s.repo.Load(ctx)
}

// ListByDate returns the items whose date equals date exactly.
func (s *TodoService) ListByDate(ctx context.Context, date string) (models.DateTodos, error) {
	todos, err := s.repo.Load(ctx)
	if err != nil {
		return models.DateTodos{}, err
	}

	matched := []models.TodoItem{}
	for _, todo := range todos {
		if todo.Date == date {
			matched = append(matched, todo)
		}
	}
	return models.DateTodos{Date: date, Todos: matched}, nil
}

// Create appends item as given. Ids are not checked for collisions.
func (s *TodoService) Create(ctx context.Context, item models.TodoItem) (models.TodoItem, error) {
	todos, err := s.repo.Load(ctx)
	if err != nil {
		return models.TodoItem{}, err
	}

	todos = append(todos, item)
	if err := s.repo.Save(ctx, todos); err != nil {
		return models.TodoItem{}, err
	}
	return item, nil
}

// Update replaces the first item whose id equals id with item, id included.
func (s *TodoService) Update(ctx context.Context, id int, item models.TodoItem) (models.TodoItem, error) {
	todos, err := s.repo.Load(ctx)
	if err != nil {
		return models.TodoItem{}, err
	}

	for i := range todos {
		if todos[i].ID != id {
			continue
		}
		todos[i] = item
		if err := s.repo.Save(ctx, todos); err != nil {
			return models.TodoItem{}, err
		}
		return item, nil
	}
	return models.TodoItem{}, ErrNotFound
}

// Delete removes every item whose id equals id. The collection is saved
// and the same confirmation returned even when nothing matched.
func (s *TodoService) Delete(ctx context.Context, id int) (models.DeleteResult, error) {
	todos, err := s.repo.Load(ctx)
	if err != nil {
		return models.DeleteResult{}, err
	}

	kept := todos[:0]
	for _, todo := range todos {
		if todo.ID != id {
			kept = append(kept, todo)
		}
	}
	if err := s.repo.Save(ctx, kept); err != nil {
		return models.DeleteResult{}, err
	}
	return models.DeleteResult{Message: models.DeletedMessage}, nil
}
