// Package storage persists the to-do collection as a whole.
//
// Every backend loads the full ordered collection and rewrites it in one
// piece. Nothing coordinates concurrent writers: overlapping
// load/modify/save cycles can lose updates.
package storage

import (
	"context"
	"errors"

	"todo-calendar/app/models"
)

// ErrParse is wrapped by Load when the stored document exists but cannot be decoded.
var ErrParse = errors.New("malformed todo document")

// Repository loads and saves the whole collection.
type Repository interface {
	Load(ctx context.Context) ([]models.TodoItem, error)
	Save(ctx context.Context, todos []models.TodoItem) error
}
