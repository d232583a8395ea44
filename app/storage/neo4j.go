package storage

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"todo-calendar/app/models"
)

// Neo4jRepository stores the collection as (:Todo) nodes. Node order is
// kept in a position property so Load returns items in append order.
type Neo4jRepository struct {
	driver   neo4j.DriverWithContext
	database string
}

// NewNeo4jRepository creates a repository on an already connected driver.
// An empty database selects the server default.
func NewNeo4jRepository(driver neo4j.DriverWithContext, database string) *Neo4jRepository {
	return &Neo4jRepository{driver: driver, database: database}
}

// Load retrieves every todo node ordered by position.
func (r *Neo4jRepository) Load(ctx context.Context) ([]models.TodoItem, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: r.database,
	})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx,
			"MATCH (t:Todo) "+
				"RETURN t.id AS id, t.title AS title, t.description AS description, "+
				"t.completed AS completed, t.date AS date "+
				"ORDER BY t.position",
			nil,
		)
		if err != nil {
			return nil, err
		}

		todos := []models.TodoItem{}
		for res.Next(ctx) {
			todo, err := todoFromRecord(res.Record())
			if err != nil {
				return nil, err
			}
			todos = append(todos, todo)
		}
		if err := res.Err(); err != nil {
			return nil, err
		}
		return todos, nil
	})
	if err != nil {
		return nil, fmt.Errorf("load todos: %w", err)
	}

	return result.([]models.TodoItem), nil
}

// Save replaces all todo nodes in a single write transaction.
func (r *Neo4jRepository) Save(ctx context.Context, todos []models.TodoItem) error {
	rows := make([]map[string]any, 0, len(todos))
	for i, todo := range todos {
		rows = append(rows, map[string]any{
			"position":    int64(i),
			"id":          int64(todo.ID),
			"title":       todo.Title,
			"description": todo.Description,
			"completed":   todo.Completed,
			"date":        todo.Date,
		})
	}

	session := r.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: r.database,
	})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if _, err := tx.Run(ctx, "MATCH (t:Todo) DETACH DELETE t", nil); err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			return nil, nil
		}
		_, err := tx.Run(ctx,
			"UNWIND $todos AS todo CREATE (t:Todo) SET t = todo",
			map[string]any{"todos": rows},
		)
		return nil, err
	})
	if err != nil {
		return fmt.Errorf("save todos: %w", err)
	}
	return nil
}

func todoFromRecord(record *neo4j.Record) (models.TodoItem, error) {
	id, _, err := neo4j.GetRecordValue[int64](record, "id")
	if err != nil {
		return models.TodoItem{}, fmt.Errorf("%w: id: %v", ErrParse, err)
	}
	title, _, err := neo4j.GetRecordValue[string](record, "title")
	if err != nil {
		return models.TodoItem{}, fmt.Errorf("%w: title: %v", ErrParse, err)
	}
	description, _, err := neo4j.GetRecordValue[string](record, "description")
	if err != nil {
		return models.TodoItem{}, fmt.Errorf("%w: description: %v", ErrParse, err)
	}
	completed, _, err := neo4j.GetRecordValue[bool](record, "completed")
	if err != nil {
		return models.TodoItem{}, fmt.Errorf("%w: completed: %v", ErrParse, err)
	}
	date, _, err := neo4j.GetRecordValue[string](record, "date")
	if err != nil {
		return models.TodoItem{}, fmt.Errorf("%w: date: %v", ErrParse, err)
	}

	return models.TodoItem{
		ID:          int(id),
		Title:       title,
		Description: description,
		Completed:   completed,
		Date:        date,
	}, nil
}
