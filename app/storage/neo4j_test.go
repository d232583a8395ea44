package storage_test

import (
	"context"
	"os/exec"
	"reflect"
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	tcneo4j "github.com/testcontainers/testcontainers-go/modules/neo4j"

	"todo-calendar/app/models"
	"todo-calendar/app/storage"
)

// dockerAvailable checks whether the Docker daemon is reachable.
// testcontainers-go panics when Docker is missing, so probe first.
func dockerAvailable() bool {
	return exec.Command("docker", "info").Run() == nil
}

func newTestNeo4jRepository(t *testing.T) *storage.Neo4jRepository {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping Neo4j integration test in short mode")
	}
	if !dockerAvailable() {
		t.Skip("Docker not available, skipping Neo4j integration tests")
	}

	ctx := context.Background()
	container, err := tcneo4j.Run(ctx, "neo4j:5", tcneo4j.WithoutAuthentication())
	if err != nil {
		t.Skipf("failed to start Neo4j container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	uri, err := container.BoltUrl(ctx)
	if err != nil {
		t.Fatalf("failed to get bolt url: %v", err)
	}
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.NoAuth())
	if err != nil {
		t.Fatalf("failed to create driver: %v", err)
	}
	t.Cleanup(func() { driver.Close(context.Background()) })

	return storage.NewNeo4jRepository(driver, "")
}

func TestNeo4jRepository_SaveLoad(t *testing.T) {
	repo := newTestNeo4jRepository(t)
	ctx := context.Background()

	empty, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("Load() on fresh database = %v, want empty", empty)
	}

	want := []models.TodoItem{
		{ID: 3, Title: "c", Description: "third", Completed: false, Date: "2024-03-01"},
		{ID: 1, Title: "a", Description: "", Completed: true, Date: "2024-01-01"},
		{ID: 3, Title: "dup", Description: "", Completed: false, Date: "2024-03-01"},
	}
	if err := repo.Save(ctx, want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Load() = %#v, want %#v", got, want)
	}

	if err := repo.Save(ctx, want[:1]); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err = repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(got, want[:1]) {
		t.Errorf("Load() after shrink = %#v, want %#v", got, want[:1])
	}
}
