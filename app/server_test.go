package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"todo-calendar/app/config"
	"todo-calendar/app/logging"
	"todo-calendar/app/storage"
)

// lockedBuffer lets the test read what server goroutines log.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestBuildHandler_EndToEnd(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.DataFile = filepath.Join(t.TempDir(), "todo.json")

	var logs lockedBuffer
	logger := logging.NewWithWriter(&logs, logging.Options{Level: "info"})
	handler, err := buildHandler(logger, storage.NewFileRepository(cfg.Storage.DataFile), cfg)
	if err != nil {
		t.Fatalf("buildHandler() error = %v", err)
	}
	srv := httptest.NewServer(handler)
	defer srv.Close()

	post, err := http.Post(srv.URL+"/todos", "application/json",
		strings.NewReader(`{"id": 1, "title": "A", "description": "", "completed": false, "date": "2024-01-01"}`))
	if err != nil {
		t.Fatal(err)
	}
	post.Body.Close()
	if post.StatusCode != http.StatusOK {
		t.Fatalf("POST /todos = %d", post.StatusCode)
	}

	body := get(t, srv.URL+"/todos/2024-01-01")
	if !strings.Contains(body, `"title":"A"`) {
		t.Errorf("GET /todos/2024-01-01 = %s", body)
	}

	index := get(t, srv.URL+"/")
	if !strings.Contains(index, "To-Do Calendar") {
		t.Errorf("GET / did not serve the embedded page")
	}
	if js := get(t, srv.URL+"/static/app.js"); !strings.Contains(js, "fetch(") {
		t.Errorf("GET /static/app.js did not serve the embedded script")
	}

	missing, err := http.Get(srv.URL + "/does-not-exist")
	if err != nil {
		t.Fatal(err)
	}
	missing.Body.Close()

	metrics := get(t, srv.URL+"/metrics")
	if !strings.Contains(metrics, `todo_http_requests_total{method="POST",route="/todos",status="200"} 1`) {
		t.Errorf("/metrics missing POST counter:\n%s", metrics)
	}
	if !strings.Contains(metrics, `todo_http_requests_total{method="GET",route="unmatched",status="404"} 1`) {
		t.Errorf("/metrics missing unmatched counter:\n%s", metrics)
	}

	if !strings.Contains(logs.String(), `"POST /todos HTTP/1.1" 200`) {
		t.Errorf("access log missing POST line:\n%s", logs.String())
	}
}

func TestNewApplication_FileBackend(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.DataFile = filepath.Join(t.TempDir(), "todo.json")
	cfg.Logging.Sink = "127.0.0.1:1"

	app, err := newApplication(context.Background(), cfg)
	if err != nil {
		t.Fatalf("newApplication() error = %v", err)
	}
	defer app.Close(context.Background())

	if app.sink == nil || app.sink.Addr() != "127.0.0.1:1" {
		t.Errorf("sink = %+v, want one for 127.0.0.1:1", app.sink)
	}
	if app.driver != nil {
		t.Error("file backend opened a neo4j driver")
	}

	rec := httptest.NewRecorder()
	app.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/log-test", nil))
	if !strings.Contains(rec.Body.String(), `"sink":"127.0.0.1:1"`) {
		t.Errorf("GET /log-test = %s", rec.Body.String())
	}
}

func TestRootCmd_RejectsUnknownBackend(t *testing.T) {
	cmd := rootCmd()
	cmd.SetArgs([]string{"--backend", "sqlite"})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)

	err := cmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "sqlite") {
		t.Errorf("Execute() error = %v, want unknown backend", err)
	}
}

func get(t *testing.T, url string) string {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET %s = %d %s", url, resp.StatusCode, b)
	}
	return string(b)
}
