package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"unicode/utf16"
	"unicode/utf8"

	"todo-calendar/app/models"
)

// DefaultDataFile is used when no path is configured.
const DefaultDataFile = "todo.json"

// FileRepository keeps the collection in a single JSON file.
type FileRepository struct {
	path string
}

// NewFileRepository creates a repository backed by the file at path.
// The file is created on first save.
func NewFileRepository(path string) *FileRepository {
	if path == "" {
		path = DefaultDataFile
	}
	return &FileRepository{path: path}
}

// Path returns the backing file path.
func (r *FileRepository) Path() string {
	return r.path
}

// Load reads the whole file. A missing file is an empty collection.
func (r *FileRepository) Load(_ context.Context) ([]models.TodoItem, error) {
	b, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []models.TodoItem{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", r.path, err)
	}
	todos := []models.TodoItem{}
	if err := json.Unmarshal(b, &todos); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrParse, r.path, err)
	}
	if todos == nil {
		// a literal "null" document
		todos = []models.TodoItem{}
	}
	return todos, nil
}

// Save overwrites the file with the full collection.
func (r *FileRepository) Save(_ context.Context, todos []models.TodoItem) error {
	if todos == nil {
		todos = []models.TodoItem{}
	}
	b, err := encodeDocument(todos)
	if err != nil {
		return err
	}
	if err := os.WriteFile(r.path, b, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", r.path, err)
	}
	return nil
}

// encodeDocument lays the array out with four-space indentation and
// ASCII-only output, matching files written by earlier versions of the service.
func encodeDocument(todos []models.TodoItem) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(todos); err != nil {
		return nil, fmt.Errorf("json marshal: %w", err)
	}
	return escapeNonASCII(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}

// escapeNonASCII rewrites DEL and every non-ASCII rune as lowercase \uXXXX
// escapes, using surrogate pairs above the BMP. Such runes only occur inside
// JSON strings, so the result is equivalent JSON.
func escapeNonASCII(b []byte) []byte {
	if !needsEscape(b) {
		return b
	}
	out := make([]byte, 0, len(b)+len(b)/2)
	for _, r := range string(b) {
		switch {
		case r < utf8.RuneSelf && r != 0x7f:
			out = append(out, byte(r))
		case r > 0xffff:
			hi, lo := utf16.EncodeRune(r)
			out = fmt.Appendf(out, `\u%04x\u%04x`, hi, lo)
		default:
			out = fmt.Appendf(out, `\u%04x`, r)
		}
	}
	return out
}

func needsEscape(b []byte) bool {
	for _, c := range b {
		if c >= utf8.RuneSelf || c == 0x7f {
			return true
		}
	}
	return false
}
