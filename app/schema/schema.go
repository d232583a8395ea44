// Package schema validates TodoItem request bodies against a fixed JSON Schema.
package schema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"todo-calendar/app/models"
)

//go:embed todo.schema.json
var todoSchemaJSON []byte

const todoSchemaURL = "todo.schema.json"

// fields lists the TodoItem properties in declaration order.
var fields = []string{"id", "title", "description", "completed", "date"}

var fieldTypes = map[string]string{
	"id":          "int_type",
	"title":       "string_type",
	"description": "string_type",
	"completed":   "bool_type",
	"date":        "string_type",
}

var typeMessages = map[string]string{
	"missing":               "Field required",
	"int_type":              "Input should be a valid integer",
	"int_parsing":           "Input should be a valid integer, unable to parse string as an integer",
	"string_type":           "Input should be a valid string",
	"bool_type":             "Input should be a valid boolean",
	"bool_parsing":          "Input should be a valid boolean, unable to interpret input",
	"model_attributes_type": "Input should be a valid dictionary or object to extract fields from",
	"json_invalid":          "JSON decode error",
}

// FieldError describes one failing location in a request.
type FieldError struct {
	Loc  []any  `json:"loc"`
	Msg  string `json:"msg"`
	Type string `json:"type"`
}

// ValidationError is returned when a request does not match the schema.
type ValidationError struct {
	Details []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Details))
	for _, d := range e.Details {
		loc := make([]string, 0, len(d.Loc))
		for _, l := range d.Loc {
			loc = append(loc, fmt.Sprint(l))
		}
		parts = append(parts, fmt.Sprintf("%s: %s", strings.Join(loc, "."), d.Msg))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func newFieldError(kind string, loc ...any) FieldError {
	return FieldError{Loc: loc, Msg: typeMessages[kind], Type: kind}
}

// PathIntError reports a path parameter that is not an integer.
func PathIntError(name string) *ValidationError {
	return &ValidationError{Details: []FieldError{newFieldError("int_parsing", "path", name)}}
}

// Validator checks request bodies against the compiled TodoItem schema.
type Validator struct {
	schema *jsonschema.Schema
}

// NewValidator compiles the embedded schema.
func NewValidator() (*Validator, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(todoSchemaURL, bytes.NewReader(todoSchemaJSON)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	sch, err := compiler.Compile(todoSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Validator{schema: sch}, nil
}

// Decode validates body and converts it into a TodoItem. Unknown
// properties are ignored. Numeric strings are accepted for id, and
// true/false words, "1"/"0" and 1/0 for completed.
func (v *Validator) Decode(body []byte) (models.TodoItem, error) {
	inst, err := decodeInstance(body)
	if err != nil {
		return models.TodoItem{}, &ValidationError{Details: []FieldError{newFieldError("json_invalid", "body")}}
	}

	result := &ValidationError{}
	if err := v.schema.Validate(inst); err != nil {
		ve, ok := err.(*jsonschema.ValidationError)
		if !ok {
			return models.TodoItem{}, err
		}
		collectErrors(result, ve, inst)
	}

	obj, ok := inst.(map[string]any)
	if !ok {
		return models.TodoItem{}, result
	}

	var item models.TodoItem
	if raw, present := obj["id"]; present && !result.hasField("id") {
		id, kind := coerceInt(raw)
		if kind != "" {
			result.Details = append(result.Details, newFieldError(kind, "body", "id"))
		}
		item.ID = id
	}
	if raw, present := obj["completed"]; present && !result.hasField("completed") {
		completed, kind := coerceBool(raw)
		if kind != "" {
			result.Details = append(result.Details, newFieldError(kind, "body", "completed"))
		}
		item.Completed = completed
	}
	if len(result.Details) > 0 {
		return models.TodoItem{}, result
	}

	item.Title = obj["title"].(string)
	item.Description = obj["description"].(string)
	item.Date = obj["date"].(string)
	return item, nil
}

// decodeInstance parses exactly one JSON value, keeping numbers as json.Number
// as the validator expects.
func decodeInstance(body []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var inst any
	if err := dec.Decode(&inst); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after JSON value")
	}
	return inst, nil
}

func (e *ValidationError) hasField(name string) bool {
	for _, d := range e.Details {
		if len(d.Loc) == 2 && d.Loc[0] == "body" && d.Loc[1] == name {
			return true
		}
	}
	return false
}

// collectErrors flattens the leaf causes of a schema error into field errors.
func collectErrors(result *ValidationError, err *jsonschema.ValidationError, inst any) {
	if len(err.Causes) > 0 {
		for _, cause := range err.Causes {
			collectErrors(result, cause, inst)
		}
		return
	}

	keyword := err.KeywordLocation
	switch {
	case strings.HasSuffix(keyword, "/required"):
		obj, _ := inst.(map[string]any)
		for _, name := range fields {
			if _, present := obj[name]; !present {
				result.Details = append(result.Details, newFieldError("missing", "body", name))
			}
		}
	case keyword == "/type":
		result.Details = append(result.Details, newFieldError("model_attributes_type", "body"))
	default:
		name := strings.TrimPrefix(err.InstanceLocation, "#")
		name = strings.TrimPrefix(name, "/")
		kind, known := fieldTypes[name]
		if !known {
			result.Details = append(result.Details, FieldError{
				Loc:  []any{"body", name},
				Msg:  err.Message,
				Type: "value_error",
			})
			return
		}
		result.Details = append(result.Details, newFieldError(kind, "body", name))
	}
}

func toInt(v any) (int, bool) {
	n, ok := v.(json.Number)
	if !ok {
		return 0, false
	}
	if i, err := n.Int64(); err == nil {
		if i > math.MaxInt || i < math.MinInt {
			return 0, false
		}
		return int(i), true
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int(f), true
}

// coerceInt returns the integer value of v, or the error kind when it has none.
func coerceInt(v any) (int, string) {
	switch val := v.(type) {
	case json.Number:
		if i, ok := toInt(val); ok {
			return i, ""
		}
		return 0, "int_type"
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return 0, "int_parsing"
		}
		return i, ""
	default:
		return 0, "int_type"
	}
}

var boolWords = map[string]bool{
	"0": false, "off": false, "f": false, "false": false, "n": false, "no": false,
	"1": true, "on": true, "t": true, "true": true, "y": true, "yes": true,
}

// coerceBool returns the boolean value of v, or the error kind when it has none.
func coerceBool(v any) (bool, string) {
	switch val := v.(type) {
	case bool:
		return val, ""
	case string:
		b, ok := boolWords[strings.ToLower(strings.TrimSpace(val))]
		if !ok {
			return false, "bool_parsing"
		}
		return b, ""
	case json.Number:
		f, err := val.Float64()
		switch {
		case err != nil:
			return false, "bool_parsing"
		case f == 0:
			return false, ""
		case f == 1:
			return true, ""
		}
		return false, "bool_parsing"
	default:
		return false, "bool_type"
	}
}
