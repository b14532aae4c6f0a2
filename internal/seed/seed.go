// Package seed loads the optional read-only file of starting lists.
package seed

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/evanschultz/todolist/internal/domain"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed seed.schema.json
var schemaJSON []byte

// schemaURL names the embedded schema inside the compiler.
const schemaURL = "seed.schema.json"

// File is the on-disk seed document.
type File struct {
	Lists []List `json:"lists"`
}

// List is one seeded list.
type List struct {
	Name  string `json:"name"`
	Owner string `json:"owner,omitempty"`
	Items []Item `json:"items,omitempty"`
}

// Item is one seeded item.
type Item struct {
	Description string `json:"description"`
	AssignedTo  string `json:"assigned_to,omitempty"`
	DueDate     string `json:"due_date,omitempty"`
	Completed   bool   `json:"completed,omitempty"`
}

// SchemaError describes the first schema violation in a seed document.
type SchemaError struct {
	Path    string
	Message string
}

// Error renders the schema-validation failure.
func (e *SchemaError) Error() string {
	path := strings.TrimSpace(e.Path)
	if path == "" {
		path = "$"
	}
	return fmt.Sprintf("seed %s: %s", path, e.Message)
}

// Load reads and validates the seed file at path. An empty path yields no lists.
func Load(path string, idGen func() string) ([]*domain.TodoList, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	lists, err := Parse(data, idGen)
	if err != nil {
		return nil, fmt.Errorf("seed file %s: %w", path, err)
	}
	return lists, nil
}

// Parse validates data against the seed schema and converts it to domain lists.
func Parse(data []byte, idGen func() string) ([]*domain.TodoList, error) {
	if idGen == nil {
		return nil, errors.New("seed id generator is required")
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}
	if err := validate(data); err != nil {
		return nil, err
	}
	var file File
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	return file.toDomain(idGen)
}

// toDomain converts the document, rejecting list names that repeat regardless of case.
func (f File) toDomain(idGen func() string) ([]*domain.TodoList, error) {
	out := make([]*domain.TodoList, 0, len(f.Lists))
	seen := make(map[string]int, len(f.Lists))
	for li, in := range f.Lists {
		list, err := domain.NewTodoList(idGen(), in.Name, in.Owner)
		if err != nil {
			return nil, fmt.Errorf("lists[%d]: %w", li, err)
		}
		key := strings.ToLower(list.Name)
		if first, ok := seen[key]; ok {
			return nil, domain.NewValidationError(
				fmt.Sprintf("lists[%d].name", li),
				fmt.Sprintf("duplicate list name %q (same as lists[%d])", list.Name, first),
			)
		}
		seen[key] = li
		for ii, raw := range in.Items {
			item, err := domain.NewTodoItem(domain.ItemInput{
				Description: raw.Description,
				AssignedTo:  raw.AssignedTo,
				DueDate:     raw.DueDate,
				Completed:   raw.Completed,
			})
			if err != nil {
				return nil, fmt.Errorf("lists[%d].items[%d]: %w", li, ii, err)
			}
			list.AddItem(item)
		}
		out = append(out, list)
	}
	return out, nil
}

// FromDomain converts lists back into the seed document shape.
func FromDomain(lists []*domain.TodoList) File {
	file := File{Lists: make([]List, 0, len(lists))}
	for _, list := range lists {
		out := List{Name: list.Name, Owner: list.Owner}
		for _, item := range list.Items {
			out.Items = append(out.Items, Item{
				Description: item.Description,
				AssignedTo:  item.AssignedTo,
				DueDate:     item.DueDateString(),
				Completed:   item.Completed,
			})
		}
		file.Lists = append(file.Lists, out)
	}
	return file
}

func validate(data []byte) error {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
		return fmt.Errorf("load seed schema: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return fmt.Errorf("compile seed schema: %w", err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return &SchemaError{Path: "$", Message: fmt.Sprintf("invalid JSON: %v", err)}
	}
	if err := schema.Validate(doc); err != nil {
		return mapSchemaError(err)
	}
	return nil
}

// mapSchemaError reduces a jsonschema error tree to its first leaf.
func mapSchemaError(err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return &SchemaError{Message: err.Error()}
	}
	leaf := ve
	for len(leaf.Causes) > 0 {
		leaf = leaf.Causes[0]
	}
	return &SchemaError{Path: pointerToPath(leaf.InstanceLocation), Message: leaf.Message}
}

// pointerToPath renders a JSON pointer such as /lists/0/name as $.lists[0].name.
func pointerToPath(pointer string) string {
	var b strings.Builder
	b.WriteString("$")
	for _, part := range strings.Split(strings.TrimPrefix(pointer, "/"), "/") {
		if part == "" {
			continue
		}
		part = strings.ReplaceAll(strings.ReplaceAll(part, "~1", "/"), "~0", "~")
		if _, err := strconv.Atoi(part); err == nil {
			b.WriteString("[" + part + "]")
			continue
		}
		b.WriteString("." + part)
	}
	return b.String()
}
