// Package seed provides the starting board. A deployment can swap the
// built-in board for its own file.
package seed

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/oksasatya/student-onboarding-board/internal/domain/entity"
)

// Default returns a fresh copy of the built-in onboarding board.
func Default() *entity.Board {
	students := []entity.Student{
		{ID: "student-1", Name: "John Doe", Email: "john.doe@example.com", Contact: "(555) 123-4567"},
		{ID: "student-2", Name: "Jane Smith", Email: "jane.smith@example.com", Contact: "(555) 234-5678"},
		{ID: "student-3", Name: "Peter Jones", Email: "peter.jones@example.com", Contact: "(555) 345-6789"},
		{ID: "student-4", Name: "Mary Williams", Email: "mary.williams@example.com", Contact: "(555) 456-7890"},
		{ID: "student-5", Name: "Robert Johnson", Email: "robert.johnson@example.com", Contact: "(555) 567-8901"},
		{ID: "student-6", Name: "Sarah Brown", Email: "sarah.brown@example.com", Contact: "(555) 678-9012"},
		{ID: "student-7", Name: "Michael Davis", Email: "michael.davis@example.com", Contact: "(555) 789-0123"},
		{ID: "student-8", Name: "Emily Wilson", Email: "emily.wilson@example.com", Contact: "(555) 890-1234"},
		{ID: "student-9", Name: "David Miller", Email: "david.miller@example.com", Contact: "(555) 901-2345"},
		{ID: "student-10", Name: "Jessica Taylor", Email: "jessica.taylor@example.com", Contact: "(555) 012-3456"},
		{ID: "student-11", Name: "Thomas Anderson", Email: "thomas.anderson@example.com", Contact: "(555) 123-7890"},
		{ID: "student-12", Name: "Lisa Martinez", Email: "lisa.martinez@example.com", Contact: "(555) 234-8901"},
	}
	columns := []entity.Column{
		{ID: "column-1", Title: "Inquiry", StudentIDs: []string{"student-1", "student-2", "student-9"}},
		{ID: "column-2", Title: "Tour", StudentIDs: []string{"student-3", "student-10"}},
		{ID: "column-3", Title: "Registration", StudentIDs: []string{"student-4", "student-11"}},
		{ID: "column-4", Title: "Paperwork", StudentIDs: []string{"student-5", "student-12"}},
		{ID: "column-5", Title: "Orientation", StudentIDs: []string{"student-6"}},
		{ID: "column-6", Title: "First Day", StudentIDs: []string{"student-7", "student-8"}},
	}

	b := &entity.Board{
		Students:    make(map[string]entity.Student, len(students)),
		Columns:     make(map[string]entity.Column, len(columns)),
		ColumnOrder: make([]string, 0, len(columns)),
	}
	for _, s := range students {
		b.Students[s.ID] = s
	}
	for _, c := range columns {
		b.Columns[c.ID] = c
		b.ColumnOrder = append(b.ColumnOrder, c.ID)
	}
	return b
}

// Load reads the board from path, or returns Default when path is empty.
func Load(path string) (*entity.Board, error) {
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile parses a YAML (or JSON) board file and checks its invariants.
func LoadFile(path string) (*entity.Board, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed %s: %w", path, err)
	}
	b, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("seed %s: %w", path, err)
	}
	return b, nil
}

// Parse decodes a board document and validates it.
func Parse(raw []byte) (*entity.Board, error) {
	var b entity.Board
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&b); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	normalize(&b)
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}

// Write encodes b as YAML.
func Write(w io.Writer, b *entity.Board) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(b); err != nil {
		return err
	}
	return enc.Close()
}

// normalize fills ids omitted from map entries and nil maps/lists.
func normalize(b *entity.Board) {
	if b.Students == nil {
		b.Students = map[string]entity.Student{}
	}
	if b.Columns == nil {
		b.Columns = map[string]entity.Column{}
	}
	for k, s := range b.Students {
		if s.ID == "" {
			s.ID = k
			b.Students[k] = s
		}
	}
	for k, c := range b.Columns {
		if c.ID == "" {
			c.ID = k
		}
		if c.StudentIDs == nil {
			c.StudentIDs = []string{}
		}
		b.Columns[k] = c
	}
}
