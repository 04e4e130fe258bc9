package engine

import (
	"fmt"

	"github.com/inamate/rectboard/internal/document"
	"github.com/inamate/rectboard/internal/typeid"
)

// ShapeStore holds the board's shapes in insertion order, which is also the
// z-order used for rendering and hit testing.
type ShapeStore struct {
	shapes []document.Shape
	index  map[string]int // id -> position in shapes
	newID  func() string
}

// NewShapeStore creates an empty store that mints typeid shape ids.
func NewShapeStore() *ShapeStore {
	return &ShapeStore{
		index: make(map[string]int),
		newID: typeid.NewShapeID,
	}
}

// Add appends a shape with a fresh id.
func (s *ShapeStore) Add(g document.Geometry) document.Shape {
	id := s.newID()
	for s.Has(id) {
		id = s.newID()
	}

	shape := document.Shape{ID: id, Geometry: g}
	s.index[id] = len(s.shapes)
	s.shapes = append(s.shapes, shape)
	return shape
}

// Update replaces the geometry of an existing shape.
func (s *ShapeStore) Update(id string, g document.Geometry) error {
	i, ok := s.index[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	s.shapes[i].Geometry = g
	return nil
}

// Get returns a copy of the shape with the given id.
func (s *ShapeStore) Get(id string) (document.Shape, error) {
	i, ok := s.index[id]
	if !ok {
		return document.Shape{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s.shapes[i], nil
}

// Has reports whether id names a shape in the store.
func (s *ShapeStore) Has(id string) bool {
	_, ok := s.index[id]
	return ok
}

// List returns the shapes in insertion order. The slice is a copy.
func (s *ShapeStore) List() []document.Shape {
	out := make([]document.Shape, len(s.shapes))
	copy(out, s.shapes)
	return out
}

func (s *ShapeStore) Len() int {
	return len(s.shapes)
}
