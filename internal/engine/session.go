package engine

import "github.com/inamate/rectboard/internal/document"

// EditSession holds the geometry a shape had when edit mode was entered.
// The snapshot is never refreshed while the session is open.
type EditSession struct {
	active   bool
	snapshot document.Shape
}

// Open starts a session for shape, replacing any previous one.
func (s *EditSession) Open(shape document.Shape) {
	s.active = true
	s.snapshot = shape
}

// Restore writes the snapshot back into store and closes the session.
// The session stays open if the write fails.
func (s *EditSession) Restore(store *ShapeStore) error {
	if !s.active {
		return nil
	}
	if err := store.Update(s.snapshot.ID, s.snapshot.Geometry); err != nil {
		return err
	}
	s.Discard()
	return nil
}

// Discard closes the session and keeps the live geometry.
func (s *EditSession) Discard() {
	s.active = false
	s.snapshot = document.Shape{}
}

func (s *EditSession) Active() bool {
	return s.active
}

// ShapeID returns the id of the shape being edited, or "" when closed.
func (s *EditSession) ShapeID() string {
	return s.snapshot.ID
}
