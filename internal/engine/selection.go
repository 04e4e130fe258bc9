package engine

import (
	"fmt"
	"log/slog"
)

// SelectionState is the phase of the selection state machine.
type SelectionState int

const (
	SelectionNone     SelectionState = iota // nothing selected
	SelectionSelected                       // one shape selected
	SelectionEditing                        // selected shape in edit mode
)

func (s SelectionState) String() string {
	switch s {
	case SelectionNone:
		return "none"
	case SelectionSelected:
		return "selected"
	case SelectionEditing:
		return "editing"
	default:
		return "unknown"
	}
}

// SelectionController decides which shape is active and owns the edit session
// for it. Leaving a shape that is mid-edit rolls it back to its snapshot.
type SelectionController struct {
	store    *ShapeStore
	session  EditSession
	selected string

	// rollbackOnDeselect restores the edited shape when the selection is cleared.
	// When false the session is dropped and the live geometry kept.
	rollbackOnDeselect bool
}

func NewSelectionController(store *ShapeStore, rollbackOnDeselect bool) *SelectionController {
	return &SelectionController{
		store:              store,
		rollbackOnDeselect: rollbackOnDeselect,
	}
}

func (c *SelectionController) State() SelectionState {
	switch {
	case c.selected == "":
		return SelectionNone
	case c.session.Active():
		return SelectionEditing
	default:
		return SelectionSelected
	}
}

// SelectedID returns the selected shape id.
func (c *SelectionController) SelectedID() (string, bool) {
	return c.selected, c.selected != ""
}

// Editing reports whether id is the shape currently in edit mode.
func (c *SelectionController) Editing(id string) bool {
	return id != "" && c.session.Active() && c.session.ShapeID() == id
}

// Select makes id the active shape. Selecting the current shape is a no-op;
// switching away from a shape in edit mode restores its snapshot first.
func (c *SelectionController) Select(id string) error {
	if !c.store.Has(id) {
		return fmt.Errorf("select: %w: %s", ErrNotFound, id)
	}
	if id == c.selected {
		return nil
	}
	if err := c.rollback(); err != nil {
		return err
	}
	c.selected = id
	return nil
}

// Deselect clears the selection, resolving any open edit session first.
func (c *SelectionController) Deselect() error {
	if c.session.Active() {
		if c.rollbackOnDeselect {
			if err := c.rollback(); err != nil {
				return err
			}
		} else {
			c.session.Discard()
		}
	}
	c.selected = ""
	return nil
}

// EnterEdit snapshots the selected shape and enters edit mode.
func (c *SelectionController) EnterEdit() error {
	if c.State() != SelectionSelected {
		return fmt.Errorf("enter edit from %s: %w", c.State(), ErrInvalidTransition)
	}
	shape, err := c.store.Get(c.selected)
	if err != nil {
		return err
	}
	c.session.Open(shape)
	return nil
}

// CommitEdit leaves edit mode keeping the current geometry.
func (c *SelectionController) CommitEdit() error {
	if c.State() != SelectionEditing {
		return fmt.Errorf("commit edit from %s: %w", c.State(), ErrInvalidTransition)
	}
	c.session.Discard()
	return nil
}

// CancelEdit leaves edit mode restoring the geometry from before EnterEdit.
func (c *SelectionController) CancelEdit() error {
	if c.State() != SelectionEditing {
		return fmt.Errorf("cancel edit from %s: %w", c.State(), ErrInvalidTransition)
	}
	return c.rollback()
}

// ToggleEdit enters edit mode from selected and commits from editing.
func (c *SelectionController) ToggleEdit() error {
	if c.State() == SelectionEditing {
		return c.CommitEdit()
	}
	return c.EnterEdit()
}

func (c *SelectionController) rollback() error {
	if !c.session.Active() {
		return nil
	}
	id := c.session.ShapeID()
	if err := c.session.Restore(c.store); err != nil {
		return fmt.Errorf("roll back %s: %w", id, err)
	}
	slog.Debug("edit rolled back", "shape", id)
	return nil
}
