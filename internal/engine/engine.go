package engine

import (
	"errors"
	"fmt"

	"github.com/inamate/rectboard/internal/document"
)

// Options tune the board's editing rules.
type Options struct {
	MinResize          float64 // smallest width/height a handle resize may produce
	MarqueeMinSize     float64 // smallest marquee that creates a shape; 0 accepts any
	RollbackOnDeselect bool    // roll back a pending edit when the selection is cleared
	Bootstrap          bool    // start with one default shape
}

// DefaultOptions returns the options used by the server.
func DefaultOptions() Options {
	return Options{
		MinResize:          DefaultMinResize,
		MarqueeMinSize:     DefaultMinResize,
		RollbackOnDeselect: true,
		Bootstrap:          true,
	}
}

// Engine is the editing core for one board. It owns the shapes, the selection
// and the marquee. It is not safe for concurrent use; every call runs to
// completion synchronously.
type Engine struct {
	store      *ShapeStore
	selection  *SelectionController
	marquee    *MarqueeSelector
	normalizer Normalizer
}

// NewEngine creates an engine.
func NewEngine(opts Options) *Engine {
	store := NewShapeStore()
	e := &Engine{
		store:      store,
		selection:  NewSelectionController(store, opts.RollbackOnDeselect),
		marquee:    NewMarqueeSelector(opts.MarqueeMinSize),
		normalizer: Normalizer{MinSize: opts.MinResize},
	}
	if opts.Bootstrap {
		e.AddShape()
	}
	return e
}

// --- Commands (renderer → engine) ---

// AddShape appends a default 100x100 shape at (50,50).
func (e *Engine) AddShape() document.Shape {
	return e.store.Add(document.DefaultGeometry())
}

// OnPointerDown starts a gesture. A hit on a shape selects it; a press on empty
// surface clears the selection and anchors a marquee.
func (e *Engine) OnPointerDown(p document.Point, hitID string) error {
	if hitID != "" {
		e.marquee.Abort()
		return e.selection.Select(hitID)
	}
	if err := e.selection.Deselect(); err != nil {
		return err
	}
	e.marquee.Begin(p)
	return nil
}

// OnPointerMove stretches the marquee, if one is being dragged.
func (e *Engine) OnPointerMove(p document.Point) bool {
	return e.marquee.Move(p)
}

// OnPointerUp ends the gesture. If a marquee was dragged, a shape covering the
// rectangle of the last move is created and returned; the release point itself
// is not read.
func (e *Engine) OnPointerUp(_ document.Point) (document.Shape, bool) {
	g, ok := e.marquee.End()
	if !ok {
		return document.Shape{}, false
	}
	return e.store.Add(g), true
}

// AbortGesture drops an unfinished marquee without creating a shape.
func (e *Engine) AbortGesture() {
	e.marquee.Abort()
}

func (e *Engine) SelectShape(id string) error {
	return e.selection.Select(id)
}

func (e *Engine) Deselect() error {
	return e.selection.Deselect()
}

func (e *Engine) EnterEdit() error {
	return e.selection.EnterEdit()
}

func (e *Engine) CommitEdit() error {
	return e.selection.CommitEdit()
}

func (e *Engine) CancelEdit() error {
	return e.selection.CancelEdit()
}

func (e *Engine) ToggleEdit() error {
	return e.selection.ToggleEdit()
}

// UpdateGeometry moves a shape to (x, y), typically at the end of a drag.
func (e *Engine) UpdateGeometry(id string, x, y float64) (document.Shape, error) {
	shape, err := e.store.Get(id)
	if err != nil {
		return document.Shape{}, err
	}
	shape.X, shape.Y = x, y
	if err := e.store.Update(id, shape.Geometry); err != nil {
		return document.Shape{}, err
	}
	return shape, nil
}

// ResizeViaHandle applies a handle drag's scale factors to a shape. A resize
// below the minimum size leaves the shape unchanged and reports Applied=false;
// it is not an error. The command always asks the renderer to reset its scale.
func (e *Engine) ResizeViaHandle(id string, scaleX, scaleY float64) (document.Shape, ResizeCommand, error) {
	shape, err := e.store.Get(id)
	if err != nil {
		return document.Shape{}, ResizeCommand{}, err
	}

	cmd, err := e.normalizer.Normalize(shape.Width, shape.Height, scaleX, scaleY)
	if errors.Is(err, ErrDegenerateResize) {
		return shape, cmd, nil
	}
	if err != nil {
		return document.Shape{}, ResizeCommand{}, fmt.Errorf("normalize resize: %w", err)
	}

	shape.Width, shape.Height = cmd.Width, cmd.Height
	if err := e.store.Update(id, shape.Geometry); err != nil {
		return document.Shape{}, ResizeCommand{}, err
	}
	return shape, cmd, nil
}

// --- Queries (renderer ← engine) ---

// Shapes returns all shapes in render order.
func (e *Engine) Shapes() []document.Shape {
	return e.store.List()
}

func (e *Engine) Shape(id string) (document.Shape, error) {
	return e.store.Get(id)
}

// ShapeCount returns the number of shapes on the board.
func (e *Engine) ShapeCount() int {
	return e.store.Len()
}

// Selection returns the selected shape id.
func (e *Engine) Selection() (string, bool) {
	return e.selection.SelectedID()
}

func (e *Engine) SelectionState() SelectionState {
	return e.selection.State()
}

// Marquee returns the rubber-band rectangle to draw.
func (e *Engine) Marquee() document.Marquee {
	return e.marquee.Rect()
}

// CanTransform reports whether the renderer should let id be dragged and
// resized, which is only while it is in edit mode.
func (e *Engine) CanTransform(id string) bool {
	return e.selection.Editing(id)
}

// HitTest returns the id of the topmost shape at (x, y), or "".
func (e *Engine) HitTest(x, y float64) string {
	return HitTest(e.store.List(), x, y)
}

// State returns a snapshot of everything a renderer draws.
func (e *Engine) State() document.BoardState {
	id, _ := e.selection.SelectedID()
	return document.BoardState{
		Shapes:     e.store.List(),
		SelectedID: id,
		Editing:    e.selection.State() == SelectionEditing,
		Marquee:    e.marquee.Rect(),
	}
}

// Render compiles the current state into draw commands.
func (e *Engine) Render() []DrawCommand {
	return CompileDrawCommands(e.State())
}
