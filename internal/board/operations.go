package board

import (
	"errors"
	"fmt"

	"github.com/inamate/rectboard/internal/document"
	"github.com/inamate/rectboard/internal/engine"
)

var ErrUnknownOperation = errors.New("unknown operation type")

const (
	OpPointerDown = "pointer.down"
	OpPointerMove = "pointer.move"
	OpPointerUp   = "pointer.up"
	OpShapeAdd    = "shape.add"
	OpSelect      = "shape.select"
	OpDeselect    = "shape.deselect"
	OpShapeMove   = "shape.move"
	OpShapeResize = "shape.resize"
	OpEditEnter   = "edit.enter"
	OpEditCommit  = "edit.commit"
	OpEditCancel  = "edit.cancel"
	OpEditToggle  = "edit.toggle"
)

// Operation is one renderer command against a board.
type Operation struct {
	ID        string `json:"id,omitempty"`
	Type      string `json:"type"`
	ClientSeq int64  `json:"clientSeq,omitempty"`

	// For pointer.* and shape.move
	X float64 `json:"x,omitempty"`
	Y float64 `json:"y,omitempty"`

	// For pointer.down; nil asks the board to hit test X/Y itself
	HitID *string `json:"hitId,omitempty"`

	// For shape.select, shape.move and shape.resize
	ShapeID string `json:"shapeId,omitempty"`

	// For shape.resize
	ScaleX float64 `json:"scaleX,omitempty"`
	ScaleY float64 `json:"scaleY,omitempty"`
}

// IsPointer reports whether op is part of a pointer gesture.
func (op Operation) IsPointer() bool {
	switch op.Type {
	case OpPointerDown, OpPointerMove, OpPointerUp:
		return true
	}
	return false
}

// Result carries what an operation produced besides the new board state.
type Result struct {
	Shape  *document.Shape       `json:"shape,omitempty"`  // created, moved or resized shape
	Resize *engine.ResizeCommand `json:"resize,omitempty"` // for shape.resize

	// NodeTransform is the affine matrix the renderer's node should carry after
	// a resize; always the identity, since the size now lives in width/height.
	NodeTransform []float64 `json:"nodeTransform,omitempty"`
}

// ApplyOperation runs op against the board's engine.
func (b *Board) ApplyOperation(op Operation) (Result, document.BoardState, error) {
	var res Result
	state, err := b.Apply(func(e *engine.Engine) error {
		var err error
		res, err = applyOperation(e, op)
		return err
	})
	return res, state, err
}

func applyOperation(e *engine.Engine, op Operation) (Result, error) {
	p := document.Point{X: op.X, Y: op.Y}

	switch op.Type {
	case OpPointerDown:
		hit := ""
		if op.HitID != nil {
			hit = *op.HitID
		} else {
			hit = e.HitTest(op.X, op.Y)
		}
		return Result{}, e.OnPointerDown(p, hit)

	case OpPointerMove:
		e.OnPointerMove(p)
		return Result{}, nil

	case OpPointerUp:
		if shape, ok := e.OnPointerUp(p); ok {
			return Result{Shape: &shape}, nil
		}
		return Result{}, nil

	case OpShapeAdd:
		shape := e.AddShape()
		return Result{Shape: &shape}, nil

	case OpSelect:
		return Result{}, e.SelectShape(op.ShapeID)

	case OpDeselect:
		return Result{}, e.Deselect()

	case OpShapeMove:
		shape, err := e.UpdateGeometry(op.ShapeID, op.X, op.Y)
		if err != nil {
			return Result{}, err
		}
		return Result{Shape: &shape}, nil

	case OpShapeResize:
		shape, cmd, err := e.ResizeViaHandle(op.ShapeID, op.ScaleX, op.ScaleY)
		if err != nil {
			return Result{}, err
		}
		return Result{Shape: &shape, Resize: &cmd, NodeTransform: cmd.NodeTransform().ToSlice()}, nil

	case OpEditEnter:
		return Result{}, e.EnterEdit()

	case OpEditCommit:
		return Result{}, e.CommitEdit()

	case OpEditCancel:
		return Result{}, e.CancelEdit()

	case OpEditToggle:
		return Result{}, e.ToggleEdit()

	default:
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownOperation, op.Type)
	}
}
