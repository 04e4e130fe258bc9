package engine

import (
	"encoding/json"
	"fmt"

	"github.com/inamate/rectboard/internal/document"
)

// Styling for the default renderer.
const (
	shapeStroke   = "#0098df"
	chromeFill    = "#ddd"
	chromeStroke  = "#555"
	marqueeFill   = "rgba(0,0,255,0.5)"
	handleSize    = 8
	labelBoxWidth = 40
	buttonWidth   = 34
	chromeHeight  = 20
)

// DrawCommand represents a single drawing operation for the frontend to execute.
// Coordinates are local to Transform when it is set, otherwise in surface space.
type DrawCommand struct {
	Op          string    `json:"op"`                  // "rect", "box", "text", "handle", "marquee"
	ShapeID     string    `json:"shapeId,omitempty"`   // For hit correlation
	Transform   []float64 `json:"transform,omitempty"` // [a, b, c, d, e, f] affine matrix
	X           float64   `json:"x"`
	Y           float64   `json:"y"`
	Width       float64   `json:"width,omitempty"`
	Height      float64   `json:"height,omitempty"`
	Text        string    `json:"text,omitempty"`
	Role        string    `json:"role,omitempty"` // "label", "dims", "edit-button"
	Anchor      Anchor    `json:"anchor,omitempty"`
	Fill        string    `json:"fill,omitempty"`
	Stroke      string    `json:"stroke,omitempty"`
	StrokeWidth float64   `json:"strokeWidth,omitempty"`
}

// CompileDrawCommands generates a draw command buffer from a board snapshot.
// Commands are in painter's order (back to front), with the marquee on top.
func CompileDrawCommands(state document.BoardState) []DrawCommand {
	var commands []DrawCommand
	for i, shape := range state.Shapes {
		selected := shape.ID == state.SelectedID
		compileShape(shape, i, selected, selected && state.Editing, &commands)
	}

	if m := state.Marquee; m.Visible {
		commands = append(commands, DrawCommand{
			Op:     "marquee",
			X:      m.X,
			Y:      m.Y,
			Width:  m.Width,
			Height: m.Height,
			Fill:   marqueeFill,
		})
	}
	return commands
}

func compileShape(shape document.Shape, index int, selected, editing bool, commands *[]DrawCommand) {
	transform := Translate(shape.X, shape.Y).ToSlice()
	emit := func(cmd DrawCommand) {
		cmd.ShapeID = shape.ID
		cmd.Transform = transform
		*commands = append(*commands, cmd)
	}

	// Index label above the shape
	emit(DrawCommand{Op: "box", Y: -24, Width: labelBoxWidth, Height: chromeHeight, Fill: chromeFill, Stroke: chromeStroke, StrokeWidth: 1})
	emit(DrawCommand{Op: "text", Role: "label", X: 4, Y: -20, Text: fmt.Sprintf("Module %d", index+1)})

	if selected {
		emit(DrawCommand{Op: "text", Role: "dims", X: 50, Y: -20, Text: fmt.Sprintf("%g x %g px", shape.Width, shape.Height)})

		button := "Edit"
		if editing {
			button = "Done"
		}
		emit(DrawCommand{Op: "box", Y: shape.Height + 4, Width: buttonWidth, Height: chromeHeight, Fill: chromeFill, Stroke: chromeStroke, StrokeWidth: 1})
		emit(DrawCommand{Op: "text", Role: "edit-button", X: 4, Y: shape.Height + 8, Text: button})
	}

	emit(DrawCommand{Op: "rect", Width: shape.Width, Height: shape.Height, Stroke: shapeStroke, StrokeWidth: 1})

	if editing {
		for _, a := range EnabledAnchors {
			x, y := a.Position(shape.Geometry)
			emit(DrawCommand{
				Op:     "handle",
				Anchor: a,
				X:      x - handleSize/2,
				Y:      y - handleSize/2,
				Width:  handleSize,
				Height: handleSize,
				Fill:   "#fff",
				Stroke: shapeStroke,
			})
		}
	}
}

// DrawCommandsToJSON serializes draw commands to JSON.
func DrawCommandsToJSON(commands []DrawCommand) (string, error) {
	if commands == nil {
		return "[]", nil
	}
	data, err := json.Marshal(commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}

// HitTest returns the ID of the topmost shape containing the point, or empty string.
// Later shapes are drawn on top, so the slice is searched back to front.
func HitTest(shapes []document.Shape, x, y float64) string {
	for i := len(shapes) - 1; i >= 0; i-- {
		r := RectOf(shapes[i].Geometry)
		if !r.IsEmpty() && r.Contains(x, y) {
			return shapes[i].ID
		}
	}
	return ""
}
