//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/inamate/rectboard/internal/document"
	"github.com/inamate/rectboard/internal/engine"
)

var eng *engine.Engine

func main() {
	eng = engine.NewEngine(engine.DefaultOptions())

	// Create the engine API object
	rectboardEngine := js.Global().Get("Object").New()

	// --- Commands (frontend → backend) ---
	rectboardEngine.Set("addShape", js.FuncOf(addShape))
	rectboardEngine.Set("pointerDown", js.FuncOf(pointerDown))
	rectboardEngine.Set("pointerMove", js.FuncOf(pointerMove))
	rectboardEngine.Set("pointerUp", js.FuncOf(pointerUp))
	rectboardEngine.Set("abortGesture", js.FuncOf(abortGesture))
	rectboardEngine.Set("selectShape", js.FuncOf(selectShape))
	rectboardEngine.Set("deselect", js.FuncOf(deselect))
	rectboardEngine.Set("enterEdit", js.FuncOf(enterEdit))
	rectboardEngine.Set("commitEdit", js.FuncOf(commitEdit))
	rectboardEngine.Set("cancelEdit", js.FuncOf(cancelEdit))
	rectboardEngine.Set("toggleEdit", js.FuncOf(toggleEdit))
	rectboardEngine.Set("updateGeometry", js.FuncOf(updateGeometry))
	rectboardEngine.Set("resizeViaHandle", js.FuncOf(resizeViaHandle))

	// --- Queries (frontend ← backend) ---
	rectboardEngine.Set("render", js.FuncOf(render))
	rectboardEngine.Set("hitTest", js.FuncOf(hitTest))
	rectboardEngine.Set("canTransform", js.FuncOf(canTransform))
	rectboardEngine.Set("getShapes", js.FuncOf(getShapes))
	rectboardEngine.Set("getSelection", js.FuncOf(getSelection))
	rectboardEngine.Set("getMarquee", js.FuncOf(getMarquee))
	rectboardEngine.Set("getState", js.FuncOf(getState))

	// Register on global scope
	js.Global().Set("rectboardEngine", rectboardEngine)

	// Signal that WASM is ready
	js.Global().Set("rectboardWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

func toJSON(v interface{}) js.Value {
	data, err := json.Marshal(v)
	if err != nil {
		return errorValue(err)
	}
	return js.ValueOf(string(data))
}

func errorValue(err error) js.Value {
	return js.ValueOf(map[string]interface{}{"error": err.Error()})
}

func okOrError(err error) interface{} {
	if err != nil {
		return errorValue(err)
	}
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func pointArg(args []js.Value) (document.Point, bool) {
	if len(args) < 2 {
		return document.Point{}, false
	}
	return document.Point{X: args[0].Float(), Y: args[1].Float()}, true
}

// --- Command Handlers ---

func addShape(this js.Value, args []js.Value) interface{} {
	return toJSON(eng.AddShape())
}

// pointerDown(x, y, hitId?) hit-tests itself when hitId is omitted.
func pointerDown(this js.Value, args []js.Value) interface{} {
	p, ok := pointArg(args)
	if !ok {
		return js.ValueOf(map[string]interface{}{"error": "missing point"})
	}
	hitID := eng.HitTest(p.X, p.Y)
	if len(args) > 2 && args[2].Type() == js.TypeString {
		hitID = args[2].String()
	}
	return okOrError(eng.OnPointerDown(p, hitID))
}

func pointerMove(this js.Value, args []js.Value) interface{} {
	p, ok := pointArg(args)
	if !ok {
		return js.ValueOf(false)
	}
	return js.ValueOf(eng.OnPointerMove(p))
}

// pointerUp returns the created shape as JSON, or "" when none was created.
func pointerUp(this js.Value, args []js.Value) interface{} {
	p, ok := pointArg(args)
	if !ok {
		return js.ValueOf("")
	}
	shape, created := eng.OnPointerUp(p)
	if !created {
		return js.ValueOf("")
	}
	return toJSON(shape)
}

func abortGesture(this js.Value, args []js.Value) interface{} {
	eng.AbortGesture()
	return nil
}

func selectShape(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing shape id"})
	}
	return okOrError(eng.SelectShape(args[0].String()))
}

func deselect(this js.Value, args []js.Value) interface{} {
	return okOrError(eng.Deselect())
}

func enterEdit(this js.Value, args []js.Value) interface{} {
	return okOrError(eng.EnterEdit())
}

func commitEdit(this js.Value, args []js.Value) interface{} {
	return okOrError(eng.CommitEdit())
}

func cancelEdit(this js.Value, args []js.Value) interface{} {
	return okOrError(eng.CancelEdit())
}

func toggleEdit(this js.Value, args []js.Value) interface{} {
	return okOrError(eng.ToggleEdit())
}

func updateGeometry(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return js.ValueOf(map[string]interface{}{"error": "expected id, x, y"})
	}
	shape, err := eng.UpdateGeometry(args[0].String(), args[1].Float(), args[2].Float())
	if err != nil {
		return errorValue(err)
	}
	return toJSON(shape)
}

// resizeViaHandle returns {shape, resize, nodeTransform}; nodeTransform is the
// matrix the renderer must put back on its node.
func resizeViaHandle(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return js.ValueOf(map[string]interface{}{"error": "expected id, scaleX, scaleY"})
	}
	shape, cmd, err := eng.ResizeViaHandle(args[0].String(), args[1].Float(), args[2].Float())
	if err != nil {
		return errorValue(err)
	}
	return toJSON(map[string]interface{}{
		"shape":         shape,
		"resize":        cmd,
		"nodeTransform": cmd.NodeTransform().ToSlice(),
	})
}

// --- Query Handlers ---

func render(this js.Value, args []js.Value) interface{} {
	out, err := engine.DrawCommandsToJSON(eng.Render())
	if err != nil {
		return errorValue(err)
	}
	return js.ValueOf(out)
}

func hitTest(this js.Value, args []js.Value) interface{} {
	p, ok := pointArg(args)
	if !ok {
		return js.ValueOf("")
	}
	return js.ValueOf(eng.HitTest(p.X, p.Y))
}

func canTransform(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(false)
	}
	return js.ValueOf(eng.CanTransform(args[0].String()))
}

func getShapes(this js.Value, args []js.Value) interface{} {
	return toJSON(eng.Shapes())
}

func getSelection(this js.Value, args []js.Value) interface{} {
	id, _ := eng.Selection()
	return js.ValueOf(id)
}

func getMarquee(this js.Value, args []js.Value) interface{} {
	return toJSON(eng.Marquee())
}

func getState(this js.Value, args []js.Value) interface{} {
	return toJSON(eng.State())
}
