package board

import (
	"errors"
	"testing"
	"time"

	"github.com/inamate/rectboard/internal/auth"
	"github.com/inamate/rectboard/internal/document"
	"github.com/inamate/rectboard/internal/engine"
	"github.com/inamate/rectboard/internal/typeid"
)

func newTestService() *Service {
	return NewService(auth.NewService("test-secret"), engine.DefaultOptions())
}

func TestCreateAndGet(t *testing.T) {
	s := newTestService()
	created, err := s.Create()
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := typeid.Validate(created.ID, typeid.PrefixBoard); err != nil {
		t.Errorf("board id: %v", err)
	}
	if created.Token == "" {
		t.Error("Create() returned no token")
	}
	if created.ShapeCount != 1 {
		t.Errorf("ShapeCount = %d, want 1 (bootstrap shape)", created.ShapeCount)
	}
	if _, err := time.Parse(time.RFC3339, created.CreatedAt); err != nil {
		t.Errorf("CreatedAt %q is not RFC 3339: %v", created.CreatedAt, err)
	}

	b, err := s.Get(created.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if b.ID != created.ID {
		t.Errorf("Get().ID = %q, want %q", b.ID, created.ID)
	}

	b.ApplyOperation(Operation{Type: OpShapeAdd})
	if got := s.List(); len(got) != 1 || got[0].ShapeCount != 2 {
		t.Errorf("List() = %+v, want one board with 2 shapes", got)
	}

	if _, err := s.Get("board_missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
	}
}

func TestListOrdered(t *testing.T) {
	s := newTestService()
	var ids []string
	for i := 0; i < 3; i++ {
		c, err := s.Create()
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, c.ID)
	}

	list := s.List()
	if len(list) != len(ids) {
		t.Fatalf("List() len = %d, want %d", len(list), len(ids))
	}
	for i := range ids {
		if list[i].ID != ids[i] {
			t.Errorf("List()[%d] = %q, want %q", i, list[i].ID, ids[i])
		}
	}
}

func ptr(s string) *string { return &s }

func TestApplyOperationScenario(t *testing.T) {
	s := newTestService()
	created, _ := s.Create()
	b, _ := s.Get(created.ID)

	a := b.State().Shapes[0]
	res, _, err := b.ApplyOperation(Operation{Type: OpShapeAdd})
	if err != nil || res.Shape == nil {
		t.Fatalf("shape.add = %+v, %v", res, err)
	}
	other := *res.Shape

	steps := []Operation{
		{Type: OpPointerDown, X: 60, Y: 60, HitID: ptr(a.ID)},
		{Type: OpPointerUp, X: 60, Y: 60},
		{Type: OpEditEnter},
		{Type: OpShapeMove, ShapeID: a.ID, X: 80, Y: 90},
		{Type: OpShapeResize, ShapeID: a.ID, ScaleX: 1.5, ScaleY: 1},
		{Type: OpSelect, ShapeID: other.ID},
	}
	var state document.BoardState
	for _, op := range steps {
		if _, state, err = b.ApplyOperation(op); err != nil {
			t.Fatalf("%s: %v", op.Type, err)
		}
	}

	if state.SelectedID != other.ID || state.Editing {
		t.Errorf("state = %+v, want %s selected without edit", state, other.ID)
	}
	if state.Shapes[0].Geometry != document.DefaultGeometry() {
		t.Errorf("first shape = %+v, want rolled back", state.Shapes[0].Geometry)
	}
}

func TestApplyOperationMarqueeWithHitTest(t *testing.T) {
	s := newTestService()
	created, _ := s.Create()
	b, _ := s.Get(created.ID)

	// No hitId: the board hit tests (300,300), which is empty surface.
	ops := []Operation{
		{Type: OpPointerDown, X: 300, Y: 300},
		{Type: OpPointerMove, X: 350, Y: 320},
		{Type: OpPointerUp, X: 350, Y: 320},
	}
	var res Result
	var err error
	for _, op := range ops {
		if res, _, err = b.ApplyOperation(op); err != nil {
			t.Fatalf("%s: %v", op.Type, err)
		}
	}
	if res.Shape == nil {
		t.Fatal("marquee release created no shape")
	}
	want := document.Geometry{X: 300, Y: 300, Width: 50, Height: 20}
	if res.Shape.Geometry != want {
		t.Errorf("created = %+v, want %+v", res.Shape.Geometry, want)
	}

	// Pressing on the bootstrap shape without hitId selects it.
	_, state, err := b.ApplyOperation(Operation{Type: OpPointerDown, X: 60, Y: 60})
	if err != nil {
		t.Fatal(err)
	}
	if state.SelectedID != state.Shapes[0].ID {
		t.Errorf("SelectedID = %q, want bootstrap shape", state.SelectedID)
	}
}

func TestApplyOperationErrors(t *testing.T) {
	s := newTestService()
	created, _ := s.Create()
	b, _ := s.Get(created.ID)

	tests := []struct {
		name string
		op   Operation
		want error
	}{
		{"unknown", Operation{Type: "shape.rotate"}, ErrUnknownOperation},
		{"missing shape", Operation{Type: OpShapeMove, ShapeID: "shape_nope"}, engine.ErrNotFound},
		{"commit without edit", Operation{Type: OpEditCommit}, engine.ErrInvalidTransition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := b.ApplyOperation(tt.op); !errors.Is(err, tt.want) {
				t.Errorf("ApplyOperation() error = %v, want %v", err, tt.want)
			}
		})
	}
}
