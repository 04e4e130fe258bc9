package board

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"

	"github.com/gorilla/mux"

	"github.com/inamate/rectboard/internal/auth"
	"github.com/inamate/rectboard/internal/engine"
)

func newTestRouter() (*mux.Router, *Service) {
	tokens := auth.NewService("test-secret")
	svc := NewService(tokens, engine.DefaultOptions())
	r := mux.NewRouter()
	NewHandler(svc).Mount(r, tokens.RequireBoardToken)
	return r, svc
}

func do(t *testing.T, r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandlerFlow(t *testing.T) {
	r, _ := newTestRouter()

	rec := do(t, r, http.MethodPost, "/boards", "", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d", rec.Code)
	}
	var created Created
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatal(err)
	}

	base := "/boards/" + created.ID

	if rec := do(t, r, http.MethodPost, base+"/shapes", "", nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("add without token status = %d, want 401", rec.Code)
	}
	if rec := do(t, r, http.MethodPost, base+"/shapes", created.Token, nil); rec.Code != http.StatusCreated {
		t.Errorf("add shape status = %d, want 201", rec.Code)
	}

	rec = do(t, r, http.MethodPost, base+"/operations", created.Token, Operation{Type: OpEditEnter})
	if rec.Code != http.StatusConflict {
		t.Errorf("edit.enter with nothing selected status = %d, want 409", rec.Code)
	}
	rec = do(t, r, http.MethodPost, base+"/operations", created.Token, Operation{Type: "nope"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown op status = %d, want 400", rec.Code)
	}

	rec = do(t, r, http.MethodGet, base, "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	var state struct {
		Shapes []json.RawMessage `json:"shapes"`
	}
	json.NewDecoder(rec.Body).Decode(&state)
	if len(state.Shapes) != 2 {
		t.Errorf("shapes = %d, want 2", len(state.Shapes))
	}

	rec = do(t, r, http.MethodGet, base+"/render", "", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("render status = %d", rec.Code)
	}
}

func TestHandlerNotFound(t *testing.T) {
	r, _ := newTestRouter()
	if rec := do(t, r, http.MethodGet, "/boards/board_missing", "", nil); rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHandlerOperationResult(t *testing.T) {
	r, svc := newTestRouter()
	created, _ := svc.Create()
	b, _ := svc.Get(created.ID)
	id := b.State().Shapes[0].ID

	rec := do(t, r, http.MethodPost, "/boards/"+created.ID+"/operations", created.Token,
		Operation{Type: OpShapeResize, ShapeID: id, ScaleX: 0.01, ScaleY: 1})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp operationResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Result.Resize == nil || resp.Result.Resize.Applied {
		t.Errorf("resize result = %+v, want rejected", resp.Result.Resize)
	}
	if resp.Result.Resize != nil && (resp.Result.Resize.ScaleX != 1 || resp.Result.Resize.ScaleY != 1) {
		t.Errorf("resize did not reset scale: %+v", resp.Result.Resize)
	}
	want := []float64{1, 0, 0, 1, 0, 0}
	if !slices.Equal(resp.Result.NodeTransform, want) {
		t.Errorf("nodeTransform = %v, want %v", resp.Result.NodeTransform, want)
	}
}
