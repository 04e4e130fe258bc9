package board

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/inamate/rectboard/internal/document"
	"github.com/inamate/rectboard/internal/engine"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type addShapeResponse struct {
	Shape document.Shape      `json:"shape"`
	State document.BoardState `json:"state"`
}

type operationResponse struct {
	Result Result              `json:"result"`
	State  document.BoardState `json:"state"`
}

// Mount registers the board routes on r. Mutating routes are wrapped in
// requireToken.
func (h *Handler) Mount(r *mux.Router, requireToken mux.MiddlewareFunc) {
	r.HandleFunc("/boards", h.List).Methods("GET")
	r.HandleFunc("/boards", h.Create).Methods("POST")
	r.HandleFunc("/boards/{boardId}", h.Get).Methods("GET")
	r.HandleFunc("/boards/{boardId}/render", h.Render).Methods("GET")
	r.Handle("/boards/{boardId}/shapes", requireToken(http.HandlerFunc(h.AddShape))).Methods("POST")
	r.Handle("/boards/{boardId}/operations", requireToken(http.HandlerFunc(h.Apply))).Methods("POST")
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	created, err := h.service.Create()
	if err != nil {
		slog.Error("create board failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	slog.Info("board created", "board", created.ID)
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.List())
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	b, err := h.service.Get(mux.Vars(r)["boardId"])
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, b.State())
}

func (h *Handler) Render(w http.ResponseWriter, r *http.Request) {
	b, err := h.service.Get(mux.Vars(r)["boardId"])
	if err != nil {
		handleServiceError(w, err)
		return
	}

	commands := b.Render()
	if commands == nil {
		commands = []engine.DrawCommand{}
	}
	writeJSON(w, http.StatusOK, commands)
}

func (h *Handler) AddShape(w http.ResponseWriter, r *http.Request) {
	b, err := h.service.Get(mux.Vars(r)["boardId"])
	if err != nil {
		handleServiceError(w, err)
		return
	}

	var shape document.Shape
	state, _ := b.Apply(func(e *engine.Engine) error {
		shape = e.AddShape()
		return nil
	})

	writeJSON(w, http.StatusCreated, addShapeResponse{Shape: shape, State: state})
}

// Apply runs a single operation. Pointer gestures are accepted here too, but
// interleaving them with a live session on the same board is the caller's problem.
func (h *Handler) Apply(w http.ResponseWriter, r *http.Request) {
	b, err := h.service.Get(mux.Vars(r)["boardId"])
	if err != nil {
		handleServiceError(w, err)
		return
	}

	var op Operation
	if err := json.NewDecoder(r.Body).Decode(&op); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	res, state, err := b.ApplyOperation(op)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, operationResponse{Result: res, State: state})
}

func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "board not found"})
	case errors.Is(err, engine.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "shape not found"})
	case errors.Is(err, ErrUnknownOperation):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, engine.ErrInvalidTransition):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	default:
		slog.Error("board request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
