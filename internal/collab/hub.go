package collab

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/inamate/rectboard/internal/board"
	"github.com/inamate/rectboard/internal/document"
	"github.com/inamate/rectboard/internal/engine"
	"github.com/inamate/rectboard/internal/typeid"
)

// ErrGestureInProgress rejects pointer events while another client owns the
// board's pointer gesture.
var ErrGestureInProgress = errors.New("another client is mid-gesture")

// BoardLoader resolves a board id to the board clients should edit.
type BoardLoader func(boardID string) (*board.Board, error)

type Room struct {
	boardID  string
	board    *board.Board
	clients  map[string]*Client // clientID -> client
	presence *PresenceManager

	// mu orders operations from all clients of the room. A pointer gesture
	// belongs to the client that sent pointer.down until its pointer.up.
	mu           sync.Mutex
	gestureOwner string
	serverSeq    int64
}

func NewRoom(b *board.Board) *Room {
	return &Room{
		boardID:  b.ID,
		board:    b,
		clients:  make(map[string]*Client),
		presence: NewPresenceManager(),
	}
}

// applyLocked runs op for clientID. Caller must hold r.mu.
func (r *Room) applyLocked(clientID string, op board.Operation) (board.Result, document.BoardState, error) {
	if op.IsPointer() && r.gestureOwner != "" && r.gestureOwner != clientID {
		return board.Result{}, document.BoardState{}, ErrGestureInProgress
	}

	res, state, err := r.board.ApplyOperation(op)
	if err != nil {
		return res, state, err
	}

	switch op.Type {
	case board.OpPointerDown:
		r.gestureOwner = clientID
	case board.OpPointerUp:
		r.gestureOwner = ""
	}
	r.serverSeq++
	return res, state, nil
}

// releaseGesture drops clientID's unfinished gesture. It reports whether the
// board changed.
func (r *Room) releaseGesture(clientID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.gestureOwner != clientID {
		return false
	}
	r.gestureOwner = ""
	r.board.Apply(func(e *engine.Engine) error {
		e.AbortGesture()
		return nil
	})
	r.serverSeq++
	return true
}

type Hub struct {
	mu         sync.RWMutex
	rooms      map[string]*Room // boardID -> room
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	stopOnce   sync.Once
	loader     BoardLoader
}

func NewHub(loader BoardLoader) *Hub {
	return &Hub{
		rooms:      make(map[string]*Room),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		loader:     loader,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-h.done:
			return
		}
	}
}

// Stop ends Run. Clients still connected keep their pumps until they disconnect.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.BoardID]
	if !ok {
		b, err := h.loader(client.BoardID)
		if err != nil {
			h.mu.Unlock()
			slog.Warn("load board", "error", err, "board", client.BoardID)
			if msg, err := newMessage(TypeError, ErrorPayload{Message: "board not found"}); err == nil {
				client.Send(msg)
			}
			client.close()
			return
		}
		room = NewRoom(b)
		h.rooms[client.BoardID] = room
	}
	room.clients[client.ClientID] = client
	h.mu.Unlock()

	room.mu.Lock()
	welcome, err := newMessage(TypeWelcome, WelcomePayload{
		ClientID:  client.ClientID,
		ServerSeq: room.serverSeq,
		State:     room.board.State(),
	})
	room.mu.Unlock()
	if err != nil {
		slog.Error("marshal welcome", "error", err)
	} else {
		client.Send(welcome)
	}

	// Send current presence state to new client
	if stateMsg := room.presence.StateMessage(); stateMsg != nil {
		client.Send(stateMsg)
	}

	if joinMsg, err := newMessage(TypePresenceJoin, PresenceJoinPayload{ClientID: client.ClientID}); err == nil {
		h.broadcastToRoom(client.BoardID, joinMsg, client.ClientID)
	}

	slog.Info("client joined", "client", client.ClientID, "board", client.BoardID)
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.BoardID]
	if !ok {
		h.mu.Unlock()
		return
	}
	if _, ok := room.clients[client.ClientID]; !ok {
		h.mu.Unlock()
		return
	}

	delete(room.clients, client.ClientID)
	client.close()
	room.presence.Remove(client.ClientID)

	if len(room.clients) == 0 {
		delete(h.rooms, client.BoardID)
	}
	h.mu.Unlock()

	if room.releaseGesture(client.ClientID) {
		slog.Info("aborted abandoned gesture", "client", client.ClientID, "board", client.BoardID)
		h.broadcastState(room)
	}

	if leaveMsg, err := newMessage(TypePresenceLeave, PresenceLeavePayload{ClientID: client.ClientID}); err == nil {
		h.broadcastToRoom(client.BoardID, leaveMsg, "")
	}

	slog.Info("client left", "client", client.ClientID, "board", client.BoardID)
}

func (h *Hub) handleMessage(sender *Client, msg *Message) {
	switch msg.Type {
	case TypeOpSubmit:
		h.handleOperation(sender, msg)
	case TypePresenceUpdate:
		h.handlePresenceUpdate(sender, msg)
	default:
		slog.Warn("unknown message type", "type", msg.Type, "client", sender.ClientID)
	}
}

func (h *Hub) handleOperation(sender *Client, msg *Message) {
	var payload OperationSubmitPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		slog.Warn("invalid operation payload", "error", err)
		h.nack(sender, board.Operation{}, fmt.Errorf("invalid operation payload: %w", err))
		return
	}
	op := payload.Operation
	if op.ID == "" {
		op.ID = typeid.NewOpID()
	}

	room := h.room(sender.BoardID)
	if room == nil {
		return
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	res, state, err := room.applyLocked(sender.ClientID, op)
	if err != nil {
		slog.Debug("operation rejected", "type", op.Type, "error", err, "client", sender.ClientID)
		h.nack(sender, op, err)
		return
	}

	ack, err := newMessage(TypeOpAck, OperationAckPayload{
		OperationID: op.ID,
		ClientSeq:   op.ClientSeq,
		ServerSeq:   room.serverSeq,
		Result:      res,
	})
	if err == nil {
		ack.Seq = msg.Seq
		sender.Send(ack)
	}

	// Broadcast while holding room.mu so every client sees states in order.
	if stateMsg, err := newMessage(TypeBoardState, BoardStatePayload{ServerSeq: room.serverSeq, State: state}); err == nil {
		h.broadcastToRoom(room.boardID, stateMsg, "")
	}
}

func (h *Hub) nack(sender *Client, op board.Operation, reason error) {
	msg, err := newMessage(TypeOpNack, OperationNackPayload{
		OperationID: op.ID,
		ClientSeq:   op.ClientSeq,
		Reason:      reason.Error(),
	})
	if err != nil {
		slog.Error("marshal nack", "error", err)
		return
	}
	sender.Send(msg)
}

func (h *Hub) handlePresenceUpdate(sender *Client, msg *Message) {
	var presence PresencePayload
	if err := json.Unmarshal(msg.Payload, &presence); err != nil {
		slog.Warn("invalid presence payload", "error", err)
		return
	}

	room := h.room(sender.BoardID)
	if room == nil {
		return
	}

	room.presence.Update(sender.ClientID, &presence)

	outMsg, err := newMessage(TypePresenceUpdate, presence)
	if err != nil {
		return
	}
	outMsg.ClientID = sender.ClientID
	h.broadcastToRoom(sender.BoardID, outMsg, sender.ClientID)
}

func (h *Hub) broadcastState(room *Room) {
	room.mu.Lock()
	defer room.mu.Unlock()

	msg, err := newMessage(TypeBoardState, BoardStatePayload{ServerSeq: room.serverSeq, State: room.board.State()})
	if err != nil {
		slog.Error("marshal board state", "error", err)
		return
	}
	h.broadcastToRoom(room.boardID, msg, "")
}

func (h *Hub) room(boardID string) *Room {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.rooms[boardID]
}

func (h *Hub) broadcastToRoom(boardID string, msg *Message, excludeClientID string) {
	h.mu.RLock()
	room, ok := h.rooms[boardID]
	if !ok {
		h.mu.RUnlock()
		return
	}

	clients := make([]*Client, 0, len(room.clients))
	for _, c := range room.clients {
		if c.ClientID != excludeClientID {
			clients = append(clients, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.Send(msg)
	}
}
