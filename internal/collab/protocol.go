package collab

import (
	"encoding/json"

	"github.com/inamate/rectboard/internal/board"
	"github.com/inamate/rectboard/internal/document"
)

type Message struct {
	Type     string          `json:"type"`
	BoardID  string          `json:"boardId,omitempty"`
	ClientID string          `json:"clientId,omitempty"`
	Seq      int64           `json:"seq,omitempty"`
	Payload  json.RawMessage `json:"payload"`
}

type PresencePayload struct {
	ClientID string     `json:"clientId,omitempty"`
	Cursor   *CursorPos `json:"cursor,omitempty"`
}

type CursorPos struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type PresenceStatePayload struct {
	Presences map[string]*PresencePayload `json:"presences"`
}

type PresenceJoinPayload struct {
	ClientID string `json:"clientId"`
}

type PresenceLeavePayload struct {
	ClientID string `json:"clientId"`
}

const (
	TypePresenceUpdate = "presence.update"
	TypePresenceState  = "presence.state"
	TypePresenceJoin   = "presence.join"
	TypePresenceLeave  = "presence.leave"
	TypeError          = "error"

	// Connection
	TypeWelcome = "welcome"

	// Board sync
	TypeBoardState = "board.state"

	// Operation message types
	TypeOpSubmit = "op.submit"
	TypeOpAck    = "op.ack"
	TypeOpNack   = "op.nack"
)

// WelcomePayload is sent to a client once it has joined a board.
type WelcomePayload struct {
	ClientID  string              `json:"clientId"`
	ServerSeq int64               `json:"serverSeq"`
	State     document.BoardState `json:"state"`
}

// BoardStatePayload is broadcast after every applied operation.
type BoardStatePayload struct {
	ServerSeq int64               `json:"serverSeq"`
	State     document.BoardState `json:"state"`
}

// OperationSubmitPayload is the payload for op.submit messages
type OperationSubmitPayload struct {
	Operation board.Operation `json:"operation"`
}

// OperationAckPayload is the payload for op.ack messages
type OperationAckPayload struct {
	OperationID string       `json:"operationId,omitempty"`
	ClientSeq   int64        `json:"clientSeq,omitempty"`
	ServerSeq   int64        `json:"serverSeq"`
	Result      board.Result `json:"result"`
}

// OperationNackPayload is the payload for op.nack messages
type OperationNackPayload struct {
	OperationID string `json:"operationId,omitempty"`
	ClientSeq   int64  `json:"clientSeq,omitempty"`
	Reason      string `json:"reason"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

func newMessage(msgType string, payload any) (*Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Message{Type: msgType, Payload: data}, nil
}
