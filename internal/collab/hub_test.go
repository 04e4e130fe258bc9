package collab

import (
	"encoding/json"
	"testing"

	"github.com/inamate/rectboard/internal/auth"
	"github.com/inamate/rectboard/internal/board"
	"github.com/inamate/rectboard/internal/engine"
	"github.com/inamate/rectboard/internal/typeid"
)

func newTestHub(t *testing.T) (*Hub, string) {
	t.Helper()
	svc := board.NewService(auth.NewService("test-secret"), engine.DefaultOptions())
	created, err := svc.Create()
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	return NewHub(svc.Get), created.ID
}

func join(h *Hub, boardID, clientID string) *Client {
	c := NewClient(h, nil, boardID, clientID)
	h.addClient(c)
	return c
}

// drain returns every message queued for c without blocking.
func drain(t *testing.T, c *Client) []Message {
	t.Helper()
	var out []Message
	for {
		select {
		case data, ok := <-c.send:
			if !ok {
				return out
			}
			var msg Message
			if err := json.Unmarshal(data, &msg); err != nil {
				t.Fatalf("unmarshal queued message: %v", err)
			}
			out = append(out, msg)
		default:
			return out
		}
	}
}

func types(msgs []Message) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.Type
	}
	return out
}

func find(msgs []Message, msgType string) (Message, bool) {
	for _, m := range msgs {
		if m.Type == msgType {
			return m, true
		}
	}
	return Message{}, false
}

func submit(t *testing.T, h *Hub, c *Client, op board.Operation) {
	t.Helper()
	payload, err := json.Marshal(OperationSubmitPayload{Operation: op})
	if err != nil {
		t.Fatal(err)
	}
	h.handleMessage(c, &Message{Type: TypeOpSubmit, Payload: payload})
}

func TestJoinSendsWelcome(t *testing.T) {
	h, boardID := newTestHub(t)
	c1 := join(h, boardID, "c1")

	msgs := drain(t, c1)
	welcome, ok := find(msgs, TypeWelcome)
	if !ok {
		t.Fatalf("messages = %v, want a welcome", types(msgs))
	}
	var payload WelcomePayload
	if err := json.Unmarshal(welcome.Payload, &payload); err != nil {
		t.Fatal(err)
	}
	if payload.ClientID != "c1" || len(payload.State.Shapes) != 1 {
		t.Errorf("welcome = %+v, want c1 with the bootstrap shape", payload)
	}

	join(h, boardID, "c2")
	if _, ok := find(drain(t, c1), TypePresenceJoin); !ok {
		t.Error("first client was not told about the second")
	}
}

func TestUnknownBoard(t *testing.T) {
	h, _ := newTestHub(t)
	c := join(h, "board_missing", "c1")

	msgs := drain(t, c)
	if _, ok := find(msgs, TypeError); !ok {
		t.Errorf("messages = %v, want an error", types(msgs))
	}
	if !c.closed {
		t.Error("client for an unknown board was not closed")
	}
}

func TestOperationAckAndBroadcast(t *testing.T) {
	h, boardID := newTestHub(t)
	c1 := join(h, boardID, "c1")
	c2 := join(h, boardID, "c2")
	drain(t, c1)
	drain(t, c2)

	submit(t, h, c1, board.Operation{Type: board.OpShapeAdd, ClientSeq: 7})

	msgs := drain(t, c1)
	ackMsg, ok := find(msgs, TypeOpAck)
	if !ok {
		t.Fatalf("sender messages = %v, want op.ack", types(msgs))
	}
	var ack OperationAckPayload
	json.Unmarshal(ackMsg.Payload, &ack)
	if ack.ClientSeq != 7 || ack.ServerSeq != 1 || ack.Result.Shape == nil {
		t.Errorf("ack = %+v", ack)
	}
	if err := typeid.Validate(ack.OperationID, typeid.PrefixOp); err != nil {
		t.Errorf("ack operation id: %v", err)
	}

	stateMsg, ok := find(drain(t, c2), TypeBoardState)
	if !ok {
		t.Fatal("other client got no board.state")
	}
	var st BoardStatePayload
	json.Unmarshal(stateMsg.Payload, &st)
	if len(st.State.Shapes) != 2 {
		t.Errorf("broadcast shapes = %d, want 2", len(st.State.Shapes))
	}
}

func TestOperationNack(t *testing.T) {
	h, boardID := newTestHub(t)
	c1 := join(h, boardID, "c1")
	drain(t, c1)

	submit(t, h, c1, board.Operation{Type: board.OpEditCommit, ClientSeq: 3})
	h.handleMessage(c1, &Message{Type: TypeOpSubmit, Payload: json.RawMessage(`"bad"`)})

	msgs := drain(t, c1)
	if got := types(msgs); len(got) != 2 || got[0] != TypeOpNack || got[1] != TypeOpNack {
		t.Fatalf("messages = %v, want two nacks", got)
	}
	var nack OperationNackPayload
	json.Unmarshal(msgs[0].Payload, &nack)
	if nack.ClientSeq != 3 || nack.Reason == "" {
		t.Errorf("nack = %+v", nack)
	}
}

func TestGestureOwnership(t *testing.T) {
	h, boardID := newTestHub(t)
	c1 := join(h, boardID, "c1")
	c2 := join(h, boardID, "c2")

	empty := ""
	submit(t, h, c1, board.Operation{Type: board.OpPointerDown, X: 300, Y: 300, HitID: &empty})
	drain(t, c1)
	drain(t, c2)

	submit(t, h, c2, board.Operation{Type: board.OpPointerDown, X: 400, Y: 400, HitID: &empty})
	if _, ok := find(drain(t, c2), TypeOpNack); !ok {
		t.Error("second client's pointer.down was not rejected mid-gesture")
	}

	// Non-pointer operations still go through.
	submit(t, h, c2, board.Operation{Type: board.OpShapeAdd})
	if _, ok := find(drain(t, c2), TypeOpAck); !ok {
		t.Error("shape.add from the second client was rejected")
	}

	submit(t, h, c1, board.Operation{Type: board.OpPointerMove, X: 360, Y: 350})
	submit(t, h, c1, board.Operation{Type: board.OpPointerUp, X: 360, Y: 350})
	drain(t, c1)
	drain(t, c2)

	submit(t, h, c2, board.Operation{Type: board.OpPointerDown, X: 400, Y: 400, HitID: &empty})
	if _, ok := find(drain(t, c2), TypeOpAck); !ok {
		t.Error("second client could not start a gesture after the first released")
	}
}

func TestOwnerDisconnectAbortsGesture(t *testing.T) {
	h, boardID := newTestHub(t)
	c1 := join(h, boardID, "c1")
	c2 := join(h, boardID, "c2")

	empty := ""
	submit(t, h, c1, board.Operation{Type: board.OpPointerDown, X: 300, Y: 300, HitID: &empty})
	submit(t, h, c1, board.Operation{Type: board.OpPointerMove, X: 360, Y: 350})
	drain(t, c2)

	h.removeClient(c1)

	msgs := drain(t, c2)
	stateMsg, ok := find(msgs, TypeBoardState)
	if !ok {
		t.Fatalf("messages = %v, want board.state after abort", types(msgs))
	}
	var st BoardStatePayload
	json.Unmarshal(stateMsg.Payload, &st)
	if st.State.Marquee.Visible {
		t.Error("marquee still visible after its owner left")
	}
	if _, ok := find(msgs, TypePresenceLeave); !ok {
		t.Error("no presence.leave broadcast")
	}

	submit(t, h, c2, board.Operation{Type: board.OpPointerDown, X: 10, Y: 400, HitID: &empty})
	if _, ok := find(drain(t, c2), TypeOpAck); !ok {
		t.Error("gesture ownership was not released")
	}
}

func TestPresenceUpdate(t *testing.T) {
	h, boardID := newTestHub(t)
	c1 := join(h, boardID, "c1")
	c2 := join(h, boardID, "c2")
	drain(t, c1)
	drain(t, c2)

	h.handleMessage(c1, &Message{Type: TypePresenceUpdate, Payload: json.RawMessage(`{"cursor":{"x":1,"y":2}}`)})

	if _, ok := find(drain(t, c1), TypePresenceUpdate); ok {
		t.Error("presence echoed back to its sender")
	}
	msg, ok := find(drain(t, c2), TypePresenceUpdate)
	if !ok {
		t.Fatal("presence not forwarded")
	}
	var p PresencePayload
	json.Unmarshal(msg.Payload, &p)
	if p.ClientID != "c1" || p.Cursor == nil || p.Cursor.X != 1 {
		t.Errorf("presence = %+v", p)
	}
}
