// Package proto defines the compact tagged wire messages exchanged over a
// game websocket. Every message is a fixed-position tuple [type, ...].
package proto

import (
	"encoding/json"
	"fmt"
)

// Message type identifiers, shared by both directions.
const (
	MsgInit   = 1
	MsgUpdate = 2
	MsgSync   = 3
	MsgError  = 4
)

// Error reasons sent in the ERROR details object.
const (
	ReasonGameDoesNotExist = "game-does-not-exist"
	ReasonRequiresAccount  = "requires-account"
	ReasonRequiresPassword = "requires-password"
	ReasonWrongPassword    = "wrong-password"
	ReasonBanned           = "banned"
)

// ErrorDetails is the payload of an ERROR message.
type ErrorDetails struct {
	Reason string `json:"reason"`
}

// ClientMessage is a decoded client-to-server message. For UPDATE, Seq is
// the client's own sequence counter and Input the raw input event tuple.
type ClientMessage struct {
	Type  int
	Seq   int
	Input json.RawMessage
}

// DecodeClientMessage parses a client tuple: INIT is [type]; UPDATE is
// [type, clientSeq, inputEvent].
func DecodeClientMessage(data []byte) (ClientMessage, error) {
	var fields []json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return ClientMessage{}, fmt.Errorf("proto: not a tuple: %w", err)
	}
	if len(fields) == 0 {
		return ClientMessage{}, fmt.Errorf("proto: empty message")
	}
	var msg ClientMessage
	if err := json.Unmarshal(fields[0], &msg.Type); err != nil {
		return ClientMessage{}, fmt.Errorf("proto: bad message type: %w", err)
	}
	switch msg.Type {
	case MsgInit:
		return msg, nil
	case MsgUpdate:
		if len(fields) < 3 {
			return ClientMessage{}, fmt.Errorf("proto: update needs a sequence and an event")
		}
		if err := json.Unmarshal(fields[1], &msg.Seq); err != nil {
			return ClientMessage{}, fmt.Errorf("proto: bad client seq: %w", err)
		}
		msg.Input = json.RawMessage(fields[2])
		return msg, nil
	default:
		return ClientMessage{}, fmt.Errorf("proto: unknown client message type %d", msg.Type)
	}
}

// EncodeInit renders the full-state message sent on a successful connect.
func EncodeInit(encodedGame []any) ([]byte, error) {
	return json.Marshal([]any{MsgInit, encodedGame})
}

// EncodeUpdate renders a diff broadcast tagged with the originating client
// and its sequence number, so the origin can drop the echo of its own
// optimistic update.
func EncodeUpdate(originID string, originSeq int, changes []any) ([]byte, error) {
	return json.Marshal([]any{MsgUpdate, originID, originSeq, changes})
}

// EncodeSync pushes a fresh game encoding without a reconnect, used when
// access-control metadata changes.
func EncodeSync(encodedGame []any) ([]byte, error) {
	return json.Marshal([]any{MsgSync, encodedGame})
}

// EncodeError renders an ERROR reply. The socket stays open; closing is
// the client's decision.
func EncodeError(reason string) ([]byte, error) {
	return json.Marshal([]any{MsgError, ErrorDetails{Reason: reason}})
}
