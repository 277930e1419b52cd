package game

import (
	"encoding/json"
	"fmt"
)

// InputKind tags a player input event.
type InputKind int

const (
	InputMouseDown       InputKind = 1
	InputMouseUp         InputKind = 2
	InputMouseMove       InputKind = 3
	InputZoomIn          InputKind = 4
	InputZoomOut         InputKind = 5
	InputBgColor         InputKind = 6
	InputPlayerColor     InputKind = 7
	InputPlayerName      InputKind = 8
	InputMove            InputKind = 9
	InputConnectionClose InputKind = 10
	// InputBan and InputUnban arrive on the same channel as gameplay inputs
	// but are privileged: the hub intercepts them before the event
	// processor and applies its own authorization check.
	InputBan   InputKind = 11
	InputUnban InputKind = 12
)

// Input is one decoded player input event. The wire form is a compact
// fixed-position tuple; decoding happens once at the boundary.
type Input struct {
	Kind InputKind
	X    float64
	Y    float64
	DX   float64
	DY   float64
	// Value carries the color, name or target client id for the
	// cosmetic and privileged kinds.
	Value string
}

// Privileged reports whether the input must bypass the event processor.
func (in Input) Privileged() bool {
	return in.Kind == InputBan || in.Kind == InputUnban
}

// EncodeInput renders the wire tuple for an input event.
func EncodeInput(in Input) []any {
	switch in.Kind {
	case InputMouseDown, InputMouseUp, InputMouseMove, InputZoomIn, InputZoomOut:
		return []any{int(in.Kind), in.X, in.Y}
	case InputMove:
		return []any{int(in.Kind), in.DX, in.DY}
	case InputBgColor, InputPlayerColor, InputPlayerName, InputBan, InputUnban:
		return []any{int(in.Kind), in.Value}
	default:
		return []any{int(in.Kind)}
	}
}

// DecodeInput parses a wire tuple. Unknown kinds decode successfully with
// only the kind set; the event processor degrades them to a liveness
// update rather than failing the connection.
func DecodeInput(raw json.RawMessage) (Input, error) {
	var fields []json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Input{}, fmt.Errorf("input: not a tuple: %w", err)
	}
	if len(fields) == 0 {
		return Input{}, fmt.Errorf("input: empty tuple")
	}
	var kind int
	if err := json.Unmarshal(fields[0], &kind); err != nil {
		return Input{}, fmt.Errorf("input: bad kind: %w", err)
	}

	in := Input{Kind: InputKind(kind)}
	switch in.Kind {
	case InputMouseDown, InputMouseUp, InputMouseMove, InputZoomIn, InputZoomOut:
		if len(fields) < 3 {
			return Input{}, fmt.Errorf("input: kind %d needs a position", kind)
		}
		if err := json.Unmarshal(fields[1], &in.X); err != nil {
			return Input{}, fmt.Errorf("input: bad x: %w", err)
		}
		if err := json.Unmarshal(fields[2], &in.Y); err != nil {
			return Input{}, fmt.Errorf("input: bad y: %w", err)
		}
	case InputMove:
		if len(fields) < 3 {
			return Input{}, fmt.Errorf("input: move needs a delta")
		}
		if err := json.Unmarshal(fields[1], &in.DX); err != nil {
			return Input{}, fmt.Errorf("input: bad dx: %w", err)
		}
		if err := json.Unmarshal(fields[2], &in.DY); err != nil {
			return Input{}, fmt.Errorf("input: bad dy: %w", err)
		}
	case InputBgColor, InputPlayerColor, InputPlayerName, InputBan, InputUnban:
		if len(fields) < 2 {
			return Input{}, fmt.Errorf("input: kind %d needs a value", kind)
		}
		if err := json.Unmarshal(fields[1], &in.Value); err != nil {
			return Input{}, fmt.Errorf("input: bad value: %w", err)
		}
	}
	return in, nil
}
