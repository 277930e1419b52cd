// Package gameplay declares the structured events the hub emits while a
// puzzle is being played.
package gameplay

import (
	"context"

	"jigsaw-party/server/logging"
)

const (
	// EventGameCreated is emitted when a new puzzle game is generated.
	EventGameCreated logging.EventType = "gameplay.game_created"
	// EventPlayerJoined is emitted when a client joins a game.
	EventPlayerJoined logging.EventType = "gameplay.player_joined"
	// EventPiecesSnapped is emitted when a drop connects pieces.
	EventPiecesSnapped logging.EventType = "gameplay.pieces_snapped"
	// EventGameFinished is emitted when the last piece locks into place.
	EventGameFinished logging.EventType = "gameplay.game_finished"
	// EventAdminCommand is emitted for ban and unban commands.
	EventAdminCommand logging.EventType = "gameplay.admin_command"
)

// GameCreatedPayload captures the generated puzzle dimensions.
type GameCreatedPayload struct {
	PieceCount int  `json:"pieceCount"`
	Private    bool `json:"private"`
}

// AdminCommandPayload captures the privileged command that ran.
type AdminCommandPayload struct {
	Kind int `json:"kind"`
}

// GameCreated publishes a game creation event.
func GameCreated(ctx context.Context, pub logging.Publisher, gameID string, payload GameCreatedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventGameCreated,
		Game:     gameID,
		Actor:    logging.EntityRef{ID: gameID, Kind: logging.EntityKindGame},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryGameplay,
		Payload:  payload,
	})
}

// PlayerJoined publishes a join event.
func PlayerJoined(ctx context.Context, pub logging.Publisher, gameID, playerID string) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventPlayerJoined,
		Game:     gameID,
		Actor:    logging.EntityRef{ID: playerID, Kind: logging.EntityKindPlayer},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryGameplay,
	})
}

// PiecesSnapped publishes a successful snap by a player.
func PiecesSnapped(ctx context.Context, pub logging.Publisher, gameID, playerID string) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventPiecesSnapped,
		Game:     gameID,
		Actor:    logging.EntityRef{ID: playerID, Kind: logging.EntityKindPlayer},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryGameplay,
	})
}

// GameFinished publishes puzzle completion.
func GameFinished(ctx context.Context, pub logging.Publisher, gameID string) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventGameFinished,
		Game:     gameID,
		Actor:    logging.EntityRef{ID: gameID, Kind: logging.EntityKindGame},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryGameplay,
	})
}

// AdminCommand publishes a privileged ban or unban.
func AdminCommand(ctx context.Context, pub logging.Publisher, gameID, actorID, targetID string, payload AdminCommandPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventAdminCommand,
		Game:     gameID,
		Actor:    logging.EntityRef{ID: actorID, Kind: logging.EntityKindPlayer},
		Targets:  []logging.EntityRef{{ID: targetID, Kind: logging.EntityKindPlayer}},
		Severity: logging.SeverityWarn,
		Category: logging.CategorySystem,
		Payload:  payload,
	})
}
