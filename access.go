package server

import (
	"jigsaw-party/server/internal/game"
	"jigsaw-party/server/internal/net/proto"
)

// Access is the auth collaborator consulted on every connection attempt and
// privileged command. The hub never inspects credentials itself.
type Access interface {
	// CheckJoin returns an ERROR reason from the proto package, or "" when
	// the client may enter the game.
	CheckJoin(g *game.Game, clientID, password string) string
	// CanAdmin reports whether the client may issue ban/unban commands.
	CanAdmin(g *game.Game, clientID string) bool
}

// gameAccess is the default collaborator: it judges from the access
// metadata carried on the game value itself.
type gameAccess struct{}

// NewGameAccess returns the default access collaborator.
func NewGameAccess() Access { return gameAccess{} }

func (gameAccess) CheckJoin(g *game.Game, clientID, password string) string {
	if g.Banned[clientID] {
		return proto.ReasonBanned
	}
	if g.RequireAccount && !g.RegisteredMap[clientID] {
		return proto.ReasonRequiresAccount
	}
	if g.JoinPassword != "" && clientID != g.CreatorUserID {
		if password == "" {
			return proto.ReasonRequiresPassword
		}
		if password != g.JoinPassword {
			return proto.ReasonWrongPassword
		}
	}
	return ""
}

func (gameAccess) CanAdmin(g *game.Game, clientID string) bool {
	return clientID != "" && clientID == g.CreatorUserID
}
