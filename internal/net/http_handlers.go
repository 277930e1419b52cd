// Package net exposes the HTTP surface: game creation, the websocket
// entrypoint, replay download and diagnostics.
package net

import (
	"encoding/json"
	"errors"
	nethttp "net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"jigsaw-party/server"
	"jigsaw-party/server/internal/game"
	"jigsaw-party/server/internal/gamelog"
	"jigsaw-party/server/internal/net/ws"
	"jigsaw-party/server/internal/observability"
	"jigsaw-party/server/internal/puzzle"
	"jigsaw-party/server/internal/store"
)

// HTTPHandlerConfig carries the tunables of the HTTP layer.
type HTTPHandlerConfig struct {
	Logger        zerolog.Logger
	MaxImageDim   int
	MaxPieceCount int
	Observability observability.Config
}

type createGameRequest struct {
	ImageURL       string `json:"imageUrl"`
	ImageW         int    `json:"imageW"`
	ImageH         int    `json:"imageH"`
	TargetCount    int    `json:"targetCount"`
	ScoreMode      int    `json:"scoreMode"`
	ShapeMode      int    `json:"shapeMode"`
	SnapMode       int    `json:"snapMode"`
	RotationMode   int    `json:"rotationMode"`
	CreatorUserID  string `json:"creatorUserId"`
	Private        bool   `json:"private"`
	JoinPassword   string `json:"joinPassword"`
	RequireAccount bool   `json:"requireAccount"`
}

type createGameResponse struct {
	ID string `json:"id"`
}

// NewHTTPHandler builds the router. st may be nil in tests; the listing
// endpoint then reports an empty set.
func NewHTTPHandler(hub *server.Hub, st *store.Store, cfg HTTPHandlerConfig) nethttp.Handler {
	logger := cfg.Logger
	maxDim := cfg.MaxImageDim
	if maxDim <= 0 {
		maxDim = 20000
	}
	maxPieces := cfg.MaxPieceCount
	if maxPieces <= 0 {
		maxPieces = 10000
	}

	wsHandler := ws.NewHandler(hub, logger)
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *nethttp.Request) bool {
			return true
		},
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w nethttp.ResponseWriter, req *nethttp.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	})

	r.Get("/api/diagnostics", func(w nethttp.ResponseWriter, req *nethttp.Request) {
		payload := struct {
			Status     string             `json:"status"`
			ServerTime int64              `json:"serverTime"`
			Hub        server.Diagnostics `json:"hub"`
		}{
			Status:     "ok",
			ServerTime: time.Now().UnixMilli(),
			Hub:        hub.DiagnosticsSnapshot(),
		}
		writeJSON(w, logger, payload)
	})

	r.Post("/api/games", func(w nethttp.ResponseWriter, req *nethttp.Request) {
		var body createGameRequest
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			httpError(w, "invalid body", nethttp.StatusBadRequest)
			return
		}
		if body.ImageW <= 0 || body.ImageH <= 0 || body.ImageW > maxDim || body.ImageH > maxDim {
			httpError(w, "invalid image dimensions", nethttp.StatusBadRequest)
			return
		}
		if body.TargetCount <= 1 || body.TargetCount > maxPieces {
			httpError(w, "invalid piece count", nethttp.StatusBadRequest)
			return
		}

		id, err := hub.CreateGame(req.Context(), server.CreateGameOptions{
			ImageURL:       body.ImageURL,
			ImageW:         body.ImageW,
			ImageH:         body.ImageH,
			TargetCount:    body.TargetCount,
			ScoreMode:      game.ScoreMode(body.ScoreMode),
			ShapeMode:      puzzle.ShapeMode(body.ShapeMode),
			SnapMode:       game.SnapMode(body.SnapMode),
			RotationMode:   puzzle.RotationMode(body.RotationMode),
			CreatorUserID:  body.CreatorUserID,
			Private:        body.Private,
			JoinPassword:   body.JoinPassword,
			RequireAccount: body.RequireAccount,
		})
		if err != nil {
			logger.Error().Err(err).Msg("game creation failed")
			httpError(w, "failed to create game", nethttp.StatusInternalServerError)
			return
		}
		writeJSON(w, logger, createGameResponse{ID: id})
	})

	r.Get("/api/games", func(w nethttp.ResponseWriter, req *nethttp.Request) {
		if st == nil {
			writeJSON(w, logger, []store.GameListing{})
			return
		}
		listings, err := st.ListPublic(req.Context(), 50)
		if err != nil {
			logger.Error().Err(err).Msg("game listing failed")
			httpError(w, "failed to list games", nethttp.StatusInternalServerError)
			return
		}
		if listings == nil {
			listings = []store.GameListing{}
		}
		writeJSON(w, logger, listings)
	})

	r.Get("/api/games/{id}/players", func(w nethttp.ResponseWriter, req *nethttp.Request) {
		gameID := chi.URLParam(req, "id")
		roster, err := hub.Roster(req.Context(), gameID)
		if err != nil {
			if errors.Is(err, game.ErrGameNotFound) {
				httpError(w, "game not found", nethttp.StatusNotFound)
				return
			}
			logger.Error().Err(err).Str("game", gameID).Msg("roster failed")
			httpError(w, "failed to build roster", nethttp.StatusInternalServerError)
			return
		}
		writeJSON(w, logger, roster)
	})

	r.Get("/api/replay/{id}", func(w nethttp.ResponseWriter, req *nethttp.Request) {
		gameID := chi.URLParam(req, "id")
		payload := struct {
			HasReplay bool `json:"hasReplay"`
		}{HasReplay: hub.HasReplay(req.Context(), gameID)}
		writeJSON(w, logger, payload)
	})

	r.Get("/api/replay/{id}/{file}/{offset}", func(w nethttp.ResponseWriter, req *nethttp.Request) {
		gameID := chi.URLParam(req, "id")
		file, err1 := strconv.Atoi(chi.URLParam(req, "file"))
		offset, err2 := strconv.Atoi(chi.URLParam(req, "offset"))
		if err1 != nil || err2 != nil || file < 0 || offset < 0 {
			httpError(w, "invalid page", nethttp.StatusBadRequest)
			return
		}
		lines, err := hub.ReadReplay(gameID, file, offset)
		if err != nil {
			if errors.Is(err, gamelog.ErrNoLog) {
				httpError(w, "replay not found", nethttp.StatusNotFound)
				return
			}
			logger.Error().Err(err).Str("game", gameID).Msg("replay read failed")
			httpError(w, "failed to read replay", nethttp.StatusInternalServerError)
			return
		}
		payload := struct {
			Lines []string `json:"lines"`
		}{Lines: make([]string, len(lines))}
		for i, line := range lines {
			payload.Lines[i] = string(line)
		}
		writeJSON(w, logger, payload)
	})

	r.Get("/api/ws", func(w nethttp.ResponseWriter, req *nethttp.Request) {
		gameID := req.URL.Query().Get("game")
		if gameID == "" {
			httpError(w, "missing game", nethttp.StatusBadRequest)
			return
		}
		clientID := req.URL.Query().Get("client")
		password := req.URL.Query().Get("password")

		conn, err := upgrader.Upgrade(w, req, nil)
		if err != nil {
			logger.Warn().Err(err).Str("game", gameID).Msg("websocket upgrade failed")
			return
		}
		wsHandler.Serve(req.Context(), gameID, clientID, password, conn)
	})

	if cfg.Observability.EnablePprof {
		r.Mount("/debug", chimw.Profiler())
	}

	return r
}

func writeJSON(w nethttp.ResponseWriter, logger zerolog.Logger, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Error().Err(err).Msg("response encode failed")
		httpError(w, "failed to encode", nethttp.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func httpError(w nethttp.ResponseWriter, msg string, code int) {
	nethttp.Error(w, msg, code)
}
