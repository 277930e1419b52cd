package net

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"jigsaw-party/server"
	"jigsaw-party/server/internal/gamelog"
)

type stubStorage struct {
	rows map[string]server.StoredGame
}

func (s *stubStorage) LoadGame(_ context.Context, id string) (server.StoredGame, bool, error) {
	row, ok := s.rows[id]
	return row, ok, nil
}

func (s *stubStorage) SaveGame(_ context.Context, row server.StoredGame) error {
	s.rows[row.ID] = row
	return nil
}

func newTestHandler(t *testing.T) (*server.Hub, *httptest.Server) {
	t.Helper()
	storage := &stubStorage{rows: make(map[string]server.StoredGame)}
	logs := gamelog.NewStore(t.TempDir())
	cfg := server.HubConfig{SweepInterval: time.Minute, EvictAfterSweeps: 3}
	hub := server.NewHub(cfg, storage, logs, nil, nil, zerolog.Nop())

	srv := httptest.NewServer(NewHTTPHandler(hub, nil, HTTPHandlerConfig{Logger: zerolog.Nop()}))
	t.Cleanup(srv.Close)
	return hub, srv
}

func TestHealthEndpoint(t *testing.T) {
	_, srv := newTestHandler(t)

	resp, err := srv.Client().Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestCreateGameEndpoint(t *testing.T) {
	hub, srv := newTestHandler(t)

	body := `{"imageUrl":"https://example.com/cat.jpg","imageW":300,"imageH":300,"targetCount":9}`
	resp, err := srv.Client().Post(srv.URL+"/api/games", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST /api/games: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var created struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("empty game id")
	}
	if _, ok := hub.Registry().Get(created.ID); !ok {
		t.Fatalf("created game not loaded")
	}
}

func TestCreateGameValidation(t *testing.T) {
	_, srv := newTestHandler(t)

	cases := []struct {
		name string
		body string
	}{
		{"not json", `nope`},
		{"zero dimensions", `{"imageW":0,"imageH":300,"targetCount":9}`},
		{"oversized image", `{"imageW":999999,"imageH":300,"targetCount":9}`},
		{"single piece", `{"imageW":300,"imageH":300,"targetCount":1}`},
		{"too many pieces", `{"imageW":300,"imageH":300,"targetCount":999999}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := srv.Client().Post(srv.URL+"/api/games", "application/json", strings.NewReader(tc.body))
			if err != nil {
				t.Fatalf("POST: %v", err)
			}
			resp.Body.Close()
			if resp.StatusCode != 400 {
				t.Fatalf("status = %d, want 400", resp.StatusCode)
			}
		})
	}
}

func TestListGamesWithoutStore(t *testing.T) {
	_, srv := newTestHandler(t)

	resp, err := srv.Client().Get(srv.URL + "/api/games")
	if err != nil {
		t.Fatalf("GET /api/games: %v", err)
	}
	defer resp.Body.Close()
	var listings []any
	if err := json.NewDecoder(resp.Body).Decode(&listings); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(listings) != 0 {
		t.Fatalf("listings = %v", listings)
	}
}

func TestRosterEndpointUnknownGame(t *testing.T) {
	_, srv := newTestHandler(t)

	resp, err := srv.Client().Get(srv.URL + "/api/games/nope/players")
	if err != nil {
		t.Fatalf("GET roster: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != 404 {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestReplayAvailabilityUnknownGame(t *testing.T) {
	_, srv := newTestHandler(t)

	resp, err := srv.Client().Get(srv.URL + "/api/replay/nope")
	if err != nil {
		t.Fatalf("GET replay availability: %v", err)
	}
	defer resp.Body.Close()
	var reply struct {
		HasReplay bool `json:"hasReplay"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if reply.HasReplay {
		t.Fatalf("missing game reports a replay")
	}
}

func TestDiagnosticsEndpoint(t *testing.T) {
	hub, srv := newTestHandler(t)
	if _, err := hub.CreateGame(context.Background(), server.CreateGameOptions{
		ImageW: 300, ImageH: 300, TargetCount: 9,
	}); err != nil {
		t.Fatalf("CreateGame: %v", err)
	}

	resp, err := srv.Client().Get(srv.URL + "/api/diagnostics")
	if err != nil {
		t.Fatalf("GET /api/diagnostics: %v", err)
	}
	defer resp.Body.Close()
	var payload struct {
		Status string `json:"status"`
		Hub    struct {
			LoadedGames int `json:"loadedGames"`
		} `json:"hub"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Status != "ok" || payload.Hub.LoadedGames != 1 {
		t.Fatalf("payload = %+v", payload)
	}
}
