package game

import "sync"

// Registry is the owned gameId-to-game map. It only guards the map itself;
// mutations to a loaded game must be serialized per game by the caller.
type Registry struct {
	mu    sync.RWMutex
	games map[string]*Game
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{games: make(map[string]*Game)}
}

// Load inserts or replaces a game.
func (r *Registry) Load(g *Game) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.games[g.ID] = g
}

// Unload removes a game from memory. Persisting it first is the caller's
// responsibility.
func (r *Registry) Unload(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.games, id)
}

// Exists reports whether a game is currently loaded.
func (r *Registry) Exists(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.games[id]
	return ok
}

// Get returns the loaded game for id.
func (r *Registry) Get(id string) (*Game, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.games[id]
	return g, ok
}

// IDs returns the ids of all loaded games.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.games))
	for id := range r.games {
		out = append(out, id)
	}
	return out
}
