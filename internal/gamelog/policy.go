package gamelog

// finishedGraceMs keeps the log capturing post-completion activity for a
// bounded window; after that, games left open forever stop growing their
// logs.
const finishedGraceMs = 5 * 60 * 1000

// MinReplayVersion is the oldest game format whose logs can be replayed.
const MinReplayVersion = 2

// ShouldLog reports whether an event at now belongs in the log: everything
// while the game is unfinished, then only the grace window after the finish
// timestamp.
func ShouldLog(finishedTs, now int64) bool {
	if finishedTs == 0 {
		return true
	}
	return now <= finishedTs+finishedGraceMs
}

// HasReplay reports whether the game can be reconstructed: it needs both a
// readable log index and a format version new enough to replay.
func (s *Store) HasReplay(gameID string, gameVersion int) bool {
	if gameVersion < MinReplayVersion {
		return false
	}
	return s.Exists(gameID)
}
