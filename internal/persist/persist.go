// Package persist saves and restores games as JSON. A snapshot is the full
// game state plus every role's private memory, so a resumed seer still
// knows who it checked and a resumed witch still knows which potions are
// gone.
package persist

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jacky88927/werewolf-llm-game/internal/domain"
)

// Snapshot is the on-disk form of a game. Memories maps player ids to
// opaque role memory blocks; Models records which provider drove each seat,
// for summaries only.
type Snapshot struct {
	SavedAt  time.Time               `json:"saved_at"`
	Game     *domain.GameState       `json:"game"`
	Memories map[int]json.RawMessage `json:"memories,omitempty"`
	Models   map[int]string          `json:"models,omitempty"`
}

// Filename returns the conventional timestamped save name,
// game_YYYYMMDD_HHMMSS.json.
func Filename(t time.Time) string {
	return fmt.Sprintf("game_%s.json", t.Format("20060102_150405"))
}

// Save writes the snapshot to path, creating parent directories as needed.
func Save(path string, snap *Snapshot) error {
	if snap.Game == nil {
		return fmt.Errorf("save %s: snapshot has no game state", path)
	}
	if snap.SavedAt.IsZero() {
		snap.SavedAt = time.Now()
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("save %s: %w", path, err)
		}
	}

	buf, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// Load reads a snapshot from path.
func Load(path string) (*Snapshot, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	var snap Snapshot
	if err := json.Unmarshal(buf, &snap); err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	if snap.Game == nil {
		return nil, fmt.Errorf("load %s: snapshot has no game state", path)
	}
	return &snap, nil
}
