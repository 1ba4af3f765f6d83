package persist

import (
	"encoding/json"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacky88927/werewolf-llm-game/internal/domain"
)

func sampleSnapshot(t *testing.T) *Snapshot {
	t.Helper()
	g := domain.New("save-me")
	require.NoError(t, g.Setup(7, 2, []domain.RoleKind{domain.RoleSeer, domain.RoleWitch}, rand.New(rand.NewSource(5))))
	g.Phase = domain.PhaseDay
	g.Day = 3
	g.Player(4).IsAlive = false
	g.LastVoted = &domain.Death{PlayerID: 4, Name: "Player 4", Role: g.Player(4).Role}
	g.Event("Day 2: Player 4 (Player 4) was voted out; they were the %s", g.Player(4).Role)

	return &Snapshot{
		Game: g,
		Memories: map[int]json.RawMessage{
			2: json.RawMessage(`{"checked":{"4":false}}`),
			5: json.RawMessage(`{"heal_used":true,"poison_used":false}`),
		},
		Models: map[int]string{1: "Groq - llama-3.3-70b-versatile", 2: "Gemini - gemini-2.0-flash"},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "game.json")
	snap := sampleSnapshot(t)
	require.NoError(t, Save(path, snap))

	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, snap.Game, loaded.Game)
	assert.JSONEq(t, string(snap.Memories[2]), string(loaded.Memories[2]))
	assert.JSONEq(t, string(snap.Memories[5]), string(loaded.Memories[5]))
	assert.Equal(t, snap.Models, loaded.Models)
	assert.False(t, loaded.SavedAt.IsZero())
}

func TestSaveRejectsEmptySnapshot(t *testing.T) {
	err := Save(filepath.Join(t.TempDir(), "x.json"), &Snapshot{})
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestLoadRejectsSnapshotWithoutGame(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"saved_at":"2026-01-02T15:04:05Z"}`), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestFilename(t *testing.T) {
	ts := time.Date(2026, 8, 29, 21, 30, 5, 0, time.UTC)
	assert.Equal(t, "game_20260829_213005.json", Filename(ts))
}
