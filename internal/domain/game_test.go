package domain

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupDealsRequestedRoles(t *testing.T) {
	g := New("g1")
	err := g.Setup(8, 2, []RoleKind{RoleSeer, RoleWitch, RoleGuard}, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	require.Len(t, g.Players, 8)

	counts := map[RoleKind]int{}
	for _, p := range g.Players {
		counts[p.Role]++
		assert.True(t, p.IsAlive)
	}
	assert.Equal(t, 2, counts[RoleWerewolf])
	assert.Equal(t, 1, counts[RoleSeer])
	assert.Equal(t, 1, counts[RoleWitch])
	assert.Equal(t, 1, counts[RoleGuard])
	assert.Equal(t, 3, counts[RoleVillager])
}

func TestSetupSameSeedSameDeal(t *testing.T) {
	deal := func() []RoleKind {
		g := New("g")
		require.NoError(t, g.Setup(7, 2, []RoleKind{RoleSeer}, rand.New(rand.NewSource(42))))
		out := make([]RoleKind, 0, len(g.Players))
		for _, p := range g.Players {
			out = append(out, p.Role)
		}
		return out
	}
	assert.Equal(t, deal(), deal())
}

func TestSetupRejectsBadConfigurations(t *testing.T) {
	tests := []struct {
		name     string
		players  int
		wolves   int
		specials []RoleKind
		wantErr  error
	}{
		{"zero werewolves", 8, 0, nil, ErrTooManyWerewolves},
		{"werewolf majority", 6, 3, nil, ErrTooManyWerewolves},
		{"too many specials", 5, 2, []RoleKind{RoleSeer, RoleWitch, RoleGuard, RoleHunter}, ErrTooManySpecials},
		{"werewolf as special", 8, 2, []RoleKind{RoleWerewolf}, ErrUnknownRole},
		{"unknown special", 8, 2, []RoleKind{"jester"}, ErrUnknownRole},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New("g")
			err := g.Setup(tt.players, tt.wolves, tt.specials, rand.New(rand.NewSource(1)))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestElderStartsWithShield(t *testing.T) {
	g := New("g")
	require.NoError(t, g.Setup(6, 1, []RoleKind{RoleElder}, rand.New(rand.NewSource(3))))
	for _, p := range g.Players {
		assert.Equal(t, p.Role == RoleElder, p.ElderShield)
	}
}

func TestAdvancePhaseCycle(t *testing.T) {
	g := New("g")
	require.NoError(t, g.Setup(6, 1, nil, rand.New(rand.NewSource(1))))

	assert.Equal(t, PhaseSetup, g.Phase)
	g.AdvancePhase()
	assert.Equal(t, PhaseNight, g.Phase)
	assert.Equal(t, 1, g.Day)

	g.CurrentDiscussions = []Discussion{{PlayerID: 1, Content: "stale"}}
	g.AdvancePhase()
	assert.Equal(t, PhaseDay, g.Phase)
	assert.Empty(t, g.CurrentDiscussions, "day start clears yesterday's discussions")

	g.AdvancePhase()
	assert.Equal(t, PhaseVote, g.Phase)
	g.AdvancePhase()
	assert.Equal(t, PhaseNight, g.Phase)
	assert.Equal(t, 2, g.Day)
}

func TestAdvancePhasePinsGameOver(t *testing.T) {
	g := New("g")
	require.NoError(t, g.Setup(6, 1, nil, rand.New(rand.NewSource(1))))
	g.GameOver = true
	g.AdvancePhase()
	assert.Equal(t, PhaseGameOver, g.Phase)
	g.AdvancePhase()
	assert.Equal(t, PhaseGameOver, g.Phase)
}

func TestCheckWinCondition(t *testing.T) {
	kill := func(g *GameState, role RoleKind, n int) {
		for _, p := range g.Players {
			if n > 0 && p.IsAlive && p.Role == role {
				p.IsAlive = false
				n--
			}
		}
	}

	t.Run("village wins when no wolves remain", func(t *testing.T) {
		g := New("g")
		require.NoError(t, g.Setup(6, 1, nil, rand.New(rand.NewSource(1))))
		kill(g, RoleWerewolf, 1)
		over, winner := g.CheckWinCondition()
		assert.True(t, over)
		assert.Equal(t, TeamVillage, winner)
	})

	t.Run("wolves win at parity", func(t *testing.T) {
		g := New("g")
		require.NoError(t, g.Setup(6, 2, nil, rand.New(rand.NewSource(1))))
		kill(g, RoleVillager, 2)
		over, winner := g.CheckWinCondition()
		assert.True(t, over)
		assert.Equal(t, TeamWerewolf, winner)
	})

	t.Run("no winner while wolves are outnumbered", func(t *testing.T) {
		g := New("g")
		require.NoError(t, g.Setup(6, 2, nil, rand.New(rand.NewSource(1))))
		over, winner := g.CheckWinCondition()
		assert.False(t, over)
		assert.Empty(t, winner)
		assert.False(t, g.GameOver)
	})
}

func TestRecentEventsBoundsTheWindow(t *testing.T) {
	g := New("g")
	for i := 0; i < 20; i++ {
		g.Event("event %d", i)
	}
	recent := g.RecentEvents(5)
	require.Len(t, recent, 5)
	assert.Equal(t, "event 19", recent[4])
	assert.Len(t, g.EventHistory, 20, "history itself is never truncated")
	assert.Len(t, g.RecentEvents(0), 20)
}
