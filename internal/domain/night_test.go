package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedGame builds a game with explicit seat-to-role assignment, bypassing
// the shuffle.
func fixedGame(roles ...RoleKind) *GameState {
	g := New("g")
	g.Phase = PhaseNight
	for i, r := range roles {
		g.Players = append(g.Players, &Player{
			ID:          i + 1,
			Name:        fmt.Sprintf("Player %d", i+1),
			Role:        r,
			IsAlive:     true,
			ElderShield: r == RoleElder,
		})
	}
	return g
}

func TestNightWolfKill(t *testing.T) {
	g := fixedGame(RoleWerewolf, RoleVillager, RoleVillager)
	deaths := g.ApplyNightResolution(map[int]Action{
		1: {Type: ActionKill, Target: 2},
	})
	require.Len(t, deaths, 1)
	assert.Equal(t, 2, deaths[0].PlayerID)
	assert.False(t, g.Player(2).IsAlive)
	assert.Equal(t, deaths, g.LastNightDeaths)
}

func TestNightPackVotesResolveByPlurality(t *testing.T) {
	g := fixedGame(RoleWerewolf, RoleWerewolf, RoleWerewolf, RoleVillager, RoleVillager, RoleVillager, RoleVillager)
	deaths := g.ApplyNightResolution(map[int]Action{
		1: {Type: ActionKill, Target: 4},
		2: {Type: ActionKill, Target: 5},
		3: {Type: ActionKill, Target: 5},
	})
	require.Len(t, deaths, 1)
	assert.Equal(t, 5, deaths[0].PlayerID)
}

func TestNightPackTieBreaksToLowestID(t *testing.T) {
	g := fixedGame(RoleWerewolf, RoleWerewolf, RoleVillager, RoleVillager, RoleVillager)
	deaths := g.ApplyNightResolution(map[int]Action{
		1: {Type: ActionKill, Target: 4},
		2: {Type: ActionKill, Target: 3},
	})
	require.Len(t, deaths, 1)
	assert.Equal(t, 3, deaths[0].PlayerID)
}

func TestNightGuardBlocksTheKill(t *testing.T) {
	g := fixedGame(RoleWerewolf, RoleGuard, RoleVillager)
	deaths := g.ApplyNightResolution(map[int]Action{
		1: {Type: ActionKill, Target: 3},
		2: {Type: ActionProtect, Target: 3},
	})
	assert.Empty(t, deaths)
	assert.True(t, g.Player(3).IsAlive)
}

func TestNightWitchSaveBlocksTheKill(t *testing.T) {
	g := fixedGame(RoleWerewolf, RoleWitch, RoleVillager)
	deaths := g.ApplyNightResolution(map[int]Action{
		1: {Type: ActionKill, Target: 3},
		2: {Type: ActionSave},
	})
	assert.Empty(t, deaths)
	assert.True(t, g.Player(3).IsAlive)
}

func TestNightWitchPoisonBypassesGuard(t *testing.T) {
	g := fixedGame(RoleWitch, RoleGuard, RoleWerewolf)
	deaths := g.ApplyNightResolution(map[int]Action{
		1: {Type: ActionPoison, Target: 3},
		2: {Type: ActionProtect, Target: 3},
	})
	require.Len(t, deaths, 1)
	assert.Equal(t, 3, deaths[0].PlayerID)
	assert.False(t, g.Player(3).IsAlive)
}

func TestNightElderShieldAbsorbsFirstKill(t *testing.T) {
	g := fixedGame(RoleWerewolf, RoleElder, RoleVillager, RoleVillager)
	attack := map[int]Action{1: {Type: ActionKill, Target: 2}}

	deaths := g.ApplyNightResolution(attack)
	assert.Empty(t, deaths)
	assert.True(t, g.Player(2).IsAlive)
	assert.False(t, g.Player(2).ElderShield, "shield is spent")

	deaths = g.ApplyNightResolution(attack)
	require.Len(t, deaths, 1)
	assert.False(t, g.Player(2).IsAlive)
}

func TestNightElderShieldNotLoggedPublicly(t *testing.T) {
	g := fixedGame(RoleWerewolf, RoleElder, RoleVillager)
	g.ApplyNightResolution(map[int]Action{1: {Type: ActionKill, Target: 2}})
	for _, line := range g.EventHistory {
		assert.NotContains(t, line, "elder")
		assert.NotContains(t, line, "shield")
	}
}

func TestNightMagicianSwapVoidsMatchingKill(t *testing.T) {
	g := fixedGame(RoleWerewolf, RoleMagician, RoleVillager)
	deaths := g.ApplyNightResolution(map[int]Action{
		1: {Type: ActionKill, Target: 3},
		2: {Type: ActionSwap, Target: 3},
	})
	assert.Empty(t, deaths)
	assert.True(t, g.Player(3).IsAlive)
}

func TestNightMagicianSwapElsewhereDoesNothing(t *testing.T) {
	g := fixedGame(RoleWerewolf, RoleMagician, RoleVillager, RoleVillager)
	deaths := g.ApplyNightResolution(map[int]Action{
		1: {Type: ActionKill, Target: 3},
		2: {Type: ActionSwap, Target: 4},
	})
	require.Len(t, deaths, 1)
	assert.Equal(t, 3, deaths[0].PlayerID)
}

func TestNightHunterRevengeFiresOnWolfKill(t *testing.T) {
	g := fixedGame(RoleWerewolf, RoleHunter, RoleVillager)
	deaths := g.ApplyNightResolution(map[int]Action{
		1: {Type: ActionKill, Target: 2},
		2: {Type: ActionShoot, Target: 1},
	})
	require.Len(t, deaths, 2)
	assert.Equal(t, 2, deaths[0].PlayerID)
	assert.Equal(t, 1, deaths[1].PlayerID)
	assert.False(t, g.Player(1).IsAlive)
}

func TestNightPoisonSuppressesRevenge(t *testing.T) {
	g := fixedGame(RoleWitch, RoleWolfKiller, RoleWerewolf, RoleVillager)
	deaths := g.ApplyNightResolution(map[int]Action{
		1: {Type: ActionPoison, Target: 2},
		2: {Type: ActionShoot, Target: 3},
	})
	require.Len(t, deaths, 1)
	assert.Equal(t, 2, deaths[0].PlayerID)
	assert.True(t, g.Player(3).IsAlive, "the shot only fires on a werewolf kill")
}

func TestNightDeadActorsAreIgnored(t *testing.T) {
	g := fixedGame(RoleWerewolf, RoleVillager, RoleVillager)
	g.Player(1).IsAlive = false
	deaths := g.ApplyNightResolution(map[int]Action{
		1: {Type: ActionKill, Target: 2},
	})
	assert.Empty(t, deaths)
}

func TestNightQuietNightIsLogged(t *testing.T) {
	g := fixedGame(RoleWerewolf, RoleVillager, RoleVillager)
	g.ApplyNightResolution(map[int]Action{1: {Type: ActionSleep}})
	require.NotEmpty(t, g.EventHistory)
	assert.Contains(t, g.EventHistory[len(g.EventHistory)-1], "nobody died")
}

func TestNightResolutionIsDeterministic(t *testing.T) {
	actions := map[int]Action{
		1: {Type: ActionKill, Target: 4},
		2: {Type: ActionKill, Target: 5},
		3: {Type: ActionProtect, Target: 5},
	}
	resolve := func() []Death {
		g := fixedGame(RoleWerewolf, RoleWerewolf, RoleGuard, RoleVillager, RoleVillager, RoleVillager)
		return g.ApplyNightResolution(actions)
	}
	assert.Equal(t, resolve(), resolve())
}

func TestNightPriorityOrder(t *testing.T) {
	order := NightPriority()
	require.NotEmpty(t, order)
	assert.Equal(t, ActionProtect, order[0], "protection resolves before the kill")
	idx := func(a ActionType) int {
		for i, x := range order {
			if x == a {
				return i
			}
		}
		return -1
	}
	assert.Less(t, idx(ActionKill), idx(ActionSave))
	assert.Less(t, idx(ActionSave), idx(ActionCheck))
}
