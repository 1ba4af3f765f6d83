package domain

import "sort"

// nightPriority documents the fixed resolution order. Kept as data so the
// policy is visible in one place rather than implied by control flow.
var nightPriority = []ActionType{
	ActionProtect, ActionKill, ActionSave, ActionPoison, ActionShoot, ActionCheck, ActionDivine,
}

// NightPriority returns the resolution order of night actions.
func NightPriority() []ActionType {
	out := make([]ActionType, len(nightPriority))
	copy(out, nightPriority)
	return out
}

// ApplyNightResolution resolves the collected night actions in the fixed
// priority order: guard protection, then the werewolf kill, then the witch's
// save/poison, then hunter/wolfkiller revenge triggers. Informational
// actions (seer check, medium divination) never change state here.
//
// The resolution is deterministic: given the same action map it always
// produces the same deaths, in the same order.
func (g *GameState) ApplyNightResolution(actions map[int]Action) []Death {
	protected := make(map[int]bool)
	var saved bool
	var poisonTarget int
	var swapVoided bool

	// Werewolf kill votes are tallied by plurality; a tie breaks to the
	// lowest target id so repeated resolution stays stable.
	killVotes := make(map[int]int)

	ids := make([]int, 0, len(actions))
	for id := range actions {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	for _, id := range ids {
		actor := g.Player(id)
		if actor == nil || !actor.IsAlive {
			continue
		}
		a := actions[id]
		switch a.Type {
		case ActionProtect:
			if actor.Role == RoleGuard && a.Target != 0 {
				protected[a.Target] = true
			}
		case ActionKill:
			if actor.Role == RoleWerewolf && a.Target != 0 {
				killVotes[a.Target]++
			}
		case ActionSave:
			if actor.Role == RoleWitch {
				saved = true
			}
		case ActionPoison:
			if actor.Role == RoleWitch && a.Target != 0 {
				poisonTarget = a.Target
			}
		}
	}

	killTarget := pluralityTarget(killVotes)

	// The magician's swap voids the kill when it lands on the swapped seat.
	for _, id := range ids {
		actor := g.Player(id)
		if actor == nil || !actor.IsAlive || actor.Role != RoleMagician {
			continue
		}
		if a := actions[id]; a.Type == ActionSwap && a.Target != 0 && a.Target == killTarget {
			swapVoided = true
		}
	}

	var deaths []Death
	var wolfVictim *Player

	if killTarget != 0 && !protected[killTarget] && !saved && !swapVoided {
		if t := g.Player(killTarget); t != nil && t.IsAlive {
			if t.ElderShield {
				// The elder absorbs the first kill attempt. Not logged in the
				// public history: the village only sees a quiet night.
				t.ElderShield = false
			} else {
				t.IsAlive = false
				deaths = append(deaths, Death{PlayerID: t.ID, Name: t.Name, Role: t.Role})
				wolfVictim = t
			}
		}
	}

	// Witch poison bypasses the guard; protection only covers the wolf kill.
	if poisonTarget != 0 {
		if t := g.Player(poisonTarget); t != nil && t.IsAlive {
			t.IsAlive = false
			deaths = append(deaths, Death{PlayerID: t.ID, Name: t.Name, Role: t.Role})
		}
	}

	// A hunter or wolfkiller killed by the wolves fires their standing shot.
	// Poison suppresses the shot, and the revenge does not cascade.
	if wolfVictim != nil && (wolfVictim.Role == RoleHunter || wolfVictim.Role == RoleWolfKiller) {
		if a, ok := actions[wolfVictim.ID]; ok && a.Type == ActionShoot && a.Target != 0 && !protected[a.Target] {
			if t := g.Player(a.Target); t != nil && t.IsAlive {
				t.IsAlive = false
				deaths = append(deaths, Death{PlayerID: t.ID, Name: t.Name, Role: t.Role})
			}
		}
	}

	g.LastNightDeaths = deaths
	if len(deaths) == 0 {
		g.Event("Night %d: nobody died", g.Day)
	}
	for _, d := range deaths {
		g.Event("Night %d: Player %d (%s) was killed; they were the %s", g.Day, d.PlayerID, d.Name, d.Role)
	}
	return deaths
}

// pluralityTarget picks the most-voted target, breaking ties toward the
// lowest id. Returns 0 when there are no votes.
func pluralityTarget(votes map[int]int) int {
	targets := make([]int, 0, len(votes))
	for t := range votes {
		targets = append(targets, t)
	}
	sort.Ints(targets)

	best, bestCount := 0, 0
	for _, t := range targets {
		if votes[t] > bestCount {
			best, bestCount = t, votes[t]
		}
	}
	return best
}
