package roles

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/jacky88927/werewolf-llm-game/internal/agent"
	"github.com/jacky88927/werewolf-llm-game/internal/domain"
)

const seerSystem = `You are the seer in a game of Werewolf. Each night you
learn one player's true allegiance. Your knowledge is the village's best
weapon, but revealing yourself early makes you the werewolves' next
target. Decide carefully when to share what you know.`

// seerMemory is the seer's private record of check results, keyed by player
// id. True means werewolf.
type seerMemory struct {
	Checked map[int]bool `json:"checked"`
}

type seer struct {
	base
	mem seerMemory
}

func newSeer(b base) *seer {
	return &seer{base: b, mem: seerMemory{Checked: make(map[int]bool)}}
}

func (s *seer) Kind() domain.RoleKind { return domain.RoleSeer }

// checkedLine renders past results in id order for the prompt.
func (s *seer) checkedLine(g *domain.GameState) string {
	if len(s.mem.Checked) == 0 {
		return "You have not checked anyone yet."
	}
	ids := make([]int, 0, len(s.mem.Checked))
	for id := range s.mem.Checked {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		verdict := "good"
		if s.mem.Checked[id] {
			verdict = "a WEREWOLF"
		}
		name := fmt.Sprintf("Player %d", id)
		if p := g.Player(id); p != nil {
			name = p.Name
		}
		parts = append(parts, fmt.Sprintf("%s is %s", name, verdict))
	}
	return "What you know: " + strings.Join(parts, "; ")
}

// NightAction checks one living, previously-unchecked player and records the
// result. With nobody left to check the seer waits.
func (s *seer) NightAction(ctx context.Context, g *domain.GameState, ag agent.Agent) (domain.Action, error) {
	var legal []int
	var names []string
	for _, p := range g.Alive() {
		if p.ID == s.playerID {
			continue
		}
		if _, done := s.mem.Checked[p.ID]; done {
			continue
		}
		legal = append(legal, p.ID)
		names = append(names, p.Name)
	}
	if len(legal) == 0 {
		return domain.WaitAction("everyone alive already checked"), nil
	}

	prompt := fmt.Sprintf(`It is night %d of the werewolf game. You are %s, the seer.
%s

You can check: %s

Recent game history:
%s

Whose allegiance do you want to learn tonight? Reply with: I choose to check player X`,
		g.Day, s.name, s.checkedLine(g), strings.Join(names, ", "), s.historyBlock(g))

	act, err := s.targetAction(ctx, ag, prompt, seerSystem, legal, domain.ActionCheck)
	if err != nil {
		return domain.Action{}, err
	}

	target := g.Player(act.Target)
	isWolf := target != nil && target.Role == domain.RoleWerewolf
	s.mem.Checked[act.Target] = isWolf
	if isWolf {
		act.Result = "werewolf"
	} else {
		act.Result = "good"
	}
	s.log.Debug().Int("target", act.Target).Str("verdict", act.Result).Msg("seer checked a player")
	return act, nil
}

func (s *seer) DayDiscussion(ctx context.Context, g *domain.GameState, ag agent.Agent) (string, error) {
	system := seerSystem + "\n" + s.checkedLine(g)
	return s.discuss(ctx, g, ag, system)
}

func (s *seer) Vote(ctx context.Context, g *domain.GameState, ag agent.Agent) (int, error) {
	system := seerSystem + "\n" + s.checkedLine(g)
	return s.vote(ctx, g, ag, system)
}

func (s *seer) MemorySnapshot() (json.RawMessage, error) {
	return snapshotMemory(s.mem)
}

func (s *seer) RestoreMemory(raw json.RawMessage) error {
	if err := restoreMemory(raw, &s.mem); err != nil {
		return err
	}
	if s.mem.Checked == nil {
		s.mem.Checked = make(map[int]bool)
	}
	return nil
}
