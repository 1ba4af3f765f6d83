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

const mediumSystem = `You are the medium in a game of Werewolf. Each night
you learn the true role of the player the village voted out that day. Use
what the dead tell you to steer the village: a voted-out werewolf proves
the accusers right, a voted-out villager means the real wolves walked
free.`

// mediumMemory records the revealed roles of vote victims.
type mediumMemory struct {
	Known map[int]domain.RoleKind `json:"known"`
}

type medium struct {
	base
	mem mediumMemory
}

func newMedium(b base) *medium {
	return &medium{base: b, mem: mediumMemory{Known: make(map[int]domain.RoleKind)}}
}

func (m *medium) Kind() domain.RoleKind { return domain.RoleMedium }

func (m *medium) knownLine() string {
	if len(m.mem.Known) == 0 {
		return "The dead have told you nothing yet."
	}
	ids := make([]int, 0, len(m.mem.Known))
	for id := range m.mem.Known {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprintf("Player %d was a %s", id, m.mem.Known[id]))
	}
	return "What the dead told you: " + strings.Join(parts, "; ")
}

// NightAction divines yesterday's vote victim automatically; no agent call
// is needed since the medium has no choice to make.
func (m *medium) NightAction(ctx context.Context, g *domain.GameState, ag agent.Agent) (domain.Action, error) {
	v := g.LastVoted
	if v == nil {
		return domain.SleepAction(), nil
	}
	if _, done := m.mem.Known[v.PlayerID]; done {
		return domain.SleepAction(), nil
	}
	m.mem.Known[v.PlayerID] = v.Role
	m.log.Debug().Int("target", v.PlayerID).Str("role", string(v.Role)).Msg("medium divined the vote victim")
	return domain.Action{
		Type:   domain.ActionDivine,
		Target: v.PlayerID,
		Result: string(v.Role),
	}, nil
}

func (m *medium) DayDiscussion(ctx context.Context, g *domain.GameState, ag agent.Agent) (string, error) {
	system := mediumSystem + "\n" + m.knownLine()
	return m.discuss(ctx, g, ag, system)
}

func (m *medium) Vote(ctx context.Context, g *domain.GameState, ag agent.Agent) (int, error) {
	system := mediumSystem + "\n" + m.knownLine()
	return m.vote(ctx, g, ag, system)
}

func (m *medium) MemorySnapshot() (json.RawMessage, error) {
	return snapshotMemory(m.mem)
}

func (m *medium) RestoreMemory(raw json.RawMessage) error {
	if err := restoreMemory(raw, &m.mem); err != nil {
		return err
	}
	if m.mem.Known == nil {
		m.mem.Known = make(map[int]domain.RoleKind)
	}
	return nil
}
