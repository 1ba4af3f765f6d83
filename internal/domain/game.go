package domain

import (
	"errors"
	"fmt"
	"math/rand"
)

type Team string

const (
	TeamVillage  Team = "villager_team"
	TeamWerewolf Team = "werewolf_team"
)

type RoleKind string

const (
	RoleVillager   RoleKind = "villager"
	RoleWerewolf   RoleKind = "werewolf"
	RoleSeer       RoleKind = "seer"
	RoleWitch      RoleKind = "witch"
	RoleHunter     RoleKind = "hunter"
	RoleGuard      RoleKind = "guard"
	RoleFool       RoleKind = "fool"
	RoleElder      RoleKind = "elder"
	RoleWolfKiller RoleKind = "wolfkiller"
	RoleMedium     RoleKind = "medium"
	RoleMagician   RoleKind = "magician"
)

// SpecialRoles are the village-side roles that can be requested at setup
// besides plain villagers.
var SpecialRoles = []RoleKind{
	RoleSeer, RoleWitch, RoleHunter, RoleGuard, RoleFool,
	RoleElder, RoleWolfKiller, RoleMedium, RoleMagician,
}

func (r RoleKind) Valid() bool {
	if r == RoleVillager || r == RoleWerewolf {
		return true
	}
	for _, s := range SpecialRoles {
		if r == s {
			return true
		}
	}
	return false
}

func (r RoleKind) Team() Team {
	if r == RoleWerewolf {
		return TeamWerewolf
	}
	return TeamVillage
}

type Phase string

const (
	PhaseSetup    Phase = "setup"
	PhaseNight    Phase = "night"
	PhaseDay      Phase = "day"
	PhaseVote     Phase = "vote"
	PhaseGameOver Phase = "gameover"
)

type Player struct {
	ID   int      `json:"player_id"`
	Name string   `json:"name"`
	Role RoleKind `json:"role"`
	// IsAlive is flipped only by night or vote resolution. Dead players stay
	// in the roster so ids and history remain stable.
	IsAlive bool `json:"is_alive"`
	// ElderShield is true while the elder can still absorb one werewolf kill.
	ElderShield bool `json:"elder_shield,omitempty"`
	// FoolRevealed marks a fool who already survived being voted out.
	FoolRevealed bool `json:"fool_revealed,omitempty"`
}

type Death struct {
	PlayerID int      `json:"player_id"`
	Name     string   `json:"name"`
	Role     RoleKind `json:"role"`
}

type Discussion struct {
	PlayerID   int    `json:"player_id"`
	PlayerName string `json:"player_name"`
	Content    string `json:"content"`
}

var (
	ErrTooManyWerewolves = errors.New("werewolf count must be less than half the player count")
	ErrTooManySpecials   = errors.New("too many special roles for the remaining seats")
	ErrUnknownRole       = errors.New("unknown role")
	ErrGameFinished      = errors.New("game already finished")
)

// GameState is the authoritative model of a single game. All mutation goes
// through its methods; role behaviors only read it and return intents.
type GameState struct {
	ID                 string       `json:"id"`
	Day                int          `json:"day"`
	Phase              Phase        `json:"phase"`
	Players            []*Player    `json:"players"`
	LastNightDeaths    []Death      `json:"last_night_deaths"`
	CurrentDiscussions []Discussion `json:"current_discussions"`
	// LastVoted is the most recent vote elimination, kept for the medium's
	// divination the following night.
	LastVoted    *Death   `json:"last_voted,omitempty"`
	GameOver     bool     `json:"game_over"`
	Winner       Team     `json:"winner,omitempty"`
	EventHistory []string `json:"event_history"`
}

func New(id string) *GameState {
	return &GameState{
		ID:    id,
		Day:   1,
		Phase: PhaseSetup,
	}
}

// Setup assigns roles to playerCount seats: werewolfCount werewolves, one
// seat per requested special role, villagers for the rest. The seat-to-role
// mapping is shuffled with rng (time-seeded when nil).
func (g *GameState) Setup(playerCount, werewolfCount int, specials []RoleKind, rng *rand.Rand) error {
	if werewolfCount < 1 || werewolfCount*2 >= playerCount {
		return fmt.Errorf("%w: %d werewolves among %d players", ErrTooManyWerewolves, werewolfCount, playerCount)
	}
	if len(specials) > playerCount-werewolfCount {
		return fmt.Errorf("%w: %d specials, %d non-werewolf seats", ErrTooManySpecials, len(specials), playerCount-werewolfCount)
	}
	for _, s := range specials {
		if !s.Valid() || s == RoleWerewolf || s == RoleVillager {
			return fmt.Errorf("%w: %q", ErrUnknownRole, s)
		}
	}

	roles := make([]RoleKind, 0, playerCount)
	for i := 0; i < werewolfCount; i++ {
		roles = append(roles, RoleWerewolf)
	}
	roles = append(roles, specials...)
	for len(roles) < playerCount {
		roles = append(roles, RoleVillager)
	}

	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	rng.Shuffle(len(roles), func(i, j int) {
		roles[i], roles[j] = roles[j], roles[i]
	})

	g.Players = make([]*Player, 0, playerCount)
	for i := 0; i < playerCount; i++ {
		g.Players = append(g.Players, &Player{
			ID:          i + 1,
			Name:        fmt.Sprintf("Player %d", i+1),
			Role:        roles[i],
			IsAlive:     true,
			ElderShield: roles[i] == RoleElder,
		})
	}

	g.Event("Game started with %d players, %d of them werewolves", playerCount, werewolfCount)
	return nil
}

// Player returns the player with the given id, or nil.
func (g *GameState) Player(id int) *Player {
	for _, p := range g.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Alive returns the living players in seat order.
func (g *GameState) Alive() []*Player {
	var out []*Player
	for _, p := range g.Players {
		if p.IsAlive {
			out = append(out, p)
		}
	}
	return out
}

// AliveByTeam counts living players on a team.
func (g *GameState) AliveByTeam(t Team) int {
	n := 0
	for _, p := range g.Players {
		if p.IsAlive && p.Role.Team() == t {
			n++
		}
	}
	return n
}

// AdvancePhase moves the fixed setup → night → day → vote → night|gameover
// cycle one step. The day counter increments when the vote phase wraps back
// to night. Once the game is over the phase is pinned to gameover.
func (g *GameState) AdvancePhase() {
	if g.GameOver {
		g.Phase = PhaseGameOver
		return
	}
	switch g.Phase {
	case PhaseSetup:
		g.Phase = PhaseNight
	case PhaseNight:
		g.Phase = PhaseDay
		g.CurrentDiscussions = nil
	case PhaseDay:
		g.Phase = PhaseVote
	case PhaseVote:
		g.Phase = PhaseNight
		g.Day++
	}
}

// AddDiscussion appends a speech to today's discussion log.
func (g *GameState) AddDiscussion(playerID int, content string) {
	p := g.Player(playerID)
	if p == nil {
		return
	}
	g.CurrentDiscussions = append(g.CurrentDiscussions, Discussion{
		PlayerID:   p.ID,
		PlayerName: p.Name,
		Content:    content,
	})
	g.Event("Day %d: Player %d (%s) spoke", g.Day, p.ID, p.Name)
}

// CheckWinCondition evaluates the fixed win rule: the village wins when no
// werewolf is left alive; the werewolves win when they match or outnumber
// everyone else. It latches GameOver/Winner when a side has won.
func (g *GameState) CheckWinCondition() (bool, Team) {
	wolves := g.AliveByTeam(TeamWerewolf)
	village := g.AliveByTeam(TeamVillage)

	switch {
	case wolves == 0:
		g.GameOver = true
		g.Winner = TeamVillage
	case wolves >= village:
		g.GameOver = true
		g.Winner = TeamWerewolf
	default:
		return false, ""
	}
	g.Event("Game over: %s wins", g.Winner)
	return true, g.Winner
}

// Event appends a line to the append-only history.
func (g *GameState) Event(format string, args ...any) {
	g.EventHistory = append(g.EventHistory, fmt.Sprintf(format, args...))
}

// RecentEvents returns a bounded view of the newest k history entries for
// prompt building. The underlying history is never truncated.
func (g *GameState) RecentEvents(k int) []string {
	if k <= 0 || len(g.EventHistory) <= k {
		return g.EventHistory
	}
	return g.EventHistory[len(g.EventHistory)-k:]
}
