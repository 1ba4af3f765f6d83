package domain

// PlayerSummary is the per-seat slice of the read-only summary export.
type PlayerSummary struct {
	PlayerID int      `json:"player_id"`
	Name     string   `json:"name"`
	Role     RoleKind `json:"role"`
	IsAlive  bool     `json:"is_alive"`
	Model    string   `json:"model"`
}

// Summary is a reporting projection of the game. It is not loadable; use
// the persist package to resume a game.
type Summary struct {
	Day             int             `json:"day"`
	Phase           Phase           `json:"phase"`
	AliveWerewolves int             `json:"alive_werewolves"`
	AliveVillagers  int             `json:"alive_villagers"`
	GameOver        bool            `json:"game_over"`
	Winner          Team            `json:"winner,omitempty"`
	Players         []PlayerSummary `json:"players"`
}

// Summarize builds the summary export. models maps player id to the display
// name of the provider driving that seat ("Human Player" for human seats).
func (g *GameState) Summarize(models map[int]string) Summary {
	s := Summary{
		Day:             g.Day,
		Phase:           g.Phase,
		AliveWerewolves: g.AliveByTeam(TeamWerewolf),
		AliveVillagers:  g.AliveByTeam(TeamVillage),
		GameOver:        g.GameOver,
		Winner:          g.Winner,
	}
	for _, p := range g.Players {
		s.Players = append(s.Players, PlayerSummary{
			PlayerID: p.ID,
			Name:     p.Name,
			Role:     p.Role,
			IsAlive:  p.IsAlive,
			Model:    models[p.ID],
		})
	}
	return s
}
