package domain

import "sort"

// TiePolicy decides what happens when the day vote has no single plurality
// winner. The default is no elimination; see DESIGN.md for the reasoning.
type TiePolicy string

const (
	TieNoElimination TiePolicy = "no_elimination"
	TieRandom        TiePolicy = "random"
)

// VoteOutcome reports the result of a day vote.
type VoteOutcome struct {
	Tally map[int]int `json:"tally"`
	// Eliminated is nil on a tie, on a fool reveal, or when nobody voted.
	Eliminated   *Death `json:"eliminated,omitempty"`
	Tie          bool   `json:"tie"`
	FoolRevealed bool   `json:"fool_revealed"`
	// TiedTargets lists the top targets when Tie is set, for callers running
	// a tie policy other than no-elimination.
	TiedTargets []int `json:"tied_targets,omitempty"`
}

// ApplyVoteResolution tallies the votes by simple plurality. A tie between
// the top targets eliminates nobody. Votes from dead players or for dead
// targets are discarded. An unrevealed fool who wins the vote is exposed
// but survives; the vote is spent.
func (g *GameState) ApplyVoteResolution(votes map[int]int) VoteOutcome {
	out := VoteOutcome{Tally: make(map[int]int)}

	voters := make([]int, 0, len(votes))
	for v := range votes {
		voters = append(voters, v)
	}
	sort.Ints(voters)

	for _, voter := range voters {
		target := votes[voter]
		vp, tp := g.Player(voter), g.Player(target)
		if vp == nil || !vp.IsAlive || tp == nil || !tp.IsAlive {
			continue
		}
		out.Tally[target]++
	}

	top, topCount, tied := 0, 0, false
	targets := make([]int, 0, len(out.Tally))
	for t := range out.Tally {
		targets = append(targets, t)
	}
	sort.Ints(targets)
	for _, t := range targets {
		switch {
		case out.Tally[t] > topCount:
			top, topCount, tied = t, out.Tally[t], false
		case out.Tally[t] == topCount:
			tied = true
		}
	}

	if top == 0 || topCount == 0 {
		g.Event("Day %d: no votes were cast, nobody is eliminated", g.Day)
		return out
	}
	if tied {
		out.Tie = true
		for _, t := range targets {
			if out.Tally[t] == topCount {
				out.TiedTargets = append(out.TiedTargets, t)
			}
		}
		g.Event("Day %d: the vote was tied, nobody is eliminated", g.Day)
		return out
	}

	if d := g.EliminateByVote(top); d != nil {
		out.Eliminated = d
	} else {
		out.FoolRevealed = true
	}
	return out
}

// EliminateByVote applies a vote elimination to the given player. It returns
// nil when the target was an unrevealed fool, who is exposed but survives.
func (g *GameState) EliminateByVote(id int) *Death {
	p := g.Player(id)
	if p == nil || !p.IsAlive {
		return nil
	}
	if p.Role == RoleFool && !p.FoolRevealed {
		p.FoolRevealed = true
		g.Event("Day %d: Player %d (%s) was voted out but revealed as the fool and survives", g.Day, p.ID, p.Name)
		return nil
	}
	p.IsAlive = false
	d := Death{PlayerID: p.ID, Name: p.Name, Role: p.Role}
	g.LastVoted = &d
	g.Event("Day %d: Player %d (%s) was voted out; they were the %s", g.Day, p.ID, p.Name, p.Role)
	return &d
}
