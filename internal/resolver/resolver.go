// Package resolver turns an agent's free-text reply into a structured
// action. It is total: it never fails, never panics, and never returns a
// target outside the legal set. Agents that ignore the expected reply
// format still produce a playable move, which keeps phases from stalling.
package resolver

import (
	"math/rand"
	"regexp"
	"sort"
	"strconv"
	"sync"

	"github.com/jacky88927/werewolf-llm-game/internal/domain"
)

// playerRef matches "player 3", "Player3" and similar id references.
var playerRef = regexp.MustCompile(`(?i)player\s*(\d+)`)

// Resolver extracts targets from replies. The zero value is not usable;
// construct with New. A seeded source makes the random fallback
// reproducible in tests.
type Resolver struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func New(seed int64) *Resolver {
	return &Resolver{rng: rand.New(rand.NewSource(seed))}
}

// Resolve scans reply for player references and returns an action of the
// given type aimed at the first reference found in the legal target set.
// When no legal reference is found it falls back to a uniformly-random
// legal target. An empty legal set yields a wait action with no target.
func (r *Resolver) Resolve(reply string, legal []int, actionType domain.ActionType) domain.Action {
	if len(legal) == 0 {
		return domain.WaitAction("no legal targets")
	}

	legalSet := make(map[int]bool, len(legal))
	for _, id := range legal {
		legalSet[id] = true
	}

	for _, m := range playerRef.FindAllStringSubmatch(reply, -1) {
		id, err := strconv.Atoi(m[1])
		if err != nil {
			continue // reference too large to be a real id
		}
		if legalSet[id] {
			return domain.Action{Type: actionType, Target: id}
		}
	}

	return domain.Action{Type: actionType, Target: r.pick(legal), Result: "fallback"}
}

// pick chooses a uniformly-random legal target.
func (r *Resolver) pick(legal []int) int {
	sorted := make([]int, len(legal))
	copy(sorted, legal)
	sort.Ints(sorted)

	r.mu.Lock()
	defer r.mu.Unlock()
	return sorted[r.rng.Intn(len(sorted))]
}
