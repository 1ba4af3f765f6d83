package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jacky88927/werewolf-llm-game/internal/domain"
)

func TestResolveExtractsFirstLegalReference(t *testing.T) {
	r := New(1)
	act := r.Resolve("I choose to check player 3 because they are quiet", []int{2, 3, 5}, domain.ActionCheck)
	assert.Equal(t, domain.ActionCheck, act.Type)
	assert.Equal(t, 3, act.Target)
	assert.Empty(t, act.Result)
}

func TestResolveIsCaseAndSpacingInsensitive(t *testing.T) {
	r := New(1)
	for _, reply := range []string{
		"PLAYER 5 must die",
		"player5 is suspicious",
		"I vote for Player  5",
	} {
		act := r.Resolve(reply, []int{4, 5}, domain.ActionKill)
		assert.Equal(t, 5, act.Target, "reply: %q", reply)
	}
}

func TestResolveSkipsIllegalReferences(t *testing.T) {
	r := New(1)
	act := r.Resolve("not player 9, I pick player 2", []int{2, 3}, domain.ActionProtect)
	assert.Equal(t, 2, act.Target)
	assert.Empty(t, act.Result)
}

func TestResolveFallsBackToRandomLegalTarget(t *testing.T) {
	r := New(7)
	legal := []int{2, 4, 6}
	seen := map[int]bool{}
	for i := 0; i < 50; i++ {
		act := r.Resolve("I refuse to answer", legal, domain.ActionKill)
		assert.Equal(t, "fallback", act.Result)
		assert.Contains(t, legal, act.Target)
		seen[act.Target] = true
	}
	assert.Greater(t, len(seen), 1, "fallback should not be constant")
}

func TestResolveFallbackIsSeeded(t *testing.T) {
	pick := func() int {
		return New(99).Resolve("no idea", []int{1, 2, 3, 4, 5}, domain.ActionKill).Target
	}
	assert.Equal(t, pick(), pick())
}

func TestResolveEmptyLegalSetWaits(t *testing.T) {
	r := New(1)
	act := r.Resolve("player 3", nil, domain.ActionCheck)
	assert.Equal(t, domain.ActionWait, act.Type)
	assert.Zero(t, act.Target)
}

func TestResolveEmptyReplyFallsBack(t *testing.T) {
	r := New(1)
	act := r.Resolve("", []int{8}, domain.ActionKill)
	assert.Equal(t, 8, act.Target)
	assert.Equal(t, "fallback", act.Result)
}

func TestResolveHugeNumberDoesNotPanic(t *testing.T) {
	r := New(1)
	act := r.Resolve("player 99999999999999999999999", []int{3}, domain.ActionKill)
	assert.Equal(t, 3, act.Target)
}
