package repository

import (
	"errors"
	"sort"
	"sync"

	"github.com/jacky88927/werewolf-llm-game/internal/domain"
)

var ErrGameNotFound = errors.New("game not found")

// GameRepository holds the live games served over HTTP.
type GameRepository interface {
	Create(game *domain.GameState) error
	Update(game *domain.GameState) error
	Get(id string) (*domain.GameState, error)
	List() ([]*domain.GameState, error)
}

type InMemoryGameRepository struct {
	mu    sync.RWMutex
	games map[string]*domain.GameState
}

func NewInMemoryGameRepository() *InMemoryGameRepository {
	return &InMemoryGameRepository{
		games: make(map[string]*domain.GameState),
	}
}

func (r *InMemoryGameRepository) Create(game *domain.GameState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.games[game.ID] = game
	return nil
}

func (r *InMemoryGameRepository) Update(game *domain.GameState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.games[game.ID]; !ok {
		return ErrGameNotFound
	}
	r.games[game.ID] = game
	return nil
}

func (r *InMemoryGameRepository) Get(id string) (*domain.GameState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	game, ok := r.games[id]
	if !ok {
		return nil, ErrGameNotFound
	}
	return game, nil
}

func (r *InMemoryGameRepository) List() ([]*domain.GameState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := make([]*domain.GameState, 0, len(r.games))
	for _, g := range r.games {
		res = append(res, g)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}
