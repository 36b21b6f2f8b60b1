package tournament

import (
	"context"
	"sync"

	"github.com/park285/cheese-tourney/internal/domain"
)

// PlayerGateway loads and stores the full players snapshot.
// LoadAll returns an empty slice when the store does not exist yet.
type PlayerGateway interface {
	LoadAll(ctx context.Context) ([]domain.Player, error)
	SaveAll(ctx context.Context, players []domain.Player) error
}

// MatchGateway loads and stores the full matches snapshot.
type MatchGateway interface {
	LoadAll(ctx context.Context) ([]domain.Match, error)
	SaveAll(ctx context.Context, matches []domain.Match) error
}

// LoadReporter is implemented by gateways that drop undecodable records during
// LoadAll. LastLoadSkipped returns the count from the most recent LoadAll.
type LoadReporter interface {
	LastLoadSkipped() int
}

// LoadSkipped returns g's skipped count when it reports one, else 0.
func LoadSkipped(g any) int {
	if r, ok := g.(LoadReporter); ok {
		return r.LastLoadSkipped()
	}
	return 0
}

// MemoryGateway keeps a snapshot in process memory. Used by the memory backend and tests.
type MemoryGateway[T any] struct {
	mu      sync.RWMutex
	records []T
	saves   int
}

func NewMemoryGateway[T any](seed ...T) *MemoryGateway[T] {
	return &MemoryGateway[T]{records: append([]T(nil), seed...)}
}

func (g *MemoryGateway[T]) LoadAll(ctx context.Context) ([]T, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]T{}, g.records...), nil
}

func (g *MemoryGateway[T]) SaveAll(ctx context.Context, records []T) error {
	g.mu.Lock()
	g.records = append([]T{}, records...)
	g.saves++
	g.mu.Unlock()
	return nil
}

// Saves counts successful SaveAll calls.
func (g *MemoryGateway[T]) Saves() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.saves
}

var (
	_ PlayerGateway = (*MemoryGateway[domain.Player])(nil)
	_ MatchGateway  = (*MemoryGateway[domain.Match])(nil)
)
