package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jdlee-quant/rebound/internal/contracts"
)

// MemoryStore is an in-memory Store for tests and dry runs. It applies
// the same append-only and duplicate-date rules as the durable store.
type MemoryStore struct {
	mu         sync.RWMutex
	snapshots  map[string]contracts.PortfolioSnapshot
	screenings map[string]contracts.ScreeningResult
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		snapshots:  make(map[string]contracts.PortfolioSnapshot),
		screenings: make(map[string]contracts.ScreeningResult),
	}
}

func (s *MemoryStore) AppendRun(ctx context.Context, snapshot *contracts.PortfolioSnapshot, screening *contracts.ScreeningResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := DateKey(snapshot.AsOf)
	if _, exists := s.snapshots[key]; exists {
		return &contracts.DuplicateRunError{AsOf: snapshot.AsOf}
	}

	s.snapshots[key] = *snapshot
	if screening != nil {
		s.screenings[DateKey(screening.AsOf)] = *screening
	}
	return nil
}

func (s *MemoryStore) HasRun(ctx context.Context, asOf time.Time) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.snapshots[DateKey(asOf)]
	return ok, nil
}

func (s *MemoryStore) LatestSnapshot(ctx context.Context) (*contracts.PortfolioSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *contracts.PortfolioSnapshot
	for key := range s.snapshots {
		snap := s.snapshots[key]
		if latest == nil || snap.AsOf.After(latest.AsOf) {
			latest = &snap
		}
	}
	return latest, nil
}

func (s *MemoryStore) SnapshotRange(ctx context.Context, from, to time.Time) ([]contracts.PortfolioSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []contracts.PortfolioSnapshot
	for _, snap := range s.snapshots {
		if snap.AsOf.Before(from) || snap.AsOf.After(to) {
			continue
		}
		out = append(out, snap)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AsOf.Before(out[j].AsOf) })
	return out, nil
}

func (s *MemoryStore) LatestScreening(ctx context.Context) (*contracts.ScreeningResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *contracts.ScreeningResult
	for key := range s.screenings {
		res := s.screenings[key]
		if latest == nil || res.AsOf.After(latest.AsOf) {
			latest = &res
		}
	}
	return latest, nil
}
