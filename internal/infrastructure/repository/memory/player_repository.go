package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/tennis-history/internal/domain/player"
)

// PlayerRepository is the in-process player cache of a dataset run.
type PlayerRepository struct {
	mu   sync.RWMutex
	byID map[int64]player.Profile
}

var _ player.Repository = (*PlayerRepository)(nil)

func NewPlayerRepository(profiles []player.Profile) *PlayerRepository {
	byID := make(map[int64]player.Profile, len(profiles))
	for _, p := range profiles {
		if existing, ok := byID[p.ID]; ok {
			p = existing.FillMissing(p)
		}
		byID[p.ID] = p
	}
	return &PlayerRepository{byID: byID}
}

func (r *PlayerRepository) Get(_ context.Context, id int64) (player.Profile, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	return p, ok, nil
}

// Upsert stores profile. Fields already known for the player are kept
// and only the missing ones are filled.
func (r *PlayerRepository) Upsert(_ context.Context, profile player.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byID[profile.ID]; ok {
		profile = existing.FillMissing(profile)
	}
	r.byID[profile.ID] = profile
	return nil
}

// List returns every profile ordered by id.
func (r *PlayerRepository) List(_ context.Context) ([]player.Profile, error) {
	r.mu.RLock()
	out := make([]player.Profile, 0, len(r.byID))
	for _, p := range r.byID {
		out = append(out, p)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
