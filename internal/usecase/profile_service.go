package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/riskibarqy/tennis-history/internal/domain/player"
	"github.com/riskibarqy/tennis-history/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

// ProfileService looks player profiles up in the cache and falls back to
// the match source on a miss.
type ProfileService struct {
	repo   player.Repository
	source MatchSource
	logger *logging.Logger
}

func NewProfileService(repo player.Repository, source MatchSource, logger *logging.Logger) *ProfileService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ProfileService{
		repo:   repo,
		source: source,
		logger: logger,
	}
}

// Get returns the profile of playerID. Doubles pairings and profiles the
// source cannot provide are reported as absent. Only ErrAccessDenied and
// cache failures are returned as errors.
func (s *ProfileService) Get(ctx context.Context, playerID int64) (player.Profile, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProfileService.Get",
		attribute.Int64("player.id", playerID),
	)
	defer span.End()

	cached, ok, err := s.repo.Get(ctx, playerID)
	if err != nil {
		return player.Profile{}, false, fmt.Errorf("get cached player: %w", err)
	}
	if ok {
		return cached, !cached.IsPair(), nil
	}

	fetched, err := s.source.GetPlayer(ctx, playerID)
	switch {
	case errors.Is(err, ErrAccessDenied):
		return player.Profile{}, false, err
	case errors.Is(err, ErrNotFound):
		return player.Profile{}, false, nil
	case err != nil:
		s.logger.WarnContext(ctx, "player profile unavailable", "player_id", playerID, "error", err)
		return player.Profile{}, false, nil
	}
	if fetched.IsPair() {
		return player.Profile{}, false, nil
	}

	fetched.ID = playerID
	if err := s.repo.Upsert(ctx, fetched); err != nil {
		return player.Profile{}, false, fmt.Errorf("cache player: %w", err)
	}
	return fetched, true, nil
}
