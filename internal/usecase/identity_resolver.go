package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/tennis-history/internal/domain/match"
	"github.com/riskibarqy/tennis-history/internal/domain/naming"
	"github.com/riskibarqy/tennis-history/internal/domain/player"
	"github.com/riskibarqy/tennis-history/internal/domain/ranking"
	"github.com/riskibarqy/tennis-history/internal/platform/logging"
	"github.com/riskibarqy/tennis-history/internal/platform/metrics"
	"github.com/riskibarqy/tennis-history/internal/platform/textsim"
	"go.opentelemetry.io/otel/attribute"
)

const (
	DefaultFuzzyThreshold     = 45.0
	DefaultBirthDateTolerance = 72 * time.Hour
)

// ResolveMethod tells how a profile was tied to a snapshot row.
type ResolveMethod int

const (
	ResolveUnresolved ResolveMethod = iota
	ResolveExact
	ResolveFuzzy
)

func (m ResolveMethod) String() string {
	switch m {
	case ResolveExact:
		return "exact"
	case ResolveFuzzy:
		return "fuzzy"
	default:
		return "unresolved"
	}
}

// KeyRewrite records a snapshot row moved to a new name key after a fuzzy
// match.
type KeyRewrite struct {
	From  string
	To    string
	Score float64
}

func (k KeyRewrite) String() string {
	return fmt.Sprintf("matched %s player %s score %g", k.From, k.To, k.Score)
}

// Resolution is the outcome of tying a profile to the snapshot store.
type Resolution struct {
	Method  ResolveMethod
	NameKey string
	// Score is the best fuzzy score seen, when a fuzzy search ran.
	Score   float64
	Ranking match.RankingFeatures
	// Rewrite is set when the store was mutated by this call.
	Rewrite *KeyRewrite
}

// FuzzyMatchLog keeps an audit trail of accepted fuzzy matches.
type FuzzyMatchLog interface {
	Append(ctx context.Context, rewrite KeyRewrite) error
}

type IdentityResolverConfig struct {
	FuzzyThreshold     float64
	BirthDateTolerance time.Duration
	// Scorer defaults to textsim.TokenSortRatio.
	Scorer  func(a, b string) float64
	Logger  *logging.Logger
	Metrics *metrics.Recorder
}

type IdentityResolver struct {
	store     *ranking.Store
	audit     FuzzyMatchLog
	threshold float64
	tolerance int64
	scorer    func(a, b string) float64
	logger    *logging.Logger
	metrics   *metrics.Recorder
}

func NewIdentityResolver(store *ranking.Store, audit FuzzyMatchLog, cfg IdentityResolverConfig) *IdentityResolver {
	if cfg.FuzzyThreshold <= 0 {
		cfg.FuzzyThreshold = DefaultFuzzyThreshold
	}
	if cfg.BirthDateTolerance <= 0 {
		cfg.BirthDateTolerance = DefaultBirthDateTolerance
	}
	if cfg.Scorer == nil {
		cfg.Scorer = textsim.TokenSortRatio
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	return &IdentityResolver{
		store:     store,
		audit:     audit,
		threshold: cfg.FuzzyThreshold,
		tolerance: int64(cfg.BirthDateTolerance / time.Second),
		scorer:    cfg.Scorer,
		logger:    cfg.Logger,
		metrics:   cfg.Metrics,
	}
}

// ResolveAndMaybeUpdate ties profile to a snapshot row and computes its
// ranking features as of asOf. An accepted fuzzy match renames the row to
// the profile's key; the rename is returned in Resolution.Rewrite and
// appended to the audit log. Failing to resolve is not an error.
func (r *IdentityResolver) ResolveAndMaybeUpdate(ctx context.Context, profile player.Profile, asOf int64) (Resolution, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IdentityResolver.ResolveAndMaybeUpdate",
		attribute.Int64("player.id", profile.ID),
	)
	defer span.End()

	res, err := r.resolve(ctx, profile)
	r.metrics.IdentityResolved(res.Method.String())
	if err != nil {
		return res, err
	}

	if res.Method == ResolveUnresolved {
		res.Ranking = match.RankingFeatures{
			Actual: match.NoRank(match.RankStatusUnresolved),
			Best:   match.NoRank(match.RankStatusUnresolved),
		}
		return res, nil
	}

	res.Ranking = r.features(res.NameKey, asOf)
	return res, nil
}

func (r *IdentityResolver) resolve(ctx context.Context, profile player.Profile) (Resolution, error) {
	key := naming.Normalize(profile.FullName)
	if key == "" {
		return Resolution{Method: ResolveUnresolved}, nil
	}
	if r.store.Contains(key) {
		return Resolution{Method: ResolveExact, NameKey: key}, nil
	}
	if profile.BirthDate == nil {
		return Resolution{Method: ResolveUnresolved, NameKey: key}, nil
	}

	candidates := r.store.Candidates(profile.Country, *profile.BirthDate, r.tolerance)
	if len(candidates) == 0 {
		r.logger.DebugContext(ctx, "no ranking candidate shares birth date and country", "name_key", key)
		return Resolution{Method: ResolveUnresolved, NameKey: key}, nil
	}

	best, score := textsim.Best(key, candidates, r.scorer)
	if score < r.threshold {
		r.logger.InfoContext(ctx, "fuzzy match rejected",
			"name_key", key,
			"best_candidate", candidates[best],
			"score", score,
		)
		return Resolution{Method: ResolveUnresolved, NameKey: key, Score: score}, nil
	}

	rewrite := KeyRewrite{From: candidates[best], To: key, Score: score}
	if err := r.store.Rename(rewrite.From, rewrite.To); err != nil {
		return Resolution{Method: ResolveUnresolved, NameKey: key, Score: score}, fmt.Errorf("rename ranking row: %w", err)
	}
	r.logger.InfoContext(ctx, "fuzzy match accepted", "from", rewrite.From, "to", rewrite.To, "score", score)

	res := Resolution{Method: ResolveFuzzy, NameKey: key, Score: score, Rewrite: &rewrite}
	if r.audit != nil {
		if err := r.audit.Append(ctx, rewrite); err != nil {
			return res, fmt.Errorf("append fuzzy match audit: %w", err)
		}
	}
	return res, nil
}

func (r *IdentityResolver) features(key string, asOf int64) match.RankingFeatures {
	var out match.RankingFeatures

	actual := r.store.RankAt(key, asOf)
	out.Actual = rankFromLookup(actual)

	best := r.store.BestRankBefore(key, asOf)
	out.Best = rankFromLookup(best)
	if best.Ranked() {
		date := best.Date
		out.BestDate = &date
	}
	return out
}

func rankFromLookup(l ranking.Lookup) match.Rank {
	switch l.Status {
	case ranking.StatusRanked:
		return match.RankedScore(l.Score)
	case ranking.StatusUnknownPlayer:
		return match.NoRank(match.RankStatusUnknownPlayer)
	default:
		return match.NoRank(match.RankStatusNotRanked)
	}
}
