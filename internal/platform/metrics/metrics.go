// Package metrics exposes Prometheus counters for dataset runs.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const defaultNamespace = "tennis_history"

// Recorder owns the run counters. A nil Recorder records nothing.
type Recorder struct {
	registry *prometheus.Registry

	currentMatches   *prometheus.CounterVec
	historyMatches   *prometheus.CounterVec
	identityOutcomes *prometheus.CounterVec
	providerRequests *prometheus.CounterVec
	checkpoints      prometheus.Counter
	windowsShort     prometheus.Counter
	rankingDates     prometheus.Counter
}

func New(namespace string) *Recorder {
	if namespace == "" {
		namespace = defaultNamespace
	}

	registry := prometheus.NewRegistry()
	auto := promauto.With(registry)

	return &Recorder{
		registry: registry,
		currentMatches: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "builder",
			Name:      "current_matches_total",
			Help:      "Current matches by outcome (accepted or the reject reason).",
		}, []string{"outcome"}),
		historyMatches: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "builder",
			Name:      "history_matches_total",
			Help:      "History candidates by outcome (accepted or the reject reason).",
		}, []string{"outcome"}),
		identityOutcomes: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "identity",
			Name:      "resolutions_total",
			Help:      "Identity resolutions by method.",
		}, []string{"method"}),
		providerRequests: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "provider",
			Name:      "requests_total",
			Help:      "Provider requests by provider and outcome.",
		}, []string{"provider", "outcome"}),
		checkpoints: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "builder",
			Name:      "checkpoints_total",
			Help:      "Checkpoints written.",
		}),
		windowsShort: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "builder",
			Name:      "short_windows_total",
			Help:      "History windows that ran out of matches.",
		}),
		rankingDates: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ranking",
			Name:      "dates_added_total",
			Help:      "Ranking publication dates added to the snapshot table.",
		}),
	}
}

func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

func (r *Recorder) CurrentMatch(outcome string) {
	if r == nil {
		return
	}
	r.currentMatches.WithLabelValues(outcome).Inc()
}

func (r *Recorder) HistoryMatch(outcome string) {
	if r == nil {
		return
	}
	r.historyMatches.WithLabelValues(outcome).Inc()
}

func (r *Recorder) IdentityResolved(method string) {
	if r == nil {
		return
	}
	r.identityOutcomes.WithLabelValues(method).Inc()
}

func (r *Recorder) ProviderRequest(provider, outcome string) {
	if r == nil {
		return
	}
	r.providerRequests.WithLabelValues(provider, outcome).Inc()
}

func (r *Recorder) Checkpoint() {
	if r == nil {
		return
	}
	r.checkpoints.Inc()
}

func (r *Recorder) ShortWindow() {
	if r == nil {
		return
	}
	r.windowsShort.Inc()
}

func (r *Recorder) RankingDateAdded() {
	if r == nil {
		return
	}
	r.rankingDates.Inc()
}

// Handler serves the recorder's registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
