package usecase

import (
	"github.com/riskibarqy/tennis-history/internal/domain/match"
	"github.com/riskibarqy/tennis-history/internal/domain/player"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// linearFit is y = alpha + beta*x.
type linearFit struct {
	alpha float64
	beta  float64
}

func (f linearFit) predict(x float64) float64 {
	return f.alpha + f.beta*x
}

// fitLine runs an ordinary least squares fit of ys on xs. A constant xs
// degenerates to the mean of ys.
func fitLine(xs, ys []float64) (linearFit, bool) {
	if len(xs) == 0 || len(xs) != len(ys) {
		return linearFit{}, false
	}
	if floats.Max(xs) == floats.Min(xs) {
		return linearFit{alpha: stat.Mean(ys, nil)}, true
	}
	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	return linearFit{alpha: alpha, beta: beta}, true
}

// ImputePhysicals fills missing heights from weights and missing weights
// from heights, using two regressions fitted on every participant of the
// batch that has both values. Unknown handedness becomes right-handed.
// A participant missing both values keeps them missing. The input slice
// is not modified.
func ImputePhysicals(records []match.Record) []match.Record {
	out := make([]match.Record, len(records))
	copy(out, records)
	if len(out) == 0 {
		return out
	}

	var heights, weights []float64
	missingHeight, missingWeight := false, false
	for _, rec := range out {
		for _, p := range [2]match.Participant{rec.Home, rec.Away} {
			switch {
			case p.Height != nil && p.Weight != nil:
				heights = append(heights, *p.Height)
				weights = append(weights, *p.Weight)
			case p.Height == nil:
				missingHeight = true
			}
			if p.Weight == nil {
				missingWeight = true
			}
		}
	}

	var heightFromWeight, weightFromHeight linearFit
	canHeight, canWeight := false, false
	if missingHeight {
		heightFromWeight, canHeight = fitLine(weights, heights)
	}
	if missingWeight {
		weightFromHeight, canWeight = fitLine(heights, weights)
	}

	for i := range out {
		out[i].Home = imputeParticipant(out[i].Home, heightFromWeight, canHeight, weightFromHeight, canWeight)
		out[i].Away = imputeParticipant(out[i].Away, heightFromWeight, canHeight, weightFromHeight, canWeight)
	}
	return out
}

func imputeParticipant(p match.Participant, hw linearFit, canHeight bool, wh linearFit, canWeight bool) match.Participant {
	if p.Hand == player.HandUnknown {
		p.Hand = player.HandRight
	}
	// Both fits read the observed values, never each other's output.
	height, weight := p.Height, p.Weight
	if height == nil && weight != nil && canHeight {
		v := hw.predict(*weight)
		p.Height = &v
	}
	if weight == nil && height != nil && canWeight {
		v := wh.predict(*height)
		p.Weight = &v
	}
	return p
}
