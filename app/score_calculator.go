package app

import (
	"goinsight/internal/config"
	"goinsight/internal/errors"
)

// ScoreWeights is the immutable weighting applied when combining
// component scores. It is fixed at construction.
type ScoreWeights struct {
	Quality     float64
	Performance float64
	Reliability float64
}

// DefaultScoreWeights returns the standard weighting
func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{
		Quality:     0.4,
		Performance: 0.3,
		Reliability: 0.3,
	}
}

// ScoreWeightsFromConfig builds weights from application configuration
func ScoreWeightsFromConfig(cfg config.ScoringConfig) ScoreWeights {
	return ScoreWeights{
		Quality:     cfg.QualityWeight,
		Performance: cfg.PerformanceWeight,
		Reliability: cfg.ReliabilityWeight,
	}
}

// ComponentScores are the per-aspect inputs to the composite score
type ComponentScores struct {
	Quality     float64 `json:"quality"`
	Performance float64 `json:"performance"`
	Reliability float64 `json:"reliability"`
}

// ScoreCalculator combines component scores into a composite score in
// [0,1] using a weighted sum. Pure and safe to share.
type ScoreCalculator struct {
	weights ScoreWeights
}

// NewScoreCalculator creates a score calculator with fixed weights
func NewScoreCalculator(weights ScoreWeights) *ScoreCalculator {
	return &ScoreCalculator{weights: weights}
}

// Calculate returns the weighted composite score clamped to [0,1]
func (c *ScoreCalculator) Calculate(scores ComponentScores) (float64, error) {
	for name, v := range map[string]float64{
		"quality":     scores.Quality,
		"performance": scores.Performance,
		"reliability": scores.Reliability,
	} {
		if v < 0 || v > 1 {
			return 0, errors.Validationf("%s score must be between 0 and 1", name)
		}
	}

	total := scores.Quality*c.weights.Quality +
		scores.Performance*c.weights.Performance +
		scores.Reliability*c.weights.Reliability

	if total < 0 {
		total = 0
	}
	if total > 1 {
		total = 1
	}
	return total, nil
}
