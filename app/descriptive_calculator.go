package app

import (
	"math"

	"goinsight/internal/errors"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"
)

// DescriptiveStats summarizes the shape of a stored value series
type DescriptiveStats struct {
	Count      int     `json:"count"`
	Mean       float64 `json:"mean"`
	Median     float64 `json:"median"`
	StdDev     float64 `json:"std_dev"`
	Variance   float64 `json:"variance"`
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
	Q25        float64 `json:"q25"`
	Q75        float64 `json:"q75"`
	LatestZ    float64 `json:"latest_z_score"`
	LatestTail float64 `json:"latest_tail_p"`
}

// DescriptiveCalculator computes real summary statistics over a series
// of record values. Unlike the per-request analysis strategies this one
// operates on the whole stored series.
type DescriptiveCalculator struct{}

// NewDescriptiveCalculator creates a descriptive calculator
func NewDescriptiveCalculator() *DescriptiveCalculator {
	return &DescriptiveCalculator{}
}

// Calculate computes descriptive statistics for the series. The series
// must hold at least two values for dispersion to be defined.
func (c *DescriptiveCalculator) Calculate(values []float64) (*DescriptiveStats, error) {
	if len(values) < 2 {
		return nil, errors.Validationf("descriptive statistics require at least 2 values, got %d", len(values))
	}

	out := &DescriptiveStats{Count: len(values)}

	var err error
	if out.Mean, err = stats.Mean(values); err != nil {
		return nil, c.wrap(err)
	}
	if out.Median, err = stats.Median(values); err != nil {
		return nil, c.wrap(err)
	}
	if out.StdDev, err = stats.StandardDeviationSample(values); err != nil {
		return nil, c.wrap(err)
	}
	if out.Variance, err = stats.SampleVariance(values); err != nil {
		return nil, c.wrap(err)
	}
	if out.Min, err = stats.Min(values); err != nil {
		return nil, c.wrap(err)
	}
	if out.Max, err = stats.Max(values); err != nil {
		return nil, c.wrap(err)
	}
	if out.Q25, err = stats.Percentile(values, 25); err != nil {
		return nil, c.wrap(err)
	}
	if out.Q75, err = stats.Percentile(values, 75); err != nil {
		return nil, c.wrap(err)
	}

	// Two-sided tail probability of the most recent value under a normal
	// fit of the series. Degenerate series (zero spread) get z = 0.
	latest := values[len(values)-1]
	if out.StdDev > 0 {
		out.LatestZ = (latest - out.Mean) / out.StdDev
	}
	normal := distuv.Normal{Mu: 0, Sigma: 1}
	out.LatestTail = 2 * normal.Survival(math.Abs(out.LatestZ))
	if out.LatestTail > 1 {
		out.LatestTail = 1
	}

	return out, nil
}

func (c *DescriptiveCalculator) wrap(err error) error {
	return errors.CalculatorFailure(
		"descriptive statistics failed",
		map[string]any{"analysis_kind": "descriptive"},
		err,
	)
}
