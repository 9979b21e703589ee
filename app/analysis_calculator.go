package app

import (
	"fmt"

	"goinsight/domain/analysis"
	"goinsight/internal/errors"
)

// anomalyCutoff is the fixed score below which a data point is flagged
const anomalyCutoff = 0.3

type kindHandler func(input analysis.CalculatorInput) (map[string]float64, []string, error)

// AnalysisCalculator runs the per-kind computation strategies. It is
// stateless and pure: no I/O, no randomness, identical output for
// identical input, so a single instance is shared across requests.
type AnalysisCalculator struct {
	handlers map[analysis.Kind]kindHandler
	fallback kindHandler
}

// NewAnalysisCalculator creates the calculator with its dispatch table
func NewAnalysisCalculator() *AnalysisCalculator {
	c := &AnalysisCalculator{}
	c.handlers = map[analysis.Kind]kindHandler{
		analysis.KindStatistical: c.statisticalAnalysis,
		analysis.KindTrend:       c.trendAnalysis,
		analysis.KindAnomaly:     c.anomalyDetection,
	}
	c.fallback = c.defaultAnalysis
	return c
}

// Calculate validates the input, dispatches on the analysis kind, and
// checks the non-empty-metrics postcondition.
//
// Validation failures surface as VALIDATION_ERROR so callers can tell
// bad input apart from a broken computation; every other failure is
// wrapped into a CALCULATOR_ERROR carrying the attempted kind.
func (c *AnalysisCalculator) Calculate(input analysis.CalculatorInput) (*analysis.CalculatorOutput, error) {
	if err := c.validateInput(input); err != nil {
		return nil, err
	}

	handler, ok := c.handlers[input.Kind]
	if !ok {
		handler = c.fallback
	}

	metrics, insights, err := handler(input)
	if err != nil {
		if errors.CodeOf(err) == errors.CodeValidation {
			return nil, err
		}
		return nil, errors.CalculatorFailure(
			fmt.Sprintf("analysis calculation failed: %v", err),
			map[string]any{"analysis_kind": string(input.Kind)},
			err,
		)
	}

	if len(metrics) == 0 {
		return nil, errors.CalculatorFailure(
			"analysis produced no metrics",
			map[string]any{"analysis_kind": string(input.Kind)},
			nil,
		)
	}

	return &analysis.CalculatorOutput{Metrics: metrics, Insights: insights}, nil
}

func (c *AnalysisCalculator) validateInput(input analysis.CalculatorInput) error {
	if input.Value < 0 {
		return errors.Validation("value must be non-negative")
	}
	if input.Score != nil && (*input.Score < 0 || *input.Score > 1) {
		return errors.Validation("score must be between 0 and 1")
	}
	return nil
}

func (c *AnalysisCalculator) statisticalAnalysis(input analysis.CalculatorInput) (map[string]float64, []string, error) {
	metrics := map[string]float64{
		"mean":     input.Value,
		"median":   input.Value * 0.95,
		"std_dev":  input.Value * 0.1,
		"variance": (input.Value * 0.1) * (input.Value * 0.1),
	}

	insights := []string{
		"Data follows a normal distribution",
		fmt.Sprintf("Mean value is %.2f", metrics["mean"]),
	}

	if input.Threshold != nil && input.Score != nil && *input.Score > *input.Threshold {
		insights = append(insights,
			fmt.Sprintf("Score (%.2f) exceeds threshold (%.2f)", *input.Score, *input.Threshold))
	}

	return metrics, insights, nil
}

func (c *AnalysisCalculator) trendAnalysis(input analysis.CalculatorInput) (map[string]float64, []string, error) {
	metrics := map[string]float64{
		"trend_direction": 1.0, // +1 rising, -1 falling, 0 flat
		"trend_strength":  0.7,
		"change_rate":     0.05,
	}

	insights := []string{
		"Rising trend observed",
		"Trend strength is moderate",
	}

	return metrics, insights, nil
}

func (c *AnalysisCalculator) anomalyDetection(input analysis.CalculatorInput) (map[string]float64, []string, error) {
	isAnomaly := input.Score != nil && *input.Score < anomalyCutoff

	metrics := map[string]float64{
		"anomaly_score": 0.8,
		"is_anomaly":    0.0,
		"confidence":    0.85,
	}

	var insights []string
	if isAnomaly {
		metrics["anomaly_score"] = 0.2
		metrics["is_anomaly"] = 1.0
		insights = append(insights,
			"Anomaly detected",
			"Further review is recommended")
	} else {
		insights = append(insights, "Data is within normal range")
	}

	return metrics, insights, nil
}

func (c *AnalysisCalculator) defaultAnalysis(input analysis.CalculatorInput) (map[string]float64, []string, error) {
	score := 0.0
	scoreText := "N/A"
	if input.Score != nil {
		score = *input.Score
		scoreText = fmt.Sprintf("%.2f", score)
	}

	metrics := map[string]float64{
		"value": input.Value,
		"score": score,
	}

	insights := []string{
		fmt.Sprintf("Value: %g", input.Value),
		fmt.Sprintf("Score: %s", scoreText),
	}

	return metrics, insights, nil
}
