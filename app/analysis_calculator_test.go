package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goinsight/domain/analysis"
	"goinsight/internal/errors"
)

func floatPtr(v float64) *float64 { return &v }

func TestCalculateRejectsNegativeValue(t *testing.T) {
	calc := NewAnalysisCalculator()

	out, err := calc.Calculate(analysis.CalculatorInput{Kind: analysis.KindStatistical, Value: -1})
	require.Error(t, err)
	assert.Nil(t, out)
	assert.Equal(t, errors.CodeValidation, errors.CodeOf(err))
}

func TestCalculateRejectsOutOfRangeScore(t *testing.T) {
	calc := NewAnalysisCalculator()

	for _, score := range []float64{-0.1, 1.5} {
		out, err := calc.Calculate(analysis.CalculatorInput{
			Kind:  analysis.KindAnomaly,
			Value: 10,
			Score: floatPtr(score),
		})
		require.Error(t, err)
		assert.Nil(t, out)
		assert.Equal(t, errors.CodeValidation, errors.CodeOf(err))
	}
}

func TestStatisticalMetrics(t *testing.T) {
	calc := NewAnalysisCalculator()

	out, err := calc.Calculate(analysis.CalculatorInput{Kind: analysis.KindStatistical, Value: 10.0})
	require.NoError(t, err)

	assert.InDelta(t, 10.0, out.Metrics["mean"], 1e-9)
	assert.InDelta(t, 9.5, out.Metrics["median"], 1e-9)
	assert.InDelta(t, 1.0, out.Metrics["std_dev"], 1e-9)
	assert.InDelta(t, 1.0, out.Metrics["variance"], 1e-9)
	assert.Len(t, out.Insights, 2)
}

func TestStatisticalThresholdInsight(t *testing.T) {
	calc := NewAnalysisCalculator()

	out, err := calc.Calculate(analysis.CalculatorInput{
		Kind:      analysis.KindStatistical,
		Value:     10.0,
		Score:     floatPtr(0.9),
		Threshold: floatPtr(0.5),
	})
	require.NoError(t, err)

	require.Len(t, out.Insights, 3)
	assert.Contains(t, out.Insights[2], "0.90")
	assert.Contains(t, out.Insights[2], "0.50")
}

func TestStatisticalNoThresholdInsightWhenScoreBelow(t *testing.T) {
	calc := NewAnalysisCalculator()

	out, err := calc.Calculate(analysis.CalculatorInput{
		Kind:      analysis.KindStatistical,
		Value:     10.0,
		Score:     floatPtr(0.4),
		Threshold: floatPtr(0.5),
	})
	require.NoError(t, err)
	assert.Len(t, out.Insights, 2)
}

func TestAnomalyFlagged(t *testing.T) {
	calc := NewAnalysisCalculator()

	out, err := calc.Calculate(analysis.CalculatorInput{
		Kind:  analysis.KindAnomaly,
		Value: 10.0,
		Score: floatPtr(0.25),
	})
	require.NoError(t, err)

	assert.InDelta(t, 1.0, out.Metrics["is_anomaly"], 1e-9)
	assert.InDelta(t, 0.2, out.Metrics["anomaly_score"], 1e-9)
	assert.InDelta(t, 0.85, out.Metrics["confidence"], 1e-9)
	require.NotEmpty(t, out.Insights)
	assert.Contains(t, out.Insights[0], "Anomaly detected")
}

func TestAnomalyNotFlagged(t *testing.T) {
	calc := NewAnalysisCalculator()

	out, err := calc.Calculate(analysis.CalculatorInput{
		Kind:  analysis.KindAnomaly,
		Value: 10.0,
		Score: floatPtr(0.5),
	})
	require.NoError(t, err)

	assert.InDelta(t, 0.0, out.Metrics["is_anomaly"], 1e-9)
	assert.InDelta(t, 0.8, out.Metrics["anomaly_score"], 1e-9)
	require.Len(t, out.Insights, 1)
	assert.Contains(t, out.Insights[0], "normal range")
}

func TestTrendMetrics(t *testing.T) {
	calc := NewAnalysisCalculator()

	out, err := calc.Calculate(analysis.CalculatorInput{Kind: analysis.KindTrend, Value: 10.0})
	require.NoError(t, err)

	assert.InDelta(t, 1.0, out.Metrics["trend_direction"], 1e-9)
	assert.GreaterOrEqual(t, out.Metrics["trend_strength"], 0.0)
	assert.LessOrEqual(t, out.Metrics["trend_strength"], 1.0)
	assert.Contains(t, out.Metrics, "change_rate")
}

func TestUnrecognizedKindFallsBack(t *testing.T) {
	calc := NewAnalysisCalculator()

	out, err := calc.Calculate(analysis.CalculatorInput{
		Kind:  analysis.Kind("fourier"),
		Value: 7.0,
		Score: floatPtr(0.5),
	})
	require.NoError(t, err)

	assert.InDelta(t, 7.0, out.Metrics["value"], 1e-9)
	assert.InDelta(t, 0.5, out.Metrics["score"], 1e-9)
}

func TestCalculateAlwaysProducesMetrics(t *testing.T) {
	calc := NewAnalysisCalculator()

	for _, kind := range []analysis.Kind{
		analysis.KindStatistical,
		analysis.KindTrend,
		analysis.KindAnomaly,
		analysis.KindDefault,
	} {
		out, err := calc.Calculate(analysis.CalculatorInput{Kind: kind, Value: 3.0})
		require.NoError(t, err, "kind %s", kind)
		assert.NotEmpty(t, out.Metrics, "kind %s", kind)
	}
}

func TestCalculateIsDeterministic(t *testing.T) {
	calc := NewAnalysisCalculator()
	input := analysis.CalculatorInput{
		Kind:      analysis.KindStatistical,
		Value:     33.3,
		Score:     floatPtr(0.7),
		Threshold: floatPtr(0.2),
	}

	first, err := calc.Calculate(input)
	require.NoError(t, err)
	second, err := calc.Calculate(input)
	require.NoError(t, err)

	assert.Equal(t, first.Metrics, second.Metrics)
	assert.Equal(t, first.Insights, second.Insights)
}
