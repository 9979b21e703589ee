package app

import (
	"context"

	"goinsight/domain/analysis"
	"goinsight/internal/errors"
	"goinsight/ports"

	"github.com/rs/zerolog"
)

// AnalysisService sequences provider and calculator calls and produces a
// uniform Result. It is the sole composer: provider and calculator never
// reference each other.
type AnalysisService struct {
	provider   ports.Provider
	calculator ports.Calculator
	formatter  ports.Formatter
	log        zerolog.Logger
}

// NewAnalysisService creates the orchestrator with its collaborators
func NewAnalysisService(provider ports.Provider, calculator ports.Calculator, formatter ports.Formatter, log zerolog.Logger) *AnalysisService {
	return &AnalysisService{
		provider:   provider,
		calculator: calculator,
		formatter:  formatter,
		log:        log,
	}
}

// Execute runs one analysis. It is total: every outcome, including
// provider and calculator failures, is representable as a Result and no
// error escapes. A single attempt per call, no retries.
func (s *AnalysisService) Execute(ctx context.Context, req analysis.Request, identity *analysis.Identity) analysis.Result[analysis.Response] {
	input := analysis.CalculatorInput{
		Kind:      analysis.ParseKind(string(req.Kind)),
		Value:     req.Value,
		Score:     req.Score,
		Threshold: req.Threshold,
	}

	var prov *analysis.ProviderOutput
	if req.NeedsProvider() {
		out, err := s.provider.Provide(ctx, analysis.ProviderInput{DataID: *req.DataID})
		if err != nil {
			// Short-circuit: the calculator never runs on provider failure.
			err = errors.Application(err)
			s.logFailure(req, err, "provider failed")
			return analysis.Fail[analysis.Response](err)
		}
		prov = out
		input.Value = out.Value
		score := out.Score
		input.Score = &score
	}

	calc, err := s.calculator.Calculate(input)
	if err != nil {
		err = errors.Application(err)
		s.logFailure(req, err, "calculation failed")
		return analysis.Fail[analysis.Response](err)
	}

	resp := s.formatter.Format(req, prov, calc, identity)
	return analysis.Ok(*resp)
}

// Lookup resolves a single record through the provider, returning the
// same uniform envelope as Execute.
func (s *AnalysisService) Lookup(ctx context.Context, dataID int64) analysis.Result[analysis.ProviderOutput] {
	out, err := s.provider.Provide(ctx, analysis.ProviderInput{DataID: dataID})
	if err != nil {
		err = errors.Application(err)
		return analysis.Fail[analysis.ProviderOutput](err)
	}
	return analysis.Ok(*out)
}

func (s *AnalysisService) logFailure(req analysis.Request, err error, msg string) {
	evt := s.log.Warn().
		Str("analysis_kind", string(req.Kind)).
		Str("error_code", errors.CodeOf(err)).
		Err(err)
	if req.DataID != nil {
		evt = evt.Int64("data_id", *req.DataID)
	}
	evt.Msg(msg)
}
