package ports

import (
	"goinsight/domain/analysis"
)

// Calculator transforms validated input into metrics and insights.
//
// Implementations must be deterministic and free of external I/O: the
// same input always yields the same output, and Calculate never blocks.
// A successful output carries at least one metric.
type Calculator interface {
	Calculate(input analysis.CalculatorInput) (*analysis.CalculatorOutput, error)
}

// Formatter assembles the transport-facing response from calculator
// output and, when the request was record-backed, provider output.
type Formatter interface {
	Format(req analysis.Request, prov *analysis.ProviderOutput, calc *analysis.CalculatorOutput, identity *analysis.Identity) *analysis.Response
}
