package ports

import (
	"context"

	"goinsight/domain/analysis"
)

// Provider resolves external data into a domain-shaped output.
//
// Provide fails with a VALIDATION_ERROR for invalid input, a NOT_FOUND
// error when the record does not exist, and a PROVIDER_ERROR (carrying
// the identifier under lookup in its details) for anything else.
type Provider interface {
	Provide(ctx context.Context, input analysis.ProviderInput) (*analysis.ProviderOutput, error)

	// ProvideMany resolves a batch of records, preserving input-id order.
	// The batch fails as a whole on the first error; there is no
	// partial-success result.
	ProvideMany(ctx context.Context, ids []int64) ([]analysis.ProviderOutput, error)
}
