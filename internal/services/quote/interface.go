package quote

import "context"

// Provider fetches a single short quote from an external source. It is the
// only boundary that may fail; the service layered on top never does.
type Provider interface {
	RandomQuote(ctx context.Context) (string, error)
}

// Service defines the high-level quote interface consumed by the reply
// scheduler.
type Service interface {
	// FetchQuote resolves internal failures to a fallback quote and therefore
	// always returns usable text.
	FetchQuote(ctx context.Context) string
}
