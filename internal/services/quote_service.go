// File: internal/services/quote_service.go
package services

import (
	"context"

	"github.com/quotechat/go-quotechat/internal/services/quote"
)

var _ quote.Service = (*QuoteService)(nil)

// QuoteService wraps a quote.Provider and guarantees a usable quote: any
// provider failure resolves to an entry from the local fallback list and is
// never visible past this boundary.
type QuoteService struct {
	provider quote.Provider
	retry    *quote.RetryConfig
	logger   Logger
}

func NewQuoteService(provider quote.Provider, retry *quote.RetryConfig, logger Logger) *QuoteService {
	if retry == nil {
		retry = quote.DefaultRetryConfig()
	}
	return &QuoteService{
		provider: provider,
		retry:    retry,
		logger:   logger,
	}
}

// FetchQuote returns a quote from the provider, or a fallback quote when the
// provider fails after retries.
func (s *QuoteService) FetchQuote(ctx context.Context) string {
	var text string
	err := quote.RetryWithBackoff(ctx, s.retry, func(ctx context.Context) error {
		var fetchErr error
		text, fetchErr = s.provider.RandomQuote(ctx)
		return fetchErr
	})
	if err != nil {
		s.logger.Warn("quote provider failed, using fallback", "error", err.Error())
		return quote.FallbackQuote()
	}

	return text
}
