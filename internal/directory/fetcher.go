package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/jonathan/tlf/internal/endpoint"
	"github.com/jonathan/tlf/internal/fetch"
	"github.com/jonathan/tlf/internal/schemas"
	"github.com/jonathan/tlf/internal/types"
)

// Fetcher issues the classified search request and returns raw records.
type Fetcher struct {
	Options   *fetch.Options
	Envelopes []Envelope
	Logger    *zap.Logger
}

// NewFetcher creates a fetcher that understands the default envelopes.
func NewFetcher(opts *fetch.Options, logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{
		Options:   opts,
		Envelopes: DefaultEnvelopes(),
		Logger:    logger,
	}
}

// Fetch requests the first page of results for query in the given pool.
// An absent results key yields an empty slice, not an error.
func (f *Fetcher) Fetch(ctx context.Context, ep *endpoint.Endpoint, query string, kind types.Kind) ([]types.RawRecord, error) {
	if kind == types.KindUnknown {
		return nil, &FetchError{Message: "cannot fetch an unclassified query"}
	}
	if ep == nil {
		return nil, &FetchError{Message: "no endpoint resolved"}
	}

	searchURL := ep.SearchURL(query, kind)

	result, err := fetch.JSON(ctx, searchURL, f.Options)
	if err != nil {
		fetchErr := &FetchError{URL: searchURL, Message: "search request failed", Cause: err}
		if result != nil {
			fetchErr.StatusCode = result.StatusCode
		}
		return nil, fetchErr
	}

	records, envelope, err := f.Decode(result.Body, kind)
	if err != nil {
		return nil, &FetchError{
			URL:        searchURL,
			StatusCode: result.StatusCode,
			Message:    "failed to read search response",
			Cause:      err,
		}
	}

	f.Logger.Debug("fetched search results",
		zap.String("url", searchURL),
		zap.String("envelope", envelope),
		zap.Int("records", len(records)))

	return records, nil
}

// Decode runs body through the first matching envelope and returns the
// records for kind along with the envelope's name.
func (f *Fetcher) Decode(body []byte, kind types.Kind) ([]types.RawRecord, string, error) {
	var doc Document
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, "", fmt.Errorf("response is not a JSON object: %w", err)
	}

	for _, env := range f.envelopes() {
		if !env.Match(doc) {
			continue
		}

		if err := schemas.Validate(env.Schema(), body); err != nil {
			return nil, env.Name(), fmt.Errorf("unexpected %s response shape: %w", env.Name(), err)
		}

		records, found, err := env.Records(doc, kind)
		if err != nil {
			return nil, env.Name(), fmt.Errorf("failed to extract %s records: %w", env.Name(), err)
		}
		if !found {
			return []types.RawRecord{}, env.Name(), nil
		}
		return records, env.Name(), nil
	}

	return nil, "", errors.New("unrecognised response envelope")
}

func (f *Fetcher) envelopes() []Envelope {
	if len(f.Envelopes) == 0 {
		return DefaultEnvelopes()
	}
	return f.Envelopes
}
