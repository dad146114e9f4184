// Package pipeline wires endpoint discovery, classification, fetching and
// normalization into a single lookup.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/tlf/internal/classify"
	"github.com/jonathan/tlf/internal/directory"
	"github.com/jonathan/tlf/internal/endpoint"
	"github.com/jonathan/tlf/internal/fetch"
	"github.com/jonathan/tlf/internal/normalize"
	"github.com/jonathan/tlf/internal/observability"
	"github.com/jonathan/tlf/internal/types"
)

// MaxConcurrency bounds how many batch queries run at once.
const MaxConcurrency = 16

// rateBurst is how many requests may go out back to back before RateLimit applies.
const rateBurst = 3

// Options holds configuration for a Client
type Options struct {
	Origin     string
	Locale     string
	Timeout    time.Duration
	UserAgent  string
	UseBrowser bool
	// RateLimit caps requests per second to the site; 0 means unlimited.
	RateLimit  float64
	Logger     *zap.Logger
	OnProgress ProgressCallback
}

// Client runs lookups against one directory site.
type Client struct {
	opts       Options
	logger     *zap.Logger
	resolver   *endpoint.Resolver
	classifier *classify.Classifier
	fetcher    *directory.Fetcher
}

// BatchItem is the outcome of one query in a batch. Exactly one of Outcome
// and Err is set.
type BatchItem struct {
	Query   string
	Outcome *types.Outcome
	Err     error
}

// New creates a Client. Zero Timeout and UserAgent fall back to the fetch defaults.
func New(opts Options) *Client {
	logger := observability.OrNop(opts.Logger)

	fetchOpts := fetch.DefaultOptions()
	if opts.Timeout > 0 {
		fetchOpts.Timeout = opts.Timeout
	}
	if opts.UserAgent != "" {
		fetchOpts.UserAgent = opts.UserAgent
	}
	fetchOpts.Throttle = fetch.NewThrottle(opts.RateLimit, rateBurst)

	resolver := endpoint.NewResolver(opts.Origin, opts.Locale, fetchOpts, logger.Named("endpoint"))
	resolver.UseBrowser = opts.UseBrowser

	return &Client{
		opts:       opts,
		logger:     logger,
		resolver:   resolver,
		classifier: classify.NewClassifier(opts.Origin, fetchOpts, logger.Named("classify")),
		fetcher:    directory.NewFetcher(fetchOpts, logger.Named("directory")),
	}
}

// Resolve discovers the current versioned endpoint.
func (c *Client) Resolve(ctx context.Context) (*endpoint.Endpoint, error) {
	return c.resolve(ctx, "")
}

// Lookup runs one query end to end. The endpoint is resolved afresh on
// every call. An inconclusive classification yields an Outcome with
// KindUnknown and no results; the search data is never requested then.
func (c *Client) Lookup(ctx context.Context, query string) (*types.Outcome, error) {
	lookupID := uuid.NewString()

	ep, err := c.resolve(ctx, lookupID)
	if err != nil {
		return nil, err
	}
	return c.lookupAt(ctx, ep, query, lookupID)
}

// LookupBatch resolves the endpoint once and runs every query against it,
// at most concurrency at a time. Without a RateLimit queries always run one
// after another. Results keep the order of queries.
// Per-query failures land in BatchItem.Err; only a failed endpoint
// discovery aborts the batch.
func (c *Client) LookupBatch(ctx context.Context, queries []string, concurrency int) ([]BatchItem, error) {
	if concurrency < 1 {
		concurrency = 1
	}
	concurrency = min(concurrency, MaxConcurrency)
	if concurrency > 1 && c.opts.RateLimit <= 0 {
		c.logger.Debug("no rate limit set, running batch sequentially", zap.Int("requested", concurrency))
		concurrency = 1
	}

	ep, err := c.resolve(ctx, "")
	if err != nil {
		return nil, err
	}

	items := make([]BatchItem, len(queries))

	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, query := range queries {
		g.Go(func() error {
			outcome, err := c.lookupAt(ctx, ep, query, uuid.NewString())
			// Each goroutine owns its own slot
			items[i] = BatchItem{Query: query, Outcome: outcome, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return items, nil
}

func (c *Client) resolve(ctx context.Context, lookupID string) (*endpoint.Endpoint, error) {
	start := time.Now()
	ep, err := c.resolver.Resolve(ctx)
	if err != nil {
		c.logger.Debug("endpoint discovery failed", zap.String("lookup_id", lookupID), zap.Error(err))
		return nil, err
	}

	c.emitProgress(StepResolve, lookupID, "",
		fmt.Sprintf("Resolved endpoint %s in %s", ep.BaseURL, time.Since(start).Round(time.Millisecond)), ep)
	return ep, nil
}

func (c *Client) lookupAt(ctx context.Context, ep *endpoint.Endpoint, query, lookupID string) (*types.Outcome, error) {
	log := c.logger.With(zap.String("lookup_id", lookupID), zap.String("query", query))

	kind, err := c.classifier.Classify(ctx, query)
	if err != nil {
		log.Debug("classification failed", zap.Error(err))
		return nil, err
	}
	c.emitProgress(StepClassify, lookupID, query, fmt.Sprintf("Classified as %s", kind), kind)

	outcome := &types.Outcome{Query: query, Kind: kind, Results: []types.SearchResult{}}
	if kind == types.KindUnknown {
		log.Debug("classification inconclusive, skipping search")
		return outcome, nil
	}

	records, err := c.fetcher.Fetch(ctx, ep, query, kind)
	if err != nil {
		log.Debug("search fetch failed", zap.Error(err))
		return nil, err
	}
	c.emitProgress(StepFetch, lookupID, query, fmt.Sprintf("Fetched %d %s", len(records), kind.Segment()), len(records))

	results, err := normalize.NormalizeAll(records, kind)
	if err != nil {
		log.Debug("normalization failed", zap.Error(err))
		return nil, err
	}
	c.emitProgress(StepNormalize, lookupID, query, fmt.Sprintf("Normalized %d results", len(results)), results)

	outcome.Results = results
	log.Debug("lookup complete", zap.Stringer("kind", kind), zap.Int("results", len(results)))
	return outcome, nil
}
