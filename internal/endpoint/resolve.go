package endpoint

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/tlf/internal/fetch"
)

// buildIDMarker precedes the deployment token in the page's embedded JSON.
const buildIDMarker = `"buildId":"`

// Resolver derives the current Endpoint from the site's root page.
// It never caches: the token changes on every upstream deployment.
type Resolver struct {
	Origin     string
	Locale     string
	Options    *fetch.Options
	UseBrowser bool
	Logger     *zap.Logger
}

// NewResolver creates a resolver for the given origin and locale.
func NewResolver(origin, locale string, opts *fetch.Options, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		Origin:  strings.TrimRight(origin, "/"),
		Locale:  locale,
		Options: opts,
		Logger:  logger,
	}
}

// Resolve fetches the root page and composes the versioned endpoint from it.
func (r *Resolver) Resolve(ctx context.Context) (*Endpoint, error) {
	rootURL := r.Origin + "/"

	result, err := fetch.URL(ctx, rootURL, r.Options)
	if err != nil {
		return nil, &EndpointDiscoveryError{
			Origin:  r.Origin,
			Message: "failed to fetch root page",
			Cause:   err,
		}
	}

	buildID := ExtractBuildID(result.Text())
	if buildID == "" && r.UseBrowser {
		r.Logger.Debug("build id not in static page, rendering with browser", zap.String("url", rootURL))
		html, err := fetch.WithBrowser(ctx, rootURL, r.timeout(), r.Logger)
		if err != nil {
			return nil, &EndpointDiscoveryError{
				Origin:  r.Origin,
				Message: "failed to render root page",
				Cause:   err,
			}
		}
		buildID = ExtractBuildID(html)
	}

	if buildID == "" {
		return nil, &EndpointDiscoveryError{
			Origin:  r.Origin,
			Message: "deployment token not found in root page",
		}
	}

	ep := New(r.Origin, buildID, r.Locale)
	r.Logger.Debug("resolved endpoint", zap.String("build_id", buildID), zap.String("base_url", ep.BaseURL))

	return ep, nil
}

func (r *Resolver) timeout() time.Duration {
	if r.Options != nil && r.Options.Timeout > 0 {
		return r.Options.Timeout
	}
	return fetch.DefaultTimeout
}

// ExtractBuildID finds the deployment token in a root page. The __NEXT_DATA__
// script is tried first, then a raw scan for the marker anywhere in the body.
func ExtractBuildID(html string) string {
	if id := buildIDFromNextData(html); id != "" {
		return id
	}
	return buildIDFromMarker(html)
}

func buildIDFromNextData(html string) string {
	doc, err := fetch.Document(html)
	if err != nil {
		return ""
	}
	script := doc.Find("script#__NEXT_DATA__").First()
	if script.Length() == 0 {
		return ""
	}

	var data struct {
		BuildID string `json:"buildId"`
	}
	if err := json.Unmarshal([]byte(script.Text()), &data); err != nil {
		return ""
	}
	return strings.TrimSpace(data.BuildID)
}

func buildIDFromMarker(html string) string {
	_, rest, ok := strings.Cut(html, buildIDMarker)
	if !ok {
		return ""
	}
	id, _, ok := strings.Cut(rest, `"`)
	if !ok {
		return ""
	}
	return strings.TrimSpace(id)
}
