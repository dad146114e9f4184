package endpoint

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/jonathan/tlf/internal/types"
)

// DataPathFormat is the Next.js data route, parameterised by build ID and locale.
const DataPathFormat = "/_next/data/%s/%s/search"

// Endpoint is the resolved, versioned search-data endpoint for one run.
type Endpoint struct {
	Origin  string
	BuildID string
	Locale  string
	BaseURL string
}

// New composes an Endpoint from its parts.
func New(origin, buildID, locale string) *Endpoint {
	origin = strings.TrimRight(origin, "/")
	return &Endpoint{
		Origin:  origin,
		BuildID: buildID,
		Locale:  locale,
		BaseURL: origin + fmt.Sprintf(DataPathFormat, buildID, locale),
	}
}

// SearchURL builds the first-page search URL for a query in the given pool.
func (e *Endpoint) SearchURL(query string, kind types.Kind) string {
	params := url.Values{}
	params.Set("query", query)
	return fmt.Sprintf("%s/%s/%s/1/0.json?%s", e.BaseURL, url.PathEscape(query), kind.Segment(), params.Encode())
}

func (e *Endpoint) String() string {
	return e.BaseURL
}
