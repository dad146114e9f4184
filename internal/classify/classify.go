package classify

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/tlf/internal/fetch"
	"github.com/jonathan/tlf/internal/types"
)

// TypePath is the lightweight route answering which pool a query hits.
const TypePath = "/api/search/type"

// Classifier issues the classification request for a query.
type Classifier struct {
	Origin  string
	Options *fetch.Options
	Logger  *zap.Logger
}

// NewClassifier creates a classifier against the given site origin.
func NewClassifier(origin string, opts *fetch.Options, logger *zap.Logger) *Classifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Classifier{
		Origin:  strings.TrimRight(origin, "/"),
		Options: opts,
		Logger:  logger,
	}
}

// TypeURL returns the classification URL for a raw query.
func (c *Classifier) TypeURL(query string) string {
	params := url.Values{}
	params.Set("query", query)
	return c.Origin + TypePath + "?" + params.Encode()
}

// Classify returns the pool for query. KindUnknown with a nil error means
// the route answered but not with a known token.
func (c *Classifier) Classify(ctx context.Context, query string) (types.Kind, error) {
	if strings.TrimSpace(query) == "" {
		return types.KindUnknown, &ClassificationError{Query: query, Message: "query is empty"}
	}

	result, err := fetch.JSON(ctx, c.TypeURL(query), c.Options)
	if err != nil {
		return types.KindUnknown, &ClassificationError{
			Query:   query,
			Message: "classification request failed",
			Cause:   err,
		}
	}

	token := typeToken(result.Body)
	kind := types.ParseKind(token)

	c.Logger.Debug("classified query",
		zap.String("query", query),
		zap.String("token", token),
		zap.Stringer("kind", kind))

	return kind, nil
}

// typeToken extracts the categorical token from a classification body. Accepted shapes:
// a JSON string, an object with a "type" or "kind" field, or bare text.
func typeToken(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return ""
	}

	var s string
	if err := json.Unmarshal([]byte(trimmed), &s); err == nil {
		return s
	}

	var obj struct {
		Type string `json:"type"`
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal([]byte(trimmed), &obj); err == nil {
		if obj.Type != "" {
			return obj.Type
		}
		return obj.Kind
	}

	// Bare text, but never a JSON array/object/number we failed to read above
	if strings.ContainsAny(trimmed[:1], "[{") {
		return ""
	}
	return trimmed
}
