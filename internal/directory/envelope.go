package directory

import (
	"encoding/json"

	"github.com/jonathan/tlf/internal/types"
	embedded "github.com/jonathan/tlf/schemas"
)

// Document is a decoded response body, one level deep.
type Document map[string]json.RawMessage

// Envelope adapts one upstream response shape. When the upstream changes
// shape again, a new Envelope is the only thing that needs writing.
type Envelope interface {
	// Name identifies the envelope in logs and errors.
	Name() string
	// Schema is the embedded JSON Schema the whole body must satisfy.
	Schema() string
	// Match reports whether the document looks like this envelope.
	Match(doc Document) bool
	// Records extracts the pool for kind. found is false when the results
	// key is absent altogether, which is how unlisted subjects come back.
	Records(doc Document, kind types.Kind) (records []types.RawRecord, found bool, err error)
}

// DefaultEnvelopes lists the known shapes in the order they are tried.
func DefaultEnvelopes() []Envelope {
	return []Envelope{nextDataEnvelope{}, hitsEnvelope{}}
}

// nextDataEnvelope reads {"pageProps":{"initialState":{"persons":[...],"companies":[...]}}}.
type nextDataEnvelope struct{}

func (nextDataEnvelope) Name() string   { return "next-data" }
func (nextDataEnvelope) Schema() string { return embedded.NextDataEnvelope }

func (nextDataEnvelope) Match(doc Document) bool {
	_, ok := doc["pageProps"]
	return ok
}

func (nextDataEnvelope) Records(doc Document, kind types.Kind) ([]types.RawRecord, bool, error) {
	var pageProps map[string]json.RawMessage
	if err := json.Unmarshal(doc["pageProps"], &pageProps); err != nil {
		return nil, false, err
	}

	rawState, ok := pageProps["initialState"]
	if !ok || isNull(rawState) {
		return nil, false, nil
	}

	var state map[string]json.RawMessage
	if err := json.Unmarshal(rawState, &state); err != nil {
		return nil, false, err
	}

	return recordArray(state, kind.Segment())
}

// hitsEnvelope reads {"hits":n,"items":[...]}, or the same nested under the
// pool name: {"companies":{"hits":n,"items":[...]}}.
type hitsEnvelope struct{}

func (hitsEnvelope) Name() string   { return "hits" }
func (hitsEnvelope) Schema() string { return embedded.HitsEnvelope }

func (hitsEnvelope) Match(doc Document) bool {
	for _, key := range []string{"hits", "items", "persons", "companies"} {
		if _, ok := doc[key]; ok {
			return true
		}
	}
	return false
}

func (hitsEnvelope) Records(doc Document, kind types.Kind) ([]types.RawRecord, bool, error) {
	if nested, ok := doc[kind.Segment()]; ok && !isNull(nested) {
		var pool map[string]json.RawMessage
		if err := json.Unmarshal(nested, &pool); err != nil {
			return nil, false, err
		}
		return recordArray(pool, "items")
	}
	return recordArray(doc, "items")
}

// recordArray decodes obj[key] as an array of records.
func recordArray(obj map[string]json.RawMessage, key string) ([]types.RawRecord, bool, error) {
	raw, ok := obj[key]
	if !ok || isNull(raw) {
		return nil, false, nil
	}

	var records []types.RawRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, true, err
	}
	if records == nil {
		records = []types.RawRecord{}
	}
	return records, true, nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}
