package types

import "encoding/json"

// RawRecord is one directory entry exactly as the upstream API returned it.
// Persons carry a structured name object, companies a plain string.
type RawRecord = json.RawMessage

// SearchResult is a normalized, display-ready directory entry.
// Every field is always present; missing upstream data shows up as "" or an empty slice.
type SearchResult struct {
	Name         string   `json:"name"`
	Street       string   `json:"street"`
	Area         string   `json:"area"`
	PhoneNumbers []string `json:"phone_numbers"`
}

// Outcome is the terminal result of one query.
type Outcome struct {
	Query   string         `json:"query"`
	Kind    Kind           `json:"kind"`
	Results []SearchResult `json:"results"`
}

// NoResults reports whether the query ended without anything to show,
// either because classification was inconclusive or the pool was empty.
func (o *Outcome) NoResults() bool {
	return o == nil || o.Kind == KindUnknown || len(o.Results) == 0
}
