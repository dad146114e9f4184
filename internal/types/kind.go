// Package types provides type definitions for structured data used throughout the tlf directory client.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "strings"

// Kind identifies which upstream result pool a query belongs to.
type Kind int

const (
	// KindUnknown means the classification route gave no usable answer.
	KindUnknown Kind = iota
	// KindPerson selects the persons pool
	KindPerson
	// KindCompany selects the companies pool
	KindCompany
)

// String returns a short lowercase label.
func (k Kind) String() string {
	switch k {
	case KindPerson:
		return "person"
	case KindCompany:
		return "company"
	default:
		return "unknown"
	}
}

// Segment returns the upstream pool name used in search URLs and response envelopes.
// It is empty for KindUnknown.
func (k Kind) Segment() string {
	switch k {
	case KindPerson:
		return "persons"
	case KindCompany:
		return "companies"
	default:
		return ""
	}
}

// MarshalText implements encoding.TextMarshaler so Kind renders as its label in JSON.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Labels that are not a
// known pool decode to KindUnknown.
func (k *Kind) UnmarshalText(text []byte) error {
	*k = ParseKind(string(text))
	return nil
}

// ParseKind maps a categorical token from the classification route onto a Kind.
// Surrounding whitespace and quotes are ignored; anything unrecognised is KindUnknown.
func ParseKind(token string) Kind {
	token = strings.ToLower(strings.Trim(strings.TrimSpace(token), `"'`))
	switch token {
	case "persons", "person":
		return KindPerson
	case "companies", "company":
		return KindCompany
	default:
		return KindUnknown
	}
}
