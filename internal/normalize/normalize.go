package normalize

import (
	"bytes"
	"encoding/json"

	"github.com/jonathan/tlf/internal/schemas"
	"github.com/jonathan/tlf/internal/types"
	embedded "github.com/jonathan/tlf/schemas"
)

// personNameOrder is the fixed order for structured person names. Any other
// parts follow in the order the upstream sent them.
var personNameOrder = []string{"firstName", "middleName", "lastName"}

// Normalize converts one raw record into a SearchResult. It is pure: the same
// record always yields an equal result.
func Normalize(record types.RawRecord, kind types.Kind) (types.SearchResult, error) {
	if err := schemas.Validate(embedded.Record, record); err != nil {
		return types.SearchResult{}, &RecordError{Message: "unexpected record shape", Cause: err}
	}

	var raw rawRecord
	if err := json.Unmarshal(record, &raw); err != nil {
		return types.SearchResult{}, &RecordError{Message: "failed to decode record", Cause: err}
	}

	name, err := normalizeName(raw.Name, kind)
	if err != nil {
		return types.SearchResult{}, err
	}
	if JoinPresent(name) == "" {
		return types.SearchResult{}, &RecordError{Message: "record has no name"}
	}

	result := types.SearchResult{
		Name:         name,
		PhoneNumbers: normalizePhones(raw.Phones),
	}

	// Only the first address is used
	if len(raw.Addresses) > 0 {
		addr := raw.Addresses[0]
		result.Street = JoinPresent(string(addr.StreetName), streetNumber(addr))
		result.Area = JoinPresent(
			firstPresent(string(addr.PostalCode), string(addr.PostCode)),
			firstPresent(string(addr.PostalArea), string(addr.PostArea), string(addr.City)),
		)
	}

	return result, nil
}

// NormalizeAll normalizes records in order, stopping at the first bad one.
func NormalizeAll(records []types.RawRecord, kind types.Kind) ([]types.SearchResult, error) {
	results := make([]types.SearchResult, 0, len(records))
	for _, rec := range records {
		r, err := Normalize(rec, kind)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, nil
}

func normalizeName(data json.RawMessage, kind types.Kind) (string, error) {
	data = bytes.TrimSpace(data)

	// Companies normally carry a plain string; so do some persons
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return "", &RecordError{Message: "failed to decode name", Cause: err}
		}
		if kind == types.KindCompany {
			return s, nil
		}
		return JoinPresent(s), nil
	}

	parts, err := decodeNameParts(data)
	if err != nil {
		return "", &RecordError{Message: "failed to decode structured name", Cause: err}
	}
	return joinNameParts(parts), nil
}

func joinNameParts(parts []namePart) string {
	ordered := make([]string, 0, len(parts))
	used := make(map[int]bool, len(parts))

	for _, key := range personNameOrder {
		for i, p := range parts {
			if !used[i] && p.Key == key {
				ordered = append(ordered, p.Value)
				used[i] = true
				break
			}
		}
	}
	for i, p := range parts {
		if !used[i] {
			ordered = append(ordered, p.Value)
		}
	}

	return JoinPresent(ordered...)
}

// streetNumber appends an entrance letter directly to the number ("14" + "B").
func streetNumber(addr rawAddress) string {
	number := JoinPresent(string(addr.StreetNumber))
	if number == "" {
		return ""
	}
	return number + JoinPresent(string(addr.Entrance))
}

func normalizePhones(phones []rawPhone) []string {
	numbers := make([]string, 0, len(phones))
	for _, p := range phones {
		if n := firstPresent(string(p.Number), string(p.PhoneNumber)); n != "" {
			numbers = append(numbers, n)
		}
	}
	return numbers
}
