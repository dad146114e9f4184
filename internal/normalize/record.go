package normalize

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// flexString accepts a JSON string, number, bool or null.
// Numbers show up for streetNumber and postalCode in some responses.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*f = flexString(strconv.FormatBool(b))
	case '{', '[':
		return fmt.Errorf("expected scalar, got %s", data[:1])
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*f = flexString(n.String())
	}
	return nil
}

// rawRecord is the adapter-side view of one upstream entry. Field aliases
// cover the renames observed across upstream deployments.
type rawRecord struct {
	Name      json.RawMessage `json:"name"`
	Addresses []rawAddress    `json:"addresses"`
	Phones    []rawPhone      `json:"phones"`
}

type rawAddress struct {
	StreetName   flexString `json:"streetName"`
	StreetNumber flexString `json:"streetNumber"`
	Entrance     flexString `json:"entrance"`
	PostalCode   flexString `json:"postalCode"`
	PostCode     flexString `json:"postCode"`
	PostalArea   flexString `json:"postalArea"`
	PostArea     flexString `json:"postArea"`
	City         flexString `json:"city"`
}

type rawPhone struct {
	Number      flexString `json:"number"`
	PhoneNumber flexString `json:"phoneNumber"`
}

// namePart is one key of a structured name, kept in source order.
type namePart struct {
	Key   string
	Value string
}

// decodeNameParts reads a JSON object preserving key order.
func decodeNameParts(data json.RawMessage) ([]namePart, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("name is not an object")
	}

	var parts []namePart
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := keyTok.(string)

		var value flexString
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("name part %q: %w", key, err)
		}
		parts = append(parts, namePart{Key: key, Value: string(value)})
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return parts, nil
}
