// Package schemas embeds the JSON Schemas describing the upstream response shapes.
package schemas

import "embed"

// FS holds every *.schema.json file in this directory.
//
//go:embed *.schema.json
var FS embed.FS

// Schema file names.
const (
	Record           = "record.schema.json"
	NextDataEnvelope = "next_data_envelope.schema.json"
	HitsEnvelope     = "hits_envelope.schema.json"
)

// All lists every embedded schema.
func All() []string {
	return []string{Record, NextDataEnvelope, HitsEnvelope}
}
