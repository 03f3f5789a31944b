// Package schemas embeds the JSON Schemas used to validate result artifacts.
package schemas

import _ "embed"

// ArtifactSchemaJSON describes the sanitized shape of a result artifact.
//
//go:embed artifact.schema.json
var ArtifactSchemaJSON string
