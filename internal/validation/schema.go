// Package validation checks decoded result artifacts against the embedded
// artifact JSON Schema.
package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bengali-mteb/leaderboard/schemas"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// defaultPrinter is used to format schema validation error messages.
var defaultPrinter = message.NewPrinter(language.English)

// artifactSchema is the compiled schema for result artifacts.
var artifactSchema = mustCompileSchema(schemas.ArtifactSchemaJSON, "artifact.schema.json")

func mustCompileSchema(raw string, name string) *jsonschema.Schema {
	var schemaDoc any
	if err := json.Unmarshal([]byte(raw), &schemaDoc); err != nil {
		panic(fmt.Sprintf("failed to parse embedded %s: %v", name, err))
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, schemaDoc); err != nil {
		panic(fmt.Sprintf("failed to add %s resource: %v", name, err))
	}

	sch, err := compiler.Compile(name)
	if err != nil {
		panic(fmt.Sprintf("failed to compile %s: %v", name, err))
	}
	return sch
}

// DecodeJSON decodes strict JSON into the generic form expected by Validate.
// Numbers are kept as json.Number.
func DecodeJSON(data []byte) (any, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// ValidateArtifact validates a decoded artifact document. It returns one
// message per violated constraint, or nil when the document conforms.
func ValidateArtifact(doc any) []string {
	err := artifactSchema.Validate(doc)
	if err == nil {
		return nil
	}
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return []string{fmt.Sprintf("schema: %v", err)}
	}
	var errs []string
	collectSchemaErrors(ve, &errs)
	return errs
}

// ValidateArtifactBytes decodes and validates strict JSON bytes.
func ValidateArtifactBytes(data []byte) []string {
	doc, err := DecodeJSON(data)
	if err != nil {
		return []string{fmt.Sprintf("JSON parse error: %v", err)}
	}
	return ValidateArtifact(doc)
}

func collectSchemaErrors(ve *jsonschema.ValidationError, errs *[]string) {
	if len(ve.Causes) == 0 {
		loc := "/"
		if len(ve.InstanceLocation) > 0 {
			loc = "/" + strings.Join(ve.InstanceLocation, "/")
		}
		*errs = append(*errs, fmt.Sprintf("%s: %s", loc, ve.ErrorKind.LocalizedString(defaultPrinter)))
		return
	}
	for _, c := range ve.Causes {
		collectSchemaErrors(c, errs)
	}
}
