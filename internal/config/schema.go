package config

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// DocumentSchemas returns JSON schemas for config.json and techniques.json,
// keyed by file name.
func DocumentSchemas() (map[string]*jsonschema.Schema, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
		DoNotReference:            true,
	}

	primary := reflector.Reflect(&PrimaryDocument{})
	primary.Title = "promptvault tables"
	techniques := reflector.Reflect(&TechniquesDocument{})
	techniques.Title = "promptvault techniques"

	return map[string]*jsonschema.Schema{
		"config.json":     primary,
		"techniques.json": techniques,
	}, nil
}

// SchemaJSON renders one document schema as indented JSON.
func SchemaJSON(name string) ([]byte, error) {
	schemas, err := DocumentSchemas()
	if err != nil {
		return nil, err
	}
	schema, ok := schemas[name]
	if !ok {
		return nil, fmt.Errorf("no schema for %q (valid: config.json, techniques.json)", name)
	}
	return json.MarshalIndent(schema, "", "  ")
}
