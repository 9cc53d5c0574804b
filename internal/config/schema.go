package config

import (
	"bytes"
	"encoding/json"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const settingsSchemaID = "https://github.com/andyballingall/cppfmt/settings.schema.json"

const settingsSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "paths":      {"$ref": "#/$defs/pathList"},
    "ignore":     {"$ref": "#/$defs/pathList"},
    "exclude":    {"$ref": "#/$defs/pathList"},
    "extensions": {
      "type": "array",
      "items": {"type": "string", "pattern": "^\\.[^./\\\\]+$"}
    },
    "formatter":  {"type": "string", "minLength": 1},
    "jobs":       {"type": "integer", "minimum": 1}
  },
  "$defs": {
    "pathList": {
      "type": "array",
      "items": {"type": "string", "minLength": 1}
    }
  }
}`

var compileSettingsSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(settingsSchema))
	if err != nil {
		return nil, err
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(settingsSchemaID, doc); err != nil {
		return nil, err
	}
	return c.Compile(settingsSchemaID)
})

// validateSettingsDocument checks a decoded yaml document against the settings schema.
// The document is round-tripped through JSON so numbers reach the validator as json.Number.
func validateSettingsDocument(doc any) error {
	sch, err := compileSettingsSchema()
	if err != nil {
		return err
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return err
	}
	return sch.Validate(inst)
}
