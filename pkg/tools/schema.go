package tools

import (
	"bytes"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Tool output is validated against a schema before normalization so a
// half-written or garbled payload surfaces as a malformed outcome rather
// than a panic deep in the decoder.

const radonCCSchemaJSON = `{
	"type": "object",
	"additionalProperties": {
		"type": "array",
		"items": {
			"type": "object",
			"properties": {
				"name":       {"type": "string"},
				"lineno":     {"type": "integer"},
				"complexity": {"type": "number"},
				"type":       {"type": "string"}
			}
		}
	}
}`

const radonMISchemaJSON = `{
	"type": "object",
	"additionalProperties": {
		"type": ["object", "string"]
	}
}`

const banditSchemaJSON = `{
	"type": "object",
	"required": ["results"],
	"properties": {
		"results": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"filename":       {"type": "string"},
					"line_number":    {"type": "integer"},
					"issue_severity": {"type": "string"},
					"issue_text":     {"type": "string"},
					"test_id":        {"type": "string"}
				}
			}
		}
	}
}`

const pylintSchemaJSON = `{
	"type": "array",
	"items": {
		"type": "object",
		"properties": {
			"symbol":  {"type": "string"},
			"path":    {"type": "string"},
			"line":    {"type": "integer"},
			"message": {"type": "string"}
		}
	}
}`

const safetySchemaJSON = `{
	"type": ["array", "object"]
}`

var (
	radonCCSchema = mustCompile("radon-cc.json", radonCCSchemaJSON)
	radonMISchema = mustCompile("radon-mi.json", radonMISchemaJSON)
	banditSchema  = mustCompile("bandit.json", banditSchemaJSON)
	pylintSchema  = mustCompile("pylint.json", pylintSchemaJSON)
	safetySchema  = mustCompile("safety.json", safetySchemaJSON)
)

func mustCompile(name, text string) *jsonschema.Schema {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader([]byte(text)))
	if err != nil {
		panic(fmt.Sprintf("tools: parse schema %s: %v", name, err))
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(name, doc); err != nil {
		panic(fmt.Sprintf("tools: add schema %s: %v", name, err))
	}
	sch, err := c.Compile(name)
	if err != nil {
		panic(fmt.Sprintf("tools: compile schema %s: %v", name, err))
	}
	return sch
}

// validate parses data as JSON and checks it against the schema.
func validate(schema *jsonschema.Schema, data []byte) error {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return err
	}
	return schema.Validate(doc)
}
