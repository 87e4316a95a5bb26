package rules

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// JSON schemas for the rule row payloads. Validation happens at load and
// create time so defective definitions never reach the engine.

const conditionsSchema = `{
	"type": "object",
	"additionalProperties": {
		"anyOf": [
			{"type": ["string", "number", "boolean", "null"]},
			{
				"type": "object",
				"properties": {
					"operator": {
						"type": "string",
						"enum": ["equals", "not_equals", "contains", "greater_than", "less_than", "in", "not_in"]
					},
					"value": {}
				},
				"required": ["operator"],
				"additionalProperties": false
			}
		]
	}
}`

const actionsSchema = `{
	"type": "array",
	"minItems": 1,
	"items": {
		"type": "object",
		"properties": {
			"type": {
				"type": "string",
				"enum": [
					"change_status",
					"assign_case",
					"send_notification",
					"escalate_case",
					"add_comment",
					"update_field",
					"schedule_followup"
				]
			},
			"parameters": {"type": "object"}
		},
		"required": ["type"],
		"additionalProperties": false
	}
}`

var (
	compiledConditionsSchema *gojsonschema.Schema
	compiledActionsSchema    *gojsonschema.Schema
)

func init() {
	var err error

	compiledConditionsSchema, err = gojsonschema.NewSchema(gojsonschema.NewStringLoader(conditionsSchema))
	if err != nil {
		panic(fmt.Errorf("invalid conditions schema: %w", err))
	}

	compiledActionsSchema, err = gojsonschema.NewSchema(gojsonschema.NewStringLoader(actionsSchema))
	if err != nil {
		panic(fmt.Errorf("invalid actions schema: %w", err))
	}
}

func validateConditionsPayload(payload string) error {
	return validatePayload(compiledConditionsSchema, payload, ErrMalformedConditions)
}

func validateActionsPayload(payload string) error {
	return validatePayload(compiledActionsSchema, payload, ErrMalformedActions)
}

func validatePayload(schema *gojsonschema.Schema, payload string, kind error) error {
	result, err := schema.Validate(gojsonschema.NewStringLoader(payload))
	if err != nil {
		return fmt.Errorf("%w: %v", kind, err)
	}

	if !result.Valid() {
		return fmt.Errorf("%w: %v", kind, result.Errors())
	}

	return nil
}
