package schema

import "encoding/json"

// NewDevice validates the POST /devices request body.
var NewDevice = Document{
	name: "new_device.json",
	raw: json.RawMessage(`{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"type": "object",
		"required": ["thingId", "thingType"],
		"properties": {
			"thingId": {"type": "string", "pattern": "^[A-Za-z0-9][A-Za-z0-9_-]*$", "maxLength": 64},
			"thingType": {"type": "string", "minLength": 1, "maxLength": 64}
		},
		"additionalProperties": false
	}`),
}

// Directive validates the outer shape of an inbound directive envelope;
// payloads stay free-form and are interpreted per namespace downstream.
var Directive = Document{
	name: "directive.json",
	raw: json.RawMessage(`{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"type": "object",
		"required": ["directive"],
		"properties": {
			"directive": {
				"type": "object",
				"required": ["header"],
				"properties": {
					"header": {
						"type": "object",
						"required": ["namespace", "name", "payloadVersion"],
						"properties": {
							"namespace": {"type": "string", "minLength": 1},
							"name": {"type": "string", "minLength": 1},
							"payloadVersion": {"type": "string"},
							"messageId": {"type": "string"},
							"correlationToken": {"type": "string"}
						}
					},
					"endpoint": {"type": "object"},
					"payload": {"type": "object"}
				}
			}
		}
	}`),
}
