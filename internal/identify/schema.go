package identify

import (
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// resultSchema mirrors the JSON shape both prompts ask for. It is only used
// to flag deviations; results are never rejected for failing it.
const resultSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["identified"],
  "properties": {
    "identified": {"type": "boolean"},
    "batchMode": {"type": "boolean"},
    "totalPiecesEstimate": {"type": "string"},
    "bricks": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name"],
        "properties": {
          "name": {"type": "string"},
          "partNumber": {"type": ["string", "null"]},
          "category": {"type": "string"},
          "dimensions": {"type": ["string", "null"]},
          "color": {"type": ["string", "null"]},
          "description": {"type": "string"},
          "confidence": {"enum": ["high", "medium", "low"]},
          "funFact": {"type": ["string", "null"]},
          "approximateCount": {"type": ["string", "null"]}
        }
      }
    },
    "categories": {
      "type": "object",
      "additionalProperties": {"type": "integer", "minimum": 0}
    },
    "interestingFinds": {"type": "array", "items": {"type": "string"}},
    "suggestions": {"type": "array", "items": {"type": "string"}},
    "message": {"type": "string"}
  }
}`

var compiledSchema = jsonschema.MustCompileString("identification.schema.json", resultSchema)

func validateShape(doc any) error {
	return compiledSchema.Validate(doc)
}
