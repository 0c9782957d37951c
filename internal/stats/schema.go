package stats

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

func countListSchema() map[string]any {
	return map[string]any{
		"type": "array",
		"items": map[string]any{
			"type":     "object",
			"required": []string{"_id", "count"},
			"properties": map[string]any{
				"_id":   map[string]any{"type": []string{"string", "null"}},
				"count": map[string]any{"type": "integer", "minimum": 0},
			},
		},
	}
}

// payloadSchema describes the parts of the stats document the dashboard reads.
// Unknown properties are allowed so that backend additions do not break the view.
var payloadSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"total_predictions": map[string]any{"type": "integer", "minimum": 0},
		"avg_confidence_by_model": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":     "object",
				"required": []string{"_id", "avg_confidence"},
				"properties": map[string]any{
					"_id":            map[string]any{"type": []string{"string", "null"}},
					"avg_confidence": map[string]any{"type": "number"},
				},
			},
		},
		"predictions_by_model":    countListSchema(),
		"predictions_by_class":    countListSchema(),
		"confidence_distribution": countListSchema(),
		"recent_predictions": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "object"},
		},
	},
}

var payloadSchemaLoader = gojsonschema.NewGoLoader(payloadSchema)

// ValidatePayload checks a raw stats document against the expected shape.
func ValidatePayload(raw []byte) error {
	result, err := gojsonschema.Validate(payloadSchemaLoader, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}
	var errs []string
	for _, desc := range result.Errors() {
		errs = append(errs, desc.String())
	}
	return fmt.Errorf("stats payload validation failed: %s", strings.Join(errs, ", "))
}

// DecodePayload validates and decodes a raw stats document.
func DecodePayload(raw []byte) (*Payload, error) {
	if err := ValidatePayload(raw); err != nil {
		return nil, err
	}
	var payload Payload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode stats payload: %w", err)
	}
	return &payload, nil
}
