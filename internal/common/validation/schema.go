// internal/common/validation/schema.go
package validation

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// generationRequestSchema validates the inbound generation envelope before
// any pipeline work starts. Only structural concerns live here; template
// and data semantics are checked by the pipeline stages themselves.
const generationRequestSchema = `{
	"type": "object",
	"required": ["studentData", "certificateId", "callbackUrl"],
	"properties": {
		"studentData": {
			"type": "object",
			"required": ["name"],
			"properties": {
				"name":            {"type": "string", "minLength": 1},
				"email":           {"type": "string"},
				"registerNumber":  {"type": "string"},
				"department":      {"type": "string"},
				"year":            {"type": "string"},
				"institutionName": {"type": "string"},
				"pincode":         {"type": "string"},
				"city":            {"type": "string"},
				"state":           {"type": "string"}
			}
		},
		"courseData": {
			"type": "object",
			"properties": {
				"title":     {"type": "string"},
				"startDate": {"type": "string"},
				"endDate":   {"type": "string"}
			}
		},
		"certificateId": {"type": "string", "minLength": 1},
		"callbackUrl":   {"type": "string", "minLength": 1},
		"templateId":    {"type": "string"},
		"templateUrl":   {"type": "string"},
		"type":          {"type": "string", "enum": ["certificate", "offer-letter"]},
		"qrCode":        {"type": "string"}
	}
}`

var requestSchema = gojsonschema.NewStringLoader(generationRequestSchema)

// ValidationError describes one failed schema check.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult aggregates schema errors for one document.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// GetErrorMessages returns a simple list of error messages.
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// ValidateGenerationRequest checks a raw request body against the envelope
// schema.
func ValidateGenerationRequest(body []byte) (*ValidationResult, error) {
	result, err := gojsonschema.Validate(requestSchema, gojsonschema.NewBytesLoader(body))
	if err != nil {
		return nil, fmt.Errorf("schema validation failed to run: %w", err)
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, desc := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   desc.Field(),
			Message: desc.Description(),
		})
	}
	return out, nil
}
