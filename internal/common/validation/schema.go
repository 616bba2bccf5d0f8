// internal/common/validation/schema.go

// Package validation checks raw intake payloads against JSON schemas
// before they are decoded into typed structures.
package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// MatchRequestSchema describes the canonical match request payload.
var MatchRequestSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"category": map[string]interface{}{
			"type": "string",
			"enum": []string{"service", "real_estate", "second_hand"},
		},
		"subcategory":    map[string]interface{}{"type": "string"},
		"region":         map[string]interface{}{"type": "string"},
		"budgetMax":      map[string]interface{}{"type": "integer", "minimum": 0},
		"title":          map[string]interface{}{"type": "string"},
		"description":    map[string]interface{}{"type": "string"},
		"requesterName":  map[string]interface{}{"type": "string"},
		"requesterEmail": map[string]interface{}{"type": "string"},
		"requesterPhone": map[string]interface{}{"type": "string"},
		"providers":      map[string]interface{}{"type": "array"},
	},
	"required": []string{"category"},
}

// ProviderSchema describes one provider row in an import payload.
var ProviderSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"id":         map[string]interface{}{"type": "string"},
		"orgName":    map[string]interface{}{"type": "string", "minLength": 1},
		"email":      map[string]interface{}{"type": "string", "minLength": 3},
		"categories": map[string]interface{}{"type": "string", "minLength": 1},
		"tags":       map[string]interface{}{"type": "string"},
		"regions":    map[string]interface{}{"type": "string", "minLength": 1},
		"minBudget":  map[string]interface{}{"type": []string{"integer", "null"}, "minimum": 0},
		"maxBudget":  map[string]interface{}{"type": []string{"integer", "null"}, "minimum": 0},
		"active":     map[string]interface{}{"type": "boolean"},
	},
	"required": []string{"orgName", "email", "categories", "regions"},
}

// Validate checks data against schema and returns a single descriptive
// error when it does not conform.
func Validate(schema map[string]interface{}, data interface{}) error {
	if len(schema) == 0 {
		return nil
	}

	schemaLoader := gojsonschema.NewGoLoader(schema)
	documentLoader := gojsonschema.NewGoLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("payload validation failed: %s", strings.Join(errs, "; "))
	}

	return nil
}
