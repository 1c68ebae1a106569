// internal/handlers/compose-price/validation.go
package composeprice

import (
	"fmt"
	"strings"

	gwerrors "ecommerce-gateway/internal/common/errors"

	"github.com/xeipuuv/gojsonschema"
)

var requestSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"product_id": map[string]interface{}{
			"type":      "string",
			"minLength": 1,
		},
		"currency": map[string]interface{}{
			"type":      "string",
			"pattern":   "^[A-Z]{3}$",
		},
		"include_promotions": map[string]interface{}{
			"type": "boolean",
		},
	},
	"required":             []string{"product_id"},
	"additionalProperties": false,
}

// ValidateRequestBody checks the raw request body against the schema before it
// is decoded. Returns an InvalidRequest error with every violation listed.
func ValidateRequestBody(raw []byte) *gwerrors.StandardError {
	schemaLoader := gojsonschema.NewGoLoader(requestSchema)
	documentLoader := gojsonschema.NewBytesLoader(raw)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return gwerrors.NewInvalidRequestError(fmt.Sprintf("body is not valid JSON: %v", err))
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return gwerrors.NewInvalidRequestError(strings.Join(errs, "; "))
	}

	return nil
}
