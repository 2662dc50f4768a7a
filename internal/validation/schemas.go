package validation

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"github.com/temcen/pirex/pkg/models"
)

// actionSchemaJSON is the in-memory JSON schema a RawAction payload must
// satisfy before it is promoted to a models.Action. Kept as a literal
// rather than a schema directory since this module validates exactly one
// payload shape at its ingestion boundary.
const actionSchemaJSON = `{
	"type": "object",
	"required": ["userId", "itemId", "actionType", "value"],
	"properties": {
		"userId": {"type": "string", "minLength": 1},
		"itemId": {"type": "integer"},
		"actionType": {"type": "string", "enum": ["rate", "watchTime", "add_watchlist", "view", "click"]},
		"value": {"type": "number"}
	}
}`

// ActionValidator validates raw action payloads at the HTTP and Kafka
// ingestion boundaries. Grounded on the teacher's SchemaValidator
// (gojsonschema.NewSchema / NewBytesLoader), trimmed from its five
// content/interaction/recommendation schemas down to the one payload shape
// this module accepts.
type ActionValidator struct {
	schema *gojsonschema.Schema
}

func NewActionValidator() (*ActionValidator, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(actionSchemaJSON))
	if err != nil {
		return nil, fmt.Errorf("compiling action schema: %w", err)
	}
	return &ActionValidator{schema: schema}, nil
}

// ValidationResult mirrors the teacher's shape: a validity flag plus a
// flat list of field-level errors, directly convertible to an API error
// body via ToAPIError.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Code    string      `json:"code"`
	Value   interface{} `json:"value,omitempty"`
}

func (ve ValidationError) Error() string {
	return fmt.Sprintf("validation error in field '%s': %s", ve.Field, ve.Message)
}

func (vr *ValidationResult) ToAPIError() map[string]interface{} {
	if vr.Valid {
		return nil
	}

	fieldErrors := make(map[string][]string)
	for _, e := range vr.Errors {
		if e.Field != "" {
			fieldErrors[e.Field] = append(fieldErrors[e.Field], e.Message)
		}
	}

	return map[string]interface{}{
		"error": map[string]interface{}{
			"code":    "INVALID_ACTION",
			"message": "action payload failed validation",
			"details": map[string]interface{}{
				"validationErrors": vr.Errors,
				"fieldErrors":      fieldErrors,
			},
		},
	}
}

// ValidateRaw checks a raw payload against the action schema and, when
// valid, additionally enforces the cross-field rules the schema can't
// express: actionType must be one of ValidActionTypes (redundant with the
// enum above but kept as a second gate against schema drift) and a rate
// action's value must fall within [0, 10].
func (av *ActionValidator) ValidateRaw(data []byte) (*models.Action, *ValidationResult) {
	result, err := av.schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, &ValidationResult{Valid: false, Errors: []ValidationError{{
			Field: "body", Message: err.Error(), Code: "VALIDATION_ERROR",
		}}}
	}

	if !result.Valid() {
		vr := &ValidationResult{Valid: false, Errors: make([]ValidationError, 0, len(result.Errors()))}
		for _, e := range result.Errors() {
			vr.Errors = append(vr.Errors, ValidationError{
				Field: e.Field(), Message: e.Description(), Code: "VALIDATION_ERROR", Value: e.Value(),
			})
		}
		return nil, vr
	}

	var raw models.RawAction
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ValidationResult{Valid: false, Errors: []ValidationError{{
			Field: "body", Message: err.Error(), Code: "MALFORMED_JSON",
		}}}
	}

	actionType := models.ActionType(raw.ActionType)
	if !models.ValidActionTypes[actionType] {
		return nil, &ValidationResult{Valid: false, Errors: []ValidationError{{
			Field: "actionType", Message: "unrecognized action type", Code: "INVALID_ACTION_TYPE", Value: raw.ActionType,
		}}}
	}

	if raw.Value == nil {
		return nil, &ValidationResult{Valid: false, Errors: []ValidationError{{
			Field: "value", Message: "value is required", Code: "MISSING_VALUE",
		}}}
	}
	value := *raw.Value
	if actionType == models.ActionRate && (value < 0 || value > 10) {
		return nil, &ValidationResult{Valid: false, Errors: []ValidationError{{
			Field: "value", Message: "rate value must be between 0 and 10", Code: "INVALID_RATING", Value: value,
		}}}
	}

	timestamp := time.Now()
	if raw.Timestamp != nil {
		timestamp = *raw.Timestamp
	}

	action := &models.Action{
		UserID:     raw.UserID,
		ItemID:     *raw.ItemID,
		ActionType: actionType,
		Value:      value,
		Timestamp:  timestamp,
		Metadata:   raw.Metadata,
	}

	return action, &ValidationResult{Valid: true}
}
