package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/temcen/pirex/internal/validation"
)

// ValidationMiddleware provides request/response validation, trimmed from
// the teacher's five-schema ValidationMiddleware down to this module's one
// ingestion payload (actions) plus the generic header/query-param checks
// every endpoint shares.
type ValidationMiddleware struct {
	actionValidator *validation.ActionValidator
}

func NewValidationMiddleware(actionValidator *validation.ActionValidator) *ValidationMiddleware {
	return &ValidationMiddleware{actionValidator: actionValidator}
}

// ValidateAction validates an action ingestion request body and stores the
// promoted models.Action in context under "validatedAction" for the
// handler to persist.
func (vm *ValidationMiddleware) ValidateAction() gin.HandlerFunc {
	return func(c *gin.Context) {
		bodyBytes, err := io.ReadAll(c.Request.Body)
		if err != nil {
			vm.sendValidationError(c, "BODY_READ_ERROR", "Failed to read request body", map[string]interface{}{
				"error": err.Error(),
			})
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

		if len(bodyBytes) == 0 {
			vm.sendValidationError(c, "EMPTY_BODY", "Request body is required", nil)
			return
		}

		var jsonData interface{}
		if err := json.Unmarshal(bodyBytes, &jsonData); err != nil {
			vm.sendValidationError(c, "INVALID_JSON", "Request body must be valid JSON", map[string]interface{}{
				"parseError": err.Error(),
			})
			return
		}

		action, result := vm.actionValidator.ValidateRaw(bodyBytes)
		if !result.Valid {
			apiError := result.ToAPIError()
			if errorObj, ok := apiError["error"].(map[string]interface{}); ok {
				errorObj["timestamp"] = time.Now().UTC().Format(time.RFC3339)
				errorObj["requestId"] = uuid.New().String()
				errorObj["path"] = c.Request.URL.Path
				errorObj["method"] = c.Request.Method
			}
			c.JSON(http.StatusBadRequest, apiError)
			c.Abort()
			return
		}

		c.Set("validatedAction", *action)
		c.Next()
	}
}

// ValidateQueryParams validates the query parameters the recommendations
// endpoint accepts.
func (vm *ValidationMiddleware) ValidateQueryParams() gin.HandlerFunc {
	return func(c *gin.Context) {
		errors := make([]validation.ValidationError, 0)

		if count := c.Query("count"); count != "" {
			if !vm.isValidPositiveInt(count, 1, 100) {
				errors = append(errors, validation.ValidationError{
					Field: "count", Message: "count must be an integer between 1 and 100",
					Code: "INVALID_QUERY_PARAM", Value: count,
				})
			}
		}

		if minScore := c.Query("minScore"); minScore != "" {
			if !vm.isValidFloatInRange(minScore, 0, 1) {
				errors = append(errors, validation.ValidationError{
					Field: "minScore", Message: "minScore must be a number between 0 and 1",
					Code: "INVALID_QUERY_PARAM", Value: minScore,
				})
			}
		}

		if diversity := c.Query("diversityFactor"); diversity != "" {
			if !vm.isValidFloatInRange(diversity, 0, 1) {
				errors = append(errors, validation.ValidationError{
					Field: "diversityFactor", Message: "diversityFactor must be a number between 0 and 1",
					Code: "INVALID_QUERY_PARAM", Value: diversity,
				})
			}
		}

		if len(errors) > 0 {
			vm.sendValidationErrors(c, errors)
			return
		}

		c.Next()
	}
}

// ValidateHeaders validates required headers for write endpoints.
func (vm *ValidationMiddleware) ValidateHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		errors := make([]validation.ValidationError, 0)

		if c.Request.Method == "POST" || c.Request.Method == "PUT" || c.Request.Method == "PATCH" {
			contentType := c.GetHeader("Content-Type")
			if contentType == "" {
				errors = append(errors, validation.ValidationError{
					Field: "Content-Type", Message: "Content-Type header is required", Code: "MISSING_HEADER",
				})
			} else if !strings.Contains(contentType, "application/json") {
				errors = append(errors, validation.ValidationError{
					Field: "Content-Type", Message: "Content-Type must be application/json",
					Code: "INVALID_HEADER", Value: contentType,
				})
			}
		}

		if len(errors) > 0 {
			vm.sendValidationErrors(c, errors)
			return
		}

		c.Next()
	}
}

func (vm *ValidationMiddleware) isValidPositiveInt(value string, min, max int) bool {
	var num int
	if _, err := fmt.Sscanf(value, "%d", &num); err != nil {
		return false
	}
	return num >= min && num <= max
}

func (vm *ValidationMiddleware) isValidFloatInRange(value string, min, max float64) bool {
	var num float64
	if _, err := fmt.Sscanf(value, "%f", &num); err != nil {
		return false
	}
	return num >= min && num <= max
}

func (vm *ValidationMiddleware) sendValidationError(c *gin.Context, code, message string, details map[string]interface{}) {
	c.JSON(http.StatusBadRequest, map[string]interface{}{
		"error": map[string]interface{}{
			"code":      code,
			"message":   message,
			"details":   details,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"requestId": uuid.New().String(),
			"path":      c.Request.URL.Path,
			"method":    c.Request.Method,
		},
	})
	c.Abort()
}

func (vm *ValidationMiddleware) sendValidationErrors(c *gin.Context, errors []validation.ValidationError) {
	fieldErrors := make(map[string][]string)
	for _, err := range errors {
		if err.Field != "" {
			fieldErrors[err.Field] = append(fieldErrors[err.Field], err.Message)
		}
	}

	c.JSON(http.StatusBadRequest, map[string]interface{}{
		"error": map[string]interface{}{
			"code":    "VALIDATION_ERROR",
			"message": "Request validation failed",
			"details": map[string]interface{}{
				"validationErrors": errors,
				"fieldErrors":      fieldErrors,
			},
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"requestId": uuid.New().String(),
			"path":      c.Request.URL.Path,
			"method":    c.Request.Method,
		},
	})
	c.Abort()
}
