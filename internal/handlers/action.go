package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/temcen/pirex/internal/tracking"
	"github.com/temcen/pirex/pkg/models"
)

// ActionHandler persists validated user actions. The heavy lifting of
// shape validation for the single-action endpoint happens in
// middleware.ValidationMiddleware.ValidateAction, which stores the promoted
// models.Action under "validatedAction" before this handler ever runs. The
// batch endpoint bypasses that middleware (a malformed item must not fail
// the whole batch) and validates each item itself.
type ActionHandler struct {
	store     *tracking.PostgresTrackingService
	validator *validator.Validate
	logger    *logrus.Logger
}

func NewActionHandler(store *tracking.PostgresTrackingService, logger *logrus.Logger) *ActionHandler {
	return &ActionHandler{store: store, validator: validator.New(), logger: logger}
}

// Create handles POST /api/v1/actions.
func (h *ActionHandler) Create(c *gin.Context) {
	raw, ok := c.Get("validatedAction")
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "MISSING_VALIDATED_ACTION",
				"message": "Action validation middleware did not run",
			},
		})
		return
	}

	action := raw.(models.Action)
	if err := h.store.Insert(c.Request.Context(), action); err != nil {
		h.logger.WithError(err).WithField("user_id", action.UserID).Error("failed to persist action")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "ACTION_PERSIST_FAILED",
				"message": "Failed to persist action",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, action)
}

// CreateBatch handles POST /api/v1/actions/batch. Each action is validated
// independently by its struct validate tags, the recognized-actionType set
// and the [0,10] range for rate values, not by the JSON schema the
// single-action endpoint uses (an item without a value is taken as 0);
// malformed entries are reported in the response rather than failing the
// whole batch.
func (h *ActionHandler) CreateBatch(c *gin.Context) {
	var batch models.ActionBatchRequest
	if err := c.ShouldBindJSON(&batch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "INVALID_REQUEST_BODY",
				"message": "Invalid request body format",
			},
		})
		return
	}

	if err := h.validator.Struct(&batch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "INVALID_REQUEST_BODY",
				"message": err.Error(),
			},
		})
		return
	}

	response := models.ActionBatchResponse{}

	for _, item := range batch.Actions {
		if err := h.validator.Struct(&item); err != nil {
			response.Rejected++
			response.Errors = append(response.Errors, "invalid fields for user "+item.UserID)
			continue
		}

		action := models.Action{
			UserID:     item.UserID,
			ItemID:     item.ItemID,
			ActionType: models.ActionType(item.ActionType),
			Value:      item.Value,
			Timestamp:  time.Now().UTC(),
			Metadata:   item.Metadata,
		}

		if !models.ValidActionTypes[action.ActionType] {
			response.Rejected++
			response.Errors = append(response.Errors, "invalid actionType for user "+item.UserID)
			continue
		}

		if action.ActionType == models.ActionRate && (action.Value < 0 || action.Value > 10) {
			response.Rejected++
			response.Errors = append(response.Errors, "rate value must be between 0 and 10 for user "+item.UserID)
			continue
		}

		if err := h.store.Insert(c.Request.Context(), action); err != nil {
			h.logger.WithError(err).WithField("user_id", item.UserID).Warn("failed to persist batched action")
			response.Rejected++
			response.Errors = append(response.Errors, "persist failed for user "+item.UserID)
			continue
		}

		response.Accepted++
	}

	c.JSON(http.StatusOK, response)
}
