package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temcen/pirex/internal/tracking"
	"github.com/temcen/pirex/pkg/models"
)

func TestActionHandler_Create_MissingValidatedAction(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockDB.Close()

	h := NewActionHandler(tracking.NewPostgresTrackingService(mockDB, nil), logger)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/actions", nil)

	h.Create(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestActionHandler_Create_PersistsValidatedAction(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockDB.Close()

	mockDB.ExpectExec("INSERT INTO actions").WillReturnResult(pgxmock.NewResult("INSERT", 1))

	h := NewActionHandler(tracking.NewPostgresTrackingService(mockDB, nil), logger)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/actions", nil)
	c.Set("validatedAction", models.Action{
		UserID:     "user-1",
		ItemID:     42,
		ActionType: models.ActionRate,
		Value:      8,
		Timestamp:  time.Now(),
	})

	h.Create(c)

	require.Equal(t, http.StatusCreated, w.Code)
	require.NoError(t, mockDB.ExpectationsWereMet())
}
