package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalJSON_PlainErrorsWithoutCauseOrDetails(t *testing.T) {
	// Constructors that attach neither a cause nor details must still
	// serialize cleanly.
	appErrs := []*AppError{
		NewValidationError("Email already registered"),
		NewAuthError("invalid or expired token"),
		NewNotFoundError("session"),
	}

	for _, appErr := range appErrs {
		data, err := json.Marshal(appErr)
		require.NoError(t, err)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(data, &body))
		assert.NotEmpty(t, body["category"])
		assert.NotEmpty(t, body["code"])
		assert.NotEmpty(t, body["message"])
		assert.EqualValues(t, appErr.HTTPStatus, body["http_status"])
	}
}

func TestMarshalJSON_FieldContents(t *testing.T) {
	appErr := NewNotFoundError("job role")

	data, err := json.Marshal(appErr)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, "not_found", body["category"])
	assert.Equal(t, "NOT_FOUND", body["code"])
	assert.Equal(t, "job role not found", body["message"])
	assert.EqualValues(t, http.StatusNotFound, body["http_status"])
}

func TestErrorHandler_RendersErrorResponse(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/auth", func(c *gin.Context) {
		c.Error(NewAuthError("missing authorization header"))
	})
	r.GET("/validation", func(c *gin.Context) {
		c.Error(NewValidationError("Invalid payload", "field candidate_name is required"))
	})
	r.GET("/wrapped", func(c *gin.Context) {
		c.Error(NewStorageError("Failed to load session", errors.New("database is locked")))
	})

	tests := []struct {
		path     string
		status   int
		code     string
		category string
	}{
		{"/auth", http.StatusUnauthorized, "AUTH_ERROR", "auth"},
		{"/validation", http.StatusBadRequest, "VALIDATION_ERROR", "validation"},
		{"/wrapped", http.StatusInternalServerError, "STORAGE_ERROR", "storage"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, tt.path, nil)
			r.ServeHTTP(w, req)

			require.Equal(t, tt.status, w.Code)

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body["code"])
			assert.Equal(t, tt.category, body["category"])
			assert.NotEmpty(t, body["message"])
		})
	}
}

func TestToAppError_Mapping(t *testing.T) {
	appErr := ToAppError(errors.New("database is locked"))
	assert.Equal(t, CategoryStorage, appErr.Category)

	appErr = ToAppError(errors.New("context deadline exceeded while dialing"))
	assert.Equal(t, CategoryTimeout, appErr.Category)

	original := NewRateLimitError("1s")
	assert.Same(t, original, ToAppError(original))
}
