package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	tests := []struct {
		name           string
		status         int
		value          interface{}
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "encodable value keeps its status",
			status:         http.StatusCreated,
			value:          map[string]string{"code": "OK"},
			expectedStatus: http.StatusCreated,
			expectedCode:   "OK",
		},
		{
			name:           "timestamp past year 9999",
			status:         http.StatusOK,
			value:          struct{ At time.Time }{At: time.Date(10000, 1, 1, 0, 0, 0, 0, time.UTC)},
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   "INTERNAL_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeJSON(rec, tt.status, tt.value)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.expectedCode, body.Code)
		})
	}
}
