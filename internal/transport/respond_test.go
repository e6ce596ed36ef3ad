package transport

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	t.Run("WithPayload", func(t *testing.T) {
		rec := httptest.NewRecorder()
		WriteJSON(rec, 201, map[string]string{"message": "created"})

		assert.Equal(t, 201, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"message":"created"}`, rec.Body.String())
	})

	t.Run("NilPayloadEmptyBody", func(t *testing.T) {
		rec := httptest.NewRecorder()
		WriteJSON(rec, 204, nil)

		assert.Equal(t, 204, rec.Code)
		assert.Empty(t, rec.Body.String())
	})
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, 404, "Order not found")

	assert.Equal(t, 404, rec.Code)
	assert.JSONEq(t, `{"error":"Order not found"}`, rec.Body.String())
}

func TestDecodeJSON(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"Rice","price":120}`))

		var body struct {
			Name  string  `json:"name"`
			Price float64 `json:"price"`
		}
		require.NoError(t, DecodeJSON(req, &body))
		assert.Equal(t, "Rice", body.Name)
		assert.Equal(t, 120.0, body.Price)
	})

	t.Run("MalformedBody", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":`))

		var body struct{}
		assert.Error(t, DecodeJSON(req, &body))
	})
}
