package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCtx() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set("request_id", "rid-1")
	return c, w
}

func TestSuccessWritesEnvelope(t *testing.T) {
	c, w := newCtx()
	Success(c, http.StatusCreated, gin.H{"id": "x"}, "created", gin.H{"page": 1})

	require.Equal(t, http.StatusCreated, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "created", body["message"])
	assert.Equal(t, "rid-1", body["request_id"])
	assert.Equal(t, "x", body["data"].(map[string]any)["id"])
	assert.NotContains(t, body, "error")
}

func TestAbortStopsChain(t *testing.T) {
	c, w := newCtx()
	Abort(c, http.StatusForbidden, "account blocked", nil)

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusForbidden, w.Code)
	var body APIResponse[any]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "account blocked", body.Message)
}
