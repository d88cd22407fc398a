package webhook

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linebridge/internal/constants"
	"linebridge/internal/logger"
)

func setupWebhookRouter(t *testing.T, appender Appender) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	svc := NewService(appender, testSecret, logger.NopLogger())
	NewHandler(svc, logger.NopLogger()).RegisterRoutes(router)
	return router
}

func TestHandler_HandleWebhook_OK(t *testing.T) {
	appender := &fakeAppender{}
	router := setupWebhookRouter(t, appender)

	body, sig := signedBody(`{
		"events": [
			{"type": "message", "timestamp": 1717243200000, "source": {"type": "user", "userId": "U1"}, "message": {"id": "msg-1", "type": "text", "text": "hi"}}
		]
	}`)

	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(body))
	req.Header.Set(constants.SignatureHeader, sig)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, float64(1), resp["received"])
	assert.Equal(t, float64(1), resp["stored"])
	assert.Len(t, appender.records, 1)
}

func TestHandler_HandleWebhook_BadSignature(t *testing.T) {
	appender := &fakeAppender{}
	router := setupWebhookRouter(t, appender)

	body := []byte(`{"events": []}`)

	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(body))
	req.Header.Set(constants.SignatureHeader, "bogus")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusForbidden, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "SIGNATURE_INVALID", resp["error_code"])
	assert.Empty(t, appender.records)
}

func TestHandler_HandleWebhook_MissingSignature(t *testing.T) {
	router := setupWebhookRouter(t, &fakeAppender{})

	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader([]byte(`{"events": []}`)))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestHandler_HandleWebhook_MalformedBody(t *testing.T) {
	router := setupWebhookRouter(t, &fakeAppender{})

	body, sig := signedBody(`not json at all`)

	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(body))
	req.Header.Set(constants.SignatureHeader, sig)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "MALFORMED_EVENT", resp["error_code"])
}
