package logging

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRequestIDAndAccessLog(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	log := New(&buf, "json", "debug")

	r := gin.New()
	r.Use(RequestID(), AccessLog(log))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, RequestIDFromContext(c)) })

	t.Run("generated", func(t *testing.T) {
		buf.Reset()
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

		rid := rec.Header().Get(RequestIDHeader)
		assert.NotEmpty(t, rid)
		assert.Equal(t, rid, rec.Body.String())
		assert.Contains(t, buf.String(), `"rid":"`+rid+`"`)
		assert.Contains(t, buf.String(), `"status":200`)
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
	})
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", parseLevel("debug").String())
	assert.Equal(t, "WARN", parseLevel("Warning").String())
	assert.Equal(t, "INFO", parseLevel("").String())
}
