package handler_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/settings-service/internal/handler"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrailingSlash_RoutesLikeCanonicalPath(t *testing.T) {
	s := newTestServer(t)
	created := s.create(t, `{"a":1}`)
	id := created["id"].(string)

	w := s.do(t, http.MethodPost, "/settings/", `{"b":2}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = s.do(t, http.MethodGet, "/settings/", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2", w.Header().Get(handler.HeaderTotalCount))

	w = s.do(t, http.MethodGet, "/settings/"+id+"/", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id, decodeObject(t, w.Body.Bytes())["id"])
}

func TestCORS_Preflight(t *testing.T) {
	s := newTestServer(t)
	r := httptest.NewRequest(http.MethodOptions, "/settings", nil)
	r.Header.Set("Origin", "https://ui.example.org")
	r.Header.Set("Access-Control-Request-Method", http.MethodPut)
	r.Header.Set("Access-Control-Request-Headers", "Content-Type")
	w := httptest.NewRecorder()
	s.h.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://ui.example.org", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodPut)
	assert.Equal(t, "Content-Type", w.Header().Get("Access-Control-Allow-Headers"))
}

func TestCORS_ExposesPaginationHeaders(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/settings", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	exposed := w.Header().Get("Access-Control-Expose-Headers")
	for _, h := range []string{handler.HeaderTotalCount, handler.HeaderLimit, handler.HeaderOffset} {
		assert.Contains(t, exposed, h)
	}
}

func TestRequestLogger_LogsStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var logs bytes.Buffer
	r := gin.New()
	r.Use(handler.RequestLogger(zerolog.New(&logs)))
	r.GET("/teapot", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/teapot?x=1", nil))
	require.Equal(t, http.StatusTeapot, w.Code)
	assert.Contains(t, logs.String(), `"status":418`)
	assert.Contains(t, logs.String(), `"level":"warn"`)
	assert.Contains(t, logs.String(), `"query":"x=1"`)
}
