package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	applogger "SteelDash/pkg/logger"
)

func newEcho(l *applogger.Logger) *echo.Echo {
	e := echo.New()
	e.Use(Recover(l), RequestID(), RequestLogging(l, time.Hour))
	e.Use(CORS(CORSConfig{AllowOrigins: []string{"*"}, AllowMethods: []string{http.MethodGet}}))
	e.GET("/ok", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/panic", func(echo.Context) error { panic("boom") })
	return e
}

func TestRequestIDGeneratedAndPropagated(t *testing.T) {
	e := newEcho(applogger.Nop())

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Len(t, rec.Header().Get(echo.HeaderXRequestID), 36)

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(echo.HeaderXRequestID, "abc")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, "abc", rec.Header().Get(echo.HeaderXRequestID))
}

func TestRecoverLogsAndReturns500(t *testing.T) {
	var buf bytes.Buffer
	e := newEcho(applogger.NewWithWriter(&buf, zerolog.DebugLevel))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, buf.String(), "http handler panic")
}

func TestCORSPreflight(t *testing.T) {
	e := newEcho(applogger.Nop())

	req := httptest.NewRequest(http.MethodOptions, "/ok", nil)
	req.Header.Set(echo.HeaderOrigin, "http://dash.local")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://dash.local", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	assert.Equal(t, http.MethodGet, rec.Header().Get(echo.HeaderAccessControlAllowMethods))
}

func TestStatusClass(t *testing.T) {
	assert.Equal(t, "2xx", statusClass(204))
	assert.Equal(t, "4xx", statusClass(404))
	assert.Equal(t, "5xx", statusClass(503))
}
