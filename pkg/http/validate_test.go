package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Page   string   `param:"page" validate:"required"`
	Volume float64  `query:"monthly_volume" default:"1000" validate:"gte=100,lte=100000"`
	Tags   []string `query:"tags"`
}

func newContext(target string, page string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetParamNames("page")
	c.SetParamValues(page)
	return c
}

func TestReadAndValidateRequest_Defaults(t *testing.T) {
	var req sampleRequest
	errs := ReadAndValidateRequest(newContext("/x?tags=a&tags=b", "overview"), &req)
	require.Nil(t, errs)
	assert.Equal(t, "overview", req.Page)
	assert.Equal(t, 1000.0, req.Volume)
	assert.Equal(t, []string{"a", "b"}, req.Tags)
}

func TestReadAndValidateRequest_OutOfRange(t *testing.T) {
	var req sampleRequest
	errs := ReadAndValidateRequest(newContext("/x?monthly_volume=50", "overview"), &req)
	require.Len(t, errs, 1)
	assert.Equal(t, "ERR_GTE", errs[0].Code)
	assert.Equal(t, "monthly_volume", errs[0].Field)
	assert.Equal(t, "100", errs[0].Params["min"])
}

func TestReadAndValidateRequest_BindFailure(t *testing.T) {
	var req sampleRequest
	errs := ReadAndValidateRequest(newContext("/x?monthly_volume=lots", "overview"), &req)
	require.Len(t, errs, 1)
	assert.Equal(t, "ERR_BIND", errs[0].Code)
}

func TestAppErrorResponse(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	require.NoError(t, AppErrorResponse(c, NotFoundErrorf("page %q", "nope")))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "ERR_NOT_FOUND")

	rec = httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	require.NoError(t, AppErrorResponse(c, assert.AnError))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
