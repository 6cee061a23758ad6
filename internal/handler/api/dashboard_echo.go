package api

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"SteelDash/internal/domain/models"
	artmetrics "SteelDash/internal/service/metrics"
	"SteelDash/internal/service/ratelimit"
	"SteelDash/internal/usecase"
	"SteelDash/internal/usecase/pages"
	xhttp "SteelDash/pkg/http"
	xlogger "SteelDash/pkg/logger"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// PageRequest binds the page selector and every page input. Zero business
// values fall back to the calculator defaults before the bounds are checked.
type PageRequest struct {
	Page          string   `param:"page" validate:"required"`
	Symbols       []string `query:"symbols" validate:"omitempty,dive,max=64"`
	MonthlyVolume float64  `query:"monthly_volume" default:"1000" validate:"gte=100,lte=100000"`
	CurrentPrice  float64  `query:"current_price" default:"607.5" validate:"gte=400,lte=1000"`
	BaselineMAE   float64  `query:"baseline_mae" default:"5" validate:"gte=0.5,lte=50"`
	ModelMAE      float64  `query:"model_mae" default:"0.78" validate:"gte=0.1,lte=10"`
}

func (r *PageRequest) input(c echo.Context) pages.Input {
	in := pages.Input{
		Business: pages.BusinessInputs{
			MonthlyVolume: r.MonthlyVolume,
			CurrentPrice:  r.CurrentPrice,
			BaselineMAE:   r.BaselineMAE,
			ModelMAE:      r.ModelMAE,
		},
	}
	// An explicit empty ?symbols= clears the selection; absence keeps the defaults.
	if _, ok := c.QueryParams()["symbols"]; ok {
		in.Symbols = make([]string, 0, len(r.Symbols))
		for _, s := range r.Symbols {
			if s != "" {
				in.Symbols = append(in.Symbols, s)
			}
		}
	}
	return in
}

type ChartRequest struct {
	PageRequest
	Chart  string `param:"chart" validate:"required"`
	Width  int    `query:"width" validate:"omitempty,gte=200,lte=2400"`
	Height int    `query:"height" validate:"omitempty,gte=200,lte=2400"`
}

// DashboardEchoHandler serves the dashboard JSON API and its artifacts.
type DashboardEchoHandler struct {
	logger  *xlogger.Logger
	dash    *usecase.Dashboard
	limiter *ratelimit.Limiter
}

func NewDashboardEchoHandler(logger *xlogger.Logger, dash *usecase.Dashboard, limiter *ratelimit.Limiter) *DashboardEchoHandler {
	return &DashboardEchoHandler{logger: logger, dash: dash, limiter: limiter}
}

func (h *DashboardEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)

	g := e.Group("/api")
	g.GET("/pages", h.Navigation)
	g.GET("/pages/:page", h.Page)
	g.GET("/pages/:page/charts/:chart", h.ChartPNG)
	g.GET("/pages/:page/export", h.Export)
	g.GET("/datasets", h.Datasets)
}

func (h *DashboardEchoHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}

func (h *DashboardEchoHandler) Navigation(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.dash.Navigation())
}

func (h *DashboardEchoHandler) Page(c echo.Context) error {
	req := &PageRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	page, err := h.dash.Page(c.Request().Context(), models.PageID(req.Page), req.input(c))
	if err != nil {
		return h.fail(c, "page", err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=60")
	return xhttp.SuccessResponse(c, page)
}

func (h *DashboardEchoHandler) ChartPNG(c echo.Context) error {
	if h.limiter != nil && !h.limiter.Allow(c.RealIP()) {
		artmetrics.ArtifactThrottled.Inc()
		return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("chart rendering rate exceeded"))
	}
	req := &ChartRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	var buf bytes.Buffer
	err := h.dash.ChartPNG(c.Request().Context(), &buf, models.PageID(req.Page), req.Chart, req.input(c), req.Width, req.Height)
	if err != nil {
		return h.fail(c, "chart", err)
	}
	return c.Blob(http.StatusOK, "image/png", buf.Bytes())
}

func (h *DashboardEchoHandler) Export(c echo.Context) error {
	req := &PageRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	var buf bytes.Buffer
	if err := h.dash.Export(c.Request().Context(), &buf, models.PageID(req.Page), req.input(c)); err != nil {
		return h.fail(c, "export", err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s.xlsx"`, req.Page))
	return c.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *DashboardEchoHandler) Datasets(c echo.Context) error {
	report, err := h.dash.DatasetStatus(c.Request().Context())
	if err != nil {
		return h.fail(c, "datasets", err)
	}
	return xhttp.SuccessResponse(c, report)
}

// fail maps domain sentinels onto HTTP errors.
func (h *DashboardEchoHandler) fail(c echo.Context, op string, err error) error {
	var appErr *xhttp.AppError
	switch {
	case errors.Is(err, models.ErrUnknownPage):
		appErr = xhttp.NotFoundErrorf("page %q not found", c.Param("page")).WithParam("page", c.Param("page"))
	case errors.Is(err, models.ErrUnknownChart):
		appErr = xhttp.NotFoundErrorf("chart %q not found", c.Param("chart")).WithParam("chart", c.Param("chart"))
	case errors.Is(err, models.ErrUnderflow), errors.Is(err, models.ErrMissingData):
		appErr = xhttp.UnprocessableError("not enough data to produce this artifact")
	default:
		h.logger.Error(op+" usecase error", xlogger.String("page", c.Param("page")), xlogger.Error(err))
		appErr = xhttp.InternalError("internal error")
	}
	return xhttp.AppErrorResponse(c, appErr.WithError(err))
}
