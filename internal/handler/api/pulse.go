package api

import (
	"errors"

	models "MarketPulse/internal/domain/models"
	domrepo "MarketPulse/internal/domain/repository"
	"MarketPulse/internal/usecase"
	xhttp "MarketPulse/pkg/http"
	xlogger "MarketPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// PulseHandler exposes the market pulse pipeline over Echo.
type PulseHandler struct {
	logger *xlogger.Logger
	pulse  *usecase.MarketPulse
}

func NewPulseHandler(logger *xlogger.Logger, pulse *usecase.MarketPulse) *PulseHandler {
	return &PulseHandler{logger: logger, pulse: pulse}
}

func (h *PulseHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/v1")
	g.GET("/market-pulse", h.MarketPulse)
}

func (h *PulseHandler) MarketPulse(c echo.Context) error {
	req := &models.PulseRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.pulse.GetMarketPulse(c.Request().Context(), req.Ticker)
	if err != nil {
		switch {
		case errors.Is(err, domrepo.ErrInvalidTicker):
			return xhttp.BadRequestResponse(c, err.Error())
		case errors.Is(err, domrepo.ErrNotFound), errors.Is(err, domrepo.ErrDataInsufficient):
			return xhttp.NotFoundResponse(c, err.Error())
		case errors.Is(err, domrepo.ErrUpstreamTimeout):
			return xhttp.GatewayTimeoutResponse(c, err.Error())
		default:
			h.logger.Error("market pulse usecase error",
				xlogger.String("ticker", req.Ticker), xlogger.Error(err))
			return xhttp.AppErrorResponse(c, err)
		}
	}
	return xhttp.SuccessResponse(c, res)
}
