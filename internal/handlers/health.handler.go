package handlers

import (
	"context"

	"github.com/fasthttp/router"
	xhttp "github.com/nimasrn/school-finance/pkg/http"
	"github.com/nimasrn/school-finance/pkg/logger"
)

type HealthChecker interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db HealthChecker
}

func RegisterHealthRoutes(e *router.Group, h *HealthHandler) {
	e.GET("/health", h.GetHealth)
}

func NewHealthHandler(db HealthChecker) *HealthHandler {
	return &HealthHandler{
		db: db,
	}
}

func (h *HealthHandler) GetHealth(ctx *xhttp.RequestCtx) {
	if h.db != nil {
		if err := h.db.Ping(ctx); err != nil {
			logger.Error("health check failed", "error", err)
			ctx.Error(xhttp.StatusText(xhttp.StatusServiceUnavailable), xhttp.StatusServiceUnavailable)
			return
		}
	}
	ctx.Response.SetBodyString("success")
}
