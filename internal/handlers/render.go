package handlers

import (
	"bytes"
	"fmt"

	"github.com/nimasrn/school-finance/internal/services"
	"github.com/nimasrn/school-finance/internal/view"
	xhttp "github.com/nimasrn/school-finance/pkg/http"
	"github.com/nimasrn/school-finance/pkg/logger"
	"github.com/pkg/errors"
)

const listLocation = "/finance/list"

func invoiceLocation(id int64) string {
	return fmt.Sprintf("/finance/%d/", id)
}

// pages writes rendered pages and maps service errors to responses.
type pages struct {
	renderer view.Renderer
}

func (p pages) render(ctx *xhttp.RequestCtx, status int, page string, data any) {
	var buf bytes.Buffer
	if err := p.renderer.Render(&buf, page, data); err != nil {
		logger.Error("failed to render page", "page", page, "error", err)
		ctx.Error(xhttp.StatusText(xhttp.StatusInternalServerError), xhttp.StatusInternalServerError)
		return
	}
	ctx.SetContentType("text/html; charset=utf-8")
	ctx.SetStatusCode(status)
	ctx.SetBody(buf.Bytes())
}

func (p pages) notFound(ctx *xhttp.RequestCtx) {
	p.render(ctx, xhttp.StatusNotFound, view.PageNotFound, nil)
}

// fail answers err. A form posted twice is sent where the first post went.
func (p pages) fail(ctx *xhttp.RequestCtx, err error, successLocation string) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		p.notFound(ctx)
	case errors.Is(err, services.ErrAlreadySubmitted):
		xhttp.Redirect(ctx, successLocation)
	case errors.Is(err, services.ErrSubmissionInFlight):
		ctx.Error(xhttp.StatusText(xhttp.StatusConflict), xhttp.StatusConflict)
	default:
		logger.Error("request failed", "method", string(ctx.Method()), "path", string(ctx.Path()), "error", err)
		ctx.Error(xhttp.StatusText(xhttp.StatusInternalServerError), xhttp.StatusInternalServerError)
	}
}
