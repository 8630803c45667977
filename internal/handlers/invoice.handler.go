package handlers

import (
	"context"
	"net/url"

	"github.com/fasthttp/router"
	"github.com/nimasrn/school-finance/internal/model"
	"github.com/nimasrn/school-finance/internal/services"
	"github.com/nimasrn/school-finance/internal/view"
	xhttp "github.com/nimasrn/school-finance/pkg/http"
	"github.com/pkg/errors"
)

type InvoiceService interface {
	CreateForm(ctx context.Context) (*services.InvoiceFormContext, error)
	Create(ctx context.Context, values url.Values) (*model.Invoice, *services.InvoiceFormContext, error)
	EditForm(ctx context.Context, id int64) (*services.InvoiceFormContext, error)
	Update(ctx context.Context, id int64, values url.Values) (*model.Invoice, *services.InvoiceFormContext, error)
	Detail(ctx context.Context, id int64) (*model.InvoiceDetail, error)
	List(ctx context.Context) ([]*model.InvoiceSummary, error)
	DeleteForm(ctx context.Context, id int64) (*model.InvoiceDetail, error)
	Delete(ctx context.Context, id int64) error
}

type InvoiceHandler struct {
	pages
	svc InvoiceService
}

// RegisterInvoiceRoutes mounts the invoice pages on the /finance group.
func RegisterInvoiceRoutes(e *router.Group, h *InvoiceHandler) {
	e.GET("/list", h.ListInvoices)
	e.GET("/create/", h.CreateInvoice)
	e.POST("/create/", h.CreateInvoice)
	e.GET("/{pk:[0-9]+}/", h.InvoiceDetail)
	e.GET("/{pk:[0-9]+}/update/", h.UpdateInvoice)
	e.POST("/{pk:[0-9]+}/update/", h.UpdateInvoice)
	e.GET("/{pk:[0-9]+}/delete/", h.DeleteInvoice)
	e.POST("/{pk:[0-9]+}/delete/", h.DeleteInvoice)
}

func NewInvoiceHandler(invoiceService InvoiceService, renderer view.Renderer) *InvoiceHandler {
	return &InvoiceHandler{
		pages: pages{renderer: renderer},
		svc:   invoiceService,
	}
}

func (h *InvoiceHandler) ListInvoices(ctx *xhttp.RequestCtx) {
	invoices, err := h.svc.List(ctx)
	if err != nil {
		h.fail(ctx, err, listLocation)
		return
	}
	h.render(ctx, xhttp.StatusOK, view.PageInvoiceList, invoices)
}

func (h *InvoiceHandler) CreateInvoice(ctx *xhttp.RequestCtx) {
	if !xhttp.IsPost(ctx) {
		fc, err := h.svc.CreateForm(ctx)
		if err != nil {
			h.fail(ctx, err, listLocation)
			return
		}
		h.render(ctx, xhttp.StatusOK, view.PageInvoiceForm, fc)
		return
	}

	_, fc, err := h.svc.Create(ctx, xhttp.FormValues(ctx))
	switch {
	case errors.Is(err, services.ErrInvalidForm):
		h.render(ctx, xhttp.StatusUnprocessableEntity, view.PageInvoiceForm, fc)
	case err != nil:
		h.fail(ctx, err, listLocation)
	default:
		xhttp.Redirect(ctx, listLocation)
	}
}

func (h *InvoiceHandler) InvoiceDetail(ctx *xhttp.RequestCtx) {
	id, ok := xhttp.PathInt64(ctx, "pk")
	if !ok {
		h.notFound(ctx)
		return
	}
	detail, err := h.svc.Detail(ctx, id)
	if err != nil {
		h.fail(ctx, err, listLocation)
		return
	}
	h.render(ctx, xhttp.StatusOK, view.PageInvoiceDetail, detail)
}

func (h *InvoiceHandler) UpdateInvoice(ctx *xhttp.RequestCtx) {
	id, ok := xhttp.PathInt64(ctx, "pk")
	if !ok {
		h.notFound(ctx)
		return
	}

	if !xhttp.IsPost(ctx) {
		fc, err := h.svc.EditForm(ctx, id)
		if err != nil {
			h.fail(ctx, err, listLocation)
			return
		}
		h.render(ctx, xhttp.StatusOK, view.PageInvoiceForm, fc)
		return
	}

	_, fc, err := h.svc.Update(ctx, id, xhttp.FormValues(ctx))
	switch {
	case errors.Is(err, services.ErrInvalidForm):
		h.render(ctx, xhttp.StatusUnprocessableEntity, view.PageInvoiceForm, fc)
	case err != nil:
		h.fail(ctx, err, invoiceLocation(id))
	default:
		xhttp.Redirect(ctx, invoiceLocation(id))
	}
}

func (h *InvoiceHandler) DeleteInvoice(ctx *xhttp.RequestCtx) {
	id, ok := xhttp.PathInt64(ctx, "pk")
	if !ok {
		h.notFound(ctx)
		return
	}

	if !xhttp.IsPost(ctx) {
		detail, err := h.svc.DeleteForm(ctx, id)
		if err != nil {
			h.fail(ctx, err, listLocation)
			return
		}
		h.render(ctx, xhttp.StatusOK, view.PageInvoiceConfirmDelete, detail)
		return
	}

	if err := h.svc.Delete(ctx, id); err != nil {
		h.fail(ctx, err, listLocation)
		return
	}
	xhttp.Redirect(ctx, listLocation)
}
