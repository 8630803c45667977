package handlers

import (
	"context"
	"net/url"
	"strconv"

	"github.com/fasthttp/router"
	"github.com/nimasrn/school-finance/internal/model"
	"github.com/nimasrn/school-finance/internal/services"
	"github.com/nimasrn/school-finance/internal/view"
	xhttp "github.com/nimasrn/school-finance/pkg/http"
	"github.com/pkg/errors"
)

type ReceiptService interface {
	CreateForm(ctx context.Context, invoiceID int64) (*services.ReceiptFormContext, error)
	Create(ctx context.Context, invoiceID int64, values url.Values) (*model.Receipt, *services.ReceiptFormContext, error)
	EditForm(ctx context.Context, id int64) (*services.ReceiptFormContext, error)
	Update(ctx context.Context, id int64, values url.Values) (*model.Receipt, *services.ReceiptFormContext, error)
	DeleteForm(ctx context.Context, id int64) (*services.ReceiptFormContext, error)
	Delete(ctx context.Context, id int64) error
}

type ReceiptHandler struct {
	pages
	svc ReceiptService
}

// RegisterReceiptRoutes mounts the receipt pages on the /finance group.
func RegisterReceiptRoutes(e *router.Group, h *ReceiptHandler) {
	e.GET("/receipt/create/", h.CreateReceipt)
	e.POST("/receipt/create/", h.CreateReceipt)
	e.GET("/receipt/{pk:[0-9]+}/update/", h.UpdateReceipt)
	e.POST("/receipt/{pk:[0-9]+}/update/", h.UpdateReceipt)
	e.GET("/receipt/{pk:[0-9]+}/delete/", h.DeleteReceipt)
	e.POST("/receipt/{pk:[0-9]+}/delete/", h.DeleteReceipt)
}

func NewReceiptHandler(receiptService ReceiptService, renderer view.Renderer) *ReceiptHandler {
	return &ReceiptHandler{
		pages: pages{renderer: renderer},
		svc:   receiptService,
	}
}

// CreateReceipt adds a receipt to the invoice named by ?invoice=.
func (h *ReceiptHandler) CreateReceipt(ctx *xhttp.RequestCtx) {
	invoiceID, err := strconv.ParseInt(xhttp.Query(ctx, "invoice"), 10, 64)
	if err != nil || invoiceID <= 0 {
		h.notFound(ctx)
		return
	}

	if !xhttp.IsPost(ctx) {
		fc, err := h.svc.CreateForm(ctx, invoiceID)
		if err != nil {
			h.fail(ctx, err, listLocation)
			return
		}
		h.render(ctx, xhttp.StatusOK, view.PageReceiptForm, fc)
		return
	}

	_, fc, err := h.svc.Create(ctx, invoiceID, xhttp.FormValues(ctx))
	switch {
	case errors.Is(err, services.ErrInvalidForm):
		h.render(ctx, xhttp.StatusUnprocessableEntity, view.PageReceiptForm, fc)
	case err != nil:
		h.fail(ctx, err, listLocation)
	default:
		xhttp.Redirect(ctx, listLocation)
	}
}

func (h *ReceiptHandler) UpdateReceipt(ctx *xhttp.RequestCtx) {
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
		h.render(ctx, xhttp.StatusOK, view.PageReceiptForm, fc)
		return
	}

	_, fc, err := h.svc.Update(ctx, id, xhttp.FormValues(ctx))
	switch {
	case errors.Is(err, services.ErrInvalidForm):
		h.render(ctx, xhttp.StatusUnprocessableEntity, view.PageReceiptForm, fc)
	case err != nil:
		h.fail(ctx, err, listLocation)
	default:
		xhttp.Redirect(ctx, listLocation)
	}
}

func (h *ReceiptHandler) DeleteReceipt(ctx *xhttp.RequestCtx) {
	id, ok := xhttp.PathInt64(ctx, "pk")
	if !ok {
		h.notFound(ctx)
		return
	}

	if !xhttp.IsPost(ctx) {
		fc, err := h.svc.DeleteForm(ctx, id)
		if err != nil {
			h.fail(ctx, err, listLocation)
			return
		}
		h.render(ctx, xhttp.StatusOK, view.PageReceiptConfirmDelete, fc)
		return
	}

	if err := h.svc.Delete(ctx, id); err != nil {
		h.fail(ctx, err, listLocation)
		return
	}
	xhttp.Redirect(ctx, listLocation)
}
