package handlers

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/nimasrn/school-finance/internal/model"
	"github.com/nimasrn/school-finance/internal/services"
	xhttp "github.com/nimasrn/school-finance/pkg/http"
	"github.com/stretchr/testify/mock"
	"github.com/valyala/fasthttp"
)

type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) CreateForm(ctx context.Context) (*services.InvoiceFormContext, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.InvoiceFormContext), args.Error(1)
}

func (m *MockInvoiceService) Create(ctx context.Context, values url.Values) (*model.Invoice, *services.InvoiceFormContext, error) {
	args := m.Called(ctx, values)
	inv, _ := args.Get(0).(*model.Invoice)
	fc, _ := args.Get(1).(*services.InvoiceFormContext)
	return inv, fc, args.Error(2)
}

func (m *MockInvoiceService) EditForm(ctx context.Context, id int64) (*services.InvoiceFormContext, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.InvoiceFormContext), args.Error(1)
}

func (m *MockInvoiceService) Update(ctx context.Context, id int64, values url.Values) (*model.Invoice, *services.InvoiceFormContext, error) {
	args := m.Called(ctx, id, values)
	inv, _ := args.Get(0).(*model.Invoice)
	fc, _ := args.Get(1).(*services.InvoiceFormContext)
	return inv, fc, args.Error(2)
}

func (m *MockInvoiceService) Detail(ctx context.Context, id int64) (*model.InvoiceDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.InvoiceDetail), args.Error(1)
}

func (m *MockInvoiceService) List(ctx context.Context) ([]*model.InvoiceSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.InvoiceSummary), args.Error(1)
}

func (m *MockInvoiceService) DeleteForm(ctx context.Context, id int64) (*model.InvoiceDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.InvoiceDetail), args.Error(1)
}

func (m *MockInvoiceService) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type MockReceiptService struct {
	mock.Mock
}

func (m *MockReceiptService) CreateForm(ctx context.Context, invoiceID int64) (*services.ReceiptFormContext, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.ReceiptFormContext), args.Error(1)
}

func (m *MockReceiptService) Create(ctx context.Context, invoiceID int64, values url.Values) (*model.Receipt, *services.ReceiptFormContext, error) {
	args := m.Called(ctx, invoiceID, values)
	r, _ := args.Get(0).(*model.Receipt)
	fc, _ := args.Get(1).(*services.ReceiptFormContext)
	return r, fc, args.Error(2)
}

func (m *MockReceiptService) EditForm(ctx context.Context, id int64) (*services.ReceiptFormContext, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.ReceiptFormContext), args.Error(1)
}

func (m *MockReceiptService) Update(ctx context.Context, id int64, values url.Values) (*model.Receipt, *services.ReceiptFormContext, error) {
	args := m.Called(ctx, id, values)
	r, _ := args.Get(0).(*model.Receipt)
	fc, _ := args.Get(1).(*services.ReceiptFormContext)
	return r, fc, args.Error(2)
}

func (m *MockReceiptService) DeleteForm(ctx context.Context, id int64) (*services.ReceiptFormContext, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.ReceiptFormContext), args.Error(1)
}

func (m *MockReceiptService) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

// stubRenderer writes the page name so tests can tell which page was chosen.
type stubRenderer struct {
	page string
	data any
	err  error
}

func (r *stubRenderer) Render(w io.Writer, page string, data any) error {
	if r.err != nil {
		return r.err
	}
	r.page = page
	r.data = data
	_, err := fmt.Fprintf(w, "page:%s", page)
	return err
}

func setupTestContext(method, path string, body []byte) *xhttp.RequestCtx {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(path)
	if body != nil {
		ctx.Request.Header.SetContentType("application/x-www-form-urlencoded")
		ctx.Request.SetBody(body)
	}
	return ctx
}

func withPK(ctx *xhttp.RequestCtx, pk string) *xhttp.RequestCtx {
	ctx.SetUserValue("pk", pk)
	return ctx
}
