package services

import (
	"context"

	"github.com/nimasrn/school-finance/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockTransactor struct {
	mock.Mock
}

func (m *MockTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx, fn)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(ctx)
}

type MockStudentRepository struct {
	mock.Mock
}

func (m *MockStudentRepository) Get(ctx context.Context, id int64) (*model.Student, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Student), args.Error(1)
}

func (m *MockStudentRepository) GetMany(ctx context.Context, ids []int64) (map[int64]*model.Student, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]*model.Student), args.Error(1)
}

func (m *MockStudentRepository) List(ctx context.Context) ([]*model.Student, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Student), args.Error(1)
}

type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) Create(ctx context.Context, inv *model.Invoice) (*model.Invoice, error) {
	args := m.Called(ctx, inv)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) Update(ctx context.Context, inv *model.Invoice, fields []string) error {
	args := m.Called(ctx, inv, fields)
	return args.Error(0)
}

func (m *MockInvoiceRepository) Get(ctx context.Context, id int64) (*model.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) List(ctx context.Context) ([]*model.Invoice, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockInvoiceItemRepository struct {
	mock.Mock
}

func (m *MockInvoiceItemRepository) Create(ctx context.Context, item *model.InvoiceItem) (*model.InvoiceItem, error) {
	args := m.Called(ctx, item)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.InvoiceItem), args.Error(1)
}

func (m *MockInvoiceItemRepository) Update(ctx context.Context, item *model.InvoiceItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockInvoiceItemRepository) Delete(ctx context.Context, invoiceID, id int64) error {
	args := m.Called(ctx, invoiceID, id)
	return args.Error(0)
}

func (m *MockInvoiceItemRepository) DeleteByInvoice(ctx context.Context, invoiceID int64) error {
	args := m.Called(ctx, invoiceID)
	return args.Error(0)
}

func (m *MockInvoiceItemRepository) ListByInvoice(ctx context.Context, invoiceID int64) ([]*model.InvoiceItem, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.InvoiceItem), args.Error(1)
}

func (m *MockInvoiceItemRepository) TotalsByInvoice(ctx context.Context, invoiceIDs []int64) (map[int64]decimal.Decimal, error) {
	args := m.Called(ctx, invoiceIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]decimal.Decimal), args.Error(1)
}

type MockReceiptRepository struct {
	mock.Mock
}

func (m *MockReceiptRepository) Create(ctx context.Context, rec *model.Receipt) (*model.Receipt, error) {
	args := m.Called(ctx, rec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Receipt), args.Error(1)
}

func (m *MockReceiptRepository) Get(ctx context.Context, id int64) (*model.Receipt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Receipt), args.Error(1)
}

func (m *MockReceiptRepository) Update(ctx context.Context, rec *model.Receipt) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockReceiptRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockReceiptRepository) DeleteOfInvoice(ctx context.Context, invoiceID, id int64) error {
	args := m.Called(ctx, invoiceID, id)
	return args.Error(0)
}

func (m *MockReceiptRepository) DeleteByInvoice(ctx context.Context, invoiceID int64) error {
	args := m.Called(ctx, invoiceID)
	return args.Error(0)
}

func (m *MockReceiptRepository) ListByInvoice(ctx context.Context, invoiceID int64) ([]*model.Receipt, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Receipt), args.Error(1)
}

func (m *MockReceiptRepository) TotalsByInvoice(ctx context.Context, invoiceIDs []int64) (map[int64]decimal.Decimal, error) {
	args := m.Called(ctx, invoiceIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]decimal.Decimal), args.Error(1)
}

type MockGuard struct {
	mock.Mock
}

func (m *MockGuard) Acquire(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockGuard) Complete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockGuard) Release(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}
