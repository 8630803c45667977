package repository

import (
	"context"
	"errors"

	"github.com/nimasrn/school-finance/internal/model"
	"github.com/nimasrn/school-finance/pkg/pg"
	"github.com/shopspring/decimal"
)

var ErrInvoiceItemNotFound = errors.New("invoice item not found")

type InvoiceItemRepository struct {
	*pg.DB
}

func NewInvoiceItemRepository(db *pg.DB) *InvoiceItemRepository {
	return &InvoiceItemRepository{
		db,
	}
}

func (r *InvoiceItemRepository) Create(ctx context.Context, item *model.InvoiceItem) (*model.InvoiceItem, error) {
	entity := toInvoiceItemEntity(item)
	entity.ID = 0

	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}

	return toInvoiceItemModel(entity), nil
}

// Update rewrites an item of item.InvoiceID. An item of another invoice is
// reported as not found.
func (r *InvoiceItemRepository) Update(ctx context.Context, item *model.InvoiceItem) error {
	res := r.Write(ctx).WithContext(ctx).
		Model(&InvoiceItemEntity{}).
		Where("id = ? AND invoice_id = ?", item.ID, item.InvoiceID).
		Select("description", "amount").
		Updates(toInvoiceItemEntity(item))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInvoiceItemNotFound
	}
	return nil
}

func (r *InvoiceItemRepository) Delete(ctx context.Context, invoiceID, id int64) error {
	res := r.Write(ctx).WithContext(ctx).
		Where("id = ? AND invoice_id = ?", id, invoiceID).
		Delete(&InvoiceItemEntity{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInvoiceItemNotFound
	}
	return nil
}

func (r *InvoiceItemRepository) DeleteByInvoice(ctx context.Context, invoiceID int64) error {
	return r.Write(ctx).WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Delete(&InvoiceItemEntity{}).Error
}

func (r *InvoiceItemRepository) ListByInvoice(ctx context.Context, invoiceID int64) ([]*model.InvoiceItem, error) {
	var entities []*InvoiceItemEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("id ASC").
		Find(&entities).Error
	if err != nil {
		return nil, err
	}
	return toInvoiceItemModels(entities), nil
}

// TotalsByInvoice sums item amounts per invoice. Invoices without items are
// absent from the result.
func (r *InvoiceItemRepository) TotalsByInvoice(ctx context.Context, invoiceIDs []int64) (map[int64]decimal.Decimal, error) {
	if len(invoiceIDs) == 0 {
		return map[int64]decimal.Decimal{}, nil
	}
	var rows []invoiceSum
	err := r.Read(ctx).WithContext(ctx).
		Model(&InvoiceItemEntity{}).
		Select("invoice_id, SUM(amount) AS total").
		Where("invoice_id IN ?", invoiceIDs).
		Group("invoice_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return sumsByInvoice(rows), nil
}
