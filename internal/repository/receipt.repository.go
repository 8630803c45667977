package repository

import (
	"context"
	"errors"

	"github.com/nimasrn/school-finance/internal/model"
	"github.com/nimasrn/school-finance/pkg/pg"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrReceiptNotFound = errors.New("receipt not found")

type ReceiptRepository struct {
	*pg.DB
}

func NewReceiptRepository(db *pg.DB) *ReceiptRepository {
	return &ReceiptRepository{
		db,
	}
}

func (r *ReceiptRepository) Create(ctx context.Context, rec *model.Receipt) (*model.Receipt, error) {
	entity := toReceiptEntity(rec)
	entity.ID = 0

	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}

	return toReceiptModel(entity), nil
}

func (r *ReceiptRepository) Get(ctx context.Context, id int64) (*model.Receipt, error) {
	var entity ReceiptEntity
	err := r.Read(ctx).WithContext(ctx).Where("id = ?", id).First(&entity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrReceiptNotFound
	}
	if err != nil {
		return nil, err
	}
	return toReceiptModel(&entity), nil
}

// Update rewrites a receipt of rec.InvoiceID. A receipt of another invoice is
// reported as not found.
func (r *ReceiptRepository) Update(ctx context.Context, rec *model.Receipt) error {
	res := r.Write(ctx).WithContext(ctx).
		Model(&ReceiptEntity{}).
		Where("id = ? AND invoice_id = ?", rec.ID, rec.InvoiceID).
		Select("amount_paid", "date_paid", "comment").
		Updates(toReceiptEntity(rec))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrReceiptNotFound
	}
	return nil
}

func (r *ReceiptRepository) Delete(ctx context.Context, id int64) error {
	res := r.Write(ctx).WithContext(ctx).Where("id = ?", id).Delete(&ReceiptEntity{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrReceiptNotFound
	}
	return nil
}

// DeleteOfInvoice deletes a receipt only when it belongs to invoiceID.
func (r *ReceiptRepository) DeleteOfInvoice(ctx context.Context, invoiceID, id int64) error {
	res := r.Write(ctx).WithContext(ctx).
		Where("id = ? AND invoice_id = ?", id, invoiceID).
		Delete(&ReceiptEntity{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrReceiptNotFound
	}
	return nil
}

func (r *ReceiptRepository) DeleteByInvoice(ctx context.Context, invoiceID int64) error {
	return r.Write(ctx).WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Delete(&ReceiptEntity{}).Error
}

// ListByInvoice returns the receipts of an invoice in payment order.
func (r *ReceiptRepository) ListByInvoice(ctx context.Context, invoiceID int64) ([]*model.Receipt, error) {
	var entities []*ReceiptEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("date_paid ASC").Order("id ASC").
		Find(&entities).Error
	if err != nil {
		return nil, err
	}
	return toReceiptModels(entities), nil
}

func (r *ReceiptRepository) TotalsByInvoice(ctx context.Context, invoiceIDs []int64) (map[int64]decimal.Decimal, error) {
	if len(invoiceIDs) == 0 {
		return map[int64]decimal.Decimal{}, nil
	}
	var rows []invoiceSum
	err := r.Read(ctx).WithContext(ctx).
		Model(&ReceiptEntity{}).
		Select("invoice_id, SUM(amount_paid) AS total").
		Where("invoice_id IN ?", invoiceIDs).
		Group("invoice_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return sumsByInvoice(rows), nil
}
