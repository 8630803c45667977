package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/nimasrn/school-finance/internal/model"
	"github.com/nimasrn/school-finance/pkg/pg"
	"gorm.io/gorm"
)

var ErrInvoiceNotFound = errors.New("invoice not found")

type InvoiceRepository struct {
	*pg.DB
}

func NewInvoiceRepository(db *pg.DB) *InvoiceRepository {
	return &InvoiceRepository{
		db,
	}
}

func (r *InvoiceRepository) Create(ctx context.Context, inv *model.Invoice) (*model.Invoice, error) {
	entity := toInvoiceEntity(inv)
	if entity.Status == "" {
		entity.Status = string(model.InvoiceStatusActive)
	}

	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}

	return toInvoiceModel(entity), nil
}

// Update writes the columns behind the given form fields. Zero values are
// written too.
func (r *InvoiceRepository) Update(ctx context.Context, inv *model.Invoice, fields []string) error {
	columns := make([]string, 0, len(fields))
	for _, f := range fields {
		col, ok := invoiceColumns[f]
		if !ok {
			return fmt.Errorf("unknown invoice field %q", f)
		}
		columns = append(columns, col)
	}
	if len(columns) == 0 {
		return nil
	}

	res := r.Write(ctx).WithContext(ctx).
		Model(&InvoiceEntity{}).
		Where("id = ?", inv.ID).
		Select(columns).
		Updates(toInvoiceEntity(inv))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInvoiceNotFound
	}
	return nil
}

func (r *InvoiceRepository) Get(ctx context.Context, id int64) (*model.Invoice, error) {
	var entity InvoiceEntity
	err := r.Read(ctx).WithContext(ctx).Where("id = ?", id).First(&entity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvoiceNotFound
	}
	if err != nil {
		return nil, err
	}
	return toInvoiceModel(&entity), nil
}

// List returns every invoice, newest first.
func (r *InvoiceRepository) List(ctx context.Context) ([]*model.Invoice, error) {
	var entities []*InvoiceEntity
	if err := r.Read(ctx).WithContext(ctx).Order("id DESC").Find(&entities).Error; err != nil {
		return nil, err
	}
	return toInvoiceModels(entities), nil
}

func (r *InvoiceRepository) Delete(ctx context.Context, id int64) error {
	res := r.Write(ctx).WithContext(ctx).Where("id = ?", id).Delete(&InvoiceEntity{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInvoiceNotFound
	}
	return nil
}
