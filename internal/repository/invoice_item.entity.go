package repository

import (
	"github.com/nimasrn/school-finance/internal/model"
	"github.com/shopspring/decimal"
)

type InvoiceItemEntity struct {
	ID          int64           `db:"id"          gorm:"primaryKey;autoIncrement;column:id"`
	InvoiceID   int64           `db:"invoice_id"  gorm:"column:invoice_id;not null;index"`
	Description string          `db:"description" gorm:"column:description;size:200;not null"`
	Amount      decimal.Decimal `db:"amount"      gorm:"column:amount;type:numeric(12,2);not null"`
}

func (InvoiceItemEntity) TableName() string {
	return "invoice_items"
}

func toInvoiceItemEntity(m *model.InvoiceItem) *InvoiceItemEntity {
	if m == nil {
		return nil
	}
	return &InvoiceItemEntity{
		ID:          m.ID,
		InvoiceID:   m.InvoiceID,
		Description: m.Description,
		Amount:      m.Amount,
	}
}

func toInvoiceItemModel(e *InvoiceItemEntity) *model.InvoiceItem {
	if e == nil {
		return nil
	}
	return &model.InvoiceItem{
		ID:          e.ID,
		InvoiceID:   e.InvoiceID,
		Description: e.Description,
		Amount:      e.Amount.Round(2),
	}
}

func toInvoiceItemModels(entities []*InvoiceItemEntity) []*model.InvoiceItem {
	if entities == nil {
		return nil
	}
	models := make([]*model.InvoiceItem, len(entities))
	for i, e := range entities {
		models[i] = toInvoiceItemModel(e)
	}
	return models
}

// invoiceSum is one row of a per-invoice SUM.
type invoiceSum struct {
	InvoiceID int64           `gorm:"column:invoice_id"`
	Total     decimal.Decimal `gorm:"column:total"`
}

func sumsByInvoice(rows []invoiceSum) map[int64]decimal.Decimal {
	out := make(map[int64]decimal.Decimal, len(rows))
	for _, row := range rows {
		out[row.InvoiceID] = row.Total.Round(2)
	}
	return out
}
