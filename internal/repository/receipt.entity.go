package repository

import (
	"time"

	"github.com/nimasrn/school-finance/internal/model"
	"github.com/shopspring/decimal"
)

type ReceiptEntity struct {
	ID         int64           `db:"id"          gorm:"primaryKey;autoIncrement;column:id"`
	InvoiceID  int64           `db:"invoice_id"  gorm:"column:invoice_id;not null;index"`
	AmountPaid decimal.Decimal `db:"amount_paid" gorm:"column:amount_paid;type:numeric(12,2);not null"`
	DatePaid   time.Time       `db:"date_paid"   gorm:"column:date_paid;type:date;not null"`
	Comment    string          `db:"comment"     gorm:"column:comment;size:200;not null;default:''"`
}

func (ReceiptEntity) TableName() string {
	return "receipts"
}

func toReceiptEntity(m *model.Receipt) *ReceiptEntity {
	if m == nil {
		return nil
	}
	return &ReceiptEntity{
		ID:         m.ID,
		InvoiceID:  m.InvoiceID,
		AmountPaid: m.AmountPaid,
		DatePaid:   dateOnly(m.DatePaid),
		Comment:    m.Comment,
	}
}

func toReceiptModel(e *ReceiptEntity) *model.Receipt {
	if e == nil {
		return nil
	}
	return &model.Receipt{
		ID:         e.ID,
		InvoiceID:  e.InvoiceID,
		AmountPaid: e.AmountPaid.Round(2),
		DatePaid:   dateOnly(e.DatePaid),
		Comment:    e.Comment,
	}
}

func toReceiptModels(entities []*ReceiptEntity) []*model.Receipt {
	if entities == nil {
		return nil
	}
	models := make([]*model.Receipt, len(entities))
	for i, e := range entities {
		models[i] = toReceiptModel(e)
	}
	return models
}

// dateOnly drops the clock part; date_paid is a calendar date.
func dateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
