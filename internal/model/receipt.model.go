package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Receipt struct {
	ID         int64           `json:"id"`
	InvoiceID  int64           `json:"invoice_id"`
	AmountPaid decimal.Decimal `json:"amount_paid"`
	DatePaid   time.Time       `json:"date_paid"`
	Comment    string          `json:"comment"`
}

type ReceiptInput struct {
	AmountPaid decimal.Decimal
	DatePaid   time.Time
	Comment    string
}

func (in ReceiptInput) Apply(r *Receipt) {
	r.AmountPaid = in.AmountPaid
	r.DatePaid = in.DatePaid
	r.Comment = in.Comment
}

// ReceiptRow is one validated receipt formset row. ID zero means a new receipt.
type ReceiptRow struct {
	ID     int64
	Delete bool
	ReceiptInput
}

func (r ReceiptRow) Receipt(invoiceID int64) *Receipt {
	rec := &Receipt{ID: r.ID, InvoiceID: invoiceID}
	r.Apply(rec)
	return rec
}
