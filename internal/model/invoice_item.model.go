package model

import "github.com/shopspring/decimal"

type InvoiceItem struct {
	ID          int64           `json:"id"`
	InvoiceID   int64           `json:"invoice_id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// InvoiceItemRow is one validated formset row. ID zero means a new item.
type InvoiceItemRow struct {
	ID          int64
	Delete      bool
	Description string
	Amount      decimal.Decimal
}

func (r InvoiceItemRow) Item(invoiceID int64) *InvoiceItem {
	return &InvoiceItem{
		ID:          r.ID,
		InvoiceID:   invoiceID,
		Description: r.Description,
		Amount:      r.Amount,
	}
}
