package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type InvoiceStatus string

const (
	InvoiceStatusActive InvoiceStatus = "active"
	InvoiceStatusClosed InvoiceStatus = "closed"
)

// Invoice is one term's billing record for one student.
type Invoice struct {
	ID                      int64           `json:"id"`
	StudentID               int64           `json:"student_id"`
	Session                 string          `json:"session"`
	Term                    string          `json:"term"`
	ClassFor                int64           `json:"class_for"`
	BalanceFromPreviousTerm decimal.Decimal `json:"balance_from_previous_term"`
	Status                  InvoiceStatus   `json:"status"`
	CreatedAt               time.Time       `json:"created_at"`
}

// InvoiceInput is a validated invoice form. Fields carries the form field
// names that were accepted, which is the set an update may touch.
type InvoiceInput struct {
	StudentID               int64
	Session                 string
	Term                    string
	ClassFor                int64
	BalanceFromPreviousTerm decimal.Decimal
	Status                  InvoiceStatus
	Fields                  []string
}

// Apply copies the accepted fields onto inv.
func (in InvoiceInput) Apply(inv *Invoice) {
	for _, f := range in.Fields {
		switch f {
		case "student":
			inv.StudentID = in.StudentID
		case "session":
			inv.Session = in.Session
		case "term":
			inv.Term = in.Term
		case "class_for":
			inv.ClassFor = in.ClassFor
		case "balance_from_previous_term":
			inv.BalanceFromPreviousTerm = in.BalanceFromPreviousTerm
		case "status":
			inv.Status = in.Status
		}
	}
	if inv.Status == "" {
		inv.Status = InvoiceStatusActive
	}
}

// InvoiceTotals are derived from an invoice and its children and never stored.
type InvoiceTotals struct {
	AmountPayable   decimal.Decimal `json:"amount_payable"`
	TotalAmountPaid decimal.Decimal `json:"total_amount_paid"`
	Balance         decimal.Decimal `json:"balance"`
}

func NewInvoiceTotals(previous, itemsTotal, paid decimal.Decimal) InvoiceTotals {
	payable := previous.Add(itemsTotal)
	return InvoiceTotals{
		AmountPayable:   payable,
		TotalAmountPaid: paid,
		Balance:         payable.Sub(paid),
	}
}

// InvoiceSummary is one row of the invoice list.
type InvoiceSummary struct {
	Invoice *Invoice `json:"invoice"`
	Student *Student `json:"student"`
	InvoiceTotals
}

// InvoiceDetail aggregates everything shown on the invoice page.
type InvoiceDetail struct {
	Invoice  *Invoice       `json:"invoice"`
	Student  *Student       `json:"student"`
	Items    []*InvoiceItem `json:"items"`
	Receipts []*Receipt     `json:"receipts"`
	InvoiceTotals
}
