package repository

import (
	"time"

	"github.com/nimasrn/school-finance/internal/model"
	"github.com/shopspring/decimal"
)

type InvoiceEntity struct {
	ID                      int64           `db:"id"                         gorm:"primaryKey;autoIncrement;column:id"`
	StudentID               int64           `db:"student_id"                 gorm:"column:student_id;not null;index"`
	Session                 string          `db:"session"                    gorm:"column:session;size:20;not null"`
	Term                    string          `db:"term"                       gorm:"column:term;size:20;not null"`
	ClassForID              int64           `db:"class_for_id"               gorm:"column:class_for_id;not null"`
	BalanceFromPreviousTerm decimal.Decimal `db:"balance_from_previous_term" gorm:"column:balance_from_previous_term;type:numeric(12,2);not null;default:0"`
	Status                  string          `db:"status"                     gorm:"column:status;size:20;not null;default:active"`
	CreatedAt               time.Time       `db:"created_at"                 gorm:"column:created_at;autoCreateTime"`
}

func (InvoiceEntity) TableName() string {
	return "invoices"
}

// invoiceColumns maps invoice form fields to their columns.
var invoiceColumns = map[string]string{
	"student":                    "student_id",
	"session":                    "session",
	"term":                       "term",
	"class_for":                  "class_for_id",
	"balance_from_previous_term": "balance_from_previous_term",
	"status":                     "status",
}

func toInvoiceEntity(m *model.Invoice) *InvoiceEntity {
	if m == nil {
		return nil
	}
	return &InvoiceEntity{
		ID:                      m.ID,
		StudentID:               m.StudentID,
		Session:                 m.Session,
		Term:                    m.Term,
		ClassForID:              m.ClassFor,
		BalanceFromPreviousTerm: m.BalanceFromPreviousTerm,
		Status:                  string(m.Status),
		CreatedAt:               m.CreatedAt,
	}
}

func toInvoiceModel(e *InvoiceEntity) *model.Invoice {
	if e == nil {
		return nil
	}
	return &model.Invoice{
		ID:                      e.ID,
		StudentID:               e.StudentID,
		Session:                 e.Session,
		Term:                    e.Term,
		ClassFor:                e.ClassForID,
		BalanceFromPreviousTerm: e.BalanceFromPreviousTerm.Round(2),
		Status:                  model.InvoiceStatus(e.Status),
		CreatedAt:               e.CreatedAt,
	}
}

func toInvoiceModels(entities []*InvoiceEntity) []*model.Invoice {
	if entities == nil {
		return nil
	}
	models := make([]*model.Invoice, len(entities))
	for i, e := range entities {
		models[i] = toInvoiceModel(e)
	}
	return models
}
