package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNewInvoiceTotals(t *testing.T) {
	totals := NewInvoiceTotals(
		decimal.RequireFromString("500.00"),
		decimal.RequireFromString("1000.00"),
		decimal.RequireFromString("200.50"),
	)

	assert.Equal(t, "1500.00", totals.AmountPayable.StringFixed(2))
	assert.Equal(t, "200.50", totals.TotalAmountPaid.StringFixed(2))
	assert.Equal(t, "1299.50", totals.Balance.StringFixed(2))
}

func TestInvoiceInput_Apply(t *testing.T) {
	t.Run("only accepted fields are copied", func(t *testing.T) {
		inv := &Invoice{ID: 7, Term: "1", Status: InvoiceStatusClosed, Session: "2023/2024"}
		in := InvoiceInput{
			Term:    "2",
			Session: "2030/2031",
			Status:  InvoiceStatusActive,
			Fields:  []string{"term"},
		}

		in.Apply(inv)

		assert.Equal(t, "2", inv.Term)
		assert.Equal(t, "2023/2024", inv.Session)
		assert.Equal(t, InvoiceStatusClosed, inv.Status)
	})

	t.Run("blank status defaults to active", func(t *testing.T) {
		inv := &Invoice{}
		InvoiceInput{Fields: []string{"session"}, Session: "2023/2024"}.Apply(inv)
		assert.Equal(t, InvoiceStatusActive, inv.Status)
	})
}
