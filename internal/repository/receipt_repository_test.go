package repository

import (
	"context"
	"testing"
	"time"

	"github.com/nimasrn/school-finance/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReceiptRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReceiptRepository(db.DB)
	ctx := context.Background()
	student := createTestStudent(t, db, "REG-001")
	inv := createTestInvoice(t, db, student.ID)
	other := createTestInvoice(t, db, student.ID)

	jan10 := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	jan02 := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	partial, err := repo.Create(ctx, &model.Receipt{InvoiceID: inv.ID, AmountPaid: decimal.RequireFromString("200.00"), DatePaid: jan10, Comment: "partial"})
	require.NoError(t, err)
	first, err := repo.Create(ctx, &model.Receipt{InvoiceID: inv.ID, AmountPaid: decimal.RequireFromString("50.50"), DatePaid: jan02})
	require.NoError(t, err)
	foreign, err := repo.Create(ctx, &model.Receipt{InvoiceID: other.ID, AmountPaid: decimal.RequireFromString("10.00"), DatePaid: jan02})
	require.NoError(t, err)

	t.Run("get", func(t *testing.T) {
		got, err := repo.Get(ctx, partial.ID)
		require.NoError(t, err)
		assert.Equal(t, inv.ID, got.InvoiceID)
		assert.Equal(t, "200.00", got.AmountPaid.StringFixed(2))
		assert.Equal(t, "2024-01-10", got.DatePaid.Format("2006-01-02"))
		assert.Equal(t, "partial", got.Comment)
	})

	t.Run("get unknown", func(t *testing.T) {
		_, err := repo.Get(ctx, 999)
		assert.ErrorIs(t, err, ErrReceiptNotFound)
	})

	t.Run("list in payment order", func(t *testing.T) {
		receipts, err := repo.ListByInvoice(ctx, inv.ID)
		require.NoError(t, err)
		require.Len(t, receipts, 2)
		assert.Equal(t, first.ID, receipts[0].ID)
		assert.Equal(t, partial.ID, receipts[1].ID)
	})

	t.Run("totals", func(t *testing.T) {
		totals, err := repo.TotalsByInvoice(ctx, []int64{inv.ID, other.ID})
		require.NoError(t, err)
		assert.Equal(t, "250.50", totals[inv.ID].StringFixed(2))
		assert.Equal(t, "10.00", totals[other.ID].StringFixed(2))
	})

	t.Run("update", func(t *testing.T) {
		partial.Comment = "second instalment"
		partial.AmountPaid = decimal.RequireFromString("250.00")
		require.NoError(t, repo.Update(ctx, partial))

		got, err := repo.Get(ctx, partial.ID)
		require.NoError(t, err)
		assert.Equal(t, "second instalment", got.Comment)
		assert.Equal(t, "250.00", got.AmountPaid.StringFixed(2))
	})

	t.Run("delete of invoice is scoped", func(t *testing.T) {
		assert.ErrorIs(t, repo.DeleteOfInvoice(ctx, inv.ID, foreign.ID), ErrReceiptNotFound)
		require.NoError(t, repo.DeleteOfInvoice(ctx, inv.ID, first.ID))
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, partial.ID))
		assert.ErrorIs(t, repo.Delete(ctx, partial.ID), ErrReceiptNotFound)
	})

	t.Run("delete by invoice", func(t *testing.T) {
		require.NoError(t, repo.DeleteByInvoice(ctx, other.ID))
		receipts, err := repo.ListByInvoice(ctx, other.ID)
		require.NoError(t, err)
		assert.Empty(t, receipts)
	})
}
