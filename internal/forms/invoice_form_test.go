package forms

import (
	"net/url"
	"testing"
	"time"

	"github.com/nimasrn/school-finance/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInvoiceValues() url.Values {
	return url.Values{
		"student":                    {"42"},
		"session":                    {"2023/2024"},
		"term":                       {"1"},
		"class_for":                  {"3"},
		"balance_from_previous_term": {"500.00"},
		"status":                     {"active"},
	}
}

func TestBindInvoice(t *testing.T) {
	t.Run("valid create", func(t *testing.T) {
		f, in := BindInvoice(validInvoiceValues(), InvoiceCreateFields)
		require.True(t, f.IsValid())
		assert.Equal(t, int64(42), in.StudentID)
		assert.Equal(t, "2023/2024", in.Session)
		assert.Equal(t, "1", in.Term)
		assert.Equal(t, int64(3), in.ClassFor)
		assert.Equal(t, "500.00", in.BalanceFromPreviousTerm.StringFixed(2))
		assert.Equal(t, model.InvoiceStatusActive, in.Status)
		assert.Equal(t, InvoiceCreateFields, in.Fields)
	})

	t.Run("blank balance is zero", func(t *testing.T) {
		v := validInvoiceValues()
		v.Set("balance_from_previous_term", "")
		f, in := BindInvoice(v, InvoiceCreateFields)
		require.True(t, f.IsValid())
		assert.True(t, in.BalanceFromPreviousTerm.IsZero())
	})

	t.Run("negative balance is allowed", func(t *testing.T) {
		v := validInvoiceValues()
		v.Set("balance_from_previous_term", "-120.5")
		f, in := BindInvoice(v, InvoiceCreateFields)
		require.True(t, f.IsValid())
		assert.Equal(t, "-120.50", in.BalanceFromPreviousTerm.StringFixed(2))
	})

	t.Run("field errors", func(t *testing.T) {
		v := url.Values{
			"student":                    {"abc"},
			"session":                    {"2023/2024/2025/2026/2027"},
			"class_for":                  {"0"},
			"balance_from_previous_term": {"12.345"},
			"status":                     {"open"},
		}
		f, _ := BindInvoice(v, InvoiceCreateFields)
		assert.False(t, f.IsValid())
		assert.Equal(t, []string{MsgInvalidChoice}, f.ErrorsFor("student"))
		assert.Equal(t, []string{"Ensure this value has at most 20 characters (it has 24)."}, f.ErrorsFor("session"))
		assert.Equal(t, []string{MsgRequired}, f.ErrorsFor("term"))
		assert.Equal(t, []string{MsgInvalidChoice}, f.ErrorsFor("class_for"))
		assert.Equal(t, []string{MsgInvalidAmount}, f.ErrorsFor("balance_from_previous_term"))
		assert.Equal(t, []string{"Select a valid choice. open is not one of the available choices."}, f.ErrorsFor("status"))
		assert.Equal(t, "2023/2024/2025/2026/2027", f.Value("session"))
	})

	t.Run("update ignores status", func(t *testing.T) {
		v := validInvoiceValues()
		v.Set("status", "bogus")
		f, in := BindInvoice(v, InvoiceUpdateFields)
		require.True(t, f.IsValid())
		assert.Empty(t, in.Status)
		assert.NotContains(t, in.Fields, "status")
	})
}

func TestNewInvoiceForm(t *testing.T) {
	t.Run("blank", func(t *testing.T) {
		f := NewInvoiceForm(nil, InvoiceCreateFields)
		assert.False(t, f.Bound)
		assert.Equal(t, "0.00", f.Value("balance_from_previous_term"))
		assert.Equal(t, "active", f.Value("status"))
		assert.Equal(t, "", f.Value("student"))
	})

	t.Run("existing invoice", func(t *testing.T) {
		f := NewInvoiceForm(&model.Invoice{
			ID:                      7,
			StudentID:               42,
			Session:                 "2023/2024",
			Term:                    "1",
			ClassFor:                3,
			BalanceFromPreviousTerm: decimal.RequireFromString("500"),
			Status:                  model.InvoiceStatusActive,
		}, InvoiceUpdateFields)
		assert.Equal(t, int64(7), f.ID)
		assert.Equal(t, "42", f.Value("student"))
		assert.Equal(t, "500.00", f.Value("balance_from_previous_term"))
		assert.Len(t, f.Fields, len(InvoiceUpdateFields))
	})
}

func TestBindReceipt(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		f, in := BindReceipt(url.Values{
			"amount_paid": {"200.00"},
			"date_paid":   {"2024-01-10"},
			"comment":     {"partial"},
		})
		require.True(t, f.IsValid())
		assert.Equal(t, "200.00", in.AmountPaid.StringFixed(2))
		assert.Equal(t, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), in.DatePaid)
		assert.Equal(t, "partial", in.Comment)
	})

	t.Run("invalid", func(t *testing.T) {
		f, _ := BindReceipt(url.Values{
			"amount_paid": {"0"},
			"date_paid":   {"10/01/2024"},
		})
		assert.False(t, f.IsValid())
		assert.Equal(t, []string{"Ensure this value is greater than 0."}, f.ErrorsFor("amount_paid"))
		assert.Equal(t, []string{MsgInvalidDate}, f.ErrorsFor("date_paid"))
		assert.Empty(t, f.ErrorsFor("comment"))
	})
}

func TestBindReceipt_AmountFormat(t *testing.T) {
	cases := []struct {
		name   string
		amount string
		valid  bool
	}{
		{"plain", "1500", true},
		{"two places", "1500.25", true},
		{"ten integer digits", "9999999999.99", true},
		{"exponent", "1e2", false},
		{"huge negative exponent", "1e-20000000", false},
		{"eleven integer digits", "10000000000", false},
		{"three places", "1.005", false},
		{"leading dot", ".5", false},
		{"plus sign", "+5", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			start := time.Now()
			f, in := BindReceipt(url.Values{
				"amount_paid": {tc.amount},
				"date_paid":   {"2024-01-10"},
			})
			assert.Less(t, time.Since(start), time.Second)
			assert.Equal(t, tc.valid, f.IsValid(), f.ErrorsFor("amount_paid"))
			if tc.valid {
				assert.True(t, decimal.RequireFromString(tc.amount).Equal(in.AmountPaid))
			} else {
				assert.Equal(t, []string{MsgInvalidAmount}, f.ErrorsFor("amount_paid"))
			}
		})
	}
}

func TestReceiptFormset(t *testing.T) {
	t.Run("unbound shows existing rows and one extra", func(t *testing.T) {
		fs := NewReceiptFormset([]*model.Receipt{{
			ID:         3,
			AmountPaid: decimal.RequireFromString("50"),
			DatePaid:   time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		}}, 1)
		require.Len(t, fs.Forms, 2)
		assert.Equal(t, "3", fs.Forms[0].Value("id"))
		assert.Equal(t, "50.00", fs.Forms[0].Value("amount_paid"))
		assert.Equal(t, "2024-01-02", fs.Forms[0].Value("date_paid"))
		assert.Equal(t, "", fs.Forms[1].Value("date_paid"))
		assert.Equal(t, 1, fs.InitialForms())
	})

	t.Run("bind new receipt row", func(t *testing.T) {
		v := url.Values{
			"receipt_set-TOTAL_FORMS":   {"2"},
			"receipt_set-INITIAL_FORMS": {"1"},
			"receipt_set-0-id":          {"3"},
			"receipt_set-0-amount_paid": {"50.00"},
			"receipt_set-0-date_paid":   {"2024-01-02"},
			"receipt_set-1-amount_paid": {"200.00"},
			"receipt_set-1-date_paid":   {"2024-01-10"},
			"receipt_set-1-comment":     {"partial"},
		}
		fs, rows := BindReceiptFormset(v)
		require.True(t, fs.IsValid())
		require.Len(t, rows, 2)
		assert.Equal(t, int64(3), rows[0].ID)
		assert.Equal(t, int64(0), rows[1].ID)
		assert.Equal(t, "partial", rows[1].Comment)
	})
}
