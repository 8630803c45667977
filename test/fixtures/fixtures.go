package fixtures

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/nimasrn/school-finance/internal/forms"
)

// ItemRow is one submitted row of the invoice item formset.
type ItemRow struct {
	ID          int64
	Description string
	Amount      string
	Delete      bool
}

// ReceiptRow is one submitted row of the receipt formset.
type ReceiptRow struct {
	ID         int64
	AmountPaid string
	DatePaid   string
	Comment    string
	Delete     bool
}

// InvoiceValues is the invoice header as posted by the form.
func InvoiceValues(studentID int64, session, term string, classFor int64, previous string) url.Values {
	v := url.Values{}
	v.Set("student", strconv.FormatInt(studentID, 10))
	v.Set("session", session)
	v.Set("term", term)
	v.Set("class_for", strconv.FormatInt(classFor, 10))
	v.Set("balance_from_previous_term", previous)
	return v
}

// WithItems appends the item formset, management form included.
func WithItems(v url.Values, rows ...ItemRow) url.Values {
	initial := 0
	for i, r := range rows {
		p := fmt.Sprintf("%s-%d-", forms.ItemsPrefix, i)
		if r.ID > 0 {
			initial++
			v.Set(p+"id", strconv.FormatInt(r.ID, 10))
		}
		v.Set(p+"description", r.Description)
		v.Set(p+"amount", r.Amount)
		if r.Delete {
			v.Set(p+"DELETE", "on")
		}
	}
	setManagement(v, forms.ItemsPrefix, len(rows), initial)
	return v
}

// WithReceipts appends the receipt formset, management form included.
func WithReceipts(v url.Values, rows ...ReceiptRow) url.Values {
	initial := 0
	for i, r := range rows {
		p := fmt.Sprintf("%s-%d-", forms.ReceiptsPrefix, i)
		if r.ID > 0 {
			initial++
			v.Set(p+"id", strconv.FormatInt(r.ID, 10))
		}
		v.Set(p+"amount_paid", r.AmountPaid)
		v.Set(p+"date_paid", r.DatePaid)
		v.Set(p+"comment", r.Comment)
		if r.Delete {
			v.Set(p+"DELETE", "on")
		}
	}
	setManagement(v, forms.ReceiptsPrefix, len(rows), initial)
	return v
}

func ReceiptValues(amount, date, comment string) url.Values {
	v := url.Values{}
	v.Set("amount_paid", amount)
	v.Set("date_paid", date)
	v.Set("comment", comment)
	return v
}

func setManagement(v url.Values, prefix string, total, initial int) {
	v.Set(prefix+"-TOTAL_FORMS", strconv.Itoa(total))
	v.Set(prefix+"-INITIAL_FORMS", strconv.Itoa(initial))
	v.Set(prefix+"-MIN_NUM_FORMS", "0")
	v.Set(prefix+"-MAX_NUM_FORMS", strconv.Itoa(forms.MaxForms))
}
