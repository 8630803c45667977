package forms

import (
	"net/url"
	"strconv"

	"github.com/nimasrn/school-finance/internal/model"
	"github.com/shopspring/decimal"
)

// Prefixes of the child formsets on the invoice page.
const (
	ItemsPrefix    = "invoiceitem_set"
	ReceiptsPrefix = "receipt_set"
)

var invoiceFields = []FieldRule{
	{Name: "student", Label: "Student", Rules: "required,pk"},
	{Name: "session", Label: "Session", Rules: "required,max=20"},
	{Name: "term", Label: "Term", Rules: "required,max=20"},
	{Name: "class_for", Label: "Class", Rules: "required,pk"},
	{Name: "balance_from_previous_term", Label: "Balance from previous term", Rules: "omitempty,money"},
	{Name: "status", Label: "Status", Rules: "omitempty,oneof=active closed"},
}

var (
	InvoiceCreateFields = []string{"student", "session", "term", "class_for", "balance_from_previous_term", "status"}
	// status is only set on create
	InvoiceUpdateFields = []string{"student", "session", "term", "class_for", "balance_from_previous_term"}
)

// NewInvoiceForm returns an unbound form showing inv, or a blank form when
// inv is nil.
func NewInvoiceForm(inv *model.Invoice, fields []string) *Form {
	f := newForm("", pickFields(invoiceFields, fields))
	if inv == nil {
		f.Data["balance_from_previous_term"] = formatMoney(decimal.Zero)
		f.Data["status"] = string(model.InvoiceStatusActive)
		return f
	}
	f.ID = inv.ID
	f.Data["student"] = formatID(inv.StudentID)
	f.Data["session"] = inv.Session
	f.Data["term"] = inv.Term
	f.Data["class_for"] = formatID(inv.ClassFor)
	f.Data["balance_from_previous_term"] = formatMoney(inv.BalanceFromPreviousTerm)
	f.Data["status"] = string(inv.Status)
	return f
}

// BindInvoice binds the invoice fields named in fields. The input is only
// meaningful when the form is valid.
func BindInvoice(values url.Values, fields []string) (*Form, model.InvoiceInput) {
	f := newForm("", pickFields(invoiceFields, fields))
	f.bind(values)

	in := model.InvoiceInput{Fields: fields}
	if f.HasErrors() {
		return f, in
	}
	in.StudentID, _ = parsePK(f.Data["student"])
	in.Session = f.Data["session"]
	in.Term = f.Data["term"]
	in.ClassFor, _ = parsePK(f.Data["class_for"])
	in.BalanceFromPreviousTerm = parseMoney(f.Data["balance_from_previous_term"])
	in.Status = model.InvoiceStatus(f.Data["status"])
	return f, in
}

func formatID(id int64) string {
	if id == 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}
