package forms

import (
	"net/url"
	"time"

	"github.com/nimasrn/school-finance/internal/model"
)

// DateLayout is the wire format of date inputs.
const DateLayout = "2006-01-02"

var receiptFields = []FieldRule{
	{Name: "amount_paid", Label: "Amount paid", Rules: "required,money,money_positive"},
	{Name: "date_paid", Label: "Date paid", Rules: "required,datetime=" + DateLayout},
	{Name: "comment", Label: "Comment", Rules: "max=200"},
}

func receiptData(r *model.Receipt) map[string]string {
	return map[string]string{
		"amount_paid": formatMoney(r.AmountPaid),
		"date_paid":   r.DatePaid.Format(DateLayout),
		"comment":     r.Comment,
	}
}

// NewReceiptForm shows r, or a blank receipt dated today when r is nil.
func NewReceiptForm(r *model.Receipt, today time.Time) *Form {
	f := newForm("", receiptFields)
	if r == nil {
		f.Data["date_paid"] = today.Format(DateLayout)
		return f
	}
	f.ID = r.ID
	for k, v := range receiptData(r) {
		f.Data[k] = v
	}
	return f
}

func BindReceipt(values url.Values) (*Form, model.ReceiptInput) {
	f := newForm("", receiptFields)
	f.bind(values)
	if f.HasErrors() {
		return f, model.ReceiptInput{}
	}
	return f, receiptInput(f)
}

// NewReceiptFormset shows the existing receipts followed by extra blank rows.
func NewReceiptFormset(receipts []*model.Receipt, extra int) *Formset {
	fs := newFormset(ReceiptsPrefix, receiptFields)
	for _, r := range receipts {
		fs.addRow(receiptData(r), r.ID)
	}
	fs.addExtra(extra)
	return fs
}

func BindReceiptFormset(values url.Values) (*Formset, []model.ReceiptRow) {
	fs := bindFormset(values, ReceiptsPrefix, receiptFields)
	var rows []model.ReceiptRow
	for _, f := range fs.Changed() {
		row := model.ReceiptRow{ID: f.ID, Delete: f.Deleted}
		if !f.Deleted {
			row.ReceiptInput = receiptInput(f)
		}
		rows = append(rows, row)
	}
	return fs, rows
}

func receiptInput(f *Form) model.ReceiptInput {
	date, _ := time.Parse(DateLayout, f.Data["date_paid"])
	return model.ReceiptInput{
		AmountPaid: parseMoney(f.Data["amount_paid"]),
		DatePaid:   date,
		Comment:    f.Data["comment"],
	}
}
