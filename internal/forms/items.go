package forms

import (
	"net/url"

	"github.com/nimasrn/school-finance/internal/model"
)

var itemFields = []FieldRule{
	{Name: "description", Label: "Description", Rules: "required,max=200"},
	{Name: "amount", Label: "Amount", Rules: "required,money,money_nonnegative"},
}

// NewItemFormset shows the existing items followed by extra blank rows.
func NewItemFormset(items []*model.InvoiceItem, extra int) *Formset {
	fs := newFormset(ItemsPrefix, itemFields)
	for _, it := range items {
		fs.addRow(map[string]string{
			"description": it.Description,
			"amount":      formatMoney(it.Amount),
		}, it.ID)
	}
	fs.addExtra(extra)
	return fs
}

// BindItemFormset binds the submitted item rows. Rows are returned for every
// changed form, in submission order, and are only meaningful when the
// formset is valid.
func BindItemFormset(values url.Values) (*Formset, []model.InvoiceItemRow) {
	fs := bindFormset(values, ItemsPrefix, itemFields)
	var rows []model.InvoiceItemRow
	for _, f := range fs.Changed() {
		row := model.InvoiceItemRow{ID: f.ID, Delete: f.Deleted}
		if !f.Deleted {
			row.Description = f.Data["description"]
			row.Amount = parseMoney(f.Data["amount"])
		}
		rows = append(rows, row)
	}
	return fs, rows
}
