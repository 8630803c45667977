// Package view renders the finance pages from embedded html templates.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/shopspring/decimal"
)

const (
	PageInvoiceList          = "invoice_list"
	PageInvoiceDetail        = "invoice_detail"
	PageInvoiceForm          = "invoice_form"
	PageInvoiceConfirmDelete = "invoice_confirm_delete"
	PageReceiptForm          = "receipt_form"
	PageReceiptConfirmDelete = "receipt_confirm_delete"
	PageNotFound             = "not_found"
)

var pages = []string{
	PageInvoiceList,
	PageInvoiceDetail,
	PageInvoiceForm,
	PageInvoiceConfirmDelete,
	PageReceiptForm,
	PageReceiptConfirmDelete,
	PageNotFound,
}

//go:embed templates/*.html
var templateFS embed.FS

type Renderer interface {
	Render(w io.Writer, page string, data any) error
}

// Templates holds one parsed set per page, each layered over the base layout.
type Templates struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("2006-01-02")
	},
	"id": func(id int64) string { return fmt.Sprintf("%d", id) },
}

func New() (*Templates, error) {
	t := &Templates{pages: make(map[string]*template.Template, len(pages))}
	for _, page := range pages {
		tmpl, err := template.New(page).Funcs(funcs).ParseFS(templateFS, "templates/base.html", "templates/"+page+".html")
		if err != nil {
			return nil, fmt.Errorf("parse page %s: %w", page, err)
		}
		t.pages[page] = tmpl
	}
	return t, nil
}

// Render executes page into w. Output is buffered so a failing template
// writes nothing.
func (t *Templates) Render(w io.Writer, page string, data any) error {
	tmpl, ok := t.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %s", page)
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		return fmt.Errorf("render page %s: %w", page, err)
	}
	_, err := buf.WriteTo(w)
	return err
}
