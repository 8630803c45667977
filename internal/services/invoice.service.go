package services

import (
	"context"
	"net/url"

	"github.com/nimasrn/school-finance/internal/forms"
	"github.com/nimasrn/school-finance/internal/model"
	"github.com/nimasrn/school-finance/internal/repository"
	"github.com/nimasrn/school-finance/pkg/logger"
	"github.com/nimasrn/school-finance/pkg/prom"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// extraRows is the number of blank rows appended to a displayed formset.
const extraRows = 1

// InvoiceFormContext is everything the invoice create and update pages render.
// Invoice and Receipts are nil on create.
type InvoiceFormContext struct {
	Invoice  *model.Invoice
	Form     *forms.Form
	Items    *forms.Formset
	Receipts *forms.Formset
	Students []*model.Student
	Token    string
}

type InvoiceService struct {
	tx          Transactor
	studentRepo StudentRepository
	invoiceRepo InvoiceRepository
	itemRepo    InvoiceItemRepository
	receiptRepo ReceiptRepository
	guard       SubmissionGuard
}

func NewInvoiceService(tx Transactor, studentRepo StudentRepository, invoiceRepo InvoiceRepository, itemRepo InvoiceItemRepository, receiptRepo ReceiptRepository, guard SubmissionGuard) *InvoiceService {
	return &InvoiceService{
		tx:          tx,
		studentRepo: studentRepo,
		invoiceRepo: invoiceRepo,
		itemRepo:    itemRepo,
		receiptRepo: receiptRepo,
		guard:       guard,
	}
}

// CreateForm returns the blank create page.
func (s *InvoiceService) CreateForm(ctx context.Context) (*InvoiceFormContext, error) {
	students, err := s.studentRepo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list students")
	}
	return &InvoiceFormContext{
		Form:     forms.NewInvoiceForm(nil, forms.InvoiceCreateFields),
		Items:    forms.NewItemFormset(nil, extraRows),
		Students: students,
		Token:    newToken(),
	}, nil
}

// Create validates the invoice and its item rows and saves them together.
// When anything is invalid nothing is written and the bound page is returned
// with ErrInvalidForm.
func (s *InvoiceService) Create(ctx context.Context, values url.Values) (*model.Invoice, *InvoiceFormContext, error) {
	token := values.Get(TokenField)
	sub, err := acquireSubmission(ctx, s.guard, "invoice:create", token)
	if err != nil {
		return nil, nil, err
	}

	form, in := forms.BindInvoice(values, forms.InvoiceCreateFields)
	items, rows := forms.BindItemFormset(values)
	// a new invoice has no items to edit or delete
	items.RejectUnknownIDs(func(int64) bool { return false })
	if err := s.checkStudent(ctx, form); err != nil {
		sub.release(ctx)
		prom.InvoiceSave(opCreate, prom.OutcomeError)
		return nil, nil, err
	}

	if !form.IsValid() || !items.IsValid() {
		sub.release(ctx)
		prom.InvoiceSave(opCreate, prom.OutcomeInvalid)
		fc, err := s.boundContext(ctx, nil, form, items, nil, token)
		if err != nil {
			return nil, nil, err
		}
		return nil, fc, ErrInvalidForm
	}

	inv := &model.Invoice{}
	in.Apply(inv)

	var created *model.Invoice
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		created, err = s.invoiceRepo.Create(ctx, inv)
		if err != nil {
			return errors.Wrap(err, "create invoice")
		}
		for _, row := range rows {
			if row.Delete {
				continue
			}
			if _, err := s.itemRepo.Create(ctx, row.Item(created.ID)); err != nil {
				return errors.Wrap(err, "create invoice item")
			}
		}
		return nil
	})
	if err != nil {
		sub.release(ctx)
		prom.InvoiceSave(opCreate, prom.OutcomeError)
		return nil, nil, err
	}

	sub.complete(ctx)
	prom.InvoiceSave(opCreate, prom.OutcomeSaved)
	logger.Info("invoice created", "invoice_id", created.ID, "student_id", created.StudentID, "items", len(rows))
	return created, nil, nil
}

// EditForm returns the update page pre-filled from the invoice and its children.
func (s *InvoiceService) EditForm(ctx context.Context, id int64) (*InvoiceFormContext, error) {
	inv, err := s.getInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	items, err := s.itemRepo.ListByInvoice(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "list invoice items")
	}
	receipts, err := s.receiptRepo.ListByInvoice(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "list receipts")
	}
	students, err := s.studentRepo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list students")
	}
	return &InvoiceFormContext{
		Invoice:  inv,
		Form:     forms.NewInvoiceForm(inv, forms.InvoiceUpdateFields),
		Items:    forms.NewItemFormset(items, extraRows),
		Receipts: forms.NewReceiptFormset(receipts, extraRows),
		Students: students,
	}, nil
}

// Update saves the invoice fields, receipt rows and item rows in one
// transaction, and only when all three validate.
func (s *InvoiceService) Update(ctx context.Context, id int64, values url.Values) (*model.Invoice, *InvoiceFormContext, error) {
	inv, err := s.getInvoice(ctx, id)
	if err != nil {
		prom.InvoiceSave(opUpdate, prom.OutcomeNotFound)
		return nil, nil, err
	}

	form, in := forms.BindInvoice(values, forms.InvoiceUpdateFields)
	receipts, receiptRows := forms.BindReceiptFormset(values)
	items, itemRows := forms.BindItemFormset(values)

	if err := s.checkStudent(ctx, form); err != nil {
		prom.InvoiceSave(opUpdate, prom.OutcomeError)
		return nil, nil, err
	}
	if err := s.checkChildIDs(ctx, id, items, receipts); err != nil {
		prom.InvoiceSave(opUpdate, prom.OutcomeError)
		return nil, nil, err
	}

	if !form.IsValid() || !receipts.IsValid() || !items.IsValid() {
		prom.InvoiceSave(opUpdate, prom.OutcomeInvalid)
		fc, err := s.boundContext(ctx, inv, form, items, receipts, "")
		if err != nil {
			return nil, nil, err
		}
		return nil, fc, ErrInvalidForm
	}

	in.Apply(inv)
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.invoiceRepo.Update(ctx, inv, in.Fields); err != nil {
			return errors.Wrap(err, "update invoice")
		}
		if err := s.applyReceiptRows(ctx, inv.ID, receiptRows); err != nil {
			return err
		}
		return s.applyItemRows(ctx, inv.ID, itemRows)
	})
	if err != nil {
		if errors.Is(err, repository.ErrInvoiceNotFound) {
			prom.InvoiceSave(opUpdate, prom.OutcomeNotFound)
			return nil, nil, ErrNotFound
		}
		// a child row vanished between the id check and the write
		staleReceipts := errors.Is(err, repository.ErrReceiptNotFound)
		staleItems := errors.Is(err, repository.ErrInvoiceItemNotFound)
		if !staleReceipts && !staleItems {
			prom.InvoiceSave(opUpdate, prom.OutcomeError)
			return nil, nil, err
		}
		logger.Warn("invoice update hit a missing child row", "invoice_id", inv.ID, "error", err)
		if staleReceipts {
			receipts.AddNonFormError(forms.MsgStaleRows)
		}
		if staleItems {
			items.AddNonFormError(forms.MsgStaleRows)
		}
		prom.InvoiceSave(opUpdate, prom.OutcomeInvalid)
		fc, err := s.boundContext(ctx, inv, form, items, receipts, "")
		if err != nil {
			return nil, nil, err
		}
		return nil, fc, ErrInvalidForm
	}

	prom.InvoiceSave(opUpdate, prom.OutcomeSaved)
	logger.Info("invoice updated", "invoice_id", inv.ID, "receipt_rows", len(receiptRows), "item_rows", len(itemRows))
	return inv, nil, nil
}

func (s *InvoiceService) applyReceiptRows(ctx context.Context, invoiceID int64, rows []model.ReceiptRow) error {
	for _, row := range rows {
		var err error
		switch {
		case row.Delete:
			err = s.receiptRepo.DeleteOfInvoice(ctx, invoiceID, row.ID)
		case row.ID > 0:
			err = s.receiptRepo.Update(ctx, row.Receipt(invoiceID))
		default:
			_, err = s.receiptRepo.Create(ctx, row.Receipt(invoiceID))
			if err == nil {
				prom.AmountPaid(row.AmountPaid.InexactFloat64())
			}
		}
		if err != nil {
			return errors.Wrapf(err, "save receipt row %d", row.ID)
		}
	}
	return nil
}

func (s *InvoiceService) applyItemRows(ctx context.Context, invoiceID int64, rows []model.InvoiceItemRow) error {
	for _, row := range rows {
		var err error
		switch {
		case row.Delete:
			err = s.itemRepo.Delete(ctx, invoiceID, row.ID)
		case row.ID > 0:
			err = s.itemRepo.Update(ctx, row.Item(invoiceID))
		default:
			_, err = s.itemRepo.Create(ctx, row.Item(invoiceID))
		}
		if err != nil {
			return errors.Wrapf(err, "save item row %d", row.ID)
		}
	}
	return nil
}

// Detail returns the invoice with its student, children and totals.
func (s *InvoiceService) Detail(ctx context.Context, id int64) (*model.InvoiceDetail, error) {
	inv, err := s.getInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	student, err := s.studentRepo.Get(ctx, inv.StudentID)
	if err != nil && !errors.Is(err, repository.ErrStudentNotFound) {
		return nil, errors.Wrap(err, "get student")
	}
	items, err := s.itemRepo.ListByInvoice(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "list invoice items")
	}
	receipts, err := s.receiptRepo.ListByInvoice(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "list receipts")
	}

	itemsTotal := decimal.Zero
	for _, it := range items {
		itemsTotal = itemsTotal.Add(it.Amount)
	}
	paid := decimal.Zero
	for _, r := range receipts {
		paid = paid.Add(r.AmountPaid)
	}

	return &model.InvoiceDetail{
		Invoice:       inv,
		Student:       student,
		Items:         items,
		Receipts:      receipts,
		InvoiceTotals: model.NewInvoiceTotals(inv.BalanceFromPreviousTerm, itemsTotal, paid),
	}, nil
}

// List returns every invoice with its student and totals.
func (s *InvoiceService) List(ctx context.Context) ([]*model.InvoiceSummary, error) {
	invoices, err := s.invoiceRepo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list invoices")
	}
	if len(invoices) == 0 {
		return []*model.InvoiceSummary{}, nil
	}

	ids := make([]int64, len(invoices))
	studentIDs := make([]int64, 0, len(invoices))
	for i, inv := range invoices {
		ids[i] = inv.ID
		studentIDs = append(studentIDs, inv.StudentID)
	}

	students, err := s.studentRepo.GetMany(ctx, studentIDs)
	if err != nil {
		return nil, errors.Wrap(err, "get students")
	}
	itemTotals, err := s.itemRepo.TotalsByInvoice(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "sum invoice items")
	}
	paidTotals, err := s.receiptRepo.TotalsByInvoice(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "sum receipts")
	}

	summaries := make([]*model.InvoiceSummary, len(invoices))
	for i, inv := range invoices {
		summaries[i] = &model.InvoiceSummary{
			Invoice:       inv,
			Student:       students[inv.StudentID],
			InvoiceTotals: model.NewInvoiceTotals(inv.BalanceFromPreviousTerm, itemTotals[inv.ID], paidTotals[inv.ID]),
		}
	}
	return summaries, nil
}

// DeleteForm returns what the delete confirmation shows.
func (s *InvoiceService) DeleteForm(ctx context.Context, id int64) (*model.InvoiceDetail, error) {
	return s.Detail(ctx, id)
}

// Delete removes the invoice with its items and receipts.
func (s *InvoiceService) Delete(ctx context.Context, id int64) error {
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.getInvoice(ctx, id); err != nil {
			return err
		}
		if err := s.itemRepo.DeleteByInvoice(ctx, id); err != nil {
			return errors.Wrap(err, "delete invoice items")
		}
		if err := s.receiptRepo.DeleteByInvoice(ctx, id); err != nil {
			return errors.Wrap(err, "delete receipts")
		}
		if err := s.invoiceRepo.Delete(ctx, id); err != nil {
			if errors.Is(err, repository.ErrInvoiceNotFound) {
				return ErrNotFound
			}
			return errors.Wrap(err, "delete invoice")
		}
		return nil
	})
	switch {
	case errors.Is(err, ErrNotFound):
		prom.InvoiceSave(opDelete, prom.OutcomeNotFound)
		return err
	case err != nil:
		prom.InvoiceSave(opDelete, prom.OutcomeError)
		return err
	}

	prom.InvoiceSave(opDelete, prom.OutcomeSaved)
	logger.Info("invoice deleted", "invoice_id", id)
	return nil
}

func (s *InvoiceService) getInvoice(ctx context.Context, id int64) (*model.Invoice, error) {
	inv, err := s.invoiceRepo.Get(ctx, id)
	if errors.Is(err, repository.ErrInvoiceNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "get invoice")
	}
	return inv, nil
}

// checkStudent adds a field error when a well-formed student id does not
// exist. Only store failures are returned.
func (s *InvoiceService) checkStudent(ctx context.Context, form *forms.Form) error {
	studentID, ok := form.IntValue("student")
	if !ok || len(form.ErrorsFor("student")) > 0 {
		return nil
	}
	_, err := s.studentRepo.Get(ctx, studentID)
	if errors.Is(err, repository.ErrStudentNotFound) {
		form.AddError("student", forms.MsgInvalidChoice)
		return nil
	}
	return errors.Wrap(err, "get student")
}

// checkChildIDs rejects rows naming a child of another invoice and rows
// repeating an id already used earlier in the same formset.
func (s *InvoiceService) checkChildIDs(ctx context.Context, invoiceID int64, items, receipts *forms.Formset) error {
	existingItems, err := s.itemRepo.ListByInvoice(ctx, invoiceID)
	if err != nil {
		return errors.Wrap(err, "list invoice items")
	}
	existingReceipts, err := s.receiptRepo.ListByInvoice(ctx, invoiceID)
	if err != nil {
		return errors.Wrap(err, "list receipts")
	}

	itemIDs := idSet(existingItems, func(it *model.InvoiceItem) int64 { return it.ID })
	receiptIDs := idSet(existingReceipts, func(r *model.Receipt) int64 { return r.ID })
	items.RejectUnknownIDs(func(id int64) bool { return itemIDs[id] })
	receipts.RejectUnknownIDs(func(id int64) bool { return receiptIDs[id] })
	items.RejectDuplicateIDs()
	receipts.RejectDuplicateIDs()
	return nil
}

func (s *InvoiceService) boundContext(ctx context.Context, inv *model.Invoice, form *forms.Form, items, receipts *forms.Formset, token string) (*InvoiceFormContext, error) {
	students, err := s.studentRepo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list students")
	}
	return &InvoiceFormContext{
		Invoice:  inv,
		Form:     form,
		Items:    items,
		Receipts: receipts,
		Students: students,
		Token:    token,
	}, nil
}
