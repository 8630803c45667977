package services

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/nimasrn/school-finance/internal/forms"
	"github.com/nimasrn/school-finance/internal/model"
	"github.com/nimasrn/school-finance/internal/repository"
	"github.com/nimasrn/school-finance/pkg/logger"
	"github.com/nimasrn/school-finance/pkg/prom"
	"github.com/pkg/errors"
)

// ReceiptFormContext is what the receipt pages render. Receipt is nil on create.
type ReceiptFormContext struct {
	Invoice *model.Invoice
	Student *model.Student
	Receipt *model.Receipt
	Form    *forms.Form
	Token   string
}

// ReceiptService records single receipts outside the invoice update page.
type ReceiptService struct {
	studentRepo StudentRepository
	invoiceRepo InvoiceRepository
	receiptRepo ReceiptRepository
	guard       SubmissionGuard
	now         func() time.Time
}

func NewReceiptService(studentRepo StudentRepository, invoiceRepo InvoiceRepository, receiptRepo ReceiptRepository, guard SubmissionGuard) *ReceiptService {
	return &ReceiptService{
		studentRepo: studentRepo,
		invoiceRepo: invoiceRepo,
		receiptRepo: receiptRepo,
		guard:       guard,
		now:         time.Now,
	}
}

// CreateForm returns a blank receipt for an existing invoice, dated today.
func (s *ReceiptService) CreateForm(ctx context.Context, invoiceID int64) (*ReceiptFormContext, error) {
	inv, err := s.getInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	return &ReceiptFormContext{
		Invoice: inv,
		Student: s.student(ctx, inv.StudentID),
		Form:    forms.NewReceiptForm(nil, s.now()),
		Token:   newToken(),
	}, nil
}

// Create attaches one receipt to invoiceID. The invoice is looked up before
// anything is bound, so an unknown invoice creates nothing.
func (s *ReceiptService) Create(ctx context.Context, invoiceID int64, values url.Values) (*model.Receipt, *ReceiptFormContext, error) {
	inv, err := s.getInvoice(ctx, invoiceID)
	if err != nil {
		prom.ReceiptSave(opCreate, prom.OutcomeNotFound)
		return nil, nil, err
	}

	token := values.Get(TokenField)
	sub, err := acquireSubmission(ctx, s.guard, "receipt:create:"+strconv.FormatInt(invoiceID, 10), token)
	if err != nil {
		return nil, nil, err
	}

	form, in := forms.BindReceipt(values)
	if !form.IsValid() {
		sub.release(ctx)
		prom.ReceiptSave(opCreate, prom.OutcomeInvalid)
		return nil, &ReceiptFormContext{
			Invoice: inv,
			Student: s.student(ctx, inv.StudentID),
			Form:    form,
			Token:   token,
		}, ErrInvalidForm
	}

	rec := &model.Receipt{InvoiceID: inv.ID}
	in.Apply(rec)
	created, err := s.receiptRepo.Create(ctx, rec)
	if err != nil {
		sub.release(ctx)
		prom.ReceiptSave(opCreate, prom.OutcomeError)
		return nil, nil, errors.Wrap(err, "create receipt")
	}

	sub.complete(ctx)
	prom.ReceiptSave(opCreate, prom.OutcomeSaved)
	prom.AmountPaid(created.AmountPaid.InexactFloat64())
	logger.Info("receipt created", "receipt_id", created.ID, "invoice_id", inv.ID, "amount_paid", created.AmountPaid.StringFixed(2))
	return created, nil, nil
}

func (s *ReceiptService) EditForm(ctx context.Context, id int64) (*ReceiptFormContext, error) {
	rec, inv, err := s.getReceipt(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ReceiptFormContext{
		Invoice: inv,
		Student: s.student(ctx, inv.StudentID),
		Receipt: rec,
		Form:    forms.NewReceiptForm(rec, s.now()),
	}, nil
}

func (s *ReceiptService) Update(ctx context.Context, id int64, values url.Values) (*model.Receipt, *ReceiptFormContext, error) {
	rec, inv, err := s.getReceipt(ctx, id)
	if err != nil {
		prom.ReceiptSave(opUpdate, prom.OutcomeNotFound)
		return nil, nil, err
	}

	form, in := forms.BindReceipt(values)
	if !form.IsValid() {
		prom.ReceiptSave(opUpdate, prom.OutcomeInvalid)
		return nil, &ReceiptFormContext{
			Invoice: inv,
			Student: s.student(ctx, inv.StudentID),
			Receipt: rec,
			Form:    form,
		}, ErrInvalidForm
	}

	in.Apply(rec)
	if err := s.receiptRepo.Update(ctx, rec); err != nil {
		if errors.Is(err, repository.ErrReceiptNotFound) {
			prom.ReceiptSave(opUpdate, prom.OutcomeNotFound)
			return nil, nil, ErrNotFound
		}
		prom.ReceiptSave(opUpdate, prom.OutcomeError)
		return nil, nil, errors.Wrap(err, "update receipt")
	}

	prom.ReceiptSave(opUpdate, prom.OutcomeSaved)
	logger.Info("receipt updated", "receipt_id", rec.ID, "invoice_id", rec.InvoiceID)
	return rec, nil, nil
}

// DeleteForm returns what the delete confirmation shows.
func (s *ReceiptService) DeleteForm(ctx context.Context, id int64) (*ReceiptFormContext, error) {
	rec, inv, err := s.getReceipt(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ReceiptFormContext{
		Invoice: inv,
		Student: s.student(ctx, inv.StudentID),
		Receipt: rec,
	}, nil
}

func (s *ReceiptService) Delete(ctx context.Context, id int64) error {
	err := s.receiptRepo.Delete(ctx, id)
	if errors.Is(err, repository.ErrReceiptNotFound) {
		prom.ReceiptSave(opDelete, prom.OutcomeNotFound)
		return ErrNotFound
	}
	if err != nil {
		prom.ReceiptSave(opDelete, prom.OutcomeError)
		return errors.Wrap(err, "delete receipt")
	}

	prom.ReceiptSave(opDelete, prom.OutcomeSaved)
	logger.Info("receipt deleted", "receipt_id", id)
	return nil
}

func (s *ReceiptService) getInvoice(ctx context.Context, id int64) (*model.Invoice, error) {
	inv, err := s.invoiceRepo.Get(ctx, id)
	if errors.Is(err, repository.ErrInvoiceNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "get invoice")
	}
	return inv, nil
}

func (s *ReceiptService) getReceipt(ctx context.Context, id int64) (*model.Receipt, *model.Invoice, error) {
	rec, err := s.receiptRepo.Get(ctx, id)
	if errors.Is(err, repository.ErrReceiptNotFound) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, errors.Wrap(err, "get receipt")
	}
	inv, err := s.getInvoice(ctx, rec.InvoiceID)
	if err != nil {
		return nil, nil, err
	}
	return rec, inv, nil
}

// student is display only; a lookup failure leaves the name blank.
func (s *ReceiptService) student(ctx context.Context, id int64) *model.Student {
	st, err := s.studentRepo.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, repository.ErrStudentNotFound) {
			logger.Warn("failed to load student", "student_id", id, "error", err)
		}
		return nil
	}
	return st
}
