package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/nimasrn/school-finance/internal/idempotency"
	"github.com/nimasrn/school-finance/internal/model"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrInvalidForm = errors.New("form is invalid")

	ErrAlreadySubmitted   = idempotency.ErrAlreadySubmitted
	ErrSubmissionInFlight = idempotency.ErrSubmissionInFlight
)

// TokenField is the hidden input carrying a create form's submission token.
const TokenField = "submission_token"

// Metric op labels.
const (
	opCreate = "create"
	opUpdate = "update"
	opDelete = "delete"
)

type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type StudentRepository interface {
	Get(ctx context.Context, id int64) (*model.Student, error)
	GetMany(ctx context.Context, ids []int64) (map[int64]*model.Student, error)
	List(ctx context.Context) ([]*model.Student, error)
}

type InvoiceRepository interface {
	Create(ctx context.Context, inv *model.Invoice) (*model.Invoice, error)
	Update(ctx context.Context, inv *model.Invoice, fields []string) error
	Get(ctx context.Context, id int64) (*model.Invoice, error)
	List(ctx context.Context) ([]*model.Invoice, error)
	Delete(ctx context.Context, id int64) error
}

type InvoiceItemRepository interface {
	Create(ctx context.Context, item *model.InvoiceItem) (*model.InvoiceItem, error)
	Update(ctx context.Context, item *model.InvoiceItem) error
	Delete(ctx context.Context, invoiceID, id int64) error
	DeleteByInvoice(ctx context.Context, invoiceID int64) error
	ListByInvoice(ctx context.Context, invoiceID int64) ([]*model.InvoiceItem, error)
	TotalsByInvoice(ctx context.Context, invoiceIDs []int64) (map[int64]decimal.Decimal, error)
}

type ReceiptRepository interface {
	Create(ctx context.Context, rec *model.Receipt) (*model.Receipt, error)
	Get(ctx context.Context, id int64) (*model.Receipt, error)
	Update(ctx context.Context, rec *model.Receipt) error
	Delete(ctx context.Context, id int64) error
	DeleteOfInvoice(ctx context.Context, invoiceID, id int64) error
	DeleteByInvoice(ctx context.Context, invoiceID int64) error
	ListByInvoice(ctx context.Context, invoiceID int64) ([]*model.Receipt, error)
	TotalsByInvoice(ctx context.Context, invoiceIDs []int64) (map[int64]decimal.Decimal, error)
}

// SubmissionGuard rejects a create form posted twice. A nil guard disables
// the check.
type SubmissionGuard interface {
	Acquire(ctx context.Context, key string) error
	Complete(ctx context.Context, key string) error
	Release(ctx context.Context, key string) error
}

func newToken() string {
	return uuid.NewString()
}

// submission wraps one guarded create. The zero value is a no-op.
type submission struct {
	guard SubmissionGuard
	key   string
}

func acquireSubmission(ctx context.Context, guard SubmissionGuard, scope, token string) (submission, error) {
	if guard == nil || token == "" {
		return submission{}, nil
	}
	if _, err := uuid.Parse(token); err != nil {
		// a token we never issued is treated like no token
		return submission{}, nil
	}
	key := scope + ":" + token
	if err := guard.Acquire(ctx, key); err != nil {
		return submission{}, err
	}
	return submission{guard: guard, key: key}, nil
}

func (s submission) complete(ctx context.Context) {
	if s.guard != nil {
		_ = s.guard.Complete(ctx, s.key)
	}
}

func (s submission) release(ctx context.Context) {
	if s.guard != nil {
		_ = s.guard.Release(ctx, s.key)
	}
}

func idSet[T any](rows []T, id func(T) int64) map[int64]bool {
	set := make(map[int64]bool, len(rows))
	for _, r := range rows {
		set[id(r)] = true
	}
	return set
}
