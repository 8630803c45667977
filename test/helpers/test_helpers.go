package helpers

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/nimasrn/school-finance/internal/model"
	"github.com/nimasrn/school-finance/internal/repository"
	"github.com/nimasrn/school-finance/pkg/pg"
	"github.com/nimasrn/school-finance/pkg/redis"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// SetupTestDB opens an in-memory sqlite database with the finance tables.
func SetupTestDB(t *testing.T) *pg.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// :memory: is per connection
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	err = db.AutoMigrate(
		&repository.StudentEntity{},
		&repository.InvoiceEntity{},
		&repository.InvoiceItemEntity{},
		&repository.ReceiptEntity{},
	)
	require.NoError(t, err)

	return pg.Wrap(db)
}

func SetupTestRedis(t *testing.T) (*miniredis.Miniredis, redis.RedisAdapter) {
	t.Helper()
	mr := miniredis.RunT(t)

	adapter, err := redis.NewRedisAdapter(context.Background(), "test", "finance:", &redis.Options{
		Addrs: []string{mr.Addr()},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = adapter.Close() })

	return mr, adapter
}

func CreateTestStudent(t *testing.T, db *pg.DB, regNo, first, last string) *model.Student {
	t.Helper()
	s, err := repository.NewStudentRepository(db).Create(context.Background(), &model.Student{
		RegistrationNumber: regNo,
		FirstName:          first,
		LastName:           last,
	})
	require.NoError(t, err)
	return s
}

func CreateTestInvoice(t *testing.T, db *pg.DB, studentID int64, term string, previous string) *model.Invoice {
	t.Helper()
	inv, err := repository.NewInvoiceRepository(db).Create(context.Background(), &model.Invoice{
		StudentID:               studentID,
		Session:                 "2023/2024",
		Term:                    term,
		ClassFor:                3,
		BalanceFromPreviousTerm: decimal.RequireFromString(previous),
	})
	require.NoError(t, err)
	return inv
}

func CreateTestItem(t *testing.T, db *pg.DB, invoiceID int64, description, amount string) *model.InvoiceItem {
	t.Helper()
	item, err := repository.NewInvoiceItemRepository(db).Create(context.Background(), &model.InvoiceItem{
		InvoiceID:   invoiceID,
		Description: description,
		Amount:      decimal.RequireFromString(amount),
	})
	require.NoError(t, err)
	return item
}

func CreateTestReceipt(t *testing.T, db *pg.DB, invoiceID int64, amount string, paid time.Time) *model.Receipt {
	t.Helper()
	r, err := repository.NewReceiptRepository(db).Create(context.Background(), &model.Receipt{
		InvoiceID:  invoiceID,
		AmountPaid: decimal.RequireFromString(amount),
		DatePaid:   paid,
	})
	require.NoError(t, err)
	return r
}

// Count returns the number of rows in table, optionally filtered by invoice.
func Count(t *testing.T, db *pg.DB, entity any, invoiceID int64) int64 {
	t.Helper()
	var n int64
	q := db.Read(context.Background()).Model(entity)
	if invoiceID > 0 {
		q = q.Where("invoice_id = ?", invoiceID)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}

func ContextWithTimeout(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}
