package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	billdomain "github.com/boqbill/boqbill/internal/bill/domain"
	billrepository "github.com/boqbill/boqbill/internal/bill/repository"
	"github.com/boqbill/boqbill/internal/clock"
	"github.com/boqbill/boqbill/internal/payment/domain"
	paymentrepository "github.com/boqbill/boqbill/internal/payment/repository"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func setupPaymentService(t *testing.T) (domain.Service, *gorm.DB, *snowflake.Node) {
	t.Helper()

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	clk := clock.NewFakeClock(time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC))

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&billdomain.Bill{}, &domain.Payment{}))

	svc := New(Params{
		DB:       db,
		Log:      zap.NewNop(),
		GenID:    node,
		Clock:    clk,
		Repo:     paymentrepository.Provide(),
		BillRepo: billrepository.Provide(),
	})

	return svc, db, node
}

func seedBill(t *testing.T, db *gorm.DB, node *snowflake.Node, status billdomain.Status, grandTotal float64) billdomain.Bill {
	t.Helper()

	id := node.Generate().Int64()
	bill := billdomain.Bill{
		ID:            id,
		CompanyID:     node.Generate().Int64(),
		BillNumber:    fmt.Sprintf("BILL-2026-%d", id),
		BillYear:      2026,
		BillSequence:  1,
		CustomerInfo:  datatypes.NewJSONType(billdomain.CustomerInfo{Name: "Sharma Electricals"}),
		BillDate:      time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC),
		Subtotal:      grandTotal,
		GrandTotal:    grandTotal,
		Status:        status,
		PaymentStatus: billdomain.PaymentUnpaid,
	}
	require.NoError(t, db.Create(&bill).Error)
	return bill
}

func amountPtr(v float64) *float64 { return &v }

func TestCreatePaymentMovesBillStatus(t *testing.T) {
	svc, db, node := setupPaymentService(t)
	ctx := context.Background()
	bill := seedBill(t, db, node, billdomain.StatusFinalized, 1000)

	partial, err := svc.Create(ctx, domain.CreateRequest{
		BillID: snowflake.ID(bill.ID).String(),
		Amount: amountPtr(400),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.MethodBankTransfer, partial.PaymentMethod)

	var updated billdomain.Bill
	require.NoError(t, db.First(&updated, bill.ID).Error)
	assert.Equal(t, billdomain.PaymentPartiallyPaid, updated.PaymentStatus)
	assert.Equal(t, billdomain.StatusPartiallyPaid, updated.Status)
	assert.InDelta(t, 400, updated.PaidAmount, 0.001)
	assert.InDelta(t, 600, updated.Outstanding(), 0.001)

	_, err = svc.Create(ctx, domain.CreateRequest{
		BillID:        snowflake.ID(bill.ID).String(),
		Amount:        amountPtr(600),
		PaymentMethod: "upi",
	})
	require.NoError(t, err)

	require.NoError(t, db.First(&updated, bill.ID).Error)
	assert.Equal(t, billdomain.PaymentPaid, updated.PaymentStatus)
	assert.Equal(t, billdomain.StatusPaid, updated.Status)
	assert.InDelta(t, 0, updated.Outstanding(), 0.001)
}

func TestCreatePaymentRejectsOverpayment(t *testing.T) {
	svc, db, node := setupPaymentService(t)
	ctx := context.Background()
	bill := seedBill(t, db, node, billdomain.StatusFinalized, 500)

	_, err := svc.Create(ctx, domain.CreateRequest{
		BillID: snowflake.ID(bill.ID).String(),
		Amount: amountPtr(500.01),
	})
	assert.ErrorIs(t, err, domain.ErrOverpayment)

	// The rejected payment must leave the bill untouched.
	var updated billdomain.Bill
	require.NoError(t, db.First(&updated, bill.ID).Error)
	assert.InDelta(t, 0, updated.PaidAmount, 0.001)
	assert.Equal(t, billdomain.PaymentUnpaid, updated.PaymentStatus)
}

func TestCreatePaymentRequiresOpenBill(t *testing.T) {
	svc, db, node := setupPaymentService(t)
	ctx := context.Background()

	draft := seedBill(t, db, node, billdomain.StatusDraft, 500)
	_, err := svc.Create(ctx, domain.CreateRequest{
		BillID: snowflake.ID(draft.ID).String(),
		Amount: amountPtr(100),
	})
	assert.ErrorIs(t, err, domain.ErrBillNotOpen)

	cancelled := seedBill(t, db, node, billdomain.StatusCancelled, 500)
	_, err = svc.Create(ctx, domain.CreateRequest{
		BillID: snowflake.ID(cancelled.ID).String(),
		Amount: amountPtr(100),
	})
	assert.ErrorIs(t, err, domain.ErrBillNotOpen)
}

func TestCreatePaymentValidation(t *testing.T) {
	svc, db, node := setupPaymentService(t)
	ctx := context.Background()
	bill := seedBill(t, db, node, billdomain.StatusFinalized, 500)

	_, err := svc.Create(ctx, domain.CreateRequest{
		BillID: snowflake.ID(bill.ID).String(),
		Amount: amountPtr(0),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = svc.Create(ctx, domain.CreateRequest{
		BillID:        snowflake.ID(bill.ID).String(),
		Amount:        amountPtr(100),
		PaymentMethod: "barter",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidMethod)
}

func TestListPaymentsByBill(t *testing.T) {
	svc, db, node := setupPaymentService(t)
	ctx := context.Background()
	bill := seedBill(t, db, node, billdomain.StatusFinalized, 1000)
	other := seedBill(t, db, node, billdomain.StatusFinalized, 1000)

	for _, amount := range []float64{100, 200} {
		_, err := svc.Create(ctx, domain.CreateRequest{
			BillID: snowflake.ID(bill.ID).String(),
			Amount: amountPtr(amount),
		})
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, domain.CreateRequest{
		BillID: snowflake.ID(other.ID).String(),
		Amount: amountPtr(50),
	})
	require.NoError(t, err)

	payments, err := svc.List(ctx, domain.ListRequest{BillID: snowflake.ID(bill.ID).String()})
	require.NoError(t, err)
	assert.Len(t, payments, 2)
}
