package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/boqbill/boqbill/internal/actorcontext"
	"github.com/boqbill/boqbill/internal/bill/domain"
	billrepository "github.com/boqbill/boqbill/internal/bill/repository"
	templatedomain "github.com/boqbill/boqbill/internal/billtemplate/domain"
	templaterepository "github.com/boqbill/boqbill/internal/billtemplate/repository"
	"github.com/boqbill/boqbill/internal/clock"
	companydomain "github.com/boqbill/boqbill/internal/company/domain"
	companyrepository "github.com/boqbill/boqbill/internal/company/repository"
	pricingdomain "github.com/boqbill/boqbill/internal/pricing/domain"
	pricingrepository "github.com/boqbill/boqbill/internal/pricing/repository"
	pricingservice "github.com/boqbill/boqbill/internal/pricing/service"
	productdomain "github.com/boqbill/boqbill/internal/product/domain"
	productrepository "github.com/boqbill/boqbill/internal/product/repository"
	"github.com/boqbill/boqbill/internal/providers/pdf"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type billFixture struct {
	svc     domain.Service
	pricing pricingdomain.Service
	db      *gorm.DB
	node    *snowflake.Node
	clk     *clock.FakeClock
	company companydomain.Company
	product productdomain.Product
}

func setupBillService(t *testing.T) billFixture {
	t.Helper()

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	clk := clock.NewFakeClock(time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC))

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&companydomain.Company{},
		&productdomain.Product{},
		&pricingdomain.Pricing{},
		&templatedomain.BillTemplate{},
		&domain.Bill{},
	))

	pricingSvc := pricingservice.New(pricingservice.Params{
		DB:          db,
		Log:         zap.NewNop(),
		GenID:       node,
		Clock:       clk,
		Repo:        pricingrepository.Provide(),
		ProductRepo: productrepository.Provide(),
	})

	svc := New(Params{
		DB:           db,
		Log:          zap.NewNop(),
		GenID:        node,
		Clock:        clk,
		Repo:         billrepository.Provide(),
		CompanyRepo:  companyrepository.Provide(),
		TemplateRepo: templaterepository.Provide(),
		ProductRepo:  productrepository.Provide(),
		Pricing:      pricingSvc,
		PDF:          pdf.New(),
	})

	company := companydomain.Company{
		ID:        node.Generate().Int64(),
		Name:      "Demo Wire Traders",
		Slug:      "demo-wire-traders",
		Branding:  datatypes.NewJSONType(companydomain.DefaultBranding()),
		PDFLayout: datatypes.NewJSONType(companydomain.DefaultPDFLayout()),
		IsActive:  true,
	}
	require.NoError(t, db.Create(&company).Error)

	product := productdomain.Product{
		ID:            node.Generate().Int64(),
		CompanyID:     company.ID,
		CategoryID:    node.Generate().Int64(),
		CategoryName:  "PVC Insulated Wires",
		Name:          "PVC Insulated Wire - 1.5 sq mm",
		Unit:          "Meter",
		Rate:          28.50,
		GSTPercentage: 18,
		IsActive:      true,
	}
	require.NoError(t, db.Create(&product).Error)

	return billFixture{svc: svc, pricing: pricingSvc, db: db, node: node, clk: clk, company: company, product: product}
}

func (f billFixture) createRequest(items ...domain.ItemRequest) domain.CreateRequest {
	return domain.CreateRequest{
		CompanyID:    snowflake.ID(f.company.ID).String(),
		CustomerInfo: domain.CustomerInfo{Name: "Sharma Electricals"},
		Items:        items,
	}
}

func explicitItem(productID int64, quantity, rate float64) domain.ItemRequest {
	q, r := quantity, rate
	return domain.ItemRequest{
		ProductID: snowflake.ID(productID).String(),
		Quantity:  &q,
		Rate:      &r,
	}
}

func TestCreateBillTotalsAndNumbering(t *testing.T) {
	f := setupBillService(t)
	ctx := context.Background()

	resp, err := f.svc.Create(ctx, f.createRequest(
		explicitItem(f.product.ID, 100, 28.50),
	))
	require.NoError(t, err)

	assert.Equal(t, "BILL-2026-0001", resp.BillNumber)
	assert.Equal(t, domain.StatusDraft, resp.Status)
	assert.Equal(t, domain.PaymentUnpaid, resp.PaymentStatus)
	require.Len(t, resp.Items, 1)

	// 100 m at 28.50 with the product's 18% GST.
	assert.InDelta(t, 2850.00, resp.Subtotal, 0.001)
	assert.InDelta(t, 513.00, resp.TotalGST, 0.001)
	assert.InDelta(t, 3363.00, resp.GrandTotal, 0.001)

	second, err := f.svc.Create(ctx, f.createRequest(
		explicitItem(f.product.ID, 10, 28.50),
	))
	require.NoError(t, err)
	assert.Equal(t, "BILL-2026-0002", second.BillNumber)
}

func TestCreateBillResolvesRateFromPricing(t *testing.T) {
	f := setupBillService(t)
	ctx := actorcontext.WithActorID(context.Background(), f.node.Generate().Int64())

	rate := 24.90
	_, err := f.pricing.Create(ctx, pricingdomain.CreateRequest{
		ProductID:     snowflake.ID(f.product.ID).String(),
		BaseRate:      &rate,
		GSTPercentage: func() *float64 { v := 18.0; return &v }(),
		CustomerType:  "wholesale",
	})
	require.NoError(t, err)

	quantity := 50.0
	resp, err := f.svc.Create(ctx, domain.CreateRequest{
		CompanyID:    snowflake.ID(f.company.ID).String(),
		CustomerInfo: domain.CustomerInfo{Name: "Gupta Traders"},
		CustomerType: "wholesale",
		Items: []domain.ItemRequest{
			{ProductID: snowflake.ID(f.product.ID).String(), Quantity: &quantity},
		},
	})
	require.NoError(t, err)

	require.Len(t, resp.Items, 1)
	assert.InDelta(t, 24.90, resp.Items[0].Rate, 0.001)
	assert.InDelta(t, 1245.00, resp.Subtotal, 0.001)
}

func TestCreateBillValidation(t *testing.T) {
	f := setupBillService(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, domain.CreateRequest{
		CompanyID:    snowflake.ID(f.company.ID).String(),
		CustomerInfo: domain.CustomerInfo{Name: "Sharma Electricals"},
	})
	assert.ErrorIs(t, err, domain.ErrMissingItems)

	_, err = f.svc.Create(ctx, domain.CreateRequest{
		CompanyID: snowflake.ID(f.company.ID).String(),
		Items:     []domain.ItemRequest{explicitItem(f.product.ID, 1, 10)},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCustomer)

	zero := 0.0
	ten := 10.0
	_, err = f.svc.Create(ctx, f.createRequest(domain.ItemRequest{
		ProductID: snowflake.ID(f.product.ID).String(),
		Quantity:  &zero,
		Rate:      &ten,
	}))
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestFinalizeLocksContent(t *testing.T) {
	f := setupBillService(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.createRequest(explicitItem(f.product.ID, 10, 28.50)))
	require.NoError(t, err)

	finalized, err := f.svc.Finalize(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFinalized, finalized.Status)

	_, err = f.svc.Finalize(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyFinal)

	discount := 100.0
	_, err = f.svc.Update(ctx, created.ID, domain.UpdateRequest{Discount: &discount})
	assert.ErrorIs(t, err, domain.ErrNotDraft)
}

func TestDeleteCancelsBill(t *testing.T) {
	f := setupBillService(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.createRequest(explicitItem(f.product.ID, 10, 28.50)))
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, created.ID))
	require.NoError(t, f.svc.Delete(ctx, created.ID))

	got, err := f.svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, got.Status)
}

func TestExportCSVContainsBillLines(t *testing.T) {
	f := setupBillService(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.createRequest(explicitItem(f.product.ID, 10, 28.50)))
	require.NoError(t, err)

	data, err := f.svc.ExportCSV(ctx, created.ID)
	require.NoError(t, err)

	csv := string(data)
	assert.True(t, strings.Contains(csv, created.BillNumber))
	assert.True(t, strings.Contains(csv, "PVC Insulated Wire - 1.5 sq mm"))
	assert.True(t, strings.Contains(csv, "285.00"))
}

func TestRenderPDFProducesDocument(t *testing.T) {
	f := setupBillService(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.createRequest(explicitItem(f.product.ID, 10, 28.50)))
	require.NoError(t, err)

	data, err := f.svc.RenderPDF(ctx, created.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))
}

func TestRecomputeTotalsAppliesDiscount(t *testing.T) {
	b := domain.Bill{
		Items: datatypes.NewJSONSlice([]domain.Item{
			{Amount: 1000, GSTAmount: 180},
			{Amount: 500, GSTAmount: 90},
		}),
		Discount: 70,
	}
	b.RecomputeTotals()

	assert.InDelta(t, 1500, b.Subtotal, 0.001)
	assert.InDelta(t, 270, b.TotalGST, 0.001)
	assert.InDelta(t, 1700, b.GrandTotal, 0.001)
}
