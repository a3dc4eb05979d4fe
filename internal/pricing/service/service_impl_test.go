package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/boqbill/boqbill/internal/actorcontext"
	"github.com/boqbill/boqbill/internal/clock"
	"github.com/boqbill/boqbill/internal/pricing/domain"
	pricingrepository "github.com/boqbill/boqbill/internal/pricing/repository"
	productdomain "github.com/boqbill/boqbill/internal/product/domain"
	productrepository "github.com/boqbill/boqbill/internal/product/repository"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupPricingService(t *testing.T, node *snowflake.Node, clk clock.Clock) (domain.Service, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&productdomain.Product{},
		&domain.Pricing{},
	))

	svc := New(Params{
		DB:          db,
		Log:         zap.NewNop(),
		GenID:       node,
		Clock:       clk,
		Repo:        pricingrepository.Provide(),
		ProductRepo: productrepository.Provide(),
	})

	return svc, db
}

func seedProduct(t *testing.T, db *gorm.DB, node *snowflake.Node, name string) productdomain.Product {
	t.Helper()

	product := productdomain.Product{
		ID:            node.Generate().Int64(),
		CompanyID:     node.Generate().Int64(),
		CategoryID:    node.Generate().Int64(),
		CategoryName:  "PVC Insulated Wires",
		Name:          name,
		Unit:          "Meter",
		Rate:          28.50,
		GSTPercentage: 18,
		IsActive:      true,
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func actorCtx(node *snowflake.Node) context.Context {
	return actorcontext.WithActorID(context.Background(), node.Generate().Int64())
}

func floatPtr(v float64) *float64 { return &v }

func strPtr(v string) *string { return &v }

func TestCreateRequiresActor(t *testing.T) {
	node := mustNode(t)
	clk := clock.NewFakeClock(time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC))
	svc, db := setupPricingService(t, node, clk)
	product := seedProduct(t, db, node, "PVC Insulated Wire - 1.5 sq mm")

	_, err := svc.Create(context.Background(), domain.CreateRequest{
		ProductID: snowflake.ID(product.ID).String(),
		BaseRate:  floatPtr(28.50),
	})
	assert.ErrorIs(t, err, domain.ErrMissingActor)
}

func TestCreateSnapshotsProductAndDefaults(t *testing.T) {
	node := mustNode(t)
	clk := clock.NewFakeClock(time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC))
	svc, db := setupPricingService(t, node, clk)
	product := seedProduct(t, db, node, "PVC Insulated Wire - 1.5 sq mm")

	resp, err := svc.Create(actorCtx(node), domain.CreateRequest{
		ProductID:     snowflake.ID(product.ID).String(),
		BaseRate:      floatPtr(28.50),
		GSTPercentage: floatPtr(18),
	})
	require.NoError(t, err)

	assert.Equal(t, "PVC Insulated Wire - 1.5 sq mm", resp.ProductName)
	assert.Equal(t, "Meter", resp.Unit)
	assert.Equal(t, domain.CustomerAll, resp.CustomerType)
	assert.Equal(t, domain.Copper, resp.Conductor)
	assert.True(t, resp.IsActive)
	assert.Equal(t, clk.Now(), resp.EffectiveFrom)
	assert.Nil(t, resp.EffectiveTo)
}

func TestCreateRejectsOverlappingWindow(t *testing.T) {
	node := mustNode(t)
	clk := clock.NewFakeClock(time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC))
	svc, db := setupPricingService(t, node, clk)
	product := seedProduct(t, db, node, "PVC Insulated Wire - 1.5 sq mm")

	ctx := actorCtx(node)
	_, err := svc.Create(ctx, domain.CreateRequest{
		ProductID: snowflake.ID(product.ID).String(),
		BaseRate:  floatPtr(28.50),
	})
	require.NoError(t, err)

	// Same product, variant, and segment with an open-ended window.
	_, err = svc.Create(ctx, domain.CreateRequest{
		ProductID: snowflake.ID(product.ID).String(),
		BaseRate:  floatPtr(30),
	})
	assert.ErrorIs(t, err, domain.ErrOverlappingPricing)
}

func TestCreateAllowsDisjointWindows(t *testing.T) {
	node := mustNode(t)
	clk := clock.NewFakeClock(time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC))
	svc, db := setupPricingService(t, node, clk)
	product := seedProduct(t, db, node, "PVC Insulated Wire - 1.5 sq mm")

	ctx := actorCtx(node)
	from1 := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	to1 := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)
	_, err := svc.Create(ctx, domain.CreateRequest{
		ProductID:     snowflake.ID(product.ID).String(),
		BaseRate:      floatPtr(28.50),
		EffectiveFrom: &from1,
		EffectiveTo:   &to1,
	})
	require.NoError(t, err)

	from2 := time.Date(2026, time.February, 2, 0, 0, 0, 0, time.UTC)
	_, err = svc.Create(ctx, domain.CreateRequest{
		ProductID:     snowflake.ID(product.ID).String(),
		BaseRate:      floatPtr(31.75),
		EffectiveFrom: &from2,
	})
	assert.NoError(t, err)

	// The windows touch at the boundary when the new plan starts the same
	// instant the old one expires; that still counts as a conflict.
	from3 := to1
	to3 := to1.Add(12 * time.Hour)
	_, err = svc.Create(ctx, domain.CreateRequest{
		ProductID:     snowflake.ID(product.ID).String(),
		BaseRate:      floatPtr(35),
		CustomerType:  "all",
		EffectiveFrom: &from3,
		EffectiveTo:   &to3,
	})
	assert.ErrorIs(t, err, domain.ErrOverlappingPricing)
}

func TestCreateAllowsDifferentSegments(t *testing.T) {
	node := mustNode(t)
	clk := clock.NewFakeClock(time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC))
	svc, db := setupPricingService(t, node, clk)
	product := seedProduct(t, db, node, "PVC Insulated Wire - 1.5 sq mm")

	ctx := actorCtx(node)
	_, err := svc.Create(ctx, domain.CreateRequest{
		ProductID:    snowflake.ID(product.ID).String(),
		BaseRate:     floatPtr(28.50),
		CustomerType: "retail",
	})
	require.NoError(t, err)

	_, err = svc.Create(ctx, domain.CreateRequest{
		ProductID:    snowflake.ID(product.ID).String(),
		BaseRate:     floatPtr(24.90),
		CustomerType: "wholesale",
	})
	assert.NoError(t, err)
}

func TestCalculateBaseRateWithGST(t *testing.T) {
	node := mustNode(t)
	clk := clock.NewFakeClock(time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC))
	svc, db := setupPricingService(t, node, clk)
	product := seedProduct(t, db, node, "PVC Insulated Wire - 1.5 sq mm")

	ctx := actorCtx(node)
	_, err := svc.Create(ctx, domain.CreateRequest{
		ProductID:     snowflake.ID(product.ID).String(),
		BaseRate:      floatPtr(28.50),
		GSTPercentage: floatPtr(18),
	})
	require.NoError(t, err)

	resp, err := svc.Calculate(ctx, domain.CalculateRequest{
		ProductID: snowflake.ID(product.ID).String(),
		Quantity:  floatPtr(10),
	})
	require.NoError(t, err)

	assert.InDelta(t, 285.00, resp.Calculation.TotalAmount, 0.001)
	assert.InDelta(t, 51.30, resp.Calculation.GSTAmount, 0.001)
	assert.InDelta(t, 336.30, resp.Calculation.GrandTotal, 0.001)
}

func TestCalculateTierFirstMatchWins(t *testing.T) {
	node := mustNode(t)
	clk := clock.NewFakeClock(time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC))
	svc, db := setupPricingService(t, node, clk)
	product := seedProduct(t, db, node, "Flexible Wire - 2.5 sq mm")

	ctx := actorCtx(node)
	_, err := svc.Create(ctx, domain.CreateRequest{
		ProductID: snowflake.ID(product.ID).String(),
		BaseRate:  floatPtr(120),
		VolumePricing: []domain.TierRequest{
			{MinQuantity: floatPtr(1), MaxQuantity: floatPtr(10), Rate: floatPtr(100)},
			{MinQuantity: floatPtr(5), MaxQuantity: floatPtr(20), Rate: floatPtr(90)},
			{MinQuantity: floatPtr(11), Rate: floatPtr(80)},
		},
	})
	require.NoError(t, err)

	// Quantity 7 matches the first tier even though the second also covers it.
	resp, err := svc.Calculate(ctx, domain.CalculateRequest{
		ProductID: snowflake.ID(product.ID).String(),
		Quantity:  floatPtr(7),
	})
	require.NoError(t, err)
	assert.InDelta(t, 100, resp.Calculation.Rate, 0.001)

	// Quantity 15 falls through to the second tier.
	resp, err = svc.Calculate(ctx, domain.CalculateRequest{
		ProductID: snowflake.ID(product.ID).String(),
		Quantity:  floatPtr(15),
	})
	require.NoError(t, err)
	assert.InDelta(t, 90, resp.Calculation.Rate, 0.001)

	// Quantity 25 is beyond every bounded tier; the open tier wins.
	resp, err = svc.Calculate(ctx, domain.CalculateRequest{
		ProductID: snowflake.ID(product.ID).String(),
		Quantity:  floatPtr(25),
	})
	require.NoError(t, err)
	assert.InDelta(t, 80, resp.Calculation.Rate, 0.001)

	// Quantity below every tier floor falls back to the base rate.
	resp, err = svc.Calculate(ctx, domain.CalculateRequest{
		ProductID: snowflake.ID(product.ID).String(),
		Quantity:  floatPtr(0.5),
	})
	require.NoError(t, err)
	assert.InDelta(t, 120, resp.Calculation.Rate, 0.001)
}

func TestCalculatePrefersSegmentOverAll(t *testing.T) {
	node := mustNode(t)
	clk := clock.NewFakeClock(time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC))
	svc, db := setupPricingService(t, node, clk)
	product := seedProduct(t, db, node, "PVC Insulated Wire - 1.5 sq mm")

	ctx := actorCtx(node)
	older := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	_, err := svc.Create(ctx, domain.CreateRequest{
		ProductID:     snowflake.ID(product.ID).String(),
		BaseRate:      floatPtr(28.50),
		EffectiveFrom: &older,
	})
	require.NoError(t, err)

	newer := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)
	_, err = svc.Create(ctx, domain.CreateRequest{
		ProductID:     snowflake.ID(product.ID).String(),
		BaseRate:      floatPtr(24.90),
		CustomerType:  "wholesale",
		EffectiveFrom: &newer,
	})
	require.NoError(t, err)

	// A wholesale buyer resolves the newer wholesale plan.
	resp, err := svc.Calculate(ctx, domain.CalculateRequest{
		ProductID:    snowflake.ID(product.ID).String(),
		Quantity:     floatPtr(1),
		CustomerType: "wholesale",
	})
	require.NoError(t, err)
	assert.InDelta(t, 24.90, resp.Calculation.Rate, 0.001)

	// A retail buyer only sees the "all" plan.
	resp, err = svc.Calculate(ctx, domain.CalculateRequest{
		ProductID:    snowflake.ID(product.ID).String(),
		Quantity:     floatPtr(1),
		CustomerType: "retail",
	})
	require.NoError(t, err)
	assert.InDelta(t, 28.50, resp.Calculation.Rate, 0.001)
}

func TestCalculateNoActivePricing(t *testing.T) {
	node := mustNode(t)
	clk := clock.NewFakeClock(time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC))
	svc, db := setupPricingService(t, node, clk)
	product := seedProduct(t, db, node, "PVC Insulated Wire - 1.5 sq mm")

	_, err := svc.Calculate(context.Background(), domain.CalculateRequest{
		ProductID: snowflake.ID(product.ID).String(),
		Quantity:  floatPtr(10),
	})
	assert.ErrorIs(t, err, domain.ErrNoActivePricing)
}

func TestCalculateIgnoresExpiredWindows(t *testing.T) {
	node := mustNode(t)
	clk := clock.NewFakeClock(time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC))
	svc, db := setupPricingService(t, node, clk)
	product := seedProduct(t, db, node, "PVC Insulated Wire - 1.5 sq mm")

	ctx := actorCtx(node)
	from := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)
	_, err := svc.Create(ctx, domain.CreateRequest{
		ProductID:     snowflake.ID(product.ID).String(),
		BaseRate:      floatPtr(28.50),
		EffectiveFrom: &from,
		EffectiveTo:   &to,
	})
	require.NoError(t, err)

	_, err = svc.Calculate(ctx, domain.CalculateRequest{
		ProductID: snowflake.ID(product.ID).String(),
		Quantity:  floatPtr(10),
	})
	assert.ErrorIs(t, err, domain.ErrNoActivePricing)

	// Asking as-of a covered instant resolves the expired plan.
	asOf := time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)
	resp, err := svc.Calculate(ctx, domain.CalculateRequest{
		ProductID: snowflake.ID(product.ID).String(),
		Quantity:  floatPtr(10),
		AsOf:      &asOf,
	})
	require.NoError(t, err)
	assert.InDelta(t, 28.50, resp.Calculation.Rate, 0.001)
}

func TestDeleteIsSoftAndIdempotent(t *testing.T) {
	node := mustNode(t)
	clk := clock.NewFakeClock(time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC))
	svc, db := setupPricingService(t, node, clk)
	product := seedProduct(t, db, node, "PVC Insulated Wire - 1.5 sq mm")

	ctx := actorCtx(node)
	created, err := svc.Create(ctx, domain.CreateRequest{
		ProductID: snowflake.ID(product.ID).String(),
		BaseRate:  floatPtr(28.50),
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))
	require.NoError(t, svc.Delete(ctx, created.ID))

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	// Soft-deleted plans no longer resolve.
	_, err = svc.Calculate(ctx, domain.CalculateRequest{
		ProductID: snowflake.ID(product.ID).String(),
		Quantity:  floatPtr(1),
	})
	assert.ErrorIs(t, err, domain.ErrNoActivePricing)
}

func TestUpdateReguardsWindowChange(t *testing.T) {
	node := mustNode(t)
	clk := clock.NewFakeClock(time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC))
	svc, db := setupPricingService(t, node, clk)
	product := seedProduct(t, db, node, "PVC Insulated Wire - 1.5 sq mm")

	ctx := actorCtx(node)
	from1 := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	to1 := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)
	_, err := svc.Create(ctx, domain.CreateRequest{
		ProductID:     snowflake.ID(product.ID).String(),
		BaseRate:      floatPtr(28.50),
		EffectiveFrom: &from1,
		EffectiveTo:   &to1,
	})
	require.NoError(t, err)

	from2 := time.Date(2026, time.February, 2, 0, 0, 0, 0, time.UTC)
	second, err := svc.Create(ctx, domain.CreateRequest{
		ProductID:     snowflake.ID(product.ID).String(),
		BaseRate:      floatPtr(31.75),
		EffectiveFrom: &from2,
	})
	require.NoError(t, err)

	// Sliding the second window back over the first must fail.
	earlier := time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)
	_, err = svc.Update(ctx, second.ID, domain.UpdateRequest{
		EffectiveFrom: &earlier,
	})
	assert.ErrorIs(t, err, domain.ErrOverlappingPricing)

	// A rate change that leaves the window alone is fine.
	updated, err := svc.Update(ctx, second.ID, domain.UpdateRequest{
		BaseRate: floatPtr(33),
	})
	require.NoError(t, err)
	assert.InDelta(t, 33, updated.BaseRate, 0.001)
}

func TestHistoryNewestFirst(t *testing.T) {
	node := mustNode(t)
	clk := clock.NewFakeClock(time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC))
	svc, db := setupPricingService(t, node, clk)
	product := seedProduct(t, db, node, "PVC Insulated Wire - 1.5 sq mm")

	ctx := actorCtx(node)
	for i, rate := range []float64{28.50, 30.25, 31.90} {
		from := time.Date(2026, time.January+time.Month(i), 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2026, time.February+time.Month(i), 1, 0, 0, 0, 0, time.UTC)
		_, err := svc.Create(ctx, domain.CreateRequest{
			ProductID:     snowflake.ID(product.ID).String(),
			BaseRate:      floatPtr(rate),
			EffectiveFrom: &from,
			EffectiveTo:   &to,
		})
		require.NoError(t, err)
	}

	history, err := svc.History(ctx, snowflake.ID(product.ID).String(), 0)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.InDelta(t, 31.90, history[0].BaseRate, 0.001)
	assert.InDelta(t, 28.50, history[2].BaseRate, 0.001)

	limited, err := svc.History(ctx, snowflake.ID(product.ID).String(), 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestTierValidation(t *testing.T) {
	node := mustNode(t)
	clk := clock.NewFakeClock(time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC))
	svc, db := setupPricingService(t, node, clk)
	product := seedProduct(t, db, node, "PVC Insulated Wire - 1.5 sq mm")

	ctx := actorCtx(node)

	_, err := svc.Create(ctx, domain.CreateRequest{
		ProductID: snowflake.ID(product.ID).String(),
		BaseRate:  floatPtr(28.50),
		VolumePricing: []domain.TierRequest{
			{MinQuantity: floatPtr(10), MaxQuantity: floatPtr(5), Rate: floatPtr(20)},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTierRange)

	_, err = svc.Create(ctx, domain.CreateRequest{
		ProductID: snowflake.ID(product.ID).String(),
		BaseRate:  floatPtr(28.50),
		VolumePricing: []domain.TierRequest{
			{MinQuantity: floatPtr(1), Rate: floatPtr(-5)},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTierRate)

	// Tiers describe "buy N or more"; a zero floor is a missing floor.
	_, err = svc.Create(ctx, domain.CreateRequest{
		ProductID: snowflake.ID(product.ID).String(),
		BaseRate:  floatPtr(28.50),
		VolumePricing: []domain.TierRequest{
			{MinQuantity: floatPtr(0), Rate: floatPtr(20)},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTierQuantity)

	_, err = svc.Create(ctx, domain.CreateRequest{
		ProductID: snowflake.ID(product.ID).String(),
		BaseRate:  floatPtr(28.50),
		VolumePricing: []domain.TierRequest{
			{MinQuantity: floatPtr(5), MaxQuantity: floatPtr(5), Rate: floatPtr(20)},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTierRange)
}

func TestListDefaultsToCurrentWindow(t *testing.T) {
	node := mustNode(t)
	clk := clock.NewFakeClock(time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC))
	svc, db := setupPricingService(t, node, clk)
	product := seedProduct(t, db, node, "PVC Insulated Wire - 1.5 sq mm")

	ctx := actorCtx(node)

	from := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)
	_, err := svc.Create(ctx, domain.CreateRequest{
		ProductID:     snowflake.ID(product.ID).String(),
		BaseRate:      floatPtr(28.50),
		EffectiveFrom: &from,
		EffectiveTo:   &to,
	})
	require.NoError(t, err)

	listed, err := svc.List(ctx, domain.ListRequest{
		ProductID: snowflake.ID(product.ID).String(),
	})
	require.NoError(t, err)
	assert.Empty(t, listed)

	asOf := time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)
	listed, err = svc.List(ctx, domain.ListRequest{
		ProductID: snowflake.ID(product.ID).String(),
		AsOf:      &asOf,
	})
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

func TestVariantAndSpecificationLengthCaps(t *testing.T) {
	node := mustNode(t)
	clk := clock.NewFakeClock(time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC))
	svc, db := setupPricingService(t, node, clk)
	product := seedProduct(t, db, node, "PVC Insulated Wire - 1.5 sq mm")

	ctx := actorCtx(node)

	_, err := svc.Create(ctx, domain.CreateRequest{
		ProductID: snowflake.ID(product.ID).String(),
		BaseRate:  floatPtr(28.50),
		Variant:   strings.Repeat("x", 150),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidVariant)

	_, err = svc.Create(ctx, domain.CreateRequest{
		ProductID:     snowflake.ID(product.ID).String(),
		BaseRate:      floatPtr(28.50),
		Specification: strings.Repeat("x", 250),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidSpecification)

	created, err := svc.Create(ctx, domain.CreateRequest{
		ProductID: snowflake.ID(product.ID).String(),
		BaseRate:  floatPtr(28.50),
		Variant:   strings.Repeat("x", 100),
	})
	require.NoError(t, err)

	_, err = svc.Update(ctx, created.ID, domain.UpdateRequest{
		Variant: strPtr(strings.Repeat("y", 101)),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidVariant)

	_, err = svc.Update(ctx, created.ID, domain.UpdateRequest{
		Specification: strPtr(strings.Repeat("y", 201)),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidSpecification)
}

func mustNode(t *testing.T) *snowflake.Node {
	t.Helper()
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}
	return node
}
