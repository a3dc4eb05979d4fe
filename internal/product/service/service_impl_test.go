package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	categorydomain "github.com/boqbill/boqbill/internal/category/domain"
	categoryrepository "github.com/boqbill/boqbill/internal/category/repository"
	"github.com/boqbill/boqbill/internal/clock"
	companydomain "github.com/boqbill/boqbill/internal/company/domain"
	companyrepository "github.com/boqbill/boqbill/internal/company/repository"
	"github.com/boqbill/boqbill/internal/product/domain"
	productrepository "github.com/boqbill/boqbill/internal/product/repository"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type productFixture struct {
	svc      domain.Service
	db       *gorm.DB
	node     *snowflake.Node
	company  companydomain.Company
	category categorydomain.Category
}

func setupProductService(t *testing.T) productFixture {
	t.Helper()

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	clk := clock.NewFakeClock(time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC))

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&companydomain.Company{},
		&categorydomain.Category{},
		&domain.Product{},
	))

	svc := New(Params{
		DB:           db,
		Log:          zap.NewNop(),
		GenID:        node,
		Clock:        clk,
		Repo:         productrepository.Provide(),
		CompanyRepo:  companyrepository.Provide(),
		CategoryRepo: categoryrepository.Provide(),
	})

	company := companydomain.Company{
		ID:       node.Generate().Int64(),
		Name:     "Demo Wire Traders",
		Slug:     "demo-wire-traders",
		IsActive: true,
	}
	require.NoError(t, db.Create(&company).Error)

	category := categorydomain.Category{
		ID:        node.Generate().Int64(),
		CompanyID: company.ID,
		Name:      "PVC Insulated Wires",
		IsActive:  true,
	}
	require.NoError(t, db.Create(&category).Error)

	return productFixture{svc: svc, db: db, node: node, company: company, category: category}
}

func ratePtr(v float64) *float64 { return &v }

func TestProductCreateSnapshotsCategoryName(t *testing.T) {
	f := setupProductService(t)
	ctx := context.Background()

	resp, err := f.svc.Create(ctx, domain.CreateRequest{
		CompanyID:     snowflake.ID(f.company.ID).String(),
		CategoryID:    snowflake.ID(f.category.ID).String(),
		Name:          "PVC Insulated Wire - 1.5 sq mm",
		Unit:          "Meter",
		Rate:          ratePtr(28.50),
		GSTPercentage: ratePtr(18),
		HSNCode:       "85444910",
	})
	require.NoError(t, err)

	assert.Equal(t, "PVC Insulated Wires", resp.CategoryName)
	assert.True(t, resp.IsActive)
}

func TestProductDuplicateNameInCategory(t *testing.T) {
	f := setupProductService(t)
	ctx := context.Background()

	req := domain.CreateRequest{
		CompanyID:  snowflake.ID(f.company.ID).String(),
		CategoryID: snowflake.ID(f.category.ID).String(),
		Name:       "PVC Insulated Wire - 1.5 sq mm",
		Unit:       "Meter",
		Rate:       ratePtr(28.50),
	}
	_, err := f.svc.Create(ctx, req)
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrDuplicateName)
}

func TestProductValidation(t *testing.T) {
	f := setupProductService(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, domain.CreateRequest{
		CompanyID:  snowflake.ID(f.company.ID).String(),
		CategoryID: snowflake.ID(f.category.ID).String(),
		Name:       "PVC Insulated Wire - 1.5 sq mm",
		Unit:       "Meter",
		Rate:       ratePtr(-1),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidRate)

	_, err = f.svc.Create(ctx, domain.CreateRequest{
		CompanyID:  snowflake.ID(f.company.ID).String(),
		CategoryID: snowflake.ID(f.category.ID).String(),
		Name:       "PVC Insulated Wire - 1.5 sq mm",
		Rate:       ratePtr(28.50),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidUnit)

	_, err = f.svc.Create(ctx, domain.CreateRequest{
		CompanyID:  snowflake.ID(f.company.ID).String(),
		CategoryID: snowflake.ID(f.node.Generate().Int64()).String(),
		Name:       "PVC Insulated Wire - 1.5 sq mm",
		Unit:       "Meter",
		Rate:       ratePtr(28.50),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCategory)
}

func TestProductListBySearchAndCategory(t *testing.T) {
	f := setupProductService(t)
	ctx := context.Background()

	names := []string{
		"PVC Insulated Wire - 1.5 sq mm",
		"PVC Insulated Wire - 2.5 sq mm",
		"Flexible Wire - 1.5 sq mm",
	}
	for _, name := range names {
		_, err := f.svc.Create(ctx, domain.CreateRequest{
			CompanyID:  snowflake.ID(f.company.ID).String(),
			CategoryID: snowflake.ID(f.category.ID).String(),
			Name:       name,
			Unit:       "Meter",
			Rate:       ratePtr(28.50),
		})
		require.NoError(t, err)
	}

	matches, err := f.svc.List(ctx, domain.ListRequest{Search: "Flexible"})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Flexible Wire - 1.5 sq mm", matches[0].Name)

	byCategory, err := f.svc.ByCategory(ctx, snowflake.ID(f.category.ID).String(), nil)
	require.NoError(t, err)
	assert.Len(t, byCategory, 3)
}

func TestProductDeleteIsSoft(t *testing.T) {
	f := setupProductService(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, domain.CreateRequest{
		CompanyID:  snowflake.ID(f.company.ID).String(),
		CategoryID: snowflake.ID(f.category.ID).String(),
		Name:       "PVC Insulated Wire - 1.5 sq mm",
		Unit:       "Meter",
		Rate:       ratePtr(28.50),
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, created.ID))

	got, err := f.svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	active, err := f.svc.List(ctx, domain.ListRequest{})
	require.NoError(t, err)
	assert.Empty(t, active)
}
