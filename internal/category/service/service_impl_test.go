package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/boqbill/boqbill/internal/category/domain"
	categoryrepository "github.com/boqbill/boqbill/internal/category/repository"
	"github.com/boqbill/boqbill/internal/clock"
	companydomain "github.com/boqbill/boqbill/internal/company/domain"
	companyrepository "github.com/boqbill/boqbill/internal/company/repository"
	productdomain "github.com/boqbill/boqbill/internal/product/domain"
	productrepository "github.com/boqbill/boqbill/internal/product/repository"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupCategoryService(t *testing.T) (domain.Service, *gorm.DB, *snowflake.Node, companydomain.Company) {
	t.Helper()

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	clk := clock.NewFakeClock(time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC))

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&companydomain.Company{},
		&domain.Category{},
		&productdomain.Product{},
	))

	svc := New(Params{
		DB:          db,
		Log:         zap.NewNop(),
		GenID:       node,
		Clock:       clk,
		Repo:        categoryrepository.Provide(),
		CompanyRepo: companyrepository.Provide(),
		ProductRepo: productrepository.Provide(),
	})

	company := companydomain.Company{
		ID:       node.Generate().Int64(),
		Name:     "Demo Wire Traders",
		Slug:     "demo-wire-traders",
		IsActive: true,
	}
	require.NoError(t, db.Create(&company).Error)

	return svc, db, node, company
}

func TestCategoryCreateAndChildren(t *testing.T) {
	svc, _, _, company := setupCategoryService(t)
	ctx := context.Background()

	root, err := svc.Create(ctx, domain.CreateRequest{
		CompanyID: snowflake.ID(company.ID).String(),
		Name:      "Electrical Wires & Cables",
	})
	require.NoError(t, err)

	child, err := svc.Create(ctx, domain.CreateRequest{
		CompanyID: snowflake.ID(company.ID).String(),
		Name:      "PVC Insulated Wires",
		ParentID:  &root.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, child.ParentID)
	assert.Equal(t, root.ID, *child.ParentID)

	children, err := svc.Children(ctx, root.ID)
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, "PVC Insulated Wires", children[0].Name)
}

func TestCategoryDuplicateNameRejected(t *testing.T) {
	svc, _, _, company := setupCategoryService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateRequest{
		CompanyID: snowflake.ID(company.ID).String(),
		Name:      "Flexible Wires",
	})
	require.NoError(t, err)

	_, err = svc.Create(ctx, domain.CreateRequest{
		CompanyID: snowflake.ID(company.ID).String(),
		Name:      "Flexible Wires",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateName)
}

func TestCategoryDeleteGuards(t *testing.T) {
	svc, db, node, company := setupCategoryService(t)
	ctx := context.Background()

	root, err := svc.Create(ctx, domain.CreateRequest{
		CompanyID: snowflake.ID(company.ID).String(),
		Name:      "Electrical Wires & Cables",
	})
	require.NoError(t, err)

	child, err := svc.Create(ctx, domain.CreateRequest{
		CompanyID: snowflake.ID(company.ID).String(),
		Name:      "PVC Insulated Wires",
		ParentID:  &root.ID,
	})
	require.NoError(t, err)

	// A category with subcategories cannot be deleted.
	err = svc.Delete(ctx, root.ID)
	assert.ErrorIs(t, err, domain.ErrHasSubcategories)

	// A category with products cannot be deleted.
	childID, err := snowflake.ParseString(child.ID)
	require.NoError(t, err)
	product := productdomain.Product{
		ID:           node.Generate().Int64(),
		CompanyID:    company.ID,
		CategoryID:   childID.Int64(),
		CategoryName: "PVC Insulated Wires",
		Name:         "PVC Insulated Wire - 1.5 sq mm",
		Unit:         "Meter",
		Rate:         28.50,
		IsActive:     true,
	}
	require.NoError(t, db.Create(&product).Error)

	err = svc.Delete(ctx, child.ID)
	assert.ErrorIs(t, err, domain.ErrHasProducts)

	// Once the product is gone the child deletes, then the root.
	require.NoError(t, db.Delete(&productdomain.Product{}, product.ID).Error)
	require.NoError(t, svc.Delete(ctx, child.ID))
	require.NoError(t, svc.Delete(ctx, root.ID))

	got, err := svc.Get(ctx, child.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}

func TestCategorySelfParentRejected(t *testing.T) {
	svc, _, _, company := setupCategoryService(t)
	ctx := context.Background()

	cat, err := svc.Create(ctx, domain.CreateRequest{
		CompanyID: snowflake.ID(company.ID).String(),
		Name:      "Control Cables",
	})
	require.NoError(t, err)

	_, err = svc.Update(ctx, cat.ID, domain.UpdateRequest{ParentID: &cat.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidParent)
}
