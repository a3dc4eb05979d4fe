package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/boqbill/boqbill/internal/clock"
	"github.com/boqbill/boqbill/internal/company/domain"
	companyrepository "github.com/boqbill/boqbill/internal/company/repository"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupCompanyService(t *testing.T) (domain.Service, *gorm.DB) {
	t.Helper()

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	clk := clock.NewFakeClock(time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC))

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&domain.Company{}))

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clk,
		Repo:  companyrepository.Provide(),
	})

	return svc, db
}

func TestCompanyCreateDefaults(t *testing.T) {
	svc, _ := setupCompanyService(t)
	ctx := context.Background()

	resp, err := svc.Create(ctx, domain.CreateRequest{Name: "Shree Ganesh Wire Traders"})
	require.NoError(t, err)

	assert.Equal(t, "shree-ganesh-wire-traders", resp.Slug)
	assert.Equal(t, domain.DefaultBranding(), resp.Branding)
	assert.Equal(t, domain.DefaultPDFLayout(), resp.PDFLayout)
	assert.True(t, resp.IsActive)
}

func TestCompanyRejectsBadOrientation(t *testing.T) {
	svc, _ := setupCompanyService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateRequest{
		Name: "Shree Ganesh Wire Traders",
		PDFLayout: &domain.PDFLayout{
			PageSize:    "A4",
			Orientation: "upside_down",
		},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidOrientation)
}

func TestCompanyUpdateRefreshesSlug(t *testing.T) {
	svc, _ := setupCompanyService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateRequest{Name: "Shree Ganesh Wire Traders"})
	require.NoError(t, err)

	name := "SG Wires & Cables"
	updated, err := svc.Update(ctx, created.ID, domain.UpdateRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "sg-wires-and-cables", updated.Slug)
}

func TestCompanyDeleteIsHard(t *testing.T) {
	svc, db := setupCompanyService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateRequest{Name: "Shree Ganesh Wire Traders"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	var count int64
	require.NoError(t, db.Model(&domain.Company{}).Count(&count).Error)
	assert.Zero(t, count)

	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
