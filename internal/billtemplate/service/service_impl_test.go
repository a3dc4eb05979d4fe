package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/boqbill/boqbill/internal/billtemplate/domain"
	templaterepository "github.com/boqbill/boqbill/internal/billtemplate/repository"
	"github.com/boqbill/boqbill/internal/clock"
	companydomain "github.com/boqbill/boqbill/internal/company/domain"
	companyrepository "github.com/boqbill/boqbill/internal/company/repository"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupTemplateService(t *testing.T) (domain.Service, *gorm.DB, companydomain.Company) {
	t.Helper()

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	clk := clock.NewFakeClock(time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC))

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&companydomain.Company{}, &domain.BillTemplate{}))

	svc := New(Params{
		DB:          db,
		Log:         zap.NewNop(),
		GenID:       node,
		Clock:       clk,
		Repo:        templaterepository.Provide(),
		CompanyRepo: companyrepository.Provide(),
	})

	company := companydomain.Company{
		ID:       node.Generate().Int64(),
		Name:     "Demo Wire Traders",
		Slug:     "demo-wire-traders",
		IsActive: true,
	}
	require.NoError(t, db.Create(&company).Error)

	return svc, db, company
}

func boolPtr(v bool) *bool { return &v }

func TestTemplateFieldOrderingAndDefaults(t *testing.T) {
	svc, _, company := setupTemplateService(t)
	ctx := context.Background()

	resp, err := svc.Create(ctx, domain.CreateRequest{
		CompanyID: snowflake.ID(company.ID).String(),
		Name:      "Site Work BOQ",
		Fields: []domain.FieldRequest{
			{Label: "Site Name", Key: "site_name", Order: 2},
			{Label: "Work Order", Key: "work_order", DataType: "text", Order: 1, Required: true},
		},
	})
	require.NoError(t, err)

	require.Len(t, resp.Fields, 2)
	assert.Equal(t, "work_order", resp.Fields[0].Key)
	assert.Equal(t, domain.FieldText, resp.Fields[0].DataType)
	assert.Equal(t, "site_name", resp.Fields[1].Key)
	// Missing data type falls back to text.
	assert.Equal(t, domain.FieldText, resp.Fields[1].DataType)
}

func TestTemplateRejectsBadFields(t *testing.T) {
	svc, _, company := setupTemplateService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateRequest{
		CompanyID: snowflake.ID(company.ID).String(),
		Name:      "Site Work BOQ",
		Fields: []domain.FieldRequest{
			{Label: "Site Name", Key: "site_name"},
			{Label: "Site Name Again", Key: "site_name"},
		},
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateField)

	_, err = svc.Create(ctx, domain.CreateRequest{
		CompanyID: snowflake.ID(company.ID).String(),
		Name:      "Site Work BOQ",
		Fields: []domain.FieldRequest{
			{Label: "Measured On", Key: "measured_on", DataType: "timestamp"},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidFieldType)
}

func TestTemplateDefaultIsExclusivePerCompany(t *testing.T) {
	svc, _, company := setupTemplateService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, domain.CreateRequest{
		CompanyID: snowflake.ID(company.ID).String(),
		Name:      "Site Work BOQ",
		IsDefault: boolPtr(true),
	})
	require.NoError(t, err)
	assert.True(t, first.IsDefault)

	second, err := svc.Create(ctx, domain.CreateRequest{
		CompanyID: snowflake.ID(company.ID).String(),
		Name:      "Maintenance BOQ",
		IsDefault: boolPtr(true),
	})
	require.NoError(t, err)
	assert.True(t, second.IsDefault)

	got, err := svc.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, got.IsDefault)
}
