package service

import (
	"context"
	"strings"

	"github.com/boqbill/boqbill/internal/clock"
	"github.com/boqbill/boqbill/internal/company/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("company.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || len(name) > 100 {
		return nil, domain.ErrInvalidName
	}

	branding := domain.DefaultBranding()
	if req.Branding != nil {
		branding = *req.Branding
	}
	layout := domain.DefaultPDFLayout()
	if req.PDFLayout != nil {
		layout = *req.PDFLayout
		if layout.Orientation != "portrait" && layout.Orientation != "landscape" {
			return nil, domain.ErrInvalidOrientation
		}
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	now := s.clock.Now()
	c := &domain.Company{
		ID:        s.genID.Generate().Int64(),
		Name:      name,
		Slug:      slug.Make(name),
		Logo:      req.Logo,
		Branding:  datatypes.NewJSONType(branding),
		PDFLayout: datatypes.NewJSONType(layout),
		IsActive:  active,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.Address != nil {
		c.Address = datatypes.NewJSONType(*req.Address)
	}
	if req.ContactInfo != nil {
		c.ContactInfo = datatypes.NewJSONType(*req.ContactInfo)
	}
	if req.TaxInfo != nil {
		c.TaxInfo = datatypes.NewJSONType(*req.TaxInfo)
	}

	if err := s.repo.Insert(ctx, s.db, c); err != nil {
		return nil, err
	}

	s.log.Info("company created", zap.Int64("company_id", c.ID), zap.String("name", c.Name))
	resp := toResponse(c)
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateRequest) (*domain.Response, error) {
	companyID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	c, err := s.repo.FindByID(ctx, s.db, companyID.Int64())
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" || len(name) > 100 {
			return nil, domain.ErrInvalidName
		}
		c.Name = name
		c.Slug = slug.Make(name)
	}
	if req.Logo != nil {
		c.Logo = req.Logo
	}
	if req.Branding != nil {
		c.Branding = datatypes.NewJSONType(*req.Branding)
	}
	if req.PDFLayout != nil {
		if req.PDFLayout.Orientation != "portrait" && req.PDFLayout.Orientation != "landscape" {
			return nil, domain.ErrInvalidOrientation
		}
		c.PDFLayout = datatypes.NewJSONType(*req.PDFLayout)
	}
	if req.Address != nil {
		c.Address = datatypes.NewJSONType(*req.Address)
	}
	if req.ContactInfo != nil {
		c.ContactInfo = datatypes.NewJSONType(*req.ContactInfo)
	}
	if req.TaxInfo != nil {
		c.TaxInfo = datatypes.NewJSONType(*req.TaxInfo)
	}
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}

	c.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, s.db, c); err != nil {
		return nil, err
	}

	resp := toResponse(c)
	return &resp, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	companyID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	c, err := s.repo.FindByID(ctx, s.db, companyID.Int64())
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}

	resp := toResponse(c)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, active *bool) ([]domain.Response, error) {
	items, err := s.repo.List(ctx, s.db, active)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.Response, 0, len(items))
	for i := range items {
		resp = append(resp, toResponse(&items[i]))
	}
	return resp, nil
}

// Delete removes the company row outright; companies are administrative
// records, not billing history.
func (s *Service) Delete(ctx context.Context, id string) error {
	companyID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return domain.ErrInvalidID
	}

	c, err := s.repo.FindByID(ctx, s.db, companyID.Int64())
	if err != nil {
		return err
	}
	if c == nil {
		return domain.ErrNotFound
	}

	return s.repo.Delete(ctx, s.db, companyID.Int64())
}

func toResponse(c *domain.Company) domain.Response {
	return domain.Response{
		ID:          snowflake.ID(c.ID).String(),
		Name:        c.Name,
		Slug:        c.Slug,
		Logo:        c.Logo,
		Branding:    c.Branding.Data(),
		PDFLayout:   c.PDFLayout.Data(),
		Address:     c.Address.Data(),
		ContactInfo: c.ContactInfo.Data(),
		TaxInfo:     c.TaxInfo.Data(),
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
