package service

import (
	"context"
	"strings"

	"github.com/boqbill/boqbill/internal/actorcontext"
	categorydomain "github.com/boqbill/boqbill/internal/category/domain"
	"github.com/boqbill/boqbill/internal/clock"
	companydomain "github.com/boqbill/boqbill/internal/company/domain"
	"github.com/boqbill/boqbill/internal/product/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	GenID        *snowflake.Node
	Clock        clock.Clock
	Repo         domain.Repository
	CompanyRepo  companydomain.Repository
	CategoryRepo categorydomain.Repository
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	genID        *snowflake.Node
	clock        clock.Clock
	repo         domain.Repository
	companyRepo  companydomain.Repository
	categoryRepo categorydomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("product.service"),
		genID:        p.GenID,
		clock:        p.Clock,
		repo:         p.Repo,
		companyRepo:  p.CompanyRepo,
		categoryRepo: p.CategoryRepo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	companyID, err := snowflake.ParseString(strings.TrimSpace(req.CompanyID))
	if err != nil {
		return nil, domain.ErrInvalidCompany
	}
	company, err := s.companyRepo.FindByID(ctx, s.db, companyID.Int64())
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrInvalidCompany
	}

	categoryID, err := snowflake.ParseString(strings.TrimSpace(req.CategoryID))
	if err != nil {
		return nil, domain.ErrInvalidCategory
	}
	category, err := s.categoryRepo.FindByID(ctx, s.db, categoryID.Int64())
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, domain.ErrInvalidCategory
	}

	name := strings.TrimSpace(req.Name)
	if name == "" || len(name) > 200 {
		return nil, domain.ErrInvalidName
	}

	unit := strings.TrimSpace(req.Unit)
	if unit == "" {
		return nil, domain.ErrInvalidUnit
	}

	if req.Rate == nil || *req.Rate < 0 {
		return nil, domain.ErrInvalidRate
	}

	gst := 0.0
	if req.GSTPercentage != nil {
		gst = *req.GSTPercentage
		if gst < 0 || gst > 100 {
			return nil, domain.ErrInvalidGSTPercentage
		}
	}

	existing, err := s.repo.FindByNameInCategory(ctx, s.db, categoryID.Int64(), name, 0)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicateName
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	now := s.clock.Now()
	p := &domain.Product{
		ID:            s.genID.Generate().Int64(),
		CompanyID:     companyID.Int64(),
		CategoryID:    categoryID.Int64(),
		CategoryName:  category.Name,
		Name:          name,
		Description:   strings.TrimSpace(req.Description),
		Unit:          unit,
		Rate:          *req.Rate,
		GSTPercentage: gst,
		HSNCode:       strings.TrimSpace(req.HSNCode),
		IsActive:      active,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if actorID, ok := actorcontext.ActorIDFromContext(ctx); ok {
		actor := actorID.Int64()
		p.CreatedBy = &actor
	}

	if err := s.repo.Insert(ctx, s.db, p); err != nil {
		return nil, err
	}

	s.log.Info("product created",
		zap.Int64("product_id", p.ID),
		zap.String("name", p.Name),
		zap.String("category", p.CategoryName),
	)
	resp := toResponse(p)
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateRequest) (*domain.Response, error) {
	productID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	p, err := s.repo.FindByID(ctx, s.db, productID.Int64())
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}

	if req.CategoryID != nil {
		parsed, err := snowflake.ParseString(strings.TrimSpace(*req.CategoryID))
		if err != nil {
			return nil, domain.ErrInvalidCategory
		}
		if parsed.Int64() != p.CategoryID {
			category, err := s.categoryRepo.FindByID(ctx, s.db, parsed.Int64())
			if err != nil {
				return nil, err
			}
			if category == nil {
				return nil, domain.ErrInvalidCategory
			}
			p.CategoryID = parsed.Int64()
			p.CategoryName = category.Name
		}
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" || len(name) > 200 {
			return nil, domain.ErrInvalidName
		}
		if name != p.Name {
			existing, err := s.repo.FindByNameInCategory(ctx, s.db, p.CategoryID, name, p.ID)
			if err != nil {
				return nil, err
			}
			if existing != nil {
				return nil, domain.ErrDuplicateName
			}
			p.Name = name
		}
	}
	if req.Description != nil {
		p.Description = strings.TrimSpace(*req.Description)
	}
	if req.Unit != nil {
		unit := strings.TrimSpace(*req.Unit)
		if unit == "" {
			return nil, domain.ErrInvalidUnit
		}
		p.Unit = unit
	}
	if req.Rate != nil {
		if *req.Rate < 0 {
			return nil, domain.ErrInvalidRate
		}
		p.Rate = *req.Rate
	}
	if req.GSTPercentage != nil {
		if *req.GSTPercentage < 0 || *req.GSTPercentage > 100 {
			return nil, domain.ErrInvalidGSTPercentage
		}
		p.GSTPercentage = *req.GSTPercentage
	}
	if req.HSNCode != nil {
		p.HSNCode = strings.TrimSpace(*req.HSNCode)
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}

	if actorID, ok := actorcontext.ActorIDFromContext(ctx); ok {
		actor := actorID.Int64()
		p.UpdatedBy = &actor
	}
	p.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, s.db, p); err != nil {
		return nil, err
	}

	resp := toResponse(p)
	return &resp, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	productID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	p, err := s.repo.FindByID(ctx, s.db, productID.Int64())
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}

	resp := toResponse(p)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Response, error) {
	filter := domain.Filter{
		Search: strings.TrimSpace(req.Search),
		Active: req.Active,
	}
	if strings.TrimSpace(req.CompanyID) != "" {
		parsed, err := snowflake.ParseString(strings.TrimSpace(req.CompanyID))
		if err != nil {
			return nil, domain.ErrInvalidCompany
		}
		filter.CompanyID = parsed.Int64()
	}
	if strings.TrimSpace(req.CategoryID) != "" {
		parsed, err := snowflake.ParseString(strings.TrimSpace(req.CategoryID))
		if err != nil {
			return nil, domain.ErrInvalidCategory
		}
		filter.CategoryID = parsed.Int64()
	}

	items, err := s.repo.List(ctx, s.db, filter)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.Response, 0, len(items))
	for i := range items {
		resp = append(resp, toResponse(&items[i]))
	}
	return resp, nil
}

func (s *Service) ByCategory(ctx context.Context, categoryID string, active *bool) ([]domain.Response, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(categoryID))
	if err != nil {
		return nil, domain.ErrInvalidCategory
	}

	category, err := s.categoryRepo.FindByID(ctx, s.db, parsed.Int64())
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, domain.ErrNotFound
	}

	items, err := s.repo.List(ctx, s.db, domain.Filter{CategoryID: parsed.Int64(), Active: active})
	if err != nil {
		return nil, err
	}

	resp := make([]domain.Response, 0, len(items))
	for i := range items {
		resp = append(resp, toResponse(&items[i]))
	}
	return resp, nil
}

// Delete deactivates the product; bills keep their line-item snapshots.
func (s *Service) Delete(ctx context.Context, id string) error {
	productID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return domain.ErrInvalidID
	}

	p, err := s.repo.FindByID(ctx, s.db, productID.Int64())
	if err != nil {
		return err
	}
	if p == nil {
		return domain.ErrNotFound
	}

	p.IsActive = false
	if actorID, ok := actorcontext.ActorIDFromContext(ctx); ok {
		actor := actorID.Int64()
		p.UpdatedBy = &actor
	}
	p.UpdatedAt = s.clock.Now()
	return s.repo.Update(ctx, s.db, p)
}

func toResponse(p *domain.Product) domain.Response {
	return domain.Response{
		ID:            snowflake.ID(p.ID).String(),
		CompanyID:     snowflake.ID(p.CompanyID).String(),
		CategoryID:    snowflake.ID(p.CategoryID).String(),
		CategoryName:  p.CategoryName,
		Name:          p.Name,
		Description:   p.Description,
		Unit:          p.Unit,
		Rate:          p.Rate,
		GSTPercentage: p.GSTPercentage,
		HSNCode:       p.HSNCode,
		IsActive:      p.IsActive,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
