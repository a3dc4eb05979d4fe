package service

import (
	"context"
	"strings"

	"github.com/boqbill/boqbill/internal/category/domain"
	"github.com/boqbill/boqbill/internal/clock"
	companydomain "github.com/boqbill/boqbill/internal/company/domain"
	productdomain "github.com/boqbill/boqbill/internal/product/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Clock       clock.Clock
	Repo        domain.Repository
	CompanyRepo companydomain.Repository
	ProductRepo productdomain.Repository
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	clock       clock.Clock
	repo        domain.Repository
	companyRepo companydomain.Repository
	productRepo productdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("category.service"),
		genID:       p.GenID,
		clock:       p.Clock,
		repo:        p.Repo,
		companyRepo: p.CompanyRepo,
		productRepo: p.ProductRepo,
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

	name := strings.TrimSpace(req.Name)
	if name == "" || len(name) > 100 {
		return nil, domain.ErrInvalidName
	}

	existing, err := s.repo.FindByName(ctx, s.db, companyID.Int64(), name, 0)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicateName
	}

	var parentID *int64
	if req.ParentID != nil && strings.TrimSpace(*req.ParentID) != "" {
		parsed, err := snowflake.ParseString(strings.TrimSpace(*req.ParentID))
		if err != nil {
			return nil, domain.ErrInvalidParent
		}
		parent, err := s.repo.FindByID(ctx, s.db, parsed.Int64())
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, domain.ErrInvalidParent
		}
		id := parsed.Int64()
		parentID = &id
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	now := s.clock.Now()
	c := &domain.Category{
		ID:          s.genID.Generate().Int64(),
		CompanyID:   companyID.Int64(),
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		ParentID:    parentID,
		IsActive:    active,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Insert(ctx, s.db, c); err != nil {
		return nil, err
	}

	s.log.Info("category created", zap.Int64("category_id", c.ID), zap.String("name", c.Name))
	resp := toResponse(c)
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateRequest) (*domain.Response, error) {
	categoryID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	c, err := s.repo.FindByID(ctx, s.db, categoryID.Int64())
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
		if name != c.Name {
			existing, err := s.repo.FindByName(ctx, s.db, c.CompanyID, name, c.ID)
			if err != nil {
				return nil, err
			}
			if existing != nil {
				return nil, domain.ErrDuplicateName
			}
			c.Name = name
		}
	}
	if req.Description != nil {
		c.Description = strings.TrimSpace(*req.Description)
	}
	if req.ClearParent {
		c.ParentID = nil
	} else if req.ParentID != nil {
		parsed, err := snowflake.ParseString(strings.TrimSpace(*req.ParentID))
		if err != nil {
			return nil, domain.ErrInvalidParent
		}
		if parsed.Int64() == c.ID {
			return nil, domain.ErrInvalidParent
		}
		parent, err := s.repo.FindByID(ctx, s.db, parsed.Int64())
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, domain.ErrInvalidParent
		}
		parentID := parsed.Int64()
		c.ParentID = &parentID
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
	categoryID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	c, err := s.repo.FindByID(ctx, s.db, categoryID.Int64())
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}

	resp := toResponse(c)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Response, error) {
	var companyID int64
	if strings.TrimSpace(req.CompanyID) != "" {
		parsed, err := snowflake.ParseString(strings.TrimSpace(req.CompanyID))
		if err != nil {
			return nil, domain.ErrInvalidCompany
		}
		companyID = parsed.Int64()
	}

	items, err := s.repo.List(ctx, s.db, companyID, req.Active)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.Response, 0, len(items))
	for i := range items {
		resp = append(resp, toResponse(&items[i]))
	}
	return resp, nil
}

func (s *Service) Children(ctx context.Context, id string) ([]domain.Response, error) {
	categoryID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	parent, err := s.repo.FindByID(ctx, s.db, categoryID.Int64())
	if err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, domain.ErrNotFound
	}

	items, err := s.repo.Children(ctx, s.db, categoryID.Int64())
	if err != nil {
		return nil, err
	}

	resp := make([]domain.Response, 0, len(items))
	for i := range items {
		resp = append(resp, toResponse(&items[i]))
	}
	return resp, nil
}

// Delete deactivates a category. Categories still referenced by active
// products or subcategories cannot be removed.
func (s *Service) Delete(ctx context.Context, id string) error {
	categoryID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return domain.ErrInvalidID
	}

	c, err := s.repo.FindByID(ctx, s.db, categoryID.Int64())
	if err != nil {
		return err
	}
	if c == nil {
		return domain.ErrNotFound
	}

	products, err := s.productRepo.CountByCategory(ctx, s.db, c.ID)
	if err != nil {
		return err
	}
	if products > 0 {
		return domain.ErrHasProducts
	}

	children, err := s.repo.CountChildren(ctx, s.db, c.ID)
	if err != nil {
		return err
	}
	if children > 0 {
		return domain.ErrHasSubcategories
	}

	c.IsActive = false
	c.UpdatedAt = s.clock.Now()
	return s.repo.Update(ctx, s.db, c)
}

func toResponse(c *domain.Category) domain.Response {
	resp := domain.Response{
		ID:          snowflake.ID(c.ID).String(),
		CompanyID:   snowflake.ID(c.CompanyID).String(),
		Name:        c.Name,
		Description: c.Description,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
	if c.ParentID != nil {
		parent := snowflake.ID(*c.ParentID).String()
		resp.ParentID = &parent
	}
	return resp
}
