package service

import (
	"context"
	"sort"
	"strings"

	"github.com/boqbill/boqbill/internal/billtemplate/domain"
	"github.com/boqbill/boqbill/internal/clock"
	companydomain "github.com/boqbill/boqbill/internal/company/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
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
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	clock       clock.Clock
	repo        domain.Repository
	companyRepo companydomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("billtemplate.service"),
		genID:       p.GenID,
		clock:       p.Clock,
		repo:        p.Repo,
		companyRepo: p.CompanyRepo,
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
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	fields, err := buildFields(req.Fields)
	if err != nil {
		return nil, err
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	now := s.clock.Now()
	t := &domain.BillTemplate{
		ID:          s.genID.Generate().Int64(),
		CompanyID:   companyID.Int64(),
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		Fields:      datatypes.NewJSONSlice(fields),
		IsActive:    active,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.IsDefault != nil {
		t.IsDefault = *req.IsDefault
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Insert(ctx, tx, t); err != nil {
			return err
		}
		if t.IsDefault {
			return s.repo.ClearDefault(ctx, tx, t.CompanyID, t.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("bill template created", zap.Int64("template_id", t.ID), zap.String("name", t.Name))
	resp := toResponse(t)
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateRequest) (*domain.Response, error) {
	templateID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	t, err := s.repo.FindByID(ctx, s.db, templateID.Int64())
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		t.Name = name
	}
	if req.Description != nil {
		t.Description = strings.TrimSpace(*req.Description)
	}
	if req.Fields != nil {
		fields, err := buildFields(req.Fields)
		if err != nil {
			return nil, err
		}
		t.Fields = datatypes.NewJSONSlice(fields)
	}
	if req.IsDefault != nil {
		t.IsDefault = *req.IsDefault
	}
	if req.IsActive != nil {
		t.IsActive = *req.IsActive
	}

	t.UpdatedAt = s.clock.Now()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Update(ctx, tx, t); err != nil {
			return err
		}
		if t.IsDefault {
			return s.repo.ClearDefault(ctx, tx, t.CompanyID, t.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := toResponse(t)
	return &resp, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	templateID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	t, err := s.repo.FindByID(ctx, s.db, templateID.Int64())
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}

	resp := toResponse(t)
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

func (s *Service) Delete(ctx context.Context, id string) error {
	templateID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return domain.ErrInvalidID
	}

	t, err := s.repo.FindByID(ctx, s.db, templateID.Int64())
	if err != nil {
		return err
	}
	if t == nil {
		return domain.ErrNotFound
	}

	t.IsActive = false
	t.IsDefault = false
	t.UpdatedAt = s.clock.Now()
	return s.repo.Update(ctx, s.db, t)
}

func buildFields(reqs []domain.FieldRequest) ([]domain.FieldDefinition, error) {
	fields := make([]domain.FieldDefinition, 0, len(reqs))
	seen := make(map[string]bool, len(reqs))
	for _, fr := range reqs {
		label := strings.TrimSpace(fr.Label)
		key := strings.TrimSpace(fr.Key)
		if label == "" || key == "" {
			return nil, domain.ErrInvalidFieldKey
		}
		if seen[key] {
			return nil, domain.ErrDuplicateField
		}
		seen[key] = true

		dataType := domain.FieldText
		if strings.TrimSpace(fr.DataType) != "" {
			dataType = domain.FieldType(strings.TrimSpace(fr.DataType))
			if !domain.ValidFieldType(dataType) {
				return nil, domain.ErrInvalidFieldType
			}
		}

		fields = append(fields, domain.FieldDefinition{
			Label:        label,
			Key:          key,
			DataType:     dataType,
			Required:     fr.Required,
			Order:        fr.Order,
			DefaultValue: fr.DefaultValue,
			Options:      fr.Options,
			Formula:      strings.TrimSpace(fr.Formula),
		})
	}
	sort.SliceStable(fields, func(i, j int) bool { return fields[i].Order < fields[j].Order })
	return fields, nil
}

func toResponse(t *domain.BillTemplate) domain.Response {
	return domain.Response{
		ID:          snowflake.ID(t.ID).String(),
		CompanyID:   snowflake.ID(t.CompanyID).String(),
		Name:        t.Name,
		Description: t.Description,
		Fields:      []domain.FieldDefinition(t.Fields),
		IsDefault:   t.IsDefault,
		IsActive:    t.IsActive,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
