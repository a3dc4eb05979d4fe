package service

import (
	"context"
	"strings"

	"github.com/boqbill/boqbill/internal/actorcontext"
	"github.com/boqbill/boqbill/internal/clock"
	"github.com/boqbill/boqbill/internal/pricing/domain"
	productdomain "github.com/boqbill/boqbill/internal/product/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	defaultHistoryLimit = 50

	maxVariantLength       = 100
	maxSpecificationLength = 200
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Clock       clock.Clock
	Repo        domain.Repository
	ProductRepo productdomain.Repository
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	clock       clock.Clock
	repo        domain.Repository
	productRepo productdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("pricing.service"),
		genID:       p.GenID,
		clock:       p.Clock,
		repo:        p.Repo,
		productRepo: p.ProductRepo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	actorID, ok := actorcontext.ActorIDFromContext(ctx)
	if !ok || actorID == 0 {
		return nil, domain.ErrMissingActor
	}

	productID, err := snowflake.ParseString(strings.TrimSpace(req.ProductID))
	if err != nil {
		return nil, domain.ErrInvalidProduct
	}
	product, err := s.productRepo.FindByID(ctx, s.db, productID.Int64())
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrInvalidProduct
	}

	if req.BaseRate == nil || *req.BaseRate < 0 {
		return nil, domain.ErrInvalidBaseRate
	}

	gst := 0.0
	if req.GSTPercentage != nil {
		gst = *req.GSTPercentage
		if gst < 0 || gst > 100 {
			return nil, domain.ErrInvalidGSTPercentage
		}
	}

	customerType := domain.CustomerAll
	if strings.TrimSpace(req.CustomerType) != "" {
		customerType = domain.CustomerType(strings.TrimSpace(req.CustomerType))
		if !domain.ValidCustomerType(customerType) {
			return nil, domain.ErrInvalidCustomerType
		}
	}

	tiers, err := buildTiers(req.VolumePricing)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	effectiveFrom := now
	if req.EffectiveFrom != nil {
		effectiveFrom = req.EffectiveFrom.UTC()
	}
	if req.EffectiveTo != nil && !req.EffectiveTo.After(effectiveFrom) {
		return nil, domain.ErrInvalidEffectiveWindow
	}

	variant := strings.TrimSpace(req.Variant)
	if len(variant) > maxVariantLength {
		return nil, domain.ErrInvalidVariant
	}
	specification := strings.TrimSpace(req.Specification)
	if len(specification) > maxSpecificationLength {
		return nil, domain.ErrInvalidSpecification
	}

	record := &domain.Pricing{
		ID:            s.genID.Generate().Int64(),
		ProductID:     productID.Int64(),
		ProductName:   product.Name,
		Unit:          product.Unit,
		Variant:       variant,
		Specification: specification,
		BaseRate:      *req.BaseRate,
		GSTPercentage: gst,
		EffectiveFrom: effectiveFrom,
		CustomerType:  customerType,
		IsActive:      true,
		CreatedBy:     actorID.Int64(),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if req.EffectiveTo != nil {
		to := req.EffectiveTo.UTC()
		record.EffectiveTo = &to
	}
	if len(tiers) > 0 {
		record.VolumePricing = datatypes.NewJSONSlice(tiers)
	}
	if req.IsActive != nil {
		record.IsActive = *req.IsActive
	}
	if req.IsDefault != nil {
		record.IsDefault = *req.IsDefault
	}
	if err := setWireAttributes(record, req.WireSize, strings.TrimSpace(req.WireType), strings.TrimSpace(req.Insulation), strings.TrimSpace(req.Conductor)); err != nil {
		return nil, err
	}
	if record.Conductor == "" {
		record.Conductor = domain.Copper
	}
	if req.CostPrice != nil {
		if *req.CostPrice < 0 {
			return nil, domain.ErrInvalidCostPrice
		}
		record.CostPrice = req.CostPrice
	}
	if req.MarkupPercentage != nil {
		if *req.MarkupPercentage < 0 {
			return nil, domain.ErrInvalidMarkup
		}
		record.MarkupPercentage = req.MarkupPercentage
	}

	// The overlap check and the insert run in one transaction so two
	// concurrent writers cannot both pass the guard.
	err = s.db.Transaction(func(tx *gorm.DB) error {
		conflict, err := s.repo.FindOverlapping(ctx, tx, domain.OverlapQuery{
			ProductID:    record.ProductID,
			Variant:      record.Variant,
			CustomerType: record.CustomerType,
			WindowStart:  record.EffectiveFrom,
			WindowEnd:    record.WindowEnd(),
		})
		if err != nil {
			return err
		}
		if conflict != nil {
			return domain.ErrOverlappingPricing
		}
		return s.repo.Insert(ctx, tx, record)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("pricing created",
		zap.Int64("pricing_id", record.ID),
		zap.Int64("product_id", record.ProductID),
		zap.String("customer_type", string(record.CustomerType)),
	)
	resp := toResponse(record)
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateRequest) (*domain.Response, error) {
	actorID, ok := actorcontext.ActorIDFromContext(ctx)
	if !ok || actorID == 0 {
		return nil, domain.ErrMissingActor
	}

	pricingID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	record, err := s.repo.FindByID(ctx, s.db, pricingID.Int64())
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, domain.ErrNotFound
	}

	windowChanged := false

	if req.ProductID != nil {
		parsed, err := snowflake.ParseString(strings.TrimSpace(*req.ProductID))
		if err != nil {
			return nil, domain.ErrInvalidProduct
		}
		if parsed.Int64() != record.ProductID {
			product, err := s.productRepo.FindByID(ctx, s.db, parsed.Int64())
			if err != nil {
				return nil, err
			}
			if product == nil {
				return nil, domain.ErrInvalidProduct
			}
			record.ProductID = parsed.Int64()
			record.ProductName = product.Name
			record.Unit = product.Unit
			windowChanged = true
		}
	}
	if req.Variant != nil {
		variant := strings.TrimSpace(*req.Variant)
		if len(variant) > maxVariantLength {
			return nil, domain.ErrInvalidVariant
		}
		if variant != record.Variant {
			record.Variant = variant
			windowChanged = true
		}
	}
	if req.Specification != nil {
		specification := strings.TrimSpace(*req.Specification)
		if len(specification) > maxSpecificationLength {
			return nil, domain.ErrInvalidSpecification
		}
		record.Specification = specification
	}
	if req.BaseRate != nil {
		if *req.BaseRate < 0 {
			return nil, domain.ErrInvalidBaseRate
		}
		record.BaseRate = *req.BaseRate
	}
	if req.GSTPercentage != nil {
		if *req.GSTPercentage < 0 || *req.GSTPercentage > 100 {
			return nil, domain.ErrInvalidGSTPercentage
		}
		record.GSTPercentage = *req.GSTPercentage
	}
	if req.VolumePricing != nil {
		tiers, err := buildTiers(req.VolumePricing)
		if err != nil {
			return nil, err
		}
		record.VolumePricing = datatypes.NewJSONSlice(tiers)
	}
	if req.CustomerType != nil {
		customerType := domain.CustomerType(strings.TrimSpace(*req.CustomerType))
		if !domain.ValidCustomerType(customerType) {
			return nil, domain.ErrInvalidCustomerType
		}
		if customerType != record.CustomerType {
			record.CustomerType = customerType
			windowChanged = true
		}
	}
	if req.EffectiveFrom != nil {
		from := req.EffectiveFrom.UTC()
		if !from.Equal(record.EffectiveFrom) {
			record.EffectiveFrom = from
			windowChanged = true
		}
	}
	if req.ClearEffectiveTo {
		if record.EffectiveTo != nil {
			record.EffectiveTo = nil
			windowChanged = true
		}
	} else if req.EffectiveTo != nil {
		to := req.EffectiveTo.UTC()
		if record.EffectiveTo == nil || !to.Equal(*record.EffectiveTo) {
			record.EffectiveTo = &to
			windowChanged = true
		}
	}
	if record.EffectiveTo != nil && !record.EffectiveTo.After(record.EffectiveFrom) {
		return nil, domain.ErrInvalidEffectiveWindow
	}
	var wireType, insulation, conductor string
	if req.WireType != nil {
		wireType = strings.TrimSpace(*req.WireType)
	}
	if req.Insulation != nil {
		insulation = strings.TrimSpace(*req.Insulation)
	}
	if req.Conductor != nil {
		conductor = strings.TrimSpace(*req.Conductor)
	}
	if err := setWireAttributes(record, req.WireSize, wireType, insulation, conductor); err != nil {
		return nil, err
	}
	if req.CostPrice != nil {
		if *req.CostPrice < 0 {
			return nil, domain.ErrInvalidCostPrice
		}
		record.CostPrice = req.CostPrice
	}
	if req.MarkupPercentage != nil {
		if *req.MarkupPercentage < 0 {
			return nil, domain.ErrInvalidMarkup
		}
		record.MarkupPercentage = req.MarkupPercentage
	}
	if req.IsActive != nil {
		if *req.IsActive && !record.IsActive {
			windowChanged = true
		}
		record.IsActive = *req.IsActive
	}
	if req.IsDefault != nil {
		record.IsDefault = *req.IsDefault
	}

	actor := actorID.Int64()
	record.UpdatedBy = &actor
	record.UpdatedAt = s.clock.Now()

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if windowChanged && record.IsActive {
			conflict, err := s.repo.FindOverlapping(ctx, tx, domain.OverlapQuery{
				ExcludeID:    record.ID,
				ProductID:    record.ProductID,
				Variant:      record.Variant,
				CustomerType: record.CustomerType,
				WindowStart:  record.EffectiveFrom,
				WindowEnd:    record.WindowEnd(),
			})
			if err != nil {
				return err
			}
			if conflict != nil {
				return domain.ErrOverlappingPricing
			}
		}
		return s.repo.Update(ctx, tx, record)
	})
	if err != nil {
		return nil, err
	}

	resp := toResponse(record)
	return &resp, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	pricingID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	record, err := s.repo.FindByID(ctx, s.db, pricingID.Int64())
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, domain.ErrNotFound
	}

	resp := toResponse(record)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Response, error) {
	// Listing shows records effective right now unless the caller asks
	// for another point in time; History serves the unbounded view.
	asOf := s.clock.Now()
	if req.AsOf != nil {
		asOf = req.AsOf.UTC()
	}
	filter := domain.Filter{
		Variant:  req.Variant,
		WireSize: req.WireSize,
		Active:   req.Active,
		AsOf:     &asOf,
	}
	if strings.TrimSpace(req.ProductID) != "" {
		parsed, err := snowflake.ParseString(strings.TrimSpace(req.ProductID))
		if err != nil {
			return nil, domain.ErrInvalidProduct
		}
		filter.ProductID = parsed.Int64()
	}
	if strings.TrimSpace(req.CustomerType) != "" {
		customerType := domain.CustomerType(strings.TrimSpace(req.CustomerType))
		if !domain.ValidCustomerType(customerType) {
			return nil, domain.ErrInvalidCustomerType
		}
		filter.CustomerType = customerType
	}
	if strings.TrimSpace(req.WireType) != "" {
		wireType := domain.WireType(strings.TrimSpace(req.WireType))
		if !domain.ValidWireType(wireType) {
			return nil, domain.ErrInvalidWireType
		}
		filter.WireType = wireType
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

// Delete deactivates a record; pricing history is never removed. Deleting
// an already-inactive record is a no-op.
func (s *Service) Delete(ctx context.Context, id string) error {
	actorID, ok := actorcontext.ActorIDFromContext(ctx)
	if !ok || actorID == 0 {
		return domain.ErrMissingActor
	}

	pricingID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return domain.ErrInvalidID
	}

	record, err := s.repo.FindByID(ctx, s.db, pricingID.Int64())
	if err != nil {
		return err
	}
	if record == nil {
		return domain.ErrNotFound
	}
	if !record.IsActive {
		return nil
	}

	actor := actorID.Int64()
	record.IsActive = false
	record.UpdatedBy = &actor
	record.UpdatedAt = s.clock.Now()
	return s.repo.Update(ctx, s.db, record)
}

// Calculate resolves the applicable rate plan and prices the quantity.
// Candidates are active records whose window covers asOf and whose segment
// is "all" or the requested one; the latest effective_from wins, and within
// the winning record the first matching tier sets the rate.
func (s *Service) Calculate(ctx context.Context, req domain.CalculateRequest) (*domain.CalculateResponse, error) {
	productID, err := snowflake.ParseString(strings.TrimSpace(req.ProductID))
	if err != nil {
		return nil, domain.ErrInvalidProduct
	}
	if req.Quantity == nil || *req.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}

	customerType := domain.CustomerAll
	if strings.TrimSpace(req.CustomerType) != "" {
		customerType = domain.CustomerType(strings.TrimSpace(req.CustomerType))
		if !domain.ValidCustomerType(customerType) {
			return nil, domain.ErrInvalidCustomerType
		}
	}

	asOf := s.clock.Now()
	if req.AsOf != nil {
		asOf = req.AsOf.UTC()
	}

	candidates, err := s.repo.FindActiveCandidates(ctx, s.db, productID.Int64(), strings.TrimSpace(req.Variant), customerType, asOf)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, domain.ErrNoActivePricing
	}

	winner := &candidates[0]
	return &domain.CalculateResponse{
		Pricing:     toResponse(winner),
		Calculation: winner.CalculatePrice(*req.Quantity),
	}, nil
}

// History returns a product's rate plans newest-first, inactive included.
func (s *Service) History(ctx context.Context, productID string, limit int) ([]domain.Response, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(productID))
	if err != nil {
		return nil, domain.ErrInvalidProduct
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	items, err := s.repo.History(ctx, s.db, parsed.Int64(), limit)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.Response, 0, len(items))
	for i := range items {
		resp = append(resp, toResponse(&items[i]))
	}
	return resp, nil
}

func buildTiers(reqs []domain.TierRequest) ([]domain.VolumeTier, error) {
	tiers := make([]domain.VolumeTier, 0, len(reqs))
	for _, tr := range reqs {
		if tr.MinQuantity == nil || *tr.MinQuantity < 1 {
			return nil, domain.ErrInvalidTierQuantity
		}
		if tr.Rate == nil || *tr.Rate < 0 {
			return nil, domain.ErrInvalidTierRate
		}
		tier := domain.VolumeTier{
			MinQuantity: *tr.MinQuantity,
			Rate:        *tr.Rate,
		}
		if tr.MaxQuantity != nil {
			if *tr.MaxQuantity <= tier.MinQuantity {
				return nil, domain.ErrInvalidTierRange
			}
			tier.MaxQuantity = tr.MaxQuantity
		}
		if tr.DiscountPercentage != nil {
			if *tr.DiscountPercentage < 0 || *tr.DiscountPercentage > 100 {
				return nil, domain.ErrInvalidTierDiscount
			}
			tier.DiscountPercentage = *tr.DiscountPercentage
		}
		tiers = append(tiers, tier)
	}
	return tiers, nil
}

func setWireAttributes(record *domain.Pricing, size *float64, wireType, insulation, conductor string) error {
	if size != nil {
		if *size <= 0 {
			return domain.ErrInvalidWireSize
		}
		record.WireSize = size
	}
	if wireType != "" {
		wt := domain.WireType(wireType)
		if !domain.ValidWireType(wt) {
			return domain.ErrInvalidWireType
		}
		record.WireType = wt
	}
	if insulation != "" {
		ins := domain.Insulation(insulation)
		if !domain.ValidInsulation(ins) {
			return domain.ErrInvalidInsulation
		}
		record.Insulation = ins
	}
	if conductor != "" {
		cond := domain.Conductor(conductor)
		if !domain.ValidConductor(cond) {
			return domain.ErrInvalidConductor
		}
		record.Conductor = cond
	}
	return nil
}

func toResponse(p *domain.Pricing) domain.Response {
	resp := domain.Response{
		ID:               snowflake.ID(p.ID).String(),
		ProductID:        snowflake.ID(p.ProductID).String(),
		ProductName:      p.ProductName,
		Unit:             p.Unit,
		Variant:          p.Variant,
		Specification:    p.Specification,
		BaseRate:         p.BaseRate,
		GSTPercentage:    p.GSTPercentage,
		EffectiveFrom:    p.EffectiveFrom,
		EffectiveTo:      p.EffectiveTo,
		CustomerType:     p.CustomerType,
		WireSize:         p.WireSize,
		WireType:         p.WireType,
		Insulation:       p.Insulation,
		Conductor:        p.Conductor,
		CostPrice:        p.CostPrice,
		MarkupPercentage: p.MarkupPercentage,
		IsActive:         p.IsActive,
		IsDefault:        p.IsDefault,
		CreatedBy:        snowflake.ID(p.CreatedBy).String(),
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
	if len(p.VolumePricing) > 0 {
		resp.VolumePricing = []domain.VolumeTier(p.VolumePricing)
	}
	if p.UpdatedBy != nil {
		updated := snowflake.ID(*p.UpdatedBy).String()
		resp.UpdatedBy = &updated
	}
	return resp
}
