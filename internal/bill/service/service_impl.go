package service

import (
	"context"
	"strings"
	"time"

	"github.com/boqbill/boqbill/internal/actorcontext"
	"github.com/boqbill/boqbill/internal/bill/domain"
	billtemplatedomain "github.com/boqbill/boqbill/internal/billtemplate/domain"
	"github.com/boqbill/boqbill/internal/clock"
	companydomain "github.com/boqbill/boqbill/internal/company/domain"
	pricingdomain "github.com/boqbill/boqbill/internal/pricing/domain"
	productdomain "github.com/boqbill/boqbill/internal/product/domain"
	"github.com/boqbill/boqbill/internal/providers/pdf"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
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
	TemplateRepo billtemplatedomain.Repository
	ProductRepo  productdomain.Repository
	Pricing      pricingdomain.Service
	PDF          pdf.Provider
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	genID        *snowflake.Node
	clock        clock.Clock
	repo         domain.Repository
	companyRepo  companydomain.Repository
	templateRepo billtemplatedomain.Repository
	productRepo  productdomain.Repository
	pricing      pricingdomain.Service
	pdf          pdf.Provider
}

func New(p Params) domain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("bill.service"),
		genID:        p.GenID,
		clock:        p.Clock,
		repo:         p.Repo,
		companyRepo:  p.CompanyRepo,
		templateRepo: p.TemplateRepo,
		productRepo:  p.ProductRepo,
		pricing:      p.Pricing,
		pdf:          p.PDF,
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

	var templateID *int64
	if req.TemplateID != nil && strings.TrimSpace(*req.TemplateID) != "" {
		parsed, err := snowflake.ParseString(strings.TrimSpace(*req.TemplateID))
		if err != nil {
			return nil, domain.ErrInvalidTemplate
		}
		template, err := s.templateRepo.FindByID(ctx, s.db, parsed.Int64())
		if err != nil {
			return nil, err
		}
		if template == nil {
			return nil, domain.ErrInvalidTemplate
		}
		id := parsed.Int64()
		templateID = &id
	}

	if strings.TrimSpace(req.CustomerInfo.Name) == "" {
		return nil, domain.ErrInvalidCustomer
	}
	if len(req.Items) == 0 {
		return nil, domain.ErrMissingItems
	}

	now := s.clock.Now()
	billDate := now
	if req.BillDate != nil {
		billDate = req.BillDate.UTC()
	}

	items, err := s.priceItems(ctx, req.Items, req.CustomerType, billDate)
	if err != nil {
		return nil, err
	}

	discount := 0.0
	if req.Discount != nil {
		if *req.Discount < 0 {
			return nil, domain.ErrInvalidDiscount
		}
		discount = *req.Discount
	}

	b := &domain.Bill{
		ID:            s.genID.Generate().Int64(),
		CompanyID:     companyID.Int64(),
		TemplateID:    templateID,
		BillYear:      billDate.Year(),
		CustomerInfo:  datatypes.NewJSONType(req.CustomerInfo),
		BillDate:      billDate,
		Items:         datatypes.NewJSONSlice(items),
		Discount:      discount,
		Notes:         strings.TrimSpace(req.Notes),
		Status:        domain.StatusDraft,
		PaymentStatus: domain.PaymentUnpaid,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if req.DueDate != nil {
		due := req.DueDate.UTC()
		b.DueDate = &due
	}
	if req.CustomFields != nil {
		b.CustomFields = datatypes.JSONMap(req.CustomFields)
	}
	if actorID, ok := actorcontext.ActorIDFromContext(ctx); ok {
		actor := actorID.Int64()
		b.CreatedBy = &actor
	}
	b.RecomputeTotals()

	// Sequence allocation and insert share a transaction so concurrent
	// creates cannot claim the same bill number.
	err = s.db.Transaction(func(tx *gorm.DB) error {
		sequence, err := s.repo.NextSequence(ctx, tx, b.CompanyID, b.BillYear)
		if err != nil {
			return err
		}
		b.BillSequence = sequence
		b.BillNumber = domain.FormatNumber(b.BillYear, sequence)
		return s.repo.Insert(ctx, tx, b)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("bill created",
		zap.Int64("bill_id", b.ID),
		zap.String("bill_number", b.BillNumber),
		zap.Float64("grand_total", b.GrandTotal),
	)
	resp := toResponse(b)
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateRequest) (*domain.Response, error) {
	billID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	b, err := s.repo.FindByID(ctx, s.db, billID.Int64())
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.ErrNotFound
	}

	editsContent := req.CustomerInfo != nil || req.BillDate != nil || req.DueDate != nil ||
		req.Items != nil || req.CustomFields != nil || req.Discount != nil
	if editsContent && b.Status != domain.StatusDraft {
		return nil, domain.ErrNotDraft
	}

	if req.CustomerInfo != nil {
		if strings.TrimSpace(req.CustomerInfo.Name) == "" {
			return nil, domain.ErrInvalidCustomer
		}
		b.CustomerInfo = datatypes.NewJSONType(*req.CustomerInfo)
	}
	if req.BillDate != nil {
		b.BillDate = req.BillDate.UTC()
		b.BillYear = b.BillDate.Year()
	}
	if req.DueDate != nil {
		due := req.DueDate.UTC()
		b.DueDate = &due
	}
	if req.Items != nil {
		if len(req.Items) == 0 {
			return nil, domain.ErrMissingItems
		}
		items, err := s.priceItems(ctx, req.Items, req.CustomerType, b.BillDate)
		if err != nil {
			return nil, err
		}
		b.Items = datatypes.NewJSONSlice(items)
	}
	if req.CustomFields != nil {
		b.CustomFields = datatypes.JSONMap(req.CustomFields)
	}
	if req.Discount != nil {
		if *req.Discount < 0 {
			return nil, domain.ErrInvalidDiscount
		}
		b.Discount = *req.Discount
	}
	if req.Notes != nil {
		b.Notes = strings.TrimSpace(*req.Notes)
	}
	if req.Status != nil {
		status := domain.Status(strings.TrimSpace(*req.Status))
		if !domain.ValidStatus(status) {
			return nil, domain.ErrInvalidStatus
		}
		if status == domain.StatusDraft && b.Status != domain.StatusDraft {
			return nil, domain.ErrInvalidStatus
		}
		b.Status = status
	}

	if actorID, ok := actorcontext.ActorIDFromContext(ctx); ok {
		actor := actorID.Int64()
		b.UpdatedBy = &actor
	}
	b.RecomputeTotals()
	b.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, s.db, b); err != nil {
		return nil, err
	}

	resp := toResponse(b)
	return &resp, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	billID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	b, err := s.repo.FindByID(ctx, s.db, billID.Int64())
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.ErrNotFound
	}

	resp := toResponse(b)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Response, error) {
	filter := domain.Filter{
		CustomerName: strings.TrimSpace(req.CustomerName),
		From:         req.From,
		To:           req.To,
	}
	if strings.TrimSpace(req.CompanyID) != "" {
		parsed, err := snowflake.ParseString(strings.TrimSpace(req.CompanyID))
		if err != nil {
			return nil, domain.ErrInvalidCompany
		}
		filter.CompanyID = parsed.Int64()
	}
	if strings.TrimSpace(req.Status) != "" {
		status := domain.Status(strings.TrimSpace(req.Status))
		if !domain.ValidStatus(status) {
			return nil, domain.ErrInvalidStatus
		}
		filter.Status = status
	}
	if strings.TrimSpace(req.PaymentStatus) != "" {
		filter.PaymentStatus = domain.PaymentStatus(strings.TrimSpace(req.PaymentStatus))
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

// Delete cancels a bill. Issued bills stay on record; cancelling twice is
// a no-op.
func (s *Service) Delete(ctx context.Context, id string) error {
	billID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return domain.ErrInvalidID
	}

	b, err := s.repo.FindByID(ctx, s.db, billID.Int64())
	if err != nil {
		return err
	}
	if b == nil {
		return domain.ErrNotFound
	}
	if b.Status == domain.StatusCancelled {
		return nil
	}

	b.Status = domain.StatusCancelled
	if actorID, ok := actorcontext.ActorIDFromContext(ctx); ok {
		actor := actorID.Int64()
		b.UpdatedBy = &actor
	}
	b.UpdatedAt = s.clock.Now()
	return s.repo.Update(ctx, s.db, b)
}

func (s *Service) Finalize(ctx context.Context, id string) (*domain.Response, error) {
	billID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	b, err := s.repo.FindByID(ctx, s.db, billID.Int64())
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.ErrNotFound
	}
	if b.Status != domain.StatusDraft {
		return nil, domain.ErrAlreadyFinal
	}
	if len(b.Items) == 0 {
		return nil, domain.ErrMissingItems
	}

	b.Status = domain.StatusFinalized
	if actorID, ok := actorcontext.ActorIDFromContext(ctx); ok {
		actor := actorID.Int64()
		b.UpdatedBy = &actor
	}
	b.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, s.db, b); err != nil {
		return nil, err
	}

	s.log.Info("bill finalized", zap.Int64("bill_id", b.ID), zap.String("bill_number", b.BillNumber))
	resp := toResponse(b)
	return &resp, nil
}

// priceItems builds line items: explicit rates go straight through the
// shared price calculation; lines without a rate are resolved against the
// rate plans effective at the bill date.
func (s *Service) priceItems(ctx context.Context, reqs []domain.ItemRequest, customerType string, billDate time.Time) ([]domain.Item, error) {
	items := make([]domain.Item, 0, len(reqs))
	for _, ir := range reqs {
		productID, err := snowflake.ParseString(strings.TrimSpace(ir.ProductID))
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
		if ir.Quantity == nil || *ir.Quantity <= 0 {
			return nil, domain.ErrInvalidQuantity
		}
		quantity := *ir.Quantity

		item := domain.Item{
			ProductID:   product.ID,
			ProductName: product.Name,
			Description: strings.TrimSpace(ir.Description),
			Quantity:    quantity,
			Unit:        product.Unit,
		}

		if ir.Rate != nil {
			if *ir.Rate < 0 {
				return nil, domain.ErrInvalidRate
			}
			gst := product.GSTPercentage
			if ir.GSTPercentage != nil {
				gst = *ir.GSTPercentage
			}
			breakdown := pricingdomain.Calculate(*ir.Rate, quantity, gst)
			item.Rate = breakdown.Rate
			item.Amount = breakdown.TotalAmount
			item.GSTPercentage = gst
			item.GSTAmount = breakdown.GSTAmount
			item.TotalAmount = breakdown.GrandTotal
		} else {
			asOf := billDate
			calc, err := s.pricing.Calculate(ctx, pricingdomain.CalculateRequest{
				ProductID:    ir.ProductID,
				Quantity:     &quantity,
				CustomerType: customerType,
				Variant:      ir.Variant,
				AsOf:         &asOf,
			})
			if err != nil {
				return nil, err
			}
			item.Rate = calc.Calculation.Rate
			item.Amount = calc.Calculation.TotalAmount
			item.GSTPercentage = calc.Calculation.GSTPercentage
			item.GSTAmount = calc.Calculation.GSTAmount
			item.TotalAmount = calc.Calculation.GrandTotal
		}

		items = append(items, item)
	}
	return items, nil
}

func toResponse(b *domain.Bill) domain.Response {
	resp := domain.Response{
		ID:            snowflake.ID(b.ID).String(),
		CompanyID:     snowflake.ID(b.CompanyID).String(),
		BillNumber:    b.BillNumber,
		CustomerInfo:  b.CustomerInfo.Data(),
		BillDate:      b.BillDate,
		DueDate:       b.DueDate,
		Items:         []domain.Item(b.Items),
		Subtotal:      b.Subtotal,
		TotalGST:      b.TotalGST,
		Discount:      b.Discount,
		GrandTotal:    b.GrandTotal,
		Notes:         b.Notes,
		Status:        b.Status,
		PaymentStatus: b.PaymentStatus,
		PaidAmount:    b.PaidAmount,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
	if b.TemplateID != nil {
		template := snowflake.ID(*b.TemplateID).String()
		resp.TemplateID = &template
	}
	if len(b.CustomFields) > 0 {
		resp.CustomFields = map[string]any(b.CustomFields)
	}
	return resp
}
