package service

import (
	"context"
	"strings"

	"github.com/boqbill/boqbill/internal/actorcontext"
	billdomain "github.com/boqbill/boqbill/internal/bill/domain"
	"github.com/boqbill/boqbill/internal/clock"
	"github.com/boqbill/boqbill/internal/payment/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Repo     domain.Repository
	BillRepo billdomain.Repository
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	repo     domain.Repository
	billRepo billdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("payment.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		billRepo: p.BillRepo,
	}
}

// Create records a payment and moves the bill's paid amount and payment
// status in the same transaction.
func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	billID, err := snowflake.ParseString(strings.TrimSpace(req.BillID))
	if err != nil {
		return nil, domain.ErrInvalidBill
	}
	if req.Amount == nil || *req.Amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	amount := *req.Amount

	method := domain.MethodBankTransfer
	if strings.TrimSpace(req.PaymentMethod) != "" {
		method = domain.Method(strings.TrimSpace(req.PaymentMethod))
		if !domain.ValidMethod(method) {
			return nil, domain.ErrInvalidMethod
		}
	}

	now := s.clock.Now()
	paymentDate := now
	if req.PaymentDate != nil {
		paymentDate = req.PaymentDate.UTC()
	}

	payment := &domain.Payment{
		ID:              s.genID.Generate().Int64(),
		BillID:          billID.Int64(),
		Amount:          amount,
		PaymentDate:     paymentDate,
		PaymentMethod:   method,
		ReferenceNumber: strings.TrimSpace(req.ReferenceNumber),
		Notes:           strings.TrimSpace(req.Notes),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if actorID, ok := actorcontext.ActorIDFromContext(ctx); ok {
		actor := actorID.Int64()
		payment.CreatedBy = &actor
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		bill, err := s.billRepo.FindByID(ctx, tx, billID.Int64())
		if err != nil {
			return err
		}
		if bill == nil {
			return domain.ErrInvalidBill
		}
		if bill.Status == billdomain.StatusDraft || bill.Status == billdomain.StatusCancelled {
			return domain.ErrBillNotOpen
		}
		if amount > bill.Outstanding() {
			return domain.ErrOverpayment
		}

		payment.CompanyID = bill.CompanyID
		if err := s.repo.Insert(ctx, tx, payment); err != nil {
			return err
		}

		bill.PaidAmount += amount
		switch {
		case bill.Outstanding() <= 0:
			bill.PaymentStatus = billdomain.PaymentPaid
			bill.Status = billdomain.StatusPaid
		default:
			bill.PaymentStatus = billdomain.PaymentPartiallyPaid
			bill.Status = billdomain.StatusPartiallyPaid
		}
		bill.UpdatedAt = now
		return s.billRepo.Update(ctx, tx, bill)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("payment recorded",
		zap.Int64("payment_id", payment.ID),
		zap.Int64("bill_id", payment.BillID),
		zap.Float64("amount", payment.Amount),
	)
	resp := toResponse(payment)
	return &resp, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	paymentID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	p, err := s.repo.FindByID(ctx, s.db, paymentID.Int64())
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
	var items []domain.Payment

	if strings.TrimSpace(req.BillID) != "" {
		parsed, err := snowflake.ParseString(strings.TrimSpace(req.BillID))
		if err != nil {
			return nil, domain.ErrInvalidBill
		}
		items, err = s.repo.ListByBill(ctx, s.db, parsed.Int64())
		if err != nil {
			return nil, err
		}
	} else {
		var companyID int64
		if strings.TrimSpace(req.CompanyID) != "" {
			parsed, err := snowflake.ParseString(strings.TrimSpace(req.CompanyID))
			if err != nil {
				return nil, domain.ErrInvalidID
			}
			companyID = parsed.Int64()
		}
		list, err := s.repo.List(ctx, s.db, companyID)
		if err != nil {
			return nil, err
		}
		items = list
	}

	resp := make([]domain.Response, 0, len(items))
	for i := range items {
		resp = append(resp, toResponse(&items[i]))
	}
	return resp, nil
}

func toResponse(p *domain.Payment) domain.Response {
	return domain.Response{
		ID:              snowflake.ID(p.ID).String(),
		BillID:          snowflake.ID(p.BillID).String(),
		CompanyID:       snowflake.ID(p.CompanyID).String(),
		Amount:          p.Amount,
		PaymentDate:     p.PaymentDate,
		PaymentMethod:   p.PaymentMethod,
		ReferenceNumber: p.ReferenceNumber,
		Notes:           p.Notes,
		CreatedAt:       p.CreatedAt,
	}
}
