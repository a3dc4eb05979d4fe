package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	List(ctx context.Context, req ListRequest) ([]Response, error)
	Delete(ctx context.Context, id string) error
	Calculate(ctx context.Context, req CalculateRequest) (*CalculateResponse, error)
	History(ctx context.Context, productID string, limit int) ([]Response, error)
}

type TierRequest struct {
	MinQuantity        *float64 `json:"min_quantity"`
	MaxQuantity        *float64 `json:"max_quantity"`
	Rate               *float64 `json:"rate"`
	DiscountPercentage *float64 `json:"discount_percentage"`
}

type CreateRequest struct {
	ProductID        string        `json:"product_id"`
	Variant          string        `json:"variant"`
	Specification    string        `json:"specification"`
	BaseRate         *float64      `json:"base_rate"`
	GSTPercentage    *float64      `json:"gst_percentage"`
	VolumePricing    []TierRequest `json:"volume_pricing"`
	EffectiveFrom    *time.Time    `json:"effective_from"`
	EffectiveTo      *time.Time    `json:"effective_to"`
	CustomerType     string        `json:"customer_type"`
	WireSize         *float64      `json:"wire_size"`
	WireType         string        `json:"wire_type"`
	Insulation       string        `json:"insulation"`
	Conductor        string        `json:"conductor"`
	CostPrice        *float64      `json:"cost_price"`
	MarkupPercentage *float64      `json:"markup_percentage"`
	IsActive         *bool         `json:"is_active"`
	IsDefault        *bool         `json:"is_default"`
}

type UpdateRequest struct {
	ProductID        *string       `json:"product_id"`
	Variant          *string       `json:"variant"`
	Specification    *string       `json:"specification"`
	BaseRate         *float64      `json:"base_rate"`
	GSTPercentage    *float64      `json:"gst_percentage"`
	VolumePricing    []TierRequest `json:"volume_pricing"`
	EffectiveFrom    *time.Time    `json:"effective_from"`
	EffectiveTo      *time.Time    `json:"effective_to"`
	ClearEffectiveTo bool          `json:"clear_effective_to"`
	CustomerType     *string       `json:"customer_type"`
	WireSize         *float64      `json:"wire_size"`
	WireType         *string       `json:"wire_type"`
	Insulation       *string       `json:"insulation"`
	Conductor        *string       `json:"conductor"`
	CostPrice        *float64      `json:"cost_price"`
	MarkupPercentage *float64      `json:"markup_percentage"`
	IsActive         *bool         `json:"is_active"`
	IsDefault        *bool         `json:"is_default"`
}

type ListRequest struct {
	ProductID    string
	CustomerType string
	Variant      *string
	WireSize     *float64
	WireType     string
	Active       *bool
	AsOf         *time.Time
}

type CalculateRequest struct {
	ProductID    string     `json:"product_id"`
	Quantity     *float64   `json:"quantity"`
	CustomerType string     `json:"customer_type"`
	Variant      string     `json:"variant"`
	AsOf         *time.Time `json:"as_of"`
}

type CalculateResponse struct {
	Pricing     Response  `json:"pricing"`
	Calculation Breakdown `json:"calculation"`
}

type Response struct {
	ID               string       `json:"id"`
	ProductID        string       `json:"product_id"`
	ProductName      string       `json:"product_name"`
	Unit             string       `json:"unit"`
	Variant          string       `json:"variant"`
	Specification    string       `json:"specification,omitempty"`
	BaseRate         float64      `json:"base_rate"`
	GSTPercentage    float64      `json:"gst_percentage"`
	VolumePricing    []VolumeTier `json:"volume_pricing,omitempty"`
	EffectiveFrom    time.Time    `json:"effective_from"`
	EffectiveTo      *time.Time   `json:"effective_to,omitempty"`
	CustomerType     CustomerType `json:"customer_type"`
	WireSize         *float64     `json:"wire_size,omitempty"`
	WireType         WireType     `json:"wire_type,omitempty"`
	Insulation       Insulation   `json:"insulation,omitempty"`
	Conductor        Conductor    `json:"conductor,omitempty"`
	CostPrice        *float64     `json:"cost_price,omitempty"`
	MarkupPercentage *float64     `json:"markup_percentage,omitempty"`
	IsActive         bool         `json:"is_active"`
	IsDefault        bool         `json:"is_default"`
	CreatedBy        string       `json:"created_by"`
	UpdatedBy        *string      `json:"updated_by,omitempty"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

var (
	ErrInvalidID              = errors.New("invalid_id")
	ErrInvalidProduct         = errors.New("invalid_product")
	ErrInvalidBaseRate        = errors.New("invalid_base_rate")
	ErrInvalidGSTPercentage   = errors.New("invalid_gst_percentage")
	ErrInvalidVariant         = errors.New("invalid_variant")
	ErrInvalidSpecification   = errors.New("invalid_specification")
	ErrInvalidQuantity        = errors.New("invalid_quantity")
	ErrInvalidCustomerType    = errors.New("invalid_customer_type")
	ErrInvalidWireSize        = errors.New("invalid_wire_size")
	ErrInvalidWireType        = errors.New("invalid_wire_type")
	ErrInvalidInsulation      = errors.New("invalid_insulation")
	ErrInvalidConductor       = errors.New("invalid_conductor")
	ErrInvalidCostPrice       = errors.New("invalid_cost_price")
	ErrInvalidMarkup          = errors.New("invalid_markup_percentage")
	ErrInvalidTierQuantity    = errors.New("invalid_tier_quantity")
	ErrInvalidTierRate        = errors.New("invalid_tier_rate")
	ErrInvalidTierRange       = errors.New("invalid_tier_range")
	ErrInvalidTierDiscount    = errors.New("invalid_tier_discount")
	ErrInvalidEffectiveWindow = errors.New("invalid_effective_window")
	ErrOverlappingPricing     = errors.New("overlapping_pricing")
	ErrMissingActor           = errors.New("missing_actor")
	ErrNotFound               = errors.New("not_found")
	ErrNoActivePricing        = errors.New("no_active_pricing")
)
