package domain

import (
	"time"

	"gorm.io/datatypes"
)

// CustomerType segments concurrent rate plans for the same product variant.
type CustomerType string

const (
	CustomerAll        CustomerType = "all"
	CustomerRetail     CustomerType = "retail"
	CustomerWholesale  CustomerType = "wholesale"
	CustomerContractor CustomerType = "contractor"
	CustomerDealer     CustomerType = "dealer"
)

type WireType string

const (
	SingleCore WireType = "single_core"
	MultiCore  WireType = "multi_core"
	Armored    WireType = "armored"
	Flexible   WireType = "flexible"
	HouseWire  WireType = "house_wire"
)

type Insulation string

const (
	PVC           Insulation = "pvc"
	XLPE          Insulation = "xlpe"
	Rubber        Insulation = "rubber"
	Thermoplastic Insulation = "thermoplastic"
)

type Conductor string

const (
	Copper   Conductor = "copper"
	Aluminum Conductor = "aluminum"
	Silver   Conductor = "silver"
)

// VolumeTier maps a quantity range to a unit rate inside a pricing record.
// Tiers are matched in stored order, first match wins.
type VolumeTier struct {
	MinQuantity        float64  `json:"min_quantity"`
	MaxQuantity        *float64 `json:"max_quantity,omitempty"`
	Rate               float64  `json:"rate"`
	DiscountPercentage float64  `json:"discount_percentage,omitempty"`
}

// Matches reports whether quantity falls inside the tier's bounds.
func (t VolumeTier) Matches(quantity float64) bool {
	if quantity < t.MinQuantity {
		return false
	}
	return t.MaxQuantity == nil || quantity <= *t.MaxQuantity
}

// Pricing is one time-bounded, customer-segmented rate plan for a product
// variant. "Deleting" a record only flips IsActive; history is never removed.
type Pricing struct {
	ID        int64 `json:"id" gorm:"primaryKey"`
	ProductID int64 `json:"product_id" gorm:"column:product_id;not null;index:idx_pricings_product_active,priority:1"`

	// Point-in-time display caches copied from the product. Refreshed only
	// when ProductID changes; a later product rename does not touch them.
	ProductName string `json:"product_name" gorm:"type:text;not null"`
	Unit        string `json:"unit" gorm:"type:text;not null"`

	Variant       string  `json:"variant" gorm:"type:text;not null;default:''"`
	Specification string  `json:"specification,omitempty" gorm:"type:text"`
	BaseRate      float64 `json:"base_rate" gorm:"not null"`
	GSTPercentage float64 `json:"gst_percentage" gorm:"not null;default:0"`

	VolumePricing datatypes.JSONSlice[VolumeTier] `json:"volume_pricing,omitempty" gorm:"type:jsonb"`

	EffectiveFrom time.Time  `json:"effective_from" gorm:"not null;index"`
	EffectiveTo   *time.Time `json:"effective_to,omitempty" gorm:"index"`

	CustomerType CustomerType `json:"customer_type" gorm:"type:text;not null;default:'all'"`

	WireSize   *float64   `json:"wire_size,omitempty"`
	WireType   WireType   `json:"wire_type,omitempty" gorm:"type:text"`
	Insulation Insulation `json:"insulation,omitempty" gorm:"type:text"`
	Conductor  Conductor  `json:"conductor,omitempty" gorm:"type:text;default:'copper'"`

	CostPrice        *float64 `json:"cost_price,omitempty"`
	MarkupPercentage *float64 `json:"markup_percentage,omitempty"`

	IsActive  bool `json:"is_active" gorm:"not null;default:true;index:idx_pricings_product_active,priority:2"`
	IsDefault bool `json:"is_default" gorm:"not null;default:false"`

	CreatedBy int64  `json:"created_by" gorm:"not null"`
	UpdatedBy *int64 `json:"updated_by,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Pricing) TableName() string { return "pricings" }

// TierRate returns the unit rate for quantity: the first tier in stored
// order whose bounds contain the quantity, else the base rate.
func (p *Pricing) TierRate(quantity float64) float64 {
	for _, tier := range p.VolumePricing {
		if tier.Matches(quantity) {
			return tier.Rate
		}
	}
	return p.BaseRate
}

// openEndedSentinel stands in for a missing EffectiveTo so interval
// comparisons stay total.
var openEndedSentinel = time.Date(2099, time.December, 31, 0, 0, 0, 0, time.UTC)

// WindowEnd returns the record's effective end, or the far-future sentinel
// when the window is open-ended.
func (p *Pricing) WindowEnd() time.Time {
	if p.EffectiveTo != nil {
		return *p.EffectiveTo
	}
	return openEndedSentinel
}

// OpenEndedSentinel exposes the sentinel used for unbounded windows.
func OpenEndedSentinel() time.Time { return openEndedSentinel }

// ValidCustomerType reports whether value is a known segment.
func ValidCustomerType(value CustomerType) bool {
	switch value {
	case CustomerAll, CustomerRetail, CustomerWholesale, CustomerContractor, CustomerDealer:
		return true
	default:
		return false
	}
}

// ValidWireType reports whether value is a known wire construction.
func ValidWireType(value WireType) bool {
	switch value {
	case SingleCore, MultiCore, Armored, Flexible, HouseWire:
		return true
	default:
		return false
	}
}

// ValidInsulation reports whether value is a known insulation material.
func ValidInsulation(value Insulation) bool {
	switch value {
	case PVC, XLPE, Rubber, Thermoplastic:
		return true
	default:
		return false
	}
}

// ValidConductor reports whether value is a known conductor material.
func ValidConductor(value Conductor) bool {
	switch value {
	case Copper, Aluminum, Silver:
		return true
	default:
		return false
	}
}
