package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// Filter narrows List queries; zero values mean "no constraint".
type Filter struct {
	ProductID    int64
	CustomerType CustomerType
	Variant      *string
	WireSize     *float64
	WireType     WireType
	Active       *bool
	AsOf         *time.Time
}

// OverlapQuery describes the candidate window checked by the overlap guard.
type OverlapQuery struct {
	ExcludeID    int64
	ProductID    int64
	Variant      string
	CustomerType CustomerType
	WindowStart  time.Time
	WindowEnd    time.Time
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, record *Pricing) error
	Update(ctx context.Context, db *gorm.DB, record *Pricing) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Pricing, error)
	List(ctx context.Context, db *gorm.DB, filter Filter) ([]Pricing, error)

	// FindActiveCandidates returns active records for the product/variant
	// whose effective window covers asOf and whose customer type is "all"
	// or exactly customerType, ordered by effective_from descending.
	FindActiveCandidates(ctx context.Context, db *gorm.DB, productID int64, variant string, customerType CustomerType, asOf time.Time) ([]Pricing, error)

	// FindOverlapping returns an active record whose window intersects the
	// query window for the same (product, variant, customer type), or nil.
	FindOverlapping(ctx context.Context, db *gorm.DB, q OverlapQuery) (*Pricing, error)

	// History returns all records for a product, active and inactive,
	// ordered by effective_from descending, capped at limit.
	History(ctx context.Context, db *gorm.DB, productID int64, limit int) ([]Pricing, error)
}
