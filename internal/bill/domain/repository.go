package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// Filter narrows List queries; zero values mean "no constraint".
type Filter struct {
	CompanyID     int64
	Status        Status
	PaymentStatus PaymentStatus
	CustomerName  string
	From          *time.Time
	To            *time.Time
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, bill *Bill) error
	Update(ctx context.Context, db *gorm.DB, bill *Bill) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Bill, error)
	List(ctx context.Context, db *gorm.DB, filter Filter) ([]Bill, error)

	// NextSequence returns the next bill sequence for the company and year.
	// Callers run it inside the same transaction as the insert.
	NextSequence(ctx context.Context, db *gorm.DB, companyID int64, year int) (int64, error)
}
