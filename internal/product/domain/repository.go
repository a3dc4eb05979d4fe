package domain

import (
	"context"

	"gorm.io/gorm"
)

// Filter narrows List queries; zero values mean "no constraint".
type Filter struct {
	CompanyID  int64
	CategoryID int64
	Search     string
	Active     *bool
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, product *Product) error
	Update(ctx context.Context, db *gorm.DB, product *Product) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Product, error)
	List(ctx context.Context, db *gorm.DB, filter Filter) ([]Product, error)

	// FindByNameInCategory returns an active product with the given name in
	// the category, or nil. excludeID skips one record when non-zero.
	FindByNameInCategory(ctx context.Context, db *gorm.DB, categoryID int64, name string, excludeID int64) (*Product, error)

	// CountByCategory counts active products referencing the category.
	CountByCategory(ctx context.Context, db *gorm.DB, categoryID int64) (int64, error)
}
