package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, category *Category) error
	Update(ctx context.Context, db *gorm.DB, category *Category) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Category, error)
	List(ctx context.Context, db *gorm.DB, companyID int64, active *bool) ([]Category, error)
	Children(ctx context.Context, db *gorm.DB, parentID int64) ([]Category, error)

	// FindByName returns an active category with the given name under the
	// company, or nil. excludeID skips one record when non-zero.
	FindByName(ctx context.Context, db *gorm.DB, companyID int64, name string, excludeID int64) (*Category, error)

	// CountChildren counts active subcategories.
	CountChildren(ctx context.Context, db *gorm.DB, parentID int64) (int64, error)
}
