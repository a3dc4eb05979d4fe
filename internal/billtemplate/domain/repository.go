package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, template *BillTemplate) error
	Update(ctx context.Context, db *gorm.DB, template *BillTemplate) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*BillTemplate, error)
	List(ctx context.Context, db *gorm.DB, companyID int64, active *bool) ([]BillTemplate, error)

	// ClearDefault unsets is_default on every template of the company
	// except keepID.
	ClearDefault(ctx context.Context, db *gorm.DB, companyID, keepID int64) error
}
