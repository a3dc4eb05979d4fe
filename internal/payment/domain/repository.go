package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, payment *Payment) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Payment, error)
	ListByBill(ctx context.Context, db *gorm.DB, billID int64) ([]Payment, error)
	List(ctx context.Context, db *gorm.DB, companyID int64) ([]Payment, error)
}
