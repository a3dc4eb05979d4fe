package repository

import (
	"context"
	"errors"

	"github.com/boqbill/boqbill/internal/payment/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, payment *domain.Payment) error {
	return db.WithContext(ctx).Create(payment).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Payment, error) {
	var p domain.Payment
	err := db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repo) ListByBill(ctx context.Context, db *gorm.DB, billID int64) ([]domain.Payment, error) {
	var items []domain.Payment
	err := db.WithContext(ctx).
		Where("bill_id = ?", billID).
		Order("payment_date DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, companyID int64) ([]domain.Payment, error) {
	query := db.WithContext(ctx).Model(&domain.Payment{})
	if companyID != 0 {
		query = query.Where("company_id = ?", companyID)
	}

	var items []domain.Payment
	if err := query.Order("payment_date DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
