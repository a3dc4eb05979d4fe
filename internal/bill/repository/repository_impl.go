package repository

import (
	"context"
	"errors"

	"github.com/boqbill/boqbill/internal/bill/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, bill *domain.Bill) error {
	return db.WithContext(ctx).Create(bill).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, bill *domain.Bill) error {
	return db.WithContext(ctx).Save(bill).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Bill, error) {
	var b domain.Bill
	err := db.WithContext(ctx).First(&b, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.Filter) ([]domain.Bill, error) {
	query := db.WithContext(ctx).Model(&domain.Bill{})

	if filter.CompanyID != 0 {
		query = query.Where("company_id = ?", filter.CompanyID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.PaymentStatus != "" {
		query = query.Where("payment_status = ?", filter.PaymentStatus)
	}
	if filter.CustomerName != "" {
		query = query.Where("customer_info LIKE ?", "%"+filter.CustomerName+"%")
	}
	if filter.From != nil {
		query = query.Where("bill_date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("bill_date <= ?", *filter.To)
	}

	var items []domain.Bill
	if err := query.Order("bill_date DESC").Order("bill_sequence DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) NextSequence(ctx context.Context, db *gorm.DB, companyID int64, year int) (int64, error) {
	var next int64
	err := db.WithContext(ctx).Raw(
		`SELECT COALESCE(MAX(bill_sequence), 0) + 1
		 FROM bills
		 WHERE company_id = ? AND bill_year = ?`,
		companyID,
		year,
	).Scan(&next).Error
	if err != nil {
		return 0, err
	}
	return next, nil
}
