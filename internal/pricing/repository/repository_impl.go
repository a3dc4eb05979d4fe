package repository

import (
	"context"
	"errors"
	"time"

	"github.com/boqbill/boqbill/internal/pricing/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, record *domain.Pricing) error {
	return db.WithContext(ctx).Create(record).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, record *domain.Pricing) error {
	return db.WithContext(ctx).Save(record).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Pricing, error) {
	var record domain.Pricing
	err := db.WithContext(ctx).First(&record, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.Filter) ([]domain.Pricing, error) {
	query := db.WithContext(ctx).Model(&domain.Pricing{})

	if filter.ProductID != 0 {
		query = query.Where("product_id = ?", filter.ProductID)
	}
	if filter.CustomerType != "" {
		query = query.Where("customer_type = ?", filter.CustomerType)
	}
	if filter.Variant != nil {
		query = query.Where("variant = ?", *filter.Variant)
	}
	if filter.WireSize != nil {
		query = query.Where("wire_size = ?", *filter.WireSize)
	}
	if filter.WireType != "" {
		query = query.Where("wire_type = ?", filter.WireType)
	}

	active := true
	if filter.Active != nil {
		active = *filter.Active
	}
	query = query.Where("is_active = ?", active)

	if filter.AsOf != nil {
		query = query.
			Where("effective_from <= ?", *filter.AsOf).
			Where("(effective_to IS NULL OR effective_to >= ?)", *filter.AsOf)
	}

	var items []domain.Pricing
	if err := query.
		Order("product_name ASC").
		Order("variant ASC").
		Order("effective_from DESC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) FindActiveCandidates(ctx context.Context, db *gorm.DB, productID int64, variant string, customerType domain.CustomerType, asOf time.Time) ([]domain.Pricing, error) {
	var items []domain.Pricing
	err := db.WithContext(ctx).
		Where("product_id = ?", productID).
		Where("variant = ?", variant).
		Where("is_active = ?", true).
		Where("effective_from <= ?", asOf).
		Where("(effective_to IS NULL OR effective_to >= ?)", asOf).
		Where("customer_type IN ?", []domain.CustomerType{domain.CustomerAll, customerType}).
		Order("effective_from DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) FindOverlapping(ctx context.Context, db *gorm.DB, q domain.OverlapQuery) (*domain.Pricing, error) {
	query := db.WithContext(ctx).
		Where("product_id = ?", q.ProductID).
		Where("variant = ?", q.Variant).
		Where("customer_type = ?", q.CustomerType).
		Where("is_active = ?", true).
		Where("effective_from <= ?", q.WindowEnd).
		Where("(effective_to IS NULL OR effective_to >= ?)", q.WindowStart)

	if q.ExcludeID != 0 {
		query = query.Where("id <> ?", q.ExcludeID)
	}

	var record domain.Pricing
	err := query.First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repo) History(ctx context.Context, db *gorm.DB, productID int64, limit int) ([]domain.Pricing, error) {
	var items []domain.Pricing
	err := db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("effective_from DESC").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
