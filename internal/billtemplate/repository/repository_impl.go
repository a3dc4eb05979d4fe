package repository

import (
	"context"
	"errors"

	"github.com/boqbill/boqbill/internal/billtemplate/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, template *domain.BillTemplate) error {
	return db.WithContext(ctx).Create(template).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, template *domain.BillTemplate) error {
	return db.WithContext(ctx).Save(template).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.BillTemplate, error) {
	var t domain.BillTemplate
	err := db.WithContext(ctx).First(&t, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, companyID int64, active *bool) ([]domain.BillTemplate, error) {
	query := db.WithContext(ctx).Model(&domain.BillTemplate{})
	if companyID != 0 {
		query = query.Where("company_id = ?", companyID)
	}

	isActive := true
	if active != nil {
		isActive = *active
	}
	query = query.Where("is_active = ?", isActive)

	var items []domain.BillTemplate
	if err := query.Order("name ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) ClearDefault(ctx context.Context, db *gorm.DB, companyID, keepID int64) error {
	return db.WithContext(ctx).
		Model(&domain.BillTemplate{}).
		Where("company_id = ?", companyID).
		Where("id <> ?", keepID).
		Update("is_default", false).Error
}
