package repository

import (
	"context"
	"errors"

	"github.com/boqbill/boqbill/internal/category/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, category *domain.Category) error {
	return db.WithContext(ctx).Create(category).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, category *domain.Category) error {
	return db.WithContext(ctx).Save(category).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Category, error) {
	var c domain.Category
	err := db.WithContext(ctx).First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, companyID int64, active *bool) ([]domain.Category, error) {
	query := db.WithContext(ctx).Model(&domain.Category{})
	if companyID != 0 {
		query = query.Where("company_id = ?", companyID)
	}

	isActive := true
	if active != nil {
		isActive = *active
	}
	query = query.Where("is_active = ?", isActive)

	var items []domain.Category
	if err := query.Order("name ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) Children(ctx context.Context, db *gorm.DB, parentID int64) ([]domain.Category, error) {
	var items []domain.Category
	err := db.WithContext(ctx).
		Where("parent_id = ?", parentID).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) FindByName(ctx context.Context, db *gorm.DB, companyID int64, name string, excludeID int64) (*domain.Category, error) {
	query := db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Where("name = ?", name).
		Where("is_active = ?", true)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var c domain.Category
	err := query.First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repo) CountChildren(ctx context.Context, db *gorm.DB, parentID int64) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&domain.Category{}).
		Where("parent_id = ?", parentID).
		Where("is_active = ?", true).
		Count(&count).Error
	return count, err
}
