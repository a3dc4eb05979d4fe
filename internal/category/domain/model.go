package domain

import "time"

// Category groups products; an optional parent forms a tree.
type Category struct {
	ID          int64  `json:"id" gorm:"primaryKey"`
	CompanyID   int64  `json:"company_id" gorm:"not null;index:idx_categories_company_name,priority:1"`
	Name        string `json:"name" gorm:"type:text;not null;index:idx_categories_company_name,priority:2"`
	Description string `json:"description,omitempty" gorm:"type:text"`
	ParentID    *int64 `json:"parent_id,omitempty" gorm:"index"`
	IsActive    bool   `json:"is_active" gorm:"not null;default:true"`

	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Category) TableName() string { return "categories" }
