package domain

import "time"

// Product is a catalog entry. CategoryName is a point-in-time copy of the
// category's name, refreshed only when CategoryID changes.
type Product struct {
	ID            int64   `json:"id" gorm:"primaryKey"`
	CompanyID     int64   `json:"company_id" gorm:"not null;index:idx_products_company_name,priority:1"`
	CategoryID    int64   `json:"category_id" gorm:"not null;index"`
	CategoryName  string  `json:"category_name" gorm:"type:text;not null"`
	Name          string  `json:"name" gorm:"type:text;not null;index:idx_products_company_name,priority:2"`
	Description   string  `json:"description,omitempty" gorm:"type:text"`
	Unit          string  `json:"unit" gorm:"type:text;not null"`
	Rate          float64 `json:"rate" gorm:"not null"`
	GSTPercentage float64 `json:"gst_percentage" gorm:"not null;default:0"`
	HSNCode       string  `json:"hsn_code,omitempty" gorm:"type:text"`
	IsActive      bool    `json:"is_active" gorm:"not null;default:true"`

	CreatedBy *int64 `json:"created_by,omitempty"`
	UpdatedBy *int64 `json:"updated_by,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Product) TableName() string { return "products" }
