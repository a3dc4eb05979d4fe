package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	List(ctx context.Context, req ListRequest) ([]Response, error)
	ByCategory(ctx context.Context, categoryID string, active *bool) ([]Response, error)
	Delete(ctx context.Context, id string) error
}

type CreateRequest struct {
	CompanyID     string   `json:"company_id"`
	CategoryID    string   `json:"category_id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Unit          string   `json:"unit"`
	Rate          *float64 `json:"rate"`
	GSTPercentage *float64 `json:"gst_percentage"`
	HSNCode       string   `json:"hsn_code"`
	IsActive      *bool    `json:"is_active"`
}

type UpdateRequest struct {
	CategoryID    *string  `json:"category_id"`
	Name          *string  `json:"name"`
	Description   *string  `json:"description"`
	Unit          *string  `json:"unit"`
	Rate          *float64 `json:"rate"`
	GSTPercentage *float64 `json:"gst_percentage"`
	HSNCode       *string  `json:"hsn_code"`
	IsActive      *bool    `json:"is_active"`
}

type ListRequest struct {
	CompanyID  string
	CategoryID string
	Search     string
	Active     *bool
}

type Response struct {
	ID            string    `json:"id"`
	CompanyID     string    `json:"company_id"`
	CategoryID    string    `json:"category_id"`
	CategoryName  string    `json:"category_name"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	Unit          string    `json:"unit"`
	Rate          float64   `json:"rate"`
	GSTPercentage float64   `json:"gst_percentage"`
	HSNCode       string    `json:"hsn_code,omitempty"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

var (
	ErrInvalidID            = errors.New("invalid_id")
	ErrInvalidName          = errors.New("invalid_name")
	ErrInvalidUnit          = errors.New("invalid_unit")
	ErrInvalidRate          = errors.New("invalid_rate")
	ErrInvalidGSTPercentage = errors.New("invalid_gst_percentage")
	ErrInvalidCompany       = errors.New("invalid_company")
	ErrInvalidCategory      = errors.New("invalid_category")
	ErrDuplicateName        = errors.New("duplicate_product_name")
	ErrNotFound             = errors.New("not_found")
)
