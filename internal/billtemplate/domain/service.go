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
	Delete(ctx context.Context, id string) error
}

type FieldRequest struct {
	Label        string   `json:"label"`
	Key          string   `json:"key"`
	DataType     string   `json:"data_type"`
	Required     bool     `json:"required"`
	Order        int      `json:"order"`
	DefaultValue any      `json:"default_value"`
	Options      []string `json:"options"`
	Formula      string   `json:"formula"`
}

type CreateRequest struct {
	CompanyID   string         `json:"company_id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Fields      []FieldRequest `json:"fields"`
	IsDefault   *bool          `json:"is_default"`
	IsActive    *bool          `json:"is_active"`
}

type UpdateRequest struct {
	Name        *string        `json:"name"`
	Description *string        `json:"description"`
	Fields      []FieldRequest `json:"fields"`
	IsDefault   *bool          `json:"is_default"`
	IsActive    *bool          `json:"is_active"`
}

type ListRequest struct {
	CompanyID string
	Active    *bool
}

type Response struct {
	ID          string            `json:"id"`
	CompanyID   string            `json:"company_id"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Fields      []FieldDefinition `json:"fields"`
	IsDefault   bool              `json:"is_default"`
	IsActive    bool              `json:"is_active"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

var (
	ErrInvalidID        = errors.New("invalid_id")
	ErrInvalidName      = errors.New("invalid_name")
	ErrInvalidCompany   = errors.New("invalid_company")
	ErrInvalidFieldKey  = errors.New("invalid_field_key")
	ErrInvalidFieldType = errors.New("invalid_field_type")
	ErrDuplicateField   = errors.New("duplicate_field_key")
	ErrNotFound         = errors.New("not_found")
)
