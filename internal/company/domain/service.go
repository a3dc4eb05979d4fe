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
	List(ctx context.Context, active *bool) ([]Response, error)
	Delete(ctx context.Context, id string) error
}

type CreateRequest struct {
	Name        string       `json:"name"`
	Logo        *string      `json:"logo"`
	Branding    *Branding    `json:"branding"`
	PDFLayout   *PDFLayout   `json:"pdf_layout"`
	Address     *Address     `json:"address"`
	ContactInfo *ContactInfo `json:"contact_info"`
	TaxInfo     *TaxInfo     `json:"tax_info"`
	IsActive    *bool        `json:"is_active"`
}

type UpdateRequest struct {
	Name        *string      `json:"name"`
	Logo        *string      `json:"logo"`
	Branding    *Branding    `json:"branding"`
	PDFLayout   *PDFLayout   `json:"pdf_layout"`
	Address     *Address     `json:"address"`
	ContactInfo *ContactInfo `json:"contact_info"`
	TaxInfo     *TaxInfo     `json:"tax_info"`
	IsActive    *bool        `json:"is_active"`
}

type Response struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Slug        string      `json:"slug"`
	Logo        *string     `json:"logo,omitempty"`
	Branding    Branding    `json:"branding"`
	PDFLayout   PDFLayout   `json:"pdf_layout"`
	Address     Address     `json:"address"`
	ContactInfo ContactInfo `json:"contact_info"`
	TaxInfo     TaxInfo     `json:"tax_info"`
	IsActive    bool        `json:"is_active"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

var (
	ErrInvalidID          = errors.New("invalid_id")
	ErrInvalidName        = errors.New("invalid_name")
	ErrInvalidOrientation = errors.New("invalid_orientation")
	ErrNotFound           = errors.New("not_found")
)
