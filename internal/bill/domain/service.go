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
	Finalize(ctx context.Context, id string) (*Response, error)
	ExportCSV(ctx context.Context, id string) ([]byte, error)
	RenderPDF(ctx context.Context, id string) ([]byte, error)
}

// ItemRequest prices one line. When Rate is nil the line is priced through
// the rate resolver at the bill date for the given customer type.
type ItemRequest struct {
	ProductID     string   `json:"product_id"`
	Description   string   `json:"description"`
	Quantity      *float64 `json:"quantity"`
	Variant       string   `json:"variant"`
	Rate          *float64 `json:"rate"`
	GSTPercentage *float64 `json:"gst_percentage"`
}

type CreateRequest struct {
	CompanyID    string         `json:"company_id"`
	TemplateID   *string        `json:"template_id"`
	CustomerInfo CustomerInfo   `json:"customer_info"`
	CustomerType string         `json:"customer_type"`
	BillDate     *time.Time     `json:"bill_date"`
	DueDate      *time.Time     `json:"due_date"`
	Items        []ItemRequest  `json:"items"`
	CustomFields map[string]any `json:"custom_fields"`
	Discount     *float64       `json:"discount"`
	Notes        string         `json:"notes"`
}

type UpdateRequest struct {
	CustomerInfo *CustomerInfo  `json:"customer_info"`
	CustomerType string         `json:"customer_type"`
	BillDate     *time.Time     `json:"bill_date"`
	DueDate      *time.Time     `json:"due_date"`
	Items        []ItemRequest  `json:"items"`
	CustomFields map[string]any `json:"custom_fields"`
	Discount     *float64       `json:"discount"`
	Notes        *string        `json:"notes"`
	Status       *string        `json:"status"`
}

type ListRequest struct {
	CompanyID     string
	Status        string
	PaymentStatus string
	CustomerName  string
	From          *time.Time
	To            *time.Time
}

type Response struct {
	ID            string         `json:"id"`
	CompanyID     string         `json:"company_id"`
	TemplateID    *string        `json:"template_id,omitempty"`
	BillNumber    string         `json:"bill_number"`
	CustomerInfo  CustomerInfo   `json:"customer_info"`
	BillDate      time.Time      `json:"bill_date"`
	DueDate       *time.Time     `json:"due_date,omitempty"`
	Items         []Item         `json:"items"`
	CustomFields  map[string]any `json:"custom_fields,omitempty"`
	Subtotal      float64        `json:"subtotal"`
	TotalGST      float64        `json:"total_gst"`
	Discount      float64        `json:"discount"`
	GrandTotal    float64        `json:"grand_total"`
	Notes         string         `json:"notes,omitempty"`
	Status        Status         `json:"status"`
	PaymentStatus PaymentStatus  `json:"payment_status"`
	PaidAmount    float64        `json:"paid_amount"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

var (
	ErrInvalidID         = errors.New("invalid_id")
	ErrInvalidCompany    = errors.New("invalid_company")
	ErrInvalidTemplate   = errors.New("invalid_template")
	ErrInvalidCustomer   = errors.New("invalid_customer")
	ErrInvalidProduct    = errors.New("invalid_product")
	ErrInvalidQuantity   = errors.New("invalid_quantity")
	ErrInvalidRate       = errors.New("invalid_rate")
	ErrInvalidDiscount   = errors.New("invalid_discount")
	ErrInvalidStatus     = errors.New("invalid_status")
	ErrInvalidAmount     = errors.New("invalid_amount")
	ErrMissingItems      = errors.New("missing_items")
	ErrNotDraft          = errors.New("bill_not_draft")
	ErrAlreadyFinal      = errors.New("bill_already_finalized")
	ErrOverpayment       = errors.New("payment_exceeds_outstanding")
	ErrNotFound          = errors.New("not_found")
)
