package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	List(ctx context.Context, req ListRequest) ([]Response, error)
}

type CreateRequest struct {
	BillID          string     `json:"bill_id"`
	Amount          *float64   `json:"amount"`
	PaymentDate     *time.Time `json:"payment_date"`
	PaymentMethod   string     `json:"payment_method"`
	ReferenceNumber string     `json:"reference_number"`
	Notes           string     `json:"notes"`
}

type ListRequest struct {
	BillID    string
	CompanyID string
}

type Response struct {
	ID              string    `json:"id"`
	BillID          string    `json:"bill_id"`
	CompanyID       string    `json:"company_id"`
	Amount          float64   `json:"amount"`
	PaymentDate     time.Time `json:"payment_date"`
	PaymentMethod   Method    `json:"payment_method"`
	ReferenceNumber string    `json:"reference_number,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

var (
	ErrInvalidID     = errors.New("invalid_id")
	ErrInvalidBill   = errors.New("invalid_bill")
	ErrInvalidAmount = errors.New("invalid_amount")
	ErrInvalidMethod = errors.New("invalid_payment_method")
	ErrBillNotOpen   = errors.New("bill_not_open")
	ErrOverpayment   = errors.New("payment_exceeds_outstanding")
	ErrNotFound      = errors.New("not_found")
)
