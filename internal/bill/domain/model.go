// Package domain contains persistence models for the bill service.
package domain

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
)

type Status string

const (
	StatusDraft         Status = "draft"
	StatusFinalized     Status = "finalized"
	StatusSent          Status = "sent"
	StatusPaid          Status = "paid"
	StatusPartiallyPaid Status = "partially_paid"
	StatusOverdue       Status = "overdue"
	StatusCancelled     Status = "cancelled"
)

func ValidStatus(value Status) bool {
	switch value {
	case StatusDraft, StatusFinalized, StatusSent, StatusPaid, StatusPartiallyPaid, StatusOverdue, StatusCancelled:
		return true
	default:
		return false
	}
}

type PaymentStatus string

const (
	PaymentUnpaid        PaymentStatus = "unpaid"
	PaymentPartiallyPaid PaymentStatus = "partially_paid"
	PaymentPaid          PaymentStatus = "paid"
)

// CustomerInfo is the customer block printed on the bill.
type CustomerInfo struct {
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	GSTIN   string `json:"gstin,omitempty"`
}

// Item is one priced line of a bill. Rate, unit and amounts are snapshots
// taken when the line was priced; later catalog or rate changes do not
// rewrite issued bills.
type Item struct {
	ProductID     int64   `json:"product_id"`
	ProductName   string  `json:"product_name"`
	Description   string  `json:"description,omitempty"`
	Quantity      float64 `json:"quantity"`
	Unit          string  `json:"unit"`
	Rate          float64 `json:"rate"`
	Amount        float64 `json:"amount"`
	GSTPercentage float64 `json:"gst_percentage"`
	GSTAmount     float64 `json:"gst_amount"`
	TotalAmount   float64 `json:"total_amount"`
}

// Bill is a BOQ-style invoice issued by a company.
type Bill struct {
	ID         int64  `json:"id" gorm:"primaryKey"`
	CompanyID  int64  `json:"company_id" gorm:"not null;index:idx_bills_company_number,priority:1"`
	TemplateID *int64 `json:"template_id,omitempty"`

	BillNumber   string `json:"bill_number" gorm:"type:text;not null;uniqueIndex:ux_bills_number"`
	BillYear     int    `json:"bill_year" gorm:"not null"`
	BillSequence int64  `json:"bill_sequence" gorm:"not null"`

	CustomerInfo datatypes.JSONType[CustomerInfo] `json:"customer_info" gorm:"type:jsonb"`

	BillDate time.Time  `json:"bill_date" gorm:"not null;index"`
	DueDate  *time.Time `json:"due_date,omitempty"`

	Items        datatypes.JSONSlice[Item] `json:"items" gorm:"type:jsonb"`
	CustomFields datatypes.JSONMap         `json:"custom_fields,omitempty" gorm:"type:jsonb"`

	Subtotal   float64 `json:"subtotal" gorm:"not null"`
	TotalGST   float64 `json:"total_gst" gorm:"not null;default:0"`
	Discount   float64 `json:"discount" gorm:"not null;default:0"`
	GrandTotal float64 `json:"grand_total" gorm:"not null"`

	Notes string `json:"notes,omitempty" gorm:"type:text"`

	Status        Status        `json:"status" gorm:"type:text;not null;default:'draft';index"`
	PaymentStatus PaymentStatus `json:"payment_status" gorm:"type:text;not null;default:'unpaid'"`
	PaidAmount    float64       `json:"paid_amount" gorm:"not null;default:0"`

	CreatedBy *int64 `json:"created_by,omitempty"`
	UpdatedBy *int64 `json:"updated_by,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Bill) TableName() string { return "bills" }

// FormatNumber renders the display number for a bill sequence,
// e.g. BILL-2026-0007.
func FormatNumber(year int, sequence int64) string {
	return fmt.Sprintf("BILL-%d-%04d", year, sequence)
}

// Outstanding returns the unpaid remainder.
func (b *Bill) Outstanding() float64 {
	return b.GrandTotal - b.PaidAmount
}

// RecomputeTotals rebuilds subtotal, GST total and grand total from the
// line items and the current discount.
func (b *Bill) RecomputeTotals() {
	var subtotal, totalGST float64
	for _, item := range b.Items {
		subtotal += item.Amount
		totalGST += item.GSTAmount
	}
	b.Subtotal = subtotal
	b.TotalGST = totalGST
	b.GrandTotal = subtotal + totalGST - b.Discount
}
