package domain

import "time"

type Method string

const (
	MethodCash         Method = "cash"
	MethodBankTransfer Method = "bank_transfer"
	MethodCheck        Method = "check"
	MethodCreditCard   Method = "credit_card"
	MethodUPI          Method = "upi"
	MethodOther        Method = "other"
)

func ValidMethod(value Method) bool {
	switch value {
	case MethodCash, MethodBankTransfer, MethodCheck, MethodCreditCard, MethodUPI, MethodOther:
		return true
	default:
		return false
	}
}

// Payment records money received against a bill.
type Payment struct {
	ID        int64 `json:"id" gorm:"primaryKey"`
	BillID    int64 `json:"bill_id" gorm:"not null;index"`
	CompanyID int64 `json:"company_id" gorm:"not null;index"`

	Amount          float64   `json:"amount" gorm:"not null"`
	PaymentDate     time.Time `json:"payment_date" gorm:"not null;index"`
	PaymentMethod   Method    `json:"payment_method" gorm:"type:text;not null;default:'bank_transfer'"`
	ReferenceNumber string    `json:"reference_number,omitempty" gorm:"type:text"`
	Notes           string    `json:"notes,omitempty" gorm:"type:text"`

	CreatedBy *int64 `json:"created_by,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Payment) TableName() string { return "payments" }
