package domain

import (
	"time"

	"gorm.io/datatypes"
)

type FieldType string

const (
	FieldText     FieldType = "text"
	FieldNumber   FieldType = "number"
	FieldDate     FieldType = "date"
	FieldDropdown FieldType = "dropdown"
	FieldFormula  FieldType = "formula"
)

func ValidFieldType(value FieldType) bool {
	switch value {
	case FieldText, FieldNumber, FieldDate, FieldDropdown, FieldFormula:
		return true
	default:
		return false
	}
}

// FieldDefinition describes one custom field a bill built from this
// template carries.
type FieldDefinition struct {
	Label        string   `json:"label"`
	Key          string   `json:"key"`
	DataType     FieldType `json:"data_type"`
	Required     bool     `json:"required"`
	Order        int      `json:"order"`
	DefaultValue any      `json:"default_value,omitempty"`
	Options      []string `json:"options,omitempty"`
	Formula      string   `json:"formula,omitempty"`
}

// BillTemplate is a named set of custom field definitions for a company.
type BillTemplate struct {
	ID          int64  `json:"id" gorm:"primaryKey"`
	CompanyID   int64  `json:"company_id" gorm:"not null;index:idx_bill_templates_company_name,priority:1"`
	Name        string `json:"name" gorm:"type:text;not null;index:idx_bill_templates_company_name,priority:2"`
	Description string `json:"description,omitempty" gorm:"type:text"`

	Fields datatypes.JSONSlice[FieldDefinition] `json:"fields" gorm:"type:jsonb"`

	IsDefault bool `json:"is_default" gorm:"not null;default:false"`
	IsActive  bool `json:"is_active" gorm:"not null;default:true"`

	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (BillTemplate) TableName() string { return "bill_templates" }
