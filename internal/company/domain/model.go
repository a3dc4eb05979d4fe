// Package domain contains persistence models for the company service.
package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Branding controls invoice colors and typography.
type Branding struct {
	PrimaryColor   string `json:"primary_color"`
	SecondaryColor string `json:"secondary_color"`
	FontFamily     string `json:"font_family"`
}

// PDFLayout controls page setup for rendered bills.
type PDFLayout struct {
	HeaderTemplate string `json:"header_template"`
	FooterTemplate string `json:"footer_template"`
	PageSize       string `json:"page_size"`
	Orientation    string `json:"orientation"`
}

type Address struct {
	Street     string `json:"street,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country,omitempty"`
}

type ContactInfo struct {
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Website string `json:"website,omitempty"`
}

type TaxInfo struct {
	GSTIN string `json:"gstin,omitempty"`
	PAN   string `json:"pan,omitempty"`
}

func DefaultBranding() Branding {
	return Branding{
		PrimaryColor:   "#3B82F6",
		SecondaryColor: "#1E3A8A",
		FontFamily:     "Arial, sans-serif",
	}
}

func DefaultPDFLayout() PDFLayout {
	return PDFLayout{
		HeaderTemplate: "default",
		FooterTemplate: "default",
		PageSize:       "A4",
		Orientation:    "portrait",
	}
}

// Company owns a catalog and issues bills under its branding.
type Company struct {
	ID        int64   `json:"id" gorm:"primaryKey"`
	Name      string  `json:"name" gorm:"type:text;not null;index"`
	Slug      string  `json:"slug" gorm:"type:text;not null"`
	Logo      *string `json:"logo,omitempty" gorm:"type:text"`

	Branding    datatypes.JSONType[Branding]    `json:"branding" gorm:"type:jsonb"`
	PDFLayout   datatypes.JSONType[PDFLayout]   `json:"pdf_layout" gorm:"type:jsonb"`
	Address     datatypes.JSONType[Address]     `json:"address" gorm:"type:jsonb"`
	ContactInfo datatypes.JSONType[ContactInfo] `json:"contact_info" gorm:"type:jsonb"`
	TaxInfo     datatypes.JSONType[TaxInfo]     `json:"tax_info" gorm:"type:jsonb"`

	IsActive bool `json:"is_active" gorm:"not null;default:true"`

	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Company) TableName() string { return "companies" }
