package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/boqbill/boqbill/internal/bill/domain"
	"github.com/boqbill/boqbill/internal/providers/pdf"
	"github.com/bwmarrin/snowflake"
)

// ExportCSV renders the bill's line items as CSV with a totals block.
func (s *Service) ExportCSV(ctx context.Context, id string) ([]byte, error) {
	billID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	b, err := s.repo.FindByID(ctx, s.db, billID.Int64())
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.ErrNotFound
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	records := [][]string{
		{"bill_number", b.BillNumber},
		{"bill_date", b.BillDate.Format("2006-01-02")},
		{"customer", b.CustomerInfo.Data().Name},
		{},
		{"item", "description", "quantity", "unit", "rate", "amount", "gst_percentage", "gst_amount", "total"},
	}
	for _, item := range b.Items {
		records = append(records, []string{
			item.ProductName,
			item.Description,
			formatQuantity(item.Quantity),
			item.Unit,
			formatMoney(item.Rate),
			formatMoney(item.Amount),
			formatQuantity(item.GSTPercentage),
			formatMoney(item.GSTAmount),
			formatMoney(item.TotalAmount),
		})
	}
	records = append(records,
		[]string{},
		[]string{"subtotal", formatMoney(b.Subtotal)},
		[]string{"total_gst", formatMoney(b.TotalGST)},
		[]string{"discount", formatMoney(b.Discount)},
		[]string{"grand_total", formatMoney(b.GrandTotal)},
	)

	if err := w.WriteAll(records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderPDF renders the bill under its company's letterhead.
func (s *Service) RenderPDF(ctx context.Context, id string) ([]byte, error) {
	billID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	b, err := s.repo.FindByID(ctx, s.db, billID.Int64())
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.ErrNotFound
	}

	company, err := s.companyRepo.FindByID(ctx, s.db, b.CompanyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrInvalidCompany
	}

	customer := b.CustomerInfo.Data()
	address := company.Address.Data()
	contact := company.ContactInfo.Data()
	tax := company.TaxInfo.Data()

	data := pdf.BillData{
		CompanyName:    company.Name,
		CompanyAddress: formatAddress(address.Street, address.City, address.State, address.PostalCode, address.Country),
		CompanyGSTIN:   tax.GSTIN,
		CompanyEmail:   contact.Email,
		CompanyPhone:   contact.Phone,

		BillNumber: b.BillNumber,
		BillDate:   b.BillDate.Format("02 Jan 2006"),
		DueDate:    formatOptionalDate(b.DueDate),
		Status:     string(b.Status),

		CustomerName:    customer.Name,
		CustomerAddress: customer.Address,
		CustomerGSTIN:   customer.GSTIN,
		CustomerEmail:   customer.Email,
		CustomerPhone:   customer.Phone,

		Subtotal:   formatMoney(b.Subtotal),
		TotalGST:   formatMoney(b.TotalGST),
		Discount:   formatMoney(b.Discount),
		GrandTotal: formatMoney(b.GrandTotal),
		PaidAmount: formatMoney(b.PaidAmount),
		AmountDue:  formatMoney(b.Outstanding()),

		Notes: b.Notes,
	}
	for _, item := range b.Items {
		data.Items = append(data.Items, pdf.BillItem{
			Name:          item.ProductName,
			Description:   item.Description,
			Quantity:      formatQuantity(item.Quantity),
			Unit:          item.Unit,
			Rate:          formatMoney(item.Rate),
			Amount:        formatMoney(item.Amount),
			GSTPercentage: formatQuantity(item.GSTPercentage),
			Total:         formatMoney(item.TotalAmount),
		})
	}

	reader, err := s.pdf.GenerateBill(ctx, data)
	if err != nil {
		return nil, err
	}
	return io.ReadAll(reader)
}

func formatMoney(value float64) string {
	return fmt.Sprintf("%.2f", value)
}

func formatQuantity(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func formatOptionalDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("02 Jan 2006")
}

func formatAddress(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) != "" {
			kept = append(kept, strings.TrimSpace(part))
		}
	}
	return strings.Join(kept, ", ")
}
