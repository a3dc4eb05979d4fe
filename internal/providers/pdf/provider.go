package pdf

import (
	"context"
	"io"
)

// BillData is the render model handed to the PDF provider. All values are
// preformatted strings so the renderer stays free of pricing logic.
type BillData struct {
	CompanyName    string
	CompanyAddress string
	CompanyGSTIN   string
	CompanyEmail   string
	CompanyPhone   string

	BillNumber string
	BillDate   string
	DueDate    string
	Status     string

	CustomerName    string
	CustomerAddress string
	CustomerGSTIN   string
	CustomerEmail   string
	CustomerPhone   string

	Items []BillItem

	Subtotal   string
	TotalGST   string
	Discount   string
	GrandTotal string
	PaidAmount string
	AmountDue  string

	Notes string
}

type BillItem struct {
	Name          string
	Description   string
	Quantity      string
	Unit          string
	Rate          string
	Amount        string
	GSTPercentage string
	Total         string
}

type Provider interface {
	GenerateBill(ctx context.Context, data BillData) (io.Reader, error)
}
