package domain

// Breakdown is the result of pricing a quantity at a resolved rate.
type Breakdown struct {
	Rate          float64 `json:"rate"`
	Quantity      float64 `json:"quantity"`
	TotalAmount   float64 `json:"total_amount"`
	GSTAmount     float64 `json:"gst_amount"`
	GrandTotal    float64 `json:"grand_total"`
	GSTPercentage float64 `json:"gst_percentage"`
}

// Calculate prices a quantity at the given unit rate and GST percentage.
// No rounding is applied; display formatting is a presentation concern.
func Calculate(rate, quantity, gstPercentage float64) Breakdown {
	totalAmount := rate * quantity
	gstAmount := totalAmount * gstPercentage / 100
	return Breakdown{
		Rate:          rate,
		Quantity:      quantity,
		TotalAmount:   totalAmount,
		GSTAmount:     gstAmount,
		GrandTotal:    totalAmount + gstAmount,
		GSTPercentage: gstPercentage,
	}
}

// CalculatePrice prices a quantity against this record: tier-resolved rate,
// then GST on top.
func (p *Pricing) CalculatePrice(quantity float64) Breakdown {
	return Calculate(p.TierRate(quantity), quantity, p.GSTPercentage)
}
