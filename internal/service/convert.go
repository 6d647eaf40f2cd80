package service

import (
	"time"

	"github.com/ofabiomaran/Loja/internal/dto"
	"github.com/ofabiomaran/Loja/internal/model"
	"github.com/ofabiomaran/Loja/internal/pricing"
)

// now is the clock used for every timestamp the services write. Microsecond
// precision is what Postgres keeps, so values round-trip through any store.
var now = func() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

const timeLayout = time.RFC3339Nano

func formatTime(t time.Time) string { return t.UTC().Format(timeLayout) }

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

func stockStatus(stock, threshold int) string {
	switch {
	case stock < 0:
		return dto.StockNegative
	case stock < threshold:
		return dto.StockLow
	default:
		return dto.StockOK
	}
}

func productToResponse(p model.Product, threshold int) dto.ProductResponse {
	return dto.ProductResponse{
		ID:          p.ID.String(),
		Name:        p.Name,
		Price:       p.Price,
		Stock:       p.Stock,
		StockStatus: stockStatus(p.Stock, threshold),
		Category:    p.Category,
		Description: p.Description,
		Barcode:     p.Barcode,
		ImageURL:    p.ImageURL,
	}
}

func lineToResponse(l model.LineItem) dto.LineItemResponse {
	gross := l.Product.Price.Mul(decimalInt(l.Quantity))
	return dto.LineItemResponse{
		ProductID: l.Product.ID.String(),
		Name:      l.Product.Name,
		UnitPrice: l.Product.Price,
		Quantity:  l.Quantity,
		Discount:  l.Discount,
		Gross:     gross,
		Net:       gross.Sub(pricing.LineDiscount(l)),
	}
}

func discountToResponse(d *model.Discount) *dto.DiscountResponse {
	if d == nil {
		return nil
	}
	return &dto.DiscountResponse{Kind: string(d.Kind), Value: d.Value}
}

func saleToResponse(s model.Sale) dto.SaleResponse {
	items := make([]dto.LineItemResponse, 0, len(s.Items))
	for _, l := range s.Items {
		items = append(items, lineToResponse(l))
	}
	resp := dto.SaleResponse{
		ID:            s.ID.String(),
		Items:         items,
		Subtotal:      s.Subtotal,
		TotalDiscount: s.TotalDiscount,
		PaymentFee:    s.PaymentFee,
		Total:         s.Total,
		PaymentMethod: string(s.PaymentMethod),
		Status:        string(s.Status),
		Notes:         s.Notes,
		Discount:      discountToResponse(s.Discount),
		Date:          formatTime(s.Date),
	}
	if s.RegisterID != nil {
		resp.RegisterID = s.RegisterID.String()
	}
	if s.UpdatedAt != nil {
		resp.UpdatedAt = formatTime(*s.UpdatedAt)
	}
	return resp
}

func summaryToResponse(p model.PaymentSummary, count int) dto.PaymentSummaryResponse {
	return dto.PaymentSummaryResponse{
		Cash:             p.Cash,
		Credit:           p.Credit,
		Debit:            p.Debit,
		Pix:              p.Pix,
		Total:            p.Total,
		TotalDiscounts:   p.TotalDiscounts,
		TotalPaymentFees: p.TotalPaymentFees,
		SalesCount:       count,
	}
}

// registerToResponse renders r with a summary recomputed from sales, which must
// be the sales r references.
func registerToResponse(r model.CashRegister, sales []model.Sale) dto.RegisterResponse {
	summary := Summarize(sales)
	return dto.RegisterResponse{
		ID:                   r.ID.String(),
		Status:               string(r.Status),
		OpeningDate:          formatTime(r.OpeningDate),
		OpeningBalance:       r.OpeningBalance,
		Notes:                r.Notes,
		SaleCount:            len(r.SaleIDs),
		Summary:              summaryToResponse(summary, countActive(sales)),
		ExpectedBalance:      r.OpeningBalance.Add(summary.Cash),
		ClosingDate:          formatTimePtr(r.ClosingDate),
		ClosingBalance:       r.ClosingBalance,
		ActualClosingBalance: r.ActualClosingBalance,
		CashShortage:         r.CashShortage,
		ShortageClass:        string(r.ShortageClass),
	}
}

func feeScheduleToDTO(s model.FeeSchedule) dto.FeeScheduleDTO {
	rule := func(r model.FeeRule) dto.FeeRuleDTO {
		return dto.FeeRuleDTO{Type: string(r.Type), Value: r.Value}
	}
	return dto.FeeScheduleDTO{
		Cash:   rule(s.Cash),
		Credit: rule(s.Credit),
		Debit:  rule(s.Debit),
		Pix:    rule(s.Pix),
	}
}

func countActive(sales []model.Sale) int {
	n := 0
	for _, s := range sales {
		if !s.Cancelled() {
			n++
		}
	}
	return n
}
