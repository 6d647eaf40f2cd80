// Package pricing holds the pure computations behind every sale total:
// subtotal, discount, payment fee and total. Nothing here reads or writes
// state; callers pass in the lines and the fee schedule they want applied.
//
// Amounts are never rounded. Currency formatting is the caller's concern.
package pricing

import (
	"github.com/ofabiomaran/Loja/internal/model"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Totals is the breakdown of a cart or sale.
// Total = Subtotal - TotalDiscount + PaymentFee.
type Totals struct {
	Subtotal      decimal.Decimal `json:"subtotal"`
	TotalDiscount decimal.Decimal `json:"totalDiscount"`
	PaymentFee    decimal.Decimal `json:"paymentFee"`
	Total         decimal.Decimal `json:"total"`
}

// AfterDiscount returns Subtotal - TotalDiscount.
func (t Totals) AfterDiscount() decimal.Decimal {
	return t.Subtotal.Sub(t.TotalDiscount)
}

// Subtotal is Σ price × quantity over lines.
func Subtotal(lines []model.LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(lineGross(l))
	}
	return sum
}

// ClampPercent limits p to [0,100].
func ClampPercent(p decimal.Decimal) decimal.Decimal {
	if p.IsNegative() {
		return decimal.Zero
	}
	if p.GreaterThan(hundred) {
		return hundred
	}
	return p
}

// LineDiscount is the currency discount of one line from its own percentage.
func LineDiscount(l model.LineItem) decimal.Decimal {
	return lineGross(l).Mul(ClampPercent(l.Discount)).Div(hundred)
}

// LineTotals computes subtotal and discount from each line's own discount
// percentage. PaymentFee is zero and Total equals the discounted subtotal.
func LineTotals(lines []model.LineItem) Totals {
	subtotal := decimal.Zero
	discount := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(lineGross(l))
		discount = discount.Add(LineDiscount(l))
	}
	discount = clamp(discount, decimal.Zero, subtotal)
	return Totals{
		Subtotal:      subtotal,
		TotalDiscount: discount,
		PaymentFee:    decimal.Zero,
		Total:         subtotal.Sub(discount),
	}
}

// CartTotals computes subtotal and discount from a single per-sale discount
// descriptor, ignoring line discounts. A nil descriptor means no discount.
func CartTotals(lines []model.LineItem, d *model.Discount) Totals {
	subtotal := Subtotal(lines)
	discount := DiscountAmount(subtotal, d)
	return Totals{
		Subtotal:      subtotal,
		TotalDiscount: discount,
		PaymentFee:    decimal.Zero,
		Total:         subtotal.Sub(discount),
	}
}

// SaleTotals picks the discount source for a sale: the per-sale descriptor
// when one is present, otherwise each line's own percentage.
func SaleTotals(lines []model.LineItem, d *model.Discount) Totals {
	if d != nil {
		return CartTotals(lines, d)
	}
	return LineTotals(lines)
}

// DistributeDiscount rewrites every line's discount to the percentage that d
// removes from the lines' subtotal. A nil descriptor resets them to zero.
func DistributeDiscount(lines []model.LineItem, d *model.Discount) {
	pct := EquivalentPercent(Subtotal(lines), d)
	for i := range lines {
		lines[i].Discount = pct
	}
}

// DiscountAmount normalises a descriptor against subtotal:
// clamp(percentage ? subtotal×pct/100 : min(amount, subtotal), 0, subtotal).
func DiscountAmount(subtotal decimal.Decimal, d *model.Discount) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	var amount decimal.Decimal
	switch d.Kind {
	case model.DiscountPercentage:
		amount = subtotal.Mul(d.Value).Div(hundred)
	case model.DiscountAmount:
		amount = decimal.Min(d.Value, subtotal)
	default:
		return decimal.Zero
	}
	return clamp(amount, decimal.Zero, subtotal)
}

// EquivalentPercent expresses d as the percentage of subtotal it removes.
// A zero subtotal yields zero.
func EquivalentPercent(subtotal decimal.Decimal, d *model.Discount) decimal.Decimal {
	if d == nil || !subtotal.IsPositive() {
		return decimal.Zero
	}
	if d.Kind == model.DiscountPercentage {
		return ClampPercent(d.Value)
	}
	return DiscountAmount(subtotal, d).Mul(hundred).Div(subtotal)
}

// PaymentFee is the fee charged on base for method m.
//
// Cash and pix never carry a fee, whatever the schedule says. Credit and debit
// are charged only by percentage rules; a fixed rule on them yields zero.
func PaymentFee(base decimal.Decimal, m model.PaymentMethod, schedule model.FeeSchedule) decimal.Decimal {
	if m != model.PaymentCredit && m != model.PaymentDebit {
		return decimal.Zero
	}
	rule := schedule.Rule(m)
	if rule.Type != model.FeePercentage {
		return decimal.Zero
	}
	return base.Mul(rule.Value).Div(hundred)
}

// WithPayment fills PaymentFee and Total for method m on top of t's
// discounted subtotal.
func WithPayment(t Totals, m model.PaymentMethod, schedule model.FeeSchedule) Totals {
	base := t.AfterDiscount()
	fee := PaymentFee(base, m, schedule)
	t.PaymentFee = fee
	t.Total = base.Add(fee)
	return t
}

// PaymentTotal returns the fee and the final total for base paid with m.
func PaymentTotal(base decimal.Decimal, m model.PaymentMethod, schedule model.FeeSchedule) (fee, total decimal.Decimal) {
	fee = PaymentFee(base, m, schedule)
	return fee, base.Add(fee)
}

// Consistent reports whether total == subtotal - discount + fee.
func (t Totals) Consistent() bool {
	return t.Total.Equal(t.Subtotal.Sub(t.TotalDiscount).Add(t.PaymentFee))
}

func lineGross(l model.LineItem) decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

func clamp(v, lo, hi decimal.Decimal) decimal.Decimal {
	if v.LessThan(lo) {
		return lo
	}
	if v.GreaterThan(hi) {
		return hi
	}
	return v
}
