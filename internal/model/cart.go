package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineItem is one product+quantity+discount entry of a cart or a sale.
// Discount is a percentage; it is stored as given and clamped to [0,100]
// wherever it is used in a computation.
type LineItem struct {
	Product  Product         `json:"product"`
	Quantity int             `json:"quantity"`
	Discount decimal.Decimal `json:"discount"`
}

// DiscountKind: "percentage" | "amount"
type DiscountKind string

const (
	DiscountPercentage DiscountKind = "percentage"
	DiscountAmount     DiscountKind = "amount"
)

// Discount describes a per-sale discount either as a percentage of the
// subtotal or as a flat currency amount.
type Discount struct {
	Kind  DiscountKind    `json:"kind"`
	Value decimal.Decimal `json:"value"`
}

func (d Discount) Valid() bool {
	return (d.Kind == DiscountPercentage || d.Kind == DiscountAmount) && !d.Value.IsNegative()
}

// Cart is the in-progress sale. Lines are unique by product id.
type Cart struct {
	Items    []LineItem `json:"items"`
	Discount *Discount  `json:"discount,omitempty"`
}

// LineIndex returns the position of the line for productID, or -1.
func (c *Cart) LineIndex(productID uuid.UUID) int {
	for i := range c.Items {
		if c.Items[i].Product.ID == productID {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy of the cart.
func (c Cart) Clone() Cart {
	out := Cart{Items: CloneLines(c.Items)}
	if c.Discount != nil {
		d := *c.Discount
		out.Discount = &d
	}
	return out
}

// CloneLines deep-copies a line slice, including the product snapshots.
func CloneLines(lines []LineItem) []LineItem {
	if lines == nil {
		return nil
	}
	out := make([]LineItem, len(lines))
	copy(out, lines)
	return out
}
