package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AddCartItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity"   validate:"required,min=1"`
}

// UpdateCartItemRequest backs PATCH /v1/carrito/items/:producto_id. At least
// one field must be present. Discount is a percentage and is stored as given.
type UpdateCartItemRequest struct {
	Quantity *int             `json:"quantity" validate:"omitempty,min=1"`
	Discount *decimal.Decimal `json:"discount"`
}

// DiscountRequest describes a per-sale discount, either a percentage of the
// subtotal or a flat amount.
type DiscountRequest struct {
	Kind  string          `json:"kind"  validate:"required,oneof=percentage amount"`
	Value decimal.Decimal `json:"value" validate:"min=0"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type LineItemResponse struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Discount  decimal.Decimal `json:"discount"` // percent
	Gross     decimal.Decimal `json:"gross"`
	Net       decimal.Decimal `json:"net"`

	// Cart lines only: live catalog stock and its status once the line is sold.
	Stock       *int   `json:"stock,omitempty"`
	StockStatus string `json:"stock_status,omitempty"`
}

type DiscountResponse struct {
	Kind  string          `json:"kind"`
	Value decimal.Decimal `json:"value"`
}

// PaymentPreview is what the cart would cost with one payment method under
// the current fee schedule.
type PaymentPreview struct {
	Method string          `json:"method"`
	Fee    decimal.Decimal `json:"fee"`
	Total  decimal.Decimal `json:"total"`
}

type CartResponse struct {
	Items                 []LineItemResponse `json:"items"`
	Discount              *DiscountResponse  `json:"discount,omitempty"`
	Subtotal              decimal.Decimal    `json:"subtotal"`
	TotalDiscount         decimal.Decimal    `json:"total_discount"`
	SubtotalAfterDiscount decimal.Decimal    `json:"subtotal_after_discount"`
	Payments              []PaymentPreview   `json:"payments"`
}
