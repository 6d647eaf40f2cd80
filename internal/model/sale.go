package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleStatus: "completed" | "edited" | "cancelled"
type SaleStatus string

const (
	SaleCompleted SaleStatus = "completed"
	SaleEdited    SaleStatus = "edited"
	SaleCancelled SaleStatus = "cancelled"
)

// Sale is a finalized ledger entry. Items hold product snapshots taken at
// sale time. Total always equals Subtotal - TotalDiscount + PaymentFee.
type Sale struct {
	ID            uuid.UUID       `json:"id"`
	Items         []LineItem      `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	TotalDiscount decimal.Decimal `json:"totalDiscount"`
	PaymentFee    decimal.Decimal `json:"paymentFee"`
	Total         decimal.Decimal `json:"total"`
	Date          time.Time       `json:"date"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	Status        SaleStatus      `json:"status"`
	Notes         string          `json:"notes,omitempty"`
	// Discount is the per-sale descriptor the lines were derived from, if any.
	Discount   *Discount  `json:"discount,omitempty"`
	RegisterID *uuid.UUID `json:"registerId,omitempty"`
	UpdatedAt  *time.Time `json:"updatedAt,omitempty"`
}

func (s Sale) Cancelled() bool { return s.Status == SaleCancelled }

// Clone returns a deep copy of the sale.
func (s Sale) Clone() Sale {
	out := s
	out.Items = CloneLines(s.Items)
	if s.Discount != nil {
		d := *s.Discount
		out.Discount = &d
	}
	if s.RegisterID != nil {
		id := *s.RegisterID
		out.RegisterID = &id
	}
	if s.UpdatedAt != nil {
		t := *s.UpdatedAt
		out.UpdatedAt = &t
	}
	return out
}
