package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RegisterStatus: "open" | "closed"
type RegisterStatus string

const (
	RegisterOpen   RegisterStatus = "open"
	RegisterClosed RegisterStatus = "closed"
)

// ShortageClass grades the closing difference relative to the expected
// balance: "normal" (<= 1%), "warning" (<= 5%), "critical" (> 5%).
type ShortageClass string

const (
	ShortageNormal   ShortageClass = "normal"
	ShortageWarning  ShortageClass = "warning"
	ShortageCritical ShortageClass = "critical"
)

// CashRegister is one open-to-close session of the till. It references the
// sales recorded while it was open by id; the ledger owns the sale data.
type CashRegister struct {
	ID             uuid.UUID       `json:"id"`
	OpeningDate    time.Time       `json:"openingDate"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	SaleIDs        []uuid.UUID     `json:"saleIds"`
	Status         RegisterStatus  `json:"status"`
	Notes          string          `json:"notes,omitempty"`

	// Set on close. ClosingBalance is the expected balance;
	// CashShortage = ActualClosingBalance - ClosingBalance (negative = missing cash).
	ClosingDate          *time.Time       `json:"closingDate,omitempty"`
	ClosingBalance       *decimal.Decimal `json:"closingBalance,omitempty"`
	ActualClosingBalance *decimal.Decimal `json:"actualClosingBalance,omitempty"`
	CashShortage         *decimal.Decimal `json:"cashShortage,omitempty"`
	ShortageClass        ShortageClass    `json:"shortageClass,omitempty"`
}

// Clone returns a deep copy of the session.
func (r CashRegister) Clone() CashRegister {
	out := r
	if r.SaleIDs != nil {
		out.SaleIDs = make([]uuid.UUID, len(r.SaleIDs))
		copy(out.SaleIDs, r.SaleIDs)
	}
	if r.ClosingDate != nil {
		t := *r.ClosingDate
		out.ClosingDate = &t
	}
	out.ClosingBalance = cloneDecimal(r.ClosingBalance)
	out.ActualClosingBalance = cloneDecimal(r.ActualClosingBalance)
	out.CashShortage = cloneDecimal(r.CashShortage)
	return out
}

// PaymentSummary buckets the totals of non-cancelled sales by payment method.
type PaymentSummary struct {
	Cash             decimal.Decimal `json:"cash"`
	Credit           decimal.Decimal `json:"credit"`
	Debit            decimal.Decimal `json:"debit"`
	Pix              decimal.Decimal `json:"pix"`
	Total            decimal.Decimal `json:"total"`
	TotalDiscounts   decimal.Decimal `json:"totalDiscounts"`
	TotalPaymentFees decimal.Decimal `json:"totalPaymentFees"`
}

// Add folds one sale total into the bucket for its method.
func (p *PaymentSummary) Add(m PaymentMethod, amount decimal.Decimal) {
	switch m {
	case PaymentCash:
		p.Cash = p.Cash.Add(amount)
	case PaymentCredit:
		p.Credit = p.Credit.Add(amount)
	case PaymentDebit:
		p.Debit = p.Debit.Add(amount)
	case PaymentPix:
		p.Pix = p.Pix.Add(amount)
	}
}

func cloneDecimal(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}
