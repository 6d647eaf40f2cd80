package model

import "github.com/shopspring/decimal"

// PaymentMethod: "cash" | "credit" | "debit" | "pix"
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentCredit PaymentMethod = "credit"
	PaymentDebit  PaymentMethod = "debit"
	PaymentPix    PaymentMethod = "pix"
)

// PaymentMethods lists every accepted method in display order.
var PaymentMethods = []PaymentMethod{PaymentCash, PaymentCredit, PaymentDebit, PaymentPix}

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCredit, PaymentDebit, PaymentPix:
		return true
	}
	return false
}

// FeeKind: "fixed" | "percentage"
type FeeKind string

const (
	FeeFixed      FeeKind = "fixed"
	FeePercentage FeeKind = "percentage"
)

// FeeRule is the configured fee for one payment method. Value is a currency
// amount for fixed rules and a rate in percent for percentage rules.
type FeeRule struct {
	Type  FeeKind         `json:"type"`
	Value decimal.Decimal `json:"value"`
}

// FeeSchedule maps each payment method to its fee rule.
type FeeSchedule struct {
	Cash   FeeRule `json:"cash"`
	Credit FeeRule `json:"credit"`
	Debit  FeeRule `json:"debit"`
	Pix    FeeRule `json:"pix"`
}

// DefaultFeeSchedule is applied when no settings record has been saved yet.
func DefaultFeeSchedule() FeeSchedule {
	return FeeSchedule{
		Cash:   FeeRule{Type: FeeFixed, Value: decimal.Zero},
		Credit: FeeRule{Type: FeePercentage, Value: decimal.RequireFromString("3.5")},
		Debit:  FeeRule{Type: FeePercentage, Value: decimal.NewFromInt(2)},
		Pix:    FeeRule{Type: FeeFixed, Value: decimal.Zero},
	}
}

// IsZero reports whether no rule has been configured at all.
func (s FeeSchedule) IsZero() bool {
	return s.Cash.Type == "" && s.Credit.Type == "" && s.Debit.Type == "" && s.Pix.Type == ""
}

// Rule returns the rule configured for m. Unknown methods get a zero fixed rule.
func (s FeeSchedule) Rule(m PaymentMethod) FeeRule {
	switch m {
	case PaymentCash:
		return s.Cash
	case PaymentCredit:
		return s.Credit
	case PaymentDebit:
		return s.Debit
	case PaymentPix:
		return s.Pix
	}
	return FeeRule{Type: FeeFixed, Value: decimal.Zero}
}
