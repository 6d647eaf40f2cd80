package dto

import "github.com/shopspring/decimal"

type FeeRuleDTO struct {
	Type  string          `json:"type"  validate:"required,oneof=fixed percentage"`
	Value decimal.Decimal `json:"value" validate:"min=0"`
}

// FeeScheduleDTO is both the body of PUT /v1/configuracion/tarifas and its
// response.
type FeeScheduleDTO struct {
	Cash   FeeRuleDTO `json:"cash"`
	Credit FeeRuleDTO `json:"credit"`
	Debit  FeeRuleDTO `json:"debit"`
	Pix    FeeRuleDTO `json:"pix"`
}
