package service

import (
	"fmt"
	"strings"

	"github.com/ofabiomaran/Loja/internal/dto"
	"github.com/ofabiomaran/Loja/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func decimalInt(n int) decimal.Decimal { return decimal.NewFromInt(int64(n)) }

func parseID(raw, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s %q is not a valid id: %w", field, raw, ErrValidation)
	}
	return id, nil
}

func parseMethod(raw string) (model.PaymentMethod, error) {
	m := model.PaymentMethod(raw)
	if !m.Valid() {
		return "", fmt.Errorf("unknown payment method %q: %w", raw, ErrValidation)
	}
	return m, nil
}

// parseDiscount turns a request descriptor into the model one. nil stays nil.
func parseDiscount(req *dto.DiscountRequest) (*model.Discount, error) {
	if req == nil {
		return nil, nil
	}
	d := model.Discount{Kind: model.DiscountKind(req.Kind), Value: req.Value}
	if !d.Valid() {
		return nil, fmt.Errorf("discount must be a non-negative percentage or amount: %w", ErrValidation)
	}
	return &d, nil
}
