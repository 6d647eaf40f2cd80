package service

import (
	"context"
	"testing"

	"github.com/ofabiomaran/Loja/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSchedule() dto.FeeScheduleDTO {
	return dto.FeeScheduleDTO{
		Cash:   dto.FeeRuleDTO{Type: "fixed", Value: dec("0")},
		Credit: dto.FeeRuleDTO{Type: "percentage", Value: dec("4.99")},
		Debit:  dto.FeeRuleDTO{Type: "percentage", Value: dec("1.5")},
		Pix:    dto.FeeRuleDTO{Type: "fixed", Value: dec("0")},
	}
}

func TestSettings_DefaultsAndUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	fees, err := f.settings.GetFees(ctx)
	require.NoError(t, err)
	assert.Equal(t, "percentage", fees.Credit.Type)
	assertDec(t, "3.5", fees.Credit.Value)
	assertDec(t, "2", fees.Debit.Value)

	_, err = f.settings.UpdateFees(ctx, validSchedule())
	require.NoError(t, err)
	fees, err = f.settings.GetFees(ctx)
	require.NoError(t, err)
	assertDec(t, "4.99", fees.Credit.Value)
	assertDec(t, "1.5", fees.Debit.Value)
}

func TestSettings_UpdateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := map[string]func(s *dto.FeeScheduleDTO){
		"unknown type":      func(s *dto.FeeScheduleDTO) { s.Debit.Type = "tiered" },
		"negative value":    func(s *dto.FeeScheduleDTO) { s.Cash.Value = dec("-1") },
		"rate above 100":    func(s *dto.FeeScheduleDTO) { s.Credit.Value = dec("100.01") },
		"missing rule type": func(s *dto.FeeScheduleDTO) { s.Pix = dto.FeeRuleDTO{} },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := validSchedule()
			mutate(&req)
			_, err := f.settings.UpdateFees(ctx, req)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	// a rejected update leaves the schedule alone
	fees, err := f.settings.GetFees(ctx)
	require.NoError(t, err)
	assertDec(t, "3.5", fees.Credit.Value)
}

func TestSettings_FixedAmountAbove100Allowed(t *testing.T) {
	f := newFixture(t)
	req := validSchedule()
	req.Cash.Value = dec("150")
	_, err := f.settings.UpdateFees(context.Background(), req)
	assert.NoError(t, err)
}
