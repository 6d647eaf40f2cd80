package service

import (
	"context"
	"fmt"

	"github.com/ofabiomaran/Loja/internal/dto"
	"github.com/ofabiomaran/Loja/internal/model"
	"github.com/ofabiomaran/Loja/internal/repository"

	"github.com/rs/zerolog/log"
)

// SettingsService owns the payment fee schedule. A new schedule applies to
// sales finalized or edited after it is saved; existing totals never change.
type SettingsService interface {
	GetFees(ctx context.Context) (*dto.FeeScheduleDTO, error)
	UpdateFees(ctx context.Context, req dto.FeeScheduleDTO) (*dto.FeeScheduleDTO, error)
}

type settingsService struct {
	store *repository.Store
}

func NewSettingsService(store *repository.Store) SettingsService {
	return &settingsService{store: store}
}

func (s *settingsService) GetFees(_ context.Context) (*dto.FeeScheduleDTO, error) {
	var fees model.FeeSchedule
	s.store.Read(func(st *repository.State) { fees = st.PaymentFees })
	resp := feeScheduleToDTO(fees)
	return &resp, nil
}

func (s *settingsService) UpdateFees(ctx context.Context, req dto.FeeScheduleDTO) (*dto.FeeScheduleDTO, error) {
	schedule := model.FeeSchedule{}
	for _, f := range []struct {
		method model.PaymentMethod
		in     dto.FeeRuleDTO
		out    *model.FeeRule
	}{
		{model.PaymentCash, req.Cash, &schedule.Cash},
		{model.PaymentCredit, req.Credit, &schedule.Credit},
		{model.PaymentDebit, req.Debit, &schedule.Debit},
		{model.PaymentPix, req.Pix, &schedule.Pix},
	} {
		rule, err := feeRuleFromDTO(f.method, f.in)
		if err != nil {
			return nil, err
		}
		*f.out = rule
	}

	err := s.store.RunTx(ctx, func(st *repository.State) error {
		st.PaymentFees = schedule
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("credit", schedule.Credit.Value.String()).
		Str("debit", schedule.Debit.Value.String()).
		Msg("payment fees updated")
	resp := feeScheduleToDTO(schedule)
	return &resp, nil
}

func feeRuleFromDTO(m model.PaymentMethod, in dto.FeeRuleDTO) (model.FeeRule, error) {
	rule := model.FeeRule{Type: model.FeeKind(in.Type), Value: in.Value}
	switch rule.Type {
	case model.FeeFixed, model.FeePercentage:
	default:
		return rule, fmt.Errorf("%s fee type %q must be fixed or percentage: %w", m, in.Type, ErrValidation)
	}
	if rule.Value.IsNegative() {
		return rule, fmt.Errorf("%s fee must be >= 0: %w", m, ErrValidation)
	}
	if rule.Type == model.FeePercentage && rule.Value.GreaterThan(hundred) {
		return rule, fmt.Errorf("%s fee rate must be <= 100: %w", m, ErrValidation)
	}
	return rule, nil
}
