package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/ofabiomaran/Loja/internal/dto"
	"github.com/ofabiomaran/Loja/internal/model"
	"github.com/ofabiomaran/Loja/internal/repository"
	"github.com/ofabiomaran/Loja/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type CashRegisterService interface {
	Open(ctx context.Context, req dto.OpenRegisterRequest) (*dto.RegisterResponse, error)
	Close(ctx context.Context, req dto.CloseRegisterRequest) (*dto.RegisterResponse, error)
	// Current returns the open session or ErrNoOpenSession.
	Current(ctx context.Context) (*dto.RegisterResponse, error)
	// CurrentSummary is the open session's summary; zero when none is open.
	CurrentSummary(ctx context.Context) (*dto.PaymentSummaryResponse, error)
	// History lists closed sessions, most recently opened first.
	History(ctx context.Context) (*dto.RegisterListResponse, error)
	Report(ctx context.Context, id uuid.UUID) (*dto.RegisterReportResponse, error)
}

type cashRegisterService struct {
	store      *repository.Store
	dispatcher *worker.Dispatcher
}

// NewCashRegisterService wires the register. dispatcher may be nil.
func NewCashRegisterService(store *repository.Store, dispatcher *worker.Dispatcher) CashRegisterService {
	return &cashRegisterService{store: store, dispatcher: dispatcher}
}

// ── Open ──────────────────────────────────────────────────────────────────────
// At most one session is open; the check and the insert share a transaction.

func (s *cashRegisterService) Open(ctx context.Context, req dto.OpenRegisterRequest) (*dto.RegisterResponse, error) {
	if req.OpeningBalance.IsNegative() {
		return nil, fmt.Errorf("opening balance must be >= 0: %w", ErrValidation)
	}

	reg := model.CashRegister{
		ID:             uuid.New(),
		OpeningDate:    now(),
		OpeningBalance: req.OpeningBalance,
		SaleIDs:        []uuid.UUID{},
		Status:         model.RegisterOpen,
		Notes:          req.Notes,
	}
	err := s.store.RunTx(ctx, func(st *repository.State) error {
		if st.CurrentRegister != nil {
			return fmt.Errorf("register %s opened at %s: %w",
				st.CurrentRegister.ID, formatTime(st.CurrentRegister.OpeningDate), ErrAlreadyOpen)
		}
		st.OpenRegister(reg)
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("register_id", reg.ID.String()).
		Str("opening_balance", reg.OpeningBalance.String()).
		Msg("cash register opened")
	resp := registerToResponse(reg, nil)
	return &resp, nil
}

// ── Close ─────────────────────────────────────────────────────────────────────
// expected = opening balance + cash taken by the session's active sales
// shortage = actual - expected (negative means cash is missing)
// The closed session moves to the archive and cannot be reopened.

func (s *cashRegisterService) Close(ctx context.Context, req dto.CloseRegisterRequest) (*dto.RegisterResponse, error) {
	if req.ActualClosingBalance.IsNegative() {
		return nil, fmt.Errorf("actual closing balance must be >= 0: %w", ErrValidation)
	}

	var (
		closed model.CashRegister
		sales  []model.Sale
	)
	err := s.store.RunTx(ctx, func(st *repository.State) error {
		reg := st.CurrentRegister
		if reg == nil {
			return fmt.Errorf("cannot close register: %w", ErrNoOpenSession)
		}
		sales = st.SalesByIDs(reg.SaleIDs)
		summary := Summarize(sales)

		expected := reg.OpeningBalance.Add(summary.Cash)
		actual := req.ActualClosingBalance
		shortage := actual.Sub(expected)
		closedAt := now()

		reg.Status = model.RegisterClosed
		reg.ClosingDate = &closedAt
		reg.ClosingBalance = &expected
		reg.ActualClosingBalance = &actual
		reg.CashShortage = &shortage
		reg.ShortageClass = ClassifyShortage(shortage, expected)
		if req.Notes != "" {
			reg.Notes = req.Notes
		}
		closed = reg.Clone()
		st.ArchiveRegister()
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := registerToResponse(closed, sales)
	log.Info().
		Str("register_id", closed.ID.String()).
		Str("expected", closed.ClosingBalance.String()).
		Str("actual", closed.ActualClosingBalance.String()).
		Str("shortage", closed.CashShortage.String()).
		Str("class", string(closed.ShortageClass)).
		Msg("cash register closed")

	if s.dispatcher != nil {
		err := s.dispatcher.EnqueueRegisterClosed(ctx, worker.RegisterClosedPayload{
			RegisterID:           closed.ID.String(),
			OpeningBalance:       closed.OpeningBalance,
			ExpectedBalance:      *closed.ClosingBalance,
			ActualClosingBalance: *closed.ActualClosingBalance,
			CashShortage:         *closed.CashShortage,
			ShortageClass:        string(closed.ShortageClass),
			SalesTotal:           resp.Summary.Total,
			SaleCount:            resp.Summary.SalesCount,
			ClosedAt:             *resp.ClosingDate,
		})
		if err != nil {
			log.Warn().Err(err).Str("register_id", closed.ID.String()).Msg("register audit event not enqueued")
		}
	}
	return &resp, nil
}

// ── Queries ───────────────────────────────────────────────────────────────────

func (s *cashRegisterService) Current(_ context.Context) (*dto.RegisterResponse, error) {
	var resp *dto.RegisterResponse
	s.store.Read(func(st *repository.State) {
		if st.CurrentRegister == nil {
			return
		}
		r := registerToResponse(*st.CurrentRegister, st.SalesByIDs(st.CurrentRegister.SaleIDs))
		resp = &r
	})
	if resp == nil {
		return nil, fmt.Errorf("no register is open: %w", ErrNoOpenSession)
	}
	return resp, nil
}

func (s *cashRegisterService) CurrentSummary(_ context.Context) (*dto.PaymentSummaryResponse, error) {
	var sales []model.Sale
	s.store.Read(func(st *repository.State) {
		if st.CurrentRegister != nil {
			sales = st.SalesByIDs(st.CurrentRegister.SaleIDs)
		}
	})
	resp := summaryToResponse(Summarize(sales), countActive(sales))
	return &resp, nil
}

func (s *cashRegisterService) History(_ context.Context) (*dto.RegisterListResponse, error) {
	var data []dto.RegisterResponse
	s.store.Read(func(st *repository.State) {
		data = make([]dto.RegisterResponse, 0, len(st.CashRegisters))
		for _, r := range st.CashRegisters {
			data = append(data, registerToResponse(r, st.SalesByIDs(r.SaleIDs)))
		}
	})
	sort.SliceStable(data, func(i, j int) bool { return data[i].OpeningDate > data[j].OpeningDate })
	return &dto.RegisterListResponse{Data: data, Total: len(data)}, nil
}

func (s *cashRegisterService) Report(_ context.Context, id uuid.UUID) (*dto.RegisterReportResponse, error) {
	var (
		reg   model.CashRegister
		sales []model.Sale
		ok    bool
	)
	s.store.Read(func(st *repository.State) {
		if reg, ok = st.FindRegister(id); ok {
			sales = st.SalesByIDs(reg.SaleIDs)
		}
	})
	if !ok {
		return nil, fmt.Errorf("register %s: %w", id, ErrNotFound)
	}
	out := make([]dto.SaleResponse, 0, len(sales))
	for _, sale := range sales {
		out = append(out, saleToResponse(sale))
	}
	return &dto.RegisterReportResponse{
		Register: registerToResponse(reg, sales),
		Sales:    out,
	}, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// Summarize folds the non-cancelled sales into per-method buckets. It is
// recomputed on every call, so edits and cancellations show up immediately.
func Summarize(sales []model.Sale) model.PaymentSummary {
	sum := model.PaymentSummary{}
	for _, sale := range sales {
		if sale.Cancelled() {
			continue
		}
		accumulate(&sum, sale)
	}
	return sum
}

func accumulate(sum *model.PaymentSummary, sale model.Sale) {
	sum.Add(sale.PaymentMethod, sale.Total)
	sum.Total = sum.Total.Add(sale.Total)
	sum.TotalDiscounts = sum.TotalDiscounts.Add(sale.TotalDiscount)
	sum.TotalPaymentFees = sum.TotalPaymentFees.Add(sale.PaymentFee)
}

var (
	onePercent  = decimal.NewFromInt(1)
	fivePercent = decimal.NewFromInt(5)
	hundred     = decimal.NewFromInt(100)
)

// ClassifyShortage grades |shortage| as a share of the expected balance:
// normal <= 1%, warning <= 5%, critical above. With nothing expected, any
// difference is critical.
func ClassifyShortage(shortage, expected decimal.Decimal) model.ShortageClass {
	if shortage.IsZero() {
		return model.ShortageNormal
	}
	if expected.IsZero() {
		return model.ShortageCritical
	}
	pct := shortage.Abs().Div(expected.Abs()).Mul(hundred)
	switch {
	case pct.LessThanOrEqual(onePercent):
		return model.ShortageNormal
	case pct.LessThanOrEqual(fivePercent):
		return model.ShortageWarning
	default:
		return model.ShortageCritical
	}
}
