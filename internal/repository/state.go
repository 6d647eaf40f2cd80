package repository

import (
	"github.com/ofabiomaran/Loja/internal/model"
)

// State is the whole persisted PDV state: the four durable collections plus
// the cart, which is kept only as convenience state.
type State struct {
	Products        []model.Product      `json:"products"`
	Sales           []model.Sale         `json:"sales"`
	CurrentRegister *model.CashRegister  `json:"currentCashRegister"`
	CashRegisters   []model.CashRegister `json:"cashRegisters"`
	PaymentFees     model.FeeSchedule    `json:"paymentFees"`
	Cart            model.Cart           `json:"cart"`
}

// NewState returns an empty state with the default fee schedule.
func NewState() *State {
	return &State{
		Products:      []model.Product{},
		Sales:         []model.Sale{},
		CashRegisters: []model.CashRegister{},
		PaymentFees:   model.DefaultFeeSchedule(),
		Cart:          model.Cart{Items: []model.LineItem{}},
	}
}

// Clone returns a deep copy; mutating the copy never affects st.
func (st *State) Clone() *State {
	out := &State{
		Products:      make([]model.Product, len(st.Products)),
		Sales:         make([]model.Sale, len(st.Sales)),
		CashRegisters: make([]model.CashRegister, len(st.CashRegisters)),
		PaymentFees:   st.PaymentFees,
		Cart:          st.Cart.Clone(),
	}
	copy(out.Products, st.Products)
	for i := range st.Sales {
		out.Sales[i] = st.Sales[i].Clone()
	}
	for i := range st.CashRegisters {
		out.CashRegisters[i] = st.CashRegisters[i].Clone()
	}
	if st.CurrentRegister != nil {
		r := st.CurrentRegister.Clone()
		out.CurrentRegister = &r
	}
	if out.Cart.Items == nil {
		out.Cart.Items = []model.LineItem{}
	}
	return out
}

// normalize fills nil collections after a load so callers can range and
// append freely.
func (st *State) normalize() *State {
	if st.Products == nil {
		st.Products = []model.Product{}
	}
	if st.Sales == nil {
		st.Sales = []model.Sale{}
	}
	if st.CashRegisters == nil {
		st.CashRegisters = []model.CashRegister{}
	}
	if st.Cart.Items == nil {
		st.Cart.Items = []model.LineItem{}
	}
	if st.PaymentFees.IsZero() {
		st.PaymentFees = model.DefaultFeeSchedule()
	}
	return st
}
