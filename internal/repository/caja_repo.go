package repository

import (
	"github.com/ofabiomaran/Loja/internal/model"

	"github.com/google/uuid"
)

// OpenRegister installs r as the current session. The caller has already
// checked that no session is open.
func (st *State) OpenRegister(r model.CashRegister) {
	st.CurrentRegister = &r
}

// ArchiveRegister moves the current session, already closed by the caller,
// into the historical collection.
func (st *State) ArchiveRegister() {
	if st.CurrentRegister == nil {
		return
	}
	st.CashRegisters = append(st.CashRegisters, *st.CurrentRegister)
	st.CurrentRegister = nil
}

// FindRegister looks in the open session first, then in the archive.
func (st *State) FindRegister(id uuid.UUID) (model.CashRegister, bool) {
	if st.CurrentRegister != nil && st.CurrentRegister.ID == id {
		return st.CurrentRegister.Clone(), true
	}
	for i := range st.CashRegisters {
		if st.CashRegisters[i].ID == id {
			return st.CashRegisters[i].Clone(), true
		}
	}
	return model.CashRegister{}, false
}
