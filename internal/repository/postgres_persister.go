package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/ofabiomaran/Loja/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Table rows ───────────────────────────────────────────────────────────────
// Position keeps the insertion order of each collection across a reload.

type productRow struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Position    int             `gorm:"not null"`
	Name        string          `gorm:"index:idx_products_name;not null"`
	Price       decimal.Decimal `gorm:"type:numeric;not null"`
	Stock       int             `gorm:"not null"`
	Category    string          `gorm:"not null"`
	Description string
	Barcode     string
	ImageURL    string
}

func (productRow) TableName() string { return "products" }

type saleRow struct {
	ID            uuid.UUID        `gorm:"type:uuid;primaryKey"`
	Position      int              `gorm:"not null"`
	Items         []model.LineItem `gorm:"type:jsonb;serializer:json;not null"`
	Subtotal      decimal.Decimal  `gorm:"type:numeric;not null"`
	TotalDiscount decimal.Decimal  `gorm:"type:numeric;not null"`
	PaymentFee    decimal.Decimal  `gorm:"type:numeric;not null"`
	Total         decimal.Decimal  `gorm:"type:numeric;not null"`
	Date          time.Time        `gorm:"index:idx_sales_date;not null"`
	PaymentMethod string           `gorm:"type:varchar(10);not null"`
	Status        string           `gorm:"type:varchar(10);not null"`
	Notes         string
	Discount      *model.Discount `gorm:"type:jsonb;serializer:json"`
	RegisterID    *uuid.UUID      `gorm:"type:uuid;index"`
	// Not named UpdatedAt: gorm would overwrite it on every save.
	ModifiedAt *time.Time
}

func (saleRow) TableName() string { return "sales" }

type registerRow struct {
	ID                   uuid.UUID        `gorm:"type:uuid;primaryKey"`
	Position             int              `gorm:"not null"`
	OpeningDate          time.Time        `gorm:"index:idx_cash_registers_opening_date;not null"`
	OpeningBalance       decimal.Decimal  `gorm:"type:numeric;not null"`
	SaleIDs              []uuid.UUID      `gorm:"type:jsonb;serializer:json;not null"`
	Status               string           `gorm:"type:varchar(10);not null"`
	Notes                string
	ClosingDate          *time.Time
	ClosingBalance       *decimal.Decimal `gorm:"type:numeric"`
	ActualClosingBalance *decimal.Decimal `gorm:"type:numeric"`
	CashShortage         *decimal.Decimal `gorm:"type:numeric"`
	ShortageClass        string           `gorm:"type:varchar(10)"`
}

func (registerRow) TableName() string { return "cash_registers" }

type settingsRow struct {
	Key         string            `gorm:"primaryKey"`
	PaymentFees model.FeeSchedule `gorm:"type:jsonb;serializer:json;not null"`
}

func (settingsRow) TableName() string { return "settings" }

type cartRow struct {
	Key  string     `gorm:"primaryKey"`
	Cart model.Cart `gorm:"type:jsonb;serializer:json;not null"`
}

func (cartRow) TableName() string { return "carts" }

const (
	settingsKey = "paymentFees"
	cartKey     = "current"
)

// PostgresPersister maps the state onto one table per collection. Save
// rewrites every table inside a single database transaction.
type PostgresPersister struct {
	db *gorm.DB
}

// NewPostgresPersister creates the tables if needed.
func NewPostgresPersister(db *gorm.DB) (*PostgresPersister, error) {
	if err := db.AutoMigrate(&productRow{}, &saleRow{}, &registerRow{}, &settingsRow{}, &cartRow{}); err != nil {
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}
	return &PostgresPersister{db: db}, nil
}

func (p *PostgresPersister) Load(ctx context.Context) (*State, error) {
	db := p.db.WithContext(ctx)
	st := NewState()

	var products []productRow
	if err := db.Order("position ASC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	for _, r := range products {
		st.Products = append(st.Products, r.toModel())
	}

	var sales []saleRow
	if err := db.Order("position ASC").Find(&sales).Error; err != nil {
		return nil, fmt.Errorf("load sales: %w", err)
	}
	for _, r := range sales {
		st.Sales = append(st.Sales, r.toModel())
	}

	var registers []registerRow
	if err := db.Order("position ASC").Find(&registers).Error; err != nil {
		return nil, fmt.Errorf("load cash registers: %w", err)
	}
	for _, r := range registers {
		reg := r.toModel()
		if reg.Status == model.RegisterOpen {
			st.CurrentRegister = &reg
			continue
		}
		st.CashRegisters = append(st.CashRegisters, reg)
	}

	var settings []settingsRow
	if err := db.Where("key = ?", settingsKey).Limit(1).Find(&settings).Error; err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	if len(settings) == 1 {
		st.PaymentFees = settings[0].PaymentFees
	}

	var carts []cartRow
	if err := db.Where("key = ?", cartKey).Limit(1).Find(&carts).Error; err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if len(carts) == 1 {
		st.Cart = carts[0].Cart
	}
	return st.normalize(), nil
}

func (p *PostgresPersister) Save(ctx context.Context, st *State) error {
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		for _, table := range []interface{}{&productRow{}, &saleRow{}, &registerRow{}, &settingsRow{}, &cartRow{}} {
			if err := all.Delete(table).Error; err != nil {
				return fmt.Errorf("clear %T: %w", table, err)
			}
		}

		products := make([]productRow, 0, len(st.Products))
		for i, pr := range st.Products {
			products = append(products, newProductRow(i, pr))
		}
		if err := createAll(tx, products); err != nil {
			return fmt.Errorf("save products: %w", err)
		}

		sales := make([]saleRow, 0, len(st.Sales))
		for i, s := range st.Sales {
			sales = append(sales, newSaleRow(i, s))
		}
		if err := createAll(tx, sales); err != nil {
			return fmt.Errorf("save sales: %w", err)
		}

		registers := make([]registerRow, 0, len(st.CashRegisters)+1)
		for i, r := range st.CashRegisters {
			registers = append(registers, newRegisterRow(i, r))
		}
		if st.CurrentRegister != nil {
			registers = append(registers, newRegisterRow(len(st.CashRegisters), *st.CurrentRegister))
		}
		if err := createAll(tx, registers); err != nil {
			return fmt.Errorf("save cash registers: %w", err)
		}

		if err := tx.Create(&settingsRow{Key: settingsKey, PaymentFees: st.PaymentFees}).Error; err != nil {
			return fmt.Errorf("save settings: %w", err)
		}
		if err := tx.Create(&cartRow{Key: cartKey, Cart: st.Cart}).Error; err != nil {
			return fmt.Errorf("save cart: %w", err)
		}
		return nil
	})
}

func createAll[T any](tx *gorm.DB, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	return tx.CreateInBatches(rows, 200).Error
}

// ── Row conversions ──────────────────────────────────────────────────────────
// Timestamps are normalised to UTC on the way out; the driver hands them back
// in the session time zone.

func newProductRow(pos int, p model.Product) productRow {
	return productRow{
		ID:          p.ID,
		Position:    pos,
		Name:        p.Name,
		Price:       p.Price,
		Stock:       p.Stock,
		Category:    p.Category,
		Description: p.Description,
		Barcode:     p.Barcode,
		ImageURL:    p.ImageURL,
	}
}

func (r productRow) toModel() model.Product {
	return model.Product{
		ID:          r.ID,
		Name:        r.Name,
		Price:       r.Price,
		Stock:       r.Stock,
		Category:    r.Category,
		Description: r.Description,
		Barcode:     r.Barcode,
		ImageURL:    r.ImageURL,
	}
}

func newSaleRow(pos int, s model.Sale) saleRow {
	return saleRow{
		ID:            s.ID,
		Position:      pos,
		Items:         s.Items,
		Subtotal:      s.Subtotal,
		TotalDiscount: s.TotalDiscount,
		PaymentFee:    s.PaymentFee,
		Total:         s.Total,
		Date:          s.Date,
		PaymentMethod: string(s.PaymentMethod),
		Status:        string(s.Status),
		Notes:         s.Notes,
		Discount:      s.Discount,
		RegisterID:    s.RegisterID,
		ModifiedAt:    s.UpdatedAt,
	}
}

func (r saleRow) toModel() model.Sale {
	return model.Sale{
		ID:            r.ID,
		Items:         r.Items,
		Subtotal:      r.Subtotal,
		TotalDiscount: r.TotalDiscount,
		PaymentFee:    r.PaymentFee,
		Total:         r.Total,
		Date:          r.Date.UTC(),
		PaymentMethod: model.PaymentMethod(r.PaymentMethod),
		Status:        model.SaleStatus(r.Status),
		Notes:         r.Notes,
		Discount:      r.Discount,
		RegisterID:    r.RegisterID,
		UpdatedAt:     utcPtr(r.ModifiedAt),
	}
}

func newRegisterRow(pos int, r model.CashRegister) registerRow {
	ids := r.SaleIDs
	if ids == nil {
		ids = []uuid.UUID{}
	}
	return registerRow{
		ID:                   r.ID,
		Position:             pos,
		OpeningDate:          r.OpeningDate,
		OpeningBalance:       r.OpeningBalance,
		SaleIDs:              ids,
		Status:               string(r.Status),
		Notes:                r.Notes,
		ClosingDate:          r.ClosingDate,
		ClosingBalance:       r.ClosingBalance,
		ActualClosingBalance: r.ActualClosingBalance,
		CashShortage:         r.CashShortage,
		ShortageClass:        string(r.ShortageClass),
	}
}

func (r registerRow) toModel() model.CashRegister {
	return model.CashRegister{
		ID:                   r.ID,
		OpeningDate:          r.OpeningDate.UTC(),
		OpeningBalance:       r.OpeningBalance,
		SaleIDs:              r.SaleIDs,
		Status:               model.RegisterStatus(r.Status),
		Notes:                r.Notes,
		ClosingDate:          utcPtr(r.ClosingDate),
		ClosingBalance:       r.ClosingBalance,
		ActualClosingBalance: r.ActualClosingBalance,
		CashShortage:         r.CashShortage,
		ShortageClass:        model.ShortageClass(r.ShortageClass),
	}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
