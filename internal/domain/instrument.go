package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Category represents the asset class of an instrument
type Category string

const (
	CategoryEquity         Category = "EQUITY"
	CategoryRealEstateFund Category = "REAL_ESTATE_FUND"
	CategoryETF            Category = "ETF"
	CategoryCrypto         Category = "CRYPTO"
	CategoryFixedIncome    Category = "FIXED_INCOME"
	CategoryForeign        Category = "FOREIGN"
)

// ValidCategories lists every accepted instrument category
var ValidCategories = []Category{
	CategoryEquity,
	CategoryRealEstateFund,
	CategoryETF,
	CategoryCrypto,
	CategoryFixedIncome,
	CategoryForeign,
}

// Instrument represents a tradable or holdable asset owned by a user.
// QuantityHeld and AveragePrice are derived caches: only the position
// recalculator writes them, never a user-facing action.
type Instrument struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	Ticker       string
	Category     Category
	Sector       string
	QuantityHeld decimal.Decimal // up to 8 decimal places (fractional crypto units)
	AveragePrice decimal.Decimal // 2 decimal places; 0 when nothing is held
}

// InvestedValue returns the book value of the position (quantity * average price)
func (i *Instrument) InvestedValue() decimal.Decimal {
	return i.QuantityHeld.Mul(i.AveragePrice)
}

// Validate ensures the instrument adheres to domain rules
func (i *Instrument) Validate() error {
	if i.Ticker == "" {
		return errors.New("instrument ticker cannot be empty")
	}

	for _, c := range ValidCategories {
		if i.Category == c {
			return nil
		}
	}

	return errors.New("instrument category must be one of the known categories")
}

// OperationKind represents the type of ledger operation
type OperationKind string

const (
	OperationBuy      OperationKind = "BUY"
	OperationSell     OperationKind = "SELL"
	OperationDividend OperationKind = "DIVIDEND"
)

// Operation represents a single buy, sell, or dividend event against an
// instrument. Operations form an append-only ledger: the instrument's
// position is always recomputed from the full history, never incrementally.
type Operation struct {
	ID           uuid.UUID
	InstrumentID uuid.UUID
	Kind         OperationKind
	Date         time.Time
	Quantity     decimal.Decimal // required for BUY/SELL, ignored for DIVIDEND
	UnitPrice    decimal.Decimal
	Fees         decimal.Decimal // additive cost, only meaningful for BUY
}

// GrossAmount returns the cash moved by the operation.
// Dividends carry their value in UnitPrice with no quantity.
func (o *Operation) GrossAmount() decimal.Decimal {
	if o.Kind == OperationDividend {
		return o.UnitPrice
	}
	return o.Quantity.Mul(o.UnitPrice).Add(o.Fees)
}

// Validate ensures the operation adheres to domain rules
func (o *Operation) Validate() error {
	switch o.Kind {
	case OperationBuy, OperationSell:
		if o.Quantity.LessThanOrEqual(decimal.Zero) {
			return errors.New("buy/sell operation quantity must be positive")
		}
	case OperationDividend:
		// Quantity is ignored for dividends
	default:
		return errors.New("operation kind must be BUY, SELL, or DIVIDEND")
	}

	if o.UnitPrice.LessThan(decimal.Zero) {
		return errors.New("operation unit price cannot be negative")
	}

	if o.Fees.LessThan(decimal.Zero) {
		return errors.New("operation fees cannot be negative")
	}

	return nil
}
