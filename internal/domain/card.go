package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreditCard represents one credit card with its limit and billing cycle days
type CreditCard struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	Name       string
	Limit      decimal.Decimal
	ClosingDay int // day of month the statement closes (1-31)
	DueDay     int // day of month the statement is due (1-31)
}

// Validate ensures the credit card adheres to domain rules
func (c *CreditCard) Validate() error {
	if c.Name == "" {
		return errors.New("card name cannot be empty")
	}

	if c.Limit.LessThanOrEqual(decimal.Zero) {
		return errors.New("card limit must be positive")
	}

	if c.ClosingDay < 1 || c.ClosingDay > 31 {
		return errors.New("card closing day must be between 1 and 31")
	}

	if c.DueDay < 1 || c.DueDay > 31 {
		return errors.New("card due day must be between 1 and 31")
	}

	return nil
}

// CardExpense represents a purchase on a credit card, optionally amortized
// over N equal monthly installments starting at the purchase month.
type CardExpense struct {
	ID           uuid.UUID
	CardID       uuid.UUID
	Description  string
	Amount       decimal.Decimal // full purchase amount
	PurchaseDate time.Time
	Category     TransactionCategory
	Installments int // >= 1
}

// Validate ensures the card expense adheres to domain rules
func (e *CardExpense) Validate() error {
	if e.Description == "" {
		return errors.New("card expense description cannot be empty")
	}

	if e.Amount.LessThanOrEqual(decimal.Zero) {
		return errors.New("card expense amount must be positive")
	}

	if e.Installments < 1 {
		return errors.New("card expense must have at least one installment")
	}

	return nil
}

// InstallmentAmount returns the value of one monthly installment,
// rounded to 2 decimal places.
func (e *CardExpense) InstallmentAmount() decimal.Decimal {
	return e.Amount.Div(decimal.NewFromInt(int64(e.Installments))).Round(2)
}

// FallsInMonth reports whether one of the expense's installments lands in
// the given month. Installment k (0-based) lands k calendar months after
// the purchase month.
func (e *CardExpense) FallsInMonth(year int, month time.Month) bool {
	first := time.Date(e.PurchaseDate.Year(), e.PurchaseDate.Month(), 1, 0, 0, 0, 0, time.UTC)
	target := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)

	offset := (target.Year()-first.Year())*12 + int(target.Month()) - int(first.Month())

	return offset >= 0 && offset < e.Installments
}
