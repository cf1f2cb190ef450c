package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionKind represents the direction of a cash-flow transaction
type TransactionKind string

const (
	TransactionIncome  TransactionKind = "INCOME"
	TransactionExpense TransactionKind = "EXPENSE"
)

// TransactionCategory represents the budget category of a transaction
type TransactionCategory string

const (
	TxCategorySalary      TransactionCategory = "SALARY"
	TxCategoryFreelance   TransactionCategory = "FREELANCE"
	TxCategoryInvestments TransactionCategory = "INVESTMENTS"
	TxCategoryHousing     TransactionCategory = "HOUSING"
	TxCategoryFood        TransactionCategory = "FOOD"
	TxCategoryTransport   TransactionCategory = "TRANSPORT"
	TxCategoryLeisure     TransactionCategory = "LEISURE"
	TxCategoryHealth      TransactionCategory = "HEALTH"
	TxCategoryEducation   TransactionCategory = "EDUCATION"
	TxCategoryOther       TransactionCategory = "OTHER"
)

// Transaction represents a single income or expense event in the user's
// cash flow. Settled indicates the money has actually moved.
type Transaction struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Description string
	Amount      decimal.Decimal // always positive; Kind carries the sign
	Kind        TransactionKind
	Category    TransactionCategory
	Date        time.Time
	Settled     bool
}

// Validate ensures the transaction adheres to domain rules
func (t *Transaction) Validate() error {
	if t.Description == "" {
		return errors.New("transaction description cannot be empty")
	}

	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return errors.New("transaction amount must be positive")
	}

	if t.Kind != TransactionIncome && t.Kind != TransactionExpense {
		return errors.New("transaction kind must be INCOME or EXPENSE")
	}

	return nil
}
