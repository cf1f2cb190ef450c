package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InstrumentRepository defines the interface for instrument persistence operations
type InstrumentRepository interface {
	// GetByID retrieves an instrument by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*Instrument, error)

	// ListByUser retrieves all instruments owned by a user
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Instrument, error)

	// ListUserIDs retrieves the distinct IDs of users that hold instruments
	ListUserIDs(ctx context.Context) ([]uuid.UUID, error)

	// Create creates a new instrument
	Create(ctx context.Context, instrument *Instrument) error

	// UpdatePosition overwrites the derived position cache
	// (quantity_held, average_price) of an instrument
	UpdatePosition(ctx context.Context, id uuid.UUID, quantity, averagePrice decimal.Decimal) error

	// Delete removes an instrument and, transitively, its operations
	// and analysis record
	Delete(ctx context.Context, id uuid.UUID) error
}

// OperationRepository defines the interface for operation persistence operations
type OperationRepository interface {
	// GetByID retrieves an operation by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*Operation, error)

	// ListByInstrument retrieves the full operation history of an instrument
	ListByInstrument(ctx context.Context, instrumentID uuid.UUID) ([]*Operation, error)

	// Create appends a new operation to the ledger
	Create(ctx context.Context, op *Operation) error

	// Update overwrites an existing operation
	Update(ctx context.Context, op *Operation) error

	// Delete removes an operation from the ledger
	Delete(ctx context.Context, id uuid.UUID) error
}

// AnalysisRepository defines the interface for analysis record persistence
type AnalysisRepository interface {
	// Upsert writes the analysis record for an instrument, replacing any
	// previous record (one record per instrument, no history)
	Upsert(ctx context.Context, record *AnalysisRecord) error

	// GetByInstrument retrieves the latest analysis record for an instrument
	GetByInstrument(ctx context.Context, instrumentID uuid.UUID) (*AnalysisRecord, error)

	// ListByUser retrieves the analysis records for all of a user's instruments
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*AnalysisRecord, error)
}

// TransactionRepository defines the interface for cash-flow transaction persistence
type TransactionRepository interface {
	// Create creates a new transaction
	Create(ctx context.Context, tx *Transaction) error

	// ListByUser retrieves a user's transactions, newest first
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Transaction, error)

	// SumByKindSince sums the amounts of a user's transactions of one kind
	// dated on or after the given date. A zero `since` means all time.
	SumByKindSince(ctx context.Context, userID uuid.UUID, kind TransactionKind, since time.Time) (decimal.Decimal, error)
}

// BillRepository defines the interface for payable-bill persistence
type BillRepository interface {
	// Create creates a new bill
	Create(ctx context.Context, bill *Bill) error

	// ListByUser retrieves all bills of a user ordered by due date
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Bill, error)

	// ListUnpaidDueBefore retrieves unpaid bills due strictly before the
	// given date (i.e. overdue as of that date)
	ListUnpaidDueBefore(ctx context.Context, userID uuid.UUID, date time.Time) ([]*Bill, error)
}

// CardRepository defines the interface for credit card persistence
type CardRepository interface {
	// ListByUser retrieves all credit cards of a user
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*CreditCard, error)

	// ListExpenses retrieves all expenses charged to a card
	ListExpenses(ctx context.Context, cardID uuid.UUID) ([]*CardExpense, error)

	// SumExpenses sums the full purchase amounts charged to a card
	SumExpenses(ctx context.Context, cardID uuid.UUID) (decimal.Decimal, error)
}

// ChallengeRepository defines the interface for savings challenge persistence
type ChallengeRepository interface {
	// GetByID retrieves a challenge by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*SavingsChallenge, error)

	// Create creates a challenge together with its generated weekly schedule
	Create(ctx context.Context, challenge *SavingsChallenge, weeks []ChallengeWeek) error

	// ListWeeks retrieves the weekly schedule of a challenge ordered by number
	ListWeeks(ctx context.Context, challengeID uuid.UUID) ([]ChallengeWeek, error)
}
