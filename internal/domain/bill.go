package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BillRecurrence represents how often a bill repeats
type BillRecurrence string

const (
	RecurrenceOnce    BillRecurrence = "ONCE"
	RecurrenceMonthly BillRecurrence = "MONTHLY"
	RecurrenceYearly  BillRecurrence = "YEARLY"
)

// BillStatus represents the urgency of a bill relative to a reference date
type BillStatus string

const (
	BillStatusPaid     BillStatus = "PAID"
	BillStatusOverdue  BillStatus = "OVERDUE"
	BillStatusDueToday BillStatus = "DUE_TODAY"
	BillStatusDueSoon  BillStatus = "DUE_SOON" // due within the next 5 days
	BillStatusUpcoming BillStatus = "UPCOMING"
)

// Bill represents a payable obligation (utilities, insurance, subscriptions)
type Bill struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	Title      string
	Amount     decimal.Decimal
	DueDate    time.Time
	Paid       bool
	Recurrence BillRecurrence
}

// Validate ensures the bill adheres to domain rules
func (b *Bill) Validate() error {
	if b.Title == "" {
		return errors.New("bill title cannot be empty")
	}

	if b.Amount.LessThanOrEqual(decimal.Zero) {
		return errors.New("bill amount must be positive")
	}

	if b.Recurrence != RecurrenceOnce && b.Recurrence != RecurrenceMonthly && b.Recurrence != RecurrenceYearly {
		return errors.New("bill recurrence must be ONCE, MONTHLY, or YEARLY")
	}

	return nil
}

// DueStatus classifies the bill relative to today.
// Paid bills report PAID regardless of date.
func (b *Bill) DueStatus(today time.Time) BillStatus {
	if b.Paid {
		return BillStatusPaid
	}

	days := daysBetween(today, b.DueDate)

	switch {
	case days < 0:
		return BillStatusOverdue
	case days == 0:
		return BillStatusDueToday
	case days <= 5:
		return BillStatusDueSoon
	default:
		return BillStatusUpcoming
	}
}

// daysBetween returns whole calendar days from a to b, ignoring time of day
func daysBetween(a, b time.Time) int {
	a = time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	b = time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
