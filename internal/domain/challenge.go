package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SavingsChallenge represents a weekly deposit ladder toward a goal: the
// first week deposits InitialAmount, and each following week adds Increment
// on top of the previous deposit.
type SavingsChallenge struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	Goal          string
	InitialAmount decimal.Decimal
	Increment     decimal.Decimal
	DurationWeeks int
	StartDate     time.Time
	Completed     bool
}

// ChallengeWeek represents one scheduled deposit of a savings challenge
type ChallengeWeek struct {
	ID          uuid.UUID
	ChallengeID uuid.UUID
	Number      int // 1-based
	DueDate     time.Time
	Amount      decimal.Decimal
	Paid        bool
	PaidAt      *time.Time
}

// Validate ensures the challenge adheres to domain rules
func (c *SavingsChallenge) Validate() error {
	if c.Goal == "" {
		return errors.New("challenge goal cannot be empty")
	}

	if c.InitialAmount.LessThanOrEqual(decimal.Zero) {
		return errors.New("challenge initial amount must be positive")
	}

	if c.Increment.LessThan(decimal.Zero) {
		return errors.New("challenge increment cannot be negative")
	}

	if c.DurationWeeks < 1 {
		return errors.New("challenge duration must be at least one week")
	}

	return nil
}

// PlannedTotal returns the sum of all scheduled deposits
// (arithmetic series: (first + last) * n / 2).
func (c *SavingsChallenge) PlannedTotal() decimal.Decimal {
	weeks := decimal.NewFromInt(int64(c.DurationWeeks))
	last := c.InitialAmount.Add(weeks.Sub(decimal.NewFromInt(1)).Mul(c.Increment))
	return c.InitialAmount.Add(last).Mul(weeks).Div(decimal.NewFromInt(2))
}

// PaidTotal sums the deposits already made
func (c *SavingsChallenge) PaidTotal(weeks []ChallengeWeek) decimal.Decimal {
	total := decimal.Zero
	for _, w := range weeks {
		if w.Paid {
			total = total.Add(w.Amount)
		}
	}
	return total
}

// Progress returns the percentage of the planned total already deposited,
// 0 when the planned total is zero.
func (c *SavingsChallenge) Progress(weeks []ChallengeWeek) decimal.Decimal {
	planned := c.PlannedTotal()
	if planned.IsZero() {
		return decimal.Zero
	}
	return c.PaidTotal(weeks).Div(planned).Mul(decimal.NewFromInt(100))
}
