package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestBill_DueStatus(t *testing.T) {
	today := time.Date(2026, time.March, 15, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name    string
		dueDate time.Time
		paid    bool
		want    BillStatus
	}{
		{
			name:    "Paid bill reports PAID regardless of date",
			dueDate: today.AddDate(0, 0, -10),
			paid:    true,
			want:    BillStatusPaid,
		},
		{
			name:    "Due yesterday is OVERDUE",
			dueDate: today.AddDate(0, 0, -1),
			want:    BillStatusOverdue,
		},
		{
			name:    "Due today is DUE_TODAY",
			dueDate: time.Date(2026, time.March, 15, 23, 59, 0, 0, time.UTC),
			want:    BillStatusDueToday,
		},
		{
			name:    "Due in 5 days is DUE_SOON",
			dueDate: today.AddDate(0, 0, 5),
			want:    BillStatusDueSoon,
		},
		{
			name:    "Due in 6 days is UPCOMING",
			dueDate: today.AddDate(0, 0, 6),
			want:    BillStatusUpcoming,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bill := Bill{
				Title:      "IPVA",
				Amount:     decimal.NewFromInt(100),
				DueDate:    tt.dueDate,
				Paid:       tt.paid,
				Recurrence: RecurrenceMonthly,
			}
			assert.Equal(t, tt.want, bill.DueStatus(today))
		})
	}
}

func TestBill_Validate(t *testing.T) {
	bill := Bill{
		Title:      "Insurance",
		Amount:     decimal.NewFromInt(250),
		DueDate:    time.Now(),
		Recurrence: RecurrenceYearly,
	}
	assert.NoError(t, bill.Validate())

	bill.Amount = decimal.Zero
	assert.Error(t, bill.Validate())

	bill.Amount = decimal.NewFromInt(250)
	bill.Recurrence = BillRecurrence("WEEKLY")
	assert.Error(t, bill.Validate())
}
