package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/dmoura/financo-backend/internal/domain"
)

// MockTransactionRepository is a mock implementation of TransactionRepository for testing
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTransactionRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Transaction, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) SumByKindSince(ctx context.Context, userID uuid.UUID, kind domain.TransactionKind, since time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, userID, kind, since)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockBillRepository is a mock implementation of BillRepository for testing
type MockBillRepository struct {
	mock.Mock
}

func (m *MockBillRepository) Create(ctx context.Context, bill *domain.Bill) error {
	args := m.Called(ctx, bill)
	return args.Error(0)
}

func (m *MockBillRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Bill, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Bill), args.Error(1)
}

func (m *MockBillRepository) ListUnpaidDueBefore(ctx context.Context, userID uuid.UUID, date time.Time) ([]*domain.Bill, error) {
	args := m.Called(ctx, userID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Bill), args.Error(1)
}

// MockCardRepository is a mock implementation of CardRepository for testing
type MockCardRepository struct {
	mock.Mock
}

func (m *MockCardRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.CreditCard, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.CreditCard), args.Error(1)
}

func (m *MockCardRepository) ListExpenses(ctx context.Context, cardID uuid.UUID) ([]*domain.CardExpense, error) {
	args := m.Called(ctx, cardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.CardExpense), args.Error(1)
}

func (m *MockCardRepository) SumExpenses(ctx context.Context, cardID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, cardID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockInstrumentRepository is a mock implementation of InstrumentRepository for testing
type MockInstrumentRepository struct {
	mock.Mock
}

func (m *MockInstrumentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Instrument, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Instrument), args.Error(1)
}

func (m *MockInstrumentRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Instrument, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Instrument), args.Error(1)
}

func (m *MockInstrumentRepository) ListUserIDs(ctx context.Context) ([]uuid.UUID, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockInstrumentRepository) Create(ctx context.Context, instrument *domain.Instrument) error {
	args := m.Called(ctx, instrument)
	return args.Error(0)
}

func (m *MockInstrumentRepository) UpdatePosition(ctx context.Context, id uuid.UUID, quantity, averagePrice decimal.Decimal) error {
	args := m.Called(ctx, id, quantity, averagePrice)
	return args.Error(0)
}

func (m *MockInstrumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockAnalysisRepository is a mock implementation of AnalysisRepository for testing
type MockAnalysisRepository struct {
	mock.Mock
}

func (m *MockAnalysisRepository) Upsert(ctx context.Context, record *domain.AnalysisRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockAnalysisRepository) GetByInstrument(ctx context.Context, instrumentID uuid.UUID) (*domain.AnalysisRecord, error) {
	args := m.Called(ctx, instrumentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AnalysisRecord), args.Error(1)
}

func (m *MockAnalysisRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.AnalysisRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.AnalysisRecord), args.Error(1)
}

type fixture struct {
	txRepo         *MockTransactionRepository
	billRepo       *MockBillRepository
	cardRepo       *MockCardRepository
	instrumentRepo *MockInstrumentRepository
	analysisRepo   *MockAnalysisRepository
	service        *Service
}

func newFixture() *fixture {
	f := &fixture{
		txRepo:         new(MockTransactionRepository),
		billRepo:       new(MockBillRepository),
		cardRepo:       new(MockCardRepository),
		instrumentRepo: new(MockInstrumentRepository),
		analysisRepo:   new(MockAnalysisRepository),
	}
	f.service = NewService(f.txRepo, f.billRepo, f.cardRepo, f.instrumentRepo, f.analysisRepo, zerolog.Nop())
	return f
}

// stubDefaults wires the happy-path baseline: no bills, no cards, no
// instruments, no analysis records. Individual tests override cash flow.
func (f *fixture) stubDefaults(userID uuid.UUID) {
	f.billRepo.On("ListUnpaidDueBefore", mock.Anything, userID, mock.Anything).Return([]*domain.Bill{}, nil)
	f.cardRepo.On("ListByUser", mock.Anything, userID).Return([]*domain.CreditCard{}, nil)
	f.instrumentRepo.On("ListByUser", mock.Anything, userID).Return([]*domain.Instrument{}, nil)
	f.analysisRepo.On("ListByUser", mock.Anything, userID).Return([]*domain.AnalysisRecord{}, nil)
}

func (f *fixture) stubCashFlow(userID uuid.UUID, income, expense decimal.Decimal) {
	f.txRepo.On("SumByKindSince", mock.Anything, userID, domain.TransactionIncome, mock.Anything).Return(income, nil)
	f.txRepo.On("SumByKindSince", mock.Anything, userID, domain.TransactionExpense, mock.Anything).Return(expense, nil)
}

var today = time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

func TestDiagnose_ExcellentSaverScoresHigh(t *testing.T) {
	f := newFixture()
	userID := uuid.New()

	// savings rate 40%: +30 savings, +10 no overdue, +10 healthy cards
	f.stubCashFlow(userID, decimal.NewFromInt(5000), decimal.NewFromInt(3000))
	f.stubDefaults(userID)

	snapshot, err := f.service.Diagnose(context.Background(), userID, today)

	assert.NoError(t, err)
	assert.Equal(t, 100, snapshot.Score)
	assert.True(t, snapshot.SavingsRate.Equal(decimal.NewFromInt(40)))
}

func TestDiagnose_BillDueTodayIsNotOverdue(t *testing.T) {
	f := newFixture()
	userID := uuid.New()

	f.stubCashFlow(userID, decimal.NewFromInt(5000), decimal.NewFromInt(3000))

	// The repository query is strict (due_date < cutoff), so the service
	// must hand it a midnight cutoff even when called with clock time.
	midnight := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	f.billRepo.On("ListUnpaidDueBefore", mock.Anything, userID, midnight).Return([]*domain.Bill{}, nil)
	f.cardRepo.On("ListByUser", mock.Anything, userID).Return([]*domain.CreditCard{}, nil)
	f.instrumentRepo.On("ListByUser", mock.Anything, userID).Return([]*domain.Instrument{}, nil)
	f.analysisRepo.On("ListByUser", mock.Anything, userID).Return([]*domain.AnalysisRecord{}, nil)

	afternoon := time.Date(2026, 3, 15, 14, 0, 0, 0, time.UTC)
	snapshot, err := f.service.Diagnose(context.Background(), userID, afternoon)

	assert.NoError(t, err)
	assert.Equal(t, 100, snapshot.Score)
	assert.True(t, snapshot.OverdueTotal.IsZero())
	for _, rec := range snapshot.Recommendations {
		assert.NotEqual(t, "Overdue bills", rec.Title)
	}
	f.billRepo.AssertExpectations(t)
}

func TestDiagnose_DeficitIsPenalized(t *testing.T) {
	f := newFixture()
	userID := uuid.New()

	f.stubCashFlow(userID, decimal.NewFromInt(3000), decimal.NewFromInt(4000))
	f.stubDefaults(userID)

	snapshot, err := f.service.Diagnose(context.Background(), userID, today)

	assert.NoError(t, err)
	// 50 - 20 deficit + 10 no overdue + 10 healthy cards
	assert.Equal(t, 50, snapshot.Score)
	assert.True(t, snapshot.SavingsRate.IsNegative())
}

func TestDiagnose_NoIncomeCountsAsDeficit(t *testing.T) {
	f := newFixture()
	userID := uuid.New()

	f.stubCashFlow(userID, decimal.Zero, decimal.Zero)
	f.stubDefaults(userID)

	snapshot, err := f.service.Diagnose(context.Background(), userID, today)

	assert.NoError(t, err)
	assert.Equal(t, 50, snapshot.Score)
	assert.True(t, snapshot.SavingsRate.IsZero())
}

func TestDiagnose_ScoreIsClampedAtZero(t *testing.T) {
	f := newFixture()
	userID := uuid.New()

	f.stubCashFlow(userID, decimal.NewFromInt(1000), decimal.NewFromInt(2000))

	overdue := []*domain.Bill{
		{ID: uuid.New(), Title: "Rent", Amount: decimal.NewFromInt(1500)},
		{ID: uuid.New(), Title: "Power", Amount: decimal.NewFromInt(200)},
	}
	f.billRepo.On("ListUnpaidDueBefore", mock.Anything, userID, mock.Anything).Return(overdue, nil)

	cardID := uuid.New()
	cards := []*domain.CreditCard{{ID: cardID, Limit: decimal.NewFromInt(1000)}}
	f.cardRepo.On("ListByUser", mock.Anything, userID).Return(cards, nil)
	f.cardRepo.On("SumExpenses", mock.Anything, cardID).Return(decimal.NewFromInt(900), nil)

	f.instrumentRepo.On("ListByUser", mock.Anything, userID).Return([]*domain.Instrument{}, nil)
	f.analysisRepo.On("ListByUser", mock.Anything, userID).Return([]*domain.AnalysisRecord{}, nil)

	snapshot, err := f.service.Diagnose(context.Background(), userID, today)

	assert.NoError(t, err)
	// 50 - 20 - 30 - 20 = -20, clamped
	assert.Equal(t, 0, snapshot.Score)
	assert.True(t, snapshot.OverdueTotal.Equal(decimal.NewFromInt(1700)))
	assert.True(t, snapshot.CardUtilization.Equal(decimal.NewFromInt(90)))
}

func TestDiagnose_ModerateCardUtilization(t *testing.T) {
	f := newFixture()
	userID := uuid.New()

	f.stubCashFlow(userID, decimal.NewFromInt(5000), decimal.NewFromInt(3000))
	f.billRepo.On("ListUnpaidDueBefore", mock.Anything, userID, mock.Anything).Return([]*domain.Bill{}, nil)

	cardID := uuid.New()
	cards := []*domain.CreditCard{{ID: cardID, Limit: decimal.NewFromInt(10000)}}
	f.cardRepo.On("ListByUser", mock.Anything, userID).Return(cards, nil)
	f.cardRepo.On("SumExpenses", mock.Anything, cardID).Return(decimal.NewFromInt(5000), nil)

	f.instrumentRepo.On("ListByUser", mock.Anything, userID).Return([]*domain.Instrument{}, nil)
	f.analysisRepo.On("ListByUser", mock.Anything, userID).Return([]*domain.AnalysisRecord{}, nil)

	snapshot, err := f.service.Diagnose(context.Background(), userID, today)

	assert.NoError(t, err)
	// 50 + 30 + 10 - 5 moderate utilization
	assert.Equal(t, 85, snapshot.Score)
}

func TestDiagnose_ExactlyOneCashFlowRecommendation(t *testing.T) {
	tests := []struct {
		name         string
		income       decimal.Decimal
		expense      decimal.Decimal
		wantSeverity Severity
	}{
		{"deficit fires danger", decimal.NewFromInt(1000), decimal.NewFromInt(1500), SeverityDanger},
		{"low savings fires warning", decimal.NewFromInt(1000), decimal.NewFromInt(950), SeverityWarning},
		{"excellent savings fires success", decimal.NewFromInt(1000), decimal.NewFromInt(500), SeveritySuccess},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			userID := uuid.New()

			f.stubCashFlow(userID, tt.income, tt.expense)
			f.stubDefaults(userID)

			snapshot, err := f.service.Diagnose(context.Background(), userID, today)

			assert.NoError(t, err)
			assert.NotEmpty(t, snapshot.Recommendations)
			assert.Equal(t, tt.wantSeverity, snapshot.Recommendations[0].Severity)
		})
	}
}

func TestDiagnose_SellSignalsNameTickers(t *testing.T) {
	f := newFixture()
	userID := uuid.New()

	f.stubCashFlow(userID, decimal.NewFromInt(5000), decimal.NewFromInt(3000))
	f.billRepo.On("ListUnpaidDueBefore", mock.Anything, userID, mock.Anything).Return([]*domain.Bill{}, nil)
	f.cardRepo.On("ListByUser", mock.Anything, userID).Return([]*domain.CreditCard{}, nil)

	goodID, badID := uuid.New(), uuid.New()
	instruments := []*domain.Instrument{
		{ID: goodID, Ticker: "SOLID3", QuantityHeld: decimal.NewFromInt(100), AveragePrice: decimal.NewFromInt(20)},
		{ID: badID, Ticker: "WEAK4", QuantityHeld: decimal.NewFromInt(50), AveragePrice: decimal.NewFromInt(10)},
	}
	f.instrumentRepo.On("ListByUser", mock.Anything, userID).Return(instruments, nil)

	records := []*domain.AnalysisRecord{
		{InstrumentID: goodID, Recommendation: "STRONG BUY / CONTRIBUTE"},
		{InstrumentID: badID, Recommendation: "SELL PARTIAL (ABOVE TARGET)"},
	}
	f.analysisRepo.On("ListByUser", mock.Anything, userID).Return(records, nil)

	snapshot, err := f.service.Diagnose(context.Background(), userID, today)

	assert.NoError(t, err)

	var portfolio *Recommendation
	for i := range snapshot.Recommendations {
		if snapshot.Recommendations[i].Severity == SeverityInfo {
			portfolio = &snapshot.Recommendations[i]
		}
	}
	assert.NotNil(t, portfolio)
	assert.Contains(t, portfolio.Message, "WEAK4")
	assert.NotContains(t, portfolio.Message, "SOLID3")
}

func TestDiagnose_StartInvestingOnlyWithPositiveBalanceAndNoHoldings(t *testing.T) {
	f := newFixture()
	userID := uuid.New()

	f.stubCashFlow(userID, decimal.NewFromInt(5000), decimal.NewFromInt(3000))
	f.stubDefaults(userID)

	snapshot, err := f.service.Diagnose(context.Background(), userID, today)

	assert.NoError(t, err)

	last := snapshot.Recommendations[len(snapshot.Recommendations)-1]
	assert.Equal(t, SeverityPrimary, last.Severity)
	assert.Equal(t, "Start investing", last.Title)
}

func TestDiagnose_NoStartInvestingWhenAlreadyInvested(t *testing.T) {
	f := newFixture()
	userID := uuid.New()

	f.stubCashFlow(userID, decimal.NewFromInt(5000), decimal.NewFromInt(3000))
	f.billRepo.On("ListUnpaidDueBefore", mock.Anything, userID, mock.Anything).Return([]*domain.Bill{}, nil)
	f.cardRepo.On("ListByUser", mock.Anything, userID).Return([]*domain.CreditCard{}, nil)

	instruments := []*domain.Instrument{
		{ID: uuid.New(), Ticker: "SOLID3", QuantityHeld: decimal.NewFromInt(10), AveragePrice: decimal.NewFromInt(30)},
	}
	f.instrumentRepo.On("ListByUser", mock.Anything, userID).Return(instruments, nil)
	f.analysisRepo.On("ListByUser", mock.Anything, userID).Return([]*domain.AnalysisRecord{}, nil)

	snapshot, err := f.service.Diagnose(context.Background(), userID, today)

	assert.NoError(t, err)
	for _, rec := range snapshot.Recommendations {
		assert.NotEqual(t, SeverityPrimary, rec.Severity)
	}
}

func TestDiagnose_RepositoryFailurePropagates(t *testing.T) {
	f := newFixture()
	userID := uuid.New()

	f.txRepo.On("SumByKindSince", mock.Anything, userID, domain.TransactionIncome, mock.Anything).
		Return(decimal.Zero, errors.New("connection refused"))

	snapshot, err := f.service.Diagnose(context.Background(), userID, today)

	assert.Error(t, err)
	assert.Nil(t, snapshot)
	assert.Contains(t, err.Error(), "failed to sum income")
}
