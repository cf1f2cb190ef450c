package analyzer

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/dmoura/financo-backend/internal/domain"
	"github.com/dmoura/financo-backend/internal/usecase/classifier"
)

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

// MockFundamentalsSource is a mock implementation of FundamentalsSource for testing
type MockFundamentalsSource struct {
	mock.Mock
}

func (m *MockFundamentalsSource) Fundamentals(ctx context.Context, ticker string, category domain.Category) (domain.FundamentalsSnapshot, error) {
	args := m.Called(ctx, ticker, category)
	return args.Get(0).(domain.FundamentalsSnapshot), args.Error(1)
}

func equityInstrument(ticker string, qty, price int64) *domain.Instrument {
	return &domain.Instrument{
		ID:           uuid.New(),
		UserID:       uuid.New(),
		Ticker:       ticker,
		Category:     domain.CategoryEquity,
		QuantityHeld: decimal.NewFromInt(qty),
		AveragePrice: decimal.NewFromInt(price),
	}
}

func TestAnalyze_UpsertsRecordPerInstrument(t *testing.T) {
	ctx := context.Background()
	mockInstrumentRepo := new(MockInstrumentRepository)
	mockAnalysisRepo := new(MockAnalysisRepository)
	mockSource := new(MockFundamentalsSource)
	service := NewService(mockInstrumentRepo, mockAnalysisRepo, mockSource, zerolog.Nop())

	userID := uuid.New()
	instrument := equityInstrument("BBAS3", 100, 28)
	instrument.UserID = userID

	// Strong fundamentals: every checklist criterion passes
	snapshot := domain.FundamentalsSnapshot{
		Price:          decimal.RequireFromString("28.50"),
		TrailingPE:     decimal.RequireFromString("5.0"),
		PriceToBook:    decimal.RequireFromString("1.0"),
		DividendYield:  decimal.RequireFromString("0.10"),
		ReturnOnEquity: decimal.RequireFromString("0.20"),
		DebtToEquity:   decimal.RequireFromString("50"),
	}

	mockInstrumentRepo.On("ListByUser", ctx, userID).Return([]*domain.Instrument{instrument}, nil)
	mockSource.On("Fundamentals", mock.Anything, "BBAS3", domain.CategoryEquity).Return(snapshot, nil)
	mockAnalysisRepo.On("Upsert", ctx, mock.MatchedBy(func(r *domain.AnalysisRecord) bool {
		return r.InstrumentID == instrument.ID &&
			r.Score == 5 &&
			r.Recommendation == classifier.LabelStrongBuy &&
			r.MeetsDividendYield &&
			r.Price.Equal(snapshot.Price)
	})).Return(nil)

	err := service.Analyze(ctx, userID)

	assert.NoError(t, err)
	mockAnalysisRepo.AssertExpectations(t)
	mockSource.AssertExpectations(t)
}

func TestAnalyze_OneFailedFetchDoesNotAbortBatch(t *testing.T) {
	ctx := context.Background()
	mockInstrumentRepo := new(MockInstrumentRepository)
	mockAnalysisRepo := new(MockAnalysisRepository)
	mockSource := new(MockFundamentalsSource)
	service := NewService(mockInstrumentRepo, mockAnalysisRepo, mockSource, zerolog.Nop())

	userID := uuid.New()
	failing := equityInstrument("MGLU3", 10, 2)
	healthy := equityInstrument("TAEE11", 50, 35)

	mockInstrumentRepo.On("ListByUser", ctx, userID).
		Return([]*domain.Instrument{failing, healthy}, nil)
	mockSource.On("Fundamentals", mock.Anything, "MGLU3", domain.CategoryEquity).
		Return(domain.FundamentalsSnapshot{}, errors.New("quote service unavailable"))
	mockSource.On("Fundamentals", mock.Anything, "TAEE11", domain.CategoryEquity).
		Return(domain.FundamentalsSnapshot{
			DividendYield:  decimal.RequireFromString("0.09"),
			ReturnOnEquity: decimal.RequireFromString("0.15"),
		}, nil)
	mockAnalysisRepo.On("Upsert", ctx, mock.MatchedBy(func(r *domain.AnalysisRecord) bool {
		return r.InstrumentID == healthy.ID
	})).Return(nil)

	err := service.Analyze(ctx, userID)

	// The failing instrument is skipped, the healthy one still gets a record
	assert.NoError(t, err)
	mockAnalysisRepo.AssertExpectations(t)
	mockAnalysisRepo.AssertNumberOfCalls(t, "Upsert", 1)
}

func TestAnalyze_PortfolioTotalComputedOnceForAllocationScoring(t *testing.T) {
	ctx := context.Background()
	mockInstrumentRepo := new(MockInstrumentRepository)
	mockAnalysisRepo := new(MockAnalysisRepository)
	mockSource := new(MockFundamentalsSource)
	service := NewService(mockInstrumentRepo, mockAnalysisRepo, mockSource, zerolog.Nop())

	userID := uuid.New()

	// Portfolio: 97000 in equities + 3000 in crypto -> crypto sits at 3%
	stocks := equityInstrument("ITSA4", 9700, 10)
	crypto := &domain.Instrument{
		ID:           uuid.New(),
		UserID:       userID,
		Ticker:       "BTC",
		Category:     domain.CategoryCrypto,
		QuantityHeld: decimal.RequireFromString("0.01"),
		AveragePrice: decimal.NewFromInt(300000),
	}

	mockInstrumentRepo.On("ListByUser", ctx, userID).
		Return([]*domain.Instrument{stocks, crypto}, nil)
	mockSource.On("Fundamentals", mock.Anything, "ITSA4", domain.CategoryEquity).
		Return(domain.FundamentalsSnapshot{}, nil)
	mockSource.On("Fundamentals", mock.Anything, "BTC", domain.CategoryCrypto).
		Return(domain.FundamentalsSnapshot{Price: decimal.NewFromInt(310000)}, nil)

	mockAnalysisRepo.On("Upsert", ctx, mock.MatchedBy(func(r *domain.AnalysisRecord) bool {
		return r.InstrumentID == stocks.ID
	})).Return(nil)
	// 3% of the portfolio against a 5% target -> below target, score 5
	mockAnalysisRepo.On("Upsert", ctx, mock.MatchedBy(func(r *domain.AnalysisRecord) bool {
		return r.InstrumentID == crypto.ID &&
			r.Score == 5 &&
			r.Recommendation == classifier.LabelBelowTarget
	})).Return(nil)

	err := service.Analyze(ctx, userID)

	assert.NoError(t, err)
	mockAnalysisRepo.AssertExpectations(t)
}

func TestAnalyze_ListFailurePropagates(t *testing.T) {
	ctx := context.Background()
	mockInstrumentRepo := new(MockInstrumentRepository)
	mockAnalysisRepo := new(MockAnalysisRepository)
	mockSource := new(MockFundamentalsSource)
	service := NewService(mockInstrumentRepo, mockAnalysisRepo, mockSource, zerolog.Nop())

	userID := uuid.New()
	mockInstrumentRepo.On("ListByUser", ctx, userID).Return(nil, errors.New("db down"))

	err := service.Analyze(ctx, userID)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list instruments")
	mockSource.AssertNotCalled(t, "Fundamentals")
}
