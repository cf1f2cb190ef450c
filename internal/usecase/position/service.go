package position

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/dmoura/financo-backend/internal/domain"
)

// Service recomputes an instrument's derived position (quantity held and
// weighted-average price) from its full operation history, and wraps
// operation writes so every ledger mutation triggers a recomputation.
type Service struct {
	InstrumentRepo domain.InstrumentRepository
	OperationRepo  domain.OperationRepository
	log            zerolog.Logger
}

// NewService creates a new position Service instance
func NewService(instrumentRepo domain.InstrumentRepository, operationRepo domain.OperationRepository, log zerolog.Logger) *Service {
	return &Service{
		InstrumentRepo: instrumentRepo,
		OperationRepo:  operationRepo,
		log:            log.With().Str("component", "position").Logger(),
	}
}

// Recompute derives the current position from the complete operation ledger
// and persists it on the instrument.
//
// Logic:
//  1. quantity_held = total bought - total sold (all-time)
//  2. average_price = sum(buy quantity*price + fees) / total bought,
//     when quantity_held > 0; otherwise 0
//
// The average price divides by all-time total bought, not the remaining
// quantity: selling does not adjust it downward. Selling more than held is
// not guarded either; both follow the documented simplified accounting.
// Recomputing with unchanged data is idempotent.
func (s *Service) Recompute(ctx context.Context, instrumentID uuid.UUID) error {
	ops, err := s.OperationRepo.ListByInstrument(ctx, instrumentID)
	if err != nil {
		return fmt.Errorf("failed to list operations: %w", err)
	}

	totalBought := decimal.Zero
	totalSold := decimal.Zero
	totalCost := decimal.Zero

	for _, op := range ops {
		switch op.Kind {
		case domain.OperationBuy:
			totalBought = totalBought.Add(op.Quantity)
			totalCost = totalCost.Add(op.Quantity.Mul(op.UnitPrice).Add(op.Fees))
		case domain.OperationSell:
			totalSold = totalSold.Add(op.Quantity)
		case domain.OperationDividend:
			// Dividends do not move the position
		}
	}

	quantity := totalBought.Sub(totalSold)

	averagePrice := decimal.Zero
	if quantity.GreaterThan(decimal.Zero) && totalBought.GreaterThan(decimal.Zero) {
		averagePrice = totalCost.Div(totalBought).Round(2)
	}

	if err := s.InstrumentRepo.UpdatePosition(ctx, instrumentID, quantity, averagePrice); err != nil {
		return fmt.Errorf("failed to persist position: %w", err)
	}

	s.log.Debug().
		Str("instrument_id", instrumentID.String()).
		Str("quantity", quantity.String()).
		Str("average_price", averagePrice.String()).
		Msg("Position recomputed")

	return nil
}

// RecordOperation appends an operation to the ledger and synchronously
// recomputes the owning instrument's position.
func (s *Service) RecordOperation(ctx context.Context, op *domain.Operation) error {
	if err := op.Validate(); err != nil {
		return &domain.ValidationError{Err: fmt.Errorf("invalid operation: %w", err)}
	}

	// The instrument must exist before we append to its ledger
	if _, err := s.InstrumentRepo.GetByID(ctx, op.InstrumentID); err != nil {
		return err
	}

	if op.ID == uuid.Nil {
		op.ID = uuid.New()
	}

	if err := s.OperationRepo.Create(ctx, op); err != nil {
		return fmt.Errorf("failed to create operation: %w", err)
	}

	return s.Recompute(ctx, op.InstrumentID)
}

// UpdateOperation overwrites an existing operation and recomputes the owning
// instrument's position. An operation never moves between instruments.
func (s *Service) UpdateOperation(ctx context.Context, op *domain.Operation) error {
	if err := op.Validate(); err != nil {
		return &domain.ValidationError{Err: fmt.Errorf("invalid operation: %w", err)}
	}

	existing, err := s.OperationRepo.GetByID(ctx, op.ID)
	if err != nil {
		return err
	}
	op.InstrumentID = existing.InstrumentID

	if err := s.OperationRepo.Update(ctx, op); err != nil {
		return fmt.Errorf("failed to update operation: %w", err)
	}

	return s.Recompute(ctx, op.InstrumentID)
}

// DeleteOperation removes an operation and recomputes the owning
// instrument's position.
func (s *Service) DeleteOperation(ctx context.Context, operationID uuid.UUID) error {
	existing, err := s.OperationRepo.GetByID(ctx, operationID)
	if err != nil {
		return err
	}

	if err := s.OperationRepo.Delete(ctx, operationID); err != nil {
		return fmt.Errorf("failed to delete operation: %w", err)
	}

	return s.Recompute(ctx, existing.InstrumentID)
}
