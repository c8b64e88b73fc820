package summary

import (
	"context"

	"github.com/shopspring/decimal"

	"subtrack/internal/domain/obligation"
)

type Repository interface {
	ActiveByOwner(ctx context.Context, ownerID string, kind obligation.Kind) ([]obligation.Obligation, error)
	ActiveSharedWith(ctx context.Context, userID string, kind obligation.Kind) ([]obligation.Obligation, error)
	Goal(ctx context.Context, userID string, kind obligation.Kind) (decimal.Decimal, error)
}
