package summary

import (
	"context"

	"github.com/shopspring/decimal"

	"subtrack/internal/domain/obligation"
)

var two = decimal.NewFromInt(2)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// TotalActiveSpend sums the user's active records of a kind. An owned record
// shared with someone counts half; a record shared with the user always
// counts half. Owner and recipient totals are computed independently.
func (s *Service) TotalActiveSpend(ctx context.Context, userID string, kind obligation.Kind) (decimal.Decimal, error) {
	own, err := s.repo.ActiveByOwner(ctx, userID, kind)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, record := range own {
		if record.SharedWith != "" {
			total = total.Add(record.Amount.Div(two))
		} else {
			total = total.Add(record.Amount)
		}
	}

	shared, err := s.repo.ActiveSharedWith(ctx, userID, kind)
	if err != nil {
		return decimal.Zero, err
	}
	for _, record := range shared {
		total = total.Add(record.Amount.Div(two))
	}

	return total, nil
}

// GoalDelta is goal minus total active spend: positive under budget,
// negative over.
func (s *Service) GoalDelta(ctx context.Context, userID string, kind obligation.Kind) (decimal.Decimal, error) {
	overview, err := s.Overview(ctx, userID, kind)
	if err != nil {
		return decimal.Zero, err
	}
	return overview.Delta, nil
}

func (s *Service) Overview(ctx context.Context, userID string, kind obligation.Kind) (Overview, error) {
	total, err := s.TotalActiveSpend(ctx, userID, kind)
	if err != nil {
		return Overview{}, err
	}
	goal, err := s.repo.Goal(ctx, userID, kind)
	if err != nil {
		return Overview{}, err
	}
	return Overview{
		Kind:  kind,
		Total: total,
		Goal:  goal,
		Delta: goal.Sub(total),
	}, nil
}
