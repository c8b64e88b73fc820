package summary

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	obligationdomain "subtrack/internal/domain/obligation"
	userdomain "subtrack/internal/domain/user"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ActiveByOwner(ctx context.Context, ownerID string, kind obligationdomain.Kind) ([]obligationdomain.Obligation, error) {
	var items []obligationdomain.Obligation
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND kind = ? AND status = ?", ownerID, kind, obligationdomain.StatusActive).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) ActiveSharedWith(ctx context.Context, userID string, kind obligationdomain.Kind) ([]obligationdomain.Obligation, error) {
	var items []obligationdomain.Obligation
	if err := r.db.WithContext(ctx).
		Joins("join obligation_shares on obligation_shares.obligation_id = obligations.id").
		Where("obligation_shares.target_id = ? AND obligations.kind = ? AND obligations.status = ?",
			userID, kind, obligationdomain.StatusActive).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) Goal(ctx context.Context, userID string, kind obligationdomain.Kind) (decimal.Decimal, error) {
	var record userdomain.User
	if err := r.db.WithContext(ctx).
		Where("id = ?", userID).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, userdomain.ErrNotFound
		}
		return decimal.Zero, err
	}
	if kind == obligationdomain.KindContract {
		return record.ContractGoal, nil
	}
	return record.SubscriptionGoal, nil
}
