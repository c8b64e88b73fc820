package obligation

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	obligationdomain "subtrack/internal/domain/obligation"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(obligationdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) Create(ctx context.Context, o *obligationdomain.Obligation) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*obligationdomain.Obligation, error) {
	var record obligationdomain.Obligation
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, obligationdomain.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *PostgresRepository) GetByOwner(ctx context.Context, ownerID, id string) (*obligationdomain.Obligation, error) {
	var record obligationdomain.Obligation
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, obligationdomain.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string, kind obligationdomain.Kind) ([]obligationdomain.Obligation, error) {
	var items []obligationdomain.Obligation
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND kind = ?", ownerID, kind).
		Order("favorite desc, due_date asc, created_at asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) ListSharedWith(ctx context.Context, userID string, kind obligationdomain.Kind) ([]obligationdomain.Obligation, error) {
	var items []obligationdomain.Obligation
	if err := r.db.WithContext(ctx).
		Joins("join obligation_shares on obligation_shares.obligation_id = obligations.id").
		Where("obligation_shares.target_id = ? AND obligations.kind = ?", userID, kind).
		Order("obligations.due_date asc, obligations.created_at asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) Update(ctx context.Context, o *obligationdomain.Obligation) error {
	return r.db.WithContext(ctx).
		Model(&obligationdomain.Obligation{}).
		Where("id = ? AND owner_id = ?", o.ID, o.OwnerID).
		Updates(map[string]interface{}{
			"name":                o.Name,
			"amount":              o.Amount,
			"due_date":            o.DueDate,
			"periodicity":         o.Periodicity,
			"category":            o.Category,
			"payment_method_name": o.PaymentMethodName,
			"shared_with":         o.SharedWith,
			"login":               o.Login,
			"password":            o.Password,
			"favorite":            o.Favorite,
			"status":              o.Status,
			"updated_at":          o.UpdatedAt,
		}).Error
}

func (r *PostgresRepository) UpdateDueDate(ctx context.Context, id string, dueDate time.Time) error {
	return r.db.WithContext(ctx).
		Model(&obligationdomain.Obligation{}).
		Where("id = ?", id).
		Update("due_date", dueDate).Error
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&obligationdomain.Obligation{}, "id = ?", id)
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) CountByName(ctx context.Context, ownerID string, kind obligationdomain.Kind, name, excludeID string) (int64, error) {
	query := r.db.WithContext(ctx).
		Model(&obligationdomain.Obligation{}).
		Where("owner_id = ? AND kind = ? AND lower(name) = lower(?)", ownerID, kind, name)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostgresRepository) ReplaceShare(ctx context.Context, share *obligationdomain.Share) error {
	if err := r.db.WithContext(ctx).
		Where("obligation_id = ?", share.ObligationID).
		Delete(&obligationdomain.Share{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(share).Error
}

func (r *PostgresRepository) DeleteShare(ctx context.Context, obligationID, targetID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Delete(&obligationdomain.Share{}, "obligation_id = ? AND target_id = ?", obligationID, targetID)
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) DeleteSharesByObligation(ctx context.Context, obligationID string) error {
	return r.db.WithContext(ctx).
		Where("obligation_id = ?", obligationID).
		Delete(&obligationdomain.Share{}).Error
}
