package paymentmethod

import (
	"context"
	"errors"

	"gorm.io/gorm"

	obligationdomain "subtrack/internal/domain/obligation"
	methoddomain "subtrack/internal/domain/paymentmethod"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context, userID string) ([]methoddomain.PaymentMethod, error) {
	var items []methoddomain.PaymentMethod
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) Create(ctx context.Context, method *methoddomain.PaymentMethod) error {
	return r.db.WithContext(ctx).Create(method).Error
}

func (r *PostgresRepository) GetByID(ctx context.Context, userID, id string) (*methoddomain.PaymentMethod, error) {
	var record methoddomain.PaymentMethod
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, methoddomain.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *PostgresRepository) Update(ctx context.Context, method *methoddomain.PaymentMethod) error {
	return r.db.WithContext(ctx).
		Model(&methoddomain.PaymentMethod{}).
		Where("id = ? AND user_id = ?", method.ID, method.UserID).
		Updates(map[string]interface{}{
			"name":       method.Name,
			"form":       method.Form,
			"due_date":   method.DueDate,
			"updated_at": method.UpdatedAt,
		}).Error
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&methoddomain.PaymentMethod{}, "user_id = ? AND id = ?", userID, id)
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) CountByName(ctx context.Context, userID, name, excludeID string) (int64, error) {
	query := r.db.WithContext(ctx).
		Model(&methoddomain.PaymentMethod{}).
		Where("user_id = ? AND lower(name) = lower(?)", userID, name)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostgresRepository) CountSubscriptionsByMethod(ctx context.Context, userID, name string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&obligationdomain.Obligation{}).
		Where("owner_id = ? AND kind = ? AND lower(payment_method_name) = lower(?)",
			userID, obligationdomain.KindSubscription, name).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
