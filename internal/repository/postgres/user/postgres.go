package user

import (
	"context"
	"errors"

	"gorm.io/gorm"

	userdomain "subtrack/internal/domain/user"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, u *userdomain.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*userdomain.User, error) {
	var record userdomain.User
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, userdomain.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*userdomain.User, error) {
	var record userdomain.User
	if err := r.db.WithContext(ctx).
		Where("lower(email) = lower(?)", email).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, userdomain.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *PostgresRepository) Update(ctx context.Context, u *userdomain.User) error {
	return r.db.WithContext(ctx).
		Model(&userdomain.User{}).
		Where("id = ?", u.ID).
		Updates(map[string]interface{}{
			"name":              u.Name,
			"email":             u.Email,
			"password_hash":     u.PasswordHash,
			"subscription_goal": u.SubscriptionGoal,
			"contract_goal":     u.ContractGoal,
			"updated_at":        u.UpdatedAt,
		}).Error
}
