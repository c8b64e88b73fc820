package user

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID               string          `gorm:"type:uuid;primaryKey"`
	Name             string          `gorm:"not null"`
	Email            string          `gorm:"not null;uniqueIndex"`
	PasswordHash     string          `gorm:"not null"`
	SubscriptionGoal decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	ContractGoal     decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	CreatedAt        time.Time       `gorm:"autoCreateTime"`
	UpdatedAt        time.Time       `gorm:"autoUpdateTime"`
}

type UpdateProfileInput struct {
	Name        string
	Email       string
	NewPassword string
}
