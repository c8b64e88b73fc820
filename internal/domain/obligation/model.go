package obligation

import (
	"time"

	"github.com/shopspring/decimal"
)

// DueDateLayout is the textual day/month/year format used at the API boundary.
const DueDateLayout = "02/01/2006"

type Kind string

const (
	KindSubscription Kind = "subscription"
	KindContract     Kind = "contract"
)

func ParseKind(value string) (Kind, bool) {
	switch Kind(value) {
	case KindSubscription, KindContract:
		return Kind(value), true
	}
	return "", false
}

type Status string

const (
	StatusActive Status = "active"
	StatusClosed Status = "closed"
)

func ParseStatus(value string) (Status, bool) {
	switch Status(value) {
	case StatusActive, StatusClosed:
		return Status(value), true
	}
	return "", false
}

type Periodicity string

const (
	PeriodicityMonthly    Periodicity = "monthly"
	PeriodicityQuarterly  Periodicity = "quarterly"
	PeriodicitySemiannual Periodicity = "semiannual"
	PeriodicityAnnual     Periodicity = "annual"
)

func ParsePeriodicity(value string) (Periodicity, bool) {
	switch Periodicity(value) {
	case PeriodicityMonthly, PeriodicityQuarterly, PeriodicitySemiannual, PeriodicityAnnual:
		return Periodicity(value), true
	}
	return "", false
}

var subscriptionCategories = []string{
	"streaming",
	"clubs",
	"food",
	"saas",
	"pets",
	"other",
}

var contractCategories = []string{
	"professional_services",
	"education",
	"financing",
	"health",
	"rent",
	"other",
}

// Categories returns the closed category set for a kind.
func Categories(kind Kind) []string {
	switch kind {
	case KindSubscription:
		return subscriptionCategories
	case KindContract:
		return contractCategories
	}
	return nil
}

func validCategory(kind Kind, category string) bool {
	for _, candidate := range Categories(kind) {
		if candidate == category {
			return true
		}
	}
	return false
}

type Obligation struct {
	ID                string          `gorm:"type:uuid;primaryKey"`
	OwnerID           string          `gorm:"type:uuid;index;not null"`
	Kind              Kind            `gorm:"type:varchar(16);index;not null"`
	Name              string          `gorm:"not null"`
	Amount            decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	DueDate           time.Time       `gorm:"type:date;not null"`
	Periodicity       Periodicity     `gorm:"type:varchar(16);not null"`
	Category          string          `gorm:"type:varchar(32);not null"`
	PaymentMethodName string          `gorm:"type:text"`
	SharedWith        string          `gorm:"type:text"`
	Login             string          `gorm:"type:text"`
	Password          string          `gorm:"type:text"`
	Favorite          bool            `gorm:"not null;default:false"`
	Status            Status          `gorm:"type:varchar(16);not null"`
	CreatedAt         time.Time       `gorm:"autoCreateTime"`
	UpdatedAt         time.Time       `gorm:"autoUpdateTime"`

	// ReadOnly marks records visible through a share grant. The recipient
	// may not edit, remove, or re-share them.
	ReadOnly bool `gorm:"-"`
}

// Share is a read-only visibility grant, at most one per
// (obligation, target) pair.
type Share struct {
	ObligationID string    `gorm:"type:uuid;primaryKey"`
	TargetID     string    `gorm:"type:uuid;primaryKey;index"`
	OwnerID      string    `gorm:"type:uuid;not null;index"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

func (Share) TableName() string {
	return "obligation_shares"
}

// RawFields is the unvalidated form input for create and edit. Amount and
// DueDate arrive as text and are coerced by validation.
type RawFields struct {
	Name          string
	Amount        string
	DueDate       string
	Periodicity   string
	Category      string
	PaymentMethod string
	SharedWith    string
	Login         string
	Password      string
	Favorite      bool
	Status        string
}

type validatedFields struct {
	Name          string
	Amount        decimal.Decimal
	DueDate       time.Time
	Periodicity   Periodicity
	Category      string
	PaymentMethod string
	SharedWith    string
	TargetID      string
	Status        Status
}
