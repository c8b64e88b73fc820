package obligation

import (
	"context"
	"time"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	Create(ctx context.Context, o *Obligation) error
	GetByID(ctx context.Context, id string) (*Obligation, error)
	GetByOwner(ctx context.Context, ownerID, id string) (*Obligation, error)
	ListByOwner(ctx context.Context, ownerID string, kind Kind) ([]Obligation, error)
	ListSharedWith(ctx context.Context, userID string, kind Kind) ([]Obligation, error)
	Update(ctx context.Context, o *Obligation) error
	UpdateDueDate(ctx context.Context, id string, dueDate time.Time) error
	Delete(ctx context.Context, id string) (bool, error)
	CountByName(ctx context.Context, ownerID string, kind Kind, name, excludeID string) (int64, error)
	ReplaceShare(ctx context.Context, share *Share) error
	DeleteShare(ctx context.Context, obligationID, targetID string) (bool, error)
	DeleteSharesByObligation(ctx context.Context, obligationID string) error
}

// Directory resolves registered users by email. It returns an empty id, not
// an error, when no user matches; errors are reserved for storage failures.
type Directory interface {
	FindUserIDByEmail(ctx context.Context, email string) (string, error)
}
