package paymentmethod

import "context"

type Repository interface {
	List(ctx context.Context, userID string) ([]PaymentMethod, error)
	Create(ctx context.Context, method *PaymentMethod) error
	GetByID(ctx context.Context, userID, id string) (*PaymentMethod, error)
	Update(ctx context.Context, method *PaymentMethod) error
	Delete(ctx context.Context, userID, id string) (bool, error)
	CountByName(ctx context.Context, userID, name, excludeID string) (int64, error)
	CountSubscriptionsByMethod(ctx context.Context, userID, name string) (int64, error)
}
