package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Register(ctx context.Context, name, email, password string) (*User, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if password == "" {
		return nil, fmt.Errorf("password is required")
	}

	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	record := User{
		ID:               uuid.NewString(),
		Name:             name,
		Email:            email,
		PasswordHash:     string(hash),
		SubscriptionGoal: decimal.Zero,
		ContractGoal:     decimal.Zero,
	}
	if err := s.repo.Create(ctx, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*User, error) {
	record, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(record.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return record, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateProfile(ctx context.Context, id string, input UpdateProfileInput) (*User, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	email := normalizeEmail(input.Email)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}

	if email != record.Email {
		other, err := s.repo.GetByEmail(ctx, email)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		if other != nil {
			return nil, ErrEmailTaken
		}
	}

	record.Name = name
	record.Email = email
	if input.NewPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		record.PasswordHash = string(hash)
	}

	if err := s.repo.Update(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *Service) SetSubscriptionGoal(ctx context.Context, id string, goal decimal.Decimal) (*User, error) {
	return s.setGoal(ctx, id, goal, func(u *User) { u.SubscriptionGoal = goal })
}

func (s *Service) SetContractGoal(ctx context.Context, id string, goal decimal.Decimal) (*User, error) {
	return s.setGoal(ctx, id, goal, func(u *User) { u.ContractGoal = goal })
}

func (s *Service) setGoal(ctx context.Context, id string, goal decimal.Decimal, apply func(*User)) (*User, error) {
	if goal.IsNegative() {
		return nil, ErrNegativeGoal
	}
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	apply(record)
	if err := s.repo.Update(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// FindUserIDByEmail implements the obligation directory contract: an empty
// id means no registered user matches.
func (s *Service) FindUserIDByEmail(ctx context.Context, email string) (string, error) {
	record, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return record.ID, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
