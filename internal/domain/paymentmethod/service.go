package paymentmethod

import (
	"context"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, userID string) ([]PaymentMethod, error) {
	return s.repo.List(ctx, userID)
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*PaymentMethod, error) {
	name := normalizeName(in.Name)
	form, ok := ParseForm(in.Form)
	if !ok {
		return nil, ErrBadForm
	}

	count, err := s.repo.CountByName(ctx, in.UserID, name, "")
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrNameTaken
	}

	method := &PaymentMethod{
		ID:      uuid.NewString(),
		UserID:  in.UserID,
		Name:    name,
		Form:    form,
		DueDate: in.DueDate,
	}
	if err := s.repo.Create(ctx, method); err != nil {
		return nil, err
	}
	return method, nil
}

func (s *Service) Update(ctx context.Context, in UpdateInput) (*PaymentMethod, error) {
	name := normalizeName(in.Name)
	form, ok := ParseForm(in.Form)
	if !ok {
		return nil, ErrBadForm
	}

	method, err := s.repo.GetByID(ctx, in.UserID, in.ID)
	if err != nil {
		return nil, err
	}

	count, err := s.repo.CountByName(ctx, in.UserID, name, in.ID)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrNameTaken
	}

	method.Name = name
	method.Form = form
	method.DueDate = in.DueDate
	if err := s.repo.Update(ctx, method); err != nil {
		return nil, err
	}
	return method, nil
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	method, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return err
	}

	used, err := s.repo.CountSubscriptionsByMethod(ctx, userID, method.Name)
	if err != nil {
		return err
	}
	if used > 0 {
		return ErrInUse
	}

	deleted, err := s.repo.Delete(ctx, userID, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

// normalizeName trims whitespace and upcases the first letter so
// "nubank" and "Nubank" refer to the same method.
func normalizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return name
	}
	runes := []rune(name)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
