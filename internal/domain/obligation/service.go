package obligation

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// defaultSweepMaxSteps caps the renewal loop per record. A known periodicity
// can never hit it; it is a safety net for the no-progress case.
const defaultSweepMaxSteps = 4096

type Service struct {
	repo          Repository
	directory     Directory
	sweepMaxSteps int
	now           func() time.Time
}

func NewService(repo Repository, directory Directory) *Service {
	return NewServiceWithSweepLimit(repo, directory, defaultSweepMaxSteps)
}

func NewServiceWithSweepLimit(repo Repository, directory Directory, maxSteps int) *Service {
	if maxSteps <= 0 {
		maxSteps = defaultSweepMaxSteps
	}
	return &Service{
		repo:          repo,
		directory:     directory,
		sweepMaxSteps: maxSteps,
		now:           time.Now,
	}
}

func (s *Service) Create(ctx context.Context, ownerID string, kind Kind, in RawFields) (*Obligation, error) {
	fields, err := s.validate(ctx, s.repo, ownerID, kind, in, "")
	if err != nil {
		return nil, err
	}

	record := Obligation{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Kind:        kind,
		Name:        fields.Name,
		Amount:      fields.Amount,
		DueDate:     fields.DueDate,
		Periodicity: fields.Periodicity,
		Category:    fields.Category,
		SharedWith:  fields.SharedWith,
		Favorite:    false,
		Status:      StatusActive,
	}
	if kind == KindSubscription {
		record.PaymentMethodName = fields.PaymentMethod
		record.Login = in.Login
		record.Password = in.Password
	}

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.Create(ctx, &record); err != nil {
			return err
		}
		if fields.TargetID == "" {
			return nil
		}
		return tx.ReplaceShare(ctx, &Share{
			ObligationID: record.ID,
			TargetID:     fields.TargetID,
			OwnerID:      ownerID,
		})
	})
	if err != nil {
		return nil, err
	}

	return &record, nil
}

// Edit fully replaces the mutable fields of an owned record. Status may move
// from active to closed; the reverse transition is rejected.
func (s *Service) Edit(ctx context.Context, ownerID, id string, in RawFields) (*Obligation, error) {
	existing, err := s.repo.GetByOwner(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	fields, err := s.validate(ctx, s.repo, ownerID, existing.Kind, in, id)
	if err != nil {
		return nil, err
	}

	var updated Obligation
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		record, err := tx.GetByOwner(ctx, ownerID, id)
		if err != nil {
			return err
		}
		status := fields.Status
		if in.Status == "" {
			status = record.Status
		}
		if record.Status == StatusClosed && status == StatusActive {
			return ErrCannotReopen
		}

		record.Name = fields.Name
		record.Amount = fields.Amount
		record.DueDate = fields.DueDate
		record.Periodicity = fields.Periodicity
		record.Category = fields.Category
		record.SharedWith = fields.SharedWith
		record.Favorite = in.Favorite
		record.Status = status
		if record.Kind == KindSubscription {
			record.PaymentMethodName = fields.PaymentMethod
			record.Login = in.Login
			record.Password = in.Password
		}
		record.UpdatedAt = s.now().UTC()

		if err := tx.Update(ctx, record); err != nil {
			return err
		}

		// The grant must track the resolved target: an email that no longer
		// resolves to a registered user drops any prior grant.
		if fields.TargetID != "" {
			if err := tx.ReplaceShare(ctx, &Share{
				ObligationID: record.ID,
				TargetID:     fields.TargetID,
				OwnerID:      ownerID,
			}); err != nil {
				return err
			}
		} else {
			if err := tx.DeleteSharesByObligation(ctx, record.ID); err != nil {
				return err
			}
		}

		updated = *record
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

// ListForUser sweeps the user's own active records forward and returns them
// together with records shared with the user, tagged read-only.
func (s *Service) ListForUser(ctx context.Context, userID string, kind Kind) ([]Obligation, error) {
	own, err := s.repo.ListByOwner(ctx, userID, kind)
	if err != nil {
		return nil, err
	}

	today := dateOnly(s.now())
	for i := range own {
		record := &own[i]
		if record.Status != StatusActive {
			continue
		}
		advanced, changed := s.advanceDueDate(record.DueDate, record.Periodicity, today)
		if !changed {
			continue
		}
		if err := s.repo.UpdateDueDate(ctx, record.ID, advanced); err != nil {
			return nil, err
		}
		record.DueDate = advanced
	}

	shared, err := s.repo.ListSharedWith(ctx, userID, kind)
	if err != nil {
		return nil, err
	}
	for i := range shared {
		shared[i].ReadOnly = true
		// Stored credentials are the owner's; never expose them to the
		// share recipient.
		shared[i].Login = ""
		shared[i].Password = ""
	}

	return append(own, shared...), nil
}

// advanceDueDate steps an overdue due date forward period by period until it
// reaches today. It stops on no progress (unknown periodicity) or at the
// iteration cap, leaving the original overdue date in place in that case.
func (s *Service) advanceDueDate(dueDate time.Time, p Periodicity, today time.Time) (time.Time, bool) {
	changed := false
	for steps := 0; dueDate.Before(today); steps++ {
		if steps >= s.sweepMaxSteps {
			break
		}
		next := NextDueDate(dueDate, p)
		if next.Equal(dueDate) {
			break
		}
		dueDate = next
		changed = true
	}
	return dueDate, changed
}

// Remove hard-deletes an obligation. Only the owner may remove, and only
// once the record is closed.
func (s *Service) Remove(ctx context.Context, requesterID, id string) error {
	return s.repo.Transaction(ctx, func(tx Repository) error {
		record, err := tx.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if record.OwnerID != requesterID {
			return ErrNotOwner
		}
		if record.Status != StatusClosed {
			return ErrNotRemovable
		}
		if err := tx.DeleteSharesByObligation(ctx, id); err != nil {
			return err
		}
		deleted, err := tx.Delete(ctx, id)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrNotFound
		}
		return nil
	})
}

func (s *Service) ToggleFavorite(ctx context.Context, ownerID, id string) (*Obligation, error) {
	var updated Obligation
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		record, err := tx.GetByOwner(ctx, ownerID, id)
		if err != nil {
			return err
		}
		record.Favorite = !record.Favorite
		if err := tx.Update(ctx, record); err != nil {
			return err
		}
		updated = *record
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Share grants read-only visibility of an owned obligation to the registered
// user behind email. Re-sharing the same pair replaces the prior grant.
func (s *Service) Share(ctx context.Context, ownerID, id, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ErrUserNotFound
	}

	targetID, err := s.directory.FindUserIDByEmail(ctx, email)
	if err != nil {
		return err
	}
	if targetID == "" {
		return ErrUserNotFound
	}
	if targetID == ownerID {
		return ErrSelfShare
	}

	return s.repo.Transaction(ctx, func(tx Repository) error {
		record, err := tx.GetByOwner(ctx, ownerID, id)
		if err != nil {
			return err
		}
		if err := tx.ReplaceShare(ctx, &Share{
			ObligationID: record.ID,
			TargetID:     targetID,
			OwnerID:      ownerID,
		}); err != nil {
			return err
		}
		record.SharedWith = email
		return tx.Update(ctx, record)
	})
}

// Unshare removes a grant. A missing grant is not an error.
func (s *Service) Unshare(ctx context.Context, ownerID, id, targetID string) error {
	return s.repo.Transaction(ctx, func(tx Repository) error {
		record, err := tx.GetByOwner(ctx, ownerID, id)
		if err != nil {
			return err
		}
		if _, err := tx.DeleteShare(ctx, id, targetID); err != nil {
			return err
		}
		record.SharedWith = ""
		return tx.Update(ctx, record)
	})
}
