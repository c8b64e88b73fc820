package obligation

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// validate applies the form rules in a fixed order and stops at the first
// failure: required fields, amount format, amount sign, date format, date in
// the past, duplicate name, self-share. excludeID is the record being edited,
// empty on create.
func (s *Service) validate(ctx context.Context, repo Repository, ownerID string, kind Kind, in RawFields, excludeID string) (validatedFields, error) {
	var out validatedFields

	if err := checkRequired(kind, in); err != nil {
		return out, err
	}

	amount, err := parseAmount(in.Amount)
	if err != nil {
		return out, err
	}

	dueDate, err := parseDueDate(in.DueDate)
	if err != nil {
		return out, err
	}
	if dueDate.Before(dateOnly(s.now())) {
		return out, newValidationError(ErrKindDateInPast, "due date must not be in the past")
	}

	name := strings.TrimSpace(in.Name)
	count, countErr := repo.CountByName(ctx, ownerID, kind, name, excludeID)
	if countErr != nil {
		return out, countErr
	}
	if count > 0 {
		return out, newValidationError(ErrKindDuplicateName, "an obligation with that name already exists")
	}

	sharedWith := strings.TrimSpace(in.SharedWith)
	targetID := ""
	if sharedWith != "" {
		targetID, err = s.directory.FindUserIDByEmail(ctx, sharedWith)
		if err != nil {
			return out, err
		}
		if targetID == ownerID {
			return out, newValidationError(ErrKindSelfShare, "an obligation cannot be shared with its owner")
		}
	}

	periodicity, _ := ParsePeriodicity(in.Periodicity)
	status := StatusActive
	if in.Status != "" {
		status, _ = ParseStatus(in.Status)
	}

	out = validatedFields{
		Name:          name,
		Amount:        amount,
		DueDate:       dueDate,
		Periodicity:   periodicity,
		Category:      in.Category,
		PaymentMethod: strings.TrimSpace(in.PaymentMethod),
		SharedWith:    sharedWith,
		TargetID:      targetID,
		Status:        status,
	}
	return out, nil
}

func checkRequired(kind Kind, in RawFields) error {
	missing := func(field string) error {
		return newValidationError(ErrKindRequiredFields, field+" is required")
	}

	if strings.TrimSpace(in.Name) == "" {
		return missing("name")
	}
	if strings.TrimSpace(in.Amount) == "" {
		return missing("amount")
	}
	if strings.TrimSpace(in.DueDate) == "" {
		return missing("due date")
	}
	if _, ok := ParsePeriodicity(in.Periodicity); !ok {
		return missing("a valid periodicity")
	}
	if !validCategory(kind, in.Category) {
		return missing("a valid category")
	}
	if kind == KindSubscription && strings.TrimSpace(in.PaymentMethod) == "" {
		return missing("payment method")
	}
	if in.Status != "" {
		if _, ok := ParseStatus(in.Status); !ok {
			return missing("a valid status")
		}
	}
	return nil
}

// parseAmount accepts either a comma or a dot as the decimal separator.
func parseAmount(raw string) (decimal.Decimal, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	amount, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, newValidationError(ErrKindInvalidAmountFormat, "amount must be a decimal number")
	}
	if amount.IsNegative() {
		return decimal.Zero, newValidationError(ErrKindNegativeAmount, "amount must not be negative")
	}
	return amount, nil
}

func parseDueDate(raw string) (time.Time, error) {
	parsed, err := time.Parse(DueDateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, newValidationError(ErrKindInvalidDateFormat, "due date must be in dd/mm/yyyy format")
	}
	return parsed.UTC(), nil
}

func dateOnly(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
