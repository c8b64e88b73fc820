package obligation

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

const (
	ownerID  = "11111111-1111-1111-1111-111111111111"
	friendID = "22222222-2222-2222-2222-222222222222"
	sisterID = "33333333-3333-3333-3333-333333333333"
)

type fakeRepo struct {
	obligations map[string]*Obligation
	shares      map[string]*Share
	dueUpdates  int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		obligations: make(map[string]*Obligation),
		shares:      make(map[string]*Share),
	}
}

func shareKey(obligationID, targetID string) string {
	return obligationID + "|" + targetID
}

func (r *fakeRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	return fn(r)
}

func (r *fakeRepo) Create(ctx context.Context, o *Obligation) error {
	copied := *o
	r.obligations[o.ID] = &copied
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id string) (*Obligation, error) {
	record, ok := r.obligations[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *record
	return &copied, nil
}

func (r *fakeRepo) GetByOwner(ctx context.Context, ownerID, id string) (*Obligation, error) {
	record, ok := r.obligations[id]
	if !ok || record.OwnerID != ownerID {
		return nil, ErrNotFound
	}
	copied := *record
	return &copied, nil
}

func (r *fakeRepo) ListByOwner(ctx context.Context, ownerID string, kind Kind) ([]Obligation, error) {
	var items []Obligation
	for _, record := range r.obligations {
		if record.OwnerID == ownerID && record.Kind == kind {
			items = append(items, *record)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (r *fakeRepo) ListSharedWith(ctx context.Context, userID string, kind Kind) ([]Obligation, error) {
	var items []Obligation
	for _, share := range r.shares {
		if share.TargetID != userID {
			continue
		}
		record, ok := r.obligations[share.ObligationID]
		if !ok || record.Kind != kind {
			continue
		}
		items = append(items, *record)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (r *fakeRepo) Update(ctx context.Context, o *Obligation) error {
	if _, ok := r.obligations[o.ID]; !ok {
		return ErrNotFound
	}
	copied := *o
	r.obligations[o.ID] = &copied
	return nil
}

func (r *fakeRepo) UpdateDueDate(ctx context.Context, id string, dueDate time.Time) error {
	record, ok := r.obligations[id]
	if !ok {
		return ErrNotFound
	}
	record.DueDate = dueDate
	r.dueUpdates++
	return nil
}

func (r *fakeRepo) Delete(ctx context.Context, id string) (bool, error) {
	if _, ok := r.obligations[id]; !ok {
		return false, nil
	}
	delete(r.obligations, id)
	return true, nil
}

func (r *fakeRepo) CountByName(ctx context.Context, ownerID string, kind Kind, name, excludeID string) (int64, error) {
	var count int64
	for _, record := range r.obligations {
		if record.OwnerID != ownerID || record.Kind != kind {
			continue
		}
		if excludeID != "" && record.ID == excludeID {
			continue
		}
		if strings.EqualFold(record.Name, name) {
			count++
		}
	}
	return count, nil
}

func (r *fakeRepo) ReplaceShare(ctx context.Context, share *Share) error {
	for key, existing := range r.shares {
		if existing.ObligationID == share.ObligationID {
			delete(r.shares, key)
		}
	}
	copied := *share
	r.shares[shareKey(share.ObligationID, share.TargetID)] = &copied
	return nil
}

func (r *fakeRepo) DeleteShare(ctx context.Context, obligationID, targetID string) (bool, error) {
	key := shareKey(obligationID, targetID)
	if _, ok := r.shares[key]; !ok {
		return false, nil
	}
	delete(r.shares, key)
	return true, nil
}

func (r *fakeRepo) DeleteSharesByObligation(ctx context.Context, obligationID string) error {
	for key, share := range r.shares {
		if share.ObligationID == obligationID {
			delete(r.shares, key)
		}
	}
	return nil
}

type fakeDirectory struct {
	users map[string]string
}

func (d *fakeDirectory) FindUserIDByEmail(ctx context.Context, email string) (string, error) {
	return d.users[email], nil
}

func newTestService(repo *fakeRepo, today time.Time) *Service {
	directory := &fakeDirectory{users: map[string]string{
		"owner@mail.com":  ownerID,
		"friend@mail.com": friendID,
		"sister@mail.com": sisterID,
	}}
	svc := NewService(repo, directory)
	svc.now = func() time.Time { return today }
	return svc
}

func subscriptionFields() RawFields {
	return RawFields{
		Name:          "Netflix",
		Amount:        "55.90",
		DueDate:       "15/01/2031",
		Periodicity:   "monthly",
		Category:      "streaming",
		PaymentMethod: "Nubank card",
	}
}

func TestCreateSubscriptionSuccess(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, date(2030, time.December, 1))

	in := subscriptionFields()
	in.Amount = "99,90"
	in.Login = "user@netflix"
	in.Password = "secret"

	created, err := svc.Create(context.Background(), ownerID, KindSubscription, in)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !created.Amount.Equal(decimal.RequireFromString("99.90")) {
		t.Fatalf("expected comma amount coerced to 99.90, got %s", created.Amount)
	}
	if !created.DueDate.Equal(date(2031, time.January, 15)) {
		t.Fatalf("expected parsed due date, got %s", created.DueDate)
	}
	if created.Status != StatusActive || created.Favorite {
		t.Fatalf("expected new record active and not favorite, got %+v", created)
	}
	if repo.obligations[created.ID] == nil {
		t.Fatalf("obligation not stored")
	}
}

func TestCreateValidationOrder(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, date(2030, time.December, 1))

	in := subscriptionFields()
	in.Name = ""
	in.DueDate = "not-a-date"

	_, err := svc.Create(context.Background(), ownerID, KindSubscription, in)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if verr.Kind != ErrKindRequiredFields {
		t.Fatalf("expected required-fields failure to win, got %s", verr.Kind)
	}
}

func TestCreateAmountFailures(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, date(2030, time.December, 1))

	in := subscriptionFields()
	in.Amount = "ten"
	_, err := svc.Create(context.Background(), ownerID, KindSubscription, in)
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Kind != ErrKindInvalidAmountFormat {
		t.Fatalf("expected invalid_amount_format, got %v", err)
	}

	in.Amount = "-5,00"
	_, err = svc.Create(context.Background(), ownerID, KindSubscription, in)
	if !errors.As(err, &verr) || verr.Kind != ErrKindNegativeAmount {
		t.Fatalf("expected negative_amount, got %v", err)
	}
}

func TestCreateDateFailures(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, date(2030, time.December, 1))

	in := subscriptionFields()
	in.DueDate = "2031-01-15"
	_, err := svc.Create(context.Background(), ownerID, KindSubscription, in)
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Kind != ErrKindInvalidDateFormat {
		t.Fatalf("expected invalid_date_format, got %v", err)
	}

	in.DueDate = "15/01/2020"
	_, err = svc.Create(context.Background(), ownerID, KindSubscription, in)
	if !errors.As(err, &verr) || verr.Kind != ErrKindDateInPast {
		t.Fatalf("expected date_in_past, got %v", err)
	}
}

func TestCreateDuplicateNameIsPerOwner(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, date(2030, time.December, 1))

	if _, err := svc.Create(context.Background(), ownerID, KindSubscription, subscriptionFields()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// Another user may use the same name.
	if _, err := svc.Create(context.Background(), friendID, KindSubscription, subscriptionFields()); err != nil {
		t.Fatalf("expected duplicate check scoped to owner, got %v", err)
	}

	// The same owner may not, even with different casing.
	in := subscriptionFields()
	in.Name = "NETFLIX"
	_, err := svc.Create(context.Background(), ownerID, KindSubscription, in)
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Kind != ErrKindDuplicateName {
		t.Fatalf("expected duplicate_name, got %v", err)
	}
}

func TestCreateSelfShareRejected(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, date(2030, time.December, 1))

	in := subscriptionFields()
	in.SharedWith = "owner@mail.com"
	_, err := svc.Create(context.Background(), ownerID, KindSubscription, in)
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Kind != ErrKindSelfShare {
		t.Fatalf("expected self_share, got %v", err)
	}
	if len(repo.shares) != 0 {
		t.Fatalf("expected no grant created")
	}
}

func TestCreateSharedWithRegisteredUserCreatesGrant(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, date(2030, time.December, 1))

	in := subscriptionFields()
	in.SharedWith = "friend@mail.com"
	created, err := svc.Create(context.Background(), ownerID, KindSubscription, in)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, ok := repo.shares[shareKey(created.ID, friendID)]; !ok {
		t.Fatalf("expected grant for (obligation, friend) pair")
	}
}

func TestCreateSharedWithUnregisteredEmailKeepsTextWithoutGrant(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, date(2030, time.December, 1))

	in := subscriptionFields()
	in.SharedWith = "stranger@mail.com"
	created, err := svc.Create(context.Background(), ownerID, KindSubscription, in)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if created.SharedWith != "stranger@mail.com" {
		t.Fatalf("expected shared-with text preserved, got %q", created.SharedWith)
	}
	if len(repo.shares) != 0 {
		t.Fatalf("expected no grant for unregistered email")
	}
}

func storeObligation(repo *fakeRepo, id, owner string, kind Kind, name string, due time.Time, p Periodicity, status Status) *Obligation {
	record := &Obligation{
		ID:          id,
		OwnerID:     owner,
		Kind:        kind,
		Name:        name,
		Amount:      decimal.RequireFromString("99.90"),
		DueDate:     due,
		Periodicity: p,
		Category:    "other",
		Status:      status,
	}
	repo.obligations[id] = record
	return record
}

func TestListSweepAdvancesOverdueAcrossPeriods(t *testing.T) {
	repo := newFakeRepo()
	storeObligation(repo, "obl-1", ownerID, KindSubscription, "Gym", date(2024, time.January, 15), PeriodicityMonthly, StatusActive)

	svc := newTestService(repo, date(2024, time.March, 20))
	items, err := svc.ListForUser(context.Background(), ownerID, KindSubscription)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if !items[0].DueDate.Equal(date(2024, time.April, 15)) {
		t.Fatalf("expected due date advanced to 15/04/2024, got %s", items[0].DueDate.Format(DueDateLayout))
	}
	if repo.dueUpdates != 1 {
		t.Fatalf("expected one persisted due-date update, got %d", repo.dueUpdates)
	}

	// Idempotent: a second sweep with the same today changes nothing.
	if _, err := svc.ListForUser(context.Background(), ownerID, KindSubscription); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if repo.dueUpdates != 1 {
		t.Fatalf("expected no further update, got %d", repo.dueUpdates)
	}
}

func TestListSweepLeavesClosedRecordsAlone(t *testing.T) {
	repo := newFakeRepo()
	storeObligation(repo, "obl-1", ownerID, KindContract, "Rent", date(2024, time.January, 10), PeriodicityMonthly, StatusClosed)

	svc := newTestService(repo, date(2024, time.March, 20))
	items, err := svc.ListForUser(context.Background(), ownerID, KindContract)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !items[0].DueDate.Equal(date(2024, time.January, 10)) {
		t.Fatalf("expected closed record untouched, got %s", items[0].DueDate.Format(DueDateLayout))
	}
}

func TestListSweepStopsOnUnknownPeriodicity(t *testing.T) {
	repo := newFakeRepo()
	storeObligation(repo, "obl-1", ownerID, KindSubscription, "Legacy", date(2024, time.January, 10), Periodicity("fortnightly"), StatusActive)

	svc := newTestService(repo, date(2024, time.March, 20))
	items, err := svc.ListForUser(context.Background(), ownerID, KindSubscription)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !items[0].DueDate.Equal(date(2024, time.January, 10)) {
		t.Fatalf("expected overdue date left in place, got %s", items[0].DueDate.Format(DueDateLayout))
	}
	if repo.dueUpdates != 0 {
		t.Fatalf("expected no persisted update, got %d", repo.dueUpdates)
	}
}

func TestListSweepStopsAtStepCap(t *testing.T) {
	repo := newFakeRepo()
	storeObligation(repo, "obl-1", ownerID, KindSubscription, "Old", date(2020, time.January, 15), PeriodicityMonthly, StatusActive)

	directory := &fakeDirectory{users: map[string]string{}}
	svc := NewServiceWithSweepLimit(repo, directory, 2)
	svc.now = func() time.Time { return date(2024, time.March, 20) }

	items, err := svc.ListForUser(context.Background(), ownerID, KindSubscription)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !items[0].DueDate.Equal(date(2020, time.March, 15)) {
		t.Fatalf("expected two steps then stop, got %s", items[0].DueDate.Format(DueDateLayout))
	}
	if repo.dueUpdates != 1 {
		t.Fatalf("expected partial advance persisted once, got %d updates", repo.dueUpdates)
	}
}

func TestListSharedRecordsReadOnlyAndStripsCredentials(t *testing.T) {
	repo := newFakeRepo()
	record := storeObligation(repo, "obl-1", ownerID, KindSubscription, "Netflix", date(2031, time.January, 15), PeriodicityMonthly, StatusActive)
	record.Login = "owner-login"
	record.Password = "owner-password"
	repo.shares[shareKey("obl-1", friendID)] = &Share{ObligationID: "obl-1", TargetID: friendID, OwnerID: ownerID}

	svc := newTestService(repo, date(2030, time.December, 1))
	items, err := svc.ListForUser(context.Background(), friendID, KindSubscription)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 shared item, got %d", len(items))
	}
	if !items[0].ReadOnly {
		t.Fatalf("expected shared record tagged read-only")
	}
	if items[0].Login != "" || items[0].Password != "" {
		t.Fatalf("expected credentials stripped from shared view")
	}
}

func TestRemoveGating(t *testing.T) {
	repo := newFakeRepo()
	storeObligation(repo, "obl-active", ownerID, KindSubscription, "Active", date(2031, time.January, 15), PeriodicityMonthly, StatusActive)
	storeObligation(repo, "obl-closed", ownerID, KindSubscription, "Closed", date(2031, time.January, 15), PeriodicityMonthly, StatusClosed)
	repo.shares[shareKey("obl-closed", friendID)] = &Share{ObligationID: "obl-closed", TargetID: friendID, OwnerID: ownerID}

	svc := newTestService(repo, date(2030, time.December, 1))

	if err := svc.Remove(context.Background(), ownerID, "obl-active"); !errors.Is(err, ErrNotRemovable) {
		t.Fatalf("expected ErrNotRemovable for active record, got %v", err)
	}
	if err := svc.Remove(context.Background(), friendID, "obl-closed"); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner for foreign record, got %v", err)
	}
	if err := svc.Remove(context.Background(), ownerID, "obl-closed"); err != nil {
		t.Fatalf("expected closed record removable, got %v", err)
	}
	if _, ok := repo.obligations["obl-closed"]; ok {
		t.Fatalf("expected record deleted")
	}
	if len(repo.shares) != 0 {
		t.Fatalf("expected grants deleted with the record")
	}
}

func TestShareFlow(t *testing.T) {
	repo := newFakeRepo()
	storeObligation(repo, "obl-1", ownerID, KindSubscription, "Netflix", date(2031, time.January, 15), PeriodicityMonthly, StatusActive)
	svc := newTestService(repo, date(2030, time.December, 1))
	ctx := context.Background()

	if err := svc.Share(ctx, ownerID, "obl-1", "friend@mail.com"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, ok := repo.shares[shareKey("obl-1", friendID)]; !ok {
		t.Fatalf("expected grant created")
	}
	if repo.obligations["obl-1"].SharedWith != "friend@mail.com" {
		t.Fatalf("expected shared-with recorded on the row")
	}

	// Re-sharing the same pair replaces the grant, not duplicates it.
	if err := svc.Share(ctx, ownerID, "obl-1", "friend@mail.com"); err != nil {
		t.Fatalf("expected re-share to succeed, got %v", err)
	}
	if len(repo.shares) != 1 {
		t.Fatalf("expected a single grant per pair, got %d", len(repo.shares))
	}

	// Sharing with a different user replaces the previous grant entirely.
	if err := svc.Share(ctx, ownerID, "obl-1", "sister@mail.com"); err != nil {
		t.Fatalf("expected re-share to new target to succeed, got %v", err)
	}
	if len(repo.shares) != 1 {
		t.Fatalf("expected old grant replaced, got %d grants", len(repo.shares))
	}
	if _, ok := repo.shares[shareKey("obl-1", sisterID)]; !ok {
		t.Fatalf("expected grant moved to the new target")
	}

	if err := svc.Share(ctx, ownerID, "obl-1", "stranger@mail.com"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if err := svc.Share(ctx, ownerID, "obl-1", "owner@mail.com"); !errors.Is(err, ErrSelfShare) {
		t.Fatalf("expected ErrSelfShare, got %v", err)
	}
	if err := svc.Share(ctx, friendID, "obl-1", "owner@mail.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected foreign share blocked, got %v", err)
	}
}

func TestUnshareMissingGrantIsNotAnError(t *testing.T) {
	repo := newFakeRepo()
	storeObligation(repo, "obl-1", ownerID, KindSubscription, "Netflix", date(2031, time.January, 15), PeriodicityMonthly, StatusActive)
	svc := newTestService(repo, date(2030, time.December, 1))

	if err := svc.Unshare(context.Background(), ownerID, "obl-1", friendID); err != nil {
		t.Fatalf("expected no error for missing grant, got %v", err)
	}
}

func TestToggleFavorite(t *testing.T) {
	repo := newFakeRepo()
	storeObligation(repo, "obl-1", ownerID, KindSubscription, "Netflix", date(2031, time.January, 15), PeriodicityMonthly, StatusActive)
	svc := newTestService(repo, date(2030, time.December, 1))
	ctx := context.Background()

	updated, err := svc.ToggleFavorite(ctx, ownerID, "obl-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !updated.Favorite {
		t.Fatalf("expected favorite set")
	}

	updated, err = svc.ToggleFavorite(ctx, ownerID, "obl-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if updated.Favorite {
		t.Fatalf("expected favorite cleared")
	}

	if _, err := svc.ToggleFavorite(ctx, friendID, "obl-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected foreign toggle blocked, got %v", err)
	}
}

func TestEditClosesButNeverReopens(t *testing.T) {
	repo := newFakeRepo()
	storeObligation(repo, "obl-1", ownerID, KindContract, "Rent", date(2031, time.January, 15), PeriodicityMonthly, StatusActive)
	svc := newTestService(repo, date(2030, time.December, 1))
	ctx := context.Background()

	in := RawFields{
		Name:        "Rent",
		Amount:      "1200.00",
		DueDate:     "15/01/2031",
		Periodicity: "monthly",
		Category:    "rent",
		Status:      "closed",
	}
	updated, err := svc.Edit(ctx, ownerID, "obl-1", in)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if updated.Status != StatusClosed {
		t.Fatalf("expected status closed, got %s", updated.Status)
	}

	in.Status = "active"
	if _, err := svc.Edit(ctx, ownerID, "obl-1", in); !errors.Is(err, ErrCannotReopen) {
		t.Fatalf("expected ErrCannotReopen, got %v", err)
	}
}

func TestEditToUnresolvedEmailDropsOldGrant(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, date(2030, time.December, 1))
	ctx := context.Background()

	in := subscriptionFields()
	in.SharedWith = "friend@mail.com"
	created, err := svc.Create(ctx, ownerID, KindSubscription, in)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, ok := repo.shares[shareKey(created.ID, friendID)]; !ok {
		t.Fatalf("expected grant for friend")
	}

	in.SharedWith = "stranger@mail.com"
	updated, err := svc.Edit(ctx, ownerID, created.ID, in)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if updated.SharedWith != "stranger@mail.com" {
		t.Fatalf("expected shared-with text replaced, got %q", updated.SharedWith)
	}
	if len(repo.shares) != 0 {
		t.Fatalf("expected friend's grant dropped with the target change, got %d grants", len(repo.shares))
	}

	in.SharedWith = "sister@mail.com"
	if _, err := svc.Edit(ctx, ownerID, created.ID, in); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, ok := repo.shares[shareKey(created.ID, sisterID)]; !ok || len(repo.shares) != 1 {
		t.Fatalf("expected a single grant for the new target, got %d", len(repo.shares))
	}

	in.SharedWith = ""
	if _, err := svc.Edit(ctx, ownerID, created.ID, in); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(repo.shares) != 0 {
		t.Fatalf("expected grants cleared when sharing removed, got %d", len(repo.shares))
	}
}

func TestEditExcludesItselfFromUniqueness(t *testing.T) {
	repo := newFakeRepo()
	storeObligation(repo, "obl-1", ownerID, KindSubscription, "Netflix", date(2031, time.January, 15), PeriodicityMonthly, StatusActive)
	svc := newTestService(repo, date(2030, time.December, 1))

	in := subscriptionFields()
	in.Amount = "65,00"
	updated, err := svc.Edit(context.Background(), ownerID, "obl-1", in)
	if err != nil {
		t.Fatalf("expected rename-to-self allowed, got %v", err)
	}
	if !updated.Amount.Equal(decimal.RequireFromString("65")) {
		t.Fatalf("expected amount replaced, got %s", updated.Amount)
	}
}
