package bulkops

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mailpulse/apperr"
	"mailpulse/models"
)

type fakeContactStore struct {
	contacts map[uint]*models.Contact
	nextID   uint
	deleted  []uint
}

func newFakeContactStore(contacts ...*models.Contact) *fakeContactStore {
	f := &fakeContactStore{contacts: map[uint]*models.Contact{}, nextID: 100}
	for _, c := range contacts {
		f.contacts[c.ID] = c
	}
	return f
}

func (f *fakeContactStore) DeleteOwned(ctx context.Context, userID uint, ids []uint) (int64, error) {
	var n int64
	for _, id := range ids {
		c, ok := f.contacts[id]
		if !ok || c.UserID != userID {
			continue
		}
		delete(f.contacts, id)
		f.deleted = append(f.deleted, id)
		n++
	}
	return n, nil
}

func (f *fakeContactStore) FindOwned(ctx context.Context, userID uint, ids []uint) ([]models.Contact, error) {
	var out []models.Contact
	for _, id := range ids {
		if c, ok := f.contacts[id]; ok && c.UserID == userID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeContactStore) ReplaceTags(ctx context.Context, contactID uint, tags []string) error {
	c := f.contacts[contactID]
	c.Tags = nil
	for _, tag := range tags {
		c.Tags = append(c.Tags, models.ContactTag{ContactID: contactID, Tag: tag})
	}
	return nil
}

func (f *fakeContactStore) FindByEmail(ctx context.Context, userID uint, email string) (*models.Contact, error) {
	for _, c := range f.contacts {
		if c.UserID == userID && c.Email == email {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeContactStore) Create(ctx context.Context, contact *models.Contact) error {
	f.nextID++
	contact.ID = f.nextID
	cp := *contact
	f.contacts[contact.ID] = &cp
	return nil
}

func contactWithTags(id, userID uint, email string, tags ...string) *models.Contact {
	c := &models.Contact{UserID: userID, Name: "Contact", Email: email, Status: models.ContactSubscribed}
	c.ID = id
	for _, tag := range tags {
		c.Tags = append(c.Tags, models.ContactTag{ContactID: id, Tag: tag})
	}
	return c
}

func TestBulkDelete(t *testing.T) {
	store := newFakeContactStore(
		contactWithTags(1, 1, "a@example.com"),
		contactWithTags(2, 1, "b@example.com"),
		contactWithTags(3, 2, "c@example.com"),
	)
	svc := NewService(store)

	// id 3 belongs to another user, id 9 does not exist.
	deleted, err := svc.BulkDelete(context.Background(), 1, []uint{1, 2, 3, 9})
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
	assert.ElementsMatch(t, []uint{1, 2}, store.deleted)
}

func TestBulkDeleteEmptyIDs(t *testing.T) {
	svc := NewService(newFakeContactStore())

	_, err := svc.BulkDelete(context.Background(), 1, nil)
	var valErr *apperr.ValidationError
	require.ErrorAs(t, err, &valErr)
}

func TestBulkAddTagsUnions(t *testing.T) {
	store := newFakeContactStore(
		contactWithTags(1, 1, "a@example.com", "vip"),
		contactWithTags(2, 1, "b@example.com", "vip", "beta"),
	)
	svc := NewService(store)

	updated, err := svc.BulkAddTags(context.Background(), 1, []uint{1, 2}, []string{"beta", "q3"})
	require.NoError(t, err)
	assert.Equal(t, 2, updated)

	assert.Equal(t, []string{"vip", "beta", "q3"}, store.contacts[1].TagNames())
	// Already-present tags are not duplicated and order is preserved.
	assert.Equal(t, []string{"vip", "beta", "q3"}, store.contacts[2].TagNames())
}

func TestBulkAddTagsCountsUnchangedContacts(t *testing.T) {
	store := newFakeContactStore(contactWithTags(1, 1, "a@example.com", "vip"))
	svc := NewService(store)

	updated, err := svc.BulkAddTags(context.Background(), 1, []uint{1}, []string{"vip"})
	require.NoError(t, err)
	assert.Equal(t, 1, updated)
	assert.Equal(t, []string{"vip"}, store.contacts[1].TagNames())
}

func TestBulkAddTagsNoMatches(t *testing.T) {
	store := newFakeContactStore(contactWithTags(3, 2, "c@example.com"))
	svc := NewService(store)

	_, err := svc.BulkAddTags(context.Background(), 1, []uint{3}, []string{"vip"})
	assert.True(t, apperr.IsNotFound(err))
}

func TestBulkAddTagsValidation(t *testing.T) {
	svc := NewService(newFakeContactStore())

	_, err := svc.BulkAddTags(context.Background(), 1, nil, []string{"vip"})
	var valErr *apperr.ValidationError
	require.ErrorAs(t, err, &valErr)

	_, err = svc.BulkAddTags(context.Background(), 1, []uint{1}, nil)
	require.ErrorAs(t, err, &valErr)
}

func TestBulkImport(t *testing.T) {
	store := newFakeContactStore(contactWithTags(1, 1, "existing@example.com"))
	svc := NewService(store)

	items := []ImportItem{
		{Name: "Alice", Email: "alice@example.com", Tags: []string{"import"}},
		{Name: "Existing", Email: "existing@example.com"},
		{Name: "Bob", Email: "bob@example.com"},
	}

	report, err := svc.BulkImport(context.Background(), 1, items)
	require.NoError(t, err)
	assert.NotEmpty(t, report.BatchID)

	require.Len(t, report.Imported, 2)
	assert.Equal(t, "alice@example.com", report.Imported[0].Email)
	assert.Equal(t, models.ContactSubscribed, report.Imported[0].Status)
	assert.Equal(t, []string{"import"}, report.Imported[0].TagNames())

	require.Len(t, report.Skipped, 1)
	assert.Equal(t, SkippedItem{Email: "existing@example.com", Reason: "Email already exists"}, report.Skipped[0])
}

func TestBulkImportDuplicateWithinBatch(t *testing.T) {
	store := newFakeContactStore()
	svc := NewService(store)

	items := []ImportItem{
		{Name: "First", Email: "dup@example.com"},
		{Name: "Second", Email: "dup@example.com"},
	}

	report, err := svc.BulkImport(context.Background(), 1, items)
	require.NoError(t, err)

	// First occurrence wins; the repeat is a duplicate of the batch's own write.
	require.Len(t, report.Imported, 1)
	assert.Equal(t, "First", report.Imported[0].Name)
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, "Email already exists", report.Skipped[0].Reason)
}

func TestBulkImportRejectsInvalidItems(t *testing.T) {
	svc := NewService(newFakeContactStore())

	_, err := svc.BulkImport(context.Background(), 1, []ImportItem{
		{Name: "Good", Email: "good@example.com"},
		{Name: "", Email: "bad@example.com"},
	})
	var valErr *apperr.ValidationError
	require.ErrorAs(t, err, &valErr)

	_, err = svc.BulkImport(context.Background(), 1, []ImportItem{
		{Name: "Bad", Email: "not-an-email"},
	})
	require.ErrorAs(t, err, &valErr)

	_, err = svc.BulkImport(context.Background(), 1, nil)
	require.ErrorAs(t, err, &valErr)
}

func TestBulkImportScopedToOwner(t *testing.T) {
	// Another user already owns this email; import for user 1 still succeeds.
	store := newFakeContactStore(contactWithTags(5, 2, "shared@example.com"))
	svc := NewService(store)

	report, err := svc.BulkImport(context.Background(), 1, []ImportItem{
		{Name: "Mine", Email: "shared@example.com"},
	})
	require.NoError(t, err)
	assert.Len(t, report.Imported, 1)
	assert.Empty(t, report.Skipped)
}

func TestUnionTags(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, unionTags([]string{"a", "b"}, []string{"b", "c"}))
	assert.Equal(t, []string{"a"}, unionTags(nil, []string{"a", "a"}))
	assert.Empty(t, unionTags(nil, nil))
	// Case-sensitive: VIP and vip are distinct.
	assert.Equal(t, []string{"vip", "VIP"}, unionTags([]string{"vip"}, []string{"VIP"}))
}
