package storage

import (
	"context"
	"testing"

	"github.com/Veraticus/vledger/internal/common"
	"github.com/Veraticus/vledger/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addReferences(t *testing.T, store *SQLiteStorage, companyID int, names ...string) {
	t.Helper()
	for _, name := range names {
		ref := &model.Reference{CompanyID: companyID, Name: name, DebitAccount: "1", CreditAccount: "2"}
		require.NoError(t, store.CreateReference(context.Background(), ref))
	}
}

func referenceNames(refs []model.Reference) []string {
	names := make([]string, len(refs))
	for i, ref := range refs {
		names[i] = ref.Name
	}
	return names
}

func TestReferences_CRUD(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)
	company := createTestCompany(t, store, "ACME")

	ref := &model.Reference{CompanyID: company.ID, Name: " Unimed ", DebitAccount: " 295", CreditAccount: "537 "}
	require.NoError(t, store.CreateReference(ctx, ref))
	assert.Positive(t, ref.ID)
	assert.Equal(t, "Unimed", ref.Name)

	got, err := store.GetReference(ctx, ref.ID)
	require.NoError(t, err)
	assert.Equal(t, "Unimed", got.Name)
	assert.Equal(t, "295", got.DebitAccount)
	assert.Equal(t, "537", got.CreditAccount)
	assert.Equal(t, company.ID, got.CompanyID)

	got.DebitAccount = "296"
	require.NoError(t, store.UpdateReference(ctx, got))
	got, err = store.GetReference(ctx, ref.ID)
	require.NoError(t, err)
	assert.Equal(t, "296", got.DebitAccount)

	require.NoError(t, store.DeleteReference(ctx, ref.ID))
	_, err = store.GetReference(ctx, ref.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestReferences_DuplicateRejected(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)
	acme := createTestCompany(t, store, "ACME")
	other := createTestCompany(t, store, "Other")

	addReferences(t, store, acme.ID, "Unimed")

	err := store.CreateReference(ctx, &model.Reference{CompanyID: acme.ID, Name: "Unimed"})
	assert.ErrorIs(t, err, common.ErrDuplicateEntry)

	// The same keyword is fine for another company.
	require.NoError(t, store.CreateReference(ctx, &model.Reference{CompanyID: other.ID, Name: "Unimed"}))
}

func TestReferences_Validation(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)
	company := createTestCompany(t, store, "ACME")

	assert.ErrorIs(t, store.CreateReference(ctx, nil), ErrNilParameter)
	assert.ErrorIs(t, store.CreateReference(ctx, &model.Reference{CompanyID: company.ID, Name: "  "}), ErrInvalidReference)
	assert.ErrorIs(t, store.CreateReference(ctx, &model.Reference{Name: "Amil"}), ErrInvalidReference)
}

func TestListReferences_Order(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)
	company := createTestCompany(t, store, "ACME")
	addReferences(t, store, company.ID, "Unimed", "amil", "Intermedica")

	refs, err := store.ListReferences(ctx, company.ID, model.OrderInsertion)
	require.NoError(t, err)
	assert.Equal(t, []string{"Unimed", "amil", "Intermedica"}, referenceNames(refs))

	refs, err = store.ListReferences(ctx, company.ID, model.OrderAlphabetical)
	require.NoError(t, err)
	assert.Equal(t, []string{"amil", "Intermedica", "Unimed"}, referenceNames(refs))

	refs, err = store.ListReferences(ctx, company.ID+100, model.OrderInsertion)
	require.NoError(t, err)
	assert.Empty(t, refs)
}

func TestImportReferences(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)
	company := createTestCompany(t, store, "ACME")
	addReferences(t, store, company.ID, "Unimed")

	stats, err := store.ImportReferences(ctx, company.ID, []model.Reference{
		{Name: "Intermedica", DebitAccount: "282", CreditAccount: "537"},
		{Name: "Amil", DebitAccount: "310", CreditAccount: "537"},
		{Name: "Unimed", DebitAccount: "999", CreditAccount: "999"},
		{Name: "Amil", DebitAccount: "311", CreditAccount: "537"},
		{Name: "   "},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Inserted)
	assert.Equal(t, 3, stats.Skipped)

	refs, err := store.ListReferences(ctx, company.ID, model.OrderInsertion)
	require.NoError(t, err)
	assert.Equal(t, []string{"Unimed", "Intermedica", "Amil"}, referenceNames(refs))
	// Duplicates are ignored, not merged.
	assert.Equal(t, "1", refs[0].DebitAccount)
	assert.Equal(t, "310", refs[2].DebitAccount)
}
