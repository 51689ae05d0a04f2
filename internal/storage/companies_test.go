package storage

import (
	"context"
	"testing"

	"github.com/Veraticus/vledger/internal/common"
	"github.com/Veraticus/vledger/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompanies_CRUD(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	zeta := createTestCompany(t, store, "Zeta Ltda")
	alpha := createTestCompany(t, store, "  alpha ME ")
	assert.Positive(t, zeta.ID)
	assert.Equal(t, "alpha ME", alpha.Name)
	assert.False(t, alpha.CreatedAt.IsZero())

	companies, err := store.ListCompanies(ctx)
	require.NoError(t, err)
	require.Len(t, companies, 2)
	assert.Equal(t, "alpha ME", companies[0].Name)
	assert.Equal(t, "Zeta Ltda", companies[1].Name)

	got, err := store.GetCompanyByName(ctx, "Zeta Ltda")
	require.NoError(t, err)
	assert.Equal(t, zeta.ID, got.ID)
	assert.Equal(t, "12.345.678/0001-90", got.CNPJ)

	zeta.Responsible = "João"
	require.NoError(t, store.UpdateCompany(ctx, zeta))
	got, err = store.GetCompany(ctx, zeta.ID)
	require.NoError(t, err)
	assert.Equal(t, "João", got.Responsible)

	require.NoError(t, store.DeleteCompany(ctx, zeta.ID))
	_, err = store.GetCompany(ctx, zeta.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.ErrorIs(t, store.DeleteCompany(ctx, zeta.ID), common.ErrNotFound)
}

func TestCompanies_Validation(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	assert.ErrorIs(t, store.CreateCompany(ctx, nil), ErrNilParameter)
	assert.ErrorIs(t, store.CreateCompany(ctx, &model.Company{Name: " "}), ErrInvalidCompany)

	createTestCompany(t, store, "ACME")
	err := store.CreateCompany(ctx, &model.Company{Name: "ACME"})
	assert.ErrorIs(t, err, common.ErrDuplicateEntry)
}

func TestDeleteCompany_Cascades(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)
	company := createTestCompany(t, store, "ACME")

	ref := &model.Reference{CompanyID: company.ID, Name: "Unimed", DebitAccount: "295", CreditAccount: "537"}
	require.NoError(t, store.CreateReference(ctx, ref))

	require.NoError(t, store.DeleteCompany(ctx, company.ID))

	_, err := store.GetReference(ctx, ref.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}
