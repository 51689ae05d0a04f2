package storage

import (
	"context"
	"testing"
	"time"

	"github.com/Veraticus/vledger/internal/model"
	"github.com/Veraticus/vledger/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMovements_SaveListDelete(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)
	company := createTestCompany(t, store, "ACME")
	processed := time.Date(2024, 4, 1, 9, 30, 0, 0, time.UTC)

	batch := func(id string, dates ...time.Time) []model.Movement {
		var out []model.Movement
		for _, d := range dates {
			out = append(out, model.Movement{
				CompanyID:        company.ID,
				BatchID:          id,
				Description:      "PAGAMENTO UNIMED",
				DebitAccount:     "295",
				CreditAccount:    "537",
				MatchedReference: "Unimed",
				Amount:           1234.56,
				MovementDate:     d,
				ProcessedAt:      processed,
			})
		}
		return out
	}

	require.NoError(t, store.SaveMovements(ctx, batch("a", day(2024, 3, 5), day(2024, 3, 1))))
	require.NoError(t, store.SaveMovements(ctx, batch("b", day(2024, 3, 20))))

	all, err := store.ListMovements(ctx, company.ID, service.MovementFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, day(2024, 3, 1), all[0].MovementDate.UTC())
	assert.Equal(t, day(2024, 3, 20), all[2].MovementDate.UTC())
	assert.Equal(t, "295", all[0].DebitAccount)
	assert.Equal(t, "Unimed", all[0].MatchedReference)
	assert.InDelta(t, 1234.56, all[0].Amount, 1e-9)
	assert.True(t, processed.Equal(all[0].ProcessedAt))

	start, end := day(2024, 3, 2), day(2024, 3, 31)
	ranged, err := store.ListMovements(ctx, company.ID, service.MovementFilter{StartDate: &start, EndDate: &end})
	require.NoError(t, err)
	assert.Len(t, ranged, 2)

	byBatch, err := store.ListMovements(ctx, company.ID, service.MovementFilter{BatchID: "b"})
	require.NoError(t, err)
	assert.Len(t, byBatch, 1)

	limited, err := store.ListMovements(ctx, company.ID, service.MovementFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	deleted, err := store.DeleteMovementBatch(ctx, company.ID, "a")
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	all, err = store.ListMovements(ctx, company.ID, service.MovementFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestListMovements_InvalidRange(t *testing.T) {
	store := createTestStorage(t)
	start, end := day(2024, 3, 2), day(2024, 3, 1)

	_, err := store.ListMovements(context.Background(), 1, service.MovementFilter{StartDate: &start, EndDate: &end})
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestSaveMovements_Validation(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	assert.ErrorIs(t, store.SaveMovements(ctx, nil), ErrNilParameter)
	assert.ErrorIs(t, store.SaveMovements(ctx, []model.Movement{}), ErrEmptySlice)
	assert.ErrorIs(t, store.SaveMovements(ctx, []model.Movement{{CompanyID: 1}}), ErrInvalidMovement)
}
