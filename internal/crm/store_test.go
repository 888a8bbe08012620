package crm

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppend(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(`INSERT INTO crm_sync_records`).
		WithArgs(pgxmock.AnyArg(), "john@example.com", "crm-42", StatusSuccess, nil).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	store := newSyncStoreWithExec(mock)
	err = store.Append(context.Background(), SyncRecord{
		LeadEmail:  "john@example.com",
		ExternalID: "crm-42",
		Status:     StatusSuccess,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppend_FailedAttemptStoresError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(`INSERT INTO crm_sync_records`).
		WithArgs(pgxmock.AnyArg(), "john@example.com", nil, StatusFailed, "crm: status 500: boom").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	store := newSyncStoreWithExec(mock)
	err = store.Append(context.Background(), SyncRecord{
		LeadEmail:    "john@example.com",
		Status:       StatusFailed,
		ErrorMessage: "crm: status 500: boom",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
