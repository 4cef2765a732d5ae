package gorm

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rankwatch/rankwatch/pkg/server/store"
)

func TestTargetsStoreUpsert(t *testing.T) {
	db, mock := newMockDB(t)
	targets := NewTargetsStore(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "targets" .* ON CONFLICT \("slug"\) DO UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))
	mock.ExpectCommit()

	target := &store.Target{
		Slug:    "paper",
		Name:    "The Book",
		URL:     "https://www.amazon.co.jp/dp/4000000000",
		Kind:    "book",
		Columns: 3,
		Enabled: true,
	}
	require.NoError(t, targets.UpsertTarget(target))
	assert.Equal(t, int64(3), target.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTargetsStoreList(t *testing.T) {
	db, mock := newMockDB(t)
	targets := NewTargetsStore(db)

	mock.ExpectQuery(`SELECT \* FROM "targets"`).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "slug", "name", "url", "kind", "columns", "position", "enabled"},
		).
			AddRow(int64(1), "paper", "The Book", "https://example.com/1", "book", 3, 0, true).
			AddRow(int64(2), "kindle", "The Book (Kindle)", "https://example.com/2", "kindle", 3, 1, false))

	list, err := targets.ListTargets()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "paper", list[0].Slug)
	assert.False(t, list[1].Enabled)
}

func TestTargetsStoreGetTargetNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	targets := NewTargetsStore(db)

	mock.ExpectQuery(`SELECT \* FROM "targets"`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := targets.GetTarget("missing")
	assert.ErrorIs(t, err, store.ErrTargetNotFound)
}

func TestTargetsStoreSetEnabledNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	targets := NewTargetsStore(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "targets"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := targets.SetEnabled("missing", false)
	assert.ErrorIs(t, err, store.ErrTargetNotFound)
}
