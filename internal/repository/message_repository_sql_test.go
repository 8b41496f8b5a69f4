package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var msgRowCols = []string{"id", "sender_id", "receiver_id", "content", "created_at"}

func newMessageRepoMock(t *testing.T) (*MessageRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewMessageRepo(db), mock
}

func TestHistoryCapsAtLimitAscending(t *testing.T) {
	repo, mock := newMessageRepoMock(t)

	// 60 messages exist between the pair; the query serves the newest 50,
	// descending, and History must hand them back ascending.
	rows := sqlmock.NewRows(msgRowCols)
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for id := 60; id > 10; id-- {
		rows.AddRow(int64(id), int64(1), int64(2), "m", base.Add(time.Duration(id)*time.Minute))
	}
	mock.ExpectQuery("LEFT JOIN message_deletions").
		WithArgs(int64(1), int64(1), int64(2), int64(2), int64(1), int64(DefaultHistoryLimit)).
		WillReturnRows(rows)

	got, err := repo.History(context.Background(), 1, 2, DefaultHistoryLimit)
	require.NoError(t, err)
	require.Len(t, got, DefaultHistoryLimit)
	assert.Equal(t, uint64(11), got[0].ID, "oldest of the capped window first")
	assert.Equal(t, uint64(60), got[len(got)-1].ID, "newest message last")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHistoryZeroLimitFallsBackToDefault(t *testing.T) {
	repo, mock := newMessageRepoMock(t)

	mock.ExpectQuery("LEFT JOIN message_deletions").
		WithArgs(int64(1), int64(1), int64(2), int64(2), int64(1), int64(DefaultHistoryLimit)).
		WillReturnRows(sqlmock.NewRows(msgRowCols))

	_, err := repo.History(context.Background(), 1, 2, 0)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHistoryIsScopedToTheRequestingViewer(t *testing.T) {
	repo, mock := newMessageRepoMock(t)
	now := time.Now().UTC()

	// Viewer 1 has soft-deleted the conversation: the suppression join is
	// keyed to their id and filters every row.
	mock.ExpectQuery("LEFT JOIN message_deletions").
		WithArgs(int64(1), int64(1), int64(2), int64(2), int64(1), int64(DefaultHistoryLimit)).
		WillReturnRows(sqlmock.NewRows(msgRowCols))

	// Viewer 2's join carries their own id, so the same pair still yields
	// the full history.
	mock.ExpectQuery("LEFT JOIN message_deletions").
		WithArgs(int64(2), int64(2), int64(1), int64(1), int64(2), int64(DefaultHistoryLimit)).
		WillReturnRows(sqlmock.NewRows(msgRowCols).
			AddRow(int64(2), int64(2), int64(1), "reply", now).
			AddRow(int64(1), int64(1), int64(2), "hello", now.Add(-time.Minute)))

	mine, err := repo.History(context.Background(), 1, 2, DefaultHistoryLimit)
	require.NoError(t, err)
	assert.Empty(t, mine)

	theirs, err := repo.History(context.Background(), 2, 1, DefaultHistoryLimit)
	require.NoError(t, err)
	assert.Len(t, theirs, 2)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSoftDeleteConversationIsIdempotent(t *testing.T) {
	repo, mock := newMessageRepoMock(t)

	// First call suppresses every message of the pair; the second finds
	// the rows already present and INSERT IGNORE affects nothing. Both
	// succeed.
	mock.ExpectExec("INSERT IGNORE INTO message_deletions").
		WithArgs(int64(1), int64(1), int64(2), int64(2), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec("INSERT IGNORE INTO message_deletions").
		WithArgs(int64(1), int64(1), int64(2), int64(2), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.SoftDeleteConversation(context.Background(), 1, 2))
	require.NoError(t, repo.SoftDeleteConversation(context.Background(), 1, 2))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConversationsJoinsCounterpartFields(t *testing.T) {
	repo, mock := newMessageRepoMock(t)
	now := time.Now().UTC()

	mock.ExpectQuery("LEFT JOIN message_deletions").
		WithArgs(int64(1), int64(1), int64(1)).
		WillReturnRows(sqlmock.NewRows(msgRowCols).
			AddRow(int64(9), int64(1), int64(3), "latest with 3", now).
			AddRow(int64(8), int64(2), int64(1), "latest with 2", now.Add(-time.Minute)).
			AddRow(int64(7), int64(3), int64(1), "older with 3", now.Add(-2*time.Minute)))

	mock.ExpectQuery("SELECT name,email,role FROM users").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"name", "email", "role"}).
			AddRow("Green Earth", "contact@greenearth.org", RoleNGO))
	mock.ExpectQuery("SELECT name,email,role FROM users").
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"name", "email", "role"}).
			AddRow("Asha", "asha@example.com", RoleVolunteer))

	convs, err := repo.Conversations(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, convs, 2)
	assert.Equal(t, uint64(3), convs[0].CounterpartID)
	assert.Equal(t, uint64(9), convs[0].LastMessage.ID, "the newest message per counterpart wins")
	assert.Equal(t, "Green Earth", convs[0].Name)
	assert.Equal(t, uint64(2), convs[1].CounterpartID)
	assert.Equal(t, RoleVolunteer, convs[1].Role)
	require.NoError(t, mock.ExpectationsWereMet())
}
