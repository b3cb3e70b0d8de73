package store

import (
	"context"
	"errors"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileCredentialStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewFileCredentialStore(filepath.Join(t.TempDir(), CredentialSlotName))

	token, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, token, "missing file means no session")

	require.NoError(t, s.Save(ctx, "abc.def.ghi"))
	token, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	require.NoError(t, s.Clear(ctx))
	token, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)

	// clearing an empty slot is fine
	assert.NoError(t, s.Clear(ctx))
}

func TestMemoryCredentialStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryCredentialStore("seed")

	token, _ := s.Load(ctx)
	assert.Equal(t, "seed", token)

	require.NoError(t, s.Clear(ctx))
	token, _ = s.Load(ctx)
	assert.Empty(t, token)
}

func TestPostgresCredentialStore_Load(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := NewPostgresCredentialStore(db)
	query := regexp.QuoteMeta(`SELECT value FROM credential_slots WHERE name = $1;`)

	mock.ExpectQuery(query).
		WithArgs(CredentialSlotName).
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("tok-1"))
	token, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)

	mock.ExpectQuery(query).
		WithArgs(CredentialSlotName).
		WillReturnRows(sqlmock.NewRows([]string{"value"}))
	token, err = s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, token, "no row means no session")

	mock.ExpectQuery(query).
		WithArgs(CredentialSlotName).
		WillReturnError(errors.New("connection reset"))
	_, err = s.Load(context.Background())
	assert.ErrorContains(t, err, "connection reset")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCredentialStore_SaveAndClear(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := NewPostgresCredentialStore(db)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO credential_slots (name, value)`)).
		WithArgs(CredentialSlotName, "tok-2").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM credential_slots WHERE name = $1;`)).
		WithArgs(CredentialSlotName).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Save(context.Background(), "tok-2"))
	require.NoError(t, s.Clear(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCredentialStore_EnsureSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`CREATE TABLE IF NOT EXISTS credential_slots`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, NewPostgresCredentialStore(db).EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
