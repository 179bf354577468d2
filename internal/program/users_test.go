package program

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chybatronik/goUserRegistry/internal/logging"
	"github.com/chybatronik/goUserRegistry/internal/models"
	"github.com/chybatronik/goUserRegistry/pkg/errors"
)

// fakeTx implements the slice of pgx.Tx the user operations touch; the
// embedded interface panics on anything else.
type fakeTx struct {
	pgx.Tx
	execTag    pgconn.CommandTag
	execErr    error
	queryErr   error
	commitErr  error
	committed  bool
	rolledBack bool
}

func (f *fakeTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return f.execTag, f.execErr
}

func (f *fakeTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, f.queryErr
}

func (f *fakeTx) Commit(ctx context.Context) error {
	f.committed = true
	return f.commitErr
}

func (f *fakeTx) Rollback(ctx context.Context) error {
	f.rolledBack = true
	return nil
}

type fakeBeginner struct {
	tx       *fakeTx
	beginErr error
}

func (f *fakeBeginner) Begin(ctx context.Context) (pgx.Tx, error) {
	if f.beginErr != nil {
		return nil, f.beginErr
	}
	return f.tx, nil
}

func testProgram(beginner *fakeBeginner) *Program {
	logger := logging.NewStructuredLogger("error", "goUserRegistry", "test")
	return New(beginner, logger)
}

func testUser() models.User {
	return models.User{
		UserName:  "johndoe",
		FirstName: "John",
		LastName:  "Doe",
	}
}

func TestInsertUserSuccess(t *testing.T) {
	tx := &fakeTx{execTag: pgconn.NewCommandTag("INSERT 0 1")}
	p := testProgram(&fakeBeginner{tx: tx})

	count, err := p.InsertUser(context.Background(), testUser())

	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.True(t, tx.committed)
}

func TestInsertUserErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		tx       *fakeTx
		beginErr error
		wantName string
	}{
		{
			name:     "unique violation becomes already exists",
			tx:       &fakeTx{execErr: &pgconn.PgError{Code: "23505", ConstraintName: "users_pkey"}},
			wantName: errors.NameUserAlreadyExists,
		},
		{
			name:     "zero rows affected becomes not inserted",
			tx:       &fakeTx{execTag: pgconn.NewCommandTag("INSERT 0 0")},
			wantName: errors.NameUserNotInserted,
		},
		{
			name:     "other database error becomes transaction error",
			tx:       &fakeTx{execErr: fmt.Errorf("connection reset")},
			wantName: errors.NameDatabaseTransactionError,
		},
		{
			name:     "begin failure becomes transaction error",
			beginErr: fmt.Errorf("pool exhausted"),
			wantName: errors.NameDatabaseTransactionError,
		},
		{
			name: "commit failure becomes transaction error",
			tx: &fakeTx{
				execTag:   pgconn.NewCommandTag("INSERT 0 1"),
				commitErr: fmt.Errorf("connection reset"),
			},
			wantName: errors.NameDatabaseTransactionError,
		},
		{
			name: "unique violation at commit becomes already exists",
			tx: &fakeTx{
				execTag:   pgconn.NewCommandTag("INSERT 0 1"),
				commitErr: &pgconn.PgError{Code: "23505"},
			},
			wantName: errors.NameUserAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testProgram(&fakeBeginner{tx: tt.tx, beginErr: tt.beginErr})

			count, err := p.InsertUser(context.Background(), testUser())

			assert.Equal(t, int64(0), count)
			require.Error(t, err)
			userErr, ok := errors.GetUserError(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantName, userErr.Name)
		})
	}
}

func TestInsertUserRollsBackOnFailure(t *testing.T) {
	tx := &fakeTx{execErr: fmt.Errorf("connection reset")}
	p := testProgram(&fakeBeginner{tx: tx})

	_, err := p.InsertUser(context.Background(), testUser())

	require.Error(t, err)
	assert.True(t, tx.rolledBack)
	assert.False(t, tx.committed)
}

func TestDeleteUserSuccess(t *testing.T) {
	tx := &fakeTx{execTag: pgconn.NewCommandTag("DELETE 1")}
	p := testProgram(&fakeBeginner{tx: tx})

	err := p.DeleteUserByUsername(context.Background(), "johndoe")

	require.NoError(t, err)
	assert.True(t, tx.committed)
}

func TestDeleteUserErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		tx       *fakeTx
		beginErr error
		wantName string
	}{
		{
			name:     "zero rows affected becomes already deleted",
			tx:       &fakeTx{execTag: pgconn.NewCommandTag("DELETE 0")},
			wantName: errors.NameUserAlreadyDeleted,
		},
		{
			name:     "database error becomes transaction error",
			tx:       &fakeTx{execErr: fmt.Errorf("connection reset")},
			wantName: errors.NameDatabaseTransactionError,
		},
		{
			name:     "begin failure becomes transaction error",
			beginErr: fmt.Errorf("pool exhausted"),
			wantName: errors.NameDatabaseTransactionError,
		},
		{
			name: "commit failure becomes transaction error",
			tx: &fakeTx{
				execTag:   pgconn.NewCommandTag("DELETE 1"),
				commitErr: fmt.Errorf("connection reset"),
			},
			wantName: errors.NameDatabaseTransactionError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testProgram(&fakeBeginner{tx: tt.tx, beginErr: tt.beginErr})

			err := p.DeleteUserByUsername(context.Background(), "johndoe")

			require.Error(t, err)
			userErr, ok := errors.GetUserError(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantName, userErr.Name)
		})
	}
}

func TestDeleteUserAlreadyDeletedSkipsCommit(t *testing.T) {
	tx := &fakeTx{execTag: pgconn.NewCommandTag("DELETE 0")}
	p := testProgram(&fakeBeginner{tx: tx})

	err := p.DeleteUserByUsername(context.Background(), "ghost")

	require.Error(t, err)
	assert.True(t, errors.HasName(err, errors.NameUserAlreadyDeleted))
	assert.False(t, tx.committed)
	assert.True(t, tx.rolledBack)
}

func TestGetAllUsersErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		tx       *fakeTx
		beginErr error
	}{
		{
			name: "query failure becomes transaction error",
			tx:   &fakeTx{queryErr: fmt.Errorf("connection reset")},
		},
		{
			name:     "begin failure becomes transaction error",
			beginErr: fmt.Errorf("pool exhausted"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testProgram(&fakeBeginner{tx: tt.tx, beginErr: tt.beginErr})

			users, err := p.GetAllUsers(context.Background())

			assert.Nil(t, users)
			require.Error(t, err)
			assert.True(t, errors.HasName(err, errors.NameDatabaseTransactionError))
		})
	}
}

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "unique violation",
			err:  &pgconn.PgError{Code: "23505", ConstraintName: "users_user_name_key"},
			want: true,
		},
		{
			name: "wrapped unique violation",
			err:  fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}),
			want: true,
		},
		{
			name: "not null violation",
			err:  &pgconn.PgError{Code: "23502"},
			want: false,
		},
		{
			name: "foreign key violation",
			err:  &pgconn.PgError{Code: "23503"},
			want: false,
		},
		{
			name: "plain error",
			err:  fmt.Errorf("connection refused"),
			want: false,
		},
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isUniqueViolation(tt.err))
		})
	}
}
