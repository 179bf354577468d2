package database

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// UserRow is the persisted representation of a user, one row per user with
// user_name as the unique natural key.
type UserRow struct {
	UserName  string
	FirstName string
	LastName  string
	Address   *string
}

// InsertUser inserts a user row inside the given transaction and returns the
// affected-row count. Database errors, unique-constraint violations included,
// are surfaced unchanged for the caller to classify.
func InsertUser(ctx context.Context, tx pgx.Tx, row UserRow) (int64, error) {
	query := `INSERT INTO users (user_name, first_name, last_name, address) VALUES ($1, $2, $3, $4)`

	cmdTag, err := tx.Exec(ctx, query, row.UserName, row.FirstName, row.LastName, row.Address)
	if err != nil {
		return 0, err
	}

	return cmdTag.RowsAffected(), nil
}

// SelectAllUsers returns every user row ordered by insertion time.
func SelectAllUsers(ctx context.Context, tx pgx.Tx) ([]UserRow, error) {
	query := `SELECT user_name, first_name, last_name, address FROM users ORDER BY created_at`

	rows, err := tx.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []UserRow
	for rows.Next() {
		var row UserRow
		if err := rows.Scan(&row.UserName, &row.FirstName, &row.LastName, &row.Address); err != nil {
			return nil, err
		}
		users = append(users, row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

// DeleteUserByUsername deletes the row with the given user name and returns
// the affected-row count; zero means the user did not exist.
func DeleteUserByUsername(ctx context.Context, tx pgx.Tx, userName string) (int64, error) {
	query := `DELETE FROM users WHERE user_name = $1`

	cmdTag, err := tx.Exec(ctx, query, userName)
	if err != nil {
		return 0, err
	}

	return cmdTag.RowsAffected(), nil
}
