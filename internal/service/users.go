// Package service wraps the users repository, mapping domain users to rows
// and back. It performs no error re-typing; repository errors pass through to
// the transaction boundary unchanged.
package service

import (
	"context"

	"github.com/chybatronik/goUserRegistry/internal/database"
	"github.com/chybatronik/goUserRegistry/internal/models"
	"github.com/jackc/pgx/v5"
)

// ToRow maps a domain user to its persisted representation.
func ToRow(user models.User) database.UserRow {
	return database.UserRow{
		UserName:  user.UserName,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Address:   user.Address,
	}
}

// ToUser maps a persisted row back to the domain user.
func ToUser(row database.UserRow) models.User {
	return models.User{
		UserName:  row.UserName,
		FirstName: row.FirstName,
		LastName:  row.LastName,
		Address:   row.Address,
	}
}

// InsertUser inserts a user inside the given transaction and returns the
// affected-row count.
func InsertUser(ctx context.Context, tx pgx.Tx, user models.User) (int64, error) {
	return database.InsertUser(ctx, tx, ToRow(user))
}

// GetAllUsers returns all users in insertion order.
func GetAllUsers(ctx context.Context, tx pgx.Tx) ([]models.User, error) {
	rows, err := database.SelectAllUsers(ctx, tx)
	if err != nil {
		return nil, err
	}

	users := make([]models.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, ToUser(row))
	}
	return users, nil
}

// DeleteUserByUsername deletes a user by user name and returns the
// affected-row count.
func DeleteUserByUsername(ctx context.Context, tx pgx.Tx, userName string) (int64, error) {
	return database.DeleteUserByUsername(ctx, tx, userName)
}
