// Package program orchestrates each user operation inside a single database
// transaction and translates low-level failures into typed domain errors.
// This is the only layer that re-types database errors: below it the
// repository surfaces raw errors, above it the endpoint layer maps the typed
// errors to HTTP responses.
package program

import (
	"context"
	stderrors "errors"

	"github.com/chybatronik/goUserRegistry/internal/logging"
	"github.com/chybatronik/goUserRegistry/internal/models"
	"github.com/chybatronik/goUserRegistry/internal/service"
	"github.com/chybatronik/goUserRegistry/pkg/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgUniqueViolation is the PostgreSQL error code for unique-constraint
// violations (class 23, integrity constraint violation).
const pgUniqueViolation = "23505"

// TxBeginner starts a database transaction. *pgxpool.Pool satisfies it.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Program executes user operations, one transaction per operation.
type Program struct {
	pool   TxBeginner
	logger *logging.Logger
}

// New creates a Program bound to a connection pool.
func New(pool TxBeginner, logger *logging.Logger) *Program {
	return &Program{
		pool:   pool,
		logger: logger,
	}
}

// InsertUser inserts a user atomically. A duplicate user name becomes a typed
// already-exists error, an insert that affected no rows becomes a typed
// not-inserted error, everything else becomes a transaction error.
func (p *Program) InsertUser(ctx context.Context, user models.User) (int64, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		p.logger.DatabaseError("failed to begin insert transaction", err)
		return 0, errors.NewTransactionError()
	}
	defer tx.Rollback(ctx)

	count, err := service.InsertUser(ctx, tx, user)
	if err != nil {
		if isUniqueViolation(err) {
			p.logger.Warn("Duplicate user name rejected", logging.FieldUserName, user.UserName)
			return 0, errors.NewUserAlreadyExistsError(user.UserName)
		}
		p.logger.DatabaseError("insert failed", err)
		return 0, errors.NewTransactionError()
	}

	// Repository reports counts; the exactly-one-row contract is enforced
	// here, not inferred downstream.
	if count == 0 {
		return 0, errors.NewUserNotInsertedError(user.UserName)
	}

	if err := tx.Commit(ctx); err != nil {
		if isUniqueViolation(err) {
			// Deferred constraints surface the violation at commit.
			p.logger.Warn("Duplicate user name rejected at commit", logging.FieldUserName, user.UserName)
			return 0, errors.NewUserAlreadyExistsError(user.UserName)
		}
		p.logger.DatabaseError("failed to commit insert transaction", err)
		return 0, errors.NewTransactionError()
	}

	return count, nil
}

// GetAllUsers returns every registered user in insertion order.
func (p *Program) GetAllUsers(ctx context.Context) ([]models.User, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		p.logger.DatabaseError("failed to begin select transaction", err)
		return nil, errors.NewTransactionError()
	}
	defer tx.Rollback(ctx)

	users, err := service.GetAllUsers(ctx, tx)
	if err != nil {
		p.logger.DatabaseError("select failed", err)
		return nil, errors.NewTransactionError()
	}

	if err := tx.Commit(ctx); err != nil {
		p.logger.DatabaseError("failed to commit select transaction", err)
		return nil, errors.NewTransactionError()
	}

	return users, nil
}

// DeleteUserByUsername deletes a user atomically. Zero rows affected becomes
// a typed already-deleted error, everything else a transaction error.
func (p *Program) DeleteUserByUsername(ctx context.Context, userName string) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		p.logger.DatabaseError("failed to begin delete transaction", err)
		return errors.NewTransactionError()
	}
	defer tx.Rollback(ctx)

	count, err := service.DeleteUserByUsername(ctx, tx, userName)
	if err != nil {
		p.logger.DatabaseError("delete failed", err)
		return errors.NewTransactionError()
	}

	if count == 0 {
		return errors.NewUserAlreadyDeletedError(userName)
	}

	if err := tx.Commit(ctx); err != nil {
		p.logger.DatabaseError("failed to commit delete transaction", err)
		return errors.NewTransactionError()
	}

	return nil
}

// isUniqueViolation reports whether err is a PostgreSQL unique-constraint
// violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return stderrors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
