package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"gitlab.com/civitas-pk/civitas/internal/models"
	"golang.org/x/crypto/bcrypt"
)

const TokenLen = 64 // bytes

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx, so every query
// helper can run inside or outside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

type SharedDB struct {
	db         *pgxpool.Pool
	config     *models.EnvConfig
	bcryptCost int
}

func MigrateUp(dbURL string) error {
	m, err := migrate.New("file://migrations", dbURL)
	if err != nil {
		return fmt.Errorf("error reading migrations: %w", err)
	}
	defer m.Close()
	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("while migrating up: %w", err)
	}
	return nil
}
func MigrateDown(dbURL string) error {
	m, err := migrate.New("file://migrations", dbURL)
	if err != nil {
		return fmt.Errorf("error reading migrations: %w", err)
	}
	defer m.Close()
	err = m.Down()
	if err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("while migrating down: %w", err)
	}
	return nil
}
func Drop(dbURL string) error {
	m, err := migrate.New("file://migrations", dbURL)
	if err != nil {
		return fmt.Errorf("error reading migrations: %w", err)
	}
	defer m.Close()
	err = m.Drop()
	if err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("while dropping: %w", err)
	}
	return nil
}

// Connect opens the pgx pool. A connection failure is surfaced to the
// caller as an error; there is no in-memory fallback store.
func Connect(config *models.EnvConfig) (SharedDB, error) {
	pool, err := pgxpool.Connect(context.Background(), config.DatabaseURL)
	if err != nil {
		return SharedDB{}, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	bcryptCost := bcrypt.DefaultCost + 2
	if config.Debug {
		bcryptCost = bcrypt.MinCost
	}

	return SharedDB{
		db:         pool,
		config:     config,
		bcryptCost: bcryptCost,
	}, nil
}

func execTx(ctx context.Context, db DBTX, txFunc func(context.Context, DBTX) error) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}

	err = txFunc(ctx, tx)
	if err != nil {
		tx.Rollback(ctx)
		return err
	}

	return tx.Commit(ctx)
}

func isConstraintErr(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.ConstraintName == constraint
}
