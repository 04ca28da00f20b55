package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ArowuTest/valera-classroom/internal/repositories"
	"github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS classes (
	id               BIGSERIAL PRIMARY KEY,
	name             TEXT NOT NULL UNIQUE,
	students_balance INTEGER NOT NULL DEFAULT 0,
	valera_balance   INTEGER NOT NULL DEFAULT 0,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS prizes (
	id              BIGSERIAL PRIMARY KEY,
	name            TEXT NOT NULL,
	prize_type      TEXT NOT NULL,
	students_change INTEGER NOT NULL DEFAULT 0,
	valera_change   INTEGER NOT NULL DEFAULT 0,
	probability     TEXT NOT NULL DEFAULT 'medium',
	coins_min       INTEGER,
	coins_max       INTEGER,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS prizes_prize_type_idx ON prizes (prize_type);

CREATE TABLE IF NOT EXISTS shop_items (
	id         BIGSERIAL PRIMARY KEY,
	name       TEXT NOT NULL,
	price      INTEGER NOT NULL CHECK (price >= 0),
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS admin_users (
	id            BIGSERIAL PRIMARY KEY,
	username      TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	is_admin      BOOLEAN NOT NULL DEFAULT FALSE,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS balance_transactions (
	id             BIGSERIAL PRIMARY KEY,
	class_id       BIGINT NOT NULL REFERENCES classes(id) ON DELETE CASCADE,
	students_delta INTEGER NOT NULL,
	valera_delta   INTEGER NOT NULL,
	reason         TEXT NOT NULL,
	students_after INTEGER NOT NULL,
	valera_after   INTEGER NOT NULL,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS balance_transactions_class_idx ON balance_transactions (class_id, id DESC);
`

// Open connects to PostgreSQL, applies the schema and wires every
// repository. The returned store closes db.
func Open(ctx context.Context, dsn string) (*repositories.Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return NewStore(db), nil
}

// NewStore wires every repository to db.
func NewStore(db *sql.DB) *repositories.Store {
	return repositories.NewStore(
		NewClassRepository(db),
		NewPrizeRepository(db),
		NewShopItemRepository(db),
		NewAdminUserRepository(db),
		NewTransactionRepository(db),
		func(context.Context) error { return db.Close() },
	)
}

// Migrate creates the tables if they do not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// mapErr turns driver errors into repository sentinels.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return repositories.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return fmt.Errorf("%w: %s", repositories.ErrDuplicate, pqErr.Detail)
	}
	return err
}

func checkAffected(res sql.Result, err error) error {
	if err != nil {
		return mapErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}
