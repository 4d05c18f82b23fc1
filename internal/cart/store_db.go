package cart

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second
)

// PostgresPersister keeps one row per user. Load pulls every row once at
// startup; Flush upserts only the mutated user's cart.
type PostgresPersister struct {
	db *sql.DB
}

func OpenPostgres(dsn string) (*PostgresPersister, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	p := &PostgresPersister{db: db}
	if err := p.Ping(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	err = withTimeout(context.Background(), queryTimeout, func(ctx context.Context) error {
		_, err := db.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS carts (
				user_id TEXT PRIMARY KEY,
				items   JSONB NOT NULL
			)
		`)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return p, nil
}

func (p *PostgresPersister) Close() error { return p.db.Close() }

func (p *PostgresPersister) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return p.db.PingContext(ctx)
	})
}

func (p *PostgresPersister) Load(ctx context.Context) (map[string]Cart, error) {
	carts := map[string]Cart{}

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		rows, err := p.db.QueryContext(ctx, `SELECT user_id, items FROM carts`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var (
				userID string
				raw    []byte
			)
			if err := rows.Scan(&userID, &raw); err != nil {
				return err
			}
			var items []Line
			if err := json.Unmarshal(raw, &items); err != nil {
				return err
			}
			carts[userID] = Cart{Items: items}
		}
		return rows.Err()
	})

	if err != nil {
		return map[string]Cart{}, err
	}
	return carts, nil
}

func (p *PostgresPersister) Flush(ctx context.Context, userID string, c Cart, _ map[string]Cart) error {
	raw, err := json.Marshal(c.Items)
	if err != nil {
		return err
	}

	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := p.db.ExecContext(ctx, `
			INSERT INTO carts (user_id, items)
			VALUES ($1, $2)
			ON CONFLICT (user_id) DO UPDATE SET items = EXCLUDED.items
		`, userID, raw)
		return err
	})
}

func withTimeout(ctx context.Context, d time.Duration, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()
	return fn(ctx)
}
