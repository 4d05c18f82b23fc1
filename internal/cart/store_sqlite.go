package cart

import (
	"context"
	"database/sql"
	"encoding/json"

	_ "github.com/mattn/go-sqlite3"
)

// SQLitePersister is the embedded single-file backend: same row shape as
// Postgres, no server to run. Suited to the bot binary.
type SQLitePersister struct {
	db *sql.DB
}

func OpenSQLite(path string) (*SQLitePersister, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	// SQLite allows one writer at a time; a second connection would only
	// produce SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS carts (
			user_id TEXT PRIMARY KEY,
			items   TEXT NOT NULL
		)
	`)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLitePersister{db: db}, nil
}

func (p *SQLitePersister) Close() error { return p.db.Close() }

func (p *SQLitePersister) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

func (p *SQLitePersister) Load(ctx context.Context) (map[string]Cart, error) {
	carts := map[string]Cart{}

	rows, err := p.db.QueryContext(ctx, `SELECT user_id, items FROM carts`)
	if err != nil {
		return map[string]Cart{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			userID string
			raw    string
		)
		if err := rows.Scan(&userID, &raw); err != nil {
			return map[string]Cart{}, err
		}
		var items []Line
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			return map[string]Cart{}, err
		}
		carts[userID] = Cart{Items: items}
	}
	if err := rows.Err(); err != nil {
		return map[string]Cart{}, err
	}

	return carts, nil
}

func (p *SQLitePersister) Flush(ctx context.Context, userID string, c Cart, _ map[string]Cart) error {
	raw, err := json.Marshal(c.Items)
	if err != nil {
		return err
	}

	_, err = p.db.ExecContext(ctx, `
		INSERT INTO carts (user_id, items)
		VALUES (?, ?)
		ON CONFLICT (user_id) DO UPDATE SET items = excluded.items
	`, userID, string(raw))
	return err
}
