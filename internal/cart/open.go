package cart

import "strings"

// Open picks the persistence backend from config: a Postgres DSN, anything
// else non-empty is treated as a SQLite path, and an empty DSN falls back to
// the JSON snapshot file.
func Open(dsn, snapshotPath string) (Persister, error) {
	switch {
	case dsn == "":
		return NewSnapshotFile(snapshotPath), nil
	case strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://"):
		return OpenPostgres(dsn)
	default:
		return OpenSQLite(dsn)
	}
}
