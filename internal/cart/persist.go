package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Persister loads the whole user->cart mapping once at startup and makes one
// user's cart durable after every mutation. Flush must not return before the
// write has completed; the store rolls the mutation back if it fails.
//
// The full mapping is passed alongside the changed cart so snapshot-style
// backends can rewrite everything while row-style backends touch one key.
type Persister interface {
	Load(ctx context.Context) (map[string]Cart, error)
	Flush(ctx context.Context, userID string, c Cart, all map[string]Cart) error
}

// Nop keeps carts in memory only. Used in tests and as the fallback when no
// backing store is configured.
type Nop struct{}

func (Nop) Load(context.Context) (map[string]Cart, error) { return map[string]Cart{}, nil }

func (Nop) Flush(context.Context, string, Cart, map[string]Cart) error { return nil }

// SnapshotFile persists the mapping as a single JSON object, rewritten in
// full on every flush. Replacement goes through a temp file and rename so a
// crash mid-write cannot truncate the previous snapshot.
type SnapshotFile struct {
	path string
}

func NewSnapshotFile(path string) *SnapshotFile {
	return &SnapshotFile{path: path}
}

func (f *SnapshotFile) Load(_ context.Context) (map[string]Cart, error) {
	raw, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return map[string]Cart{}, nil
	}
	if err != nil {
		return map[string]Cart{}, fmt.Errorf("read %s: %w", f.path, err)
	}

	var carts map[string]Cart
	if err := json.Unmarshal(raw, &carts); err != nil {
		return map[string]Cart{}, fmt.Errorf("decode %s: %w", f.path, err)
	}
	if carts == nil {
		carts = map[string]Cart{}
	}
	return carts, nil
}

func (f *SnapshotFile) Flush(_ context.Context, _ string, _ Cart, all map[string]Cart) error {
	raw, err := json.Marshal(all)
	if err != nil {
		return err
	}

	tmp := f.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}
