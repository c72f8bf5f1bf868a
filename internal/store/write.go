package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/hgir-dev/hgir/internal/codec"
	"github.com/hgir-dev/hgir/internal/graph"
)

// Record is one archived module.
type Record struct {
	ID        string `json:"id"`
	Hash      string `json:"hash"`
	Name      string `json:"name"`
	Envelope  []byte `json:"-"`
	CreatedAt string `json:"created_at"`
}

// SaveModule archives a module under an informational name. The module is
// encoded, hashed, and inserted keyed by its content hash; saving content
// already present is a no-op that returns the existing record with
// inserted=false. The name of the first save wins.
func (s *Store) SaveModule(ctx context.Context, name string, g *graph.Graph) (Record, bool, error) {
	data, err := codec.EncodeJSON(g)
	if err != nil {
		return Record{}, false, fmt.Errorf("save module: %w", err)
	}
	hash, err := codec.EnvelopeHash(data)
	if err != nil {
		return Record{}, false, fmt.Errorf("save module: %w", err)
	}

	id := uuid.NewString()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO modules (id, hash, name, envelope)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(hash) DO NOTHING
	`, id, hash, name, string(data))
	if err != nil {
		return Record{}, false, fmt.Errorf("save module: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return Record{}, false, fmt.Errorf("save module: %w", err)
	}

	rec, err := s.GetByHash(ctx, hash)
	if err != nil {
		return Record{}, false, fmt.Errorf("save module: %w", err)
	}
	return rec, n > 0, nil
}

// Delete removes an archived module by hash. Missing hashes are a no-op.
func (s *Store) Delete(ctx context.Context, hash string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM modules WHERE hash = ?`, hash); err != nil {
		return fmt.Errorf("delete module: %w", err)
	}
	return nil
}
