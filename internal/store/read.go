package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hgir-dev/hgir/internal/codec"
	"github.com/hgir-dev/hgir/internal/extension"
	"github.com/hgir-dev/hgir/internal/graph"
)

// ErrNotFound reports a lookup of a module the archive does not hold.
var ErrNotFound = errors.New("module not found")

// GetByHash returns the record with the given content hash.
func (s *Store) GetByHash(ctx context.Context, hash string) (Record, error) {
	return s.getWhere(ctx, "hash = ?", hash)
}

// Get returns the record with the given ID.
func (s *Store) Get(ctx context.Context, id string) (Record, error) {
	return s.getWhere(ctx, "id = ?", id)
}

func (s *Store) getWhere(ctx context.Context, cond string, arg any) (Record, error) {
	var rec Record
	var envelope string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, hash, name, envelope, created_at
		FROM modules WHERE `+cond, arg,
	).Scan(&rec.ID, &rec.Hash, &rec.Name, &envelope, &rec.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("get module: %w", err)
	}
	rec.Envelope = []byte(envelope)
	return rec, nil
}

// List returns all archived records, newest first, without envelopes.
func (s *Store) List(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, hash, name, created_at
		FROM modules ORDER BY created_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("list modules: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.Hash, &rec.Name, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("list modules: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list modules: %w", err)
	}
	return out, nil
}

// LoadModule fetches a module by hash and decodes it, verifying the stored
// envelope still hashes to its key before trusting it.
func (s *Store) LoadModule(ctx context.Context, hash string, reg *extension.Registry) (*graph.Graph, error) {
	rec, err := s.GetByHash(ctx, hash)
	if err != nil {
		return nil, err
	}
	got, err := codec.EnvelopeHash(rec.Envelope)
	if err != nil {
		return nil, fmt.Errorf("load module: %w", err)
	}
	if got != hash {
		return nil, fmt.Errorf("load module: archived envelope hashes to %s, expected %s", got, hash)
	}
	return codec.DecodeJSON(rec.Envelope, reg)
}
