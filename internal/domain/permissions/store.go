package permissions

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const configKey = "permissions"

var ErrNotStored = errors.New("permissions: document not stored")

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) LoadDocument(ctx context.Context) (Document, error) {
	var raw []byte
	err := s.DB.QueryRow(ctx, "SELECT value FROM app_config WHERE key = $1", configKey).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotStored
	}
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *Store) SaveDocument(ctx context.Context, doc Document, updatedBy string) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	_, err = s.DB.Exec(ctx, `
    INSERT INTO app_config (key, value, updated_by, updated_at)
    VALUES ($1, $2, $3, now())
    ON CONFLICT (key)
    DO UPDATE SET value = EXCLUDED.value, updated_by = EXCLUDED.updated_by, updated_at = now()
  `, configKey, raw, nullIfEmpty(updatedBy))
	return err
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
