package store

import (
	"database/sql"
	"errors"
	"time"
)

// StateRepo is the sqlite-backed KV.
type StateRepo struct {
	db *DB
}

func NewStateRepo(db *DB) *StateRepo {
	return &StateRepo{db: db}
}

func (r *StateRepo) Get(key string) (string, bool, error) {
	var value string
	err := r.db.Get(&value, "SELECT value FROM state WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (r *StateRepo) Set(key, value string) error {
	_, err := r.db.Exec(`
		INSERT INTO state (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now())
	return err
}

func (r *StateRepo) Delete(key string) error {
	_, err := r.db.Exec("DELETE FROM state WHERE key = ?", key)
	return err
}

func (r *StateRepo) Clear() error {
	_, err := r.db.Exec("DELETE FROM state")
	return err
}
