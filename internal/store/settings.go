package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

// SettingsRepo holds operator settings that survive a clear of the
// session state, such as the selected catalog mirror.
type SettingsRepo struct {
	db *DB
}

func NewSettingsRepo(db *DB) *SettingsRepo {
	return &SettingsRepo{db: db}
}

func (r *SettingsRepo) Get(key string) (string, error) {
	var value string
	err := r.db.Get(&value, "SELECT value FROM settings WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return value, err
}

func (r *SettingsRepo) Set(key, value string) error {
	_, err := r.db.Exec(`
		INSERT INTO settings (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now())
	return err
}

func (r *SettingsRepo) Delete(key string) error {
	_, err := r.db.Exec("DELETE FROM settings WHERE key = ?", key)
	return err
}

// Mirrors returns the catalog mirrors the operator has used.
func (r *SettingsRepo) Mirrors() ([]string, error) {
	raw, err := r.Get(SettingCatalogMirrors)
	if err != nil || raw == "" {
		return nil, err
	}
	var urls []string
	if err := json.Unmarshal([]byte(raw), &urls); err != nil {
		return nil, nil
	}
	return urls, nil
}

// RememberMirror records url as the active mirror and adds it to the
// known list.
func (r *SettingsRepo) RememberMirror(url string) error {
	urls, err := r.Mirrors()
	if err != nil {
		return err
	}
	known := false
	for _, u := range urls {
		if u == url {
			known = true
			break
		}
	}
	if !known {
		urls = append(urls, url)
	}
	data, err := json.Marshal(urls)
	if err != nil {
		return err
	}
	if err := r.Set(SettingCatalogMirrors, string(data)); err != nil {
		return err
	}
	return r.Set(SettingActiveCatalog, url)
}

const (
	SettingActiveCatalog  = "active_catalog"
	SettingCatalogMirrors = "catalog_mirrors"
)
