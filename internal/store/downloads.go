package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/cesargomez89/tunedeck/internal/domain"
)

func (db *DB) CreateDownload(d *domain.Download) error {
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now()
	}
	_, err := db.NamedExec(`
		INSERT INTO downloads (id, track_id, title, artists, quality, file_path, status, size_bytes, error, created_at, completed_at)
		VALUES (:id, :track_id, :title, :artists, :quality, :file_path, :status, :size_bytes, :error, :created_at, :completed_at)
	`, d)
	return err
}

// FinishDownload moves a download to a terminal status.
func (db *DB) FinishDownload(id string, status domain.DownloadStatus, filePath string, size int64, errMsg *string) error {
	_, err := db.Exec(`
		UPDATE downloads SET status = ?, file_path = ?, size_bytes = ?, error = ?, completed_at = ?
		WHERE id = ?
	`, status, filePath, size, errMsg, time.Now(), id)
	return err
}

func (db *DB) GetDownload(id string) (*domain.Download, error) {
	var d domain.Download
	err := db.Get(&d, "SELECT * FROM downloads WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (db *DB) ListDownloads(limit int) ([]*domain.Download, error) {
	var downloads []*domain.Download
	err := db.Select(&downloads, "SELECT * FROM downloads ORDER BY created_at DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	return downloads, nil
}

func (db *DB) ClearDownloads() error {
	_, err := db.Exec("DELETE FROM downloads")
	return err
}

// FailRunningDownloads marks downloads left running by a previous process
// as failed.
func (db *DB) FailRunningDownloads(reason string) (int64, error) {
	res, err := db.Exec(`
		UPDATE downloads SET status = ?, error = ?, completed_at = ?
		WHERE status = ?
	`, domain.DownloadStatusFailed, reason, time.Now(), domain.DownloadStatusRunning)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
