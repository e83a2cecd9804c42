package domain

import "time"

type DownloadStatus string

const (
	DownloadStatusRunning   DownloadStatus = "running"
	DownloadStatusCompleted DownloadStatus = "completed"
	DownloadStatusFailed    DownloadStatus = "failed"
)

// Download records one fetch of a track's audio to disk.
type Download struct {
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	CompletedAt *time.Time     `json:"completed_at,omitempty" db:"completed_at"`
	Error       *string        `json:"error,omitempty" db:"error"`
	ID          string         `json:"id" db:"id"`
	TrackID     string         `json:"track_id" db:"track_id"`
	Title       string         `json:"title" db:"title"`
	Artists     StringSlice    `json:"artists" db:"artists"`
	Quality     string         `json:"quality" db:"quality"`
	FilePath    string         `json:"file_path" db:"file_path"`
	Status      DownloadStatus `json:"status" db:"status"`
	SizeBytes   int64          `json:"size_bytes" db:"size_bytes"`
}

// Done reports whether the download reached a terminal status.
func (d *Download) Done() bool {
	return d.Status == DownloadStatusCompleted || d.Status == DownloadStatusFailed
}
