package store

const Schema = `
CREATE TABLE IF NOT EXISTS state (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS settings (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS cache (
	key TEXT PRIMARY KEY,
	data BLOB,
	expires_at DATETIME
);

CREATE TABLE IF NOT EXISTS downloads (
	id TEXT PRIMARY KEY,
	track_id TEXT NOT NULL,
	title TEXT NOT NULL,
	artists TEXT,  -- JSON array
	quality TEXT,
	file_path TEXT,
	status TEXT NOT NULL,
	size_bytes INTEGER DEFAULT 0,
	error TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	completed_at DATETIME
);

CREATE INDEX IF NOT EXISTS idx_downloads_track_id ON downloads(track_id);
CREATE INDEX IF NOT EXISTS idx_downloads_created_at ON downloads(created_at);
`
