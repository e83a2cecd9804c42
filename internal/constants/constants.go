// Package constants contains application-wide constants to avoid magic numbers and strings.
package constants

import "time"

// Application defaults
const (
	DefaultPort             = "8080"
	DefaultDBPath           = "tunedeck.db"
	DefaultCatalogURL       = "https://saavn.sumit.co/api"
	DefaultQuality          = "320kbps"
	DefaultSearchLimit      = 18
	DefaultSuggestionLimit  = 10
	DefaultPollInterval     = 1 * time.Second
	DefaultHTTPTimeout      = 15 * time.Second
	DefaultRequestInterval  = 0 * time.Millisecond
	DownloadHTTPTimeout     = 10 * time.Minute
	RelatedFetchTimeout     = 20 * time.Second
	DefaultRetryCount       = 3
	DefaultRetryBase        = 1 * time.Second
	DefaultDownloadTemplate = "{{.Artist}} - {{.Title}}"
	DefaultCacheTTL         = 12 * time.Hour
	DefaultDownloadsSubdir  = "Downloads/tunedeck"
)

// Browse pages
const (
	TrendingQuery          = "Trending"
	TrendingPageSize       = 20
	PopularArtistsQuery    = "A"
	PopularArtistsPageSize = 24
)

// Quality tiers advertised by the catalog
const (
	Quality12   = "12kbps"
	Quality48   = "48kbps"
	Quality96   = "96kbps"
	Quality160  = "160kbps"
	Quality320  = "320kbps"
	QualityMax  = 320
	QualityNone = 0
)

// End-of-track behaviors
const (
	EndBehaviorAdvance = "advance"
	EndBehaviorStop    = "stop"
)

// Media backends
const (
	MediaBackendClock = "clock"
	MediaBackendMPV   = "mpv"
)

// Persisted state keys
const (
	KeyLastSong    = "lastSong"
	KeyLastResults = "lastResults"
	KeyFavorites   = "favorites"
)

// MIME Types
const (
	MimeTypeFLAC = "audio/flac"
	MimeTypeMP3  = "audio/mpeg"
	MimeTypeMP4  = "audio/mp4"
	MimeTypeJPEG = "image/jpeg"
)

// Database
const (
	StateTable     = "state"
	DownloadsTable = "downloads"
	CacheTable     = "cache"
)

// File Extensions
const (
	ExtFLAC = ".flac"
	ExtMP3  = ".mp3"
	ExtMP4  = ".mp4"
	ExtM4A  = ".m4a"
	ExtJPG  = ".jpg"
)

// File Permissions
const (
	DirPermissions  = 0755
	FilePermissions = 0644
)

// UI/UX
const (
	SeekStep        = 0.05
	EventBufferSize = 32
)

// DefaultKeywords seed the startup search when nothing was restored.
var DefaultKeywords = []string{
	"Hindi Hits",
	"Arijit Singh",
	"Lofi Hindi",
	"90s Bollywood",
	"Trending India",
	"Romantic Hindi",
	"New Release",
}

// Characters to sanitize from filesystem paths
const InvalidPathChars = "<>:\"/\\|?*"
