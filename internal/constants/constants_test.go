package constants

import (
	"testing"
	"time"
)

func TestDefaultValues(t *testing.T) {
	if DefaultPort != "8080" {
		t.Errorf("Expected DefaultPort to be '8080', got '%s'", DefaultPort)
	}

	if DefaultDBPath != "tunedeck.db" {
		t.Errorf("Expected DefaultDBPath to be 'tunedeck.db', got '%s'", DefaultDBPath)
	}

	if DefaultQuality != Quality320 {
		t.Errorf("Expected DefaultQuality to be '%s', got '%s'", Quality320, DefaultQuality)
	}

	if DefaultCatalogURL != "https://saavn.sumit.co/api" {
		t.Errorf("Expected DefaultCatalogURL to be 'https://saavn.sumit.co/api', got '%s'", DefaultCatalogURL)
	}

	if DefaultSearchLimit != 18 {
		t.Errorf("Expected DefaultSearchLimit to be 18, got %d", DefaultSearchLimit)
	}
}

func TestQualityLevels(t *testing.T) {
	qualities := []string{
		Quality12,
		Quality48,
		Quality96,
		Quality160,
		Quality320,
	}

	for _, q := range qualities {
		if q == "" {
			t.Error("Quality constant should not be empty")
		}
	}
}

func TestTimeouts(t *testing.T) {
	if DefaultPollInterval != 1*time.Second {
		t.Errorf("Expected DefaultPollInterval to be 1 second, got %v", DefaultPollInterval)
	}

	if DefaultRetryBase != 1*time.Second {
		t.Errorf("Expected DefaultRetryBase to be 1 second, got %v", DefaultRetryBase)
	}

	if RelatedFetchTimeout <= 0 {
		t.Errorf("Expected RelatedFetchTimeout to be positive, got %v", RelatedFetchTimeout)
	}
}

func TestRetryCount(t *testing.T) {
	if DefaultRetryCount != 3 {
		t.Errorf("Expected DefaultRetryCount to be 3, got %d", DefaultRetryCount)
	}
}

func TestBrowsePageSizes(t *testing.T) {
	if TrendingPageSize != 20 {
		t.Errorf("Expected TrendingPageSize to be 20, got %d", TrendingPageSize)
	}
	if PopularArtistsPageSize != 24 {
		t.Errorf("Expected PopularArtistsPageSize to be 24, got %d", PopularArtistsPageSize)
	}
}

func TestStateKeys(t *testing.T) {
	keys := map[string]string{
		"lastSong":    KeyLastSong,
		"lastResults": KeyLastResults,
		"favorites":   KeyFavorites,
	}
	for want, got := range keys {
		if got != want {
			t.Errorf("Expected key %q, got %q", want, got)
		}
	}
}

func TestDefaultKeywords(t *testing.T) {
	if len(DefaultKeywords) == 0 {
		t.Fatal("Expected default keywords")
	}
	for _, k := range DefaultKeywords {
		if k == "" {
			t.Error("Keyword should not be empty")
		}
	}
}

func TestFilePermissions(t *testing.T) {
	if DirPermissions != 0755 {
		t.Errorf("Expected DirPermissions to be 0755, got %o", DirPermissions)
	}
	if FilePermissions != 0644 {
		t.Errorf("Expected FilePermissions to be 0644, got %o", FilePermissions)
	}
}
