package downloader

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/cesargomez89/tunedeck/internal/storage"
)

// fetch streams url into a temporary file under the downloads directory
// and returns its path and size.
func (s *Service) fetch(ctx context.Context, url string) (string, int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", 0, fmt.Errorf("invalid source url: %w", err)
	}
	resp, err := s.client.Do(ctx, req)
	if err != nil {
		return "", 0, fmt.Errorf("failed to fetch source: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", 0, fmt.Errorf("failed to fetch source: status %d", resp.StatusCode)
	}

	f, err := storage.CreateTemp(s.opts.Dir)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmp := f.Name()

	n, err := io.Copy(f, resp.Body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		storage.RemoveFile(tmp)
		return "", 0, fmt.Errorf("failed to write audio: %w", err)
	}
	if n == 0 {
		storage.RemoveFile(tmp)
		return "", 0, fmt.Errorf("source returned no data")
	}
	return tmp, n, nil
}
