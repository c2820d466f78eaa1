package directory

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/vestahome/designer-hub/internal/resilience"
)

var httpClient = &http.Client{Timeout: 60 * time.Second}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Download fetches rawURL into dir, keeping the URL's file name so the
// extension selects the parser. It returns the written path.
func Download(ctx context.Context, rawURL, dir string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", eris.Wrap(err, "directory: parse url")
	}
	name := path.Base(u.Path)
	if name == "" || name == "/" || name == "." {
		name = "projects.xlsx"
	}
	dest := filepath.Join(dir, name)

	cfg := resilience.DefaultRetryConfig()
	cfg.OnRetry = resilience.RetryLogger("directory", "download")

	n, err := resilience.DoVal(ctx, cfg, func(ctx context.Context) (int64, error) {
		return fetchTo(ctx, rawURL, dest)
	})
	if err != nil {
		return "", err
	}
	zap.L().Info("directory: downloaded", zap.String("url", rawURL), zap.Int64("bytes", n))
	return dest, nil
}

func fetchTo(ctx context.Context, rawURL, dest string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, eris.Wrap(err, "directory: create request")
	}
	req.Header.Set("User-Agent", "designer-hub/1.0")

	resp, err := httpClient.Do(req)
	if err != nil {
		return 0, eris.Wrap(err, "directory: download")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		err := eris.Errorf("directory: unexpected status %d from %s", resp.StatusCode, rawURL)
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return 0, resilience.NewTransientError(err, resp.StatusCode)
		}
		return 0, err
	}

	f, err := os.Create(dest)
	if err != nil {
		return 0, eris.Wrap(err, "directory: create file")
	}
	defer f.Close() //nolint:errcheck

	n, err := io.Copy(f, resp.Body)
	if err != nil {
		return n, eris.Wrap(err, "directory: write file")
	}
	return n, nil
}
