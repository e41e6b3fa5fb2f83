// Package source opens build inputs: local files or HTTP(S) URLs,
// optionally gzip or bzip2 compressed, decoded to UTF-8.
package source

import (
	"compress/bzip2"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/temporal-IPA/tonedict/pkg/conversion"
)

// readCloser pairs a decoding reader with the closers of the layers it
// wraps.
type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (rc *readCloser) Close() error {
	var first error
	for i := len(rc.closers) - 1; i >= 0; i-- {
		if err := rc.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// IsHTTPURL returns true if src looks like an HTTP or HTTPS URL.
func IsHTTPURL(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// compression returns ".gz", ".bz2" or "" for a path or URL, ignoring
// query or fragment parts.
func compression(raw string) string {
	lower := strings.ToLower(raw)
	if IsHTTPURL(lower) {
		if idx := strings.IndexAny(lower, "?#"); idx >= 0 {
			lower = lower[:idx]
		}
	}
	switch {
	case strings.HasSuffix(lower, ".gz"):
		return ".gz"
	case strings.HasSuffix(lower, ".bz2"):
		return ".bz2"
	}
	return ""
}

// Open opens a local file or an HTTP/HTTPS URL, decompresses it when its
// name ends with .gz or .bz2, and decodes it from enc to UTF-8. The
// returned ReadCloser must be closed by the caller.
//
// No temporary files are created: HTTP bodies are streamed.
func Open(ctx context.Context, pathOrURL string, enc conversion.EncodingID) (io.ReadCloser, error) {
	var raw io.ReadCloser
	var err error
	if IsHTTPURL(pathOrURL) {
		raw, err = openHTTP(ctx, pathOrURL)
	} else {
		raw, err = os.Open(pathOrURL)
	}
	if err != nil {
		return nil, err
	}

	rc := &readCloser{Reader: raw, closers: []io.Closer{raw}}
	switch compression(pathOrURL) {
	case ".gz":
		gz, err := gzip.NewReader(raw)
		if err != nil {
			raw.Close()
			return nil, fmt.Errorf("gzip %s: %w", pathOrURL, err)
		}
		rc.Reader = gz
		rc.closers = append(rc.closers, gz)
	case ".bz2":
		rc.Reader = bzip2.NewReader(raw)
	}

	decoded, err := conversion.NewReader(rc.Reader, enc)
	if err != nil {
		rc.Close()
		return nil, fmt.Errorf("%s: %w", pathOrURL, err)
	}
	rc.Reader = decoded
	return rc, nil
}

func openHTTP(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req) // #nosec G107 - URL is user-provided.
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, fmt.Errorf("HTTP GET %s: unexpected status %s", url, resp.Status)
	}
	return resp.Body, nil
}
