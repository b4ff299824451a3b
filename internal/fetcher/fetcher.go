// Package fetcher opens lead sources from local paths, HTTP(S) and FTP, and
// parses CSV and XLSX tables.
package fetcher

import (
	"context"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// Fetcher downloads a remote resource.
type Fetcher interface {
	// Download fetches the URL and returns the response body.
	Download(ctx context.Context, url string) (io.ReadCloser, error)
}

// Options configures remote downloads.
type Options struct {
	UserAgent string
	Timeout   time.Duration
}

// Opener resolves a lead source to a reader. Local paths are opened from disk;
// http, https and ftp URLs go through the matching Fetcher.
type Opener struct {
	HTTP Fetcher
	FTP  Fetcher
}

// NewOpener creates an Opener with default HTTP and FTP fetchers.
func NewOpener(opts Options) *Opener {
	return &Opener{
		HTTP: NewHTTPFetcher(HTTPOptions{UserAgent: opts.UserAgent, Timeout: opts.Timeout}),
		FTP:  NewFTPFetcher(FTPOptions{Timeout: opts.Timeout}),
	}
}

// IsRemote reports whether source is an http, https or ftp URL.
func IsRemote(source string) bool {
	switch scheme(source) {
	case "http", "https", "ftp":
		return true
	}
	return false
}

// Open returns a reader for source. The caller must close it.
func (o *Opener) Open(ctx context.Context, source string) (io.ReadCloser, error) {
	switch scheme(source) {
	case "http", "https":
		return o.HTTP.Download(ctx, source)
	case "ftp":
		return o.FTP.Download(ctx, source)
	}

	f, err := os.Open(source)
	if err != nil {
		return nil, eris.Wrapf(err, "fetcher: open %s", source)
	}
	return f, nil
}

// Extension returns the lower-cased file extension of source, ignoring any
// URL query string.
func Extension(source string) string {
	p := source
	if IsRemote(source) {
		if u, err := url.Parse(source); err == nil {
			p = u.Path
		}
	}
	i := strings.LastIndex(p, ".")
	if i < 0 || strings.ContainsAny(p[i:], `/\`) {
		return ""
	}
	return strings.ToLower(p[i:])
}

func scheme(source string) string {
	i := strings.Index(source, "://")
	if i <= 0 {
		return ""
	}
	return strings.ToLower(source[:i])
}
