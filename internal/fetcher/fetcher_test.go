package fetcher

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsRemote(t *testing.T) {
	assert.True(t, IsRemote("https://example.com/leads.csv"))
	assert.True(t, IsRemote("HTTP://example.com/leads.csv"))
	assert.True(t, IsRemote("ftp://ftp.example.com/leads.csv"))
	assert.False(t, IsRemote("data/leads.csv"))
	assert.False(t, IsRemote("C:\\data\\leads.csv"))
	assert.False(t, IsRemote("s3://bucket/leads.csv"))
}

func TestExtension(t *testing.T) {
	tests := map[string]string{
		"data/leads.csv":                       ".csv",
		"data/Leads.XLSX":                      ".xlsx",
		"https://example.com/x/leads.xlsx?v=2": ".xlsx",
		"ftp://ftp.example.com/leads.csv":      ".csv",
		"data.d/leads":                         "",
		"leads":                                "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Extension(in), in)
	}
}

func TestOpener_LocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leads.csv")
	require.NoError(t, os.WriteFile(path, []byte("name\n"), 0o644))

	rc, err := NewOpener(Options{}).Open(context.Background(), path)
	require.NoError(t, err)
	defer rc.Close() //nolint:errcheck

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "name\n", string(data))
}

func TestOpener_MissingFile(t *testing.T) {
	_, err := NewOpener(Options{}).Open(context.Background(), filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetcher: open")
}

func TestOpener_HTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("remote"))
	}))
	defer srv.Close()

	rc, err := NewOpener(Options{}).Open(context.Background(), srv.URL+"/leads.csv")
	require.NoError(t, err)
	defer rc.Close() //nolint:errcheck

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "remote", string(data))
}

type stubFetcher struct{ url string }

func (s *stubFetcher) Download(_ context.Context, url string) (io.ReadCloser, error) {
	s.url = url
	return io.NopCloser(nil), nil
}

func TestOpener_FTPDispatch(t *testing.T) {
	stub := &stubFetcher{}
	o := &Opener{FTP: stub}
	_, err := o.Open(context.Background(), "ftp://ftp.example.com/leads.csv")
	require.NoError(t, err)
	assert.Equal(t, "ftp://ftp.example.com/leads.csv", stub.url)
}
