package fetcher

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV_Basic(t *testing.T) {
	input := "name,title\nJane Doe,VP Sales\nBob,Intern\n"
	rows, err := ReadCSV(context.Background(), strings.NewReader(input), CSVOptions{})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"name", "title"}, rows[0])
	assert.Equal(t, []string{"Jane Doe", "VP Sales"}, rows[1])
}

func TestReadCSV_StripsUTF8BOM(t *testing.T) {
	input := "\ufeffname,email\nJane,jane@acme.io\n"
	rows, err := ReadCSV(context.Background(), strings.NewReader(input), CSVOptions{})
	require.NoError(t, err)
	assert.Equal(t, "name", rows[0][0])
}

func TestReadCSV_Latin1(t *testing.T) {
	// "José" in ISO-8859-1
	input := []byte("name\nJos\xe9\n")
	rows, err := ReadCSV(context.Background(), strings.NewReader(string(input)), CSVOptions{Encoding: "iso-8859-1"})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "José", rows[1][0])
}

func TestReadCSV_UnknownEncoding(t *testing.T) {
	_, err := ReadCSV(context.Background(), strings.NewReader("a\n"), CSVOptions{Encoding: "klingon"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown encoding")
}

func TestReadCSV_VariableFieldsAndTrim(t *testing.T) {
	input := "a, b ,c\n1,2\n"
	rows, err := ReadCSV(context.Background(), strings.NewReader(input), CSVOptions{TrimSpace: true})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"a", "b", "c"}, rows[0])
	assert.Equal(t, []string{"1", "2"}, rows[1])
}

func TestReadCSV_Semicolon(t *testing.T) {
	rows, err := ReadCSV(context.Background(), strings.NewReader("a;b\n1;2\n"), CSVOptions{Delimiter: ';'})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, rows[1])
}

func TestReadCSV_QuotedNewline(t *testing.T) {
	input := "name,notes\nJane,\"line one\nline two\"\n"
	rows, err := ReadCSV(context.Background(), strings.NewReader(input), CSVOptions{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "line one\nline two", rows[1][1])
}

func TestReadCSV_Empty(t *testing.T) {
	rows, err := ReadCSV(context.Background(), strings.NewReader(""), CSVOptions{})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestReadCSV_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ReadCSV(ctx, strings.NewReader("a\nb\n"), CSVOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "context cancelled")
}
