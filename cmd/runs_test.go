package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/campaign-cli/internal/model"
)

func sampleDetail() *runDetail {
	created := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	return &runDetail{
		Run: &model.Run{
			ID:        "0b9d7a3e-1111-2222-3333-444455556666",
			Source:    "data/leads.csv",
			Status:    model.RunStatusComplete,
			Summary:   &model.RunSummary{Total: 2, Sent: 1, High: 1, Low: 1},
			CreatedAt: created,
			UpdatedAt: created.Add(42 * time.Second),
		},
		Leads: []model.LeadResult{{Row: 0, Name: "Jane Doe", Score: 80, Priority: "High", Status: "SENT"}},
	}
}

func TestFormatRunsList(t *testing.T) {
	d := sampleDetail()
	long := model.Run{
		ID:        "short",
		Source:    "https://example.com/exports/2026/q1/leads-final.csv",
		Status:    model.RunStatusFailed,
		CreatedAt: d.Run.CreatedAt,
		UpdatedAt: d.Run.CreatedAt,
	}

	var buf bytes.Buffer
	formatRunsList(&buf, []model.Run{*d.Run, long})
	out := buf.String()

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "SOURCE")
	assert.Contains(t, lines[2], "0b9d7a3e")
	assert.NotContains(t, lines[2], "0b9d7a3e-")
	assert.Contains(t, lines[2], "complete")
	assert.Contains(t, lines[2], "42s")
	assert.Contains(t, lines[2], "2026-03-02 09:30")
	assert.Contains(t, lines[3], "...")
	assert.Contains(t, lines[3], "leads-final.csv")
	assert.Contains(t, lines[3], " - ")
}

func TestTruncateID(t *testing.T) {
	assert.Equal(t, "abcdefgh", truncateID("abcdefgh-ijkl"))
	assert.Equal(t, "abc", truncateID("abc"))
}

func TestWriteRunDetail_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeRunDetail(&buf, sampleDetail(), "json"))
	assert.Contains(t, buf.String(), `"status": "complete"`)
	assert.Contains(t, buf.String(), `"name": "Jane Doe"`)
}

func TestWriteRunDetail_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeRunDetail(&buf, sampleDetail(), "yaml"))

	var got struct {
		Run struct {
			Status  string `yaml:"status"`
			Summary struct {
				Total int `yaml:"total"`
			} `yaml:"summary"`
		} `yaml:"run"`
		Leads []struct {
			Name  string `yaml:"name"`
			Score int    `yaml:"score"`
		} `yaml:"leads"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "complete", got.Run.Status)
	assert.Equal(t, 2, got.Run.Summary.Total)
	require.Len(t, got.Leads, 1)
	assert.Equal(t, 80, got.Leads[0].Score)
}

func TestWriteRunDetail_UnknownFormat(t *testing.T) {
	err := writeRunDetail(&bytes.Buffer{}, sampleDetail(), "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown format "xml"`)
}
