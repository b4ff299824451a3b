package salesforce

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockClient implements Client for testing.
type mockClient struct {
	queryFn            func(ctx context.Context, soql string, out any) error
	insertCollectionFn func(ctx context.Context, sObjectName string, records []map[string]any) ([]CollectionResult, error)
	updateCollectionFn func(ctx context.Context, sObjectName string, records []CollectionRecord) ([]CollectionResult, error)
}

func (m *mockClient) Query(ctx context.Context, soql string, out any) error {
	if m.queryFn != nil {
		return m.queryFn(ctx, soql, out)
	}
	return nil
}

func (m *mockClient) InsertCollection(ctx context.Context, sObjectName string, records []map[string]any) ([]CollectionResult, error) {
	if m.insertCollectionFn != nil {
		return m.insertCollectionFn(ctx, sObjectName, records)
	}
	results := make([]CollectionResult, len(records))
	for i := range records {
		results[i] = CollectionResult{ID: fmt.Sprintf("00Q%d", i), Success: true}
	}
	return results, nil
}

func (m *mockClient) UpdateCollection(ctx context.Context, sObjectName string, records []CollectionRecord) ([]CollectionResult, error) {
	if m.updateCollectionFn != nil {
		return m.updateCollectionFn(ctx, sObjectName, records)
	}
	results := make([]CollectionResult, len(records))
	for i, r := range records {
		results[i] = CollectionResult{ID: r.ID, Success: true}
	}
	return results, nil
}

func TestFindLeadIDsByEmail(t *testing.T) {
	var gotSOQL string
	mc := &mockClient{
		queryFn: func(_ context.Context, soql string, out any) error {
			gotSOQL = soql
			leads := out.(*[]Lead)
			*leads = []Lead{{ID: "00Qa", Email: "Jane@Acme.com"}}
			return nil
		},
	}

	ids, err := FindLeadIDsByEmail(context.Background(), mc, []string{"jane@acme.com", "o'brien@x.io"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"jane@acme.com": "00Qa"}, ids)
	assert.Contains(t, gotSOQL, "FROM Lead WHERE Email IN ('jane@acme.com', 'o\\'brien@x.io')")
}

func TestFindLeadIDsByEmail_Batches(t *testing.T) {
	calls := 0
	mc := &mockClient{
		queryFn: func(_ context.Context, soql string, _ any) error {
			calls++
			return nil
		},
	}

	emails := make([]string, maxBatchSize+1)
	for i := range emails {
		emails[i] = fmt.Sprintf("u%d@x.io", i)
	}
	_, err := FindLeadIDsByEmail(context.Background(), mc, emails)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestFindLeadIDsByEmail_Error(t *testing.T) {
	mc := &mockClient{
		queryFn: func(context.Context, string, any) error { return assert.AnError },
	}
	_, err := FindLeadIDsByEmail(context.Background(), mc, []string{"a@b.c"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sf: find leads by email")
}

func TestFindLeadIDsByEmail_Empty(t *testing.T) {
	mc := &mockClient{
		queryFn: func(context.Context, string, any) error {
			t.Fatal("query should not be called")
			return nil
		},
	}
	ids, err := FindLeadIDsByEmail(context.Background(), mc, nil)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestBulkInsert_Batches(t *testing.T) {
	var sizes []int
	mc := &mockClient{
		insertCollectionFn: func(_ context.Context, name string, records []map[string]any) ([]CollectionResult, error) {
			assert.Equal(t, "Lead", name)
			sizes = append(sizes, len(records))
			return make([]CollectionResult, len(records)), nil
		},
	}

	records := make([]map[string]any, 450)
	results, err := BulkInsert(context.Background(), mc, "Lead", records)
	require.NoError(t, err)
	assert.Len(t, results, 450)
	assert.Equal(t, []int{200, 200, 50}, sizes)
}

func TestBulkUpdate_ErrorKeepsPartialResults(t *testing.T) {
	calls := 0
	mc := &mockClient{
		updateCollectionFn: func(_ context.Context, _ string, records []CollectionRecord) ([]CollectionResult, error) {
			calls++
			if calls == 2 {
				return nil, assert.AnError
			}
			return make([]CollectionResult, len(records)), nil
		},
	}

	records := make([]CollectionRecord, 250)
	results, err := BulkUpdate(context.Background(), mc, "Lead", records)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "batch 1"))
	assert.Len(t, results, 200)
}

func TestEscapeSoql(t *testing.T) {
	assert.Equal(t, "o\\'brien", escapeSoql("o'brien"))
}
