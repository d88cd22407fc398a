package resource

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linebridge/internal/store"
	"linebridge/pkg/errors"
)

type fakeQuerier struct {
	records []store.MessageRecord
	err     error
	filter  store.QueryFilter
	calls   int
}

func (f *fakeQuerier) Query(_ context.Context, filter store.QueryFilter) ([]store.MessageRecord, error) {
	f.calls++
	f.filter = filter
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

func TestReader_ReadResource(t *testing.T) {
	querier := &fakeQuerier{
		records: []store.MessageRecord{
			{
				ID:        "msg-1",
				Type:      store.TypeText,
				SenderID:  "U1",
				Timestamp: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
				Content:   store.Content{Text: &store.TextContent{Body: "hello"}},
			},
		},
	}
	reader := NewReader(querier)

	body, err := reader.ReadResource(context.Background(), "line://text/data?sender=U1")
	require.NoError(t, err)

	assert.Equal(t, store.TypeText, querier.filter.Type)
	assert.Equal(t, "U1", querier.filter.Sender)

	var decoded struct {
		Messages []store.MessageRecord `json:"messages"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &decoded))
	require.Len(t, decoded.Messages, 1)
	assert.Equal(t, "msg-1", decoded.Messages[0].ID)
	assert.Equal(t, "hello", decoded.Messages[0].Content.Text.Body)
}

func TestReader_ReadResource_EmptyResult(t *testing.T) {
	reader := NewReader(&fakeQuerier{})

	body, err := reader.ReadResource(context.Background(), "line://sticker/data")
	require.NoError(t, err)

	var decoded struct {
		Messages []store.MessageRecord `json:"messages"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &decoded))
	assert.Empty(t, decoded.Messages)
}

func TestReader_ReadResource_InvalidURI(t *testing.T) {
	querier := &fakeQuerier{}
	reader := NewReader(querier)

	_, err := reader.ReadResource(context.Background(), "line://bogus/data")
	require.Error(t, err)
	assert.True(t, errors.IsInvalidURI(err))

	// The store must not be touched for an unparseable URI.
	assert.Equal(t, 0, querier.calls)
}

func TestReader_ReadResource_StoreFailure(t *testing.T) {
	querier := &fakeQuerier{err: errors.ErrStorageCorrupt}
	reader := NewReader(querier)

	// A failing read surfaces as unavailable, never as an empty document.
	_, err := reader.ReadResource(context.Background(), "line://text/data")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrResourceUnavailable)
}
