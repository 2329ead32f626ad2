package store_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/tempmail-watcher/internal/model"
	"github.com/nhle/tempmail-watcher/internal/store"
	"github.com/nhle/tempmail-watcher/tests/testutil"
)

func sampleMessage(n int) model.Message {
	return model.Message{
		ID:       fmt.Sprintf("msg-%d", n),
		Provider: model.ProviderMailTM,
		Address:  "box@example.com",
		From:     "alice@example.org",
		Subject:  fmt.Sprintf("subject %d", n),
		Date:     "2025-01-02T03:04:05.000Z",
		Body:     "hello",
		Raw:      `{"subject":"hello"}`,
	}
}

func TestSaveAndListMessages(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		require.NoError(t, s.SaveMessage(ctx, sampleMessage(i)))
	}

	entries, err := s.ListMessages(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// Newest first.
	assert.Equal(t, "msg-3", entries[0].Message.ID)
	assert.Equal(t, "msg-1", entries[2].Message.ID)

	first := entries[2]
	assert.NotEmpty(t, first.RecordID)
	assert.False(t, first.ReceivedAt.IsZero())
	assert.Equal(t, model.ProviderMailTM, first.Message.Provider)
	assert.Equal(t, "box@example.com", first.Message.Address)
	assert.Equal(t, "alice@example.org", first.Message.From)
	assert.Equal(t, "subject 1", first.Message.Subject)
	assert.Equal(t, "hello", first.Message.Body)
	assert.Equal(t, `{"subject":"hello"}`, first.Message.Raw)
}

func TestListMessagesLimit(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		require.NoError(t, s.SaveMessage(ctx, sampleMessage(i)))
	}

	entries, err := s.ListMessages(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "msg-5", entries[0].Message.ID)
	assert.Equal(t, "msg-4", entries[1].Message.ID)
}

func TestSaveMessageTrimsToCap(t *testing.T) {
	s, err := store.Open(":memory:", 3)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	ctx := context.Background()
	for i := 1; i <= 5; i++ {
		require.NoError(t, s.SaveMessage(ctx, sampleMessage(i)))
	}

	count, err := s.CountMessages(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	entries, err := s.ListMessages(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "msg-5", entries[0].Message.ID)
	assert.Equal(t, "msg-3", entries[2].Message.ID)
}

func TestClear(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveMessage(ctx, sampleMessage(1)))
	require.NoError(t, s.Clear(ctx))

	count, err := s.CountMessages(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestExportJSONChronological(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		require.NoError(t, s.SaveMessage(ctx, sampleMessage(i)))
	}

	var buf bytes.Buffer
	count, err := s.ExportJSON(ctx, &buf)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	var entries []store.HistoryEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entries))
	require.Len(t, entries, 3)

	// Oldest first in the export file.
	assert.Equal(t, "msg-1", entries[0].Message.ID)
	assert.Equal(t, "msg-3", entries[2].Message.ID)
}

func TestDuplicateMessageIDsAreDistinctRecords(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	m := sampleMessage(1)
	require.NoError(t, s.SaveMessage(ctx, m))
	require.NoError(t, s.SaveMessage(ctx, m))

	entries, err := s.ListMessages(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.NotEqual(t, entries[0].RecordID, entries[1].RecordID)
}
