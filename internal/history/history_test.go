package history

import (
	"fmt"
	"testing"
	"time"

	"translator-go/internal/store"
	"translator-go/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, limit int) *Service {
	t.Helper()
	s := store.NewMemoryStore()
	t.Cleanup(func() { s.Close() })
	return NewService(s, types.HistoryConfig{Limit: limit, SessionTTL: time.Hour})
}

// TestService_AppendAndEntries tests chronological append and read-back
func TestService_AppendAndEntries(t *testing.T) {
	svc := newTestService(t, 20)

	require.NoError(t, svc.Append("s1", Entry{
		Direction:      types.DirectionENUR,
		SourceText:     "hello",
		TranslatedText: "ہیلو",
	}))
	require.NoError(t, svc.Append("s1", Entry{
		Direction:      types.DirectionUREN,
		SourceText:     "شکریہ",
		TranslatedText: "thank you",
	}))

	entries, err := svc.Entries("s1")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "hello", entries[0].SourceText)
	assert.Equal(t, "ہیلو", entries[0].TranslatedText)
	assert.Equal(t, types.DirectionENUR, entries[0].Direction)
	assert.Equal(t, int64(0), entries[0].Sequence)

	assert.Equal(t, "thank you", entries[1].TranslatedText)
	assert.Equal(t, int64(1), entries[1].Sequence)
	assert.False(t, entries[1].CreatedAt.IsZero())
}

// TestService_LimitEviction tests that overflow evicts the oldest entry and
// preserves the order of the remainder
func TestService_LimitEviction(t *testing.T) {
	limit := 5
	svc := newTestService(t, limit)

	for i := 0; i < limit+3; i++ {
		require.NoError(t, svc.Append("s1", Entry{
			Direction:  types.DirectionENUR,
			SourceText: fmt.Sprintf("text-%d", i),
		}))
	}

	entries, err := svc.Entries("s1")
	require.NoError(t, err)
	require.Len(t, entries, limit)

	// Oldest three were evicted; the rest keep their relative order
	for i, entry := range entries {
		assert.Equal(t, fmt.Sprintf("text-%d", i+3), entry.SourceText)
	}
}

// TestService_SequenceMonotonicAcrossEviction tests that sequences keep
// climbing after the session fills up instead of repeating the limit
func TestService_SequenceMonotonicAcrossEviction(t *testing.T) {
	limit := 3
	svc := newTestService(t, limit)

	for i := 0; i < limit+3; i++ {
		require.NoError(t, svc.Append("s1", Entry{
			Direction:  types.DirectionENUR,
			SourceText: fmt.Sprintf("text-%d", i),
		}))
	}

	entries, err := svc.Entries("s1")
	require.NoError(t, err)
	require.Len(t, entries, limit)

	// Six appends total; the surviving entries are the last three
	for i, entry := range entries {
		assert.Equal(t, int64(i+3), entry.Sequence)
	}
	for i := 1; i < len(entries); i++ {
		assert.Greater(t, entries[i].Sequence, entries[i-1].Sequence)
	}
}

// TestService_SessionIsolation tests that sessions do not share history
func TestService_SessionIsolation(t *testing.T) {
	svc := newTestService(t, 10)

	require.NoError(t, svc.Append("a", Entry{SourceText: "for-a", Direction: types.DirectionENUR}))
	require.NoError(t, svc.Append("b", Entry{SourceText: "for-b", Direction: types.DirectionUREN}))

	entriesA, err := svc.Entries("a")
	require.NoError(t, err)
	require.Len(t, entriesA, 1)
	assert.Equal(t, "for-a", entriesA[0].SourceText)

	entriesB, err := svc.Entries("b")
	require.NoError(t, err)
	require.Len(t, entriesB, 1)
	assert.Equal(t, "for-b", entriesB[0].SourceText)
}

// TestService_UnknownSession tests that a fresh session reads as empty
func TestService_UnknownSession(t *testing.T) {
	svc := newTestService(t, 10)

	entries, err := svc.Entries("never-seen")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

// TestService_Clear tests dropping a session
func TestService_Clear(t *testing.T) {
	svc := newTestService(t, 10)

	require.NoError(t, svc.Append("s1", Entry{SourceText: "x", Direction: types.DirectionENUR}))
	require.NoError(t, svc.Clear("s1"))

	entries, err := svc.Entries("s1")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

// TestService_SessionExpiry tests that idle sessions expire
func TestService_SessionExpiry(t *testing.T) {
	s := store.NewMemoryStore()
	t.Cleanup(func() { s.Close() })
	svc := NewService(s, types.HistoryConfig{Limit: 10, SessionTTL: 10 * time.Millisecond})

	require.NoError(t, svc.Append("s1", Entry{SourceText: "x", Direction: types.DirectionENUR}))
	time.Sleep(30 * time.Millisecond)

	entries, err := svc.Entries("s1")
	require.NoError(t, err)
	assert.Empty(t, entries)
}
