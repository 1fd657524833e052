package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	startFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
	otherFEN = "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1"
)

func openTest(t *testing.T) *Storage {
	t.Helper()
	s, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPreferencesDefaultWhenUnset(t *testing.T) {
	s := openTest(t)

	prefs, err := s.LoadPreferences()
	require.NoError(t, err)
	assert.Equal(t, DefaultPreferences(), prefs)
}

func TestPreferencesRoundTrip(t *testing.T) {
	s := openTest(t)

	want := &Preferences{EvalNoise: true, NoiseSeed: 42}
	require.NoError(t, s.SavePreferences(want))
	assert.False(t, want.LastUsed.IsZero())

	got, err := s.LoadPreferences()
	require.NoError(t, err)
	assert.True(t, got.EvalNoise)
	assert.Equal(t, uint64(42), got.NoiseSeed)
	assert.True(t, got.LastUsed.Equal(want.LastUsed))
}

func TestRecordsNewestFirstPerPosition(t *testing.T) {
	s := openTest(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, mv := range []string{"e2e4", "d2d4", "c2c4"} {
		require.NoError(t, s.RecordSearch(SearchRecord{
			FEN: startFEN, BestMove: mv, Depth: i + 1, Nodes: 100, At: base.Add(time.Duration(i) * time.Minute),
		}))
	}
	require.NoError(t, s.RecordSearch(SearchRecord{FEN: otherFEN, BestMove: "a1a8", Nodes: 7, At: base}))

	recs, err := s.Records(startFEN, 0)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, "c2c4", recs[0].BestMove)
	assert.Equal(t, "e2e4", recs[2].BestMove)

	recs, err = s.Records(startFEN, 2)
	require.NoError(t, err)
	assert.Len(t, recs, 2)

	recs, err = s.Records(otherFEN, 0)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "a1a8", recs[0].BestMove)

	all, err := s.Records("", 0)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestRecordSearchStampsTime(t *testing.T) {
	s := openTest(t)

	require.NoError(t, s.RecordSearch(SearchRecord{FEN: startFEN, BestMove: "g1f3"}))
	recs, err := s.Records(startFEN, 1)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.False(t, recs[0].At.IsZero())
}

func TestStatsTotals(t *testing.T) {
	s := openTest(t)

	st, err := s.Stats()
	require.NoError(t, err)
	assert.Zero(t, st.Searches)

	require.NoError(t, s.RecordSearch(SearchRecord{FEN: startFEN, Nodes: 1500, Elapsed: time.Second}))
	require.NoError(t, s.RecordSearch(SearchRecord{FEN: otherFEN, Nodes: 500, Elapsed: time.Second}))

	st, err = s.Stats()
	require.NoError(t, err)
	assert.Equal(t, 2, st.Searches)
	assert.Equal(t, uint64(2000), st.Nodes)
	assert.Equal(t, 2*time.Second, st.Elapsed)
}

func TestOpenPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s.SavePreferences(&Preferences{NoiseSeed: 9}))
	require.NoError(t, s.Close())

	assert.DirExists(t, filepath.Join(dir, "db"))

	s, err = Open(dir)
	require.NoError(t, err)
	defer s.Close()
	prefs, err := s.LoadPreferences()
	require.NoError(t, err)
	assert.Equal(t, uint64(9), prefs.NoiseSeed)
}
