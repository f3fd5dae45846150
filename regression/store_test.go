package regression

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "regression.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordMarksPassedWithinThreshold(t *testing.T) {
	s := openTestStore(t)

	run, err := s.Record(0.004, 0.01, 0.01, 2048)
	require.NoError(t, err)
	require.True(t, run.Passed)
	require.NotEqual(t, "", run.ClipID.String())
}

func TestRecordMarksFailedOverThreshold(t *testing.T) {
	s := openTestStore(t)

	run, err := s.Record(0.05, 0.01, 0.01, 4096)
	require.NoError(t, err)
	require.False(t, run.Passed)
}

func TestHistoryReturnsMostRecentFirst(t *testing.T) {
	s := openTestStore(t)

	first, err := s.Record(0.004, 0.01, 0.01, 1024)
	require.NoError(t, err)
	second, err := s.Record(0.006, 0.01, 0.01, 1536)
	require.NoError(t, err)

	history, err := s.History(0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, second.ClipID, history[0].ClipID)
	require.Equal(t, first.ClipID, history[1].ClipID)
}

func TestHistoryRespectsLimit(t *testing.T) {
	s := openTestStore(t)
	for i := 0; i < 3; i++ {
		_, err := s.Record(0.004, 0.01, 0.01, 1024)
		require.NoError(t, err)
	}

	history, err := s.History(1)
	require.NoError(t, err)
	require.Len(t, history, 1)
}
