package stats

import (
	"strings"
	"testing"
	"time"

	"place/internal/pkg/board"

	"github.com/stretchr/testify/require"
)

func TestRecordTracksHistoryAndCounts(t *testing.T) {
	b := board.New(3)
	r := NewRecorder(b)

	r.Record(board.Tile{Row: 1, Col: 1, Owner: "alice", Color: 2})
	r.Record(board.Tile{Row: 1, Col: 1, Owner: "bob", Color: 3})
	r.Record(board.Tile{Row: 0, Col: 2, Owner: "alice", Color: 4})

	history := r.History(1, 1)
	require.Len(t, history, 3) // initial tile plus two changes
	require.Equal(t, "alice", history[1].Owner)
	require.Equal(t, "bob", history[2].Owner)

	counts := r.UserChanges()
	require.Equal(t, 2, counts["alice"])
	require.Equal(t, 1, counts["bob"])
}

func TestReportNamesMostAndLeastActiveUsers(t *testing.T) {
	b := board.New(2)
	r := NewRecorder(b)
	for i := 0; i < 3; i++ {
		r.Record(board.Tile{Row: 0, Col: 0, Owner: "alice"})
	}
	r.Record(board.Tile{Row: 0, Col: 1, Owner: "bob"})

	var sb strings.Builder
	require.NoError(t, r.Report(&sb, time.Now()))
	report := sb.String()
	require.Contains(t, report, "Statistics for PlaceServer:")
	require.Contains(t, report, "Users with the most changes (3 changes): alice")
	require.Contains(t, report, "Users with the least changes (1 changes): bob")
	require.Contains(t, report, "Average changes per minute:")
}

func TestReportWithNoChanges(t *testing.T) {
	r := NewRecorder(board.New(1))
	var sb strings.Builder
	require.NoError(t, r.Report(&sb, time.Now()))
	require.Contains(t, sb.String(), "Users with the most changes (0 changes):")
}

func TestWriteFile(t *testing.T) {
	r := NewRecorder(board.New(1))
	path := t.TempDir() + "/report.txt"
	require.NoError(t, r.WriteFile(path, time.Now()))
	require.FileExists(t, path)
}
