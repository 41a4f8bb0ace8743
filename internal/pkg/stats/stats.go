// Package stats records canvas usage for the end-of-run report.
package stats

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"place/internal/pkg/board"

	"github.com/pkg/errors"
)

// DefaultReportPath is where the report is written unless overridden.
const DefaultReportPath = "ServerStatistics.txt"

// Recorder accumulates per-cell change history and per-user change
// counts for the lifetime of a server run. It only ever observes
// committed tiles, so its view matches what was broadcast.
type Recorder struct {
	mu          sync.Mutex
	startedAt   time.Time
	history     [][][]board.Tile
	userChanges map[string]int
}

// NewRecorder creates a recorder seeded with the board's initial tiles.
func NewRecorder(b *board.Board) *Recorder {
	dim := b.Dim()
	history := make([][][]board.Tile, dim)
	for row := 0; row < dim; row++ {
		history[row] = make([][]board.Tile, dim)
		for col := 0; col < dim; col++ {
			history[row][col] = []board.Tile{b.Get(row, col)}
		}
	}
	return &Recorder{
		startedAt:   time.Now(),
		history:     history,
		userChanges: make(map[string]int),
	}
}

// Record appends a committed tile to its cell's history and bumps the
// owner's change count.
func (r *Recorder) Record(tile board.Tile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.history[tile.Row][tile.Col] = append(r.history[tile.Row][tile.Col], tile)
	r.userChanges[tile.Owner]++
}

// History returns the change history for one cell, oldest first.
func (r *Recorder) History(row, col int) []board.Tile {
	r.mu.Lock()
	defer r.mu.Unlock()
	history := make([]board.Tile, len(r.history[row][col]))
	copy(history, r.history[row][col])
	return history
}

// UserChanges returns the change count per display name.
func (r *Recorder) UserChanges() map[string]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[string]int, len(r.userChanges))
	for user, n := range r.userChanges {
		counts[user] = n
	}
	return counts
}

// Report writes the end-of-run summary: run times, the users with the
// most and least changes, and the average change rate.
func (r *Recorder) Report(w io.Writer, endedAt time.Time) error {
	r.mu.Lock()
	startedAt := r.startedAt
	counts := make(map[string]int, len(r.userChanges))
	for user, n := range r.userChanges {
		counts[user] = n
	}
	r.mu.Unlock()

	var sb strings.Builder
	sb.WriteString("Statistics for PlaceServer:\n\n")
	sb.WriteString(fmt.Sprintf("Server start time: %s\n", startedAt.Format("01/02/06 15:04:05")))
	sb.WriteString(fmt.Sprintf("Server end time: %s\n", endedAt.Format("01/02/06 15:04:05")))
	run := endedAt.Sub(startedAt)
	sb.WriteString(fmt.Sprintf("Server run time: %d %s %d %s %d %s\n\n",
		int(run.Hours())%24, plural("hour", int(run.Hours())%24),
		int(run.Minutes())%60, plural("minute", int(run.Minutes())%60),
		int(run.Seconds())%60, plural("second", int(run.Seconds())%60)))

	max, min, total := 0, 0, 0
	var most, least []string
	if len(counts) > 0 {
		first := true
		for _, n := range counts {
			total += n
			if first || n > max {
				max = n
			}
			if first || n < min {
				min = n
			}
			first = false
		}
		for user, n := range counts {
			if n == max {
				most = append(most, user)
			}
			if n == min {
				least = append(least, user)
			}
		}
		sort.Strings(most)
		sort.Strings(least)
	}
	sb.WriteString(fmt.Sprintf("Users with the most changes (%d changes): %s\n", max, strings.Join(most, " ")))
	sb.WriteString(fmt.Sprintf("Users with the least changes (%d changes): %s\n", min, strings.Join(least, " ")))
	perMinute := float64(total) / (run.Minutes() + 1e-9)
	sb.WriteString(fmt.Sprintf("Average changes per minute: %f\n", perMinute))

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return errors.Wrap(err, "write report failed")
	}
	return nil
}

// WriteFile writes the report to path.
func (r *Recorder) WriteFile(path string, endedAt time.Time) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create report file failed")
	}
	if err := r.Report(f, endedAt); err != nil {
		f.Close()
		return err
	}
	return errors.Wrap(f.Close(), "close report file failed")
}

func plural(unit string, n int) string {
	if n == 1 {
		return unit
	}
	return unit + "s"
}
