package sessions_test

import (
	"bytes"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/JaimeStill/newsqual/internal/annotation"
	"github.com/JaimeStill/newsqual/internal/options"
	"github.com/JaimeStill/newsqual/pkg/storage"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newBank(t *testing.T) options.System {
	t.Helper()
	dir := t.TempDir()
	store := options.NewFileStore(
		filepath.Join(dir, "qual_options.json"),
		filepath.Join(dir, "first_run_flag.txt"),
	)
	return options.New(store, discard())
}

func newArchive(t *testing.T) storage.System {
	t.Helper()
	store, err := storage.New(&storage.Config{
		Driver: storage.DriverFilesystem,
		Root:   filepath.Join(t.TempDir(), "archive"),
	}, discard())
	if err != nil {
		t.Fatalf("storage.New: %v", err)
	}
	return store
}

// clock is a manually advanced time source.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock() *clock {
	return &clock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// workbook renders a news sheet with n story rows.
func workbook(t *testing.T, n int) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows := [][]any{{"Title", "URL", "Outlet"}}
	for i := 1; i <= n; i++ {
		rows = append(rows, []any{
			"Story " + strconv.Itoa(i),
			"https://news.example/" + strconv.Itoa(i),
			"Daily Ledger",
		})
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatal(err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func ptr(s string) *string { return &s }

func complete() annotation.Qualification {
	return annotation.Qualification{
		Dominance:    ptr("Primary"),
		Prominence:   []string{"Headline"},
		Spokesperson: ptr("Quote"),
		Page:         2,
		Tonality:     ptr("Positive"),
	}
}

// qualifyCurrent selects, confirms, and fully qualifies one category on the
// current row.
func qualifyCurrent(category string) func(*annotation.Workspace) error {
	return func(ws *annotation.Workspace) error {
		if err := ws.Toggle(category, true); err != nil {
			return err
		}
		if err := ws.Confirm(); err != nil {
			return err
		}
		_, err := ws.SaveAndReview(complete())
		return err
	}
}
