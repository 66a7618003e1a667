package ingest_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"

	"github.com/JaimeStill/newsqual/internal/annotation"
	"github.com/JaimeStill/newsqual/internal/ingest"
)

func workbook(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
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
	return &buf
}

func TestRead(t *testing.T) {
	buf := workbook(t, [][]any{
		{"Title", "URL", "Reach"},
		{"Launch", "https://news.example/1", 1200},
		{},
		{"Merger", nil, 3.5},
		{"Short"},
	})

	got, err := ingest.Read(buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	want := []annotation.Fields{
		{{Name: "Title", Value: "Launch"}, {Name: "URL", Value: "https://news.example/1"}, {Name: "Reach", Value: int64(1200)}},
		{{Name: "Title", Value: "Merger"}, {Name: "URL", Value: nil}, {Name: "Reach", Value: 3.5}},
		{{Name: "Title", Value: "Short"}, {Name: "URL", Value: nil}, {Name: "Reach", Value: nil}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Read() mismatch (-want +got):\n%s", diff)
	}
}

func TestReadHeaders(t *testing.T) {
	buf := workbook(t, [][]any{
		{"Title", "", "Title"},
		{"a", "b", "c"},
	})

	got, err := ingest.Read(buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if diff := cmp.Diff([]string{"Title", "Unnamed: 1", "Title.1"}, got[0].Columns()); diff != "" {
		t.Errorf("columns (-want +got):\n%s", diff)
	}
}

func TestReadHeaderOnly(t *testing.T) {
	got, err := ingest.Read(workbook(t, [][]any{{"Title", "URL"}}))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("records: got %d, want 0", len(got))
	}
}

func TestReadInvalid(t *testing.T) {
	_, err := ingest.Read(strings.NewReader("Title,URL\nLaunch,https://news.example/1\n"))
	if !errors.Is(err, ingest.ErrInvalidFile) {
		t.Errorf("error = %v, want ErrInvalidFile", err)
	}
}

func TestReadKeepsTextCells(t *testing.T) {
	buf := workbook(t, [][]any{
		{"Code", "Ref", "Count"},
		{"007", "1e3", 42},
	})

	got, err := ingest.Read(buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	want := []annotation.Fields{
		{{Name: "Code", Value: "007"}, {Name: "Ref", Value: "1e3"}, {Name: "Count", Value: int64(42)}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Read() mismatch (-want +got):\n%s", diff)
	}
}

func TestReadRowsWiderThanHeader(t *testing.T) {
	buf := workbook(t, [][]any{
		{"Title", "URL"},
		{"Launch", "https://news.example/1", "note"},
		{"Merger"},
	})

	got, err := ingest.Read(buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	want := []annotation.Fields{
		{{Name: "Title", Value: "Launch"}, {Name: "URL", Value: "https://news.example/1"}, {Name: "Unnamed: 2", Value: "note"}},
		{{Name: "Title", Value: "Merger"}, {Name: "URL", Value: nil}, {Name: "Unnamed: 2", Value: nil}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Read() mismatch (-want +got):\n%s", diff)
	}
}
