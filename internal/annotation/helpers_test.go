package annotation_test

import (
	"context"
	"fmt"
	"slices"
	"testing"

	"github.com/JaimeStill/newsqual/internal/annotation"
	"github.com/JaimeStill/newsqual/internal/options"
)

type fakeBank struct {
	opts  options.OptionSet
	saves int
	err   error
}

func newFakeBank() *fakeBank {
	return &fakeBank{opts: options.Defaults()}
}

func (b *fakeBank) Options() options.OptionSet {
	return b.opts.Clone()
}

func (b *fakeBank) AddCustomCategory(ctx context.Context, name string) (bool, error) {
	if b.err != nil {
		return false, b.err
	}
	if slices.Contains(b.opts.SavedUserCategories, name) {
		return false, nil
	}
	b.opts.SavedUserCategories = append(b.opts.SavedUserCategories, name)
	b.saves++
	return true, nil
}

type recorder struct {
	classified map[annotation.BucketName]int
	disposed   map[annotation.Disposition]int
}

func newRecorder() *recorder {
	return &recorder{
		classified: make(map[annotation.BucketName]int),
		disposed:   make(map[annotation.Disposition]int),
	}
}

func (r *recorder) Classified(b annotation.BucketName, _ string) { r.classified[b]++ }
func (r *recorder) Disposed(d annotation.Disposition, _ annotation.BucketName) { r.disposed[d]++ }

func records(n int) []annotation.Fields {
	out := make([]annotation.Fields, n)
	for i := range out {
		out[i] = annotation.Fields{
			{Name: "Title", Value: fmt.Sprintf("Story %d", i)},
			{Name: "URL", Value: fmt.Sprintf("https://news.example/%d", i)},
		}
	}
	return out
}

func loaded(t *testing.T, n int, opts ...annotation.Option) (*annotation.Workspace, *fakeBank) {
	t.Helper()
	bank := newFakeBank()
	w := annotation.New(bank, opts...)
	if err := w.Load("news.xlsx", records(n)); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return w, bank
}

func ptr(s string) *string {
	return &s
}

func title(t *testing.T, w *annotation.Workspace) string {
	t.Helper()
	snap := w.Snapshot()
	if snap.Row == nil {
		t.Fatal("no current row")
	}
	v, _ := snap.Row.Fields.Get("Title")
	return v.(string)
}

func complete(category string) annotation.Qualification {
	return annotation.Qualification{
		Category:   category,
		Dominance:  ptr("Primary"),
		Prominence: []string{"Headline"},
		Tonality:   ptr("Positive"),
	}
}

func selectAndConfirm(t *testing.T, w *annotation.Workspace, categories ...string) {
	t.Helper()
	for _, c := range categories {
		if err := w.Toggle(c, true); err != nil {
			t.Fatalf("Toggle(%q) error = %v", c, err)
		}
	}
	if err := w.Confirm(); err != nil {
		t.Fatalf("Confirm() error = %v", err)
	}
}

func rawTotal(w *annotation.Workspace) int {
	return w.Count(annotation.Active) + w.Count(annotation.ToBeDecided) + w.Count(annotation.Deleted)
}
