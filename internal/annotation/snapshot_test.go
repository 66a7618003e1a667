package annotation_test

import (
	"testing"

	"github.com/JaimeStill/newsqual/internal/annotation"
)

func TestSnapshotCautionMessage(t *testing.T) {
	w, bank := loaded(t, 1)
	bank.opts.Category = []string{"Vision", "Innovation"}

	selectAndConfirm(t, w, "Vision")
	if _, err := w.SaveAndReview(complete("Vision")); err != nil {
		t.Fatal(err)
	}

	want := "Please select categories from non-selected categories or click on Save & Next to proceed ahead."
	if got := w.Snapshot().Annotation.CautionMessage; got != want {
		t.Errorf("caution: got %q, want %q", got, want)
	}

	if err := w.Toggle("Innovation", true); err != nil {
		t.Fatal(err)
	}
	if _, err := w.SaveAndReview(complete("Innovation")); err != nil {
		t.Fatal(err)
	}

	want = "All categories have been qualified for this row. Click on Save & Next to proceed ahead."
	if got := w.Snapshot().Annotation.CautionMessage; got != want {
		t.Errorf("caution: got %q, want %q", got, want)
	}
}

func TestSnapshotWithoutUpload(t *testing.T) {
	snap := annotation.New(newFakeBank()).Snapshot()

	if snap.Uploaded || snap.Row != nil || snap.Annotation != nil {
		t.Errorf("unexpected current row: %+v", snap)
	}
	if snap.ExportAvailable {
		t.Error("export available without outcomes")
	}
	if len(snap.Counts) != 5 {
		t.Errorf("counts: got %d buckets, want 5", len(snap.Counts))
	}
}

func TestSnapshotExportAvailable(t *testing.T) {
	w, _ := loaded(t, 1)
	selectAndConfirm(t, w, "Vision")
	if _, err := w.SaveAndReview(complete("Vision")); err != nil {
		t.Fatal(err)
	}
	if err := w.Advance(annotation.ConsumeAndNext); err != nil {
		t.Fatal(err)
	}

	snap := w.Snapshot()
	if !snap.ExportAvailable {
		t.Error("export not available after qualifying")
	}
	if snap.Uploaded {
		t.Error("upload flag kept after last row consumed")
	}
	if snap.Counts[annotation.Qualified] != 1 {
		t.Errorf("qualified count: got %d", snap.Counts[annotation.Qualified])
	}
}
