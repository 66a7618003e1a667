package annotation_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/JaimeStill/newsqual/internal/annotation"
)

func TestQualifyWalkThroughReview(t *testing.T) {
	w, _ := loaded(t, 3)
	selectAndConfirm(t, w, "Innovation", "Vision")

	snap := w.Snapshot()
	if snap.Annotation.Form == nil || snap.Annotation.Form.Step != annotation.StepQualifyFurther {
		t.Fatalf("form: got %+v, want qualify-further step", snap.Annotation.Form)
	}

	bucket, err := w.SaveAndQualifyFurther(annotation.Qualification{
		Dominance:  ptr("Primary"),
		Prominence: []string{"Headline"},
		Tonality:   ptr("Positive"),
	})
	if err != nil {
		t.Fatalf("SaveAndQualifyFurther() error = %v", err)
	}
	if bucket != annotation.Qualified {
		t.Errorf("bucket: got %s, want qualified", bucket)
	}
	if got := w.Snapshot().Annotation.Index; got != 1 {
		t.Fatalf("index: got %d, want 1", got)
	}

	_, err = w.SaveAndReview(annotation.Qualification{Tonality: ptr("Negative")})
	var verr *annotation.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("SaveAndReview() error = %v, want ValidationError", err)
	}
	if diff := cmp.Diff([]string{"Dominance"}, verr.Missing); diff != "" {
		t.Errorf("missing fields (-want +got):\n%s", diff)
	}

	snap = w.Snapshot()
	if snap.Annotation.Index != 1 {
		t.Errorf("index after failed save: got %d, want 1", snap.Annotation.Index)
	}
	if v := snap.Annotation.Form.Values.Tonality; v == nil || *v != "Negative" {
		t.Errorf("draft not preserved: %+v", snap.Annotation.Form.Values)
	}
	if w.Count(annotation.Qualified)+w.Count(annotation.Partial) != 1 {
		t.Errorf("outcome entries after failed save: got %d, want 1",
			w.Count(annotation.Qualified)+w.Count(annotation.Partial))
	}

	bucket, err = w.SaveAndReview(annotation.Qualification{
		Dominance:  ptr("Secondary"),
		Prominence: []string{"Co-visual Image"},
		Tonality:   ptr("Negative"),
	})
	if err != nil {
		t.Fatalf("SaveAndReview() error = %v", err)
	}
	if bucket != annotation.Qualified {
		t.Errorf("bucket: got %s, want qualified", bucket)
	}

	snap = w.Snapshot()
	if snap.Annotation.Index != 2 {
		t.Errorf("index: got %d, want 2", snap.Annotation.Index)
	}
	if !snap.Annotation.Caution {
		t.Error("caution not raised after review")
	}
	if snap.Annotation.Form != nil {
		t.Errorf("form offered in review: %+v", snap.Annotation.Form)
	}
	if len(snap.Annotation.Review) != 2 {
		t.Errorf("review listing: got %d entries, want 2", len(snap.Annotation.Review))
	}

	outcomes, _ := w.Outcomes(annotation.Qualified)
	if len(outcomes) != 2 || outcomes[1].Category != "Vision" {
		t.Errorf("qualified outcomes: %+v", outcomes)
	}
	if diff := cmp.Diff([]string{"Innovation", "Vision"}, snap.Annotation.Qualified); diff != "" {
		t.Errorf("qualified categories (-want +got):\n%s", diff)
	}
}

func TestEmptyProminenceLandsInPartial(t *testing.T) {
	w, _ := loaded(t, 1)
	selectAndConfirm(t, w, "Leadership")

	bucket, err := w.SaveAndReview(annotation.Qualification{
		Dominance:  ptr("Primary"),
		Prominence: []string{},
		Tonality:   ptr("Neutral"),
	})
	if err != nil {
		t.Fatalf("SaveAndReview() error = %v", err)
	}
	if bucket != annotation.Partial {
		t.Errorf("bucket: got %s, want partial", bucket)
	}
	if w.Count(annotation.Partial) != 1 || w.Count(annotation.Qualified) != 0 {
		t.Errorf("counts: partial %d qualified %d", w.Count(annotation.Partial), w.Count(annotation.Qualified))
	}

	partial, _ := w.Outcomes(annotation.Partial)
	if v, _ := partial[0].Fields.Get("Prominence"); v != nil {
		t.Errorf("Prominence: got %v, want nil", v)
	}
}

func TestStepGuards(t *testing.T) {
	t.Run("save before confirm", func(t *testing.T) {
		w, _ := loaded(t, 1)
		if err := w.Toggle("Vision", true); err != nil {
			t.Fatal(err)
		}
		if _, err := w.SaveAndReview(complete("Vision")); !errors.Is(err, annotation.ErrNotConfirmed) {
			t.Errorf("error = %v, want ErrNotConfirmed", err)
		}
	})

	t.Run("review step used mid walk", func(t *testing.T) {
		w, _ := loaded(t, 1)
		selectAndConfirm(t, w, "Vision", "Innovation")
		if _, err := w.SaveAndReview(complete("Vision")); !errors.Is(err, annotation.ErrStepUnavailable) {
			t.Errorf("error = %v, want ErrStepUnavailable", err)
		}
	})

	t.Run("qualify further on last category", func(t *testing.T) {
		w, _ := loaded(t, 1)
		selectAndConfirm(t, w, "Vision")
		if _, err := w.SaveAndQualifyFurther(complete("Vision")); !errors.Is(err, annotation.ErrStepUnavailable) {
			t.Errorf("error = %v, want ErrStepUnavailable", err)
		}
	})

	t.Run("draft outside walk", func(t *testing.T) {
		w, _ := loaded(t, 1)
		if err := w.SaveDraft(complete("Vision")); !errors.Is(err, annotation.ErrStepUnavailable) {
			t.Errorf("error = %v, want ErrStepUnavailable", err)
		}
	})
}

func TestSaveUsesCategoryAtSequencerPosition(t *testing.T) {
	w, _ := loaded(t, 1)
	selectAndConfirm(t, w, "Vision")

	if _, err := w.SaveAndReview(complete("Innovation")); err != nil {
		t.Fatalf("SaveAndReview() error = %v", err)
	}
	outcomes, _ := w.Outcomes(annotation.Qualified)
	if outcomes[0].Category != "Vision" {
		t.Errorf("category: got %s, want Vision", outcomes[0].Category)
	}
}

func TestVocabularyValidation(t *testing.T) {
	w, _ := loaded(t, 1)
	selectAndConfirm(t, w, "Vision")

	q := complete("Vision")
	q.Tonality = ptr("Ecstatic")
	q.Page = -1

	_, err := w.SaveAndReview(q)
	var verr *annotation.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
	if diff := cmp.Diff([]string{"Page", "Tonality"}, verr.Invalid); diff != "" {
		t.Errorf("invalid fields (-want +got):\n%s", diff)
	}
	if got := w.Snapshot().Annotation.Form.Values.Tonality; got != nil {
		t.Errorf("invalid draft stored: %v", *got)
	}
}

func TestPageZeroIsValid(t *testing.T) {
	w, _ := loaded(t, 1)
	selectAndConfirm(t, w, "Vision")

	q := complete("Vision")
	q.Page = 0
	bucket, err := w.SaveAndReview(q)
	if err != nil {
		t.Fatalf("SaveAndReview() error = %v", err)
	}
	if bucket != annotation.Qualified {
		t.Errorf("bucket: got %s, want qualified", bucket)
	}
}

func TestSaveDraftSeedsForm(t *testing.T) {
	w, _ := loaded(t, 1)
	selectAndConfirm(t, w, "Vision")

	if err := w.SaveDraft(annotation.Qualification{Dominance: ptr("Primary"), Page: 4}); err != nil {
		t.Fatalf("SaveDraft() error = %v", err)
	}

	form := w.Snapshot().Annotation.Form
	if form.Values.Page != 4 || form.Values.Dominance == nil || *form.Values.Dominance != "Primary" {
		t.Errorf("form values: %+v", form.Values)
	}
	if form.Values.Category != "Vision" {
		t.Errorf("form category: got %s", form.Values.Category)
	}
	if w.Count(annotation.Qualified)+w.Count(annotation.Partial) != 0 {
		t.Error("draft produced an outcome entry")
	}
}
