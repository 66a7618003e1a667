package annotation

// Step names the sequencer action available for the current category.
type Step string

const (
	StepQualifyFurther Step = "save_and_qualify_further"
	StepReview         Step = "save_and_review"
)

// SaveDraft stores in-progress values for the category being qualified
// without advancing the sequencer.
func (w *Workspace) SaveDraft(q Qualification) error {
	_, _, st, err := w.currentState()
	if err != nil {
		return err
	}
	if !st.walking() {
		return ErrStepUnavailable
	}

	q.Category = st.current()
	q = q.normalize()
	if invalid := q.invalid(w.bank.Options()); len(invalid) > 0 {
		return &ValidationError{Invalid: invalid}
	}
	st.qualifications[q.Category] = q
	return nil
}

// SaveAndQualifyFurther saves the current category and moves to the next
// one. It is available while another category follows in the walk.
func (w *Workspace) SaveAndQualifyFurther(q Qualification) (BucketName, error) {
	return w.save(q, StepQualifyFurther)
}

// SaveAndReview saves the last category in the walk and enters review.
func (w *Workspace) SaveAndReview(q Qualification) (BucketName, error) {
	return w.save(q, StepReview)
}

func (w *Workspace) save(q Qualification, step Step) (BucketName, error) {
	b, i, st, err := w.currentState()
	if err != nil {
		return "", err
	}
	if !st.confirmed {
		return "", ErrNotConfirmed
	}
	if stepFor(st) != step {
		return "", ErrStepUnavailable
	}

	q.Category = st.current()
	q = q.normalize()
	if err := w.validate(q); err != nil {
		if len(err.Invalid) == 0 {
			st.qualifications[q.Category] = q
		}
		return "", err
	}

	bucket := w.record(b.rows[i], st, q)
	st.index++
	if step == StepReview {
		st.caution = true
	}
	return bucket, nil
}

// stepFor returns the action offered at the sequencer's current position,
// or "" outside the walk.
func stepFor(st *rowState) Step {
	if !st.walking() {
		return ""
	}
	if st.index+1 < len(st.order) {
		return StepQualifyFurther
	}
	return StepReview
}

func (w *Workspace) validate(q Qualification) *ValidationError {
	missing := q.Missing()
	invalid := q.invalid(w.bank.Options())
	if len(missing) == 0 && len(invalid) == 0 {
		return nil
	}
	return &ValidationError{Missing: missing, Invalid: invalid}
}
