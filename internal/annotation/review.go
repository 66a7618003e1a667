package annotation

import (
	"fmt"
	"slices"
)

// Review returns the stored qualification for a category on a row in
// review, seeding an unset record when none was saved.
func (w *Workspace) Review(category string) (Qualification, error) {
	_, _, st, err := w.currentState()
	if err != nil {
		return Qualification{}, err
	}
	if !st.reviewing() {
		return Qualification{}, ErrNotReviewing
	}
	if !slices.Contains(st.order, category) {
		return Qualification{}, fmt.Errorf("%w: %s", ErrUnknownCategory, category)
	}
	return st.qualificationFor(category), nil
}

// SaveChanges replaces a reviewed category's qualification. The outcome
// entry for the same row and category is replaced, never duplicated.
func (w *Workspace) SaveChanges(q Qualification) (BucketName, error) {
	b, i, st, err := w.currentState()
	if err != nil {
		return "", err
	}
	if !st.reviewing() {
		return "", ErrNotReviewing
	}
	if !slices.Contains(st.order, q.Category) {
		return "", fmt.Errorf("%w: %s", ErrUnknownCategory, q.Category)
	}

	q = q.normalize()
	if err := w.validate(q); err != nil {
		return "", err
	}
	return w.record(b.rows[i], st, q), nil
}
