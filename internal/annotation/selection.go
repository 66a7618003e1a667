package annotation

import (
	"context"
	"fmt"
	"slices"
	"strings"
)

// Toggle checks or unchecks a predefined or saved category on the current
// row. Checking appends the category to the walk order; unchecking removes it.
func (w *Workspace) Toggle(category string, selected bool) error {
	_, _, st, err := w.currentState()
	if err != nil {
		return err
	}

	if !selected {
		st.deselectCategory(category)
		return nil
	}

	if !w.known(category) && !slices.Contains(st.order, category) {
		return fmt.Errorf("%w: %s", ErrUnknownCategory, category)
	}
	st.selectCategory(category)
	return nil
}

// AddCustomCategory adds a free-text category to the current row's
// selection. A name not yet saved is persisted to the option bank first.
// One custom category may be added per row visit.
func (w *Workspace) AddCustomCategory(ctx context.Context, name string) error {
	_, _, st, err := w.currentState()
	if err != nil {
		return err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyCategory
	}
	if st.customAdded {
		return ErrCustomLimit
	}

	if !slices.Contains(w.bank.Options().SavedUserCategories, name) {
		if _, err := w.bank.AddCustomCategory(ctx, name); err != nil {
			return fmt.Errorf("save custom category: %w", err)
		}
	}

	st.customAdded = true
	if !st.isSelected(name) {
		st.selectCategory(name)
	}
	st.caution = false
	return nil
}

// Confirm locks in the selection and starts the sequencer at the first
// category not yet qualified on this row. When every selected category is
// already qualified the sequencer restarts at position 0.
func (w *Workspace) Confirm() error {
	_, _, st, err := w.currentState()
	if err != nil {
		return err
	}
	if len(st.selected) == 0 {
		return ErrEmptySelection
	}

	st.confirmed = true
	st.index = st.firstUnqualified()
	st.caution = false
	w.notice = ""
	return nil
}

func (w *Workspace) known(category string) bool {
	opts := w.bank.Options()
	return slices.Contains(opts.Category, category) ||
		slices.Contains(opts.SavedUserCategories, category)
}
