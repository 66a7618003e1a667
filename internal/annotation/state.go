package annotation

import "slices"

// rowState is the annotation state of a single row. It travels with the row
// inside its bucket so that removing a row never lets its state bleed into
// the row that shifts into its position.
type rowState struct {
	selected       map[string]struct{}
	order          []string
	qualifications map[string]Qualification
	qualified      []string
	index          int
	confirmed      bool
	caution        bool
	customAdded    bool
}

func newRowState() *rowState {
	return &rowState{
		selected:       make(map[string]struct{}),
		qualifications: make(map[string]Qualification),
	}
}

// reenter resets the selection for a row that has just become current,
// re-seeding it from the categories already qualified on an earlier pass.
func (s *rowState) reenter() {
	s.selected = make(map[string]struct{}, len(s.qualified))
	for _, c := range s.qualified {
		s.selected[c] = struct{}{}
	}
	s.order = slices.Clone(s.qualified)
	s.index = 0
	s.confirmed = false
	s.caution = false
	s.customAdded = false
}

func (s *rowState) isSelected(category string) bool {
	_, ok := s.selected[category]
	return ok
}

func (s *rowState) selectCategory(category string) {
	s.selected[category] = struct{}{}
	if !slices.Contains(s.order, category) {
		s.order = append(s.order, category)
	}
	s.caution = false
}

func (s *rowState) deselectCategory(category string) {
	delete(s.selected, category)
	if i := slices.Index(s.order, category); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
		if i < s.index {
			s.index--
		}
	}
	s.index = min(s.index, len(s.order))
}

func (s *rowState) markQualified(category string) {
	if !slices.Contains(s.qualified, category) {
		s.qualified = append(s.qualified, category)
	}
}

// firstUnqualified returns the walk position of the first selected category
// not yet qualified on this row. When every category is already qualified it
// returns 0, which re-offers the first category on the qualify form instead
// of entering review directly.
func (s *rowState) firstUnqualified() int {
	for i, c := range s.order {
		if !slices.Contains(s.qualified, c) {
			return i
		}
	}
	return 0
}

func (s *rowState) reviewing() bool {
	return s.confirmed && len(s.order) > 0 && s.index == len(s.order)
}

func (s *rowState) walking() bool {
	return s.confirmed && s.index < len(s.order)
}

func (s *rowState) current() string {
	if !s.walking() {
		return ""
	}
	return s.order[s.index]
}

func (s *rowState) qualificationFor(category string) Qualification {
	if q, ok := s.qualifications[category]; ok {
		return q.clone()
	}
	return NewQualification(category)
}
