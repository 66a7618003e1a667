package annotation

import (
	"maps"
	"slices"
)

const (
	cautionSelectMore = "Please select categories from non-selected categories or click on Save & Next to proceed ahead."
	cautionAllDone    = "All categories have been qualified for this row. Click on Save & Next to proceed ahead."
)

// Snapshot is a read-only rendering of the workspace after a command.
type Snapshot struct {
	Uploaded        bool               `json:"uploaded"`
	Filename        string             `json:"filename,omitempty"`
	Preview         BucketName         `json:"preview"`
	Position        int                `json:"position"`
	Total           int                `json:"total"`
	Row             *Row               `json:"row,omitempty"`
	URL             string             `json:"url,omitempty"`
	Annotation      *AnnotationView    `json:"annotation,omitempty"`
	Counts          map[BucketName]int `json:"counts"`
	Notice          string             `json:"notice,omitempty"`
	ExportAvailable bool               `json:"export_available"`
}

// AnnotationView renders the current row's annotation state.
type AnnotationView struct {
	Qualified      []string        `json:"qualified"`
	Selected       []string        `json:"selected"`
	Order          []string        `json:"order"`
	Index          int             `json:"index"`
	Confirmed      bool            `json:"confirmed"`
	Caution        bool            `json:"caution"`
	CautionMessage string          `json:"caution_message,omitempty"`
	CanConsume     bool            `json:"can_consume"`
	Form           *FormView       `json:"form,omitempty"`
	Review         []Qualification `json:"review,omitempty"`
}

// FormView is the qualify form for the category at the sequencer position.
type FormView struct {
	Category string        `json:"category"`
	Number   int           `json:"number"`
	Of       int           `json:"of"`
	Step     Step          `json:"step"`
	Values   Qualification `json:"values"`
}

// Snapshot renders the current state.
func (w *Workspace) Snapshot() Snapshot {
	s := Snapshot{
		Uploaded: w.uploaded,
		Filename: w.filename,
		Preview:  w.preview,
		Notice:   w.notice,
		Counts: map[BucketName]int{
			Active:      w.Count(Active),
			ToBeDecided: w.Count(ToBeDecided),
			Deleted:     w.Count(Deleted),
			Qualified:   w.Count(Qualified),
			Partial:     w.Count(Partial),
		},
		ExportAvailable: len(w.outcomes.qualified)+len(w.outcomes.partial) > 0,
	}

	b, i, ok := w.current()
	if !ok {
		return s
	}

	row := b.rows[i].clone()
	s.Position = i
	s.Total = b.size()
	s.Row = &row
	s.URL = row.URL()
	s.Annotation = w.view(b.states[i])
	return s
}

func (w *Workspace) view(st *rowState) *AnnotationView {
	v := &AnnotationView{
		Qualified:  slices.Clone(st.qualified),
		Selected:   slices.Sorted(maps.Keys(st.selected)),
		Order:      slices.Clone(st.order),
		Index:      st.index,
		Confirmed:  st.confirmed,
		Caution:    st.caution,
		CanConsume: st.confirmed,
	}
	if v.Qualified == nil {
		v.Qualified = []string{}
	}
	if v.Order == nil {
		v.Order = []string{}
	}

	if st.caution {
		v.CautionMessage = w.cautionMessage(st)
	}

	switch {
	case st.walking():
		cat := st.current()
		v.Form = &FormView{
			Category: cat,
			Number:   st.index + 1,
			Of:       len(st.order),
			Step:     stepFor(st),
			Values:   st.qualificationFor(cat),
		}
	case st.reviewing():
		v.Review = make([]Qualification, len(st.order))
		for j, cat := range st.order {
			v.Review[j] = st.qualificationFor(cat)
		}
	}
	return v
}

func (w *Workspace) cautionMessage(st *rowState) string {
	opts := w.bank.Options()
	all := slices.Concat(opts.Category, opts.SavedUserCategories)
	for _, c := range all {
		if !slices.Contains(st.qualified, c) {
			return cautionSelectMore
		}
	}
	return cautionAllDone
}
