package annotation

import (
	"slices"
	"strings"

	"github.com/JaimeStill/newsqual/internal/options"
)

// Qualification columns appended to an annotated row, in export order.
const (
	ColumnCategory         = "Category"
	ColumnDominance        = "Dominance"
	ColumnProminence       = "Prominence"
	ColumnSpokesperson     = "Spokesperson"
	ColumnPage             = "Page"
	ColumnTonality         = "Tonality"
	ColumnSpokespersonName = "Spokesperson Name with Designation"
)

// Qualification is the attribute record for one (row, category) pair.
// Nil pointers mean the attribute is unset.
type Qualification struct {
	Category         string   `json:"category"`
	Dominance        *string  `json:"dominance"`
	Prominence       []string `json:"prominence"`
	Spokesperson     *string  `json:"spokesperson"`
	Page             int      `json:"page"`
	Tonality         *string  `json:"tonality"`
	SpokespersonName *string  `json:"spokesperson_name"`
}

// NewQualification returns an unset qualification for category.
func NewQualification(category string) Qualification {
	return Qualification{
		Category:   category,
		Prominence: []string{},
	}
}

// Missing returns the mandatory fields that block a save, in form order.
func (q Qualification) Missing() []string {
	var missing []string
	if q.Dominance == nil {
		missing = append(missing, ColumnDominance)
	}
	if q.Tonality == nil {
		missing = append(missing, ColumnTonality)
	}
	return missing
}

// Partial reports whether any completeness criterion is unmet.
// Page never affects completeness.
func (q Qualification) Partial() bool {
	return q.Dominance == nil || len(q.Prominence) == 0 || q.Tonality == nil
}

// Flatten appends the qualification columns onto a copy of fields.
// Prominence is comma-joined, or nil when empty.
func (q Qualification) Flatten(fields Fields) Fields {
	out := fields.Clone()
	var prominence any
	if len(q.Prominence) > 0 {
		prominence = strings.Join(q.Prominence, ", ")
	}
	out = out.Set(ColumnCategory, q.Category)
	out = out.Set(ColumnDominance, deref(q.Dominance))
	out = out.Set(ColumnProminence, prominence)
	out = out.Set(ColumnSpokesperson, deref(q.Spokesperson))
	out = out.Set(ColumnPage, q.Page)
	out = out.Set(ColumnTonality, deref(q.Tonality))
	out = out.Set(ColumnSpokespersonName, deref(q.SpokespersonName))
	return out
}

func (q Qualification) normalize() Qualification {
	out := q
	out.Dominance = blankToNil(q.Dominance)
	out.Spokesperson = blankToNil(q.Spokesperson)
	out.Tonality = blankToNil(q.Tonality)
	if q.Prominence == nil {
		out.Prominence = []string{}
	} else {
		out.Prominence = unique(q.Prominence)
	}
	if out.Spokesperson == nil {
		out.SpokespersonName = nil
	} else if out.SpokespersonName == nil {
		empty := ""
		out.SpokespersonName = &empty
	}
	return out
}

func (q Qualification) clone() Qualification {
	out := q
	out.Prominence = slices.Clone(q.Prominence)
	return out
}

// invalid returns fields whose values fall outside the option bank
// vocabulary. Empty vocabularies accept any value.
func (q Qualification) invalid(opts options.OptionSet) []string {
	var fields []string
	if !allowed(opts.Dominance, q.Dominance) {
		fields = append(fields, ColumnDominance)
	}
	for _, p := range q.Prominence {
		if len(opts.Prominence) > 0 && !slices.Contains(opts.Prominence, p) {
			fields = append(fields, ColumnProminence)
			break
		}
	}
	if !allowed(opts.Spokesperson, q.Spokesperson) {
		fields = append(fields, ColumnSpokesperson)
	}
	if q.Page < 0 {
		fields = append(fields, ColumnPage)
	}
	if !allowed(opts.Tonality, q.Tonality) {
		fields = append(fields, ColumnTonality)
	}
	return fields
}

func allowed(vocab []string, v *string) bool {
	if v == nil || len(vocab) == 0 {
		return true
	}
	return slices.Contains(vocab, *v)
}

func blankToNil(v *string) *string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return nil
	}
	return v
}

func deref(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}

func unique(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}
