// Package options implements the option bank: the controlled vocabularies
// for each qualification attribute and the list of user-saved categories,
// persisted across sessions.
package options

import (
	"encoding/json"
	"fmt"
	"slices"
)

// Document keys, in persisted order.
const (
	KeyDominance           = "Dominance"
	KeyProminence          = "Prominence"
	KeySpokesperson        = "Spokesperson"
	KeyPage                = "Page"
	KeyTonality            = "Tonality"
	KeyCategory            = "Category"
	KeySavedUserCategories = "SavedUserCategories"
)

// Keys lists every document key in persisted order.
var Keys = []string{
	KeyDominance,
	KeyProminence,
	KeySpokesperson,
	KeyPage,
	KeyTonality,
	KeyCategory,
	KeySavedUserCategories,
}

// OptionSet holds the legal labels for each attribute and the saved
// custom categories.
type OptionSet struct {
	Dominance           []string `json:"Dominance"`
	Prominence          []string `json:"Prominence"`
	Spokesperson        []string `json:"Spokesperson"`
	Page                []string `json:"Page"`
	Tonality            []string `json:"Tonality"`
	Category            []string `json:"Category"`
	SavedUserCategories []string `json:"SavedUserCategories"`
}

// Defaults returns the built-in option set.
func Defaults() OptionSet {
	return OptionSet{
		Dominance:    []string{"Exclusive", "Primary", "Secondary", "Passing reference"},
		Prominence:   []string{"Headline", "Co-visual Image"},
		Spokesperson: []string{"Authored", "Interview", "Quote", "Mention"},
		Page:         []string{},
		Tonality:     []string{"Positive", "Negative", "Neutral"},
		Category: []string{
			"Innovation",
			"Market share",
			"Leadership",
			"Customer relation",
			"M&A",
			"Business Growth",
			"Products & Services",
			"Vision",
			"Work Environment",
		},
		SavedUserCategories: []string{},
	}
}

// Clone returns a deep copy of s.
func (s OptionSet) Clone() OptionSet {
	return OptionSet{
		Dominance:           cloneList(s.Dominance),
		Prominence:          cloneList(s.Prominence),
		Spokesperson:        cloneList(s.Spokesperson),
		Page:                cloneList(s.Page),
		Tonality:            cloneList(s.Tonality),
		Category:            cloneList(s.Category),
		SavedUserCategories: cloneList(s.SavedUserCategories),
	}
}

// Categories returns the predefined categories followed by the saved ones.
func (s OptionSet) Categories() []string {
	return slices.Concat(s.Category, s.SavedUserCategories)
}

func (s *OptionSet) field(key string) *[]string {
	switch key {
	case KeyDominance:
		return &s.Dominance
	case KeyProminence:
		return &s.Prominence
	case KeySpokesperson:
		return &s.Spokesperson
	case KeyPage:
		return &s.Page
	case KeyTonality:
		return &s.Tonality
	case KeyCategory:
		return &s.Category
	case KeySavedUserCategories:
		return &s.SavedUserCategories
	}
	return nil
}

// Decode parses a stored document. Missing keys take their default. A key
// whose value is not a list of strings takes its default and yields a
// warning. Category is always reset to the built-in list. A document that
// is not a JSON object returns an error.
func Decode(data []byte) (OptionSet, []string, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return OptionSet{}, nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if raw == nil {
		return OptionSet{}, nil, fmt.Errorf("%w: document is null", ErrCorrupt)
	}

	defaults := Defaults()
	var (
		out      OptionSet
		warnings []string
	)

	for _, key := range Keys {
		dst := out.field(key)
		def := *defaults.field(key)

		value, ok := raw[key]
		if !ok || key == KeyCategory {
			*dst = def
			continue
		}

		var list []string
		if err := json.Unmarshal(value, &list); err != nil || list == nil {
			warnings = append(warnings, fmt.Sprintf("option %q is not a list of labels; using defaults", key))
			*dst = def
			continue
		}
		*dst = list
	}

	return out, warnings, nil
}

// Encode renders s as an indented JSON document.
func Encode(s OptionSet) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

func cloneList(v []string) []string {
	if v == nil {
		return []string{}
	}
	return slices.Clone(v)
}
