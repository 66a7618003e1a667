package options

import (
	"context"

	"github.com/JaimeStill/newsqual/pkg/lifecycle"
)

// System defines the public contract for option bank operations.
type System interface {
	Handler() *Handler

	// Start loads the bank during application startup.
	Start(lc *lifecycle.Coordinator) error

	// Load reads the stored document, writing the defaults on first run.
	Load(ctx context.Context) (OptionSet, error)
	// Save persists s synchronously and makes it current.
	Save(ctx context.Context, s OptionSet) error
	// AddCustomCategory appends name to the saved categories and persists
	// the bank. It reports false when the name was already saved.
	AddCustomCategory(ctx context.Context, name string) (bool, error)
	// Options returns a copy of the current option set, loading it on first use.
	Options() OptionSet
	// Warnings returns the problems found in the stored document on the last load.
	Warnings() []string
	// Ready reports whether the bank has been loaded from its store.
	Ready() bool
}
