package options

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/JaimeStill/newsqual/pkg/lifecycle"
)

type bank struct {
	store  Store
	logger *slog.Logger

	mu       sync.RWMutex
	loaded   bool
	current  OptionSet
	warnings []string
}

// New creates an option bank backed by store. Nothing is read until Load,
// Start, or the first call to Options.
func New(store Store, logger *slog.Logger) System {
	return &bank{
		store:  store,
		logger: logger.With("system", "options"),
	}
}

func (b *bank) Handler() *Handler {
	return NewHandler(b, b.logger)
}

func (b *bank) Start(lc *lifecycle.Coordinator) error {
	b.logger.Info("starting option bank")

	lc.OnStartup(func() error {
		if _, err := b.Load(lc.Context()); err != nil {
			b.logger.Error("option bank load failed", "error", err)
			return fmt.Errorf("option bank: %w", err)
		}
		b.logger.Info("option bank loaded")
		return nil
	})

	return nil
}

func (b *bank) Ready() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.loaded
}

func (b *bank) Load(ctx context.Context) (OptionSet, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.load(ctx); err != nil {
		return OptionSet{}, err
	}
	return b.current.Clone(), nil
}

// load requires b.mu held for writing.
func (b *bank) load(ctx context.Context) error {
	ok, err := b.store.Initialized(ctx)
	if err != nil {
		return err
	}

	if !ok {
		defaults := Defaults()
		if err := b.write(ctx, defaults); err != nil {
			return err
		}
		b.set(defaults, nil)
		b.logger.Info("option bank initialized with defaults")
		return nil
	}

	data, err := b.store.Read(ctx)
	if err != nil {
		b.fallback(err)
		return nil
	}

	set, warnings, err := Decode(data)
	if err != nil {
		b.fallback(err)
		return nil
	}

	for _, w := range warnings {
		b.logger.Warn("option bank key replaced by default", "warning", w)
	}
	b.set(set, warnings)
	return nil
}

func (b *bank) fallback(err error) {
	warning := fmt.Sprintf("error loading option bank: %v; using default options", err)
	b.logger.Warn("option bank unreadable, using defaults", "error", err)
	b.set(Defaults(), []string{warning})
}

func (b *bank) set(s OptionSet, warnings []string) {
	b.current = s.Clone()
	b.warnings = warnings
	b.loaded = true
}

func (b *bank) Save(ctx context.Context, s OptionSet) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.write(ctx, s); err != nil {
		return err
	}
	b.current = s.Clone()
	b.loaded = true
	return nil
}

func (b *bank) write(ctx context.Context, s OptionSet) error {
	data, err := Encode(s.Clone())
	if err != nil {
		return fmt.Errorf("encode option bank: %w", err)
	}
	return b.store.Write(ctx, data)
}

func (b *bank) AddCustomCategory(ctx context.Context, name string) (bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return false, ErrEmptyCategory
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.loaded {
		if err := b.load(ctx); err != nil {
			return false, err
		}
	}

	if slices.Contains(b.current.SavedUserCategories, name) {
		return false, nil
	}

	next := b.current.Clone()
	next.SavedUserCategories = append(next.SavedUserCategories, name)
	if err := b.write(ctx, next); err != nil {
		return false, err
	}

	b.current = next
	b.logger.Info("custom category saved", "category", name)
	return true, nil
}

func (b *bank) Options() OptionSet {
	b.mu.RLock()
	if b.loaded {
		defer b.mu.RUnlock()
		return b.current.Clone()
	}
	b.mu.RUnlock()

	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.loaded {
		if err := b.load(context.Background()); err != nil {
			b.logger.Error("option bank load failed, serving defaults", "error", err)
			return Defaults()
		}
	}
	return b.current.Clone()
}

func (b *bank) Warnings() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.warnings)
}
