package api

import (
	"fmt"

	"github.com/JaimeStill/newsqual/internal/options"
	"github.com/JaimeStill/newsqual/internal/sessions"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Options  options.System
	Sessions sessions.System
}

// NewDomain creates all domain systems from the API runtime and registers
// their lifecycle hooks.
func NewDomain(runtime *Runtime) (*Domain, error) {
	bank := options.New(optionStore(runtime), runtime.Logger)

	sessionsSystem := sessions.New(
		bank,
		runtime.Logger,
		sessions.WithLimits(runtime.Sessions.IdleTimeoutDuration(), runtime.Sessions.MaxSessions),
		sessions.WithMetrics(sessions.NewMetrics(runtime.Metrics)),
		sessions.WithArchive(runtime.Storage),
	)

	runtime.Lifecycle.Check("options", bank)
	if err := bank.Start(runtime.Lifecycle); err != nil {
		return nil, fmt.Errorf("options start failed: %w", err)
	}
	if err := sessionsSystem.Start(runtime.Lifecycle); err != nil {
		return nil, fmt.Errorf("sessions start failed: %w", err)
	}

	return &Domain{
		Options:  bank,
		Sessions: sessionsSystem,
	}, nil
}

func optionStore(runtime *Runtime) options.Store {
	if runtime.Options.UsesDatabase() && runtime.Database != nil {
		return options.NewDBStore(runtime.Database.Connection(), runtime.Database.Driver())
	}
	return options.NewFileStore(runtime.Options.Path, runtime.Options.FlagPath)
}
