package api

import (
	"github.com/JaimeStill/newsqual/internal/config"
	"github.com/JaimeStill/newsqual/internal/infrastructure"
	"github.com/JaimeStill/newsqual/pkg/pagination"
)

// Runtime is the infrastructure view handed to API domain systems: a
// module-scoped logger plus the request limits and backend choices the
// handlers are built with.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination    pagination.Config
	MaxUploadSize int64
	MaxListSize   int32
	Options       config.OptionsConfig
	Sessions      config.SessionsConfig
}

// NewRuntime derives the API runtime from cfg and the shared infrastructure.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	scoped := *infra
	scoped.Logger = infra.Logger.With("module", "api")

	return &Runtime{
		Infrastructure: &scoped,
		Pagination:     cfg.API.Pagination,
		MaxUploadSize:  cfg.API.MaxUploadSizeBytes(),
		MaxListSize:    cfg.Storage.MaxListSize,
		Options:        cfg.Options,
		Sessions:       cfg.Sessions,
	}
}
