// Package api assembles the API module: the option bank and session systems,
// their routes, and the module middleware stack.
package api

import (
	"net/http"

	"github.com/JaimeStill/newsqual/internal/config"
	"github.com/JaimeStill/newsqual/internal/infrastructure"
	"github.com/JaimeStill/newsqual/pkg/middleware"
	"github.com/JaimeStill/newsqual/pkg/module"
)

// NewModule builds the domain systems, registers their lifecycle hooks, and
// mounts their routes under cfg.API.BasePath.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain, err := NewDomain(runtime)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	registerRoutes(mux, domain, runtime)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))
	if cfg.Metrics.Enabled {
		m.Use(middleware.Metrics(runtime.Metrics, "api"))
	}
	return m, nil
}
