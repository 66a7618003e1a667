package main

import (
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JaimeStill/newsqual/internal/api"
	"github.com/JaimeStill/newsqual/internal/config"
	"github.com/JaimeStill/newsqual/internal/infrastructure"
	"github.com/JaimeStill/newsqual/pkg/module"
)

type Modules struct {
	API *module.Module
}

func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	apiModule, err := api.NewModule(cfg, infra)
	if err != nil {
		return nil, err
	}
	return &Modules{API: apiModule}, nil
}

func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.API)
}

func buildRouter(infra *infrastructure.Infrastructure, metrics *config.MetricsConfig) *module.Router {
	router := module.NewRouter()

	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, "ok")
	})

	router.HandleNative("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if !infra.Lifecycle.Ready() {
			writeStatus(w, http.StatusServiceUnavailable, "not ready")
			return
		}
		writeStatus(w, http.StatusOK, "ready")
	})

	if metrics.Enabled {
		handler := promhttp.HandlerFor(infra.Metrics, promhttp.HandlerOpts{
			ErrorLog: promLogger{infra},
		})
		router.HandleNative("GET "+metrics.Path, handler.ServeHTTP)
	}

	return router
}

func writeStatus(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"status": status})
}

// promLogger routes promhttp collection errors to the service logger.
type promLogger struct {
	infra *infrastructure.Infrastructure
}

func (l promLogger) Println(v ...any) {
	l.infra.Logger.Error("metrics collection failed", "detail", v)
}
