package api

import (
	"net/http"

	"github.com/JaimeStill/newsqual/pkg/routes"
)

func registerRoutes(mux *http.ServeMux, domain *Domain, runtime *Runtime) {
	groups := []routes.Group{
		domain.Options.Handler().Routes(),
		domain.Sessions.Handler(runtime.MaxUploadSize, runtime.Pagination).Routes(),
	}
	if runtime.Storage != nil {
		archive := newArchiveHandler(runtime.Storage, runtime.Logger, runtime.MaxListSize)
		groups = append(groups, archive.routes())
	}

	registered := routes.Register(mux, groups...)
	runtime.Logger.Debug("routes registered", "count", len(registered), "patterns", registered)
}
