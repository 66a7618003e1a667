package options

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/newsqual/pkg/handlers"
	"github.com/JaimeStill/newsqual/pkg/routes"
)

// Handler provides HTTP endpoints for the option bank.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// Response is the option bank as served over HTTP.
type Response struct {
	Options  OptionSet `json:"options"`
	Warnings []string  `json:"warnings,omitempty"`
}

// CategoryRequest names a custom category to save.
type CategoryRequest struct {
	Name string `json:"name"`
}

// NewHandler creates a Handler for sys.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "options"),
	}
}

// Routes returns the route group definition for option bank endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/options",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.Get},
			{Method: "POST", Pattern: "/categories", Handler: h.AddCategory},
		},
	}
}

// Get returns the current option set and any load warnings.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, Response{
		Options:  h.sys.Options(),
		Warnings: h.sys.Warnings(),
	})
}

// AddCategory saves a custom category. It responds 201 when the category is
// new and 200 when it was already saved.
func (h *Handler) AddCategory(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidBody)
		return
	}

	added, err := h.sys.AddCustomCategory(r.Context(), req.Name)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	handlers.RespondJSON(w, status, Response{Options: h.sys.Options()})
}
