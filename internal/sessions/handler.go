package sessions

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/JaimeStill/newsqual/internal/annotation"
	"github.com/JaimeStill/newsqual/internal/export"
	"github.com/JaimeStill/newsqual/pkg/formatting"
	"github.com/JaimeStill/newsqual/pkg/handlers"
	"github.com/JaimeStill/newsqual/pkg/pagination"
	"github.com/JaimeStill/newsqual/pkg/routes"
	"github.com/JaimeStill/newsqual/pkg/storage"
)

// Handler provides HTTP endpoints for annotation sessions.
type Handler struct {
	sys           System
	logger        *slog.Logger
	pagination    pagination.Config
	maxUploadSize int64
}

// ToggleRequest checks or unchecks a category on the current row.
type ToggleRequest struct {
	Category string `json:"category"`
	Selected bool   `json:"selected"`
}

// CategoryRequest names a custom category for the current row.
type CategoryRequest struct {
	Name string `json:"name"`
}

// QualifyRequest saves the category at the sequencer position. Step is
// save_and_qualify_further or save_and_review.
type QualifyRequest struct {
	Step   annotation.Step          `json:"step"`
	Values annotation.Qualification `json:"values"`
}

// AdvanceRequest disposes of the current row.
type AdvanceRequest struct {
	Disposition annotation.Disposition `json:"disposition"`
}

// PreviewRequest selects the bucket that supplies rows.
type PreviewRequest struct {
	Bucket annotation.BucketName `json:"bucket"`
}

// NavigateRequest moves within a previewed bucket.
type NavigateRequest struct {
	Delta int `json:"delta"`
}

// CommandResponse is the result of a command that may record an outcome.
type CommandResponse struct {
	Bucket   annotation.BucketName `json:"bucket,omitempty"`
	Snapshot annotation.Snapshot   `json:"snapshot"`
}

// NewHandler creates a Handler with the given system, logger, pagination config, and upload size limit.
func NewHandler(
	sys System,
	logger *slog.Logger,
	pagination pagination.Config,
	maxUploadSize int64,
) *Handler {
	return &Handler{
		sys:           sys,
		logger:        logger.With("handler", "sessions"),
		pagination:    pagination,
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the route group definition for session endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/sessions",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Create},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete},
			{Method: "POST", Pattern: "/{id}/upload", Handler: h.Upload},
			{Method: "POST", Pattern: "/{id}/selection", Handler: h.Toggle},
			{Method: "POST", Pattern: "/{id}/categories", Handler: h.AddCategory},
			{Method: "POST", Pattern: "/{id}/confirm", Handler: h.Confirm},
			{Method: "PUT", Pattern: "/{id}/qualification", Handler: h.SaveDraft},
			{Method: "POST", Pattern: "/{id}/qualification", Handler: h.Qualify},
			{Method: "GET", Pattern: "/{id}/review", Handler: h.Review},
			{Method: "PUT", Pattern: "/{id}/review", Handler: h.SaveChanges},
			{Method: "POST", Pattern: "/{id}/advance", Handler: h.Advance},
			{Method: "PUT", Pattern: "/{id}/preview", Handler: h.Preview},
			{Method: "POST", Pattern: "/{id}/navigate", Handler: h.Navigate},
			{Method: "GET", Pattern: "/{id}/buckets/{bucket}", Handler: h.Bucket},
			{Method: "GET", Pattern: "/{id}/export", Handler: h.Export},
			{Method: "GET", Pattern: "/{id}/exports", Handler: h.Exports},
		},
	}
}

// Create starts a new session.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	info, err := h.sys.Create(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	handlers.RespondJSON(w, http.StatusCreated, info)
}

// Find returns a session and its current snapshot.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r)
	if !ok {
		return
	}
	info, err := h.sys.Find(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, info)
}

// Delete ends a session.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r)
	if !ok {
		return
	}
	if err := h.sys.Delete(r.Context(), id); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Upload loads a spreadsheet from the multipart "file" field.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.fail(w, fmt.Errorf("%w (%s)", ErrFileTooLarge, formatting.FormatBytes(h.maxUploadSize, 0)))
			return
		}
		h.fail(w, ErrInvalidBody)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.fail(w, ErrInvalidBody)
		return
	}
	defer file.Close()

	snap, err := h.sys.Upload(r.Context(), id, header.Filename, file)
	if err != nil {
		h.fail(w, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, snap)
}

// Toggle checks or unchecks a category.
func (h *Handler) Toggle(w http.ResponseWriter, r *http.Request) {
	var req ToggleRequest
	h.command(w, r, &req, func(ws *annotation.Workspace) error {
		return ws.Toggle(req.Category, req.Selected)
	})
}

// AddCategory adds a custom category to the current row and the option bank.
func (h *Handler) AddCategory(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	h.command(w, r, &req, func(ws *annotation.Workspace) error {
		return ws.AddCustomCategory(r.Context(), req.Name)
	})
}

// Confirm locks in the selection and starts the sequencer.
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	h.command(w, r, nil, func(ws *annotation.Workspace) error {
		return ws.Confirm()
	})
}

// SaveDraft stores in-progress values for the current category.
func (h *Handler) SaveDraft(w http.ResponseWriter, r *http.Request) {
	var req annotation.Qualification
	h.command(w, r, &req, func(ws *annotation.Workspace) error {
		return ws.SaveDraft(req)
	})
}

// Qualify saves the current category and advances the sequencer.
func (h *Handler) Qualify(w http.ResponseWriter, r *http.Request) {
	var req QualifyRequest
	var bucket annotation.BucketName
	h.outcome(w, r, &req, &bucket, func(ws *annotation.Workspace) (err error) {
		switch req.Step {
		case annotation.StepQualifyFurther:
			bucket, err = ws.SaveAndQualifyFurther(req.Values)
		case annotation.StepReview:
			bucket, err = ws.SaveAndReview(req.Values)
		default:
			err = fmt.Errorf("%w: unknown step %q", ErrInvalidBody, req.Step)
		}
		return err
	})
}

// Review returns the stored qualification for the category query parameter.
func (h *Handler) Review(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r)
	if !ok {
		return
	}

	var q annotation.Qualification
	_, err := h.sys.Do(r.Context(), id, func(ws *annotation.Workspace) (err error) {
		q, err = ws.Review(r.URL.Query().Get("category"))
		return err
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, q)
}

// SaveChanges replaces a reviewed category's qualification.
func (h *Handler) SaveChanges(w http.ResponseWriter, r *http.Request) {
	var req annotation.Qualification
	var bucket annotation.BucketName
	h.outcome(w, r, &req, &bucket, func(ws *annotation.Workspace) (err error) {
		bucket, err = ws.SaveChanges(req)
		return err
	})
}

// Advance disposes of the current row.
func (h *Handler) Advance(w http.ResponseWriter, r *http.Request) {
	var req AdvanceRequest
	h.command(w, r, &req, func(ws *annotation.Workspace) error {
		return ws.Advance(req.Disposition)
	})
}

// Preview selects the bucket that supplies rows.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	var req PreviewRequest
	h.command(w, r, &req, func(ws *annotation.Workspace) error {
		return ws.SelectPreview(req.Bucket)
	})
}

// Navigate moves within the previewed bucket.
func (h *Handler) Navigate(w http.ResponseWriter, r *http.Request) {
	var req NavigateRequest
	h.command(w, r, &req, func(ws *annotation.Workspace) error {
		return ws.Navigate(req.Delta)
	})
}

// Bucket returns a page of a bucket's contents. Raw buckets list rows;
// outcome buckets list annotated rows.
func (h *Handler) Bucket(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r)
	if !ok {
		return
	}
	name, err := annotation.ParseBucket(r.PathValue("bucket"))
	if err != nil {
		h.fail(w, err)
		return
	}
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)

	var result any
	_, err = h.sys.Do(r.Context(), id, func(ws *annotation.Workspace) error {
		if name.Raw() {
			rows, err := ws.Rows(name)
			if err != nil {
				return err
			}
			result = pagination.Paginate(rows, page)
			return nil
		}
		rows, err := ws.Outcomes(name)
		if err != nil {
			return err
		}
		result = pagination.Paginate(rows, page)
		return nil
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, result)
}

// Export streams the outcome workbook.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r)
	if !ok {
		return
	}

	exp, err := h.sys.Export(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(exp.Data)))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exp.Filename))
	w.Header().Set("X-Export-Id", exp.ID.String())
	if exp.ArchiveKey != "" {
		w.Header().Set("X-Archive-Key", exp.ArchiveKey)
	}
	w.WriteHeader(http.StatusOK)
	w.Write(exp.Data)
}

// Exports lists the session's archived export blobs.
func (h *Handler) Exports(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r)
	if !ok {
		return
	}

	maxResults, err := storage.ParseMaxResults(r.URL.Query().Get("max_results"), int32(h.pagination.MaxPageSize))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	blobs, err := h.sys.Exports(r.Context(), id, maxResults)
	if err != nil {
		h.fail(w, err)
		return
	}
	if blobs == nil {
		blobs = []storage.BlobInfo{}
	}
	handlers.RespondJSON(w, http.StatusOK, blobs)
}

// command decodes an optional JSON body into req, runs fn against the
// session, and responds with the resulting snapshot.
func (h *Handler) command(
	w http.ResponseWriter,
	r *http.Request,
	req any,
	fn func(*annotation.Workspace) error,
) {
	var bucket annotation.BucketName
	h.outcome(w, r, req, &bucket, fn)
}

func (h *Handler) outcome(
	w http.ResponseWriter,
	r *http.Request,
	req any,
	bucket *annotation.BucketName,
	fn func(*annotation.Workspace) error,
) {
	id, ok := h.id(w, r)
	if !ok {
		return
	}
	if req != nil {
		if err := handlers.DecodeJSON(r, req); err != nil {
			h.fail(w, ErrInvalidBody)
			return
		}
	}

	snap, err := h.sys.Do(r.Context(), id, fn)
	if err != nil {
		h.fail(w, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, CommandResponse{Bucket: *bucket, Snapshot: snap})
}

func (h *Handler) id(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.fail(w, ErrInvalidID)
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	var verr *annotation.ValidationError
	if errors.As(err, &verr) {
		handlers.RespondFields(w, h.logger, http.StatusUnprocessableEntity, err, verr.Fields())
		return
	}
	handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
}
