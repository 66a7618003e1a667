package sessions

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/newsqual/internal/annotation"
	"github.com/JaimeStill/newsqual/internal/export"
	"github.com/JaimeStill/newsqual/internal/ingest"
	"github.com/JaimeStill/newsqual/pkg/lifecycle"
	"github.com/JaimeStill/newsqual/pkg/pagination"
	"github.com/JaimeStill/newsqual/pkg/storage"
)

const (
	DefaultIdleTimeout = 2 * time.Hour
	DefaultMaxSessions = 64
)

type registry struct {
	bank    annotation.Bank
	store   storage.System
	metrics *Metrics
	logger  *slog.Logger
	idle    time.Duration
	max     int
	now     func() time.Time

	mu       sync.Mutex
	sessions map[uuid.UUID]*session
}

// Option configures the session registry.
type Option func(*registry)

// WithArchive stores uploads and exports in store. A nil store disables archival.
func WithArchive(store storage.System) Option {
	return func(r *registry) { r.store = store }
}

// WithMetrics records session activity in m.
func WithMetrics(m *Metrics) Option {
	return func(r *registry) {
		if m != nil {
			r.metrics = m
		}
	}
}

// WithLimits sets the idle timeout after which a session is evicted and the
// maximum number of live sessions. Non-positive values keep the defaults.
func WithLimits(idle time.Duration, maxSessions int) Option {
	return func(r *registry) {
		if idle > 0 {
			r.idle = idle
		}
		if maxSessions > 0 {
			r.max = maxSessions
		}
	}
}

// WithClock replaces the time source used for idle tracking.
func WithClock(now func() time.Time) Option {
	return func(r *registry) {
		if now != nil {
			r.now = now
		}
	}
}

// New creates a session registry whose workspaces share bank.
func New(bank annotation.Bank, logger *slog.Logger, opts ...Option) System {
	r := &registry{
		bank:     bank,
		metrics:  NewMetrics(nil),
		logger:   logger.With("system", "sessions"),
		idle:     DefaultIdleTimeout,
		max:      DefaultMaxSessions,
		now:      time.Now,
		sessions: make(map[uuid.UUID]*session),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *registry) Handler(maxUploadSize int64, page pagination.Config) *Handler {
	return NewHandler(r, r.logger, page, maxUploadSize)
}

func (r *registry) Start(lc *lifecycle.Coordinator) error {
	r.logger.Info("starting session registry", "idle_timeout", r.idle, "max_sessions", r.max, "archive", r.store != nil)

	lc.OnShutdown(func() {
		<-lc.Context().Done()

		r.mu.Lock()
		n := len(r.sessions)
		clear(r.sessions)
		r.metrics.Live.Set(0)
		r.mu.Unlock()

		r.logger.Info("session registry closed", "released", n)
	})

	return nil
}

func (r *registry) Create(ctx context.Context) (*Info, error) {
	now := r.now()

	r.mu.Lock()
	r.evict(now)
	if len(r.sessions) >= r.max {
		r.mu.Unlock()
		return nil, ErrLimitReached
	}

	s := &session{
		id:       uuid.Must(uuid.NewV7()),
		created:  now,
		lastSeen: now,
		ws:       annotation.New(r.bank, annotation.WithObserver(observer{r.metrics})),
	}
	r.sessions[s.id] = s
	r.metrics.Live.Set(float64(len(r.sessions)))
	r.mu.Unlock()

	r.logger.Info("session created", "session", s.id)

	info := s.info()
	info.LastSeen = now
	return info, nil
}

func (r *registry) Find(ctx context.Context, id uuid.UUID) (*Info, error) {
	s, seen, err := r.lookup(id)
	if err != nil {
		return nil, err
	}
	info := s.info()
	info.LastSeen = seen
	return info, nil
}

func (r *registry) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(r.sessions, id)
	r.metrics.Live.Set(float64(len(r.sessions)))
	r.logger.Info("session deleted", "session", id)
	return nil
}

func (r *registry) Do(
	ctx context.Context,
	id uuid.UUID,
	fn func(*annotation.Workspace) error,
) (annotation.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return annotation.Snapshot{}, err
	}

	s, _, err := r.lookup(id)
	if err != nil {
		return annotation.Snapshot{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := fn(s.ws); err != nil {
		return annotation.Snapshot{}, err
	}
	return s.ws.Snapshot(), nil
}

func (r *registry) Upload(
	ctx context.Context,
	id uuid.UUID,
	filename string,
	src io.Reader,
) (annotation.Snapshot, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return annotation.Snapshot{}, fmt.Errorf("%w: %w", ingest.ErrInvalidFile, err)
	}

	records, err := ingest.Read(bytes.NewReader(data))
	if err != nil {
		return annotation.Snapshot{}, err
	}

	snap, err := r.Do(ctx, id, func(ws *annotation.Workspace) error {
		return ws.Load(filename, records)
	})
	if err != nil {
		return annotation.Snapshot{}, err
	}

	r.metrics.RowsIngested.Add(float64(len(records)))
	r.logger.Info("file loaded", "session", id, "filename", filename, "rows", len(records))

	if r.store != nil {
		key := uploadKey(id, r.now(), filename)
		if err := r.store.Upload(ctx, key, bytes.NewReader(data), export.ContentType); err != nil {
			r.logger.Warn("upload archive failed", "session", id, "key", key, "error", err)
		}
	}

	return snap, nil
}

func (r *registry) Export(ctx context.Context, id uuid.UUID) (*Export, error) {
	var (
		rows   []annotation.Fields
		source string
		exp    = &Export{ID: uuid.Must(uuid.NewV7()), Filename: export.Filename}
	)

	if _, err := r.Do(ctx, id, func(ws *annotation.Workspace) error {
		rows = ws.ExportRows()
		source = ws.Filename()
		exp.Qualified = ws.Count(annotation.Qualified)
		exp.Partial = ws.Count(annotation.Partial)
		return nil
	}); err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, ErrNothingToExport
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, rows); err != nil {
		return nil, fmt.Errorf("write export: %w", err)
	}
	exp.Data = buf.Bytes()
	r.metrics.Exports.Inc()

	if r.store != nil {
		m := manifest{
			ExportID:  exp.ID,
			SessionID: id,
			Source:    source,
			Qualified: exp.Qualified,
			Partial:   exp.Partial,
			Columns:   export.Columns(rows),
			CreatedAt: r.now().UTC(),
		}
		key, err := r.archiveExport(ctx, m, exp.Data)
		if err != nil {
			r.logger.Error("export archive failed", "session", id, "export", exp.ID, "error", err)
		} else {
			exp.ArchiveKey = key
		}
	}

	r.logger.Info("export written", "session", id, "export", exp.ID, "rows", len(rows))
	return exp, nil
}

func (r *registry) Exports(ctx context.Context, id uuid.UUID, maxResults int32) ([]storage.BlobInfo, error) {
	if r.store == nil {
		return nil, ErrArchiveDisabled
	}
	return r.store.List(ctx, exportPrefix(id), maxResults)
}

func (r *registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// lookup returns the live session for id and refreshes its idle clock.
func (r *registry) lookup(id uuid.UUID) (*session, time.Time, error) {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.evict(now)
	s, ok := r.sessions[id]
	if !ok {
		return nil, time.Time{}, ErrNotFound
	}
	s.lastSeen = now
	return s, now, nil
}

// evict drops sessions idle longer than the timeout. Requires r.mu.
func (r *registry) evict(now time.Time) {
	for id, s := range r.sessions {
		if now.Sub(s.lastSeen) > r.idle {
			delete(r.sessions, id)
			r.logger.Info("session expired", "session", id, "idle", now.Sub(s.lastSeen))
		}
	}
	r.metrics.Live.Set(float64(len(r.sessions)))
}
