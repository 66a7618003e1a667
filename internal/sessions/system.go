package sessions

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/JaimeStill/newsqual/internal/annotation"
	"github.com/JaimeStill/newsqual/pkg/lifecycle"
	"github.com/JaimeStill/newsqual/pkg/pagination"
	"github.com/JaimeStill/newsqual/pkg/storage"
)

// System defines the public contract for annotation sessions. Each session
// owns one workspace; commands against a session run one at a time.
type System interface {
	Handler(maxUploadSize int64, page pagination.Config) *Handler

	// Start registers the shutdown hook that releases live sessions.
	Start(lc *lifecycle.Coordinator) error

	Create(ctx context.Context) (*Info, error)
	Find(ctx context.Context, id uuid.UUID) (*Info, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// Do runs fn against the session's workspace under the session lock and
	// returns the resulting snapshot.
	Do(ctx context.Context, id uuid.UUID, fn func(*annotation.Workspace) error) (annotation.Snapshot, error)

	// Upload ingests a spreadsheet into the session's active bucket and, when
	// archival is configured, stores the source file.
	Upload(ctx context.Context, id uuid.UUID, filename string, r io.Reader) (annotation.Snapshot, error)
	// Export renders the outcome buckets as a workbook.
	Export(ctx context.Context, id uuid.UUID) (*Export, error)
	// Exports lists the archived exports for a session.
	Exports(ctx context.Context, id uuid.UUID, maxResults int32) ([]storage.BlobInfo, error)

	// Len returns the number of live sessions.
	Len() int
}
