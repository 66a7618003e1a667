package sessions

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/newsqual/internal/annotation"
)

// Info describes a live session and its current snapshot.
type Info struct {
	ID        uuid.UUID           `json:"id"`
	CreatedAt time.Time           `json:"created_at"`
	LastSeen  time.Time           `json:"last_seen"`
	Snapshot  annotation.Snapshot `json:"snapshot"`
}

// Export is a rendered workbook of a session's outcome buckets.
type Export struct {
	ID         uuid.UUID `json:"id"`
	Filename   string    `json:"filename"`
	Qualified  int       `json:"qualified"`
	Partial    int       `json:"partial"`
	ArchiveKey string    `json:"archive_key,omitempty"`
	Data       []byte    `json:"-"`
}

type session struct {
	id      uuid.UUID
	created time.Time

	// lastSeen is guarded by the registry lock.
	lastSeen time.Time

	mu sync.Mutex
	ws *annotation.Workspace
}

func (s *session) info() *Info {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &Info{
		ID:        s.id,
		CreatedAt: s.created,
		Snapshot:  s.ws.Snapshot(),
	}
}
