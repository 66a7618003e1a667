package sessions

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/newsqual/internal/export"
)

const manifestName = "manifest.json"

type manifest struct {
	ExportID  uuid.UUID `json:"export_id"`
	SessionID uuid.UUID `json:"session_id"`
	Source    string    `json:"source_filename,omitempty"`
	Qualified int       `json:"qualified"`
	Partial   int       `json:"partial"`
	Columns   []string  `json:"columns"`
	CreatedAt time.Time `json:"created_at"`
}

// archiveExport uploads the workbook and its manifest concurrently and
// returns the workbook key.
func (r *registry) archiveExport(ctx context.Context, m manifest, workbook []byte) (string, error) {
	doc, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode manifest: %w", err)
	}

	dir := path.Join(exportPrefix(m.SessionID), m.ExportID.String())
	workbookKey := path.Join(dir, export.Filename)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.store.Upload(gctx, workbookKey, bytes.NewReader(workbook), export.ContentType)
	})
	g.Go(func() error {
		return r.store.Upload(gctx, path.Join(dir, manifestName), bytes.NewReader(doc), "application/json")
	})
	if err := g.Wait(); err != nil {
		return "", err
	}
	return workbookKey, nil
}

func exportPrefix(id uuid.UUID) string {
	return "exports/" + id.String() + "/"
}

func uploadKey(id uuid.UUID, at time.Time, filename string) string {
	return fmt.Sprintf("uploads/%s/%d-%s", id, at.UTC().Unix(), safeName(filename))
}

// safeName reduces a client filename to a single key segment.
func safeName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		}
		return '_'
	}, name)
	name = strings.TrimLeft(name, ".")
	for strings.Contains(name, "..") {
		name = strings.ReplaceAll(name, "..", ".")
	}
	if name == "" {
		return "upload.xlsx"
	}
	return name
}
