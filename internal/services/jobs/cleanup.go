package jobs

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/DLXHub/API/internal/models"
)

// CleanupHandler removes files in the temp directory that are older than the
// configured age.
type CleanupHandler struct {
	dir    string
	maxAge time.Duration
	log    zerolog.Logger
}

func NewCleanupHandler(dir string, maxAge time.Duration, log zerolog.Logger) *CleanupHandler {
	return &CleanupHandler{dir: dir, maxAge: maxAge, log: log}
}

func (h *CleanupHandler) Execute(ctx context.Context, job *models.Job) error {
	cutoff := time.Now().Add(-h.maxAge)
	deleted := 0

	entries, err := os.ReadDir(h.dir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if entry.IsDir() {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}

		path := filepath.Join(h.dir, entry.Name())
		if err := os.Remove(path); err != nil {
			h.log.Warn().Err(err).Str("path", path).Msg("failed to remove temp file")
			continue
		}
		deleted++
	}

	h.log.Info().Int("deleted", deleted).Str("dir", h.dir).Msg("temp files cleaned up")

	params := job.GetParameters()
	params["LastCleanupTime"] = time.Now().UTC().Format(time.RFC3339)
	params["FilesDeleted"] = strconv.Itoa(deleted)
	return job.SetParameters(params)
}
