package usecase

import (
	"context"
	"log/slog"
	"time"

	"lexbridge/src/core/domain"
	"lexbridge/src/core/ports"
)

// snapshotVersion tags the export format so a future importer can tell
// dumps apart.
const snapshotVersion = "1.0"

// ExportService produces full point-in-time dumps of every store.
// There is no import counterpart: restoring a snapshot means replaying its
// records through upsert, in any order.
type ExportService struct {
	repo ports.DocumentRepository
	log  *slog.Logger
}

// NewExportService creates a new ExportService.
func NewExportService(repo ports.DocumentRepository, log *slog.Logger) *ExportService {
	return &ExportService{repo: repo, log: log}
}

// Snapshot reads every store and wraps the result with the format version
// and the capture time.
func (s *ExportService) Snapshot(ctx context.Context) (*domain.Snapshot, error) {
	data, err := s.repo.ExportAll(ctx)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, records := range data {
		total += len(records)
	}
	s.log.Info("snapshot exported", "stores", len(data), "records", total)

	return &domain.Snapshot{
		Version:   snapshotVersion,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}, nil
}
