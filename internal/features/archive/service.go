package archive

import (
	"context"
	"fmt"

	"go-telecrm/internal/features/lead"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

type ArchiveService interface {
	MoveToReport(ctx context.Context, leadID string, actorID string) (*ArchivedLead, error)
	ListArchived(ctx context.Context, limit, offset int64) ([]ArchivedLead, int64, error)
}

type ArchiveServiceImpl struct {
	Repo     ArchiveRepository
	LeadRepo lead.LeadRepository
	Mirror   *SQLMirror
	Logger   *zap.Logger
}

func NewArchiveService(repo ArchiveRepository, leadRepo lead.LeadRepository, mirror *SQLMirror, logger *zap.Logger) ArchiveService {
	return &ArchiveServiceImpl{
		Repo:     repo,
		LeadRepo: leadRepo,
		Mirror:   mirror,
		Logger:   logger,
	}
}

// MoveToReport is the explicit administrative cleanup: the lead leaves the
// active pipeline, its identity becomes un-resurrectable, and the row is
// mirrored to the SQL reporting database when one is configured.
func (s *ArchiveServiceImpl) MoveToReport(ctx context.Context, leadID string, actorID string) (*ArchivedLead, error) {
	l, err := s.LeadRepo.FindByID(ctx, leadID)
	if err != nil {
		return nil, fmt.Errorf("lead not found: %w", err)
	}

	entry := &ArchivedLead{Lead: *l, ArchivedBy: actorID}
	if err := s.Repo.Insert(ctx, entry); err != nil {
		return nil, fmt.Errorf("archive lead: %w", err)
	}

	if err := s.LeadRepo.Delete(ctx, l.ID); err != nil {
		return nil, fmt.Errorf("remove lead from active pipeline: %w", err)
	}

	if s.Mirror.Enabled() {
		if err := s.Mirror.Push(ctx, entry); err != nil {
			// the archive itself succeeded; the mirror is best effort
			s.Logger.Warn("reporting mirror push failed",
				zap.String("store", entry.Store),
				zap.Error(err))
		}
	}

	return entry, nil
}

func (s *ArchiveServiceImpl) ListArchived(ctx context.Context, limit, offset int64) ([]ArchivedLead, int64, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}
	return s.Repo.List(ctx, bson.M{}, limit, offset)
}
