package scheduler

import (
	"context"
	"sort"
	"time"

	"ulok_portal_backend/internal/adapters/storage"
	"ulok_portal_backend/internal/submissions/domain"
	"ulok_portal_backend/platform/logger"

	"github.com/google/uuid"
)

const sweepDeleteBatch = 500

// ObjectStore is the storage surface the sweep needs.
type ObjectStore interface {
	List(ctx context.Context, prefix string) ([]storage.Object, error)
	Delete(ctx context.Context, paths ...string) error
}

// SubmissionIndex maps every submission id that still has a row to the photo
// path the row points at ("" when it has none).
type SubmissionIndex interface {
	CurrentPhotoPaths(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
}

// SweepResult summarizes one sweep run.
type SweepResult struct {
	Scanned int
	Deleted int
}

// OrphanSweeper removes stored files no submission row points at: everything
// under a deleted submission's namespace, and superseded photos under a live
// one. It picks up whatever a failed compensation left behind.
type OrphanSweeper struct {
	store ObjectStore
	index SubmissionIndex
	log   *logger.Logger
}

func NewOrphanSweeper(store ObjectStore, index SubmissionIndex, log *logger.Logger) *OrphanSweeper {
	return &OrphanSweeper{store: store, index: index, log: log}
}

// Sweep deletes orphaned objects last modified before cutoff.
func (s *OrphanSweeper) Sweep(ctx context.Context, cutoff time.Time) (SweepResult, error) {
	objects, err := s.store.List(ctx, "")
	if err != nil {
		return SweepResult{}, err
	}

	byNamespace := groupByNamespace(objects, cutoff)
	if len(byNamespace) == 0 {
		return SweepResult{Scanned: len(objects)}, nil
	}

	ids := make([]uuid.UUID, 0, len(byNamespace))
	for id := range byNamespace {
		ids = append(ids, id)
	}
	current, err := s.index.CurrentPhotoPaths(ctx, ids)
	if err != nil {
		return SweepResult{Scanned: len(objects)}, err
	}

	orphans := selectOrphans(byNamespace, current)
	result := SweepResult{Scanned: len(objects)}
	for start := 0; start < len(orphans); start += sweepDeleteBatch {
		end := min(start+sweepDeleteBatch, len(orphans))
		if err := s.store.Delete(ctx, orphans[start:end]...); err != nil {
			s.log.StorageError("orphan sweep", orphans[start], err)
			return result, err
		}
		result.Deleted += end - start
	}

	if result.Deleted > 0 {
		s.log.Info("orphan sweep removed files", "deleted", result.Deleted, "scanned", result.Scanned)
	}
	return result, nil
}

// groupByNamespace keeps objects older than cutoff that live in a submission
// namespace. Anything else in the bucket is not ours to judge.
func groupByNamespace(objects []storage.Object, cutoff time.Time) map[uuid.UUID][]string {
	out := make(map[uuid.UUID][]string)
	for _, obj := range objects {
		if !obj.LastModified.Before(cutoff) {
			continue
		}
		id, ok := domain.NamespaceOf(obj.Path)
		if !ok {
			continue
		}
		out[id] = append(out[id], obj.Path)
	}
	return out
}

// selectOrphans returns every path of a namespace with no row, and every path
// of a live namespace other than the row's current photo.
func selectOrphans(byNamespace map[uuid.UUID][]string, current map[uuid.UUID]string) []string {
	var orphans []string
	for id, paths := range byNamespace {
		keep, live := current[id]
		for _, p := range paths {
			if live && p == keep {
				continue
			}
			orphans = append(orphans, p)
		}
	}
	sort.Strings(orphans)
	return orphans
}
