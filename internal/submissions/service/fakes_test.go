package service

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"ulok_portal_backend/internal/adapters/storage"
	"ulok_portal_backend/internal/events"
	"ulok_portal_backend/internal/submissions/domain"
	"ulok_portal_backend/internal/submissions/repository"
	"ulok_portal_backend/platform/apperr"

	"github.com/google/uuid"
)

type fakeRepo struct {
	mu        sync.Mutex
	rows      map[uuid.UUID]domain.Submission
	direct    map[uuid.UUID]domain.Reviewer
	activity  map[uuid.UUID]domain.Reviewer
	verdicts  map[uuid.UUID]string
	createErr error
	updateErr error
	clock     func() time.Time

	// beforeUpdate runs once at the start of the next Update, standing in
	// for a concurrent writer that lands between the read and the write.
	beforeUpdate func()
}

func newFakeRepo(clock func() time.Time) *fakeRepo {
	return &fakeRepo{
		rows:     map[uuid.UUID]domain.Submission{},
		direct:   map[uuid.UUID]domain.Reviewer{},
		activity: map[uuid.UUID]domain.Reviewer{},
		verdicts: map[uuid.UUID]string{},
		clock:    clock,
	}
}

func (r *fakeRepo) put(s domain.Submission) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[s.ID] = s
}

func (r *fakeRepo) row(id uuid.UUID) (domain.Submission, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.rows[id]
	return s, ok
}

func (r *fakeRepo) List(_ context.Context, p repository.ListParams) ([]domain.Submission, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var owned []domain.Submission
	for _, s := range r.rows {
		if s.OwnerID == p.OwnerID {
			owned = append(owned, s)
		}
	}
	sort.Slice(owned, func(i, j int) bool { return owned[i].CreatedAt.After(owned[j].CreatedAt) })
	total := len(owned)
	start := min(p.Offset, total)
	end := min(start+p.Limit, total)
	return owned[start:end], total, nil
}

func (r *fakeRepo) GetByID(_ context.Context, ownerID, id uuid.UUID) (domain.Submission, error) {
	s, ok := r.row(id)
	if !ok || s.OwnerID != ownerID {
		return domain.Submission{}, apperr.NotFound("submission not found")
	}
	return s, nil
}

func (r *fakeRepo) Create(_ context.Context, s domain.Submission) (domain.Submission, error) {
	if r.createErr != nil {
		return domain.Submission{}, r.createErr
	}
	now := r.clock()
	s.CreatedAt, s.UpdatedAt = now, now
	r.put(s)
	return s, nil
}

func (r *fakeRepo) Update(_ context.Context, p repository.UpdateParams) (repository.UpdateResult, error) {
	if hook := r.beforeUpdate; hook != nil {
		r.beforeUpdate = nil
		hook()
	}
	if r.updateErr != nil {
		return repository.UpdateResult{}, r.updateErr
	}
	s, ok := r.row(p.ID)
	if !ok || s.OwnerID != p.OwnerID {
		return repository.UpdateResult{}, apperr.NotFound("submission not found")
	}
	previous := s.PhotoPath
	p.Fields.Apply(&s)
	if p.PhotoPath != nil {
		s.PhotoPath = p.PhotoPath
	}
	s.UpdatedAt = r.clock()
	r.put(s)
	return repository.UpdateResult{Submission: s, PreviousPhotoPath: previous}, nil
}

func (r *fakeRepo) Delete(_ context.Context, ownerID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.rows[id]
	if !ok || s.OwnerID != ownerID {
		return apperr.NotFound("submission not found")
	}
	delete(r.rows, id)
	return nil
}

func (r *fakeRepo) ReviewerByUserID(_ context.Context, userID uuid.UUID) (*domain.Reviewer, error) {
	if rv, ok := r.direct[userID]; ok {
		return &rv, nil
	}
	return nil, nil
}

func (r *fakeRepo) ReviewerFromLatestActivity(_ context.Context, id uuid.UUID) (*domain.Reviewer, error) {
	if rv, ok := r.activity[id]; ok {
		return &rv, nil
	}
	return nil, nil
}

func (r *fakeRepo) LatestVerdict(_ context.Context, id uuid.UUID) (*string, error) {
	if v, ok := r.verdicts[id]; ok {
		return &v, nil
	}
	return nil, nil
}

func (r *fakeRepo) CurrentPhotoPaths(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	out := map[uuid.UUID]string{}
	for _, id := range ids {
		if s, ok := r.row(id); ok {
			out[id] = ""
			if s.PhotoPath != nil {
				out[id] = *s.PhotoPath
			}
		}
	}
	return out, nil
}

type fakeStorage struct {
	mu        sync.Mutex
	objects   map[string]time.Time
	uploadErr error
	deleteErr error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string]time.Time{}}
}

func (f *fakeStorage) Upload(_ context.Context, path, _ string, reader io.Reader, _ int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadErr != nil {
		return f.uploadErr
	}
	if _, exists := f.objects[path]; exists {
		return apperr.Conflict("object exists")
	}
	if _, err := io.Copy(io.Discard, reader); err != nil {
		return err
	}
	f.objects[path] = time.Now()
	return nil
}

func (f *fakeStorage) List(_ context.Context, prefix string) ([]storage.Object, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []storage.Object
	for p, ts := range f.objects {
		if strings.HasPrefix(p, prefix) {
			out = append(out, storage.Object{Path: p, LastModified: ts})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

func (f *fakeStorage) Delete(_ context.Context, paths ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for _, p := range paths {
		delete(f.objects, p)
	}
	return nil
}

func (f *fakeStorage) has(path string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[path]
	return ok
}

func (f *fakeStorage) put(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[path] = time.Now()
}

func (f *fakeStorage) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

func (f *fakeStorage) PublicURL(path string) string {
	return "https://cdn.test/ulok-photos/" + path
}

func (f *fakeStorage) EnsureBucketExists(context.Context) error { return nil }

func (f *fakeStorage) ValidateContentType(contentType string) error {
	if !storage.AllowedContentTypes[storage.NormalizeContentType(contentType)] {
		return errors.New("content type not allowed")
	}
	return nil
}

func (f *fakeStorage) ValidateFileSize(size int64) error {
	if size <= 0 || size > 1<<20 {
		return errors.New("file size out of range")
	}
	return nil
}

type fakeOwners struct {
	known map[uuid.UUID]bool
}

func (f fakeOwners) ExternalUserExists(_ context.Context, id uuid.UUID) (bool, error) {
	return f.known[id], nil
}

type fakeNotifier struct {
	mu   sync.Mutex
	err  error
	sent []Notification
}

func (f *fakeNotifier) Notify(_ context.Context, n Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, n)
	return nil
}

type fakeBus struct {
	mu        sync.Mutex
	published []events.Event
}

func (b *fakeBus) Publish(_ context.Context, e events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = append(b.published, e)
}

func (b *fakeBus) PublishSync(ctx context.Context, e events.Event) error {
	b.Publish(ctx, e)
	return nil
}

func (b *fakeBus) Subscribe(string, events.Handler) {}

func (b *fakeBus) names() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.published))
	for i, e := range b.published {
		out[i] = e.EventName()
	}
	return out
}
