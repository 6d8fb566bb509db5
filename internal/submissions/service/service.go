// Package service implements the submission lifecycle: owner-scoped reads and
// writes that keep the stored photo consistent with the record.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"ulok_portal_backend/internal/adapters/storage"
	"ulok_portal_backend/internal/events"
	"ulok_portal_backend/internal/submissions/domain"
	"ulok_portal_backend/internal/submissions/repository"
	"ulok_portal_backend/internal/submissions/transport"
	"ulok_portal_backend/platform/apperr"
	"ulok_portal_backend/platform/logger"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	defaultListLimit    = 20
	maxListLimit        = 100
	reviewerConcurrency = 8

	msgUnauthorized      = "unauthorized"
	msgRetrievalFailed   = "failed to retrieve submissions"
	notificationTitle    = "Pengajuan ULOK berhasil dikirim"
	notificationBodyTmpl = "Pengajuan lokasi %s, %s telah kami terima dan akan segera disurvey."
)

// Deps are the collaborators of Service.
type Deps struct {
	Repo      repository.Repository
	Storage   storage.StorageService
	Owners    OwnerDirectory
	Notifier  Notifier
	Reviewers ReviewerResolver
	Checker   *domain.Checker
	EventBus  events.Bus
	Location  *time.Location
	Logger    *logger.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// Service is the submission lifecycle manager.
type Service struct {
	repo      repository.Repository
	storage   storage.StorageService
	owners    OwnerDirectory
	notifier  Notifier
	reviewers ReviewerResolver
	checker   *domain.Checker
	bus       events.Bus
	loc       *time.Location
	log       *logger.Logger
	now       func() time.Time
}

// New creates a new submissions service.
func New(deps Deps) *Service {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Location == nil {
		deps.Location = time.UTC
	}
	if deps.Reviewers == nil {
		deps.Reviewers = DefaultReviewerChain(deps.Repo)
	}
	return &Service{
		repo:      deps.Repo,
		storage:   deps.Storage,
		owners:    deps.Owners,
		notifier:  deps.Notifier,
		reviewers: deps.Reviewers,
		checker:   deps.Checker,
		bus:       deps.EventBus,
		loc:       deps.Location,
		log:       deps.Logger,
		now:       deps.Now,
	}
}

// NormalizePage applies the default limit and clamps limit to [0,100] and
// offset to >= 0.
func NormalizePage(limit, offset *int) (int, int) {
	l := defaultListLimit
	if limit != nil {
		l = min(max(*limit, 0), maxListLimit)
	}
	o := 0
	if offset != nil {
		o = max(*offset, 0)
	}
	return l, o
}

// List returns the owner's submissions, newest first, with reviewers resolved.
func (s *Service) List(ctx context.Context, ownerID uuid.UUID, req transport.ListSubmissionsRequest) (transport.SubmissionListResponse, error) {
	if err := s.requireOwner(ctx, ownerID); err != nil {
		return transport.SubmissionListResponse{}, err
	}

	limit, offset := NormalizePage(req.Limit, req.Offset)
	items, total, err := s.repo.List(ctx, repository.ListParams{OwnerID: ownerID, Limit: limit, Offset: offset})
	if err != nil {
		s.log.WithContext(ctx).DatabaseError("list submissions", err)
		return transport.SubmissionListResponse{}, apperr.Wrap(apperr.KindInternal, msgRetrievalFailed, err)
	}

	reviewers := make([]*domain.Reviewer, len(items))
	var g errgroup.Group
	g.SetLimit(reviewerConcurrency)
	for i := range items {
		g.Go(func() error {
			reviewers[i] = s.resolveReviewer(ctx, items[i])
			return nil
		})
	}
	_ = g.Wait()

	data := make([]transport.SubmissionResponse, len(items))
	for i, item := range items {
		data[i] = s.toResponse(item, reviewers[i])
	}
	return transport.SubmissionListResponse{Data: data, Count: total, Limit: limit, Offset: offset}, nil
}

// Get returns one owned submission with its status block. A submission owned
// by someone else is reported exactly like a missing one.
func (s *Service) Get(ctx context.Context, ownerID, id uuid.UUID) (transport.SubmissionDetailResponse, error) {
	if err := s.requireOwner(ctx, ownerID); err != nil {
		return transport.SubmissionDetailResponse{}, err
	}

	sub, err := s.repo.GetByID(ctx, ownerID, id)
	if err != nil {
		return transport.SubmissionDetailResponse{}, readErr(err)
	}

	var (
		reviewer *domain.Reviewer
		verdict  *string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		reviewer = s.resolveReviewer(gctx, sub)
		return nil
	})
	g.Go(func() error {
		v, err := s.repo.LatestVerdict(gctx, sub.ID)
		if err != nil {
			return err
		}
		verdict = v
		return nil
	})
	if err := g.Wait(); err != nil {
		s.log.WithContext(ctx).DatabaseError("latest verdict", err)
		return transport.SubmissionDetailResponse{}, apperr.Upstream(apperr.KindInternal, err)
	}

	return transport.SubmissionDetailResponse{
		SubmissionResponse: s.toResponse(sub, reviewer),
		StatusBlock:        s.statusBlock(sub, reviewer, verdict),
	}, nil
}

// Create validates fields, uploads the photo under a fresh namespace, inserts
// the record and notifies the owner. The upload is removed again when the
// insert fails.
func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, fields domain.Fields, photo *transport.PhotoUpload) (transport.SubmissionResponse, error) {
	if err := s.requireOwner(ctx, ownerID); err != nil {
		return transport.SubmissionResponse{}, err
	}

	var photoErrs []apperr.FieldError
	if photo == nil {
		photoErrs = append(photoErrs, apperr.FieldError{Field: transport.PhotoField, Reason: "is required"})
	} else {
		photoErrs = s.checkPhoto(photo)
	}
	valid, err := s.checker.ValidateCreate(fields, photoErrs...)
	if err != nil {
		return transport.SubmissionResponse{}, err
	}

	log := s.log.WithContext(ctx)
	id := uuid.New()
	path := domain.PhotoPath(id, s.now(), photo.FileName)
	if err := s.storage.Upload(ctx, path, photo.ContentType, photo.Content, photo.Size); err != nil {
		log.StorageError("upload photo", path, err)
		return transport.SubmissionResponse{}, apperr.Upstream(apperr.KindBadRequest, err)
	}

	record := domain.Submission{ID: id, OwnerID: ownerID, PhotoPath: &path, Status: domain.StatusInProgress}
	valid.Apply(&record)

	created, err := s.repo.Create(ctx, record)
	if err != nil {
		log.DatabaseError("create submission", err)
		s.removeObjects(ctx, "rollback photo", path)
		return transport.SubmissionResponse{}, apperr.Upstream(apperr.KindBadRequest, err)
	}

	err = s.notifier.Notify(ctx, Notification{
		UserID:       ownerID,
		SubmissionID: created.ID,
		Title:        notificationTitle,
		Body:         fmt.Sprintf(notificationBodyTmpl, created.Address, created.Village),
	})
	if err != nil {
		log.Error("submission stored but owner notification failed",
			slog.String("submission_id", created.ID.String()),
			slog.String("error", err.Error()),
		)
		return transport.SubmissionResponse{}, apperr.Upstream(apperr.KindBadRequest, err)
	}

	s.publish(ctx, events.SubmissionCreated{
		BaseEvent:    events.NewBaseEvent(),
		SubmissionID: created.ID,
		OwnerID:      ownerID,
		PhotoPath:    path,
	})
	log.Info("submission created", "id", created.ID)

	return s.toResponse(created, nil), nil
}

// Update applies an owner edit. Immutable columns are never part of fields.
// A new photo is uploaded first; the path the row update replaced is deleted
// only after the row points at the new one, and the new one is deleted if the
// row update fails.
func (s *Service) Update(ctx context.Context, ownerID, id uuid.UUID, fields domain.Fields, photo *transport.PhotoUpload) (transport.SubmissionResponse, error) {
	if err := s.requireOwner(ctx, ownerID); err != nil {
		return transport.SubmissionResponse{}, err
	}

	existing, err := s.repo.GetByID(ctx, ownerID, id)
	if err != nil {
		return transport.SubmissionResponse{}, readErr(err)
	}

	var photoErrs []apperr.FieldError
	if photo != nil {
		photoErrs = s.checkPhoto(photo)
	}
	valid, err := s.checker.ValidatePatch(fields, existing, photoErrs...)
	if err != nil {
		return transport.SubmissionResponse{}, err
	}

	log := s.log.WithContext(ctx)
	var newPath *string
	if photo != nil {
		path := domain.PhotoPath(id, s.now(), photo.FileName)
		if err := s.storage.Upload(ctx, path, photo.ContentType, photo.Content, photo.Size); err != nil {
			log.StorageError("upload photo", path, err)
			return transport.SubmissionResponse{}, apperr.Upstream(apperr.KindBadRequest, err)
		}
		newPath = &path
	}

	res, err := s.repo.Update(ctx, repository.UpdateParams{
		ID:        id,
		OwnerID:   ownerID,
		Fields:    valid,
		PhotoPath: newPath,
	})
	if err != nil {
		if newPath != nil {
			s.removeObjects(ctx, "rollback photo", *newPath)
		}
		if apperr.Is(err, apperr.KindNotFound) {
			return transport.SubmissionResponse{}, err
		}
		log.DatabaseError("update submission", err)
		return transport.SubmissionResponse{}, apperr.Upstream(apperr.KindBadRequest, err)
	}

	updated := res.Submission
	if prev := res.PreviousPhotoPath; newPath != nil && prev != nil && *prev != "" && *prev != *newPath {
		s.removeObjects(ctx, "replace photo", *prev)
	}

	s.publish(ctx, events.SubmissionUpdated{
		BaseEvent:    events.NewBaseEvent(),
		SubmissionID: updated.ID,
		OwnerID:      ownerID,
		PhotoChanged: newPath != nil,
	})

	return s.toResponse(updated, s.resolveReviewer(ctx, updated)), nil
}

// Delete removes the record and then every stored file under its namespace.
// File cleanup failures are logged only.
func (s *Service) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if err := s.requireOwner(ctx, ownerID); err != nil {
		return err
	}

	if _, err := s.repo.GetByID(ctx, ownerID, id); err != nil {
		return readErr(err)
	}

	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return err
		}
		s.log.WithContext(ctx).DatabaseError("delete submission", err)
		return apperr.Upstream(apperr.KindBadRequest, err)
	}

	s.purgeNamespace(ctx, id)

	s.publish(ctx, events.SubmissionDeleted{
		BaseEvent:    events.NewBaseEvent(),
		SubmissionID: id,
		OwnerID:      ownerID,
	})
	return nil
}

func (s *Service) purgeNamespace(ctx context.Context, id uuid.UUID) {
	cleanupCtx := context.WithoutCancel(ctx)
	prefix := domain.Namespace(id)

	objects, err := s.storage.List(cleanupCtx, prefix)
	if err != nil {
		s.log.WithContext(ctx).StorageError("list namespace", prefix, err)
		return
	}
	if len(objects) == 0 {
		return
	}
	paths := make([]string, len(objects))
	for i, obj := range objects {
		paths[i] = obj.Path
	}
	s.removeObjects(ctx, "purge namespace", paths...)
}

// removeObjects is a best-effort compensation. It outlives request
// cancellation and never returns an error.
func (s *Service) removeObjects(ctx context.Context, operation string, paths ...string) {
	if err := s.storage.Delete(context.WithoutCancel(ctx), paths...); err != nil {
		for _, p := range paths {
			s.log.WithContext(ctx).StorageError(operation, p, err)
		}
	}
}

func (s *Service) requireOwner(ctx context.Context, ownerID uuid.UUID) error {
	if ownerID == uuid.Nil {
		return apperr.Unauthorized(msgUnauthorized)
	}
	ok, err := s.owners.ExternalUserExists(ctx, ownerID)
	if err != nil {
		s.log.WithContext(ctx).DatabaseError("owner lookup", err)
		return apperr.Upstream(apperr.KindInternal, err)
	}
	if !ok {
		return apperr.Unauthorized(msgUnauthorized)
	}
	return nil
}

func (s *Service) checkPhoto(photo *transport.PhotoUpload) []apperr.FieldError {
	var out []apperr.FieldError
	if err := s.storage.ValidateContentType(photo.ContentType); err != nil {
		out = append(out, apperr.FieldError{Field: transport.PhotoField, Reason: err.Error()})
	}
	if err := s.storage.ValidateFileSize(photo.Size); err != nil {
		out = append(out, apperr.FieldError{Field: transport.PhotoField, Reason: err.Error()})
	}
	return out
}

// resolveReviewer never fails; resolution errors are logged and yield nil.
func (s *Service) resolveReviewer(ctx context.Context, sub domain.Submission) *domain.Reviewer {
	reviewer, err := s.reviewers.ResolveReviewer(ctx, sub)
	if err != nil {
		s.log.WithContext(ctx).Warn("reviewer resolution failed",
			slog.String("submission_id", sub.ID.String()),
			slog.String("error", err.Error()),
		)
		return nil
	}
	return reviewer
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.bus != nil {
		s.bus.Publish(ctx, event)
	}
}

func readErr(err error) error {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	return apperr.Upstream(apperr.KindInternal, err)
}
