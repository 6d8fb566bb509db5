package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"ulok_portal_backend/internal/submissions/domain"
	"ulok_portal_backend/internal/submissions/timeline"
	"ulok_portal_backend/internal/submissions/transport"
	"ulok_portal_backend/platform/apperr"
	"ulok_portal_backend/platform/logger"
	"ulok_portal_backend/platform/validator"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	svc      *Service
	repo     *fakeRepo
	storage  *fakeStorage
	notifier *fakeNotifier
	bus      *fakeBus
	owner    uuid.UUID
	stranger uuid.UUID
	clock    time.Time
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		storage:  newFakeStorage(),
		notifier: &fakeNotifier{},
		bus:      &fakeBus{},
		owner:    uuid.New(),
		stranger: uuid.New(),
		clock:    time.Date(2026, 10, 16, 7, 0, 0, 0, time.UTC),
	}
	tick := func() time.Time {
		h.clock = h.clock.Add(time.Second)
		return h.clock
	}
	h.repo = newFakeRepo(tick)
	h.svc = New(Deps{
		Repo:     h.repo,
		Storage:  h.storage,
		Owners:   fakeOwners{known: map[uuid.UUID]bool{h.owner: true, h.stranger: true}},
		Notifier: h.notifier,
		Checker:  domain.NewChecker(validator.New(), "ID"),
		EventBus: h.bus,
		Logger:   logger.Discard(),
		Now:      tick,
	})
	return h
}

func sp(s string) *string   { return &s }
func fp(f float64) *float64 { return &f }
func ip(i int) *int         { return &i }

func createFields() domain.Fields {
	return domain.Fields{
		Province:      sp("Jawa Barat"),
		Regency:       sp("Kota Bandung"),
		District:      sp("Coblong"),
		Village:       sp("Dago"),
		Address:       sp("Jl. Dago No. 1"),
		Latitude:      fp(-6.89),
		Longitude:     fp(107.61),
		ObjectType:    sp("building"),
		LandTitle:     sp("SHM"),
		FloorCount:    ip(2),
		FrontageWidth: fp(8),
		Depth:         fp(15),
		Area:          fp(120),
		RentPrice:     fp(75000000),
		OwnerName:     sp("Siti"),
		OwnerPhone:    sp("081234567890"),
	}
}

func photo(name string) *transport.PhotoUpload {
	return &transport.PhotoUpload{
		FileName:    name,
		ContentType: "image/jpeg",
		Size:        4,
		Content:     strings.NewReader("jpeg"),
	}
}

func (h *harness) seed(t *testing.T, owner uuid.UUID) domain.Submission {
	t.Helper()
	created, err := h.svc.Create(context.Background(), owner, createFields(), photo("awal.jpg"))
	require.NoError(t, err)
	row, ok := h.repo.row(created.ID)
	require.True(t, ok)
	return row
}

func TestCreateStoresPhotoAndRecord(t *testing.T) {
	h := newHarness(t)

	resp, err := h.svc.Create(context.Background(), h.owner, createFields(), photo("Tampak Depan.JPG"))
	require.NoError(t, err)

	require.NotNil(t, resp.PhotoPath)
	assert.True(t, h.storage.has(*resp.PhotoPath))
	assert.True(t, strings.HasPrefix(*resp.PhotoPath, resp.ID.String()+"/"))
	assert.True(t, strings.HasSuffix(*resp.PhotoPath, "-tampak-depan.jpg"))
	assert.Equal(t, "https://cdn.test/ulok-photos/"+*resp.PhotoPath, *resp.PhotoURL)

	row, ok := h.repo.row(resp.ID)
	require.True(t, ok)
	assert.Equal(t, h.owner, row.OwnerID)
	assert.Equal(t, *resp.PhotoPath, *row.PhotoPath)
	assert.Equal(t, domain.StatusInProgress, row.Status)
	assert.Equal(t, domain.ObjectTypeBuilding, row.ObjectType)
	assert.Equal(t, "+6281234567890", row.OwnerPhone)
	assert.False(t, resp.Edited)

	require.Len(t, h.notifier.sent, 1)
	assert.Equal(t, h.owner, h.notifier.sent[0].UserID)
	assert.Equal(t, resp.ID, h.notifier.sent[0].SubmissionID)
	assert.Equal(t, []string{"submission.created"}, h.bus.names())
}

func TestCreateRollsBackUploadWhenInsertFails(t *testing.T) {
	h := newHarness(t)
	h.repo.createErr = errors.New("insert or update on table \"ulok\" violates foreign key constraint")

	_, err := h.svc.Create(context.Background(), h.owner, createFields(), photo("a.jpg"))

	require.Error(t, err)
	assert.Equal(t, apperr.KindBadRequest, apperr.GetKind(err))
	assert.Contains(t, err.Error(), "violates foreign key constraint")
	assert.Zero(t, h.storage.count())
	assert.Empty(t, h.notifier.sent)
}

func TestCreateRollbackFailureKeepsPrimaryError(t *testing.T) {
	h := newHarness(t)
	h.repo.createErr = errors.New("insert failed")
	h.storage.deleteErr = errors.New("storage offline")

	_, err := h.svc.Create(context.Background(), h.owner, createFields(), photo("a.jpg"))

	require.Error(t, err)
	assert.Equal(t, "insert failed", err.Error())
}

func TestCreateValidationListsEveryFieldAndSkipsUpload(t *testing.T) {
	h := newHarness(t)
	f := createFields()
	f.Area = fp(0)
	f.Village = sp(" ")

	_, err := h.svc.Create(context.Background(), h.owner, f, nil)

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperr.KindValidation, appErr.Kind)
	assert.Equal(t, []apperr.FieldError{
		{Field: "village", Reason: "must not be empty"},
		{Field: "area", Reason: "must be greater than 0"},
		{Field: "photo", Reason: "is required"},
	}, appErr.Details)
	assert.Zero(t, h.storage.count())
}

func TestCreateRejectsNonImagePhoto(t *testing.T) {
	h := newHarness(t)
	p := photo("doc.pdf")
	p.ContentType = "application/pdf"

	_, err := h.svc.Create(context.Background(), h.owner, createFields(), p)

	assert.Equal(t, apperr.KindValidation, apperr.GetKind(err))
	assert.Zero(t, h.storage.count())
}

func TestCreateSurfacesNotificationFailure(t *testing.T) {
	h := newHarness(t)
	h.notifier.err = errors.New("notifications insert failed")

	_, err := h.svc.Create(context.Background(), h.owner, createFields(), photo("a.jpg"))

	require.Error(t, err)
	assert.Equal(t, apperr.KindBadRequest, apperr.GetKind(err))
	// The record and its photo remain; the caller sees the failure.
	assert.Len(t, h.repo.rows, 1)
	assert.Equal(t, 1, h.storage.count())
	assert.Empty(t, h.bus.names())
}

func TestUnknownOwnerIsUnauthorized(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	nobody := uuid.New()

	_, err := h.svc.Create(ctx, nobody, createFields(), photo("a.jpg"))
	assert.Equal(t, apperr.KindUnauthorized, apperr.GetKind(err))
	assert.Zero(t, h.storage.count())

	_, err = h.svc.List(ctx, uuid.Nil, transport.ListSubmissionsRequest{})
	assert.Equal(t, apperr.KindUnauthorized, apperr.GetKind(err))
}

func TestGetHidesOtherOwnersSubmissions(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	sub := h.seed(t, h.owner)

	_, missingErr := h.svc.Get(ctx, h.stranger, uuid.New())
	_, foreignErr := h.svc.Get(ctx, h.stranger, sub.ID)

	require.Error(t, missingErr)
	require.Error(t, foreignErr)
	assert.Equal(t, apperr.KindNotFound, apperr.GetKind(foreignErr))
	assert.Equal(t, missingErr.Error(), foreignErr.Error())
	assert.Equal(t, apperr.GetKind(missingErr), apperr.GetKind(foreignErr))
}

func TestGetBuildsStatusBlock(t *testing.T) {
	h := newHarness(t)
	sub := h.seed(t, h.owner)
	reviewerID := uuid.New()
	sub.ReviewerID = &reviewerID
	h.repo.put(sub)
	h.repo.direct[reviewerID] = domain.Reviewer{Name: "Budi", Phone: "0812"}
	h.repo.verdicts[sub.ID] = "Ditolak oleh KPLT"

	resp, err := h.svc.Get(context.Background(), h.owner, sub.ID)
	require.NoError(t, err)

	block := resp.StatusBlock
	assert.Equal(t, "In Progress", block.Status)
	assert.Equal(t, "rejected", block.VerdictClass)
	require.NotNil(t, block.Reviewer)
	assert.Equal(t, "Budi", block.Reviewer.Name)
	require.Len(t, block.Timeline, 3)
	assert.Equal(t, "16 Oktober 2026 07.00 UTC", block.Timeline[0].DisplayDetail)
	assert.Equal(t, "Surveyor : Budi\nNomor Telpon : 0812", block.Timeline[1].Detail)
	assert.Equal(t, block.Timeline[1].Detail, block.Timeline[1].DisplayDetail)
	assert.Equal(t, string(timeline.StatePending), block.Timeline[2].State)
}

func TestReviewerFallsBackToAssignmentActivity(t *testing.T) {
	h := newHarness(t)
	sub := h.seed(t, h.owner)
	h.repo.activity[sub.ID] = domain.Reviewer{Name: "Rina"}

	list, err := h.svc.List(context.Background(), h.owner, transport.ListSubmissionsRequest{})
	require.NoError(t, err)

	require.Len(t, list.Data, 1)
	require.NotNil(t, list.Data[0].Reviewer)
	assert.Equal(t, "Rina", list.Data[0].Reviewer.Name)
	assert.Nil(t, list.Data[0].Reviewer.Phone)
}

func TestUpdateKeepsImmutableFields(t *testing.T) {
	h := newHarness(t)
	sub := h.seed(t, h.owner)
	branch, reviewer := uuid.New(), uuid.New()
	approvedAt := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	sub.Status = domain.StatusOK
	sub.BranchID = &branch
	sub.ReviewerID = &reviewer
	sub.ApprovedAt = &approvedAt
	h.repo.put(sub)

	form := map[string][]string{
		"status":      {"Draft"},
		"branch_id":   {uuid.NewString()},
		"reviewer_id": {uuid.NewString()},
		"approved_at": {"2030-01-01"},
		"owner_id":    {h.stranger.String()},
		"id":          {uuid.NewString()},
		"area":        {"200"},
	}
	domain.StripImmutable(form)

	_, err := h.svc.Update(context.Background(), h.owner, sub.ID, transport.DecodeFields(form), nil)
	require.NoError(t, err)

	after, ok := h.repo.row(sub.ID)
	require.True(t, ok)
	assert.Equal(t, sub.ID, after.ID)
	assert.Equal(t, h.owner, after.OwnerID)
	assert.Equal(t, domain.StatusOK, after.Status)
	assert.Equal(t, &branch, after.BranchID)
	assert.Equal(t, &reviewer, after.ReviewerID)
	assert.Equal(t, &approvedAt, after.ApprovedAt)
	assert.Equal(t, 200.0, after.Area)
	assert.True(t, after.UpdatedAt.After(after.CreatedAt))
}

func TestUpdateReplacesPhoto(t *testing.T) {
	h := newHarness(t)
	sub := h.seed(t, h.owner)
	oldPath := *sub.PhotoPath

	resp, err := h.svc.Update(context.Background(), h.owner, sub.ID, domain.Fields{}, photo("baru.png"))
	require.NoError(t, err)

	objects, err := h.storage.List(context.Background(), domain.Namespace(sub.ID))
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, *resp.PhotoPath, objects[0].Path)
	assert.NotEqual(t, oldPath, *resp.PhotoPath)
	assert.False(t, h.storage.has(oldPath))
	assert.Contains(t, h.bus.names(), "submission.updated")
}

func TestConcurrentPhotoUpdatesLeaveOnlyTheWinner(t *testing.T) {
	h := newHarness(t)
	sub := h.seed(t, h.owner)
	oldPath := *sub.PhotoPath

	var racerPath string
	h.repo.beforeUpdate = func() {
		resp, err := h.svc.Update(context.Background(), h.owner, sub.ID, domain.Fields{}, photo("b.png"))
		require.NoError(t, err)
		racerPath = *resp.PhotoPath
	}

	resp, err := h.svc.Update(context.Background(), h.owner, sub.ID, domain.Fields{}, photo("a.png"))
	require.NoError(t, err)

	objects, err := h.storage.List(context.Background(), domain.Namespace(sub.ID))
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, *resp.PhotoPath, objects[0].Path)
	assert.False(t, h.storage.has(oldPath))
	assert.False(t, h.storage.has(racerPath))
}

func TestUpdateFailureDeletesNewPhotoAndKeepsOld(t *testing.T) {
	h := newHarness(t)
	sub := h.seed(t, h.owner)
	oldPath := *sub.PhotoPath
	h.repo.updateErr = errors.New("update failed")

	_, err := h.svc.Update(context.Background(), h.owner, sub.ID, domain.Fields{}, photo("baru.png"))

	require.Error(t, err)
	assert.Equal(t, apperr.KindBadRequest, apperr.GetKind(err))
	objects, err := h.storage.List(context.Background(), domain.Namespace(sub.ID))
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, oldPath, objects[0].Path)
}

func TestUpdateNotOwnedIsNotFound(t *testing.T) {
	h := newHarness(t)
	sub := h.seed(t, h.owner)

	_, err := h.svc.Update(context.Background(), h.stranger, sub.ID, domain.Fields{Area: fp(1)}, photo("x.jpg"))

	assert.Equal(t, apperr.KindNotFound, apperr.GetKind(err))
	assert.Equal(t, 1, h.storage.count())
}

func TestUpdateAcceptsLegacyObjectType(t *testing.T) {
	h := newHarness(t)
	sub := h.seed(t, h.owner)
	sub.ObjectType = "Ruko"
	h.repo.put(sub)

	resp, err := h.svc.Update(context.Background(), h.owner, sub.ID, domain.Fields{ObjectType: sp("Ruko")}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Ruko", resp.ObjectType)

	_, err = h.svc.Update(context.Background(), h.owner, sub.ID, domain.Fields{ObjectType: sp("Gudang")}, nil)
	assert.Equal(t, apperr.KindValidation, apperr.GetKind(err))
}

func TestDeleteRemovesWholeNamespace(t *testing.T) {
	h := newHarness(t)
	sub := h.seed(t, h.owner)
	other := h.seed(t, h.owner)
	stray := domain.Namespace(sub.ID) + "1600000000000-lama.jpg"
	h.storage.put(stray)

	require.NoError(t, h.svc.Delete(context.Background(), h.owner, sub.ID))

	_, exists := h.repo.row(sub.ID)
	assert.False(t, exists)
	objects, err := h.storage.List(context.Background(), domain.Namespace(sub.ID))
	require.NoError(t, err)
	assert.Empty(t, objects)
	assert.True(t, h.storage.has(*other.PhotoPath))
	assert.Contains(t, h.bus.names(), "submission.deleted")
}

func TestDeleteSwallowsStorageFailure(t *testing.T) {
	h := newHarness(t)
	sub := h.seed(t, h.owner)
	h.storage.deleteErr = errors.New("storage offline")

	err := h.svc.Delete(context.Background(), h.owner, sub.ID)

	require.NoError(t, err)
	_, exists := h.repo.row(sub.ID)
	assert.False(t, exists)
}

func TestDeleteNotOwnedIsNotFound(t *testing.T) {
	h := newHarness(t)
	sub := h.seed(t, h.owner)

	err := h.svc.Delete(context.Background(), h.stranger, sub.ID)

	assert.Equal(t, apperr.KindNotFound, apperr.GetKind(err))
	_, exists := h.repo.row(sub.ID)
	assert.True(t, exists)
}

func TestListIsNewestFirstAndPaginated(t *testing.T) {
	h := newHarness(t)
	first := h.seed(t, h.owner)
	second := h.seed(t, h.owner)
	h.seed(t, h.stranger)

	list, err := h.svc.List(context.Background(), h.owner, transport.ListSubmissionsRequest{Limit: ip(500), Offset: ip(-5)})
	require.NoError(t, err)

	assert.Equal(t, 100, list.Limit)
	assert.Equal(t, 0, list.Offset)
	assert.Equal(t, 2, list.Count)
	require.Len(t, list.Data, 2)
	assert.Equal(t, second.ID, list.Data[0].ID)
	assert.Equal(t, first.ID, list.Data[1].ID)
}

func TestNormalizePage(t *testing.T) {
	cases := []struct {
		name          string
		limit, offset *int
		wantLimit     int
		wantOffset    int
	}{
		{"defaults", nil, nil, 20, 0},
		{"clamps high limit", ip(500), nil, 100, 0},
		{"clamps negative offset", ip(10), ip(-5), 10, 0},
		{"negative limit is zero", ip(-1), ip(3), 0, 3},
		{"zero limit kept", ip(0), nil, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			limit, offset := NormalizePage(tc.limit, tc.offset)
			assert.Equal(t, tc.wantLimit, limit)
			assert.Equal(t, tc.wantOffset, offset)
		})
	}
}
