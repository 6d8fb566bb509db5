package service

import (
	"ulok_portal_backend/internal/submissions/domain"
	"ulok_portal_backend/internal/submissions/timeline"
	"ulok_portal_backend/internal/submissions/transport"
)

func (s *Service) toResponse(sub domain.Submission, reviewer *domain.Reviewer) transport.SubmissionResponse {
	resp := transport.SubmissionResponse{
		ID:            sub.ID,
		Province:      sub.Province,
		Regency:       sub.Regency,
		District:      sub.District,
		Village:       sub.Village,
		Address:       sub.Address,
		Latitude:      sub.Latitude,
		Longitude:     sub.Longitude,
		ObjectType:    sub.ObjectType,
		LandTitle:     sub.LandTitle,
		FloorCount:    sub.FloorCount,
		FrontageWidth: sub.FrontageWidth,
		Depth:         sub.Depth,
		Area:          sub.Area,
		RentPrice:     sub.RentPrice,
		OwnerName:     sub.OwnerName,
		OwnerPhone:    sub.OwnerPhone,
		PhotoPath:     sub.PhotoPath,
		Status:        string(sub.Status),
		Reviewer:      toReviewerResponse(reviewer),
		ApprovedAt:    sub.ApprovedAt,
		CreatedAt:     sub.CreatedAt,
		UpdatedAt:     sub.UpdatedAt,
		Edited:        sub.Edited(),
	}
	if sub.PhotoPath != nil && *sub.PhotoPath != "" {
		url := s.storage.PublicURL(*sub.PhotoPath)
		resp.PhotoURL = &url
	}
	return resp
}

func (s *Service) statusBlock(sub domain.Submission, reviewer *domain.Reviewer, verdict *string) transport.StatusBlockResponse {
	stages := timeline.Derive(timeline.Input{
		Status:     sub.Status,
		CreatedAt:  sub.CreatedAt,
		ApprovedAt: sub.ApprovedAt,
		Verdict:    verdict,
		Reviewer:   reviewer,
	})

	raw := ""
	if verdict != nil {
		raw = *verdict
	}

	display := timeline.FormatStages(stages, s.loc)
	out := make([]transport.StageResponse, len(stages))
	for i, st := range stages {
		out[i] = transport.StageResponse{
			Name:          st.Name,
			State:         string(st.State),
			Detail:        st.Detail,
			DisplayDetail: display[i].Detail,
		}
	}

	return transport.StatusBlockResponse{
		Status:       string(sub.Status),
		KPLTVerdict:  verdict,
		VerdictClass: timeline.ClassifyVerdict(raw).String(),
		Reviewer:     toReviewerResponse(reviewer),
		Timeline:     out,
	}
}

func toReviewerResponse(r *domain.Reviewer) *transport.ReviewerResponse {
	if r == nil {
		return nil
	}
	resp := &transport.ReviewerResponse{Name: r.Name}
	if r.Phone != "" {
		phone := r.Phone
		resp.Phone = &phone
	}
	return resp
}
