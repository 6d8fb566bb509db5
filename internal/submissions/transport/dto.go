package transport

import (
	"io"
	"time"

	"github.com/google/uuid"
)

// ListSubmissionsRequest carries the pagination query. Nil means "not sent".
type ListSubmissionsRequest struct {
	Limit  *int `form:"limit"`
	Offset *int `form:"offset"`
}

// PhotoUpload is an uploaded photo ready to be streamed to storage.
type PhotoUpload struct {
	FileName    string
	ContentType string
	Size        int64
	Content     io.Reader
}

type ReviewerResponse struct {
	Name  string  `json:"name"`
	Phone *string `json:"phone"`
}

type SubmissionResponse struct {
	ID            uuid.UUID         `json:"id"`
	Province      string            `json:"province"`
	Regency       string            `json:"regency"`
	District      string            `json:"district"`
	Village       string            `json:"village"`
	Address       string            `json:"address"`
	Latitude      float64           `json:"latitude"`
	Longitude     float64           `json:"longitude"`
	ObjectType    string            `json:"objectType"`
	LandTitle     string            `json:"landTitle"`
	FloorCount    int               `json:"floorCount"`
	FrontageWidth float64           `json:"frontageWidth"`
	Depth         float64           `json:"depth"`
	Area          float64           `json:"area"`
	RentPrice     float64           `json:"rentPrice"`
	OwnerName     string            `json:"ownerName"`
	OwnerPhone    string            `json:"ownerPhone"`
	PhotoPath     *string           `json:"photoPath"`
	PhotoURL      *string           `json:"photoUrl"`
	Status        string            `json:"status"`
	Reviewer      *ReviewerResponse `json:"reviewer"`
	ApprovedAt    *time.Time        `json:"approvedAt"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
	Edited        bool              `json:"edited"`
}

// StageResponse is one timeline stage. DisplayDetail is Detail with dates
// rendered for humans.
type StageResponse struct {
	Name          string `json:"name"`
	State         string `json:"state"`
	Detail        string `json:"detail"`
	DisplayDetail string `json:"displayDetail"`
}

type StatusBlockResponse struct {
	Status       string            `json:"status"`
	KPLTVerdict  *string           `json:"kpltVerdict"`
	VerdictClass string            `json:"verdictClass"`
	Reviewer     *ReviewerResponse `json:"reviewer"`
	Timeline     []StageResponse   `json:"timeline"`
}

type SubmissionDetailResponse struct {
	SubmissionResponse
	StatusBlock StatusBlockResponse `json:"statusBlock"`
}

type SubmissionListResponse struct {
	Data   []SubmissionResponse `json:"data"`
	Count  int                  `json:"count"`
	Limit  int                  `json:"limit"`
	Offset int                  `json:"offset"`
}

type SubmissionEnvelope struct {
	Data SubmissionResponse `json:"data"`
}

type SubmissionDetailEnvelope struct {
	Data SubmissionDetailResponse `json:"data"`
}

type DeleteResponse struct {
	Success bool `json:"success"`
}
