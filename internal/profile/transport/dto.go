package transport

import "time"

type RegisterProfileRequest struct {
	FullName string  `json:"fullName" validate:"required,notblank,max=120"`
	Phone    *string `json:"phone" validate:"omitempty,max=30"`
	Company  *string `json:"company" validate:"omitempty,max=120"`
	Address  *string `json:"address" validate:"omitempty,max=500"`
}

type UpdateProfileRequest struct {
	FullName *string `json:"fullName" validate:"omitnil,notblank,max=120"`
	Phone    *string `json:"phone" validate:"omitempty,max=30"`
	Company  *string `json:"company" validate:"omitempty,max=120"`
	Address  *string `json:"address" validate:"omitempty,max=500"`
}

type ProfileResponse struct {
	ID        string    `json:"id"`
	Email     *string   `json:"email"`
	FullName  string    `json:"fullName"`
	Phone     *string   `json:"phone"`
	Company   *string   `json:"company"`
	Address   *string   `json:"address"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ProfileEnvelope struct {
	Data ProfileResponse `json:"data"`
}
