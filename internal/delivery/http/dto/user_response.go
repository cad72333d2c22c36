package dto

import (
	"time"

	"jobboard/internal/domain/user"

	"github.com/google/uuid"
)

// UserResponse is the public view of a user; it never carries credentials.
type UserResponse struct {
	ID         uuid.UUID         `json:"id"`
	Name       string            `json:"name"`
	Email      string            `json:"email"`
	Role       string            `json:"role"`
	Avatar     string            `json:"avatar,omitempty"`
	Bio        string            `json:"bio,omitempty"`
	Skills     []string          `json:"skills"`
	Experience []user.Experience `json:"experience,omitempty"`
	Education  []user.Education  `json:"education,omitempty"`
	Social     user.Social       `json:"social"`
	CreatedAt  time.Time         `json:"created_at"`
}

func NewUserResponse(u user.User) *UserResponse {
	skills := u.Skills
	if skills == nil {
		skills = []string{}
	}
	return &UserResponse{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       string(u.Role),
		Avatar:     u.Avatar,
		Bio:        u.Bio,
		Skills:     skills,
		Experience: u.Experience,
		Education:  u.Education,
		Social:     u.Social,
		CreatedAt:  u.CreatedAt,
	}
}
