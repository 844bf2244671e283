package dto

import (
	"time"

	"github.com/stridelabs/stride/domain/profile"
)

// UpdateProfileRequest is the body of PUT /api/v1/profile.
type UpdateProfileRequest struct {
	SummaryText string             `json:"summary_text,omitempty"`
	Biometrics  profile.Biometrics `json:"biometrics,omitempty"`
}

// ProfileResponse is the aggregated profile view.
type ProfileResponse struct {
	OwnerID      string             `json:"owner_id"`
	SummaryText  string             `json:"summary_text,omitempty"`
	Biometrics   profile.Biometrics `json:"biometrics,omitempty"`
	Version      int64              `json:"version"`
	UpdatedAt    time.Time          `json:"updated_at"`
	TotalXP      int64              `json:"total_xp"`
	Level        int64              `json:"level"`
	Achievements []ProgressResponse `json:"achievements,omitempty"`
}
