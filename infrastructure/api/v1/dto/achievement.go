package dto

import "time"

// TierResponse is one tier within an achievement definition.
type TierResponse struct {
	Level     string `json:"level"`
	Threshold int64  `json:"threshold"`
}

// AchievementResponse represents an achievement definition.
type AchievementResponse struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Category    string         `json:"category,omitempty"`
	Type        string         `json:"type"`
	Tiers       []TierResponse `json:"tiers"`
	Icon        string         `json:"icon,omitempty"`
	XPReward    int64          `json:"xp_reward"`
}

// AchievementListResponse is the body of GET /api/v1/achievements.
type AchievementListResponse struct {
	Data []AchievementResponse `json:"data"`
}

// UnlockResponse is one entry in a progress unlock history.
type UnlockResponse struct {
	Tier       string    `json:"tier"`
	UnlockedAt time.Time `json:"unlocked_at"`
	Message    string    `json:"message,omitempty"`
}

// ProgressResponse represents a user's progress on one achievement.
type ProgressResponse struct {
	AchievementID string           `json:"achievement_id"`
	CurrentTier   string           `json:"current_tier"`
	Value         int64            `json:"value"`
	UnlockedAt    *time.Time       `json:"unlocked_at,omitempty"`
	History       []UnlockResponse `json:"history,omitempty"`
}

// ProgressListResponse is the body of GET /api/v1/achievements/progress.
type ProgressListResponse struct {
	Data []ProgressResponse `json:"data"`
}
