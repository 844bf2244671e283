package persistence

import (
	"encoding/json"
	"time"

	"github.com/stridelabs/stride/domain/achievement"
	"github.com/stridelabs/stride/domain/profile"
	"github.com/stridelabs/stride/domain/user"
	"github.com/stridelabs/stride/domain/vector"
	"github.com/stridelabs/stride/domain/workout"
)

// marshalJSON serializes v, returning "" when serialization fails or the
// value is nil. Stored JSON is produced by our own code, so failures here
// indicate a programming error, not bad input.
func marshalJSON(v any) string {
	if v == nil {
		return ""
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(raw)
}

// unmarshalJSON deserializes raw into v, leaving v untouched on empty or
// malformed input.
func unmarshalJSON(raw string, v any) {
	if raw == "" {
		return
	}
	_ = json.Unmarshal([]byte(raw), v)
}

// WorkoutMapper maps between domain Workout and WorkoutModel.
type WorkoutMapper struct{}

// ToDomain converts a WorkoutModel to a domain Workout.
func (m WorkoutMapper) ToDomain(e WorkoutModel) workout.Workout {
	var exercises []workout.Exercise
	unmarshalJSON(e.ExercisesJSON, &exercises)
	return workout.RestoreWorkout(e.ID, e.OwnerID, e.Title, e.Description, exercises, e.PerformedAt, e.CreatedAt)
}

// ToModel converts a domain Workout to a WorkoutModel.
func (m WorkoutMapper) ToModel(w workout.Workout) WorkoutModel {
	return WorkoutModel{
		ID:            w.ID(),
		OwnerID:       w.OwnerID(),
		Title:         w.Title(),
		Description:   w.Description(),
		ExercisesJSON: marshalJSON(w.Exercises()),
		PerformedAt:   w.PerformedAt(),
		CreatedAt:     w.CreatedAt(),
	}
}

// SummaryMapper maps between domain Summary and SummaryModel.
type SummaryMapper struct{}

// ToDomain converts a SummaryModel to a domain Summary.
func (m SummaryMapper) ToDomain(e SummaryModel) workout.Summary {
	var facts workout.Facts
	unmarshalJSON(e.FactsJSON, &facts)
	return workout.RestoreSummary(
		e.ID, e.WorkoutID, e.OwnerID,
		workout.SummaryStatus(e.Status),
		e.Text, facts, e.CreatedAt, e.UpdatedAt,
	)
}

// ToModel converts a domain Summary to a SummaryModel.
func (m SummaryMapper) ToModel(s workout.Summary) SummaryModel {
	factsJSON := ""
	if !s.Facts().IsZero() {
		factsJSON = marshalJSON(s.Facts())
	}
	return SummaryModel{
		ID:        s.ID(),
		WorkoutID: s.WorkoutID(),
		OwnerID:   s.OwnerID(),
		Status:    string(s.Status()),
		Text:      s.Text(),
		FactsJSON: factsJSON,
		CreatedAt: s.CreatedAt(),
		UpdatedAt: s.UpdatedAt(),
	}
}

// EmbeddingMapper maps between domain vector Records and EmbeddingModel.
type EmbeddingMapper struct{}

// ToDomain converts an EmbeddingModel to a domain Record.
func (m EmbeddingMapper) ToDomain(e EmbeddingModel) vector.Record {
	return vector.RestoreRecord(
		e.ID, e.OwnerID,
		vector.ReferenceKind(e.ReferenceKind), e.ReferenceID,
		e.Embedding, e.SourceText, e.CreatedAt,
	)
}

// ToModel converts a domain Record to an EmbeddingModel.
func (m EmbeddingMapper) ToModel(r vector.Record) EmbeddingModel {
	return EmbeddingModel{
		ID:            r.ID(),
		OwnerID:       r.OwnerID(),
		ReferenceKind: string(r.ReferenceKind()),
		ReferenceID:   r.ReferenceID(),
		Embedding:     Float64Slice(r.Embedding()),
		SourceText:    r.SourceText(),
		CreatedAt:     r.CreatedAt(),
	}
}

// ProfileMapper maps between domain Profile and ProfileModel.
type ProfileMapper struct{}

// ToDomain converts a ProfileModel to a domain Profile.
func (m ProfileMapper) ToDomain(e ProfileModel) profile.Profile {
	var summaryJSON map[string]any
	unmarshalJSON(e.SummaryJSON, &summaryJSON)
	var biometrics profile.Biometrics
	unmarshalJSON(e.BiometricsJSON, &biometrics)
	return profile.RestoreProfile(e.OwnerID, e.SummaryText, summaryJSON, biometrics, e.Version, e.UpdatedAt)
}

// ToModel converts a domain Profile to a ProfileModel.
func (m ProfileMapper) ToModel(p profile.Profile) ProfileModel {
	biometricsJSON := ""
	if !p.Biometrics().IsZero() {
		biometricsJSON = marshalJSON(p.Biometrics())
	}
	return ProfileModel{
		OwnerID:        p.OwnerID(),
		SummaryText:    p.SummaryText(),
		SummaryJSON:    marshalJSON(p.SummaryJSON()),
		BiometricsJSON: biometricsJSON,
		Version:        p.Version(),
		UpdatedAt:      p.UpdatedAt(),
	}
}

// tierRecord is the JSON shape of one tier inside AchievementModel.
type tierRecord struct {
	Level     string `json:"level"`
	Threshold int64  `json:"threshold"`
}

// AchievementMapper maps between domain Definitions and AchievementModel.
type AchievementMapper struct{}

// ToDomain converts an AchievementModel to a domain Definition.
func (m AchievementMapper) ToDomain(e AchievementModel) achievement.Definition {
	var records []tierRecord
	unmarshalJSON(e.TiersJSON, &records)
	tiers := make([]achievement.Tier, len(records))
	for i, r := range records {
		tiers[i] = achievement.NewTier(achievement.TierLevel(r.Level), r.Threshold)
	}
	return achievement.RestoreDefinition(
		e.ID, e.Name, e.Description, e.Category,
		achievement.Type(e.Type), tiers, e.Icon, e.XPReward, e.IsActive,
	)
}

// ToModel converts a domain Definition to an AchievementModel.
func (m AchievementMapper) ToModel(d achievement.Definition) AchievementModel {
	tiers := d.Tiers()
	records := make([]tierRecord, len(tiers))
	for i, t := range tiers {
		records[i] = tierRecord{Level: string(t.Level()), Threshold: t.Threshold()}
	}
	return AchievementModel{
		ID:          d.ID(),
		Name:        d.Name(),
		Description: d.Description(),
		Category:    d.Category(),
		Type:        string(d.AchievementType()),
		TiersJSON:   marshalJSON(records),
		Icon:        d.Icon(),
		XPReward:    d.XPReward(),
		IsActive:    d.IsActive(),
	}
}

// unlockRecord is the JSON shape of one history entry inside ProgressModel.
type unlockRecord struct {
	Tier       string    `json:"tier"`
	UnlockedAt time.Time `json:"unlockedAt"`
	Message    string    `json:"message,omitempty"`
}

// ProgressMapper maps between domain Progress and ProgressModel.
type ProgressMapper struct{}

// ToDomain converts a ProgressModel to a domain Progress.
func (m ProgressMapper) ToDomain(e ProgressModel) achievement.Progress {
	var records []unlockRecord
	unmarshalJSON(e.HistoryJSON, &records)
	history := make([]achievement.Unlock, len(records))
	for i, r := range records {
		history[i] = achievement.NewUnlock(achievement.TierLevel(r.Tier), r.UnlockedAt, r.Message)
	}
	return achievement.RestoreProgress(
		e.ID, e.OwnerID, e.AchievementID,
		achievement.TierLevel(e.CurrentTier),
		e.ProgressValue, e.UnlockedAt, history, e.Version,
	)
}

// ToModel converts a domain Progress to a ProgressModel.
func (m ProgressMapper) ToModel(p achievement.Progress) ProgressModel {
	history := p.History()
	records := make([]unlockRecord, len(history))
	for i, u := range history {
		records[i] = unlockRecord{Tier: string(u.Tier()), UnlockedAt: u.UnlockedAt(), Message: u.Message()}
	}
	return ProgressModel{
		ID:            p.ID(),
		OwnerID:       p.OwnerID(),
		AchievementID: p.AchievementID(),
		CurrentTier:   string(p.CurrentTier()),
		ProgressValue: p.Value(),
		UnlockedAt:    p.UnlockedAt(),
		HistoryJSON:   marshalJSON(records),
		Version:       p.Version(),
	}
}

// UserMapper maps between domain user Stats and UserModel.
type UserMapper struct{}

// ToDomain converts a UserModel to domain Stats.
func (m UserMapper) ToDomain(e UserModel) user.Stats {
	return user.RestoreStats(e.ID, e.TotalXP)
}

// ToModel converts domain Stats to a UserModel.
func (m UserMapper) ToModel(s user.Stats) UserModel {
	return UserModel{
		ID:      s.OwnerID(),
		TotalXP: s.TotalXP(),
	}
}
