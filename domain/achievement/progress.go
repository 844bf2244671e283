package achievement

import "time"

// Unlock is an append-only history entry recording a tier transition.
type Unlock struct {
	tier       TierLevel
	unlockedAt time.Time
	message    string
}

// NewUnlock creates a history entry.
func NewUnlock(tier TierLevel, unlockedAt time.Time, message string) Unlock {
	return Unlock{tier: tier, unlockedAt: unlockedAt, message: message}
}

// Tier returns the unlocked tier.
func (u Unlock) Tier() TierLevel { return u.tier }

// UnlockedAt returns when the tier was unlocked.
func (u Unlock) UnlockedAt() time.Time { return u.unlockedAt }

// Message returns the optional AI-generated congratulation.
func (u Unlock) Message() string { return u.message }

// Progress tracks one user's advancement through one achievement.
// progressValue only increases; currentTier only advances forward through
// the tier ordering; history is append-only.
type Progress struct {
	id            string
	ownerID       string
	achievementID string
	currentTier   TierLevel
	progressValue int64
	unlockedAt    *time.Time
	history       []Unlock
	version       int64
}

// NewProgress creates the initial progress record for a user/achievement
// pair: tier none, zero progress.
func NewProgress(ownerID, achievementID string) Progress {
	return Progress{
		ownerID:       ownerID,
		achievementID: achievementID,
		currentTier:   TierNone,
	}
}

// RestoreProgress reconstructs a persisted progress record.
func RestoreProgress(id, ownerID, achievementID string, currentTier TierLevel, progressValue int64, unlockedAt *time.Time, history []Unlock, version int64) Progress {
	h := make([]Unlock, len(history))
	copy(h, history)
	return Progress{
		id:            id,
		ownerID:       ownerID,
		achievementID: achievementID,
		currentTier:   currentTier,
		progressValue: progressValue,
		unlockedAt:    unlockedAt,
		history:       h,
		version:       version,
	}
}

// ID returns the progress record identifier.
func (p Progress) ID() string { return p.id }

// OwnerID returns the owning user id.
func (p Progress) OwnerID() string { return p.ownerID }

// AchievementID returns the achievement definition id.
func (p Progress) AchievementID() string { return p.achievementID }

// CurrentTier returns the highest unlocked tier.
func (p Progress) CurrentTier() TierLevel { return p.currentTier }

// Value returns the progress counter.
func (p Progress) Value() int64 { return p.progressValue }

// UnlockedAt returns the time of the most recent tier unlock, or nil.
func (p Progress) UnlockedAt() *time.Time { return p.unlockedAt }

// History returns the tier unlock history (copy).
func (p Progress) History() []Unlock {
	result := make([]Unlock, len(p.history))
	copy(result, p.history)
	return result
}

// Version returns the optimistic-concurrency version counter.
func (p Progress) Version() int64 { return p.version }

// Increment returns a copy with the progress counter advanced by delta.
// Negative deltas are ignored; the counter never decreases.
func (p Progress) Increment(delta int64) Progress {
	if delta > 0 {
		p.progressValue += delta
	}
	return p
}

// Advance returns a copy with the tier advanced to the given level and a
// history entry appended. Calls that would move the tier backwards are
// ignored.
func (p Progress) Advance(tier TierLevel, at time.Time, message string) Progress {
	if !tier.After(p.currentTier) {
		return p
	}
	p.currentTier = tier
	p.unlockedAt = &at
	history := make([]Unlock, len(p.history), len(p.history)+1)
	copy(history, p.history)
	p.history = append(history, NewUnlock(tier, at, message))
	return p
}
