// Package achievement provides achievement definitions and per-user tier
// progression.
package achievement

// Type categorizes how an achievement's progress counter is driven.
type Type string

// Achievement type constants. streak and cumulative currently both advance
// by one per completed workout; true streak windows are computed elsewhere.
const (
	TypeStreak          Type = "streak"
	TypeMetricThreshold Type = "metric_threshold"
	TypeCumulative      Type = "cumulative"
	TypeAIPattern       Type = "ai_pattern"
)

// TierLevel is an ordered milestone level within an achievement.
type TierLevel string

// Tier level constants, in ascending order.
const (
	TierNone    TierLevel = "none"
	TierBronze  TierLevel = "bronze"
	TierSilver  TierLevel = "silver"
	TierGold    TierLevel = "gold"
	TierDiamond TierLevel = "diamond"
)

// tierOrder maps tier levels to their position in the progression.
var tierOrder = map[TierLevel]int{
	TierNone:    0,
	TierBronze:  1,
	TierSilver:  2,
	TierGold:    3,
	TierDiamond: 4,
}

// Order returns the tier's position in the progression (none = 0).
func (t TierLevel) Order() int {
	return tierOrder[t]
}

// After reports whether t comes after other in the progression.
func (t TierLevel) After(other TierLevel) bool {
	return t.Order() > other.Order()
}

// Tier pairs a level with the progress threshold that unlocks it.
type Tier struct {
	level     TierLevel
	threshold int64
}

// NewTier creates a tier.
func NewTier(level TierLevel, threshold int64) Tier {
	return Tier{level: level, threshold: threshold}
}

// Level returns the tier level.
func (t Tier) Level() TierLevel { return t.level }

// Threshold returns the progress value required to unlock the tier.
func (t Tier) Threshold() int64 { return t.threshold }

// Definition is a seeded achievement. Read-only at runtime except for admin
// reseeding.
type Definition struct {
	id          string
	name        string
	description string
	category    string
	typ         Type
	tiers       []Tier
	icon        string
	xpReward    int64
	isActive    bool
}

// NewDefinition creates a definition for new instances (not yet persisted).
// Tiers must be ordered ascending by threshold.
func NewDefinition(name, description, category string, typ Type, tiers []Tier, icon string, xpReward int64) Definition {
	ts := make([]Tier, len(tiers))
	copy(ts, tiers)
	return Definition{
		name:        name,
		description: description,
		category:    category,
		typ:         typ,
		tiers:       ts,
		icon:        icon,
		xpReward:    xpReward,
		isActive:    true,
	}
}

// RestoreDefinition reconstructs a persisted definition.
func RestoreDefinition(id, name, description, category string, typ Type, tiers []Tier, icon string, xpReward int64, isActive bool) Definition {
	d := NewDefinition(name, description, category, typ, tiers, icon, xpReward)
	d.id = id
	d.isActive = isActive
	return d
}

// ID returns the definition identifier.
func (d Definition) ID() string { return d.id }

// Name returns the unique achievement name.
func (d Definition) Name() string { return d.name }

// Description returns the human-readable description.
func (d Definition) Description() string { return d.description }

// Category returns the achievement category.
func (d Definition) Category() string { return d.category }

// AchievementType returns the progress type.
func (d Definition) AchievementType() Type { return d.typ }

// Tiers returns the ordered tiers (copy).
func (d Definition) Tiers() []Tier {
	result := make([]Tier, len(d.tiers))
	copy(result, d.tiers)
	return result
}

// Icon returns the icon identifier.
func (d Definition) Icon() string { return d.icon }

// XPReward returns the XP awarded per tier unlock.
func (d Definition) XPReward() int64 { return d.xpReward }

// IsActive reports whether the achievement participates in processing.
func (d Definition) IsActive() bool { return d.isActive }

// TiersAfter returns the tiers strictly after the given level, in order.
// Thresholds are monotonic, so the caller can stop scanning at the first
// tier whose threshold is not yet met.
func (d Definition) TiersAfter(level TierLevel) []Tier {
	var result []Tier
	for _, t := range d.tiers {
		if t.level.After(level) {
			result = append(result, t)
		}
	}
	return result
}

// ProgressIncrement returns the amount a single completed-workout event
// adds to the progress counter. Streaks count each event like cumulative
// ones; no calendar window is applied yet. Threshold and AI-pattern
// achievements are driven by other signals and do not advance here.
func (d Definition) ProgressIncrement() int64 {
	switch d.typ {
	case TypeStreak, TypeCumulative:
		return 1
	default:
		return 0
	}
}
