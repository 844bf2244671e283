// Package user provides per-user experience points and level tracking.
package user

// xpPerLevel is the amount of XP spanned by each level.
const xpPerLevel = 1000

// LevelForXP returns the level implied by a total XP amount. Levels start
// at 1 and advance every 1000 XP.
func LevelForXP(totalXP int64) int64 {
	if totalXP < 0 {
		totalXP = 0
	}
	return totalXP/xpPerLevel + 1
}

// Stats holds a user's accumulated experience points. Level is derived
// from totalXP, never stored independently.
type Stats struct {
	ownerID string
	totalXP int64
}

// NewStats creates an empty stats record for a user.
func NewStats(ownerID string) Stats {
	return Stats{ownerID: ownerID}
}

// RestoreStats reconstructs a persisted stats record.
func RestoreStats(ownerID string, totalXP int64) Stats {
	return Stats{ownerID: ownerID, totalXP: totalXP}
}

// OwnerID returns the owning user id.
func (s Stats) OwnerID() string { return s.ownerID }

// TotalXP returns the accumulated experience points.
func (s Stats) TotalXP() int64 { return s.totalXP }

// Level returns the level derived from total XP.
func (s Stats) Level() int64 { return LevelForXP(s.totalXP) }

// Award returns a copy with the XP total increased. Negative amounts are
// ignored.
func (s Stats) Award(amount int64) Stats {
	if amount > 0 {
		s.totalXP += amount
	}
	return s
}
